package bot

import (
	"context"
	"time"

	"github.com/celestix/gotgproto"
	"github.com/celestix/gotgproto/dispatcher"
	"github.com/celestix/gotgproto/ext"
	"github.com/celestix/gotgproto/sessionMaker"
	"github.com/charmbracelet/log"
	"github.com/gotd/td/tg"
	"github.com/hikarime/stashbot/client/bot/handlers"
	"github.com/hikarime/stashbot/client/middleware"
	"github.com/hikarime/stashbot/config"
	"github.com/hikarime/stashbot/database"
)

var ectx *ext.Context

// ExtContext returns the main bot's context for use outside handlers.
func ExtContext() *ext.Context {
	return ectx
}

func Init(ctx context.Context) {
	log.FromContext(ctx).Info("Initializing Bot...")
	resultChan := make(chan struct {
		client *gotgproto.Client
		err    error
	})

	go func() {
		client, err := gotgproto.NewClient(
			config.C().Telegram.AppID,
			config.C().Telegram.AppHash,
			gotgproto.ClientTypeBot(config.C().Telegram.Token),
			&gotgproto.ClientOpts{
				Session:          sessionMaker.SqlSession(database.GetDialect(config.C().DB.Session)),
				DisableCopyright: true,
				Middlewares:      middleware.NewDefaultMiddlewares(ctx, 5*time.Minute),
				Context:          ctx,
				MaxRetries:       config.C().Telegram.RpcRetry,
				AutoFetchReply:   true,
				ErrorHandler: func(ctx *ext.Context, u *ext.Update, s string) error {
					log.FromContext(ctx).Errorf("unhandled error: %s", s)
					return dispatcher.EndGroups
				},
			},
		)
		if err != nil {
			resultChan <- struct {
				client *gotgproto.Client
				err    error
			}{nil, err}
			return
		}
		commands := make([]tg.BotCommand, 0, len(handlers.CommandHandlers))
		for _, info := range handlers.CommandHandlers {
			commands = append(commands, tg.BotCommand{Command: info.Cmd, Description: info.Desc})
		}
		_, err = client.API().BotsSetBotCommands(ctx, &tg.BotsSetBotCommandsRequest{
			Scope:    &tg.BotCommandScopeDefault{},
			Commands: commands,
		})
		resultChan <- struct {
			client *gotgproto.Client
			err    error
		}{client, err}
	}()

	select {
	case <-ctx.Done():
		log.FromContext(ctx).Errorf("Bot initialization cancelled: %s", ctx.Err())
	case result := <-resultChan:
		if result.err != nil {
			log.FromContext(ctx).Fatalf("Failed to initialize Bot: %s", result.err)
		}
		handlers.Register(result.client.Dispatcher)
		ectx = result.client.CreateContext()
		handlers.CloneLauncher = launchClone
		handlers.CloneStopper = stopClone
		log.FromContext(ctx).Info("Bot initialization completed.")
	}
}
