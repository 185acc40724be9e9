package bot

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/celestix/gotgproto"
	"github.com/celestix/gotgproto/dispatcher"
	"github.com/celestix/gotgproto/ext"
	"github.com/celestix/gotgproto/sessionMaker"
	"github.com/charmbracelet/log"
	"github.com/hikarime/stashbot/client/bot/handlers"
	"github.com/hikarime/stashbot/client/middleware"
	"github.com/hikarime/stashbot/config"
	"github.com/hikarime/stashbot/database"
)

// Clone bots share the database and the log channel with the main instance;
// each runs its own gotgproto client with the full handler set.
var (
	clonesMu sync.Mutex
	clones   = make(map[int64]*gotgproto.Client)
)

func cloneSessionName(botID int64) string {
	return fmt.Sprintf("%s.clone-%d", config.C().DB.Session, botID)
}

// launchClone starts a clone client and fills in its bot identity.
func launchClone(ctx context.Context, clone *database.CloneBot) error {
	client, err := gotgproto.NewClient(
		config.C().Telegram.AppID,
		config.C().Telegram.AppHash,
		gotgproto.ClientTypeBot(clone.Token),
		&gotgproto.ClientOpts{
			Session:          sessionMaker.SqlSession(database.GetDialect(cloneSessionName(clone.BotID))),
			DisableCopyright: true,
			Middlewares:      middleware.NewDefaultMiddlewares(ctx, 5*time.Minute),
			Context:          ctx,
			MaxRetries:       config.C().Telegram.RpcRetry,
			AutoFetchReply:   true,
			ErrorHandler: func(ctx *ext.Context, u *ext.Update, s string) error {
				log.FromContext(ctx).Errorf("clone unhandled error: %s", s)
				return dispatcher.EndGroups
			},
		},
	)
	if err != nil {
		return err
	}
	clone.BotID = client.Self.ID
	clone.Username = client.Self.Username
	handlers.Register(client.Dispatcher)

	clonesMu.Lock()
	clones[clone.BotID] = client
	clonesMu.Unlock()
	return nil
}

func stopClone(botID int64) {
	clonesMu.Lock()
	client, ok := clones[botID]
	if ok {
		delete(clones, botID)
	}
	clonesMu.Unlock()
	if ok {
		client.Stop()
	}
}

// StartClones relaunches every persisted clone bot. Called once on startup.
func StartClones(ctx context.Context) {
	logger := log.FromContext(ctx)
	rows, err := database.GetAllCloneBots(ctx)
	if err != nil {
		logger.Errorf("Failed to list clone bots: %s", err)
		return
	}
	for i := range rows {
		clone := rows[i]
		if err := launchClone(ctx, &clone); err != nil {
			logger.Errorf("Failed to relaunch clone @%s: %s", clone.Username, err)
			continue
		}
		logger.Infof("Clone @%s running", clone.Username)
	}
}
