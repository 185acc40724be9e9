package handlers

import (
	"fmt"
	"strings"
	"time"

	"github.com/celestix/gotgproto/dispatcher"
	"github.com/celestix/gotgproto/ext"
	"github.com/charmbracelet/log"
	"github.com/gotd/td/tg"
	"github.com/hikarime/stashbot/config"
	"github.com/hikarime/stashbot/core"
	"github.com/hikarime/stashbot/database"
)

const broadcastDelay = 100 * time.Millisecond

// requireAdmin replies and ends the group chain for non-admins.
func requireAdmin(ctx *ext.Context, update *ext.Update) bool {
	if config.C().IsAdmin(update.EffectiveUser().GetID()) {
		return true
	}
	ctx.Reply(update, ext.ReplyTextString("This command is for admins only."), nil)
	return false
}

func handleStatsCmd(ctx *ext.Context, update *ext.Update) error {
	if !requireAdmin(ctx, update) {
		return dispatcher.EndGroups
	}
	logger := log.FromContext(ctx)
	users, err := database.CountUsers(ctx)
	if err != nil {
		logger.Errorf("Failed to count users: %s", err)
	}
	files, err := database.CountStoredFiles(ctx)
	if err != nil {
		logger.Errorf("Failed to count files: %s", err)
	}
	clones, err := database.CountCloneBots(ctx)
	if err != nil {
		logger.Errorf("Failed to count clones: %s", err)
	}
	ctx.Reply(update, ext.ReplyTextString(fmt.Sprintf(
		"Users: %d\nStored files: %d\nClone bots: %d\nQueued batches: %d",
		users, files, clones, core.QueueLength())), nil)
	return dispatcher.EndGroups
}

func handleBroadcastCmd(ctx *ext.Context, update *ext.Update) error {
	if !requireAdmin(ctx, update) {
		return dispatcher.EndGroups
	}
	logger := log.FromContext(ctx)
	args := strings.SplitN(update.EffectiveMessage.Text, " ", 2)
	if len(args) < 2 || strings.TrimSpace(args[1]) == "" {
		ctx.Reply(update, ext.ReplyTextString("Usage: /broadcast <message>"), nil)
		return dispatcher.EndGroups
	}
	text := args[1]
	users, err := database.GetAllUsers(ctx)
	if err != nil {
		logger.Errorf("Failed to list users: %s", err)
		ctx.Reply(update, ext.ReplyTextString("Failed to list users."), nil)
		return dispatcher.EndGroups
	}
	adminChatID := update.EffectiveUser().GetID()
	go func() {
		sent, failed := 0, 0
		for _, u := range users {
			if _, err := ctx.SendMessage(u.ChatID, &tg.MessagesSendMessageRequest{Message: text}); err != nil {
				failed++
			} else {
				sent++
			}
			time.Sleep(broadcastDelay)
		}
		ctx.SendMessage(adminChatID, &tg.MessagesSendMessageRequest{
			Message: fmt.Sprintf("Broadcast done: %d sent, %d failed.", sent, failed),
		})
	}()
	ctx.Reply(update, ext.ReplyTextString(fmt.Sprintf("Broadcasting to %d user(s)...", len(users))), nil)
	return dispatcher.EndGroups
}

func handleCloneOnCmd(ctx *ext.Context, update *ext.Update) error {
	return setCloneMode(ctx, update, true)
}

func handleCloneOffCmd(ctx *ext.Context, update *ext.Update) error {
	return setCloneMode(ctx, update, false)
}

func setCloneMode(ctx *ext.Context, update *ext.Update, enable bool) error {
	if !requireAdmin(ctx, update) {
		return dispatcher.EndGroups
	}
	config.Set("clone.enable", enable)
	if err := config.ReloadConfig(); err != nil {
		log.FromContext(ctx).Errorf("Failed to persist clone mode: %s", err)
		ctx.Reply(update, ext.ReplyTextString("Failed to persist the setting."), nil)
		return dispatcher.EndGroups
	}
	state := "disabled"
	if enable {
		state = "enabled"
	}
	ctx.Reply(update, ext.ReplyTextString("Clone mode "+state+"."), nil)
	return dispatcher.EndGroups
}

func handleCloneStatusCmd(ctx *ext.Context, update *ext.Update) error {
	if !requireAdmin(ctx, update) {
		return dispatcher.EndGroups
	}
	n, err := database.CountCloneBots(ctx)
	if err != nil {
		log.FromContext(ctx).Errorf("Failed to count clones: %s", err)
	}
	state := "disabled"
	if config.C().Clone.Enable {
		state = "enabled"
	}
	ctx.Reply(update, ext.ReplyTextString(fmt.Sprintf("Clone mode is %s. %d clone bot(s) registered.", state, n)), nil)
	return dispatcher.EndGroups
}
