package handlers

import (
	"context"
	"strconv"
	"strings"

	"github.com/celestix/gotgproto/dispatcher"
	"github.com/celestix/gotgproto/ext"
	"github.com/charmbracelet/log"
	"github.com/hikarime/stashbot/config"
	"github.com/hikarime/stashbot/database"
)

// Set by client/bot at startup; the handler package cannot import it without
// a cycle.
var (
	CloneLauncher func(ctx context.Context, clone *database.CloneBot) error
	CloneStopper  func(botID int64)
)

// handleCloneCmd provisions a clone of this bot from a bot token. The clone
// shares the database and log channel and registers the same handler set.
func handleCloneCmd(ctx *ext.Context, update *ext.Update) error {
	logger := log.FromContext(ctx)
	senderID := update.EffectiveUser().GetID()
	if !config.C().Clone.Enable && !config.C().IsAdmin(senderID) {
		ctx.Reply(update, ext.ReplyTextString("Clone mode is disabled on this instance."), nil)
		return dispatcher.EndGroups
	}
	args := strings.Fields(update.EffectiveMessage.Text)
	if len(args) < 2 {
		ctx.Reply(update, ext.ReplyTextString("Usage: /clone <bot token> (from @BotFather)"), nil)
		return dispatcher.EndGroups
	}
	token := args[1]
	botIDStr, _, ok := strings.Cut(token, ":")
	botID, err := strconv.ParseInt(botIDStr, 10, 64)
	if !ok || err != nil {
		ctx.Reply(update, ext.ReplyTextString("That does not look like a bot token."), nil)
		return dispatcher.EndGroups
	}
	if _, err := database.GetCloneBotByOwner(ctx, senderID); err == nil {
		ctx.Reply(update, ext.ReplyTextString("You already run a clone. /deletecloned removes it first."), nil)
		return dispatcher.EndGroups
	}
	if _, err := database.GetCloneBotByBotID(ctx, botID); err == nil {
		ctx.Reply(update, ext.ReplyTextString("That bot is already registered as a clone."), nil)
		return dispatcher.EndGroups
	}
	if CloneLauncher == nil {
		ctx.Reply(update, ext.ReplyTextString("Clone provisioning is not available right now."), nil)
		return dispatcher.EndGroups
	}

	ctx.Reply(update, ext.ReplyTextString("Starting your clone, this takes a few seconds..."), nil)
	clone := &database.CloneBot{OwnerID: senderID, BotID: botID, Token: token}
	if err := CloneLauncher(ctx, clone); err != nil {
		logger.Errorf("Failed to launch clone %d: %s", botID, err)
		ctx.Reply(update, ext.ReplyTextString("Failed to start the clone. Check the token and try again."), nil)
		return dispatcher.EndGroups
	}
	if err := database.CreateCloneBot(ctx, clone); err != nil {
		logger.Errorf("Failed to persist clone %d: %s", botID, err)
		if CloneStopper != nil {
			CloneStopper(botID)
		}
		ctx.Reply(update, ext.ReplyTextString("Failed to register the clone."), nil)
		return dispatcher.EndGroups
	}
	ctx.Reply(update, ext.ReplyTextString("✅ Your clone @"+clone.Username+" is running. It restarts with this instance."), nil)
	return dispatcher.EndGroups
}

func handleDeleteClonedCmd(ctx *ext.Context, update *ext.Update) error {
	logger := log.FromContext(ctx)
	senderID := update.EffectiveUser().GetID()
	clone, err := database.GetCloneBotByOwner(ctx, senderID)
	if err != nil {
		ctx.Reply(update, ext.ReplyTextString("You have no clone registered."), nil)
		return dispatcher.EndGroups
	}
	if CloneStopper != nil {
		CloneStopper(clone.BotID)
	}
	if err := database.DeleteCloneBot(ctx, clone); err != nil {
		logger.Errorf("Failed to delete clone %d: %s", clone.BotID, err)
		ctx.Reply(update, ext.ReplyTextString("Failed to remove the clone."), nil)
		return dispatcher.EndGroups
	}
	ctx.Reply(update, ext.ReplyTextString("Your clone was stopped and removed."), nil)
	return dispatcher.EndGroups
}
