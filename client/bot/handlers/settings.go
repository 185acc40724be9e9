package handlers

import (
	"github.com/celestix/gotgproto/dispatcher"
	"github.com/celestix/gotgproto/ext"
	"github.com/charmbracelet/log"
	"github.com/gotd/td/tg"
	"github.com/hikarime/stashbot/client/bot/handlers/utils/msgelem"
	"github.com/hikarime/stashbot/database"
)

func handleSettingsCmd(ctx *ext.Context, update *ext.Update) error {
	logger := log.FromContext(ctx)
	user, err := effectiveUser(ctx, update)
	if err != nil {
		logger.Errorf("Failed to load user: %s", err)
		ctx.Reply(update, ext.ReplyTextString("Something went wrong, try again."), nil)
		return dispatcher.EndGroups
	}
	dests, err := database.GetUserDestinations(ctx, user.ID)
	if err != nil {
		logger.Errorf("Failed to list destinations: %s", err)
		ctx.Reply(update, ext.ReplyTextString("Failed to load your settings."), nil)
		return dispatcher.EndGroups
	}
	text, markup, err := msgelem.BuildSettingsMessage(user, dests)
	if err != nil {
		logger.Errorf("Failed to build settings: %s", err)
		ctx.Reply(update, ext.ReplyTextString("Failed to load your settings."), nil)
		return dispatcher.EndGroups
	}
	ctx.Reply(update, ext.ReplyTextString(text), &ext.ReplyOpts{Markup: markup})
	return dispatcher.EndGroups
}

func editSettings(ctx *ext.Context, user *database.User, chatID int64, msgID int) error {
	dests, err := database.GetUserDestinations(ctx, user.ID)
	if err != nil {
		return err
	}
	text, markup, err := msgelem.BuildSettingsMessage(user, dests)
	if err != nil {
		return err
	}
	_, err = ctx.EditMessage(chatID, &tg.MessagesEditMessageRequest{
		ID:          msgID,
		Message:     text,
		ReplyMarkup: markup,
	})
	return err
}

// handleModeCallback cycles the delivery mode pm -> channel -> both -> pm.
func handleModeCallback(ctx *ext.Context, update *ext.Update) error {
	logger := log.FromContext(ctx)
	user, err := effectiveUser(ctx, update)
	if err != nil {
		logger.Errorf("Failed to load user: %s", err)
		return dispatcher.EndGroups
	}
	next := map[string]string{
		database.DeliverPM:      database.DeliverChannel,
		database.DeliverChannel: database.DeliverBoth,
		database.DeliverBoth:    database.DeliverPM,
	}[user.DeliveryMode]
	if next == "" {
		next = database.DeliverChannel
	}
	if err := database.SetDeliveryMode(ctx, user, next); err != nil {
		logger.Errorf("Failed to set delivery mode: %s", err)
		return dispatcher.EndGroups
	}
	user.DeliveryMode = next
	if err := editSettings(ctx, user, update.CallbackQuery.GetUserID(), update.CallbackQuery.GetMsgID()); err != nil {
		logger.Errorf("Failed to render settings: %s", err)
	}
	return dispatcher.EndGroups
}
