package handlers

import (
	"github.com/celestix/gotgproto/dispatcher"
	"github.com/celestix/gotgproto/ext"
	"github.com/charmbracelet/log"
	"github.com/gotd/td/tg"
	"github.com/hikarime/stashbot/client/bot/handlers/utils/msgelem"
	"github.com/hikarime/stashbot/core"
	"github.com/hikarime/stashbot/database"
	"github.com/hikarime/stashbot/pkg/cbdata"
	"github.com/hikarime/stashbot/pkg/flow"
)

func handleDestCallback(ctx *ext.Context, update *ext.Update) error {
	logger := log.FromContext(ctx)
	data, ok := msgelem.UnpackCallback[cbdata.Dest](update.CallbackQuery.Data)
	if !ok {
		ctx.AnswerCallback(msgelem.AlertCallbackAnswer(update.CallbackQuery.GetQueryID(), "This button has expired, run /settings again."))
		return dispatcher.EndGroups
	}
	user, err := effectiveUser(ctx, update)
	if err != nil {
		logger.Errorf("Failed to load user: %s", err)
		return dispatcher.EndGroups
	}
	chatID := update.CallbackQuery.GetUserID()
	msgID := update.CallbackQuery.GetMsgID()
	queryID := update.CallbackQuery.GetQueryID()

	if data.Action == "add" {
		core.Flow().Expect(chatID, flow.AddDestination{})
		ctx.SendMessage(chatID, &tg.MessagesSendMessageRequest{
			Message: "Send the destination as a -100... id or @username. Append \"group\" for a forum group.",
		})
		return dispatcher.EndGroups
	}
	if data.Action == "back" {
		if err := editSettings(ctx, user, chatID, msgID); err != nil {
			logger.Errorf("Failed to render settings: %s", err)
		}
		return dispatcher.EndGroups
	}

	dest, err := database.GetDestinationByID(ctx, user.ID, data.DestID)
	if err != nil {
		ctx.AnswerCallback(msgelem.AlertCallbackAnswer(queryID, "That destination no longer exists."))
		return dispatcher.EndGroups
	}

	switch data.Action {
	case "detail":
		editDestDetail(ctx, dest, chatID, msgID)

	case "toggle":
		if err := database.ToggleDestination(ctx, dest); err != nil {
			logger.Errorf("Failed to toggle destination: %s", err)
			return dispatcher.EndGroups
		}
		editDestDetail(ctx, dest, chatID, msgID)

	case "remove":
		if err := database.DeleteDestination(ctx, dest); err != nil {
			logger.Errorf("Failed to delete destination: %s", err)
			ctx.AnswerCallback(msgelem.AlertCallbackAnswer(queryID, "Failed to remove the destination."))
			return dispatcher.EndGroups
		}
		ctx.AnswerCallback(msgelem.AlertCallbackAnswer(queryID, "Destination removed."))
		if err := editSettings(ctx, user, chatID, msgID); err != nil {
			logger.Errorf("Failed to render settings: %s", err)
		}

	case "topic":
		core.Flow().Expect(chatID, flow.EditTopic{DestID: dest.ID})
		ctx.SendMessage(chatID, &tg.MessagesSendMessageRequest{
			Message: "Send the topic id, optionally followed by a name. Example: 42 memes",
		})
	}
	return dispatcher.EndGroups
}

func editDestDetail(ctx *ext.Context, dest *database.Destination, chatID int64, msgID int) {
	text, markup, err := msgelem.BuildDestDetailMessage(dest)
	if err != nil {
		log.Errorf("Failed to build destination detail: %s", err)
		return
	}
	ctx.EditMessage(chatID, &tg.MessagesEditMessageRequest{
		ID:          msgID,
		Message:     text,
		ReplyMarkup: markup,
	})
}
