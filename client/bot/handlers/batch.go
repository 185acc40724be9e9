package handlers

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/celestix/gotgproto/dispatcher"
	"github.com/celestix/gotgproto/ext"
	"github.com/charmbracelet/log"
	"github.com/gotd/td/tg"
	"github.com/hikarime/stashbot/client/bot/handlers/utils/msgelem"
	"github.com/hikarime/stashbot/core"
	"github.com/hikarime/stashbot/database"
	"github.com/hikarime/stashbot/pkg/cbdata"
	"github.com/hikarime/stashbot/pkg/deeplink"
)

const maxBatchSize = 100

// handleBatchCmd turns the user's n most recent files into a shareable batch
// link. The item list is stored as a JSON manifest message in the log channel
// so the link itself stays small.
func handleBatchCmd(ctx *ext.Context, update *ext.Update) error {
	logger := log.FromContext(ctx)
	user, err := effectiveUser(ctx, update)
	if err != nil {
		logger.Errorf("Failed to load user: %s", err)
		ctx.Reply(update, ext.ReplyTextString("Something went wrong, try again."), nil)
		return dispatcher.EndGroups
	}

	n := 5
	args := strings.Split(update.EffectiveMessage.Text, " ")
	if len(args) > 1 {
		n, err = strconv.Atoi(args[1])
		if err != nil || n < 1 {
			ctx.Reply(update, ext.ReplyTextString("Usage: /batch <count> builds a link for your most recent files."), nil)
			return dispatcher.EndGroups
		}
	}
	if n > maxBatchSize {
		n = maxBatchSize
	}

	files, err := database.GetRecentFiles(ctx, user.ID, n)
	if err != nil {
		logger.Errorf("Failed to list recent files: %s", err)
		ctx.Reply(update, ext.ReplyTextString("Failed to list your files."), nil)
		return dispatcher.EndGroups
	}
	if len(files) == 0 {
		ctx.Reply(update, ext.ReplyTextString("You have no stored files yet."), nil)
		return dispatcher.EndGroups
	}

	items, _ := batchItems(files)
	manifest, err := json.Marshal(items)
	if err != nil {
		logger.Errorf("Failed to marshal batch manifest: %s", err)
		ctx.Reply(update, ext.ReplyTextString("Failed to build the batch link."), nil)
		return dispatcher.EndGroups
	}
	stored, err := ctx.SendMessage(logChannelID(), &tg.MessagesSendMessageRequest{
		Message: string(manifest),
		Silent:  true,
	})
	if err != nil {
		logger.Errorf("Failed to store batch manifest: %s", err)
		ctx.Reply(update, ext.ReplyTextString("Failed to build the batch link."), nil)
		return dispatcher.EndGroups
	}

	link := deeplink.BatchLink(ctx.Self.Username, stored.ID)
	text, markup := msgelem.BuildShareMessage(fmt.Sprintf("📦 Batch of %d file(s)", len(items)), link)
	ctx.Reply(update, ext.ReplyTextStyledTextArray(text), &ext.ReplyOpts{Markup: markup})
	return dispatcher.EndGroups
}

// handleBatchCallback confirms a batch link: only the user who opened the
// link may press the button.
func handleBatchCallback(ctx *ext.Context, update *ext.Update) error {
	data, ok := msgelem.UnpackCallback[cbdata.Batch](update.CallbackQuery.Data)
	if !ok {
		ctx.AnswerCallback(msgelem.AlertCallbackAnswer(update.CallbackQuery.GetQueryID(), "This button has expired, open the link again."))
		return dispatcher.EndGroups
	}
	userID := update.CallbackQuery.GetUserID()
	if data.RequesterID != userID {
		ctx.AnswerCallback(msgelem.AlertCallbackAnswer(update.CallbackQuery.GetQueryID(), "This batch was requested by someone else."))
		return dispatcher.EndGroups
	}
	return startBatch(ctx, userID, userID, data.Items, data.Label, false)
}

func handleStopBatchCallback(ctx *ext.Context, update *ext.Update) error {
	userID := update.CallbackQuery.GetUserID()
	core.Flow().RequestStop(userID)
	ctx.AnswerCallback(msgelem.AlertCallbackAnswer(update.CallbackQuery.GetQueryID(), "Stopping after the current file."))
	return dispatcher.EndGroups
}
