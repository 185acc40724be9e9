package handlers

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/celestix/gotgproto/dispatcher"
	"github.com/celestix/gotgproto/ext"
	"github.com/charmbracelet/log"
	"github.com/gotd/td/tg"
	"github.com/hikarime/stashbot/client/bot/handlers/utils/msgelem"
	"github.com/hikarime/stashbot/common/utils/tgutil"
	"github.com/hikarime/stashbot/config"
	"github.com/hikarime/stashbot/core"
	"github.com/hikarime/stashbot/database"
	"github.com/hikarime/stashbot/pkg/cbdata"
	"github.com/hikarime/stashbot/pkg/deeplink"
)

func handleStartCmd(ctx *ext.Context, update *ext.Update) error {
	args := strings.Split(update.EffectiveMessage.Text, " ")
	if len(args) < 2 {
		return sendWelcome(ctx, update)
	}
	return dispatchDeepLink(ctx, update, args[1])
}

func sendWelcome(ctx *ext.Context, update *ext.Update) error {
	name := update.EffectiveUser().FirstName
	text := fmt.Sprintf(
		"Hi %s!\nSend me any file and I will store it and hand you a share link.\n\n"+
			"/folders manages your folders, /files your stored files, /help lists everything else.",
		name)
	ctx.Reply(update, ext.ReplyTextString(text), nil)
	return dispatcher.EndGroups
}

// dispatchDeepLink routes a /start parameter to the flow it addresses.
func dispatchDeepLink(ctx *ext.Context, update *ext.Update, param string) error {
	logger := log.FromContext(ctx)
	payload, err := deeplink.Parse(param)
	if err != nil {
		logger.Debugf("Unparseable start parameter %q: %s", param, err)
		ctx.Reply(update, ext.ReplyTextString("That link is broken or has expired."), nil)
		return dispatcher.EndGroups
	}

	switch p := payload.(type) {
	case deeplink.VerifyPayload:
		ctx.Reply(update, ext.ReplyTextString("Verification is not enabled on this instance."), nil)
		return dispatcher.EndGroups

	case deeplink.RestorePayload:
		return performRestore(ctx, update, p.Token)

	case deeplink.FolderTokenPayload:
		folder, err := database.GetFolderByToken(ctx, p.Token)
		if err != nil {
			ctx.Reply(update, ext.ReplyTextString("This folder link is no longer valid."), nil)
			return dispatcher.EndGroups
		}
		owner, err := database.GetUserByID(ctx, folder.UserID)
		if err != nil {
			logger.Errorf("Failed to resolve folder owner: %s", err)
			ctx.Reply(update, ext.ReplyTextString("This folder link is no longer valid."), nil)
			return dispatcher.EndGroups
		}
		return presentSharedFolder(ctx, update, owner.ChatID, folder.Path, 0, 0)

	case deeplink.SharedFolderPayload:
		return presentSharedFolder(ctx, update, p.OwnerID, p.Path, 0, 0)

	case deeplink.FileTokenPayload:
		file, err := database.GetFileByToken(ctx, p.Token)
		if err != nil {
			ctx.Reply(update, ext.ReplyTextString("This file link is no longer valid."), nil)
			return dispatcher.EndGroups
		}
		return deliverSharedFile(ctx, update, file)

	case deeplink.SharedFilePayload:
		owner, err := database.GetUserByChatID(ctx, p.OwnerID)
		if err != nil {
			ctx.Reply(update, ext.ReplyTextString("This file link is no longer valid."), nil)
			return dispatcher.EndGroups
		}
		file, err := database.GetUserFileByID(ctx, owner.ID, p.FileID)
		if err != nil {
			ctx.Reply(update, ext.ReplyTextString("This file link is no longer valid."), nil)
			return dispatcher.EndGroups
		}
		return deliverSharedFile(ctx, update, file)

	case deeplink.FilePayload:
		// Bare file ids address the requester's own store only; anyone else's
		// files are reachable solely through a share token.
		user, err := effectiveUser(ctx, update)
		if err != nil {
			logger.Errorf("Failed to load user: %s", err)
			ctx.Reply(update, ext.ReplyTextString("This file link is no longer valid."), nil)
			return dispatcher.EndGroups
		}
		file, err := database.GetUserFileByID(ctx, user.ID, p.FileID)
		if err != nil {
			ctx.Reply(update, ext.ReplyTextString("This file link is no longer valid."), nil)
			return dispatcher.EndGroups
		}
		return deliverSharedFile(ctx, update, file)

	case deeplink.LegacyFilePayload:
		file, err := database.GetFileByLogMessageID(ctx, p.MessageID)
		if err != nil {
			ctx.Reply(update, ext.ReplyTextString("This file link is no longer valid."), nil)
			return dispatcher.EndGroups
		}
		return deliverSharedFile(ctx, update, file)

	case deeplink.BatchPayload:
		return presentBatchLink(ctx, update, p.ManifestMessageID)

	default:
		logger.Warnf("Unhandled deep link payload %T", p)
		ctx.Reply(update, ext.ReplyTextString("That link is broken or has expired."), nil)
		return dispatcher.EndGroups
	}
}

// presentBatchLink loads a manifest message from the log channel and offers
// the batch to the requester behind a confirm button.
func presentBatchLink(ctx *ext.Context, update *ext.Update, manifestMsgID int) error {
	logger := log.FromContext(ctx)
	msg, err := tgutil.GetMessage(ctx, config.C().Telegram.LogChannelID, manifestMsgID)
	if err != nil {
		logger.Errorf("Failed to fetch batch manifest %d: %s", manifestMsgID, err)
		ctx.Reply(update, ext.ReplyTextString("This batch link is no longer valid."), nil)
		return dispatcher.EndGroups
	}
	var items []cbdata.Item
	if err := json.Unmarshal([]byte(msg.Message), &items); err != nil || len(items) == 0 {
		logger.Errorf("Bad batch manifest %d: %s", manifestMsgID, err)
		ctx.Reply(update, ext.ReplyTextString("This batch link is no longer valid."), nil)
		return dispatcher.EndGroups
	}

	requesterID := update.EffectiveUser().GetID()
	data, err := msgelem.PackCallback(cbdata.TypeBatch, cbdata.Batch{
		RequesterID: requesterID,
		Items:       items,
		Label:       "Batch",
	})
	if err != nil {
		logger.Errorf("Failed to pack batch callback: %s", err)
		ctx.Reply(update, ext.ReplyTextString("Something went wrong, try the link again."), nil)
		return dispatcher.EndGroups
	}
	markup := msgelem.ButtonGrid([]tg.KeyboardButtonClass{
		&tg.KeyboardButtonCallback{Text: fmt.Sprintf("📦 Send me %d file(s)", len(items)), Data: data},
	}, 1)
	ctx.Reply(update, ext.ReplyTextString(fmt.Sprintf("This link contains %d file(s).", len(items))), &ext.ReplyOpts{
		Markup: markup,
	})
	return dispatcher.EndGroups
}

// startBatch posts a progress message with a stop button and queues the job.
// A plain send plus markup edit works from both message and callback updates.
func startBatch(ctx *ext.Context, requesterID, targetChatID int64, items []cbdata.Item, label string, noForwards bool) error {
	logger := log.FromContext(ctx)

	text := fmt.Sprintf("%s: sending %d file(s)...", label, len(items))
	progress, err := ctx.SendMessage(targetChatID, &tg.MessagesSendMessageRequest{Message: text})
	if err != nil {
		logger.Errorf("Failed to send batch progress message: %s", err)
		return dispatcher.EndGroups
	}
	ctx.EditMessage(targetChatID, &tg.MessagesEditMessageRequest{
		ID:      progress.ID,
		Message: text,
		ReplyMarkup: msgelem.ButtonGrid([]tg.KeyboardButtonClass{
			&tg.KeyboardButtonCallback{Text: "⏹ Stop", Data: []byte("stopbatch")},
		}, 1),
	})

	if _, err := core.Submit(ctx, core.Job{
		RequesterChatID: requesterID,
		TargetChatID:    targetChatID,
		Items:           items,
		Label:           label,
		ProgressMsgID:   progress.ID,
		NoForwards:      noForwards,
	}); err != nil {
		logger.Errorf("Failed to queue batch: %s", err)
		ctx.EditMessage(targetChatID, &tg.MessagesEditMessageRequest{
			ID:      progress.ID,
			Message: "The delivery queue is shutting down, try again later.",
		})
	}
	return dispatcher.EndGroups
}
