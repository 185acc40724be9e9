package handlers

import (
	"fmt"

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

// respondText replies when the update carries a message and falls back to a
// plain send for callback updates.
func respondText(ctx *ext.Context, update *ext.Update, text string) {
	if update.EffectiveMessage != nil {
		ctx.Reply(update, ext.ReplyTextString(text), nil)
		return
	}
	ctx.SendMessage(update.EffectiveUser().GetID(), &tg.MessagesSendMessageRequest{Message: text})
}

// presentSharedFolder shows another user's folder to a visitor. Every
// protected ancestor on the way down must be verified before the listing is
// rendered; the first unverified one arms a password prompt carrying the
// target path, so after a correct answer the walk resumes where it left off.
func presentSharedFolder(ctx *ext.Context, update *ext.Update, ownerChatID int64, path string, page, editMsgID int) error {
	logger := log.FromContext(ctx)
	owner, err := database.GetUserByChatID(ctx, ownerChatID)
	if err != nil {
		respondText(ctx, update, "Folder not found.")
		return dispatcher.EndGroups
	}
	if _, err := database.GetFolder(ctx, owner.ID, path); err != nil {
		respondText(ctx, update, "Folder not found.")
		return dispatcher.EndGroups
	}

	viewerID := update.EffectiveUser().GetID()
	if viewerID != ownerChatID {
		for _, ancestor := range database.Ancestry(path) {
			rec, err := database.GetFolder(ctx, owner.ID, ancestor)
			if err != nil || !rec.Protected() {
				continue
			}
			if core.Flow().Verified(flow.FolderKey(viewerID, ownerChatID, ancestor)) {
				continue
			}
			core.Flow().Expect(viewerID, flow.VerifyFolderPassword{OwnerID: ownerChatID, Path: path})
			respondText(ctx, update, fmt.Sprintf("🔒 \"%s\" is password protected. Send the password to continue.", rec.DisplayName()))
			return dispatcher.EndGroups
		}
	}

	subfolders, err := database.GetSubfolders(ctx, owner.ID, path)
	if err != nil {
		logger.Errorf("Failed to list subfolders of %q: %s", path, err)
		respondText(ctx, update, "Failed to open the folder.")
		return dispatcher.EndGroups
	}
	files, err := database.GetFilesInFolder(ctx, owner.ID, path)
	if err != nil {
		logger.Errorf("Failed to list files in %q: %s", path, err)
		respondText(ctx, update, "Failed to open the folder.")
		return dispatcher.EndGroups
	}
	text, markup, err := msgelem.BuildSharedFolderView(ownerChatID, path, subfolders, files, page)
	if err != nil {
		logger.Errorf("Failed to build shared folder view: %s", err)
		respondText(ctx, update, "Failed to open the folder.")
		return dispatcher.EndGroups
	}
	if editMsgID != 0 {
		ctx.EditMessage(viewerID, &tg.MessagesEditMessageRequest{
			ID:          editMsgID,
			Message:     text,
			ReplyMarkup: markup,
		})
	} else {
		ctx.Reply(update, ext.ReplyTextString(text), &ext.ReplyOpts{Markup: markup})
	}
	return dispatcher.EndGroups
}

// deliverSharedFile hands a stored file to the requester, prompting for the
// file password first when one is set and the requester is not the owner.
func deliverSharedFile(ctx *ext.Context, update *ext.Update, file *database.StoredFile) error {
	owner, err := database.GetUserByID(ctx, file.UserID)
	if err != nil {
		respondText(ctx, update, "This file link is no longer valid.")
		return dispatcher.EndGroups
	}
	viewerID := update.EffectiveUser().GetID()
	if file.Password != nil && viewerID != owner.ChatID {
		if !core.Flow().Verified(flow.FileKey(viewerID, owner.ChatID, file.ID)) {
			core.Flow().Expect(viewerID, flow.VerifyFilePassword{OwnerID: owner.ChatID, FileID: file.ID})
			respondText(ctx, update, "🔒 This file is password protected. Send the password to continue.")
			return dispatcher.EndGroups
		}
	}
	return sendStoredFile(ctx, update, file)
}

func sendStoredFile(ctx *ext.Context, update *ext.Update, file *database.StoredFile) error {
	logger := log.FromContext(ctx)
	viewer, err := effectiveUser(ctx, update)
	if err != nil {
		logger.Errorf("Failed to load requester: %s", err)
		respondText(ctx, update, "Something went wrong, try again.")
		return dispatcher.EndGroups
	}
	res, err := core.DeliverFile(ctx, viewer, file, viewer.ChatID)
	if err != nil {
		logger.Errorf("Delivery of file %d failed: %s", file.ID, err)
		respondText(ctx, update, "Failed to fetch the file, it may have been removed.")
		return dispatcher.EndGroups
	}
	if !res.SentPM && res.SentChannels == 0 {
		respondText(ctx, update, "Delivery failed, check your destinations in /settings.")
	}
	return dispatcher.EndGroups
}

func handleSharedCallback(ctx *ext.Context, update *ext.Update) error {
	data, ok := msgelem.UnpackCallback[cbdata.Shared](update.CallbackQuery.Data)
	if !ok {
		ctx.AnswerCallback(msgelem.AlertCallbackAnswer(update.CallbackQuery.GetQueryID(), "This button has expired, open the link again."))
		return dispatcher.EndGroups
	}
	switch data.Action {
	case "open":
		return presentSharedFolder(ctx, update, data.OwnerID, data.Path, 0, update.CallbackQuery.GetMsgID())
	case "page":
		return presentSharedFolder(ctx, update, data.OwnerID, data.Path, data.Page, update.CallbackQuery.GetMsgID())
	case "getall":
		return sendSharedFolderFiles(ctx, update, data.OwnerID, data.Path)
	}
	return dispatcher.EndGroups
}

// sendSharedFolderFiles queues a batch of every file under the folder,
// re-checking the ancestor gate in case the view message outlived the
// verification TTL.
func sendSharedFolderFiles(ctx *ext.Context, update *ext.Update, ownerChatID int64, path string) error {
	logger := log.FromContext(ctx)
	owner, err := database.GetUserByChatID(ctx, ownerChatID)
	if err != nil {
		respondText(ctx, update, "Folder not found.")
		return dispatcher.EndGroups
	}
	viewerID := update.EffectiveUser().GetID()
	if viewerID != ownerChatID {
		for _, ancestor := range database.Ancestry(path) {
			rec, err := database.GetFolder(ctx, owner.ID, ancestor)
			if err != nil || !rec.Protected() {
				continue
			}
			if !core.Flow().Verified(flow.FolderKey(viewerID, ownerChatID, ancestor)) {
				return presentSharedFolder(ctx, update, ownerChatID, path, 0, update.CallbackQuery.GetMsgID())
			}
		}
	}

	files, err := database.GetFilesInFolderRecursive(ctx, owner.ID, path)
	if err != nil {
		logger.Errorf("Failed to list files under %q: %s", path, err)
		respondText(ctx, update, "Failed to open the folder.")
		return dispatcher.EndGroups
	}
	if len(files) == 0 {
		ctx.AnswerCallback(msgelem.AlertCallbackAnswer(update.CallbackQuery.GetQueryID(), "This folder has no files."))
		return dispatcher.EndGroups
	}
	items, noForwards := batchItems(files)
	return startBatch(ctx, viewerID, viewerID, items, fmt.Sprintf("📁 %s", path), noForwards)
}

func handleSharedFileCallback(ctx *ext.Context, update *ext.Update) error {
	data, ok := msgelem.UnpackCallback[cbdata.SharedFile](update.CallbackQuery.Data)
	if !ok {
		ctx.AnswerCallback(msgelem.AlertCallbackAnswer(update.CallbackQuery.GetQueryID(), "This button has expired, open the link again."))
		return dispatcher.EndGroups
	}
	owner, err := database.GetUserByChatID(ctx, data.OwnerID)
	if err != nil {
		respondText(ctx, update, "This file is no longer available.")
		return dispatcher.EndGroups
	}
	file, err := database.GetUserFileByID(ctx, owner.ID, data.FileID)
	if err != nil {
		respondText(ctx, update, "This file is no longer available.")
		return dispatcher.EndGroups
	}
	return deliverSharedFile(ctx, update, file)
}

// batchItems converts stored files into batch manifest entries. The batch is
// sent non-forwardable when any member file is protected.
func batchItems(files []database.StoredFile) ([]cbdata.Item, bool) {
	items := make([]cbdata.Item, 0, len(files))
	noForwards := false
	for _, f := range files {
		items = append(items, cbdata.Item{
			ChatID:    logChannelID(),
			MessageID: f.LogMessageID,
		})
		if f.Protected {
			noForwards = true
		}
	}
	return items, noForwards
}
