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
	"github.com/hikarime/stashbot/pkg/deeplink"
	"github.com/hikarime/stashbot/pkg/flow"
)

func handleFoldersCmd(ctx *ext.Context, update *ext.Update) error {
	logger := log.FromContext(ctx)
	user, err := effectiveUser(ctx, update)
	if err != nil {
		logger.Errorf("Failed to load user: %s", err)
		ctx.Reply(update, ext.ReplyTextString("Something went wrong, try again."), nil)
		return dispatcher.EndGroups
	}
	folders, err := database.GetRootFolders(ctx, user.ID)
	if err != nil {
		logger.Errorf("Failed to list folders: %s", err)
		ctx.Reply(update, ext.ReplyTextString("Failed to list your folders."), nil)
		return dispatcher.EndGroups
	}
	if len(folders) == 0 {
		ctx.Reply(update, ext.ReplyTextString("You have no folders yet. Create one with /createfolder."), nil)
		return dispatcher.EndGroups
	}
	markup, err := msgelem.BuildFolderRootsMarkup(folders, 0)
	if err != nil {
		logger.Errorf("Failed to build folder browser: %s", err)
		ctx.Reply(update, ext.ReplyTextString("Failed to list your folders."), nil)
		return dispatcher.EndGroups
	}
	ctx.Reply(update, ext.ReplyTextString("Your folders:"), &ext.ReplyOpts{Markup: markup})
	return dispatcher.EndGroups
}

func editFolderRoots(ctx *ext.Context, user *database.User, chatID int64, msgID, page int) error {
	folders, err := database.GetRootFolders(ctx, user.ID)
	if err != nil {
		return err
	}
	markup, err := msgelem.BuildFolderRootsMarkup(folders, page)
	if err != nil {
		return err
	}
	text := "Your folders:"
	if len(folders) == 0 {
		text = "You have no folders yet. Create one with /createfolder."
	}
	_, err = ctx.EditMessage(chatID, &tg.MessagesEditMessageRequest{
		ID:          msgID,
		Message:     text,
		ReplyMarkup: markup,
	})
	return err
}

func editFolderMenu(ctx *ext.Context, user *database.User, folder *database.Folder, chatID int64, msgID int) error {
	subfolders, err := database.GetSubfolders(ctx, user.ID, folder.Path)
	if err != nil {
		return err
	}
	files, err := database.GetFilesInFolderRecursive(ctx, user.ID, folder.Path)
	if err != nil {
		return err
	}
	selected := user.SelectedFolderID != nil && *user.SelectedFolderID == folder.ID
	text, markup, err := msgelem.BuildFolderMenu(folder, subfolders, int64(len(files)), selected)
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

func handleFolderBrowseCallback(ctx *ext.Context, update *ext.Update) error {
	logger := log.FromContext(ctx)
	data, ok := msgelem.UnpackCallback[cbdata.FolderBrowse](update.CallbackQuery.Data)
	if !ok {
		ctx.AnswerCallback(msgelem.AlertCallbackAnswer(update.CallbackQuery.GetQueryID(), "This button has expired, run /folders again."))
		return dispatcher.EndGroups
	}
	user, err := effectiveUser(ctx, update)
	if err != nil {
		logger.Errorf("Failed to load user: %s", err)
		return dispatcher.EndGroups
	}
	chatID := update.CallbackQuery.GetUserID()
	msgID := update.CallbackQuery.GetMsgID()

	if data.FolderID == 0 {
		if err := editFolderRoots(ctx, user, chatID, msgID, data.Page); err != nil {
			logger.Errorf("Failed to render folder list: %s", err)
		}
		return dispatcher.EndGroups
	}
	folder, err := database.GetFolderByID(ctx, user.ID, data.FolderID)
	if err != nil {
		ctx.AnswerCallback(msgelem.AlertCallbackAnswer(update.CallbackQuery.GetQueryID(), "That folder no longer exists."))
		return dispatcher.EndGroups
	}
	if err := editFolderMenu(ctx, user, folder, chatID, msgID); err != nil {
		logger.Errorf("Failed to render folder menu: %s", err)
	}
	return dispatcher.EndGroups
}

func handleFolderActionCallback(ctx *ext.Context, update *ext.Update) error {
	logger := log.FromContext(ctx)
	data, ok := msgelem.UnpackCallback[cbdata.FolderAction](update.CallbackQuery.Data)
	if !ok {
		ctx.AnswerCallback(msgelem.AlertCallbackAnswer(update.CallbackQuery.GetQueryID(), "This button has expired, run /folders again."))
		return dispatcher.EndGroups
	}
	user, err := effectiveUser(ctx, update)
	if err != nil {
		logger.Errorf("Failed to load user: %s", err)
		return dispatcher.EndGroups
	}
	folder, err := database.GetFolderByID(ctx, user.ID, data.FolderID)
	if err != nil {
		ctx.AnswerCallback(msgelem.AlertCallbackAnswer(update.CallbackQuery.GetQueryID(), "That folder no longer exists."))
		return dispatcher.EndGroups
	}
	chatID := update.CallbackQuery.GetUserID()
	msgID := update.CallbackQuery.GetMsgID()
	queryID := update.CallbackQuery.GetQueryID()

	switch data.Action {
	case "share":
		token, err := database.EnsureFolderToken(ctx, folder)
		if err != nil {
			logger.Errorf("Failed to issue folder token: %s", err)
			ctx.AnswerCallback(msgelem.AlertCallbackAnswer(queryID, "Failed to build the share link."))
			return dispatcher.EndGroups
		}
		sendFolderShareMessage(ctx, chatID, folder, token)

	case "newlink":
		token, err := database.RegenerateFolderToken(ctx, folder)
		if err != nil {
			logger.Errorf("Failed to regenerate folder token: %s", err)
			ctx.AnswerCallback(msgelem.AlertCallbackAnswer(queryID, "Failed to change the link."))
			return dispatcher.EndGroups
		}
		ctx.AnswerCallback(msgelem.AlertCallbackAnswer(queryID, "Old links to this folder stopped working."))
		sendFolderShareMessage(ctx, chatID, folder, token)

	case "select":
		if err := database.SetSelectedFolder(ctx, user, folder.ID); err != nil {
			logger.Errorf("Failed to select folder: %s", err)
			return dispatcher.EndGroups
		}
		ctx.AnswerCallback(msgelem.AlertCallbackAnswer(queryID, fmt.Sprintf("New uploads will land in \"%s\".", folder.Path)))
		user, err = effectiveUser(ctx, update)
		if err == nil {
			editFolderMenu(ctx, user, folder, chatID, msgID)
		}

	case "getall":
		files, err := database.GetFilesInFolderRecursive(ctx, user.ID, folder.Path)
		if err != nil {
			logger.Errorf("Failed to list folder files: %s", err)
			return dispatcher.EndGroups
		}
		if len(files) == 0 {
			ctx.AnswerCallback(msgelem.AlertCallbackAnswer(queryID, "This folder has no files."))
			return dispatcher.EndGroups
		}
		items, noForwards := batchItems(files)
		return startBatch(ctx, chatID, chatID, items, fmt.Sprintf("📁 %s", folder.Path), noForwards)

	case "rename":
		core.Flow().Expect(chatID, flow.RenameFolder{FolderID: folder.ID, OldPath: folder.Path})
		ctx.SendMessage(chatID, &tg.MessagesSendMessageRequest{
			Message: fmt.Sprintf("Send the new name for \"%s\".", folder.Path),
		})

	case "delete":
		if err := database.DeleteFolderCascade(ctx, user.ID, folder.Path); err != nil {
			logger.Errorf("Failed to delete folder: %s", err)
			ctx.AnswerCallback(msgelem.AlertCallbackAnswer(queryID, "Failed to delete the folder."))
			return dispatcher.EndGroups
		}
		ctx.AnswerCallback(msgelem.AlertCallbackAnswer(queryID, "Folder deleted. Its files are now unorganized."))
		user, err = effectiveUser(ctx, update)
		if err == nil {
			editFolderRoots(ctx, user, chatID, msgID, 0)
		}

	case "pwset":
		core.Flow().Expect(chatID, flow.SetFolderPassword{FolderID: folder.ID})
		ctx.SendMessage(chatID, &tg.MessagesSendMessageRequest{
			Message: fmt.Sprintf("Send the password for \"%s\". Anyone opening its share link will be asked for it.", folder.Path),
		})

	case "pwview":
		if folder.PasswordPlain == nil {
			ctx.AnswerCallback(msgelem.AlertCallbackAnswer(queryID, "This folder has no password."))
			return dispatcher.EndGroups
		}
		ctx.AnswerCallback(msgelem.AlertCallbackAnswer(queryID, "Password: "+*folder.PasswordPlain))

	case "pwdel":
		if err := database.RemoveFolderPassword(ctx, folder); err != nil {
			logger.Errorf("Failed to remove folder password: %s", err)
			return dispatcher.EndGroups
		}
		folder.PasswordHash = nil
		folder.PasswordPlain = nil
		ctx.AnswerCallback(msgelem.AlertCallbackAnswer(queryID, "Password removed."))
		editFolderMenu(ctx, user, folder, chatID, msgID)

	case "sub":
		core.Flow().Expect(chatID, flow.CreateSubfolder{Parent: folder.Path})
		ctx.SendMessage(chatID, &tg.MessagesSendMessageRequest{
			Message: fmt.Sprintf("Send the name of the new subfolder inside \"%s\".", folder.Path),
		})
	}
	return dispatcher.EndGroups
}

func sendFolderShareMessage(ctx *ext.Context, chatID int64, folder *database.Folder, token string) {
	link := deeplink.FolderTokenLink(ctx.Self.Username, token)
	_, markup := msgelem.BuildShareMessage("📁 "+folder.Path, link)
	ctx.SendMessage(chatID, &tg.MessagesSendMessageRequest{
		Message:     fmt.Sprintf("📁 %s\n%s", folder.Path, link),
		ReplyMarkup: markup,
		NoWebpage:   true,
	})
}
