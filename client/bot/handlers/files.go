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

const filesPageSize = 10

func handleFilesCmd(ctx *ext.Context, update *ext.Update) error {
	logger := log.FromContext(ctx)
	user, err := effectiveUser(ctx, update)
	if err != nil {
		logger.Errorf("Failed to load user: %s", err)
		ctx.Reply(update, ext.ReplyTextString("Something went wrong, try again."), nil)
		return dispatcher.EndGroups
	}
	total, err := database.CountUserFiles(ctx, user.ID)
	if err != nil {
		logger.Errorf("Failed to count files: %s", err)
		ctx.Reply(update, ext.ReplyTextString("Failed to list your files."), nil)
		return dispatcher.EndGroups
	}
	if total == 0 {
		ctx.Reply(update, ext.ReplyTextString("You have no stored files yet. Send me one!"), nil)
		return dispatcher.EndGroups
	}
	files, err := database.GetUserFiles(ctx, user.ID, 0, filesPageSize)
	if err != nil {
		logger.Errorf("Failed to list files: %s", err)
		ctx.Reply(update, ext.ReplyTextString("Failed to list your files."), nil)
		return dispatcher.EndGroups
	}
	markup, err := msgelem.BuildFileListMarkup(files, 0, int(total))
	if err != nil {
		logger.Errorf("Failed to build file list: %s", err)
		ctx.Reply(update, ext.ReplyTextString("Failed to list your files."), nil)
		return dispatcher.EndGroups
	}
	ctx.Reply(update, ext.ReplyTextString(fmt.Sprintf("Your files (%d):", total)), &ext.ReplyOpts{Markup: markup})
	return dispatcher.EndGroups
}

func editFileList(ctx *ext.Context, user *database.User, chatID int64, msgID, page int) error {
	total, err := database.CountUserFiles(ctx, user.ID)
	if err != nil {
		return err
	}
	files, err := database.GetUserFiles(ctx, user.ID, page*filesPageSize, filesPageSize)
	if err != nil {
		return err
	}
	markup, err := msgelem.BuildFileListMarkup(files, page, int(total))
	if err != nil {
		return err
	}
	_, err = ctx.EditMessage(chatID, &tg.MessagesEditMessageRequest{
		ID:          msgID,
		Message:     fmt.Sprintf("Your files (%d):", total),
		ReplyMarkup: markup,
	})
	return err
}

func editFileMenu(ctx *ext.Context, file *database.StoredFile, chatID int64, msgID int) error {
	text, markup, err := msgelem.BuildFileMenu(file)
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

func handleFileActionCallback(ctx *ext.Context, update *ext.Update) error {
	logger := log.FromContext(ctx)
	data, ok := msgelem.UnpackCallback[cbdata.FileAction](update.CallbackQuery.Data)
	if !ok {
		ctx.AnswerCallback(msgelem.AlertCallbackAnswer(update.CallbackQuery.GetQueryID(), "This button has expired, run /files again."))
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

	// The page action reuses FileID as the page number.
	if data.Action == "page" {
		if err := editFileList(ctx, user, chatID, msgID, int(data.FileID)); err != nil {
			logger.Errorf("Failed to render file list: %s", err)
		}
		return dispatcher.EndGroups
	}

	file, err := database.GetUserFileByID(ctx, user.ID, data.FileID)
	if err != nil {
		ctx.AnswerCallback(msgelem.AlertCallbackAnswer(queryID, "That file no longer exists."))
		return dispatcher.EndGroups
	}

	switch data.Action {
	case "menu":
		if err := editFileMenu(ctx, file, chatID, msgID); err != nil {
			logger.Errorf("Failed to render file menu: %s", err)
		}

	case "share":
		token, err := database.EnsureFileToken(ctx, file)
		if err != nil {
			logger.Errorf("Failed to issue file token: %s", err)
			ctx.AnswerCallback(msgelem.AlertCallbackAnswer(queryID, "Failed to build the share link."))
			return dispatcher.EndGroups
		}
		sendFileShareMessage(ctx, chatID, file, token)

	case "newlink":
		token, err := database.RegenerateFileToken(ctx, file)
		if err != nil {
			logger.Errorf("Failed to regenerate file token: %s", err)
			ctx.AnswerCallback(msgelem.AlertCallbackAnswer(queryID, "Failed to change the link."))
			return dispatcher.EndGroups
		}
		ctx.AnswerCallback(msgelem.AlertCallbackAnswer(queryID, "Old links to this file stopped working."))
		sendFileShareMessage(ctx, chatID, file, token)

	case "send":
		return sendStoredFile(ctx, update, file)

	case "move":
		folders, err := database.GetUserFolders(ctx, user.ID)
		if err != nil {
			logger.Errorf("Failed to list folders: %s", err)
			return dispatcher.EndGroups
		}
		markup, err := msgelem.BuildMoveTargetsMarkup(file.ID, folders)
		if err != nil {
			logger.Errorf("Failed to build move targets: %s", err)
			return dispatcher.EndGroups
		}
		ctx.EditMessage(chatID, &tg.MessagesEditMessageRequest{
			ID:          msgID,
			Message:     fmt.Sprintf("Move \"%s\" to:", file.FileName),
			ReplyMarkup: markup,
		})

	case "protect":
		if err := database.SetFileProtected(ctx, file, !file.Protected); err != nil {
			logger.Errorf("Failed to toggle protection: %s", err)
			return dispatcher.EndGroups
		}
		file.Protected = !file.Protected
		editFileMenu(ctx, file, chatID, msgID)

	case "pwset":
		core.Flow().Expect(chatID, flow.SetFilePassword{FileID: file.ID})
		ctx.SendMessage(chatID, &tg.MessagesSendMessageRequest{
			Message: "Send the file password (2 to 8 characters).",
		})

	case "pwdel":
		if err := database.RemoveFilePassword(ctx, file); err != nil {
			logger.Errorf("Failed to remove file password: %s", err)
			return dispatcher.EndGroups
		}
		file.Password = nil
		ctx.AnswerCallback(msgelem.AlertCallbackAnswer(queryID, "Password removed."))
		editFileMenu(ctx, file, chatID, msgID)

	case "delete":
		if err := database.DeleteFile(ctx, file); err != nil {
			logger.Errorf("Failed to delete file: %s", err)
			ctx.AnswerCallback(msgelem.AlertCallbackAnswer(queryID, "Failed to delete the file."))
			return dispatcher.EndGroups
		}
		ctx.AnswerCallback(msgelem.AlertCallbackAnswer(queryID, "File deleted. Its share links no longer resolve."))
		if err := editFileList(ctx, user, chatID, msgID, 0); err != nil {
			logger.Errorf("Failed to render file list: %s", err)
		}
	}
	return dispatcher.EndGroups
}

func handleFileMoveCallback(ctx *ext.Context, update *ext.Update) error {
	logger := log.FromContext(ctx)
	data, ok := msgelem.UnpackCallback[cbdata.FileMove](update.CallbackQuery.Data)
	if !ok {
		ctx.AnswerCallback(msgelem.AlertCallbackAnswer(update.CallbackQuery.GetQueryID(), "This button has expired, run /files again."))
		return dispatcher.EndGroups
	}
	user, err := effectiveUser(ctx, update)
	if err != nil {
		logger.Errorf("Failed to load user: %s", err)
		return dispatcher.EndGroups
	}
	file, err := database.GetUserFileByID(ctx, user.ID, data.FileID)
	if err != nil {
		ctx.AnswerCallback(msgelem.AlertCallbackAnswer(update.CallbackQuery.GetQueryID(), "That file no longer exists."))
		return dispatcher.EndGroups
	}

	path := ""
	if data.FolderID != 0 {
		folder, err := database.GetFolderByID(ctx, user.ID, data.FolderID)
		if err != nil {
			ctx.AnswerCallback(msgelem.AlertCallbackAnswer(update.CallbackQuery.GetQueryID(), "That folder no longer exists."))
			return dispatcher.EndGroups
		}
		path = folder.Path
	}
	if err := database.MoveFile(ctx, file, path); err != nil {
		logger.Errorf("Failed to move file: %s", err)
		ctx.AnswerCallback(msgelem.AlertCallbackAnswer(update.CallbackQuery.GetQueryID(), "Failed to move the file."))
		return dispatcher.EndGroups
	}
	if path == "" {
		file.FolderPath = nil
	} else {
		file.FolderPath = &path
	}
	editFileMenu(ctx, file, update.CallbackQuery.GetUserID(), update.CallbackQuery.GetMsgID())
	return dispatcher.EndGroups
}

func sendFileShareMessage(ctx *ext.Context, chatID int64, file *database.StoredFile, token string) {
	link := deeplink.FileTokenLink(ctx.Self.Username, token)
	_, markup := msgelem.BuildShareMessage(file.FileName, link)
	ctx.SendMessage(chatID, &tg.MessagesSendMessageRequest{
		Message:     fmt.Sprintf("%s\n%s", file.FileName, link),
		ReplyMarkup: markup,
		NoWebpage:   true,
	})
}
