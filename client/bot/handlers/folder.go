package handlers

import (
	"errors"
	"fmt"
	"strings"

	"github.com/celestix/gotgproto/dispatcher"
	"github.com/celestix/gotgproto/ext"
	"github.com/charmbracelet/log"
	"github.com/hikarime/stashbot/core"
	"github.com/hikarime/stashbot/database"
	"github.com/hikarime/stashbot/pkg/flow"
)

func folderErrorText(err error) string {
	switch {
	case errors.Is(err, database.ErrDuplicateFolder):
		return "A folder with that name already exists."
	case errors.Is(err, database.ErrInvalidName):
		return "Folder names cannot be empty or contain \"/\"."
	case errors.Is(err, database.ErrNestingTooDeep):
		return "Subfolders cannot have subfolders of their own."
	default:
		return "Folder operation failed."
	}
}

func handleCreateFolderCmd(ctx *ext.Context, update *ext.Update) error {
	logger := log.FromContext(ctx)
	user, err := effectiveUser(ctx, update)
	if err != nil {
		logger.Errorf("Failed to load user: %s", err)
		ctx.Reply(update, ext.ReplyTextString("Something went wrong, try again."), nil)
		return dispatcher.EndGroups
	}
	args := strings.SplitN(update.EffectiveMessage.Text, " ", 2)
	if len(args) < 2 || strings.TrimSpace(args[1]) == "" {
		core.Flow().Expect(user.ChatID, flow.CreateFolder{})
		ctx.Reply(update, ext.ReplyTextString("Send me the name of the new folder."), nil)
		return dispatcher.EndGroups
	}
	folder, err := database.CreateFolder(ctx, user.ID, args[1], "")
	if err != nil {
		ctx.Reply(update, ext.ReplyTextString(folderErrorText(err)), nil)
		return dispatcher.EndGroups
	}
	ctx.Reply(update, ext.ReplyTextString(fmt.Sprintf("📁 Created \"%s\". Manage it with /folders.", folder.Path)), nil)
	return dispatcher.EndGroups
}

func handleListFoldersCmd(ctx *ext.Context, update *ext.Update) error {
	logger := log.FromContext(ctx)
	user, err := effectiveUser(ctx, update)
	if err != nil {
		logger.Errorf("Failed to load user: %s", err)
		ctx.Reply(update, ext.ReplyTextString("Something went wrong, try again."), nil)
		return dispatcher.EndGroups
	}
	folders, err := database.GetUserFolders(ctx, user.ID)
	if err != nil {
		logger.Errorf("Failed to list folders: %s", err)
		ctx.Reply(update, ext.ReplyTextString("Failed to list your folders."), nil)
		return dispatcher.EndGroups
	}
	if len(folders) == 0 {
		ctx.Reply(update, ext.ReplyTextString("You have no folders yet. Create one with /createfolder."), nil)
		return dispatcher.EndGroups
	}
	var sb strings.Builder
	sb.WriteString("Your folders:\n")
	for _, f := range folders {
		if f.IsRoot() {
			sb.WriteString("📁 ")
		} else {
			sb.WriteString("  └ ")
		}
		sb.WriteString(f.DisplayName())
		if f.Protected() {
			sb.WriteString(" 🔒")
		}
		sb.WriteString("\n")
	}
	ctx.Reply(update, ext.ReplyTextString(sb.String()), nil)
	return dispatcher.EndGroups
}

func handleDeleteFolderCmd(ctx *ext.Context, update *ext.Update) error {
	logger := log.FromContext(ctx)
	user, err := effectiveUser(ctx, update)
	if err != nil {
		logger.Errorf("Failed to load user: %s", err)
		ctx.Reply(update, ext.ReplyTextString("Something went wrong, try again."), nil)
		return dispatcher.EndGroups
	}
	args := strings.SplitN(update.EffectiveMessage.Text, " ", 2)
	if len(args) < 2 || strings.TrimSpace(args[1]) == "" {
		ctx.Reply(update, ext.ReplyTextString("Usage: /deletefolder <name> (or Parent/Child for a subfolder). Files inside are kept."), nil)
		return dispatcher.EndGroups
	}
	path := strings.TrimSpace(args[1])
	if err := database.DeleteFolderCascade(ctx, user.ID, path); err != nil {
		ctx.Reply(update, ext.ReplyTextString("Folder not found."), nil)
		return dispatcher.EndGroups
	}
	ctx.Reply(update, ext.ReplyTextString(fmt.Sprintf("🗑 Deleted \"%s\" and its subfolders. The files are now unorganized.", path)), nil)
	return dispatcher.EndGroups
}

func handleRenameFolderCmd(ctx *ext.Context, update *ext.Update) error {
	logger := log.FromContext(ctx)
	user, err := effectiveUser(ctx, update)
	if err != nil {
		logger.Errorf("Failed to load user: %s", err)
		ctx.Reply(update, ext.ReplyTextString("Something went wrong, try again."), nil)
		return dispatcher.EndGroups
	}
	args := strings.Fields(update.EffectiveMessage.Text)
	if len(args) < 3 {
		ctx.Reply(update, ext.ReplyTextString("Usage: /renamefolder <name> <newname>"), nil)
		return dispatcher.EndGroups
	}
	newPath, err := database.RenameFolderCascade(ctx, user.ID, args[1], args[2])
	if err != nil {
		if errors.Is(err, database.ErrDuplicateFolder) || errors.Is(err, database.ErrInvalidName) {
			ctx.Reply(update, ext.ReplyTextString(folderErrorText(err)), nil)
		} else {
			ctx.Reply(update, ext.ReplyTextString("Folder not found."), nil)
		}
		return dispatcher.EndGroups
	}
	ctx.Reply(update, ext.ReplyTextString(fmt.Sprintf("✏️ Renamed to \"%s\". Existing share links keep working.", newPath)), nil)
	return dispatcher.EndGroups
}
