package handlers

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/celestix/gotgproto/dispatcher"
	"github.com/celestix/gotgproto/ext"
	"github.com/charmbracelet/log"
	"github.com/hikarime/stashbot/common/utils/tgutil"
	"github.com/hikarime/stashbot/core"
	"github.com/hikarime/stashbot/database"
	"github.com/hikarime/stashbot/pkg/flow"
)

// handleTextMessage consumes the sender's armed expected-input state, if any.
// Plain text with nothing armed is ignored.
func handleTextMessage(ctx *ext.Context, update *ext.Update) error {
	text := strings.TrimSpace(update.EffectiveMessage.Text)
	if text == "" || strings.HasPrefix(text, "/") {
		return dispatcher.EndGroups
	}
	chatID := update.EffectiveUser().GetID()
	pending, ok := core.Flow().Take(chatID)
	if !ok {
		return dispatcher.EndGroups
	}

	logger := log.FromContext(ctx)
	user, err := effectiveUser(ctx, update)
	if err != nil {
		logger.Errorf("Failed to load user: %s", err)
		ctx.Reply(update, ext.ReplyTextString("Something went wrong, try again."), nil)
		return dispatcher.EndGroups
	}

	switch p := pending.(type) {
	case flow.CreateFolder:
		folder, err := database.CreateFolder(ctx, user.ID, text, "")
		if err != nil {
			ctx.Reply(update, ext.ReplyTextString(folderErrorText(err)), nil)
			return dispatcher.EndGroups
		}
		ctx.Reply(update, ext.ReplyTextString(fmt.Sprintf("📁 Created \"%s\". Manage it with /folders.", folder.Path)), nil)

	case flow.CreateSubfolder:
		folder, err := database.CreateFolder(ctx, user.ID, text, p.Parent)
		if err != nil {
			ctx.Reply(update, ext.ReplyTextString(folderErrorText(err)), nil)
			return dispatcher.EndGroups
		}
		ctx.Reply(update, ext.ReplyTextString(fmt.Sprintf("📁 Created \"%s\".", folder.Path)), nil)

	case flow.RenameFolder:
		newPath, err := database.RenameFolderCascade(ctx, user.ID, p.OldPath, text)
		if err != nil {
			if errors.Is(err, database.ErrDuplicateFolder) || errors.Is(err, database.ErrInvalidName) {
				ctx.Reply(update, ext.ReplyTextString(folderErrorText(err)), nil)
			} else {
				ctx.Reply(update, ext.ReplyTextString("Folder not found."), nil)
			}
			return dispatcher.EndGroups
		}
		ctx.Reply(update, ext.ReplyTextString(fmt.Sprintf("✏️ Renamed to \"%s\".", newPath)), nil)

	case flow.SetFolderPassword:
		folder, err := database.GetFolderByID(ctx, user.ID, p.FolderID)
		if err != nil {
			ctx.Reply(update, ext.ReplyTextString("That folder no longer exists."), nil)
			return dispatcher.EndGroups
		}
		if err := database.SetFolderPassword(ctx, folder, text); err != nil {
			logger.Errorf("Failed to set folder password: %s", err)
			ctx.Reply(update, ext.ReplyTextString("Failed to set the password."), nil)
			return dispatcher.EndGroups
		}
		ctx.Reply(update, ext.ReplyTextString(fmt.Sprintf("🔒 \"%s\" is now password protected.", folder.Path)), nil)

	case flow.VerifyFolderPassword:
		return verifyFolderPasswordInput(ctx, update, p, text)

	case flow.SetFilePassword:
		file, err := database.GetUserFileByID(ctx, user.ID, p.FileID)
		if err != nil {
			ctx.Reply(update, ext.ReplyTextString("That file no longer exists."), nil)
			return dispatcher.EndGroups
		}
		if err := database.SetFilePassword(ctx, file, text); err != nil {
			if errors.Is(err, database.ErrBadFilePassword) {
				// Only verification flows keep their pending tag alive after a
				// bad input; setting starts over from the file menu.
				ctx.Reply(update, ext.ReplyTextString("File passwords must be 2 to 8 characters. Start again from the file menu."), nil)
			} else {
				logger.Errorf("Failed to set file password: %s", err)
				ctx.Reply(update, ext.ReplyTextString("Failed to set the password."), nil)
			}
			return dispatcher.EndGroups
		}
		ctx.Reply(update, ext.ReplyTextString(fmt.Sprintf("🔒 \"%s\" is now password protected.", file.FileName)), nil)

	case flow.VerifyFilePassword:
		return verifyFilePasswordInput(ctx, update, p, text)

	case flow.SetCaption:
		if text == "-" {
			if err := database.ClearCaption(ctx, user); err != nil {
				logger.Errorf("Failed to clear caption: %s", err)
			}
			ctx.Reply(update, ext.ReplyTextString("Caption template cleared."), nil)
			return dispatcher.EndGroups
		}
		if err := database.SetCaption(ctx, user, text); err != nil {
			logger.Errorf("Failed to set caption: %s", err)
			ctx.Reply(update, ext.ReplyTextString("Failed to set the caption."), nil)
			return dispatcher.EndGroups
		}
		ctx.Reply(update, ext.ReplyTextString("Caption template saved. {filename} expands to the file name."), nil)

	case flow.AddFilenameFilter:
		if err := database.AddFilenameFilter(ctx, user.ID, text); err != nil {
			logger.Errorf("Failed to add filter: %s", err)
			ctx.Reply(update, ext.ReplyTextString("Failed to add the filter."), nil)
			return dispatcher.EndGroups
		}
		ctx.Reply(update, ext.ReplyTextString("Filter added. It applies to file names on delivery."), nil)

	case flow.AddDestination:
		return addDestinationInput(ctx, update, user, text)

	case flow.EditTopic:
		return editTopicInput(ctx, update, user, p, text)
	}
	return dispatcher.EndGroups
}

// verifyFolderPasswordInput checks the submitted password against the first
// protected, unverified ancestor of the target path. Success re-presents the
// target, which prompts for the next protected level if there is one.
func verifyFolderPasswordInput(ctx *ext.Context, update *ext.Update, p flow.VerifyFolderPassword, text string) error {
	viewerID := update.EffectiveUser().GetID()
	owner, err := database.GetUserByChatID(ctx, p.OwnerID)
	if err != nil {
		ctx.Reply(update, ext.ReplyTextString("Folder not found."), nil)
		return dispatcher.EndGroups
	}
	for _, ancestor := range database.Ancestry(p.Path) {
		rec, err := database.GetFolder(ctx, owner.ID, ancestor)
		if err != nil || !rec.Protected() {
			continue
		}
		key := flow.FolderKey(viewerID, p.OwnerID, ancestor)
		if core.Flow().Verified(key) {
			continue
		}
		if err := database.VerifyFolderPassword(rec, text); err != nil {
			if core.Flow().FailAttempt(key) {
				ctx.Reply(update, ext.ReplyTextString("Too many wrong attempts. Open the link again to retry."), nil)
				return dispatcher.EndGroups
			}
			core.Flow().Expect(viewerID, p)
			ctx.Reply(update, ext.ReplyTextString("Wrong password, try again."), nil)
			return dispatcher.EndGroups
		}
		core.Flow().MarkVerified(key)
		return presentSharedFolder(ctx, update, p.OwnerID, p.Path, 0, 0)
	}
	// Nothing left to verify; the protection was lifted meanwhile.
	return presentSharedFolder(ctx, update, p.OwnerID, p.Path, 0, 0)
}

func verifyFilePasswordInput(ctx *ext.Context, update *ext.Update, p flow.VerifyFilePassword, text string) error {
	viewerID := update.EffectiveUser().GetID()
	file, err := database.GetFileByID(ctx, p.FileID)
	if err != nil {
		ctx.Reply(update, ext.ReplyTextString("This file is no longer available."), nil)
		return dispatcher.EndGroups
	}
	key := flow.FileKey(viewerID, p.OwnerID, p.FileID)
	if err := database.VerifyFilePassword(file, text); err != nil {
		if core.Flow().FailAttempt(key) {
			ctx.Reply(update, ext.ReplyTextString("Too many wrong attempts. Open the link again to retry."), nil)
			return dispatcher.EndGroups
		}
		core.Flow().Expect(viewerID, p)
		ctx.Reply(update, ext.ReplyTextString("Wrong password, try again."), nil)
		return dispatcher.EndGroups
	}
	core.Flow().MarkVerified(key)
	return sendStoredFile(ctx, update, file)
}

// addDestinationInput parses "<id or @username> [group]" into a destination.
// The chat is only persisted once the bot confirms it holds admin rights
// there, so deliveries cannot be routed into chats the bot cannot post to.
func addDestinationInput(ctx *ext.Context, update *ext.Update, user *database.User, text string) error {
	logger := log.FromContext(ctx)
	fields := strings.Fields(text)
	chatID, err := tgutil.ParseChatID(ctx, fields[0])
	if err != nil {
		ctx.Reply(update, ext.ReplyTextString("I could not resolve that chat. Send a -100... id or an @username."), nil)
		return dispatcher.EndGroups
	}
	status, err := tgutil.BotChannelStatus(ctx, chatID)
	if err != nil {
		logger.Debugf("Destination rights check failed for %d: %s", chatID, err)
		ctx.Reply(update, ext.ReplyTextString("I cannot see that chat. Add me to it first, then try again."), nil)
		return dispatcher.EndGroups
	}
	if !status.IsAdmin {
		ctx.Reply(update, ext.ReplyTextString("I am in that chat but not an admin. Promote me, then try again."), nil)
		return dispatcher.EndGroups
	}
	destType := "channel"
	if len(fields) > 1 && strings.EqualFold(fields[1], "group") {
		destType = "group"
	}
	name := status.Title
	if name == "" {
		name = strings.TrimPrefix(fields[0], "@")
	}
	dest := &database.Destination{
		UserID:     user.ID,
		ChannelID:  chatID,
		Type:       destType,
		Enabled:    true,
		CachedName: name,
	}
	if err := database.CreateDestination(ctx, dest); err != nil {
		logger.Errorf("Failed to create destination: %s", err)
		ctx.Reply(update, ext.ReplyTextString("Failed to add the destination."), nil)
		return dispatcher.EndGroups
	}
	ctx.Reply(update, ext.ReplyTextString(fmt.Sprintf("Destination \"%s\" added. Check /settings.", name)), nil)
	return dispatcher.EndGroups
}

// editTopicInput parses "<topic_id> [name]" for a group destination.
func editTopicInput(ctx *ext.Context, update *ext.Update, user *database.User, p flow.EditTopic, text string) error {
	logger := log.FromContext(ctx)
	dest, err := database.GetDestinationByID(ctx, user.ID, p.DestID)
	if err != nil {
		ctx.Reply(update, ext.ReplyTextString("That destination no longer exists."), nil)
		return dispatcher.EndGroups
	}
	fields := strings.Fields(text)
	topicID, err := strconv.Atoi(fields[0])
	if err != nil || topicID < 1 {
		ctx.Reply(update, ext.ReplyTextString("Send the numeric topic id, optionally followed by a name."), nil)
		return dispatcher.EndGroups
	}
	name := ""
	if len(fields) > 1 {
		name = strings.Join(fields[1:], " ")
	}
	if err := database.SetDestinationTopic(ctx, dest, topicID, name); err != nil {
		logger.Errorf("Failed to set topic: %s", err)
		ctx.Reply(update, ext.ReplyTextString("Failed to set the topic."), nil)
		return dispatcher.EndGroups
	}
	ctx.Reply(update, ext.ReplyTextString("Topic saved. Deliveries to this destination land in it."), nil)
	return dispatcher.EndGroups
}
