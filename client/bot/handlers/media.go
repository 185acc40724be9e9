package handlers

import (
	"github.com/celestix/gotgproto/dispatcher"
	"github.com/celestix/gotgproto/ext"
	"github.com/charmbracelet/log"
	"github.com/gotd/td/tg"
	"github.com/hikarime/stashbot/client/bot/handlers/utils/msgelem"
	"github.com/hikarime/stashbot/common/utils/tgutil"
	"github.com/hikarime/stashbot/config"
	"github.com/hikarime/stashbot/database"
	"github.com/hikarime/stashbot/pkg/deeplink"
)

func logChannelID() int64 {
	return config.C().Telegram.LogChannelID
}

func handleMediaMessage(ctx *ext.Context, update *ext.Update) error {
	message := update.EffectiveMessage.Message
	if message.Media == nil {
		return dispatcher.EndGroups
	}
	switch message.Media.(type) {
	case *tg.MessageMediaDocument, *tg.MessageMediaPhoto:
	default:
		return dispatcher.EndGroups
	}
	return ingestMedia(ctx, update, message)
}

// ingestMedia copies a media message into the log channel, records it, and
// replies with a share link. Uploads land in the sender's selected folder.
func ingestMedia(ctx *ext.Context, update *ext.Update, msg *tg.Message) error {
	logger := log.FromContext(ctx)
	senderID := update.EffectiveUser().GetID()
	if !config.C().CanStore(senderID) {
		ctx.Reply(update, ext.ReplyTextString("This instance does not accept uploads from you."), nil)
		return dispatcher.EndGroups
	}

	user, err := effectiveUser(ctx, update)
	if err != nil {
		logger.Errorf("Failed to load user %d: %s", senderID, err)
		ctx.Reply(update, ext.ReplyTextString("Something went wrong, try again."), nil)
		return dispatcher.EndGroups
	}

	info, err := tgutil.ExtractMediaInfo(msg)
	if err != nil {
		ctx.Reply(update, ext.ReplyTextString("I can only store documents, media files and photos."), nil)
		return dispatcher.EndGroups
	}

	stored, err := tgutil.CopyMedia(ctx, msg, logChannelID(), tgutil.CopyOpts{Silent: true})
	if err != nil {
		logger.Errorf("Failed to copy media to log channel: %s", err)
		ctx.Reply(update, ext.ReplyTextString("Failed to store the file, try again later."), nil)
		return dispatcher.EndGroups
	}

	file := &database.StoredFile{
		UserID:       user.ID,
		LogMessageID: stored.ID,
		FileName:     info.FileName,
		FileType:     info.FileType,
	}
	if folder, _ := database.SelectedFolder(ctx, user); folder != nil {
		file.FolderPath = &folder.Path
	}
	if err := database.CreateStoredFile(ctx, file); err != nil {
		logger.Errorf("Failed to record stored file: %s", err)
		ctx.Reply(update, ext.ReplyTextString("Failed to store the file, try again later."), nil)
		return dispatcher.EndGroups
	}

	token, err := database.EnsureFileToken(ctx, file)
	if err != nil {
		logger.Errorf("Failed to issue file token: %s", err)
		ctx.Reply(update, ext.ReplyTextString("Stored, but I could not build a share link. Use /files."), nil)
		return dispatcher.EndGroups
	}
	link := deeplink.FileTokenLink(ctx.Self.Username, token)
	text, markup := msgelem.BuildShareMessage("✅ Stored "+file.FileName, link)
	ctx.Reply(update, ext.ReplyTextStyledTextArray(text), &ext.ReplyOpts{Markup: markup})
	return dispatcher.EndGroups
}
