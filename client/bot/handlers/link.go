package handlers

import (
	"github.com/celestix/gotgproto/dispatcher"
	"github.com/celestix/gotgproto/ext"
)

// handleLinkCmd stores the replied-to media and hands back its share link.
func handleLinkCmd(ctx *ext.Context, update *ext.Update) error {
	replyTo := update.EffectiveMessage.ReplyToMessage
	if replyTo == nil || replyTo.Message == nil {
		ctx.Reply(update, ext.ReplyTextString("Reply to a file with /link to get its share link."), nil)
		return dispatcher.EndGroups
	}
	if replyTo.Message.Media == nil {
		ctx.Reply(update, ext.ReplyTextString("That message has no file."), nil)
		return dispatcher.EndGroups
	}
	return ingestMedia(ctx, update, replyTo.Message)
}
