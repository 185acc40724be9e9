package handlers

import (
	"errors"
	"fmt"
	"strings"

	"github.com/celestix/gotgproto/dispatcher"
	"github.com/celestix/gotgproto/ext"
	"github.com/charmbracelet/log"
	"github.com/hikarime/stashbot/client/bot/handlers/utils/msgelem"
	"github.com/hikarime/stashbot/database"
	"github.com/hikarime/stashbot/pkg/deeplink"
)

// handleBackupCmd manages the one-shot account transfer token. Opening the
// restore link from another account moves every folder and file there and
// burns the token.
func handleBackupCmd(ctx *ext.Context, update *ext.Update) error {
	logger := log.FromContext(ctx)
	user, err := effectiveUser(ctx, update)
	if err != nil {
		logger.Errorf("Failed to load user: %s", err)
		ctx.Reply(update, ext.ReplyTextString("Something went wrong, try again."), nil)
		return dispatcher.EndGroups
	}
	args := strings.Fields(update.EffectiveMessage.Text)
	action := ""
	if len(args) > 1 {
		action = args[1]
	}

	switch action {
	case "new":
		token, err := database.GenerateBackupToken(ctx, user)
		if err != nil {
			logger.Errorf("Failed to generate backup token: %s", err)
			ctx.Reply(update, ext.ReplyTextString("Failed to generate a transfer token."), nil)
			return dispatcher.EndGroups
		}
		link := deeplink.RestoreLink(ctx.Self.Username, token)
		text, markup := msgelem.BuildShareMessage("🔑 Account transfer link", link)
		ctx.Reply(update, ext.ReplyTextStyledTextArray(text), &ext.ReplyOpts{Markup: markup})
		ctx.Reply(update, ext.ReplyTextString("Open this link from your other account to move everything there. It works once and replaces any earlier token."), nil)

	case "revoke":
		if err := database.RevokeBackupToken(ctx, user); err != nil {
			logger.Errorf("Failed to revoke backup token: %s", err)
			ctx.Reply(update, ext.ReplyTextString("Failed to revoke the token."), nil)
			return dispatcher.EndGroups
		}
		ctx.Reply(update, ext.ReplyTextString("Transfer token revoked."), nil)

	default:
		token, err := database.CurrentBackupToken(user)
		if errors.Is(err, database.ErrNoBackupToken) {
			ctx.Reply(update, ext.ReplyTextString("No transfer token active.\n/backup new issues one, /backup revoke cancels it."), nil)
			return dispatcher.EndGroups
		}
		link := deeplink.RestoreLink(ctx.Self.Username, token)
		ctx.Reply(update, ext.ReplyTextString(fmt.Sprintf(
			"A transfer token is active.\n%s\n\n/backup new replaces it, /backup revoke cancels it.", link)), nil)
	}
	return dispatcher.EndGroups
}
