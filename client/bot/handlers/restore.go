package handlers

import (
	"errors"
	"fmt"
	"strings"

	"github.com/celestix/gotgproto/dispatcher"
	"github.com/celestix/gotgproto/ext"
	"github.com/charmbracelet/log"
	"github.com/hikarime/stashbot/database"
)

func handleRestoreCmd(ctx *ext.Context, update *ext.Update) error {
	args := strings.Fields(update.EffectiveMessage.Text)
	if len(args) < 2 {
		ctx.Reply(update, ext.ReplyTextString("Usage: /restore <transfer token> (or open the transfer link directly)."), nil)
		return dispatcher.EndGroups
	}
	return performRestore(ctx, update, args[1])
}

// performRestore claims everything behind a transfer token for the sender.
func performRestore(ctx *ext.Context, update *ext.Update, token string) error {
	logger := log.FromContext(ctx)
	user, err := effectiveUser(ctx, update)
	if err != nil {
		logger.Errorf("Failed to load user: %s", err)
		ctx.Reply(update, ext.ReplyTextString("Something went wrong, try again."), nil)
		return dispatcher.EndGroups
	}
	moved, err := database.RestoreFromToken(ctx, token, user)
	switch {
	case errors.Is(err, database.ErrSameAccount):
		ctx.Reply(update, ext.ReplyTextString("This token belongs to this account already."), nil)
	case errors.Is(err, database.ErrBadBackupToken):
		ctx.Reply(update, ext.ReplyTextString("This transfer token is invalid or was already used."), nil)
	case err != nil:
		logger.Errorf("Restore failed: %s", err)
		ctx.Reply(update, ext.ReplyTextString("The transfer failed, nothing was moved."), nil)
	default:
		ctx.Reply(update, ext.ReplyTextString(fmt.Sprintf(
			"✅ Transfer complete: %d file(s) and their folders now belong to this account.", moved)), nil)
	}
	return dispatcher.EndGroups
}
