package handlers

import (
	"fmt"
	"strings"

	"github.com/celestix/gotgproto/dispatcher"
	"github.com/celestix/gotgproto/ext"
	"github.com/charmbracelet/log"
	"github.com/hikarime/stashbot/core"
	"github.com/hikarime/stashbot/database"
	"github.com/hikarime/stashbot/pkg/flow"
)

// handleCaptionCmd sets the delivery caption template. "{filename}" expands
// to the filtered file name; "-" clears the template.
func handleCaptionCmd(ctx *ext.Context, update *ext.Update) error {
	logger := log.FromContext(ctx)
	user, err := effectiveUser(ctx, update)
	if err != nil {
		logger.Errorf("Failed to load user: %s", err)
		ctx.Reply(update, ext.ReplyTextString("Something went wrong, try again."), nil)
		return dispatcher.EndGroups
	}
	args := strings.SplitN(update.EffectiveMessage.Text, " ", 2)
	if len(args) < 2 || strings.TrimSpace(args[1]) == "" {
		current := "not set"
		if user.Caption != nil {
			current = *user.Caption
		}
		core.Flow().Expect(user.ChatID, flow.SetCaption{})
		ctx.Reply(update, ext.ReplyTextString(fmt.Sprintf(
			"Current caption template: %s\nSend a new one ({filename} expands to the file name), or \"-\" to clear it.",
			current)), nil)
		return dispatcher.EndGroups
	}
	arg := strings.TrimSpace(args[1])
	if arg == "-" {
		if err := database.ClearCaption(ctx, user); err != nil {
			logger.Errorf("Failed to clear caption: %s", err)
			ctx.Reply(update, ext.ReplyTextString("Failed to clear the caption."), nil)
			return dispatcher.EndGroups
		}
		ctx.Reply(update, ext.ReplyTextString("Caption template cleared."), nil)
		return dispatcher.EndGroups
	}
	if err := database.SetCaption(ctx, user, arg); err != nil {
		logger.Errorf("Failed to set caption: %s", err)
		ctx.Reply(update, ext.ReplyTextString("Failed to set the caption."), nil)
		return dispatcher.EndGroups
	}
	ctx.Reply(update, ext.ReplyTextString("Caption template saved."), nil)
	return dispatcher.EndGroups
}
