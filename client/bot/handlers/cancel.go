package handlers

import (
	"github.com/celestix/gotgproto/dispatcher"
	"github.com/celestix/gotgproto/ext"
	"github.com/hikarime/stashbot/core"
)

// handleCancelCmd asks the sender's running batch to stop after the current
// item. It also clears any armed expected-input state.
func handleCancelCmd(ctx *ext.Context, update *ext.Update) error {
	chatID := update.EffectiveUser().GetID()
	core.Flow().Clear(chatID)
	core.Flow().RequestStop(chatID)
	ctx.Reply(update, ext.ReplyTextString("Okay. Any running batch stops after the current file."), nil)
	return dispatcher.EndGroups
}
