package handlers

import (
	"github.com/celestix/gotgproto/dispatcher"
	"github.com/celestix/gotgproto/ext"
	"github.com/charmbracelet/log"
	"github.com/hikarime/stashbot/database"
)

// ensureUser creates or refreshes the user record before any other handler
// group runs.
func ensureUser(ctx *ext.Context, update *ext.Update) error {
	u := update.EffectiveUser()
	if u == nil {
		return dispatcher.ContinueGroups
	}
	if _, err := database.EnsureUser(ctx, u.GetID(), u.FirstName); err != nil {
		log.FromContext(ctx).Errorf("Failed to ensure user %d: %s", u.GetID(), err)
	}
	return dispatcher.ContinueGroups
}

// effectiveUser loads the database record for the update's sender.
func effectiveUser(ctx *ext.Context, update *ext.Update) (*database.User, error) {
	return database.GetUserByChatID(ctx, update.EffectiveUser().GetID())
}
