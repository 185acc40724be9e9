package handlers

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/celestix/gotgproto/dispatcher"
	"github.com/celestix/gotgproto/ext"
	"github.com/charmbracelet/log"
	"github.com/hikarime/stashbot/core"
	"github.com/hikarime/stashbot/database"
	"github.com/hikarime/stashbot/pkg/flow"
)

// handleFiltersCmd manages filename filters: a plain pattern is stripped from
// file names on delivery, an "old|new" pattern is replaced.
func handleFiltersCmd(ctx *ext.Context, update *ext.Update) error {
	logger := log.FromContext(ctx)
	user, err := effectiveUser(ctx, update)
	if err != nil {
		logger.Errorf("Failed to load user: %s", err)
		ctx.Reply(update, ext.ReplyTextString("Something went wrong, try again."), nil)
		return dispatcher.EndGroups
	}
	args := strings.Fields(update.EffectiveMessage.Text)
	filters, err := database.GetUserFilters(ctx, user.ID)
	if err != nil {
		logger.Errorf("Failed to list filters: %s", err)
		ctx.Reply(update, ext.ReplyTextString("Failed to list your filters."), nil)
		return dispatcher.EndGroups
	}

	if len(args) < 2 {
		var sb strings.Builder
		if len(filters) == 0 {
			sb.WriteString("No filename filters set.\n")
		} else {
			sb.WriteString("Filename filters:\n")
			for _, f := range filters {
				fmt.Fprintf(&sb, "%d. %s\n", f.ID, f.Pattern)
			}
		}
		sb.WriteString("\n/filters add <pattern> strips it from names, add old|new replaces.\n/filters del <id>, /filters clear")
		ctx.Reply(update, ext.ReplyTextString(sb.String()), nil)
		return dispatcher.EndGroups
	}

	switch args[1] {
	case "add":
		if len(args) < 3 {
			core.Flow().Expect(user.ChatID, flow.AddFilenameFilter{})
			ctx.Reply(update, ext.ReplyTextString("Send the pattern to strip, or old|new to replace."), nil)
			return dispatcher.EndGroups
		}
		pattern := strings.Join(args[2:], " ")
		if err := database.AddFilenameFilter(ctx, user.ID, pattern); err != nil {
			logger.Errorf("Failed to add filter: %s", err)
			ctx.Reply(update, ext.ReplyTextString("Failed to add the filter."), nil)
			return dispatcher.EndGroups
		}
		ctx.Reply(update, ext.ReplyTextString("Filter added."), nil)

	case "del":
		if len(args) < 3 {
			ctx.Reply(update, ext.ReplyTextString("Usage: /filters del <id>"), nil)
			return dispatcher.EndGroups
		}
		id, err := strconv.Atoi(args[2])
		if err != nil {
			ctx.Reply(update, ext.ReplyTextString("Invalid filter id."), nil)
			return dispatcher.EndGroups
		}
		if err := database.DeleteFilter(ctx, user.ID, uint(id)); err != nil {
			logger.Errorf("Failed to delete filter: %s", err)
			ctx.Reply(update, ext.ReplyTextString("Failed to delete the filter."), nil)
			return dispatcher.EndGroups
		}
		ctx.Reply(update, ext.ReplyTextString("Filter deleted."), nil)

	case "clear":
		if err := database.ClearFilters(ctx, user.ID); err != nil {
			logger.Errorf("Failed to clear filters: %s", err)
			ctx.Reply(update, ext.ReplyTextString("Failed to clear your filters."), nil)
			return dispatcher.EndGroups
		}
		ctx.Reply(update, ext.ReplyTextString("All filters cleared."), nil)

	default:
		ctx.Reply(update, ext.ReplyTextString("Unknown action. Use add, del or clear."), nil)
	}
	return dispatcher.EndGroups
}
