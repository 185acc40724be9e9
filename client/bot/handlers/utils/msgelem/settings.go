package msgelem

import (
	"fmt"
	"strings"

	"github.com/gotd/td/tg"
	"github.com/hikarime/stashbot/database"
	"github.com/hikarime/stashbot/pkg/cbdata"
)

var modeLabels = map[string]string{
	database.DeliverPM:      "📩 PM only",
	database.DeliverChannel: "📢 Destinations only",
	database.DeliverBoth:    "📩+📢 Both",
}

// BuildSettingsMessage renders the settings panel: delivery mode, caption,
// and the destination list with per-destination menus.
func BuildSettingsMessage(user *database.User, dests []database.Destination) (string, *tg.ReplyInlineMarkup, error) {
	var sb strings.Builder
	sb.WriteString("⚙️ Settings\n")
	fmt.Fprintf(&sb, "Delivery mode: %s\n", modeLabels[modeOrDefault(user.DeliveryMode)])
	if user.Caption != nil {
		fmt.Fprintf(&sb, "Caption template: %s\n", *user.Caption)
	}
	if len(dests) == 0 {
		sb.WriteString("No destinations configured.")
	} else {
		fmt.Fprintf(&sb, "%d destination(s):", len(dests))
	}

	markup := &tg.ReplyInlineMarkup{
		Rows: []tg.KeyboardButtonRow{
			{Buttons: []tg.KeyboardButtonClass{
				&tg.KeyboardButtonCallback{
					Text: "Mode: " + modeLabels[modeOrDefault(user.DeliveryMode)],
					Data: []byte("mode cycle"),
				},
			}},
		},
	}

	for _, d := range dests {
		state := "✅"
		if !d.Enabled {
			state = "⏸"
		}
		name := d.CachedName
		if name == "" {
			name = fmt.Sprintf("%d", d.ChannelID)
		}
		if d.TopicName != "" {
			name += " › " + d.TopicName
		}
		data, err := PackCallback(cbdata.TypeDest, cbdata.Dest{Action: "detail", DestID: d.ID})
		if err != nil {
			return "", nil, err
		}
		markup.Rows = append(markup.Rows, tg.KeyboardButtonRow{Buttons: []tg.KeyboardButtonClass{
			&tg.KeyboardButtonCallback{Text: fmt.Sprintf("%s %s", state, name), Data: data},
		}})
	}

	add, err := PackCallback(cbdata.TypeDest, cbdata.Dest{Action: "add"})
	if err != nil {
		return "", nil, err
	}
	markup.Rows = append(markup.Rows, tg.KeyboardButtonRow{Buttons: []tg.KeyboardButtonClass{
		&tg.KeyboardButtonCallback{Text: "➕ Add destination", Data: add},
	}})
	return sb.String(), markup, nil
}

// BuildDestDetailMessage renders one destination's menu.
func BuildDestDetailMessage(dest *database.Destination) (string, *tg.ReplyInlineMarkup, error) {
	name := dest.CachedName
	if name == "" {
		name = fmt.Sprintf("%d", dest.ChannelID)
	}
	text := fmt.Sprintf("Destination: %s\nType: %s\nEnabled: %t", name, dest.Type, dest.Enabled)
	if dest.TopicID != nil {
		text += fmt.Sprintf("\nTopic: %s (%d)", dest.TopicName, *dest.TopicID)
	}

	toggleLabel := "⏸ Disable"
	if !dest.Enabled {
		toggleLabel = "▶️ Enable"
	}
	type action struct{ label, act string }
	actions := []action{
		{toggleLabel, "toggle"},
		{"🗑 Remove", "remove"},
		{"« Back", "back"},
	}
	if dest.Type == "group" {
		actions = append(actions[:2], append([]action{{"🧵 Set topic", "topic"}}, actions[2:]...)...)
	}

	buttons := make([]tg.KeyboardButtonClass, 0, len(actions))
	for _, a := range actions {
		data, err := PackCallback(cbdata.TypeDest, cbdata.Dest{Action: a.act, DestID: dest.ID})
		if err != nil {
			return "", nil, err
		}
		buttons = append(buttons, &tg.KeyboardButtonCallback{Text: a.label, Data: data})
	}
	return text, ButtonGrid(buttons, 2), nil
}

func modeOrDefault(mode string) string {
	if _, ok := modeLabels[mode]; !ok {
		return database.DeliverPM
	}
	return mode
}
