package core

import (
	"context"
	"strings"

	"github.com/celestix/gotgproto/ext"
	"github.com/charmbracelet/log"
	"github.com/hikarime/stashbot/common/utils/tgutil"
	"github.com/hikarime/stashbot/config"
	"github.com/hikarime/stashbot/database"
)

// ApplyFilters rewrites a filename through the user's filter list. A plain
// pattern is stripped; an "old|new" pattern is replaced.
func ApplyFilters(name string, filters []database.FilenameFilter) string {
	for _, f := range filters {
		if old, new_, ok := strings.Cut(f.Pattern, "|"); ok {
			name = strings.ReplaceAll(name, old, new_)
		} else {
			name = strings.ReplaceAll(name, f.Pattern, "")
		}
	}
	return strings.TrimSpace(name)
}

// BuildCaption renders the delivery caption for a file. The user's template
// replaces {filename} with the filtered name; without a template the filtered
// name itself is the caption.
func BuildCaption(ctx context.Context, user *database.User, file *database.StoredFile) string {
	filters, err := database.GetUserFilters(ctx, user.ID)
	if err != nil {
		log.FromContext(ctx).Errorf("Failed to load filename filters: %s", err)
	}
	name := ApplyFilters(file.FileName, filters)
	if user.Caption == nil {
		return name
	}
	return strings.ReplaceAll(*user.Caption, "{filename}", name)
}

// DeliverResult reports where a file went.
type DeliverResult struct {
	SentPM        bool
	SentChannels  int
	FailedTargets int
}

// DeliverFile routes one stored file according to the owner's delivery mode:
// pm sends to the requester's chat, channel fans out to every enabled
// destination, both does both. Protected files are copied non-forwardable.
func DeliverFile(ctx *ext.Context, user *database.User, file *database.StoredFile, pmChatID int64) (DeliverResult, error) {
	logger := log.FromContext(ctx)
	var res DeliverResult

	msg, err := tgutil.GetMessage(ctx, config.C().Telegram.LogChannelID, file.LogMessageID)
	if err != nil {
		return res, err
	}
	caption := BuildCaption(ctx, user, file)
	opts := tgutil.CopyOpts{
		Caption:    &caption,
		NoForwards: file.Protected,
	}

	mode := user.DeliveryMode
	if mode == "" {
		mode = database.DeliverPM
	}

	if mode == database.DeliverPM || mode == database.DeliverBoth {
		sent, err := tgutil.CopyMedia(ctx, msg, pmChatID, opts)
		if err != nil {
			logger.Errorf("PM delivery failed: %s", err)
			res.FailedTargets++
		} else {
			res.SentPM = true
			scheduleAutoDelete(ctx, pmChatID, []int{sent.ID})
		}
	}

	if mode == database.DeliverChannel || mode == database.DeliverBoth {
		dests, err := database.GetEnabledDestinations(ctx, user.ID)
		if err != nil {
			return res, err
		}
		for _, dest := range dests {
			destOpts := opts
			if dest.TopicID != nil {
				destOpts.ReplyToMsgID = *dest.TopicID
			}
			if _, err := tgutil.CopyMedia(ctx, msg, dest.ChannelID, destOpts); err != nil {
				logger.Errorf("Delivery to %d failed: %s", dest.ChannelID, err)
				res.FailedTargets++
				continue
			}
			res.SentChannels++
		}
	}

	return res, nil
}
