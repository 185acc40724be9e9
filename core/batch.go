package core

import (
	"context"
	"fmt"
	"time"

	"github.com/celestix/gotgproto/ext"
	"github.com/charmbracelet/log"
	"github.com/gotd/td/tg"
	"github.com/gotd/td/tgerr"
	"github.com/hikarime/stashbot/common/utils/tgutil"
	"github.com/hikarime/stashbot/config"
	"github.com/hikarime/stashbot/pkg/cbdata"
)

// Inter-item delay keeps a long batch under Telegram's sending limits.
const batchItemDelay = 500 * time.Millisecond

// runBatch sends the job's items sequentially. The requester's stop flag is
// polled before each item; a FLOOD_WAIT sleeps for the server-given duration
// and retries the current item once. Progress is edited every 10 items.
func runBatch(ctx context.Context, tctx *ext.Context, job Job) {
	logger := log.FromContext(ctx)
	sent, failed := 0, 0
	var delivered []int

	stopped := false
	for i, item := range job.Items {
		select {
		case <-ctx.Done():
			stopped = true
		default:
		}
		if stopped || Flow().StopRequested(job.RequesterChatID) {
			stopped = true
			break
		}
		if i > 0 {
			time.Sleep(batchItemDelay)
		}

		msgID, err := sendItem(tctx, item, job)
		if d, ok := tgerr.AsFloodWait(err); ok {
			logger.Warnf("Flood wait %s on batch item %d, retrying once", d, i)
			time.Sleep(d + time.Second)
			msgID, err = sendItem(tctx, item, job)
		}
		if err != nil {
			logger.Errorf("Batch item %d failed: %s", i, err)
			failed++
			continue
		}
		sent++
		delivered = append(delivered, msgID)

		if job.ProgressMsgID != 0 && sent%10 == 0 {
			tctx.EditMessage(job.TargetChatID, &tg.MessagesEditMessageRequest{
				ID:      job.ProgressMsgID,
				Message: fmt.Sprintf("%s: %d/%d sent...", job.Label, sent, len(job.Items)),
			})
		}
	}
	Flow().ClearStop(job.RequesterChatID)

	report := fmt.Sprintf("%s finished: %d sent, %d failed.", job.Label, sent, failed)
	if stopped {
		report = fmt.Sprintf("%s stopped: %d sent, %d failed, %d skipped.",
			job.Label, sent, failed, len(job.Items)-sent-failed)
	}
	if job.ProgressMsgID != 0 {
		tctx.EditMessage(job.TargetChatID, &tg.MessagesEditMessageRequest{
			ID:      job.ProgressMsgID,
			Message: report,
		})
	} else {
		tctx.SendMessage(job.TargetChatID, &tg.MessagesSendMessageRequest{Message: report})
	}

	scheduleAutoDelete(tctx, job.TargetChatID, delivered)
}

func sendItem(tctx *ext.Context, item cbdata.Item, job Job) (int, error) {
	msg, err := tgutil.GetMessage(tctx, item.ChatID, item.MessageID)
	if err != nil {
		return 0, err
	}
	sentMsg, err := tgutil.CopyMedia(tctx, msg, job.TargetChatID, tgutil.CopyOpts{
		NoForwards: job.NoForwards,
	})
	if err != nil {
		return 0, err
	}
	return sentMsg.ID, nil
}

// scheduleAutoDelete removes delivered copies after the configured delay.
func scheduleAutoDelete(tctx *ext.Context, chatID int64, messageIDs []int) {
	secs := config.C().AutoDelete
	if secs <= 0 || len(messageIDs) == 0 {
		return
	}
	time.AfterFunc(time.Duration(secs)*time.Second, func() {
		if err := tctx.DeleteMessages(chatID, messageIDs); err != nil {
			log.Errorf("Auto-delete failed in chat %d: %s", chatID, err)
		}
	})
}
