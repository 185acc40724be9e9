// Package core runs the delivery engine: a worker pool draining a task queue
// of batch sends, plus the single-file delivery router used by handlers.
package core

import (
	"context"
	"sync"
	"time"

	"github.com/celestix/gotgproto/ext"
	"github.com/charmbracelet/log"
	"github.com/hikarime/stashbot/config"
	"github.com/hikarime/stashbot/pkg/cbdata"
	"github.com/hikarime/stashbot/pkg/flow"
	"github.com/hikarime/stashbot/pkg/queue"
	"github.com/rs/xid"
)

// Job is one queued batch send.
type Job struct {
	RequesterChatID int64
	// TargetChatID receives the copies; usually the requester's PM, but
	// shared-folder visitors get them in their own chat.
	TargetChatID int64
	Items        []cbdata.Item
	Label        string
	// ProgressMsgID is the status message edited while the batch runs.
	ProgressMsgID int
	// NoForwards applies to every item in the batch.
	NoForwards bool
}

var (
	taskQueue = queue.NewTaskQueue[Job]()

	flowOnce  sync.Once
	flowStore *flow.Store
)

// Flow returns the process-wide conversational session store.
func Flow() *flow.Store {
	flowOnce.Do(func() {
		flowStore = flow.NewStore(flow.Options{
			PendingTTL:  10 * time.Minute,
			VerifiedTTL: 12 * time.Hour,
		})
	})
	return flowStore
}

// Submit queues a batch job and returns its task id.
func Submit(ctx context.Context, job Job) (string, error) {
	id := xid.New().String()
	if err := taskQueue.Add(queue.NewTask(ctx, id, job)); err != nil {
		return "", err
	}
	return id, nil
}

// Cancel cancels one queued or running batch by task id.
func Cancel(taskID string) error {
	return taskQueue.Cancel(taskID)
}

// QueueLength reports how many batches are waiting.
func QueueLength() int {
	return taskQueue.Length()
}

// Run starts the worker pool. Workers exit when the context is cancelled.
func Run(ctx context.Context, tctx *ext.Context) {
	logger := log.FromContext(ctx)
	workers := config.C().Workers
	logger.Infof("Starting %d delivery workers", workers)

	go func() {
		<-ctx.Done()
		taskQueue.Close()
		taskQueue.CancelAll()
	}()

	for i := 0; i < workers; i++ {
		go func(worker int) {
			for {
				task, err := taskQueue.Get()
				if err != nil {
					logger.Debugf("Worker %d exiting: %s", worker, err)
					return
				}
				runBatch(task.Context(), tctx, task.Data)
				taskQueue.Done(task.ID)
			}
		}(i)
	}
}
