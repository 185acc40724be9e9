package queue

import (
	"container/list"
	"context"
	"time"
)

// Task wraps a unit of work with its own cancellable context.
type Task[T any] struct {
	ID      string
	Data    T
	ctx     context.Context
	cancel  context.CancelFunc
	created time.Time
	element *list.Element
}

func NewTask[T any](ctx context.Context, id string, data T) *Task[T] {
	taskCtx, cancel := context.WithCancel(ctx)
	return &Task[T]{
		ID:      id,
		Data:    data,
		ctx:     taskCtx,
		cancel:  cancel,
		created: time.Now(),
	}
}

func (t *Task[T]) Context() context.Context {
	return t.ctx
}

func (t *Task[T]) Cancel() {
	t.cancel()
}

func (t *Task[T]) Cancelled() bool {
	select {
	case <-t.ctx.Done():
		return true
	default:
		return false
	}
}
