// Package queue provides the FIFO task queue consumed by the delivery
// workers. Cancelled tasks are skipped on dequeue; a running task can still
// be cancelled through its context.
package queue

import (
	"container/list"
	"errors"
	"fmt"
	"sync"
)

var ErrClosed = errors.New("queue is closed")

type TaskQueue[T any] struct {
	mu      sync.RWMutex
	cond    *sync.Cond
	tasks   *list.List
	waiting map[string]*Task[T]
	running map[string]*Task[T]
	closed  bool
}

func NewTaskQueue[T any]() *TaskQueue[T] {
	q := &TaskQueue[T]{
		tasks:   list.New(),
		waiting: make(map[string]*Task[T]),
		running: make(map[string]*Task[T]),
	}
	q.cond = sync.NewCond(&q.mu)
	return q
}

func (q *TaskQueue[T]) Add(task *Task[T]) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return ErrClosed
	}
	if _, exists := q.waiting[task.ID]; exists {
		return fmt.Errorf("task %s already queued", task.ID)
	}
	if _, exists := q.running[task.ID]; exists {
		return fmt.Errorf("task %s already running", task.ID)
	}
	if task.Cancelled() {
		return fmt.Errorf("task %s is cancelled", task.ID)
	}

	task.element = q.tasks.PushBack(task)
	q.waiting[task.ID] = task
	q.cond.Signal()
	return nil
}

// Get blocks until a non-cancelled task is available or the queue is closed.
func (q *TaskQueue[T]) Get() (*Task[T], error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for {
		for q.tasks.Len() == 0 && !q.closed {
			q.cond.Wait()
		}
		if q.tasks.Len() == 0 && q.closed {
			return nil, ErrClosed
		}
		element := q.tasks.Front()
		q.tasks.Remove(element)
		task := element.Value.(*Task[T])
		task.element = nil
		delete(q.waiting, task.ID)
		if task.Cancelled() {
			continue
		}
		q.running[task.ID] = task
		return task, nil
	}
}

// Done releases a task previously returned by Get.
func (q *TaskQueue[T]) Done(taskID string) {
	q.mu.Lock()
	defer q.mu.Unlock()
	delete(q.running, taskID)
}

// Cancel cancels a waiting or running task by id.
func (q *TaskQueue[T]) Cancel(taskID string) error {
	q.mu.RLock()
	task, ok := q.waiting[taskID]
	if !ok {
		task, ok = q.running[taskID]
	}
	q.mu.RUnlock()

	if !ok {
		return fmt.Errorf("task %s does not exist", taskID)
	}
	task.Cancel()
	return nil
}

// CancelAll cancels every waiting and running task.
func (q *TaskQueue[T]) CancelAll() {
	q.mu.RLock()
	tasks := make([]*Task[T], 0, len(q.waiting)+len(q.running))
	for _, t := range q.waiting {
		tasks = append(tasks, t)
	}
	for _, t := range q.running {
		tasks = append(tasks, t)
	}
	q.mu.RUnlock()

	for _, t := range tasks {
		t.Cancel()
	}
}

// Length is the number of queued tasks, cancelled ones included.
func (q *TaskQueue[T]) Length() int {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.tasks.Len()
}

// RunningLength is the number of tasks handed to workers and not yet Done.
func (q *TaskQueue[T]) RunningLength() int {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return len(q.running)
}

func (q *TaskQueue[T]) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.closed = true
	q.cond.Broadcast()
}

func (q *TaskQueue[T]) Closed() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.closed
}
