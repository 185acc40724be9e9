package queue_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/hikarime/stashbot/pkg/queue"
)

func newTask(id string) *queue.Task[int] {
	return queue.NewTask(context.Background(), id, 0)
}

func TestAddAndLength(t *testing.T) {
	q := queue.NewTaskQueue[int]()
	if q.Length() != 0 {
		t.Fatalf("expected length 0, got %d", q.Length())
	}
	if err := q.Add(newTask("t1")); err != nil {
		t.Fatalf("unexpected error on Add: %v", err)
	}
	if q.Length() != 1 {
		t.Fatalf("expected length 1, got %d", q.Length())
	}
}

func TestDuplicateAdd(t *testing.T) {
	q := queue.NewTaskQueue[int]()
	t1 := newTask("dup")
	if err := q.Add(t1); err != nil {
		t.Fatalf("unexpected error on first Add: %v", err)
	}
	if err := q.Add(t1); err == nil {
		t.Fatal("expected error on duplicate Add, got nil")
	}
}

func TestGetOrder(t *testing.T) {
	q := queue.NewTaskQueue[int]()
	q.Add(newTask("a"))
	q.Add(newTask("b"))
	first, err := q.Get()
	if err != nil {
		t.Fatalf("unexpected error on Get: %v", err)
	}
	if first.ID != "a" {
		t.Fatalf("expected first Get ID 'a', got '%s'", first.ID)
	}
	second, err := q.Get()
	if err != nil {
		t.Fatalf("unexpected error on second Get: %v", err)
	}
	if second.ID != "b" {
		t.Fatalf("expected second Get ID 'b', got '%s'", second.ID)
	}
}

func TestGetSkipsCancelled(t *testing.T) {
	q := queue.NewTaskQueue[int]()
	q.Add(newTask("1"))
	q.Add(newTask("2"))
	if err := q.Cancel("1"); err != nil {
		t.Fatalf("unexpected error on Cancel: %v", err)
	}
	got, err := q.Get()
	if err != nil {
		t.Fatalf("unexpected error on Get: %v", err)
	}
	if got.ID != "2" {
		t.Fatalf("expected Get to skip cancelled task, got '%s'", got.ID)
	}
}

func TestCancelRunning(t *testing.T) {
	q := queue.NewTaskQueue[int]()
	q.Add(newTask("r1"))
	task, err := q.Get()
	if err != nil {
		t.Fatalf("unexpected error on Get: %v", err)
	}
	if q.RunningLength() != 1 {
		t.Fatalf("expected 1 running task, got %d", q.RunningLength())
	}
	if err := q.Cancel("r1"); err != nil {
		t.Fatalf("unexpected error cancelling running task: %v", err)
	}
	if !task.Cancelled() {
		t.Fatal("running task not cancelled")
	}
	q.Done("r1")
	if q.RunningLength() != 0 {
		t.Fatalf("expected 0 running tasks after Done, got %d", q.RunningLength())
	}
}

func TestCloseBehavior(t *testing.T) {
	q := queue.NewTaskQueue[int]()
	done := make(chan struct{})
	go func() {
		_, err := q.Get()
		if err == nil {
			t.Errorf("expected error when getting from closed empty queue, got nil")
		}
		close(done)
	}()
	q.Close()
	<-done
	if err := q.Add(newTask("late")); err == nil {
		t.Fatal("expected error adding to closed queue")
	}
}

func TestConcurrencySafety(t *testing.T) {
	q := queue.NewTaskQueue[int]()
	var wg sync.WaitGroup
	n := 1000
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < n; i++ {
			q.Add(newTask(fmt.Sprintf("p%d", i)))
		}
	}()
	wg.Add(1)
	go func() {
		defer wg.Done()
		count := 0
		for count < n {
			task, err := q.Get()
			if err != nil {
				continue
			}
			q.Done(task.ID)
			count++
		}
	}()
	wg.Wait()
}
