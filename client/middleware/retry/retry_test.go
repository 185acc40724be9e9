package retry

import (
	"context"
	"errors"
	"testing"

	"github.com/gotd/td/bin"
	"github.com/gotd/td/telegram"
	"github.com/gotd/td/tgerr"
)

type scriptedInvoker struct {
	calls int
	errs  []error
}

func (s *scriptedInvoker) Invoke(ctx context.Context, input bin.Encoder, output bin.Decoder) error {
	s.calls++
	if s.calls <= len(s.errs) {
		return s.errs[s.calls-1]
	}
	return nil
}

func invokeOnce(m telegram.Middleware, next *scriptedInvoker) error {
	return m.Handle(next)(context.Background(), nil, nil)
}

func TestRetryOnTransientError(t *testing.T) {
	next := &scriptedInvoker{errs: []error{
		tgerr.New(500, "RPC_CALL_FAIL"),
		tgerr.New(500, "WORKER_BUSY_TOO_LONG_RETRY"),
	}}
	if err := invokeOnce(New(5), next); err != nil {
		t.Fatalf("expected success after transient errors, got %v", err)
	}
	if next.calls != 3 {
		t.Errorf("got %d invocations, want 3", next.calls)
	}
}

func TestRetryPassesThroughOtherErrors(t *testing.T) {
	next := &scriptedInvoker{errs: []error{tgerr.New(400, "PEER_ID_INVALID")}}
	err := invokeOnce(New(5), next)
	if !tgerr.Is(err, "PEER_ID_INVALID") {
		t.Fatalf("expected PEER_ID_INVALID passed through, got %v", err)
	}
	if next.calls != 1 {
		t.Errorf("got %d invocations, want 1", next.calls)
	}
}

func TestRetryGivesUp(t *testing.T) {
	fail := tgerr.New(500, "RPC_CALL_FAIL")
	next := &scriptedInvoker{errs: []error{fail, fail, fail}}
	err := invokeOnce(New(3), next)
	if err == nil {
		t.Fatal("expected an error after exhausting attempts")
	}
	if !errors.Is(err, fail) {
		t.Errorf("final error does not wrap the last failure: %v", err)
	}
	if next.calls != 3 {
		t.Errorf("got %d invocations, want 3", next.calls)
	}
}
