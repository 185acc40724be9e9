// Package retry re-invokes RPCs that fail with known transient server
// errors. Flood waits are not handled here; the floodwait middleware owns
// those.
package retry

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/gotd/td/bin"
	"github.com/gotd/td/telegram"
	"github.com/gotd/td/tg"
	"github.com/gotd/td/tgerr"
)

// Server-side failures that resolve themselves on a re-send.
var transientRPCErrors = []string{
	"Timedout",
	"No workers running",
	"RPC_CALL_FAIL",
	"RPC_MCGET_FAIL",
	"WORKER_BUSY_TOO_LONG_RETRY",
	"memory limit exit",
}

type invoker struct {
	attempts int
	match    []string
}

func (r invoker) Handle(next tg.Invoker) telegram.InvokeFunc {
	return func(ctx context.Context, input bin.Encoder, output bin.Decoder) error {
		var err error
		for attempt := 0; attempt < r.attempts; attempt++ {
			err = next.Invoke(ctx, input, output)
			if err == nil {
				return nil
			}
			if !tgerr.Is(err, r.match...) {
				return err
			}
			log.FromContext(ctx).Debugf("Retrying RPC after transient error (attempt %d): %s", attempt+1, err)
		}
		return fmt.Errorf("gave up after %d attempts: %w", r.attempts, err)
	}
}

// New builds middleware retrying up to attempts times on the given error
// strings, in addition to the built-in transient set.
func New(attempts int, extra ...string) telegram.Middleware {
	return invoker{
		attempts: attempts,
		match:    append(extra, transientRPCErrors...),
	}
}
