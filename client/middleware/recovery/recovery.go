package recovery

import (
	"context"
	"errors"
	"io"
	"net"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/charmbracelet/log"
	"github.com/gotd/td/bin"
	"github.com/gotd/td/telegram"
	"github.com/gotd/td/tg"
	"github.com/gotd/td/tgerr"
)

type recovery struct {
	ctx     context.Context
	backoff backoff.BackOff
}

// New returns middleware that re-invokes a request with backoff while the
// transport is recovering from a dropped connection.
func New(ctx context.Context, backoff backoff.BackOff) telegram.Middleware {
	return recovery{
		ctx:     ctx,
		backoff: backoff,
	}
}

func (r recovery) Handle(next tg.Invoker) telegram.InvokeFunc {
	return func(ctx context.Context, input bin.Encoder, output bin.Decoder) error {
		return backoff.RetryNotify(func() error {
			if err := next.Invoke(ctx, input, output); err != nil {
				if r.shouldRecover(err) {
					return err
				}
				return backoff.Permanent(err)
			}
			return nil
		}, r.backoff, func(err error, d time.Duration) {
			log.FromContext(ctx).Debug("recovery middleware", "backoff", d, "error", err)
		})
	}
}

func (r recovery) shouldRecover(err error) bool {
	select {
	case <-r.ctx.Done():
		return false
	default:
	}
	if d, ok := tgerr.AsFloodWait(err); ok && d > 0 {
		// the floodwait middleware owns this case
		return false
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	return errors.Is(err, io.ErrClosedPipe) || errors.Is(err, io.EOF)
}
