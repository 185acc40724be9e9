package middleware

import (
	"time"

	"github.com/gotd/contrib/middleware/floodwait"
	"github.com/gotd/contrib/middleware/ratelimit"
	"github.com/gotd/td/telegram"
	"golang.org/x/time/rate"
)

// newThrottleMiddlewares pairs server-side FLOOD_WAIT handling with a
// client-side ceiling, so a long run of copies does not earn the flood wait
// in the first place.
func newThrottleMiddlewares(floodRetries uint) []telegram.Middleware {
	return []telegram.Middleware{
		floodwait.NewSimpleWaiter().WithMaxRetries(floodRetries),
		ratelimit.New(rate.Every(100*time.Millisecond), 5),
	}
}
