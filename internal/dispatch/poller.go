package dispatch

import (
	"context"
	"time"

	zlog "github.com/rs/zerolog/log"
)

// DefaultPollPeriod is how often the fallback poller refreshes.
const DefaultPollPeriod = 20 * time.Second

// Poll refreshes every period until ctx is done, regardless of whether
// the push stream is healthy. The first refresh happens one period in.
func (d *Dispatcher) Poll(ctx context.Context, period time.Duration) {
	if period <= 0 {
		period = DefaultPollPeriod
	}
	ticker := time.NewTicker(period)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := d.Refresh(ctx); err != nil {
				zlog.Debug().Err(err).Msg("poll refresh failed")
			}
		}
	}
}
