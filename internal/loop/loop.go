// Package loop is the display-refresh stand-in: it invokes a step callback
// once per tick with a wall-clock timestamp until the callback signals stop
// or the context ends.
package loop

import (
	"context"
	"time"
)

// Run drives step at the given interval. step receives the tick time and
// returns false to stop the loop. Run returns ctx.Err() on cancellation and
// nil when step stops the loop itself.
func Run(ctx context.Context, interval time.Duration, step func(time.Time) bool) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-ticker.C:
			if !step(now) {
				return nil
			}
		}
	}
}
