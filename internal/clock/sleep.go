// Package clock provides context-aware waiting helpers.
package clock

import (
	"context"
	"time"
)

// Sleep waits for d or returns early with the context error.
func Sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
