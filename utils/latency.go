package utils

import (
	"context"
	"time"
)

// Latency simulates the round trip of a backend call. A zero Scale disables it.
type Latency struct {
	Scale float64
}

// Wait sleeps base*Scale or until ctx is done.
func (l Latency) Wait(ctx context.Context, base time.Duration) error {
	d := time.Duration(float64(base) * l.Scale)
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
