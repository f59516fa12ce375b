package auth

import (
	"context"
	"crypto/rand"
	"math/big"
	"time"
)

// FailureDelay pads failed logins to a minimum duration plus jitter so unknown
// emails and wrong passwords take about the same time.
type FailureDelay struct {
	Base   time.Duration
	Jitter time.Duration
}

// DefaultFailureDelay is used by the login endpoint
var DefaultFailureDelay = FailureDelay{Base: 250 * time.Millisecond, Jitter: 100 * time.Millisecond}

func (d FailureDelay) target() time.Duration {
	if d.Jitter <= 0 {
		return d.Base
	}
	n, err := rand.Int(rand.Reader, big.NewInt(int64(d.Jitter)))
	if err != nil {
		return d.Base
	}
	return d.Base + time.Duration(n.Int64())
}

// WaitFrom sleeps until the target duration has elapsed since start.
// It returns early when ctx is done.
func (d FailureDelay) WaitFrom(ctx context.Context, start time.Time) {
	remaining := d.target() - time.Since(start)
	if remaining <= 0 {
		return
	}

	timer := time.NewTimer(remaining)
	defer timer.Stop()

	select {
	case <-timer.C:
	case <-ctx.Done():
	}
}
