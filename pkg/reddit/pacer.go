package reddit

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// DefaultRequestInterval is the minimum spacing between outbound Reddit calls.
const DefaultRequestInterval = 2 * time.Second

// Pacer enforces a minimum interval between outbound API calls. A single-slot
// token bucket gives the same spacing guarantee as tracking the last call
// timestamp by hand, and is safe if a client is ever shared across goroutines.
type Pacer struct {
	limiter *rate.Limiter
}

// NewPacer returns a Pacer spacing calls at least minInterval apart.
// Non-positive intervals fall back to DefaultRequestInterval.
func NewPacer(minInterval time.Duration) *Pacer {
	if minInterval <= 0 {
		minInterval = DefaultRequestInterval
	}
	return &Pacer{limiter: rate.NewLimiter(rate.Every(minInterval), 1)}
}

// Wait blocks until the next call may proceed or ctx is cancelled.
func (p *Pacer) Wait(ctx context.Context) error {
	return p.limiter.Wait(ctx)
}
