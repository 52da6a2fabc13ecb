package operations

import (
	"context"
	"time"

	"github.com/kebairia/catbackup/internal/config"
	"golang.org/x/time/rate"
)

// Pacer is the pause taken after every item, success or not.
type Pacer interface {
	Wait(ctx context.Context) error
}

// FixedDelay sleeps for Delay after every item.
type FixedDelay struct {
	Delay time.Duration
}

func (p FixedDelay) Wait(ctx context.Context) error {
	if p.Delay <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(p.Delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// RateLimit spaces items so no more than the configured number start per second.
type RateLimit struct {
	limiter *rate.Limiter
}

// NewRateLimit returns a throttle allowing perSecond items per second.
func NewRateLimit(perSecond float64) *RateLimit {
	return &RateLimit{limiter: rate.NewLimiter(rate.Limit(perSecond), 1)}
}

func (p *RateLimit) Wait(ctx context.Context) error {
	return p.limiter.Wait(ctx)
}

// NewPacer picks the throttle when rate_limit is set, the fixed delay otherwise.
func NewPacer(cfg config.BackupConfig) Pacer {
	if cfg.RateLimit > 0 {
		return NewRateLimit(cfg.RateLimit)
	}
	return FixedDelay{Delay: cfg.Delay}
}
