// Package simulated is a stand-in payment gateway. It charges nothing and
// succeeds by default; declines and latency are configurable so the booking
// flow can be exercised end to end without a real processor.
package simulated

import (
	"context"
	"fmt"
	"time"

	"github.com/avstrong/hotelier/internal/logger"
)

type Config struct {
	L *logger.Logger

	// Latency is waited out before the charge resolves, honoring ctx.
	Latency time.Duration

	// Decline, when set, is consulted per charge; a non-nil result declines it.
	Decline func(amount float64) error
}

type Gateway struct {
	l       *logger.Logger
	latency time.Duration
	decline func(amount float64) error
}

func New(conf Config) *Gateway {
	return &Gateway{
		l:       conf.L,
		latency: conf.Latency,
		decline: conf.Decline,
	}
}

// Charge processes a single synchronous payment. A ctx deadline or cancel
// aborts the charge; the caller treats that the same as a decline.
func (g *Gateway) Charge(ctx context.Context, amount float64) error {
	if g.latency > 0 {
		timer := time.NewTimer(g.latency)
		defer timer.Stop()

		select {
		case <-ctx.Done():
			return fmt.Errorf("charge %.2f interrupted: %w", amount, ctx.Err())
		case <-timer.C:
		}
	}

	if g.decline != nil {
		if err := g.decline(amount); err != nil {
			return fmt.Errorf("charge %.2f: %w", amount, err)
		}
	}

	g.l.LogInfo("Processed payment of %.2f", amount)

	return nil
}
