package game

import (
	"context"
	"errors"
	"time"
)

// Run is the reference host driver. It starts the game, ticks once per
// interval until ctx is done or maxTicks ticks have run (0 = unlimited),
// and stops it again. An interval <= 0 ticks as fast as possible.
// Stopping the game from another goroutine also ends the loop.
func Run(ctx context.Context, g *Game, interval time.Duration, maxTicks int32) error {
	if err := g.Start(); err != nil {
		return err
	}
	defer g.Stop()

	var tickC <-chan time.Time
	if interval > 0 {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		tickC = ticker.C
	}

	for ran := int32(0); maxTicks <= 0 || ran < maxTicks; ran++ {
		if tickC != nil {
			select {
			case <-ctx.Done():
				return nil
			case <-tickC:
			}
		} else if ctx.Err() != nil {
			return nil
		}

		if err := g.Tick(); err != nil {
			if errors.Is(err, ErrInvalidState) {
				return nil
			}
			return err
		}
	}
	return nil
}
