// Package strategy holds the pluggable decision units invoked by the
// replay loop after every applied event.
package strategy

import (
	"fmt"

	"github.com/efreitasn/lobsim/internal/domain"
)

// Strategy decides whether to submit an order after an applied event.
//
// Generate is invoked once per event, only while both book sides are
// non-empty, with the current best bid and ask prices (fixed-point). It
// must not mutate book state; a non-nil returned order is assigned a
// strategy id by the replayer and submitted through the normal add path.
// Returning nil submits nothing.
type Strategy interface {
	Generate(bestBid, bestAsk int64, timestamp float64) *domain.Order
}

// New builds a strategy by configured name. quantity is the per-order
// size, threshold the maximum spread (fixed-point) for "meanrev", and
// seed the RNG seed for "random".
func New(name string, quantity, threshold, seed int64) (Strategy, error) {
	switch name {
	case "taker":
		return NewTaker(quantity), nil
	case "meanrev":
		return NewMeanReversion(quantity, threshold), nil
	case "random":
		return NewRandom(quantity, seed), nil
	}
	return nil, fmt.Errorf("%w: %q", domain.ErrUnknownStrategy, name)
}
