package position

import (
	"sync"

	"github.com/efreitasn/lobsim/internal/domain"
)

// Snapshot is a point-in-time view of the strategy's book-keeping.
// AvgEntry and RealizedPnL are fixed-point at domain.PriceScale.
type Snapshot struct {
	Position    int64
	AvgEntry    int64
	RealizedPnL int64
}

// Tracker maintains the strategy's running position, volume-weighted
// average entry price, and cumulative realized PnL from its fills. One
// tracker exists per replay session; it is created flat and never reset.
type Tracker struct {
	mu          sync.RWMutex
	position    int64 // positive = long
	avgEntry    int64 // meaningful only while position != 0
	realizedPnL int64
}

// NewTracker creates a flat Tracker.
func NewTracker() *Tracker {
	return &Tracker{}
}

// Update applies one strategy-attributed fill. The caller guarantees the
// trade quantity is positive and that exactly one side is strategy-origin;
// trades without a single strategy side are ignored.
//
// Opening or adding to a position re-weights the average entry price.
// Crossing past flat realizes PnL on the closing quantity and re-opens
// the remainder at the trade price; closing exactly to flat resets the
// entry price to zero.
func (tr *Tracker) Update(t *domain.Trade) {
	dir, ok := t.StrategyDirection()
	if !ok {
		return
	}

	tr.mu.Lock()
	defer tr.mu.Unlock()

	prev := tr.position
	tr.position += dir * t.Quantity

	sameSide := prev == 0 ||
		(prev > 0 && tr.position > 0) ||
		(prev < 0 && tr.position < 0)

	if sameSide {
		// Volume-weighted average against the surviving position.
		total := tr.avgEntry*abs(prev) + t.Price*t.Quantity
		tr.avgEntry = total / abs(tr.position)
		return
	}

	// The closing direction is opposite the previous position, so -dir is
	// the sign of the position being reduced.
	closing := min(abs(prev), t.Quantity)
	tr.realizedPnL += closing * (t.Price - tr.avgEntry) * -dir

	if tr.position == 0 {
		tr.avgEntry = 0
		return
	}
	// The fill crossed past flat: the re-opened remainder is entered at
	// the trade price, not re-weighted against the extinguished position.
	tr.avgEntry = t.Price
}

// Snapshot returns the current position state.
func (tr *Tracker) Snapshot() Snapshot {
	tr.mu.RLock()
	defer tr.mu.RUnlock()

	return Snapshot{
		Position:    tr.position,
		AvgEntry:    tr.avgEntry,
		RealizedPnL: tr.realizedPnL,
	}
}

func abs(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
