// Package replay drives market events through the engine one at a time.
package replay

import (
	"context"
	"fmt"
	"sync"

	"github.com/efreitasn/lobsim/internal/domain"
	"github.com/efreitasn/lobsim/internal/engine"
	"github.com/efreitasn/lobsim/internal/strategy"
)

// Replayer feeds events into the book in log order and runs the strategy
// pass after each. It is the single writer for the book: a step runs to
// completion, including any matching the strategy order triggers, before
// the next event is applied.
type Replayer struct {
	mu          sync.Mutex
	book        *engine.OrderBook
	strat       strategy.Strategy // nil disables the strategy pass
	events      []domain.MarketEvent
	next        int
	strategySeq int64
	skipped     int
}

// NewReplayer creates a Replayer over the given event feed. The feed
// must be in non-decreasing timestamp order.
func NewReplayer(book *engine.OrderBook, strat strategy.Strategy, events []domain.MarketEvent) *Replayer {
	return &Replayer{book: book, strat: strat, events: events}
}

// Step applies the next event and runs the strategy pass. It returns
// false when the feed is exhausted. An error aborts the current event
// only; it indicates a malformed feed or a bug, not a recoverable
// runtime condition.
func (r *Replayer) Step() (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.step()
}

// Run applies events until the feed is exhausted, an event fails, or
// ctx is cancelled.
func (r *Replayer) Run(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		more, err := r.step()
		if err != nil {
			return err
		}
		if !more {
			return nil
		}
	}
}

func (r *Replayer) step() (bool, error) {
	if r.next >= len(r.events) {
		return false, nil
	}
	ev := r.events[r.next]
	r.next++

	if err := r.apply(ev); err != nil {
		return true, fmt.Errorf("event %d: %w", r.next-1, err)
	}
	if err := r.strategyPass(ev.Timestamp); err != nil {
		return true, fmt.Errorf("event %d: strategy order: %w", r.next-1, err)
	}
	return true, nil
}

// apply mutates the book according to the event kind. Cancels and
// executions referencing unknown ids are counted as skipped, since the
// order may already have been filled or cancelled earlier in the log.
func (r *Replayer) apply(ev domain.MarketEvent) error {
	switch ev.Kind {
	case domain.EventAddOrder:
		order := &domain.Order{
			ID:        domain.ExchangeID(ev.OrderID),
			Side:      ev.Direction,
			Type:      domain.OrderTypeLimit,
			Price:     ev.Price,
			Quantity:  ev.Size,
			Timestamp: ev.Timestamp,
		}
		_, err := r.book.Add(order)
		return err

	case domain.EventPartialCancel, domain.EventDeleteOrder:
		if !r.book.Cancel(domain.ExchangeID(ev.OrderID)) {
			r.skipped++
		}
		return nil

	case domain.EventExecution:
		found, err := r.book.ApplyExecution(domain.ExchangeID(ev.OrderID), ev.Size, ev.Timestamp)
		if err != nil {
			return err
		}
		if !found {
			r.skipped++
		}
		return nil

	case domain.EventHiddenExecution, domain.EventTradingHalt:
		// Reserved kinds: they never touch visible book state.
		return nil
	}

	return fmt.Errorf("%w: %d", domain.ErrUnknownEvent, ev.Kind)
}

// strategyPass queries the top of book and submits the strategy's order,
// if any. The pass is skipped while either side is empty.
func (r *Replayer) strategyPass(timestamp float64) error {
	if r.strat == nil {
		return nil
	}

	bid, okBid := r.book.BestBid()
	ask, okAsk := r.book.BestAsk()
	if !okBid || !okAsk {
		return nil
	}

	order := r.strat.Generate(bid.Price, ask.Price, timestamp)
	if order == nil {
		return nil
	}

	r.strategySeq++
	order.ID = domain.StrategyID(r.strategySeq)
	_, err := r.book.Add(order)
	return err
}

// Processed returns the number of events applied so far.
func (r *Replayer) Processed() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.next
}

// Remaining returns the number of events not yet applied.
func (r *Replayer) Remaining() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events) - r.next
}

// Skipped returns the number of cancels and executions that referenced
// ids no longer on the book.
func (r *Replayer) Skipped() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.skipped
}

// Done reports whether the whole feed has been applied.
func (r *Replayer) Done() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.next >= len(r.events)
}
