package service

import (
	"context"
	"fmt"

	"github.com/efreitasn/lobsim/internal/domain"
	"github.com/efreitasn/lobsim/internal/engine"
	"github.com/efreitasn/lobsim/internal/position"
	"github.com/efreitasn/lobsim/internal/replay"
)

const (
	defaultDepth = 5
	maxDepth     = 50

	defaultTradeLimit = 50
	maxTradeLimit     = 1000
)

// BookSnapshot is an aggregated top-N view of both book sides.
type BookSnapshot struct {
	Bids []engine.PriceLevel
	Asks []engine.PriceLevel
}

// Status summarizes replay progress.
type Status struct {
	Processed int
	Remaining int
	Skipped   int
	Trades    int
	Done      bool
}

// ReplayService exposes the replay controls and the book/position query
// surface to the HTTP layer.
type ReplayService struct {
	replayer *replay.Replayer
	book     *engine.OrderBook
	tracker  *position.Tracker
}

// NewReplayService creates a ReplayService over the given session state.
func NewReplayService(replayer *replay.Replayer, book *engine.OrderBook, tracker *position.Tracker) *ReplayService {
	return &ReplayService{replayer: replayer, book: book, tracker: tracker}
}

// Step applies the next event. ok is false when the feed was already
// exhausted.
func (s *ReplayService) Step() (bool, error) {
	return s.replayer.Step()
}

// Run replays the remaining feed to completion.
func (s *ReplayService) Run(ctx context.Context) error {
	return s.replayer.Run(ctx)
}

// Status returns replay progress counters.
func (s *ReplayService) Status() Status {
	return Status{
		Processed: s.replayer.Processed(),
		Remaining: s.replayer.Remaining(),
		Skipped:   s.replayer.Skipped(),
		Trades:    s.book.TradeCount(),
		Done:      s.replayer.Done(),
	}
}

// Book returns up to depth aggregated price levels per side. depth 0
// applies the default.
func (s *ReplayService) Book(depth int) (BookSnapshot, error) {
	if depth == 0 {
		depth = defaultDepth
	}
	if depth < 1 || depth > maxDepth {
		return BookSnapshot{}, &domain.ValidationError{
			Message: fmt.Sprintf("depth must be between 1 and %d", maxDepth),
		}
	}
	return BookSnapshot{
		Bids: s.book.TopBids(depth),
		Asks: s.book.TopAsks(depth),
	}, nil
}

// BestBid returns the best bid quote, or ok=false on an empty side.
func (s *ReplayService) BestBid() (engine.Quote, bool) {
	return s.book.BestBid()
}

// BestAsk returns the best ask quote, or ok=false on an empty side.
func (s *ReplayService) BestAsk() (engine.Quote, bool) {
	return s.book.BestAsk()
}

// Trades returns the chronological tail of the trade log, at most limit
// entries. limit 0 applies the default.
func (s *ReplayService) Trades(limit int) ([]*domain.Trade, error) {
	if limit == 0 {
		limit = defaultTradeLimit
	}
	if limit < 1 || limit > maxTradeLimit {
		return nil, &domain.ValidationError{
			Message: fmt.Sprintf("limit must be between 1 and %d", maxTradeLimit),
		}
	}

	trades := s.book.Trades()
	if len(trades) > limit {
		trades = trades[len(trades)-limit:]
	}
	return trades, nil
}

// Position returns the strategy's position snapshot.
func (s *ReplayService) Position() position.Snapshot {
	return s.tracker.Snapshot()
}
