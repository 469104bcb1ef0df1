package engine

import (
	"sync"

	"github.com/efreitasn/lobsim/internal/domain"
	"github.com/efreitasn/lobsim/internal/position"
	"github.com/google/btree"
)

// level is all resting orders at one exact price on one side of the
// book. orders is a FIFO queue: index 0 is the earliest arrival and
// fills first. An empty level is never left in a side's tree.
type level struct {
	price  int64
	orders []*domain.Order
}

// totalQuantity sums the remaining quantity resting at this level.
func (l *level) totalQuantity() int64 {
	var total int64
	for _, o := range l.orders {
		total += o.Quantity
	}
	return total
}

// bidLevelLess orders the bid side price descending, so Min() returns
// the best bid.
func bidLevelLess(a, b *level) bool {
	return a.price > b.price
}

// askLevelLess orders the ask side price ascending, so Min() returns
// the best ask.
func askLevelLess(a, b *level) bool {
	return a.price < b.price
}

// PriceLevel is one aggregated price level in a book snapshot.
type PriceLevel struct {
	Price         int64
	TotalQuantity int64
	OrderCount    int
}

// Quote is one side's best price with the aggregate quantity resting at it.
type Quote struct {
	Price    int64
	Quantity int64
}

// OrderBook maintains the bid and ask sides for a single instrument as
// B-trees of price levels, each holding a FIFO queue, with a secondary
// index from order id to resting order for O(1) lookup and cancellation.
//
// The replay loop is the sole writer. The RWMutex exists so the query
// surface can read a consistent book while a run is in flight.
type OrderBook struct {
	mu      sync.RWMutex
	bids    *btree.BTreeG[*level]
	asks    *btree.BTreeG[*level]
	index   map[domain.OrderID]*domain.Order
	trades  []*domain.Trade
	tracker *position.Tracker
}

// NewOrderBook creates an empty book. tracker receives every trade with
// exactly one strategy-attributed side; it may be nil.
func NewOrderBook(tracker *position.Tracker) *OrderBook {
	const degree = 32
	return &OrderBook{
		bids:    btree.NewG(degree, bidLevelLess),
		asks:    btree.NewG(degree, askLevelLess),
		index:   make(map[domain.OrderID]*domain.Order),
		tracker: tracker,
	}
}

// side returns the tree holding orders of the given side.
func (b *OrderBook) side(s domain.Side) *btree.BTreeG[*level] {
	if s == domain.SideBuy {
		return b.bids
	}
	return b.asks
}

// BestBid returns the best bid price and its aggregate resting quantity,
// or ok=false when the bid side is empty.
func (b *OrderBook) BestBid() (Quote, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return bestQuote(b.bids)
}

// BestAsk returns the best ask price and its aggregate resting quantity,
// or ok=false when the ask side is empty.
func (b *OrderBook) BestAsk() (Quote, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return bestQuote(b.asks)
}

func bestQuote(tree *btree.BTreeG[*level]) (Quote, bool) {
	lvl, ok := tree.Min()
	if !ok {
		return Quote{}, false
	}
	return Quote{Price: lvl.price, Quantity: lvl.totalQuantity()}, true
}

// TopBids returns up to n aggregated price levels from the bid side,
// ordered by price descending.
func (b *OrderBook) TopBids(n int) []PriceLevel {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return topLevels(b.bids, n)
}

// TopAsks returns up to n aggregated price levels from the ask side,
// ordered by price ascending.
func (b *OrderBook) TopAsks(n int) []PriceLevel {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return topLevels(b.asks, n)
}

// topLevels iterates a side best-to-worst and aggregates up to n levels.
func topLevels(tree *btree.BTreeG[*level], n int) []PriceLevel {
	if n <= 0 {
		return nil
	}
	levels := make([]PriceLevel, 0, n)
	tree.Ascend(func(lvl *level) bool {
		if len(levels) >= n {
			return false
		}
		levels = append(levels, PriceLevel{
			Price:         lvl.price,
			TotalQuantity: lvl.totalQuantity(),
			OrderCount:    len(lvl.orders),
		})
		return true
	})
	return levels
}

// RestingQuantity returns the remaining quantity of a resting order, or
// ok=false when the id is not on the book.
func (b *OrderBook) RestingQuantity(id domain.OrderID) (int64, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	o, ok := b.index[id]
	if !ok {
		return 0, false
	}
	return o.Quantity, true
}

// BidLevels returns the number of distinct bid price levels.
func (b *OrderBook) BidLevels() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.bids.Len()
}

// AskLevels returns the number of distinct ask price levels.
func (b *OrderBook) AskLevels() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.asks.Len()
}

// Trades returns the chronological trade log. The returned slice is a
// copy; trade records themselves are immutable.
func (b *OrderBook) Trades() []*domain.Trade {
	b.mu.RLock()
	defer b.mu.RUnlock()

	trades := make([]*domain.Trade, len(b.trades))
	copy(trades, b.trades)
	return trades
}

// TradeCount returns the number of trades executed so far.
func (b *OrderBook) TradeCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.trades)
}
