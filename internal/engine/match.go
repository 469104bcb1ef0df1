package engine

import (
	"github.com/efreitasn/lobsim/internal/domain"
	"github.com/google/uuid"
)

// Add processes an incoming order through the matching engine.
//
// Market orders use IOC semantics: they fill whatever opposite-side
// liquidity is marketable and the remainder is silently discarded — they
// never rest and an empty opposite side is not an error. Limit orders run
// the same match pass first (an aggressive limit may cross the spread)
// and any unfilled remainder is appended to the tail of its price level
// and indexed by id.
//
// The returned trades are in execution order. A non-positive quantity is
// an invariant violation.
func (b *OrderBook) Add(o *domain.Order) ([]*domain.Trade, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if o.Quantity <= 0 {
		return nil, domain.ErrInvalidQuantity
	}

	trades := b.match(o)

	if o.Type == domain.OrderTypeLimit && o.Quantity > 0 {
		b.rest(o)
	}

	return trades, nil
}

// match drains the opposite side best-to-worst until the incoming order
// is filled or no further level is marketable. Within a level the FIFO
// queue is drained from the front: a partially filled resting order stays
// at the front and is never skipped. Fully filled resting orders leave
// the queue and the index; emptied levels leave the side's tree.
func (b *OrderBook) match(incoming *domain.Order) []*domain.Trade {
	opposite := b.side(incoming.Side.Opposite())

	var trades []*domain.Trade
	for incoming.Quantity > 0 {
		lvl, ok := opposite.Min()
		if !ok {
			break
		}
		if incoming.Type == domain.OrderTypeLimit && !marketable(incoming, lvl.price) {
			break
		}

		for len(lvl.orders) > 0 && incoming.Quantity > 0 {
			resting := lvl.orders[0]

			fill := min(incoming.Quantity, resting.Quantity)
			trade := b.newTrade(lvl.price, fill, incoming.Timestamp, incoming, resting)
			b.record(trade)
			trades = append(trades, trade)

			incoming.Quantity -= fill
			resting.Quantity -= fill
			if resting.Quantity == 0 {
				lvl.orders = lvl.orders[1:]
				delete(b.index, resting.ID)
			}
		}

		if len(lvl.orders) == 0 {
			opposite.Delete(lvl)
		}
	}

	return trades
}

// marketable reports whether a limit order may cross at the given
// opposite-side price.
func marketable(incoming *domain.Order, oppositePrice int64) bool {
	if incoming.Side == domain.SideBuy {
		return oppositePrice <= incoming.Price
	}
	return oppositePrice >= incoming.Price
}

// rest appends the order to the tail of its price level, creating the
// level if needed, and indexes it by id.
func (b *OrderBook) rest(o *domain.Order) {
	tree := b.side(o.Side)
	lvl, ok := tree.Get(&level{price: o.Price})
	if !ok {
		lvl = &level{price: o.Price}
		tree.ReplaceOrInsert(lvl)
	}
	lvl.orders = append(lvl.orders, o)
	b.index[o.ID] = o
}

// Cancel removes a resting order from its price-level queue and from the
// id index. It returns false when the id is unknown — already filled or
// already cancelled — which is expected during a replay and not an error.
func (b *OrderBook) Cancel(id domain.OrderID) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	o, ok := b.index[id]
	if !ok {
		return false
	}
	b.remove(o)
	return true
}

// remove deletes a resting order from its queue and the index, dropping
// the price level if it empties.
func (b *OrderBook) remove(o *domain.Order) {
	delete(b.index, o.ID)

	tree := b.side(o.Side)
	lvl, ok := tree.Get(&level{price: o.Price})
	if !ok {
		return
	}
	for i, queued := range lvl.orders {
		if queued.ID == o.ID {
			lvl.orders = append(lvl.orders[:i], lvl.orders[i+1:]...)
			break
		}
	}
	if len(lvl.orders) == 0 {
		tree.Delete(lvl)
	}
}

// ApplyExecution applies an exchange-reported execution against a
// specific resting order: the resting order fills min(remaining, quantity)
// at its own limit price against the anonymous external party, and is
// removed if fully filled. This is the only fill path for
// exchange-initiated executions; incoming-order fills go through Add.
//
// found is false when the id is unknown, meaning the order was already
// fully processed. A non-positive quantity is an invariant violation.
func (b *OrderBook) ApplyExecution(id domain.OrderID, quantity int64, timestamp float64) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if quantity <= 0 {
		return false, domain.ErrInvalidQuantity
	}

	o, ok := b.index[id]
	if !ok {
		return false, nil
	}

	fill := min(o.Quantity, quantity)
	buyer, seller := domain.ExternalID(), o.ID
	if o.Side == domain.SideBuy {
		buyer, seller = o.ID, domain.ExternalID()
	}
	b.record(&domain.Trade{
		TradeID:   uuid.New().String(),
		Price:     o.Price,
		Quantity:  fill,
		Timestamp: timestamp,
		Buyer:     buyer,
		Seller:    seller,
	})

	o.Quantity -= fill
	if o.Quantity == 0 {
		b.remove(o)
	}
	return true, nil
}

// newTrade builds the trade record for a match between the incoming
// order and a resting order at the given level price.
func (b *OrderBook) newTrade(price, quantity int64, timestamp float64, incoming, resting *domain.Order) *domain.Trade {
	buyer, seller := incoming.ID, resting.ID
	if incoming.Side == domain.SideSell {
		buyer, seller = resting.ID, incoming.ID
	}
	return &domain.Trade{
		TradeID:   uuid.New().String(),
		Price:     price,
		Quantity:  quantity,
		Timestamp: timestamp,
		Buyer:     buyer,
		Seller:    seller,
	}
}

// record is the single execution pipeline: every trade, whether produced
// by the match loop or by ApplyExecution, is appended to the log here
// and forwarded to the tracker at most once.
func (b *OrderBook) record(t *domain.Trade) {
	b.trades = append(b.trades, t)
	if b.tracker == nil {
		return
	}
	if _, ok := t.StrategyDirection(); ok {
		b.tracker.Update(t)
	}
}
