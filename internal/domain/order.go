package domain

import "strconv"

// OrderType distinguishes limit orders from market orders.
type OrderType string

const (
	OrderTypeLimit  OrderType = "limit"
	OrderTypeMarket OrderType = "market"
)

// Side indicates whether an order buys or sells.
type Side string

const (
	SideBuy  Side = "buy"
	SideSell Side = "sell"
)

// Opposite returns the other side of the book.
func (s Side) Opposite() Side {
	if s == SideBuy {
		return SideSell
	}
	return SideBuy
}

// Origin identifies where an order, or a trade counterparty, came from.
type Origin uint8

const (
	// OriginExchange is an order carried by the event feed, keyed by the
	// exchange-assigned integer id.
	OriginExchange Origin = iota
	// OriginStrategy is an order submitted by the plugged-in strategy.
	OriginStrategy
	// OriginExternal is the anonymous contra party of an exchange-reported
	// execution. It never corresponds to a resting order.
	OriginExternal
)

// OrderID identifies an order and carries its origin, so strategy
// attribution never depends on id formatting. It is comparable and used
// directly as the book's index key.
type OrderID struct {
	Origin Origin
	Seq    int64
}

// ExchangeID builds the id for a feed-originated order.
func ExchangeID(id int64) OrderID {
	return OrderID{Origin: OriginExchange, Seq: id}
}

// StrategyID builds the id for the n-th strategy-submitted order.
func StrategyID(seq int64) OrderID {
	return OrderID{Origin: OriginStrategy, Seq: seq}
}

// ExternalID is the anonymous counterparty reference.
func ExternalID() OrderID {
	return OrderID{Origin: OriginExternal}
}

// IsStrategy reports whether the id belongs to the strategy.
func (id OrderID) IsStrategy() bool {
	return id.Origin == OriginStrategy
}

func (id OrderID) String() string {
	switch id.Origin {
	case OriginStrategy:
		return "strategy_" + strconv.FormatInt(id.Seq, 10)
	case OriginExternal:
		return "external"
	}
	return strconv.FormatInt(id.Seq, 10)
}

// Order is a single trading instruction. Quantity is the remaining
// unfilled quantity and is mutated by the matching engine; it never goes
// below zero. While the order rests, its price-level queue owns it and
// the book's id index holds a non-owning reference.
type Order struct {
	ID        OrderID
	Side      Side
	Type      OrderType
	Price     int64 // fixed-point, ignored for market orders
	Quantity  int64
	Timestamp float64 // event time in seconds
}

// IsStrategy reports whether the order was submitted by the strategy.
func (o *Order) IsStrategy() bool {
	return o.ID.IsStrategy()
}
