package domain

// Trade is an immutable record of a single execution. Buyer and Seller
// reference the two contra order ids; either may be the anonymous
// external party when the fill was reported by the exchange against a
// resting order.
type Trade struct {
	TradeID   string
	Price     int64 // fixed-point
	Quantity  int64
	Timestamp float64
	Buyer     OrderID
	Seller    OrderID
}

// StrategyDirection returns the strategy's signed fill direction: +1 when
// the strategy bought, -1 when it sold. ok is false when the trade does
// not have exactly one strategy-attributed side.
func (t *Trade) StrategyDirection() (int64, bool) {
	bought, sold := t.Buyer.IsStrategy(), t.Seller.IsStrategy()
	switch {
	case bought && !sold:
		return 1, true
	case sold && !bought:
		return -1, true
	}
	return 0, false
}
