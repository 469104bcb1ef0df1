package domain

// EventKind is the LOBSTER message type code.
type EventKind int

const (
	// EventAddOrder adds a new visible limit order to the book.
	EventAddOrder EventKind = 1
	// EventPartialCancel reduces a resting order. The feed carries the
	// cancelled size, but both cancel kinds remove the whole order.
	EventPartialCancel EventKind = 2
	// EventDeleteOrder removes a resting order entirely.
	EventDeleteOrder EventKind = 3
	// EventExecution reports a fill against a visible resting order.
	EventExecution EventKind = 4
	// EventHiddenExecution reports a fill against hidden liquidity. It
	// never touches the visible book.
	EventHiddenExecution EventKind = 5
	// EventTradingHalt marks a trading halt indicator row.
	EventTradingHalt EventKind = 7
)

// MarketEvent is one parsed row of a LOBSTER message file. Price is
// fixed-point at PriceScale; Direction is the side of the referenced
// order, not of the aggressor.
type MarketEvent struct {
	Timestamp float64
	Kind      EventKind
	OrderID   int64
	Size      int64
	Price     int64
	Direction Side
}
