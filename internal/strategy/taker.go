package strategy

import "github.com/efreitasn/lobsim/internal/domain"

// Taker is the reference strategy: it alternates between buying at the
// ask and selling at the bid with fixed-quantity market orders, so it
// only ever takes liquidity.
type Taker struct {
	quantity int64
	buyNext  bool
}

// NewTaker creates a Taker that buys first.
func NewTaker(quantity int64) *Taker {
	return &Taker{quantity: quantity, buyNext: true}
}

// Generate returns the next alternating market order.
func (s *Taker) Generate(bestBid, bestAsk int64, timestamp float64) *domain.Order {
	side, price := domain.SideSell, bestBid
	if s.buyNext {
		side, price = domain.SideBuy, bestAsk
	}
	s.buyNext = !s.buyNext

	return &domain.Order{
		Side:      side,
		Type:      domain.OrderTypeMarket,
		Price:     price,
		Quantity:  s.quantity,
		Timestamp: timestamp,
	}
}
