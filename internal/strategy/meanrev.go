package strategy

import "github.com/efreitasn/lobsim/internal/domain"

// MeanReversion alternates taker orders like Taker, but only fires while
// the spread is at or below a configured threshold.
type MeanReversion struct {
	quantity  int64
	threshold int64 // fixed-point spread
	buyNext   bool
}

// NewMeanReversion creates a MeanReversion strategy that buys first.
func NewMeanReversion(quantity, threshold int64) *MeanReversion {
	return &MeanReversion{quantity: quantity, threshold: threshold, buyNext: true}
}

// Generate returns the next alternating market order, or nil while the
// spread exceeds the threshold.
func (s *MeanReversion) Generate(bestBid, bestAsk int64, timestamp float64) *domain.Order {
	if bestAsk-bestBid > s.threshold {
		return nil
	}

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
