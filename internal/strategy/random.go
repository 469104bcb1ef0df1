package strategy

import (
	"math/rand"

	"github.com/efreitasn/lobsim/internal/domain"
)

// Random flips a coin for the side of each fixed-quantity market order.
// A seeded source keeps replays deterministic.
type Random struct {
	quantity int64
	rng      *rand.Rand
}

// NewRandom creates a Random strategy with its own seeded source.
func NewRandom(quantity, seed int64) *Random {
	return &Random{quantity: quantity, rng: rand.New(rand.NewSource(seed))}
}

// Generate returns a market order on a randomly chosen side.
func (s *Random) Generate(bestBid, bestAsk int64, timestamp float64) *domain.Order {
	side, price := domain.SideSell, bestBid
	if s.rng.Intn(2) == 0 {
		side, price = domain.SideBuy, bestAsk
	}

	return &domain.Order{
		Side:      side,
		Type:      domain.OrderTypeMarket,
		Price:     price,
		Quantity:  s.quantity,
		Timestamp: timestamp,
	}
}
