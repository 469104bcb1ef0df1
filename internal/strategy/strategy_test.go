package strategy

import (
	"errors"
	"testing"

	"github.com/efreitasn/lobsim/internal/domain"
)

func TestTaker_AlternatesSides(t *testing.T) {
	s := NewTaker(7)

	first := s.Generate(100000, 101000, 1.0)
	if first == nil {
		t.Fatal("expected an order")
	}
	if first.Side != domain.SideBuy || first.Price != 101000 {
		t.Errorf("first order = %s @ %d, want buy at the ask 101000", first.Side, first.Price)
	}
	if first.Type != domain.OrderTypeMarket || first.Quantity != 7 {
		t.Errorf("first order = %s qty %d, want market qty 7", first.Type, first.Quantity)
	}

	second := s.Generate(100000, 101000, 2.0)
	if second.Side != domain.SideSell || second.Price != 100000 {
		t.Errorf("second order = %s @ %d, want sell at the bid 100000", second.Side, second.Price)
	}

	third := s.Generate(100000, 101000, 3.0)
	if third.Side != domain.SideBuy {
		t.Errorf("third order side = %s, want the alternation to wrap to buy", third.Side)
	}
}

func TestMeanReversion_RespectsThreshold(t *testing.T) {
	s := NewMeanReversion(5, 500)

	if got := s.Generate(100000, 100600, 1.0); got != nil {
		t.Errorf("spread 600 > threshold 500, got order %+v, want nil", got)
	}

	// A wide-spread pass must not consume the buy turn.
	first := s.Generate(100000, 100500, 2.0)
	if first == nil || first.Side != domain.SideBuy || first.Price != 100500 {
		t.Fatalf("first firing order = %+v, want buy at the ask", first)
	}

	second := s.Generate(100000, 100400, 3.0)
	if second == nil || second.Side != domain.SideSell || second.Price != 100000 {
		t.Fatalf("second firing order = %+v, want sell at the bid", second)
	}
}

func TestRandom_DeterministicForSeed(t *testing.T) {
	a := NewRandom(3, 42)
	b := NewRandom(3, 42)

	for i := 0; i < 20; i++ {
		oa := a.Generate(100000, 101000, float64(i))
		ob := b.Generate(100000, 101000, float64(i))
		if oa.Side != ob.Side {
			t.Fatalf("draw %d: sides diverge for the same seed: %s vs %s", i, oa.Side, ob.Side)
		}
		wantPrice := int64(100000)
		if oa.Side == domain.SideBuy {
			wantPrice = 101000
		}
		if oa.Price != wantPrice {
			t.Fatalf("draw %d: %s order priced %d, want %d", i, oa.Side, oa.Price, wantPrice)
		}
		if oa.Type != domain.OrderTypeMarket || oa.Quantity != 3 {
			t.Fatalf("draw %d: order = %s qty %d, want market qty 3", i, oa.Type, oa.Quantity)
		}
	}
}

func TestNew_SelectsByName(t *testing.T) {
	for _, name := range []string{"taker", "meanrev", "random"} {
		t.Run(name, func(t *testing.T) {
			s, err := New(name, 10, 500, 1)
			if err != nil {
				t.Fatalf("New(%q): %v", name, err)
			}
			switch name {
			case "taker":
				if _, ok := s.(*Taker); !ok {
					t.Errorf("New(%q) = %T, want *Taker", name, s)
				}
			case "meanrev":
				if _, ok := s.(*MeanReversion); !ok {
					t.Errorf("New(%q) = %T, want *MeanReversion", name, s)
				}
			case "random":
				if _, ok := s.(*Random); !ok {
					t.Errorf("New(%q) = %T, want *Random", name, s)
				}
			}
		})
	}
}

func TestNew_UnknownName(t *testing.T) {
	if _, err := New("momentum", 10, 500, 1); !errors.Is(err, domain.ErrUnknownStrategy) {
		t.Errorf("New(\"momentum\") error = %v, want ErrUnknownStrategy", err)
	}
}
