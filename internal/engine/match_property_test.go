package engine

import (
	"testing"

	"github.com/efreitasn/lobsim/internal/domain"
	"github.com/google/btree"
	"pgregory.net/rapid"
)

// checkBookInvariants verifies that no empty price level exists, that
// every queued order has positive remaining quantity, and that the id
// index and the level queues reference exactly the same orders.
func checkBookInvariants(t *rapid.T, b *OrderBook) {
	queued := 0
	for _, tree := range []*btree.BTreeG[*level]{b.bids, b.asks} {
		tree.Ascend(func(lvl *level) bool {
			if len(lvl.orders) == 0 {
				t.Fatalf("dangling empty level at price %d", lvl.price)
			}
			for _, o := range lvl.orders {
				if o.Quantity <= 0 {
					t.Fatalf("order %v resting with quantity %d", o.ID, o.Quantity)
				}
				indexed, ok := b.index[o.ID]
				if !ok {
					t.Fatalf("order %v queued but not indexed", o.ID)
				}
				if indexed != o {
					t.Fatalf("index and queue disagree for order %v", o.ID)
				}
				queued++
			}
			return true
		})
	}
	if queued != len(b.index) {
		t.Fatalf("%d orders queued but %d indexed", queued, len(b.index))
	}
}

func TestProperty_BookNeverCrossed(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		b := NewOrderBook(nil)

		n := rapid.IntRange(1, 60).Draw(t, "n")
		for i := 0; i < n; i++ {
			side := domain.SideBuy
			if rapid.Bool().Draw(t, "sell") {
				side = domain.SideSell
			}
			price := rapid.Int64Range(1, 100).Draw(t, "price") * 1000
			qty := rapid.Int64Range(1, 50).Draw(t, "qty")

			o := limitOrderTS(int64(i+1), side, price, qty, float64(i))
			if _, err := b.Add(o); err != nil {
				t.Fatalf("Add: %v", err)
			}

			bid, okBid := b.BestBid()
			ask, okAsk := b.BestAsk()
			if okBid && okAsk && bid.Price >= ask.Price {
				t.Fatalf("book is crossed: bid %d >= ask %d", bid.Price, ask.Price)
			}
		}
	})
}

func TestProperty_IndexMatchesQueues(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		b := NewOrderBook(nil)

		n := rapid.IntRange(1, 80).Draw(t, "n")
		for i := 0; i < n; i++ {
			switch rapid.IntRange(0, 3).Draw(t, "op") {
			case 0, 1: // Adds dominate so the book actually fills up.
				side := domain.SideBuy
				if rapid.Bool().Draw(t, "sell") {
					side = domain.SideSell
				}
				price := rapid.Int64Range(1, 40).Draw(t, "price") * 1000
				qty := rapid.Int64Range(1, 50).Draw(t, "qty")
				if _, err := b.Add(limitOrderTS(int64(i+1), side, price, qty, float64(i))); err != nil {
					t.Fatalf("Add: %v", err)
				}
			case 2:
				id := rapid.Int64Range(1, int64(n)).Draw(t, "cancelID")
				b.Cancel(domain.ExchangeID(id))
			case 3:
				id := rapid.Int64Range(1, int64(n)).Draw(t, "execID")
				qty := rapid.Int64Range(1, 60).Draw(t, "execQty")
				if _, err := b.ApplyExecution(domain.ExchangeID(id), qty, float64(i)); err != nil {
					t.Fatalf("ApplyExecution: %v", err)
				}
			}

			checkBookInvariants(t, b)
		}
	})
}

func TestProperty_EarlierOrderFillsFirst(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		b := NewOrderBook(nil)

		price := rapid.Int64Range(1, 100).Draw(t, "price") * 1000
		firstQty := rapid.Int64Range(1, 50).Draw(t, "firstQty")
		secondQty := rapid.Int64Range(1, 50).Draw(t, "secondQty")

		if _, err := b.Add(limitOrderTS(1, domain.SideSell, price, firstQty, 0)); err != nil {
			t.Fatalf("Add: %v", err)
		}
		if _, err := b.Add(limitOrderTS(2, domain.SideSell, price, secondQty, 1)); err != nil {
			t.Fatalf("Add: %v", err)
		}

		// A marketable buy covering the first order entirely must clear
		// it before touching the second.
		trades, err := b.Add(limitOrderTS(3, domain.SideBuy, price, firstQty, 2))
		if err != nil {
			t.Fatalf("Add: %v", err)
		}
		if len(trades) != 1 {
			t.Fatalf("len(trades) = %d, want 1", len(trades))
		}
		if trades[0].Seller != domain.ExchangeID(1) {
			t.Fatalf("seller = %v, want the earlier order", trades[0].Seller)
		}
		if qty, ok := b.RestingQuantity(domain.ExchangeID(2)); !ok || qty != secondQty {
			t.Fatalf("second order remaining = %d (resting=%v), want %d", qty, ok, secondQty)
		}
	})
}

// limitOrderTS builds an exchange limit order without *testing.T, for use
// inside rapid checks.
func limitOrderTS(id int64, side domain.Side, price, qty int64, ts float64) *domain.Order {
	return &domain.Order{
		ID:        domain.ExchangeID(id),
		Side:      side,
		Type:      domain.OrderTypeLimit,
		Price:     price,
		Quantity:  qty,
		Timestamp: ts,
	}
}
