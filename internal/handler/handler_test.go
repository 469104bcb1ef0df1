package handler

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/efreitasn/lobsim/internal/domain"
	"github.com/efreitasn/lobsim/internal/engine"
	"github.com/efreitasn/lobsim/internal/position"
	"github.com/efreitasn/lobsim/internal/replay"
	"github.com/efreitasn/lobsim/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
)

// newTestRouter wires a full stack over a four-event feed with no
// strategy: two adds, one execution for 30 against the ask, one delete
// of the bid.
func newTestRouter(t *testing.T) (chi.Router, *Hub) {
	t.Helper()

	events := []domain.MarketEvent{
		{Timestamp: 1.0, Kind: domain.EventAddOrder, OrderID: 1, Size: 50, Price: 199000, Direction: domain.SideBuy},
		{Timestamp: 2.0, Kind: domain.EventAddOrder, OrderID: 2, Size: 100, Price: 200000, Direction: domain.SideSell},
		{Timestamp: 3.0, Kind: domain.EventExecution, OrderID: 2, Size: 30, Price: 200000, Direction: domain.SideSell},
		{Timestamp: 4.0, Kind: domain.EventDeleteOrder, OrderID: 1, Size: 50, Direction: domain.SideBuy},
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	tracker := position.NewTracker()
	book := engine.NewOrderBook(tracker)
	replayer := replay.NewReplayer(book, nil, events)
	svc := service.NewReplayService(replayer, book, tracker)
	hub := NewHub(logger)

	return NewRouter(svc, hub, logger), hub
}

func doRequest(t *testing.T, router chi.Router, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(w.Body).Decode(&v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return v
}

func TestHealthz(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doRequest(t, router, http.MethodGet, "/healthz")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if got := decode[map[string]string](t, w); got["status"] != "ok" {
		t.Errorf("body = %v, want status ok", got)
	}
}

func TestGetBook_EmptyBook(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doRequest(t, router, http.MethodGet, "/book")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	resp := decode[bookResponse](t, w)
	if len(resp.Bids) != 0 || len(resp.Asks) != 0 {
		t.Errorf("body = %+v, want empty sides", resp)
	}
}

func TestGetBook_DepthValidation(t *testing.T) {
	router, _ := newTestRouter(t)

	for _, query := range []string{"?depth=abc", "?depth=51", "?depth=-1"} {
		w := doRequest(t, router, http.MethodGet, "/book"+query)
		if w.Code != http.StatusBadRequest {
			t.Errorf("GET /book%s status = %d, want 400", query, w.Code)
		}
	}
}

func TestReplayStep_ToCompletion(t *testing.T) {
	router, _ := newTestRouter(t)

	for i := 0; i < 4; i++ {
		w := doRequest(t, router, http.MethodPost, "/replay/step")
		if w.Code != http.StatusOK {
			t.Fatalf("step %d status = %d, want 200", i, w.Code)
		}
		resp := decode[stepResponse](t, w)
		if !resp.Stepped {
			t.Fatalf("step %d: stepped = false with events remaining", i)
		}
		if resp.Status.Processed != i+1 {
			t.Fatalf("step %d: processed = %d, want %d", i, resp.Status.Processed, i+1)
		}
	}

	w := doRequest(t, router, http.MethodPost, "/replay/step")
	resp := decode[stepResponse](t, w)
	if resp.Stepped {
		t.Error("stepped = true past the end of the feed")
	}
	if !resp.Status.Done {
		t.Error("done = false after the full feed")
	}
}

func TestReplayRun_AndQuerySurface(t *testing.T) {
	router, _ := newTestRouter(t)

	if w := doRequest(t, router, http.MethodPost, "/replay/run"); w.Code != http.StatusOK {
		t.Fatalf("run status = %d, want 200", w.Code)
	}

	status := decode[statusResponse](t, doRequest(t, router, http.MethodGet, "/replay"))
	if status.Processed != 4 || status.Remaining != 0 || !status.Done {
		t.Errorf("status = %+v, want 4 processed and done", status)
	}
	if status.Trades != 1 {
		t.Errorf("trades = %d, want 1 from the execution event", status.Trades)
	}

	book := decode[bookResponse](t, doRequest(t, router, http.MethodGet, "/book"))
	if len(book.Bids) != 0 {
		t.Errorf("bids = %+v, want none after the delete", book.Bids)
	}
	if len(book.Asks) != 1 || book.Asks[0].Price != 20.0 || book.Asks[0].Quantity != 70 {
		t.Errorf("asks = %+v, want 70 resting at 20.0", book.Asks)
	}

	best := decode[bestResponse](t, doRequest(t, router, http.MethodGet, "/book/best"))
	if best.Bid != nil {
		t.Errorf("best bid = %+v, want null", best.Bid)
	}
	if best.Ask == nil || best.Ask.Price != 20.0 || best.Ask.Quantity != 70 {
		t.Errorf("best ask = %+v, want 70 at 20.0", best.Ask)
	}

	trades := decode[[]tradeResponse](t, doRequest(t, router, http.MethodGet, "/trades"))
	if len(trades) != 1 {
		t.Fatalf("len(trades) = %d, want 1", len(trades))
	}
	if trades[0].Price != 20.0 || trades[0].Quantity != 30 {
		t.Errorf("trade = %+v, want 30 at 20.0", trades[0])
	}
	if trades[0].Buyer != "external" || trades[0].Seller != "2" {
		t.Errorf("trade parties = %s/%s, want external/2", trades[0].Buyer, trades[0].Seller)
	}

	pos := decode[positionResponse](t, doRequest(t, router, http.MethodGet, "/position"))
	if pos.Position != 0 || pos.RealizedPnL != 0 {
		t.Errorf("position = %+v, want flat with no strategy", pos)
	}
}

func TestGetTrades_LimitValidation(t *testing.T) {
	router, _ := newTestRouter(t)

	for _, query := range []string{"?limit=abc", "?limit=1001", "?limit=-1"} {
		w := doRequest(t, router, http.MethodGet, "/trades"+query)
		if w.Code != http.StatusBadRequest {
			t.Errorf("GET /trades%s status = %d, want 400", query, w.Code)
		}
	}
}

func TestStream_PushesSnapshots(t *testing.T) {
	router, hub := newTestRouter(t)

	srv := httptest.NewServer(router)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))

	var initial snapshotMessage
	if err := conn.ReadJSON(&initial); err != nil {
		t.Fatalf("read initial snapshot: %v", err)
	}
	if initial.Type != "snapshot" || initial.Status.Processed != 0 {
		t.Errorf("initial = %+v, want untouched snapshot", initial.Status)
	}
	if hub.ClientCount() != 1 {
		t.Errorf("clients = %d, want 1", hub.ClientCount())
	}

	resp, err := http.Post(srv.URL+"/replay/step", "application/json", nil)
	if err != nil {
		t.Fatalf("step: %v", err)
	}
	resp.Body.Close()

	var pushed snapshotMessage
	if err := conn.ReadJSON(&pushed); err != nil {
		t.Fatalf("read pushed snapshot: %v", err)
	}
	if pushed.Status.Processed != 1 {
		t.Errorf("pushed snapshot processed = %d, want 1", pushed.Status.Processed)
	}
	if len(pushed.Book.Bids) != 1 {
		t.Errorf("pushed book bids = %+v, want the first add visible", pushed.Book.Bids)
	}
}
