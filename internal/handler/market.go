package handler

import (
	"net/http"
	"strconv"

	"github.com/efreitasn/lobsim/internal/domain"
	"github.com/efreitasn/lobsim/internal/engine"
	"github.com/efreitasn/lobsim/internal/position"
	"github.com/efreitasn/lobsim/internal/service"
)

// MarketHandler handles the book, trade log, and position endpoints.
type MarketHandler struct {
	svc *service.ReplayService
}

// NewMarketHandler creates a new MarketHandler.
func NewMarketHandler(svc *service.ReplayService) *MarketHandler {
	return &MarketHandler{svc: svc}
}

// priceLevelResponse is one aggregated price level.
type priceLevelResponse struct {
	Price    float64 `json:"price"`
	Quantity int64   `json:"quantity"`
	Orders   int     `json:"orders"`
}

// bookResponse is the JSON response for GET /book.
type bookResponse struct {
	Bids []priceLevelResponse `json:"bids"`
	Asks []priceLevelResponse `json:"asks"`
}

// quoteResponse is one side's best price and aggregate quantity.
type quoteResponse struct {
	Price    float64 `json:"price"`
	Quantity int64   `json:"quantity"`
}

// bestResponse is the JSON response for GET /book/best. A side is null
// when it has no resting orders.
type bestResponse struct {
	Bid *quoteResponse `json:"bid"`
	Ask *quoteResponse `json:"ask"`
}

// tradeResponse is a single entry of the trade log.
type tradeResponse struct {
	TradeID   string  `json:"trade_id"`
	Price     float64 `json:"price"`
	Quantity  int64   `json:"quantity"`
	Timestamp float64 `json:"timestamp"`
	Buyer     string  `json:"buyer"`
	Seller    string  `json:"seller"`
}

// positionResponse is the JSON response for GET /position.
type positionResponse struct {
	Position    int64   `json:"position"`
	AvgEntry    float64 `json:"avg_entry"`
	RealizedPnL float64 `json:"realized_pnl"`
}

// GetBook handles GET /book?depth=N.
func (h *MarketHandler) GetBook(w http.ResponseWriter, r *http.Request) {
	depth, err := queryInt(r, "depth")
	if err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_request", "depth must be an integer")
		return
	}

	snapshot, err := h.svc.Book(depth)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, toBookResponse(snapshot))
}

// GetBest handles GET /book/best.
func (h *MarketHandler) GetBest(w http.ResponseWriter, r *http.Request) {
	var resp bestResponse
	if bid, ok := h.svc.BestBid(); ok {
		resp.Bid = toQuoteResponse(bid)
	}
	if ask, ok := h.svc.BestAsk(); ok {
		resp.Ask = toQuoteResponse(ask)
	}
	WriteJSON(w, http.StatusOK, resp)
}

// GetTrades handles GET /trades?limit=N.
func (h *MarketHandler) GetTrades(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit")
	if err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_request", "limit must be an integer")
		return
	}

	trades, err := h.svc.Trades(limit)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	resp := make([]tradeResponse, 0, len(trades))
	for _, t := range trades {
		resp = append(resp, toTradeResponse(t))
	}
	WriteJSON(w, http.StatusOK, resp)
}

// GetPosition handles GET /position.
func (h *MarketHandler) GetPosition(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, toPositionResponse(h.svc.Position()))
}

// queryInt parses an optional integer query parameter; 0 means absent.
func queryInt(r *http.Request, key string) (int, error) {
	v := r.URL.Query().Get(key)
	if v == "" {
		return 0, nil
	}
	return strconv.Atoi(v)
}

func toBookResponse(s service.BookSnapshot) bookResponse {
	return bookResponse{
		Bids: toLevelResponses(s.Bids),
		Asks: toLevelResponses(s.Asks),
	}
}

func toLevelResponses(levels []engine.PriceLevel) []priceLevelResponse {
	resp := make([]priceLevelResponse, 0, len(levels))
	for _, lvl := range levels {
		resp = append(resp, priceLevelResponse{
			Price:    domain.PriceToDollars(lvl.Price),
			Quantity: lvl.TotalQuantity,
			Orders:   lvl.OrderCount,
		})
	}
	return resp
}

func toQuoteResponse(q engine.Quote) *quoteResponse {
	return &quoteResponse{
		Price:    domain.PriceToDollars(q.Price),
		Quantity: q.Quantity,
	}
}

func toTradeResponse(t *domain.Trade) tradeResponse {
	return tradeResponse{
		TradeID:   t.TradeID,
		Price:     domain.PriceToDollars(t.Price),
		Quantity:  t.Quantity,
		Timestamp: t.Timestamp,
		Buyer:     t.Buyer.String(),
		Seller:    t.Seller.String(),
	}
}

func toPositionResponse(s position.Snapshot) positionResponse {
	return positionResponse{
		Position:    s.Position,
		AvgEntry:    domain.PriceToDollars(s.AvgEntry),
		RealizedPnL: domain.PriceToDollars(s.RealizedPnL),
	}
}
