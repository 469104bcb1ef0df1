package handler

import (
	"net/http"

	"github.com/efreitasn/lobsim/internal/service"
)

// ReplayHandler handles the replay control endpoints. After each mutation
// it pushes a fresh snapshot to websocket subscribers.
type ReplayHandler struct {
	svc *service.ReplayService
	hub *Hub
}

// NewReplayHandler creates a new ReplayHandler.
func NewReplayHandler(svc *service.ReplayService, hub *Hub) *ReplayHandler {
	return &ReplayHandler{svc: svc, hub: hub}
}

// statusResponse is the JSON response for GET /replay.
type statusResponse struct {
	Processed int  `json:"processed"`
	Remaining int  `json:"remaining"`
	Skipped   int  `json:"skipped"`
	Trades    int  `json:"trades"`
	Done      bool `json:"done"`
}

// stepResponse is the JSON response for POST /replay/step.
type stepResponse struct {
	Stepped bool           `json:"stepped"`
	Status  statusResponse `json:"status"`
}

// Status handles GET /replay.
func (h *ReplayHandler) Status(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, toStatusResponse(h.svc.Status()))
}

// Step handles POST /replay/step: apply exactly one event.
func (h *ReplayHandler) Step(w http.ResponseWriter, r *http.Request) {
	stepped, err := h.svc.Step()
	if err != nil {
		writeServiceError(w, err)
		return
	}

	h.broadcastSnapshot()
	WriteJSON(w, http.StatusOK, stepResponse{
		Stepped: stepped,
		Status:  toStatusResponse(h.svc.Status()),
	})
}

// Run handles POST /replay/run: replay the remaining feed to completion.
func (h *ReplayHandler) Run(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Run(r.Context()); err != nil {
		writeServiceError(w, err)
		return
	}

	h.broadcastSnapshot()
	WriteJSON(w, http.StatusOK, toStatusResponse(h.svc.Status()))
}

// Stream handles GET /ws: subscribe to snapshot pushes.
func (h *ReplayHandler) Stream(w http.ResponseWriter, r *http.Request) {
	h.hub.Serve(w, r, h.snapshot())
}

func (h *ReplayHandler) broadcastSnapshot() {
	h.hub.Broadcast(h.snapshot())
}

// snapshotMessage is the payload pushed to websocket subscribers after
// every applied step.
type snapshotMessage struct {
	Type     string           `json:"type"`
	Book     bookResponse     `json:"book"`
	Position positionResponse `json:"position"`
	Status   statusResponse   `json:"status"`
}

func (h *ReplayHandler) snapshot() snapshotMessage {
	// Depth errors can't happen with the default depth.
	book, _ := h.svc.Book(0)
	return snapshotMessage{
		Type:     "snapshot",
		Book:     toBookResponse(book),
		Position: toPositionResponse(h.svc.Position()),
		Status:   toStatusResponse(h.svc.Status()),
	}
}

func toStatusResponse(s service.Status) statusResponse {
	return statusResponse{
		Processed: s.Processed,
		Remaining: s.Remaining,
		Skipped:   s.Skipped,
		Trades:    s.Trades,
		Done:      s.Done,
	}
}
