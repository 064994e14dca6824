package gateway

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/mcdev12/debatify/go/internal/timer"
	"github.com/mcdev12/debatify/go/internal/timer/view"
)

// TimerStateResponse is returned by every REST timer route.
type TimerStateResponse struct {
	Timer timer.State    `json:"timer"`
	Phase timer.Phase    `json:"phase"`
	Panel view.PanelView `json:"panel"`
}

type presetRequest struct {
	Seconds int `json:"seconds"`
}

type customPresetRequest struct {
	Minutes int `json:"minutes"`
}

// StateHandler serves the tab-local timer panel over plain HTTP.
type StateHandler struct {
	timer TimerService
	panel *view.Panel
}

// NewStateHandler creates a new state handler
func NewStateHandler(svc TimerService) *StateHandler {
	return &StateHandler{
		timer: svc,
		panel: view.NewPanel(svc),
	}
}

// HandleGetState handles GET /api/timer
func (h *StateHandler) HandleGetState(w http.ResponseWriter, r *http.Request) {
	h.writeState(w)
}

// HandleStart handles POST /api/timer/start
func (h *StateHandler) HandleStart(w http.ResponseWriter, r *http.Request) {
	h.timer.Start()
	h.writeState(w)
}

// HandlePause handles POST /api/timer/pause
func (h *StateHandler) HandlePause(w http.ResponseWriter, r *http.Request) {
	h.timer.Pause()
	h.writeState(w)
}

// HandleReset handles POST /api/timer/reset
func (h *StateHandler) HandleReset(w http.ResponseWriter, r *http.Request) {
	h.timer.Reset()
	h.writeState(w)
}

// HandleSetPreset handles POST /api/timer/preset
func (h *StateHandler) HandleSetPreset(w http.ResponseWriter, r *http.Request) {
	var req presetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.timer.SetPreset(req.Seconds); err != nil {
		h.writeError(w, err)
		return
	}
	h.writeState(w)
}

// HandleSetCustomPreset handles POST /api/timer/preset/custom
func (h *StateHandler) HandleSetCustomPreset(w http.ResponseWriter, r *http.Request) {
	var req customPresetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.panel.ApplyCustomMinutes(req.Minutes); err != nil {
		h.writeError(w, err)
		return
	}
	h.writeState(w)
}

// RegisterStateRoutes registers timer HTTP routes
func (h *StateHandler) RegisterStateRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/timer", h.HandleGetState)
	mux.HandleFunc("POST /api/timer/start", h.HandleStart)
	mux.HandleFunc("POST /api/timer/pause", h.HandlePause)
	mux.HandleFunc("POST /api/timer/reset", h.HandleReset)
	mux.HandleFunc("POST /api/timer/preset", h.HandleSetPreset)
	mux.HandleFunc("POST /api/timer/preset/custom", h.HandleSetCustomPreset)
}

func (h *StateHandler) writeState(w http.ResponseWriter) {
	s := h.timer.Snapshot()
	resp := TimerStateResponse{
		Timer: s,
		Phase: s.Phase(),
		Panel: h.panel.View(),
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		log.Error().Err(err).Msg("failed to encode timer state response")
	}
}

func (h *StateHandler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, timer.ErrInvalidPreset), errors.Is(err, view.ErrCustomMinutes):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, view.ErrPresetLocked):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, timer.ErrClosed):
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
	default:
		log.Error().Err(err).Msg("timer request failed")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}
