package gateway

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/mcdev12/debatify/go/internal/timer"
	"github.com/mcdev12/debatify/go/internal/timer/view"
)

// TimerEvent is the envelope for every server to client message.
type TimerEvent struct {
	Type      EventType       `json:"type"`
	Timestamp time.Time       `json:"timestamp"`
	Data      json.RawMessage `json:"data"`
}

// EventType represents the type of timer event
type EventType string

const (
	EventTypeTimerState EventType = "TimerState"
)

// TimerStatePayload is the shared countdown plus this view's indicator.
type TimerStatePayload struct {
	Timer     timer.State        `json:"timer"`
	Indicator view.IndicatorView `json:"indicator"`
}

// ClientAction is a command sent by a connected view.
type ClientAction string

const (
	ActionStart     ClientAction = "start"
	ActionPause     ClientAction = "pause"
	ActionReset     ClientAction = "reset"
	ActionSetPreset ClientAction = "set_preset"
	ActionToggle    ClientAction = "toggle"
)

// ClientSource names the widget a command came from. Start, pause and reset
// from the indicator only run when that connection's indicator shows them.
type ClientSource string

const (
	SourcePanel     ClientSource = "panel"
	SourceIndicator ClientSource = "indicator"
)

// ClientMessage is a client to server message. An empty Source is the panel.
type ClientMessage struct {
	Action  ClientAction `json:"action"`
	Seconds int          `json:"seconds,omitempty"`
	Source  ClientSource `json:"source,omitempty"`
}

// newStateEvent builds the encoded TimerState envelope.
func newStateEvent(s timer.State, ind view.IndicatorView, at time.Time) ([]byte, error) {
	payload, err := json.Marshal(TimerStatePayload{Timer: s, Indicator: ind})
	if err != nil {
		return nil, fmt.Errorf("marshal timer payload: %w", err)
	}
	return json.Marshal(TimerEvent{
		Type:      EventTypeTimerState,
		Timestamp: at,
		Data:      payload,
	})
}
