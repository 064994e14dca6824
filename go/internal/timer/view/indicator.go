package view

import (
	"errors"
	"sync"

	"github.com/mcdev12/debatify/go/internal/timer"
)

// ErrControlUnavailable is returned when a view presses a control it does not
// currently show.
var ErrControlUnavailable = errors.New("control not available in this view")

// Control is a button a view can press.
type Control string

const (
	ControlStart Control = "start"
	ControlPause Control = "pause"
	ControlReset Control = "reset"
)

// Controller is the part of the shared countdown a view drives.
type Controller interface {
	Snapshot() timer.State
	Start()
	Pause()
	Reset()
	SetPreset(seconds int) error
}

// IndicatorView is what a floating indicator renders.
type IndicatorView struct {
	Visible  bool      `json:"visible"`
	Display  string    `json:"display"`
	Warning  bool      `json:"warning"`
	Running  bool      `json:"running"`
	Expanded bool      `json:"expanded"`
	Controls []Control `json:"controls,omitempty"`
}

// Indicator is the floating countdown shown by one mounted view. It holds
// only its own expanded flag; everything else is read from the shared
// controller.
type Indicator struct {
	ctl Controller

	mu       sync.Mutex
	expanded bool
}

func NewIndicator(ctl Controller) *Indicator {
	return &Indicator{ctl: ctl}
}

// View renders the indicator from the current shared state.
func (i *Indicator) View() IndicatorView {
	return i.Render(i.ctl.Snapshot())
}

// Render renders the indicator for a given state.
func (i *Indicator) Render(s timer.State) IndicatorView {
	i.mu.Lock()
	expanded := i.expanded
	i.mu.Unlock()

	v := IndicatorView{
		Visible:  s.Remaining > 0 || s.Running,
		Display:  FormatClock(s.Remaining),
		Warning:  inWarning(s.Remaining),
		Running:  s.Running,
		Expanded: expanded,
	}
	if !v.Visible {
		return v
	}
	if expanded {
		v.Controls = controlsFor(s)
	}
	return v
}

// Toggle flips the expanded flag and returns the new value.
func (i *Indicator) Toggle() bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.expanded = !i.expanded
	return i.expanded
}

// Expanded reports the local expanded flag.
func (i *Indicator) Expanded() bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.expanded
}

// Press runs a control shown by this indicator.
func (i *Indicator) Press(c Control) error {
	v := i.View()
	if !offers(v.Controls, c) {
		return ErrControlUnavailable
	}
	return press(i.ctl, c)
}

func controlsFor(s timer.State) []Control {
	if s.Running {
		return []Control{ControlPause, ControlReset}
	}
	return []Control{ControlStart, ControlReset}
}

func offers(controls []Control, c Control) bool {
	for _, have := range controls {
		if have == c {
			return true
		}
	}
	return false
}

func press(ctl Controller, c Control) error {
	switch c {
	case ControlStart:
		ctl.Start()
	case ControlPause:
		ctl.Pause()
	case ControlReset:
		ctl.Reset()
	default:
		return ErrControlUnavailable
	}
	return nil
}
