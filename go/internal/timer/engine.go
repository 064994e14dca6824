package timer

import (
	"time"
)

// DefaultPreset is the countdown length loaded when nothing has been configured.
const DefaultPreset = 300

// Phase is the coarse state of the countdown.
type Phase string

const (
	PhaseIdle    Phase = "IDLE"
	PhasePaused  Phase = "PAUSED"
	PhaseRunning Phase = "RUNNING"
)

// State is the read-only projection of the countdown shared with every consumer.
type State struct {
	Remaining int        `json:"remaining_seconds"`
	Preset    int        `json:"preset_seconds"`
	Running   bool       `json:"running"`
	Anchor    *time.Time `json:"anchor,omitempty"`
}

// Phase derives the state machine position from the projection.
func (s State) Phase() Phase {
	switch {
	case s.Running:
		return PhaseRunning
	case s.Remaining > 0:
		return PhasePaused
	default:
		return PhaseIdle
	}
}

// Engine owns the remaining/preset arithmetic and the running/paused/idle
// transitions. It has no clock and no goroutines; the caller supplies the
// current instant and drives Tick once per second while running.
//
// Every mutating method reports whether the state changed so the owner can
// decide when to persist.
type Engine struct {
	remaining int
	preset    int
	running   bool
	anchor    time.Time
}

// NewEngine returns an idle engine with the default preset.
func NewEngine() Engine {
	return Engine{preset: DefaultPreset}
}

// engineFromState rebuilds an engine from a projection that already satisfies
// the invariants (restored or default).
func engineFromState(s State) Engine {
	e := Engine{
		remaining: s.Remaining,
		preset:    s.Preset,
		running:   s.Running && s.Remaining > 0,
	}
	if e.preset < 1 {
		e.preset = DefaultPreset
	}
	if e.remaining < 0 {
		e.remaining = 0
	}
	if e.running && s.Anchor != nil {
		e.anchor = *s.Anchor
	}
	return e
}

// State returns the current projection.
func (e Engine) State() State {
	s := State{
		Remaining: e.remaining,
		Preset:    e.preset,
		Running:   e.running,
	}
	if e.running {
		anchor := e.anchor
		s.Anchor = &anchor
	}
	return s
}

// Phase returns the current state machine position.
func (e Engine) Phase() Phase {
	return e.State().Phase()
}

// Start enters Running anchored at now, loading the preset first when the
// countdown is at zero. Starting a running countdown is a no-op.
func (e *Engine) Start(now time.Time) bool {
	if e.running {
		return false
	}
	if e.remaining == 0 {
		e.remaining = e.preset
	}
	e.running = true
	e.anchor = now
	return true
}

// Pause moves Running to Paused. It is a no-op in any other phase.
func (e *Engine) Pause() bool {
	if !e.running {
		return false
	}
	e.running = false
	e.anchor = time.Time{}
	return true
}

// Reset reloads the preset and stops the countdown from any phase.
func (e *Engine) Reset() bool {
	changed := e.running || e.remaining != e.preset
	e.running = false
	e.anchor = time.Time{}
	e.remaining = e.preset
	return changed
}

// SetPreset stores a new countdown length. While not running the displayed
// remaining time follows the preset immediately; a running countdown keeps
// going until the next Reset.
func (e *Engine) SetPreset(seconds int) (bool, error) {
	if seconds < 1 {
		return false, ErrInvalidPreset
	}
	changed := e.preset != seconds
	e.preset = seconds
	if !e.running && e.remaining != seconds {
		e.remaining = seconds
		changed = true
	}
	return changed, nil
}

// Tick decrements a running countdown by one second. Reaching zero stops the
// countdown; expired reports that edge.
func (e *Engine) Tick() (changed, expired bool) {
	if !e.running {
		return false, false
	}
	if e.remaining > 0 {
		e.remaining--
	}
	if e.remaining == 0 {
		e.running = false
		e.anchor = time.Time{}
		return true, true
	}
	return true, false
}
