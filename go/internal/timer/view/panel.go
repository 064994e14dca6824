package view

import (
	"errors"
	"fmt"
)

// ErrCustomMinutes is returned for a custom length outside MinCustomMinutes
// and MaxCustomMinutes.
var ErrCustomMinutes = errors.New("custom minutes out of range")

// ErrPresetLocked is returned when the length is changed from the panel while
// the countdown runs.
var ErrPresetLocked = errors.New("preset cannot change while running")

const (
	MinCustomMinutes = 1
	MaxCustomMinutes = 60
)

// QuickPresets are the one-click countdown lengths, in seconds.
var QuickPresets = []int{60, 180, 300, 420, 600, 900}

// PresetButton is one quick preset choice.
type PresetButton struct {
	Label    string `json:"label"`
	Seconds  int    `json:"seconds"`
	Selected bool   `json:"selected"`
	Disabled bool   `json:"disabled"`
}

// CustomInput describes the free-form minutes field.
type CustomInput struct {
	Min      int  `json:"min"`
	Max      int  `json:"max"`
	Disabled bool `json:"disabled"`
}

// PanelView is the full timer control shown on the debate timer tab.
type PanelView struct {
	Display  string         `json:"display"`
	Warning  bool           `json:"warning"`
	Running  bool           `json:"running"`
	Controls []Control      `json:"controls"`
	Presets  []PresetButton `json:"presets"`
	Custom   CustomInput    `json:"custom"`
}

// Panel is the tab-local timer control. Like the indicator it keeps no
// countdown state of its own.
type Panel struct {
	ctl Controller
}

func NewPanel(ctl Controller) *Panel {
	return &Panel{ctl: ctl}
}

// View renders the panel from the current shared state.
func (p *Panel) View() PanelView {
	s := p.ctl.Snapshot()

	presets := make([]PresetButton, 0, len(QuickPresets))
	for _, secs := range QuickPresets {
		presets = append(presets, PresetButton{
			Label:    fmt.Sprintf("%d min", secs/60),
			Seconds:  secs,
			Selected: s.Preset == secs,
			Disabled: s.Running,
		})
	}

	return PanelView{
		Display:  FormatClock(s.Remaining),
		Warning:  inWarning(s.Remaining),
		Running:  s.Running,
		Controls: controlsFor(s),
		Presets:  presets,
		Custom: CustomInput{
			Min:      MinCustomMinutes,
			Max:      MaxCustomMinutes,
			Disabled: s.Running,
		},
	}
}

// Press runs start, pause or reset. Start and pause follow the running flag.
func (p *Panel) Press(c Control) error {
	if !offers(controlsFor(p.ctl.Snapshot()), c) {
		return ErrControlUnavailable
	}
	return press(p.ctl, c)
}

// ApplyPreset selects a quick preset.
func (p *Panel) ApplyPreset(seconds int) error {
	if p.ctl.Snapshot().Running {
		return ErrPresetLocked
	}
	return p.ctl.SetPreset(seconds)
}

// ApplyCustomMinutes sets the countdown to a whole number of minutes.
func (p *Panel) ApplyCustomMinutes(minutes int) error {
	if minutes < MinCustomMinutes || minutes > MaxCustomMinutes {
		return fmt.Errorf("%w: %d", ErrCustomMinutes, minutes)
	}
	return p.ApplyPreset(minutes * 60)
}
