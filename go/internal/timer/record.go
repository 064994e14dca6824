package timer

import (
	"encoding/json"
	"fmt"
	"time"
)

// StorageKey is the key the timer record is stored under in every medium.
const StorageKey = "debatify_timer"

// Record is the stored shape of the countdown. Field names and types are
// fixed so previously written records keep loading.
type Record struct {
	Time      int    `json:"time"`
	Preset    int    `json:"preset"`
	IsRunning bool   `json:"isRunning"`
	StartTime *int64 `json:"startTime,omitempty"` // ms since Unix epoch, set iff IsRunning
}

// Outcome describes what Reconcile did with a record.
type Outcome int

const (
	// OutcomeRestored means the record was applied as-is (paused or idle).
	OutcomeRestored Outcome = iota
	// OutcomeResumed means a running record was resumed after subtracting the time the process was away.
	OutcomeResumed
	// OutcomeExpired means a running record ran out while the process was away.
	OutcomeExpired
)

func (o Outcome) String() string {
	switch o {
	case OutcomeRestored:
		return "restored"
	case OutcomeResumed:
		return "resumed"
	case OutcomeExpired:
		return "expired"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// NewRecord snapshots a state for storage. When running, the write instant
// is recorded as the reference point for elapsed time on the next restore.
func NewRecord(s State, now time.Time) Record {
	rec := Record{
		Time:      s.Remaining,
		Preset:    s.Preset,
		IsRunning: s.Running,
	}
	if s.Running {
		ms := now.UnixMilli()
		rec.StartTime = &ms
	}
	return rec
}

// EncodeRecord marshals a record to its stored JSON form.
func EncodeRecord(rec Record) ([]byte, error) {
	data, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal timer record: %w", err)
	}
	return data, nil
}

// DecodeRecord parses a stored record and checks it against the timer
// invariants. Anything that does not fit is ErrMalformedRecord.
func DecodeRecord(data []byte) (Record, error) {
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return Record{}, fmt.Errorf("%w: %v", ErrMalformedRecord, err)
	}
	if rec.Time < 0 {
		return Record{}, fmt.Errorf("%w: negative time %d", ErrMalformedRecord, rec.Time)
	}
	if rec.Preset < 1 {
		return Record{}, fmt.Errorf("%w: preset %d", ErrMalformedRecord, rec.Preset)
	}
	if rec.IsRunning && rec.StartTime == nil {
		return Record{}, fmt.Errorf("%w: running without startTime", ErrMalformedRecord)
	}
	return rec, nil
}

// Reconcile turns a stored record into the state to resume with at now.
// A running record loses the whole seconds that elapsed since it was
// written; the fractional second is dropped.
func Reconcile(rec Record, now time.Time) (State, Outcome) {
	if !rec.IsRunning || rec.StartTime == nil {
		return State{Remaining: rec.Time, Preset: rec.Preset}, OutcomeRestored
	}

	written := time.UnixMilli(*rec.StartTime)
	elapsed := int(now.Sub(written) / time.Second)
	if elapsed < 0 {
		elapsed = 0
	}

	recovered := rec.Time - elapsed
	if recovered <= 0 {
		return State{Remaining: 0, Preset: rec.Preset}, OutcomeExpired
	}

	anchor := now
	return State{
		Remaining: recovered,
		Preset:    rec.Preset,
		Running:   true,
		Anchor:    &anchor,
	}, OutcomeResumed
}
