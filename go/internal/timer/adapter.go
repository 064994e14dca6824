package timer

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"
)

// defaultStorageTimeout bounds each storage call so a slow medium degrades to
// "not persisted this cycle" instead of stalling the countdown.
const defaultStorageTimeout = 2 * time.Second

// Adapter persists countdown state through a Store. Failures are logged and
// swallowed; nothing is retried.
type Adapter struct {
	store   Store
	timeout time.Duration
}

// NewAdapter wraps a store. A non-positive timeout uses the default.
func NewAdapter(store Store, timeout time.Duration) *Adapter {
	if store == nil {
		store = NopStore{}
	}
	if timeout <= 0 {
		timeout = defaultStorageTimeout
	}
	return &Adapter{store: store, timeout: timeout}
}

// Save writes the state as of now. It reports whether the write succeeded.
func (a *Adapter) Save(s State, now time.Time) bool {
	data, err := EncodeRecord(NewRecord(s, now))
	if err != nil {
		log.Error().Err(err).Msg("failed to encode timer state")
		return false
	}

	ctx, cancel := context.WithTimeout(context.Background(), a.timeout)
	defer cancel()

	if err := a.store.Save(ctx, data); err != nil {
		log.Warn().
			Err(err).
			Int("remaining", s.Remaining).
			Bool("running", s.Running).
			Msg("failed to persist timer state; continuing without it")
		return false
	}
	return true
}

// Restore reads the stored record and reconciles it against now. A missing,
// unreadable or malformed record yields the default idle state.
func (a *Adapter) Restore(now time.Time, defaultPreset int) State {
	fallback := State{Preset: defaultPreset}
	if fallback.Preset < 1 {
		fallback.Preset = DefaultPreset
	}

	ctx, cancel := context.WithTimeout(context.Background(), a.timeout)
	defer cancel()

	data, err := a.store.Load(ctx)
	if err != nil {
		if errors.Is(err, ErrNoRecord) {
			log.Debug().Msg("no stored timer state; starting idle")
		} else {
			log.Warn().Err(err).Msg("failed to read stored timer state; starting idle")
		}
		return fallback
	}

	rec, err := DecodeRecord(data)
	if err != nil {
		log.Warn().Err(err).Msg("discarding stored timer state")
		return fallback
	}

	state, outcome := Reconcile(rec, now)
	if outcome == OutcomeExpired {
		if err := a.store.Clear(ctx); err != nil {
			log.Warn().Err(err).Msg("failed to clear expired timer state")
		}
	}

	log.Info().
		Str("outcome", outcome.String()).
		Int("remaining", state.Remaining).
		Int("preset", state.Preset).
		Bool("running", state.Running).
		Msg("restored timer state")
	return state
}
