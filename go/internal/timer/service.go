package timer

import (
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
)

// ErrClosed is returned by mutating calls after Close.
var ErrClosed = errors.New("timer service closed")

// Clock is the subset of clockwork.Clock the service needs.
// In production, use clockwork.NewRealClock(). In tests, a FakeClock.
type Clock interface {
	Now() time.Time
	NewTicker(d time.Duration) clockwork.Ticker
}

// Option configures a Service.
type Option func(*Service)

// WithClock replaces the real clock.
func WithClock(c Clock) Option {
	return func(s *Service) { s.clock = c }
}

// WithTickInterval changes how often the countdown decrements. Only tests
// should need this.
func WithTickInterval(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.tickInterval = d
		}
	}
}

// WithStorageTimeout bounds each store call.
func WithStorageTimeout(d time.Duration) Option {
	return func(s *Service) { s.storageTimeout = d }
}

// WithDefaultPreset sets the preset used when nothing is restored.
func WithDefaultPreset(seconds int) Option {
	return func(s *Service) {
		if seconds > 0 {
			s.defaultPreset = seconds
		}
	}
}

// Stats is a diagnostic snapshot of the service.
type Stats struct {
	Ticks        int64 `json:"ticks"`
	Saves        int64 `json:"saves"`
	SaveFailures int64 `json:"save_failures"`
	Subscribers  int   `json:"subscribers"`
	DriverActive bool  `json:"driver_active"`
	Drivers      int32 `json:"drivers"`
}

// Service is the single countdown shared by every view in the process. It
// owns the engine, its persistence and the one tick driver.
//
// All mutations, including ticks, run under one mutex so they are strictly
// ordered. Listeners are notified after each mutation in the same order.
type Service struct {
	mu     sync.Mutex
	engine Engine
	closed bool

	clock          Clock
	adapter        *Adapter
	tickInterval   time.Duration
	storageTimeout time.Duration
	defaultPreset  int

	// Tick driver. driverGen changes whenever a driver starts or stops so a
	// tick already waiting on mu when the driver stopped is discarded.
	driverGen  uint64
	driverStop chan struct{}
	ticker     clockwork.Ticker

	notifyMu     sync.Mutex
	listeners    map[uint64]func(State)
	nextListener uint64

	ticks        atomic.Int64
	saves        atomic.Int64
	saveFailures atomic.Int64
	drivers      atomic.Int32
}

// NewService restores the countdown from store and, if it was running,
// resumes ticking. It performs exactly one restore.
func NewService(store Store, opts ...Option) *Service {
	s := &Service{
		clock:         clockwork.NewRealClock(),
		tickInterval:  time.Second,
		defaultPreset: DefaultPreset,
		listeners:     make(map[uint64]func(State)),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.adapter = NewAdapter(store, s.storageTimeout)

	restored := s.adapter.Restore(s.clock.Now(), s.defaultPreset)
	s.engine = engineFromState(restored)

	s.mu.Lock()
	s.syncDriverLocked()
	s.mu.Unlock()

	return s
}

// NewEphemeral returns a countdown that is never persisted, for a single
// view that does not need to survive a reload.
func NewEphemeral(opts ...Option) *Service {
	return NewService(NopStore{}, opts...)
}

// Snapshot returns the current projection.
func (s *Service) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.State()
}

// Phase returns the current state machine position.
func (s *Service) Phase() Phase {
	return s.Snapshot().Phase()
}

// Start begins or resumes the countdown.
func (s *Service) Start() {
	s.apply("start", func(e *Engine) (bool, error) {
		return e.Start(s.clock.Now()), nil
	})
}

// Pause stops the countdown, keeping the remaining time. No tick takes effect
// after Pause returns.
func (s *Service) Pause() {
	s.apply("pause", func(e *Engine) (bool, error) {
		return e.Pause(), nil
	})
}

// Reset reloads the preset and stops the countdown.
func (s *Service) Reset() {
	s.apply("reset", func(e *Engine) (bool, error) {
		return e.Reset(), nil
	})
}

// SetPreset changes the countdown length. Invalid values leave the state
// untouched and return ErrInvalidPreset.
func (s *Service) SetPreset(seconds int) error {
	return s.apply("set_preset", func(e *Engine) (bool, error) {
		return e.SetPreset(seconds)
	})
}

// Subscribe registers fn to receive the state after every mutation. fn runs
// synchronously on the mutating goroutine and must not block or call back
// into the service. The returned func removes the subscription.
func (s *Service) Subscribe(fn func(State)) func() {
	s.mu.Lock()
	id := s.nextListener
	s.nextListener++
	s.listeners[id] = fn
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.listeners, id)
			s.mu.Unlock()
		})
	}
}

// Stats returns counters useful for diagnostics and tests.
func (s *Service) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Stats{
		Ticks:        s.ticks.Load(),
		Saves:        s.saves.Load(),
		SaveFailures: s.saveFailures.Load(),
		Subscribers:  len(s.listeners),
		DriverActive: s.driverStop != nil,
		Drivers:      s.drivers.Load(),
	}
}

// Close stops the tick driver. Persisted state is left as last saved so the
// next process resumes from it.
func (s *Service) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	s.stopDriverLocked()
	log.Info().Msg("timer service closed")
}

// apply runs one user mutation: change, persist, notify.
func (s *Service) apply(op string, fn func(e *Engine) (bool, error)) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}

	changed, err := fn(&s.engine)
	if err != nil {
		s.mu.Unlock()
		log.Debug().Err(err).Str("op", op).Msg("timer operation rejected")
		return err
	}
	if !changed {
		s.mu.Unlock()
		return nil
	}

	s.syncDriverLocked()
	state := s.commitLocked()

	log.Debug().
		Str("op", op).
		Int("remaining", state.Remaining).
		Int("preset", state.Preset).
		Bool("running", state.Running).
		Msg("timer state changed")

	s.notifyAndUnlock(state)
	return nil
}

// tick is the driver's per-interval mutation.
func (s *Service) tick(gen uint64) {
	s.mu.Lock()
	if s.closed || gen != s.driverGen {
		s.mu.Unlock()
		return
	}

	changed, expired := s.engine.Tick()
	if !changed {
		s.mu.Unlock()
		return
	}
	s.ticks.Add(1)

	if expired {
		s.stopDriverLocked()
		log.Info().Int("preset", s.engine.preset).Msg("countdown reached zero")
	}

	state := s.commitLocked()
	s.notifyAndUnlock(state)
}

// commitLocked persists the current state and returns it.
func (s *Service) commitLocked() State {
	state := s.engine.State()
	s.saves.Add(1)
	if !s.adapter.Save(state, s.clock.Now()) {
		s.saveFailures.Add(1)
	}
	return state
}

// notifyAndUnlock hands state to every listener in mutation order. notifyMu
// is taken before mu is released so a later mutation cannot overtake.
func (s *Service) notifyAndUnlock(state State) {
	listeners := make([]func(State), 0, len(s.listeners))
	for _, fn := range s.listeners {
		listeners = append(listeners, fn)
	}

	s.notifyMu.Lock()
	s.mu.Unlock()
	defer s.notifyMu.Unlock()

	for _, fn := range listeners {
		fn(state)
	}
}

// syncDriverLocked ties the driver's lifetime to the running flag.
func (s *Service) syncDriverLocked() {
	switch {
	case s.engine.running && s.driverStop == nil && !s.closed:
		s.startDriverLocked()
	case !s.engine.running && s.driverStop != nil:
		s.stopDriverLocked()
	}
}

func (s *Service) startDriverLocked() {
	s.driverGen++
	gen := s.driverGen
	stop := make(chan struct{})
	ticker := s.clock.NewTicker(s.tickInterval)

	s.driverStop = stop
	s.ticker = ticker
	s.drivers.Add(1)

	go func() {
		for {
			select {
			case <-stop:
				return
			case <-ticker.Chan():
				s.tick(gen)
			}
		}
	}()

	log.Debug().Uint64("generation", gen).Msg("tick driver started")
}

func (s *Service) stopDriverLocked() {
	if s.driverStop == nil {
		return
	}
	s.ticker.Stop()
	close(s.driverStop)
	s.driverStop = nil
	s.ticker = nil
	s.driverGen++
	s.drivers.Add(-1)

	log.Debug().Uint64("generation", s.driverGen).Msg("tick driver stopped")
}
