package timer

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingStore is an in-memory Store that counts calls.
type recordingStore struct {
	mu      sync.Mutex
	data    []byte
	loads   int
	saves   int
	clears  int
	saveErr error
}

func (r *recordingStore) Load(context.Context) ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.loads++
	if r.data == nil {
		return nil, ErrNoRecord
	}
	return append([]byte(nil), r.data...), nil
}

func (r *recordingStore) Save(_ context.Context, data []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.saves++
	if r.saveErr != nil {
		return r.saveErr
	}
	r.data = append([]byte(nil), data...)
	return nil
}

func (r *recordingStore) Clear(context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clears++
	r.data = nil
	return nil
}

func (r *recordingStore) record(t *testing.T) Record {
	t.Helper()
	r.mu.Lock()
	defer r.mu.Unlock()
	require.NotNil(t, r.data, "expected a stored record")
	rec, err := DecodeRecord(r.data)
	require.NoError(t, err)
	return rec
}

func (r *recordingStore) counts() (loads, saves, clears int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.loads, r.saves, r.clears
}

func newTestService(t *testing.T, store Store) (*Service, *clockwork.FakeClock) {
	t.Helper()
	fc := clockwork.NewFakeClockAt(epoch)
	s := NewService(store, WithClock(fc))
	t.Cleanup(s.Close)
	return s, fc
}

// advance moves the fake clock one tick and waits for the driver to apply it.
func advance(t *testing.T, s *Service, fc *clockwork.FakeClock, wantRemaining int) {
	t.Helper()
	fc.Advance(time.Second)
	require.Eventually(t, func() bool {
		return s.Snapshot().Remaining == wantRemaining
	}, time.Second, time.Millisecond, "remaining should reach %d", wantRemaining)
}

func TestService_DefaultsWhenNothingStored(t *testing.T) {
	store := &recordingStore{}
	s, _ := newTestService(t, store)

	assert.Equal(t, State{Remaining: 0, Preset: 300, Running: false}, s.Snapshot())
	loads, saves, _ := store.counts()
	assert.Equal(t, 1, loads, "exactly one restore on construction")
	assert.Equal(t, 0, saves)
}

func TestService_StartFromIdle(t *testing.T) {
	s, _ := newTestService(t, &recordingStore{})

	s.Start()
	snap := s.Snapshot()
	assert.Equal(t, 300, snap.Remaining)
	assert.True(t, snap.Running)
	require.NotNil(t, snap.Anchor)
	assert.True(t, snap.Anchor.Equal(epoch))
	assert.True(t, s.Stats().DriverActive)
}

func TestService_TickAndExpiry(t *testing.T) {
	store := &recordingStore{}
	s, fc := newTestService(t, store)
	require.NoError(t, s.SetPreset(3))

	s.Start()
	advance(t, s, fc, 2)
	assert.True(t, s.Snapshot().Running)

	advance(t, s, fc, 1)
	advance(t, s, fc, 0)

	snap := s.Snapshot()
	assert.False(t, snap.Running, "reaching zero stops the countdown without input")
	assert.Equal(t, PhaseIdle, snap.Phase())
	assert.False(t, s.Stats().DriverActive)

	rec := store.record(t)
	assert.Equal(t, 0, rec.Time, "expiry must be persisted")
	assert.False(t, rec.IsRunning)
	assert.Nil(t, rec.StartTime)

	require.Eventually(t, func() bool { return s.Stats().Drivers == 0 }, time.Second, time.Millisecond)
}

func TestService_PauseThenStartResumes(t *testing.T) {
	s, fc := newTestService(t, &recordingStore{})
	require.NoError(t, s.SetPreset(10))

	s.Start()
	advance(t, s, fc, 9)
	s.Pause()

	fc.Advance(5 * time.Second)
	assert.Equal(t, 9, s.Snapshot().Remaining, "paused countdown must not move")

	s.Start()
	assert.Equal(t, 9, s.Snapshot().Remaining)
	advance(t, s, fc, 8)
}

func TestService_ResetStopsDriver(t *testing.T) {
	s, fc := newTestService(t, &recordingStore{})
	s.Start()
	advance(t, s, fc, 299)

	s.Reset()
	snap := s.Snapshot()
	assert.Equal(t, 300, snap.Remaining)
	assert.False(t, snap.Running)
	assert.False(t, s.Stats().DriverActive)
}

func TestService_InFlightTickAfterPauseIsDiscarded(t *testing.T) {
	s, _ := newTestService(t, &recordingStore{})
	s.Start()

	s.mu.Lock()
	gen := s.driverGen
	s.mu.Unlock()

	s.Pause()
	s.tick(gen)

	assert.Equal(t, 300, s.Snapshot().Remaining)
	assert.EqualValues(t, 0, s.Stats().Ticks)
}

func TestService_SetPreset(t *testing.T) {
	s, fc := newTestService(t, &recordingStore{})

	require.NoError(t, s.SetPreset(420))
	assert.Equal(t, 420, s.Snapshot().Remaining)

	s.Start()
	advance(t, s, fc, 419)
	require.NoError(t, s.SetPreset(60))
	snap := s.Snapshot()
	assert.Equal(t, 419, snap.Remaining, "running countdown keeps going")
	assert.Equal(t, 60, snap.Preset)

	assert.ErrorIs(t, s.SetPreset(0), ErrInvalidPreset)
	assert.ErrorIs(t, s.SetPreset(-5), ErrInvalidPreset)
	assert.Equal(t, 60, s.Snapshot().Preset)
}

func TestService_OneSavePerMutation(t *testing.T) {
	store := &recordingStore{}
	s, fc := newTestService(t, store)

	s.Start()
	_, saves, _ := store.counts()
	assert.Equal(t, 1, saves)

	advance(t, s, fc, 299)
	_, saves, _ = store.counts()
	assert.Equal(t, 2, saves)

	s.Pause()
	s.Pause()
	_, saves, _ = store.counts()
	assert.Equal(t, 3, saves, "a no-op pause is not a mutation")

	assert.Error(t, s.SetPreset(0))
	_, saves, _ = store.counts()
	assert.Equal(t, 3, saves, "rejected preset is not persisted")

	rec := store.record(t)
	assert.Equal(t, Record{Time: 299, Preset: 300}, rec)
}

func TestService_RunningRecordCarriesWriteInstant(t *testing.T) {
	store := &recordingStore{}
	s, fc := newTestService(t, store)

	s.Start()
	advance(t, s, fc, 299)

	rec := store.record(t)
	assert.True(t, rec.IsRunning)
	require.NotNil(t, rec.StartTime)
	assert.Equal(t, epoch.Add(time.Second).UnixMilli(), *rec.StartTime)
}

func TestService_SaveFailureDoesNotBlock(t *testing.T) {
	store := &recordingStore{saveErr: errors.New("disk full")}
	s, fc := newTestService(t, store)

	s.Start()
	advance(t, s, fc, 299)

	stats := s.Stats()
	assert.EqualValues(t, 2, stats.Saves)
	assert.EqualValues(t, 2, stats.SaveFailures)
	_, saves, _ := store.counts()
	assert.Equal(t, 2, saves, "failed writes are not retried")
}

func TestService_RestoreResumesRunning(t *testing.T) {
	store := &recordingStore{data: []byte(`{"time":100,"preset":300,"isRunning":true,"startTime":1741975200000}`)}
	fc := clockwork.NewFakeClockAt(epoch.Add(37 * time.Second))
	s := NewService(store, WithClock(fc))
	t.Cleanup(s.Close)

	snap := s.Snapshot()
	assert.Equal(t, 63, snap.Remaining)
	assert.True(t, snap.Running)
	require.NotNil(t, snap.Anchor)
	assert.True(t, snap.Anchor.Equal(fc.Now()))
	assert.True(t, s.Stats().DriverActive, "a resumed countdown keeps ticking")

	advance(t, s, fc, 62)
}

func TestService_RestoreExpiredClearsRecord(t *testing.T) {
	store := &recordingStore{data: []byte(`{"time":10,"preset":300,"isRunning":true,"startTime":1741975200000}`)}
	fc := clockwork.NewFakeClockAt(epoch.Add(15 * time.Second))
	s := NewService(store, WithClock(fc))
	t.Cleanup(s.Close)

	snap := s.Snapshot()
	assert.Equal(t, 0, snap.Remaining)
	assert.False(t, snap.Running)
	assert.False(t, s.Stats().DriverActive)

	_, saves, clears := store.counts()
	assert.Equal(t, 1, clears)
	assert.Equal(t, 0, saves)
}

func TestService_MalformedRecordFallsBack(t *testing.T) {
	for _, raw := range []string{`{`, `{"time":-4,"preset":300,"isRunning":false}`, `null`} {
		store := &recordingStore{data: []byte(raw)}
		s, _ := newTestService(t, store)
		assert.Equal(t, State{Remaining: 0, Preset: 300}, s.Snapshot(), "record %q", raw)
	}
}

func TestService_OneDriverForManySubscribers(t *testing.T) {
	s, fc := newTestService(t, &recordingStore{})

	const views = 8
	var notified [views]atomic.Int32
	for i := 0; i < views; i++ {
		i := i
		cancel := s.Subscribe(func(State) { notified[i].Add(1) })
		t.Cleanup(cancel)
	}
	assert.Equal(t, views, s.Stats().Subscribers)

	s.Start()
	advance(t, s, fc, 299)
	advance(t, s, fc, 298)

	// Give a hypothetical second driver time to act before asserting.
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, 298, s.Snapshot().Remaining, "one decrement per second regardless of views")

	stats := s.Stats()
	assert.EqualValues(t, 2, stats.Ticks)
	assert.EqualValues(t, 1, stats.Drivers)
	require.Eventually(t, func() bool {
		for i := range notified {
			if notified[i].Load() != 3 {
				return false
			}
		}
		return true
	}, time.Second, time.Millisecond, "every view sees start and both ticks")
}

func TestService_StartPauseCyclesKeepOneDriver(t *testing.T) {
	s, fc := newTestService(t, &recordingStore{})
	require.NoError(t, s.SetPreset(600))

	for i := 0; i < 2000; i++ {
		s.Start()
		require.EqualValues(t, 1, s.Stats().Drivers)
		s.Pause()
		require.EqualValues(t, 0, s.Stats().Drivers)
	}

	s.Start()
	advance(t, s, fc, 599)
	stats := s.Stats()
	assert.EqualValues(t, 1, stats.Drivers)
	assert.EqualValues(t, 1, stats.Ticks)
}

func TestService_UnsubscribeStopsNotifications(t *testing.T) {
	s, _ := newTestService(t, &recordingStore{})

	var got atomic.Int32
	cancel := s.Subscribe(func(State) { got.Add(1) })
	s.Start()
	cancel()
	cancel()
	s.Pause()

	assert.EqualValues(t, 1, got.Load())
	assert.Equal(t, 0, s.Stats().Subscribers)
	assert.True(t, s.Snapshot().Remaining > 0)
}

func TestService_DriverOutlivesSubscribers(t *testing.T) {
	s, fc := newTestService(t, &recordingStore{})

	cancel := s.Subscribe(func(State) {})
	s.Start()
	cancel()

	assert.True(t, s.Stats().DriverActive, "driver lifetime follows running, not views")
	advance(t, s, fc, 299)
}

func TestService_NotificationsInMutationOrder(t *testing.T) {
	s, _ := newTestService(t, &recordingStore{})

	var mu sync.Mutex
	var seen []bool
	s.Subscribe(func(st State) {
		mu.Lock()
		seen = append(seen, st.Running)
		mu.Unlock()
	})

	s.Start()
	s.Pause()
	s.Start()
	s.Reset()

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []bool{true, false, true, false}, seen)
}

func TestService_ClosedRejectsMutations(t *testing.T) {
	store := &recordingStore{}
	s, _ := newTestService(t, store)
	s.Start()
	s.Close()

	assert.False(t, s.Stats().DriverActive)
	assert.ErrorIs(t, s.SetPreset(60), ErrClosed)
	s.Reset()
	assert.True(t, s.Snapshot().Running, "closed service keeps its last state")

	rec := store.record(t)
	assert.True(t, rec.IsRunning, "close leaves the persisted record for the next process")
}

func TestEphemeral_NotPersisted(t *testing.T) {
	fc := clockwork.NewFakeClockAt(epoch)
	s := NewEphemeral(WithClock(fc), WithDefaultPreset(60))
	t.Cleanup(s.Close)

	s.Start()
	assert.Equal(t, 60, s.Snapshot().Remaining)
	advance(t, s, fc, 59)

	again := NewEphemeral(WithClock(fc), WithDefaultPreset(60))
	t.Cleanup(again.Close)
	assert.Equal(t, State{Preset: 60}, again.Snapshot())
}
