package ticker

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testFrame struct {
	Remaining int64 `json:"remaining"`
	terminal  bool
	paused    bool
}

func (f testFrame) Terminal() bool { return f.terminal }
func (f testFrame) IsPaused() bool { return f.paused }

type frameRecorder struct {
	mu     sync.Mutex
	frames []testFrame
}

func (r *frameRecorder) record(f Frame) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.frames = append(r.frames, f.(testFrame))
}

func (r *frameRecorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.frames)
}

func (r *frameRecorder) last() testFrame {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.frames[len(r.frames)-1]
}

// countdownDerive returns frames counting down to a deadline on the fake
// clock; the frame at or past the deadline is terminal.
func countdownDerive(deadline time.Time) DeriveFunc {
	return func(now time.Time) Frame {
		remaining := int64(deadline.Sub(now) / time.Second)
		if remaining <= 0 {
			return testFrame{Remaining: 0, terminal: true}
		}
		return testFrame{Remaining: remaining}
	}
}

func waitForFrames(t *testing.T, rec *frameRecorder, n int) {
	t.Helper()
	require.Eventually(t, func() bool { return rec.count() >= n }, time.Second, time.Millisecond)
}

func TestPresenter_EmitsImmediatelyThenPerSecond(t *testing.T) {
	clock := clockwork.NewFakeClock()
	p := NewPresenter(clock, time.Second)
	rec := &frameRecorder{}

	h := p.Start(context.Background(), uuid.New(), countdownDerive(clock.Now().Add(time.Minute)), rec.record)
	defer h.Cancel()

	waitForFrames(t, rec, 1)
	assert.Equal(t, int64(60), rec.last().Remaining)

	clock.BlockUntil(1)
	clock.Advance(time.Second)
	waitForFrames(t, rec, 2)
	assert.Equal(t, int64(59), rec.last().Remaining)

	clock.Advance(time.Second)
	waitForFrames(t, rec, 3)
	assert.Equal(t, int64(58), rec.last().Remaining)
}

func TestPresenter_StopsAtTerminal(t *testing.T) {
	clock := clockwork.NewFakeClock()
	p := NewPresenter(clock, time.Second)
	rec := &frameRecorder{}

	h := p.Start(context.Background(), uuid.New(), countdownDerive(clock.Now().Add(2*time.Second)), rec.record)

	waitForFrames(t, rec, 1)
	clock.BlockUntil(1)
	clock.Advance(time.Second)
	waitForFrames(t, rec, 2)
	clock.Advance(time.Second)
	waitForFrames(t, rec, 3)
	assert.True(t, rec.last().Terminal())

	// The handle stops itself after the terminal frame.
	select {
	case <-h.Done():
	case <-time.After(time.Second):
		t.Fatal("handle did not stop after terminal frame")
	}
	assert.Equal(t, 3, rec.count())
}

func TestPresenter_CancelIsIdempotent(t *testing.T) {
	clock := clockwork.NewFakeClock()
	p := NewPresenter(clock, time.Second)
	rec := &frameRecorder{}

	h := p.Start(context.Background(), uuid.New(), countdownDerive(clock.Now().Add(time.Hour)), rec.record)
	waitForFrames(t, rec, 1)

	h.Cancel()
	h.Cancel() // double-cancel must be a no-op

	select {
	case <-h.Done():
	case <-time.After(time.Second):
		t.Fatal("handle did not stop after cancel")
	}

	emitted := rec.count()
	clock.Advance(5 * time.Second)
	time.Sleep(10 * time.Millisecond)
	assert.Equal(t, emitted, rec.count())
}

func TestPresenter_ReseedSnapsToFreshSnapshot(t *testing.T) {
	clock := clockwork.NewFakeClock()
	p := NewPresenter(clock, time.Second)
	rec := &frameRecorder{}

	h := p.Start(context.Background(), uuid.New(), countdownDerive(clock.Now().Add(time.Minute)), rec.record)
	defer h.Cancel()
	waitForFrames(t, rec, 1)

	// A fresh snapshot moves the deadline out; the display must jump to the
	// fresh value immediately, not keep extrapolating the old one.
	h.Reseed(countdownDerive(clock.Now().Add(5 * time.Minute)))
	waitForFrames(t, rec, 2)
	assert.Equal(t, int64(300), rec.last().Remaining)
}

func TestPresenter_PausedSuppressesTicks(t *testing.T) {
	clock := clockwork.NewFakeClock()
	p := NewPresenter(clock, time.Second)
	rec := &frameRecorder{}

	paused := func(now time.Time) Frame { return testFrame{Remaining: 42, paused: true} }
	h := p.Start(context.Background(), uuid.New(), paused, rec.record)
	defer h.Cancel()

	waitForFrames(t, rec, 1)
	clock.BlockUntil(1)
	clock.Advance(3 * time.Second)
	time.Sleep(10 * time.Millisecond)
	assert.Equal(t, 1, rec.count())

	// Resume arrives via a fresh snapshot.
	h.Reseed(countdownDerive(clock.Now().Add(time.Minute)))
	waitForFrames(t, rec, 2)
	assert.False(t, rec.last().IsPaused())

	clock.Advance(time.Second)
	waitForFrames(t, rec, 3)
}

func TestPresenter_ReseedAfterStopIsNoOp(t *testing.T) {
	clock := clockwork.NewFakeClock()
	p := NewPresenter(clock, time.Second)
	rec := &frameRecorder{}

	h := p.Start(context.Background(), uuid.New(), countdownDerive(clock.Now().Add(time.Minute)), rec.record)
	waitForFrames(t, rec, 1)
	h.Cancel()
	<-h.Done()

	// Must not block or emit.
	h.Reseed(countdownDerive(clock.Now().Add(time.Hour)))
	assert.Equal(t, 1, rec.count())
}
