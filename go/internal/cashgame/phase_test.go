package cashgame

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcdev12/felt/go/internal/models"
)

var t0 = time.Date(2025, 6, 1, 18, 0, 0, 0, time.UTC)

func ptr(t time.Time) *time.Time { return &t }

func baseSnapshot() models.SessionSnapshot {
	return models.SessionSnapshot{
		SessionStartedAt: ptr(t0),
		Config: models.SessionConfig{
			MinPlayTimeMinutes:      30,
			CallTimeDurationMinutes: 60,
			CashoutWindowMinutes:    15,
		},
	}
}

func TestDerive_NotStarted(t *testing.T) {
	snap := baseSnapshot()
	snap.SessionStartedAt = nil

	st := Derive(snap, t0)
	assert.False(t, st.Started)
	assert.Equal(t, PhaseMinimumPlay, st.Phase)
	assert.Zero(t, st.ElapsedSeconds)
}

func TestDerive_MinimumPlay(t *testing.T) {
	st := Derive(baseSnapshot(), t0.Add(29*time.Minute))
	assert.Equal(t, PhaseMinimumPlay, st.Phase)
	assert.False(t, st.MinPlayCompleted)
	assert.Equal(t, int64(60), st.MinPlayRemainingSeconds)
	assert.False(t, st.CallTimeAvailable)
}

func TestDerive_CallTimeAvailable(t *testing.T) {
	st := Derive(baseSnapshot(), t0.Add(31*time.Minute))
	assert.Equal(t, PhaseCallTimeAvailable, st.Phase)
	assert.True(t, st.MinPlayCompleted)
	assert.True(t, st.CallTimeAvailable)
}

func TestDerive_CallTimeActive(t *testing.T) {
	snap := baseSnapshot()
	started := t0.Add(40 * time.Minute)
	ends := started.Add(60 * time.Minute)
	snap.CallTime = models.CallTimeState{CallTimeStarted: &started, CallTimeEnds: &ends}

	st := Derive(snap, started.Add(30*time.Minute))
	assert.Equal(t, PhaseCallTimeActive, st.Phase)
	assert.True(t, st.CallTimeActive)
	assert.False(t, st.CallTimeAvailable)
	assert.Equal(t, int64(1800), st.CallTimeRemainingSeconds)
}

func TestDerive_CashOutWindowAfterCallTime(t *testing.T) {
	snap := baseSnapshot()
	started := t0.Add(40 * time.Minute)
	ends := started.Add(60 * time.Minute)
	snap.CallTime = models.CallTimeState{CallTimeStarted: &started, CallTimeEnds: &ends}

	st := Derive(snap, started.Add(61*time.Minute))
	assert.Equal(t, PhaseCashOutWindow, st.Phase)
	assert.True(t, st.CanCashOut)
	require.NotNil(t, st.CashoutWindowEnds)
	assert.Equal(t, ends.Add(15*time.Minute), *st.CashoutWindowEnds)
	assert.Equal(t, int64(14*60), st.CashOutRemainingSeconds)
}

// The server may record only the call-time start; the configured duration
// fills in the missing end boundary.
func TestDerive_CallTimeStartedWithoutEnds(t *testing.T) {
	snap := baseSnapshot()
	started := t0.Add(40 * time.Minute)
	snap.CallTime = models.CallTimeState{CallTimeStarted: &started}

	st := Derive(snap, started.Add(30*time.Minute))
	assert.Equal(t, PhaseCallTimeActive, st.Phase)
	assert.Equal(t, int64(1800), st.CallTimeRemainingSeconds)

	st = Derive(snap, started.Add(61*time.Minute))
	assert.Equal(t, PhaseCashOutWindow, st.Phase)
	assert.True(t, st.CanCashOut)
	require.NotNil(t, st.CashoutWindowEnds)
	assert.Equal(t, started.Add(75*time.Minute), *st.CashoutWindowEnds)
}

func TestDerive_CallTimeBoundaryBelongsToCashOut(t *testing.T) {
	snap := baseSnapshot()
	started := t0.Add(40 * time.Minute)
	ends := started.Add(60 * time.Minute)
	snap.CallTime = models.CallTimeState{CallTimeStarted: &started, CallTimeEnds: &ends}

	// The next resolution at the boundary must already be the successor phase.
	st := Derive(snap, ends)
	assert.Equal(t, PhaseCashOutWindow, st.Phase)
}

func TestDerive_ExpiredCashOutWindow(t *testing.T) {
	snap := baseSnapshot()
	started := t0.Add(40 * time.Minute)
	ends := started.Add(60 * time.Minute)
	snap.CallTime = models.CallTimeState{CallTimeStarted: &started, CallTimeEnds: &ends}

	st := Derive(snap, ends.Add(16*time.Minute))
	assert.Equal(t, PhaseCashOutWindow, st.Phase)
	assert.False(t, st.CanCashOut)
	assert.Zero(t, st.CashOutRemainingSeconds)
}

func TestDerive_ServerSentCashoutWindow(t *testing.T) {
	snap := baseSnapshot()
	windowEnd := t0.Add(50 * time.Minute)
	snap.CashoutWindow = models.CashoutWindowState{
		CashoutWindowActive: true,
		CashoutWindowEnds:   &windowEnd,
	}

	st := Derive(snap, t0.Add(45*time.Minute))
	assert.Equal(t, PhaseCashOutWindow, st.Phase)
	assert.True(t, st.CanCashOut)
	assert.Equal(t, int64(300), st.CashOutRemainingSeconds)
}

func TestDerive_SessionEnded(t *testing.T) {
	snap := baseSnapshot()
	snap.ExitedAt = ptr(t0.Add(45 * time.Minute))

	st := Derive(snap, t0.Add(2*time.Hour))
	assert.Equal(t, PhaseSessionEnded, st.Phase)
	assert.True(t, st.Terminal())
	assert.Equal(t, int64(45*60), st.ElapsedSeconds)
}

func TestDerive_PausedClampsElapsed(t *testing.T) {
	snap := baseSnapshot()
	snap.PausedAt = ptr(t0.Add(10 * time.Minute))

	st := Derive(snap, t0.Add(30*time.Minute))
	assert.True(t, st.Paused)
	assert.True(t, st.IsPaused())
	assert.Equal(t, int64(600), st.ElapsedSeconds)
	assert.Equal(t, PhaseMinimumPlay, st.Phase)
}

func TestDerive_Idempotent(t *testing.T) {
	snap := baseSnapshot()
	started := t0.Add(40 * time.Minute)
	ends := started.Add(60 * time.Minute)
	snap.CallTime = models.CallTimeState{CallTimeStarted: &started, CallTimeEnds: &ends}

	now := started.Add(10 * time.Minute)
	assert.Equal(t, Derive(snap, now), Derive(snap, now))
}

func TestDerive_MonotonicElapsedWhileRunning(t *testing.T) {
	snap := baseSnapshot()
	var prev int64
	for i := 0; i <= 90; i++ {
		st := Derive(snap, t0.Add(time.Duration(i)*time.Minute))
		require.GreaterOrEqual(t, st.ElapsedSeconds, prev)
		prev = st.ElapsedSeconds
	}
}

// Exactly one phase holds at every instant across the whole session arc.
func TestDerive_PhasesMutuallyExclusive(t *testing.T) {
	snap := baseSnapshot()
	started := t0.Add(40 * time.Minute)
	ends := started.Add(60 * time.Minute)
	snap.CallTime = models.CallTimeState{CallTimeStarted: &started, CallTimeEnds: &ends}

	for i := 0; i <= 180; i += 7 {
		now := t0.Add(time.Duration(i) * time.Minute)
		st := Derive(snap, now)
		switch st.Phase {
		case PhaseMinimumPlay, PhaseCallTimeAvailable, PhaseCallTimeActive, PhaseCashOutWindow, PhaseSessionEnded:
		default:
			t.Fatalf("unexpected phase %q at %s", st.Phase, now)
		}
	}
}
