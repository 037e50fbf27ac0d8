package elapsed

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2025, 6, 1, 18, 0, 0, 0, time.UTC)

func ptr(t time.Time) *time.Time { return &t }

func TestActiveSeconds_MissingStart(t *testing.T) {
	secs, started := ActiveSeconds(nil, nil, nil, 0, t0)
	assert.False(t, started)
	assert.Zero(t, secs)

	zero := time.Time{}
	secs, started = ActiveSeconds(&zero, nil, nil, 0, t0)
	assert.False(t, started)
	assert.Zero(t, secs)
}

func TestActiveSeconds_Running(t *testing.T) {
	secs, started := ActiveSeconds(ptr(t0), nil, nil, 0, t0.Add(30*time.Minute))
	require.True(t, started)
	assert.Equal(t, int64(1800), secs)
}

func TestActiveSeconds_PausedClampsNow(t *testing.T) {
	// Paused 10 minutes in; 20 more wall-clock minutes accumulate nothing.
	secs, started := ActiveSeconds(ptr(t0), ptr(t0.Add(10*time.Minute)), nil, 0, t0.Add(30*time.Minute))
	require.True(t, started)
	assert.Equal(t, int64(600), secs)
}

func TestActiveSeconds_ResumeSubtractsAccumulatedPause(t *testing.T) {
	// 5 minutes already paused and resumed.
	secs, started := ActiveSeconds(ptr(t0), nil, nil, 300, t0.Add(20*time.Minute))
	require.True(t, started)
	assert.Equal(t, int64(900), secs)
}

func TestActiveSeconds_TerminalClampWinsOverPause(t *testing.T) {
	terminal := t0.Add(40 * time.Minute)
	atTerminal, _ := ActiveSeconds(ptr(t0), nil, ptr(terminal), 0, terminal)
	later, _ := ActiveSeconds(ptr(t0), nil, ptr(terminal), 0, t0.Add(90*time.Minute))
	assert.Equal(t, atTerminal, later)
	assert.Equal(t, int64(2400), later)
}

func TestActiveSeconds_NeverNegative(t *testing.T) {
	// now before start
	secs, started := ActiveSeconds(ptr(t0), nil, nil, 0, t0.Add(-time.Minute))
	require.True(t, started)
	assert.Zero(t, secs)

	// paused time exceeding wall clock
	secs, _ = ActiveSeconds(ptr(t0), nil, nil, 7200, t0.Add(30*time.Minute))
	assert.Zero(t, secs)
}

func TestActiveSeconds_MonotonicWhileRunning(t *testing.T) {
	var prev int64
	for i := 0; i <= 120; i++ {
		secs, _ := ActiveSeconds(ptr(t0), nil, nil, 120, t0.Add(time.Duration(i)*time.Second))
		require.GreaterOrEqual(t, secs, prev)
		prev = secs
	}
}

func TestRemainingSeconds(t *testing.T) {
	end := t0.Add(time.Minute)
	assert.Equal(t, int64(60), RemainingSeconds(&end, t0))
	assert.Equal(t, int64(1), RemainingSeconds(&end, t0.Add(59*time.Second)))
	assert.Zero(t, RemainingSeconds(&end, end))
	assert.Zero(t, RemainingSeconds(&end, end.Add(time.Hour)))
	assert.Zero(t, RemainingSeconds(nil, t0))
}
