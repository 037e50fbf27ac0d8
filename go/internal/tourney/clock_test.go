package tourney

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcdev12/felt/go/internal/models"
)

var t0 = time.Date(2025, 6, 1, 18, 0, 0, 0, time.UTC)

func ptr(t time.Time) *time.Time { return &t }

func standardStructure() models.TournamentStructure {
	return models.TournamentStructure{
		MinutesPerLevel:      15,
		NumberOfLevels:       10,
		BreakDurationMinutes: 10,
		BreakEveryNLevels:    4,
	}
}

func runningSnapshot(structure models.TournamentStructure) models.TournamentSnapshot {
	return models.TournamentSnapshot{
		SessionStartedAt: ptr(t0),
		Status:           models.TournamentStatusRunning,
		Structure:        structure,
	}
}

func TestDeriveClock_NotStarted(t *testing.T) {
	snap := runningSnapshot(standardStructure())
	snap.SessionStartedAt = nil

	st := DeriveClock(snap, t0)
	assert.False(t, st.Started)
	assert.Equal(t, 1, st.CurrentLevel)
	assert.Zero(t, st.LevelTimeRemainingSeconds)
}

func TestDeriveClock_FirstLevel(t *testing.T) {
	st := DeriveClock(runningSnapshot(standardStructure()), t0)
	assert.Equal(t, 1, st.CurrentLevel)
	assert.False(t, st.OnBreak)
	assert.Equal(t, int64(15*60), st.LevelTimeRemainingSeconds)
}

func TestDeriveClock_SecondLevel(t *testing.T) {
	// Level 2 spans minutes 15-30; at 20 minutes there are 10 left.
	st := DeriveClock(runningSnapshot(standardStructure()), t0.Add(20*time.Minute))
	assert.Equal(t, 2, st.CurrentLevel)
	assert.False(t, st.OnBreak)
	assert.Equal(t, int64(10*60), st.LevelTimeRemainingSeconds)
}

func TestDeriveClock_LevelBoundaryBelongsToNext(t *testing.T) {
	st := DeriveClock(runningSnapshot(standardStructure()), t0.Add(15*time.Minute))
	assert.Equal(t, 2, st.CurrentLevel)
	assert.Equal(t, int64(15*60), st.LevelTimeRemainingSeconds)
}

func TestDeriveClock_OnBreak(t *testing.T) {
	// Levels 1-4 cover minutes 0-60, then a 10 minute break. At 65 minutes
	// the clock shows level 4 on break with 5 minutes left.
	st := DeriveClock(runningSnapshot(standardStructure()), t0.Add(65*time.Minute))
	assert.Equal(t, 4, st.CurrentLevel)
	assert.True(t, st.OnBreak)
	assert.Equal(t, int64(5*60), st.BreakTimeRemainingSeconds)
	assert.Zero(t, st.LevelTimeRemainingSeconds)
}

func TestDeriveClock_AfterBreak(t *testing.T) {
	st := DeriveClock(runningSnapshot(standardStructure()), t0.Add(70*time.Minute))
	assert.Equal(t, 5, st.CurrentLevel)
	assert.False(t, st.OnBreak)
	assert.Equal(t, int64(15*60), st.LevelTimeRemainingSeconds)
}

func TestDeriveClock_NoBreakAfterFinalLevel(t *testing.T) {
	structure := standardStructure()
	structure.NumberOfLevels = 4

	// Level 4 is the last level; no break follows it even though 4 is a
	// multiple of BreakEveryNLevels.
	st := DeriveClock(runningSnapshot(structure), t0.Add(61*time.Minute))
	assert.Equal(t, 4, st.CurrentLevel)
	assert.False(t, st.OnBreak)
	assert.Zero(t, st.LevelTimeRemainingSeconds)
}

func TestDeriveClock_PastEndClampsToFinalLevel(t *testing.T) {
	// 10 levels of 15 minutes plus breaks after levels 4 and 8: 170 total.
	st := DeriveClock(runningSnapshot(standardStructure()), t0.Add(200*time.Minute))
	assert.Equal(t, 10, st.CurrentLevel)
	assert.False(t, st.OnBreak)
	assert.Zero(t, st.LevelTimeRemainingSeconds)
	assert.Zero(t, st.BreakTimeRemainingSeconds)
}

func TestDeriveClock_PauseSubtraction(t *testing.T) {
	snap := runningSnapshot(standardStructure())
	snap.TotalPausedSeconds = 300

	// 20 wall-clock minutes minus 5 paused = 15 active: level 2 start.
	st := DeriveClock(snap, t0.Add(20*time.Minute))
	assert.Equal(t, 2, st.CurrentLevel)
	assert.Equal(t, int64(15*60), st.LevelTimeRemainingSeconds)
}

func TestDeriveClock_PausedHoldsClock(t *testing.T) {
	snap := runningSnapshot(standardStructure())
	snap.Status = models.TournamentStatusPaused
	snap.PausedAt = ptr(t0.Add(10 * time.Minute))

	st := DeriveClock(snap, t0.Add(40*time.Minute))
	assert.True(t, st.Paused)
	assert.False(t, st.Terminal())
	assert.Equal(t, int64(600), st.ElapsedSeconds)
	assert.Equal(t, 1, st.CurrentLevel)
}

func TestDeriveClock_FinishedClampsAtFinish(t *testing.T) {
	snap := runningSnapshot(standardStructure())
	snap.Status = models.TournamentStatusFinished
	snap.FinishedAt = ptr(t0.Add(100 * time.Minute))

	st := DeriveClock(snap, t0.Add(5*time.Hour))
	assert.True(t, st.Terminal())
	assert.False(t, st.Paused)
	assert.Equal(t, int64(100*60), st.ElapsedSeconds)
}

func TestDeriveClock_DegenerateStructureFailsSafe(t *testing.T) {
	for _, structure := range []models.TournamentStructure{
		{MinutesPerLevel: 0, NumberOfLevels: 10},
		{MinutesPerLevel: 15, NumberOfLevels: 0},
		{MinutesPerLevel: -5, NumberOfLevels: -1},
	} {
		st := DeriveClock(runningSnapshot(structure), t0.Add(time.Hour))
		assert.Equal(t, 1, st.CurrentLevel)
		assert.False(t, st.OnBreak)
		assert.Zero(t, st.LevelTimeRemainingSeconds)
	}
}

func TestDeriveClock_LateRegistrationBoundary(t *testing.T) {
	structure := standardStructure()
	structure.LateRegistrationMinutes = 20
	snap := runningSnapshot(structure)

	st := DeriveClock(snap, t0.Add(20*time.Minute-time.Second))
	assert.True(t, st.LateRegOpen)
	assert.Equal(t, int64(1), st.LateRegRemainingSeconds)

	st = DeriveClock(snap, t0.Add(20*time.Minute))
	assert.False(t, st.LateRegOpen)
	assert.Zero(t, st.LateRegRemainingSeconds)
}

func TestDeriveClock_LateRegistrationIgnoresPausedTime(t *testing.T) {
	// Late registration is wall-clock bounded: accumulated pause time does
	// not stretch the window.
	structure := standardStructure()
	structure.LateRegistrationMinutes = 20
	snap := runningSnapshot(structure)
	snap.TotalPausedSeconds = 600

	st := DeriveClock(snap, t0.Add(19*time.Minute))
	assert.True(t, st.LateRegOpen)
	assert.Equal(t, int64(60), st.LateRegRemainingSeconds)

	st = DeriveClock(snap, t0.Add(21*time.Minute))
	assert.False(t, st.LateRegOpen)
}

func TestDeriveClock_LateRegistrationDisabled(t *testing.T) {
	st := DeriveClock(runningSnapshot(standardStructure()), t0.Add(time.Minute))
	assert.False(t, st.LateRegOpen)
}

func TestDeriveClock_LateRegistrationRequiresRunning(t *testing.T) {
	structure := standardStructure()
	structure.LateRegistrationMinutes = 20
	snap := runningSnapshot(structure)
	snap.Status = models.TournamentStatusScheduled

	st := DeriveClock(snap, t0.Add(time.Minute))
	assert.False(t, st.LateRegOpen)
}

func TestDeriveClock_Idempotent(t *testing.T) {
	snap := runningSnapshot(standardStructure())
	now := t0.Add(37 * time.Minute)
	require.Equal(t, DeriveClock(snap, now), DeriveClock(snap, now))
}

func TestDeriveClock_StructureUnavailableSurfaced(t *testing.T) {
	snap := runningSnapshot(DefaultStructure())
	snap.StructureUnavailable = true

	st := DeriveClock(snap, t0.Add(time.Minute))
	assert.True(t, st.StructureUnavailable)
	assert.Equal(t, 1, st.CurrentLevel)
}
