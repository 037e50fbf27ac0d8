// Package tourney derives tournament clock and per-player display state from
// authoritative snapshots: current blind level, breaks, late registration,
// and the elimination/rebuy overlay.
package tourney

import (
	"time"

	"github.com/mcdev12/felt/go/internal/elapsed"
	"github.com/mcdev12/felt/go/internal/models"
)

// ClockState is the derived tournament clock at one instant.
type ClockState struct {
	Status         models.TournamentStatus `json:"status"`
	Started        bool                    `json:"started"`
	Paused         bool                    `json:"paused"`
	ElapsedSeconds int64                   `json:"elapsed_seconds"`

	CurrentLevel              int   `json:"current_level"`
	OnBreak                   bool  `json:"on_break"`
	LevelTimeRemainingSeconds int64 `json:"level_time_remaining_seconds"`
	BreakTimeRemainingSeconds int64 `json:"break_time_remaining_seconds"`

	LateRegOpen             bool  `json:"late_reg_open"`
	LateRegRemainingSeconds int64 `json:"late_reg_remaining_seconds"`

	// StructureUnavailable mirrors the snapshot flag: the level numbers are
	// display fallbacks, not real configuration.
	StructureUnavailable bool `json:"structure_unavailable,omitempty"`
}

// Terminal reports whether the tournament has finished.
func (s ClockState) Terminal() bool { return s.Status == models.TournamentStatusFinished }

// IsPaused reports whether the clock is currently held. A paused tournament
// is not terminal.
func (s ClockState) IsPaused() bool { return s.Paused }

// DeriveClock computes the tournament clock state at the given instant.
// Pure and idempotent; safe to call at arbitrary frequency.
func DeriveClock(snap models.TournamentSnapshot, now time.Time) ClockState {
	st := ClockState{
		Status:               snap.Status,
		Paused:               snap.Status == models.TournamentStatusPaused || snap.PausedAt != nil,
		CurrentLevel:         1,
		StructureUnavailable: snap.StructureUnavailable,
	}
	if snap.Status == models.TournamentStatusFinished {
		st.Paused = false
	}

	var terminalAt *time.Time
	if snap.Status == models.TournamentStatusFinished {
		terminalAt = snap.FinishedAt
	}

	secs, started := elapsed.ActiveSeconds(
		snap.SessionStartedAt, snap.PausedAt, terminalAt, snap.TotalPausedSeconds, now)
	st.Started = started
	if !started {
		return st
	}
	st.ElapsedSeconds = secs

	deriveLevel(&st, snap.Structure, secs)
	deriveLateReg(&st, snap, now)
	return st
}

// deriveLevel walks the blind structure accumulating level and break blocks
// until it finds the interval containing the elapsed time. A boundary instant
// belongs to the next block. Past the final block the level clamps to the
// last configured level with zero remaining.
func deriveLevel(st *ClockState, structure models.TournamentStructure, elapsedSecs int64) {
	if structure.MinutesPerLevel <= 0 || structure.NumberOfLevels <= 0 {
		// Degenerate structure: level 1, no countdown.
		return
	}

	levelSecs := int64(structure.MinutesPerLevel) * 60
	breakSecs := int64(structure.BreakDurationMinutes) * 60

	var cum int64
	for lvl := 1; lvl <= structure.NumberOfLevels; lvl++ {
		cum += levelSecs
		if elapsedSecs < cum {
			st.CurrentLevel = lvl
			st.LevelTimeRemainingSeconds = cum - elapsedSecs
			return
		}
		onBreakAfter := structure.BreakEveryNLevels > 0 &&
			lvl%structure.BreakEveryNLevels == 0 &&
			lvl < structure.NumberOfLevels &&
			breakSecs > 0
		if onBreakAfter {
			cum += breakSecs
			if elapsedSecs < cum {
				st.CurrentLevel = lvl
				st.OnBreak = true
				st.BreakTimeRemainingSeconds = cum - elapsedSecs
				return
			}
		}
	}

	// Past the end of the configured structure.
	st.CurrentLevel = structure.NumberOfLevels
}

// deriveLateReg opens the late-registration window while the tournament is
// running and the window has not elapsed. Late registration is wall-clock
// bounded: it is measured from the raw start time with no pause subtraction,
// so pausing the clock does not extend the window.
func deriveLateReg(st *ClockState, snap models.TournamentSnapshot, now time.Time) {
	if snap.Structure.LateRegistrationMinutes <= 0 {
		return
	}
	running := snap.Status == models.TournamentStatusRunning
	if !running || snap.SessionStartedAt == nil {
		return
	}
	ends := snap.SessionStartedAt.Add(time.Duration(snap.Structure.LateRegistrationMinutes) * time.Minute)
	if !now.Before(ends) {
		return
	}
	st.LateRegOpen = true
	st.LateRegRemainingSeconds = elapsed.RemainingSeconds(&ends, now)
}
