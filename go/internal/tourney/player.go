package tourney

import (
	"time"

	"github.com/mcdev12/felt/go/internal/elapsed"
	"github.com/mcdev12/felt/go/internal/models"
)

// PlayerState is the per-player overlay on top of the tournament clock.
// An eliminated player's personal clock freezes at the elimination instant.
type PlayerState struct {
	PlayerID       string `json:"player_id"`
	Started        bool   `json:"started"`
	IsExited       bool   `json:"is_exited"`
	ElapsedSeconds int64  `json:"elapsed_seconds"`
	RebuyCount     int    `json:"rebuy_count"`
	CanRebuy       bool   `json:"can_rebuy"`
	CanReentry     bool   `json:"can_reentry"`
}

// Terminal reports whether the player is out of the tournament with no way
// back in.
func (s PlayerState) Terminal() bool { return s.IsExited && !s.CanRebuy && !s.CanReentry }

// IsPaused always reports false: the player overlay has no paused state of
// its own, the tournament clock carries that.
func (s PlayerState) IsPaused() bool { return false }

// DerivePlayer computes a player's overlay state. Elimination clamps the
// player's elapsed time at ExitedAt; rebuy and re-entry eligibility follow
// the structure flags unless the player carries an override. RebuyCount is
// whatever the server reported, never locally inferred.
func DerivePlayer(snap models.TournamentSnapshot, player models.PlayerTournamentStatus, now time.Time) PlayerState {
	st := PlayerState{
		PlayerID:   player.PlayerID.String(),
		IsExited:   player.IsExited,
		RebuyCount: player.RebuyCount,
	}

	var terminalAt *time.Time
	if player.IsExited {
		terminalAt = player.ExitedAt
	} else if snap.Status == models.TournamentStatusFinished {
		terminalAt = snap.FinishedAt
	}

	secs, started := elapsed.ActiveSeconds(
		snap.SessionStartedAt, snap.PausedAt, terminalAt, snap.TotalPausedSeconds, now)
	st.Started = started
	st.ElapsedSeconds = secs

	if !player.IsExited || snap.Status == models.TournamentStatusFinished {
		return st
	}

	allowRebuys := snap.Structure.AllowRebuys
	if player.AllowRebuys != nil {
		allowRebuys = *player.AllowRebuys
	}
	allowReentry := snap.Structure.AllowReentry
	if player.AllowReentry != nil {
		allowReentry = *player.AllowReentry
	}

	// Re-entry is bounded by the late-registration window when one exists.
	clock := DeriveClock(snap, now)
	st.CanRebuy = allowRebuys && snap.Status == models.TournamentStatusRunning
	st.CanReentry = allowReentry && snap.Status == models.TournamentStatusRunning &&
		(snap.Structure.LateRegistrationMinutes == 0 || clock.LateRegOpen)

	return st
}
