// Package cashgame derives the display state of a live cash-table session
// from its authoritative snapshot. All derivation is pure: the same snapshot
// and the same instant always produce the same state.
package cashgame

import (
	"time"

	"github.com/mcdev12/felt/go/internal/elapsed"
	"github.com/mcdev12/felt/go/internal/models"
)

// Phase is a mutually-exclusive state of the session state machine.
type Phase string

const (
	PhaseMinimumPlay       Phase = "MINIMUM_PLAY"
	PhaseCallTimeAvailable Phase = "CALL_TIME_AVAILABLE"
	PhaseCallTimeActive    Phase = "CALL_TIME_ACTIVE"
	PhaseCashOutWindow     Phase = "CASH_OUT_WINDOW"
	PhaseSessionEnded      Phase = "SESSION_ENDED"
)

// State is the derived display state for one session at one instant.
type State struct {
	Phase          Phase `json:"phase"`
	Started        bool  `json:"started"`
	Paused         bool  `json:"paused"`
	ElapsedSeconds int64 `json:"elapsed_seconds"`

	MinPlayCompleted        bool  `json:"min_play_completed"`
	MinPlayRemainingSeconds int64 `json:"min_play_remaining_seconds"`

	CallTimeAvailable        bool  `json:"call_time_available"`
	CallTimeActive           bool  `json:"call_time_active"`
	CallTimeRemainingSeconds int64 `json:"call_time_remaining_seconds"`

	CanCashOut              bool       `json:"can_cash_out"`
	CashoutWindowEnds       *time.Time `json:"cashout_window_ends,omitempty"`
	CashOutRemainingSeconds int64      `json:"cash_out_remaining_seconds"`
}

// Terminal reports whether the session has ended.
func (s State) Terminal() bool { return s.Phase == PhaseSessionEnded }

// IsPaused reports whether the session clock is currently held.
func (s State) IsPaused() bool { return s.Paused }

// Derive computes the session state at the given instant. It is a pure view
// over the snapshot: it never issues call-time or cash-out actions, only
// reflects them once a fresh snapshot carries their effect.
func Derive(snap models.SessionSnapshot, now time.Time) State {
	cfg := snap.Config

	elapsedSecs, started := elapsed.ActiveSeconds(
		snap.SessionStartedAt, snap.PausedAt, snap.ExitedAt, snap.TotalPausedSeconds, now)

	st := State{
		Phase:          PhaseMinimumPlay,
		Started:        started,
		Paused:         snap.PausedAt != nil && snap.ExitedAt == nil,
		ElapsedSeconds: elapsedSecs,
	}
	if !started {
		return st
	}
	if snap.ExitedAt != nil {
		st.Phase = PhaseSessionEnded
		return st
	}

	minPlaySecs := int64(cfg.MinPlayTimeMinutes) * 60
	st.MinPlayCompleted = elapsedSecs/60 >= int64(cfg.MinPlayTimeMinutes)
	if !st.MinPlayCompleted {
		st.MinPlayRemainingSeconds = minPlaySecs - elapsedSecs
	}

	ctEnds := callTimeEnds(snap)
	callTimeElapsed := snap.CallTime.CallTimeStarted != nil && ctEnds != nil && !now.Before(*ctEnds)
	if callTimeElapsed || snap.CashoutWindow.CashoutWindowActive {
		// Call time has fully elapsed (or the server opened the window
		// directly); the cash-out window governs.
		st.Phase = PhaseCashOutWindow
		if ends := cashoutWindowEnds(snap); ends != nil {
			st.CashoutWindowEnds = ends
			st.CanCashOut = now.Before(*ends)
			st.CashOutRemainingSeconds = elapsed.RemainingSeconds(ends, now)
		}
		return st
	}

	if snap.CallTime.CallTimeStarted != nil && ctEnds != nil && now.Before(*ctEnds) {
		st.Phase = PhaseCallTimeActive
		st.CallTimeActive = true
		st.CallTimeRemainingSeconds = elapsed.RemainingSeconds(ctEnds, now)
		return st
	}

	if st.MinPlayCompleted && snap.CallTime.CallTimeStarted == nil && !snap.CashoutWindow.CashoutWindowActive {
		st.Phase = PhaseCallTimeAvailable
		st.CallTimeAvailable = true
	}
	return st
}

// callTimeEnds resolves the end of the call-time period. The server usually
// sends the boundary; when it only recorded the start, the configured
// duration fills it in so the phase machine still advances.
func callTimeEnds(snap models.SessionSnapshot) *time.Time {
	if snap.CallTime.CallTimeEnds != nil {
		return snap.CallTime.CallTimeEnds
	}
	if snap.CallTime.CallTimeStarted == nil || snap.Config.CallTimeDurationMinutes <= 0 {
		return nil
	}
	ends := snap.CallTime.CallTimeStarted.Add(time.Duration(snap.Config.CallTimeDurationMinutes) * time.Minute)
	return &ends
}

// cashoutWindowEnds resolves the end of the cash-out window, preferring the
// server-sent boundary over one derived from the call-time end.
func cashoutWindowEnds(snap models.SessionSnapshot) *time.Time {
	if snap.CashoutWindow.CashoutWindowActive && snap.CashoutWindow.CashoutWindowEnds != nil {
		return snap.CashoutWindow.CashoutWindowEnds
	}
	ctEnds := callTimeEnds(snap)
	if ctEnds == nil {
		return nil
	}
	ends := ctEnds.Add(time.Duration(snap.Config.CashoutWindowMinutes) * time.Minute)
	return &ends
}
