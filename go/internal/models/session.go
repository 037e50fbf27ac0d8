package models

import (
	"time"

	"github.com/google/uuid"
)

// SessionConfig holds the per-table timing configuration.
type SessionConfig struct {
	MinPlayTimeMinutes      int `json:"min_play_time_minutes"`
	CallTimeDurationMinutes int `json:"call_time_duration_minutes"`
	CashoutWindowMinutes    int `json:"cashout_window_minutes"`
}

// CallTimeState reflects a server-recorded call-time request.
// Both fields are nil until the player starts call time.
type CallTimeState struct {
	CallTimeStarted *time.Time `json:"call_time_started,omitempty"`
	CallTimeEnds    *time.Time `json:"call_time_ends,omitempty"`
}

// CashoutWindowState reflects the server's view of the cash-out window.
// CashoutWindowEnds is only meaningful while CashoutWindowActive is true.
type CashoutWindowState struct {
	CashoutWindowActive bool       `json:"cashout_window_active"`
	CashoutWindowEnds   *time.Time `json:"cashout_window_ends,omitempty"`
}

// SessionSnapshot is the authoritative, server-produced state of one live
// table session. The client only reads it and re-derives display state;
// it never mutates a snapshot.
type SessionSnapshot struct {
	TableID            uuid.UUID          `json:"table_id"`
	PlayerID           uuid.UUID          `json:"player_id"`
	SessionStartedAt   *time.Time         `json:"session_started_at,omitempty"`
	PausedAt           *time.Time         `json:"paused_at,omitempty"`
	TotalPausedSeconds int64              `json:"total_paused_seconds"`
	ExitedAt           *time.Time         `json:"exited_at,omitempty"`
	Config             SessionConfig      `json:"config"`
	CallTime           CallTimeState      `json:"call_time"`
	CashoutWindow      CashoutWindowState `json:"cashout_window"`
}
