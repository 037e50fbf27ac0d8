package models

import (
	"time"

	"github.com/google/uuid"
)

// TournamentStatus defines the status of a tournament.
type TournamentStatus string

const (
	TournamentStatusScheduled TournamentStatus = "SCHEDULED"
	TournamentStatusRunning   TournamentStatus = "RUNNING"
	TournamentStatusPaused    TournamentStatus = "PAUSED"
	TournamentStatusFinished  TournamentStatus = "FINISHED"
)

// TournamentStructure holds the blind-structure configuration.
// BreakEveryNLevels = 0 disables breaks; LateRegistrationMinutes = 0
// disables late registration.
type TournamentStructure struct {
	MinutesPerLevel         int  `json:"minutes_per_level"`
	NumberOfLevels          int  `json:"number_of_levels"`
	BreakDurationMinutes    int  `json:"break_duration_minutes"`
	BreakEveryNLevels       int  `json:"break_every_n_levels"`
	LateRegistrationMinutes int  `json:"late_registration_minutes"`
	AllowRebuys             bool `json:"allow_rebuys"`
	AllowReentry            bool `json:"allow_reentry"`
	AllowAddon              bool `json:"allow_addon"`
}

// TournamentSnapshot is the authoritative, server-produced state of one
// tournament clock. Like SessionSnapshot it is read-only to the client.
type TournamentSnapshot struct {
	TournamentID       uuid.UUID           `json:"tournament_id"`
	SessionStartedAt   *time.Time          `json:"session_started_at,omitempty"`
	PausedAt           *time.Time          `json:"paused_at,omitempty"`
	TotalPausedSeconds int64               `json:"total_paused_seconds"`
	FinishedAt         *time.Time          `json:"finished_at,omitempty"`
	Status             TournamentStatus    `json:"status"`
	Structure          TournamentStructure `json:"structure"`

	// StructureUnavailable is set by the snapshot source when the server
	// payload carried no parseable structure and defaults were substituted.
	StructureUnavailable bool `json:"structure_unavailable,omitempty"`
}

// PlayerTournamentStatus is the per-player overlay for an active tournament.
// The nil override pointers fall back to the tournament structure.
type PlayerTournamentStatus struct {
	PlayerID     uuid.UUID  `json:"player_id"`
	IsExited     bool       `json:"is_exited"`
	ExitedAt     *time.Time `json:"exited_at,omitempty"`
	RebuyCount   int        `json:"rebuy_count"`
	AllowRebuys  *bool      `json:"allow_rebuys,omitempty"`
	AllowReentry *bool      `json:"allow_reentry,omitempty"`
}
