// Package snapshots is the boundary between the room service's wire payloads
// and the canonical snapshot models. The room API historically serves both
// snake_case and camelCase field variants for the same concepts; everything
// is normalized here so the derivation engine never branches on naming.
package snapshots

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/mcdev12/felt/go/internal/models"
	"github.com/mcdev12/felt/go/internal/tourney"
)

// flexTime unmarshals RFC 3339 strings or unix second/millisecond numbers.
// Unparseable values normalize to "missing" rather than failing the payload;
// a snapshot without a start time renders as "not started", not as an error.
type flexTime struct {
	t *time.Time
}

func (f *flexTime) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil || s == "" {
			return nil
		}
		for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02 15:04:05"} {
			if t, err := time.Parse(layout, s); err == nil {
				f.t = &t
				return nil
			}
		}
		log.Warn().Str("value", s).Msg("unparseable timestamp in snapshot payload")
		return nil
	}

	n, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		return nil
	}
	var t time.Time
	if n > 1e12 { // millisecond epoch
		t = time.UnixMilli(n).UTC()
	} else {
		t = time.Unix(n, 0).UTC()
	}
	f.t = &t
	return nil
}

// firstTime returns the first present timestamp among field aliases.
func firstTime(fs ...flexTime) *time.Time {
	for _, f := range fs {
		if f.t != nil {
			return f.t
		}
	}
	return nil
}

func firstInt(vs ...*int64) int64 {
	for _, v := range vs {
		if v != nil {
			return *v
		}
	}
	return 0
}

func firstString(ss ...string) string {
	for _, s := range ss {
		if s != "" {
			return s
		}
	}
	return ""
}

func firstBool(bs ...*bool) bool {
	for _, b := range bs {
		if b != nil {
			return *b
		}
	}
	return false
}

type sessionConfigWire struct {
	MinPlayTimeMinutes       *int64 `json:"min_play_time_minutes"`
	MinPlayTimeMinutesC      *int64 `json:"minPlayTimeMinutes"`
	CallTimeDurationMinutes  *int64 `json:"call_time_duration_minutes"`
	CallTimeDurationMinutesC *int64 `json:"callTimeDurationMinutes"`
	CashoutWindowMinutes     *int64 `json:"cashout_window_minutes"`
	CashoutWindowMinutesC    *int64 `json:"cashoutWindowMinutes"`
}

type sessionWire struct {
	TableID  string `json:"table_id"`
	TableIDC string `json:"tableId"`

	PlayerID  string `json:"player_id"`
	PlayerIDC string `json:"playerId"`

	SessionStartedAt  flexTime `json:"session_started_at"`
	SessionStartedAtC flexTime `json:"sessionStartedAt"`

	PausedAt  flexTime `json:"paused_at"`
	PausedAtC flexTime `json:"pausedAt"`

	TotalPausedSeconds  *int64 `json:"total_paused_seconds"`
	TotalPausedSecondsC *int64 `json:"totalPausedSeconds"`

	ExitedAt  flexTime `json:"exited_at"`
	ExitedAtC flexTime `json:"exitedAt"`

	Config sessionConfigWire `json:"config"`

	CallTimeStarted  flexTime `json:"call_time_started"`
	CallTimeStartedC flexTime `json:"callTimeStarted"`

	CallTimeEnds  flexTime `json:"call_time_ends"`
	CallTimeEndsC flexTime `json:"callTimeEnds"`

	CashoutWindowActive  *bool `json:"cashout_window_active"`
	CashoutWindowActiveC *bool `json:"cashoutWindowActive"`

	CashoutWindowEnds  flexTime `json:"cashout_window_ends"`
	CashoutWindowEndsC flexTime `json:"cashoutWindowEnds"`
}

// NormalizeSession parses a session payload into the canonical snapshot.
func NormalizeSession(payload []byte) (models.SessionSnapshot, error) {
	var w sessionWire
	if err := json.Unmarshal(payload, &w); err != nil {
		return models.SessionSnapshot{}, err
	}

	snap := models.SessionSnapshot{
		SessionStartedAt:   firstTime(w.SessionStartedAt, w.SessionStartedAtC),
		PausedAt:           firstTime(w.PausedAt, w.PausedAtC),
		TotalPausedSeconds: firstInt(w.TotalPausedSeconds, w.TotalPausedSecondsC),
		ExitedAt:           firstTime(w.ExitedAt, w.ExitedAtC),
		Config: models.SessionConfig{
			MinPlayTimeMinutes:      int(firstInt(w.Config.MinPlayTimeMinutes, w.Config.MinPlayTimeMinutesC)),
			CallTimeDurationMinutes: int(firstInt(w.Config.CallTimeDurationMinutes, w.Config.CallTimeDurationMinutesC)),
			CashoutWindowMinutes:    int(firstInt(w.Config.CashoutWindowMinutes, w.Config.CashoutWindowMinutesC)),
		},
		CallTime: models.CallTimeState{
			CallTimeStarted: firstTime(w.CallTimeStarted, w.CallTimeStartedC),
			CallTimeEnds:    firstTime(w.CallTimeEnds, w.CallTimeEndsC),
		},
		CashoutWindow: models.CashoutWindowState{
			CashoutWindowActive: firstBool(w.CashoutWindowActive, w.CashoutWindowActiveC),
			CashoutWindowEnds:   firstTime(w.CashoutWindowEnds, w.CashoutWindowEndsC),
		},
	}
	if id, err := uuid.Parse(firstString(w.TableID, w.TableIDC)); err == nil {
		snap.TableID = id
	}
	if id, err := uuid.Parse(firstString(w.PlayerID, w.PlayerIDC)); err == nil {
		snap.PlayerID = id
	}

	if snap.TotalPausedSeconds < 0 {
		snap.TotalPausedSeconds = 0
	}
	return snap, nil
}

type structureWire struct {
	MinutesPerLevel  *int64 `json:"minutes_per_level"`
	MinutesPerLevelC *int64 `json:"minutesPerLevel"`

	NumberOfLevels  *int64 `json:"number_of_levels"`
	NumberOfLevelsC *int64 `json:"numberOfLevels"`

	BreakDurationMinutes  *int64 `json:"break_duration_minutes"`
	BreakDurationMinutesC *int64 `json:"breakDurationMinutes"`

	BreakEveryNLevels  *int64 `json:"break_every_n_levels"`
	BreakEveryNLevelsC *int64 `json:"breakEveryNLevels"`

	LateRegistrationMinutes  *int64 `json:"late_registration_minutes"`
	LateRegistrationMinutesC *int64 `json:"lateRegistrationMinutes"`

	AllowRebuys  *bool `json:"allow_rebuys"`
	AllowRebuysC *bool `json:"allowRebuys"`

	AllowReentry  *bool `json:"allow_reentry"`
	AllowReentryC *bool `json:"allowReentry"`

	AllowAddon  *bool `json:"allow_addon"`
	AllowAddonC *bool `json:"allowAddon"`
}

type tournamentWire struct {
	TournamentID  string `json:"tournament_id"`
	TournamentIDC string `json:"tournamentId"`

	SessionStartedAt  flexTime `json:"session_started_at"`
	SessionStartedAtC flexTime `json:"sessionStartedAt"`
	StartTime         flexTime `json:"start_time"`

	PausedAt  flexTime `json:"paused_at"`
	PausedAtC flexTime `json:"pausedAt"`

	TotalPausedSeconds  *int64 `json:"total_paused_seconds"`
	TotalPausedSecondsC *int64 `json:"totalPausedSeconds"`

	FinishedAt  flexTime `json:"finished_at"`
	FinishedAtC flexTime `json:"finishedAt"`

	Status string `json:"status"`

	Structure json.RawMessage `json:"structure"`
}

// NormalizeTournament parses a tournament payload into the canonical
// snapshot. A missing or unparseable structure substitutes the display
// defaults and marks the snapshot StructureUnavailable; the caller renders
// "structure unavailable" rather than asserting the defaults as real data.
func NormalizeTournament(payload []byte) (models.TournamentSnapshot, error) {
	var w tournamentWire
	if err := json.Unmarshal(payload, &w); err != nil {
		return models.TournamentSnapshot{}, err
	}

	snap := models.TournamentSnapshot{
		SessionStartedAt:   firstTime(w.SessionStartedAt, w.SessionStartedAtC, w.StartTime),
		PausedAt:           firstTime(w.PausedAt, w.PausedAtC),
		TotalPausedSeconds: firstInt(w.TotalPausedSeconds, w.TotalPausedSecondsC),
		FinishedAt:         firstTime(w.FinishedAt, w.FinishedAtC),
		Status:             normalizeStatus(w.Status),
	}
	if id, err := uuid.Parse(firstString(w.TournamentID, w.TournamentIDC)); err == nil {
		snap.TournamentID = id
	}
	if snap.TotalPausedSeconds < 0 {
		snap.TotalPausedSeconds = 0
	}

	snap.Structure, snap.StructureUnavailable = normalizeStructure(w.Structure)
	return snap, nil
}

func normalizeStructure(raw json.RawMessage) (models.TournamentStructure, bool) {
	if len(raw) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return tourney.DefaultStructure(), true
	}

	var w structureWire
	if err := json.Unmarshal(raw, &w); err != nil {
		log.Warn().Err(err).Msg("unparseable tournament structure - substituting defaults")
		return tourney.DefaultStructure(), true
	}
	if w.MinutesPerLevel == nil && w.MinutesPerLevelC == nil {
		// No recognizable structure fields at all.
		return tourney.DefaultStructure(), true
	}

	return models.TournamentStructure{
		MinutesPerLevel:         int(firstInt(w.MinutesPerLevel, w.MinutesPerLevelC)),
		NumberOfLevels:          int(firstInt(w.NumberOfLevels, w.NumberOfLevelsC)),
		BreakDurationMinutes:    int(firstInt(w.BreakDurationMinutes, w.BreakDurationMinutesC)),
		BreakEveryNLevels:       int(firstInt(w.BreakEveryNLevels, w.BreakEveryNLevelsC)),
		LateRegistrationMinutes: int(firstInt(w.LateRegistrationMinutes, w.LateRegistrationMinutesC)),
		AllowRebuys:             firstBool(w.AllowRebuys, w.AllowRebuysC),
		AllowReentry:            firstBool(w.AllowReentry, w.AllowReentryC),
		AllowAddon:              firstBool(w.AllowAddon, w.AllowAddonC),
	}, false
}

func normalizeStatus(s string) models.TournamentStatus {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "active", "running", "in_progress":
		return models.TournamentStatusRunning
	case "paused":
		return models.TournamentStatusPaused
	case "finished", "completed", "ended":
		return models.TournamentStatusFinished
	default:
		return models.TournamentStatusScheduled
	}
}

type playerStatusWire struct {
	PlayerID  string `json:"player_id"`
	PlayerIDC string `json:"playerId"`

	IsExited  *bool `json:"is_exited"`
	IsExitedC *bool `json:"isExited"`

	ExitedAt  flexTime `json:"exited_at"`
	ExitedAtC flexTime `json:"exitedAt"`

	RebuyCount  *int64 `json:"rebuy_count"`
	RebuyCountC *int64 `json:"rebuyCount"`

	AllowRebuys  *bool `json:"allow_rebuys"`
	AllowRebuysC *bool `json:"allowRebuys"`

	AllowReentry  *bool `json:"allow_reentry"`
	AllowReentryC *bool `json:"allowReentry"`
}

// NormalizePlayerStatus parses a per-player tournament status payload.
func NormalizePlayerStatus(payload []byte) (models.PlayerTournamentStatus, error) {
	var w playerStatusWire
	if err := json.Unmarshal(payload, &w); err != nil {
		return models.PlayerTournamentStatus{}, err
	}

	st := models.PlayerTournamentStatus{
		IsExited:   firstBool(w.IsExited, w.IsExitedC),
		ExitedAt:   firstTime(w.ExitedAt, w.ExitedAtC),
		RebuyCount: int(firstInt(w.RebuyCount, w.RebuyCountC)),
	}
	if id, err := uuid.Parse(firstString(w.PlayerID, w.PlayerIDC)); err == nil {
		st.PlayerID = id
	}
	if st.RebuyCount < 0 {
		st.RebuyCount = 0
	}
	if b := w.AllowRebuys; b != nil {
		st.AllowRebuys = b
	} else if b := w.AllowRebuysC; b != nil {
		st.AllowRebuys = b
	}
	if b := w.AllowReentry; b != nil {
		st.AllowReentry = b
	} else if b := w.AllowReentryC; b != nil {
		st.AllowReentry = b
	}
	return st, nil
}
