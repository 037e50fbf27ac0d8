// Package actions forwards player-initiated requests to the room service.
// Every action is fire-and-forget from the engine's perspective: the result
// is surfaced to the caller as a notification, and the display only changes
// once a later snapshot reflects the server's decision. Until then the
// engine keeps showing pre-action state; that staleness window is expected,
// not an error.
package actions

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// RoomActions defines what the app layer needs from the room API client.
type RoomActions interface {
	StartCallTime(ctx context.Context, tableID, playerID uuid.UUID) error
	RequestCashOut(ctx context.Context, tableID, playerID uuid.UUID) error
	RegisterTournament(ctx context.Context, tournamentID, playerID uuid.UUID) error
	Rebuy(ctx context.Context, tournamentID, playerID uuid.UUID) error
	Reentry(ctx context.Context, tournamentID, playerID uuid.UUID) error
}

// App handles action request forwarding.
type App struct {
	client RoomActions
}

// NewApp creates a new actions App.
func NewApp(client RoomActions) *App {
	return &App{client: client}
}

// StartCallTime asks the server to begin the player's call-time period.
func (a *App) StartCallTime(ctx context.Context, tableID, playerID uuid.UUID) error {
	log.Info().
		Str("table_id", tableID.String()).
		Str("player_id", playerID.String()).
		Msg("requesting call time start")
	if err := a.client.StartCallTime(ctx, tableID, playerID); err != nil {
		return fmt.Errorf("start call time: %w", err)
	}
	return nil
}

// RequestCashOut asks the server to cash the player out.
func (a *App) RequestCashOut(ctx context.Context, tableID, playerID uuid.UUID) error {
	log.Info().
		Str("table_id", tableID.String()).
		Str("player_id", playerID.String()).
		Msg("requesting cash out")
	if err := a.client.RequestCashOut(ctx, tableID, playerID); err != nil {
		return fmt.Errorf("request cash out: %w", err)
	}
	return nil
}

// Register registers or late-registers the player for a tournament.
func (a *App) Register(ctx context.Context, tournamentID, playerID uuid.UUID) error {
	log.Info().
		Str("tournament_id", tournamentID.String()).
		Str("player_id", playerID.String()).
		Msg("requesting tournament registration")
	if err := a.client.RegisterTournament(ctx, tournamentID, playerID); err != nil {
		return fmt.Errorf("register: %w", err)
	}
	return nil
}

// Rebuy requests a rebuy for an eliminated player. The local rebuy count is
// never bumped here; it changes only when a fresh snapshot reports it.
func (a *App) Rebuy(ctx context.Context, tournamentID, playerID uuid.UUID) error {
	log.Info().
		Str("tournament_id", tournamentID.String()).
		Str("player_id", playerID.String()).
		Msg("requesting rebuy")
	if err := a.client.Rebuy(ctx, tournamentID, playerID); err != nil {
		return fmt.Errorf("rebuy: %w", err)
	}
	return nil
}

// Reentry requests a re-entry for an eliminated player.
func (a *App) Reentry(ctx context.Context, tournamentID, playerID uuid.UUID) error {
	log.Info().
		Str("tournament_id", tournamentID.String()).
		Str("player_id", playerID.String()).
		Msg("requesting re-entry")
	if err := a.client.Reentry(ctx, tournamentID, playerID); err != nil {
		return fmt.Errorf("reentry: %w", err)
	}
	return nil
}
