package room_api_client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

type playerActionRequest struct {
	PlayerID string `json:"player_id"`
}

func (c *RoomApiClient) postPlayerAction(ctx context.Context, endpoint string, playerID uuid.UUID) error {
	payload, err := json.Marshal(playerActionRequest{PlayerID: playerID.String()})
	if err != nil {
		return fmt.Errorf("failed to marshal action request: %w", err)
	}
	if _, err := c.Post(ctx, endpoint, bytes.NewReader(payload)); err != nil {
		return err
	}
	return nil
}

// StartCallTime requests the server to start the player's call-time notice
// period. The effect only shows up in a later snapshot.
func (c *RoomApiClient) StartCallTime(ctx context.Context, tableID, playerID uuid.UUID) error {
	if err := c.postPlayerAction(ctx, fmt.Sprintf(CallTimeEndpoint, tableID), playerID); err != nil {
		return fmt.Errorf("failed to start call time: %w", err)
	}
	return nil
}

// RequestCashOut asks the server to cash the player out of a table session.
func (c *RoomApiClient) RequestCashOut(ctx context.Context, tableID, playerID uuid.UUID) error {
	if err := c.postPlayerAction(ctx, fmt.Sprintf(CashOutEndpoint, tableID), playerID); err != nil {
		return fmt.Errorf("failed to request cash out: %w", err)
	}
	return nil
}

// RegisterTournament registers (or late-registers) a player.
func (c *RoomApiClient) RegisterTournament(ctx context.Context, tournamentID, playerID uuid.UUID) error {
	if err := c.postPlayerAction(ctx, fmt.Sprintf(RegisterEndpoint, tournamentID), playerID); err != nil {
		return fmt.Errorf("failed to register for tournament: %w", err)
	}
	return nil
}

// Rebuy requests a rebuy for an eliminated player.
func (c *RoomApiClient) Rebuy(ctx context.Context, tournamentID, playerID uuid.UUID) error {
	if err := c.postPlayerAction(ctx, fmt.Sprintf(RebuyEndpoint, tournamentID), playerID); err != nil {
		return fmt.Errorf("failed to rebuy: %w", err)
	}
	return nil
}

// Reentry requests a re-entry for an eliminated player.
func (c *RoomApiClient) Reentry(ctx context.Context, tournamentID, playerID uuid.UUID) error {
	if err := c.postPlayerAction(ctx, fmt.Sprintf(ReentryEndpoint, tournamentID), playerID); err != nil {
		return fmt.Errorf("failed to re-enter: %w", err)
	}
	return nil
}
