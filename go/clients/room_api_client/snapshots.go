package room_api_client

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// FetchSessionSnapshot returns the raw current-session payload for a table.
// Normalization of the wire shape happens in the snapshots package.
func (c *RoomApiClient) FetchSessionSnapshot(ctx context.Context, tableID uuid.UUID) ([]byte, error) {
	endpoint := fmt.Sprintf(SessionSnapshotEndpoint, tableID)
	body, err := c.Get(ctx, endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch session snapshot: %w", err)
	}
	return body, nil
}

// FetchTournamentSnapshot returns the raw tournament clock payload.
func (c *RoomApiClient) FetchTournamentSnapshot(ctx context.Context, tournamentID uuid.UUID) ([]byte, error) {
	endpoint := fmt.Sprintf(TournamentSnapshotEndpoint, tournamentID)
	body, err := c.Get(ctx, endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch tournament snapshot: %w", err)
	}
	return body, nil
}

// FetchPlayerStatus returns the raw per-player tournament status payload.
func (c *RoomApiClient) FetchPlayerStatus(ctx context.Context, tournamentID, playerID uuid.UUID) ([]byte, error) {
	endpoint := fmt.Sprintf(PlayerStatusEndpoint, tournamentID, playerID)
	body, err := c.Get(ctx, endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch player status: %w", err)
	}
	return body, nil
}
