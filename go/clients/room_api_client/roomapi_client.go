package room_api_client

import (
	"github.com/mcdev12/felt/go/clients"
)

// RoomApiClient talks to the poker-room service that owns all session and
// tournament state. The engine only reads snapshots and posts action
// requests; the room service is authoritative for every state transition.
type RoomApiClient struct {
	*clients.BaseClient
}

func NewRoomApiClient(baseURL, apiKey string) *RoomApiClient {
	client := &RoomApiClient{
		BaseClient: clients.NewBaseClient(baseURL),
	}

	if apiKey != "" {
		client.SetHeader(APIKeyHeader, apiKey)
	}
	client.SetHeader("Content-Type", "application/json")

	return client
}
