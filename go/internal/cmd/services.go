package main

import (
	"github.com/jonboulle/clockwork"

	"github.com/mcdev12/felt/go/clients/room_api_client"
	"github.com/mcdev12/felt/go/internal/actions"
	"github.com/mcdev12/felt/go/internal/gateway"
	"github.com/mcdev12/felt/go/internal/snapshots"
	"github.com/mcdev12/felt/go/internal/ticker"
)

type Services struct {
	ConnectionManager *gateway.ConnectionManager
	Gateway           *gateway.Service
	WebSocketHandler  *gateway.WebSocketHandler
	StateHandler      *gateway.StateHandler
	ActionHandler     *gateway.ActionHandler
}

func setupServices(config *Config) *Services {
	// Wiring chain: room API client → snapshot source → presenter → gateway.
	clock := clockwork.NewRealClock()

	roomClient := room_api_client.NewRoomApiClient(config.RoomAPI.BaseURL, getEnv("ROOM_API_KEY", ""))
	source := snapshots.NewSource(roomClient, clock, config.pollInterval())
	presenter := ticker.NewPresenter(clock, config.tickInterval())

	cm := gateway.NewConnectionManager(gateway.DefaultConnectionConfig())
	svc := gateway.NewService(cm, source, presenter)

	actionsApp := actions.NewApp(roomClient)

	return &Services{
		ConnectionManager: cm,
		Gateway:           svc,
		WebSocketHandler:  gateway.NewWebSocketHandler(cm, svc),
		StateHandler:      gateway.NewStateHandler(source, clock),
		ActionHandler:     gateway.NewActionHandler(actionsApp, svc),
	}
}
