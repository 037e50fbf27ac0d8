package room_api_client

const (
	// API Endpoints
	SessionSnapshotEndpoint    = "/v1/tables/%s/sessions/current"
	TournamentSnapshotEndpoint = "/v1/tournaments/%s/clock"
	PlayerStatusEndpoint       = "/v1/tournaments/%s/players/%s/status"

	CallTimeEndpoint = "/v1/tables/%s/call-time"
	CashOutEndpoint  = "/v1/tables/%s/cash-out"
	RegisterEndpoint = "/v1/tournaments/%s/register"
	RebuyEndpoint    = "/v1/tournaments/%s/rebuy"
	ReentryEndpoint  = "/v1/tournaments/%s/reentry"

	// Headers
	APIKeyHeader = "X-Room-API-Key"
)
