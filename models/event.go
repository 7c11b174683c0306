package models

const (
	EventClientCreated = "client_created"
	EventClientUpdated = "client_updated"
	EventClientDeleted = "client_deleted"
)

// ClientEvent is published on every mutation. Deleted events carry only
// Data.ID.
type ClientEvent struct {
	Event string `json:"event"`
	Data  Client `json:"data"`
}
