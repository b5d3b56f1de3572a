package server

// MessageType represents a WebSocket message type with type safety
type MessageType string

// WebSocket message type constants
// These are used for client-server communication protocol
const (
	// Client to server messages
	MessageTypeNewGame         MessageType = "new_game"
	MessageTypeReveal          MessageType = "reveal"
	MessageTypeFlag            MessageType = "flag"
	MessageTypeRestart         MessageType = "restart"
	MessageTypeSnapshotRequest MessageType = "snapshot_request"

	// Server to client messages
	MessageTypeSessionCreated MessageType = "session_created"
	MessageTypeBoardUpdate    MessageType = "board_update"
	MessageTypeGameOver       MessageType = "game_over"
	MessageTypeSnapshot       MessageType = "snapshot"
	MessageTypeStats          MessageType = "stats"
	MessageTypeError          MessageType = "error"
)

// String returns the string representation of the message type
func (mt MessageType) String() string {
	return string(mt)
}
