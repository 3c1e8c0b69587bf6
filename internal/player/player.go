package player

// Connection is an interface that abstracts the websocket connection.
type Connection interface {
	WriteMessage(messageType int, data []byte) error
	ReadMessage() (int, []byte, error)
	Close() error
}

// Player is the human on the other end of a websocket, bound to one session.
type Player struct {
	SessionID string
	Conn      Connection
}

// NewPlayer creates a player for the given session.
func NewPlayer(sessionID string, conn Connection) *Player {
	return &Player{SessionID: sessionID, Conn: conn}
}
