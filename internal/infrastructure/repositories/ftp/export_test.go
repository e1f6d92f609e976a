package ftp

// ServerConn exports serverConn for testing.
type ServerConn = serverConn

// NewConnectionForTest builds a Connection over a fake control session.
func NewConnectionForTest(conn ServerConn) *Connection {
	return newConnection(conn)
}

// ToRemoteEntry exports toRemoteEntry for testing.
var ToRemoteEntry = toRemoteEntry //nolint:gochecknoglobals // test export
