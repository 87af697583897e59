package realtime

// State is the connection state of a room subscription. Exactly one
// value is active per subscription at any time.
type State int

const (
	// StateDisconnected means no connection exists and none is wanted.
	StateDisconnected State = iota

	// StateConnecting means the first handshake for a room is in flight.
	StateConnecting

	// StateConnected means the connection is established and joined.
	StateConnected

	// StateReconnecting means the connection dropped and redial attempts
	// are running under the backoff policy.
	StateReconnecting

	// StateError means the attempt ceiling was exceeded. The subscription
	// stays down until a room is supplied again.
	StateError
)

func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	case StateReconnecting:
		return "reconnecting"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}
