package dispatcher

import "github.com/rocketscienceinc/tictactoe-matchserver/internal/entity"

type EventKind int

const (
	EventConnected EventKind = iota + 1
	EventReceived
	EventDisconnected
)

func (that EventKind) String() string {
	switch that {
	case EventConnected:
		return "connected"
	case EventReceived:
		return "received"
	case EventDisconnected:
		return "disconnected"
	default:
		return "unknown"
	}
}

// Event is one transport notification. Payload is set for EventReceived only.
type Event struct {
	Kind    EventKind
	ConnID  entity.ConnID
	Payload string
}
