package protocol

// ClientSignifier selects the operation of an inbound message.
type ClientSignifier int

const (
	CreateAccount ClientSignifier = iota + 1
	Login
	JoinQueue
	PlayMove
	LeaveRoom
	SendText
	RequestReplay
	GetServerList
	SpectateGame
)

// arity is the number of fields following the signifier.
var arity = map[ClientSignifier]int{
	CreateAccount: 2,
	Login:         2,
	JoinQueue:     0,
	PlayMove:      1,
	LeaveRoom:     0,
	SendText:      1,
	RequestReplay: 0,
	GetServerList: 0,
	SpectateGame:  1,
}

func (that ClientSignifier) String() string {
	switch that {
	case CreateAccount:
		return "create_account"
	case Login:
		return "login"
	case JoinQueue:
		return "join_queue"
	case PlayMove:
		return "play_move"
	case LeaveRoom:
		return "leave_room"
	case SendText:
		return "text_message"
	case RequestReplay:
		return "request_replay"
	case GetServerList:
		return "get_server_list"
	case SpectateGame:
		return "spectate_game"
	default:
		return "unknown"
	}
}

func (that ClientSignifier) IsValid() bool {
	_, ok := arity[that]
	return ok
}

// ServerSignifier tags an outbound notification.
type ServerSignifier int

const (
	LoginComplete ServerSignifier = iota + 1
	LoginFailed
	AccountCreationComplete
	AccountCreationFailed
	OpponentPlayed
	GameStart
	GameOver
	TextMessage
	ReplayInformation
	ServerList
	Rejected
)
