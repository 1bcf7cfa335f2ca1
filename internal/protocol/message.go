package protocol

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/rocketscienceinc/tictactoe-matchserver/internal/entity"
)

const fieldSeparator = ","

var (
	ErrEmptyMessage     = errors.New("empty message")
	ErrUnknownSignifier = errors.New("unknown signifier")
	ErrMissingArgument  = errors.New("missing argument")
	ErrInvalidArgument  = errors.New("invalid argument")
)

// Message is a decoded inbound message.
type Message struct {
	Signifier ClientSignifier
	Args      []string
}

// Decode parses "signifier,arg1,...". The last argument keeps any commas it contains.
func Decode(raw string) (*Message, error) {
	raw = strings.TrimRight(raw, "\r\n")
	if raw == "" {
		return nil, ErrEmptyMessage
	}

	head, rest, hasRest := strings.Cut(raw, fieldSeparator)

	code, err := strconv.Atoi(strings.TrimSpace(head))
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSignifier, head)
	}

	signifier := ClientSignifier(code)
	count, ok := arity[signifier]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownSignifier, code)
	}

	msg := &Message{Signifier: signifier}
	if count == 0 {
		return msg, nil
	}

	if !hasRest {
		return nil, fmt.Errorf("%w: %s expects %d, got 0", ErrMissingArgument, signifier, count)
	}

	msg.Args = strings.SplitN(rest, fieldSeparator, count)
	if len(msg.Args) < count {
		return nil, fmt.Errorf("%w: %s expects %d, got %d", ErrMissingArgument, signifier, count, len(msg.Args))
	}

	return msg, nil
}

// Arg returns the i-th argument.
func (that *Message) Arg(i int) (string, error) {
	if i < 0 || i >= len(that.Args) {
		return "", fmt.Errorf("%w: %s argument %d", ErrMissingArgument, that.Signifier, i)
	}

	return that.Args[i], nil
}

// IntArg returns the i-th argument as an integer.
func (that *Message) IntArg(i int) (int, error) {
	arg, err := that.Arg(i)
	if err != nil {
		return 0, err
	}

	value, err := strconv.Atoi(strings.TrimSpace(arg))
	if err != nil {
		return 0, fmt.Errorf("%w: %s argument %d is not an integer: %q", ErrInvalidArgument, that.Signifier, i, arg)
	}

	return value, nil
}

// IsProtocolError reports whether err comes from decoding.
func IsProtocolError(err error) bool {
	return errors.Is(err, ErrEmptyMessage) ||
		errors.Is(err, ErrUnknownSignifier) ||
		errors.Is(err, ErrMissingArgument) ||
		errors.Is(err, ErrInvalidArgument)
}

// Notification is an outbound message.
type Notification struct {
	Signifier ServerSignifier
	Fields    []string
}

// Encode renders the notification as "signifier,field1,...".
func (that Notification) Encode() string {
	parts := make([]string, 0, len(that.Fields)+1)
	parts = append(parts, strconv.Itoa(int(that.Signifier)))
	parts = append(parts, that.Fields...)

	return strings.Join(parts, fieldSeparator)
}

func (that Notification) String() string {
	return that.Encode()
}

func notify(signifier ServerSignifier, fields ...string) Notification {
	return Notification{Signifier: signifier, Fields: fields}
}

func NewLoginComplete(text string) Notification {
	return notify(LoginComplete, text)
}

func NewLoginFailed(text string) Notification {
	return notify(LoginFailed, text)
}

func NewAccountCreationComplete(text string) Notification {
	return notify(AccountCreationComplete, text)
}

func NewAccountCreationFailed(text string) Notification {
	return notify(AccountCreationFailed, text)
}

func NewOpponentPlayed(cell int, mark entity.Mark, outcome entity.Outcome) Notification {
	return notify(OpponentPlayed, strconv.Itoa(cell), strconv.Itoa(int(mark)), strconv.Itoa(int(outcome)))
}

func NewGameStart(mark entity.Mark) Notification {
	return notify(GameStart, strconv.Itoa(int(mark)))
}

func NewGameOver(outcome entity.Outcome) Notification {
	return notify(GameOver, strconv.Itoa(int(outcome)))
}

func NewTextMessage(text string) Notification {
	return notify(TextMessage, text)
}

func NewReplayInformation(replay string) Notification {
	return notify(ReplayInformation, replay)
}

func NewServerList(roomID, observerCount int) Notification {
	return notify(ServerList, strconv.Itoa(roomID), strconv.Itoa(observerCount))
}

func NewRejected(signifier ClientSignifier, reason string) Notification {
	return notify(Rejected, strconv.Itoa(int(signifier)), reason)
}
