package dispatcher

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/rocketscienceinc/tictactoe-matchserver/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-matchserver/internal/entity"
	"github.com/rocketscienceinc/tictactoe-matchserver/internal/metrics"
	"github.com/rocketscienceinc/tictactoe-matchserver/internal/protocol"
	"github.com/rocketscienceinc/tictactoe-matchserver/internal/usecase"
)

const (
	defaultQueueSize    = 1024
	defaultStoreTimeout = 5 * time.Second
)

const (
	textLoginComplete   = "Successful Login"
	textAccountCreated  = "Account created"
	textStoreFailure    = "Account could not be saved"
	textInternalFailure = "request failed"
)

type uGame interface {
	CreateAccount(ctx context.Context, name, password string) error
	Login(id entity.ConnID, name, password string) error
	SessionName(id entity.ConnID) (string, bool)

	JoinQueue(id entity.ConnID) (*entity.Room, error)
	PlayMove(id entity.ConnID, cell int) (*entity.Room, *entity.MoveResult, error)
	LeaveRoom(id entity.ConnID) (*entity.Room, entity.LeaveResult, error)
	Room(id entity.ConnID) (*entity.Room, error)
	Replay(id entity.ConnID) (string, error)
	ListRooms() []usecase.RoomSummary
	Spectate(id entity.ConnID, roomID int) (*entity.Room, error)
	Disconnect(id entity.ConnID) (*entity.Room, entity.LeaveResult, error)

	Stats() usecase.Stats
}

type sender interface {
	Send(id entity.ConnID, msg string) error
}

type handlerFunc func(ctx context.Context, id entity.ConnID, msg *protocol.Message) error

// Options tunes the dispatcher, zero values fall back to defaults.
type Options struct {
	QueueSize    int
	StoreTimeout time.Duration
}

// Dispatcher is the single writer of the game state. Transport goroutines only enqueue
// events, Run applies them one at a time together with every resulting send.
type Dispatcher struct {
	logger  *slog.Logger
	game    uGame
	sender  sender
	metrics *metrics.Metrics

	storeTimeout time.Duration
	events       chan Event

	handlers map[protocol.ClientSignifier]handlerFunc
}

func New(logger *slog.Logger, game uGame, sender sender, m *metrics.Metrics, opts Options) *Dispatcher {
	if opts.QueueSize <= 0 {
		opts.QueueSize = defaultQueueSize
	}

	if opts.StoreTimeout <= 0 {
		opts.StoreTimeout = defaultStoreTimeout
	}

	dispatcher := &Dispatcher{
		logger:  logger.With("component", "dispatcher"),
		game:    game,
		sender:  sender,
		metrics: m,

		storeTimeout: opts.StoreTimeout,
		events:       make(chan Event, opts.QueueSize),
	}

	dispatcher.handlers = map[protocol.ClientSignifier]handlerFunc{
		protocol.CreateAccount: dispatcher.handleCreateAccount,
		protocol.Login:         dispatcher.handleLogin,
		protocol.JoinQueue:     dispatcher.handleJoinQueue,
		protocol.PlayMove:      dispatcher.handlePlayMove,
		protocol.LeaveRoom:     dispatcher.handleLeaveRoom,
		protocol.SendText:      dispatcher.handleTextMessage,
		protocol.RequestReplay: dispatcher.handleRequestReplay,
		protocol.GetServerList: dispatcher.handleGetServerList,
		protocol.SpectateGame:  dispatcher.handleSpectateGame,
	}

	return dispatcher
}

func (that *Dispatcher) Connected(ctx context.Context, id entity.ConnID) {
	that.enqueue(ctx, Event{Kind: EventConnected, ConnID: id})
}

func (that *Dispatcher) Received(ctx context.Context, id entity.ConnID, payload string) {
	that.enqueue(ctx, Event{Kind: EventReceived, ConnID: id, Payload: payload})
}

func (that *Dispatcher) Disconnected(ctx context.Context, id entity.ConnID) {
	that.enqueue(ctx, Event{Kind: EventDisconnected, ConnID: id})
}

func (that *Dispatcher) enqueue(ctx context.Context, event Event) {
	select {
	case that.events <- event:
	case <-ctx.Done():
		that.logger.Warn("event dropped on shutdown", "kind", event.Kind.String(), "connID", event.ConnID)
	}
}

// Run drains events until ctx is canceled.
func (that *Dispatcher) Run(ctx context.Context) {
	log := that.logger.With("method", "Run")
	log.Info("dispatcher started")

	for {
		select {
		case event := <-that.events:
			that.Handle(ctx, event)
		case <-ctx.Done():
			log.Info("dispatcher stopped")
			return
		}
	}
}

// Handle applies one event synchronously.
func (that *Dispatcher) Handle(ctx context.Context, event Event) {
	switch event.Kind {
	case EventConnected:
		that.metrics.Connections.Inc()
		that.logger.Debug("connection opened", "connID", event.ConnID)
	case EventReceived:
		that.handleMessage(ctx, event.ConnID, event.Payload)
	case EventDisconnected:
		that.metrics.Connections.Dec()
		that.handleDisconnect(event.ConnID)
	default:
		that.logger.Error("unknown event kind", "kind", int(event.Kind), "connID", event.ConnID)
	}

	that.syncMetrics()
}

func (that *Dispatcher) handleMessage(ctx context.Context, id entity.ConnID, payload string) {
	log := that.logger.With("method", "handleMessage", "connID", id)

	msg, err := protocol.Decode(payload)
	if err != nil {
		log.Warn("failed to decode message", "error", err)
		that.metrics.ProtocolErrors.Inc()
		that.send(id, protocol.NewRejected(0, rejectReason(err)))

		return
	}

	that.metrics.Messages.WithLabelValues(msg.Signifier.String()).Inc()

	handler, ok := that.handlers[msg.Signifier]
	if !ok {
		log.Error("no handler for signifier", "signifier", msg.Signifier.String())
		return
	}

	if err = handler(ctx, id, msg); err != nil {
		log.Info("request rejected", "signifier", msg.Signifier.String(), "error", err)

		if protocol.IsProtocolError(err) {
			that.metrics.ProtocolErrors.Inc()
		}

		that.metrics.Rejections.WithLabelValues(msg.Signifier.String()).Inc()
		that.send(id, protocol.NewRejected(msg.Signifier, rejectReason(err)))
	}
}

// handleDisconnect runs the leave logic for a closed connection so an open game is always forfeited.
func (that *Dispatcher) handleDisconnect(id entity.ConnID) {
	log := that.logger.With("method", "handleDisconnect", "connID", id)

	room, result, err := that.game.Disconnect(id)
	if err != nil {
		log.Error("failed to release connection", "error", err)
		return
	}

	if room != nil {
		that.broadcastLeave(room, result)
	}

	log.Debug("connection closed")
}

func (that *Dispatcher) send(id entity.ConnID, notification protocol.Notification) {
	if id == entity.NoConn {
		return
	}

	if err := that.sender.Send(id, notification.Encode()); err != nil {
		that.metrics.DroppedSends.Inc()
		that.logger.Warn("failed to send message", "connID", id, "signifier", int(notification.Signifier), "error", err)
	}
}

func (that *Dispatcher) sendAll(ids []entity.ConnID, notification protocol.Notification) {
	for _, id := range ids {
		that.send(id, notification)
	}
}

// broadcastGameStart tells each seat its mark, observers get MarkNone.
func (that *Dispatcher) broadcastGameStart(room *entity.Room) {
	that.send(room.PlayerA, protocol.NewGameStart(entity.MarkO))
	that.send(room.PlayerB, protocol.NewGameStart(entity.MarkX))
	that.sendAll(room.Observers, protocol.NewGameStart(entity.MarkNone))
}

// broadcastMove notifies the non-mover first, then the terminal outcome to each player and each observer.
func (that *Dispatcher) broadcastMove(room *entity.Room, result *entity.MoveResult) {
	played := protocol.NewOpponentPlayed(result.Cell, result.Mark, result.Outcome)
	that.send(result.Opponent, played)
	that.sendAll(room.Observers, played)

	if !result.Outcome.IsFinal() {
		return
	}

	that.metrics.GamesFinished.WithLabelValues(result.Outcome.String()).Inc()

	over := protocol.NewGameOver(result.Outcome)
	that.sendAll(room.Players(), over)
	that.sendAll(room.Observers, over)
}

func (that *Dispatcher) broadcastLeave(room *entity.Room, result entity.LeaveResult) {
	if !result.Forfeit {
		return
	}

	that.metrics.GamesFinished.WithLabelValues(result.Outcome.String()).Inc()

	over := protocol.NewGameOver(result.Outcome)
	that.send(result.Opponent, over)
	that.sendAll(room.Observers, over)
}

func (that *Dispatcher) syncMetrics() {
	stats := that.game.Stats()
	that.metrics.SetState(stats.Rooms, stats.RoomsInProgress, stats.Sessions, stats.Waiting)
}

var knownReasons = []error{
	protocol.ErrEmptyMessage,
	protocol.ErrUnknownSignifier,
	protocol.ErrMissingArgument,
	protocol.ErrInvalidArgument,
	apperror.ErrNameInUse,
	apperror.ErrNoSuchAccount,
	apperror.ErrWrongPassword,
	apperror.ErrInvalidAccountName,
	apperror.ErrInvalidPassword,
	apperror.ErrGameFinished,
	apperror.ErrNotYourTurn,
	apperror.ErrCellOccupied,
	apperror.ErrInvalidCell,
	apperror.ErrNotInRoom,
	apperror.ErrNotAPlayer,
	apperror.ErrAlreadyInRoom,
	apperror.ErrRoomNotFound,
}

// rejectReason keeps internal details out of client messages.
func rejectReason(err error) string {
	for _, known := range knownReasons {
		if errors.Is(err, known) {
			return known.Error()
		}
	}

	return textInternalFailure
}

func wrapHandlerError(signifier protocol.ClientSignifier, err error) error {
	return fmt.Errorf("failed to handle %s: %w", signifier, err)
}
