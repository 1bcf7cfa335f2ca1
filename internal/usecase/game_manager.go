package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/rocketscienceinc/tictactoe-matchserver/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-matchserver/internal/entity"
)

// GameManager owns all shared state of the server. It is not safe for concurrent use,
// callers serialize every call through a single worker.
type GameManager struct {
	logger *slog.Logger

	accounts *AccountDirectory
	queue    *MatchQueue
	rooms    *RoomPool

	sessions map[entity.ConnID]string
}

// Stats is a snapshot used for metrics.
type Stats struct {
	Rooms           int
	RoomsInProgress int
	Waiting         bool
	Sessions        int
}

func NewGameManager(logger *slog.Logger, accounts *AccountDirectory, queue *MatchQueue, rooms *RoomPool) *GameManager {
	return &GameManager{
		logger: logger.With("component", "game_manager"),

		accounts: accounts,
		queue:    queue,
		rooms:    rooms,
		sessions: make(map[entity.ConnID]string),
	}
}

func (that *GameManager) CreateAccount(ctx context.Context, name, password string) error {
	if err := that.accounts.CreateAccount(ctx, name, password); err != nil {
		return fmt.Errorf("failed to create account: %w", err)
	}

	that.logger.Info("account created", "name", name)

	return nil
}

// Login authenticates and binds the account name to the connection.
func (that *GameManager) Login(id entity.ConnID, name, password string) error {
	if err := that.accounts.Authenticate(name, password); err != nil {
		return fmt.Errorf("failed to authenticate %q: %w", name, err)
	}

	that.sessions[id] = name

	return nil
}

func (that *GameManager) SessionName(id entity.ConnID) (string, bool) {
	name, ok := that.sessions[id]
	return name, ok
}

// JoinQueue returns the started room when id completes a pair, nil while waiting.
func (that *GameManager) JoinQueue(id entity.ConnID) (*entity.Room, error) {
	if _, ok := that.rooms.FindRoomByParticipant(id); ok {
		return nil, apperror.ErrAlreadyInRoom
	}

	outcome := that.queue.Enqueue(id)
	if !outcome.Paired {
		return nil, nil
	}

	// the first enqueuer plays O
	room := that.rooms.AcquireRoom(outcome.Opponent, id)

	that.logger.Info("game started", "roomID", room.ID, "playerO", outcome.Opponent, "playerX", id)

	return room, nil
}

func (that *GameManager) PlayMove(id entity.ConnID, cell int) (*entity.Room, *entity.MoveResult, error) {
	room, err := that.Room(id)
	if err != nil {
		return nil, nil, err
	}

	result, err := room.ApplyMove(id, cell)
	if err != nil {
		return room, nil, fmt.Errorf("failed to apply move in room %d: %w", room.ID, err)
	}

	if result.Outcome.IsFinal() {
		that.logger.Info("game finished", "roomID", room.ID, "outcome", result.Outcome.String(), "replay", room.Replay())
	}

	return room, result, nil
}

func (that *GameManager) LeaveRoom(id entity.ConnID) (*entity.Room, entity.LeaveResult, error) {
	room, result, err := that.rooms.Leave(id)
	if err != nil {
		return nil, result, fmt.Errorf("failed to leave: %w", err)
	}

	if result.Forfeit {
		that.logger.Info("game forfeited", "roomID", room.ID, "connID", id, "outcome", result.Outcome.String())
	}

	return room, result, nil
}

// Room returns the room the connection takes part in.
func (that *GameManager) Room(id entity.ConnID) (*entity.Room, error) {
	room, ok := that.rooms.FindRoomByParticipant(id)
	if !ok {
		return nil, apperror.ErrNotInRoom
	}

	return room, nil
}

func (that *GameManager) Replay(id entity.ConnID) (string, error) {
	room, err := that.Room(id)
	if err != nil {
		return "", err
	}

	return room.Replay(), nil
}

func (that *GameManager) ListRooms() []RoomSummary {
	return that.rooms.ListRooms()
}

// Spectate attaches id to an existing room as an observer.
func (that *GameManager) Spectate(id entity.ConnID, roomID int) (*entity.Room, error) {
	if _, ok := that.rooms.FindRoomByParticipant(id); ok {
		return nil, apperror.ErrAlreadyInRoom
	}

	room, err := that.rooms.Get(roomID)
	if err != nil {
		return nil, fmt.Errorf("failed to find room: %w", err)
	}

	if err = that.rooms.AddObserver(room, id); err != nil {
		return nil, fmt.Errorf("failed to add observer: %w", err)
	}

	// a spectator no longer waits for a match
	that.queue.Cancel(id)

	return room, nil
}

// Disconnect forgets the connection everywhere. A returned room means a departure has to be broadcast.
func (that *GameManager) Disconnect(id entity.ConnID) (*entity.Room, entity.LeaveResult, error) {
	that.queue.Cancel(id)
	delete(that.sessions, id)

	room, result, err := that.LeaveRoom(id)
	if errors.Is(err, apperror.ErrNotInRoom) {
		return nil, result, nil
	}

	if err != nil {
		return nil, result, err
	}

	return room, result, nil
}

func (that *GameManager) Stats() Stats {
	_, waiting := that.queue.Waiting()

	return Stats{
		Rooms:           that.rooms.Len(),
		RoomsInProgress: that.rooms.InProgress(),
		Waiting:         waiting,
		Sessions:        len(that.sessions),
	}
}
