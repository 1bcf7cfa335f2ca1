package usecase

import (
	"fmt"

	"github.com/rocketscienceinc/tictactoe-matchserver/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-matchserver/internal/entity"
)

// RoomSummary is one line of the joinable games list.
type RoomSummary struct {
	ID            int
	ObserverCount int
}

// RoomPool owns every room ever created. Rooms are never destroyed, a room with both
// player slots empty is handed out again before a new one is created.
type RoomPool struct {
	rooms        []*entity.Room
	participants map[entity.ConnID]*entity.Room
}

func NewRoomPool() *RoomPool {
	return &RoomPool{
		participants: make(map[entity.ConnID]*entity.Room),
	}
}

// AcquireRoom seats idA as O and idB as X in the first available room, creating one if needed.
func (that *RoomPool) AcquireRoom(idA, idB entity.ConnID) *entity.Room {
	var room *entity.Room
	for _, candidate := range that.rooms {
		if candidate.IsAvailable() {
			room = candidate
			break
		}
	}

	if room == nil {
		room = entity.NewRoom(len(that.rooms))
		that.rooms = append(that.rooms, room)
	}

	room.Activate(idA, idB)
	that.participants[idA] = room
	that.participants[idB] = room

	return room
}

func (that *RoomPool) FindRoomByParticipant(id entity.ConnID) (*entity.Room, bool) {
	room, ok := that.participants[id]
	return room, ok
}

func (that *RoomPool) Get(roomID int) (*entity.Room, error) {
	if roomID < 0 || roomID >= len(that.rooms) {
		return nil, fmt.Errorf("%w: %d", apperror.ErrRoomNotFound, roomID)
	}

	return that.rooms[roomID], nil
}

// AddObserver attaches id to the room as a spectator.
func (that *RoomPool) AddObserver(room *entity.Room, id entity.ConnID) error {
	if current, ok := that.participants[id]; ok && current != room {
		return apperror.ErrAlreadyInRoom
	}

	room.AddObserver(id)
	that.participants[id] = room

	return nil
}

// Leave detaches id from its room and runs the forfeit logic.
func (that *RoomPool) Leave(id entity.ConnID) (*entity.Room, entity.LeaveResult, error) {
	room, ok := that.participants[id]
	if !ok {
		return nil, entity.LeaveResult{}, apperror.ErrNotInRoom
	}

	result, err := room.Leave(id)
	if err != nil {
		return nil, entity.LeaveResult{}, fmt.Errorf("failed to leave room %d: %w", room.ID, err)
	}

	delete(that.participants, id)

	return room, result, nil
}

// ListRooms returns every room in creation order, whatever its state.
func (that *RoomPool) ListRooms() []RoomSummary {
	summaries := make([]RoomSummary, 0, len(that.rooms))
	for _, room := range that.rooms {
		summaries = append(summaries, RoomSummary{
			ID:            room.ID,
			ObserverCount: len(room.Observers),
		})
	}

	return summaries
}

func (that *RoomPool) Len() int {
	return len(that.rooms)
}

// InProgress counts rooms with a running game.
func (that *RoomPool) InProgress() int {
	count := 0
	for _, room := range that.rooms {
		if room.InProgress {
			count++
		}
	}

	return count
}
