package usecase

import (
	"testing"

	"github.com/rocketscienceinc/tictactoe-matchserver/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-matchserver/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoomPool_AcquireRoom(t *testing.T) {
	t.Run("Creates rooms with sequential ids", func(t *testing.T) {
		pool := NewRoomPool()

		first := pool.AcquireRoom(1, 2)
		second := pool.AcquireRoom(3, 4)

		assert.Equal(t, 0, first.ID)
		assert.Equal(t, 1, second.ID)
		assert.Equal(t, 2, pool.Len())
		assert.Equal(t, 2, pool.InProgress())
	})

	t.Run("Reuses the first freed room", func(t *testing.T) {
		// Given: two rooms, the first one emptied by both players
		pool := NewRoomPool()
		first := pool.AcquireRoom(1, 2)
		pool.AcquireRoom(3, 4)
		_, err := first.ApplyMove(1, 0)
		require.NoError(t, err)

		_, _, err = pool.Leave(1)
		require.NoError(t, err)
		_, _, err = pool.Leave(2)
		require.NoError(t, err)

		// When: a new pair needs a room
		reused := pool.AcquireRoom(5, 6)

		// Then: the freed room is handed out again, reset
		assert.Same(t, first, reused)
		assert.Equal(t, 0, reused.ID)
		assert.Equal(t, 2, pool.Len())
		assert.Empty(t, reused.Replay())
		assert.True(t, reused.InProgress)
		assert.Equal(t, entity.MarkO, reused.MarkOf(5))
	})

	t.Run("Half empty room is not reused", func(t *testing.T) {
		pool := NewRoomPool()
		pool.AcquireRoom(1, 2)
		_, _, err := pool.Leave(1)
		require.NoError(t, err)

		room := pool.AcquireRoom(3, 4)

		assert.Equal(t, 1, room.ID)
	})
}

func TestRoomPool_FindRoomByParticipant(t *testing.T) {
	// Given: a room with an observer
	pool := NewRoomPool()
	room := pool.AcquireRoom(1, 2)
	require.NoError(t, pool.AddObserver(room, 3))

	// Then: players and observers resolve to the room
	for _, id := range []entity.ConnID{1, 2, 3} {
		found, ok := pool.FindRoomByParticipant(id)
		require.True(t, ok)
		assert.Same(t, room, found)
	}

	_, ok := pool.FindRoomByParticipant(4)
	assert.False(t, ok)

	// When: the observer leaves
	_, result, err := pool.Leave(3)
	require.NoError(t, err)

	// Then: it is no longer indexed
	assert.True(t, result.Observer)
	_, ok = pool.FindRoomByParticipant(3)
	assert.False(t, ok)
}

func TestRoomPool_AddObserver(t *testing.T) {
	pool := NewRoomPool()
	first := pool.AcquireRoom(1, 2)
	second := pool.AcquireRoom(3, 4)

	// Then: a participant of one room cannot watch another
	require.ErrorIs(t, pool.AddObserver(second, 1), apperror.ErrAlreadyInRoom)
	require.NoError(t, pool.AddObserver(first, 5))
	require.NoError(t, pool.AddObserver(first, 5))
	assert.Equal(t, []entity.ConnID{5}, first.Observers)
}

func TestRoomPool_Get(t *testing.T) {
	pool := NewRoomPool()
	room := pool.AcquireRoom(1, 2)

	found, err := pool.Get(0)
	require.NoError(t, err)
	assert.Same(t, room, found)

	_, err = pool.Get(1)
	require.ErrorIs(t, err, apperror.ErrRoomNotFound)

	_, err = pool.Get(-1)
	require.ErrorIs(t, err, apperror.ErrRoomNotFound)
}

func TestRoomPool_ListRooms(t *testing.T) {
	// Given: a running room with two observers and a room emptied by its players
	pool := NewRoomPool()
	running := pool.AcquireRoom(1, 2)
	require.NoError(t, pool.AddObserver(running, 7))
	require.NoError(t, pool.AddObserver(running, 8))
	pool.AcquireRoom(3, 4)
	_, _, err := pool.Leave(3)
	require.NoError(t, err)
	_, _, err = pool.Leave(4)
	require.NoError(t, err)

	// Then: every room is listed, whatever its state
	assert.Equal(t, []RoomSummary{
		{ID: 0, ObserverCount: 2},
		{ID: 1, ObserverCount: 0},
	}, pool.ListRooms())
}

func TestRoomPool_Leave(t *testing.T) {
	pool := NewRoomPool()

	_, _, err := pool.Leave(1)

	require.ErrorIs(t, err, apperror.ErrNotInRoom)
}
