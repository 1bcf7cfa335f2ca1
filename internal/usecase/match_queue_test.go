package usecase

import (
	"testing"

	"github.com/rocketscienceinc/tictactoe-matchserver/internal/entity"
	"github.com/stretchr/testify/assert"
)

func TestMatchQueue_Enqueue(t *testing.T) {
	t.Run("Pairs the second requester with the first", func(t *testing.T) {
		queue := NewMatchQueue()

		// When: A, B and C enqueue in order
		first := queue.Enqueue(1)
		second := queue.Enqueue(2)
		third := queue.Enqueue(3)

		// Then: A waits, B is paired with A, C waits on the emptied slot
		assert.False(t, first.Paired)
		assert.Equal(t, QueueOutcome{Paired: true, Opponent: 1}, second)
		assert.False(t, third.Paired)

		waiting, ok := queue.Waiting()
		assert.True(t, ok)
		assert.Equal(t, entity.ConnID(3), waiting)
	})

	t.Run("Waiting connection enqueuing again keeps waiting", func(t *testing.T) {
		queue := NewMatchQueue()
		queue.Enqueue(1)

		outcome := queue.Enqueue(1)

		assert.False(t, outcome.Paired)
		waiting, _ := queue.Waiting()
		assert.Equal(t, entity.ConnID(1), waiting)
	})
}

func TestMatchQueue_Cancel(t *testing.T) {
	queue := NewMatchQueue()
	queue.Enqueue(1)

	// Then: only the waiting id can empty the slot
	assert.False(t, queue.Cancel(2))
	assert.True(t, queue.Cancel(1))
	assert.False(t, queue.Cancel(1))

	_, ok := queue.Waiting()
	assert.False(t, ok)
}
