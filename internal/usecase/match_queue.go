package usecase

import "github.com/rocketscienceinc/tictactoe-matchserver/internal/entity"

// QueueOutcome is the answer to an enqueue: either waiting, or paired with the connection that was waiting.
type QueueOutcome struct {
	Paired   bool
	Opponent entity.ConnID
}

// MatchQueue holds at most one waiting connection.
type MatchQueue struct {
	waiting entity.ConnID
}

func NewMatchQueue() *MatchQueue {
	return &MatchQueue{waiting: entity.NoConn}
}

func (that *MatchQueue) Enqueue(id entity.ConnID) QueueOutcome {
	if that.waiting == entity.NoConn || that.waiting == id {
		that.waiting = id
		return QueueOutcome{Opponent: entity.NoConn}
	}

	opponent := that.waiting
	that.waiting = entity.NoConn

	return QueueOutcome{Paired: true, Opponent: opponent}
}

// Cancel empties the slot if id is the one waiting.
func (that *MatchQueue) Cancel(id entity.ConnID) bool {
	if that.waiting == entity.NoConn || that.waiting != id {
		return false
	}

	that.waiting = entity.NoConn
	return true
}

func (that *MatchQueue) Waiting() (entity.ConnID, bool) {
	return that.waiting, that.waiting != entity.NoConn
}
