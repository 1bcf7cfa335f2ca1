package entity

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/rocketscienceinc/tictactoe-matchserver/internal/apperror"
)

const (
	BoardSize = 9

	replayMoveSeparator = ";"
	replayFieldSep      = "."
)

var WinCombos = [][3]int{
	{0, 1, 2},
	{3, 4, 5},
	{6, 7, 8},
	{0, 3, 6},
	{1, 4, 7},
	{2, 5, 8},
	{0, 4, 8},
	{2, 4, 6},
}

// Room is one slot of the room pool. PlayerA always plays O and PlayerB always plays X.
type Room struct {
	ID         int
	PlayerA    ConnID
	PlayerB    ConnID
	Board      [BoardSize]Mark
	Turn       Mark
	Observers  []ConnID
	InProgress bool

	replay string
}

// MoveResult describes an applied move.
type MoveResult struct {
	Mover    ConnID
	Opponent ConnID
	Cell     int
	Mark     Mark
	Outcome  Outcome
}

// LeaveResult describes what a departure did to the room.
type LeaveResult struct {
	Observer bool
	Forfeit  bool
	Outcome  Outcome
	Opponent ConnID
}

func NewRoom(id int) *Room {
	return &Room{
		ID:      id,
		PlayerA: NoConn,
		PlayerB: NoConn,
	}
}

// IsAvailable reports whether both player slots are empty.
func (that *Room) IsAvailable() bool {
	return that.PlayerA == NoConn && that.PlayerB == NoConn
}

// Activate seats two players and starts a fresh game.
func (that *Room) Activate(playerA, playerB ConnID) {
	that.PlayerA = playerA
	that.PlayerB = playerB
	that.ResetBoard()
	that.Turn = MarkO
	that.InProgress = true
}

func (that *Room) ResetBoard() {
	that.Board = [BoardSize]Mark{}
	that.replay = ""
}

func (that *Room) MarkOf(id ConnID) Mark {
	switch {
	case id == NoConn:
		return MarkNone
	case id == that.PlayerA:
		return MarkO
	case id == that.PlayerB:
		return MarkX
	default:
		return MarkNone
	}
}

func (that *Room) IsPlayer(id ConnID) bool {
	return that.MarkOf(id) != MarkNone
}

func (that *Room) IsObserver(id ConnID) bool {
	return slices.Contains(that.Observers, id)
}

// Has reports whether the connection is a player or an observer of the room.
func (that *Room) Has(id ConnID) bool {
	return that.IsPlayer(id) || that.IsObserver(id)
}

// Opponent returns the other player slot, NoConn when id is not a player.
func (that *Room) Opponent(id ConnID) ConnID {
	switch that.MarkOf(id) {
	case MarkO:
		return that.PlayerB
	case MarkX:
		return that.PlayerA
	default:
		return NoConn
	}
}

// Players returns the occupied player slots, A first.
func (that *Room) Players() []ConnID {
	players := make([]ConnID, 0, 2)
	for _, id := range []ConnID{that.PlayerA, that.PlayerB} {
		if id != NoConn {
			players = append(players, id)
		}
	}

	return players
}

// Participants returns players then observers in their stored order.
func (that *Room) Participants() []ConnID {
	return append(that.Players(), that.Observers...)
}

// AddObserver appends the connection unless it is already watching.
func (that *Room) AddObserver(id ConnID) bool {
	if that.IsObserver(id) {
		return false
	}

	that.Observers = append(that.Observers, id)
	return true
}

func (that *Room) removeObserver(id ConnID) {
	that.Observers = slices.DeleteFunc(that.Observers, func(observer ConnID) bool {
		return observer == id
	})
}

// ApplyMove places the mover's mark, records it in the replay and evaluates the board.
func (that *Room) ApplyMove(id ConnID, cell int) (*MoveResult, error) {
	mark := that.MarkOf(id)
	if mark == MarkNone {
		return nil, apperror.ErrNotAPlayer
	}

	if !that.InProgress {
		return nil, apperror.ErrGameFinished
	}

	if cell < 0 || cell >= len(that.Board) {
		return nil, fmt.Errorf("%w: cell %d", apperror.ErrInvalidCell, cell)
	}

	if that.Turn != mark {
		return nil, apperror.ErrNotYourTurn
	}

	if that.Board[cell] != MarkNone {
		return nil, apperror.ErrCellOccupied
	}

	that.Board[cell] = mark
	that.replay += strconv.Itoa(cell) + replayFieldSep + mark.String()

	result := &MoveResult{
		Mover:    id,
		Opponent: that.Opponent(id),
		Cell:     cell,
		Mark:     mark,
	}

	switch {
	case that.CheckWin():
		result.Outcome = WinOutcome(mark)
		that.finish()
	case that.CheckTie():
		result.Outcome = OutcomeTie
		that.finish()
	default:
		// the terminal move is the last one recorded, so only open games get a separator
		that.replay += replayMoveSeparator
		that.Turn = mark.Opponent()
		result.Outcome = OutcomeContinuePlay
	}

	return result, nil
}

func (that *Room) finish() {
	that.InProgress = false
	that.Turn = MarkNone
}

// Winner returns the mark owning a completed line, MarkNone if there is none.
func (that *Room) Winner() Mark {
	for _, combo := range WinCombos {
		a, b, c := that.Board[combo[0]], that.Board[combo[1]], that.Board[combo[2]]
		if a != MarkNone && a == b && b == c {
			return a
		}
	}

	return MarkNone
}

func (that *Room) CheckWin() bool {
	return that.Winner() != MarkNone
}

// CheckTie is true for a full board without a completed line.
func (that *Room) CheckTie() bool {
	if that.CheckWin() {
		return false
	}

	for _, cell := range that.Board {
		if cell == MarkNone {
			return false
		}
	}

	return true
}

// Leave detaches the connection. A player leaving an open game forfeits it to the other player.
func (that *Room) Leave(id ConnID) (LeaveResult, error) {
	if that.IsObserver(id) {
		that.removeObserver(id)
		return LeaveResult{Observer: true, Opponent: NoConn}, nil
	}

	mark := that.MarkOf(id)
	if mark == MarkNone {
		return LeaveResult{}, apperror.ErrNotInRoom
	}

	result := LeaveResult{Opponent: that.Opponent(id)}

	if that.InProgress {
		result.Forfeit = true
		result.Outcome = WinOutcome(mark.Opponent())
		that.finish()

		// no terminal move was recorded, drop the dangling separator
		that.replay = strings.TrimSuffix(that.replay, replayMoveSeparator)
	}

	if mark == MarkO {
		that.PlayerA = NoConn
	} else {
		that.PlayerB = NoConn
	}

	return result, nil
}

// Replay returns the recorded moves, e.g. "0.O;4.X;1.O".
func (that *Room) Replay() string {
	return that.replay
}
