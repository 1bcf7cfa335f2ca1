package entity

import "strconv"

// ConnID is the transport handle of an open connection.
type ConnID int

// NoConn marks an empty player slot or an empty waiting slot.
const NoConn ConnID = -1

func (that ConnID) String() string {
	return strconv.Itoa(int(that))
}

// Mark is the content of a board cell and the team a participant plays for.
type Mark int

const (
	MarkNone Mark = iota
	MarkO
	MarkX
)

func (that Mark) String() string {
	switch that {
	case MarkO:
		return "O"
	case MarkX:
		return "X"
	default:
		return ""
	}
}

// Opponent returns the other playing mark, MarkNone stays MarkNone.
func (that Mark) Opponent() Mark {
	switch that {
	case MarkO:
		return MarkX
	case MarkX:
		return MarkO
	default:
		return MarkNone
	}
}

func (that Mark) IsValid() bool {
	return that >= MarkNone && that <= MarkX
}

// Outcome is the state of a game after a move or a forfeit.
type Outcome int

const (
	OutcomeContinuePlay Outcome = iota + 1
	OutcomeOWins
	OutcomeXWins
	OutcomeTie
)

func (that Outcome) String() string {
	switch that {
	case OutcomeContinuePlay:
		return "continue"
	case OutcomeOWins:
		return "o_wins"
	case OutcomeXWins:
		return "x_wins"
	case OutcomeTie:
		return "tie"
	default:
		return "unknown"
	}
}

func (that Outcome) IsFinal() bool {
	return that == OutcomeOWins || that == OutcomeXWins || that == OutcomeTie
}

// WinOutcome maps the winning mark to its outcome.
func WinOutcome(winner Mark) Outcome {
	switch winner {
	case MarkO:
		return OutcomeOWins
	case MarkX:
		return OutcomeXWins
	default:
		return OutcomeTie
	}
}
