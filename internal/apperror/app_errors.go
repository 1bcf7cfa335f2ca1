package apperror

import "errors"

// accounts
var (
	ErrNameInUse          = errors.New("account name is already in use")
	ErrNoSuchAccount      = errors.New("no account exists")
	ErrWrongPassword      = errors.New("wrong password")
	ErrInvalidAccountName = errors.New("invalid account name")
	ErrInvalidPassword    = errors.New("invalid password")
)

// rooms and moves
var (
	ErrGameFinished  = errors.New("game is already finished")
	ErrNotYourTurn   = errors.New("it's not your turn")
	ErrCellOccupied  = errors.New("cell is already occupied")
	ErrInvalidCell   = errors.New("invalid cell index")
	ErrNotInRoom     = errors.New("connection is not in a room")
	ErrNotAPlayer    = errors.New("connection is not a player of the room")
	ErrAlreadyInRoom = errors.New("connection is already in a room")
	ErrRoomNotFound  = errors.New("room not found")
)
