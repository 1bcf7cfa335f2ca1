package dispatcher

import (
	"context"
	"errors"

	"github.com/rocketscienceinc/tictactoe-matchserver/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-matchserver/internal/entity"
	"github.com/rocketscienceinc/tictactoe-matchserver/internal/protocol"
)

const (
	textWrongPassword = "Wrong Password"
	textNoAccount     = "No Account exists"
)

func (that *Dispatcher) handleCreateAccount(ctx context.Context, id entity.ConnID, msg *protocol.Message) error {
	log := that.logger.With("method", "handleCreateAccount", "connID", id)

	name, password := msg.Args[0], msg.Args[1]

	ctx, cancel := context.WithTimeout(ctx, that.storeTimeout)
	defer cancel()

	err := that.game.CreateAccount(ctx, name, password)
	switch {
	case err == nil:
		that.send(id, protocol.NewAccountCreationComplete(textAccountCreated))
	case errors.Is(err, apperror.ErrNameInUse),
		errors.Is(err, apperror.ErrInvalidAccountName),
		errors.Is(err, apperror.ErrInvalidPassword):
		that.metrics.Rejections.WithLabelValues(msg.Signifier.String()).Inc()
		that.send(id, protocol.NewAccountCreationFailed(rejectReason(err)))
	default:
		log.Error("failed to create account", "name", name, "error", err)
		that.metrics.Rejections.WithLabelValues(msg.Signifier.String()).Inc()
		that.send(id, protocol.NewAccountCreationFailed(textStoreFailure))
	}

	return nil
}

func (that *Dispatcher) handleLogin(_ context.Context, id entity.ConnID, msg *protocol.Message) error {
	name, password := msg.Args[0], msg.Args[1]

	err := that.game.Login(id, name, password)
	switch {
	case err == nil:
		that.send(id, protocol.NewLoginComplete(textLoginComplete))
		return nil
	case errors.Is(err, apperror.ErrWrongPassword):
		that.send(id, protocol.NewLoginFailed(textWrongPassword))
	case errors.Is(err, apperror.ErrNoSuchAccount):
		that.send(id, protocol.NewLoginFailed(textNoAccount))
	default:
		return wrapHandlerError(msg.Signifier, err)
	}

	that.metrics.Rejections.WithLabelValues(msg.Signifier.String()).Inc()

	return nil
}

func (that *Dispatcher) handleJoinQueue(_ context.Context, id entity.ConnID, msg *protocol.Message) error {
	room, err := that.game.JoinQueue(id)
	if err != nil {
		return wrapHandlerError(msg.Signifier, err)
	}

	// still waiting for an opponent
	if room == nil {
		return nil
	}

	that.broadcastGameStart(room)

	return nil
}

func (that *Dispatcher) handlePlayMove(_ context.Context, id entity.ConnID, msg *protocol.Message) error {
	cell, err := msg.IntArg(0)
	if err != nil {
		return err
	}

	room, result, err := that.game.PlayMove(id, cell)
	if err != nil {
		return wrapHandlerError(msg.Signifier, err)
	}

	that.broadcastMove(room, result)

	return nil
}

func (that *Dispatcher) handleLeaveRoom(_ context.Context, id entity.ConnID, msg *protocol.Message) error {
	room, result, err := that.game.LeaveRoom(id)
	if err != nil {
		return wrapHandlerError(msg.Signifier, err)
	}

	that.broadcastLeave(room, result)

	return nil
}

// handleTextMessage relays chat to everyone else in the sender's room.
func (that *Dispatcher) handleTextMessage(_ context.Context, id entity.ConnID, msg *protocol.Message) error {
	room, err := that.game.Room(id)
	if err != nil {
		return wrapHandlerError(msg.Signifier, err)
	}

	text := msg.Args[0]
	if name, ok := that.game.SessionName(id); ok {
		text = name + ": " + text
	}

	notification := protocol.NewTextMessage(text)
	for _, participant := range room.Participants() {
		if participant != id {
			that.send(participant, notification)
		}
	}

	return nil
}

func (that *Dispatcher) handleRequestReplay(_ context.Context, id entity.ConnID, msg *protocol.Message) error {
	replay, err := that.game.Replay(id)
	if err != nil {
		return wrapHandlerError(msg.Signifier, err)
	}

	that.send(id, protocol.NewReplayInformation(replay))

	return nil
}

func (that *Dispatcher) handleGetServerList(_ context.Context, id entity.ConnID, _ *protocol.Message) error {
	for _, summary := range that.game.ListRooms() {
		that.send(id, protocol.NewServerList(summary.ID, summary.ObserverCount))
	}

	return nil
}

// handleSpectateGame attaches the sender as an observer. Moves already played are fetched with a replay request.
func (that *Dispatcher) handleSpectateGame(_ context.Context, id entity.ConnID, msg *protocol.Message) error {
	roomID, err := msg.IntArg(0)
	if err != nil {
		return err
	}

	if _, err = that.game.Spectate(id, roomID); err != nil {
		return wrapHandlerError(msg.Signifier, err)
	}

	that.send(id, protocol.NewGameStart(entity.MarkNone))

	return nil
}
