package domain

import "errors"

// Domain errors. The transport layer maps these to stable error codes.
var (
	ErrRoomNotFound        = errors.New("room not found")
	ErrPlayerNotFound      = errors.New("player not found")
	ErrRoomFull            = errors.New("room is full")
	ErrDuplicateName       = errors.New("player name already taken in this room")
	ErrGameAlreadyStarted  = errors.New("game already started")
	ErrGameNotStarted      = errors.New("game not started")
	ErrInsufficientPlayers = errors.New("not enough players to start")
	ErrInvalidPhase        = errors.New("invalid action for current phase")
	ErrQuorumNotMet        = errors.New("phase quorum not met")
	ErrEmptyName           = errors.New("player name cannot be empty")
)
