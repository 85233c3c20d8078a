package ws

import (
	"encoding/json"
	"errors"

	"github.com/Zilecito18/impostor-game/internal/domain"
)

// MessageType represents the type of an inbound WebSocket message.
type MessageType string

// Client → Server message types.
const (
	MsgStartGame    MessageType = "start_game"
	MsgPlayerReady  MessageType = "player_ready"
	MsgSubmitAnswer MessageType = "submit_answer"
	MsgCastVote     MessageType = "cast_vote"
	MsgNextPhase    MessageType = "next_phase"
	MsgChatMessage  MessageType = "chat_message"
	MsgPing         MessageType = "ping"
)

// ClientMessage represents a message from client to server. Payloads stay
// raw until the handler for the message type decodes them.
type ClientMessage struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Client message payloads.

// PlayerReadyPayload is the payload for player_ready messages. Ready
// defaults to true when omitted.
type PlayerReadyPayload struct {
	Phase string `json:"phase"`
	Ready *bool  `json:"ready,omitempty"`
}

// SubmitAnswerPayload is the payload for submit_answer messages.
type SubmitAnswerPayload struct {
	QuestionID string `json:"question_id"`
	Answer     string `json:"answer"`
}

// CastVotePayload is the payload for cast_vote messages.
type CastVotePayload struct {
	TargetPlayerID string `json:"voted_player_id"`
}

// ChatPayload is the payload for chat_message messages.
type ChatPayload struct {
	Message string `json:"message"`
	Phase   string `json:"phase,omitempty"`
}

// ConnectedPayload is sent to a client right after the handshake, carrying
// the full state snapshot for synchronization.
type ConnectedPayload struct {
	PlayerID string               `json:"player_id"`
	RoomCode string               `json:"room_code"`
	Room     *domain.RoomSnapshot `json:"room"`
}

// Error codes surfaced to clients.
const (
	ErrCodeInvalidMessage      = "INVALID_MESSAGE"
	ErrCodeRoomNotFound        = "ROOM_NOT_FOUND"
	ErrCodePlayerNotFound      = "PLAYER_NOT_FOUND"
	ErrCodeRoomFull            = "ROOM_FULL"
	ErrCodeDuplicateName       = "DUPLICATE_NAME"
	ErrCodeGameAlreadyStarted  = "GAME_ALREADY_STARTED"
	ErrCodeGameNotStarted      = "GAME_NOT_STARTED"
	ErrCodeInsufficientPlayers = "INSUFFICIENT_PLAYERS"
	ErrCodeInvalidPhase        = "INVALID_PHASE"
	ErrCodeQuorumNotMet        = "QUORUM_NOT_MET"
	ErrCodeInternalError       = "INTERNAL_ERROR"
)

// errorCode maps a domain error to its stable client-facing code.
func errorCode(err error) string {
	switch {
	case errors.Is(err, domain.ErrRoomNotFound):
		return ErrCodeRoomNotFound
	case errors.Is(err, domain.ErrPlayerNotFound):
		return ErrCodePlayerNotFound
	case errors.Is(err, domain.ErrRoomFull):
		return ErrCodeRoomFull
	case errors.Is(err, domain.ErrDuplicateName):
		return ErrCodeDuplicateName
	case errors.Is(err, domain.ErrGameAlreadyStarted):
		return ErrCodeGameAlreadyStarted
	case errors.Is(err, domain.ErrGameNotStarted):
		return ErrCodeGameNotStarted
	case errors.Is(err, domain.ErrInsufficientPlayers):
		return ErrCodeInsufficientPlayers
	case errors.Is(err, domain.ErrInvalidPhase):
		return ErrCodeInvalidPhase
	case errors.Is(err, domain.ErrQuorumNotMet):
		return ErrCodeQuorumNotMet
	default:
		return ErrCodeInternalError
	}
}
