package domain

import "time"

// EventType tags an outbound broadcast event.
type EventType string

const (
	EventConnected         EventType = "connected"
	EventPlayerJoined      EventType = "player_joined"
	EventPlayerLeft        EventType = "player_left"
	EventGameStarted       EventType = "game_started"
	EventPlayerReadyUpdate EventType = "player_ready_update"
	EventAllPlayersReady   EventType = "all_players_ready"
	EventAnswerSubmitted   EventType = "answer_submitted"
	EventVoteCast          EventType = "vote_cast"
	EventVotingComplete    EventType = "voting_complete"
	EventPhaseChanged      EventType = "phase_changed"
	EventGameOver          EventType = "game_over"
	EventChatMessage       EventType = "chat_message"
	EventError             EventType = "error"
	EventPong              EventType = "pong"
)

// Event is delivered to every subscriber of a room. Payloads carry the
// full room snapshot; consumers treat each event as a full-state refresh,
// not a diff.
type Event struct {
	Type      EventType   `json:"type"`
	RoomCode  string      `json:"room_code,omitempty"`
	Payload   interface{} `json:"payload,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// NewEvent creates a new event with the current timestamp.
func NewEvent(eventType EventType, roomCode string, payload interface{}) *Event {
	return &Event{
		Type:      eventType,
		RoomCode:  roomCode,
		Payload:   payload,
		Timestamp: time.Now(),
	}
}

// Payload types for broadcast events.

// RoomUpdatePayload is sent when the roster changes.
type RoomUpdatePayload struct {
	PlayerID string        `json:"player_id,omitempty"`
	Room     *RoomSnapshot `json:"room"`
}

// ReadyUpdatePayload is sent when a player toggles readiness for a phase.
type ReadyUpdatePayload struct {
	PlayerID   string        `json:"player_id"`
	Phase      Phase         `json:"phase"`
	Ready      bool          `json:"ready"`
	ReadyCount int           `json:"ready_count"`
	AliveCount int           `json:"alive_count"`
	Room       *RoomSnapshot `json:"room"`
}

// AllReadyPayload is sent when a phase's readiness quorum is reached.
type AllReadyPayload struct {
	Phase Phase         `json:"phase"`
	Room  *RoomSnapshot `json:"room"`
}

// AnswerSubmittedPayload is sent when a player submits an answer.
type AnswerSubmittedPayload struct {
	PlayerID           string        `json:"player_id"`
	QuestionID         string        `json:"question_id"`
	AllAnswersReceived bool          `json:"all_answers_received"`
	Room               *RoomSnapshot `json:"room"`
}

// VoteCastPayload is sent when a vote is recorded.
type VoteCastPayload struct {
	VoterID          string            `json:"voter_id"`
	TargetID         string            `json:"voted_player_id"`
	CurrentVotes     map[string]string `json:"current_votes"`
	AllVotesReceived bool              `json:"all_votes_received"`
	Room             *RoomSnapshot     `json:"room"`
}

// VotingCompletePayload is sent once per round when the votes are tallied.
type VotingCompletePayload struct {
	Eliminated  *PlayerView    `json:"eliminated_player,omitempty"`
	WasImpostor bool           `json:"is_impostor"`
	Counts      map[string]int `json:"vote_count"`
	Room        *RoomSnapshot  `json:"room"`
}

// PhaseChangedPayload is sent on every phase advance.
type PhaseChangedPayload struct {
	PreviousPhase Phase         `json:"previous_phase"`
	Phase         Phase         `json:"new_phase"`
	Round         int           `json:"round"`
	Room          *RoomSnapshot `json:"room"`
}

// GameOverPayload is sent when the session reaches its terminal phase.
type GameOverPayload struct {
	Winner     Winner        `json:"winner"`
	ImpostorID string        `json:"impostor_id"`
	Room       *RoomSnapshot `json:"room"`
}

// ChatMessagePayload is relayed as-is to the room; chat carries no
// engine state.
type ChatMessagePayload struct {
	PlayerName string `json:"player_name"`
	Message    string `json:"message"`
	Phase      Phase  `json:"phase,omitempty"`
}

// ErrorPayload is sent to the originating client when an operation fails.
type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
