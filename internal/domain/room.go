package domain

import (
	"strings"
	"sync"
	"time"
)

// MinPlayers is the minimum roster size required to start a game.
const MinPlayers = 2

// RoomSettings holds the static configuration chosen at room creation.
type RoomSettings struct {
	MaxPlayers    int  `json:"max_players"`
	TotalRounds   int  `json:"total_rounds"`
	DebateMode    bool `json:"debate_mode"`
	DebateMinutes int  `json:"debate_time"`
}

// DefaultRoomSettings returns the settings applied when a create request
// leaves them unset.
func DefaultRoomSettings() RoomSettings {
	return RoomSettings{
		MaxPlayers:    15,
		TotalRounds:   5,
		DebateMinutes: 5,
	}
}

// Room is a joinable lobby identified by a short code, holding an ordered
// roster and static configuration. The mutex guards the roster and the
// mirrored phase/round fields; game state itself lives in the Session.
type Room struct {
	mu          sync.Mutex
	code        string
	settings    RoomSettings
	players     []*Player
	phase       Phase
	round       int
	gameStarted bool
	createdAt   time.Time
}

// NewRoom creates an empty room with the given code and settings.
func NewRoom(code string, settings RoomSettings) *Room {
	return &Room{
		code:      code,
		settings:  settings,
		phase:     PhaseWaiting,
		round:     1,
		createdAt: time.Now(),
	}
}

// Code returns the room code.
func (r *Room) Code() string {
	return r.code
}

// Settings returns the room's static configuration.
func (r *Room) Settings() RoomSettings {
	return r.settings
}

// CreatedAt returns when the room was created.
func (r *Room) CreatedAt() time.Time {
	return r.createdAt
}

// AddPlayer adds a player to the roster. The first player to join becomes
// the host. Names are unique case-insensitively within a room.
func (r *Room) AddPlayer(id, name string) (*Player, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(name) == "" {
		return nil, ErrEmptyName
	}
	if r.gameStarted {
		return nil, ErrGameAlreadyStarted
	}
	if len(r.players) >= r.settings.MaxPlayers {
		return nil, ErrRoomFull
	}
	for _, p := range r.players {
		if strings.EqualFold(p.Name, name) {
			return nil, ErrDuplicateName
		}
	}

	player := NewPlayer(id, name, len(r.players) == 0)
	r.players = append(r.players, player)

	return player, nil
}

// RemovePlayer removes a player from the roster and returns the remaining
// roster size. If the host leaves, the earliest remaining player becomes
// the new host.
func (r *Room) RemovePlayer(id string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := -1
	for i, p := range r.players {
		if p.ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		return len(r.players), ErrPlayerNotFound
	}

	wasHost := r.players[idx].IsHost
	r.players = append(r.players[:idx], r.players[idx+1:]...)

	if wasHost && len(r.players) > 0 {
		r.players[0].IsHost = true
	}

	return len(r.players), nil
}

// Player returns a roster member by ID.
func (r *Room) Player(id string) (*Player, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, p := range r.players {
		if p.ID == id {
			return p, true
		}
	}
	return nil, false
}

// Players returns a copy of the ordered roster.
func (r *Room) Players() []*Player {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]*Player, len(r.players))
	copy(out, r.players)
	return out
}

// PlayerCount returns the roster size.
func (r *Room) PlayerCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.players)
}

// GameStarted reports whether the room's game has been started.
func (r *Room) GameStarted() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.gameStarted
}

// MarkStarted flips the started flag, after which joins are rejected.
func (r *Room) MarkStarted() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.gameStarted {
		return ErrGameAlreadyStarted
	}
	r.gameStarted = true
	return nil
}

// Phase returns the room's mirrored phase for display.
func (r *Room) Phase() Phase {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.phase
}

// Round returns the room's mirrored round number for display.
func (r *Room) Round() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.round
}

// SetPhase mirrors the session's phase and round onto the room so that
// read-only consumers (room info endpoint) see them without a session.
func (r *Room) SetPhase(phase Phase, round int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.phase = phase
	r.round = round
}
