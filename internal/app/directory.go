package app

import (
	"crypto/rand"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/Zilecito18/impostor-game/internal/domain"
)

// DefaultRoomCodeLength is the default length for room codes.
const DefaultRoomCodeLength = 6

// RoomCodeChars are characters used for room codes (no ambiguous chars).
const RoomCodeChars = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// Directory owns the set of rooms, keyed by code. It creates rooms with
// unique codes, adds and removes players, and enforces roster invariants.
type Directory struct {
	mu             sync.RWMutex
	rooms          map[string]*domain.Room
	roomCodeLength int
	logger         *slog.Logger
}

// NewDirectory creates an empty room directory.
func NewDirectory(codeLength int, logger *slog.Logger) *Directory {
	if codeLength <= 0 {
		codeLength = DefaultRoomCodeLength
	}
	return &Directory{
		rooms:          make(map[string]*domain.Room),
		roomCodeLength: codeLength,
		logger:         logger,
	}
}

// CreateRoom creates a room with a unique code and the given host as its
// first player.
func (d *Directory) CreateRoom(settings domain.RoomSettings, hostName string) (*domain.Room, *domain.Player, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	var code string
	for attempts := 0; attempts < 10; attempts++ {
		code = d.generateRoomCode()
		if _, exists := d.rooms[code]; !exists {
			break
		}
	}
	if _, exists := d.rooms[code]; exists {
		return nil, nil, fmt.Errorf("failed to generate unique room code")
	}

	room := domain.NewRoom(code, settings)
	host, err := room.AddPlayer(uuid.New().String(), hostName)
	if err != nil {
		return nil, nil, err
	}
	d.rooms[code] = room

	d.logger.Info("room created", "roomCode", code, "host", hostName)

	return room, host, nil
}

// Get returns a room by code. Codes are case-insensitive.
func (d *Directory) Get(code string) (*domain.Room, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	room, ok := d.rooms[strings.ToUpper(code)]
	if !ok {
		return nil, domain.ErrRoomNotFound
	}
	return room, nil
}

// JoinRoom adds a player to an existing room. It fails with
// ErrRoomNotFound, ErrRoomFull, ErrDuplicateName or ErrGameAlreadyStarted.
func (d *Directory) JoinRoom(code, name string) (*domain.Room, *domain.Player, error) {
	room, err := d.Get(code)
	if err != nil {
		return nil, nil, err
	}

	player, err := room.AddPlayer(uuid.New().String(), name)
	if err != nil {
		return nil, nil, err
	}

	d.logger.Info("player joined", "roomCode", room.Code(), "player", name)

	return room, player, nil
}

// RemovePlayer removes a player from a room. When the last player leaves,
// the room itself is deleted and empty=true is returned.
func (d *Directory) RemovePlayer(code, playerID string) (empty bool, err error) {
	room, err := d.Get(code)
	if err != nil {
		return false, err
	}

	remaining, err := room.RemovePlayer(playerID)
	if err != nil {
		return false, err
	}

	if remaining == 0 {
		d.Delete(room.Code())
		return true, nil
	}
	return false, nil
}

// Delete removes a room from the directory.
func (d *Directory) Delete(code string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.rooms[code]; ok {
		delete(d.rooms, code)
		d.logger.Info("room deleted", "roomCode", code)
	}
}

// RoomCount returns the number of active rooms.
func (d *Directory) RoomCount() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.rooms)
}

// PlayerCount returns the total number of players across all rooms.
func (d *Directory) PlayerCount() int {
	d.mu.RLock()
	defer d.mu.RUnlock()

	total := 0
	for _, room := range d.rooms {
		total += room.PlayerCount()
	}
	return total
}

// generateRoomCode generates a random room code.
func (d *Directory) generateRoomCode() string {
	b := make([]byte, d.roomCodeLength)
	rand.Read(b)

	code := make([]byte, d.roomCodeLength)
	for i := range code {
		code[i] = RoomCodeChars[int(b[i])%len(RoomCodeChars)]
	}

	return string(code)
}
