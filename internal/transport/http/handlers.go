package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	qrcode "github.com/skip2/go-qrcode"

	"github.com/Zilecito18/impostor-game/internal/domain"
)

// IdentityProvider is the identity pool surface exposed over HTTP.
type IdentityProvider interface {
	Identities(ctx context.Context) []domain.Identity
	SearchTeamPlayers(ctx context.Context, teamName string) ([]domain.Identity, error)
}

// Response is a standard API response.
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *ErrorInfo  `json:"error,omitempty"`
}

// ErrorInfo contains error details.
type ErrorInfo struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// CreateRoomRequest is the body for room creation.
type CreateRoomRequest struct {
	PlayerName    string `json:"player_name"`
	MaxPlayers    int    `json:"max_players"`
	TotalRounds   int    `json:"total_rounds"`
	DebateMode    bool   `json:"debate_mode"`
	DebateMinutes int    `json:"debate_time"`
}

// JoinRoomRequest is the body for joining a room.
type JoinRoomRequest struct {
	RoomCode   string `json:"room_code"`
	PlayerName string `json:"player_name"`
}

// RoomResponse is returned on create and join.
type RoomResponse struct {
	RoomCode string               `json:"room_code"`
	PlayerID string               `json:"player_id"`
	Room     *domain.RoomSnapshot `json:"room"`
}

// GetRoomResponse is the response for room info.
type GetRoomResponse struct {
	RoomCode    string `json:"room_code"`
	PlayerCount int    `json:"player_count"`
	MaxPlayers  int    `json:"max_players"`
	Phase       string `json:"current_phase"`
	Round       int    `json:"current_round"`
	GameStarted bool   `json:"game_started"`
}

// RoomExistsResponse is the response for checking if a room exists.
type RoomExistsResponse struct {
	Exists bool `json:"exists"`
}

// IdentitiesResponse is the response for identity pool endpoints.
type IdentitiesResponse struct {
	Count      int               `json:"count"`
	Identities []domain.Identity `json:"identities"`
}

// HealthResponse is the response for health check.
type HealthResponse struct {
	Status string `json:"status"`
}

// StatsResponse is the response for the stats endpoint.
type StatsResponse struct {
	ActiveRooms    int `json:"active_rooms"`
	ActiveSessions int `json:"active_sessions"`
	TotalPlayers   int `json:"total_players"`
}

// handleCreateRoom handles POST /api/rooms
func (s *Server) handleCreateRoom(w http.ResponseWriter, r *http.Request) {
	var req CreateRoomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.sendError(w, http.StatusBadRequest, "INVALID_BODY", "Invalid request body")
		return
	}

	settings := domain.DefaultRoomSettings()
	if req.MaxPlayers > 0 {
		settings.MaxPlayers = req.MaxPlayers
	} else {
		settings.MaxPlayers = s.config.Game.MaxPlayers
	}
	if req.TotalRounds > 0 {
		settings.TotalRounds = req.TotalRounds
	} else {
		settings.TotalRounds = s.config.Game.TotalRounds
	}
	settings.DebateMode = req.DebateMode
	if req.DebateMinutes > 0 {
		settings.DebateMinutes = req.DebateMinutes
	} else {
		settings.DebateMinutes = s.config.Game.DebateMinutes
	}

	room, host, err := s.directory.CreateRoom(settings, req.PlayerName)
	if err != nil {
		s.sendDomainError(w, err)
		return
	}

	s.sendSuccess(w, &RoomResponse{
		RoomCode: room.Code(),
		PlayerID: host.ID,
		Room:     domain.Snapshot(room, nil),
	})
}

// handleJoinRoom handles POST /api/rooms/join
func (s *Server) handleJoinRoom(w http.ResponseWriter, r *http.Request) {
	var req JoinRoomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.sendError(w, http.StatusBadRequest, "INVALID_BODY", "Invalid request body")
		return
	}
	if req.RoomCode == "" {
		s.sendError(w, http.StatusBadRequest, "MISSING_ROOM_CODE", "Room code is required")
		return
	}

	room, player, err := s.directory.JoinRoom(req.RoomCode, req.PlayerName)
	if err != nil {
		s.sendDomainError(w, err)
		return
	}

	s.sendSuccess(w, &RoomResponse{
		RoomCode: room.Code(),
		PlayerID: player.ID,
		Room:     domain.Snapshot(room, nil),
	})
}

// handleGetRoom handles GET /api/rooms/{roomCode}
func (s *Server) handleGetRoom(w http.ResponseWriter, r *http.Request) {
	roomCode := r.PathValue("roomCode")
	if roomCode == "" {
		s.sendError(w, http.StatusBadRequest, "MISSING_ROOM_CODE", "Room code is required")
		return
	}

	room, err := s.directory.Get(roomCode)
	if err != nil {
		s.sendDomainError(w, err)
		return
	}

	s.sendSuccess(w, &GetRoomResponse{
		RoomCode:    room.Code(),
		PlayerCount: room.PlayerCount(),
		MaxPlayers:  room.Settings().MaxPlayers,
		Phase:       room.Phase().String(),
		Round:       room.Round(),
		GameStarted: room.GameStarted(),
	})
}

// handleRoomExists handles GET /api/rooms/{roomCode}/exists
func (s *Server) handleRoomExists(w http.ResponseWriter, r *http.Request) {
	_, err := s.directory.Get(r.PathValue("roomCode"))
	s.sendSuccess(w, &RoomExistsResponse{Exists: err == nil})
}

// handleGetState handles GET /api/rooms/{roomCode}/state, the reconnect
// synchronization snapshot.
func (s *Server) handleGetState(w http.ResponseWriter, r *http.Request) {
	snap, err := s.engine.GetState(r.PathValue("roomCode"))
	if err != nil {
		s.sendDomainError(w, err)
		return
	}
	s.sendSuccess(w, snap)
}

// handleRoomQR handles GET /api/rooms/{roomCode}/qr, serving a PNG QR
// code of the room's invite link.
func (s *Server) handleRoomQR(w http.ResponseWriter, r *http.Request) {
	room, err := s.directory.Get(r.PathValue("roomCode"))
	if err != nil {
		s.sendDomainError(w, err)
		return
	}

	scheme := "http"
	if r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https" {
		scheme = "https"
	}
	inviteLink := scheme + "://" + r.Host + "/join/" + room.Code()

	png, err := qrcode.Encode(inviteLink, qrcode.Medium, 256)
	if err != nil {
		s.sendError(w, http.StatusInternalServerError, "QR_FAILED", "Failed to generate QR code")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Write(png)
}

// handleGetIdentities handles GET /api/identities
func (s *Server) handleGetIdentities(w http.ResponseWriter, r *http.Request) {
	identities := s.identities.Identities(r.Context())
	s.sendSuccess(w, &IdentitiesResponse{
		Count:      len(identities),
		Identities: identities,
	})
}

// handleSearchIdentities handles GET /api/identities/search/{team}
func (s *Server) handleSearchIdentities(w http.ResponseWriter, r *http.Request) {
	team := r.PathValue("team")
	if strings.TrimSpace(team) == "" {
		s.sendError(w, http.StatusBadRequest, "MISSING_TEAM", "Team name is required")
		return
	}

	identities, err := s.identities.SearchTeamPlayers(r.Context(), team)
	if err != nil {
		s.sendError(w, http.StatusNotFound, "TEAM_NOT_FOUND", err.Error())
		return
	}

	s.sendSuccess(w, &IdentitiesResponse{
		Count:      len(identities),
		Identities: identities,
	})
}

// handleHealth handles GET /api/health
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.sendSuccess(w, &HealthResponse{Status: "ok"})
}

// handleStats handles GET /api/stats
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	s.sendSuccess(w, &StatsResponse{
		ActiveRooms:    s.directory.RoomCount(),
		ActiveSessions: s.engine.SessionCount(),
		TotalPlayers:   s.directory.PlayerCount(),
	})
}

// sendSuccess sends a successful JSON response.
func (s *Server) sendSuccess(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(&Response{
		Success: true,
		Data:    data,
	})
}

// sendError sends an error JSON response.
func (s *Server) sendError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(&Response{
		Success: false,
		Error: &ErrorInfo{
			Code:    code,
			Message: message,
		},
	})
}

// sendDomainError maps a domain error to its HTTP status and stable code.
func (s *Server) sendDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrRoomNotFound):
		s.sendError(w, http.StatusNotFound, "ROOM_NOT_FOUND", "Room not found")
	case errors.Is(err, domain.ErrPlayerNotFound):
		s.sendError(w, http.StatusNotFound, "PLAYER_NOT_FOUND", "Player not found")
	case errors.Is(err, domain.ErrRoomFull):
		s.sendError(w, http.StatusConflict, "ROOM_FULL", "Room is full")
	case errors.Is(err, domain.ErrDuplicateName):
		s.sendError(w, http.StatusConflict, "DUPLICATE_NAME", "Name already taken in this room")
	case errors.Is(err, domain.ErrGameAlreadyStarted):
		s.sendError(w, http.StatusConflict, "GAME_ALREADY_STARTED", "Game has already started")
	case errors.Is(err, domain.ErrGameNotStarted):
		s.sendError(w, http.StatusConflict, "GAME_NOT_STARTED", "Game has not started")
	case errors.Is(err, domain.ErrEmptyName):
		s.sendError(w, http.StatusBadRequest, "EMPTY_NAME", "Player name cannot be empty")
	default:
		s.sendError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
	}
}
