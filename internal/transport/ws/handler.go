package ws

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/Zilecito18/impostor-game/internal/app"
	"github.com/Zilecito18/impostor-game/internal/domain"
)

// Handler handles WebSocket connections and routes inbound client events
// to the session engine and room directory.
type Handler struct {
	directory   *app.Directory
	engine      *app.Engine
	broadcaster *app.Broadcaster
	upgrader    websocket.Upgrader
	logger      *slog.Logger
}

// NewHandler creates a new WebSocket handler.
func NewHandler(directory *app.Directory, engine *app.Engine, broadcaster *app.Broadcaster, logger *slog.Logger) *Handler {
	return &Handler{
		directory:   directory,
		engine:      engine,
		broadcaster: broadcaster,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				// Allow all origins for development
				// In production, you should validate the origin
				return true
			},
		},
		logger: logger,
	}
}

// ServeHTTP handles WebSocket upgrade requests on /ws/{roomCode}. Players
// join over the REST API first; the connection is identified by the
// playerId query parameter, which also serves reconnects.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	roomCode := r.PathValue("roomCode")
	if roomCode == "" {
		http.Error(w, "roomCode is required", http.StatusBadRequest)
		return
	}

	playerID := r.URL.Query().Get("playerId")
	if playerID == "" {
		http.Error(w, "playerId is required", http.StatusBadRequest)
		return
	}

	room, err := h.directory.Get(roomCode)
	if err != nil {
		http.Error(w, "Room not found", http.StatusNotFound)
		return
	}

	player, ok := room.Player(playerID)
	if !ok {
		http.Error(w, "Player is not in this room", http.StatusForbidden)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("websocket upgrade failed", "error", err)
		return
	}

	client := NewClient(conn, h, room.Code(), playerID, h.logger)
	h.broadcaster.Subscribe(room.Code(), client)

	h.logger.Info("websocket connected",
		"roomCode", room.Code(),
		"playerID", playerID,
		"player", player.Name,
	)

	// Sync the new connection, then announce it to the room
	client.sendConnected()

	if snap, err := h.engine.GetState(room.Code()); err == nil {
		h.broadcaster.Broadcast(room.Code(), domain.NewEvent(
			domain.EventPlayerJoined,
			room.Code(),
			&domain.RoomUpdatePayload{PlayerID: playerID, Room: snap},
		))
	}

	client.Run()
}

// disconnect cleans up after a closed connection: the subscriber is
// dropped, a pre-game player is removed from the roster, and an emptied
// room is destroyed along with its session and feed.
func (h *Handler) disconnect(client *Client) {
	h.broadcaster.Unsubscribe(client.roomCode, client)

	room, err := h.directory.Get(client.roomCode)
	if err != nil {
		return
	}

	if !room.GameStarted() {
		empty, err := h.directory.RemovePlayer(client.roomCode, client.playerID)
		if err == nil && empty {
			h.engine.EndSession(client.roomCode)
			h.broadcaster.CloseRoom(client.roomCode)
			return
		}
	} else if h.broadcaster.SubscriberCount(client.roomCode) == 0 {
		// Started games keep their roster for reconnects; the room dies
		// only when the last connection drops.
		h.directory.Delete(client.roomCode)
		h.engine.EndSession(client.roomCode)
		h.broadcaster.CloseRoom(client.roomCode)
		return
	}

	if snap, err := h.engine.GetState(client.roomCode); err == nil {
		h.broadcaster.Broadcast(client.roomCode, domain.NewEvent(
			domain.EventPlayerLeft,
			client.roomCode,
			&domain.RoomUpdatePayload{PlayerID: client.playerID, Room: snap},
		))
	}

	h.logger.Info("websocket disconnected",
		"roomCode", client.roomCode,
		"playerID", client.playerID,
	)
}
