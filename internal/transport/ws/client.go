package ws

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/Zilecito18/impostor-game/internal/domain"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 4096

	// Size of the send channel buffer
	sendBufferSize = 256
)

// clientHandlers is the canonical dispatch table mapping inbound message
// types to their operations.
var clientHandlers = map[MessageType]func(*Client, json.RawMessage){
	MsgStartGame:    (*Client).handleStartGame,
	MsgPlayerReady:  (*Client).handlePlayerReady,
	MsgSubmitAnswer: (*Client).handleSubmitAnswer,
	MsgCastVote:     (*Client).handleCastVote,
	MsgNextPhase:    (*Client).handleNextPhase,
	MsgChatMessage:  (*Client).handleChatMessage,
	MsgPing:         (*Client).handlePing,
}

// Client represents a WebSocket client connection. It implements
// app.Subscriber so the broadcaster can deliver room events to it.
type Client struct {
	conn     *websocket.Conn
	handler  *Handler
	roomCode string
	playerID string
	send     chan []byte
	done     chan struct{}
	logger   *slog.Logger
	mu       sync.Mutex
	closed   bool
}

// NewClient creates a new WebSocket client.
func NewClient(conn *websocket.Conn, handler *Handler, roomCode, playerID string, logger *slog.Logger) *Client {
	return &Client{
		conn:     conn,
		handler:  handler,
		roomCode: roomCode,
		playerID: playerID,
		send:     make(chan []byte, sendBufferSize),
		done:     make(chan struct{}),
		logger:   logger,
	}
}

// Send implements app.Subscriber. Delivery failure (closed client or a
// full buffer) is returned so the broadcaster drops the subscriber.
func (c *Client) Send(event *domain.Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return websocket.ErrCloseSent
	}

	select {
	case c.send <- data:
		return nil
	default:
		c.logger.Warn("send buffer full, dropping subscriber", "playerID", c.playerID)
		return websocket.ErrCloseSent
	}
}

// Close implements app.Subscriber.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}

	c.closed = true
	close(c.done)
	return c.conn.Close()
}

// Run starts the client's read and write pumps.
func (c *Client) Run() {
	go c.writePump()
	c.readPump()
}

// readPump pumps messages from the WebSocket connection.
func (c *Client) readPump() {
	defer func() {
		c.Close()
		c.handler.disconnect(c)
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Debug("websocket read error", "error", err)
			}
			break
		}

		c.handleMessage(message)
	}
}

// writePump pumps messages from the send channel to the WebSocket connection.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case <-c.done:
			return
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			// Add queued messages to the current websocket message
			n := len(c.send)
			for i := 0; i < n; i++ {
				w.Write([]byte{'\n'})
				w.Write(<-c.send)
			}

			if err := w.Close(); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// handleMessage decodes an inbound message and dispatches it.
func (c *Client) handleMessage(data []byte) {
	var msg ClientMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		c.sendError(ErrCodeInvalidMessage, "Invalid message format")
		return
	}

	handle, ok := clientHandlers[msg.Type]
	if !ok {
		c.sendError(ErrCodeInvalidMessage, "Unknown message type")
		return
	}
	handle(c, msg.Payload)
}

// handleStartGame handles a start_game message.
func (c *Client) handleStartGame(_ json.RawMessage) {
	if _, err := c.handler.engine.StartGame(context.Background(), c.roomCode); err != nil {
		c.sendError(errorCode(err), err.Error())
	}
}

// handlePlayerReady handles a player_ready message.
func (c *Client) handlePlayerReady(payload json.RawMessage) {
	var p PlayerReadyPayload
	if err := json.Unmarshal(payload, &p); err != nil || p.Phase == "" {
		c.sendError(ErrCodeInvalidMessage, "Phase is required")
		return
	}

	ready := true
	if p.Ready != nil {
		ready = *p.Ready
	}

	if err := c.handler.engine.MarkReady(c.roomCode, c.playerID, domain.Phase(p.Phase), ready); err != nil {
		c.sendError(errorCode(err), err.Error())
	}
}

// handleSubmitAnswer handles a submit_answer message.
func (c *Client) handleSubmitAnswer(payload json.RawMessage) {
	var p SubmitAnswerPayload
	if err := json.Unmarshal(payload, &p); err != nil || p.Answer == "" {
		c.sendError(ErrCodeInvalidMessage, "Answer is required")
		return
	}

	if err := c.handler.engine.SubmitAnswer(c.roomCode, c.playerID, p.QuestionID, p.Answer); err != nil {
		c.sendError(errorCode(err), err.Error())
	}
}

// handleCastVote handles a cast_vote message.
func (c *Client) handleCastVote(payload json.RawMessage) {
	var p CastVotePayload
	if err := json.Unmarshal(payload, &p); err != nil || p.TargetPlayerID == "" {
		c.sendError(ErrCodeInvalidMessage, "Target player ID is required")
		return
	}

	if err := c.handler.engine.CastVote(c.roomCode, c.playerID, p.TargetPlayerID); err != nil {
		c.sendError(errorCode(err), err.Error())
	}
}

// handleNextPhase handles a next_phase message.
func (c *Client) handleNextPhase(_ json.RawMessage) {
	if _, err := c.handler.engine.AdvancePhase(c.roomCode); err != nil {
		c.sendError(errorCode(err), err.Error())
	}
}

// handleChatMessage relays a chat message to the room. Chat bypasses the
// engine entirely; it carries no game state.
func (c *Client) handleChatMessage(payload json.RawMessage) {
	var p ChatPayload
	if err := json.Unmarshal(payload, &p); err != nil || p.Message == "" {
		c.sendError(ErrCodeInvalidMessage, "Message is required")
		return
	}

	playerName := c.playerID
	if room, err := c.handler.directory.Get(c.roomCode); err == nil {
		if player, ok := room.Player(c.playerID); ok {
			playerName = player.Name
		}
	}

	c.handler.broadcaster.Broadcast(c.roomCode, domain.NewEvent(
		domain.EventChatMessage,
		c.roomCode,
		&domain.ChatMessagePayload{
			PlayerName: playerName,
			Message:    p.Message,
			Phase:      domain.Phase(p.Phase),
		},
	))
}

// handlePing responds with a pong.
func (c *Client) handlePing(_ json.RawMessage) {
	c.Send(domain.NewEvent(domain.EventPong, c.roomCode, nil))
}

// sendConnected sends the connected message with the current state
// snapshot to the client.
func (c *Client) sendConnected() {
	snap, err := c.handler.engine.GetState(c.roomCode)
	if err != nil {
		c.sendError(errorCode(err), err.Error())
		return
	}

	c.Send(domain.NewEvent(domain.EventConnected, c.roomCode, &ConnectedPayload{
		PlayerID: c.playerID,
		RoomCode: c.roomCode,
		Room:     snap,
	}))
}

// sendError sends an error event to this client only.
func (c *Client) sendError(code, message string) {
	c.Send(domain.NewEvent(domain.EventError, c.roomCode, &domain.ErrorPayload{
		Code:    code,
		Message: message,
	}))
}
