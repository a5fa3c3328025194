package transport

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096

	// DefaultSendBuffer is the per-client outbound queue length
	DefaultSendBuffer = 64
)

// HubConfig holds configuration for the Hub
type HubConfig struct {
	// SendBuffer is the per-client outbound queue; a client whose queue is
	// full is dropped
	SendBuffer int

	Logger *slog.Logger
}

// Hub fans events out to the websocket clients of each lobby on this node.
// It never blocks on a slow client.
type Hub struct {
	mu         sync.RWMutex
	clients    map[*Client]struct{}
	lobbies    map[string]map[*Client]struct{}
	sendBuffer int
	logger     *slog.Logger
}

// NewHub creates a Hub
func NewHub(cfg *HubConfig) *Hub {
	h := &Hub{
		clients:    make(map[*Client]struct{}),
		lobbies:    make(map[string]map[*Client]struct{}),
		sendBuffer: DefaultSendBuffer,
		logger:     slog.Default(),
	}
	if cfg != nil {
		if cfg.SendBuffer > 0 {
			h.sendBuffer = cfg.SendBuffer
		}
		if cfg.Logger != nil {
			h.logger = cfg.Logger
		}
	}
	return h
}

// Client is one authenticated websocket connection
type Client struct {
	hub      *Hub
	conn     *websocket.Conn
	send     chan []byte
	playerID string

	// lobby is guarded by hub.mu and survives removal so a closing
	// connection can still report where it was
	lobby string
}

// PlayerID returns the authenticated identity of the connection
func (c *Client) PlayerID() string {
	return c.playerID
}

// Register adds a connection for playerID. conn may be nil in tests that only
// read from Messages.
func (h *Hub) Register(conn *websocket.Conn, playerID string) *Client {
	c := &Client{
		hub:      h,
		conn:     conn,
		send:     make(chan []byte, h.sendBuffer),
		playerID: playerID,
	}

	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()

	return c
}

// Unregister removes a client and closes its queue. It is safe to call more
// than once.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(c)
}

func (h *Hub) removeLocked(c *Client) {
	if _, ok := h.clients[c]; !ok {
		return
	}
	delete(h.clients, c)
	if members := h.lobbies[c.lobby]; members != nil {
		delete(members, c)
		if len(members) == 0 {
			delete(h.lobbies, c.lobby)
		}
	}
	close(c.send)
}

// Subscribe routes lobby events to c, replacing any previous lobby
func (h *Hub) Subscribe(c *Client, code string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[c]; !ok {
		return
	}
	if members := h.lobbies[c.lobby]; members != nil {
		delete(members, c)
		if len(members) == 0 {
			delete(h.lobbies, c.lobby)
		}
	}
	c.lobby = code
	if code == "" {
		return
	}
	if h.lobbies[code] == nil {
		h.lobbies[code] = make(map[*Client]struct{})
	}
	h.lobbies[code][c] = struct{}{}
}

// LobbyOf returns the lobby c is subscribed to
func (h *Hub) LobbyOf(c *Client) string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return c.lobby
}

// Emit delivers an event to the local clients of a lobby
func (h *Hub) Emit(ctx context.Context, input *EmitInput) error {
	if input == nil {
		return errors.New("input cannot be nil")
	}
	env, err := NewEnvelope(input)
	if err != nil {
		return err
	}
	return h.Deliver(env)
}

// Deliver sends an already built envelope to its lobby or player
func (h *Hub) Deliver(env *Envelope) error {
	data, err := json.Marshal(env)
	if err != nil {
		return err
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	for c := range h.lobbies[env.LobbyCode] {
		if env.PlayerID != "" && c.playerID != env.PlayerID {
			continue
		}
		h.sendLocked(c, data)
	}
	return nil
}

// SendTo delivers an envelope to one client regardless of its lobby, for
// replies that precede a subscription such as join-error
func (h *Hub) SendTo(c *Client, env *Envelope) error {
	data, err := json.Marshal(env)
	if err != nil {
		return err
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; ok {
		h.sendLocked(c, data)
	}
	return nil
}

func (h *Hub) sendLocked(c *Client, data []byte) {
	select {
	case c.send <- data:
	default:
		h.logger.Warn("dropping slow websocket client",
			"player_id", c.playerID,
			"lobby", c.lobby,
		)
		h.removeLocked(c)
		if c.conn != nil {
			_ = c.conn.Close()
		}
	}
}

// Messages exposes the outbound queue; it is closed when the client is removed
func (c *Client) Messages() <-chan []byte {
	return c.send
}

// WritePump drains the outbound queue to the socket and keeps it alive with
// pings. It returns when the queue is closed or a write fails.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// ReadPump passes every inbound frame to handle until the socket closes,
// then unregisters the client and calls onClose with its last lobby
func (c *Client) ReadPump(handle func(*Client, []byte), onClose func(c *Client, lobbyCode string)) {
	defer func() {
		code := c.hub.LobbyOf(c)
		c.hub.Unregister(c)
		_ = c.conn.Close()
		if onClose != nil {
			onClose(c, code)
		}
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.logger.Debug("websocket read error", "player_id", c.playerID, "error", err)
			}
			return
		}
		handle(c, message)
	}
}

// Connected reports whether playerID has a live connection in a lobby
func (h *Hub) Connected(code, playerID string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.lobbies[code] {
		if c.playerID == playerID {
			return true
		}
	}
	return false
}
