// Package websocket accepts authenticated websocket connections and turns the
// events they send into lobby and draft service calls. Outbound game events
// reach the clients through the transport Hub.
package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/KirkDiggler/quizdraft/internal/services/draft"
	"github.com/KirkDiggler/quizdraft/internal/services/lobby"
	"github.com/KirkDiggler/quizdraft/internal/transport"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
)

// requestTimeout bounds the service call made for one inbound event
const requestTimeout = 10 * time.Second

// EventHandler processes one inbound event from client c
type EventHandler func(ctx context.Context, c *transport.Client, payload json.RawMessage) error

// Config holds the configuration for the Handler
type Config struct {
	LobbyService lobby.Service
	DraftService draft.Service
	Hub          *transport.Hub

	// JWTSecret verifies the HS256 identity token presented at the handshake
	JWTSecret []byte

	// AllowedOrigins limits browser origins; empty allows any
	AllowedOrigins []string

	Logger *slog.Logger
}

// Handler serves the websocket endpoint
type Handler struct {
	lobbyService lobby.Service
	draftService draft.Service
	hub          *transport.Hub
	secret       []byte
	upgrader     websocket.Upgrader
	events       map[string]EventHandler
	logger       *slog.Logger
}

// New creates a new websocket Handler
func New(cfg *Config) (*Handler, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}
	if cfg.LobbyService == nil {
		return nil, errors.New("lobby service cannot be nil")
	}
	if cfg.DraftService == nil {
		return nil, errors.New("draft service cannot be nil")
	}
	if cfg.Hub == nil {
		return nil, errors.New("hub cannot be nil")
	}
	if len(cfg.JWTSecret) == 0 {
		return nil, errors.New("jwt secret cannot be empty")
	}

	h := &Handler{
		lobbyService: cfg.LobbyService,
		draftService: cfg.DraftService,
		hub:          cfg.Hub,
		secret:       cfg.JWTSecret,
		logger:       cfg.Logger,
	}
	if h.logger == nil {
		h.logger = slog.Default()
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     originChecker(cfg.AllowedOrigins),
	}

	h.events = map[string]EventHandler{
		transport.EventCreateLobby:    h.handleCreateLobby,
		transport.EventJoinLobby:      h.handleJoinLobby,
		transport.EventLeaveLobby:     h.handleLeaveLobby,
		transport.EventPlayerReady:    h.handlePlayerReady,
		transport.EventUpdateSettings: h.handleUpdateSettings,
		transport.EventStartGame:      h.handleStartGame,
		transport.EventSubmitAnswer:   h.handleSubmitAnswer,
		transport.EventUseEliminate:   h.handleUseEliminate,
		transport.EventUseHint:        h.handleUseHint,
		transport.EventResolveDraft:   h.handleResolveDraft,
	}

	return h, nil
}

// Routes returns the HTTP routes of the handler
func (h *Handler) Routes() http.Handler {
	mux := chi.NewRouter()
	mux.Use(middleware.RequestID)
	mux.Use(middleware.Recoverer)

	mux.Get("/healthz", h.healthz)
	mux.Get("/ws", h.serveWS)

	return mux
}

func (h *Handler) healthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

// serveWS authenticates the request, upgrades it and runs the client pumps
func (h *Handler) serveWS(w http.ResponseWriter, r *http.Request) {
	playerID, err := h.authenticate(r)
	if err != nil {
		h.logger.Debug("rejected websocket handshake", "remote", r.RemoteAddr, "error", err)
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error
		h.logger.Debug("websocket upgrade failed", "player_id", playerID, "error", err)
		return
	}

	c := h.hub.Register(conn, playerID)
	h.logger.Info("client connected", "player_id", playerID)

	go c.WritePump()
	go c.ReadPump(h.handleMessage, h.handleClose)
}

// handleMessage decodes one frame and dispatches it by event name
func (h *Handler) handleMessage(c *transport.Client, data []byte) {
	var env transport.Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		h.respondError(c, transport.EventError, ErrMalformedEvent.Wrap(err))
		return
	}

	handle, ok := h.events[env.Event]
	if !ok {
		h.respondError(c, transport.EventError, ErrUnknownEvent)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	if err := handle(ctx, c, env.Payload); err != nil {
		h.logger.Debug("event rejected",
			"player_id", c.PlayerID(),
			"event", env.Event,
			"error", err,
		)
		h.respondError(c, errorEventFor(env.Event), err)
	}
}

// handleClose reports the disconnect unless the player still has another
// connection in the lobby
func (h *Handler) handleClose(c *transport.Client, code string) {
	h.logger.Info("client disconnected", "player_id", c.PlayerID(), "lobby_code", code)
	if code == "" || h.hub.Connected(code, c.PlayerID()) {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	_, err := h.lobbyService.Disconnect(ctx, &lobby.DisconnectInput{Code: code, PlayerID: c.PlayerID()})
	if err != nil && !errors.Is(err, lobby.ErrLobbyNotFound) {
		h.logger.Warn("failed to record disconnect", "player_id", c.PlayerID(), "lobby_code", code, "error", err)
	}
}

func originChecker(allowed []string) func(r *http.Request) bool {
	if len(allowed) == 0 {
		return func(*http.Request) bool { return true }
	}
	set := make(map[string]bool, len(allowed))
	for _, o := range allowed {
		set[o] = true
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		return origin == "" || set[origin]
	}
}
