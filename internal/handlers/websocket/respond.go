package websocket

import (
	"github.com/KirkDiggler/quizdraft/internal/common/apperr"
	"github.com/KirkDiggler/quizdraft/internal/transport"
)

// respond sends an event to c alone
func (h *Handler) respond(c *transport.Client, event string, payload any) {
	env, err := transport.NewEnvelope(&transport.EmitInput{
		PlayerID: c.PlayerID(),
		Event:    event,
		Payload:  payload,
	})
	if err != nil {
		h.logger.Error("failed to build reply", "event", event, "error", err)
		return
	}
	env.LobbyCode = h.hub.LobbyOf(c)
	if err := h.hub.SendTo(c, env); err != nil {
		h.logger.Warn("failed to send reply", "player_id", c.PlayerID(), "event", event, "error", err)
	}
}

// respondError tells c why its request was rejected
func (h *Handler) respondError(c *transport.Client, event string, err error) {
	if apperr.KindOf(err) == apperr.KindInternal {
		h.logger.Error("event failed", "player_id", c.PlayerID(), "error", err)
	}
	h.respond(c, event, &transport.ErrorPayload{
		Code:    apperr.CodeOf(err),
		Message: apperr.MessageOf(err),
	})
}

// errorEventFor picks the rejection event of an inbound event
func errorEventFor(event string) string {
	switch event {
	case transport.EventJoinLobby, transport.EventCreateLobby:
		return transport.EventJoinError
	default:
		return transport.EventError
	}
}
