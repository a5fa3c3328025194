// Package transport delivers outbound lobby events to connected clients,
// either straight to the local websocket Hub or across nodes through Redis.
package transport

//go:generate mockgen -package=mocks -destination=mocks/mock_emitter.go github.com/KirkDiggler/quizdraft/internal/transport Emitter

import (
	"context"
	"encoding/json"
	"fmt"
)

// Emitter delivers an event to the clients of a lobby. Delivery is fire and
// forget: an error means the event could not be handed off, never that a
// client failed to receive it.
type Emitter interface {
	Emit(ctx context.Context, input *EmitInput) error
}

// EmitInput addresses one event
type EmitInput struct {
	LobbyCode string

	// PlayerID targets a single player; empty broadcasts to the lobby
	PlayerID string

	Event   string
	Payload any
}

// Envelope is the wire form of an event
type Envelope struct {
	Event     string          `json:"event"`
	LobbyCode string          `json:"lobby_code,omitempty"`
	PlayerID  string          `json:"player_id,omitempty"`
	Payload   json.RawMessage `json:"payload,omitempty"`
}

// NewEnvelope marshals the payload of input
func NewEnvelope(input *EmitInput) (*Envelope, error) {
	env := &Envelope{
		Event:     input.Event,
		LobbyCode: input.LobbyCode,
		PlayerID:  input.PlayerID,
	}
	if input.Payload != nil {
		payload, err := json.Marshal(input.Payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal %s payload: %w", input.Event, err)
		}
		env.Payload = payload
	}
	return env, nil
}
