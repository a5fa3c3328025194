package transport

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/redis/go-redis/v9"
)

// channelPrefix namespaces the per-lobby pub/sub channels
const channelPrefix = "lobby-events:"

func lobbyChannel(code string) string {
	return channelPrefix + code
}

// RedisConfig holds configuration for the Redis publisher and relay
type RedisConfig struct {
	RedisClient *redis.Client
	Logger      *slog.Logger
}

// RedisPublisher implements Emitter by publishing envelopes to the lobby's
// channel, so every node's Relay delivers them to its own clients
type RedisPublisher struct {
	client *redis.Client
}

// NewRedisPublisher creates a publisher
func NewRedisPublisher(cfg *RedisConfig) (*RedisPublisher, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}
	if cfg.RedisClient == nil {
		return nil, errors.New("redis client cannot be nil")
	}
	return &RedisPublisher{client: cfg.RedisClient}, nil
}

// Emit publishes an event to the lobby channel
func (p *RedisPublisher) Emit(ctx context.Context, input *EmitInput) error {
	if input == nil || input.LobbyCode == "" {
		return errors.New("input and lobby code cannot be empty")
	}
	env, err := NewEnvelope(input)
	if err != nil {
		return err
	}
	data, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("failed to marshal envelope: %w", err)
	}
	if err := p.client.Publish(ctx, lobbyChannel(input.LobbyCode), data).Err(); err != nil {
		return fmt.Errorf("failed to publish %s: %w", input.Event, err)
	}
	return nil
}

// Deliverer accepts envelopes received from other nodes
type Deliverer interface {
	Deliver(env *Envelope) error
}

// Relay subscribes to every lobby channel and hands envelopes to the local hub
type Relay struct {
	client *redis.Client
	target Deliverer
	logger *slog.Logger
}

// NewRelay creates a relay into target
func NewRelay(cfg *RedisConfig, target Deliverer) (*Relay, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}
	if cfg.RedisClient == nil {
		return nil, errors.New("redis client cannot be nil")
	}
	if target == nil {
		return nil, errors.New("target cannot be nil")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Relay{client: cfg.RedisClient, target: target, logger: logger}, nil
}

// Run relays messages until ctx is cancelled. ready, if not nil, is closed
// once the subscription is confirmed.
func (r *Relay) Run(ctx context.Context, ready chan<- struct{}) error {
	sub := r.client.PSubscribe(ctx, channelPrefix+"*")
	defer sub.Close()

	// wait for the subscription to be acknowledged
	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("failed to subscribe: %w", err)
	}
	if ready != nil {
		close(ready)
	}

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			var env Envelope
			if err := json.Unmarshal([]byte(msg.Payload), &env); err != nil {
				r.logger.Warn("dropping malformed lobby event", "channel", msg.Channel, "error", err)
				continue
			}
			if env.LobbyCode == "" {
				env.LobbyCode = strings.TrimPrefix(msg.Channel, channelPrefix)
			}
			if err := r.target.Deliver(&env); err != nil {
				r.logger.Warn("failed to deliver lobby event", "event", env.Event, "error", err)
			}
		}
	}
}
