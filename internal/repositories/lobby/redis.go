package lobby

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/KirkDiggler/quizdraft/internal/models"
	"github.com/redis/go-redis/v9"
)

const (
	// Key prefixes for Redis
	lobbyKeyPrefix   = "lobby:"
	sessionKeyPrefix = "session:"
	activeLobbiesKey = "active_lobbies"
)

var (
	// ErrLobbyNotFound is returned when a lobby is not found
	ErrLobbyNotFound = errors.New("lobby not found")

	// ErrLobbyExists is returned when creating a lobby whose code is taken
	ErrLobbyExists = errors.New("lobby already exists")

	// ErrSessionNotFound is returned when a session is not found
	ErrSessionNotFound = errors.New("session not found")
)

// Config holds configuration for the Redis lobby repository
type Config struct {
	// Redis client
	RedisClient *redis.Client

	// TTL expires lobby and session keys left behind by a crashed node.
	// Zero keeps them until deleted.
	TTL time.Duration
}

// redisRepository implements the Repository interface using Redis
type redisRepository struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedis creates a new Redis-backed lobby repository
func NewRedis(cfg *Config) (*redisRepository, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	if cfg.RedisClient == nil {
		return nil, errors.New("redis client cannot be nil")
	}

	// Test connection
	if err := cfg.RedisClient.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &redisRepository{
		client: cfg.RedisClient,
		ttl:    cfg.TTL,
	}, nil
}

func lobbyKey(code string) string {
	return lobbyKeyPrefix + code
}

func sessionKey(id string) string {
	return sessionKeyPrefix + id
}

// CreateLobby stores a lobby only if its code is unused
func (r *redisRepository) CreateLobby(ctx context.Context, input *CreateLobbyInput) error {
	if input == nil || input.Lobby == nil || input.Lobby.Code == "" {
		return errors.New("input and lobby code cannot be empty")
	}

	lobbyJSON, err := json.Marshal(input.Lobby)
	if err != nil {
		return fmt.Errorf("failed to marshal lobby: %w", err)
	}

	ok, err := r.client.SetNX(ctx, lobbyKey(input.Lobby.Code), lobbyJSON, r.ttl).Result()
	if err != nil {
		return fmt.Errorf("failed to create lobby: %w", err)
	}
	if !ok {
		return ErrLobbyExists
	}

	if err := r.client.SAdd(ctx, activeLobbiesKey, input.Lobby.Code).Err(); err != nil {
		return fmt.Errorf("failed to index lobby: %w", err)
	}

	return nil
}

// SaveLobby persists a lobby snapshot to Redis
func (r *redisRepository) SaveLobby(ctx context.Context, input *SaveLobbyInput) error {
	if input == nil || input.Lobby == nil || input.Lobby.Code == "" {
		return errors.New("input and lobby code cannot be empty")
	}

	lobbyJSON, err := json.Marshal(input.Lobby)
	if err != nil {
		return fmt.Errorf("failed to marshal lobby: %w", err)
	}

	pipe := r.client.Pipeline()
	pipe.Set(ctx, lobbyKey(input.Lobby.Code), lobbyJSON, r.ttl)

	// Ended lobbies drop out of the active set but stay readable until deleted
	if input.Lobby.Status.IsEnded() {
		pipe.SRem(ctx, activeLobbiesKey, input.Lobby.Code)
	} else {
		pipe.SAdd(ctx, activeLobbiesKey, input.Lobby.Code)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save lobby: %w", err)
	}

	return nil
}

// GetLobby retrieves a lobby by code from Redis
func (r *redisRepository) GetLobby(ctx context.Context, input *GetLobbyInput) (*models.Lobby, error) {
	if input == nil || input.Code == "" {
		return nil, errors.New("input and lobby code cannot be empty")
	}

	lobbyJSON, err := r.client.Get(ctx, lobbyKey(input.Code)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrLobbyNotFound
		}
		return nil, fmt.Errorf("failed to get lobby: %w", err)
	}

	var lobby models.Lobby
	if err := json.Unmarshal([]byte(lobbyJSON), &lobby); err != nil {
		return nil, fmt.Errorf("failed to unmarshal lobby: %w", err)
	}

	return &lobby, nil
}

// DeleteLobby removes a lobby, its session and its index entry
func (r *redisRepository) DeleteLobby(ctx context.Context, input *DeleteLobbyInput) error {
	if input == nil || input.Code == "" {
		return errors.New("input and lobby code cannot be empty")
	}

	lobby, err := r.GetLobby(ctx, &GetLobbyInput{Code: input.Code})
	if err != nil {
		return err
	}

	pipe := r.client.Pipeline()
	pipe.Del(ctx, lobbyKey(input.Code))
	if lobby.SessionID != "" {
		pipe.Del(ctx, sessionKey(lobby.SessionID))
	}
	pipe.SRem(ctx, activeLobbiesKey, input.Code)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete lobby: %w", err)
	}

	return nil
}

// ListActiveLobbies retrieves all lobbies in the active set
func (r *redisRepository) ListActiveLobbies(ctx context.Context, input *ListActiveLobbiesInput) (*ListActiveLobbiesOutput, error) {
	codes, err := r.client.SMembers(ctx, activeLobbiesKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get active lobby codes: %w", err)
	}

	if len(codes) == 0 {
		return &ListActiveLobbiesOutput{
			Lobbies: []*models.Lobby{},
		}, nil
	}

	pipe := r.client.Pipeline()
	commands := make(map[string]*redis.StringCmd, len(codes))
	for _, code := range codes {
		commands[code] = pipe.Get(ctx, lobbyKey(code))
	}

	// redis.Nil for an expired key is reported per command below
	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("failed to get active lobbies: %w", err)
	}

	lobbies := make([]*models.Lobby, 0, len(codes))
	for code, cmd := range commands {
		lobbyJSON, err := cmd.Result()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				// Lobby expired or was deleted between reading the set and fetching it
				continue
			}
			return nil, fmt.Errorf("failed to get lobby %s: %w", code, err)
		}

		var lobby models.Lobby
		if err := json.Unmarshal([]byte(lobbyJSON), &lobby); err != nil {
			return nil, fmt.Errorf("failed to unmarshal lobby %s: %w", code, err)
		}

		lobbies = append(lobbies, &lobby)
	}

	return &ListActiveLobbiesOutput{
		Lobbies: lobbies,
	}, nil
}

// CreateSession persists a new game session
func (r *redisRepository) CreateSession(ctx context.Context, input *CreateSessionInput) error {
	if input == nil || input.Session == nil || input.Session.ID == "" {
		return errors.New("input and session ID cannot be empty")
	}

	return r.putSession(ctx, input.Session)
}

// UpdateSessionState rewrites the mutable fields of a stored session
func (r *redisRepository) UpdateSessionState(ctx context.Context, input *UpdateSessionStateInput) error {
	if input == nil || input.SessionID == "" {
		return errors.New("input and session ID cannot be empty")
	}

	session, err := r.GetSession(ctx, &GetSessionInput{SessionID: input.SessionID})
	if err != nil {
		return err
	}

	session.Status = input.Status
	session.CurrentQuestion = input.CurrentQuestion
	session.Deadline = input.Deadline
	if input.EndedAt != nil {
		endedAt := *input.EndedAt
		session.EndedAt = &endedAt
	}

	return r.putSession(ctx, session)
}

// GetSession retrieves a session by ID from Redis
func (r *redisRepository) GetSession(ctx context.Context, input *GetSessionInput) (*models.GameSession, error) {
	if input == nil || input.SessionID == "" {
		return nil, errors.New("input and session ID cannot be empty")
	}

	sessionJSON, err := r.client.Get(ctx, sessionKey(input.SessionID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	var session models.GameSession
	if err := json.Unmarshal([]byte(sessionJSON), &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}

	return &session, nil
}

func (r *redisRepository) putSession(ctx context.Context, session *models.GameSession) error {
	sessionJSON, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	if err := r.client.Set(ctx, sessionKey(session.ID), sessionJSON, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	return nil
}
