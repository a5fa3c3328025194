package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/KirkDiggler/quizdraft/internal/common/clock"
	"github.com/KirkDiggler/quizdraft/internal/common/uuid"
	"github.com/KirkDiggler/quizdraft/internal/config"
	"github.com/KirkDiggler/quizdraft/internal/handlers/websocket"
	"github.com/KirkDiggler/quizdraft/internal/models"
	"github.com/KirkDiggler/quizdraft/internal/perks"
	"github.com/KirkDiggler/quizdraft/internal/random"
	lobbyRepo "github.com/KirkDiggler/quizdraft/internal/repositories/lobby"
	"github.com/KirkDiggler/quizdraft/internal/repositories/progress"
	"github.com/KirkDiggler/quizdraft/internal/repositories/question"
	"github.com/KirkDiggler/quizdraft/internal/services/draft"
	"github.com/KirkDiggler/quizdraft/internal/services/game"
	"github.com/KirkDiggler/quizdraft/internal/services/lobby"
	"github.com/KirkDiggler/quizdraft/internal/transport"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lmittmann/tint"
	"github.com/redis/go-redis/v9"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	level, _ := cfg.SlogLevel()
	logger := slog.New(tint.NewHandler(os.Stdout, &tint.Options{Level: level, TimeFormat: time.Kitchen}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
	logger.Info("server has been shut down")
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	// Initialize Redis client
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	defer redisClient.Close()

	// Initialize repositories
	lobbyStore, err := lobbyRepo.NewRedis(&lobbyRepo.Config{
		RedisClient: redisClient,
		TTL:         cfg.LobbyTTL,
	})
	if err != nil {
		return fmt.Errorf("failed to create lobby repository: %w", err)
	}

	progressStore, closeStore, err := openProgress(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	progressRepo, err := progress.NewRetrying(&progress.RetryConfig{
		Repository: progressStore,
		MaxTries:   cfg.PersistenceRetries,
		Logger:     logger,
	})
	if err != nil {
		return fmt.Errorf("failed to create retrying repository: %w", err)
	}

	roller := random.New(&random.Config{})
	questionRepo, err := question.NewYAML(&question.Config{
		Path:   cfg.QuestionFile,
		Random: roller,
	})
	if err != nil {
		return fmt.Errorf("failed to load questions: %w", err)
	}

	// Transport: every node publishes to Redis and relays into its own hub
	hub := transport.NewHub(&transport.HubConfig{Logger: logger})
	publisher, err := transport.NewRedisPublisher(&transport.RedisConfig{RedisClient: redisClient})
	if err != nil {
		return fmt.Errorf("failed to create publisher: %w", err)
	}
	relay, err := transport.NewRelay(&transport.RedisConfig{RedisClient: redisClient, Logger: logger}, hub)
	if err != nil {
		return fmt.Errorf("failed to create relay: %w", err)
	}

	// Initialize services
	realClock := &clock.DefaultClock{}
	ids := uuid.New()

	draftSvc, err := draft.New(&draft.Config{
		ProgressRepo: progressRepo,
		Catalog:      loadCatalog(ctx, progressRepo, logger),
		Random:       roller,
		Clock:        realClock,
		UUID:         ids,
		Logger:       logger,
		OfferSize:    cfg.OfferSize,
	})
	if err != nil {
		return fmt.Errorf("failed to create draft service: %w", err)
	}

	gameSvc, err := game.New(&game.Config{
		SessionRepo:  lobbyStore,
		ProgressRepo: progressRepo,
		DraftService: draftSvc,
		Emitter:      publisher,
		Clock:        realClock,
		UUID:         ids,
		Random:       roller,
		Logger:       logger,
		RevealDelay:  cfg.RevealDelay,
	})
	if err != nil {
		return fmt.Errorf("failed to create game service: %w", err)
	}

	lobbySvc, err := lobby.New(&lobby.Config{
		LobbyRepo:    lobbyStore,
		QuestionRepo: questionRepo,
		DraftService: draftSvc,
		GameService:  gameSvc,
		Emitter:      publisher,
		Clock:        realClock,
		Random:       roller,
		Logger:       logger,
		MinPlayers:   cfg.MinPlayers,
		MaxPlayers:   cfg.MaxPlayers,
		GracePeriod:  cfg.GracePeriod,
		DefaultSettings: models.LobbySettings{
			QuestionSetID: cfg.DefaultQuestionSet,
			QuestionCount: cfg.QuestionCount,
			TimeLimit:     cfg.TimeLimit,
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create lobby service: %w", err)
	}

	if _, err := lobbySvc.Restore(ctx, &lobby.RestoreInput{}); err != nil {
		logger.Error("failed to restore lobbies", "error", err)
	}

	handler, err := websocket.New(&websocket.Config{
		LobbyService:   lobbySvc,
		DraftService:   draftSvc,
		Hub:            hub,
		JWTSecret:      []byte(cfg.JWTSecret),
		AllowedOrigins: cfg.AllowedOrigins,
		Logger:         logger,
	})
	if err != nil {
		return fmt.Errorf("failed to create websocket handler: %w", err)
	}

	relayReady := make(chan struct{})
	relayErr := make(chan error, 1)
	go func() {
		relayErr <- relay.Run(ctx, relayReady)
	}()
	select {
	case <-relayReady:
	case err := <-relayErr:
		return fmt.Errorf("event relay: %w", err)
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           handler.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	serveErr := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	// Wait for a signal or a failure, then shut down gracefully
	select {
	case <-ctx.Done():
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	case err := <-relayErr:
		if err != nil {
			logger.Error("event relay stopped", "error", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("failed to stop http server", "error", err)
	}
	if err := lobbySvc.Shutdown(shutdownCtx); err != nil {
		logger.Error("failed to stop lobbies", "error", err)
	}
	return nil
}

// openProgress opens the durable store selected by the config
func openProgress(ctx context.Context, cfg *config.Config) (progress.Repository, func(), error) {
	switch cfg.DatabaseDriver {
	case config.DriverPostgres:
		pool, err := pgxpool.New(ctx, cfg.DatabaseDSN)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create postgres pool: %w", err)
		}
		repo, err := progress.NewPostgres(ctx, &progress.PostgresConfig{Pool: pool})
		if err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("failed to create progress repository: %w", err)
		}
		return repo, pool.Close, nil
	default:
		repo, err := progress.NewSQLite(&progress.SQLiteConfig{Path: cfg.DatabaseDSN})
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create progress repository: %w", err)
		}
		return repo, func() { _ = repo.Close() }, nil
	}
}

// loadCatalog seeds the built-in perks and builds the catalog from the store.
// A nil catalog keeps the server up with drafts and perk loadouts disabled.
func loadCatalog(ctx context.Context, repo progress.Repository, logger *slog.Logger) *perks.Catalog {
	if err := repo.UpsertPerks(ctx, &progress.UpsertPerksInput{Perks: perks.DefaultPerks()}); err != nil {
		logger.Error("failed to seed perks", "error", err)
	}

	stored, err := repo.ListPerks(ctx, &progress.ListPerksInput{})
	if err != nil {
		logger.Error("failed to list perks, drafts disabled", "error", err)
		return nil
	}
	catalog, err := perks.NewCatalog(stored.Perks)
	if err != nil {
		logger.Error("invalid perk catalog, drafts disabled", "error", err)
		return nil
	}

	logger.Info("perk catalog loaded", "perks", len(stored.Perks))
	return catalog
}
