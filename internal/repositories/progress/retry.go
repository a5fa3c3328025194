package progress

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/KirkDiggler/quizdraft/internal/models"
	"github.com/cenkalti/backoff/v5"
)

// RetryConfig holds configuration for the retrying repository
type RetryConfig struct {
	// Repository is the store being wrapped
	Repository Repository

	// MaxTries bounds the attempts per call, including the first
	MaxTries uint

	// InitialInterval is the first backoff delay
	InitialInterval time.Duration

	Logger *slog.Logger
}

// retryingRepository retries transient failures of idempotent calls
type retryingRepository struct {
	next     Repository
	maxTries uint
	initial  time.Duration
	logger   *slog.Logger
}

// NewRetrying wraps a Repository with bounded exponential backoff. Writes
// that are not safe to repeat (AddExperience, ResolveUserPerkDraft) pass
// through untouched.
func NewRetrying(cfg *RetryConfig) (*retryingRepository, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}
	if cfg.Repository == nil {
		return nil, errors.New("repository cannot be nil")
	}

	r := &retryingRepository{
		next:     cfg.Repository,
		maxTries: cfg.MaxTries,
		initial:  cfg.InitialInterval,
		logger:   cfg.Logger,
	}
	if r.maxTries == 0 {
		r.maxTries = 3
	}
	if r.initial <= 0 {
		r.initial = 50 * time.Millisecond
	}
	if r.logger == nil {
		r.logger = slog.Default()
	}
	return r, nil
}

// isPermanent reports errors that another attempt cannot fix
func isPermanent(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrAlreadyExists) ||
		errors.Is(err, ErrAlreadyResolved) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded)
}

func retry[T any](ctx context.Context, r *retryingRepository, op string, fn func() (T, error)) (T, error) {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = r.initial

	attempt := 0
	return backoff.Retry(ctx, func() (T, error) {
		attempt++
		res, err := fn()
		if err == nil {
			return res, nil
		}
		if isPermanent(err) {
			return res, backoff.Permanent(err)
		}
		r.logger.Warn("progress store call failed",
			"op", op,
			"attempt", attempt,
			"error", err,
		)
		return res, err
	}, backoff.WithBackOff(b), backoff.WithMaxTries(r.maxTries))
}

func (r *retryingRepository) ListPerks(ctx context.Context, input *ListPerksInput) (*ListPerksOutput, error) {
	return retry(ctx, r, "list_perks", func() (*ListPerksOutput, error) {
		return r.next.ListPerks(ctx, input)
	})
}

func (r *retryingRepository) UpsertPerks(ctx context.Context, input *UpsertPerksInput) error {
	_, err := retry(ctx, r, "upsert_perks", func() (struct{}, error) {
		return struct{}{}, r.next.UpsertPerks(ctx, input)
	})
	return err
}

func (r *retryingRepository) GetPlayerPerks(ctx context.Context, input *GetPlayerPerksInput) (*GetPlayerPerksOutput, error) {
	return retry(ctx, r, "get_player_perks", func() (*GetPlayerPerksOutput, error) {
		return r.next.GetPlayerPerks(ctx, input)
	})
}

func (r *retryingRepository) GetUserPerkDraft(ctx context.Context, input *GetUserPerkDraftInput) (*models.UserPerkDraft, error) {
	return retry(ctx, r, "get_user_perk_draft", func() (*models.UserPerkDraft, error) {
		return r.next.GetUserPerkDraft(ctx, input)
	})
}

func (r *retryingRepository) GetPendingDraft(ctx context.Context, input *GetPendingDraftInput) (*models.UserPerkDraft, error) {
	return retry(ctx, r, "get_pending_draft", func() (*models.UserPerkDraft, error) {
		return r.next.GetPendingDraft(ctx, input)
	})
}

// InsertUserPerkDraft is retried: a repeat after an unseen commit surfaces as
// ErrAlreadyExists, which callers already treat as success
func (r *retryingRepository) InsertUserPerkDraft(ctx context.Context, input *InsertUserPerkDraftInput) error {
	_, err := retry(ctx, r, "insert_user_perk_draft", func() (struct{}, error) {
		return struct{}{}, r.next.InsertUserPerkDraft(ctx, input)
	})
	return err
}

func (r *retryingRepository) ResolveUserPerkDraft(ctx context.Context, input *ResolveUserPerkDraftInput) (*models.UserPerkDraft, error) {
	return r.next.ResolveUserPerkDraft(ctx, input)
}

// InsertPlayerResults is retried: rows are keyed by pre-generated ids and
// existing rows are skipped
func (r *retryingRepository) InsertPlayerResults(ctx context.Context, input *InsertPlayerResultsInput) error {
	_, err := retry(ctx, r, "insert_player_results", func() (struct{}, error) {
		return struct{}{}, r.next.InsertPlayerResults(ctx, input)
	})
	return err
}

func (r *retryingRepository) AddExperience(ctx context.Context, input *AddExperienceInput) (*AddExperienceOutput, error) {
	return r.next.AddExperience(ctx, input)
}
