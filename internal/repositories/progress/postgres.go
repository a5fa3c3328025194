package progress

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/KirkDiggler/quizdraft/internal/models"
	"github.com/KirkDiggler/quizdraft/internal/repositories/progress/migrations"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const pgUniqueViolation = "23505"

// PostgresConfig holds configuration for the Postgres progress repository
type PostgresConfig struct {
	Pool *pgxpool.Pool
}

// postgresRepository implements the Repository interface using Postgres
type postgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgres creates a Postgres progress repository and applies embedded migrations
func NewPostgres(ctx context.Context, cfg *PostgresConfig) (*postgresRepository, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}
	if cfg.Pool == nil {
		return nil, errors.New("pool cannot be nil")
	}

	if err := cfg.Pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to Postgres: %w", err)
	}
	if err := applyPostgresMigrations(ctx, cfg.Pool, migrations.Postgres, "postgres"); err != nil {
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &postgresRepository{pool: cfg.Pool}, nil
}

// ListPerks returns every perk definition
func (r *postgresRepository) ListPerks(ctx context.Context, input *ListPerksInput) (*ListPerksOutput, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, name, category, tier, effect_type, effect_config FROM perks ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list perks: %w", err)
	}
	defer rows.Close()

	perks := []*models.Perk{}
	for rows.Next() {
		var (
			p        models.Perk
			category string
			config   []byte
		)
		if err := rows.Scan(&p.ID, &p.Name, &category, &p.Tier, &p.EffectType, &config); err != nil {
			return nil, fmt.Errorf("failed to scan perk: %w", err)
		}
		p.Category = models.PerkCategory(category)
		p.EffectConfig = json.RawMessage(config)
		perks = append(perks, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list perks: %w", err)
	}

	return &ListPerksOutput{Perks: perks}, nil
}

// UpsertPerks inserts or replaces perk definitions
func (r *postgresRepository) UpsertPerks(ctx context.Context, input *UpsertPerksInput) error {
	if input == nil {
		return errors.New("input cannot be nil")
	}

	batch := &pgx.Batch{}
	for _, p := range input.Perks {
		config := string(p.EffectConfig)
		if config == "" {
			config = "{}"
		}
		batch.Queue(
			`INSERT INTO perks (id, name, category, tier, effect_type, effect_config)
			 VALUES ($1, $2, $3, $4, $5, $6::jsonb)
			 ON CONFLICT (id) DO UPDATE SET
			   name = EXCLUDED.name,
			   category = EXCLUDED.category,
			   tier = EXCLUDED.tier,
			   effect_type = EXCLUDED.effect_type,
			   effect_config = EXCLUDED.effect_config`,
			p.ID, p.Name, string(p.Category), p.Tier, p.EffectType, config,
		)
	}

	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("failed to upsert perks: %w", err)
		}
		return nil
	})
}

// GetPlayerPerks returns the ids of the perks a user owns
func (r *postgresRepository) GetPlayerPerks(ctx context.Context, input *GetPlayerPerksInput) (*GetPlayerPerksOutput, error) {
	if input == nil || input.UserID == "" {
		return nil, errors.New("input and user ID cannot be empty")
	}

	rows, err := r.pool.Query(ctx,
		`SELECT perk_id FROM user_perks WHERE user_id = $1 ORDER BY acquired_at, perk_id`, input.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to get player perks: %w", err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("failed to get player perks: %w", err)
	}
	if ids == nil {
		ids = []string{}
	}

	return &GetPlayerPerksOutput{PerkIDs: ids}, nil
}

const pgDraftColumns = `id, user_id, level, offered_perk_ids, chosen_perk_id, dumped, drafted_at, resolved_at`

func scanPostgresDraft(row pgx.Row) (*models.UserPerkDraft, error) {
	var (
		d       models.UserPerkDraft
		offered []byte
	)
	if err := row.Scan(&d.ID, &d.UserID, &d.Level, &offered, &d.ChosenPerkID, &d.Dumped, &d.DraftedAt, &d.ResolvedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if err := json.Unmarshal(offered, &d.OfferedPerkIDs); err != nil {
		return nil, fmt.Errorf("failed to unmarshal offered perks: %w", err)
	}
	d.DraftedAt = d.DraftedAt.UTC()
	if d.ResolvedAt != nil {
		t := d.ResolvedAt.UTC()
		d.ResolvedAt = &t
	}
	return &d, nil
}

// GetUserPerkDraft returns the draft for a user and level
func (r *postgresRepository) GetUserPerkDraft(ctx context.Context, input *GetUserPerkDraftInput) (*models.UserPerkDraft, error) {
	if input == nil || input.UserID == "" {
		return nil, errors.New("input and user ID cannot be empty")
	}

	row := r.pool.QueryRow(ctx,
		`SELECT `+pgDraftColumns+` FROM user_perk_drafts WHERE user_id = $1 AND level = $2`,
		input.UserID, input.Level)
	d, err := scanPostgresDraft(row)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("failed to get draft: %w", err)
	}
	return d, err
}

// GetPendingDraft returns the lowest-level unresolved draft
func (r *postgresRepository) GetPendingDraft(ctx context.Context, input *GetPendingDraftInput) (*models.UserPerkDraft, error) {
	if input == nil || input.UserID == "" {
		return nil, errors.New("input and user ID cannot be empty")
	}

	row := r.pool.QueryRow(ctx,
		`SELECT `+pgDraftColumns+` FROM user_perk_drafts
		 WHERE user_id = $1 AND resolved_at IS NULL
		 ORDER BY level LIMIT 1`,
		input.UserID)
	d, err := scanPostgresDraft(row)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("failed to get pending draft: %w", err)
	}
	return d, err
}

// InsertUserPerkDraft stores a new draft
func (r *postgresRepository) InsertUserPerkDraft(ctx context.Context, input *InsertUserPerkDraftInput) error {
	if input == nil || input.Draft == nil {
		return errors.New("input and draft cannot be nil")
	}
	d := input.Draft

	offered, err := json.Marshal(d.OfferedPerkIDs)
	if err != nil {
		return fmt.Errorf("failed to marshal offered perks: %w", err)
	}

	_, err = r.pool.Exec(ctx,
		`INSERT INTO user_perk_drafts (`+pgDraftColumns+`)
		 VALUES ($1, $2, $3, $4::jsonb, NULL, FALSE, $5, NULL)`,
		d.ID, d.UserID, d.Level, string(offered), d.DraftedAt.UTC(),
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return ErrAlreadyExists
		}
		return fmt.Errorf("failed to insert draft: %w", err)
	}
	return nil
}

// ResolveUserPerkDraft records the choice and grants the perk atomically
func (r *postgresRepository) ResolveUserPerkDraft(ctx context.Context, input *ResolveUserPerkDraftInput) (*models.UserPerkDraft, error) {
	if input == nil || input.UserID == "" {
		return nil, errors.New("input and user ID cannot be empty")
	}

	var resolved *models.UserPerkDraft
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		row := tx.QueryRow(ctx,
			`UPDATE user_perk_drafts SET chosen_perk_id = $1, dumped = $2, resolved_at = $3
			 WHERE user_id = $4 AND level = $5 AND resolved_at IS NULL
			 RETURNING `+pgDraftColumns,
			input.PerkID, input.PerkID == nil, input.ResolvedAt.UTC(), input.UserID, input.Level,
		)
		d, err := scanPostgresDraft(row)
		if errors.Is(err, ErrNotFound) {
			// nothing updated: either no draft or it was already resolved
			var exists bool
			if err := tx.QueryRow(ctx,
				`SELECT EXISTS (SELECT 1 FROM user_perk_drafts WHERE user_id = $1 AND level = $2)`,
				input.UserID, input.Level,
			).Scan(&exists); err != nil {
				return fmt.Errorf("failed to read draft: %w", err)
			}
			if exists {
				return ErrAlreadyResolved
			}
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to resolve draft: %w", err)
		}

		if input.PerkID != nil {
			if _, err := tx.Exec(ctx,
				`INSERT INTO user_perks (user_id, perk_id, acquired_at) VALUES ($1, $2, $3)
				 ON CONFLICT (user_id, perk_id) DO NOTHING`,
				input.UserID, *input.PerkID, input.ResolvedAt.UTC(),
			); err != nil {
				return fmt.Errorf("failed to grant perk: %w", err)
			}
		}
		resolved = d
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resolved, nil
}

// InsertPlayerResults stores the results of a finished session
func (r *postgresRepository) InsertPlayerResults(ctx context.Context, input *InsertPlayerResultsInput) error {
	if input == nil {
		return errors.New("input cannot be nil")
	}

	batch := &pgx.Batch{}
	for _, res := range input.Results {
		details, err := json.Marshal(res.Answers)
		if err != nil {
			return fmt.Errorf("failed to marshal answer details: %w", err)
		}
		batch.Queue(
			`INSERT INTO player_results (
			   id, session_id, user_id, final_score, correct_answers, total_questions,
			   max_multiplier, completion_time_ms, perfect_bonus, mastery_bonus, xp_earned,
			   answer_details, created_at
			 ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12::jsonb, $13)
			 ON CONFLICT DO NOTHING`,
			res.ID, res.SessionID, res.UserID, res.FinalScore, res.CorrectAnswers, res.TotalQuestions,
			res.MaxMultiplier, res.CompletionTime.Milliseconds(), res.PerfectBonus, res.MasteryBonus, res.XPEarned,
			string(details), res.CreatedAt.UTC(),
		)
	}

	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("failed to insert results: %w", err)
		}
		return nil
	})
}

// AddExperience adds xp to a user in a single statement
func (r *postgresRepository) AddExperience(ctx context.Context, input *AddExperienceInput) (*AddExperienceOutput, error) {
	if input == nil || input.UserID == "" {
		return nil, errors.New("input and user ID cannot be empty")
	}

	var after int64
	err := r.pool.QueryRow(ctx,
		`INSERT INTO user_progress (user_id, experience, updated_at) VALUES ($1, $2, $3)
		 ON CONFLICT (user_id) DO UPDATE SET
		   experience = user_progress.experience + EXCLUDED.experience,
		   updated_at = EXCLUDED.updated_at
		 RETURNING experience`,
		input.UserID, input.XP, time.Now().UTC(),
	).Scan(&after)
	if err != nil {
		return nil, fmt.Errorf("failed to add experience: %w", err)
	}

	return &AddExperienceOutput{Before: after - input.XP, After: after}, nil
}
