package progress

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/KirkDiggler/quizdraft/internal/models"
	"github.com/KirkDiggler/quizdraft/internal/repositories/progress/migrations"
	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"
)

// SQLiteConfig holds configuration for the SQLite progress repository
type SQLiteConfig struct {
	// Path is the database file
	Path string
}

// sqliteRepository implements the Repository interface using SQLite
type sqliteRepository struct {
	db *sql.DB
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// NewSQLite opens a SQLite progress repository and applies embedded migrations
func NewSQLite(cfg *SQLiteConfig) (*sqliteRepository, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}
	if strings.TrimSpace(cfg.Path) == "" {
		return nil, errors.New("storage path is required")
	}

	dsn := filepath.Clean(cfg.Path) + "?_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// a single connection serializes writers instead of surfacing SQLITE_BUSY
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := applySQLiteMigrations(context.Background(), db, migrations.SQLite, "sqlite"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &sqliteRepository{db: db}, nil
}

// Close closes the SQLite handle
func (r *sqliteRepository) Close() error {
	return r.db.Close()
}

// ListPerks returns every perk definition
func (r *sqliteRepository) ListPerks(ctx context.Context, input *ListPerksInput) (*ListPerksOutput, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, category, tier, effect_type, effect_config FROM perks ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list perks: %w", err)
	}
	defer rows.Close()

	perks := []*models.Perk{}
	for rows.Next() {
		var (
			p      models.Perk
			config string
		)
		if err := rows.Scan(&p.ID, &p.Name, &p.Category, &p.Tier, &p.EffectType, &config); err != nil {
			return nil, fmt.Errorf("failed to scan perk: %w", err)
		}
		p.EffectConfig = json.RawMessage(config)
		perks = append(perks, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list perks: %w", err)
	}

	return &ListPerksOutput{Perks: perks}, nil
}

// UpsertPerks inserts or replaces perk definitions
func (r *sqliteRepository) UpsertPerks(ctx context.Context, input *UpsertPerksInput) error {
	if input == nil {
		return errors.New("input cannot be nil")
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, p := range input.Perks {
		config := string(p.EffectConfig)
		if config == "" {
			config = "{}"
		}
		_, err := tx.ExecContext(ctx,
			`INSERT INTO perks (id, name, category, tier, effect_type, effect_config)
			 VALUES (?, ?, ?, ?, ?, ?)
			 ON CONFLICT (id) DO UPDATE SET
			   name = excluded.name,
			   category = excluded.category,
			   tier = excluded.tier,
			   effect_type = excluded.effect_type,
			   effect_config = excluded.effect_config`,
			p.ID, p.Name, string(p.Category), p.Tier, p.EffectType, config,
		)
		if err != nil {
			return fmt.Errorf("failed to upsert perk %s: %w", p.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit perks: %w", err)
	}
	return nil
}

// GetPlayerPerks returns the ids of the perks a user owns
func (r *sqliteRepository) GetPlayerPerks(ctx context.Context, input *GetPlayerPerksInput) (*GetPlayerPerksOutput, error) {
	if input == nil || input.UserID == "" {
		return nil, errors.New("input and user ID cannot be empty")
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT perk_id FROM user_perks WHERE user_id = ? ORDER BY acquired_at, perk_id`, input.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to get player perks: %w", err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan player perk: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to get player perks: %w", err)
	}

	return &GetPlayerPerksOutput{PerkIDs: ids}, nil
}

const sqliteDraftColumns = `id, user_id, level, offered_perk_ids, chosen_perk_id, dumped, drafted_at, resolved_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSQLiteDraft(row rowScanner) (*models.UserPerkDraft, error) {
	var (
		d          models.UserPerkDraft
		offered    string
		chosen     sql.NullString
		dumped     int
		draftedAt  int64
		resolvedAt sql.NullInt64
	)
	if err := row.Scan(&d.ID, &d.UserID, &d.Level, &offered, &chosen, &dumped, &draftedAt, &resolvedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if err := json.Unmarshal([]byte(offered), &d.OfferedPerkIDs); err != nil {
		return nil, fmt.Errorf("failed to unmarshal offered perks: %w", err)
	}
	if chosen.Valid {
		id := chosen.String
		d.ChosenPerkID = &id
	}
	d.Dumped = dumped != 0
	d.DraftedAt = fromMillis(draftedAt)
	if resolvedAt.Valid {
		t := fromMillis(resolvedAt.Int64)
		d.ResolvedAt = &t
	}
	return &d, nil
}

// GetUserPerkDraft returns the draft for a user and level
func (r *sqliteRepository) GetUserPerkDraft(ctx context.Context, input *GetUserPerkDraftInput) (*models.UserPerkDraft, error) {
	if input == nil || input.UserID == "" {
		return nil, errors.New("input and user ID cannot be empty")
	}

	row := r.db.QueryRowContext(ctx,
		`SELECT `+sqliteDraftColumns+` FROM user_perk_drafts WHERE user_id = ? AND level = ?`,
		input.UserID, input.Level)
	d, err := scanSQLiteDraft(row)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("failed to get draft: %w", err)
	}
	return d, err
}

// GetPendingDraft returns the lowest-level unresolved draft
func (r *sqliteRepository) GetPendingDraft(ctx context.Context, input *GetPendingDraftInput) (*models.UserPerkDraft, error) {
	if input == nil || input.UserID == "" {
		return nil, errors.New("input and user ID cannot be empty")
	}

	row := r.db.QueryRowContext(ctx,
		`SELECT `+sqliteDraftColumns+` FROM user_perk_drafts
		 WHERE user_id = ? AND resolved_at IS NULL
		 ORDER BY level LIMIT 1`,
		input.UserID)
	d, err := scanSQLiteDraft(row)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("failed to get pending draft: %w", err)
	}
	return d, err
}

// InsertUserPerkDraft stores a new draft
func (r *sqliteRepository) InsertUserPerkDraft(ctx context.Context, input *InsertUserPerkDraftInput) error {
	if input == nil || input.Draft == nil {
		return errors.New("input and draft cannot be nil")
	}
	d := input.Draft

	offered, err := json.Marshal(d.OfferedPerkIDs)
	if err != nil {
		return fmt.Errorf("failed to marshal offered perks: %w", err)
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO user_perk_drafts (`+sqliteDraftColumns+`) VALUES (?, ?, ?, ?, NULL, 0, ?, NULL)`,
		d.ID, d.UserID, d.Level, string(offered), toMillis(d.DraftedAt),
	)
	if err != nil {
		if isSQLiteUniqueViolation(err) {
			return ErrAlreadyExists
		}
		return fmt.Errorf("failed to insert draft: %w", err)
	}
	return nil
}

// ResolveUserPerkDraft records the choice and grants the perk atomically
func (r *sqliteRepository) ResolveUserPerkDraft(ctx context.Context, input *ResolveUserPerkDraftInput) (*models.UserPerkDraft, error) {
	if input == nil || input.UserID == "" {
		return nil, errors.New("input and user ID cannot be empty")
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var chosen sql.NullString
	dumped := 1
	if input.PerkID != nil {
		chosen = sql.NullString{String: *input.PerkID, Valid: true}
		dumped = 0
	}

	res, err := tx.ExecContext(ctx,
		`UPDATE user_perk_drafts SET chosen_perk_id = ?, dumped = ?, resolved_at = ?
		 WHERE user_id = ? AND level = ? AND resolved_at IS NULL`,
		chosen, dumped, toMillis(input.ResolvedAt), input.UserID, input.Level,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve draft: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve draft: %w", err)
	}

	row := tx.QueryRowContext(ctx,
		`SELECT `+sqliteDraftColumns+` FROM user_perk_drafts WHERE user_id = ? AND level = ?`,
		input.UserID, input.Level)
	d, err := scanSQLiteDraft(row)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to read draft: %w", err)
	}
	if affected == 0 {
		return nil, ErrAlreadyResolved
	}

	if input.PerkID != nil {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO user_perks (user_id, perk_id, acquired_at) VALUES (?, ?, ?)
			 ON CONFLICT (user_id, perk_id) DO NOTHING`,
			input.UserID, *input.PerkID, toMillis(input.ResolvedAt),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to grant perk: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit draft: %w", err)
	}
	return d, nil
}

// InsertPlayerResults stores the results of a finished session. Rows that
// already exist are left untouched so a retried call is harmless.
func (r *sqliteRepository) InsertPlayerResults(ctx context.Context, input *InsertPlayerResultsInput) error {
	if input == nil {
		return errors.New("input cannot be nil")
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, res := range input.Results {
		details, err := json.Marshal(res.Answers)
		if err != nil {
			return fmt.Errorf("failed to marshal answer details: %w", err)
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO player_results (
			   id, session_id, user_id, final_score, correct_answers, total_questions,
			   max_multiplier, completion_time_ms, perfect_bonus, mastery_bonus, xp_earned,
			   answer_details, created_at
			 ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			 ON CONFLICT DO NOTHING`,
			res.ID, res.SessionID, res.UserID, res.FinalScore, res.CorrectAnswers, res.TotalQuestions,
			res.MaxMultiplier, res.CompletionTime.Milliseconds(), res.PerfectBonus, res.MasteryBonus, res.XPEarned,
			string(details), toMillis(res.CreatedAt),
		)
		if err != nil {
			return fmt.Errorf("failed to insert result for %s: %w", res.UserID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit results: %w", err)
	}
	return nil
}

// AddExperience adds xp to a user in a single statement
func (r *sqliteRepository) AddExperience(ctx context.Context, input *AddExperienceInput) (*AddExperienceOutput, error) {
	if input == nil || input.UserID == "" {
		return nil, errors.New("input and user ID cannot be empty")
	}

	var after int64
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO user_progress (user_id, experience, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT (user_id) DO UPDATE SET
		   experience = user_progress.experience + excluded.experience,
		   updated_at = excluded.updated_at
		 RETURNING experience`,
		input.UserID, input.XP, toMillis(time.Now()),
	).Scan(&after)
	if err != nil {
		return nil, fmt.Errorf("failed to add experience: %w", err)
	}

	return &AddExperienceOutput{Before: after - input.XP, After: after}, nil
}

func isSQLiteUniqueViolation(err error) bool {
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3lib.SQLITE_CONSTRAINT_UNIQUE:
			return true
		}
	}
	return strings.Contains(strings.ToLower(err.Error()), "unique constraint failed")
}
