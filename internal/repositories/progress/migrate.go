package progress

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const migrationTable = "schema_migrations"

// migrationFiles returns the .sql files under root in name order
func migrationFiles(migrationFS fs.FS, root string) ([]string, error) {
	entries, err := fs.ReadDir(migrationFS, root)
	if err != nil {
		return nil, fmt.Errorf("read migrations dir: %w", err)
	}

	var files []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".sql") {
			files = append(files, path.Join(root, entry.Name()))
		}
	}
	sort.Strings(files)
	return files, nil
}

// upMigration returns the SQL in the -- +migrate Up section
func upMigration(content string) string {
	upIdx := strings.Index(content, "-- +migrate Up")
	if upIdx == -1 {
		return content
	}
	downIdx := strings.Index(content, "-- +migrate Down")
	if downIdx == -1 {
		return content[upIdx+len("-- +migrate Up"):]
	}
	return content[upIdx+len("-- +migrate Up") : downIdx]
}

// applySQLiteMigrations executes each embedded migration at most once
func applySQLiteMigrations(ctx context.Context, db *sql.DB, migrationFS fs.FS, root string) error {
	files, err := migrationFiles(migrationFS, root)
	if err != nil {
		return err
	}

	createSQL := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
    name TEXT PRIMARY KEY,
    applied_at INTEGER NOT NULL
)`, migrationTable)
	if _, err := db.ExecContext(ctx, createSQL); err != nil {
		return fmt.Errorf("ensure migration table: %w", err)
	}

	for _, file := range files {
		var found int
		err := db.QueryRowContext(ctx, "SELECT 1 FROM "+migrationTable+" WHERE name = ?", file).Scan(&found)
		if err == nil {
			continue
		}
		if err != sql.ErrNoRows {
			return fmt.Errorf("check migration %s: %w", file, err)
		}

		content, err := fs.ReadFile(migrationFS, file)
		if err != nil {
			return fmt.Errorf("read migration %s: %w", file, err)
		}
		up := upMigration(string(content))
		if strings.TrimSpace(up) == "" {
			continue
		}

		tx, err := db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin migration %s: %w", file, err)
		}
		if _, err := tx.ExecContext(ctx, up); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("exec migration %s: %w", file, err)
		}
		if _, err := tx.ExecContext(ctx,
			"INSERT OR IGNORE INTO "+migrationTable+" (name, applied_at) VALUES (?, ?)",
			file, time.Now().UTC().UnixMilli(),
		); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("record migration %s: %w", file, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit migration %s: %w", file, err)
		}
	}

	return nil
}

// applyPostgresMigrations executes each embedded migration at most once
func applyPostgresMigrations(ctx context.Context, pool *pgxpool.Pool, migrationFS fs.FS, root string) error {
	files, err := migrationFiles(migrationFS, root)
	if err != nil {
		return err
	}

	createSQL := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
    name TEXT PRIMARY KEY,
    applied_at TIMESTAMPTZ NOT NULL
)`, migrationTable)
	if _, err := pool.Exec(ctx, createSQL); err != nil {
		return fmt.Errorf("ensure migration table: %w", err)
	}

	for _, file := range files {
		var found int
		err := pool.QueryRow(ctx, "SELECT 1 FROM "+migrationTable+" WHERE name = $1", file).Scan(&found)
		if err == nil {
			continue
		}
		if err != pgx.ErrNoRows {
			return fmt.Errorf("check migration %s: %w", file, err)
		}

		content, err := fs.ReadFile(migrationFS, file)
		if err != nil {
			return fmt.Errorf("read migration %s: %w", file, err)
		}
		up := upMigration(string(content))
		if strings.TrimSpace(up) == "" {
			continue
		}

		err = pgx.BeginFunc(ctx, pool, func(tx pgx.Tx) error {
			if _, err := tx.Exec(ctx, up); err != nil {
				return fmt.Errorf("exec migration %s: %w", file, err)
			}
			if _, err := tx.Exec(ctx,
				"INSERT INTO "+migrationTable+" (name, applied_at) VALUES ($1, $2) ON CONFLICT DO NOTHING",
				file, time.Now().UTC(),
			); err != nil {
				return fmt.Errorf("record migration %s: %w", file, err)
			}
			return nil
		})
		if err != nil {
			return err
		}
	}

	return nil
}
