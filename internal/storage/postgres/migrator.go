package postgres

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"
)

//go:embed sql/migrations/*.sql
var migrationsFS embed.FS

// advisoryLockKey сериализует прогон миграций между экземплярами сервиса.
const advisoryLockKey = int64(20260830)

const migrationsTable = `
CREATE TABLE IF NOT EXISTS schema_migrations (
    version BIGINT PRIMARY KEY,
    name TEXT NOT NULL,
    applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

// schemaChange — пара up/down SQL под одним номером версии.
type schemaChange struct {
	Version int64
	Name    string
	Up      string
	Down    string
}

// MigrateUp применяет недостающие up-миграции; steps=0 — все доступные.
func (s *Store) MigrateUp(ctx context.Context, steps int) error {
	return s.runMigrations(ctx, steps, false)
}

// MigrateDown откатывает steps последних миграций; steps<=0 трактуется как 1.
func (s *Store) MigrateDown(ctx context.Context, steps int) error {
	if steps <= 0 {
		steps = 1
	}
	return s.runMigrations(ctx, steps, true)
}

// MigrationStatus возвращает текущую версию схемы и число применённых миграций.
func (s *Store) MigrationStatus(ctx context.Context) (int64, int, error) {
	if s == nil || s.db == nil {
		return 0, 0, errors.New("postgres store is not initialized")
	}

	queryCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := s.db.ExecContext(queryCtx, migrationsTable); err != nil {
		return 0, 0, fmt.Errorf("ensure migration table: %w", err)
	}

	var (
		version int64
		applied int
	)
	err := s.db.QueryRowContext(queryCtx,
		`SELECT COALESCE(MAX(version), 0), COUNT(*) FROM schema_migrations`,
	).Scan(&version, &applied)
	if err != nil {
		return 0, 0, fmt.Errorf("query migration status: %w", err)
	}
	return version, applied, nil
}

func (s *Store) runMigrations(ctx context.Context, steps int, down bool) error {
	if s == nil || s.db == nil {
		return errors.New("postgres store is not initialized")
	}

	changes, err := loadSchemaChanges()
	if err != nil {
		return err
	}

	// Advisory lock живёт в рамках сессии, поэтому миграции идут через одно
	// выделенное соединение.
	conn, err := s.db.Conn(ctx)
	if err != nil {
		return fmt.Errorf("acquire db connection: %w", err)
	}
	defer conn.Close()

	lockCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if _, err := conn.ExecContext(lockCtx, "SELECT pg_advisory_lock($1)", advisoryLockKey); err != nil {
		return fmt.Errorf("acquire migration lock: %w", err)
	}
	defer func() {
		_, _ = conn.ExecContext(context.Background(), "SELECT pg_advisory_unlock($1)", advisoryLockKey)
	}()

	if _, err := conn.ExecContext(ctx, migrationsTable); err != nil {
		return fmt.Errorf("ensure migration table: %w", err)
	}

	if down {
		return rollback(ctx, conn, changes, steps)
	}
	return apply(ctx, conn, changes, steps)
}

func apply(ctx context.Context, conn *sql.Conn, changes []schemaChange, steps int) error {
	applied, err := appliedVersions(ctx, conn)
	if err != nil {
		return err
	}

	done := 0
	for _, change := range changes {
		if applied[change.Version] {
			continue
		}
		err := inTx(ctx, conn, func(tx *sql.Tx) error {
			if _, err := tx.ExecContext(ctx, change.Up); err != nil {
				return fmt.Errorf("execute up migration %d_%s: %w", change.Version, change.Name, err)
			}
			_, err := tx.ExecContext(ctx,
				`INSERT INTO schema_migrations (version, name, applied_at) VALUES ($1, $2, NOW())`,
				change.Version, change.Name)
			if err != nil {
				return fmt.Errorf("record up migration %d_%s: %w", change.Version, change.Name, err)
			}
			return nil
		})
		if err != nil {
			return err
		}
		done++
		if steps > 0 && done >= steps {
			break
		}
	}
	return nil
}

func rollback(ctx context.Context, conn *sql.Conn, changes []schemaChange, steps int) error {
	byVersion := make(map[int64]schemaChange, len(changes))
	for _, change := range changes {
		byVersion[change.Version] = change
	}

	rows, err := conn.QueryContext(ctx,
		`SELECT version FROM schema_migrations ORDER BY version DESC LIMIT $1`, steps)
	if err != nil {
		return fmt.Errorf("query applied migrations: %w", err)
	}
	defer rows.Close()

	var versions []int64
	for rows.Next() {
		var v int64
		if err := rows.Scan(&v); err != nil {
			return fmt.Errorf("scan applied migration version: %w", err)
		}
		versions = append(versions, v)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate applied migrations: %w", err)
	}

	for _, version := range versions {
		change, ok := byVersion[version]
		if !ok {
			return fmt.Errorf("cannot rollback unknown migration version %d", version)
		}
		err := inTx(ctx, conn, func(tx *sql.Tx) error {
			if _, err := tx.ExecContext(ctx, change.Down); err != nil {
				return fmt.Errorf("execute down migration %d_%s: %w", change.Version, change.Name, err)
			}
			if _, err := tx.ExecContext(ctx, `DELETE FROM schema_migrations WHERE version = $1`, change.Version); err != nil {
				return fmt.Errorf("delete migration record %d_%s: %w", change.Version, change.Name, err)
			}
			return nil
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func inTx(ctx context.Context, conn *sql.Conn, fn func(tx *sql.Tx) error) error {
	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin migration tx: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit migration tx: %w", err)
	}
	return nil
}

func appliedVersions(ctx context.Context, conn *sql.Conn) (map[int64]bool, error) {
	rows, err := conn.QueryContext(ctx, `SELECT version FROM schema_migrations`)
	if err != nil {
		return nil, fmt.Errorf("query applied migrations: %w", err)
	}
	defer rows.Close()

	applied := make(map[int64]bool)
	for rows.Next() {
		var v int64
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("scan applied migration version: %w", err)
		}
		applied[v] = true
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate applied migrations: %w", err)
	}
	return applied, nil
}

// loadSchemaChanges читает встроенные файлы вида NNNN_name.up.sql /
// NNNN_name.down.sql и собирает их в упорядоченный список изменений.
func loadSchemaChanges() ([]schemaChange, error) {
	files, err := fs.Glob(migrationsFS, "sql/migrations/*.sql")
	if err != nil {
		return nil, fmt.Errorf("list migrations: %w", err)
	}
	if len(files) == 0 {
		return nil, errors.New("no migration files found")
	}

	partial := make(map[int64]*schemaChange)
	for _, file := range files {
		base := filepath.Base(file)

		stem, direction, ok := splitDirection(base)
		if !ok {
			return nil, fmt.Errorf("invalid migration file name: %s", base)
		}
		versionStr, name, ok := strings.Cut(stem, "_")
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid migration file name: %s", base)
		}
		version, err := strconv.ParseInt(versionStr, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parse migration version from %s: %w", base, err)
		}

		raw, err := fs.ReadFile(migrationsFS, file)
		if err != nil {
			return nil, fmt.Errorf("read migration file %s: %w", file, err)
		}
		body := strings.TrimSpace(string(raw))
		if body == "" {
			return nil, fmt.Errorf("migration file is empty: %s", base)
		}

		change, ok := partial[version]
		if !ok {
			change = &schemaChange{Version: version, Name: name}
			partial[version] = change
		} else if change.Name != name {
			return nil, fmt.Errorf("migration name mismatch for version %d: %s vs %s", version, change.Name, name)
		}

		switch direction {
		case "up":
			if change.Up != "" {
				return nil, fmt.Errorf("duplicate up migration for version %d", version)
			}
			change.Up = body
		case "down":
			if change.Down != "" {
				return nil, fmt.Errorf("duplicate down migration for version %d", version)
			}
			change.Down = body
		}
	}

	changes := make([]schemaChange, 0, len(partial))
	for _, change := range partial {
		if change.Up == "" || change.Down == "" {
			return nil, fmt.Errorf("migration %d_%s must have both up and down files", change.Version, change.Name)
		}
		changes = append(changes, *change)
	}
	sort.Slice(changes, func(i, j int) bool { return changes[i].Version < changes[j].Version })
	return changes, nil
}

// splitDirection отрезает суффикс .up.sql / .down.sql от имени файла.
func splitDirection(base string) (stem, direction string, ok bool) {
	switch {
	case strings.HasSuffix(base, ".up.sql"):
		return strings.TrimSuffix(base, ".up.sql"), "up", true
	case strings.HasSuffix(base, ".down.sql"):
		return strings.TrimSuffix(base, ".down.sql"), "down", true
	default:
		return "", "", false
	}
}
