package store

import (
	"context"
	"embed"
	"fmt"
	"sort"
	"strings"
	"time"

	pg_query "github.com/pganalyze/pg_query_go/v5"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

// Migration is one embedded schema migration. Only the section above the
// "-- +goose Down" marker is applied.
type Migration struct {
	Name       string
	SQL        string
	Statements int
}

// MigrationStatus reports whether one migration has been applied.
type MigrationStatus struct {
	Name      string
	Applied   bool
	AppliedAt time.Time
}

// Migrations loads the embedded migrations in lexical order. Each migration
// is parsed to catch malformed SQL before anything touches the database.
func Migrations() ([]Migration, error) {
	entries, err := migrationFS.ReadDir("migrations")
	if err != nil {
		return nil, fmt.Errorf("failed to read embedded migrations: %w", err)
	}

	migrations := make([]Migration, 0, len(entries))
	for _, e := range entries {
		data, err := migrationFS.ReadFile("migrations/" + e.Name())
		if err != nil {
			return nil, fmt.Errorf(`failed to read migration "%s": %w`, e.Name(), err)
		}

		up := omitDownMigration(string(data))
		ast, err := pg_query.Parse(up)
		if err != nil {
			return nil, fmt.Errorf(`failed to parse migration "%s": %w`, e.Name(), err)
		}

		migrations = append(migrations, Migration{
			Name:       e.Name(),
			SQL:        up,
			Statements: len(ast.GetStmts()),
		})
	}

	sort.Slice(migrations, func(i, j int) bool {
		return migrations[i].Name < migrations[j].Name
	})
	return migrations, nil
}

const createMigrationsTableSQL = `
CREATE TABLE IF NOT EXISTS schema_migrations (
	nome TEXT PRIMARY KEY,
	aplicado_em TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

// MigrateUp applies every pending migration inside its own transaction and
// returns the names of the migrations it applied.
func (s *DB) MigrateUp(ctx context.Context) ([]string, error) {
	migrations, err := Migrations()
	if err != nil {
		return nil, err
	}

	if _, err := s.db.ExecContext(ctx, createMigrationsTableSQL); err != nil {
		return nil, fmt.Errorf("failed to create migrations table: %w", err)
	}

	done, err := s.appliedMigrations(ctx)
	if err != nil {
		return nil, err
	}

	var applied []string
	for _, m := range migrations {
		if _, ok := done[m.Name]; ok {
			continue
		}

		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return applied, fmt.Errorf("failed to begin transaction: %w", err)
		}

		if _, err := tx.ExecContext(ctx, m.SQL); err != nil {
			tx.Rollback()
			return applied, fmt.Errorf(`failed to apply migration "%s": %w`, m.Name, ConvertError(err))
		}
		if _, err := tx.ExecContext(ctx, "INSERT INTO schema_migrations (nome) VALUES ($1)", m.Name); err != nil {
			tx.Rollback()
			return applied, fmt.Errorf(`failed to record migration "%s": %w`, m.Name, ConvertError(err))
		}
		if err := tx.Commit(); err != nil {
			return applied, fmt.Errorf(`failed to commit migration "%s": %w`, m.Name, err)
		}

		applied = append(applied, m.Name)
	}

	return applied, nil
}

// MigrationStatuses reports the applied state of every embedded migration.
func (s *DB) MigrationStatuses(ctx context.Context) ([]MigrationStatus, error) {
	migrations, err := Migrations()
	if err != nil {
		return nil, err
	}

	if _, err := s.db.ExecContext(ctx, createMigrationsTableSQL); err != nil {
		return nil, fmt.Errorf("failed to create migrations table: %w", err)
	}

	done, err := s.appliedMigrations(ctx)
	if err != nil {
		return nil, err
	}

	statuses := make([]MigrationStatus, 0, len(migrations))
	for _, m := range migrations {
		status := MigrationStatus{Name: m.Name}
		if at, ok := done[m.Name]; ok {
			status.Applied = true
			status.AppliedAt = at
		}
		statuses = append(statuses, status)
	}
	return statuses, nil
}

func (s *DB) appliedMigrations(ctx context.Context) (map[string]time.Time, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT nome, aplicado_em FROM schema_migrations")
	if err != nil {
		return nil, fmt.Errorf("failed to read applied migrations: %w", ConvertError(err))
	}
	defer rows.Close()

	applied := make(map[string]time.Time)
	for rows.Next() {
		var (
			name string
			at   time.Time
		)
		if err := rows.Scan(&name, &at); err != nil {
			return nil, fmt.Errorf("failed to scan migration row: %w", err)
		}
		applied[name] = at
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read applied migrations: %w", ConvertError(err))
	}
	return applied, nil
}

// omitDownMigration cuts the migration off at the goose down marker so only
// the up section is applied.
func omitDownMigration(m string) string {
	lines := make([]string, 0)

	for _, l := range strings.Split(m, "\n") {
		if strings.HasPrefix(l, "-- +goose Down") {
			break
		}

		lines = append(lines, l)
	}

	return strings.Join(lines, "\n")
}
