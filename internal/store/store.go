package store

import (
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver
)

// DB is the relational store holding the rule hierarchy: grupos (API groups)
// own conjuntos_dados (datasets), which own regras_validacao (field rules).
// Every write is an idempotent create-or-reuse keyed by natural identity.
type DB struct {
	db *sql.DB
}

// Open connects to the PostgreSQL database at url and verifies the
// connection.
func Open(url string) (*DB, error) {
	db, err := sql.Open("pgx", url)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return New(db), nil
}

// New wraps an existing connection pool.
func New(db *sql.DB) *DB {
	return &DB{db: db}
}

func (s *DB) Close() error {
	return s.db.Close()
}

// Group is one persisted API group.
type Group struct {
	ID   int64
	Name string
}

// Dataset is one persisted schema within a group.
type Dataset struct {
	ID      int64
	GroupID int64
	Name    string
}

// RuleRow is one persisted validation rule.
type RuleRow struct {
	ID        int64
	DatasetID int64
	Field     string
	Type      string
	Size      int
	Required  bool
	Enum      []any
}
