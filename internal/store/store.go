package store

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	// Postgres driver for shared deployments.
	_ "github.com/lib/pq"
	// Pure Go SQLite driver (no CGO).
	_ "modernc.org/sqlite"
)

// Supported drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Store holds the database handle and provides access to repositories.
type Store struct {
	db      *sqlx.DB
	driver  string
	builder squirrel.StatementBuilderType
	now     func() time.Time
}

// Open connects to the database and creates missing tables. driver is
// "sqlite" (dsn is a file path or SQLite URI) or "postgres" (dsn is a
// libpq connection string).
func Open(driver, dsn string) (*Store, error) {
	if driver == "" {
		driver = DriverSQLite
	}

	var placeholder squirrel.PlaceholderFormat
	switch driver {
	case DriverSQLite:
		placeholder = squirrel.Question
	case DriverPostgres:
		placeholder = squirrel.Dollar
	default:
		return nil, fmt.Errorf("unsupported driver: %q", driver)
	}

	db, err := sqlx.Connect(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if driver == DriverSQLite {
		// SQLite allows a single writer.
		db.SetMaxOpenConns(1)
		if err := applyPragmas(db); err != nil {
			db.Close()
			return nil, fmt.Errorf("apply pragmas: %w", err)
		}
	}

	s := &Store{
		db:      db,
		driver:  driver,
		builder: squirrel.StatementBuilder.PlaceholderFormat(placeholder),
		now:     time.Now,
	}

	if err := s.migrate(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("auto-migrate: %w", err)
	}

	return s, nil
}

// DB returns the underlying handle for raw queries.
func (s *Store) DB() *sqlx.DB {
	return s.db
}

// Driver reports the driver name the store was opened with.
func (s *Store) Driver() string {
	return s.driver
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// KVRepo returns the key-value repository backed by this store.
func (s *Store) KVRepo() KVRepo {
	return &kvRepo{s: s}
}

// EventRepo returns the event repository backed by this store.
func (s *Store) EventRepo() EventRepo {
	return &eventRepo{s: s}
}

// applyPragmas configures SQLite for optimal single-user performance.
func applyPragmas(db *sqlx.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}
	return nil
}

func (s *Store) migrate(ctx context.Context) error {
	idCol := "INTEGER PRIMARY KEY AUTOINCREMENT"
	if s.driver == DriverPostgres {
		idCol = "BIGSERIAL PRIMARY KEY"
	}

	stmts := []string{
		`CREATE TABLE IF NOT EXISTS progress_kv (
			key_name   TEXT PRIMARY KEY,
			payload    TEXT NOT NULL,
			updated_ms BIGINT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS llm_request_events (
			id            ` + idCol + `,
			created_ms    BIGINT NOT NULL,
			provider      TEXT NOT NULL DEFAULT '',
			model         TEXT NOT NULL DEFAULT '',
			purpose       TEXT NOT NULL DEFAULT '',
			input_tokens  INTEGER NOT NULL DEFAULT 0,
			output_tokens INTEGER NOT NULL DEFAULT 0,
			latency_ms    BIGINT NOT NULL DEFAULT 0,
			success       BOOLEAN NOT NULL DEFAULT FALSE,
			error_message TEXT NOT NULL DEFAULT '',
			request_body  TEXT NOT NULL DEFAULT '',
			response_body TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE INDEX IF NOT EXISTS idx_llm_request_events_created ON llm_request_events (created_ms)`,
		`CREATE TABLE IF NOT EXISTS xp_events (
			id         ` + idCol + `,
			created_ms BIGINT NOT NULL,
			user_id    TEXT NOT NULL,
			session_id TEXT NOT NULL DEFAULT '',
			reason     TEXT NOT NULL,
			amount     INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_xp_events_user ON xp_events (user_id, created_ms)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
