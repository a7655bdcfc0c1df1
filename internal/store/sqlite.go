package store

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"
)

// SQLite owns the database/sql handle for the local rating file.
type SQLite struct {
	db     *sql.DB
	path   string
	logger *log.Logger
	opts   Options
}

// OpenSQLite opens (creating if needed) the database file at path and applies
// connection pragmas.
func OpenSQLite(ctx context.Context, path string, opts Options) (*SQLite, error) {
	logger := loggerOrDefault(opts.Logger)
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("sqlite path required")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", sqliteDSN(path))
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// SQLite allows a single writer; one shared connection keeps writes serialized.
	db.SetMaxOpenConns(1)
	if opts.MaxConnIdleTime > 0 {
		db.SetConnMaxIdleTime(opts.MaxConnIdleTime)
	}

	connCtx, cancel := withOptionalTimeout(ctx, opts.ConnTimeout)
	defer cancel()

	if err := db.PingContext(connCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	logger.Printf("store: sqlite database ready at %s", path)
	return &SQLite{db: db, path: path, logger: logger, opts: opts}, nil
}

// Close closes the underlying database connection.
func (s *SQLite) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	s.logger.Println("store: closing sqlite database")
	return s.db.Close()
}

// HealthCheck verifies the database file is usable.
func (s *SQLite) HealthCheck(ctx context.Context) error {
	if s == nil || s.db == nil {
		return fmt.Errorf("store not initialized")
	}
	checkCtx, cancel := withOptionalTimeout(ctx, s.opts.ConnTimeout)
	defer cancel()
	return s.db.PingContext(checkCtx)
}

// sqliteDSN applies pragmas on every connection the pool opens.
func sqliteDSN(path string) string {
	params := url.Values{}
	params.Add("_pragma", "busy_timeout(5000)")
	params.Add("_pragma", "journal_mode(WAL)")
	return "file:" + path + "?" + params.Encode()
}

// DB exposes the handle for repositories.
func (s *SQLite) DB() *sql.DB {
	return s.db
}

// Path returns the database file location.
func (s *SQLite) Path() string {
	return s.path
}
