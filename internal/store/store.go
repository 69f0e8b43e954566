// Package store keeps the site's anonymous analytics in SQLite: page visits
// with hashed addresses, which sections live sessions land on, and whether
// the copy-email button worked.
package store

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"database/sql"
	"embed"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/golang-migrate/migrate/v4"
	sqlitemigrate "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Store wraps the analytics database.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens (or creates) the database at path and brings the schema up to
// date.
func Open(path string) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	// one writer; modernc serializes anyway and this keeps :memory: intact
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set busy timeout: %w", err)
	}

	if err := migrateUp(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate schema: %w", err)
	}

	return &Store{db: db, now: time.Now}, nil
}

func migrateUp(db *sql.DB) error {
	src, err := iofs.New(migrations, "migrations")
	if err != nil {
		return err
	}
	defer src.Close()

	driver, err := sqlitemigrate.WithInstance(db, &sqlitemigrate.Config{})
	if err != nil {
		return err
	}
	m, err := migrate.NewWithInstance("iofs", src, "sqlite", driver)
	if err != nil {
		return err
	}
	// m.Close would close db as well

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping checks the database connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Visit is one tracked page request.
type Visit struct {
	HashedIP  string
	UserAgent string
	Path      string
}

// RecordVisit stores a page visit.
func (s *Store) RecordVisit(ctx context.Context, v Visit) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO visitors (hashed_ip, user_agent, path, created_at)
		VALUES (?, ?, ?, ?)
	`, v.HashedIP, v.UserAgent, v.Path, s.now().Unix())
	if err != nil {
		return fmt.Errorf("record visit: %w", err)
	}
	return nil
}

// RecordSectionView stores a section becoming active in a live session.
func (s *Store) RecordSectionView(ctx context.Context, session, section string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO section_views (session, section, created_at)
		VALUES (?, ?, ?)
	`, session, section, s.now().Unix())
	if err != nil {
		return fmt.Errorf("record section view: %w", err)
	}
	return nil
}

// RecordCopy stores the outcome of a copy-email attempt.
func (s *Store) RecordCopy(ctx context.Context, session string, granted bool) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO copy_events (session, granted, created_at)
		VALUES (?, ?, ?)
	`, session, granted, s.now().Unix())
	if err != nil {
		return fmt.Errorf("record copy: %w", err)
	}
	return nil
}

// Cleanup deletes every record older than olderThan and returns how many
// rows went.
func (s *Store) Cleanup(ctx context.Context, olderThan time.Duration) (int64, error) {
	cutoff := s.now().Add(-olderThan).Unix()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("cleanup: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	var total int64
	for _, table := range []string{"visitors", "section_views", "copy_events"} {
		res, err := tx.ExecContext(ctx, "DELETE FROM "+table+" WHERE created_at < ?", cutoff)
		if err != nil {
			return 0, fmt.Errorf("cleanup %s: %w", table, err)
		}
		n, _ := res.RowsAffected()
		total += n
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("cleanup: %w", err)
	}
	return total, nil
}

// HashIP hashes an address with salt so repeat visitors can be counted
// without keeping the address. The result is stable per (ip, salt).
func HashIP(ip, salt string) string {
	h := sha256.New()
	h.Write([]byte(ip + salt))
	return hex.EncodeToString(h.Sum(nil))[:16]
}

// NewSalt returns a random hex string for HashIP and session cookies.
func NewSalt() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}
	return hex.EncodeToString(b), nil
}
