// Package sqlite implements the storage contracts on SQLite via
// github.com/mattn/go-sqlite3.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/codenames/internal/game"
	"github.com/robalobadob/codenames/internal/storage"
)

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// repo runs every primitive against one querier. Inside InTx the querier is
// the transaction, so reads see the transaction's own writes.
type repo struct {
	q querier
}

// Store is the SQLite-backed storage.Store. Its embedded repo reads through
// the pool; writes go through InTx. LoadAggregate reads through a separate
// query-only pool inside one transaction.
type Store struct {
	repo
	db     *sql.DB
	reader *sql.DB
}

var _ storage.Store = (*Store)(nil)
var _ storage.Repository = (*repo)(nil)

// Open opens the database at path and applies migrations.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("storage path is required")
	}
	db, err := openDB(path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := migrate(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	reader, err := openReader(path)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("open sqlite reader: %w", err)
	}
	return &Store{repo: repo{q: db}, db: db, reader: reader}, nil
}

// DB exposes the handle for tests and diagnostics.
func (s *Store) DB() *sql.DB {
	if s == nil {
		return nil
	}
	return s.db
}

// Close releases both pools.
func (s *Store) Close() error {
	return errors.Join(s.reader.Close(), s.db.Close())
}

// LoadAggregate assembles the game from a single read snapshot, so a
// concurrent commit cannot land between its SELECTs.
func (s *Store) LoadAggregate(ctx context.Context, gamePublicID, userID string) (*game.Aggregate, error) {
	tx, err := s.reader.BeginTx(ctx, nil)
	if err != nil {
		return nil, classify("start read", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	a, err := (&repo{q: tx}).LoadAggregate(ctx, gamePublicID, userID)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, classify("end read", err)
	}
	return a, nil
}

// InTx runs fn inside one transaction. The transaction commits when fn
// returns nil and rolls back on any error.
func (s *Store) InTx(ctx context.Context, fn func(ctx context.Context, r storage.Repository) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return classify("start transaction", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := fn(ctx, &repo{q: tx}); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return classify("commit", err)
	}
	return nil
}

// classify wraps err with op and maps SQLite lock and constraint failures
// onto the storage sentinels.
func classify(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}
	var se sqlite3.Error
	if errors.As(err, &se) {
		switch {
		case se.Code == sqlite3.ErrBusy || se.Code == sqlite3.ErrLocked:
			log.Warn().Err(err).Str("op", op).Msg("sqlite busy")
			return fmt.Errorf("%s: %w: %w", op, storage.ErrConflict, err)
		case se.ExtendedCode == sqlite3.ErrConstraintUnique || se.ExtendedCode == sqlite3.ErrConstraintPrimaryKey:
			return fmt.Errorf("%s: %w: %w", op, storage.ErrAlreadyExists, err)
		case se.Code == sqlite3.ErrConstraint:
			return fmt.Errorf("%s: %w: %w", op, storage.ErrIntegrity, err)
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}

// timestamps are stored as RFC3339 text, matching the users table.
func now() string { return time.Now().UTC().Format(time.RFC3339Nano) }

func parseTime(s string) time.Time {
	t, _ := time.Parse(time.RFC3339Nano, s)
	return t
}

func parseNullTime(s sql.NullString) time.Time {
	if !s.Valid {
		return time.Time{}
	}
	return parseTime(s.String)
}

func nullID(id int64) sql.NullInt64 {
	return sql.NullInt64{Int64: id, Valid: id != 0}
}

// expectOne turns a zero-row update into ErrNotFound.
func expectOne(op string, res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return classify(op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}
	return nil
}
