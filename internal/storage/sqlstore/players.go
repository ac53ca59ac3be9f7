package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/claude/trainload/internal/models"
	"github.com/claude/trainload/internal/storage"
)

// Compile-time check: *Store satisfies storage.Store.
var _ storage.Store = (*Store)(nil)

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// withTx runs fn in a transaction. Errors returned by fn are passed through
// unchanged so domain errors keep their identity.
func (s *Store) withTx(ctx context.Context, op string, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return storage.Unavailable(op, err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return storage.Unavailable(op, err)
	}
	return nil
}

// InsertPlayer creates a player with a fresh id.
func (s *Store) InsertPlayer(ctx context.Context, name string) (*models.Player, error) {
	name = models.CleanName(name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", models.ErrInvalidInput)
	}

	now := s.now()
	player := &models.Player{ID: models.NewPlayerID(now), Name: name, Sessions: []models.Session{}}

	err := s.withTx(ctx, "inserting player", func(tx *sql.Tx) error {
		if _, found, err := s.playerIDByName(ctx, tx, name); err != nil {
			return err
		} else if found {
			return storage.ErrDuplicatePlayer
		}
		if err := s.insertPlayerRow(ctx, tx, player.ID, name, now); err != nil {
			return err
		}
		return s.touch(ctx, tx, "", now)
	})
	if err != nil {
		return nil, err
	}
	return player, nil
}

// DeletePlayer removes a player and its sessions.
func (s *Store) DeletePlayer(ctx context.Context, id string) error {
	return s.withTx(ctx, "deleting player", func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, s.rebind(`DELETE FROM sessions WHERE player_id = ?`), id); err != nil {
			return storage.Unavailable("deleting sessions", err)
		}
		res, err := tx.ExecContext(ctx, s.rebind(`DELETE FROM players WHERE id = ?`), id)
		if err != nil {
			return storage.Unavailable("deleting player", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return storage.Unavailable("deleting player", err)
		}
		if n == 0 {
			return storage.ErrNotFound
		}
		return s.touch(ctx, tx, "", s.now())
	})
}

// playerIDByName looks up a player by case-insensitive name.
func (s *Store) playerIDByName(ctx context.Context, q querier, name string) (string, bool, error) {
	var id string
	err := q.QueryRowContext(ctx, s.rebind(`SELECT id FROM players WHERE name_key = ?`), models.NameKey(name)).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, storage.Unavailable("looking up player", err)
	}
	return id, true, nil
}

func (s *Store) playerExists(ctx context.Context, q querier, id string) (bool, error) {
	var one int
	err := q.QueryRowContext(ctx, s.rebind(`SELECT 1 FROM players WHERE id = ?`), id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, storage.Unavailable("looking up player", err)
	}
	return true, nil
}

func (s *Store) insertPlayerRow(ctx context.Context, q querier, id, name string, now time.Time) error {
	_, err := q.ExecContext(ctx,
		s.rebind(`INSERT INTO players (id, name, name_key, created_at) VALUES (?, ?, ?, ?)`),
		id, name, models.NameKey(name), now.UTC().Format(time.RFC3339Nano))
	if isUniqueViolation(err) {
		return storage.ErrDuplicatePlayer
	}
	if err != nil {
		return storage.Unavailable("inserting player", err)
	}
	return nil
}

// touch refreshes updated_at, and the version tag when version is non-empty.
func (s *Store) touch(ctx context.Context, q querier, version string, now time.Time) error {
	ts := now.UTC().Format(time.RFC3339Nano)
	var err error
	if version == "" {
		_, err = q.ExecContext(ctx, s.rebind(`
			INSERT INTO metadata (key, value, updated_at) VALUES ('version', ?, ?)
			ON CONFLICT (key) DO UPDATE SET updated_at = excluded.updated_at`),
			models.DefaultVersion, ts)
	} else {
		_, err = q.ExecContext(ctx, s.rebind(`
			INSERT INTO metadata (key, value, updated_at) VALUES ('version', ?, ?)
			ON CONFLICT (key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`),
			version, ts)
	}
	if err != nil {
		return storage.Unavailable("updating metadata", err)
	}
	return nil
}
