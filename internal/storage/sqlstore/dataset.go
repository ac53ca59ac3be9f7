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

// LoadAll reads every player with their sessions.
func (s *Store) LoadAll(ctx context.Context) (*models.Dataset, error) {
	ds := models.NewDataset(s.now())

	var version, updatedAt string
	err := s.db.QueryRowContext(ctx, `SELECT value, updated_at FROM metadata WHERE key = 'version'`).Scan(&version, &updatedAt)
	switch {
	case errors.Is(err, sql.ErrNoRows):
	case err != nil:
		return nil, storage.Unavailable("reading metadata", err)
	default:
		ds.Version = version
		if t, err := time.Parse(time.RFC3339Nano, updatedAt); err == nil {
			ds.UpdatedAt = t
		}
	}

	rows, err := s.db.QueryContext(ctx, `SELECT id, name FROM players`)
	if err != nil {
		return nil, storage.Unavailable("querying players", err)
	}
	defer rows.Close()

	index := make(map[string]int)
	for rows.Next() {
		var p models.Player
		if err := rows.Scan(&p.ID, &p.Name); err != nil {
			return nil, storage.Unavailable("scanning player", err)
		}
		p.Sessions = []models.Session{}
		index[p.ID] = len(ds.Players)
		ds.Players = append(ds.Players, p)
	}
	if err := rows.Err(); err != nil {
		return nil, storage.Unavailable("querying players", err)
	}

	sessRows, err := s.db.QueryContext(ctx,
		`SELECT player_id, date, duration, rpe, training_load, notes FROM sessions ORDER BY id`)
	if err != nil {
		return nil, storage.Unavailable("querying sessions", err)
	}
	defer sessRows.Close()

	for sessRows.Next() {
		var playerID string
		var sess models.Session
		if err := sessRows.Scan(&playerID, &sess.Date, &sess.Duration, &sess.RPE, &sess.TrainingLoad, &sess.Notes); err != nil {
			return nil, storage.Unavailable("scanning session", err)
		}
		if i, ok := index[playerID]; ok {
			ds.Players[i].Sessions = append(ds.Players[i].Sessions, sess)
		}
	}
	if err := sessRows.Err(); err != nil {
		return nil, storage.Unavailable("querying sessions", err)
	}

	ds.Normalize()
	return ds, nil
}

// ReplaceAll overwrites all players, sessions and the version tag in one
// transaction.
func (s *Store) ReplaceAll(ctx context.Context, ds *models.Dataset) error {
	version := ds.Version
	if version == "" {
		version = models.DefaultVersion
	}
	now := s.now()

	return s.withTx(ctx, "replacing dataset", func(tx *sql.Tx) error {
		if err := s.deleteAll(ctx, tx); err != nil {
			return err
		}
		for _, p := range ds.Players {
			id := p.ID
			if id == "" {
				id = models.NewPlayerID(now)
			}
			name := models.CleanName(p.Name)
			if name == "" {
				return fmt.Errorf("%w: player %q has no name", models.ErrInvalidInput, id)
			}
			if err := s.insertPlayerRow(ctx, tx, id, name, now); err != nil {
				if errors.Is(err, storage.ErrDuplicatePlayer) {
					return fmt.Errorf("%w: duplicate player %q", models.ErrInvalidInput, name)
				}
				return err
			}
			for _, sess := range p.Sessions {
				if err := sess.Validate(); err != nil {
					return fmt.Errorf("player %q: %w", name, err)
				}
				if err := s.insertSessionRow(ctx, tx, id, sess.WithLoad()); err != nil {
					return err
				}
			}
		}
		return s.touch(ctx, tx, version, now)
	})
}

// ClearAll deletes every player and session, keeping the version tag.
func (s *Store) ClearAll(ctx context.Context) error {
	return s.withTx(ctx, "clearing dataset", func(tx *sql.Tx) error {
		if err := s.deleteAll(ctx, tx); err != nil {
			return err
		}
		return s.touch(ctx, tx, "", s.now())
	})
}

// MergeImport merges incoming players in a single transaction, so the import
// is either fully applied or not at all.
func (s *Store) MergeImport(ctx context.Context, players []models.ImportPlayer) (int, error) {
	added := 0
	now := s.now()

	err := s.withTx(ctx, "importing players", func(tx *sql.Tx) error {
		for _, ip := range players {
			name := models.CleanName(ip.Name)
			if name == "" {
				continue
			}
			id, found, err := s.playerIDByName(ctx, tx, name)
			if err != nil {
				return err
			}
			if !found {
				id = models.NewPlayerID(now)
				if err := s.insertPlayerRow(ctx, tx, id, name, now); err != nil {
					return err
				}
				added++
			}
			for _, sess := range ip.Sessions {
				if sess.Validate() != nil {
					continue
				}
				if err := s.insertSessionRow(ctx, tx, id, sess.WithLoad()); err != nil {
					return err
				}
			}
		}
		return s.touch(ctx, tx, "", now)
	})
	if err != nil {
		return 0, err
	}
	return added, nil
}

func (s *Store) deleteAll(ctx context.Context, q querier) error {
	if _, err := q.ExecContext(ctx, `DELETE FROM sessions`); err != nil {
		return storage.Unavailable("deleting sessions", err)
	}
	if _, err := q.ExecContext(ctx, `DELETE FROM players`); err != nil {
		return storage.Unavailable("deleting players", err)
	}
	return nil
}
