package sqlstore

import (
	"context"
	"database/sql"

	"github.com/claude/trainload/internal/models"
	"github.com/claude/trainload/internal/storage"
)

// AppendSession stores a validated session for an existing player.
func (s *Store) AppendSession(ctx context.Context, playerID string, session models.Session) (*models.Session, error) {
	if err := session.Validate(); err != nil {
		return nil, err
	}
	session = session.WithLoad()

	err := s.withTx(ctx, "appending session", func(tx *sql.Tx) error {
		exists, err := s.playerExists(ctx, tx, playerID)
		if err != nil {
			return err
		}
		if !exists {
			return storage.ErrNotFound
		}
		if err := s.insertSessionRow(ctx, tx, playerID, session); err != nil {
			return err
		}
		return s.touch(ctx, tx, "", s.now())
	})
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (s *Store) insertSessionRow(ctx context.Context, q querier, playerID string, session models.Session) error {
	_, err := q.ExecContext(ctx, s.rebind(`
		INSERT INTO sessions (player_id, date, duration, rpe, training_load, notes)
		VALUES (?, ?, ?, ?, ?, ?)`),
		playerID, session.Date, session.Duration, session.RPE, session.TrainingLoad, session.Notes)
	if err != nil {
		return storage.Unavailable("inserting session", err)
	}
	return nil
}
