package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/claude/trainload/internal/models"
)

var (
	// ErrNotFound is returned when a player id does not exist.
	ErrNotFound = errors.New("player not found")

	// ErrDuplicatePlayer is returned when a name already exists case-insensitively.
	ErrDuplicatePlayer = errors.New("player already exists")

	// ErrStoreUnavailable wraps any failure to read or write the backing store.
	ErrStoreUnavailable = errors.New("store unavailable")

	// ErrInvalidSession aliases the model validation error so callers of a
	// Store can classify every failure from this package.
	ErrInvalidSession = models.ErrInvalidSession
)

// Store persists players and their sessions. Implementations differ only in
// the backing store; every method honours the same invariants:
// case-insensitive unique names, cascade delete of sessions, and
// trainingLoad == duration * rpe for every stored session.
type Store interface {
	// LoadAll returns every player with all sessions in canonical order.
	LoadAll(ctx context.Context) (*models.Dataset, error)

	// ReplaceAll atomically overwrites the store with ds.
	ReplaceAll(ctx context.Context, ds *models.Dataset) error

	// InsertPlayer creates a player with no sessions.
	InsertPlayer(ctx context.Context, name string) (*models.Player, error)

	// DeletePlayer removes a player and all of its sessions.
	DeletePlayer(ctx context.Context, id string) error

	// AppendSession stores a session for an existing player and returns it
	// with the training load recomputed.
	AppendSession(ctx context.Context, playerID string, s models.Session) (*models.Session, error)

	// MergeImport merges players by case-insensitive name and returns how
	// many new players were created. Invalid sessions are skipped.
	MergeImport(ctx context.Context, players []models.ImportPlayer) (int, error)

	// ClearAll removes all players and sessions. The version tag is kept.
	ClearAll(ctx context.Context) error

	Close() error
}

// Unavailable wraps a backend failure so that it matches ErrStoreUnavailable
// while keeping the underlying cause.
func Unavailable(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrStoreUnavailable, err)
}
