// Package jsonstore implements storage.Store on a single JSON document.
//
// Every mutation is a full read-modify-write of the file. Writes go to a
// temporary file in the same directory which is synced and renamed over the
// target, so a crash never leaves a partially written document. Mutations
// are serialised within one process; two processes sharing a file can still
// overwrite each other's changes (last writer wins).
package jsonstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/claude/trainload/internal/models"
	"github.com/claude/trainload/internal/storage"
)

// Compile-time check: *Store satisfies storage.Store.
var _ storage.Store = (*Store)(nil)

// Store is a whole-document storage.Store.
type Store struct {
	path string
	mu   sync.Mutex
	now  func() time.Time
}

// Open returns a store backed by the file at path. If the file does not
// exist yet it is created with an empty dataset; this is the only case in
// which a missing file is not an error.
func Open(path string) (*Store, error) {
	if path == "" {
		return nil, errors.New("json store path is required")
	}
	s := &Store{path: path, now: time.Now}

	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("creating data directory: %w", err)
		}
		if err := s.write(models.NewDataset(s.now())); err != nil {
			return nil, fmt.Errorf("initialising %s: %w", path, err)
		}
	} else if err != nil {
		return nil, fmt.Errorf("checking %s: %w", path, err)
	}
	return s, nil
}

// Path returns the backing file path.
func (s *Store) Path() string {
	return s.path
}

// Close is a no-op; the file is only open during reads and writes.
func (s *Store) Close() error {
	return nil
}

// read loads and parses the document.
func (s *Store) read() (*models.Dataset, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, storage.Unavailable("reading "+s.path, err)
	}
	ds := &models.Dataset{}
	if err := json.Unmarshal(data, ds); err != nil {
		return nil, storage.Unavailable("parsing "+s.path, err)
	}
	if ds.Version == "" {
		ds.Version = models.DefaultVersion
	}
	return ds, nil
}

// write replaces the document atomically via temp file and rename.
func (s *Store) write(ds *models.Dataset) error {
	data, err := json.MarshalIndent(ds, "", "  ")
	if err != nil {
		return storage.Unavailable("encoding dataset", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return storage.Unavailable("creating temp file", err)
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		cleanup()
		return storage.Unavailable("writing temp file", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		cleanup()
		return storage.Unavailable("syncing temp file", err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return storage.Unavailable("closing temp file", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		cleanup()
		return storage.Unavailable("replacing "+s.path, err)
	}
	return nil
}

// mutate runs fn against the current document and writes the result with a
// fresh updatedAt. Nothing is written if fn fails.
func (s *Store) mutate(fn func(ds *models.Dataset) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ds, err := s.read()
	if err != nil {
		return err
	}
	if err := fn(ds); err != nil {
		return err
	}
	ds.UpdatedAt = s.now().UTC()
	return s.write(ds)
}

// LoadAll returns the document in canonical order.
func (s *Store) LoadAll(_ context.Context) (*models.Dataset, error) {
	s.mu.Lock()
	ds, err := s.read()
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}
	ds.Normalize()
	return ds, nil
}

// ReplaceAll overwrites the document.
func (s *Store) ReplaceAll(_ context.Context, in *models.Dataset) error {
	next := models.NewDataset(s.now())
	if in.Version != "" {
		next.Version = in.Version
	}

	ids := make(map[string]bool)
	names := make(map[string]bool)
	for _, p := range in.Players {
		name := models.CleanName(p.Name)
		if name == "" {
			return fmt.Errorf("%w: player %q has no name", models.ErrInvalidInput, p.ID)
		}
		id := p.ID
		if id == "" {
			id = models.NewPlayerID(s.now())
		}
		if ids[id] || names[models.NameKey(name)] {
			return fmt.Errorf("%w: duplicate player %q", models.ErrInvalidInput, name)
		}
		ids[id], names[models.NameKey(name)] = true, true

		player := models.Player{ID: id, Name: name, Sessions: make([]models.Session, 0, len(p.Sessions))}
		for _, sess := range p.Sessions {
			if err := sess.Validate(); err != nil {
				return fmt.Errorf("player %q: %w", name, err)
			}
			player.Sessions = append(player.Sessions, sess.WithLoad())
		}
		next.Players = append(next.Players, player)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write(next)
}

// InsertPlayer creates a player with a fresh id.
func (s *Store) InsertPlayer(_ context.Context, name string) (*models.Player, error) {
	name = models.CleanName(name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", models.ErrInvalidInput)
	}

	var created models.Player
	err := s.mutate(func(ds *models.Dataset) error {
		if ds.PlayerIndexByName(name) >= 0 {
			return storage.ErrDuplicatePlayer
		}
		created = models.Player{ID: models.NewPlayerID(s.now()), Name: name, Sessions: []models.Session{}}
		ds.Players = append(ds.Players, created)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// DeletePlayer removes a player; its sessions go with it.
func (s *Store) DeletePlayer(_ context.Context, id string) error {
	return s.mutate(func(ds *models.Dataset) error {
		i := ds.PlayerIndex(id)
		if i < 0 {
			return storage.ErrNotFound
		}
		ds.Players = append(ds.Players[:i], ds.Players[i+1:]...)
		return nil
	})
}

// AppendSession stores a session for an existing player.
func (s *Store) AppendSession(_ context.Context, playerID string, session models.Session) (*models.Session, error) {
	if err := session.Validate(); err != nil {
		return nil, err
	}
	session = session.WithLoad()

	err := s.mutate(func(ds *models.Dataset) error {
		i := ds.PlayerIndex(playerID)
		if i < 0 {
			return storage.ErrNotFound
		}
		ds.Players[i].Sessions = append(ds.Players[i].Sessions, session)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// MergeImport merges incoming players by case-insensitive name.
func (s *Store) MergeImport(_ context.Context, players []models.ImportPlayer) (int, error) {
	added := 0
	err := s.mutate(func(ds *models.Dataset) error {
		for _, ip := range players {
			name := models.CleanName(ip.Name)
			if name == "" {
				continue
			}
			i := ds.PlayerIndexByName(name)
			if i < 0 {
				ds.Players = append(ds.Players, models.Player{
					ID:       models.NewPlayerID(s.now()),
					Name:     name,
					Sessions: []models.Session{},
				})
				i = len(ds.Players) - 1
				added++
			}
			for _, sess := range ip.Sessions {
				if sess.Validate() != nil {
					continue
				}
				ds.Players[i].Sessions = append(ds.Players[i].Sessions, sess.WithLoad())
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return added, nil
}

// ClearAll empties the document, keeping its version tag.
func (s *Store) ClearAll(_ context.Context) error {
	return s.mutate(func(ds *models.Dataset) error {
		ds.Players = []models.Player{}
		return nil
	})
}
