package client

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/claude/trainload/internal/models"
)

var (
	// ErrNotLoaded is returned by mirror reads before the first Load.
	ErrNotLoaded = errors.New("dataset not loaded")

	// ErrUnknownPlayer is returned when selecting a player the mirror does not hold.
	ErrUnknownPlayer = errors.New("unknown player")
)

// API is the subset of the REST client the mirror needs. *Client satisfies it.
type API interface {
	GetData(ctx context.Context) (*models.Dataset, error)
	AddPlayer(ctx context.Context, name string) (*models.Player, error)
	DeletePlayer(ctx context.Context, id string) error
	AddSession(ctx context.Context, playerID string, s models.Session) (*models.Session, error)
	Import(ctx context.Context, payload []byte) (int, error)
	ReplaceData(ctx context.Context, ds *models.Dataset) error
	Clear(ctx context.Context) error
}

var _ API = (*Client)(nil)

// Mirror is a front end's local copy of the dataset plus its current player
// selection. Additive mutations are patched in from the server's response;
// import, replace and clear reload the whole dataset.
type Mirror struct {
	api API

	mu       sync.RWMutex
	ds       *models.Dataset
	selected string
}

// NewMirror returns an empty mirror over api. Call Load before reading.
func NewMirror(api API) *Mirror {
	return &Mirror{api: api}
}

// Load replaces the mirror with a fresh copy from the server. A selection
// that no longer exists is cleared.
func (m *Mirror) Load(ctx context.Context) error {
	ds, err := m.api.GetData(ctx)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ds = ds
	if m.selected != "" && ds.PlayerIndex(m.selected) < 0 {
		m.selected = ""
	}
	return nil
}

// AddPlayer creates a player and patches it into the mirror.
func (m *Mirror) AddPlayer(ctx context.Context, name string) (*models.Player, error) {
	p, err := m.api.AddPlayer(ctx, name)
	if err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ds == nil {
		m.ds = models.NewDataset(time.Now())
	}
	m.ds.Players = append(m.ds.Players, *p)
	m.ds.Normalize()
	return p, nil
}

// AddSession records a session and patches the server's copy into the
// mirror, so the displayed trainingLoad is the one the server computed.
func (m *Mirror) AddSession(ctx context.Context, playerID string, s models.Session) (*models.Session, error) {
	stored, err := m.api.AddSession(ctx, playerID, s)
	if err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ds != nil {
		if i := m.ds.PlayerIndex(playerID); i >= 0 {
			m.ds.Players[i].Sessions = append(m.ds.Players[i].Sessions, *stored)
			m.ds.Normalize()
		}
	}
	return stored, nil
}

// DeletePlayer deletes a player and removes it locally. If it was selected,
// the selection is cleared.
func (m *Mirror) DeletePlayer(ctx context.Context, id string) error {
	if err := m.api.DeletePlayer(ctx, id); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ds != nil {
		if i := m.ds.PlayerIndex(id); i >= 0 {
			m.ds.Players = append(m.ds.Players[:i], m.ds.Players[i+1:]...)
		}
	}
	if m.selected == id {
		m.selected = ""
	}
	return nil
}

// Import posts payload and reloads. It returns the server's addedPlayers.
func (m *Mirror) Import(ctx context.Context, payload []byte) (int, error) {
	added, err := m.api.Import(ctx, payload)
	if err != nil {
		return 0, err
	}
	return added, m.Load(ctx)
}

// Replace overwrites the server's dataset and reloads.
func (m *Mirror) Replace(ctx context.Context, ds *models.Dataset) error {
	if err := m.api.ReplaceData(ctx, ds); err != nil {
		return err
	}
	return m.Load(ctx)
}

// Clear deletes everything on the server and reloads.
func (m *Mirror) Clear(ctx context.Context) error {
	if err := m.api.Clear(ctx); err != nil {
		return err
	}
	return m.Load(ctx)
}

// Select marks a player as current. An empty id clears the selection.
func (m *Mirror) Select(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if id == "" {
		m.selected = ""
		return nil
	}
	if m.ds == nil {
		return ErrNotLoaded
	}
	if m.ds.PlayerIndex(id) < 0 {
		return ErrUnknownPlayer
	}
	m.selected = id
	return nil
}

// SelectByName selects a player by case-insensitive name.
func (m *Mirror) SelectByName(name string) (*models.Player, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ds == nil {
		return nil, ErrNotLoaded
	}
	i := m.ds.PlayerIndexByName(name)
	if i < 0 {
		return nil, ErrUnknownPlayer
	}
	m.selected = m.ds.Players[i].ID
	p := m.ds.Players[i]
	return &p, nil
}

// Selected returns a copy of the selected player, if any.
func (m *Mirror) Selected() (*models.Player, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.ds == nil || m.selected == "" {
		return nil, false
	}
	i := m.ds.PlayerIndex(m.selected)
	if i < 0 {
		return nil, false
	}
	p := m.ds.Players[i]
	p.Sessions = append([]models.Session(nil), p.Sessions...)
	return &p, true
}

// Snapshot returns a deep copy of the mirrored dataset.
func (m *Mirror) Snapshot() (*models.Dataset, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.ds == nil {
		return nil, ErrNotLoaded
	}
	return m.ds.Clone(), nil
}
