package models

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DefaultVersion is the dataset version tag used when none is supplied.
const DefaultVersion = "1.0"

// Player is an athlete and the sessions recorded for them.
type Player struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Sessions []Session `json:"sessions"`
}

// Dataset is a full snapshot of the store.
type Dataset struct {
	Players   []Player  `json:"players"`
	Version   string    `json:"version"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NewPlayerID returns a fresh opaque player identifier.
func NewPlayerID(now time.Time) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return fmt.Sprintf("player_%d_%s", now.UnixMilli(), suffix)
}

// CleanName trims surrounding whitespace from a player name.
func CleanName(name string) string {
	return strings.TrimSpace(name)
}

// NameKey is the case-insensitive uniqueness key for a player name.
func NameKey(name string) string {
	return strings.ToLower(CleanName(name))
}

// NewDataset returns an empty dataset with the default version.
func NewDataset(now time.Time) *Dataset {
	return &Dataset{
		Players:   []Player{},
		Version:   DefaultVersion,
		UpdatedAt: now.UTC(),
	}
}

// PlayerIndex returns the index of the player with the given id, or -1.
func (d *Dataset) PlayerIndex(id string) int {
	return slices.IndexFunc(d.Players, func(p Player) bool { return p.ID == id })
}

// PlayerIndexByName returns the index of the player whose name matches
// case-insensitively, or -1.
func (d *Dataset) PlayerIndexByName(name string) int {
	key := NameKey(name)
	return slices.IndexFunc(d.Players, func(p Player) bool { return NameKey(p.Name) == key })
}

// SessionCount is the number of sessions across all players.
func (d *Dataset) SessionCount() int {
	n := 0
	for _, p := range d.Players {
		n += len(p.Sessions)
	}
	return n
}

// Clone returns a deep copy of d.
func (d *Dataset) Clone() *Dataset {
	out := &Dataset{
		Players:   make([]Player, len(d.Players)),
		Version:   d.Version,
		UpdatedAt: d.UpdatedAt,
	}
	for i, p := range d.Players {
		out.Players[i] = Player{ID: p.ID, Name: p.Name, Sessions: slices.Clone(p.Sessions)}
		if out.Players[i].Sessions == nil {
			out.Players[i].Sessions = []Session{}
		}
	}
	return out
}

// Normalize puts the dataset in canonical read order: players by
// case-insensitive name, each player's sessions newest first. Nil slices
// become empty so they encode as [].
func (d *Dataset) Normalize() {
	if d.Players == nil {
		d.Players = []Player{}
	}
	if d.Version == "" {
		d.Version = DefaultVersion
	}
	slices.SortStableFunc(d.Players, func(a, b Player) int {
		if c := strings.Compare(NameKey(a.Name), NameKey(b.Name)); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
	for i := range d.Players {
		if d.Players[i].Sessions == nil {
			d.Players[i].Sessions = []Session{}
		}
		slices.SortStableFunc(d.Players[i].Sessions, func(a, b Session) int {
			return CompareDates(b.Date, a.Date)
		})
	}
}
