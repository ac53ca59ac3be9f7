package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// PlayerInput is the body of an add-player request.
type PlayerInput struct {
	Name string `json:"name"`
}

// ImportPlayer is one usable entry of an import payload. Sessions have
// already been validated and carry a recomputed training load.
type ImportPlayer struct {
	Name     string
	Sessions []Session
}

// ParseImport decodes an import payload of the form {"players": [...]}.
// The payload must contain a players array. Entries without a name and
// sessions that fail validation are dropped silently.
func ParseImport(body []byte) ([]ImportPlayer, error) {
	var env struct {
		Players json.RawMessage `json:"players"`
	}
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("%w: invalid JSON: %v", ErrInvalidInput, err)
	}

	var entries []json.RawMessage
	if err := json.Unmarshal(env.Players, &entries); err != nil || entries == nil {
		return nil, fmt.Errorf("%w: players must be an array", ErrInvalidInput)
	}

	out := make([]ImportPlayer, 0, len(entries))
	for _, raw := range entries {
		var entry struct {
			Name     string          `json:"name"`
			Sessions json.RawMessage `json:"sessions"`
		}
		if err := json.Unmarshal(raw, &entry); err != nil {
			continue
		}
		name := CleanName(entry.Name)
		if name == "" {
			continue
		}
		out = append(out, ImportPlayer{Name: name, Sessions: parseImportSessions(entry.Sessions)})
	}
	return out, nil
}

func parseImportSessions(raw json.RawMessage) []Session {
	var entries []json.RawMessage
	if len(raw) == 0 || json.Unmarshal(raw, &entries) != nil {
		return nil
	}

	var sessions []Session
	for _, e := range entries {
		var in SessionInput
		if err := json.Unmarshal(e, &in); err != nil {
			continue
		}
		s, err := in.Session()
		if err != nil {
			continue
		}
		sessions = append(sessions, s)
	}
	return sessions
}

// ParseReplacement decodes a full-dataset body of the form
// {"players": [...], "version": "..."} for an overwrite. Unlike an import,
// a replacement is rejected as a whole if any player or session is invalid,
// since it becomes the entire store. Missing player ids are generated.
func ParseReplacement(body []byte, now time.Time) (*Dataset, error) {
	var in struct {
		Players *[]struct {
			ID       string         `json:"id"`
			Name     string         `json:"name"`
			Sessions []SessionInput `json:"sessions"`
		} `json:"players"`
		Version string `json:"version"`
	}
	if err := json.Unmarshal(body, &in); err != nil {
		return nil, fmt.Errorf("%w: invalid body: %v", ErrInvalidInput, err)
	}
	if in.Players == nil {
		return nil, fmt.Errorf("%w: players must be an array", ErrInvalidInput)
	}

	ds := NewDataset(now)
	if in.Version != "" {
		ds.Version = in.Version
	}

	ids := make(map[string]bool)
	names := make(map[string]bool)
	for i, p := range *in.Players {
		name := CleanName(p.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: player %d has no name", ErrInvalidInput, i)
		}
		if names[NameKey(name)] {
			return nil, fmt.Errorf("%w: duplicate player name %q", ErrInvalidInput, name)
		}
		names[NameKey(name)] = true

		id := p.ID
		if id == "" {
			id = NewPlayerID(now)
		}
		if ids[id] {
			return nil, fmt.Errorf("%w: duplicate player id %q", ErrInvalidInput, id)
		}
		ids[id] = true

		player := Player{ID: id, Name: name, Sessions: make([]Session, 0, len(p.Sessions))}
		for j, si := range p.Sessions {
			s, err := si.Session()
			if err != nil {
				return nil, fmt.Errorf("player %q session %d: %w", name, j, err)
			}
			player.Sessions = append(player.Sessions, s)
		}
		ds.Players = append(ds.Players, player)
	}
	return ds, nil
}
