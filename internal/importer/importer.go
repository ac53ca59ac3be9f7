// Package importer merges export files into a store without a running
// server, for restoring backups and seeding a fresh database.
package importer

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/claude/trainload/internal/models"
	"github.com/claude/trainload/internal/storage"
)

// Stats tracks import progress.
type Stats struct {
	FilesProcessed int
	FilesErrored   int

	PlayersAdded     int
	PlayersMerged    int
	SessionsImported int
	SessionsSkipped  int
}

// Importer reads export files and merges them into a Store.
type Importer struct {
	store  storage.Store
	log    *slog.Logger
	dryRun bool
	stats  Stats

	// known holds name keys already in the store, for dry-run counting.
	known map[string]bool
}

// New creates a new Importer.
func New(store storage.Store, log *slog.Logger, dryRun bool) *Importer {
	return &Importer{store: store, log: log, dryRun: dryRun}
}

// Import merges path, which is either a single export file or a directory
// whose *.json files are imported in name order. Unreadable or malformed
// files are counted and skipped; a store failure aborts the run.
func (imp *Importer) Import(ctx context.Context, path string) (*Stats, error) {
	files, err := collectFiles(path)
	if err != nil {
		return &imp.stats, err
	}

	if imp.dryRun {
		ds, err := imp.store.LoadAll(ctx)
		if err != nil {
			return &imp.stats, fmt.Errorf("loading existing players: %w", err)
		}
		imp.known = make(map[string]bool, len(ds.Players))
		for _, p := range ds.Players {
			imp.known[models.NameKey(p.Name)] = true
		}
	}

	for _, f := range files {
		if err := imp.importFile(ctx, f); err != nil {
			return &imp.stats, err
		}
	}
	return &imp.stats, nil
}

func (imp *Importer) importFile(ctx context.Context, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		imp.log.Warn("read failed", "file", path, "error", err)
		imp.stats.FilesErrored++
		return nil
	}

	players, err := models.ParseImport(data)
	if err != nil {
		imp.log.Warn("parse failed", "file", path, "error", err)
		imp.stats.FilesErrored++
		return nil
	}

	valid := 0
	for _, p := range players {
		valid += len(p.Sessions)
	}
	imp.stats.FilesProcessed++
	imp.stats.SessionsImported += valid
	imp.stats.SessionsSkipped += countSessions(data) - valid

	if imp.dryRun {
		for _, p := range players {
			key := models.NameKey(p.Name)
			if imp.known[key] {
				imp.stats.PlayersMerged++
				continue
			}
			imp.known[key] = true
			imp.stats.PlayersAdded++
		}
		return nil
	}

	added, err := imp.store.MergeImport(ctx, players)
	if err != nil {
		return fmt.Errorf("importing %s: %w", filepath.Base(path), err)
	}
	imp.stats.PlayersAdded += added
	imp.stats.PlayersMerged += len(players) - added
	imp.log.Info("file imported", "file", filepath.Base(path), "players", len(players), "added", added)
	return nil
}

func collectFiles(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("import path: %w", err)
	}
	if !info.IsDir() {
		return []string{path}, nil
	}
	files, err := filepath.Glob(filepath.Join(path, "*.json"))
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

// countSessions counts session entries in a payload before validation, so
// that dropped sessions can be reported.
func countSessions(data []byte) int {
	var env struct {
		Players []struct {
			Name     string            `json:"name"`
			Sessions []json.RawMessage `json:"sessions"`
		} `json:"players"`
	}
	if json.Unmarshal(data, &env) != nil {
		return 0
	}
	n := 0
	for _, p := range env.Players {
		if models.CleanName(p.Name) != "" {
			n += len(p.Sessions)
		}
	}
	return n
}
