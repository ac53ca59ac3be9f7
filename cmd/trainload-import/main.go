package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/claude/trainload/internal/config"
	"github.com/claude/trainload/internal/importer"
	"github.com/claude/trainload/internal/storage/backend"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	path := flag.String("path", "", "export file or directory of *.json exports (required)")
	dryRun := flag.Bool("dry-run", false, "report counts without writing to the store")
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	if *path == "" {
		fmt.Fprintf(os.Stderr, "Usage: trainload-import -config config.yaml -path <file or dir> [-dry-run]\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	// Load config
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	if *dryRun {
		log.Info("DRY RUN mode: no data will be written")
	}

	store, err := backend.Open(ctx, cfg.Storage, log)
	if err != nil {
		log.Error("failed to open store", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	// Run import
	imp := importer.New(store, log, *dryRun)
	stats, err := imp.Import(ctx, *path)
	if err != nil {
		log.Error("import failed", "error", err)
		printStats(log, stats)
		store.Close()
		os.Exit(1)
	}

	printStats(log, stats)
	log.Info("import complete")
}

func printStats(log *slog.Logger, stats *importer.Stats) {
	log.Info("import stats",
		"files_processed", stats.FilesProcessed,
		"files_errored", stats.FilesErrored,
		"players_added", stats.PlayersAdded,
		"players_merged", stats.PlayersMerged,
		"sessions_imported", stats.SessionsImported,
		"sessions_skipped", stats.SessionsSkipped,
	)
}
