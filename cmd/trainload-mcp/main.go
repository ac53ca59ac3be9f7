package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/claude/trainload/internal/client"
	"github.com/claude/trainload/internal/config"
	"github.com/claude/trainload/internal/mcp"
	"github.com/claude/trainload/internal/storage/backend"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	serverURL := flag.String("server", "", "trainload server URL; tools go through its REST API")
	configPath := flag.String("config", "", "path to server config file; opens the store directly instead of -server")
	flag.Parse()

	// stdout carries the MCP protocol, so logs go to stderr.
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	var ds mcp.DataSource
	switch {
	case *serverURL != "" && *configPath != "":
		fmt.Fprintln(os.Stderr, "Error: use either -server or -config, not both")
		os.Exit(1)
	case *serverURL != "":
		c := client.New(*serverURL)
		if err := c.Health(context.Background()); err != nil {
			log.Error("server not reachable", "server", *serverURL, "error", err)
			os.Exit(1)
		}
		ds = c
		log.Info("using remote server", "server", *serverURL)
	case *configPath != "":
		cfg, err := config.Load(*configPath)
		if err != nil {
			log.Error("failed to load config", "error", err)
			os.Exit(1)
		}
		store, err := backend.Open(context.Background(), cfg.Storage, log)
		if err != nil {
			log.Error("failed to open store", "error", err)
			os.Exit(1)
		}
		defer store.Close()
		ds = mcp.StoreSource{Store: store}
	default:
		fmt.Fprintln(os.Stderr, "Usage: trainload-mcp -server <URL> | -config config.yaml")
		flag.PrintDefaults()
		os.Exit(1)
	}

	if err := mcpserver.ServeStdio(mcp.New(ds, Version, log)); err != nil {
		log.Error("mcp server stopped", "error", err)
		os.Exit(1)
	}
}
