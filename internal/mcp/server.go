// Package mcp exposes the training-load data to LLM agents as MCP tools and
// resources.
package mcp

import (
	"log/slog"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// New creates an MCP server with all tools and resources registered.
func New(ds DataSource, version string, log *slog.Logger) *server.MCPServer {
	s := server.NewMCPServer("trainload", version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithInstructions("trainload training-load tracker. List players, read per-player and team statistics (training load = duration in minutes x RPE 1-10), and record new players and sessions."),
	)

	h := &handlers{ds: ds, log: log, now: time.Now}

	// Tools
	s.AddTools(
		server.ServerTool{Tool: toolListPlayers, Handler: h.listPlayers},
		server.ServerTool{Tool: toolGetOverview, Handler: h.getOverview},
		server.ServerTool{Tool: toolGetPlayerStats, Handler: h.getPlayerStats},
		server.ServerTool{Tool: toolGetRecentSessions, Handler: h.getRecentSessions},
		server.ServerTool{Tool: toolAddPlayer, Handler: h.addPlayer},
		server.ServerTool{Tool: toolAddSession, Handler: h.addSession},
	)

	// Resources
	s.AddResources(
		server.ServerResource{Resource: resDataset, Handler: h.dataset},
		server.ServerResource{Resource: resOverview, Handler: h.overview},
	)

	return s
}

// handlers holds dependencies for MCP tool/resource handlers.
type handlers struct {
	ds  DataSource
	log *slog.Logger
	now func() time.Time
}

// --- Resource definitions ---

var resDataset = mcp.NewResource(
	"trainload://dataset",
	"Dataset",
	mcp.WithResourceDescription("Every player with all recorded sessions, in the same shape as the export file"),
	mcp.WithMIMEType("application/json"),
)

var resOverview = mcp.NewResource(
	"trainload://overview",
	"Team Overview",
	mcp.WithResourceDescription("Team-wide averages and the most recent sessions"),
	mcp.WithMIMEType("application/json"),
)
