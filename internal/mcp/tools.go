package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/claude/trainload/internal/dashboard"
	"github.com/claude/trainload/internal/models"
	"github.com/claude/trainload/internal/storage"
	"github.com/mark3labs/mcp-go/mcp"
)

// findPlayer resolves ref as a player id first, then as a case-insensitive name.
func findPlayer(ds *models.Dataset, ref string) (*models.Player, bool) {
	i := ds.PlayerIndex(ref)
	if i < 0 {
		i = ds.PlayerIndexByName(ref)
	}
	if i < 0 {
		return nil, false
	}
	return &ds.Players[i], true
}

// --- Tool definitions ---

var toolListPlayers = mcp.NewTool("list_players",
	mcp.WithDescription("List all players with their id and number of recorded sessions."),
)

var toolGetOverview = mcp.NewTool("get_overview",
	mcp.WithDescription("Team-wide statistics: player count, session count, average RPE and average training load."),
)

var toolGetPlayerStats = mcp.NewTool("get_player_stats",
	mcp.WithDescription("Statistics for one player (sessions, average RPE, average load, total minutes) plus the training-load trend of the last sessions."),
	mcp.WithString("player", mcp.Required(), mcp.Description("Player id or name (case-insensitive)")),
	mcp.WithNumber("limit", mcp.Description("Number of trend points. Defaults to 15.")),
)

var toolGetRecentSessions = mcp.NewTool("get_recent_sessions",
	mcp.WithDescription("Most recent sessions across all players, newest first, each with the player's name."),
	mcp.WithString("profile", mcp.Description("View profile selecting the default limit. Defaults to desktop."), mcp.Enum("desktop", "tablet")),
	mcp.WithNumber("limit", mcp.Description("Maximum number of sessions. Overrides the profile default.")),
	mcp.WithString("sort", mcp.Description("Sort column. Defaults to date, newest first."), mcp.Enum("date", "player", "duration", "rpe", "load", "notes")),
)

var toolAddPlayer = mcp.NewTool("add_player",
	mcp.WithDescription("Create a new player. Names are unique ignoring case."),
	mcp.WithString("name", mcp.Required(), mcp.Description("Player name")),
)

var toolAddSession = mcp.NewTool("add_session",
	mcp.WithDescription("Record a training session for a player. Training load is computed as duration x RPE."),
	mcp.WithString("player", mcp.Required(), mcp.Description("Player id or name (case-insensitive)")),
	mcp.WithNumber("duration", mcp.Required(), mcp.Description("Duration in minutes (positive whole number)")),
	mcp.WithNumber("rpe", mcp.Required(), mcp.Description("Rating of perceived exertion, 1-10")),
	mcp.WithString("date", mcp.Description("Session date (YYYY-MM-DD). Defaults to today.")),
	mcp.WithString("notes", mcp.Description("Free-text notes")),
)

// --- Tool handlers ---

func (h *handlers) listPlayers(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ds, err := h.ds.GetData(ctx)
	if err != nil {
		h.log.Error("mcp list_players", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	return jsonResult(dashboard.Players(ds))
}

func (h *handlers) getOverview(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ds, err := h.ds.GetData(ctx)
	if err != nil {
		h.log.Error("mcp get_overview", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	return jsonResult(dashboard.Overview(ds))
}

func (h *handlers) getPlayerStats(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ref, err := req.RequireString("player")
	if err != nil {
		return mcp.NewToolResultError("player parameter is required"), nil
	}
	limit := req.GetInt("limit", dashboard.Desktop.TrendLimit)

	ds, err := h.ds.GetData(ctx)
	if err != nil {
		h.log.Error("mcp get_player_stats", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	p, ok := findPlayer(ds, ref)
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("unknown player %q", ref)), nil
	}

	return jsonResult(dashboard.PlayerView{
		ID:    p.ID,
		Name:  p.Name,
		Stats: dashboard.PlayerStats(*p),
		Trend: dashboard.Trend(*p, limit),
	})
}

func (h *handlers) getRecentSessions(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	profile, err := dashboard.ProfileByName(req.GetString("profile", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	limit := req.GetInt("limit", profile.RecentLimit)

	ds, err := h.ds.GetData(ctx)
	if err != nil {
		h.log.Error("mcp get_recent_sessions", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	recent := dashboard.RecentSessions(ds, limit)

	if col := req.GetString("sort", ""); col != "" {
		c, err := dashboard.ParseColumn(col)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		// numbers read best largest first, text alphabetically
		asc := c == dashboard.ColPlayer || c == dashboard.ColNotes
		dashboard.SortRecent(recent, c, asc)
	}
	return jsonResult(recent)
}

func (h *handlers) addPlayer(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("name")
	if err != nil || models.CleanName(name) == "" {
		return mcp.NewToolResultError("name parameter is required"), nil
	}

	p, err := h.ds.AddPlayer(ctx, name)
	if err != nil {
		return h.mutationError("add_player", err), nil
	}
	return jsonResult(p)
}

// addSessionArgs decodes numbers through SessionInput so that the same
// whole-number rules apply as on the REST API.
type addSessionArgs struct {
	Player string `json:"player"`
	models.SessionInput
}

func (h *handlers) addSession(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args addSessionArgs
	raw, _ := json.Marshal(req.Params.Arguments)
	if err := json.Unmarshal(raw, &args); err != nil {
		return mcp.NewToolResultError("invalid arguments: " + err.Error()), nil
	}
	if strings.TrimSpace(args.Player) == "" {
		return mcp.NewToolResultError("player parameter is required"), nil
	}
	if strings.TrimSpace(args.Date) == "" {
		args.Date = dashboard.Today(h.now())
	}
	sess, err := args.Session()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	ds, err := h.ds.GetData(ctx)
	if err != nil {
		h.log.Error("mcp add_session", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	p, ok := findPlayer(ds, args.Player)
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("unknown player %q", args.Player)), nil
	}

	saved, err := h.ds.AddSession(ctx, p.ID, sess)
	if err != nil {
		return h.mutationError("add_session", err), nil
	}
	return jsonResult(saved)
}

// mutationError turns expected rejections into readable tool errors and logs
// anything else.
func (h *handlers) mutationError(tool string, err error) *mcp.CallToolResult {
	switch {
	case errors.Is(err, storage.ErrDuplicatePlayer),
		errors.Is(err, storage.ErrNotFound),
		errors.Is(err, models.ErrInvalidSession),
		errors.Is(err, models.ErrInvalidInput):
		return mcp.NewToolResultError(err.Error())
	}
	h.log.Error("mcp "+tool, "error", err)
	return mcp.NewToolResultError("write failed: " + err.Error())
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	result, err := mcp.NewToolResultJSON(v)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}
