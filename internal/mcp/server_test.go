package mcp

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/claude/trainload/internal/dashboard"
	"github.com/claude/trainload/internal/models"
	"github.com/claude/trainload/internal/storage/jsonstore"
	"github.com/mark3labs/mcp-go/mcp"
)

func newHandlers(t *testing.T) *handlers {
	t.Helper()
	st, err := jsonstore.Open(filepath.Join(t.TempDir(), "data.json"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { st.Close() })
	return &handlers{
		ds:  StoreSource{Store: st},
		log: slog.New(slog.NewTextHandler(io.Discard, nil)),
		now: func() time.Time { return time.Date(2024, 3, 9, 12, 0, 0, 0, time.UTC) },
	}
}

func call(t *testing.T, fn func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error), args map[string]any) *mcp.CallToolResult {
	t.Helper()
	var req mcp.CallToolRequest
	req.Params.Arguments = args
	res, err := fn(context.Background(), req)
	if err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	return res
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	for _, c := range res.Content {
		switch tc := c.(type) {
		case mcp.TextContent:
			return tc.Text
		case *mcp.TextContent:
			return tc.Text
		}
	}
	t.Fatalf("no text content in %+v", res)
	return ""
}

func decodeResult[T any](t *testing.T, res *mcp.CallToolResult) T {
	t.Helper()
	if res.IsError {
		t.Fatalf("tool error: %s", resultText(t, res))
	}
	var v T
	if err := json.Unmarshal([]byte(resultText(t, res)), &v); err != nil {
		t.Fatalf("decode %q: %v", resultText(t, res), err)
	}
	return v
}

// TestNewRegistersTools verifies that the server builds with every tool.
func TestNewRegistersTools(t *testing.T) {
	h := newHandlers(t)
	s := New(h.ds, "test", h.log)
	if s == nil {
		t.Fatal("New returned nil")
	}
	resp := s.HandleMessage(context.Background(), json.RawMessage(`{"jsonrpc":"2.0","id":1,"method":"tools/list"}`))
	raw, err := json.Marshal(resp)
	if err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"list_players", "get_overview", "get_player_stats", "get_recent_sessions", "add_player", "add_session"} {
		if !strings.Contains(string(raw), `"`+name+`"`) {
			t.Errorf("tool %s not listed in %s", name, raw)
		}
	}
}

// TestAddPlayerAndSession verifies the worked example through the tools:
// session 60 x 7 is stored with load 420 and defaults to today's date.
func TestAddPlayerAndSession(t *testing.T) {
	h := newHandlers(t)

	p := decodeResult[models.Player](t, call(t, h.addPlayer, map[string]any{"name": "Max"}))
	if p.Name != "Max" || p.ID == "" {
		t.Fatalf("player = %+v", p)
	}

	s := decodeResult[models.Session](t, call(t, h.addSession, map[string]any{
		"player": "max", "duration": 60, "rpe": 7,
	}))
	if s.TrainingLoad != 420 || s.Date != "2024-03-09" {
		t.Errorf("session = %+v, want load 420 on 2024-03-09", s)
	}

	list := decodeResult[[]dashboard.PlayerSummary](t, call(t, h.listPlayers, nil))
	if len(list) != 1 || list[0].Sessions != 1 {
		t.Errorf("players = %+v", list)
	}
}

// TestAddSessionRejections verifies tool errors for bad input, unknown
// players and duplicate names.
func TestAddSessionRejections(t *testing.T) {
	h := newHandlers(t)
	call(t, h.addPlayer, map[string]any{"name": "Anna"})

	tests := []struct {
		name string
		fn   func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error)
		args map[string]any
		want string
	}{
		{"rpe out of range", h.addSession, map[string]any{"player": "Anna", "duration": 30, "rpe": 11}, "rpe"},
		{"fractional duration", h.addSession, map[string]any{"player": "Anna", "duration": 30.5, "rpe": 5}, "duration"},
		{"missing player", h.addSession, map[string]any{"duration": 30, "rpe": 5}, "player"},
		{"unknown player", h.addSession, map[string]any{"player": "Zoe", "duration": 30, "rpe": 5}, "unknown player"},
		{"duplicate", h.addPlayer, map[string]any{"name": "anna"}, "already exists"},
		{"blank name", h.addPlayer, map[string]any{"name": "  "}, "name"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := call(t, tt.fn, tt.args)
			if !res.IsError {
				t.Fatalf("expected tool error, got %s", resultText(t, res))
			}
			if msg := resultText(t, res); !strings.Contains(msg, tt.want) {
				t.Errorf("error %q does not mention %q", msg, tt.want)
			}
		})
	}
}

// TestStatsTools verifies overview, per-player stats and recent sessions.
func TestStatsTools(t *testing.T) {
	h := newHandlers(t)
	call(t, h.addPlayer, map[string]any{"name": "Anna"})
	call(t, h.addPlayer, map[string]any{"name": "Ben"})
	call(t, h.addSession, map[string]any{"player": "Anna", "date": "2024-01-10", "duration": 60, "rpe": 7})
	call(t, h.addSession, map[string]any{"player": "Anna", "date": "2024-01-12", "duration": 30, "rpe": 4})
	call(t, h.addSession, map[string]any{"player": "Ben", "date": "2024-01-11", "duration": 45, "rpe": 5})

	ov := decodeResult[dashboard.Stats](t, call(t, h.getOverview, nil))
	if ov.Players != 2 || ov.Sessions != 3 || ov.AvgLoad != 255 || ov.AvgRPE != 5.3 {
		t.Errorf("overview = %+v", ov)
	}

	pv := decodeResult[dashboard.PlayerView](t, call(t, h.getPlayerStats, map[string]any{"player": "anna"}))
	if pv.Stats.TotalMinutes != 90 || len(pv.Trend) != 2 || pv.Trend[0].Label != "10.01.2024" {
		t.Errorf("player view = %+v", pv)
	}

	recent := decodeResult[[]dashboard.RecentSession](t, call(t, h.getRecentSessions, map[string]any{"limit": 2}))
	if len(recent) != 2 || recent[0].Date != "2024-01-12" || recent[1].PlayerName != "Ben" {
		t.Errorf("recent = %+v", recent)
	}

	byLoad := decodeResult[[]dashboard.RecentSession](t, call(t, h.getRecentSessions, map[string]any{"sort": "load"}))
	if byLoad[0].TrainingLoad != 420 {
		t.Errorf("sorted by load = %+v, want 420 first", byLoad)
	}

	if res := call(t, h.getPlayerStats, map[string]any{"player": "nobody"}); !res.IsError {
		t.Error("expected error for unknown player")
	}
	if res := call(t, h.getRecentSessions, map[string]any{"profile": "phone"}); !res.IsError {
		t.Error("expected error for unknown profile")
	}
}

// TestDatasetResource verifies the dataset resource returns the export shape.
func TestDatasetResource(t *testing.T) {
	h := newHandlers(t)
	call(t, h.addPlayer, map[string]any{"name": "Max"})

	var req mcp.ReadResourceRequest
	req.Params.URI = "trainload://dataset"
	contents, err := h.dataset(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	tc, ok := contents[0].(mcp.TextResourceContents)
	if !ok {
		t.Fatalf("contents = %T", contents[0])
	}
	if tc.URI != req.Params.URI || tc.MIMEType != "application/json" {
		t.Errorf("contents meta = %+v", tc)
	}
	var ds models.Dataset
	if err := json.Unmarshal([]byte(tc.Text), &ds); err != nil {
		t.Fatal(err)
	}
	if len(ds.Players) != 1 || ds.Version != models.DefaultVersion {
		t.Errorf("dataset = %+v", ds)
	}
}
