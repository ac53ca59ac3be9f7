package mcp

import (
	"context"
	"encoding/json"

	"github.com/claude/trainload/internal/dashboard"
	"github.com/mark3labs/mcp-go/mcp"
)

func (h *handlers) dataset(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	ds, err := h.ds.GetData(ctx)
	if err != nil {
		return nil, err
	}
	return jsonContents(req.Params.URI, ds)
}

func (h *handlers) overview(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	ds, err := h.ds.GetData(ctx)
	if err != nil {
		return nil, err
	}

	summary := map[string]any{
		"overview": dashboard.Overview(ds),
		"players":  dashboard.Players(ds),
		"recent":   dashboard.RecentSessions(ds, dashboard.Tablet.RecentLimit),
	}
	return jsonContents(req.Params.URI, summary)
}

func jsonContents(uri string, v any) ([]mcp.ResourceContents, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
