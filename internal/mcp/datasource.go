package mcp

import (
	"context"

	"github.com/claude/trainload/internal/client"
	"github.com/claude/trainload/internal/models"
	"github.com/claude/trainload/internal/storage"
)

// DataSource abstracts the data layer for MCP tools. Both a local Store
// (via StoreSource) and *client.Client (remote via REST API) satisfy it.
type DataSource interface {
	GetData(ctx context.Context) (*models.Dataset, error)
	AddPlayer(ctx context.Context, name string) (*models.Player, error)
	AddSession(ctx context.Context, playerID string, s models.Session) (*models.Session, error)
}

// StoreSource serves MCP tools straight from a Store, for the in-process
// /mcp endpoint and for stdio mode without a running server.
type StoreSource struct {
	Store storage.Store
}

func (s StoreSource) GetData(ctx context.Context) (*models.Dataset, error) {
	return s.Store.LoadAll(ctx)
}

func (s StoreSource) AddPlayer(ctx context.Context, name string) (*models.Player, error) {
	return s.Store.InsertPlayer(ctx, name)
}

func (s StoreSource) AddSession(ctx context.Context, playerID string, sess models.Session) (*models.Session, error) {
	return s.Store.AppendSession(ctx, playerID, sess)
}

var (
	_ DataSource = StoreSource{}
	_ DataSource = (*client.Client)(nil)
)
