// Package storagetest holds the behavioural checks every storage.Store
// implementation must pass. Store packages call Run from their own tests.
package storagetest

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/claude/trainload/internal/models"
	"github.com/claude/trainload/internal/storage"
)

// Opener returns a fresh, empty store for one subtest.
type Opener func(t *testing.T) storage.Store

// Run executes the store contract against stores produced by open.
func Run(t *testing.T, open Opener) {
	t.Helper()
	tests := []struct {
		name string
		fn   func(t *testing.T, s storage.Store)
	}{
		{"EmptyDataset", testEmptyDataset},
		{"InsertPlayer", testInsertPlayer},
		{"DuplicateNameCaseInsensitive", testDuplicateName},
		{"AppendSessionComputesLoad", testAppendSession},
		{"AppendSessionUnknownPlayer", testAppendSessionUnknownPlayer},
		{"AppendSessionInvalid", testAppendSessionInvalid},
		{"OversizedDurationRejected", testOversizedDurationRejected},
		{"DeletePlayerCascades", testDeletePlayerCascades},
		{"DeleteUnknownPlayer", testDeleteUnknownPlayer},
		{"MergeImportExistingPlayer", testMergeImportExisting},
		{"MergeImportNewPlayers", testMergeImportNew},
		{"ReplaceAll", testReplaceAll},
		{"ClearAllKeepsVersion", testClearAll},
		{"UpdatedAtAdvances", testUpdatedAtAdvances},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := open(t)
			t.Cleanup(func() { _ = s.Close() })
			tt.fn(t, s)
		})
	}
}

func mustLoad(t *testing.T, s storage.Store) *models.Dataset {
	t.Helper()
	ds, err := s.LoadAll(context.Background())
	if err != nil {
		t.Fatalf("LoadAll: %v", err)
	}
	return ds
}

func mustInsert(t *testing.T, s storage.Store, name string) *models.Player {
	t.Helper()
	p, err := s.InsertPlayer(context.Background(), name)
	if err != nil {
		t.Fatalf("InsertPlayer(%q): %v", name, err)
	}
	return p
}

func session(date string, duration, rpe int, notes string) models.Session {
	return models.Session{Date: date, Duration: duration, RPE: rpe, Notes: notes}
}

func testEmptyDataset(t *testing.T, s storage.Store) {
	ds := mustLoad(t, s)
	if ds.Players == nil || len(ds.Players) != 0 {
		t.Errorf("players = %v, want empty slice", ds.Players)
	}
	if ds.Version != models.DefaultVersion {
		t.Errorf("version = %q, want %q", ds.Version, models.DefaultVersion)
	}
}

func testInsertPlayer(t *testing.T, s storage.Store) {
	p := mustInsert(t, s, "  Max ")
	if p.ID == "" {
		t.Error("expected generated id")
	}
	if p.Name != "Max" {
		t.Errorf("name = %q, want trimmed %q", p.Name, "Max")
	}
	if p.Sessions == nil || len(p.Sessions) != 0 {
		t.Errorf("sessions = %v, want empty", p.Sessions)
	}

	ds := mustLoad(t, s)
	if len(ds.Players) != 1 || ds.Players[0].ID != p.ID {
		t.Errorf("players = %+v, want the inserted player", ds.Players)
	}

	if _, err := s.InsertPlayer(context.Background(), "   "); !errors.Is(err, models.ErrInvalidInput) {
		t.Errorf("blank name err = %v, want ErrInvalidInput", err)
	}
}

func testDuplicateName(t *testing.T, s storage.Store) {
	mustInsert(t, s, "Anna")
	_, err := s.InsertPlayer(context.Background(), "anna")
	if !errors.Is(err, storage.ErrDuplicatePlayer) {
		t.Fatalf("err = %v, want ErrDuplicatePlayer", err)
	}
	if n := len(mustLoad(t, s).Players); n != 1 {
		t.Errorf("got %d players after duplicate, want 1", n)
	}
}

func testAppendSession(t *testing.T, s storage.Store) {
	p := mustInsert(t, s, "Max")
	in := session("2024-01-10", 60, 7, "Sprint")
	in.TrainingLoad = 1 // must be ignored

	got, err := s.AppendSession(context.Background(), p.ID, in)
	if err != nil {
		t.Fatalf("AppendSession: %v", err)
	}
	want := models.Session{Date: "2024-01-10", Duration: 60, RPE: 7, TrainingLoad: 420, Notes: "Sprint"}
	if *got != want {
		t.Errorf("session = %+v, want %+v", *got, want)
	}

	ds := mustLoad(t, s)
	if len(ds.Players[0].Sessions) != 1 || ds.Players[0].Sessions[0] != want {
		t.Errorf("stored sessions = %+v, want [%+v]", ds.Players[0].Sessions, want)
	}
}

func testAppendSessionUnknownPlayer(t *testing.T, s storage.Store) {
	_, err := s.AppendSession(context.Background(), "player_missing", session("2024-01-10", 60, 7, ""))
	if !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func testAppendSessionInvalid(t *testing.T, s storage.Store) {
	p := mustInsert(t, s, "Max")
	for _, bad := range []models.Session{
		session("", 60, 7, ""),
		session("2024-01-10", 0, 7, ""),
		session("2024-01-10", 60, 0, ""),
		session("2024-01-10", 60, 11, ""),
		session("2024-01-10", models.MaxDuration+1, 1, ""),
		session("2024-01-10", math.MaxInt, 10, ""),
	} {
		if _, err := s.AppendSession(context.Background(), p.ID, bad); !errors.Is(err, storage.ErrInvalidSession) {
			t.Errorf("AppendSession(%+v) err = %v, want ErrInvalidSession", bad, err)
		}
	}
	if n := mustLoad(t, s).SessionCount(); n != 0 {
		t.Errorf("stored %d sessions, want 0", n)
	}
}

func testOversizedDurationRejected(t *testing.T, s storage.Store) {
	ctx := context.Background()
	p := mustInsert(t, s, "Max")

	huge := session("2024-01-10", math.MaxInt, 10, "")
	if _, err := s.AppendSession(ctx, p.ID, huge); !errors.Is(err, storage.ErrInvalidSession) {
		t.Errorf("AppendSession err = %v, want ErrInvalidSession", err)
	}
	if _, err := s.MergeImport(ctx, []models.ImportPlayer{{Name: "Max", Sessions: []models.Session{huge}}}); err != nil {
		t.Fatalf("MergeImport: %v", err)
	}

	largest := session("2024-01-11", models.MaxDuration, models.MaxRPE, "")
	saved, err := s.AppendSession(ctx, p.ID, largest)
	if err != nil {
		t.Fatalf("AppendSession(MaxDuration): %v", err)
	}
	if saved.TrainingLoad != models.MaxDuration*models.MaxRPE {
		t.Errorf("trainingLoad = %d, want %d", saved.TrainingLoad, models.MaxDuration*models.MaxRPE)
	}

	ds := mustLoad(t, s)
	if n := ds.SessionCount(); n != 1 {
		t.Fatalf("stored %d sessions, want only the largest valid one", n)
	}
	if got := ds.Players[0].Sessions[0]; got.TrainingLoad != got.Duration*got.RPE {
		t.Errorf("stored session %+v breaks the load invariant", got)
	}
}

func testDeletePlayerCascades(t *testing.T, s storage.Store) {
	ctx := context.Background()
	keep := mustInsert(t, s, "Keep")
	gone := mustInsert(t, s, "Gone")
	for _, p := range []*models.Player{keep, gone} {
		if _, err := s.AppendSession(ctx, p.ID, session("2024-01-10", 30, 5, p.Name)); err != nil {
			t.Fatalf("AppendSession: %v", err)
		}
	}

	if err := s.DeletePlayer(ctx, gone.ID); err != nil {
		t.Fatalf("DeletePlayer: %v", err)
	}

	ds := mustLoad(t, s)
	if len(ds.Players) != 1 || ds.Players[0].ID != keep.ID {
		t.Fatalf("players = %+v, want only Keep", ds.Players)
	}
	if ds.SessionCount() != 1 || ds.Players[0].Sessions[0].Notes != "Keep" {
		t.Errorf("sessions = %+v, want only Keep's session", ds.Players[0].Sessions)
	}

	// A new player reusing the name must not inherit old sessions.
	again := mustInsert(t, s, "Gone")
	ds = mustLoad(t, s)
	for _, p := range ds.Players {
		if p.ID == again.ID && len(p.Sessions) != 0 {
			t.Errorf("recreated player has %d sessions, want 0", len(p.Sessions))
		}
	}
}

func testDeleteUnknownPlayer(t *testing.T, s storage.Store) {
	if err := s.DeletePlayer(context.Background(), "player_missing"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func testMergeImportExisting(t *testing.T, s storage.Store) {
	anna := mustInsert(t, s, "Anna")

	added, err := s.MergeImport(context.Background(), []models.ImportPlayer{{
		Name: "ANNA",
		Sessions: []models.Session{
			session("2024-01-10", 60, 7, "ok"),
			session("2024-01-11", 0, 7, "dropped"),
		},
	}})
	if err != nil {
		t.Fatalf("MergeImport: %v", err)
	}
	if added != 0 {
		t.Errorf("added = %d, want 0", added)
	}

	ds := mustLoad(t, s)
	if len(ds.Players) != 1 || ds.Players[0].ID != anna.ID {
		t.Fatalf("players = %+v, want only the existing Anna", ds.Players)
	}
	sessions := ds.Players[0].Sessions
	if len(sessions) != 1 || sessions[0].TrainingLoad != 420 {
		t.Errorf("sessions = %+v, want one with load 420", sessions)
	}
}

func testMergeImportNew(t *testing.T, s storage.Store) {
	added, err := s.MergeImport(context.Background(), []models.ImportPlayer{
		{Name: "Ben", Sessions: []models.Session{session("2024-02-01", 45, 4, "")}},
		{Name: ""},
		{Name: "ben", Sessions: []models.Session{session("2024-02-02", 30, 3, "")}},
		{Name: "Cleo"},
	})
	if err != nil {
		t.Fatalf("MergeImport: %v", err)
	}
	if added != 2 {
		t.Errorf("added = %d, want 2", added)
	}

	ds := mustLoad(t, s)
	if len(ds.Players) != 2 {
		t.Fatalf("got %d players, want 2", len(ds.Players))
	}
	ben := ds.Players[0]
	if ben.Name != "Ben" || len(ben.Sessions) != 2 {
		t.Errorf("Ben = %+v, want 2 merged sessions", ben)
	}
	if ben.Sessions[0].Date != "2024-02-02" {
		t.Errorf("first session date = %q, want newest first", ben.Sessions[0].Date)
	}
}

func testReplaceAll(t *testing.T, s storage.Store) {
	ctx := context.Background()
	mustInsert(t, s, "Old")

	err := s.ReplaceAll(ctx, &models.Dataset{
		Version: "2.0",
		Players: []models.Player{
			{ID: "player_a", Name: "Zed", Sessions: []models.Session{{Date: "2024-01-01", Duration: 10, RPE: 3, TrainingLoad: 5}}},
			{ID: "player_b", Name: "Amy"},
		},
	})
	if err != nil {
		t.Fatalf("ReplaceAll: %v", err)
	}

	ds := mustLoad(t, s)
	if ds.Version != "2.0" {
		t.Errorf("version = %q, want 2.0", ds.Version)
	}
	if len(ds.Players) != 2 || ds.Players[0].ID != "player_b" || ds.Players[1].ID != "player_a" {
		t.Fatalf("players = %+v, want Amy then Zed", ds.Players)
	}
	if got := ds.Players[1].Sessions[0].TrainingLoad; got != 30 {
		t.Errorf("trainingLoad = %d, want recomputed 30", got)
	}

	err = s.ReplaceAll(ctx, &models.Dataset{Players: []models.Player{{ID: "x", Name: "A"}, {ID: "y", Name: "a"}}})
	if !errors.Is(err, models.ErrInvalidInput) {
		t.Errorf("duplicate names err = %v, want ErrInvalidInput", err)
	}
	if n := len(mustLoad(t, s).Players); n != 2 {
		t.Errorf("failed replace changed the store: %d players", n)
	}
}

func testClearAll(t *testing.T, s storage.Store) {
	ctx := context.Background()
	if err := s.ReplaceAll(ctx, &models.Dataset{Version: "3.1", Players: []models.Player{{ID: "p", Name: "P"}}}); err != nil {
		t.Fatalf("ReplaceAll: %v", err)
	}
	if err := s.ClearAll(ctx); err != nil {
		t.Fatalf("ClearAll: %v", err)
	}
	ds := mustLoad(t, s)
	if len(ds.Players) != 0 {
		t.Errorf("players = %+v, want none", ds.Players)
	}
	if ds.Version != "3.1" {
		t.Errorf("version = %q, want preserved 3.1", ds.Version)
	}
}

func testUpdatedAtAdvances(t *testing.T, s storage.Store) {
	before := mustLoad(t, s).UpdatedAt
	mustInsert(t, s, "Max")
	after := mustLoad(t, s).UpdatedAt
	if after.Before(before) {
		t.Errorf("updatedAt went backwards: %v -> %v", before, after)
	}
	if after.IsZero() {
		t.Error("updatedAt not set")
	}
}
