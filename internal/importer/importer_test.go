package importer

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/claude/trainload/internal/storage"
	"github.com/claude/trainload/internal/storage/jsonstore"
)

func newStore(t *testing.T) storage.Store {
	t.Helper()
	st, err := jsonstore.Open(filepath.Join(t.TempDir(), "data.json"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { st.Close() })
	return st
}

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

const exportA = `{"players":[
  {"id":"player_1","name":"Anna","sessions":[
    {"date":"2024-01-10","duration":60,"rpe":7,"trainingLoad":1},
    {"date":"2024-01-11","duration":0,"rpe":7}
  ]},
  {"name":"Ben","sessions":[]}
],"version":"1.0"}`

const exportB = `{"players":[{"name":"anna","sessions":[{"date":"2024-02-01","duration":30,"rpe":"4"}]},{"name":""}]}`

// TestImportDirectory verifies that every file in a directory is merged,
// malformed files are counted, and invalid sessions are reported as skipped.
func TestImportDirectory(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.json", exportA)
	writeFile(t, dir, "b.json", exportB)
	writeFile(t, dir, "c.json", `{"players":"nope"}`)
	writeFile(t, dir, "notes.txt", "ignored")

	st := newStore(t)
	stats, err := New(st, discard, false).Import(context.Background(), dir)
	if err != nil {
		t.Fatal(err)
	}

	want := Stats{FilesProcessed: 2, FilesErrored: 1, PlayersAdded: 2, PlayersMerged: 1, SessionsImported: 2, SessionsSkipped: 1}
	if *stats != want {
		t.Errorf("stats = %+v, want %+v", *stats, want)
	}

	ds, err := st.LoadAll(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(ds.Players) != 2 || ds.SessionCount() != 2 {
		t.Fatalf("dataset = %+v", ds)
	}
	for _, p := range ds.Players {
		for _, s := range p.Sessions {
			if s.TrainingLoad != s.Duration*s.RPE {
				t.Errorf("%s session %+v has inconsistent load", p.Name, s)
			}
		}
	}
}

// TestImportDryRun verifies counts are reported without writing anything.
func TestImportDryRun(t *testing.T) {
	st := newStore(t)
	if _, err := st.InsertPlayer(context.Background(), "Anna"); err != nil {
		t.Fatal(err)
	}
	path := writeFile(t, t.TempDir(), "export.json", exportA)

	stats, err := New(st, discard, true).Import(context.Background(), path)
	if err != nil {
		t.Fatal(err)
	}
	if stats.PlayersAdded != 1 || stats.PlayersMerged != 1 || stats.SessionsImported != 1 {
		t.Errorf("stats = %+v", *stats)
	}

	ds, _ := st.LoadAll(context.Background())
	if len(ds.Players) != 1 || ds.SessionCount() != 0 {
		t.Errorf("dry run wrote data: %+v", ds)
	}
}

// TestImportMissingPath verifies the error for a path that does not exist.
func TestImportMissingPath(t *testing.T) {
	if _, err := New(newStore(t), discard, false).Import(context.Background(), "/does/not/exist"); err == nil {
		t.Error("expected error")
	}
}
