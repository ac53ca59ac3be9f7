package models

import (
	"errors"
	"strings"
	"testing"
	"time"
)

// TestParseImportDropsInvalidEntries verifies that nameless players and
// incomplete sessions are skipped without failing the import.
func TestParseImportDropsInvalidEntries(t *testing.T) {
	body := `{"players":[
		{"name":"Anna","sessions":[
			{"date":"2024-01-10","duration":60,"rpe":7},
			{"date":"2024-01-11","rpe":5},
			{"duration":30,"rpe":5},
			{"date":"2024-01-12","duration":30}
		]},
		{"sessions":[{"date":"2024-01-10","duration":60,"rpe":7}]},
		{"name":"   "},
		{"name":42},
		{"name":"Ben","sessions":"not-a-list"},
		{"name":"Cleo"}
	]}`

	players, err := ParseImport([]byte(body))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(players) != 3 {
		t.Fatalf("got %d players, want 3: %+v", len(players), players)
	}
	if players[0].Name != "Anna" || len(players[0].Sessions) != 1 {
		t.Errorf("Anna = %+v, want 1 valid session", players[0])
	}
	if players[0].Sessions[0].TrainingLoad != 420 {
		t.Errorf("trainingLoad = %d, want 420", players[0].Sessions[0].TrainingLoad)
	}
	if players[1].Name != "Ben" || len(players[1].Sessions) != 0 {
		t.Errorf("Ben = %+v, want no sessions", players[1])
	}
	if players[2].Name != "Cleo" {
		t.Errorf("third player = %q, want Cleo", players[2].Name)
	}
}

// TestParseImportRequiresArray verifies that a payload without a players
// array is rejected as invalid input.
func TestParseImportRequiresArray(t *testing.T) {
	for _, body := range []string{
		`{}`,
		`{"players":null}`,
		`{"players":{"name":"Anna"}}`,
		`{"players":"Anna"}`,
		`[]`,
		`not json`,
	} {
		if _, err := ParseImport([]byte(body)); !errors.Is(err, ErrInvalidInput) {
			t.Errorf("ParseImport(%s) err = %v, want ErrInvalidInput", body, err)
		}
	}
}

// TestParseReplacement verifies ids are generated when missing, the version
// defaults, and loads are recomputed.
func TestParseReplacement(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	body := `{"players":[
		{"id":"player_1","name":"Max","sessions":[{"date":"2024-01-10","duration":60,"rpe":7,"trainingLoad":1}]},
		{"name":"Anna"}
	]}`

	ds, err := ParseReplacement([]byte(body), now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ds.Version != DefaultVersion {
		t.Errorf("version = %q, want %q", ds.Version, DefaultVersion)
	}
	if len(ds.Players) != 2 {
		t.Fatalf("got %d players, want 2", len(ds.Players))
	}
	if ds.Players[0].ID != "player_1" {
		t.Errorf("id = %q, want player_1", ds.Players[0].ID)
	}
	if got := ds.Players[0].Sessions[0].TrainingLoad; got != 420 {
		t.Errorf("trainingLoad = %d, want 420", got)
	}
	if !strings.HasPrefix(ds.Players[1].ID, "player_") {
		t.Errorf("generated id = %q, want player_ prefix", ds.Players[1].ID)
	}
	if ds.Players[1].Sessions == nil {
		t.Error("sessions should be an empty slice, not nil")
	}
}

// TestParseReplacementRejects verifies that a replacement which would break
// store invariants is refused as a whole.
func TestParseReplacementRejects(t *testing.T) {
	tests := []struct {
		name string
		body string
		want error
	}{
		{"no players", `{"version":"2.0"}`, ErrInvalidInput},
		{"players not array", `{"players":{}}`, ErrInvalidInput},
		{"nameless player", `{"players":[{"id":"a"}]}`, ErrInvalidInput},
		{"duplicate names", `{"players":[{"name":"Anna"},{"name":"ANNA"}]}`, ErrInvalidInput},
		{"duplicate ids", `{"players":[{"id":"x","name":"A"},{"id":"x","name":"B"}]}`, ErrInvalidInput},
		{"bad session", `{"players":[{"name":"A","sessions":[{"date":"2024-01-01","duration":5,"rpe":12}]}]}`, ErrInvalidSession},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseReplacement([]byte(tt.body), time.Now())
			if !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

// TestNormalizeOrder verifies canonical read order: players by name, sessions
// newest first with ties kept in insertion order.
func TestNormalizeOrder(t *testing.T) {
	ds := &Dataset{Players: []Player{
		{ID: "2", Name: "zoe", Sessions: []Session{
			{Date: "2024-01-01", Notes: "first"},
			{Date: "2024-01-05"},
			{Date: "2024-01-01", Notes: "second"},
		}},
		{ID: "1", Name: "Anna"},
	}}
	ds.Normalize()

	if ds.Players[0].Name != "Anna" {
		t.Errorf("first player = %q, want Anna", ds.Players[0].Name)
	}
	if ds.Players[0].Sessions == nil {
		t.Error("nil sessions should normalize to empty slice")
	}
	got := ds.Players[1].Sessions
	if got[0].Date != "2024-01-05" || got[1].Notes != "first" || got[2].Notes != "second" {
		t.Errorf("session order = %+v", got)
	}
	if ds.Version != DefaultVersion {
		t.Errorf("version = %q, want default", ds.Version)
	}
}
