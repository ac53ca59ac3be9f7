package dashboard

import (
	"testing"

	"github.com/claude/trainload/internal/models"
)

func rows() []RecentSession {
	return []RecentSession{
		{PlayerName: "Ben", Session: models.Session{Date: "2024-01-10", Duration: 45, RPE: 9, TrainingLoad: 405, Notes: "b"}},
		{PlayerName: "Anna", Session: models.Session{Date: "2024-01-12", Duration: 120, RPE: 2, TrainingLoad: 240, Notes: "c"}},
		{PlayerName: "Cleo", Session: models.Session{Date: "2023-12-31", Duration: 9, RPE: 5, TrainingLoad: 45, Notes: "a"}},
	}
}

// TestSortRecent verifies each column's comparison in both directions.
func TestSortRecent(t *testing.T) {
	tests := []struct {
		col  Column
		asc  bool
		want []string
	}{
		{ColDate, true, []string{"Cleo", "Ben", "Anna"}},
		{ColDate, false, []string{"Anna", "Ben", "Cleo"}},
		{ColPlayer, true, []string{"Anna", "Ben", "Cleo"}},
		// numeric, so 9 sorts before 45 and 120
		{ColDuration, true, []string{"Cleo", "Ben", "Anna"}},
		{ColRPE, false, []string{"Ben", "Cleo", "Anna"}},
		{ColLoad, true, []string{"Cleo", "Anna", "Ben"}},
		{ColNotes, true, []string{"Cleo", "Ben", "Anna"}},
	}
	for _, tt := range tests {
		t.Run(tt.col.String(), func(t *testing.T) {
			r := rows()
			SortRecent(r, tt.col, tt.asc)
			for i, name := range tt.want {
				if r[i].PlayerName != name {
					t.Fatalf("order = %v, want %v", names(r), tt.want)
				}
			}
		})
	}
}

func names(r []RecentSession) []string {
	out := make([]string, len(r))
	for i := range r {
		out[i] = r[i].PlayerName
	}
	return out
}

// TestSortStateToggle verifies ascending on first click and flipping after.
func TestSortStateToggle(t *testing.T) {
	var s SortState
	if !s.Toggle(ColLoad) {
		t.Error("first toggle should be ascending")
	}
	if s.Toggle(ColLoad) {
		t.Error("second toggle should be descending")
	}
	if !s.Toggle(ColDate) {
		t.Error("other column starts ascending")
	}
	if !s.Toggle(ColLoad) {
		t.Error("third toggle should be ascending again")
	}
}

// TestParseColumn verifies column name lookup.
func TestParseColumn(t *testing.T) {
	c, err := ParseColumn(" RPE ")
	if err != nil || c != ColRPE {
		t.Errorf("ParseColumn = %v, %v", c, err)
	}
	if _, err := ParseColumn("speed"); err == nil {
		t.Error("expected error")
	}
}
