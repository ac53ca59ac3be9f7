package dashboard

import (
	"fmt"
	"testing"
	"time"

	"github.com/claude/trainload/internal/models"
)

func sess(date string, duration, rpe int) models.Session {
	return models.Session{Date: date, Duration: duration, RPE: rpe}.WithLoad()
}

func sampleDataset() *models.Dataset {
	return &models.Dataset{
		Version: models.DefaultVersion,
		Players: []models.Player{
			{ID: "p1", Name: "Anna", Sessions: []models.Session{
				sess("2024-01-12", 30, 4),
				sess("2024-01-10", 60, 7),
			}},
			{ID: "p2", Name: "Ben", Sessions: []models.Session{
				sess("2024-01-11", 45, 5),
			}},
			{ID: "p3", Name: "Cleo"},
		},
	}
}

// TestOverview verifies counts and rounding of the global averages.
func TestOverview(t *testing.T) {
	got := Overview(sampleDataset())
	// rpe (4+7+5)/3 = 5.33, load (120+420+225)/3 = 255
	want := Stats{Players: 3, Sessions: 3, AvgRPE: 5.3, AvgLoad: 255}
	if got != want {
		t.Errorf("Overview = %+v, want %+v", got, want)
	}
}

// TestOverviewEmpty verifies that averages are zero without sessions.
func TestOverviewEmpty(t *testing.T) {
	ds := &models.Dataset{Players: []models.Player{{ID: "p", Name: "A"}}}
	got := Overview(ds)
	if got.Sessions != 0 || got.AvgRPE != 0 || got.AvgLoad != 0 || got.Players != 1 {
		t.Errorf("Overview = %+v", got)
	}
}

// TestPlayerStats verifies per-player aggregates including total minutes.
func TestPlayerStats(t *testing.T) {
	got := PlayerStats(sampleDataset().Players[0])
	want := Stats{Sessions: 2, AvgRPE: 5.5, AvgLoad: 270, TotalMinutes: 90}
	if got != want {
		t.Errorf("PlayerStats = %+v, want %+v", got, want)
	}
}

// TestAverageLoadRounding verifies round-half-up on the mean load.
func TestAverageLoadRounding(t *testing.T) {
	p := models.Player{Sessions: []models.Session{sess("2024-01-01", 1, 1), sess("2024-01-02", 1, 2)}}
	if got := PlayerStats(p).AvgLoad; got != 2 {
		t.Errorf("AvgLoad = %d, want 2 (1.5 rounded)", got)
	}
}

// TestRecentSessions verifies newest-first ordering, player names and the
// limit.
func TestRecentSessions(t *testing.T) {
	got := RecentSessions(sampleDataset(), 2)
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].PlayerName != "Anna" || got[0].Date != "2024-01-12" {
		t.Errorf("first = %+v", got[0])
	}
	if got[1].PlayerName != "Ben" || got[1].TrainingLoad != 225 {
		t.Errorf("second = %+v", got[1])
	}

	if all := RecentSessions(sampleDataset(), -1); len(all) != 3 {
		t.Errorf("unlimited len = %d, want 3", len(all))
	}
}

// TestTrend verifies chronological order, label formatting and keeping only
// the newest points.
func TestTrend(t *testing.T) {
	var p models.Player
	for day := 20; day >= 1; day-- {
		p.Sessions = append(p.Sessions, sess(fmt.Sprintf("2024-03-%02d", day), day, 1))
	}

	got := Trend(p, 15)
	if len(got) != 15 {
		t.Fatalf("len = %d, want 15", len(got))
	}
	if got[0].Date != "2024-03-06" || got[0].Label != "06.03.2024" || got[0].Load != 6 {
		t.Errorf("first = %+v", got[0])
	}
	if got[14].Date != "2024-03-20" {
		t.Errorf("last = %+v", got[14])
	}
}

// TestPlayers verifies session counts in the player list.
func TestPlayers(t *testing.T) {
	got := Players(sampleDataset())
	want := []int{2, 1, 0}
	for i, p := range got {
		if p.Sessions != want[i] {
			t.Errorf("%s sessions = %d, want %d", p.Name, p.Sessions, want[i])
		}
	}
}

// TestFormatDate verifies date rendering and passthrough of bad input.
func TestFormatDate(t *testing.T) {
	tests := []struct{ in, want string }{
		{"2024-01-05", "05.01.2024"},
		{"2024-12-31T18:00:00Z", "31.12.2024"},
		{"not a date", "not a date"},
	}
	for _, tt := range tests {
		if got := FormatDate(tt.in); got != tt.want {
			t.Errorf("FormatDate(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

// TestBandForRPE verifies the band boundaries.
func TestBandForRPE(t *testing.T) {
	tests := []struct {
		rpe  int
		want Band
	}{
		{0, BandNone}, {1, BandLow}, {3, BandLow}, {4, BandModerate}, {6, BandModerate},
		{7, BandHigh}, {8, BandHigh}, {9, BandMaximal}, {10, BandMaximal}, {11, BandNone},
	}
	for _, tt := range tests {
		if got := BandForRPE(tt.rpe); got != tt.want {
			t.Errorf("BandForRPE(%d) = %q, want %q", tt.rpe, got, tt.want)
		}
	}
}

// TestDescribeRPE verifies the scale labels and out-of-range values.
func TestDescribeRPE(t *testing.T) {
	if got := DescribeRPE(1); got != "Very, very light" {
		t.Errorf("DescribeRPE(1) = %q", got)
	}
	if got := DescribeRPE(10); got != "Maximal" {
		t.Errorf("DescribeRPE(10) = %q", got)
	}
	if got := DescribeRPE(0); got != "" {
		t.Errorf("DescribeRPE(0) = %q, want empty", got)
	}
	if got := DescribeRPE(11); got != "" {
		t.Errorf("DescribeRPE(11) = %q, want empty", got)
	}
}

// TestProfiles verifies profile lookup and the limits each applies.
func TestProfiles(t *testing.T) {
	for _, name := range []string{"", "desktop", "Desktop"} {
		if p, err := ProfileByName(name); err != nil || p != Desktop {
			t.Errorf("ProfileByName(%q) = %+v, %v", name, p, err)
		}
	}
	if p, err := ProfileByName("TABLET"); err != nil || p != Tablet {
		t.Errorf("ProfileByName(TABLET) = %+v, %v", p, err)
	}
	if _, err := ProfileByName("phone"); err == nil {
		t.Error("expected error for unknown profile")
	}

	ds := sampleDataset()
	var many models.Player
	many.ID, many.Name = "p9", "Many"
	for i := 1; i <= 25; i++ {
		many.Sessions = append(many.Sessions, sess(fmt.Sprintf("2023-06-%02d", i), 10, 2))
	}
	ds.Players = append(ds.Players, many)

	desk := Desktop.Build(ds, &ds.Players[3])
	if len(desk.Recent) != 20 || len(desk.Selected.Trend) != 15 {
		t.Errorf("desktop recent=%d trend=%d", len(desk.Recent), len(desk.Selected.Trend))
	}
	tab := Tablet.Build(ds, nil)
	if len(tab.Recent) != 10 || tab.Selected != nil {
		t.Errorf("tablet recent=%d selected=%v", len(tab.Recent), tab.Selected)
	}
	if tab.Overview.Sessions != 28 {
		t.Errorf("overview sessions = %d, want 28", tab.Overview.Sessions)
	}
}

// TestToday verifies the date stamp used for new entries.
func TestToday(t *testing.T) {
	now := time.Date(2024, 7, 3, 22, 15, 0, 0, time.UTC)
	if got := Today(now); got != "2024-07-03" {
		t.Errorf("Today = %q", got)
	}
}
