// Package dashboard computes the views shown by the trainload front ends.
// Every function is pure: it reads a dataset snapshot and returns values, so
// front ends own no shared state beyond their client.Mirror.
package dashboard

import (
	"math"
	"slices"
	"time"

	"github.com/claude/trainload/internal/models"
)

// Stats are aggregates over a set of sessions.
type Stats struct {
	Players      int     `json:"players,omitempty"`
	Sessions     int     `json:"sessions"`
	AvgRPE       float64 `json:"avgRpe"`
	AvgLoad      int     `json:"avgLoad"`
	TotalMinutes int     `json:"totalMinutes,omitempty"`
}

// RecentSession is a session flattened out of its player for tables.
type RecentSession struct {
	PlayerID   string `json:"playerId"`
	PlayerName string `json:"playerName"`
	models.Session
}

// TrendPoint is one point of a player's training-load chart.
type TrendPoint struct {
	Label string `json:"label"`
	Date  string `json:"date"`
	Load  int    `json:"load"`
}

// PlayerSummary is a player list row.
type PlayerSummary struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Sessions int    `json:"sessions"`
}

// Overview aggregates across every player. Mean RPE is rounded to one
// decimal, mean load to the nearest integer; both are zero with no sessions.
func Overview(ds *models.Dataset) Stats {
	var all []models.Session
	for _, p := range ds.Players {
		all = append(all, p.Sessions...)
	}
	st := aggregate(all)
	st.Players = len(ds.Players)
	return st
}

// PlayerStats aggregates one player's sessions, including total minutes.
func PlayerStats(p models.Player) Stats {
	st := aggregate(p.Sessions)
	for _, s := range p.Sessions {
		st.TotalMinutes += s.Duration
	}
	return st
}

func aggregate(sessions []models.Session) Stats {
	st := Stats{Sessions: len(sessions)}
	if len(sessions) == 0 {
		return st
	}
	var rpe, load int
	for _, s := range sessions {
		rpe += s.RPE
		load += loadOf(s)
	}
	n := float64(len(sessions))
	st.AvgRPE = math.Round(float64(rpe)/n*10) / 10
	st.AvgLoad = int(math.Round(float64(load) / n))
	return st
}

// loadOf prefers the stored load and falls back to duration*rpe for records
// written without one.
func loadOf(s models.Session) int {
	if s.TrainingLoad != 0 {
		return s.TrainingLoad
	}
	return models.TrainingLoad(s.Duration, s.RPE)
}

// RecentSessions flattens all sessions, newest first, and returns at most
// limit of them. Equal dates keep player then insertion order.
func RecentSessions(ds *models.Dataset, limit int) []RecentSession {
	var out []RecentSession
	for _, p := range ds.Players {
		for _, s := range p.Sessions {
			out = append(out, RecentSession{PlayerID: p.ID, PlayerName: p.Name, Session: s})
		}
	}
	slices.SortStableFunc(out, func(a, b RecentSession) int {
		return models.CompareDates(b.Date, a.Date)
	})
	if limit >= 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// Trend returns the player's last limit sessions in chronological order.
func Trend(p models.Player, limit int) []TrendPoint {
	sessions := slices.Clone(p.Sessions)
	slices.SortStableFunc(sessions, func(a, b models.Session) int {
		return models.CompareDates(a.Date, b.Date)
	})
	if limit >= 0 && len(sessions) > limit {
		sessions = sessions[len(sessions)-limit:]
	}

	points := make([]TrendPoint, 0, len(sessions))
	for _, s := range sessions {
		points = append(points, TrendPoint{Label: FormatDate(s.Date), Date: s.Date, Load: loadOf(s)})
	}
	return points
}

// Players lists every player with its session count.
func Players(ds *models.Dataset) []PlayerSummary {
	out := make([]PlayerSummary, 0, len(ds.Players))
	for _, p := range ds.Players {
		out = append(out, PlayerSummary{ID: p.ID, Name: p.Name, Sessions: len(p.Sessions)})
	}
	return out
}

// FormatDate renders a session date as DD.MM.YYYY. Unparseable dates are
// returned unchanged.
func FormatDate(date string) string {
	t, err := models.ParseDate(date)
	if err != nil {
		return date
	}
	return t.Format("02.01.2006")
}

// Today is the session date for entries recorded now.
func Today(now time.Time) string {
	return now.Format("2006-01-02")
}
