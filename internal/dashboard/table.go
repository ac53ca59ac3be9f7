package dashboard

import (
	"fmt"
	"slices"
	"strings"

	"github.com/claude/trainload/internal/models"
)

// Column identifies a column of the recent-sessions table.
type Column int

const (
	ColDate Column = iota
	ColPlayer
	ColDuration
	ColRPE
	ColLoad
	ColNotes
)

var columnNames = []string{"date", "player", "duration", "rpe", "load", "notes"}

func (c Column) String() string {
	if c < 0 || int(c) >= len(columnNames) {
		return fmt.Sprintf("Column(%d)", int(c))
	}
	return columnNames[c]
}

// ParseColumn maps a column name to a Column.
func ParseColumn(name string) (Column, error) {
	i := slices.Index(columnNames, strings.ToLower(strings.TrimSpace(name)))
	if i < 0 {
		return 0, fmt.Errorf("unknown column %q (want one of %s)", name, strings.Join(columnNames, ", "))
	}
	return Column(i), nil
}

// SortRecent sorts rows in place by column. Dates compare chronologically,
// duration, RPE and load numerically, player and notes as strings.
func SortRecent(rows []RecentSession, col Column, ascending bool) {
	cmp := func(a, b RecentSession) int {
		switch col {
		case ColDate:
			return models.CompareDates(a.Date, b.Date)
		case ColPlayer:
			return strings.Compare(a.PlayerName, b.PlayerName)
		case ColDuration:
			return a.Duration - b.Duration
		case ColRPE:
			return a.RPE - b.RPE
		case ColLoad:
			return loadOf(a.Session) - loadOf(b.Session)
		case ColNotes:
			return strings.Compare(a.Notes, b.Notes)
		}
		return 0
	}
	slices.SortStableFunc(rows, func(a, b RecentSession) int {
		if ascending {
			return cmp(a, b)
		}
		return cmp(b, a)
	})
}

// SortState remembers the direction of each column. Clicking a column the
// first time sorts ascending; each further click flips it.
type SortState struct {
	dirs map[Column]bool
}

// Toggle flips col and returns the direction to sort in.
func (s *SortState) Toggle(col Column) (ascending bool) {
	if s.dirs == nil {
		s.dirs = make(map[Column]bool)
	}
	asc, seen := s.dirs[col]
	if !seen {
		asc = true
	} else {
		asc = !asc
	}
	s.dirs[col] = asc
	return asc
}
