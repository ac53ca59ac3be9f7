package models

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

const (
	MinRPE = 1
	MaxRPE = 10

	// MaxDuration keeps duration*MaxRPE within a 32-bit INTEGER column.
	MaxDuration = math.MaxInt32 / MaxRPE
)

// Session is a single recorded training session.
type Session struct {
	Date         string `json:"date"`
	Duration     int    `json:"duration"`
	RPE          int    `json:"rpe"`
	TrainingLoad int    `json:"trainingLoad"`
	Notes        string `json:"notes"`
}

// TrainingLoad is duration (minutes) times RPE.
func TrainingLoad(duration, rpe int) int {
	return duration * rpe
}

// WithLoad returns a copy of s with TrainingLoad recomputed from duration and RPE.
func (s Session) WithLoad() Session {
	s.TrainingLoad = TrainingLoad(s.Duration, s.RPE)
	return s
}

// Validate checks the required fields of a session. The stored training load
// is not inspected; callers recompute it with WithLoad.
func (s Session) Validate() error {
	if strings.TrimSpace(s.Date) == "" {
		return fmt.Errorf("%w: date is required", ErrInvalidSession)
	}
	if _, err := ParseDate(s.Date); err != nil {
		return fmt.Errorf("%w: date %q is not an ISO 8601 date", ErrInvalidSession, s.Date)
	}
	if s.Duration <= 0 {
		return fmt.Errorf("%w: duration must be a positive number of minutes", ErrInvalidSession)
	}
	if s.Duration > MaxDuration {
		return fmt.Errorf("%w: duration must be at most %d minutes", ErrInvalidSession, MaxDuration)
	}
	if s.RPE < MinRPE || s.RPE > MaxRPE {
		return fmt.Errorf("%w: rpe must be between %d and %d", ErrInvalidSession, MinRPE, MaxRPE)
	}
	return nil
}

// SessionInput is a session as received over the wire. Numeric fields accept
// JSON numbers or numeric strings. A client-supplied trainingLoad is accepted
// but never used.
type SessionInput struct {
	Date         string      `json:"date"`
	Duration     json.Number `json:"duration"`
	RPE          json.Number `json:"rpe"`
	TrainingLoad json.Number `json:"trainingLoad,omitempty"`
	Notes        string      `json:"notes"`
}

// Session validates the input and returns the session with its training load computed.
func (in SessionInput) Session() (Session, error) {
	s := Session{
		Date:  strings.TrimSpace(in.Date),
		Notes: in.Notes,
	}
	if s.Date == "" {
		return Session{}, fmt.Errorf("%w: date is required", ErrInvalidSession)
	}

	var ok bool
	if s.Duration, ok = wholeNumber(in.Duration); !ok {
		return Session{}, fmt.Errorf("%w: duration must be a whole number of minutes", ErrInvalidSession)
	}
	if s.RPE, ok = wholeNumber(in.RPE); !ok {
		return Session{}, fmt.Errorf("%w: rpe must be a whole number", ErrInvalidSession)
	}

	if err := s.Validate(); err != nil {
		return Session{}, err
	}
	return s.WithLoad(), nil
}

// wholeNumber parses n as an integer. "60" and "60.0" are accepted, "60.5" is
// not, and neither is anything outside the 32-bit range.
func wholeNumber(n json.Number) (int, bool) {
	if n == "" {
		return 0, false
	}
	if i, err := strconv.Atoi(n.String()); err == nil {
		if i > math.MaxInt32 || i < math.MinInt32 {
			return 0, false
		}
		return i, true
	}
	f, err := n.Float64()
	if err != nil || f != math.Trunc(f) || math.Abs(f) > math.MaxInt32 {
		return 0, false
	}
	return int(f), true
}

// ParseDate accepts a calendar date (2006-01-02) or an RFC 3339 timestamp.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", s)
	if err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

// CompareDates orders two session dates chronologically. Unparseable dates
// fall back to string comparison.
func CompareDates(a, b string) int {
	ta, errA := ParseDate(a)
	tb, errB := ParseDate(b)
	if errA != nil || errB != nil {
		return strings.Compare(a, b)
	}
	return ta.Compare(tb)
}
