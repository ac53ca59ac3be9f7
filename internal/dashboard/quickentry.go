package dashboard

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/claude/trainload/internal/models"
)

const (
	// MaxDurationDigits caps keypad entry at 999 minutes.
	MaxDurationDigits = 3
	// MaxKeypadDuration is the largest value the keypad can show.
	MaxKeypadDuration = 999
)

// DurationPresets are the one-tap durations offered on the tablet.
var DurationPresets = []int{30, 45, 60, 75, 90, 120}

// ErrIncomplete is returned by QuickEntry.Session before a player, a
// positive duration and an RPE have all been chosen.
var ErrIncomplete = errors.New("quick entry needs a player, a duration and an RPE")

// QuickEntry is the tablet's keypad entry state. The zero value is empty.
type QuickEntry struct {
	PlayerID string
	digits   string
	RPE      int
}

// PressDigit appends a keypad digit. Leading zeros are dropped and input
// beyond MaxDurationDigits is ignored.
func (q *QuickEntry) PressDigit(d int) {
	if d < 0 || d > 9 || len(q.digits) >= MaxDurationDigits {
		return
	}
	if q.digits == "" && d == 0 {
		return
	}
	q.digits += strconv.Itoa(d)
}

// Backspace removes the last digit.
func (q *QuickEntry) Backspace() {
	if q.digits != "" {
		q.digits = q.digits[:len(q.digits)-1]
	}
}

// SetDuration replaces the keypad value, as a preset button does. Zero
// clears it; values that do not fit on the keypad are rejected and leave the
// entry unchanged.
func (q *QuickEntry) SetDuration(minutes int) error {
	if minutes < 0 || minutes > MaxKeypadDuration {
		return fmt.Errorf("duration must be between 1 and %d minutes, got %d", MaxKeypadDuration, minutes)
	}
	if minutes == 0 {
		q.digits = ""
		return nil
	}
	q.digits = strconv.Itoa(minutes)
	return nil
}

// Duration is the current keypad value in minutes.
func (q *QuickEntry) Duration() int {
	n, _ := strconv.Atoi(q.digits)
	return n
}

// SelectRPE chooses an RPE; out-of-range values clear it.
func (q *QuickEntry) SelectRPE(rpe int) {
	if rpe < models.MinRPE || rpe > models.MaxRPE {
		q.RPE = 0
		return
	}
	q.RPE = rpe
}

// PreviewLoad is duration*rpe for what has been entered so far.
func (q *QuickEntry) PreviewLoad() int {
	return models.TrainingLoad(q.Duration(), q.RPE)
}

// Ready reports whether the entry can be submitted.
func (q *QuickEntry) Ready() bool {
	return q.PlayerID != "" && q.Duration() > 0 && q.RPE != 0
}

// Session builds the session to submit, dated today.
func (q *QuickEntry) Session(now time.Time) (models.Session, error) {
	if !q.Ready() {
		return models.Session{}, ErrIncomplete
	}
	return models.Session{Date: Today(now), Duration: q.Duration(), RPE: q.RPE}.WithLoad(), nil
}

// Reset clears duration and RPE after a submit. The player stays selected
// so several sessions can be entered in a row.
func (q *QuickEntry) Reset() {
	q.digits = ""
	q.RPE = 0
}
