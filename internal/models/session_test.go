package models

import (
	"encoding/json"
	"errors"
	"math"
	"testing"
)

// TestSessionInputComputesLoad verifies that training load is always
// duration * rpe, regardless of any client-supplied value.
func TestSessionInputComputesLoad(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		wantLoad int
	}{
		{"numbers", `{"date":"2024-01-10","duration":60,"rpe":7,"notes":"Sprint"}`, 420},
		{"numeric strings", `{"date":"2024-01-10","duration":"45","rpe":"4"}`, 180},
		{"integral float", `{"date":"2024-01-10","duration":30.0,"rpe":10}`, 300},
		{"client load ignored", `{"date":"2024-01-10","duration":10,"rpe":2,"trainingLoad":9999}`, 20},
		{"timestamp date", `{"date":"2024-01-10T18:30:00Z","duration":90,"rpe":1}`, 90},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var in SessionInput
			if err := json.Unmarshal([]byte(tt.raw), &in); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			s, err := in.Session()
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if s.TrainingLoad != tt.wantLoad {
				t.Errorf("trainingLoad = %d, want %d", s.TrainingLoad, tt.wantLoad)
			}
			if s.TrainingLoad != s.Duration*s.RPE {
				t.Errorf("trainingLoad %d != duration %d * rpe %d", s.TrainingLoad, s.Duration, s.RPE)
			}
		})
	}
}

// TestSessionInputRejectsInvalid verifies that missing or out-of-range fields
// produce ErrInvalidSession.
func TestSessionInputRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"missing date", `{"duration":60,"rpe":7}`},
		{"blank date", `{"date":"  ","duration":60,"rpe":7}`},
		{"bad date", `{"date":"yesterday","duration":60,"rpe":7}`},
		{"missing duration", `{"date":"2024-01-10","rpe":7}`},
		{"zero duration", `{"date":"2024-01-10","duration":0,"rpe":7}`},
		{"negative duration", `{"date":"2024-01-10","duration":-5,"rpe":7}`},
		{"fractional duration", `{"date":"2024-01-10","duration":12.5,"rpe":7}`},
		{"missing rpe", `{"date":"2024-01-10","duration":60}`},
		{"rpe zero", `{"date":"2024-01-10","duration":60,"rpe":0}`},
		{"rpe eleven", `{"date":"2024-01-10","duration":60,"rpe":11}`},
		{"huge duration", `{"date":"2024-01-10","duration":1000000000000000000,"rpe":10}`},
		{"huge duration string", `{"date":"2024-01-10","duration":"1000000000000000000","rpe":10}`},
		{"duration above max", `{"date":"2024-01-10","duration":214748365,"rpe":1}`},
		{"huge float duration", `{"date":"2024-01-10","duration":1e18,"rpe":10}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var in SessionInput
			if err := json.Unmarshal([]byte(tt.raw), &in); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			_, err := in.Session()
			if !errors.Is(err, ErrInvalidSession) {
				t.Errorf("err = %v, want ErrInvalidSession", err)
			}
		})
	}
}

// TestValidateDurationBound verifies the largest accepted duration still
// yields a load that fits a 32-bit column.
func TestValidateDurationBound(t *testing.T) {
	s := Session{Date: "2024-01-10", Duration: MaxDuration, RPE: MaxRPE}
	if err := s.Validate(); err != nil {
		t.Fatalf("Validate(MaxDuration) = %v", err)
	}
	if load := s.WithLoad().TrainingLoad; load <= 0 || load > math.MaxInt32 {
		t.Errorf("trainingLoad = %d, want within int32", load)
	}

	s.Duration++
	if err := s.Validate(); !errors.Is(err, ErrInvalidSession) {
		t.Errorf("Validate(MaxDuration+1) = %v, want ErrInvalidSession", err)
	}
}

// TestCompareDates verifies chronological ordering across date and timestamp forms.
func TestCompareDates(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"2024-01-10", "2024-01-11", -1},
		{"2024-02-01", "2024-01-31", 1},
		{"2024-01-10", "2024-01-10", 0},
		{"2024-01-10", "2024-01-10T12:00:00Z", -1},
		{"garbage", "2024-01-10", 1},
	}
	for _, tt := range tests {
		if got := CompareDates(tt.a, tt.b); got != tt.want {
			t.Errorf("CompareDates(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}
