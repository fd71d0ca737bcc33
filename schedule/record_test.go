/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package schedule

import (
	"errors"
	"testing"
	"time"
)

func TestGameRecordLine(t *testing.T) {
	kickoff := time.Date(2024, time.January, 15, 19, 30, 0, 0, time.UTC)
	rec, err := NewGameRecord("2024-spring", "m3", "EAGLES", kickoff, "EAGLES vs HAWKS")
	if err != nil {
		t.Fatalf("NewGameRecord returned error: %v", err)
	}
	want := "2024-spring|m3|EAGLES|2024-01-15T19:30:00+00:00|EAGLES vs HAWKS"
	if got := rec.Line(); got != want {
		t.Errorf("Line() = %q; want %q", got, want)
	}
}

func TestGameRecordRoundTrip(t *testing.T) {
	cases := []GameRecord{
		{Season: "2024-spring", Division: "m3", Team: "EAGLES",
			Time:        time.Date(2024, time.January, 15, 19, 30, 0, 0, time.UTC),
			Description: "EAGLES vs HAWKS"},
		{Season: "2025-1fall", Division: "c6c", Team: "THE O'BRIENS",
			Time:        time.Date(2025, time.December, 31, 23, 59, 0, 0, time.UTC),
			Description: "THE O'BRIENS vs KICKS & GIGGLES"},
		{Season: "2024-winter", Division: "w1a", Team: "A.B.C.",
			Time:        time.Date(2025, time.February, 1, 0, 5, 0, 0, time.UTC),
			Description: "A.B.C. vs D/E/F"},
	}
	for _, want := range cases {
		t.Run(want.Team, func(t *testing.T) {
			got, err := ParseRecordLine(want.Line() + "\n")
			if err != nil {
				t.Fatalf("ParseRecordLine returned error: %v", err)
			}
			if got.Season != want.Season || got.Division != want.Division ||
				got.Team != want.Team || got.Description != want.Description {
				t.Errorf("round trip mismatch: got %+v; want %+v", got, want)
			}
			if !got.Time.Equal(want.Time) {
				t.Errorf("time = %v; want %v", got.Time, want.Time)
			}
			if got.Time.Sub(want.Time) != 0 {
				t.Errorf("time differs by %v", got.Time.Sub(want.Time))
			}
		})
	}
}

func TestNewGameRecordLocalTime(t *testing.T) {
	pdx, err := time.LoadLocation("America/Los_Angeles")
	if err != nil {
		t.Skipf("no tzdata: %v", err)
	}
	local := time.Date(2024, time.January, 15, 19, 30, 0, 0, pdx)
	rec, err := NewGameRecord("2024-spring", "m3", "EAGLES", local, "EAGLES vs HAWKS")
	if err != nil {
		t.Fatalf("NewGameRecord returned error: %v", err)
	}
	// wall clock is kept, no timezone conversion
	if rec.Time.Hour() != 19 || rec.Time.Minute() != 30 || rec.Time.Location() != time.UTC {
		t.Errorf("Time = %v; want 19:30 wall clock", rec.Time)
	}
}

func TestNewGameRecordInvalid(t *testing.T) {
	kickoff := time.Date(2024, time.January, 15, 19, 30, 0, 0, time.UTC)
	cases := []struct {
		name                        string
		season, division, team, des string
		t                           time.Time
	}{
		{"empty team", "2024-spring", "m3", " ", "A vs B", kickoff},
		{"empty season", "", "m3", "A", "A vs B", kickoff},
		{"pipe in team", "2024-spring", "m3", "A|B", "A|B vs C", kickoff},
		{"newline in description", "2024-spring", "m3", "A", "A vs\nB", kickoff},
		{"zero time", "2024-spring", "m3", "A", "A vs B", time.Time{}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := NewGameRecord(c.season, c.division, c.team, c.t, c.des)
			if !errors.Is(err, ErrBadRecord) {
				t.Errorf("expected ErrBadRecord, got %v", err)
			}
		})
	}
}

func TestParseRecordLineInvalid(t *testing.T) {
	lines := []string{
		"",
		"2024-spring|m3|EAGLES|2024-01-15T19:30:00+00:00",
		"2024-spring|m3|EAGLES|not-a-time|EAGLES vs HAWKS",
		"2024-spring|m3|EAGLES|2024-01-15T19:30:00+00:00|EAGLES vs HAWKS|extra",
	}
	for _, line := range lines {
		if _, err := ParseRecordLine(line); !errors.Is(err, ErrBadRecord) {
			t.Errorf("ParseRecordLine(%q): expected ErrBadRecord, got %v", line, err)
		}
	}
}
