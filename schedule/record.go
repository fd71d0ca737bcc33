/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package schedule

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mikeb26/pdxsched/internal"
)

var ErrBadRecord = errors.New("bad game record")

// InterchangeTimeLayout renders the naive kickoff time. The fixed +00:00
// suffix is what the uploader has always been fed.
const InterchangeTimeLayout = "2006-01-02T15:04:05+00:00"

const fieldSep = "|"

// ParsedMatch is one fixture line broken into its raw tokens.
type ParsedMatch struct {
	Home     string
	Away     string
	RawHour  string
	RawAmPm  string // "" when the line carries no meridiem
	RawMonth string
	RawDay   int
}

func (m ParsedMatch) Description() string {
	return fmt.Sprintf("%s vs %s", m.Home, m.Away)
}

// GameRecord is one team's view of one game.
type GameRecord struct {
	Season      string
	Division    string
	Team        string
	Time        time.Time
	Description string
}

// NewGameRecord validates and builds a record. Time is kept as a wall clock
// value in UTC.
func NewGameRecord(season, division, team string, t time.Time,
	description string) (GameRecord, error) {

	rec := GameRecord{
		Season:      strings.TrimSpace(season),
		Division:    strings.TrimSpace(division),
		Team:        strings.TrimSpace(team),
		Time:        wallClock(t),
		Description: strings.TrimSpace(description),
	}
	if err := rec.validate(); err != nil {
		return GameRecord{}, err
	}

	return rec, nil
}

// RecordsFor builds the home and away records for one resolved match.
func RecordsFor(season Season, addr Address, m ParsedMatch,
	kickoff time.Time) ([2]GameRecord, error) {

	var out [2]GameRecord
	for i, team := range []string{m.Home, m.Away} {
		rec, err := NewGameRecord(season.Label(), addr.DivisionID(), team,
			kickoff, m.Description())
		if err != nil {
			return out, err
		}
		out[i] = rec
	}

	return out, nil
}

func (r GameRecord) validate() error {
	fields := []struct{ name, v string }{
		{"season", r.Season},
		{"division", r.Division},
		{"team", r.Team},
		{"description", r.Description},
	}
	for _, f := range fields {
		name, v := f.name, f.v
		if v == "" {
			return fmt.Errorf("%w: empty %v", ErrBadRecord, name)
		}
		if strings.ContainsAny(v, fieldSep+"\r\n") {
			return fmt.Errorf("%w: %v %q contains a separator", ErrBadRecord,
				name, v)
		}
	}
	if r.Time.IsZero() {
		return fmt.Errorf("%w: missing time", ErrBadRecord)
	}

	return nil
}

// Line renders the record in interchange format, without a trailing newline.
func (r GameRecord) Line() string {
	return strings.Join([]string{
		r.Season,
		r.Division,
		r.Team,
		r.Time.Format(InterchangeTimeLayout),
		r.Description,
	}, fieldSep)
}

// ParseRecordLine is the inverse of GameRecord.Line.
func ParseRecordLine(line string) (GameRecord, error) {
	line = strings.TrimRight(line, "\r\n")
	parts := strings.Split(line, fieldSep)
	if len(parts) != 5 {
		return GameRecord{}, fmt.Errorf("%w: expected 5 fields, got %d in %q",
			ErrBadRecord, len(parts), line)
	}
	t, err := internal.ParseDateOrZero(parts[3])
	if err != nil {
		return GameRecord{}, fmt.Errorf("%w: time %q: %v", ErrBadRecord,
			parts[3], err)
	}

	return NewGameRecord(parts[0], parts[1], parts[2], t, parts[4])
}

// wallClock reinterprets t's clock reading in UTC without shifting it.
func wallClock(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(),
		t.Second(), t.Nanosecond(), time.UTC)
}
