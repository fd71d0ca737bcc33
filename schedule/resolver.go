/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package schedule

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// RolloverDays is how far in the past a resolved game may fall before it is
// assumed to belong to the following year.
const RolloverDays = 120

var months = map[string]time.Month{
	"JAN": time.January,
	"FEB": time.February,
	"MAR": time.March,
	"APR": time.April,
	"MAY": time.May,
	"JUN": time.June,
	"JUL": time.July,
	"AUG": time.August,
	"SEP": time.September,
	"OCT": time.October,
	"NOV": time.November,
	"DEC": time.December,
}

// TimeResolver turns a match's year-less tokens into a kickoff time.
type TimeResolver struct {
	// Now reports the processing time; nil means time.Now.
	Now func() time.Time
}

// Resolve builds the kickoff time as a naive wall clock value (in UTC).
// Schedules are published without a year, so a date more than RolloverDays
// before now is moved into the following year.
func (tr TimeResolver) Resolve(m ParsedMatch, year int) (time.Time, error) {
	month, ok := months[strings.ToUpper(m.RawMonth)]
	if !ok {
		return time.Time{}, fmt.Errorf("unknown month %q", m.RawMonth)
	}

	hour, minute, err := resolveClock(m.RawHour, m.RawAmPm)
	if err != nil {
		return time.Time{}, err
	}

	kickoff, err := buildDate(year, month, m.RawDay, hour, minute)
	if err != nil {
		return time.Time{}, err
	}

	if kickoff.Before(tr.cutoff()) {
		kickoff, err = buildDate(year+1, month, m.RawDay, hour, minute)
		if err != nil {
			return time.Time{}, fmt.Errorf("rolling over: %w", err)
		}
	}

	return kickoff, nil
}

// cutoff is midnight RolloverDays before today, so the result does not depend
// on the time of day the run happens.
func (tr TimeResolver) cutoff() time.Time {
	now := time.Now()
	if tr.Now != nil {
		now = tr.Now()
	}
	n := wallClock(now)
	today := time.Date(n.Year(), n.Month(), n.Day(), 0, 0, 0, 0, time.UTC)

	return today.AddDate(0, 0, -RolloverDays)
}

// resolveClock converts the hour token and optional meridiem to a 24-hour
// clock. NOON and MIDNITE may carry a ":digits" suffix; it is discarded.
func resolveClock(rawHour, amPm string) (int, int, error) {
	switch {
	case strings.HasPrefix(rawHour, "NOON"):
		rawHour, amPm = "12:00", "PM"
	case strings.HasPrefix(rawHour, "MIDNITE"):
		rawHour, amPm = "11:59", "PM"
	}

	hStr, mStr, hasMinutes := strings.Cut(rawHour, ":")
	hour, err := strconv.Atoi(hStr)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid hour %q", rawHour)
	}
	minute := 0
	if hasMinutes {
		if len(mStr) != 2 {
			return 0, 0, fmt.Errorf("invalid minutes %q", rawHour)
		}
		minute, err = strconv.Atoi(mStr)
		if err != nil || minute > 59 {
			return 0, 0, fmt.Errorf("invalid minutes %q", rawHour)
		}
	}

	switch strings.ToUpper(amPm) {
	case "AM", "PM":
		if hour < 1 || hour > 12 {
			return 0, 0, fmt.Errorf("invalid 12-hour clock hour %q", rawHour)
		}
		hour %= 12
		if strings.ToUpper(amPm) == "PM" {
			hour += 12
		}
	case "":
		if hour > 23 {
			return 0, 0, fmt.Errorf("invalid hour %q", rawHour)
		}
	default:
		return 0, 0, fmt.Errorf("invalid meridiem %q", amPm)
	}

	return hour, minute, nil
}

// buildDate rejects dates time.Date would silently normalize, e.g. Feb 30.
func buildDate(year int, month time.Month, day, hour,
	minute int) (time.Time, error) {

	t := time.Date(year, month, day, hour, minute, 0, 0, time.UTC)
	if t.Month() != month || t.Day() != day {
		return time.Time{}, fmt.Errorf("no such date %d %v %d", year, month, day)
	}

	return t, nil
}
