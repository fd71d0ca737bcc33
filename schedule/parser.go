/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package schedule

import (
	"regexp"
	"strconv"
	"strings"
)

// LineParser extracts a game from one normalized line. ok is false for any
// line that is not a game (headers, blank separators, byes, ...).
type LineParser interface {
	Parse(line string) (m ParsedMatch, ok bool)
}

// e.g. "MON JAN 15 7:30 PM EAGLES VS HAWKS". VS must stand alone as a word
// and the first one splits home from away, so "MAVS" or "CAVS" in a team name
// is left alone.
var gameLineRe = regexp.MustCompile(
	`\w{3}\s+(\w{3})\s+(\d{1,2})\s+([0-9:]+|MIDNITE:?\d*|NOON:?\d*)\s*(AM|PM)?\s+(.*?)\s*\bVS\b(.*)`)

var wordRe = regexp.MustCompile(`\w`)

// RegexParser matches the publisher's fixed fixture grammar.
type RegexParser struct{}

func (RegexParser) Parse(line string) (ParsedMatch, bool) {
	if !wordRe.MatchString(line) {
		return ParsedMatch{}, false
	}

	m := gameLineRe.FindStringSubmatch(line)
	if len(m) < 7 {
		return ParsedMatch{}, false
	}

	day, err := strconv.Atoi(m[2])
	if err != nil || day < 1 || day > 31 {
		return ParsedMatch{}, false
	}
	home := strings.TrimSpace(m[5])
	away := strings.TrimSpace(m[6])
	if home == "" || away == "" {
		return ParsedMatch{}, false
	}

	return ParsedMatch{
		Home:     home,
		Away:     away,
		RawHour:  m[3],
		RawAmPm:  m[4],
		RawMonth: m[1],
		RawDay:   day,
	}, true
}
