/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package placements

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strings"
)

// Placement lists the teams placed into one division for the coming season.
type Placement struct {
	Division string
	Teams    []string
}

// e.g. "MEN'S 3B (TUESDAYS)" -> "m3b"
var divisionHeaderRe = regexp.MustCompile(`^([A-Z])[A-Z']+ ([A-Z0-9]+) ?.*`)

// DivisionName maps a placements header line to a division name.
func DivisionName(header string) string {
	return strings.ToLower(divisionHeaderRe.ReplaceAllString(header, "${1}${2}"))
}

// Parse reads a placements file: blocks separated by blank lines, each headed
// by a division line and followed by one team per line. Divisions are
// returned in file order; a division repeated later in the file is merged.
func Parse(r io.Reader) ([]Placement, error) {
	var out []Placement
	index := make(map[string]int)

	scanner := bufio.NewScanner(r)
	newDiv := true
	cur := -1
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			newDiv = true
			continue
		}
		if newDiv {
			div := DivisionName(line)
			i, ok := index[div]
			if !ok {
				i = len(out)
				index[div] = i
				out = append(out, Placement{Division: div})
			}
			cur = i
			newDiv = false
			continue
		}
		out[cur].Teams = append(out[cur].Teams, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("unable to read placements: %w", err)
	}

	// headers with no teams under them are not placements
	filtered := out[:0]
	for _, p := range out {
		if len(p.Teams) > 0 {
			filtered = append(filtered, p)
		}
	}

	return filtered, nil
}
