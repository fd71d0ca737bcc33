/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package schedule

import (
	"errors"
	"fmt"
	"strings"
)

var ErrUnknownSeason = errors.New("unknown season")

// SeasonNames lists the seasons the publisher uses, in calendar order.
var SeasonNames = []string{
	"spring",
	"summer",
	"1fall",
	"2fall",
	"winter",
}

type Season struct {
	Name string
	Year int
}

// NewSeason validates name against SeasonNames.
func NewSeason(name string, year int) (Season, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, n := range SeasonNames {
		if n == name {
			if year < 1 {
				return Season{}, fmt.Errorf("invalid year %d for season %v",
					year, name)
			}
			return Season{Name: name, Year: year}, nil
		}
	}

	return Season{}, fmt.Errorf("%w '%v'. Seasons: %v", ErrUnknownSeason, name,
		strings.Join(SeasonNames, ", "))
}

// Label is the season name the downstream service knows, e.g. "2024-spring".
func (s Season) Label() string {
	return fmt.Sprintf("%d-%s", s.Year, s.Name)
}

// GamesFileName is the interchange file name for this season.
func (s Season) GamesFileName() string {
	return fmt.Sprintf("pi_games-%s-%d.txt", s.Name, s.Year)
}
