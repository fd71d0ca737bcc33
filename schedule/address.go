/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package schedule

import (
	"fmt"
	"net/url"
	"strings"
)

type League string

const (
	LeagueMen   League = "men"
	LeagueWomen League = "women"
	LeagueCoed  League = "coed"
)

var (
	Leagues      = []League{LeagueMen, LeagueWomen, LeagueCoed}
	Subdivisions = []string{"", "A", "B", "C"}
)

const (
	MinDivision = 1
	MaxDivision = 6
)

// Initial is the league's prefix in division ids.
func (l League) Initial() string {
	return string(l)[:1]
}

// Address identifies one published schedule file.
type Address struct {
	League      League
	Division    int
	Subdivision string
}

// AllAddresses returns every league x division x subdivision combination.
func AllAddresses() []Address {
	var out []Address
	for _, league := range Leagues {
		for div := MinDivision; div <= MaxDivision; div++ {
			for _, sub := range Subdivisions {
				out = append(out, Address{League: league, Division: div,
					Subdivision: sub})
			}
		}
	}

	return out
}

// FileName is the publisher's name for this address's schedule file. Coed
// files follow a different naming convention than men's and women's.
func (a Address) FileName() string {
	if a.League == LeagueCoed {
		return fmt.Sprintf("Multi-Gender %d%s.txt", a.Division, a.Subdivision)
	}
	return fmt.Sprintf("DIV %d%s.TXT", a.Division, a.Subdivision)
}

// URL builds <base>/<season>/<league>/<file> with each segment escaped.
func (a Address) URL(baseURL string, season Season) string {
	return strings.TrimRight(baseURL, "/") + "/" +
		url.PathEscape(season.Name) + "/" +
		url.PathEscape(string(a.League)) + "/" +
		url.PathEscape(a.FileName())
}

// DivisionID is the short division code used downstream, e.g. "m3b".
func (a Address) DivisionID() string {
	return fmt.Sprintf("%s%d%s", a.League.Initial(), a.Division,
		strings.ToLower(a.Subdivision))
}

func (a Address) String() string {
	return string(a.League) + "/" + a.FileName()
}
