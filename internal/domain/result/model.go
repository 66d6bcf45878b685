// Package result models match records coming from the authoritative results
// feed. The feed's home/away assignment is independent of the prediction's
// team order, so resolved matches carry an explicit swap flag instead of
// re-labeled scores.
package result

import (
	"fmt"
	"strings"
)

// SetScore is one per-set line in home/away order.
type SetScore struct {
	Home int
	Away int
}

// Match is one real match from the results feed. Scores are nil until the
// match has been played.
type Match struct {
	HomeName  string
	AwayName  string
	HomeScore *int
	AwayScore *int
	Sets      []SetScore
}

// Played reports whether the feed has a final score for the match.
func (m Match) Played() bool {
	return m.HomeScore != nil && m.AwayScore != nil
}

// DisplayScore renders the match score in the sheet's display format,
// "2:0(6:3, 6:3)". When swapped is true every component is flipped so the
// score reads in the prediction's team1/team2 order rather than the feed's
// home/away order. Unplayed matches render empty.
func (m Match) DisplayScore(swapped bool) string {
	if !m.Played() {
		return ""
	}

	home, away := *m.HomeScore, *m.AwayScore
	if swapped {
		home, away = away, home
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%d:%d", home, away)

	if len(m.Sets) > 0 {
		parts := make([]string, 0, len(m.Sets))
		for _, set := range m.Sets {
			sh, sa := set.Home, set.Away
			if swapped {
				sh, sa = sa, sh
			}
			parts = append(parts, fmt.Sprintf("%d:%d", sh, sa))
		}
		fmt.Fprintf(&b, "(%s)", strings.Join(parts, ", "))
	}

	return b.String()
}

// MatchKey identifies a prediction's team pairing during reconciliation.
type MatchKey struct {
	Team1 string
	Team2 string
}

func (k MatchKey) String() string {
	return k.Team1 + " vs " + k.Team2
}

// ResolvedMatch is a feed match joined to a prediction. Swapped records that
// the feed listed the pairing in the opposite order, which obliges every
// score read to flip sides.
type ResolvedMatch struct {
	Match   Match
	Swapped bool
}

// Resolve looks up the key in matches under both orderings. Names must
// already be the matched authoritative names, not the raw sheet names.
func Resolve(key MatchKey, matches []Match) (ResolvedMatch, bool) {
	for _, m := range matches {
		if m.HomeName == key.Team1 && m.AwayName == key.Team2 {
			return ResolvedMatch{Match: m}, true
		}
	}
	for _, m := range matches {
		if m.HomeName == key.Team2 && m.AwayName == key.Team1 {
			return ResolvedMatch{Match: m, Swapped: true}, true
		}
	}
	return ResolvedMatch{}, false
}
