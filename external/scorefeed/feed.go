package scorefeed

import "github.com/grzedomin/betpicks/internal/domain/result"

type matchesEnvelope struct {
	Matches []matchItem `json:"matches"`
}

type matchItem struct {
	ID           int64  `json:"id"`
	HomeTeamName string `json:"homeTeamName"`
	AwayTeamName string `json:"awayTeamName"`
	HomeScore    *int   `json:"homeTeamScore"`
	AwayScore    *int   `json:"awayTeamScore"`
	Status       string `json:"status"`

	// Per-set points; the feed reports at most two period blocks for the
	// racket sports this service covers.
	HomeTeamScoreSet1 *int `json:"homeTeamScoreSet1"`
	AwayTeamScoreSet1 *int `json:"awayTeamScoreSet1"`
	HomeTeamScoreSet2 *int `json:"homeTeamScoreSet2"`
	AwayTeamScoreSet2 *int `json:"awayTeamScoreSet2"`
}

func mapMatch(item matchItem) result.Match {
	m := result.Match{
		HomeName:  item.HomeTeamName,
		AwayName:  item.AwayTeamName,
		HomeScore: item.HomeScore,
		AwayScore: item.AwayScore,
	}

	if item.HomeTeamScoreSet1 != nil && item.AwayTeamScoreSet1 != nil {
		m.Sets = append(m.Sets, result.SetScore{Home: *item.HomeTeamScoreSet1, Away: *item.AwayTeamScoreSet1})
	}
	if item.HomeTeamScoreSet2 != nil && item.AwayTeamScoreSet2 != nil {
		m.Sets = append(m.Sets, result.SetScore{Home: *item.HomeTeamScoreSet2, Away: *item.AwayTeamScoreSet2})
	}

	return m
}
