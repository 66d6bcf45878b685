package result

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func intPtr(v int) *int { return &v }

func TestMatch_DisplayScore(t *testing.T) {
	t.Parallel()

	m := Match{
		HomeName:  "Novak Djokovic",
		AwayName:  "Rafael Nadal",
		HomeScore: intPtr(2),
		AwayScore: intPtr(0),
		Sets:      []SetScore{{Home: 6, Away: 3}, {Home: 6, Away: 4}},
	}

	assert.Equal(t, "2:0(6:3, 6:4)", m.DisplayScore(false))
	assert.Equal(t, "0:2(3:6, 4:6)", m.DisplayScore(true))
}

func TestMatch_DisplayScore_Unplayed(t *testing.T) {
	t.Parallel()

	m := Match{HomeName: "A", AwayName: "B"}
	assert.Equal(t, "", m.DisplayScore(false))
}

func TestResolve(t *testing.T) {
	t.Parallel()

	matches := []Match{
		{HomeName: "Novak Djokovic", AwayName: "Rafael Nadal", HomeScore: intPtr(2), AwayScore: intPtr(1)},
		{HomeName: "Jannik Sinner", AwayName: "Carlos Alcaraz"},
	}

	direct, ok := Resolve(MatchKey{Team1: "Novak Djokovic", Team2: "Rafael Nadal"}, matches)
	assert.True(t, ok)
	assert.False(t, direct.Swapped)

	reversed, ok := Resolve(MatchKey{Team1: "Rafael Nadal", Team2: "Novak Djokovic"}, matches)
	assert.True(t, ok)
	assert.True(t, reversed.Swapped)
	assert.Equal(t, "1:2", reversed.Match.DisplayScore(reversed.Swapped))

	_, ok = Resolve(MatchKey{Team1: "Iga Swiatek", Team2: "Aryna Sabalenka"}, matches)
	assert.False(t, ok)
}
