package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFindBestMatch_Reflexive(t *testing.T) {
	t.Parallel()

	pool := []string{"Carlos Alcaraz", "Jannik Sinner", "Novak Djokovic"}
	for _, name := range pool {
		assert.Equal(t, name, FindBestMatch(name, pool))
	}
}

func TestFindBestMatch_ExactIgnoresCaseAndAccents(t *testing.T) {
	t.Parallel()

	pool := []string{"Gael Monfils", "Ugo Humbert"}
	assert.Equal(t, "Gael Monfils", FindBestMatch("Gaël MONFILS", pool))
}

func TestFindBestMatch_AbbreviatedPattern(t *testing.T) {
	t.Parallel()

	pool := []string{"Novak Djokovic", "Carlos Alcaraz"}

	assert.Equal(t, "Novak Djokovic", FindBestMatch("Djokovic N.", pool))
	assert.Equal(t, "Novak Djokovic", FindBestMatch("N. Djokovic", pool))
	assert.Equal(t, "Carlos Alcaraz", FindBestMatch("Alcaraz C", pool))
}

func TestFindBestMatch_LastNameUnique(t *testing.T) {
	t.Parallel()

	pool := []string{"Novak Djokovic", "Carlos Alcaraz"}
	assert.Equal(t, "Novak Djokovic", FindBestMatch("Djokovic", pool))
}

func TestFindBestMatch_AmbiguousLastNameDisambiguatedByInitial(t *testing.T) {
	t.Parallel()

	pool := []string{"Rafael Nadal", "Toni Nadal"}
	assert.Equal(t, "Rafael Nadal", FindBestMatch("Nadal R.", pool))
	assert.Equal(t, "Toni Nadal", FindBestMatch("Nadal T.", pool))
}

func TestFindBestMatch_AmbiguousWithoutInitialIsNoMatch(t *testing.T) {
	t.Parallel()

	pool := []string{"Rafael Nadal", "Toni Nadal"}
	assert.Equal(t, "", FindBestMatch("Nadal", pool))
}

func TestFindBestMatch_FuzzyTolleratesTypos(t *testing.T) {
	t.Parallel()

	pool := []string{"Stefanos Tsitsipas", "Alexander Zverev"}
	assert.Equal(t, "Stefanos Tsitsipas", FindBestMatch("Stefanos Tsitsipass", pool))
	assert.Equal(t, "Alexander Zverev", FindBestMatch("Alexandr Zverev", pool))
}

func TestFindBestMatch_InitialsAndPrefixFallback(t *testing.T) {
	t.Parallel()

	// "Aliasime" is no substring of "aliassime", and the full query sits too
	// far for the fuzzy tier, so only initials plus the surname prefix agree.
	pool := []string{"Felix Auger-Aliassime"}
	assert.Equal(t, "Felix Auger-Aliassime", FindBestMatch("Felix Aliasime", pool))

	// Initials disagree; the surname prefix alone carries when it is unique.
	assert.Equal(t, "Felix Auger-Aliassime", FindBestMatch("Marco Aliasime", pool))
}

func TestFindBestMatch_NoConfidentMatch(t *testing.T) {
	t.Parallel()

	pool := []string{"Jannik Sinner", "Carlos Alcaraz"}
	assert.Equal(t, "", FindBestMatch("Iga Swiatek", pool))
	assert.Equal(t, "", FindBestMatch("", pool))
	assert.Equal(t, "", FindBestMatch("Jannik Sinner", nil))
}
