package matching

import (
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// fuzzyMaxDissimilarity is the accept threshold for the edit-distance tier:
// Levenshtein distance divided by the longer string's length. 0.3 keeps the
// tier strict; looser name shapes are handled by the initials/prefix tier.
const fuzzyMaxDissimilarity = 0.3

const lastNamePrefixLen = 3

type candidate struct {
	raw   string
	norm  string
	parts Parts
}

// FindBestMatch resolves a spreadsheet-sourced name against the pool of
// authoritative feed names. Tiers run strictest first; the first confident
// hit wins. An empty return means no confident match, and callers must treat
// the prediction as unreconcilable rather than guess.
func FindBestMatch(query string, pool []string) string {
	normQuery := Normalize(query)
	if normQuery == "" || len(pool) == 0 {
		return ""
	}

	candidates := make([]candidate, 0, len(pool))
	for _, raw := range pool {
		norm := Normalize(raw)
		if norm == "" {
			continue
		}
		candidates = append(candidates, candidate{raw: raw, norm: norm, parts: ExtractParts(norm)})
	}
	if len(candidates) == 0 {
		return ""
	}

	for _, c := range candidates {
		if c.norm == normQuery {
			return c.raw
		}
	}

	if match := matchAbbreviated(normQuery, candidates); match != "" {
		return match
	}
	if match := matchByLastName(normQuery, candidates); match != "" {
		return match
	}
	if match := matchFuzzy(normQuery, candidates); match != "" {
		return match
	}
	return matchByInitialsAndPrefix(normQuery, candidates)
}

// matchAbbreviated handles "<word> <initial>" and "<initial> <word>" query
// shapes. Either side of a candidate name may hold the surname, so both
// orderings are checked.
func matchAbbreviated(normQuery string, candidates []candidate) string {
	tokens := strings.Fields(normQuery)
	if len(tokens) != 2 {
		return ""
	}

	var word, initial string
	switch {
	case len([]rune(tokens[0])) == 1 && len([]rune(tokens[1])) > 1:
		initial, word = tokens[0], tokens[1]
	case len([]rune(tokens[1])) == 1 && len([]rune(tokens[0])) > 1:
		word, initial = tokens[0], tokens[1]
	default:
		return ""
	}

	for _, c := range candidates {
		if strings.Contains(c.parts.Last, word) && firstLetter(c.parts.First) == initial {
			return c.raw
		}
		if strings.Contains(c.parts.First, word) && firstLetter(c.parts.Last) == initial {
			return c.raw
		}
	}
	return ""
}

// matchByLastName accepts a unique last-name containment match, falling back
// to first-name-initial disambiguation when several candidates share the
// surname.
func matchByLastName(normQuery string, candidates []candidate) string {
	queryParts := ExtractParts(normQuery)
	if queryParts.Last == "" {
		return ""
	}

	var hits []candidate
	for _, c := range candidates {
		if c.parts.Last == "" {
			continue
		}
		if strings.Contains(c.parts.Last, queryParts.Last) || strings.Contains(queryParts.Last, c.parts.Last) {
			hits = append(hits, c)
		}
	}

	switch len(hits) {
	case 0:
		return ""
	case 1:
		return hits[0].raw
	}

	queryInitial := firstLetter(queryParts.First)
	if queryInitial == "" {
		return ""
	}

	match := ""
	for _, c := range hits {
		if firstLetter(c.parts.First) == queryInitial {
			if match != "" {
				return ""
			}
			match = c.raw
		}
	}
	return match
}

func matchFuzzy(normQuery string, candidates []candidate) string {
	best := ""
	bestScore := fuzzyMaxDissimilarity
	for _, c := range candidates {
		distance := fuzzy.LevenshteinDistance(normQuery, c.norm)
		longest := len([]rune(normQuery))
		if l := len([]rune(c.norm)); l > longest {
			longest = l
		}
		if longest == 0 {
			continue
		}
		score := float64(distance) / float64(longest)
		if score < bestScore {
			bestScore = score
			best = c.raw
		}
	}
	return best
}

// matchByInitialsAndPrefix is the loosest tier: equal initials with a shared
// three-letter surname prefix, then a shared surname prefix alone.
func matchByInitialsAndPrefix(normQuery string, candidates []candidate) string {
	queryParts := ExtractParts(normQuery)
	queryPrefix := lastNamePrefix(queryParts.Last)
	if queryPrefix == "" {
		return ""
	}

	for _, c := range candidates {
		if queryParts.Initials != "" && c.parts.Initials == queryParts.Initials && lastNamePrefix(c.parts.Last) == queryPrefix {
			return c.raw
		}
	}

	// Prefix alone is only trusted when it singles out one candidate.
	match := ""
	for _, c := range candidates {
		if lastNamePrefix(c.parts.Last) == queryPrefix {
			if match != "" {
				return ""
			}
			match = c.raw
		}
	}
	return match
}

func lastNamePrefix(last string) string {
	runes := []rune(last)
	if len(runes) < lastNamePrefixLen {
		return ""
	}
	return string(runes[:lastNamePrefixLen])
}
