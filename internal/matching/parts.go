package matching

import "strings"

// Parts is a player name decomposed for tier-wise comparison.
type Parts struct {
	First    string
	Last     string
	Initials string
}

// ExtractParts splits a name into first name, last name and initials. A
// leading or trailing single-letter token (with or without a period) is an
// abbreviated first name and overrides the positional split, so both
// "F. Lastname" and "Lastname F." decompose the same way. Never errors;
// empty input yields empty parts.
func ExtractParts(name string) Parts {
	tokens := strings.Fields(strings.TrimSpace(name))
	if len(tokens) == 0 {
		return Parts{}
	}

	if len(tokens) >= 2 {
		if initial, ok := initialToken(tokens[0]); ok {
			last := strings.Join(tokens[1:], " ")
			return Parts{
				First:    initial,
				Last:     last,
				Initials: initial + firstLetter(last),
			}
		}
		if initial, ok := initialToken(tokens[len(tokens)-1]); ok {
			last := strings.Join(tokens[:len(tokens)-1], " ")
			return Parts{
				First:    initial,
				Last:     last,
				Initials: initial + firstLetter(last),
			}
		}
	}

	switch len(tokens) {
	case 1:
		return Parts{
			Last:     tokens[0],
			Initials: firstLetter(tokens[0]),
		}
	case 2:
		return Parts{
			First:    tokens[0],
			Last:     tokens[1],
			Initials: firstLetter(tokens[0]) + firstLetter(tokens[1]),
		}
	default:
		first := strings.Join(tokens[:len(tokens)-1], " ")
		last := tokens[len(tokens)-1]
		return Parts{
			First:    first,
			Last:     last,
			Initials: firstLetter(first) + firstLetter(last),
		}
	}
}

func initialToken(token string) (string, bool) {
	trimmed := strings.TrimSuffix(token, ".")
	if len([]rune(trimmed)) != 1 {
		return "", false
	}
	return trimmed, true
}

func firstLetter(s string) string {
	for _, r := range s {
		return string(r)
	}
	return ""
}
