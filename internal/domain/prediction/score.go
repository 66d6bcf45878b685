package prediction

import (
	"fmt"
	"strconv"
	"strings"
)

// Score is one parsed main score, sides in the order they appeared.
type Score struct {
	A int
	B int
}

func (s Score) String() string {
	return fmt.Sprintf("%d:%d", s.A, s.B)
}

// ParsedScore is the structured form of a raw score string. Main is nil when
// the string had no parsable main score; callers render "N/A"/"Pending" in
// that case instead of failing.
type ParsedScore struct {
	Main *Score
	Sets string
}

// ParseScore parses score strings as they appear in sheets and in the feed:
// "2:0(6:3, 6:3)", a bare "2-0", or a set-only list "6:3, 6:3". Both ":" and
// "-" separate score components. Malformed input yields a nil Main, never an
// error.
func ParseScore(raw string) ParsedScore {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ParsedScore{}
	}
	s = strings.ReplaceAll(s, "-", ":")

	if open := strings.Index(s, "("); open >= 0 {
		sets := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s[open+1:]), ")"))
		main := parseMainScore(s[:open])
		if main == nil && sets == "" {
			return ParsedScore{}
		}
		return ParsedScore{Main: main, Sets: sets}
	}

	// A comma-separated list without parentheses is a bare set-score list.
	if strings.Contains(s, ",") {
		return ParsedScore{Sets: s}
	}

	return ParsedScore{Main: parseMainScore(s)}
}

func parseMainScore(s string) *Score {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 {
		return nil
	}

	a, errA := strconv.Atoi(strings.TrimSpace(parts[0]))
	b, errB := strconv.Atoi(strings.TrimSpace(parts[1]))
	if errA != nil || errB != nil || a < 0 || b < 0 {
		return nil
	}
	return &Score{A: a, B: b}
}
