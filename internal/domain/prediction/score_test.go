package prediction

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseScore(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
		want ParsedScore
	}{
		{
			name: "main with sets",
			raw:  "2:0(6:3, 6:3)",
			want: ParsedScore{Main: &Score{A: 2, B: 0}, Sets: "6:3, 6:3"},
		},
		{
			name: "dash separators",
			raw:  "2-0",
			want: ParsedScore{Main: &Score{A: 2, B: 0}},
		},
		{
			name: "dash separators with sets",
			raw:  "3-1(11-7, 9-11, 11-5, 11-8)",
			want: ParsedScore{Main: &Score{A: 3, B: 1}, Sets: "11:7, 9:11, 11:5, 11:8"},
		},
		{
			name: "set list only",
			raw:  "6:3, 6:3",
			want: ParsedScore{Sets: "6:3, 6:3"},
		},
		{
			name: "parenthesized sets only",
			raw:  "(6:3, 6:3)",
			want: ParsedScore{Sets: "6:3, 6:3"},
		},
		{
			name: "empty",
			raw:  "",
			want: ParsedScore{},
		},
		{
			name: "garbage",
			raw:  "pending",
			want: ParsedScore{},
		},
		{
			name: "too many components",
			raw:  "2:0:1",
			want: ParsedScore{},
		},
		{
			name: "surrounding whitespace",
			raw:  "  2 : 1 ",
			want: ParsedScore{Main: &Score{A: 2, B: 1}},
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, ParseScore(tc.raw))
		})
	}
}

func TestParseScore_MalformedMainKeepsSets(t *testing.T) {
	t.Parallel()

	got := ParseScore("x:y(6:3, 7:5)")
	assert.Nil(t, got.Main)
	assert.Equal(t, "6:3, 7:5", got.Sets)
}
