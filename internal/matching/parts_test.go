package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractParts(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  Parts
	}{
		{name: "empty", input: "", want: Parts{}},
		{name: "blank", input: "   ", want: Parts{}},
		{
			name:  "single token is last name",
			input: "Djokovic",
			want:  Parts{Last: "Djokovic", Initials: "D"},
		},
		{
			name:  "two tokens",
			input: "Novak Djokovic",
			want:  Parts{First: "Novak", Last: "Djokovic", Initials: "ND"},
		},
		{
			name:  "multi word given name",
			input: "Juan Martin del Potro",
			want:  Parts{First: "Juan Martin del", Last: "Potro", Initials: "JP"},
		},
		{
			name:  "leading initial overrides split",
			input: "G. Diallo",
			want:  Parts{First: "G", Last: "Diallo", Initials: "GD"},
		},
		{
			name:  "trailing initial overrides split",
			input: "Diallo G.",
			want:  Parts{First: "G", Last: "Diallo", Initials: "GD"},
		},
		{
			name:  "bare trailing initial",
			input: "Diallo G",
			want:  Parts{First: "G", Last: "Diallo", Initials: "GD"},
		},
		{
			name:  "leading initial with multi word surname",
			input: "J. del Potro",
			want:  Parts{First: "J", Last: "del Potro", Initials: "Jd"},
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, ExtractParts(tc.input))
		})
	}
}
