package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "empty", input: "", want: ""},
		{name: "lower and trim", input: "  Novak Djokovic  ", want: "novak djokovic"},
		{name: "periods stripped", input: "G. Diallo", want: "g diallo"},
		{name: "hyphen to space", input: "Auger-Aliassime", want: "auger aliassime"},
		{name: "whitespace collapsed", input: "Jan   Lennard    Struff", want: "jan lennard struff"},
		{name: "accents folded", input: "Gaël Monfils", want: "gael monfils"},
		{name: "tilde folded", input: "Muñoz", want: "munoz"},
		{name: "cedilla folded", input: "François", want: "francois"},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, Normalize(tc.input))
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"Gaël   MONFILS",
		"J.-L. Struff",
		"  Félix Auger-Aliassime ",
		"plain name",
		"",
	}
	for _, input := range inputs {
		once := Normalize(input)
		assert.Equal(t, once, Normalize(once), "normalize must be idempotent for %q", input)
	}
}
