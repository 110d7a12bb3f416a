package repository

import "testing"

func TestEscapeLikePattern(t *testing.T) {
	tests := map[string]string{
		"copper wire": "copper wire",
		"50% off":     `50\% off`,
		"wire_2.5mm":  `wire\_2.5mm`,
		`back\slash`:  `back\\slash`,
		"%_":          `\%\_`,
	}
	for in, want := range tests {
		if got := escapeLikePattern(in); got != want {
			t.Errorf("escapeLikePattern(%q) = %q, want %q", in, got, want)
		}
	}
}
