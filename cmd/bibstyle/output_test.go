package main

import (
	"testing"

	"github.com/matsen/bibstyle/internal/reference"
)

func TestFormatAuthorsShort(t *testing.T) {
	tests := []struct {
		name  string
		field string
		max   int
		want  string
	}{
		{"empty", "", 3, ""},
		{"single", "Bertin, E.", 3, "Bertin"},
		{"von and braces", "Ludwig van Beethoven and {Van Dyck}, A.", 3, "van Beethoven, Van Dyck"},
		{"et al", "A, B and C, D and E, F and G, H", 3, "A, C, E, et al."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			persons := reference.ParsePersons(tt.field)
			if got := formatAuthorsShort(persons, tt.max); got != tt.want {
				t.Errorf("formatAuthorsShort(%q) = %q, want %q", tt.field, got, tt.want)
			}
		})
	}
}
