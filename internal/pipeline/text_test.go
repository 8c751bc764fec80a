package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFold(t *testing.T) {
	assert.Equal(t, "abandonne", fold("Abandonné"))
	assert.Equal(t, "negociation", fold("Négociation"))
	assert.Equal(t, "qualifiee", fold("Qualifiée"))
	assert.Equal(t, "plain", fold("PLAIN"))
	assert.Equal(t, "", fold(""))
}

func TestCleanString(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"  hello  ", "hello"},
		{"nan", ""},
		{"NaN", ""},
		{"None", ""},
		{"NULL", ""},
		{"<nil>", ""},
		{"", ""},
		{"nantes", "nantes"}, // only the exact placeholder collapses
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, cleanString(tt.input), "%q", tt.input)
	}
}

func TestTitleCase(t *testing.T) {
	assert.Equal(t, "Alice", titleCase("alice"))
	assert.Equal(t, "Jean-Pierre", titleCase("jean-pierre"))
	assert.Equal(t, "Acme Corp", titleCase("ACME CORP"))
}
