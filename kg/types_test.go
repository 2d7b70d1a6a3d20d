package kg

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeTerm(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"plain word", "Alice", "Alice"},
		{"spaces become underscores", "New York City", "New_York_City"},
		{"punctuation dropped", "Dr. Smith, Jr.!", "Dr_Smith_Jr"},
		{"case preserved", "GPU Cluster", "GPU_Cluster"},
		{"leading and trailing space trimmed", "  padded  ", "padded"},
		{"only punctuation", "?!...", ""},
		{"empty", "", ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, SanitizeTerm(tc.input))
		})
	}
}

func TestDeriveKey(t *testing.T) {
	key, err := DeriveKey("Alice", "knows", "Bob")
	assert.NoError(t, err)
	assert.Equal(t, "Alice_knows_Bob", key)

	// Deterministic: same triplet, same key
	key2, err := DeriveKey("Alice", "knows", "Bob")
	assert.NoError(t, err)
	assert.Equal(t, key, key2)

	// Punctuation and casing variants collapse to the same key
	key3, err := DeriveKey("Alice!", "knows...", "Bob?")
	assert.NoError(t, err)
	assert.Equal(t, key, key3)

	// Empty predicate falls back to a default label
	key4, err := DeriveKey("Alice", "", "Bob")
	assert.NoError(t, err)
	assert.Equal(t, "Alice_related_to_Bob", key4)
}

func TestDeriveKey_Invalid(t *testing.T) {
	_, err := DeriveKey("", "knows", "Bob")
	assert.ErrorIs(t, err, ErrInvalidEdgeSpec)

	_, err = DeriveKey("Alice", "knows", "")
	assert.ErrorIs(t, err, ErrInvalidEdgeSpec)

	// Subject that sanitizes to nothing is as invalid as an empty one
	_, err = DeriveKey("???", "knows", "Bob")
	assert.ErrorIs(t, err, ErrInvalidEdgeSpec)
}

func TestNewEdge(t *testing.T) {
	e, err := NewEdge("New York", "located in", "USA!")
	assert.NoError(t, err)
	assert.Equal(t, "New_York", e.From)
	assert.Equal(t, "USA", e.To)
	assert.Equal(t, "located_in", e.Predicate)
	assert.Equal(t, "New_York_located_in_USA", e.Key)
	assert.Equal(t, "(New_York)-[located_in]->(USA)", e.String())
}
