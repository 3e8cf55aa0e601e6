package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMonospace(t *testing.T) {
	assert.Equal(t, "```\nhola\n```", Monospace("hola"))
}

func TestBoldAndItalic(t *testing.T) {
	assert.Equal(t, "*hola*", Bold("hola"))
	assert.Equal(t, "_hola_", Italic("hola"))
}

func TestTrim(t *testing.T) {
	assert.Equal(t, "corto", Trim("corto", 11))
	assert.Equal(t, "Hipotecario.", Trim("Hipotecario Nacional", 11))
	// Rune-aware: accented names must not be cut mid-character.
	assert.Equal(t, "Nación", Trim("Nación", 11))
}
