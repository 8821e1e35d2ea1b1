package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStepDigit(t *testing.T) {
	assert.Equal(t, "1", stepDigit("①"))
	assert.Equal(t, "9", stepDigit("⑨"))
	assert.Equal(t, "10", stepDigit("⑩"))
	assert.Equal(t, "11", stepDigit("⑪"))
	assert.Equal(t, "19", stepDigit("⑲"))
	assert.Equal(t, "20", stepDigit("⑳"))

	// Non-circled glyphs pass through.
	assert.Equal(t, "A", stepDigit("A"))
	assert.Equal(t, "12", stepDigit("12"))
}

func TestSymbolAppearance(t *testing.T) {
	text, col := symbolAppearance("✓")
	assert.Equal(t, "ok", text)
	assert.Equal(t, uint8(67), col.R)

	// Unknown glyphs draw as-is in opaque black.
	text, col = symbolAppearance("☂")
	assert.Equal(t, "☂", text)
	assert.Equal(t, uint8(255), col.A)
	assert.Equal(t, uint8(0), col.R)
}
