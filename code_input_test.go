package goAuthFlow

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCodeInputTypingAdvancesFocus(t *testing.T) {
	var ci CodeInput
	for i, d := range []string{"4", "8", "1", "5", "9", "2"} {
		assert.True(t, ci.Set(i, d))
	}
	assert.Equal(t, "481592", ci.Code())
	assert.True(t, ci.Complete())
	assert.Equal(t, CodeLength-1, ci.Focus())

	assert.False(t, ci.Set(2, "12"))
	assert.False(t, ci.Set(2, "a"))
	assert.False(t, ci.Set(6, "1"))
	assert.Equal(t, "481592", ci.Code())
}

func TestCodeInputBackspace(t *testing.T) {
	var ci CodeInput
	ci.Set(0, "1")
	ci.Set(1, "2")

	ci.Backspace(2)
	assert.Equal(t, 1, ci.Focus())
	ci.Backspace(1)
	assert.Equal(t, "1", ci.Code())
	assert.Equal(t, 1, ci.Focus())

	ci.Backspace(0)
	ci.Backspace(0)
	assert.Equal(t, 0, ci.Focus())
	assert.Empty(t, ci.Code())
}

func TestCodeInputPaste(t *testing.T) {
	var ci CodeInput
	assert.True(t, ci.Paste("98765432"))
	assert.Equal(t, "987654", ci.Code())
	assert.Equal(t, 5, ci.Focus())

	ci.Reset()
	assert.True(t, ci.Paste("12"))
	assert.Equal(t, [CodeLength]string{"1", "2"}, ci.Cells())
	assert.Equal(t, 1, ci.Focus())
	assert.False(t, ci.Complete())

	assert.False(t, ci.Paste(""))
	assert.False(t, ci.Paste("1 3456"))
	assert.False(t, ci.Paste("１２３４５６"))
	assert.Equal(t, "12", ci.Code())
}
