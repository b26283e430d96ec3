package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetDisplayWidth(t *testing.T) {
	assert.Equal(t, 5, GetDisplayWidth("hello"))
	assert.Equal(t, 4, GetDisplayWidth("项目"))
}

func TestFitWidth(t *testing.T) {
	assert.Equal(t, "abc   ", FitWidth("abc", 6))
	assert.Equal(t, "abcdef", FitWidth("abcdef", 6))
	assert.Equal(t, "abcd…", FitWidth("abcdefgh", 5))
	assert.Equal(t, 6, GetDisplayWidth(FitWidth("项目项目项目", 6)))
	assert.Empty(t, FitWidth("abc", 0))
}

func TestPadLeft(t *testing.T) {
	assert.Equal(t, "   42", PadLeft("42", 5))
	assert.Equal(t, "12345", PadLeft("12345", 3))
}

func TestSeparator(t *testing.T) {
	assert.Equal(t, "───", Separator(3))
	assert.Empty(t, Separator(0))
}
