package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		input    int
		expected string
	}{
		{0, "0"},
		{42, "42"},
		{999, "999"},
		{1000, "1,000"},
		{12345, "12,345"},
		{123456, "123,456"},
		{1234567, "1,234,567"},
		{-9876, "-9,876"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatNumber(tt.input))
		})
	}
}

func TestFormatTokens(t *testing.T) {
	assert.Equal(t, "-", FormatTokens(0))
	assert.Equal(t, "175", FormatTokens(175))
	assert.Equal(t, "1,500", FormatTokens(1500))
}

func TestFormatMinutes(t *testing.T) {
	assert.Equal(t, "0m", FormatMinutes(0))
	assert.Equal(t, "5m", FormatMinutes(5))
	assert.Equal(t, "125m", FormatMinutes(125))
}
