package common

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatXP(t *testing.T) {
	tests := []struct {
		xp       int64
		expected string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1,000"},
		{105, "105"},
		{1234567, "1,234,567"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, FormatXP(tt.xp))
	}
}

func TestProgressBar(t *testing.T) {
	tests := []struct {
		name     string
		percent  float64
		width    int
		expected string
	}{
		{"empty", 0, 10, "░░░░░░░░░░"},
		{"half", 50, 10, "█████░░░░░"},
		{"full", 100, 10, "██████████"},
		{"clamped above", 150, 10, "██████████"},
		{"clamped below", -5, 10, "░░░░░░░░░░"},
		{"rounds down", 45, 10, "████░░░░░░"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ProgressBar(tt.percent, tt.width))
		})
	}
}

func TestFormatCooldown(t *testing.T) {
	assert.Equal(t, "45s", FormatCooldown(45*time.Second))
	assert.Equal(t, "2m 5s", FormatCooldown(125*time.Second))
	assert.Equal(t, "0s", FormatCooldown(-time.Second))
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "< 1m", FormatDuration(30*time.Second))
	assert.Equal(t, "45m", FormatDuration(45*time.Minute))
	assert.Equal(t, "3h 45m", FormatDuration(3*time.Hour+45*time.Minute))
	assert.Equal(t, "2d 14h 30m", FormatDuration(62*time.Hour+30*time.Minute))
}

func TestTruncateText(t *testing.T) {
	assert.Equal(t, "short", TruncateText("short", 10))
	assert.Equal(t, "exactly ten", TruncateText("exactly ten", 11))
	assert.Equal(t, "abc...", TruncateText("abcdef", 3))
}
