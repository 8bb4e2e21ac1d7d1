package contract

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestGetPlainScaleLabel checks the proximity bands against the limit.
func TestGetPlainScaleLabel(t *testing.T) {
	tests := []struct {
		name     string
		factor   float64
		limit    float64
		expected string
	}{
		{name: "unscaled", factor: 1.0, limit: 4.0, expected: LowValue},
		{name: "mild amplification", factor: 1.2, limit: 4.0, expected: LowValue},
		{name: "moderate amplification", factor: 1.8, limit: 4.0, expected: ModerateValue},
		{name: "high amplification", factor: 2.5, limit: 4.0, expected: HighValue},
		{name: "near the limit", factor: 3.6, limit: 4.0, expected: CriticalValue},
		{name: "at the limit", factor: 4.0, limit: 4.0, expected: CriticalValue},
		{name: "strong compression", factor: 0.28, limit: 4.0, expected: CriticalValue},
		{name: "mild compression", factor: 0.8, limit: 4.0, expected: LowValue},
		{name: "no limit", factor: 10, limit: 0, expected: LowValue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetPlainScaleLabel(tt.factor, tt.limit))
		})
	}
}

// TestParseBoolString validates accepted and rejected values.
func TestParseBoolString(t *testing.T) {
	for _, s := range []string{"yes", "YES", "true", "1"} {
		v, err := ParseBoolString(s)
		assert.NoError(t, err)
		assert.True(t, v)
	}
	for _, s := range []string{"no", "No", "false", "0"} {
		v, err := ParseBoolString(s)
		assert.NoError(t, err)
		assert.False(t, v)
	}
	_, err := ParseBoolString("maybe")
	assert.Error(t, err)
}

// TestTruncateText checks ellipsis truncation behavior.
func TestTruncateText(t *testing.T) {
	assert.Equal(t, "short", TruncateText("short", 10))
	long := strings.Repeat("a", 20)
	got := TruncateText(long, 10)
	assert.Len(t, got, 10)
	assert.True(t, strings.HasPrefix(got, "..."))
	// Width too small for ellipsis handling: passthrough.
	assert.Equal(t, long, TruncateText(long, 3))
}

// TestGetRunsDBFilePath ensures a usable path is always returned.
func TestGetRunsDBFilePath(t *testing.T) {
	path := GetRunsDBFilePath()
	assert.NotEmpty(t, path)
	assert.Contains(t, path, ".ezgm_runs.db")
}
