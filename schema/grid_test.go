package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestNewPeriodGrid validates grid construction rules.
func TestNewPeriodGrid(t *testing.T) {
	tests := []struct {
		name    string
		periods []float64
		wantErr bool
	}{
		{
			name:    "valid grid",
			periods: []float64{0.1, 0.5, 1.0, 2.0},
			wantErr: false,
		},
		{
			name:    "empty grid",
			periods: []float64{},
			wantErr: true,
		},
		{
			name:    "zero period",
			periods: []float64{0, 0.5, 1.0},
			wantErr: true,
		},
		{
			name:    "negative period",
			periods: []float64{-0.1, 0.5},
			wantErr: true,
		},
		{
			name:    "not strictly increasing",
			periods: []float64{0.1, 0.5, 0.5, 1.0},
			wantErr: true,
		},
		{
			name:    "decreasing",
			periods: []float64{1.0, 0.5},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			grid, err := NewPeriodGrid(tt.periods)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrMalformedPeriodGrid)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, len(tt.periods), grid.Len())
		})
	}
}

// TestPeriodGridIndexOf checks tolerance-based lookup.
func TestPeriodGridIndexOf(t *testing.T) {
	grid, err := NewPeriodGrid([]float64{0.1, 0.5, 1.0, 2.0})
	require.NoError(t, err)

	t.Run("exact match", func(t *testing.T) {
		i, ok := grid.IndexOf(1.0)
		assert.True(t, ok)
		assert.Equal(t, 2, i)
	})

	t.Run("within tolerance", func(t *testing.T) {
		i, ok := grid.IndexOf(0.5 + 1e-9)
		assert.True(t, ok)
		assert.Equal(t, 1, i)
	})

	t.Run("no match", func(t *testing.T) {
		_, ok := grid.IndexOf(0.75)
		assert.False(t, ok)
	})
}

// TestPeriodGridIndicesIn checks band lookup, bounds inclusive.
func TestPeriodGridIndicesIn(t *testing.T) {
	grid, err := NewPeriodGrid([]float64{0.1, 0.5, 1.0, 2.0})
	require.NoError(t, err)

	assert.Equal(t, []int{1, 2}, grid.IndicesIn(0.5, 1.0))
	assert.Equal(t, []int{0, 1, 2, 3}, grid.IndicesIn(0.01, 10))
	assert.Empty(t, grid.IndicesIn(3, 4))
}
