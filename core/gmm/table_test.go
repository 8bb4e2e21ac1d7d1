package gmm

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/odakan/EzGM/internal/contract"
	"github.com/odakan/EzGM/schema"
)

func tableConfig() *contract.Config {
	return &contract.Config{
		GMPETables: []contract.GMPETable{
			{
				Magnitude: 6.5,
				Distance:  20.0,
				Periods:   []float64{0.1, 0.5, 1.0, 2.0},
				Medians:   []float64{0.40, 0.25, 0.12, 0.05},
				Sigmas:    []float64{0.55, 0.60, 0.65, 0.70},
			},
			{
				Magnitude: 7.0,
				Distance:  10.0,
				Periods:   []float64{0.1, 1.0},
				Medians:   []float64{0.80, 0.30},
				Sigmas:    []float64{0.50, 0.60},
			},
		},
	}
}

// TestTableProviderLookup verifies scenario matching with tolerances.
func TestTableProviderLookup(t *testing.T) {
	p, err := NewProvider("table", tableConfig())
	require.NoError(t, err)
	assert.Equal(t, "table", p.Name())

	t.Run("exact scenario", func(t *testing.T) {
		medianLn, sigmaLn, err := p.Evaluate(schema.Scenario{Magnitude: 6.5, Distance: 20.0}, 0.5)
		require.NoError(t, err)
		assert.InDelta(t, math.Log(0.25), medianLn, 1e-12)
		assert.InDelta(t, 0.60, sigmaLn, 1e-12)
	})

	t.Run("scenario within tolerance", func(t *testing.T) {
		_, _, err := p.Evaluate(schema.Scenario{Magnitude: 6.52, Distance: 20.6}, 0.5)
		assert.NoError(t, err)
	})

	t.Run("scenario outside tolerance", func(t *testing.T) {
		_, _, err := p.Evaluate(schema.Scenario{Magnitude: 5.5, Distance: 100.0}, 0.5)
		require.Error(t, err)
		assert.ErrorIs(t, err, schema.ErrInvalidScenario)
	})
}

// TestTableProviderInterpolation verifies log-log interpolation between the
// tabulated periods.
func TestTableProviderInterpolation(t *testing.T) {
	p, err := NewProvider("table", tableConfig())
	require.NoError(t, err)
	s := schema.Scenario{Magnitude: 6.5, Distance: 20.0}

	t.Run("interior period", func(t *testing.T) {
		medianLn, sigmaLn, err := p.Evaluate(s, 0.7)
		require.NoError(t, err)
		// Between tabulated neighbors at 0.5s and 1.0s in both quantities.
		assert.Less(t, medianLn, math.Log(0.25))
		assert.Greater(t, medianLn, math.Log(0.12))
		assert.Greater(t, sigmaLn, 0.60)
		assert.Less(t, sigmaLn, 0.65)
	})

	t.Run("midpoint in log period", func(t *testing.T) {
		period := math.Sqrt(0.5 * 1.0)
		medianLn, _, err := p.Evaluate(s, period)
		require.NoError(t, err)
		want := 0.5 * (math.Log(0.25) + math.Log(0.12))
		assert.InDelta(t, want, medianLn, 1e-12)
	})

	t.Run("period out of range", func(t *testing.T) {
		_, _, err := p.Evaluate(s, 3.0)
		assert.Error(t, err)
		_, _, err = p.Evaluate(s, 0.05)
		assert.Error(t, err)
	})
}

// TestTableProviderSinglePoint covers a curve with one tabulated period.
func TestTableProviderSinglePoint(t *testing.T) {
	cfg := &contract.Config{
		GMPETables: []contract.GMPETable{
			{Magnitude: 6.0, Distance: 15.0, Periods: []float64{1.0}, Medians: []float64{0.2}, Sigmas: []float64{0.6}},
		},
	}
	p, err := NewProvider("table", cfg)
	require.NoError(t, err)

	medianLn, sigmaLn, err := p.Evaluate(schema.Scenario{Magnitude: 6.0, Distance: 15.0}, 1.0)
	require.NoError(t, err)
	assert.InDelta(t, math.Log(0.2), medianLn, 1e-12)
	assert.InDelta(t, 0.6, sigmaLn, 1e-12)
}

// TestProviderRegistry covers registry lookups.
func TestProviderRegistry(t *testing.T) {
	t.Run("unknown model", func(t *testing.T) {
		_, err := NewProvider("boore_atkinson", tableConfig())
		require.Error(t, err)
		assert.ErrorIs(t, err, schema.ErrUnknownGMPE)
	})

	t.Run("empty tables rejected", func(t *testing.T) {
		_, err := NewProvider("table", &contract.Config{})
		assert.Error(t, err)
	})

	t.Run("names sorted", func(t *testing.T) {
		names := ProviderNames()
		assert.Contains(t, names, "table")
		corr := CorrelationNames()
		assert.Contains(t, corr, "baker_jayaram")
		assert.Contains(t, corr, "none")
	})
}
