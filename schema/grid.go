package schema

import (
	"fmt"
	"math"
)

// GridTolerance is the relative tolerance used when matching a user-supplied
// period against a grid ordinate. Catalog files and configs round periods
// differently, so exact float equality is too strict.
const GridTolerance = 1e-6

// PeriodGrid is an ordered set of vibration periods in seconds. All target
// vectors, record ordinates and covariance matrices in a run are aligned to
// one grid.
type PeriodGrid []float64

// NewPeriodGrid validates the raw periods and returns them as a grid.
// Periods must be positive, finite and strictly increasing.
func NewPeriodGrid(periods []float64) (PeriodGrid, error) {
	if len(periods) == 0 {
		return nil, fmt.Errorf("%w: grid is empty", ErrMalformedPeriodGrid)
	}
	prev := 0.0
	for i, t := range periods {
		if math.IsNaN(t) || math.IsInf(t, 0) || t <= 0 {
			return nil, fmt.Errorf("%w: period %g at position %d is not positive and finite", ErrMalformedPeriodGrid, t, i)
		}
		if t <= prev {
			return nil, fmt.Errorf("%w: period %g at position %d does not increase past %g", ErrMalformedPeriodGrid, t, i, prev)
		}
		prev = t
	}
	grid := make(PeriodGrid, len(periods))
	copy(grid, periods)
	return grid, nil
}

// Len returns the number of grid ordinates.
func (g PeriodGrid) Len() int { return len(g) }

// IndexOf returns the grid index whose period matches t within the relative
// grid tolerance. The second return value reports whether a match was found.
func (g PeriodGrid) IndexOf(t float64) (int, bool) {
	for i, p := range g {
		if math.Abs(p-t) <= GridTolerance*math.Max(1, math.Abs(p)) {
			return i, true
		}
	}
	return 0, false
}

// IndicesIn returns the grid indices whose periods fall inside [lo, hi],
// bounds inclusive. An empty result means the band misses the grid entirely.
func (g PeriodGrid) IndicesIn(lo, hi float64) []int {
	var out []int
	for i, p := range g {
		if p >= lo-GridTolerance && p <= hi+GridTolerance {
			out = append(out, i)
		}
	}
	return out
}

// Clone returns a copy of the grid.
func (g PeriodGrid) Clone() PeriodGrid {
	out := make(PeriodGrid, len(g))
	copy(out, g)
	return out
}
