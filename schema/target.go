package schema

import (
	"fmt"
	"math"
)

// Target is the statistical target a suite is matched against: a mean and
// standard deviation of log spectral acceleration at every grid period,
// plus the full covariance used by the simulator. Code-spectrum targets
// carry a zero covariance and degrade simulation to the mean.
type Target struct {
	Periods  PeriodGrid     `json:"periods"`
	MeanLn   []float64      `json:"mean_ln"`
	StdLn    []float64      `json:"std_ln"`
	Cov      [][]float64    `json:"-"`
	Strategy TargetStrategy `json:"strategy"`

	// AnchorIdx are the grid indices of the conditioning period(s); the
	// scaling anchor. Empty for code targets without an explicit anchor.
	AnchorIdx []int `json:"anchor_idx"`

	// Level is the conditioning intensity for this stripe in g. Zero for
	// targets built from epsilon directly or from code shapes.
	Level float64 `json:"level"`
}

// Validate checks the internal consistency of the target: vector lengths
// match the grid, stds are non-negative, and the covariance is symmetric
// with diagonal equal to StdLn squared.
func (t *Target) Validate() error {
	n := t.Periods.Len()
	if n == 0 {
		return fmt.Errorf("%w: target has no periods", ErrMalformedPeriodGrid)
	}
	if len(t.MeanLn) != n || len(t.StdLn) != n {
		return fmt.Errorf("target vectors disagree with grid: mean %d, std %d, grid %d", len(t.MeanLn), len(t.StdLn), n)
	}
	for i, s := range t.StdLn {
		if math.IsNaN(s) || s < 0 {
			return fmt.Errorf("target std at T=%.4gs is %g", t.Periods[i], s)
		}
	}
	if len(t.Cov) != n {
		return fmt.Errorf("covariance has %d rows for a %d-period grid", len(t.Cov), n)
	}
	for i := range t.Cov {
		if len(t.Cov[i]) != n {
			return fmt.Errorf("covariance row %d has %d columns, want %d", i, len(t.Cov[i]), n)
		}
		if math.Abs(t.Cov[i][i]-t.StdLn[i]*t.StdLn[i]) > 1e-9*math.Max(1, t.StdLn[i]*t.StdLn[i]) {
			return fmt.Errorf("covariance diagonal at T=%.4gs disagrees with std", t.Periods[i])
		}
		for j := i + 1; j < n; j++ {
			if math.Abs(t.Cov[i][j]-t.Cov[j][i]) > 1e-9 {
				return fmt.Errorf("covariance is asymmetric at (%d,%d)", i, j)
			}
		}
	}
	return nil
}

// AnchorMeanLn returns the target mean log ordinate over the anchor
// indices: the value scale factors are computed against.
func (t *Target) AnchorMeanLn() float64 {
	if len(t.AnchorIdx) == 0 {
		return 0
	}
	var sum float64
	for _, i := range t.AnchorIdx {
		sum += t.MeanLn[i]
	}
	return sum / float64(len(t.AnchorIdx))
}

// ZeroCov returns an n-by-n zero covariance matrix, used by deterministic
// code-spectrum targets.
func ZeroCov(n int) [][]float64 {
	cov := make([][]float64, n)
	for i := range cov {
		cov[i] = make([]float64, n)
	}
	return cov
}
