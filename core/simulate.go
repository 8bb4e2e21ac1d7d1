package core

import (
	"fmt"
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/odakan/EzGM/internal/contract"
	"github.com/odakan/EzGM/schema"
)

// Simulate draws the realization batch greedy selection matches against:
// SuiteSize spectra from the multivariate lognormal defined by the target
// mean and covariance. Several candidate batches are drawn and the one
// whose statistics sit closest to the target, under the configured
// objective weights, is kept.
//
// The same seed always yields the same batch. A degenerate covariance is
// projected to the nearest positive semi-definite matrix and reported as a
// warning rather than an error.
func Simulate(cfg *contract.Config, target *schema.Target, seed uint64) ([][]float64, []schema.Warning, error) {
	// Exactly-conditioned periods carry zero variance and always realize
	// the target mean. Code targets have no free components at all.
	var free []int
	for i, s := range target.StdLn {
		if s > 0 {
			free = append(free, i)
		}
	}
	if len(free) == 0 {
		batch := make([][]float64, cfg.SuiteSize)
		for i := range batch {
			batch[i] = append([]float64(nil), target.MeanLn...)
		}
		return batch, nil, nil
	}

	root, warnings, err := covarianceRoot(target, free)
	if err != nil {
		return nil, warnings, err
	}

	rng := rand.New(rand.NewSource(seed))
	normal := distuv.Normal{Mu: 0, Sigma: 1, Src: rng}

	var best [][]float64
	bestScore := math.Inf(1)
	z := make([]float64, len(free))
	for trial := 0; trial < cfg.Trials; trial++ {
		batch := make([][]float64, cfg.SuiteSize)
		for r := range batch {
			for i := range z {
				z[i] = normal.Rand()
			}
			spectrum := append([]float64(nil), target.MeanLn...)
			for row, i := range free {
				var v float64
				for col := range free {
					v += root.At(row, col) * z[col]
				}
				spectrum[i] += v
			}
			batch[r] = spectrum
		}
		score, _, _ := matchObjective(cfg, target, batch)
		if score < bestScore {
			bestScore = score
			best = batch
		}
	}
	return best, warnings, nil
}

// covarianceRoot returns a factor L of the covariance restricted to the
// free (positive-variance) periods, with L Lᵀ equal to that sub-block. The
// Cholesky factor is used when the block is positive definite; otherwise
// the block is projected to the nearest positive semi-definite matrix by
// clamping negative eigenvalues at zero, and the eigendecomposition
// supplies the factor.
func covarianceRoot(target *schema.Target, free []int) (*mat.Dense, []schema.Warning, error) {
	m := len(free)
	sym := mat.NewSymDense(m, nil)
	for a, i := range free {
		for b := a; b < m; b++ {
			sym.SetSym(a, b, target.Cov[i][free[b]])
		}
	}

	root := mat.NewDense(m, m, nil)

	var chol mat.Cholesky
	if chol.Factorize(sym) {
		var l mat.TriDense
		chol.LTo(&l)
		root.Copy(&l)
		return root, nil, nil
	}

	var eig mat.EigenSym
	if !eig.Factorize(sym, true) {
		return nil, nil, fmt.Errorf("covariance eigendecomposition failed")
	}
	values := eig.Values(nil)
	var vectors mat.Dense
	eig.VectorsTo(&vectors)

	var clamped int
	for i, v := range values {
		if v < 0 {
			values[i] = 0
			clamped++
		}
	}

	// L = V sqrt(Λ⁺) satisfies L Lᵀ = V Λ⁺ Vᵀ, the nearest PSD matrix.
	for i := 0; i < m; i++ {
		for j := 0; j < m; j++ {
			root.Set(i, j, vectors.At(i, j)*math.Sqrt(values[j]))
		}
	}

	warning := schema.NewWarning(schema.WarnDegenerateCovariance,
		"covariance not positive definite, %d of %d eigenvalues clamped at zero", clamped, m)
	return root, []schema.Warning{warning}, nil
}
