package core

import (
	"math"

	"github.com/odakan/EzGM/internal/contract"
	"github.com/odakan/EzGM/schema"
)

// suiteStats returns the per-period mean and population standard deviation
// of a set of log spectra. Population std keeps the objective comparable
// across suite sizes down to a single record.
func suiteStats(spectra [][]float64, n int) (meanLn, stdLn []float64) {
	meanLn = make([]float64, n)
	stdLn = make([]float64, n)
	if len(spectra) == 0 {
		return meanLn, stdLn
	}
	count := float64(len(spectra))
	for _, s := range spectra {
		for i := 0; i < n; i++ {
			meanLn[i] += s[i]
		}
	}
	for i := 0; i < n; i++ {
		meanLn[i] /= count
	}
	for _, s := range spectra {
		for i := 0; i < n; i++ {
			d := s[i] - meanLn[i]
			stdLn[i] += d * d
		}
	}
	for i := 0; i < n; i++ {
		stdLn[i] = math.Sqrt(stdLn[i] / count)
	}
	return meanLn, stdLn
}

// matchObjective scores a set of log spectra against the target: the
// weighted sum of the mean-squared deviations of the realized mean and
// realized std from the target's. Per-period error weights skew both
// deviation terms toward the periods they emphasize; absent weights every
// period counts equally. Lower is better.
func matchObjective(cfg *contract.Config, target *schema.Target, spectra [][]float64) (objective, meanErr, stdErr float64) {
	n := target.Periods.Len()
	meanLn, stdLn := suiteStats(spectra, n)
	var wsum float64
	for i := 0; i < n; i++ {
		w := 1.0
		if cfg.ErrorWeights != nil {
			w = cfg.ErrorWeights[i]
		}
		wsum += w
		dm := meanLn[i] - target.MeanLn[i]
		ds := stdLn[i] - target.StdLn[i]
		meanErr += w * dm * dm
		stdErr += w * ds * ds
	}
	meanErr /= wsum
	stdErr /= wsum
	objective = cfg.Weights[schema.MeanComponent]*meanErr + cfg.Weights[schema.StdComponent]*stdErr
	return objective, meanErr, stdErr
}

// sse is the per-period weighted sum of squared differences between two
// log spectra. A nil weight slice means uniform weighting. Greedy matching
// scores each candidate against its realization with this.
func sse(weights, a, b []float64) float64 {
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		if weights != nil {
			sum += weights[i] * d * d
		} else {
			sum += d * d
		}
	}
	return sum
}
