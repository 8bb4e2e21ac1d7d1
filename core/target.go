package core

import (
	"fmt"
	"math"

	"github.com/odakan/EzGM/core/gmm"
	"github.com/odakan/EzGM/internal/contract"
	"github.com/odakan/EzGM/schema"
)

// BuildTarget builds the target spectrum for one conditioning level,
// resolving the ground-motion and correlation models from the registry.
// Code-spectrum strategies ignore the level.
func BuildTarget(cfg *contract.Config, level float64) (*schema.Target, error) {
	if cfg.Strategy == schema.CodeTarget {
		return BuildCodeTarget(cfg)
	}
	provider, err := gmm.NewProvider(cfg.GMPE, cfg)
	if err != nil {
		return nil, err
	}
	corr, err := gmm.NewCorrelation(cfg.Correlation)
	if err != nil {
		return nil, err
	}
	return BuildConditionalTarget(cfg, provider, corr, level)
}

// BuildConditionalTarget constructs the conditional mean spectrum and its
// covariance for one stripe. The target is conditioned either on Sa at a
// single anchor period or on the geometric-mean Sa over an anchor band,
// depending on the configured intensity measure.
//
// level is the conditioning intensity in g; it is ignored when the config
// carries an explicit epsilon instead.
func BuildConditionalTarget(cfg *contract.Config, provider gmm.Provider, corr gmm.CorrelationFunc, level float64) (*schema.Target, error) {
	anchorIdx, err := cfg.AnchorIndices()
	if err != nil {
		return nil, err
	}

	n := cfg.Grid.Len()
	meanLn := make([]float64, n)
	sigmaLn := make([]float64, n)
	for i, t := range cfg.Grid {
		m, s, err := provider.Evaluate(cfg.Scenario, t)
		if err != nil {
			return nil, fmt.Errorf("evaluating %s at T=%gs: %w", provider.Name(), t, err)
		}
		if s <= 0 {
			return nil, fmt.Errorf("%w: %s returned sigma %g at T=%gs", schema.ErrInvalidScenario, provider.Name(), s, t)
		}
		meanLn[i] = m
		sigmaLn[i] = s
	}

	// Correlation of every grid period with the conditioning measure, plus
	// the marginal mean and sigma of the measure itself.
	rhoAnchor, muIM, sigmaIM := conditioningStats(cfg.Grid, meanLn, sigmaLn, anchorIdx, corr)

	var epsilon float64
	var stripeLevel float64
	if cfg.UseEpsilon {
		epsilon = cfg.Epsilon
		stripeLevel = math.Exp(muIM + epsilon*sigmaIM)
	} else {
		epsilon = (math.Log(level) - muIM) / sigmaIM
		stripeLevel = level
	}

	target := &schema.Target{
		Periods:   cfg.Grid.Clone(),
		MeanLn:    make([]float64, n),
		StdLn:     make([]float64, n),
		Cov:       make([][]float64, n),
		Strategy:  schema.ConditionalTarget,
		AnchorIdx: anchorIdx,
		Level:     stripeLevel,
	}
	for i := range target.Cov {
		target.Cov[i] = make([]float64, n)
	}

	for i := 0; i < n; i++ {
		target.MeanLn[i] = meanLn[i] + rhoAnchor[i]*epsilon*sigmaLn[i]
		target.StdLn[i] = sigmaLn[i] * math.Sqrt(clampNonNegative(1-rhoAnchor[i]*rhoAnchor[i]))
		for j := i; j < n; j++ {
			rho := corr.Rho(cfg.Grid[i], cfg.Grid[j])
			cov := sigmaLn[i] * sigmaLn[j] * (rho - rhoAnchor[i]*rhoAnchor[j])
			if i == j {
				cov = target.StdLn[i] * target.StdLn[i]
			}
			target.Cov[i][j] = cov
			target.Cov[j][i] = cov
		}
	}

	if err := target.Validate(); err != nil {
		return nil, err
	}
	return target, nil
}

// conditioningStats returns the per-period correlation with the conditioning
// measure together with that measure's log mean and log standard deviation.
// For a single anchor index these are the plain anchor values; for a band
// they are the statistics of the geometric-mean Sa over the band.
func conditioningStats(grid schema.PeriodGrid, meanLn, sigmaLn []float64, anchorIdx []int, corr gmm.CorrelationFunc) (rhoAnchor []float64, muIM, sigmaIM float64) {
	n := grid.Len()
	m := len(anchorIdx)
	rhoAnchor = make([]float64, n)

	if m == 1 {
		star := anchorIdx[0]
		for i := 0; i < n; i++ {
			rhoAnchor[i] = corr.Rho(grid[i], grid[star])
		}
		return rhoAnchor, meanLn[star], sigmaLn[star]
	}

	// Geometric-mean Sa over the band: the mean of the log ordinates.
	var varIM float64
	for _, k := range anchorIdx {
		muIM += meanLn[k]
		for _, l := range anchorIdx {
			varIM += corr.Rho(grid[k], grid[l]) * sigmaLn[k] * sigmaLn[l]
		}
	}
	muIM /= float64(m)
	sigmaIM = math.Sqrt(varIM) / float64(m)

	for i := 0; i < n; i++ {
		var sum float64
		for _, k := range anchorIdx {
			sum += corr.Rho(grid[i], grid[k]) * sigmaLn[k]
		}
		rhoAnchor[i] = sum / (float64(m) * sigmaIM)
	}
	return rhoAnchor, muIM, sigmaIM
}

func clampNonNegative(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}
