package gmm

import "math"

func init() {
	RegisterCorrelation(bakerJayaram{})
	RegisterCorrelation(uncorrelated{})
}

// bakerJayaram implements the Baker & Jayaram (2008) inter-period
// correlation model for horizontal spectral accelerations, valid for
// periods between 0.01s and 10s.
type bakerJayaram struct{}

func (bakerJayaram) Name() string { return "baker_jayaram" }

func (bakerJayaram) Rho(ti, tj float64) float64 {
	tMin := math.Min(ti, tj)
	tMax := math.Max(ti, tj)
	if tMin == tMax {
		return 1
	}

	c1 := 1 - math.Cos(math.Pi/2-0.366*math.Log(tMax/math.Max(tMin, 0.109)))

	var c2 float64
	if tMax < 0.2 {
		c2 = 1 - 0.105*(1-1/(1+math.Exp(100*tMax-5)))*(tMax-tMin)/(tMax-0.0099)
	}

	c3 := c1
	if tMax < 0.109 {
		c3 = c2
	}

	c4 := c1 + 0.5*(math.Sqrt(c3)-c3)*(1+math.Cos(math.Pi*tMin/0.109))

	switch {
	case tMax <= 0.109:
		return c2
	case tMin > 0.109:
		return c1
	case tMax < 0.2:
		return math.Min(c2, c4)
	default:
		return c4
	}
}

// uncorrelated treats distinct periods as independent. Useful for
// debugging and for targets where only the marginal stds matter.
type uncorrelated struct{}

func (uncorrelated) Name() string { return "none" }

func (uncorrelated) Rho(ti, tj float64) float64 {
	if ti == tj {
		return 1
	}
	return 0
}
