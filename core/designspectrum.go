package core

import (
	"fmt"
	"math"

	"github.com/odakan/EzGM/internal/contract"
	"github.com/odakan/EzGM/schema"
)

// ec8Soil holds the soil-dependent shape parameters of the EN 1998-1
// horizontal elastic spectrum.
type ec8Soil struct {
	s, tb, tc, td float64
}

// EN 1998-1 Table 3.2 (Type 1) and Table 3.3 (Type 2).
var ec8Type1 = map[string]ec8Soil{
	"A": {1.00, 0.15, 0.40, 2.0},
	"B": {1.20, 0.15, 0.50, 2.0},
	"C": {1.15, 0.20, 0.60, 2.0},
	"D": {1.35, 0.20, 0.80, 2.0},
	"E": {1.40, 0.15, 0.50, 2.0},
}

var ec8Type2 = map[string]ec8Soil{
	"A": {1.00, 0.05, 0.25, 1.2},
	"B": {1.35, 0.05, 0.25, 1.2},
	"C": {1.50, 0.10, 0.25, 1.2},
	"D": {1.80, 0.10, 0.30, 1.2},
	"E": {1.60, 0.05, 0.25, 1.2},
}

// EN 1998-1 importance factors by importance class.
var ec8Importance = map[int]float64{1: 0.8, 2: 1.0, 3: 1.2, 4: 1.4}

// BuildCodeTarget constructs a deterministic target from a design-code
// spectrum shape. Code targets carry zero variability, so the simulator
// degrades to the mean and the objective reduces to its mean term.
func BuildCodeTarget(cfg *contract.Config) (*schema.Target, error) {
	var shape func(t float64) (float64, error)
	switch cfg.Code {
	case schema.EC8Part1Spectrum:
		fn, err := ec8Part1Shape(cfg.CodeParams)
		if err != nil {
			return nil, err
		}
		shape = fn
	case schema.ASCE716Spectrum:
		fn, err := asce716Shape(cfg.CodeParams)
		if err != nil {
			return nil, err
		}
		shape = fn
	case schema.TBEC2018Spectrum:
		fn, err := tbec2018Shape(cfg.CodeParams)
		if err != nil {
			return nil, err
		}
		shape = fn
	default:
		return nil, fmt.Errorf("unsupported code spectrum %q", cfg.Code)
	}

	anchorIdx, err := cfg.AnchorIndices()
	if err != nil {
		return nil, err
	}

	n := cfg.Grid.Len()
	target := &schema.Target{
		Periods:   cfg.Grid.Clone(),
		MeanLn:    make([]float64, n),
		StdLn:     make([]float64, n),
		Cov:       schema.ZeroCov(n),
		Strategy:  schema.CodeTarget,
		AnchorIdx: anchorIdx,
	}
	for i, t := range cfg.Grid {
		sa, err := shape(t)
		if err != nil {
			return nil, err
		}
		if sa <= 0 {
			return nil, fmt.Errorf("code spectrum %s evaluates to %g at T=%gs", cfg.Code, sa, t)
		}
		target.MeanLn[i] = math.Log(sa)
	}

	if err := target.Validate(); err != nil {
		return nil, err
	}
	return target, nil
}

// ec8Part1Shape returns the EN 1998-1 horizontal elastic spectrum in g.
func ec8Part1Shape(p contract.CodeParams) (func(float64) (float64, error), error) {
	tables := ec8Type1
	switch p.SpectrumType {
	case 1:
	case 2:
		tables = ec8Type2
	default:
		return nil, fmt.Errorf("ec8_part1 spectrum type must be 1 or 2 (received %d)", p.SpectrumType)
	}
	soil, ok := tables[p.SiteClass]
	if !ok {
		return nil, fmt.Errorf("ec8_part1 site class must be A-E (received %q)", p.SiteClass)
	}
	gamma, ok := ec8Importance[p.ImportanceClass]
	if !ok {
		return nil, fmt.Errorf("ec8_part1 importance class must be 1-4 (received %d)", p.ImportanceClass)
	}
	if p.AgRock <= 0 {
		return nil, fmt.Errorf("ec8_part1 needs a positive rock acceleration ag (received %g)", p.AgRock)
	}
	damping := p.Damping
	if damping <= 0 {
		damping = 5
	}
	eta := math.Max(math.Sqrt(10/(5+damping)), 0.55)
	ag := gamma * p.AgRock

	return func(t float64) (float64, error) {
		switch {
		case t <= soil.tb:
			return ag * soil.s * (1 + t/soil.tb*(eta*2.5-1)), nil
		case t <= soil.tc:
			return ag * soil.s * eta * 2.5, nil
		case t <= soil.td:
			return ag * soil.s * eta * 2.5 * soil.tc / t, nil
		case t <= 4:
			return ag * soil.s * eta * 2.5 * soil.tc * soil.td / (t * t), nil
		default:
			return 0, fmt.Errorf("ec8_part1 spectrum is defined up to 4s (received %gs)", t)
		}
	}, nil
}

// asce716Shape returns the ASCE 7-16 design response spectrum in g.
func asce716Shape(p contract.CodeParams) (func(float64) (float64, error), error) {
	if p.SDS <= 0 || p.SD1 <= 0 {
		return nil, fmt.Errorf("asce7_16 needs positive SDS and SD1 (received %g, %g)", p.SDS, p.SD1)
	}
	tl := p.TL
	if tl <= 0 {
		tl = 8
	}
	t0 := 0.2 * p.SD1 / p.SDS
	ts := p.SD1 / p.SDS

	return func(t float64) (float64, error) {
		switch {
		case t < t0:
			return p.SDS * (0.4 + 0.6*t/t0), nil
		case t <= ts:
			return p.SDS, nil
		case t <= tl:
			return p.SD1 / t, nil
		default:
			return p.SD1 * tl / (t * t), nil
		}
	}, nil
}

// tbec2018Shape returns the TBEC 2018 horizontal elastic design spectrum
// in g.
func tbec2018Shape(p contract.CodeParams) (func(float64) (float64, error), error) {
	if p.SDS <= 0 || p.SD1 <= 0 {
		return nil, fmt.Errorf("tbec_2018 needs positive SDS and SD1 (received %g, %g)", p.SDS, p.SD1)
	}
	tl := p.TL
	if tl <= 0 {
		tl = 6
	}
	ta := 0.2 * p.SD1 / p.SDS
	tb := p.SD1 / p.SDS

	return func(t float64) (float64, error) {
		switch {
		case t < ta:
			return (0.4 + 0.6*t/ta) * p.SDS, nil
		case t <= tb:
			return p.SDS, nil
		case t <= tl:
			return p.SD1 / t, nil
		default:
			return p.SD1 * tl / (t * t), nil
		}
	}, nil
}
