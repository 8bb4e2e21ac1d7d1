package gmm

import (
	"fmt"
	"math"

	"github.com/odakan/EzGM/internal/contract"
	"github.com/odakan/EzGM/schema"
)

// Matching tolerances for table curves. Curves are precomputed for specific
// ruptures, so scenario lookup is a near-exact match rather than an
// interpolation across ruptures.
const (
	tableMagnitudeTol = 0.05
	tableDistanceTol  = 1.0 // km
)

func init() {
	RegisterProvider("table", NewTableProvider)
}

// tableProvider is a ground-motion model backed by precomputed
// period-response curves from the config file. Each curve carries the
// rupture it was computed for; evaluation picks the curve matching the
// scenario and interpolates over period in log-log space.
type tableProvider struct {
	tables []contract.GMPETable
}

// NewTableProvider builds the table-backed model from the config curves.
func NewTableProvider(cfg *contract.Config) (Provider, error) {
	if len(cfg.GMPETables) == 0 {
		return nil, fmt.Errorf("table model needs at least one curve in the config 'tables' section")
	}
	return &tableProvider{tables: cfg.GMPETables}, nil
}

func (p *tableProvider) Name() string { return "table" }

func (p *tableProvider) Evaluate(s schema.Scenario, period float64) (float64, float64, error) {
	tbl, err := p.curveFor(s)
	if err != nil {
		return 0, 0, err
	}

	n := len(tbl.Periods)
	if period < tbl.Periods[0] || period > tbl.Periods[n-1] {
		return 0, 0, fmt.Errorf("period %gs outside table range [%g, %g]", period, tbl.Periods[0], tbl.Periods[n-1])
	}

	if n == 1 {
		return math.Log(tbl.Medians[0]), tbl.Sigmas[0], nil
	}

	// Find the bracketing interval.
	hi := 1
	for hi < n-1 && tbl.Periods[hi] < period {
		hi++
	}
	lo := hi - 1

	// Median interpolates log-log in period; sigma linear in log period.
	frac := (math.Log(period) - math.Log(tbl.Periods[lo])) /
		(math.Log(tbl.Periods[hi]) - math.Log(tbl.Periods[lo]))
	medianLn := math.Log(tbl.Medians[lo]) + frac*(math.Log(tbl.Medians[hi])-math.Log(tbl.Medians[lo]))
	sigmaLn := tbl.Sigmas[lo] + frac*(tbl.Sigmas[hi]-tbl.Sigmas[lo])

	return medianLn, sigmaLn, nil
}

// curveFor finds the curve matching the scenario within tolerance.
func (p *tableProvider) curveFor(s schema.Scenario) (*contract.GMPETable, error) {
	for i := range p.tables {
		tbl := &p.tables[i]
		if math.Abs(tbl.Magnitude-s.Magnitude) <= tableMagnitudeTol &&
			math.Abs(tbl.Distance-s.Distance) <= tableDistanceTol {
			return tbl, nil
		}
	}
	return nil, fmt.Errorf("%w: no table curve for M%.2f R%.1fkm", schema.ErrInvalidScenario, s.Magnitude, s.Distance)
}
