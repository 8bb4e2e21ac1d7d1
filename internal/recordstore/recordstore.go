// Package recordstore loads candidate record catalogs from flatfiles and
// SQLite databases and aligns their spectra to the configured period grid.
package recordstore

import (
	"fmt"
	"math"
	"sort"

	"github.com/odakan/EzGM/internal/contract"
	"github.com/odakan/EzGM/schema"
)

// rawRecord is a catalog row before its spectrum is aligned to the grid.
// Ordinates are kept as (period, Sa in g) pairs in whatever order the
// source listed them.
type rawRecord struct {
	record  schema.Record
	periods []float64
	sa      []float64
}

// Load reads the catalog named by the config and returns records whose
// LnSa vectors are aligned one-to-one with cfg.Grid. Sources store
// spectral ordinates as Sa in g; they are converted to natural logs here.
func Load(cfg *contract.Config) ([]schema.Record, []schema.Warning, error) {
	if cfg.CatalogPath == "" {
		return nil, nil, fmt.Errorf("%w: no catalog path configured", schema.ErrMissingMetadata)
	}

	var raw []rawRecord
	var err error
	switch cfg.CatalogBackend {
	case schema.SQLiteBackend:
		raw, err = loadSQLite(cfg.CatalogPath)
	default:
		raw, err = loadCSV(cfg.CatalogPath)
	}
	if err != nil {
		return nil, nil, err
	}

	return alignToGrid(raw, cfg)
}

// alignToGrid resolves each raw spectrum onto the configured grid, either
// by exact period lookup or by log-log interpolation when enabled.
func alignToGrid(raw []rawRecord, cfg *contract.Config) ([]schema.Record, []schema.Warning, error) {
	records := make([]schema.Record, 0, len(raw))
	interpolated := 0

	for i := range raw {
		r := &raw[i]
		lnSa, interp, err := resolveSpectrum(r, cfg)
		if err != nil {
			return nil, nil, err
		}
		if interp {
			interpolated++
		}
		rec := r.record
		rec.LnSa = lnSa
		records = append(records, rec)
	}

	var warnings []schema.Warning
	if interpolated > 0 {
		warnings = append(warnings, schema.NewWarning(schema.WarnInterpolated,
			"interpolated %d of %d records onto the %d-period grid", interpolated, len(raw), cfg.Grid.Len()))
	}
	return records, warnings, nil
}

// resolveSpectrum returns the log ordinates of one record on the grid.
// The second return value reports whether any ordinate was interpolated.
func resolveSpectrum(r *rawRecord, cfg *contract.Config) ([]float64, bool, error) {
	// Sort the source ordinates by period once; interpolation needs order
	// and exact lookup does not care.
	idx := make([]int, len(r.periods))
	for i := range idx {
		idx[i] = i
	}
	sort.Slice(idx, func(a, b int) bool { return r.periods[idx[a]] < r.periods[idx[b]] })

	periods := make([]float64, len(idx))
	sa := make([]float64, len(idx))
	for i, j := range idx {
		periods[i] = r.periods[j]
		sa[i] = r.sa[j]
	}

	lnSa := make([]float64, cfg.Grid.Len())
	interpolated := false
	for gi, t := range cfg.Grid {
		if j, ok := findPeriod(periods, t); ok {
			if sa[j] <= 0 {
				return nil, false, fmt.Errorf("record %d has non-positive Sa %g at T=%.4gs", r.record.ID, sa[j], t)
			}
			lnSa[gi] = math.Log(sa[j])
			continue
		}
		if !cfg.Interpolate {
			return nil, false, fmt.Errorf("%w: record %d has no ordinate at T=%.4gs (enable interpolation or regrid the catalog)",
				schema.ErrMalformedPeriodGrid, r.record.ID, t)
		}
		v, err := interpLogLog(periods, sa, t)
		if err != nil {
			return nil, false, fmt.Errorf("record %d: %w", r.record.ID, err)
		}
		lnSa[gi] = v
		interpolated = true
	}
	return lnSa, interpolated, nil
}

// findPeriod locates t in a sorted period list within the grid tolerance.
func findPeriod(periods []float64, t float64) (int, bool) {
	for i, p := range periods {
		if math.Abs(p-t) <= schema.GridTolerance*math.Max(1, math.Abs(p)) {
			return i, true
		}
	}
	return 0, false
}

// interpLogLog interpolates log Sa linearly in log period between the
// bracketing source ordinates. Extrapolation beyond the source range is
// refused; response spectra are not reliable outside their computed band.
func interpLogLog(periods, sa []float64, t float64) (float64, error) {
	n := len(periods)
	if n == 0 {
		return 0, fmt.Errorf("%w: record carries no spectral ordinates", schema.ErrMissingMetadata)
	}
	if t < periods[0] || t > periods[n-1] {
		return 0, fmt.Errorf("%w: T=%.4gs is outside the catalog band [%.4g, %.4g]",
			schema.ErrMalformedPeriodGrid, t, periods[0], periods[n-1])
	}
	hi := sort.SearchFloat64s(periods, t)
	if hi == 0 {
		hi = 1
	}
	lo := hi - 1
	if sa[lo] <= 0 || sa[hi] <= 0 {
		return 0, fmt.Errorf("non-positive Sa bracketing T=%.4gs", t)
	}
	x0, x1 := math.Log(periods[lo]), math.Log(periods[hi])
	y0, y1 := math.Log(sa[lo]), math.Log(sa[hi])
	if x1 == x0 {
		return y0, nil
	}
	frac := (math.Log(t) - x0) / (x1 - x0)
	return y0 + frac*(y1-y0), nil
}
