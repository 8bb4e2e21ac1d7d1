// Package core implements the record selection pipeline: target spectrum
// construction, realization simulation, greedy selection, local-search
// refinement and scaling.
package core

import (
	"fmt"
	"sort"

	"github.com/odakan/EzGM/internal/contract"
	"github.com/odakan/EzGM/schema"
)

// Catalog is the candidate record pool a selection run draws from. Records
// are held sorted by ID so that every downstream iteration order, and
// therefore every tie-break, is deterministic.
type Catalog struct {
	grid    schema.PeriodGrid
	records []schema.Record
}

// NewCatalog validates the records against the grid and returns them as a
// catalog. Records arriving in any order are sorted by ID; duplicate IDs
// are rejected.
func NewCatalog(grid schema.PeriodGrid, records []schema.Record) (*Catalog, error) {
	sorted := make([]schema.Record, len(records))
	copy(sorted, records)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })

	for i := range sorted {
		if i > 0 && sorted[i].ID == sorted[i-1].ID {
			return nil, fmt.Errorf("%w: duplicate record id %d", schema.ErrMissingMetadata, sorted[i].ID)
		}
		if sorted[i].EventID == "" {
			return nil, fmt.Errorf("%w: record %d has no event id", schema.ErrMissingMetadata, sorted[i].ID)
		}
		if err := sorted[i].Validate(grid); err != nil {
			return nil, fmt.Errorf("%w: %v", schema.ErrMissingMetadata, err)
		}
	}
	return &Catalog{grid: grid.Clone(), records: sorted}, nil
}

// Grid returns the period grid the catalog is aligned to.
func (c *Catalog) Grid() schema.PeriodGrid { return c.grid }

// Len returns the number of records in the catalog.
func (c *Catalog) Len() int { return len(c.records) }

// Records returns all records in ID order.
func (c *Catalog) Records() []schema.Record { return c.records }

// Filter returns the records passing the configured metadata bounds, in ID
// order. A zero max bound means unbounded.
func (c *Catalog) Filter(cfg *contract.Config) []schema.Record {
	excluded := make(map[string]struct{}, len(cfg.ExcludeEvents))
	for _, ev := range cfg.ExcludeEvents {
		excluded[ev] = struct{}{}
	}

	var out []schema.Record
	for _, r := range c.records {
		if _, skip := excluded[r.EventID]; skip {
			continue
		}
		if !inBounds(r.Magnitude, cfg.MinMagnitude, cfg.MaxMagnitude) ||
			!inBounds(r.Distance, cfg.MinDistance, cfg.MaxDistance) ||
			!inBounds(r.Vs30, cfg.MinVs30, cfg.MaxVs30) ||
			!inBounds(r.Duration, cfg.MinDuration, cfg.MaxDuration) {
			continue
		}
		out = append(out, r)
	}
	return out
}

// DistinctEvents returns the number of distinct event IDs among the given
// records. This bounds the suite size under the no-repeat-event constraint.
func DistinctEvents(records []schema.Record) int {
	events := make(map[string]struct{}, len(records))
	for _, r := range records {
		events[r.EventID] = struct{}{}
	}
	return len(events)
}

func inBounds(v, lo, hi float64) bool {
	if v < lo {
		return false
	}
	if hi > 0 && v > hi {
		return false
	}
	return true
}
