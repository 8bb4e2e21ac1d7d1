// Package schema has configs, models and global variables for all parts of ezgm.
package schema

import (
	"fmt"
	"math"
)

// Scenario describes the rupture and site parameters handed to a
// ground-motion model when building a target spectrum.
type Scenario struct {
	Magnitude float64 `json:"magnitude"` // Moment magnitude
	Distance  float64 `json:"distance"`  // Joyner-Boore distance in km
	Vs30      float64 `json:"vs30"`      // Time-averaged shear-wave velocity in m/s
}

// Record is a single candidate ground-motion record in the catalog.
// Spectral ordinates are stored as natural-log values aligned one-to-one
// with the period grid the catalog was loaded against. Records are
// immutable after loading; scaling never mutates LnSa.
type Record struct {
	ID         int       `json:"id"`          // Stable unique identifier within the catalog
	EventID    string    `json:"event_id"`    // Identifier of the causative earthquake
	Station    string    `json:"station"`     // Recording station name
	Magnitude  float64   `json:"magnitude"`   // Event moment magnitude
	Distance   float64   `json:"distance"`    // Joyner-Boore distance in km
	Vs30       float64   `json:"vs30"`        // Site shear-wave velocity in m/s
	Duration   float64   `json:"duration"`    // Significant duration in seconds
	Components int       `json:"components"`  // Number of horizontal components behind LnSa
	LnSa       []float64 `json:"ln_sa"`       // Log spectral ordinates on the period grid
}

// Validate checks that the record carries a finite log ordinate for every
// period of the grid.
func (r *Record) Validate(grid PeriodGrid) error {
	if len(r.LnSa) != grid.Len() {
		return fmt.Errorf("record %d has %d ordinates for a %d-period grid", r.ID, len(r.LnSa), grid.Len())
	}
	for i, v := range r.LnSa {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("record %d has non-finite ordinate at T=%.4gs", r.ID, grid[i])
		}
	}
	return nil
}

// LnSaAt returns the log ordinate at the given grid index.
func (r *Record) LnSaAt(i int) float64 {
	return r.LnSa[i]
}

// LnSaMean returns the mean log ordinate over the given grid indices.
// For a single index this is the plain ordinate; for a range it is the
// log of the geometric mean, which is what anchor matching over a period
// band operates on.
func (r *Record) LnSaMean(indices []int) float64 {
	if len(indices) == 0 {
		return 0
	}
	var sum float64
	for _, i := range indices {
		sum += r.LnSa[i]
	}
	return sum / float64(len(indices))
}
