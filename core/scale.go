package core

import (
	"math"

	"github.com/odakan/EzGM/internal/contract"
	"github.com/odakan/EzGM/schema"
)

// scaleSlack absorbs float rounding when a factor sits exactly on the
// configured limit.
const scaleSlack = 1e-9

// ScaleFactor returns the amplitude factor that moves a record's anchor
// ordinate onto the target's: the ratio of the target and candidate
// geometric-mean Sa over the anchor periods. With scaling disabled every
// record stays at unity.
func ScaleFactor(cfg *contract.Config, target *schema.Target, r *schema.Record) float64 {
	if !cfg.Scaling {
		return 1.0
	}
	return math.Exp(target.AnchorMeanLn() - r.LnSaMean(target.AnchorIdx))
}

// ScaleEligible reports whether a factor is usable under the configured
// limit. Compression is held to the same limit as amplification.
func ScaleEligible(cfg *contract.Config, factor float64) bool {
	if !cfg.Scaling {
		return true
	}
	effective := factor
	if factor > 0 && factor < 1 {
		effective = 1 / factor
	}
	return effective <= cfg.MaxScale+scaleSlack
}

// scaledLnSa returns the record's log spectrum shifted by the log of the
// scale factor. Scaling is a constant offset in log space.
func scaledLnSa(r *schema.Record, factor float64) []float64 {
	lnF := math.Log(factor)
	out := make([]float64, len(r.LnSa))
	for i, v := range r.LnSa {
		out[i] = v + lnF
	}
	return out
}
