package core

import (
	"context"
	"math"
	"sync"

	"github.com/odakan/EzGM/internal/contract"
	"github.com/odakan/EzGM/schema"
)

// candidate is a pool record with its precomputed scale factor and scaled
// log spectrum. The factor depends only on the target anchor, so it is
// computed once per record and reused across realizations and swaps.
type candidate struct {
	record   schema.Record
	factor   float64
	eligible bool
	scaled   []float64
}

// buildCandidates precomputes scale factors and scaled spectra for the
// filtered pool, in ID order.
func buildCandidates(cfg *contract.Config, target *schema.Target, pool []schema.Record) []candidate {
	out := make([]candidate, len(pool))
	for i := range pool {
		r := &pool[i]
		factor := ScaleFactor(cfg, target, r)
		out[i] = candidate{
			record:   *r,
			factor:   factor,
			eligible: ScaleEligible(cfg, factor),
			scaled:   scaledLnSa(r, factor),
		}
	}
	return out
}

// GreedySelect fills the suite one realization at a time: each realization
// gets the eligible candidate whose scaled log spectrum sits closest to it
// in squared error. Ties go to the lowest record ID. Selected records, and
// under the no-repeat-event constraint their events, leave the pool.
func GreedySelect(ctx context.Context, cfg *contract.Config, target *schema.Target, candidates []candidate, realizations [][]float64) (schema.Suite, []schema.Warning, error) {
	var warnings []schema.Warning
	if cfg.AllowReuse {
		warnings = append(warnings, schema.NewWarning(schema.WarnRecordReuse,
			"record reuse enabled, the suite may contain duplicate entries"))
	}

	usedRecords := make(map[int]struct{})
	usedEvents := make(map[string]struct{})
	entries := make([]schema.SelectedEntry, 0, len(realizations))
	spectra := make([][]float64, 0, len(realizations))

	for j, realization := range realizations {
		if err := ctx.Err(); err != nil {
			return schema.Suite{}, warnings, err
		}

		usable := usableCandidates(cfg, candidates, usedRecords, usedEvents)
		if len(usable) == 0 {
			return schema.Suite{}, warnings, exhaustionError(cfg, candidates, usedRecords, usedEvents, j, len(realizations))
		}

		scores := scoreCandidates(cfg, usable, realization)

		best := 0
		for i := 1; i < len(usable); i++ {
			if scores[i] < scores[best] {
				best = i
			}
		}

		chosen := usable[best]
		entries = append(entries, schema.SelectedEntry{
			RecordID:    chosen.record.ID,
			EventID:     chosen.record.EventID,
			ScaleFactor: chosen.factor,
			MatchError:  scores[best],
		})
		spectra = append(spectra, chosen.scaled)
		if !cfg.AllowReuse {
			usedRecords[chosen.record.ID] = struct{}{}
		}
		if cfg.NoRepeatEvent {
			usedEvents[chosen.record.EventID] = struct{}{}
		}
	}

	suite := schema.Suite{Entries: entries}
	suite.MeanLn, suite.StdLn = suiteStats(spectra, target.Periods.Len())
	suite.Objective, suite.MeanError, suite.StdError = matchObjective(cfg, target, spectra)
	return suite, warnings, nil
}

// usableCandidates returns the eligible candidates not blocked by the
// record and event constraints, preserving ID order so the strictly-less
// argmin breaks ties toward the lowest ID.
func usableCandidates(cfg *contract.Config, candidates []candidate, usedRecords map[int]struct{}, usedEvents map[string]struct{}) []*candidate {
	var out []*candidate
	for i := range candidates {
		c := &candidates[i]
		if !c.eligible {
			continue
		}
		if _, used := usedRecords[c.record.ID]; used {
			continue
		}
		if cfg.NoRepeatEvent {
			if _, used := usedEvents[c.record.EventID]; used {
				continue
			}
		}
		out = append(out, c)
	}
	return out
}

// scoreCandidates computes the squared error of every usable candidate
// against one realization, fanned out over the worker pool. Results land
// in an indexed slice so the reduction order is deterministic.
func scoreCandidates(cfg *contract.Config, usable []*candidate, realization []float64) []float64 {
	scores := make([]float64, len(usable))
	workers := cfg.Workers
	if workers < 1 {
		workers = 1
	}
	if workers > len(usable) {
		workers = len(usable)
	}

	idxCh := make(chan int)
	var wg sync.WaitGroup
	for range workers {
		wg.Go(func() {
			for i := range idxCh {
				scores[i] = sse(cfg.ErrorWeights, usable[i].scaled, realization)
			}
		})
	}
	for i := range usable {
		idxCh <- i
	}
	close(idxCh)
	wg.Wait()
	return scores
}

// exhaustionError classifies an empty usable pool: a scale-factor failure
// when unused candidates exist but none passes the limit, otherwise an
// insufficient catalog under the active constraints.
func exhaustionError(cfg *contract.Config, candidates []candidate, usedRecords map[int]struct{}, usedEvents map[string]struct{}, realization, requested int) error {
	closestID := -1
	closest := math.Inf(1)
	blockedByScale := false
	for i := range candidates {
		c := &candidates[i]
		if _, used := usedRecords[c.record.ID]; used {
			continue
		}
		if cfg.NoRepeatEvent {
			if _, used := usedEvents[c.record.EventID]; used {
				continue
			}
		}
		// An unused candidate can only be blocked by its scale factor.
		blockedByScale = true
		effective := c.factor
		if c.factor > 0 && c.factor < 1 {
			effective = 1 / c.factor
		}
		if effective < closest {
			closest = effective
			closestID = c.record.ID
		}
	}

	if blockedByScale {
		return &schema.ScaleError{
			Realization: realization,
			RecordID:    closestID,
			Required:    closest,
			Limit:       cfg.MaxScale,
		}
	}

	constraint := ""
	if cfg.NoRepeatEvent {
		constraint = "no-repeat-event"
	}
	return &schema.InsufficientCatalogError{
		Requested:  requested,
		Available:  realization,
		Constraint: constraint,
	}
}
