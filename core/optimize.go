package core

import (
	"context"
	"sync"

	"github.com/odakan/EzGM/internal/contract"
	"github.com/odakan/EzGM/schema"
)

// Optimize refines a greedy suite by local search: each pass walks the
// suite slots in order and replaces a slot with the pool candidate that
// most improves the suite objective, if the relative improvement clears
// the configured tolerance. The objective never increases. The search
// stops at the pass budget, at the first pass without a swap, or at
// context cancellation between passes.
func Optimize(ctx context.Context, cfg *contract.Config, target *schema.Target, candidates []candidate, realizations [][]float64, suite schema.Suite) (schema.Suite, int, int, []schema.Warning, error) {
	var warnings []schema.Warning

	// Work on a copy so the caller's greedy suite survives for comparison.
	suite.Entries = append([]schema.SelectedEntry(nil), suite.Entries...)

	byID := make(map[int]*candidate, len(candidates))
	for i := range candidates {
		byID[candidates[i].record.ID] = &candidates[i]
	}

	spectra := make([][]float64, len(suite.Entries))
	for i, e := range suite.Entries {
		spectra[i] = byID[e.RecordID].scaled
	}

	current := suite.Objective
	passes, swaps := 0, 0
	for pass := 0; pass < cfg.OptimizerPasses; pass++ {
		if err := ctx.Err(); err != nil {
			return suite, passes, swaps, warnings, err
		}
		passes++

		swapped := false
		for slot := range suite.Entries {
			pool := swapPool(cfg, candidates, suite.Entries, slot)
			if len(pool) == 0 {
				continue
			}

			objectives := scoreSwaps(cfg, target, spectra, slot, pool)
			best := 0
			for i := 1; i < len(pool); i++ {
				if objectives[i] < objectives[best] {
					best = i
				}
			}

			if current <= 0 || (current-objectives[best])/current <= cfg.Tolerance {
				continue
			}

			chosen := pool[best]
			suite.Entries[slot] = schema.SelectedEntry{
				RecordID:    chosen.record.ID,
				EventID:     chosen.record.EventID,
				ScaleFactor: chosen.factor,
				MatchError:  sse(cfg.ErrorWeights, chosen.scaled, realizations[slot]),
			}
			spectra[slot] = chosen.scaled
			current = objectives[best]
			swaps++
			swapped = true
		}

		if !swapped {
			if pass == 0 {
				warnings = append(warnings, schema.NewWarning(schema.WarnNoImprovingSwap,
					"local search found no improving swap, greedy suite kept as-is"))
			}
			break
		}
	}

	suite.MeanLn, suite.StdLn = suiteStats(spectra, target.Periods.Len())
	suite.Objective, suite.MeanError, suite.StdError = matchObjective(cfg, target, spectra)
	return suite, passes, swaps, warnings, nil
}

// swapPool returns the candidates allowed to replace the given slot:
// eligible records not already in the suite, whose event does not collide
// with any other slot's event under the no-repeat-event constraint.
func swapPool(cfg *contract.Config, candidates []candidate, entries []schema.SelectedEntry, slot int) []*candidate {
	inSuite := make(map[int]struct{}, len(entries))
	otherEvents := make(map[string]struct{}, len(entries))
	for i, e := range entries {
		inSuite[e.RecordID] = struct{}{}
		if i != slot {
			otherEvents[e.EventID] = struct{}{}
		}
	}

	var out []*candidate
	for i := range candidates {
		c := &candidates[i]
		if !c.eligible {
			continue
		}
		if _, used := inSuite[c.record.ID]; used && !cfg.AllowReuse {
			continue
		}
		if cfg.NoRepeatEvent {
			if _, used := otherEvents[c.record.EventID]; used {
				continue
			}
		}
		out = append(out, c)
	}
	return out
}

// scoreSwaps evaluates the suite objective with the slot spectrum replaced
// by each pool candidate, fanned out over the worker pool.
func scoreSwaps(cfg *contract.Config, target *schema.Target, spectra [][]float64, slot int, pool []*candidate) []float64 {
	objectives := make([]float64, len(pool))
	workers := cfg.Workers
	if workers < 1 {
		workers = 1
	}
	if workers > len(pool) {
		workers = len(pool)
	}

	idxCh := make(chan int)
	var wg sync.WaitGroup
	for range workers {
		wg.Go(func() {
			scratch := make([][]float64, len(spectra))
			for i := range idxCh {
				copy(scratch, spectra)
				scratch[slot] = pool[i].scaled
				objectives[i], _, _ = matchObjective(cfg, target, scratch)
			}
		})
	}
	for i := range pool {
		idxCh <- i
	}
	close(idxCh)
	wg.Wait()
	return objectives
}
