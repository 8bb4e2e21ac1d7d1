package core

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/odakan/EzGM/core/gmm"
	"github.com/odakan/EzGM/internal/contract"
	"github.com/odakan/EzGM/schema"
)

// Run executes a full selection run: one stripe per conditioning level,
// each building a target, simulating realizations, greedily filling the
// suite and refining it by local search. Stripes are independent and run
// concurrently. The store, when present, records the run and its selected
// entries; store failures are logged but never fail the run.
func Run(ctx context.Context, cfg *contract.Config, catalog *Catalog, store contract.RunStore) (*schema.RunResult, error) {
	start := time.Now()

	var provider gmm.Provider
	var corr gmm.CorrelationFunc
	if cfg.Strategy == schema.ConditionalTarget {
		var err error
		provider, err = gmm.NewProvider(cfg.GMPE, cfg)
		if err != nil {
			return nil, err
		}
		corr, err = gmm.NewCorrelation(cfg.Correlation)
		if err != nil {
			return nil, err
		}
	}

	pool := catalog.Filter(cfg)
	if err := checkPoolCapacity(cfg, pool); err != nil {
		return nil, err
	}

	levels := cfg.Levels
	if len(levels) == 0 {
		// Code targets and epsilon conditioning produce a single stripe.
		levels = []float64{0}
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}

	stripes := make([]schema.StripeResult, len(levels))
	errs := make([]error, len(levels))
	var wg sync.WaitGroup
	for i, level := range levels {
		wg.Go(func() {
			stripes[i], errs[i] = runStripe(ctx, cfg, provider, corr, pool, level, seed+uint64(i))
		})
	}
	wg.Wait()
	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	result := &schema.RunResult{
		Stripes:  stripes,
		Seed:     seed,
		Duration: time.Since(start),
	}
	persistRun(cfg, store, start, result)
	return result, nil
}

// runStripe runs the selection pipeline for one conditioning level.
func runStripe(ctx context.Context, cfg *contract.Config, provider gmm.Provider, corr gmm.CorrelationFunc, pool []schema.Record, level float64, seed uint64) (schema.StripeResult, error) {
	var target *schema.Target
	var err error
	switch cfg.Strategy {
	case schema.CodeTarget:
		target, err = BuildCodeTarget(cfg)
	default:
		target, err = BuildConditionalTarget(cfg, provider, corr, level)
	}
	if err != nil {
		return schema.StripeResult{}, err
	}

	result := schema.StripeResult{Level: target.Level, Target: target}

	realizations, warnings, err := Simulate(cfg, target, seed)
	result.Warnings = append(result.Warnings, warnings...)
	if err != nil {
		return result, err
	}

	candidates := buildCandidates(cfg, target, pool)
	suite, warnings, err := GreedySelect(ctx, cfg, target, candidates, realizations)
	result.Warnings = append(result.Warnings, warnings...)
	if err != nil {
		return result, err
	}
	result.GreedyObjective = suite.Objective

	suite, passes, swaps, warnings, err := Optimize(ctx, cfg, target, candidates, realizations, suite)
	result.Warnings = append(result.Warnings, warnings...)
	result.Suite = suite
	result.OptimizerPasses = passes
	result.OptimizerSwaps = swaps
	if err != nil {
		return result, err
	}
	return result, nil
}

// checkPoolCapacity fails fast when the filtered pool cannot possibly fill
// the suite, before any simulation work is done.
func checkPoolCapacity(cfg *contract.Config, pool []schema.Record) error {
	if cfg.AllowReuse && len(pool) > 0 && !cfg.NoRepeatEvent {
		return nil
	}
	if !cfg.AllowReuse && len(pool) < cfg.SuiteSize {
		return &schema.InsufficientCatalogError{
			Requested:  cfg.SuiteSize,
			Available:  len(pool),
			Constraint: "metadata filters",
		}
	}
	if cfg.NoRepeatEvent {
		if events := DistinctEvents(pool); events < cfg.SuiteSize {
			return &schema.InsufficientCatalogError{
				Requested:  cfg.SuiteSize,
				Available:  events,
				Constraint: "no-repeat-event",
			}
		}
	}
	if len(pool) == 0 {
		return &schema.InsufficientCatalogError{Requested: cfg.SuiteSize, Constraint: "metadata filters"}
	}
	return nil
}

// persistRun writes the run and its entries to the tracking store.
func persistRun(cfg *contract.Config, store contract.RunStore, start time.Time, result *schema.RunResult) {
	if store == nil {
		return
	}

	params := map[string]any{
		"strategy": string(cfg.Strategy),
		"records":  cfg.SuiteSize,
		"trials":   cfg.Trials,
		"seed":     result.Seed,
		"scaling":  cfg.Scaling,
		"passes":   cfg.OptimizerPasses,
	}
	if cfg.Strategy == schema.ConditionalTarget {
		params["gmpe"] = cfg.GMPE
		params["correlation"] = cfg.Correlation
	} else {
		params["code"] = string(cfg.Code)
	}

	runID, err := store.BeginRun(start, params)
	if err != nil {
		contract.LogWarn("recording run start", err)
		return
	}

	total := 0
	now := time.Now()
	for _, stripe := range result.Stripes {
		for rank, entry := range stripe.Suite.Entries {
			if err := store.RecordEntry(runID, stripe.Level, rank, entry, now); err != nil {
				contract.LogWarn(fmt.Sprintf("recording entry %d", entry.RecordID), err)
				continue
			}
			total++
		}
	}
	if err := store.EndRun(runID, time.Now(), total); err != nil {
		contract.LogWarn("recording run end", err)
	}
}
