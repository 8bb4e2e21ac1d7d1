package core

import (
	"context"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/odakan/EzGM/internal/contract"
	"github.com/odakan/EzGM/schema"
)

// mockStore is an in-memory RunStore capturing everything Run persists.
type mockStore struct {
	mu      sync.Mutex
	runs    int
	entries []schema.RunEntryRecord
	ended   bool
	total   int
}

func (m *mockStore) BeginRun(_ time.Time, _ map[string]any) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.runs++
	return int64(m.runs), nil
}

func (m *mockStore) EndRun(_ int64, _ time.Time, totalSelected int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ended = true
	m.total = totalSelected
	return nil
}

func (m *mockStore) RecordEntry(runID int64, stripeLevel float64, rank int, entry schema.SelectedEntry, selectedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, schema.RunEntryRecord{
		RunID:       runID,
		StripeLevel: stripeLevel,
		Rank:        int32(rank),
		RecordID:    int32(entry.RecordID),
		EventID:     entry.EventID,
		ScaleFactor: entry.ScaleFactor,
		MatchError:  entry.MatchError,
		SelectedAt:  selectedAt,
	})
	return nil
}

func (m *mockStore) GetStatus() (schema.RunStatus, error)          { return schema.RunStatus{}, nil }
func (m *mockStore) GetAllRuns() ([]schema.RunRecord, error)       { return nil, nil }
func (m *mockStore) GetAllEntries() ([]schema.RunEntryRecord, error) { return nil, nil }
func (m *mockStore) Close() error                                  { return nil }

// runConfig wires the full pipeline through the table-backed model.
func runConfig(t *testing.T) *contract.Config {
	t.Helper()
	cfg := selectionConfig(t)
	cfg.Strategy = schema.ConditionalTarget
	cfg.GMPE = "table"
	cfg.Correlation = "baker_jayaram"
	cfg.IM = schema.SaCondition
	cfg.AnchorLo, cfg.AnchorHi = 1.0, 1.0
	cfg.Levels = []float64{0.135}
	cfg.Scenario = schema.Scenario{Magnitude: 6.5, Distance: 20, Vs30: 400}
	cfg.GMPETables = []contract.GMPETable{{
		Magnitude: 6.5,
		Distance:  20,
		Periods:   []float64{0.05, 0.1, 0.5, 1.0, 2.0, 3.0},
		Medians:   []float64{0.45, math.Exp(-1.0), math.Exp(-1.5), math.Exp(-2.0), math.Exp(-2.8), 0.03},
		Sigmas:    []float64{0.5, 0.5, 0.5, 0.5, 0.5, 0.5},
	}}
	return cfg
}

func runCatalog(t *testing.T, n int) *Catalog {
	t.Helper()
	cat, err := NewCatalog(testGrid(t), syntheticRecords([]float64{-1.0, -1.5, -2.0, -2.8}, n))
	require.NoError(t, err)
	return cat
}

func TestRunEndToEnd(t *testing.T) {
	cfg := runConfig(t)
	catalog := runCatalog(t, 20)
	store := &mockStore{}

	result, err := Run(context.Background(), cfg, catalog, store)
	require.NoError(t, err)
	require.Len(t, result.Stripes, 1)
	stripe := result.Stripes[0]

	t.Run("suite is filled with distinct events", func(t *testing.T) {
		require.Len(t, stripe.Suite.Entries, cfg.SuiteSize)
		events := make(map[string]struct{})
		for _, e := range stripe.Suite.Entries {
			events[e.EventID] = struct{}{}
		}
		assert.Len(t, events, cfg.SuiteSize)
	})

	t.Run("refinement never worsens the greedy suite", func(t *testing.T) {
		assert.LessOrEqual(t, stripe.Suite.Objective, stripe.GreedyObjective)
	})

	t.Run("target is conditioned on the stripe level", func(t *testing.T) {
		require.NotNil(t, stripe.Target)
		assert.Equal(t, 0.135, stripe.Level)
		anchor := stripe.Target.AnchorIdx[0]
		assert.InDelta(t, math.Log(0.135), stripe.Target.MeanLn[anchor], 1e-9)
	})

	t.Run("run is persisted", func(t *testing.T) {
		assert.Equal(t, 1, store.runs)
		assert.True(t, store.ended)
		assert.Equal(t, cfg.SuiteSize, store.total)
		assert.Len(t, store.entries, cfg.SuiteSize)
	})
}

func TestRunDeterminism(t *testing.T) {
	cfg := runConfig(t)
	catalog := runCatalog(t, 20)

	first, err := Run(context.Background(), cfg, catalog, nil)
	require.NoError(t, err)
	second, err := Run(context.Background(), cfg, catalog, nil)
	require.NoError(t, err)

	assert.Equal(t, first.Seed, second.Seed)
	require.Len(t, second.Stripes, len(first.Stripes))
	for i := range first.Stripes {
		assert.Equal(t, first.Stripes[i].Suite.Entries, second.Stripes[i].Suite.Entries)
		assert.Equal(t, first.Stripes[i].Suite.Objective, second.Stripes[i].Suite.Objective)
	}
}

func TestRunMultipleStripes(t *testing.T) {
	cfg := runConfig(t)
	cfg.Levels = []float64{0.08, 0.135, 0.25}
	catalog := runCatalog(t, 20)

	result, err := Run(context.Background(), cfg, catalog, nil)
	require.NoError(t, err)
	require.Len(t, result.Stripes, 3)
	for i, level := range cfg.Levels {
		assert.Equal(t, level, result.Stripes[i].Level)
		assert.Len(t, result.Stripes[i].Suite.Entries, cfg.SuiteSize)
	}
}

func TestRunInsufficientCatalogBoundary(t *testing.T) {
	cfg := runConfig(t)
	catalog := runCatalog(t, 20) // ten distinct events

	t.Run("more records than distinct events", func(t *testing.T) {
		over := cfg.Clone()
		over.SuiteSize = 11
		_, err := Run(context.Background(), over, catalog, nil)
		require.Error(t, err)
		assert.ErrorIs(t, err, schema.ErrInsufficientCatalog)

		var catErr *schema.InsufficientCatalogError
		require.ErrorAs(t, err, &catErr)
		assert.Equal(t, 11, catErr.Requested)
		assert.Equal(t, 10, catErr.Available)
	})

	t.Run("exactly the distinct event count succeeds", func(t *testing.T) {
		exact := cfg.Clone()
		exact.SuiteSize = 10
		exact.MaxScale = 4.0
		result, err := Run(context.Background(), exact, catalog, nil)
		require.NoError(t, err)
		assert.Len(t, result.Stripes[0].Suite.Entries, 10)
	})
}

func TestRunUnknownModels(t *testing.T) {
	catalog := runCatalog(t, 20)

	t.Run("unknown gmpe", func(t *testing.T) {
		cfg := runConfig(t)
		cfg.GMPE = "nonexistent"
		_, err := Run(context.Background(), cfg, catalog, nil)
		assert.ErrorIs(t, err, schema.ErrUnknownGMPE)
	})

	t.Run("unknown correlation", func(t *testing.T) {
		cfg := runConfig(t)
		cfg.Correlation = "nonexistent"
		_, err := Run(context.Background(), cfg, catalog, nil)
		assert.ErrorIs(t, err, schema.ErrUnknownCorrelationModel)
	})
}

func TestRunCodeStrategy(t *testing.T) {
	cfg := runConfig(t)
	cfg.Strategy = schema.CodeTarget
	cfg.Code = schema.ASCE716Spectrum
	cfg.CodeParams = contract.CodeParams{SDS: 0.3, SD1: 0.15, TL: 8}
	cfg.Levels = nil
	catalog := runCatalog(t, 20)

	result, err := Run(context.Background(), cfg, catalog, nil)
	require.NoError(t, err)
	require.Len(t, result.Stripes, 1)
	stripe := result.Stripes[0]
	require.Len(t, stripe.Suite.Entries, cfg.SuiteSize)

	// A deterministic target leaves no variability to match.
	for _, s := range stripe.Target.StdLn {
		assert.Zero(t, s)
	}
}

func TestRunScaleFactorExceeded(t *testing.T) {
	cfg := runConfig(t)
	cfg.Levels = []float64{2.0} // far above anything in the pool
	cfg.MaxScale = 2.0
	catalog := runCatalog(t, 20)

	_, err := Run(context.Background(), cfg, catalog, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, schema.ErrScaleFactorExceeded)
}
