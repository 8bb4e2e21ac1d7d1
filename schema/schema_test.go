package schema

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestRecordValidate checks grid alignment and finiteness rules.
func TestRecordValidate(t *testing.T) {
	grid, err := NewPeriodGrid([]float64{0.1, 0.5, 1.0})
	require.NoError(t, err)

	tests := []struct {
		name    string
		lnSa    []float64
		wantErr bool
	}{
		{name: "aligned", lnSa: []float64{-1, -1.5, -2}, wantErr: false},
		{name: "too short", lnSa: []float64{-1, -1.5}, wantErr: true},
		{name: "too long", lnSa: []float64{-1, -1.5, -2, -2.5}, wantErr: true},
		{name: "NaN ordinate", lnSa: []float64{-1, math.NaN(), -2}, wantErr: true},
		{name: "infinite ordinate", lnSa: []float64{-1, math.Inf(1), -2}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := Record{ID: 7, EventID: "ev1", LnSa: tt.lnSa}
			err := rec.Validate(grid)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

// TestRecordLnSaMean checks single-index and band averaging.
func TestRecordLnSaMean(t *testing.T) {
	rec := Record{LnSa: []float64{-1, -2, -3, -4}}

	assert.InDelta(t, -2.0, rec.LnSaMean([]int{1}), 1e-12)
	assert.InDelta(t, -2.5, rec.LnSaMean([]int{1, 2}), 1e-12)
	assert.Zero(t, rec.LnSaMean(nil))
}

// TestTargetValidate covers the covariance consistency invariants.
func TestTargetValidate(t *testing.T) {
	grid, err := NewPeriodGrid([]float64{0.5, 1.0})
	require.NoError(t, err)

	valid := func() *Target {
		return &Target{
			Periods:   grid,
			MeanLn:    []float64{-1.5, -2.0},
			StdLn:     []float64{0.5, 0.6},
			Cov:       [][]float64{{0.25, 0.1}, {0.1, 0.36}},
			Strategy:  ConditionalTarget,
			AnchorIdx: []int{1},
		}
	}

	t.Run("valid", func(t *testing.T) {
		assert.NoError(t, valid().Validate())
	})

	t.Run("asymmetric covariance", func(t *testing.T) {
		tgt := valid()
		tgt.Cov[0][1] = 0.2
		assert.Error(t, tgt.Validate())
	})

	t.Run("diagonal disagrees with std", func(t *testing.T) {
		tgt := valid()
		tgt.Cov[1][1] = 0.9
		assert.Error(t, tgt.Validate())
	})

	t.Run("negative std", func(t *testing.T) {
		tgt := valid()
		tgt.StdLn[0] = -0.1
		assert.Error(t, tgt.Validate())
	})

	t.Run("zero covariance is valid for code targets", func(t *testing.T) {
		tgt := valid()
		tgt.Strategy = CodeTarget
		tgt.StdLn = []float64{0, 0}
		tgt.Cov = ZeroCov(2)
		assert.NoError(t, tgt.Validate())
	})
}

// TestTargetAnchorMeanLn checks the anchor ordinate for single and band anchors.
func TestTargetAnchorMeanLn(t *testing.T) {
	grid, err := NewPeriodGrid([]float64{0.5, 1.0, 2.0})
	require.NoError(t, err)

	tgt := &Target{Periods: grid, MeanLn: []float64{-1, -2, -3}, AnchorIdx: []int{1}}
	assert.InDelta(t, -2.0, tgt.AnchorMeanLn(), 1e-12)

	tgt.AnchorIdx = []int{0, 1, 2}
	assert.InDelta(t, -2.0, tgt.AnchorMeanLn(), 1e-12)
}

// TestErrorTaxonomy ensures typed errors unwrap to their class sentinels.
func TestErrorTaxonomy(t *testing.T) {
	t.Run("insufficient catalog", func(t *testing.T) {
		err := &InsufficientCatalogError{Requested: 10, Available: 4, Constraint: "no-repeat-event"}
		assert.ErrorIs(t, err, ErrInsufficientCatalog)
		assert.Contains(t, err.Error(), "no-repeat-event")
	})

	t.Run("scale factor exceeded", func(t *testing.T) {
		err := &ScaleError{Realization: 3, RecordID: 12, Required: 4.2, Limit: 3.0}
		assert.ErrorIs(t, err, ErrScaleFactorExceeded)
		assert.Contains(t, err.Error(), "realization 3")
	})
}
