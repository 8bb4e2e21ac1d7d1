package contract

import (
	"testing"

	"github.com/odakan/EzGM/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// validRawInput returns a raw input that passes validation, used as the
// baseline for the mutation tests below.
func validRawInput() *ConfigRawInput {
	return &ConfigRawInput{
		Grid:         []float64{0.1, 0.5, 1.0, 2.0},
		Strategy:     "conditional",
		GMPE:         "table",
		Correlation:  "baker_jayaram",
		IM:           "sa",
		Anchor:       "1.0",
		Levels:       []float64{0.25},
		Records:      DefaultSuiteSize,
		Trials:       DefaultTrials,
		Scale:        "yes",
		MaxScale:     DefaultMaxScale,
		RepeatEvents: "no",
		Reuse:        "no",
		Passes:       DefaultPasses,
		Tolerance:    DefaultTolerance,
		Workers:      DefaultWorkers,
		Precision:    DefaultPrecision,
		Output:       "text",
		Color:        "yes",
		Interpolate:  "no",
		RunsBackend:  "none",
		Scenario:     ScenarioRawInput{Magnitude: 6.5, Distance: 20, Vs30: 520},
	}
}

// TestProcessAndValidateHappyPath checks the baseline input maps cleanly
// onto the final config.
func TestProcessAndValidateHappyPath(t *testing.T) {
	cfg := &Config{}
	input := validRawInput()

	require.NoError(t, ProcessAndValidate(cfg, input))

	assert.Equal(t, schema.ConditionalTarget, cfg.Strategy)
	assert.Equal(t, "table", cfg.GMPE)
	assert.Equal(t, "baker_jayaram", cfg.Correlation)
	assert.Equal(t, 4, cfg.Grid.Len())
	assert.Equal(t, 1.0, cfg.AnchorLo)
	assert.Equal(t, 1.0, cfg.AnchorHi)
	assert.True(t, cfg.NoRepeatEvent)
	assert.False(t, cfg.AllowReuse)
	assert.Equal(t, []float64{0.25}, cfg.Levels)
	assert.InDelta(t, 1.0, cfg.Weights[schema.MeanComponent], 1e-12)
	assert.InDelta(t, 2.0, cfg.Weights[schema.StdComponent], 1e-12)
	assert.Nil(t, cfg.ErrorWeights)
}

// TestProcessAndValidateErrorWeights checks the per-period weight handling.
func TestProcessAndValidateErrorWeights(t *testing.T) {
	cfg := &Config{}
	input := validRawInput()
	input.ErrorWeights = []float64{0.5, 1, 2, 0}

	require.NoError(t, ProcessAndValidate(cfg, input))
	assert.Equal(t, []float64{0.5, 1, 2, 0}, cfg.ErrorWeights)
}

// TestProcessAndValidateRejections walks the main validation failures.
func TestProcessAndValidateRejections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*ConfigRawInput)
	}{
		{"empty grid", func(in *ConfigRawInput) { in.Grid = nil }},
		{"unsorted grid", func(in *ConfigRawInput) { in.Grid = []float64{1.0, 0.5} }},
		{"bad strategy", func(in *ConfigRawInput) { in.Strategy = "bayesian" }},
		{"missing gmpe", func(in *ConfigRawInput) { in.GMPE = "" }},
		{"missing correlation", func(in *ConfigRawInput) { in.Correlation = "" }},
		{"bad conditioning measure", func(in *ConfigRawInput) { in.IM = "pga" }},
		{"missing anchor", func(in *ConfigRawInput) { in.Anchor = "" }},
		{"inverted anchor band", func(in *ConfigRawInput) { in.Anchor = "2.0:0.2" }},
		{"avgsa with single anchor", func(in *ConfigRawInput) { in.IM = "avgsa" }},
		{"zero records", func(in *ConfigRawInput) { in.Records = 0 }},
		{"excessive records", func(in *ConfigRawInput) { in.Records = MaxSuiteSize + 1 }},
		{"zero trials", func(in *ConfigRawInput) { in.Trials = 0 }},
		{"zero max scale while scaling", func(in *ConfigRawInput) { in.MaxScale = 0 }},
		{"negative tolerance", func(in *ConfigRawInput) { in.Tolerance = -1 }},
		{"negative passes", func(in *ConfigRawInput) { in.Passes = -1 }},
		{"zero workers", func(in *ConfigRawInput) { in.Workers = 0 }},
		{"bad output", func(in *ConfigRawInput) { in.Output = "xml" }},
		{"bad runs backend", func(in *ConfigRawInput) { in.RunsBackend = "redis" }},
		{"negative stripe level", func(in *ConfigRawInput) { in.Levels = []float64{-0.1} }},
		{"no levels and no epsilon", func(in *ConfigRawInput) { in.Levels = nil }},
		{"levels and epsilon together", func(in *ConfigRawInput) {
			eps := 1.5
			in.Epsilon = &eps
		}},
		{"inverted magnitude bounds", func(in *ConfigRawInput) {
			in.MinMagnitude = 7
			in.MaxMagnitude = 5
		}},
		{"all-zero weights", func(in *ConfigRawInput) {
			zero := 0.0
			in.Weights = WeightsRawInput{Mean: &zero, Std: &zero}
		}},
		{"error weights off the grid", func(in *ConfigRawInput) { in.ErrorWeights = []float64{1, 1} }},
		{"negative error weight", func(in *ConfigRawInput) { in.ErrorWeights = []float64{1, -1, 1, 1} }},
		{"all-zero error weights", func(in *ConfigRawInput) { in.ErrorWeights = []float64{0, 0, 0, 0} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := validRawInput()
			tt.mutate(input)
			assert.Error(t, ProcessAndValidate(&Config{}, input))
		})
	}
}

// TestProcessAndValidateEpsilonMode checks the epsilon-only conditioning path.
func TestProcessAndValidateEpsilonMode(t *testing.T) {
	cfg := &Config{}
	input := validRawInput()
	input.Levels = nil
	eps := 1.5
	input.Epsilon = &eps

	require.NoError(t, ProcessAndValidate(cfg, input))
	assert.True(t, cfg.UseEpsilon)
	assert.InDelta(t, 1.5, cfg.Epsilon, 1e-12)
	assert.Empty(t, cfg.Levels)
}

// TestProcessAndValidateCodeStrategy checks code targets skip GMPE inputs.
func TestProcessAndValidateCodeStrategy(t *testing.T) {
	cfg := &Config{}
	input := validRawInput()
	input.Strategy = "code"
	input.Code = "ec8_part1"
	input.GMPE = ""
	input.Correlation = ""
	input.Levels = nil
	input.CodeParams = CodeParamsRawInput{Ag: 0.4, SpectrumType: 1, SiteClass: "c", ImportanceClass: 2, Damping: 5}

	require.NoError(t, ProcessAndValidate(cfg, input))
	assert.Equal(t, schema.CodeTarget, cfg.Strategy)
	assert.Equal(t, schema.EC8Part1Spectrum, cfg.Code)
	assert.Equal(t, "C", cfg.CodeParams.SiteClass)
}

// TestParseAnchor covers the anchor grammar.
func TestParseAnchor(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		lo, hi  float64
		wantErr bool
	}{
		{name: "single period", input: "1.0", lo: 1.0, hi: 1.0},
		{name: "band", input: "0.2:2.0", lo: 0.2, hi: 2.0},
		{name: "band with spaces", input: "0.2 : 2.0", lo: 0.2, hi: 2.0},
		{name: "empty", input: "", wantErr: true},
		{name: "garbage", input: "abc", wantErr: true},
		{name: "negative", input: "-1.0", wantErr: true},
		{name: "inverted", input: "2.0:0.2", wantErr: true},
		{name: "too many parts", input: "0.2:1.0:2.0", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lo, hi, err := ParseAnchor(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.lo, lo)
			assert.Equal(t, tt.hi, hi)
		})
	}
}

// TestConfigClone ensures deep copies do not alias the original maps/slices.
func TestConfigClone(t *testing.T) {
	cfg := &Config{}
	require.NoError(t, ProcessAndValidate(cfg, validRawInput()))

	cfg.ErrorWeights = []float64{1, 1, 2, 1}
	clone := cfg.Clone()
	clone.Weights[schema.MeanComponent] = 99
	clone.Levels[0] = 42
	clone.Grid[0] = 0.001
	clone.ErrorWeights[2] = 7

	assert.InDelta(t, 1.0, cfg.Weights[schema.MeanComponent], 1e-12)
	assert.InDelta(t, 0.25, cfg.Levels[0], 1e-12)
	assert.InDelta(t, 0.1, cfg.Grid[0], 1e-12)
	assert.InDelta(t, 2.0, cfg.ErrorWeights[2], 1e-12)
}

// TestAnchorIndices resolves single anchors and bands against the grid.
func TestAnchorIndices(t *testing.T) {
	cfg := &Config{}
	require.NoError(t, ProcessAndValidate(cfg, validRawInput()))

	t.Run("single on-grid anchor", func(t *testing.T) {
		idx, err := cfg.AnchorIndices()
		require.NoError(t, err)
		assert.Equal(t, []int{2}, idx)
	})

	t.Run("off-grid anchor", func(t *testing.T) {
		bad := cfg.Clone()
		bad.AnchorLo, bad.AnchorHi = 0.75, 0.75
		_, err := bad.AnchorIndices()
		assert.ErrorIs(t, err, schema.ErrMalformedPeriodGrid)
	})

	t.Run("band anchor", func(t *testing.T) {
		band := cfg.Clone()
		band.AnchorLo, band.AnchorHi = 0.5, 2.0
		idx, err := band.AnchorIndices()
		require.NoError(t, err)
		assert.Equal(t, []int{1, 2, 3}, idx)
	})
}

// TestValidateDatabaseConnectionString covers backend-specific formats.
func TestValidateDatabaseConnectionString(t *testing.T) {
	assert.NoError(t, ValidateDatabaseConnectionString(schema.SQLiteBackend, ""))
	assert.NoError(t, ValidateDatabaseConnectionString(schema.NoneBackend, ""))
	assert.Error(t, ValidateDatabaseConnectionString(schema.MySQLBackend, ""))
	assert.Error(t, ValidateDatabaseConnectionString(schema.MySQLBackend, "not-a-dsn"))
	assert.NoError(t, ValidateDatabaseConnectionString(schema.MySQLBackend, "user:pass@tcp(localhost:3306)/ezgm"))
	assert.Error(t, ValidateDatabaseConnectionString(schema.PostgreSQLBackend, "host=localhost"))
	assert.NoError(t, ValidateDatabaseConnectionString(schema.PostgreSQLBackend, "host=localhost dbname=ezgm"))
}
