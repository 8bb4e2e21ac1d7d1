// Package contract holds the validated configuration, shared interfaces and
// logging helpers used across ezgm.
package contract

import (
	"fmt"
	"maps"
	"path/filepath"
	"runtime"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/odakan/EzGM/schema"
)

// Default values for configuration.
const (
	DefaultSuiteSize = 30
	MaxSuiteSize     = 1000
	DefaultTrials    = 20
	DefaultMaxScale  = 4.0
	DefaultPasses    = 2
	DefaultTolerance = 0.01
	DefaultPrecision = 3
)

// DefaultWorkers is the default number of concurrent workers to use.
var DefaultWorkers = runtime.GOMAXPROCS(0)

// DateTimeFormat is the default date time representation.
var DateTimeFormat = time.RFC3339

// ProfileConfig holds profiling settings.
type ProfileConfig struct {
	Enabled bool
	Prefix  string
}

// GMPETable is one validated period-response curve of the table-backed
// ground-motion model, keyed by the scenario it was computed for.
type GMPETable struct {
	Magnitude float64
	Distance  float64
	Periods   []float64
	Medians   []float64 // median Sa in g
	Sigmas    []float64 // log standard deviations
}

// CodeParams holds the parameters of the design-code spectrum shapes.
// Only the fields of the selected code are consulted.
type CodeParams struct {
	// EN 1998-1
	AgRock          float64 // design ground acceleration on rock, g
	SpectrumType    int     // 1 or 2
	SiteClass       string  // A-E
	ImportanceClass int     // 1-4
	Damping         float64 // viscous damping ratio in percent

	// ASCE 7-16 and TBEC 2018
	SDS float64 // short-period design spectral acceleration, g
	SD1 float64 // one-second design spectral acceleration, g
	TL  float64 // long-period transition period, s
	PGA float64 // peak ground acceleration, g (TBEC only)
}

// Config holds the runtime configuration for a selection run.
// This struct remains the "final, validated" config.
type Config struct {
	CatalogPath    string
	CatalogBackend schema.DatabaseBackend // sqlite for .db catalogs, none for flatfiles
	Interpolate    bool

	Grid schema.PeriodGrid

	Strategy    schema.TargetStrategy
	GMPE        string
	Correlation string
	IM          schema.ConditioningIM
	AnchorLo    float64
	AnchorHi    float64
	Levels      []float64 // conditioning intensities in g, one stripe each
	Epsilon     float64   // used when no levels are given
	UseEpsilon  bool
	Scenario    schema.Scenario
	Code        schema.CodeSpectrum
	CodeParams  CodeParams
	GMPETables  []GMPETable

	SuiteSize     int
	Trials        int
	Seed          uint64
	Scaling       bool
	MaxScale      float64
	NoRepeatEvent bool
	AllowReuse    bool
	Weights       map[schema.ErrorComponent]float64
	ErrorWeights  []float64 // per-period weights on the grid, nil = uniform

	OptimizerPasses int
	Tolerance       float64

	MinMagnitude float64
	MaxMagnitude float64
	MinDistance  float64
	MaxDistance  float64
	MinVs30      float64
	MaxVs30      float64
	MinDuration  float64
	MaxDuration  float64
	ExcludeEvents []string

	Workers    int
	Precision  int
	Detail     bool
	Output     schema.OutputMode
	OutputFile string
	Width      int // Terminal width override (0 = auto-detect)
	UseColors  bool

	RunsBackend   schema.DatabaseBackend
	RunsDBConnect string // Please use env var as this is plaintext
}

// ScenarioRawInput holds scenario parameters from the YAML config file.
type ScenarioRawInput struct {
	Magnitude float64 `mapstructure:"magnitude"`
	Distance  float64 `mapstructure:"distance"`
	Vs30      float64 `mapstructure:"vs30"`
}

// WeightsRawInput holds the objective weight overrides from the YAML config
// file. Use float64 pointers so absent fields fall back to defaults.
type WeightsRawInput struct {
	Mean *float64 `mapstructure:"mean"`
	Std  *float64 `mapstructure:"std"`
}

// CodeParamsRawInput holds design-code spectrum parameters from the YAML
// config file.
type CodeParamsRawInput struct {
	Ag              float64 `mapstructure:"ag"`
	SpectrumType    int     `mapstructure:"spectrum-type"`
	SiteClass       string  `mapstructure:"site-class"`
	ImportanceClass int     `mapstructure:"importance-class"`
	Damping         float64 `mapstructure:"damping"`
	SDS             float64 `mapstructure:"sds"`
	SD1             float64 `mapstructure:"sd1"`
	TL              float64 `mapstructure:"tl"`
	PGA             float64 `mapstructure:"pga"`
}

// GMPETableRawInput holds one table-model curve from the YAML config file.
type GMPETableRawInput struct {
	Magnitude float64   `mapstructure:"magnitude"`
	Distance  float64   `mapstructure:"distance"`
	Periods   []float64 `mapstructure:"periods"`
	Medians   []float64 `mapstructure:"medians"`
	Sigmas    []float64 `mapstructure:"sigmas"`
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// This is set manually from positional args, so no tag
	CatalogPathStr string

	// --- Fields from rootCmd.PersistentFlags() ---
	Grid          []float64 `mapstructure:"grid"`
	Strategy      string    `mapstructure:"strategy"`
	GMPE          string    `mapstructure:"gmpe"`
	Correlation   string    `mapstructure:"correlation"`
	IM            string    `mapstructure:"im"`
	Anchor        string    `mapstructure:"anchor"`
	Levels        []float64 `mapstructure:"levels"`
	Epsilon       *float64  `mapstructure:"epsilon"`
	Code          string    `mapstructure:"code"`
	Records       int       `mapstructure:"records"`
	Trials        int       `mapstructure:"trials"`
	Seed          uint64    `mapstructure:"seed"`
	Scale         string    `mapstructure:"scale"`
	MaxScale      float64   `mapstructure:"max-scale"`
	RepeatEvents  string    `mapstructure:"repeat-events"`
	Reuse         string    `mapstructure:"reuse"`
	Passes        int       `mapstructure:"passes"`
	Tolerance     float64   `mapstructure:"tolerance"`
	ErrorWeights  []float64 `mapstructure:"error-weights"`
	Workers       int       `mapstructure:"workers"`
	Precision     int       `mapstructure:"precision"`
	Detail        bool      `mapstructure:"detail"`
	Output        string    `mapstructure:"output"`
	OutputFile    string    `mapstructure:"output-file"`
	Width         int       `mapstructure:"width"`
	Color         string    `mapstructure:"color"`
	Interpolate   string    `mapstructure:"interpolate"`
	RunsBackend   string    `mapstructure:"runs-backend"`
	RunsDBConnect string    `mapstructure:"runs-db-connect"`

	// --- Catalog filter flags ---
	MinMagnitude  float64 `mapstructure:"min-magnitude"`
	MaxMagnitude  float64 `mapstructure:"max-magnitude"`
	MinDistance   float64 `mapstructure:"min-distance"`
	MaxDistance   float64 `mapstructure:"max-distance"`
	MinVs30       float64 `mapstructure:"min-vs30"`
	MaxVs30       float64 `mapstructure:"max-vs30"`
	MinDuration   float64 `mapstructure:"min-duration"`
	MaxDuration   float64 `mapstructure:"max-duration"`
	ExcludeEvents string  `mapstructure:"exclude-events"`

	// --- Sections from config file ---
	Scenario   ScenarioRawInput    `mapstructure:"scenario"`
	Weights    WeightsRawInput     `mapstructure:"weights"`
	CodeParams CodeParamsRawInput  `mapstructure:"code-params"`
	Tables     []GMPETableRawInput `mapstructure:"tables"`
}

// Clone returns a deep copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	clone.Grid = c.Grid.Clone()
	if c.Levels != nil {
		clone.Levels = slices.Clone(c.Levels)
	}
	if c.ExcludeEvents != nil {
		clone.ExcludeEvents = slices.Clone(c.ExcludeEvents)
	}
	if c.ErrorWeights != nil {
		clone.ErrorWeights = slices.Clone(c.ErrorWeights)
	}
	if c.Weights != nil {
		clone.Weights = make(map[schema.ErrorComponent]float64)
		maps.Copy(clone.Weights, c.Weights)
	}
	if c.GMPETables != nil {
		clone.GMPETables = make([]GMPETable, len(c.GMPETables))
		for i, tbl := range c.GMPETables {
			clone.GMPETables[i] = GMPETable{
				Magnitude: tbl.Magnitude,
				Distance:  tbl.Distance,
				Periods:   slices.Clone(tbl.Periods),
				Medians:   slices.Clone(tbl.Medians),
				Sigmas:    slices.Clone(tbl.Sigmas),
			}
		}
	}
	return &clone
}

// CloneWithLevel creates a copy of the Config restricted to a single
// conditioning intensity. Used when stripes are processed independently.
func (c *Config) CloneWithLevel(level float64) *Config {
	clone := c.Clone()
	clone.Levels = []float64{level}
	return clone
}

// AnchorIndices resolves the configured anchor period or band against the
// grid. A single anchor period must sit on a grid ordinate; a band must
// cover at least one.
func (c *Config) AnchorIndices() ([]int, error) {
	if c.AnchorLo == c.AnchorHi {
		i, ok := c.Grid.IndexOf(c.AnchorLo)
		if !ok {
			return nil, fmt.Errorf("%w: anchor period %g is not on the grid", schema.ErrMalformedPeriodGrid, c.AnchorLo)
		}
		return []int{i}, nil
	}
	idx := c.Grid.IndicesIn(c.AnchorLo, c.AnchorHi)
	if len(idx) == 0 {
		return nil, fmt.Errorf("%w: anchor band [%g, %g] covers no grid ordinate", schema.ErrMalformedPeriodGrid, c.AnchorLo, c.AnchorHi)
	}
	return idx, nil
}

// ProcessAndValidate performs all complex parsing and validation on the raw
// inputs and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	// All validation functions read from 'input' and populate 'cfg'.
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := processGrid(cfg, input); err != nil {
		return err
	}
	if err := processTargetInputs(cfg, input); err != nil {
		return err
	}
	if err := processSelectionInputs(cfg, input); err != nil {
		return err
	}
	if err := processFilterInputs(cfg, input); err != nil {
		return err
	}
	if err := processGMPETables(cfg, input); err != nil {
		return err
	}
	if err := resolveCatalogPath(cfg, input); err != nil {
		return err
	}
	return nil
}

// ValidateDatabaseConnectionString validates the format of database
// connection strings for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("runs-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("runs-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

// validateSimpleInputs processes and validates all non-domain fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	// --- 0. Transfer simple non-validated fields from input -> cfg ---
	cfg.OutputFile = input.OutputFile
	cfg.Detail = input.Detail
	cfg.Width = input.Width

	// Parse color flag
	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	// Parse interpolate flag
	interp, err := ParseBoolString(input.Interpolate)
	if err != nil {
		return fmt.Errorf("invalid --interpolate value: %w", err)
	}
	cfg.Interpolate = interp

	// --- 1. Workers Validation ---
	if input.Workers <= 0 {
		return fmt.Errorf("workers must be greater than 0 (received %d)", input.Workers)
	}
	cfg.Workers = input.Workers

	// --- 2. Precision and Output Validation ---
	if input.Precision < 1 || input.Precision > 6 {
		return fmt.Errorf("precision must be between 1 and 6 (received %d)", input.Precision)
	}
	cfg.Precision = input.Precision

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json, parquet", cfg.Output)
	}

	// --- 3. Backend Validation ---
	cfg.RunsBackend = schema.DatabaseBackend(strings.ToLower(input.RunsBackend))
	if _, ok := schema.ValidDatabaseBackends[cfg.RunsBackend]; !ok {
		return fmt.Errorf("invalid runs backend '%s'. must be sqlite, mysql, postgresql, none", input.RunsBackend)
	}
	cfg.RunsDBConnect = input.RunsDBConnect
	if err := ValidateDatabaseConnectionString(cfg.RunsBackend, cfg.RunsDBConnect); err != nil {
		return err
	}

	return nil
}

// processGrid validates the period grid.
func processGrid(cfg *Config, input *ConfigRawInput) error {
	grid, err := schema.NewPeriodGrid(input.Grid)
	if err != nil {
		return err
	}
	cfg.Grid = grid
	return nil
}

// processTargetInputs handles strategy, model names, anchor and stripes.
func processTargetInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.Strategy = schema.TargetStrategy(strings.ToLower(input.Strategy))
	if _, ok := schema.ValidTargetStrategies[cfg.Strategy]; !ok {
		return fmt.Errorf("invalid strategy '%s'. must be conditional or code", input.Strategy)
	}

	cfg.Scenario = schema.Scenario{
		Magnitude: input.Scenario.Magnitude,
		Distance:  input.Scenario.Distance,
		Vs30:      input.Scenario.Vs30,
	}

	switch cfg.Strategy {
	case schema.CodeTarget:
		cfg.Code = schema.CodeSpectrum(strings.ToLower(input.Code))
		if _, ok := schema.ValidCodeSpectra[cfg.Code]; !ok {
			return fmt.Errorf("invalid code spectrum '%s'. must be ec8_part1, asce7_16, tbec_2018", input.Code)
		}
		cfg.CodeParams = CodeParams{
			AgRock:          input.CodeParams.Ag,
			SpectrumType:    input.CodeParams.SpectrumType,
			SiteClass:       strings.ToUpper(strings.TrimSpace(input.CodeParams.SiteClass)),
			ImportanceClass: input.CodeParams.ImportanceClass,
			Damping:         input.CodeParams.Damping,
			SDS:             input.CodeParams.SDS,
			SD1:             input.CodeParams.SD1,
			TL:              input.CodeParams.TL,
			PGA:             input.CodeParams.PGA,
		}
	default: // ConditionalTarget
		cfg.GMPE = strings.ToLower(strings.TrimSpace(input.GMPE))
		if cfg.GMPE == "" {
			return fmt.Errorf("a ground-motion model is required for the conditional strategy")
		}
		cfg.Correlation = strings.ToLower(strings.TrimSpace(input.Correlation))
		if cfg.Correlation == "" {
			return fmt.Errorf("a correlation model is required for the conditional strategy")
		}

		cfg.IM = schema.ConditioningIM(strings.ToLower(input.IM))
		if _, ok := schema.ValidConditioningIMs[cfg.IM]; !ok {
			return fmt.Errorf("invalid conditioning measure '%s'. must be sa or avgsa", input.IM)
		}
	}

	// Anchor period or band, e.g. "1.0" or "0.2:2.0".
	lo, hi, err := ParseAnchor(input.Anchor)
	if err != nil {
		return err
	}
	if cfg.IM == schema.AvgSaCondition && lo == hi {
		return fmt.Errorf("avgsa conditioning requires an anchor band, received single period %g", lo)
	}
	cfg.AnchorLo, cfg.AnchorHi = lo, hi

	// Stripe levels and epsilon are mutually exclusive.
	if len(input.Levels) > 0 && input.Epsilon != nil {
		return fmt.Errorf("--levels and --epsilon are mutually exclusive")
	}
	if input.Epsilon != nil {
		cfg.Epsilon = *input.Epsilon
		cfg.UseEpsilon = true
	} else {
		cfg.Levels = slices.Clone(input.Levels)
		for _, lv := range cfg.Levels {
			if lv <= 0 {
				return fmt.Errorf("stripe level must be positive (received %g)", lv)
			}
		}
		if len(cfg.Levels) == 0 && cfg.Strategy == schema.ConditionalTarget {
			return fmt.Errorf("conditional strategy needs at least one --levels value or --epsilon")
		}
	}

	return nil
}

// processSelectionInputs validates suite sizing, simulation and optimizer knobs.
func processSelectionInputs(cfg *Config, input *ConfigRawInput) error {
	if input.Records <= 0 || input.Records > MaxSuiteSize {
		return fmt.Errorf("records must be greater than 0 and cannot exceed %d (received %d)", MaxSuiteSize, input.Records)
	}
	cfg.SuiteSize = input.Records

	if input.Trials < 1 {
		return fmt.Errorf("trials must be at least 1 (received %d)", input.Trials)
	}
	cfg.Trials = input.Trials
	cfg.Seed = input.Seed

	scaling, err := ParseBoolString(input.Scale)
	if err != nil {
		return fmt.Errorf("invalid --scale value: %w", err)
	}
	cfg.Scaling = scaling
	if cfg.Scaling {
		if input.MaxScale <= 0 {
			return fmt.Errorf("max-scale must be positive when scaling is enabled (received %g)", input.MaxScale)
		}
		cfg.MaxScale = input.MaxScale
	} else {
		cfg.MaxScale = 1.0
	}

	repeat, err := ParseBoolString(input.RepeatEvents)
	if err != nil {
		return fmt.Errorf("invalid --repeat-events value: %w", err)
	}
	cfg.NoRepeatEvent = !repeat

	reuse, err := ParseBoolString(input.Reuse)
	if err != nil {
		return fmt.Errorf("invalid --reuse value: %w", err)
	}
	cfg.AllowReuse = reuse

	weights := schema.GetDefaultErrorWeights()
	if input.Weights.Mean != nil {
		weights[schema.MeanComponent] = *input.Weights.Mean
	}
	if input.Weights.Std != nil {
		weights[schema.StdComponent] = *input.Weights.Std
	}
	var sum float64
	for component, w := range weights {
		if w < 0 {
			return fmt.Errorf("weight for %s must be non-negative (received %g)", component, w)
		}
		sum += w
	}
	if sum == 0 {
		return fmt.Errorf("objective weights cannot all be zero")
	}
	cfg.Weights = weights

	cfg.ErrorWeights = nil
	if len(input.ErrorWeights) > 0 {
		if len(input.ErrorWeights) != cfg.Grid.Len() {
			return fmt.Errorf("error-weights must match the grid: %d weights for %d periods",
				len(input.ErrorWeights), cfg.Grid.Len())
		}
		var wsum float64
		for i, w := range input.ErrorWeights {
			if w < 0 {
				return fmt.Errorf("error weight at position %d must be non-negative (received %g)", i, w)
			}
			wsum += w
		}
		if wsum == 0 {
			return fmt.Errorf("error weights cannot all be zero")
		}
		cfg.ErrorWeights = slices.Clone(input.ErrorWeights)
	}

	if input.Passes < 0 {
		return fmt.Errorf("passes must be non-negative (received %d)", input.Passes)
	}
	cfg.OptimizerPasses = input.Passes

	if input.Tolerance < 0 {
		return fmt.Errorf("tolerance must be non-negative (received %g)", input.Tolerance)
	}
	cfg.Tolerance = input.Tolerance

	return nil
}

// processFilterInputs validates the catalog constraint bounds.
func processFilterInputs(cfg *Config, input *ConfigRawInput) error {
	bounds := []struct {
		name     string
		min, max float64
	}{
		{"magnitude", input.MinMagnitude, input.MaxMagnitude},
		{"distance", input.MinDistance, input.MaxDistance},
		{"vs30", input.MinVs30, input.MaxVs30},
		{"duration", input.MinDuration, input.MaxDuration},
	}
	for _, b := range bounds {
		if b.min < 0 || b.max < 0 {
			return fmt.Errorf("%s bounds must be non-negative", b.name)
		}
		if b.max > 0 && b.min > b.max {
			return fmt.Errorf("min-%s (%g) cannot exceed max-%s (%g)", b.name, b.min, b.name, b.max)
		}
	}
	cfg.MinMagnitude = input.MinMagnitude
	cfg.MaxMagnitude = input.MaxMagnitude
	cfg.MinDistance = input.MinDistance
	cfg.MaxDistance = input.MaxDistance
	cfg.MinVs30 = input.MinVs30
	cfg.MaxVs30 = input.MaxVs30
	cfg.MinDuration = input.MinDuration
	cfg.MaxDuration = input.MaxDuration

	cfg.ExcludeEvents = nil
	if input.ExcludeEvents != "" {
		for p := range strings.SplitSeq(input.ExcludeEvents, ",") {
			trimmed := strings.TrimSpace(p)
			if trimmed != "" {
				cfg.ExcludeEvents = append(cfg.ExcludeEvents, trimmed)
			}
		}
	}

	return nil
}

// processGMPETables validates the table-model curves from the config file.
func processGMPETables(cfg *Config, input *ConfigRawInput) error {
	cfg.GMPETables = nil
	for i, raw := range input.Tables {
		if len(raw.Periods) == 0 {
			return fmt.Errorf("gmpe table %d has no periods", i)
		}
		if len(raw.Medians) != len(raw.Periods) || len(raw.Sigmas) != len(raw.Periods) {
			return fmt.Errorf("gmpe table %d has %d periods, %d medians, %d sigmas",
				i, len(raw.Periods), len(raw.Medians), len(raw.Sigmas))
		}
		prev := 0.0
		for j, t := range raw.Periods {
			if t <= prev {
				return fmt.Errorf("gmpe table %d periods must be positive and strictly increasing (position %d)", i, j)
			}
			prev = t
			if raw.Medians[j] <= 0 {
				return fmt.Errorf("gmpe table %d median at T=%g must be positive", i, raw.Periods[j])
			}
			if raw.Sigmas[j] <= 0 {
				return fmt.Errorf("gmpe table %d sigma at T=%g must be positive", i, raw.Periods[j])
			}
		}
		cfg.GMPETables = append(cfg.GMPETables, GMPETable{
			Magnitude: raw.Magnitude,
			Distance:  raw.Distance,
			Periods:   slices.Clone(raw.Periods),
			Medians:   slices.Clone(raw.Medians),
			Sigmas:    slices.Clone(raw.Sigmas),
		})
	}
	return nil
}

// ProcessProfilingConfig handles the profiling flag and sets up profiling configuration.
func ProcessProfilingConfig(profile *ProfileConfig, profilePrefix string) error {
	if profilePrefix != "" {
		profile.Enabled = true
		profile.Prefix = profilePrefix
	}
	return nil
}

// resolveCatalogPath resolves the catalog path and infers its backend.
func resolveCatalogPath(cfg *Config, input *ConfigRawInput) error {
	if input.CatalogPathStr == "" {
		cfg.CatalogPath = ""
		cfg.CatalogBackend = schema.NoneBackend
		return nil
	}
	absPath, err := filepath.Abs(input.CatalogPathStr)
	if err != nil {
		return err
	}
	cfg.CatalogPath = filepath.Clean(absPath)

	switch strings.ToLower(filepath.Ext(cfg.CatalogPath)) {
	case ".db", ".sqlite", ".sqlite3":
		cfg.CatalogBackend = schema.SQLiteBackend
	default:
		cfg.CatalogBackend = schema.NoneBackend // CSV flatfile
	}
	return nil
}

// ParseAnchor parses an anchor specification: either a single period like
// "1.0" or a colon-separated band like "0.2:2.0".
func ParseAnchor(s string) (lo, hi float64, err error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, 0, fmt.Errorf("anchor period is required, e.g. --anchor 1.0 or --anchor 0.2:2.0")
	}
	parts := strings.Split(s, ":")
	switch len(parts) {
	case 1:
		lo, err = strconv.ParseFloat(parts[0], 64)
		if err != nil {
			return 0, 0, fmt.Errorf("invalid anchor period '%s': %w", s, err)
		}
		hi = lo
	case 2:
		lo, err = strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
		if err != nil {
			return 0, 0, fmt.Errorf("invalid anchor band '%s': %w", s, err)
		}
		hi, err = strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
		if err != nil {
			return 0, 0, fmt.Errorf("invalid anchor band '%s': %w", s, err)
		}
	default:
		return 0, 0, fmt.Errorf("invalid anchor '%s', expected 'T' or 'Tlo:Thi'", s)
	}
	if lo <= 0 || hi <= 0 {
		return 0, 0, fmt.Errorf("anchor periods must be positive (received '%s')", s)
	}
	if lo > hi {
		return 0, 0, fmt.Errorf("anchor band lower bound %g exceeds upper bound %g", lo, hi)
	}
	return lo, hi, nil
}
