package schema

// Custom string types for type safety.
type (
	// OutputMode represents the format of the output.
	OutputMode string

	// DatabaseBackend represents the database backend for run tracking.
	DatabaseBackend string

	// TargetStrategy represents how the target spectrum is constructed.
	TargetStrategy string

	// ConditioningIM represents the intensity measure the target is
	// conditioned on.
	ConditioningIM string

	// CodeSpectrum identifies a design-code spectrum shape.
	CodeSpectrum string

	// ErrorComponent represents terms of the suite matching objective.
	ErrorComponent string
)

// All output modes supported.
const (
	CSVOut     OutputMode = "csv"
	TextOut    OutputMode = "text" // default
	JSONOut    OutputMode = "json"
	ParquetOut OutputMode = "parquet"
)

// All run-tracking backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// All target strategies supported.
const (
	ConditionalTarget TargetStrategy = "conditional" // default
	CodeTarget        TargetStrategy = "code"
)

// All conditioning intensity measures supported.
const (
	SaCondition    ConditioningIM = "sa"     // Sa at a single anchor period
	AvgSaCondition ConditioningIM = "avgsa"  // geometric-mean Sa over a period band
)

// All design-code spectra supported.
const (
	EC8Part1Spectrum CodeSpectrum = "ec8_part1"
	ASCE716Spectrum  CodeSpectrum = "asce7_16"
	TBEC2018Spectrum CodeSpectrum = "tbec_2018"
)

// Objective components used in error weighting.
const (
	MeanComponent ErrorComponent = "mean"
	StdComponent  ErrorComponent = "std"
)

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	CSVOut:     {},
	TextOut:    {},
	JSONOut:    {},
	ParquetOut: {},
}

// ValidDatabaseBackends lists all valid run-tracking backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}

// ValidTargetStrategies lists all valid target strategies.
var ValidTargetStrategies = map[TargetStrategy]struct{}{
	ConditionalTarget: {},
	CodeTarget:        {},
}

// ValidConditioningIMs lists all valid conditioning intensity measures.
var ValidConditioningIMs = map[ConditioningIM]struct{}{
	SaCondition:    {},
	AvgSaCondition: {},
}

// ValidCodeSpectra lists all valid design-code spectra.
var ValidCodeSpectra = map[CodeSpectrum]struct{}{
	EC8Part1Spectrum: {},
	ASCE716Spectrum:  {},
	TBEC2018Spectrum: {},
}

// GetDefaultErrorWeights returns the default weights for the matching
// objective. The std term is weighted twice the mean term, which biases
// selection toward reproducing the target variability.
func GetDefaultErrorWeights() map[ErrorComponent]float64 {
	return map[ErrorComponent]float64{
		MeanComponent: 1.0,
		StdComponent:  2.0,
	}
}
