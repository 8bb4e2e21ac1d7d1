package schema

import (
	"errors"
	"fmt"
)

// Fatal error classes surfaced by selection runs. Callers match these with
// errors.Is; the wrapping message carries the offending values.
var (
	// ErrInvalidScenario reports scenario parameters outside the
	// applicability range declared by the ground-motion model.
	ErrInvalidScenario = errors.New("scenario outside model applicability")

	// ErrUnknownGMPE reports a ground-motion model name with no
	// registered provider.
	ErrUnknownGMPE = errors.New("unknown ground-motion model")

	// ErrUnknownCorrelationModel reports a correlation model name with no
	// registered function.
	ErrUnknownCorrelationModel = errors.New("unknown correlation model")

	// ErrMalformedPeriodGrid reports a grid that is empty, non-positive
	// or not strictly increasing.
	ErrMalformedPeriodGrid = errors.New("malformed period grid")

	// ErrMissingMetadata reports a catalog record lacking an ordinate or
	// a metadata field the run needs.
	ErrMissingMetadata = errors.New("record metadata missing")

	// ErrInsufficientCatalog reports that the filtered candidate pool is
	// too small to fill the requested suite.
	ErrInsufficientCatalog = errors.New("insufficient catalog")

	// ErrScaleFactorExceeded reports a suite slot that no candidate can
	// fill within the scale-factor limit.
	ErrScaleFactorExceeded = errors.New("scale factor limit exceeded")
)

// InsufficientCatalogError carries the shortfall details for a suite that
// cannot be filled. It unwraps to ErrInsufficientCatalog.
type InsufficientCatalogError struct {
	Requested  int    // Records the suite asked for
	Available  int    // Eligible candidates remaining when the pool ran dry
	Constraint string // The constraint that drained the pool, e.g. "no-repeat-event"
}

func (e *InsufficientCatalogError) Error() string {
	msg := fmt.Sprintf("insufficient catalog: %d records requested, %d eligible candidates", e.Requested, e.Available)
	if e.Constraint != "" {
		msg += fmt.Sprintf(" under %s", e.Constraint)
	}
	return msg
}

func (e *InsufficientCatalogError) Unwrap() error { return ErrInsufficientCatalog }

// ScaleError carries the details of a scale-factor violation for a suite
// slot. It unwraps to ErrScaleFactorExceeded.
type ScaleError struct {
	Realization int     // Index of the realization whose slot could not be filled
	RecordID    int     // Closest candidate, for diagnostics
	Required    float64 // Factor that candidate would have needed
	Limit       float64 // Configured maximum scale factor
}

func (e *ScaleError) Error() string {
	return fmt.Sprintf("scale factor limit exceeded for realization %d: record %d needs %.3f, limit %.3f",
		e.Realization, e.RecordID, e.Required, e.Limit)
}

func (e *ScaleError) Unwrap() error { return ErrScaleFactorExceeded }

// WarningKind classifies the structured non-fatal warnings a run can emit.
type WarningKind string

// All warning kinds emitted by the selection pipeline.
const (
	WarnDegenerateCovariance WarningKind = "degenerate_covariance" // covariance projected to nearest PSD
	WarnNoImprovingSwap      WarningKind = "no_improving_swap"     // optimizer found nothing to do on its first pass
	WarnRecordReuse          WarningKind = "record_reuse"          // pool reuse enabled, duplicate entries possible
	WarnInterpolated         WarningKind = "interpolated"          // catalog ordinates interpolated onto the grid
)

// Warning is a structured non-fatal diagnostic attached to a run result.
type Warning struct {
	Kind    WarningKind `json:"kind"`
	Message string      `json:"message"`
}

// NewWarning builds a warning with a formatted message.
func NewWarning(kind WarningKind, format string, args ...any) Warning {
	return Warning{Kind: kind, Message: fmt.Sprintf(format, args...)}
}
