package schema

import "time"

// SelectedEntry is one record chosen into a suite, with the scale factor
// it is applied at and the match error against its realization.
type SelectedEntry struct {
	RecordID    int     `json:"record_id"`
	EventID     string  `json:"event_id"`
	ScaleFactor float64 `json:"scale_factor"`
	MatchError  float64 `json:"match_error"`
}

// Suite is an ordered set of selected entries together with the realized
// suite statistics on the period grid and the aggregate objective value.
type Suite struct {
	Entries   []SelectedEntry `json:"entries"`
	MeanLn    []float64       `json:"mean_ln"`    // realized suite mean per period
	StdLn     []float64       `json:"std_ln"`     // realized suite std per period
	Objective float64         `json:"objective"`  // weighted mean+std error vs target
	MeanError float64         `json:"mean_error"` // mean-component of the objective
	StdError  float64         `json:"std_error"`  // std-component of the objective
}

// StripeResult is the outcome of selection against one target stripe.
type StripeResult struct {
	Level            float64   `json:"level"` // conditioning intensity for the stripe, g
	Target           *Target   `json:"target"`
	Suite            Suite     `json:"suite"`
	GreedyObjective  float64   `json:"greedy_objective"` // objective before local search
	OptimizerPasses  int       `json:"optimizer_passes"`
	OptimizerSwaps   int       `json:"optimizer_swaps"`
	Warnings         []Warning `json:"warnings,omitempty"`
}

// RunResult is the full outcome of a selection run across all stripes.
type RunResult struct {
	Stripes  []StripeResult `json:"stripes"`
	Seed     uint64         `json:"seed"`
	Duration time.Duration  `json:"duration"`
}

// Warnings collects the warnings of all stripes.
func (r *RunResult) Warnings() []Warning {
	var out []Warning
	for _, s := range r.Stripes {
		out = append(out, s.Warnings...)
	}
	return out
}
