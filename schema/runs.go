package schema

import "time"

// RunRecord mirrors a row of the run-tracking runs table.
type RunRecord struct {
	RunID                int64      `json:"run_id"`
	StartTime            time.Time  `json:"start_time"`
	EndTime              *time.Time `json:"end_time,omitempty"`
	RunDurationMs        *int32     `json:"run_duration_ms,omitempty"`
	TotalRecordsSelected int32      `json:"total_records_selected"`
	ConfigParams         *string    `json:"config_params,omitempty"`
}

// RunEntryRecord mirrors a row of the run-tracking entries table: one
// selected record within one stripe of a run.
type RunEntryRecord struct {
	RunID       int64     `json:"run_id"`
	StripeLevel float64   `json:"stripe_level"`
	Rank        int32     `json:"rank"`
	RecordID    int32     `json:"record_id"`
	EventID     string    `json:"event_id"`
	ScaleFactor float64   `json:"scale_factor"`
	MatchError  float64   `json:"match_error"`
	SelectedAt  time.Time `json:"selected_at"`
}

// RunStatus summarizes the state of the run-tracking store.
type RunStatus struct {
	Backend              string           `json:"backend"`
	Connected            bool             `json:"connected"`
	TotalRuns            int64            `json:"total_runs"`
	LastRunID            int64            `json:"last_run_id"`
	LastRunTime          time.Time        `json:"last_run_time"`
	OldestRunTime        time.Time        `json:"oldest_run_time"`
	TotalRecordsSelected int64            `json:"total_records_selected"`
	TableSizes           map[string]int64 `json:"table_sizes"`
}
