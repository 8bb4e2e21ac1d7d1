// Package parquet provides data structures and functions for exporting
// selection run data to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"
	"time"

	"github.com/parquet-go/parquet-go"

	"github.com/odakan/EzGM/schema"
)

// SelectionRun represents a single selection run with metadata.
// This struct maps to the ezgm_runs database table.
type SelectionRun struct {
	// RunID is the unique identifier for this run
	RunID int64 `parquet:"run_id,snappy"`

	// StartTime is when the run began (stored as TIMESTAMP with nanosecond precision)
	StartTime time.Time `parquet:"start_time,snappy"`

	// EndTime is when the run completed (nullable, stored as TIMESTAMP with nanosecond precision)
	EndTime *time.Time `parquet:"end_time,optional,snappy"`

	// RunDurationMs is the duration of the run in milliseconds (nullable)
	RunDurationMs *int32 `parquet:"run_duration_ms,optional,snappy"`

	// TotalRecordsSelected is the number of records selected across all stripes
	TotalRecordsSelected int32 `parquet:"total_records_selected,snappy"`

	// ConfigParams contains the JSON-encoded configuration parameters (nullable)
	ConfigParams *string `parquet:"config_params,optional,snappy"`
}

// SuiteEntry represents one selected record within a stripe of a run.
// This struct maps to the ezgm_run_entries database table.
type SuiteEntry struct {
	// RunID references the parent run
	RunID int64 `parquet:"run_id,snappy"`

	// StripeLevel is the conditioning intensity of the stripe in g
	StripeLevel float64 `parquet:"stripe_level,snappy"`

	// Rank is the position of the entry within its suite
	Rank int32 `parquet:"entry_rank,snappy"`

	// RecordID is the catalog identifier of the selected record
	RecordID int32 `parquet:"record_id,snappy"`

	// EventID is the causative earthquake of the selected record
	EventID string `parquet:"event_id,snappy"`

	// ScaleFactor is the amplitude factor the record is applied at
	ScaleFactor float64 `parquet:"scale_factor,snappy"`

	// MatchError is the squared error against the entry's realization
	MatchError float64 `parquet:"match_error,snappy"`

	// SelectedAt is when the entry was recorded (stored as TIMESTAMP with nanosecond precision)
	SelectedAt time.Time `parquet:"selected_at,snappy"`
}

// WriteSelectionRunsParquet writes a slice of SelectionRun structs to a Parquet file.
func WriteSelectionRunsParquet(data []SelectionRun, outputPath string) error {
	// Create the output file
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	// Create a Parquet writer using struct schema inference
	// The schema is automatically derived from the SelectionRun struct tags
	writer := parquet.NewGenericWriter[SelectionRun](file)
	defer func() { _ = writer.Close() }()

	// Write all records to the file
	// The Write method accepts a variadic slice
	if _, err := writer.Write(data); err != nil {
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}

	return nil
}

// WriteSuiteEntriesParquet writes a slice of SuiteEntry structs to a Parquet file.
func WriteSuiteEntriesParquet(data []SuiteEntry, outputPath string) error {
	// Create the output file
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	// Create a Parquet writer using struct schema inference
	// The schema is automatically derived from the SuiteEntry struct tags
	writer := parquet.NewGenericWriter[SuiteEntry](file)
	defer func() { _ = writer.Close() }()

	// Write all records to the file
	// The Write method accepts a variadic slice
	if _, err := writer.Write(data); err != nil {
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}

	return nil
}

// ConvertRunRecords converts schema.RunRecord to SelectionRun for Parquet export.
func ConvertRunRecords(records []schema.RunRecord) []SelectionRun {
	result := make([]SelectionRun, len(records))
	for i, record := range records {
		result[i] = SelectionRun{
			RunID:                record.RunID,
			StartTime:            record.StartTime,
			EndTime:              record.EndTime,
			RunDurationMs:        record.RunDurationMs,
			TotalRecordsSelected: record.TotalRecordsSelected,
			ConfigParams:         record.ConfigParams,
		}
	}
	return result
}

// ConvertRunEntryRecords converts schema.RunEntryRecord to SuiteEntry for Parquet export.
func ConvertRunEntryRecords(records []schema.RunEntryRecord) []SuiteEntry {
	result := make([]SuiteEntry, len(records))
	for i, record := range records {
		result[i] = SuiteEntry{
			RunID:       record.RunID,
			StripeLevel: record.StripeLevel,
			Rank:        record.Rank,
			RecordID:    record.RecordID,
			EventID:     record.EventID,
			ScaleFactor: record.ScaleFactor,
			MatchError:  record.MatchError,
			SelectedAt:  record.SelectedAt,
		}
	}
	return result
}

// ConvertRunResult flattens an in-memory run result to SuiteEntry rows,
// which lets a run be exported directly without a tracking backend.
func ConvertRunResult(result *schema.RunResult, at time.Time) []SuiteEntry {
	var rows []SuiteEntry
	for _, stripe := range result.Stripes {
		for rank, entry := range stripe.Suite.Entries {
			rows = append(rows, SuiteEntry{
				StripeLevel: stripe.Level,
				Rank:        int32(rank),
				RecordID:    int32(entry.RecordID),
				EventID:     entry.EventID,
				ScaleFactor: entry.ScaleFactor,
				MatchError:  entry.MatchError,
				SelectedAt:  at,
			})
		}
	}
	return rows
}
