package runstore

import (
	"errors"
	"fmt"

	"github.com/odakan/EzGM/internal/parquet"
)

// ExecuteRunExport exports run tracking data to Parquet files.
func ExecuteRunExport(outputFile string) error {
	// Validate that output file is specified
	if outputFile == "" {
		return errors.New("--output-file is required for export command")
	}

	// Get the run store
	store := Manager.Store()

	// Check if there's any data to export
	status, err := store.GetStatus()
	if err != nil {
		return fmt.Errorf("failed to get run status: %w", err)
	}

	if status.TotalRuns == 0 {
		return errors.New("no run data found to export")
	}

	fmt.Printf("Exporting data from %s backend...\n", status.Backend)
	fmt.Printf("Total selection runs: %d\n", status.TotalRuns)
	fmt.Printf("Total suite entries: %d\n", status.TableSizes[runEntriesTable])

	// Retrieve all selection runs
	runs, err := store.GetAllRuns()
	if err != nil {
		return fmt.Errorf("failed to retrieve runs: %w", err)
	}

	// Retrieve all suite entries
	entries, err := store.GetAllEntries()
	if err != nil {
		return fmt.Errorf("failed to retrieve run entries: %w", err)
	}

	// Convert to Parquet format
	parquetRuns := parquet.ConvertRunRecords(runs)
	parquetEntries := parquet.ConvertRunEntryRecords(entries)

	// Write selection runs to Parquet
	runsFile := outputFile + ".runs.parquet"
	if err := parquet.WriteSelectionRunsParquet(parquetRuns, runsFile); err != nil {
		return fmt.Errorf("failed to write runs: %w", err)
	}
	fmt.Printf("Exported %d runs to: %s\n", len(parquetRuns), runsFile)

	// Write suite entries to Parquet
	entriesFile := outputFile + ".run_entries.parquet"
	if err := parquet.WriteSuiteEntriesParquet(parquetEntries, entriesFile); err != nil {
		return fmt.Errorf("failed to write run entries: %w", err)
	}
	fmt.Printf("Exported %d suite entries to: %s\n", len(parquetEntries), entriesFile)

	fmt.Println("\nExport complete! The Parquet files can be used with:")
	fmt.Println("  - Apache Spark")
	fmt.Println("  - Pandas (via pyarrow)")
	fmt.Println("  - DuckDB")
	fmt.Println("  - Any other Parquet-compatible tool")

	return nil
}
