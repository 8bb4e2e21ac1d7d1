package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/odakan/EzGM/internal/contract"
	ezparquet "github.com/odakan/EzGM/internal/parquet"
	"github.com/odakan/EzGM/schema"
)

// WriteSelectionResults outputs the selection results, dispatching based on the output format configured.
func WriteSelectionResults(result *schema.RunResult, cfg *contract.Config) error {
	// Create formatters using helper
	fmtFloat, intFmt := createFormatters(cfg.Precision)

	// Dispatcher: Handle different output formats
	switch cfg.Output {
	case schema.JSONOut:
		if err := writeSelectionJSONResults(result, cfg); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeSelectionCSVResults(result, cfg, fmtFloat, intFmt); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		if err := writeSelectionParquetResults(result, cfg); err != nil {
			return fmt.Errorf("error writing Parquet output: %w", err)
		}
	default:
		// Default to human-readable tables, one per stripe
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeSelectionTables(result, cfg, fmtFloat, w)
		}, "Wrote table")
	}
	return nil
}

// writeSelectionJSONResults handles opening the file and calling the JSON writer.
func writeSelectionJSONResults(result *schema.RunResult, cfg *contract.Config) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return writeJSONResultsForSelection(w, result, cfg)
	}, "Wrote JSON")
}

// writeSelectionCSVResults handles opening the file and calling the CSV writer.
func writeSelectionCSVResults(result *schema.RunResult, cfg *contract.Config, fmtFloat func(float64) string, intFmt string) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		csvWriter := csv.NewWriter(w)
		defer csvWriter.Flush()
		return writeCSVResultsForSelection(csvWriter, result, cfg, fmtFloat, intFmt)
	}, "Wrote CSV")
}

// writeSelectionParquetResults flattens the run to entry rows and writes a Parquet file.
// Parquet is a binary format, so a file destination is required.
func writeSelectionParquetResults(result *schema.RunResult, cfg *contract.Config) error {
	if cfg.OutputFile == "" {
		return fmt.Errorf("parquet output requires an output file")
	}
	rows := ezparquet.ConvertRunResult(result, time.Now())
	if err := ezparquet.WriteSuiteEntriesParquet(rows, cfg.OutputFile); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "💾 Wrote Parquet to %s\n", cfg.OutputFile)
	return nil
}

// writeSelectionTables generates and writes one human-readable table per stripe.
func writeSelectionTables(result *schema.RunResult, cfg *contract.Config, fmtFloat func(float64) string, writer io.Writer) error {
	for _, stripe := range result.Stripes {
		if err := writeStripeTable(&stripe, cfg, fmtFloat, writer); err != nil {
			return err
		}
	}

	totalRecords := 0
	for _, stripe := range result.Stripes {
		totalRecords += len(stripe.Suite.Entries)
	}
	if _, err := fmt.Fprintf(writer, "Selected %d records across %d stripes (seed: %d)\n", totalRecords, len(result.Stripes), result.Seed); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(writer, "Selection completed in %v with %d workers. Runs backend: %s\n", result.Duration, cfg.Workers, cfg.RunsBackend); err != nil {
		return err
	}
	return nil
}

// writeStripeTable renders the suite of a single stripe.
func writeStripeTable(stripe *schema.StripeResult, cfg *contract.Config, fmtFloat func(float64) string, writer io.Writer) error {
	if _, err := fmt.Fprintf(writer, "🎯 Stripe Sa = %s g\n", fmtFloat(stripe.Level)); err != nil {
		return err
	}

	table := tablewriter.NewWriter(writer)

	// 1. Define Headers
	headers := []string{"Rank", "Record", "Event", "Scale", "Label"}
	if cfg.Detail {
		headers = append(headers, "Error")
	}
	table.Header(headers)

	// 2. Configure Separators/Borders to match a minimal look
	table.Configure(func(tcfg *tablewriter.Config) {
		tcfg.Row.Alignment.Global = tw.AlignRight
	})

	// 3. Populate Rows
	var data [][]string
	for i, e := range stripe.Suite.Entries {
		// Prepare the row data as a slice of strings
		row := []string{
			strconv.Itoa(i + 1),      // Rank
			strconv.Itoa(e.RecordID), // Record
			contract.TruncateText(e.EventID, GetMaxTableEventWidth(cfg)),   // Event
			fmtFloat(e.ScaleFactor),                                        // Scale
			contract.GetColorScaleLabel(e.ScaleFactor, cfg.MaxScale),       // Label
		}
		if cfg.Detail {
			row = append(row, fmtFloat(e.MatchError)) // Error vs realization
		}
		data = append(data, row)
	}

	// 4. Render the table
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	if cfg.Detail && stripe.Target != nil {
		if err := writeStripeSpectrumTable(stripe, fmtFloat, writer); err != nil {
			return err
		}
	}

	if _, err := fmt.Fprintf(writer, "Objective: %s (greedy: %s, %d optimizer passes, %d swaps)\n",
		fmtFloat(stripe.Suite.Objective), fmtFloat(stripe.GreedyObjective), stripe.OptimizerPasses, stripe.OptimizerSwaps); err != nil {
		return err
	}
	for _, warning := range stripe.Warnings {
		if _, err := fmt.Fprintf(writer, "⚠️  [%s] %s\n", warning.Kind, warning.Message); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(writer); err != nil {
		return err
	}
	return nil
}

// writeStripeSpectrumTable renders the realized suite statistics against the
// target, period by period. Only shown with --detail.
func writeStripeSpectrumTable(stripe *schema.StripeResult, fmtFloat func(float64) string, writer io.Writer) error {
	suite := &stripe.Suite
	target := stripe.Target
	if len(suite.MeanLn) != target.Periods.Len() || len(suite.StdLn) != target.Periods.Len() {
		return nil
	}

	table := tablewriter.NewWriter(writer)
	table.Header([]string{"Period", "Target Mean ln", "Suite Mean ln", "Target Std ln", "Suite Std ln"})
	table.Configure(func(tcfg *tablewriter.Config) {
		tcfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for i, period := range target.Periods {
		data = append(data, []string{
			formatPeriod(period),
			fmtFloat(target.MeanLn[i]),
			fmtFloat(suite.MeanLn[i]),
			fmtFloat(target.StdLn[i]),
			fmtFloat(suite.StdLn[i]),
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

// writeCSVResultsForSelection writes the selection results in CSV format,
// one row per selected entry across all stripes.
func writeCSVResultsForSelection(w *csv.Writer, result *schema.RunResult, cfg *contract.Config, fmtFloat func(float64) string, _ string) error {
	// CSV header
	header := []string{
		"stripe_level",
		"rank",
		"record_id",
		"event_id",
		"scale_factor",
		"label",
		"match_error",
		"objective",
	}
	if err := w.Write(header); err != nil {
		return err
	}
	for _, stripe := range result.Stripes {
		for i, e := range stripe.Suite.Entries {
			rec := []string{
				fmtFloat(stripe.Level),     // Conditioning intensity
				strconv.Itoa(i + 1),        // Rank
				strconv.Itoa(e.RecordID),   // Record ID
				e.EventID,                  // Event ID
				fmtFloat(e.ScaleFactor),    // Scale Factor
				contract.GetPlainScaleLabel(e.ScaleFactor, cfg.MaxScale), // Label
				fmtFloat(e.MatchError),          // Error vs realization
				fmtFloat(stripe.Suite.Objective), // Suite objective
			}
			if err := w.Write(rec); err != nil {
				return err
			}
		}
	}
	return nil
}

// writeJSONResultsForSelection writes the selection results in JSON format.
func writeJSONResultsForSelection(w io.Writer, result *schema.RunResult, cfg *contract.Config) error {
	// 1. Prepare the data structure for JSON with rank and label added
	type JSONEntry struct {
		Rank  int    `json:"rank"`
		Label string `json:"label"`
		schema.SelectedEntry
	}
	type JSONStripe struct {
		Level           float64     `json:"level"`
		Entries         []JSONEntry `json:"entries"`
		MeanLn          []float64   `json:"mean_ln"`
		StdLn           []float64   `json:"std_ln"`
		Objective       float64     `json:"objective"`
		GreedyObjective float64     `json:"greedy_objective"`
		OptimizerPasses int         `json:"optimizer_passes"`
		OptimizerSwaps  int         `json:"optimizer_swaps"`
		Warnings        []schema.Warning `json:"warnings,omitempty"`
	}
	type JSONRun struct {
		Stripes  []JSONStripe `json:"stripes"`
		Seed     uint64       `json:"seed"`
		Duration string       `json:"duration"`
	}

	output := JSONRun{Seed: result.Seed, Duration: result.Duration.String()}
	for _, stripe := range result.Stripes {
		entries := make([]JSONEntry, len(stripe.Suite.Entries))
		for i, e := range stripe.Suite.Entries {
			entries[i] = JSONEntry{
				Rank:          i + 1,
				Label:         contract.GetPlainScaleLabel(e.ScaleFactor, cfg.MaxScale),
				SelectedEntry: e,
			}
		}
		output.Stripes = append(output.Stripes, JSONStripe{
			Level:           stripe.Level,
			Entries:         entries,
			MeanLn:          stripe.Suite.MeanLn,
			StdLn:           stripe.Suite.StdLn,
			Objective:       stripe.Suite.Objective,
			GreedyObjective: stripe.GreedyObjective,
			OptimizerPasses: stripe.OptimizerPasses,
			OptimizerSwaps:  stripe.OptimizerSwaps,
			Warnings:        stripe.Warnings,
		})
	}

	// 2. Use the generic JSON writer
	return writeJSON(w, output)
}
