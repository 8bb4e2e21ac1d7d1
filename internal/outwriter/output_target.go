package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/odakan/EzGM/internal/contract"
	"github.com/odakan/EzGM/schema"
)

// WriteTargetSpectrum outputs a target spectrum, dispatching based on the output format configured.
func WriteTargetSpectrum(target *schema.Target, cfg *contract.Config) error {
	fmtFloat, _ := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSONResultsForTarget(w, target)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			header := []string{"period_s", "sa_g", "mean_ln", "std_ln"}
			return writeCSVWithHeader(w, header, func(csvWriter *csv.Writer) error {
				return writeCSVRowsForTarget(csvWriter, target, fmtFloat)
			})
		}, "Wrote CSV")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeTargetTable(target, cfg, fmtFloat, w)
		}, "Wrote table")
	}
}

// writeTargetTable generates and writes the human-readable target spectrum table.
func writeTargetTable(target *schema.Target, cfg *contract.Config, fmtFloat func(float64) string, writer io.Writer) error {
	if target.Level > 0 {
		if _, err := fmt.Fprintf(writer, "🎯 Target spectrum (%s), conditioned at Sa = %s g\n", target.Strategy, fmtFloat(target.Level)); err != nil {
			return err
		}
	} else {
		if _, err := fmt.Fprintf(writer, "🎯 Target spectrum (%s)\n", target.Strategy); err != nil {
			return err
		}
	}

	table := tablewriter.NewWriter(writer)
	table.Header([]string{"Period", "Sa (g)", "Mean ln", "Std ln", "Anchor"})
	table.Configure(func(tcfg *tablewriter.Config) {
		tcfg.Row.Alignment.Global = tw.AlignRight
	})

	anchors := make(map[int]struct{}, len(target.AnchorIdx))
	for _, idx := range target.AnchorIdx {
		anchors[idx] = struct{}{}
	}

	var data [][]string
	for i, period := range target.Periods {
		anchorMark := ""
		if _, ok := anchors[i]; ok {
			anchorMark = "*"
		}
		data = append(data, []string{
			formatPeriod(period),
			fmtFloat(lnToAmplitude(target.MeanLn[i])),
			fmtFloat(target.MeanLn[i]),
			fmtFloat(target.StdLn[i]),
			anchorMark,
		})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(writer, "%d periods, %d anchor(s)\n", target.Periods.Len(), len(target.AnchorIdx)); err != nil {
		return err
	}
	return nil
}

// writeCSVRowsForTarget writes the target spectrum rows in CSV format.
func writeCSVRowsForTarget(w *csv.Writer, target *schema.Target, fmtFloat func(float64) string) error {
	for i, period := range target.Periods {
		rec := []string{
			strconv.FormatFloat(period, 'g', -1, 64),    // Period in seconds
			fmtFloat(lnToAmplitude(target.MeanLn[i])),   // Spectral acceleration in g
			fmtFloat(target.MeanLn[i]),                  // Mean of log ordinates
			fmtFloat(target.StdLn[i]),                   // Std of log ordinates
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	return nil
}

// writeJSONResultsForTarget writes the target spectrum in JSON format.
func writeJSONResultsForTarget(w io.Writer, target *schema.Target) error {
	// Covariance is excluded from the JSON encoding of Target, so the
	// struct can be written directly.
	return writeJSON(w, target)
}
