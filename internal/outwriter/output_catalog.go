package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/odakan/EzGM/internal/contract"
	"github.com/odakan/EzGM/schema"
)

// WriteCatalogRecords outputs the filtered catalog, dispatching based on the output format configured.
func WriteCatalogRecords(records []schema.Record, grid *schema.PeriodGrid, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, intFmt := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, records)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVResultsForCatalog(w, records, fmtFloat, intFmt)
		}, "Wrote CSV")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCatalogTable(records, grid, cfg, fmtFloat, duration, w)
		}, "Wrote table")
	}
}

// writeCatalogTable generates and writes the human-readable catalog table.
func writeCatalogTable(records []schema.Record, grid *schema.PeriodGrid, cfg *contract.Config, fmtFloat func(float64) string, duration time.Duration, writer io.Writer) error {
	table := tablewriter.NewWriter(writer)

	headers := []string{"Record", "Event", "Station", "Mag", "Rjb", "Vs30"}
	if cfg.Detail {
		headers = append(headers, "Dur", "Comp")
	}
	table.Header(headers)

	table.Configure(func(tcfg *tablewriter.Config) {
		tcfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for _, r := range records {
		row := []string{
			strconv.Itoa(r.ID),
			contract.TruncateText(r.EventID, GetMaxTableEventWidth(cfg)),
			contract.TruncateText(r.Station, GetMaxTableEventWidth(cfg)),
			fmtFloat(r.Magnitude),
			fmtFloat(r.Distance),
			fmtFloat(r.Vs30),
		}
		if cfg.Detail {
			row = append(row,
				fmtFloat(r.Duration),
				strconv.Itoa(r.Components),
			)
		}
		data = append(data, row)
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	events := make(map[string]struct{}, len(records))
	for _, r := range records {
		events[r.EventID] = struct{}{}
	}
	if _, err := fmt.Fprintf(writer, "Showing %d records from %d events on a %d-period grid\n", len(records), len(events), grid.Len()); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(writer, "Catalog loaded in %v\n", duration); err != nil {
		return err
	}
	return nil
}

// writeCSVResultsForCatalog writes the catalog listing in CSV format.
func writeCSVResultsForCatalog(w io.Writer, records []schema.Record, fmtFloat func(float64) string, intFmt string) error {
	header := []string{
		"record_id",
		"event_id",
		"station",
		"magnitude",
		"distance_km",
		"vs30_ms",
		"duration_s",
		"components",
	}
	return writeCSVWithHeader(w, header, func(csvWriter *csv.Writer) error {
		for _, r := range records {
			rec := []string{
				fmt.Sprintf(intFmt, r.ID),
				r.EventID,
				r.Station,
				fmtFloat(r.Magnitude),
				fmtFloat(r.Distance),
				fmtFloat(r.Vs30),
				fmtFloat(r.Duration),
				fmt.Sprintf(intFmt, r.Components),
			}
			if err := csvWriter.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}
