package recordstore

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/odakan/EzGM/schema"
)

// Fixed metadata columns of a flatfile catalog, in header order. Spectral
// columns follow, one per period, named sa_<period> with the period in
// seconds (e.g. sa_0.5).
var flatfileColumns = []string{
	"id",
	"event_id",
	"station",
	"magnitude",
	"distance",
	"vs30",
	"duration",
	"components",
}

const saColumnPrefix = "sa_"

// loadCSV reads a flatfile catalog. The header names the metadata columns
// followed by the spectral columns; every row must fill all of them.
func loadCSV(path string) ([]rawRecord, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog: %w", err)
	}
	defer func() { _ = file.Close() }()

	reader := csv.NewReader(file)
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("%w: catalog %s has no data rows", schema.ErrMissingMetadata, path)
	}

	periods, err := parseFlatfileHeader(rows[0])
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}

	records := make([]rawRecord, 0, len(rows)-1)
	for i, row := range rows[1:] {
		rec, err := parseFlatfileRow(row, periods)
		if err != nil {
			return nil, fmt.Errorf("catalog %s row %d: %w", path, i+2, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

// parseFlatfileHeader validates the metadata columns and extracts the
// spectral periods from the sa_<period> columns.
func parseFlatfileHeader(header []string) ([]float64, error) {
	if len(header) < len(flatfileColumns)+1 {
		return nil, fmt.Errorf("%w: header has %d columns, want at least %d metadata columns plus one spectral column",
			schema.ErrMissingMetadata, len(header), len(flatfileColumns))
	}
	for i, want := range flatfileColumns {
		if got := strings.ToLower(strings.TrimSpace(header[i])); got != want {
			return nil, fmt.Errorf("%w: header column %d is %q, want %q", schema.ErrMissingMetadata, i+1, header[i], want)
		}
	}

	periods := make([]float64, 0, len(header)-len(flatfileColumns))
	for _, col := range header[len(flatfileColumns):] {
		name := strings.ToLower(strings.TrimSpace(col))
		if !strings.HasPrefix(name, saColumnPrefix) {
			return nil, fmt.Errorf("%w: unexpected spectral column %q", schema.ErrMissingMetadata, col)
		}
		t, err := strconv.ParseFloat(strings.TrimPrefix(name, saColumnPrefix), 64)
		if err != nil || t <= 0 {
			return nil, fmt.Errorf("%w: spectral column %q does not name a positive period", schema.ErrMalformedPeriodGrid, col)
		}
		periods = append(periods, t)
	}
	return periods, nil
}

// parseFlatfileRow converts one data row into a raw record.
func parseFlatfileRow(row []string, periods []float64) (rawRecord, error) {
	if len(row) != len(flatfileColumns)+len(periods) {
		return rawRecord{}, fmt.Errorf("%w: row has %d columns, want %d",
			schema.ErrMissingMetadata, len(row), len(flatfileColumns)+len(periods))
	}

	id, err := strconv.Atoi(strings.TrimSpace(row[0]))
	if err != nil {
		return rawRecord{}, fmt.Errorf("%w: record id %q is not an integer", schema.ErrMissingMetadata, row[0])
	}
	eventID := strings.TrimSpace(row[1])
	if eventID == "" {
		return rawRecord{}, fmt.Errorf("%w: record %d has no event id", schema.ErrMissingMetadata, id)
	}

	floats := make([]float64, 4)
	for i, col := range []int{3, 4, 5, 6} {
		v, err := strconv.ParseFloat(strings.TrimSpace(row[col]), 64)
		if err != nil {
			return rawRecord{}, fmt.Errorf("%w: record %d column %s is %q", schema.ErrMissingMetadata, id, flatfileColumns[col], row[col])
		}
		floats[i] = v
	}
	components, err := strconv.Atoi(strings.TrimSpace(row[7]))
	if err != nil {
		return rawRecord{}, fmt.Errorf("%w: record %d has non-integer components %q", schema.ErrMissingMetadata, id, row[7])
	}

	sa := make([]float64, len(periods))
	for i := range periods {
		v, err := strconv.ParseFloat(strings.TrimSpace(row[len(flatfileColumns)+i]), 64)
		if err != nil {
			return rawRecord{}, fmt.Errorf("record %d has unreadable Sa at T=%.4gs: %w", id, periods[i], err)
		}
		sa[i] = v
	}

	return rawRecord{
		record: schema.Record{
			ID:         id,
			EventID:    eventID,
			Station:    strings.TrimSpace(row[2]),
			Magnitude:  floats[0],
			Distance:   floats[1],
			Vs30:       floats[2],
			Duration:   floats[3],
			Components: components,
		},
		periods: periods,
		sa:      sa,
	}, nil
}
