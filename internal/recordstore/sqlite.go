package recordstore

import (
	"database/sql"
	"fmt"
	"os"

	_ "modernc.org/sqlite" // register the sqlite driver

	"github.com/odakan/EzGM/schema"
)

// SQLite catalog tables. One row per record in recordsTable, one row per
// (record, period) ordinate in spectraTable with Sa stored in g.
const (
	recordsTable = "records"
	spectraTable = "spectra"
)

// loadSQLite reads a .db catalog produced by the flatfile import tooling.
func loadSQLite(path string) ([]rawRecord, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("failed to open catalog: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog database: %w", err)
	}
	defer func() { _ = db.Close() }()
	db.SetMaxOpenConns(1)

	byID, order, err := loadRecordRows(db)
	if err != nil {
		return nil, err
	}
	if err := loadSpectrumRows(db, byID); err != nil {
		return nil, err
	}

	records := make([]rawRecord, 0, len(order))
	for _, id := range order {
		r := byID[id]
		if len(r.periods) == 0 {
			return nil, fmt.Errorf("%w: record %d has no spectral ordinates", schema.ErrMissingMetadata, id)
		}
		records = append(records, *r)
	}
	return records, nil
}

// loadRecordRows reads the metadata table into raw records keyed by ID.
func loadRecordRows(db *sql.DB) (map[int]*rawRecord, []int, error) {
	query := fmt.Sprintf(
		"SELECT id, event_id, station, magnitude, distance, vs30, duration, components FROM %s ORDER BY id", recordsTable)
	rows, err := db.Query(query)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query records: %w", err)
	}
	defer func() { _ = rows.Close() }()

	byID := make(map[int]*rawRecord)
	var order []int
	for rows.Next() {
		var rec schema.Record
		if err := rows.Scan(&rec.ID, &rec.EventID, &rec.Station, &rec.Magnitude,
			&rec.Distance, &rec.Vs30, &rec.Duration, &rec.Components); err != nil {
			return nil, nil, fmt.Errorf("failed to scan record row: %w", err)
		}
		if rec.EventID == "" {
			return nil, nil, fmt.Errorf("%w: record %d has no event id", schema.ErrMissingMetadata, rec.ID)
		}
		byID[rec.ID] = &rawRecord{record: rec}
		order = append(order, rec.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("failed to iterate record rows: %w", err)
	}
	if len(order) == 0 {
		return nil, nil, fmt.Errorf("%w: catalog database has no records", schema.ErrMissingMetadata)
	}
	return byID, order, nil
}

// loadSpectrumRows attaches the (period, Sa) ordinates to their records.
func loadSpectrumRows(db *sql.DB, byID map[int]*rawRecord) error {
	query := fmt.Sprintf(
		"SELECT record_id, period, sa_g FROM %s ORDER BY record_id, period", spectraTable)
	rows, err := db.Query(query)
	if err != nil {
		return fmt.Errorf("failed to query spectra: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var recordID int
		var period, sa float64
		if err := rows.Scan(&recordID, &period, &sa); err != nil {
			return fmt.Errorf("failed to scan spectrum row: %w", err)
		}
		r, ok := byID[recordID]
		if !ok {
			return fmt.Errorf("%w: spectrum row references unknown record %d", schema.ErrMissingMetadata, recordID)
		}
		r.periods = append(r.periods, period)
		r.sa = append(r.sa, sa)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate spectrum rows: %w", err)
	}
	return nil
}
