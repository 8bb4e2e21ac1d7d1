package recordstore

import (
	"database/sql"
	"math"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/odakan/EzGM/schema"
)

// buildCatalogDB creates a SQLite catalog with two records on a two-period band.
func buildCatalogDB(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catalog.db")

	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	defer func() { _ = db.Close() }()
	db.SetMaxOpenConns(1)

	_, err = db.Exec(`CREATE TABLE records (
		id INTEGER PRIMARY KEY,
		event_id TEXT NOT NULL,
		station TEXT NOT NULL,
		magnitude REAL NOT NULL,
		distance REAL NOT NULL,
		vs30 REAL NOT NULL,
		duration REAL NOT NULL,
		components INTEGER NOT NULL
	)`)
	require.NoError(t, err)
	_, err = db.Exec(`CREATE TABLE spectra (
		record_id INTEGER NOT NULL,
		period REAL NOT NULL,
		sa_g REAL NOT NULL,
		PRIMARY KEY (record_id, period)
	)`)
	require.NoError(t, err)

	_, err = db.Exec(`INSERT INTO records VALUES
		(1, 'EQ-001', 'STN-A', 6.5, 20.0, 400, 12.5, 2),
		(2, 'EQ-002', 'STN-B', 7.1, 12.0, 310, 18.0, 2)`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO spectra VALUES
		(1, 0.5, 0.31), (1, 1.0, 0.15),
		(2, 0.5, 0.44), (2, 1.0, 0.22)`)
	require.NoError(t, err)

	return path
}

func TestLoadSQLiteCatalog(t *testing.T) {
	path := buildCatalogDB(t)
	cfg := loadConfig(t, path)
	cfg.CatalogBackend = schema.SQLiteBackend
	cfg.Grid = schema.PeriodGrid{0.5, 1.0}

	records, warnings, err := Load(cfg)
	require.NoError(t, err)
	assert.Empty(t, warnings)
	require.Len(t, records, 2)

	assert.Equal(t, 1, records[0].ID)
	assert.Equal(t, "EQ-001", records[0].EventID)
	assert.InDelta(t, math.Log(0.31), records[0].LnSa[0], 1e-12)
	assert.InDelta(t, math.Log(0.15), records[0].LnSa[1], 1e-12)

	assert.Equal(t, 2, records[1].ID)
	assert.InDelta(t, math.Log(0.44), records[1].LnSa[0], 1e-12)
}

func TestLoadSQLiteMissingFile(t *testing.T) {
	cfg := loadConfig(t, filepath.Join(t.TempDir(), "nope.db"))
	cfg.CatalogBackend = schema.SQLiteBackend

	_, _, err := Load(cfg)
	assert.Error(t, err)
}

func TestLoadSQLiteRecordWithoutSpectrum(t *testing.T) {
	path := buildCatalogDB(t)

	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO records VALUES (3, 'EQ-003', 'STN-C', 6.0, 30.0, 500, 9.0, 2)`)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	cfg := loadConfig(t, path)
	cfg.CatalogBackend = schema.SQLiteBackend
	cfg.Grid = schema.PeriodGrid{0.5, 1.0}

	_, _, err = Load(cfg)
	require.Error(t, err)
	assert.ErrorIs(t, err, schema.ErrMissingMetadata)
}
