package recordstore

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/odakan/EzGM/internal/contract"
	"github.com/odakan/EzGM/schema"
)

const flatfileCatalog = `id,event_id,station,magnitude,distance,vs30,duration,components,sa_0.1,sa_0.5,sa_1.0,sa_2.0
1,EQ-001,STN-A,6.5,20.0,400,12.5,2,0.42,0.31,0.15,0.06
2,EQ-001,STN-B,6.5,35.0,520,10.0,2,0.36,0.24,0.11,0.04
3,EQ-002,STN-C,7.1,12.0,310,18.0,1,0.55,0.44,0.22,0.09
`

func writeCatalogFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catalog.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func loadConfig(t *testing.T, path string) *contract.Config {
	t.Helper()
	grid, err := schema.NewPeriodGrid([]float64{0.1, 0.5, 1.0, 2.0})
	require.NoError(t, err)
	return &contract.Config{
		CatalogPath:    path,
		CatalogBackend: schema.NoneBackend,
		Grid:           grid,
	}
}

func TestLoadFlatfile(t *testing.T) {
	path := writeCatalogFile(t, flatfileCatalog)
	cfg := loadConfig(t, path)

	records, warnings, err := Load(cfg)
	require.NoError(t, err)
	assert.Empty(t, warnings)
	require.Len(t, records, 3)

	first := records[0]
	assert.Equal(t, 1, first.ID)
	assert.Equal(t, "EQ-001", first.EventID)
	assert.Equal(t, "STN-A", first.Station)
	assert.Equal(t, 6.5, first.Magnitude)
	assert.Equal(t, 2, first.Components)
	require.Len(t, first.LnSa, 4)
	assert.InDelta(t, math.Log(0.42), first.LnSa[0], 1e-12)
	assert.InDelta(t, math.Log(0.06), first.LnSa[3], 1e-12)

	assert.Equal(t, "EQ-002", records[2].EventID)
	assert.InDelta(t, math.Log(0.22), records[2].LnSa[2], 1e-12)
}

func TestLoadFlatfileRejectsBadInput(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name:    "wrong metadata header",
			content: "id,quake,station,magnitude,distance,vs30,duration,components,sa_0.1\n1,EQ-001,S,6,10,300,10,2,0.4\n",
		},
		{
			name:    "spectral column without period",
			content: "id,event_id,station,magnitude,distance,vs30,duration,components,sa_abc\n1,EQ-001,S,6,10,300,10,2,0.4\n",
		},
		{
			name:    "missing event id",
			content: "id,event_id,station,magnitude,distance,vs30,duration,components,sa_0.1\n1,,S,6,10,300,10,2,0.4\n",
		},
		{
			name:    "no data rows",
			content: "id,event_id,station,magnitude,distance,vs30,duration,components,sa_0.1\n",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			path := writeCatalogFile(t, tc.content)
			cfg := loadConfig(t, path)
			cfg.Grid = schema.PeriodGrid{0.1}

			_, _, err := Load(cfg)
			assert.Error(t, err)
		})
	}
}

func TestLoadRequiresGridCoverage(t *testing.T) {
	// Catalog carries ordinates at 0.1s and 1.0s only
	content := "id,event_id,station,magnitude,distance,vs30,duration,components,sa_0.1,sa_1.0\n" +
		"1,EQ-001,STN-A,6.5,20.0,400,12.5,2,0.50,0.05\n"
	path := writeCatalogFile(t, content)
	cfg := loadConfig(t, path)
	cfg.Grid = schema.PeriodGrid{0.1, 0.5, 1.0}

	_, _, err := Load(cfg)
	require.Error(t, err)
	assert.ErrorIs(t, err, schema.ErrMalformedPeriodGrid)
}

func TestLoadInterpolatesOntoGrid(t *testing.T) {
	content := "id,event_id,station,magnitude,distance,vs30,duration,components,sa_0.1,sa_1.0\n" +
		"1,EQ-001,STN-A,6.5,20.0,400,12.5,2,0.50,0.05\n"
	path := writeCatalogFile(t, content)
	cfg := loadConfig(t, path)
	cfg.Grid = schema.PeriodGrid{0.1, 0.5, 1.0}
	cfg.Interpolate = true

	records, warnings, err := Load(cfg)
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Len(t, warnings, 1)
	assert.Equal(t, schema.WarnInterpolated, warnings[0].Kind)

	// Exact ordinates are untouched
	assert.InDelta(t, math.Log(0.50), records[0].LnSa[0], 1e-12)
	assert.InDelta(t, math.Log(0.05), records[0].LnSa[2], 1e-12)

	// The 0.5s ordinate is linear in log-log space between the neighbors
	frac := (math.Log(0.5) - math.Log(0.1)) / (math.Log(1.0) - math.Log(0.1))
	want := math.Log(0.50) + frac*(math.Log(0.05)-math.Log(0.50))
	assert.InDelta(t, want, records[0].LnSa[1], 1e-12)
}

func TestLoadRefusesExtrapolation(t *testing.T) {
	content := "id,event_id,station,magnitude,distance,vs30,duration,components,sa_0.5,sa_1.0\n" +
		"1,EQ-001,STN-A,6.5,20.0,400,12.5,2,0.30,0.05\n"
	path := writeCatalogFile(t, content)
	cfg := loadConfig(t, path)
	cfg.Grid = schema.PeriodGrid{0.1, 0.5, 1.0}
	cfg.Interpolate = true

	_, _, err := Load(cfg)
	require.Error(t, err)
	assert.ErrorIs(t, err, schema.ErrMalformedPeriodGrid)
}

func TestLoadWithoutPath(t *testing.T) {
	cfg := loadConfig(t, "")
	_, _, err := Load(cfg)
	require.Error(t, err)
	assert.ErrorIs(t, err, schema.ErrMissingMetadata)
}
