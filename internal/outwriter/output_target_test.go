package outwriter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/odakan/EzGM/schema"
)

func sampleTarget(t *testing.T) *schema.Target {
	t.Helper()
	grid, err := schema.NewPeriodGrid([]float64{0.1, 0.5, 1.0, 2.0})
	require.NoError(t, err)
	return &schema.Target{
		Periods:   grid,
		MeanLn:    []float64{-1.0, -1.5, -2.0, -2.8},
		StdLn:     []float64{0.3, 0.35, 0.0, 0.4},
		Strategy:  schema.ConditionalTarget,
		AnchorIdx: []int{2},
		Level:     0.135,
	}
}

func TestWriteTargetTable(t *testing.T) {
	target := sampleTarget(t)
	cfg := outputConfig()
	fmtFloat, _ := createFormatters(cfg.Precision)

	var buf bytes.Buffer
	err := writeTargetTable(target, cfg, fmtFloat, &buf)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "conditioned at Sa = 0.135 g")
	assert.Contains(t, out, "0.1s")
	assert.Contains(t, out, "2s")
	// Anchor ordinate rendered back in g
	assert.Contains(t, out, fmtFloat(math.Exp(-2.0)))
	assert.Contains(t, out, "4 periods, 1 anchor(s)")
}

func TestWriteCSVRowsForTarget(t *testing.T) {
	target := sampleTarget(t)
	fmtFloat, _ := createFormatters(3)

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	err := writeCSVRowsForTarget(w, target, fmtFloat)
	require.NoError(t, err)
	w.Flush()

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4) // one row per period, no header here

	assert.Contains(t, lines[0], "0.1")
	assert.Contains(t, lines[0], "-1.000")
	assert.Contains(t, lines[2], "-2.000")
}

func TestWriteJSONResultsForTarget(t *testing.T) {
	target := sampleTarget(t)

	var buf bytes.Buffer
	err := writeJSONResultsForTarget(&buf, target)
	require.NoError(t, err)

	var decoded map[string]any
	err = json.Unmarshal(buf.Bytes(), &decoded)
	require.NoError(t, err)

	assert.Equal(t, string(schema.ConditionalTarget), decoded["strategy"])
	assert.Equal(t, 0.135, decoded["level"])
	periods := decoded["periods"].([]any)
	require.Len(t, periods, 4)
	assert.Equal(t, 0.1, periods[0])
}
