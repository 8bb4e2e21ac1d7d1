package mcp_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/odakan/EzGM/internal/contract"
	mcp_internal "github.com/odakan/EzGM/internal/mcp"
	"github.com/odakan/EzGM/schema"
)

func testBaseConfig(t *testing.T) *contract.Config {
	t.Helper()
	grid, err := schema.NewPeriodGrid([]float64{0.1, 0.5, 1.0})
	require.NoError(t, err)
	return &contract.Config{
		Grid:        grid,
		Strategy:    schema.ConditionalTarget,
		GMPE:        "table",
		Correlation: "baker_jayaram",
		IM:          schema.SaCondition,
		AnchorLo:    1.0,
		AnchorHi:    1.0,
		Levels:      []float64{0.135},
		Scenario:    schema.Scenario{Magnitude: 6.5, Distance: 20, Vs30: 400},
		GMPETables: []contract.GMPETable{
			{
				Magnitude: 6.5,
				Distance:  20,
				Periods:   []float64{0.05, 0.1, 0.5, 1.0, 2.0},
				Medians:   []float64{0.45, 0.42, 0.25, 0.12, 0.05},
				Sigmas:    []float64{0.5, 0.5, 0.55, 0.6, 0.65},
			},
		},
		SuiteSize: 5,
		Trials:    2,
		Weights:   schema.GetDefaultErrorWeights(),
		Workers:   2,
		Precision: 3,
	}
}

func TestMCPServerHandlers_ValidationErrors(t *testing.T) {
	baseCfg := testBaseConfig(t)

	// A nil store is fine here; validation errors fire before persistence
	var store contract.RunStore
	s := mcp_internal.NewMCPServer(baseCfg, store)

	ctx := context.Background()

	t.Run("select_records without catalog", func(t *testing.T) {
		tool := s.GetTool("select_records")
		require.NotNil(t, tool, "Tool select_records should exist")

		req := mcp.CallToolRequest{
			Params: mcp.CallToolParams{
				Name:      "select_records",
				Arguments: map[string]any{},
			},
		}

		res, err := tool.Handler(ctx, req)
		require.NoError(t, err, "The MCP handler should not return a raw error for tool logic failures")
		assert.True(t, res.IsError, "The response should indicate an error state")
		assert.Contains(t, res.Content[0].(mcp.TextContent).Text, "no catalog configured")
	})

	t.Run("select_records with missing catalog file", func(t *testing.T) {
		tool := s.GetTool("select_records")
		require.NotNil(t, tool)

		req := mcp.CallToolRequest{
			Params: mcp.CallToolParams{
				Name: "select_records",
				Arguments: map[string]any{
					"catalog_path": t.TempDir() + "/nope.csv",
				},
			},
		}

		res, err := tool.Handler(ctx, req)
		require.NoError(t, err)
		assert.True(t, res.IsError)
		assert.Contains(t, res.Content[0].(mcp.TextContent).Text, "catalog load failed")
	})

	t.Run("get_target_spectrum invalid strategy", func(t *testing.T) {
		tool := s.GetTool("get_target_spectrum")
		require.NotNil(t, tool)

		req := mcp.CallToolRequest{
			Params: mcp.CallToolParams{
				Name: "get_target_spectrum",
				Arguments: map[string]any{
					"strategy": "bogus",
				},
			},
		}

		res, err := tool.Handler(ctx, req)
		require.NoError(t, err)
		assert.True(t, res.IsError)
		assert.Contains(t, res.Content[0].(mcp.TextContent).Text, "invalid strategy")
	})
}

func TestMCPServerHandlers_TargetSpectrum(t *testing.T) {
	baseCfg := testBaseConfig(t)
	s := mcp_internal.NewMCPServer(baseCfg, nil)

	tool := s.GetTool("get_target_spectrum")
	require.NotNil(t, tool)

	req := mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name: "get_target_spectrum",
			Arguments: map[string]any{
				"level": 0.2,
			},
		},
	}

	res, err := tool.Handler(context.Background(), req)
	require.NoError(t, err)
	require.False(t, res.IsError)

	var target schema.Target
	text := res.Content[0].(mcp.TextContent).Text
	require.NoError(t, json.Unmarshal([]byte(text), &target))
	assert.Equal(t, schema.ConditionalTarget, target.Strategy)
	assert.Equal(t, 0.2, target.Level)
	assert.Len(t, target.MeanLn, 3)
}
