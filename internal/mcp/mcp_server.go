// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/odakan/EzGM/internal/contract"
)

// NewMCPServer initializes and configures the EzGM MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, store contract.RunStore) *server.MCPServer {
	s := server.NewMCPServer(
		"EzGM Record Selection Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		store:   store,
	}

	// --- 1. Tool: select_records ---
	s.AddTool(mcp.NewTool("select_records",
		mcp.WithDescription("Select a suite of ground-motion records matching a target spectrum."),
		mcp.WithString("catalog_path", mcp.Description("Path to the candidate record catalog (CSV flatfile or SQLite .db).")),
		mcp.WithNumber("level", mcp.Description("Conditioning intensity in g. Overrides the configured stripe levels with a single stripe.")),
		mcp.WithNumber("records", mcp.Description("Number of records to select.")),
		mcp.WithNumber("max_scale", mcp.Description("Largest admissible scale factor (amplification or compression).")),
		mcp.WithNumber("seed", mcp.Description("Seed for the simulation; 0 draws one from the clock.")),
		mcp.WithBoolean("no_repeat_event", mcp.Description("Forbid selecting two records from the same earthquake.")),
	), h.handleSelectRecords)

	// --- 2. Tool: get_target_spectrum ---
	s.AddTool(mcp.NewTool("get_target_spectrum",
		mcp.WithDescription("Build the target spectrum (conditional or design-code) without running a selection."),
		mcp.WithNumber("level", mcp.Description("Conditioning intensity in g.")),
		mcp.WithString("strategy", mcp.Description("Target strategy (conditional, code)."), mcp.Enum("conditional", "code")),
	), h.handleGetTargetSpectrum)

	// --- 3. Tool: list_catalog ---
	s.AddTool(mcp.NewTool("list_catalog",
		mcp.WithDescription("List the candidate records that survive the configured metadata filters."),
		mcp.WithString("catalog_path", mcp.Description("Path to the candidate record catalog (CSV flatfile or SQLite .db).")),
		mcp.WithNumber("min_magnitude", mcp.Description("Lower magnitude bound.")),
		mcp.WithNumber("max_magnitude", mcp.Description("Upper magnitude bound (0 = unbounded).")),
		mcp.WithNumber("max_distance", mcp.Description("Upper distance bound in km (0 = unbounded).")),
	), h.handleListCatalog)

	return s
}

// StartMCPServer starts the EzGM MCP server.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, store contract.RunStore) error {
	s := NewMCPServer(baseCfg, store)
	return server.ServeStdio(s)
}
