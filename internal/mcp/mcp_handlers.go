package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/odakan/EzGM/core"
	"github.com/odakan/EzGM/internal/contract"
	"github.com/odakan/EzGM/internal/recordstore"
	"github.com/odakan/EzGM/schema"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	store   contract.RunStore
}

// applyCatalogPath points the config at a request-supplied catalog,
// re-deriving the backend from the file extension.
func applyCatalogPath(cfg *contract.Config, path string) {
	if path == "" {
		return
	}
	cfg.CatalogPath = path
	if strings.EqualFold(filepath.Ext(path), ".db") {
		cfg.CatalogBackend = schema.SQLiteBackend
	} else {
		cfg.CatalogBackend = schema.NoneBackend
	}
}

func (h *toolHandler) handleSelectRecords(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	applyCatalogPath(cfg, request.GetString("catalog_path", ""))
	if l := request.GetFloat("level", 0); l > 0 {
		cfg.Levels = []float64{l}
	}
	if n := request.GetInt("records", 0); n > 0 {
		cfg.SuiteSize = n
	}
	if s := request.GetFloat("max_scale", 0); s > 0 {
		cfg.Scaling = true
		cfg.MaxScale = s
	}
	if seed := request.GetInt("seed", 0); seed > 0 {
		cfg.Seed = uint64(seed)
	}
	cfg.NoRepeatEvent = request.GetBool("no_repeat_event", cfg.NoRepeatEvent)

	if cfg.CatalogPath == "" {
		return mcp.NewToolResultError("no catalog configured: pass catalog_path or start the server with one"), nil
	}

	records, warnings, err := recordstore.Load(cfg)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("catalog load failed: %v", err)), nil
	}
	catalog, err := core.NewCatalog(cfg.Grid, records)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("catalog rejected: %v", err)), nil
	}

	result, err := core.Run(ctx, cfg, catalog, h.store)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("selection failed: %v", err)), nil
	}

	payload := struct {
		*schema.RunResult
		CatalogWarnings []schema.Warning `json:"catalog_warnings,omitempty"`
	}{RunResult: result, CatalogWarnings: warnings}
	jsonData, _ := json.MarshalIndent(payload, "", "  ")

	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleGetTargetSpectrum(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	if s := request.GetString("strategy", ""); s != "" {
		cfg.Strategy = schema.TargetStrategy(s)
		if _, ok := schema.ValidTargetStrategies[cfg.Strategy]; !ok {
			return mcp.NewToolResultError(fmt.Sprintf("invalid strategy %q", s)), nil
		}
	}

	level := request.GetFloat("level", 0)
	if level == 0 && len(cfg.Levels) > 0 {
		level = cfg.Levels[0]
	}

	target, err := core.BuildTarget(cfg, level)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("target construction failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(target, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleListCatalog(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	applyCatalogPath(cfg, request.GetString("catalog_path", ""))
	if v := request.GetFloat("min_magnitude", 0); v > 0 {
		cfg.MinMagnitude = v
	}
	if v := request.GetFloat("max_magnitude", 0); v > 0 {
		cfg.MaxMagnitude = v
	}
	if v := request.GetFloat("max_distance", 0); v > 0 {
		cfg.MaxDistance = v
	}

	if cfg.CatalogPath == "" {
		return mcp.NewToolResultError("no catalog configured: pass catalog_path or start the server with one"), nil
	}

	records, _, err := recordstore.Load(cfg)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("catalog load failed: %v", err)), nil
	}
	catalog, err := core.NewCatalog(cfg.Grid, records)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("catalog rejected: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(catalog.Filter(cfg), "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}
