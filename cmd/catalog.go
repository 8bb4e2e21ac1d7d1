package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/odakan/EzGM/core"
	"github.com/odakan/EzGM/internal/contract"
	"github.com/odakan/EzGM/internal/outwriter"
	"github.com/odakan/EzGM/internal/recordstore"
)

// catalogCmd lists the candidate records that pass the metadata filters.
var catalogCmd = &cobra.Command{
	Use:   "catalog [catalog-path]",
	Short: "List the candidate records that pass the metadata filters.",
	Long: `Load the record catalog and list the candidates that survive the
configured magnitude, distance, Vs30 and duration bounds.

Use this to:
- Sanity-check a flatfile or SQLite catalog before a selection run
- See how many candidates a filter combination leaves
- Export the filtered pool for external processing

Examples:
  # List everything in a CSV flatfile
  ezgm catalog records.csv

  # Apply scenario-style bounds
  ezgm catalog records.csv --min-magnitude 6.0 --max-distance 50

  # Exclude known problem events and export as CSV
  ezgm catalog records.db --exclude-events EQ-042 --output csv`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		start := time.Now()
		records, warnings, err := recordstore.Load(cfg)
		if err != nil {
			contract.LogFatal("Cannot load catalog", err)
		}
		for _, w := range warnings {
			fmt.Fprintf(os.Stderr, "⚠️  [%s] %s\n", w.Kind, w.Message)
		}

		catalog, err := core.NewCatalog(cfg.Grid, records)
		if err != nil {
			contract.LogFatal("Cannot build catalog", err)
		}
		duration := time.Since(start)

		grid := catalog.Grid()
		if err := outwriter.NewOutWriter().WriteCatalog(catalog.Filter(cfg), &grid, cfg, duration); err != nil {
			contract.LogFatal("Cannot write catalog records", err)
		}
	},
}

// catalogStatsCmd summarizes the filtered candidate pool.
var catalogStatsCmd = &cobra.Command{
	Use:   "stats [catalog-path]",
	Short: "Summarize the filtered candidate pool.",
	Long: `Load the catalog, apply the metadata filters and print pool statistics:
record and event counts plus the magnitude, distance, Vs30 and duration
ranges of the surviving candidates.

Examples:
  # Summarize the whole catalog
  ezgm catalog stats records.csv

  # Check what a scenario filter leaves to select from
  ezgm catalog stats records.csv --min-magnitude 6.0 --max-distance 50`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		records, _, err := recordstore.Load(cfg)
		if err != nil {
			contract.LogFatal("Cannot load catalog", err)
		}
		catalog, err := core.NewCatalog(cfg.Grid, records)
		if err != nil {
			contract.LogFatal("Cannot build catalog", err)
		}

		pool := catalog.Filter(cfg)
		if len(pool) == 0 {
			fmt.Println("No records pass the configured filters.")
			return
		}

		events := make(map[string]bool)
		magLo, magHi := pool[0].Magnitude, pool[0].Magnitude
		distLo, distHi := pool[0].Distance, pool[0].Distance
		vsLo, vsHi := pool[0].Vs30, pool[0].Vs30
		durLo, durHi := pool[0].Duration, pool[0].Duration
		for _, r := range pool {
			events[r.EventID] = true
			magLo, magHi = min(magLo, r.Magnitude), max(magHi, r.Magnitude)
			distLo, distHi = min(distLo, r.Distance), max(distHi, r.Distance)
			vsLo, vsHi = min(vsLo, r.Vs30), max(vsHi, r.Vs30)
			durLo, durHi = min(durLo, r.Duration), max(durHi, r.Duration)
		}

		fmt.Printf("Catalog:      %s\n", cfg.CatalogPath)
		fmt.Printf("Records:      %d of %d pass filters\n", len(pool), catalog.Len())
		fmt.Printf("Events:       %d\n", len(events))
		fmt.Printf("Grid periods: %d\n", catalog.Grid().Len())
		fmt.Printf("Magnitude:    %.2f - %.2f\n", magLo, magHi)
		fmt.Printf("Distance:     %.1f - %.1f km\n", distLo, distHi)
		fmt.Printf("Vs30:         %.0f - %.0f m/s\n", vsLo, vsHi)
		fmt.Printf("Duration:     %.1f - %.1f s\n", durLo, durHi)
	},
}

// catalogValidateCmd checks that a catalog loads cleanly onto the grid.
var catalogValidateCmd = &cobra.Command{
	Use:   "validate [catalog-path]",
	Short: "Check that a catalog loads cleanly onto the configured grid.",
	Long: `Load the catalog and report every problem that would fail a selection
run: malformed rows, missing metadata, spectra that do not cover the grid.
Interpolation warnings are printed but do not fail validation.

Examples:
  # Validate a flatfile against the default grid
  ezgm catalog validate records.csv

  # Validate with interpolation allowed
  ezgm catalog validate records.csv --interpolate yes`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		records, warnings, err := recordstore.Load(cfg)
		if err != nil {
			contract.LogFatal("Catalog failed validation", err)
		}
		for _, w := range warnings {
			fmt.Fprintf(os.Stderr, "⚠️  [%s] %s\n", w.Kind, w.Message)
		}

		catalog, err := core.NewCatalog(cfg.Grid, records)
		if err != nil {
			contract.LogFatal("Catalog failed validation", err)
		}

		events := make(map[string]bool)
		for _, r := range catalog.Records() {
			events[r.EventID] = true
		}
		fmt.Printf("Catalog OK: %d records from %d events on a %d-period grid\n",
			catalog.Len(), len(events), catalog.Grid().Len())
	},
}
