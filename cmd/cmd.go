// Package cmd defines the command-line interface for ezgm.
package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/odakan/EzGM/internal/contract"
	"github.com/odakan/EzGM/schema"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(selectCmd)
	rootCmd.AddCommand(targetCmd)
	rootCmd.AddCommand(catalogCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(runsCmd)

	// Add the catalog subcommands to the parent catalog command
	catalogCmd.AddCommand(catalogStatsCmd)
	catalogCmd.AddCommand(catalogValidateCmd)

	// Add the runs subcommands to the parent runs command
	runsCmd.AddCommand(runsStatusCmd)
	runsCmd.AddCommand(runsClearCmd)
	runsCmd.AddCommand(runsExportCmd)
	runsCmd.AddCommand(runsMigrateCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().String("grid", "", "Comma-separated response periods in seconds (empty = built-in grid)")
	rootCmd.PersistentFlags().String("strategy", string(schema.ConditionalTarget), "Target strategy: conditional or code")
	rootCmd.PersistentFlags().String("gmpe", "table", "Ground-motion model for the conditional target")
	rootCmd.PersistentFlags().String("correlation", "baker_jayaram", "Inter-period correlation model: baker_jayaram or none")
	rootCmd.PersistentFlags().String("im", string(schema.SaCondition), "Conditioning intensity measure: sa or avgsa")
	rootCmd.PersistentFlags().String("anchor", "1.0", "Anchor period T or band Tlo:Thi in seconds")
	rootCmd.PersistentFlags().String("levels", "", "Comma-separated conditioning intensities in g, one stripe each")
	rootCmd.PersistentFlags().String("code", "", "Design-code spectrum: ec8_part1 or asce7_16 or tbec_2018")
	rootCmd.PersistentFlags().IntP("records", "n", contract.DefaultSuiteSize, "Number of records to select per stripe")
	rootCmd.PersistentFlags().Int("trials", contract.DefaultTrials, "Simulation batches to draw before keeping the best match")
	rootCmd.PersistentFlags().Uint64("seed", 0, "Simulation seed (0 = draw from the clock)")
	rootCmd.PersistentFlags().String("scale", "yes", "Allow amplitude scaling of records (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().Float64("max-scale", contract.DefaultMaxScale, "Largest admissible scale factor, amplification or compression")
	rootCmd.PersistentFlags().String("repeat-events", "no", "Allow two records from the same earthquake (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("reuse", "no", "Allow the same record in multiple stripes (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().Int("passes", contract.DefaultPasses, "Maximum optimizer improvement passes (0 disables the optimizer)")
	rootCmd.PersistentFlags().Float64("tolerance", contract.DefaultTolerance, "Minimum relative improvement an optimizer swap must deliver to be applied")
	rootCmd.PersistentFlags().String("error-weights", "", "Comma-separated per-period error weights matching the grid (empty = uniform)")
	rootCmd.PersistentFlags().Int("workers", contract.DefaultWorkers, "Number of concurrent workers")
	rootCmd.PersistentFlags().Int("precision", contract.DefaultPrecision, "Decimal precision for numeric columns")
	rootCmd.PersistentFlags().Bool("detail", false, "Print per-record match errors and extra catalog metadata")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json or parquet")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("interpolate", "no", "Interpolate catalog spectra onto the grid (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("runs-backend", string(schema.SQLiteBackend), "Run tracking backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("runs-db-connect", "", "Database connection string for mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().Float64("min-magnitude", 0, "Lower magnitude bound for candidate records")
	rootCmd.PersistentFlags().Float64("max-magnitude", 0, "Upper magnitude bound for candidate records (0 = unbounded)")
	rootCmd.PersistentFlags().Float64("min-distance", 0, "Lower source distance bound in km")
	rootCmd.PersistentFlags().Float64("max-distance", 0, "Upper source distance bound in km (0 = unbounded)")
	rootCmd.PersistentFlags().Float64("min-vs30", 0, "Lower Vs30 bound in m/s")
	rootCmd.PersistentFlags().Float64("max-vs30", 0, "Upper Vs30 bound in m/s (0 = unbounded)")
	rootCmd.PersistentFlags().Float64("min-duration", 0, "Lower significant duration bound in seconds")
	rootCmd.PersistentFlags().Float64("max-duration", 0, "Upper significant duration bound in seconds (0 = unbounded)")
	rootCmd.PersistentFlags().String("exclude-events", "", "Comma-separated earthquake IDs to exclude from the pool")
	rootCmd.PersistentFlags().String("profile", "", "Enable profiling and write profiles to files with this prefix")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of runsMigrateCmd to Viper
	runsMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(runsMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding runs migrate flags", err)
	}
}
