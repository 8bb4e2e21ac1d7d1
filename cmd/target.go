package cmd

import (
	"github.com/spf13/cobra"

	"github.com/odakan/EzGM/core"
	"github.com/odakan/EzGM/internal/contract"
	"github.com/odakan/EzGM/internal/outwriter"
)

// targetCmd builds and prints the target spectrum without selecting records.
var targetCmd = &cobra.Command{
	Use:   "target",
	Short: "Print the target spectrum without running a selection.",
	Long: `Build the target spectrum for the first conditioning level and print it.

Useful for:
- Inspecting the conditional mean spectrum before committing to a run
- Comparing design-code shapes against a conditional target
- Exporting target ordinates for plotting

With --strategy code the spectrum follows the configured design code and
the conditioning level is ignored.

Examples:
  # Conditional mean spectrum at Sa(1.0s) = 0.3 g
  ezgm target --levels 0.3 --anchor 1.0

  # Epsilon-based conditioning via config file
  ezgm target --config scenario.yaml

  # Eurocode 8 type-1 shape as CSV
  ezgm target --strategy code --code ec8_part1 --output csv`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		var level float64
		if len(cfg.Levels) > 0 {
			level = cfg.Levels[0]
		}

		target, err := core.BuildTarget(cfg, level)
		if err != nil {
			contract.LogFatal("Cannot build target spectrum", err)
		}

		if err := outwriter.NewOutWriter().WriteTarget(target, cfg); err != nil {
			contract.LogFatal("Cannot write target spectrum", err)
		}
	},
}
