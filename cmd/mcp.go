package cmd

import (
	"github.com/spf13/cobra"

	"github.com/odakan/EzGM/internal/mcp"
	"github.com/odakan/EzGM/internal/runstore"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the EzGM MCP server",
	Long:  `Launch an MCP server that allows AI agents to run record selections via standard tools.`,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		// Suppress the normal header logs when running in MCP mode
		// to avoid polluting stdio which is used for the protocol.
		return sharedSetup(rootCtx, cmd, args)
	},
	RunE: func(_ *cobra.Command, _ []string) error {
		return mcp.StartMCPServer(rootCtx, cfg, runstore.Manager.Store())
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
