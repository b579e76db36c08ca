package cmd

import (
	"github.com/huangsam/gitpulse/internal/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the GitPulse MCP server",
	Long: `Launch an MCP server over stdio that exposes repository initialization, commit
collection, queries, session correlation, hotspots and commit analysis as tools.`,
	// Logs go to stderr, so stdout stays free for the protocol.
	PreRunE: sharedSetup,
	RunE: func(_ *cobra.Command, _ []string) error {
		logger.Info("starting MCP server on stdio")
		return mcp.StartMCPServer(rootCtx, engine, version)
	},
}
