package cmd

import (
	"github.com/huangsam/reporank/internal/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the RepoRank MCP server",
	Long: `Launch an MCP server over stdio that lets AI agents rank repositories
and inspect the weight table through standard tools. Flags and the config
file provide defaults that each tool call may override.`,
	Args: cobra.NoArgs,
	PreRunE: func(_ *cobra.Command, args []string) error {
		return sharedSetup(rootCtx, args, nil)
	},
	RunE: func(_ *cobra.Command, _ []string) error {
		return mcp.StartMCPServer(rootCtx, cfg, storeManager)
	},
}
