package cmd

import (
	"github.com/huangsam/reporank/core"
	"github.com/huangsam/reporank/internal/contract"
	"github.com/spf13/cobra"
)

// weightsCmd prints the active weight table.
var weightsCmd = &cobra.Command{
	Use:   "weights",
	Short: "Show the metric weights and scoring formula.",
	Long: `Display each metric, its weight after config-file overrides and the
resulting scoring formula. Overrides live under the weights key of
.reporank.yaml and must keep the total at 1.0.

Examples:
  # Show the active weights
  reporank weights

  # Check a candidate config file
  reporank weights --config ./team.yaml`,
	Args: cobra.NoArgs,
	PreRunE: func(_ *cobra.Command, args []string) error {
		return sharedSetup(rootCtx, args, nil)
	},
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteWeights(rootCtx, cfg, storeManager); err != nil {
			contract.LogFatal("Cannot show weights", err)
		}
	},
}
