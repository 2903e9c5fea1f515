package cmd

import (
	"github.com/huangsam/reporank/core"
	"github.com/huangsam/reporank/internal/contract"
	"github.com/spf13/cobra"
)

// pathTargets ranks the directories given as arguments, or the current one.
func pathTargets(in *contract.ConfigRawInput, args []string) {
	in.Owner = ""
	in.LocalPaths = args
	if len(in.LocalPaths) == 0 {
		in.LocalPaths = []string{"."}
	}
}

// localCmd ranks checkouts that already exist on disk.
var localCmd = &cobra.Command{
	Use:   "local [repo-path...]",
	Short: "Rank local repository checkouts by complexity.",
	Long: `Score directories that are already on disk instead of cloning from GitHub.

Normalization is batch-relative, so pass several paths to compare them.
A single path always receives the degenerate full score on every
measured metric.

Examples:
  # Compare three checkouts
  reporank local ~/src/api ~/src/web ~/src/cli --explain

  # Score the current directory as JSON
  reporank local --output json`,
	PreRunE: func(_ *cobra.Command, args []string) error {
		return sharedSetup(rootCtx, args, pathTargets)
	},
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteRank(rootCtx, cfg, storeManager); err != nil {
			contract.LogFatal("Cannot rank local repositories", err)
		}
	},
}
