package cmd

import (
	"github.com/huangsam/reporank/core"
	"github.com/huangsam/reporank/internal/contract"
	"github.com/spf13/cobra"
)

// ownerTarget ranks the account named by the first argument.
func ownerTarget(in *contract.ConfigRawInput, args []string) {
	in.LocalPaths = nil
	if len(args) > 0 {
		in.Owner = args[0]
	}
}

// rankCmd ranks the public repositories of a GitHub account.
var rankCmd = &cobra.Command{
	Use:   "rank <username>",
	Short: "Rank a GitHub user's public repositories by complexity.",
	Long: `Discover the public repositories of a GitHub user or organization,
clone each one shallowly and rank them by composite complexity score.

Seven proxies are measured per repository:
- Lines of code and mean cyclomatic complexity
- Folder depth and file count
- Declared dependencies and language diversity
- A lint-based quality score (inverted: cleaner code scores lower)

Each metric is min-max normalized across the batch, weighted and summed.
A metric that cannot be measured contributes nothing rather than failing
the run.

Examples:
  # Rank a user's repositories
  reporank rank torvalds

  # Show raw metrics and the strongest contributors per repository
  reporank rank octocat --detail --explain

  # Skip forks and export to CSV
  reporank rank octocat --skip-forks --output csv --output-file ranks.csv`,
	Args: cobra.ExactArgs(1),
	PreRunE: func(_ *cobra.Command, args []string) error {
		return sharedSetup(rootCtx, args, ownerTarget)
	},
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteRank(rootCtx, cfg, storeManager); err != nil {
			contract.LogFatal("Cannot rank repositories", err)
		}
	},
}
