// Package cmd defines the command-line interface for reporank.
package cmd

import (
	"github.com/huangsam/reporank/internal/contract"
	"github.com/huangsam/reporank/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(rankCmd)
	rootCmd.AddCommand(localCmd)
	rootCmd.AddCommand(weightsCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(analysisCmd)
	rootCmd.AddCommand(mcpCmd)

	// Add the analysis subcommands to the parent analysis command
	analysisCmd.AddCommand(analysisClearCmd)
	analysisCmd.AddCommand(analysisStatusCmd)
	analysisCmd.AddCommand(analysisExportCmd)
	analysisCmd.AddCommand(analysisMigrateCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().Bool("detail", false, "Print repository metadata and raw metric values")
	rootCmd.PersistentFlags().Bool("explain", false, "Print the top weighted contributors and missing metrics")
	rootCmd.PersistentFlags().String("exclude", "", "Comma-separated list of glob patterns to ignore inside each repository")
	rootCmd.PersistentFlags().IntP("limit", "l", contract.DefaultResultLimit, "Number of results to display")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json or parquet")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("precision", contract.DefaultPrecision, "Decimal precision for numeric columns")
	rootCmd.PersistentFlags().String("profile", "", "Enable profiling and write profiles to files with this prefix")
	rootCmd.PersistentFlags().IntP("workers", "w", contract.DefaultWorkers, "Number of repositories analyzed concurrently")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging and disable the spinner")
	rootCmd.PersistentFlags().String("timeout", contract.DefaultExtractorTimeout.String(), "Time limit for each metric extractor")
	rootCmd.PersistentFlags().String("clone-timeout", contract.DefaultCloneTimeout.String(), "Time limit for each repository clone")
	rootCmd.PersistentFlags().String("work-dir", "", "Directory for temporary clones (default: system temp dir)")
	rootCmd.PersistentFlags().Int("max-lint-files", contract.DefaultMaxLintFiles, "Maximum files sampled per linter for the quality score")
	rootCmd.PersistentFlags().String("analysis-backend", "", "Run history backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("analysis-db-connect", "", "Database connection string for mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Discovery flags only matter when listing a GitHub account
	rankCmd.Flags().Bool("skip-forks", false, "Exclude forked repositories")
	rankCmd.Flags().Bool("skip-archived", false, "Exclude archived repositories")
	rankCmd.Flags().String("github-api-url", contract.DefaultGitHubAPIURL, "GitHub REST API base URL")
	if err := viper.BindPFlags(rankCmd.Flags()); err != nil {
		contract.LogFatal("Error binding rank flags", err)
	}

	analysisMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 = latest, 0 = rollback all)")
	if err := viper.BindPFlags(analysisMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding migrate flags", err)
	}
}
