package cmd

import (
	"fmt"
	"os"

	"github.com/huangsam/reporank/internal/contract"
	"github.com/huangsam/reporank/internal/iocache"
	"github.com/huangsam/reporank/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// loadAnalysisBackend reads and validates the run history settings
// without the full shared setup.
func loadAnalysisBackend() (schema.DatabaseBackend, string, error) {
	if err := loadConfigFile(); err != nil {
		return "", "", err
	}
	setupLogger(viper.GetBool("verbose"))

	backend := schema.DatabaseBackend(viper.GetString("analysis-backend"))
	if backend == "" {
		backend = schema.NoneBackend
	}
	if _, ok := schema.ValidDatabaseBackends[backend]; !ok {
		return "", "", fmt.Errorf("invalid analysis backend '%s'. must be sqlite, mysql, postgresql, none", backend)
	}

	connStr := viper.GetString("analysis-db-connect")
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return "", "", err
	}
	return backend, connStr, nil
}

// analysisSetup opens the configured store for the analysis subcommands.
func analysisSetup(_ *cobra.Command, _ []string) error {
	backend, connStr, err := loadAnalysisBackend()
	if err != nil {
		return err
	}
	if err := iocache.InitStores(backend, connStr); err != nil {
		return fmt.Errorf("failed to initialize analysis: %w", err)
	}

	cfg.AnalysisBackend = backend
	cfg.AnalysisDBConnect = connStr
	cfg.OutputFile = viper.GetString("output-file")
	return nil
}

// analysisMigrateSetup loads settings but does NOT open the store, so
// migrations run against a database whose tables do not exist yet.
func analysisMigrateSetup(_ *cobra.Command, _ []string) error {
	backend, connStr, err := loadAnalysisBackend()
	if err != nil {
		return err
	}
	if backend == schema.SQLiteBackend && connStr == "" {
		connStr = iocache.GetAnalysisDBFilePath()
	}

	cfg.AnalysisBackend = backend
	cfg.AnalysisDBConnect = connStr
	return nil
}

// analysisCmd focused on run history management.
var analysisCmd = &cobra.Command{
	Use:   "analysis",
	Short: "Manage ranking run history and exports",
	Long: `Manage the optional history of ranking runs.

When --analysis-backend is set, every run stores its metadata and one row
per ranked repository with the final score and raw metric values.
Nothing reads the history back during ranking.

Supported backends: SQLite, MySQL, PostgreSQL, or None (disabled)

Examples:
  # Check tracking status
  reporank analysis status --analysis-backend sqlite

  # Export for pandas or DuckDB
  reporank analysis export --analysis-backend sqlite --output-file history`,
}

// analysisClearCmd clears the run history.
var analysisClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all stored ranking runs",
	Long: `Delete every stored run and repository score. SQLite removes the
database file; MySQL and PostgreSQL drop the tables.

WARNING: This action cannot be undone. Consider exporting data first.`,
	PreRunE: analysisSetup,
	Run: func(_ *cobra.Command, _ []string) {
		iocache.CloseStores()
		dbFile := iocache.GetAnalysisDBFilePath()
		if cfg.AnalysisBackend == schema.SQLiteBackend && cfg.AnalysisDBConnect != "" {
			dbFile = cfg.AnalysisDBConnect
		}
		if err := iocache.ClearAnalysis(cfg.AnalysisBackend, dbFile, cfg.AnalysisDBConnect); err != nil {
			contract.LogFatal("Failed to clear analysis data", err)
		}
		fmt.Println("Analysis data cleared successfully.")
	},
}

// analysisStatusCmd shows run history status.
var analysisStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display run history statistics and connection details",
	Long: `Show the backend, connection state, number of stored runs, the newest
and oldest run times, total repositories scored and per-table row counts.`,
	PreRunE: analysisSetup,
	Run: func(_ *cobra.Command, _ []string) {
		store := iocache.Manager.GetAnalysisStore()
		if store == nil {
			contract.LogFatal("Failed to get analysis status", fmt.Errorf("no analysis backend configured"))
		}
		status, err := store.GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get analysis status", err)
		}
		iocache.PrintAnalysisStatus(os.Stdout, status)
	},
}

// analysisExportCmd exports run history to Parquet files.
var analysisExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export run history to Parquet for BI tools and analytics",
	Long: `Write two Parquet files next to --output-file:
<prefix>.analysis_runs.parquet and <prefix>.repo_scores.parquet.

Examples:
  reporank analysis export --analysis-backend sqlite --output-file history
  duckdb -c "SELECT repo_name, score FROM read_parquet('history.repo_scores.parquet')"`,
	PreRunE: analysisSetup,
	Run: func(_ *cobra.Command, _ []string) {
		if err := iocache.ExecuteAnalysisExport(cfg.OutputFile, os.Stderr); err != nil {
			contract.LogFatal("Failed to export analysis data", err)
		}
	},
}

// analysisMigrateCmd runs database migrations for the run history store.
var analysisMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database schema migrations (upgrades/downgrades)",
	Long: `Manage schema versions of the run history store.

By default, migrates to the latest version. Use --target-version for specific versions.

Examples:
  # Migrate to latest version (default)
  reporank analysis migrate --analysis-backend sqlite

  # Roll back everything
  reporank analysis migrate --analysis-backend sqlite --target-version 0`,
	PreRunE: analysisMigrateSetup,
	Run: func(_ *cobra.Command, _ []string) {
		targetVersion := viper.GetInt("target-version")
		if err := iocache.MigrateAnalysis(cfg.AnalysisBackend, cfg.AnalysisDBConnect, targetVersion); err != nil {
			contract.LogFatal("Failed to run migrations", err)
		}
	},
}
