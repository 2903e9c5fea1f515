package contract

import (
	"errors"
	"fmt"
	"maps"
	"net/url"
	"os"
	"regexp"
	"runtime"
	"slices"
	"strings"
	"time"

	"github.com/huangsam/reporank/schema"
)

// Default values for configuration.
const (
	DefaultResultLimit      = 25
	MaxResultLimit          = 1000
	DefaultPrecision        = 1
	DefaultExtractorTimeout = 2 * time.Minute
	DefaultCloneTimeout     = 5 * time.Minute
	DefaultMaxLintFiles     = 200
	DefaultGitHubAPIURL     = "https://api.github.com/"
)

// DefaultWorkers is the default number of concurrent workers to use.
var DefaultWorkers = runtime.GOMAXPROCS(0)

// DefaultExcludes are glob patterns skipped in every workspace scan.
var DefaultExcludes = []string{
	"*.min.js", "*.min.css", "*.map",
	"go.sum", "Cargo.lock", "package-lock.json", "yarn.lock", "pnpm-lock.yaml", "composer.lock", "poetry.lock", "uv.lock",
	"dist/**", "build/**",
}

// ErrInvalidOwner is returned for names GitHub would never accept.
var ErrInvalidOwner = errors.New("invalid repository owner")

var ownerPattern = regexp.MustCompile(`^[A-Za-z0-9](?:[A-Za-z0-9-]{0,38})$`)

// ProfileConfig holds profiling settings.
type ProfileConfig struct {
	Enabled bool
	Prefix  string
}

// ToolPaths holds the executables used by the external extractors.
type ToolPaths struct {
	Radon    string
	Pylint   string
	ESLint   string
	Cppcheck string
}

// ToolsRawInput holds tool overrides from the YAML config file.
type ToolsRawInput struct {
	Radon    string `mapstructure:"radon"`
	Pylint   string `mapstructure:"pylint"`
	ESLint   string `mapstructure:"eslint"`
	Cppcheck string `mapstructure:"cppcheck"`
}

// Config holds the runtime configuration for a ranking run.
// This struct remains the "final, validated" config.
type Config struct {
	Owner      string   // GitHub user whose public repositories are ranked
	LocalPaths []string // Directories ranked by the local command

	ResultLimit int
	Workers     int
	Precision   int
	Output      schema.OutputMode
	OutputFile  string
	Detail      bool
	Explain     bool
	Width       int // Terminal width override (0 = auto-detect)
	UseColors   bool
	Verbose     bool

	ExtractorTimeout time.Duration
	CloneTimeout     time.Duration
	WorkDir          string
	Excludes         []string
	MaxLintFiles     int
	Tools            ToolPaths

	SkipForks    bool
	SkipArchived bool
	GitHubAPIURL string

	AnalysisBackend   schema.DatabaseBackend
	AnalysisDBConnect string // Please use env var as this is plaintext

	// CustomWeights holds the overrides from the config file
	CustomWeights map[schema.MetricName]float64

	// Weights is the validated table: defaults merged with CustomWeights
	Weights schema.WeightTable
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// These are set manually from positional args, so no tag
	Owner      string
	LocalPaths []string

	// --- Fields from rootCmd.PersistentFlags() ---
	OutputFile        string `mapstructure:"output-file"`
	Limit             int    `mapstructure:"limit"`
	Workers           int    `mapstructure:"workers"`
	Precision         int    `mapstructure:"precision"`
	Output            string `mapstructure:"output"`
	Detail            bool   `mapstructure:"detail"`
	Explain           bool   `mapstructure:"explain"`
	Width             int    `mapstructure:"width"`
	Color             string `mapstructure:"color"`
	Verbose           bool   `mapstructure:"verbose"`
	Timeout           string `mapstructure:"timeout"`
	CloneTimeout      string `mapstructure:"clone-timeout"`
	WorkDir           string `mapstructure:"work-dir"`
	Exclude           string `mapstructure:"exclude"`
	MaxLintFiles      int    `mapstructure:"max-lint-files"`
	SkipForks         bool   `mapstructure:"skip-forks"`
	SkipArchived      bool   `mapstructure:"skip-archived"`
	GitHubAPIURL      string `mapstructure:"github-api-url"`
	AnalysisBackend   string `mapstructure:"analysis-backend"`
	AnalysisDBConnect string `mapstructure:"analysis-db-connect"`

	// --- Settings from the config file only ---
	Tools   ToolsRawInput      `mapstructure:"tools"`
	Weights map[string]float64 `mapstructure:"weights"`
}

// Clone returns a deep copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	clone.LocalPaths = slices.Clone(c.LocalPaths)
	clone.Excludes = slices.Clone(c.Excludes)
	if c.CustomWeights != nil {
		clone.CustomWeights = maps.Clone(c.CustomWeights)
	}
	if c.Weights != nil {
		clone.Weights = c.Weights.Clone()
	}
	return &clone
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := processDurations(cfg, input); err != nil {
		return err
	}
	if err := processTargets(cfg, input); err != nil {
		return err
	}
	if err := validateBackendConfigs(cfg, input); err != nil {
		return err
	}
	if err := processCustomWeights(cfg, input); err != nil {
		return err
	}
	processTools(cfg, input)
	return nil
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("analysis-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("analysis-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

// ValidateOwner checks that name is a plausible GitHub user or organization.
func ValidateOwner(name string) error {
	if !ownerPattern.MatchString(name) || strings.HasSuffix(name, "-") || strings.Contains(name, "--") {
		return fmt.Errorf("%w: %q", ErrInvalidOwner, name)
	}
	return nil
}

// validateSimpleInputs processes and validates all scalar fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	// --- 0. Transfer simple non-validated fields from input -> cfg ---
	cfg.OutputFile = input.OutputFile
	cfg.Detail = input.Detail
	cfg.Explain = input.Explain
	cfg.Width = input.Width
	cfg.Verbose = input.Verbose
	cfg.SkipForks = input.SkipForks
	cfg.SkipArchived = input.SkipArchived

	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	// --- 1. ResultLimit Validation ---
	if input.Limit <= 0 || input.Limit > MaxResultLimit {
		return fmt.Errorf("limit must be greater than 0 and cannot exceed %d (received %d)", MaxResultLimit, input.Limit)
	}
	cfg.ResultLimit = input.Limit

	// --- 2. Workers Validation ---
	if input.Workers <= 0 {
		return fmt.Errorf("workers must be greater than 0 (received %d)", input.Workers)
	}
	cfg.Workers = input.Workers

	// --- 3. Precision and Output Validation ---
	if input.Precision < 1 || input.Precision > 2 {
		return fmt.Errorf("precision must be 1 or 2 (received %d)", input.Precision)
	}
	cfg.Precision = input.Precision

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json, parquet", input.Output)
	}
	if cfg.Output == schema.ParquetOut && input.OutputFile == "" {
		return errors.New("parquet output requires --output-file")
	}

	// --- 4. Extractor limits ---
	if input.MaxLintFiles < 0 {
		return fmt.Errorf("max-lint-files cannot be negative (received %d)", input.MaxLintFiles)
	}
	cfg.MaxLintFiles = input.MaxLintFiles
	if cfg.MaxLintFiles == 0 {
		cfg.MaxLintFiles = DefaultMaxLintFiles
	}

	// --- 5. Excludes Processing ---
	cfg.Excludes = slices.Clone(DefaultExcludes)
	if input.Exclude != "" {
		for p := range strings.SplitSeq(input.Exclude, ",") {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				cfg.Excludes = append(cfg.Excludes, trimmed)
			}
		}
	}

	// --- 6. Work directory ---
	cfg.WorkDir = input.WorkDir
	if cfg.WorkDir != "" {
		info, err := os.Stat(cfg.WorkDir)
		if err != nil {
			return fmt.Errorf("invalid work-dir: %w", err)
		}
		if !info.IsDir() {
			return fmt.Errorf("invalid work-dir: %s is not a directory", cfg.WorkDir)
		}
	}

	// --- 7. GitHub API URL ---
	cfg.GitHubAPIURL = input.GitHubAPIURL
	if cfg.GitHubAPIURL == "" {
		cfg.GitHubAPIURL = DefaultGitHubAPIURL
	}
	u, err := url.Parse(cfg.GitHubAPIURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid github-api-url %q", cfg.GitHubAPIURL)
	}

	return nil
}

// processDurations parses the extractor and clone timeouts.
func processDurations(cfg *Config, input *ConfigRawInput) error {
	parse := func(name, raw string, fallback time.Duration) (time.Duration, error) {
		if raw == "" {
			return fallback, nil
		}
		d, err := time.ParseDuration(raw)
		if err != nil {
			return 0, fmt.Errorf("invalid --%s value %q: %w", name, raw, err)
		}
		if d <= 0 {
			return 0, fmt.Errorf("%s must be positive (received %s)", name, raw)
		}
		return d, nil
	}

	var err error
	if cfg.ExtractorTimeout, err = parse("timeout", input.Timeout, DefaultExtractorTimeout); err != nil {
		return err
	}
	if cfg.CloneTimeout, err = parse("clone-timeout", input.CloneTimeout, DefaultCloneTimeout); err != nil {
		return err
	}
	return nil
}

// processTargets validates the owner or the local directories to rank.
func processTargets(cfg *Config, input *ConfigRawInput) error {
	if input.Owner != "" {
		if err := ValidateOwner(input.Owner); err != nil {
			return err
		}
	}
	cfg.Owner = input.Owner

	cfg.LocalPaths = nil
	for _, p := range input.LocalPaths {
		info, err := os.Stat(p)
		if err != nil {
			return fmt.Errorf("invalid repository path: %w", err)
		}
		if !info.IsDir() {
			return fmt.Errorf("invalid repository path: %s is not a directory", p)
		}
		cfg.LocalPaths = append(cfg.LocalPaths, p)
	}
	return nil
}

// validateBackendConfigs validates the analysis backend configuration.
// An empty backend disables run history.
func validateBackendConfigs(cfg *Config, input *ConfigRawInput) error {
	cfg.AnalysisBackend = schema.DatabaseBackend(strings.ToLower(input.AnalysisBackend))
	if cfg.AnalysisBackend == "" {
		return nil
	}
	if _, ok := schema.ValidDatabaseBackends[cfg.AnalysisBackend]; !ok {
		return fmt.Errorf("invalid analysis backend '%s'. must be sqlite, mysql, postgresql, none", input.AnalysisBackend)
	}
	cfg.AnalysisDBConnect = input.AnalysisDBConnect
	return ValidateDatabaseConnectionString(cfg.AnalysisBackend, cfg.AnalysisDBConnect)
}

// ProcessWeightsRawInput converts config-file weight overrides into metric names.
// Unknown names are kept so that validation can report them.
func ProcessWeightsRawInput(raw map[string]float64) map[schema.MetricName]float64 {
	if len(raw) == 0 {
		return nil
	}
	out := make(map[schema.MetricName]float64, len(raw))
	for k, v := range raw {
		out[schema.MetricName(strings.ToLower(strings.TrimSpace(k)))] = v
	}
	return out
}

// processCustomWeights merges the overrides onto the defaults and validates
// the result.
func processCustomWeights(cfg *Config, input *ConfigRawInput) error {
	cfg.CustomWeights = ProcessWeightsRawInput(input.Weights)
	weights := schema.GetDefaultWeights().Merge(cfg.CustomWeights)
	if err := weights.Validate(); err != nil {
		return err
	}
	cfg.Weights = weights
	return nil
}

// processTools resolves extractor executables, falling back to PATH names.
func processTools(cfg *Config, input *ConfigRawInput) {
	pick := func(v, fallback string) string {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
		return fallback
	}
	cfg.Tools = ToolPaths{
		Radon:    pick(input.Tools.Radon, "radon"),
		Pylint:   pick(input.Tools.Pylint, "pylint"),
		ESLint:   pick(input.Tools.ESLint, "eslint"),
		Cppcheck: pick(input.Tools.Cppcheck, "cppcheck"),
	}
}

// ProcessProfilingConfig enables profiling when a file prefix is given.
func ProcessProfilingConfig(profile *ProfileConfig, profilePrefix string) error {
	if profilePrefix = strings.TrimSpace(profilePrefix); profilePrefix != "" {
		profile.Enabled = true
		profile.Prefix = profilePrefix
	}
	return nil
}

// RankOverrides are per-request settings applied on top of a validated
// Config. Zero values leave the corresponding setting unchanged.
type RankOverrides struct {
	Owner     string
	LocalPath string
	Limit     int
	Workers   int
	Weights   map[string]float64
}

// ApplyRankOverrides validates o and writes it into cfg. An owner replaces
// any local paths and a local path replaces the owner.
func ApplyRankOverrides(cfg *Config, o RankOverrides) error {
	if o.Owner != "" && o.LocalPath != "" {
		return errors.New("specify either a username or a local path, not both")
	}
	if o.Owner != "" || o.LocalPath != "" {
		input := &ConfigRawInput{Owner: o.Owner}
		if o.LocalPath != "" {
			input.LocalPaths = []string{o.LocalPath}
		}
		if err := processTargets(cfg, input); err != nil {
			return err
		}
	}
	if cfg.Owner == "" && len(cfg.LocalPaths) == 0 {
		return errors.New("a GitHub username or a local path is required")
	}

	if o.Limit != 0 {
		if o.Limit < 0 || o.Limit > MaxResultLimit {
			return fmt.Errorf("limit must be greater than 0 and cannot exceed %d (received %d)", MaxResultLimit, o.Limit)
		}
		cfg.ResultLimit = o.Limit
	}
	if o.Workers != 0 {
		if o.Workers < 0 {
			return fmt.Errorf("workers must be greater than 0 (received %d)", o.Workers)
		}
		cfg.Workers = o.Workers
	}
	if len(o.Weights) > 0 {
		return applyWeightOverrides(cfg, ProcessWeightsRawInput(o.Weights))
	}
	return nil
}

// applyWeightOverrides merges overrides onto the already validated table,
// or onto the defaults when none is set, and validates the result.
func applyWeightOverrides(cfg *Config, overrides map[schema.MetricName]float64) error {
	base := cfg.Weights
	if len(base) == 0 {
		base = schema.GetDefaultWeights()
	}
	weights := base.Merge(overrides)
	if err := weights.Validate(); err != nil {
		return err
	}

	custom := maps.Clone(cfg.CustomWeights)
	if custom == nil {
		custom = make(map[schema.MetricName]float64, len(overrides))
	}
	maps.Copy(custom, overrides)
	cfg.CustomWeights = custom
	cfg.Weights = weights
	return nil
}
