package schema

// Custom string types for type safety.
type (
	// MetricName identifies one raw complexity signal of a repository.
	MetricName string

	// UnavailableReason explains why a metric has no value.
	UnavailableReason string

	// OutputMode represents the format of the output.
	OutputMode string

	// DatabaseBackend represents the database backend for run history.
	DatabaseBackend string
)

// Metric names measured for every repository.
const (
	MetricLOC             MetricName = "loc"
	MetricCyclomatic      MetricName = "cyclomatic_complexity"
	MetricFolderDepth     MetricName = "folder_depth"
	MetricFileCount       MetricName = "file_count"
	MetricDependencyCount MetricName = "dependency_count"
	MetricTechDiversity   MetricName = "tech_diversity"
	MetricQualityScore    MetricName = "quality_score"
)

// Reasons attached to unavailable metrics.
const (
	ReasonToolMissing  UnavailableReason = "tool_missing"
	ReasonInapplicable UnavailableReason = "inapplicable"
	ReasonTimeout      UnavailableReason = "timeout"
	ReasonToolFailed   UnavailableReason = "tool_failed"
	ReasonCloneFailed  UnavailableReason = "clone_failed"
	ReasonError        UnavailableReason = "error"
)

// All output modes supported.
const (
	CSVOut     OutputMode = "csv"
	TextOut    OutputMode = "text" // default
	JSONOut    OutputMode = "json"
	ParquetOut OutputMode = "parquet"
)

// All run history backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// AllMetrics is the fixed metric set, in display and summation order.
var AllMetrics = []MetricName{
	MetricLOC,
	MetricCyclomatic,
	MetricFolderDepth,
	MetricFileCount,
	MetricDependencyCount,
	MetricTechDiversity,
	MetricQualityScore,
}

// ValidMetrics lists all valid metric names.
var ValidMetrics = map[MetricName]struct{}{
	MetricLOC:             {},
	MetricCyclomatic:      {},
	MetricFolderDepth:     {},
	MetricFileCount:       {},
	MetricDependencyCount: {},
	MetricTechDiversity:   {},
	MetricQualityScore:    {},
}

// InvertedMetrics are metrics where a higher raw value means less complexity.
var InvertedMetrics = map[MetricName]struct{}{
	MetricQualityScore: {},
}

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	CSVOut:     {},
	TextOut:    {},
	JSONOut:    {},
	ParquetOut: {},
}

// ValidDatabaseBackends lists all valid run history backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}

// WeightSum is the total every valid weight table must add up to.
const WeightSum = 1.0

// WeightTolerance is the allowed floating point slack on WeightSum.
const WeightTolerance = 0.001

// IsInverted reports whether higher raw values of m mean lower complexity.
func IsInverted(m MetricName) bool {
	_, ok := InvertedMetrics[m]
	return ok
}

// GetDefaultWeights returns the default weight table. Structural proxies
// (lines, branching, coupling, lint quality) dominate; descriptive metrics
// contribute less.
func GetDefaultWeights() WeightTable {
	return WeightTable{
		MetricLOC:             0.20,
		MetricCyclomatic:      0.20,
		MetricDependencyCount: 0.15,
		MetricQualityScore:    0.15,
		MetricFolderDepth:     0.10,
		MetricFileCount:       0.10,
		MetricTechDiversity:   0.10,
	}
}

// MetricDescriptions gives a one-line explanation for each metric.
var MetricDescriptions = map[MetricName]string{
	MetricLOC:             "Lines of code across recognised source files",
	MetricCyclomatic:      "Mean cyclomatic complexity per Python file (radon)",
	MetricFolderDepth:     "Deepest directory nesting",
	MetricFileCount:       "Number of tracked files",
	MetricDependencyCount: "References between sibling source files",
	MetricTechDiversity:   "Distinct programming languages",
	MetricQualityScore:    "Fraction of files passing lint (inverted)",
}
