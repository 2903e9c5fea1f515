// Package schema has the shared data model for repository ranking.
package schema

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// Sentinel errors for the scoring engine.
var (
	// ErrBatchEmpty means there were no repositories to score.
	ErrBatchEmpty = errors.New("no repositories to analyze")

	// ErrInvalidWeights means a weight table violates its constraints.
	ErrInvalidWeights = errors.New("invalid weight table")
)

// RawMetric is one measured value, or an explicit marker that no value exists.
type RawMetric struct {
	Value     float64           `json:"value"`
	Available bool              `json:"available"`
	Reason    UnavailableReason `json:"reason,omitempty"`
}

// Measured returns an available metric holding v.
func Measured(v float64) RawMetric {
	return RawMetric{Value: v, Available: true}
}

// Unavailable returns a metric that could not be computed.
func Unavailable(reason UnavailableReason) RawMetric {
	return RawMetric{Reason: reason}
}

// String renders the value or "n/a (reason)".
func (m RawMetric) String() string {
	if !m.Available {
		return fmt.Sprintf("n/a (%s)", m.Reason)
	}
	if m.Value == math.Trunc(m.Value) {
		return fmt.Sprintf("%d", int64(m.Value))
	}
	return fmt.Sprintf("%.2f", m.Value)
}

// RepositoryIdentity names a repository and carries hosting counters verbatim.
type RepositoryIdentity struct {
	Name       string `json:"name"`
	FullName   string `json:"full_name,omitempty"`
	URL        string `json:"url"`
	CloneURL   string `json:"clone_url,omitempty"`
	Language   string `json:"language,omitempty"`
	Stars      int    `json:"stars"`
	Forks      int    `json:"forks"`
	Watchers   int    `json:"watchers"`
	OpenIssues int    `json:"open_issues"`
	Fork       bool   `json:"fork,omitempty"`
	Archived   bool   `json:"archived,omitempty"`

	// LocalPath is set for repositories that are already checked out.
	LocalPath string `json:"-"`
}

// RepositoryMetricSet holds the raw readings of one repository.
type RepositoryMetricSet struct {
	Repository RepositoryIdentity       `json:"repository"`
	Metrics    map[MetricName]RawMetric `json:"metrics"`
	Duration   time.Duration            `json:"duration"`
}

// NewRepositoryMetricSet returns a set where every metric starts unavailable.
func NewRepositoryMetricSet(repo RepositoryIdentity, reason UnavailableReason) RepositoryMetricSet {
	metrics := make(map[MetricName]RawMetric, len(AllMetrics))
	for _, m := range AllMetrics {
		metrics[m] = Unavailable(reason)
	}
	return RepositoryMetricSet{Repository: repo, Metrics: metrics}
}

// Get returns the metric, treating a missing key as unavailable.
func (s RepositoryMetricSet) Get(m MetricName) RawMetric {
	if v, ok := s.Metrics[m]; ok {
		return v
	}
	return Unavailable(ReasonError)
}

// Complete fills every missing metric key with an unavailable marker.
func (s *RepositoryMetricSet) Complete() {
	if s.Metrics == nil {
		s.Metrics = make(map[MetricName]RawMetric, len(AllMetrics))
	}
	for _, m := range AllMetrics {
		if _, ok := s.Metrics[m]; !ok {
			s.Metrics[m] = Unavailable(ReasonError)
		}
	}
}

// AvailableCount returns how many metrics hold a value.
func (s RepositoryMetricSet) AvailableCount() int {
	n := 0
	for _, m := range AllMetrics {
		if s.Get(m).Available {
			n++
		}
	}
	return n
}

// NormalizedComponent is one metric of one repository rescaled to [0,1].
type NormalizedComponent struct {
	Metric     MetricName `json:"metric"`
	Value      float64    `json:"value"`
	Available  bool       `json:"available"`
	Degenerate bool       `json:"degenerate,omitempty"`
	Inverted   bool       `json:"inverted,omitempty"`
}

// BreakdownEntry is one term of a composite score.
type BreakdownEntry struct {
	Metric       MetricName `json:"metric"`
	Raw          RawMetric  `json:"raw"`
	Normalized   float64    `json:"normalized"`
	Weight       float64    `json:"weight"`
	Contribution float64    `json:"contribution"`
}

// ComplexityScore is the weighted composite for one repository.
type ComplexityScore struct {
	Repository RepositoryIdentity `json:"repository"`
	Score      float64            `json:"score"`
	Breakdown  []BreakdownEntry   `json:"breakdown"`
}

// DisplayScore returns the score on the 0-100 scale used for labels.
func (c ComplexityScore) DisplayScore() float64 {
	return c.Score * 100
}

// Entry returns the breakdown entry for m.
func (c ComplexityScore) Entry(m MetricName) (BreakdownEntry, bool) {
	for _, e := range c.Breakdown {
		if e.Metric == m {
			return e, true
		}
	}
	return BreakdownEntry{}, false
}

// RankedRepository is a scored repository with its 1-based position.
type RankedRepository struct {
	Rank int `json:"rank"`
	ComplexityScore
}

// RankSummary describes the whole batch. AverageScore uses the 0-100
// display scale.
type RankSummary struct {
	RunID        string        `json:"run_id"`
	Total        int           `json:"total"`
	AverageScore float64       `json:"average_score"`
	Duration     time.Duration `json:"duration"`
}

// RankOutput bundles a ranked batch with its summary.
type RankOutput struct {
	Ranked  []RankedRepository `json:"ranked"`
	Summary RankSummary        `json:"summary"`
}
