// Package extract measures the raw complexity signals of one checked-out
// repository. Each Extractor yields a number or an UnavailableError.
package extract

import (
	"context"
	"errors"
	"fmt"

	"github.com/huangsam/reporank/schema"
)

// Extractor produces one raw metric from a scanned workspace.
type Extractor interface {
	Name() schema.MetricName
	Extract(ctx context.Context, ws *Workspace) (float64, error)
}

// ErrUnavailable is the sentinel wrapped by every UnavailableError.
var ErrUnavailable = errors.New("metric unavailable")

// UnavailableError records why an extractor produced no value.
type UnavailableError struct {
	Reason schema.UnavailableReason
	Err    error
}

func (e *UnavailableError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", ErrUnavailable, e.Reason)
	}
	return fmt.Sprintf("%s: %s: %v", ErrUnavailable, e.Reason, e.Err)
}

// Unwrap exposes both the sentinel and the cause.
func (e *UnavailableError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrUnavailable}
	}
	return []error{ErrUnavailable, e.Err}
}

// Unavailable builds an UnavailableError.
func Unavailable(reason schema.UnavailableReason, err error) error {
	return &UnavailableError{Reason: reason, Err: err}
}

// ReasonFor maps any extractor error to an unavailable reason.
func ReasonFor(err error) schema.UnavailableReason {
	var ue *UnavailableError
	switch {
	case errors.As(err, &ue):
		return ue.Reason
	case errors.Is(err, context.DeadlineExceeded):
		return schema.ReasonTimeout
	default:
		return schema.ReasonError
	}
}

// Tools holds the executable names of the external analyzers.
type Tools struct {
	Radon    string
	Pylint   string
	ESLint   string
	Cppcheck string
}

// DefaultTools returns executables resolved from PATH.
func DefaultTools() Tools {
	return Tools{Radon: "radon", Pylint: "pylint", ESLint: "eslint", Cppcheck: "cppcheck"}
}

// Options tunes the extractor set.
type Options struct {
	Tools        Tools
	MaxLintFiles int
	MaxFileBytes int64
}

// Default limits.
const (
	DefaultMaxLintFiles       = 200
	DefaultMaxFileBytes int64 = 1 << 20
)

// DefaultOptions returns Options with every limit set.
func DefaultOptions() Options {
	return Options{
		Tools:        DefaultTools(),
		MaxLintFiles: DefaultMaxLintFiles,
		MaxFileBytes: DefaultMaxFileBytes,
	}
}

// All returns one extractor per metric in schema.AllMetrics order.
func All(opts Options) []Extractor {
	if opts.MaxFileBytes <= 0 {
		opts.MaxFileBytes = DefaultMaxFileBytes
	}
	if opts.MaxLintFiles <= 0 {
		opts.MaxLintFiles = DefaultMaxLintFiles
	}
	return []Extractor{
		&LOCExtractor{MaxFileBytes: opts.MaxFileBytes},
		&CyclomaticExtractor{Tool: opts.Tools.Radon},
		&FolderDepthExtractor{},
		&FileCountExtractor{},
		&DependencyExtractor{MaxFileBytes: opts.MaxFileBytes},
		&TechDiversityExtractor{MaxFileBytes: opts.MaxFileBytes},
		&QualityExtractor{Tools: opts.Tools, MaxFiles: opts.MaxLintFiles},
	}
}
