package core

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gobwas/glob"
	"github.com/huangsam/reporank/core/extract"
	"github.com/huangsam/reporank/internal/contract"
	"github.com/huangsam/reporank/schema"
	"github.com/sourcegraph/conc"
	"github.com/sourcegraph/conc/panics"
)

// MetricSetBuilder assembles the RepositoryMetricSet of one checkout.
// A failing extractor marks only its own metric unavailable.
type MetricSetBuilder struct {
	ctx        context.Context
	logger     *log.Logger
	extractors []extract.Extractor
	timeout    time.Duration
	start      time.Time

	ws  *extract.Workspace
	set schema.RepositoryMetricSet
}

// NewMetricSetBuilder is the starting point for building a metric set.
// Each extractor gets its own timeout; zero means no limit.
func NewMetricSetBuilder(ctx context.Context, repo schema.RepositoryIdentity, extractors []extract.Extractor, timeout time.Duration) *MetricSetBuilder {
	return &MetricSetBuilder{
		ctx:        ctx,
		logger:     contract.LoggerFrom(ctx),
		extractors: extractors,
		timeout:    timeout,
		start:      time.Now(),
		set: schema.RepositoryMetricSet{
			Repository: repo,
			Metrics:    make(map[schema.MetricName]schema.RawMetric, len(schema.AllMetrics)),
		},
	}
}

// Scan walks the checkout once. When the walk fails, every metric is
// marked unavailable and Extract becomes a no-op.
func (b *MetricSetBuilder) Scan(root string, excludes []glob.Glob) *MetricSetBuilder {
	ws, err := extract.Scan(b.ctx, root, excludes)
	if err != nil {
		b.logger.Warn("workspace scan failed", "path", root, "err", err)
		for _, m := range schema.AllMetrics {
			b.set.Metrics[m] = schema.Unavailable(schema.ReasonError)
		}
		return b
	}
	b.ws = ws
	b.logger.Debug("workspace scanned", "files", len(ws.Files))
	return b
}

// Extract runs every extractor concurrently and waits for all of them.
func (b *MetricSetBuilder) Extract() *MetricSetBuilder {
	if b.ws == nil {
		return b
	}
	results := make([]schema.RawMetric, len(b.extractors))
	wg := conc.NewWaitGroup()
	for i, e := range b.extractors {
		wg.Go(func() {
			results[i] = b.runExtractor(e)
		})
	}
	wg.Wait()

	for i, e := range b.extractors {
		b.set.Metrics[e.Name()] = results[i]
	}
	return b
}

// runExtractor invokes one extractor under its own deadline and converts
// any failure, panics included, into an unavailable metric.
func (b *MetricSetBuilder) runExtractor(e extract.Extractor) schema.RawMetric {
	ctx, cancel := b.extractorContext()
	defer cancel()

	var (
		value float64
		err   error
		pc    panics.Catcher
	)
	pc.Try(func() {
		value, err = e.Extract(ctx, b.ws)
	})
	if r := pc.Recovered(); r != nil {
		err = fmt.Errorf("extractor panicked: %v", r.Value)
	}

	if err == nil && (math.IsNaN(value) || math.IsInf(value, 0)) {
		err = fmt.Errorf("non-finite value %v", value)
	}
	if err != nil {
		reason := extract.ReasonFor(err)
		if reason == schema.ReasonError && errors.Is(ctx.Err(), context.DeadlineExceeded) {
			reason = schema.ReasonTimeout
		}
		b.logger.Debug("metric unavailable", "metric", e.Name(), "reason", reason, "err", err)
		return schema.Unavailable(reason)
	}
	return schema.Measured(value)
}

func (b *MetricSetBuilder) extractorContext() (context.Context, context.CancelFunc) {
	if b.timeout <= 0 {
		return context.WithCancel(b.ctx)
	}
	return context.WithTimeout(b.ctx, b.timeout)
}

// Build finalizes the construction and returns the completed metric set.
func (b *MetricSetBuilder) Build() schema.RepositoryMetricSet {
	b.set.Complete()
	b.set.Duration = time.Since(b.start)
	return b.set
}
