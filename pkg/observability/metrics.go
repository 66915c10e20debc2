package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	metricFilesTotal    = "astra.analysis.files.total"
	metricFindingsTotal = "astra.analysis.findings.total"
	metricFileDuration  = "astra.analysis.file.duration.seconds"
	metricParseFailures = "astra.analysis.parse.failures.total"
	metricRunDuration   = "astra.analysis.run.duration.seconds"

	attrLanguage = "language"
)

// durationBucketBoundaries covers 1ms to 300s: single files parse in
// milliseconds while whole-tree runs can take minutes.
//
//nolint:gochecknoglobals // Fixed histogram boundaries shared by all instruments.
var durationBucketBoundaries = []float64{
	0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120, 300,
}

// RunMetrics holds OTel instruments for analysis runs. It satisfies the
// analysis service's recorder contract without depending on its types.
type RunMetrics struct {
	filesTotal    metric.Int64Counter
	findingsTotal metric.Int64Counter
	fileDuration  metric.Float64Histogram
	parseFailures metric.Int64Counter
	runDuration   metric.Float64Histogram
}

// NewRunMetrics creates analysis metric instruments from the given meter.
func NewRunMetrics(mt metric.Meter) (*RunMetrics, error) {
	files, err := mt.Int64Counter(metricFilesTotal,
		metric.WithDescription("Total files analyzed"),
		metric.WithUnit("{file}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricFilesTotal, err)
	}

	findings, err := mt.Int64Counter(metricFindingsTotal,
		metric.WithDescription("Total findings reported"),
		metric.WithUnit("{finding}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricFindingsTotal, err)
	}

	fileDur, err := mt.Float64Histogram(metricFileDuration,
		metric.WithDescription("Per-file parse and analysis duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(durationBucketBoundaries...),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricFileDuration, err)
	}

	failures, err := mt.Int64Counter(metricParseFailures,
		metric.WithDescription("Files that failed to parse"),
		metric.WithUnit("{file}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricParseFailures, err)
	}

	runDur, err := mt.Float64Histogram(metricRunDuration,
		metric.WithDescription("Whole-run duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(durationBucketBoundaries...),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricRunDuration, err)
	}

	return &RunMetrics{
		filesTotal:    files,
		findingsTotal: findings,
		fileDuration:  fileDur,
		parseFailures: failures,
		runDuration:   runDur,
	}, nil
}

// RecordFile records one analyzed file with its language, duration and
// finding count. Safe to call on a nil receiver (no-op).
func (rm *RunMetrics) RecordFile(ctx context.Context, language string, elapsed time.Duration, findings int) {
	if rm == nil {
		return
	}

	attrs := metric.WithAttributes(attribute.String(attrLanguage, language))

	rm.filesTotal.Add(ctx, 1, attrs)
	rm.findingsTotal.Add(ctx, int64(findings), attrs)
	rm.fileDuration.Record(ctx, elapsed.Seconds(), attrs)
}

// RecordFailure records one file that could not be parsed.
// Safe to call on a nil receiver (no-op).
func (rm *RunMetrics) RecordFailure(ctx context.Context) {
	if rm == nil {
		return
	}

	rm.parseFailures.Add(ctx, 1)
}

// RecordRun records a completed analysis run.
// Safe to call on a nil receiver (no-op).
func (rm *RunMetrics) RecordRun(ctx context.Context, _ int, elapsed time.Duration) {
	if rm == nil {
		return
	}

	rm.runDuration.Record(ctx, elapsed.Seconds())
}
