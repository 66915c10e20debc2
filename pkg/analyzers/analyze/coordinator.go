package analyze

import (
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/yuv008/ASTra/pkg/ast"
)

// Coordinator runs a fixed set of analyzers over parsed files. It owns the
// cross-cutting concerns the analyzers stay free of: finding identifiers,
// failure isolation and per-file metrics. A coordinator is constructed once
// per analysis session and is safe for concurrent AnalyzeFile calls.
type Coordinator struct {
	analyzers []Analyzer
	log       *slog.Logger
	seq       atomic.Uint64
}

// CoordinatorOption configures a coordinator.
type CoordinatorOption func(*Coordinator)

// WithLogger routes coordinator diagnostics through the given logger.
func WithLogger(log *slog.Logger) CoordinatorOption {
	return func(c *Coordinator) {
		if log != nil {
			c.log = log
		}
	}
}

// WithAnalyzers registers analyzers in the order they should run.
func WithAnalyzers(analyzers ...Analyzer) CoordinatorOption {
	return func(c *Coordinator) {
		c.analyzers = append(c.analyzers, analyzers...)
	}
}

// NewCoordinator builds a coordinator with the given options. Analyzers run
// in registration order, so output stays deterministic for a given input.
func NewCoordinator(opts ...CoordinatorOption) *Coordinator {
	coord := &Coordinator{log: slog.Default()}

	for _, opt := range opts {
		opt(coord)
	}

	return coord
}

// AddAnalyzer appends an analyzer to the run order.
func (c *Coordinator) AddAnalyzer(analyzer Analyzer) {
	c.analyzers = append(c.analyzers, analyzer)
}

// AnalyzerNames lists registered analyzers in run order.
func (c *Coordinator) AnalyzerNames() []string {
	names := make([]string, 0, len(c.analyzers))
	for _, analyzer := range c.analyzers {
		names = append(names, analyzer.Name())
	}

	return names
}

// AnalyzeFile runs every registered analyzer over one parsed file and
// aggregates their findings into a file result. A failing or panicking
// analyzer is logged and skipped; the result carries whatever the healthy
// analyzers produced. Findings are stamped with session-unique identifiers
// in the order they are collected.
func (c *Coordinator) AnalyzeFile(file string, source []byte, tree *ast.Node) *FileResult {
	actx := NewContext(file, source, tree)

	result := &FileResult{
		File: FileInfo{Path: file, Lines: actx.LineCount()},
	}

	for _, analyzer := range c.analyzers {
		findings, err := c.runAnalyzer(analyzer, actx)
		if err != nil {
			c.log.Warn("analyzer failed",
				slog.String("analyzer", analyzer.Name()),
				slog.String("file", file),
				slog.Any("error", err))

			continue
		}

		for _, finding := range findings {
			if err := finding.Validate(); err != nil {
				c.log.Warn("dropping malformed finding",
					slog.String("analyzer", analyzer.Name()),
					slog.Any("error", err))

				continue
			}

			c.stamp(&finding, actx)
			result.Findings = append(result.Findings, finding)
		}
	}

	result.Metrics = computeFileMetrics(result.Findings, source, tree)

	return result
}

// runAnalyzer shields the coordinator from analyzer panics so one broken
// rule cannot take down the whole file analysis.
func (c *Coordinator) runAnalyzer(analyzer Analyzer, actx *Context) (findings []Finding, err error) {
	defer func() {
		if r := recover(); r != nil {
			findings = nil
			err = fmt.Errorf("%w: %v", ErrAnalyzerPanic, r)
		}
	}()

	return analyzer.Analyze(actx)
}

// stamp fills the coordinator-owned finding fields: the session-unique
// identifier, the file path and a source snippet when the analyzer left
// none.
func (c *Coordinator) stamp(finding *Finding, actx *Context) {
	finding.ID = fmt.Sprintf("%06d", c.seq.Add(1))
	finding.File = actx.File

	if finding.Snippet == "" {
		finding.Snippet = actx.Snippet(finding.Span)
	}
}
