package analyze

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/google/uuid"
	"github.com/sourcegraph/conc/pool"
	"github.com/src-d/enry/v2"

	"github.com/yuv008/ASTra/pkg/ast"
)

// ParsedFile is what a parser hands back for one source file.
type ParsedFile struct {
	// Language is the detected language name, e.g. "JavaScript".
	Language string

	// Tree is the decoded syntax tree rooted at a file node.
	Tree *ast.Node
}

// FileParser turns raw source files into syntax trees. Supported is a cheap
// path-based gate used while collecting candidates; Parse may still reject
// content it cannot handle.
type FileParser interface {
	Supported(path string) bool
	Parse(ctx context.Context, path string, content []byte) (*ParsedFile, error)
}

// SuggestionProvider contributes improvement suggestions for an analyzed
// file, typically from an external model. Providers see the findings that
// were already collected and return additions only.
type SuggestionProvider interface {
	Suggest(ctx context.Context, result *FileResult) ([]Suggestion, error)
}

// RunRecorder receives timing and volume measurements from the service.
type RunRecorder interface {
	RecordFile(ctx context.Context, language string, elapsed time.Duration, findings int)
	RecordFailure(ctx context.Context)
	RecordRun(ctx context.Context, files int, elapsed time.Duration)
}

// Directory names never descended into during collection. Dependency and
// build-output trees dwarf the source they belong to and carry generated
// code nobody will fix by hand.
var skippedDirs = map[string]struct{}{ //nolint:gochecknoglobals // fixed skip list, read-only.
	".git":         {},
	"node_modules": {},
	"dist":         {},
	"build":        {},
	"coverage":     {},
}

// Service orchestrates analysis over files and directories: it owns all
// file I/O, fans parsed files out to the coordinator and aggregates the
// results. The coordinator and analyzers below it never touch the
// filesystem.
type Service struct {
	coordinator *Coordinator
	parser      FileParser
	log         *slog.Logger
	jobs        int
	suggester   SuggestionProvider
	recorder    RunRecorder
}

// ServiceOption configures a service.
type ServiceOption func(*Service)

// WithJobs caps how many files are analyzed concurrently.
func WithJobs(jobs int) ServiceOption {
	return func(s *Service) {
		if jobs > 0 {
			s.jobs = jobs
		}
	}
}

// WithSuggestionProvider enables suggestion generation for files that
// produced findings.
func WithSuggestionProvider(provider SuggestionProvider) ServiceOption {
	return func(s *Service) {
		s.suggester = provider
	}
}

// WithRecorder wires run and per-file measurements to the given recorder.
func WithRecorder(recorder RunRecorder) ServiceOption {
	return func(s *Service) {
		s.recorder = recorder
	}
}

// NewService builds an analysis service around a coordinator and a parser.
// A nil logger falls back to the default logger; concurrency defaults to
// the CPU count.
func NewService(
	coordinator *Coordinator,
	parser FileParser,
	log *slog.Logger,
	opts ...ServiceOption,
) *Service {
	if log == nil {
		log = slog.Default()
	}

	service := &Service{
		coordinator: coordinator,
		parser:      parser,
		log:         log,
		jobs:        runtime.NumCPU(),
	}

	for _, opt := range opts {
		opt(service)
	}

	return service
}

// AnalyzeFile analyzes a single file on disk.
func (s *Service) AnalyzeFile(ctx context.Context, path string) (*FileResult, error) {
	if !s.parser.Supported(path) {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFile, path)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	result, err := s.analyzeContent(ctx, path, content)
	if err != nil {
		return nil, err
	}

	s.attachSuggestions(ctx, result)

	return result, nil
}

// AnalyzeDirectory walks root, analyzes every supported file and merges the
// per-file outcomes into a project result. Files that fail to read or parse
// are recorded and skipped; the run only fails outright when the walk
// itself fails or the context is cancelled.
func (s *Service) AnalyzeDirectory(ctx context.Context, root string) (*ProjectResult, error) {
	started := time.Now()

	paths, err := s.collectFiles(root)
	if err != nil {
		return nil, fmt.Errorf("collect files: %w", err)
	}

	results := make([]*FileResult, len(paths))
	failures := make([]error, len(paths))

	workers := pool.New().WithMaxGoroutines(s.jobs)

	for i, path := range paths {
		workers.Go(func() {
			if ctx.Err() != nil {
				failures[i] = ctx.Err()

				return
			}

			results[i], failures[i] = s.analyzePath(ctx, path)
		})
	}

	workers.Wait()

	if ctx.Err() != nil {
		return nil, fmt.Errorf("analyze directory: %w", ctx.Err())
	}

	project := s.merge(root, paths, results, failures)
	project.Timing = Timing{StartedAt: started, DurationMS: time.Since(started).Milliseconds()}

	if s.recorder != nil {
		s.recorder.RecordRun(ctx, len(project.Files), time.Since(started))
	}

	return project, nil
}

// ProjectFromFile wraps a single file result in a project result so both
// analysis entry points feed the same rendering path.
func ProjectFromFile(result *FileResult, started time.Time) *ProjectResult {
	project := &ProjectResult{
		ID:       uuid.NewString(),
		Status:   StatusCompleted,
		Root:     result.File.Path,
		Files:    []*FileResult{result},
		Findings: result.Findings,
	}

	project.Suggestions = result.Suggestions
	project.Metrics = computeProjectMetrics(project.Files, project.Findings)
	project.Timing = Timing{StartedAt: started, DurationMS: time.Since(started).Milliseconds()}

	return project
}

// collectFiles walks root and returns the supported file paths in walk
// order. Entries that vanish or deny access mid-walk are skipped rather
// than failing the run, and so are vendored or minified files nobody
// maintains by hand.
func (s *Service) collectFiles(root string) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", root, err)
	}

	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", ErrNotDirectory, root)
	}

	var paths []string

	err = filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) || errors.Is(err, fs.ErrPermission) {
				s.log.Debug("skipping unreadable entry", slog.String("path", path))

				return nil
			}

			return err
		}

		if entry.IsDir() {
			if _, skip := skippedDirs[entry.Name()]; skip && path != root {
				return filepath.SkipDir
			}

			return nil
		}

		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			rel = path
		}

		if enry.IsVendor(filepath.ToSlash(rel)) {
			s.log.Debug("skipping vendored file", slog.String("path", path))

			return nil
		}

		if s.parser.Supported(path) {
			paths = append(paths, path)
		}

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}

	return paths, nil
}

// analyzePath reads and analyzes one file from disk.
func (s *Service) analyzePath(ctx context.Context, path string) (*FileResult, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	result, err := s.analyzeContent(ctx, path, content)
	if err != nil {
		return nil, err
	}

	s.attachSuggestions(ctx, result)

	return result, nil
}

// analyzeContent parses source bytes and runs the coordinator over the
// decoded tree.
func (s *Service) analyzeContent(ctx context.Context, path string, content []byte) (*FileResult, error) {
	started := time.Now()

	parsed, err := s.parser.Parse(ctx, path, content)
	if err != nil {
		if s.recorder != nil {
			s.recorder.RecordFailure(ctx)
		}

		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	result := s.coordinator.AnalyzeFile(path, content, parsed.Tree)
	result.File.Language = parsed.Language

	if s.recorder != nil {
		s.recorder.RecordFile(ctx, parsed.Language, time.Since(started), len(result.Findings))
	}

	return result, nil
}

// attachSuggestions asks the configured provider for suggestions when the
// file produced findings. Provider failures are logged and ignored so an
// unreachable model never breaks analysis.
func (s *Service) attachSuggestions(ctx context.Context, result *FileResult) {
	if s.suggester == nil || len(result.Findings) == 0 {
		return
	}

	suggestions, err := s.suggester.Suggest(ctx, result)
	if err != nil {
		s.log.Warn("suggestion provider failed",
			slog.String("file", result.File.Path),
			slog.Any("error", err))

		return
	}

	result.Suggestions = append(result.Suggestions, suggestions...)
}

// merge folds the per-file outcomes into a single project result, keeping
// file, finding and suggestion order aligned with the walk order.
func (s *Service) merge(
	root string,
	paths []string,
	results []*FileResult,
	failures []error,
) *ProjectResult {
	project := &ProjectResult{
		ID:   uuid.NewString(),
		Root: root,
	}

	for i, result := range results {
		if failures[i] != nil {
			// Binary and otherwise unparseable-by-design files are skipped
			// quietly; real failures are kept on the result.
			if errors.Is(failures[i], ErrUnsupportedFile) {
				s.log.Debug("skipping unsupported file", slog.String("path", paths[i]))

				continue
			}

			s.log.Warn("file analysis failed",
				slog.String("path", paths[i]),
				slog.Any("error", failures[i]))
			project.FailedFiles = append(project.FailedFiles, paths[i])

			continue
		}

		project.Files = append(project.Files, result)
		project.Findings = append(project.Findings, result.Findings...)
		project.Suggestions = append(project.Suggestions, result.Suggestions...)
	}

	project.Status = runStatus(len(project.Files), len(project.FailedFiles))
	project.Metrics = computeProjectMetrics(project.Files, project.Findings)

	return project
}

// runStatus derives the overall status from the success and failure counts.
func runStatus(succeeded, failed int) Status {
	switch {
	case failed == 0:
		return StatusCompleted
	case succeeded == 0:
		return StatusFailed
	default:
		return StatusPartial
	}
}
