// Package commands implements CLI command handlers for astra.
package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/yuv008/ASTra/pkg/analyzers/analyze"
	"github.com/yuv008/ASTra/pkg/analyzers/complexity"
	"github.com/yuv008/ASTra/pkg/analyzers/quality"
	"github.com/yuv008/ASTra/pkg/analyzers/renderer"
	"github.com/yuv008/ASTra/pkg/analyzers/security"
	"github.com/yuv008/ASTra/pkg/config"
	"github.com/yuv008/ASTra/pkg/observability"
	"github.com/yuv008/ASTra/pkg/parser"
	"github.com/yuv008/ASTra/pkg/suggest"
	"github.com/yuv008/ASTra/pkg/version"
)

var (
	// ErrUsage marks command line input the CLI cannot act on.
	ErrUsage = errors.New("invalid usage")

	// ErrSeverityGate is returned after rendering when findings reach the
	// --fail-on severity.
	ErrSeverityGate = errors.New("findings at or above fail-on severity")

	// ErrAnalysisFailed is returned when no file produced a result.
	ErrAnalysisFailed = errors.New("analysis failed")
)

type (
	configLoader          func(path string) (*config.Config, error)
	observabilityInitFunc func(cfg observability.Config) (observability.Providers, error)

	// analysisExecutor runs the analysis pipeline over path, which may name
	// a file or a directory.
	analysisExecutor func(
		ctx context.Context,
		cfg *config.Config,
		path string,
		log *slog.Logger,
		recorder analyze.RunRecorder,
	) (*analyze.ProjectResult, error)
)

// RunCommand holds configuration and dependencies for the run command.
type RunCommand struct {
	configPath  string
	format      string
	output      string
	analyzerIDs []string
	jobs        int
	failOn      string
	suggest     bool
	noColor     bool
	verbose     bool

	loadConfig configLoader
	initObs    observabilityInitFunc
	execute    analysisExecutor
}

// NewRunCommand creates the run command wired to the real pipeline.
func NewRunCommand() *cobra.Command {
	return newRunCommandWithDeps(config.Load, observability.Init, runAnalysis)
}

func newRunCommandWithDeps(
	loadConfig configLoader,
	initObs observabilityInitFunc,
	execute analysisExecutor,
) *cobra.Command {
	rc := &RunCommand{
		loadConfig: loadConfig,
		initObs:    initObs,
		execute:    execute,
	}

	cmd := &cobra.Command{
		Use:   "run [path]",
		Short: "Analyze a file or directory",
		Long:  "Run the configured analyzers over a JavaScript/TypeScript file or directory tree.",
		Args:  cobra.MaximumNArgs(1),
		RunE:  rc.run,
	}

	cmd.Flags().StringVarP(&rc.format, "format", "f", "",
		"Output format: text, compact, json, yaml, sarif, plot, bin")
	cmd.Flags().StringVarP(&rc.output, "output", "o", "", "Output file (default: stdout)")
	cmd.Flags().StringSliceVarP(&rc.analyzerIDs, "analyzers", "a", nil,
		"Analyzers to run (default: complexity,security,quality)")
	cmd.Flags().IntVarP(&rc.jobs, "jobs", "j", 0, "Files analyzed in parallel (0 = CPU count)")
	cmd.Flags().StringVar(&rc.failOn, "fail-on", "",
		"Exit non-zero when a finding reaches this severity: info, warning, error (empty disables the gate)")
	cmd.Flags().BoolVar(&rc.suggest, "suggest", false, "Ask the configured model for fix suggestions")
	cmd.Flags().BoolVar(&rc.noColor, "no-color", false, "Disable colored output")
	cmd.Flags().BoolVarP(&rc.verbose, "verbose", "v", false, "Enable debug logging")
	cmd.Flags().StringVarP(&rc.configPath, "config", "c", "", "Config file (default: .astra.yaml)")

	return cmd
}

func (rc *RunCommand) run(cmd *cobra.Command, args []string) error {
	path := rc.resolvePath(args)

	cfg, err := rc.loadConfig(rc.configPath)
	if err != nil {
		return err
	}

	rc.applyOverrides(cmd, cfg)

	format, err := renderer.ValidateFormat(cfg.Output.Format)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}

	gate, err := rc.resolveGate()
	if err != nil {
		return err
	}

	if rc.noColor {
		color.NoColor = true //nolint:reassign // package-level color switch.
	}

	providers, err := rc.initObs(rc.observabilityConfig(cfg))
	if err != nil {
		return fmt.Errorf("init observability: %w", err)
	}

	log := providers.Logger
	if log == nil {
		log = slog.Default()
	}

	defer func() {
		if providers.Shutdown == nil {
			return
		}

		if shutdownErr := providers.Shutdown(context.Background()); shutdownErr != nil {
			log.Warn("telemetry shutdown failed", slog.Any("error", shutdownErr))
		}
	}()

	ctx, finish := startSpan(cmd.Context(), providers, path)

	result, err := rc.execute(ctx, cfg, path, log, buildRecorder(providers, log))
	if err != nil {
		finish(err)

		return err
	}

	err = rc.render(result, format, cfg.Output.Path, cmd.OutOrStdout())
	if err != nil {
		finish(err)

		return err
	}

	err = checkOutcome(result, gate)
	finish(err)

	return err
}

func (rc *RunCommand) resolvePath(args []string) string {
	if len(args) > 0 {
		return args[0]
	}

	return "."
}

// applyOverrides layers the command line flags over the loaded config. A
// flag only wins when it was actually provided.
func (rc *RunCommand) applyOverrides(cmd *cobra.Command, cfg *config.Config) {
	if rc.format != "" {
		cfg.Output.Format = rc.format
	}

	if rc.output != "" {
		cfg.Output.Path = rc.output
	}

	if len(rc.analyzerIDs) > 0 {
		cfg.Analyzers.Enabled = rc.analyzerIDs
	}

	if rc.jobs > 0 {
		cfg.Analysis.Jobs = rc.jobs
	}

	if cmd.Flags().Changed("suggest") {
		cfg.Suggest.Enabled = rc.suggest
	}

	if rc.verbose {
		cfg.Logging.Level = "debug"
	}
}

// resolveGate parses the --fail-on severity. An empty flag disables the
// gate entirely.
func (rc *RunCommand) resolveGate() (analyze.Severity, error) {
	if rc.failOn == "" {
		return 0, nil
	}

	severity, err := analyze.ParseSeverity(rc.failOn)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrUsage, err)
	}

	return severity, nil
}

// observabilityConfig maps the merged file configuration onto the
// telemetry setup.
func (rc *RunCommand) observabilityConfig(cfg *config.Config) observability.Config {
	obsCfg := observability.DefaultConfig()
	obsCfg.ServiceVersion = version.Version
	obsCfg.OTLPEndpoint = cfg.Telemetry.OTLPEndpoint
	obsCfg.OTLPHeaders = cfg.Telemetry.OTLPHeaders
	obsCfg.OTLPInsecure = cfg.Telemetry.OTLPInsecure
	obsCfg.SampleRatio = cfg.Telemetry.SampleRatio
	obsCfg.LogLevel = logLevel(cfg.Logging.Level)
	obsCfg.LogJSON = cfg.Logging.Format == "json"

	return obsCfg
}

// render serializes the result to the output path when one is configured,
// otherwise to the fallback writer.
func (rc *RunCommand) render(
	result *analyze.ProjectResult,
	format string,
	outputPath string,
	fallback io.Writer,
) error {
	if outputPath == "" {
		return renderer.Render(result, format, fallback)
	}

	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("create output %s: %w", outputPath, err)
	}

	if err := renderer.Render(result, format, file); err != nil {
		_ = file.Close()

		return err
	}

	if err := file.Close(); err != nil {
		return fmt.Errorf("close output %s: %w", outputPath, err)
	}

	return nil
}

// startSpan opens the root span for one run. The returned finish stamps
// the outcome on the span before ending it.
func startSpan(
	ctx context.Context,
	providers observability.Providers,
	path string,
) (context.Context, func(error)) {
	if providers.Tracer == nil {
		return ctx, func(error) {}
	}

	ctx, span := providers.Tracer.Start(ctx, "astra.run",
		trace.WithAttributes(attribute.String("astra.path", path)))

	return ctx, func(err error) {
		span.SetAttributes(attribute.Bool("error", err != nil))

		if err != nil {
			span.RecordError(err)
		}

		span.End()
	}
}

// buildRecorder wires run metrics to the meter. Returning nil simply
// disables recording in the service.
func buildRecorder(providers observability.Providers, log *slog.Logger) analyze.RunRecorder {
	if providers.Meter == nil {
		return nil
	}

	metrics, err := observability.NewRunMetrics(providers.Meter)
	if err != nil {
		log.Warn("run metrics disabled", slog.Any("error", err))

		return nil
	}

	return metrics
}

// checkOutcome converts the analysis outcome into the process exit
// contract: a run where every file failed exits non-zero, as does a
// tripped severity gate.
func checkOutcome(result *analyze.ProjectResult, gate analyze.Severity) error {
	if result.Status == analyze.StatusFailed {
		return fmt.Errorf("%w: all %d files failed", ErrAnalysisFailed, len(result.FailedFiles))
	}

	if gate == 0 {
		return nil
	}

	if analyze.MaxSeverity(result.Findings) >= gate {
		counts := analyze.CountSeverities(result.Findings)

		return fmt.Errorf("%w (%d errors, %d warnings, %d infos)",
			ErrSeverityGate, counts.Errors, counts.Warnings, counts.Infos)
	}

	return nil
}

// buildAnalyzers instantiates the enabled analyzers in configuration
// order, carrying each one's thresholds from the config.
func buildAnalyzers(cfg *config.Config) ([]analyze.Analyzer, error) {
	analyzers := make([]analyze.Analyzer, 0, len(cfg.Analyzers.Enabled))

	for _, name := range cfg.Analyzers.Enabled {
		switch name {
		case "complexity":
			analyzers = append(analyzers, complexity.NewWithThresholds(cfg.Complexity))
		case "security":
			analyzers = append(analyzers, security.NewWithOptions(cfg.Security))
		case "quality":
			analyzers = append(analyzers, quality.NewWithOptions(cfg.Quality))
		default:
			return nil, fmt.Errorf("%w: unknown analyzer %q", ErrUsage, name)
		}
	}

	return analyzers, nil
}

// runAnalysis assembles the real pipeline and analyzes path, which may be
// a single file or a directory tree.
func runAnalysis(
	ctx context.Context,
	cfg *config.Config,
	path string,
	log *slog.Logger,
	recorder analyze.RunRecorder,
) (*analyze.ProjectResult, error) {
	analyzers, err := buildAnalyzers(cfg)
	if err != nil {
		return nil, err
	}

	coordinator := analyze.NewCoordinator(
		analyze.WithAnalyzers(analyzers...),
		analyze.WithLogger(log),
	)

	opts := []analyze.ServiceOption{analyze.WithJobs(cfg.Analysis.Jobs)}

	if recorder != nil {
		opts = append(opts, analyze.WithRecorder(recorder))
	}

	if cfg.Suggest.Enabled {
		provider := suggest.New(suggest.Options{
			Endpoint: cfg.Suggest.Endpoint,
			Model:    cfg.Suggest.Model,
			Timeout:  cfg.Suggest.Timeout,
		}, log)
		opts = append(opts, analyze.WithSuggestionProvider(provider))
	}

	service := analyze.NewService(
		coordinator,
		parser.New(parser.WithMaxFileSize(cfg.Analysis.MaxFileSize)),
		log,
		opts...,
	)

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}

	if info.IsDir() {
		return service.AnalyzeDirectory(ctx, path)
	}

	started := time.Now()

	result, err := service.AnalyzeFile(ctx, path)
	if err != nil {
		return nil, err
	}

	return analyze.ProjectFromFile(result, started), nil
}

// logLevel maps a config level name to its slog value. Unknown names were
// already rejected at config load; fall back to info regardless.
func logLevel(name string) slog.Level {
	switch name {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
