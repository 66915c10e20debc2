package analyze

import "errors"

// Sentinel errors surfaced by the analysis pipeline.
var (
	// ErrInvalidFinding marks a finding that violates the reporting contract.
	ErrInvalidFinding = errors.New("invalid finding")

	// ErrUnknownSeverity marks a severity name that has no value.
	ErrUnknownSeverity = errors.New("unknown severity")

	// ErrAnalyzerPanic wraps a panic recovered from a misbehaving analyzer.
	ErrAnalyzerPanic = errors.New("analyzer panicked")

	// ErrUnsupportedFile marks input the parser cannot handle.
	ErrUnsupportedFile = errors.New("unsupported file")

	// ErrNotDirectory marks a directory analysis aimed at a non-directory.
	ErrNotDirectory = errors.New("not a directory")

	// ErrNoTree marks an analysis request without a parsed tree.
	ErrNoTree = errors.New("no syntax tree")
)
