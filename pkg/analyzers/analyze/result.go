package analyze

import "time"

// Status reports how completely an analysis request was served.
type Status string

// Analysis statuses. Partial means some files failed but others produced
// results; failed means nothing could be analyzed.
const (
	StatusCompleted Status = "completed"
	StatusPartial   Status = "partial"
	StatusFailed    Status = "failed"
)

// FileInfo identifies an analyzed file.
type FileInfo struct {
	Path     string `json:"path"               yaml:"path"`
	Language string `json:"language,omitempty" yaml:"language,omitempty"`
	Lines    int    `json:"lines"              yaml:"lines"`
}

// FileResult holds everything produced for a single file.
type FileResult struct {
	File        FileInfo     `json:"file"                  yaml:"file"`
	Findings    []Finding    `json:"findings"              yaml:"findings"`
	Suggestions []Suggestion `json:"suggestions,omitempty" yaml:"suggestions,omitempty"`
	Metrics     FileMetrics  `json:"metrics"               yaml:"metrics"`
}

// Timing records when an analysis started and how long it took.
type Timing struct {
	StartedAt  time.Time `json:"started_at"  yaml:"started_at"`
	DurationMS int64     `json:"duration_ms" yaml:"duration_ms"`
}

// ProjectResult is the aggregate outcome of one analysis request. Findings
// and suggestions are merged from the per-file results in deterministic
// file order.
type ProjectResult struct {
	ID          string         `json:"id"                    yaml:"id"`
	Status      Status         `json:"status"                yaml:"status"`
	Root        string         `json:"root"                  yaml:"root"`
	Files       []*FileResult  `json:"files"                 yaml:"files"`
	FailedFiles []string       `json:"failed_files,omitempty" yaml:"failed_files,omitempty"`
	Findings    []Finding      `json:"findings"              yaml:"findings"`
	Suggestions []Suggestion   `json:"suggestions,omitempty" yaml:"suggestions,omitempty"`
	Metrics     ProjectMetrics `json:"metrics"               yaml:"metrics"`
	Timing      Timing         `json:"timing"                yaml:"timing"`
}

// SeverityCounts tallies findings per severity level.
type SeverityCounts struct {
	Errors   int `json:"errors"   yaml:"errors"`
	Warnings int `json:"warnings" yaml:"warnings"`
	Infos    int `json:"infos"    yaml:"infos"`
}

// CountSeverities tallies the given findings by severity.
func CountSeverities(findings []Finding) SeverityCounts {
	var counts SeverityCounts

	for _, finding := range findings {
		switch finding.Severity {
		case SeverityError:
			counts.Errors++
		case SeverityWarning:
			counts.Warnings++
		case SeverityInfo:
			counts.Infos++
		}
	}

	return counts
}

// MaxSeverity returns the highest severity among the findings, or zero when
// there are none.
func MaxSeverity(findings []Finding) Severity {
	var highest Severity

	for _, finding := range findings {
		if finding.Severity > highest {
			highest = finding.Severity
		}
	}

	return highest
}
