package analyze

import (
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/yuv008/ASTra/pkg/ast"
	"github.com/yuv008/ASTra/pkg/mathutil"
	"github.com/yuv008/ASTra/pkg/textutil"
)

// Scoring constants for maintainability and technical debt. Maintainability
// starts from a perfect score and loses points per finding and per unit of
// average complexity; debt estimates remediation effort per severity.
const (
	perfectScore = 100.0

	findingPenalty          = 2.0
	fileComplexityPenalty   = 2.0
	projectComplexityWeight = 5.0

	baselineComplexity = 1.0

	debtMinutesError   = 30
	debtMinutesWarning = 15
	debtMinutesInfo    = 5

	complexityQuantile = 0.95
)

// FileMetrics summarizes one analyzed file.
type FileMetrics struct {
	Complexity      float64 `json:"complexity"      yaml:"complexity"`
	Maintainability float64 `json:"maintainability" yaml:"maintainability"`
	LinesOfCode     int     `json:"lines_of_code"   yaml:"lines_of_code"`
	CommentLines    int     `json:"comment_lines"   yaml:"comment_lines"`
	BlankLines      int     `json:"blank_lines"     yaml:"blank_lines"`
}

// computeFileMetrics derives file metrics from the collected findings and
// raw source. File complexity is the mean score of the complexity findings,
// or the baseline when none fired. A clean file scores perfect
// maintainability; otherwise each finding and each unit of complexity
// subtracts from the perfect score, floored at zero.
func computeFileMetrics(findings []Finding, source []byte, tree *ast.Node) FileMetrics {
	metrics := FileMetrics{
		Complexity:   baselineComplexity,
		LinesOfCode:  textutil.CountLines(source),
		BlankLines:   textutil.CountBlankLines(source),
		CommentLines: countCommentLines(tree),
	}

	if len(findings) == 0 {
		metrics.Maintainability = perfectScore

		return metrics
	}

	scores := make([]float64, 0, len(findings))

	for _, finding := range findings {
		if finding.Complexity != nil {
			scores = append(scores, finding.Complexity.Score)
		}
	}

	if len(scores) > 0 {
		metrics.Complexity = mathutil.Mean(scores)
	}

	penalty := findingPenalty*float64(len(findings)) + fileComplexityPenalty*metrics.Complexity
	metrics.Maintainability = mathutil.Max(0, perfectScore-penalty)

	return metrics
}

// countCommentLines sums the line extents of every comment in the tree.
func countCommentLines(tree *ast.Node) int {
	total := 0
	for _, comment := range ast.FindAll(tree, ast.KindComment) {
		total += comment.Span.Lines()
	}

	return total
}

// ProjectSummary totals the raw size of the analyzed file set.
type ProjectSummary struct {
	TotalFiles   int `json:"total_files"   yaml:"total_files"`
	TotalLines   int `json:"total_lines"   yaml:"total_lines"`
	CodeLines    int `json:"code_lines"    yaml:"code_lines"`
	CommentLines int `json:"comment_lines" yaml:"comment_lines"`
	BlankLines   int `json:"blank_lines"   yaml:"blank_lines"`
}

// QualityMetrics carries the project-wide health scores.
type QualityMetrics struct {
	MaintainabilityIndex float64 `json:"maintainability_index" yaml:"maintainability_index"`
	TechnicalDebtMinutes int     `json:"technical_debt_minutes" yaml:"technical_debt_minutes"`
}

// ComplexityRollup aggregates per-file complexity across the project.
type ComplexityRollup struct {
	Average float64 `json:"average" yaml:"average"`
	Highest float64 `json:"highest" yaml:"highest"`
	P95     float64 `json:"p95"     yaml:"p95"`
}

// Grade maps a maintainability score onto a letter grade with a label.
type Grade struct {
	Score  float64 `json:"score"  yaml:"score"`
	Letter string  `json:"letter" yaml:"letter"`
	Label  string  `json:"label"  yaml:"label"`
}

// Grade boundaries on the maintainability index.
const (
	gradeABoundary = 80.0
	gradeBBoundary = 60.0
	gradeCBoundary = 40.0
	gradeDBoundary = 20.0
)

// gradeFor buckets a maintainability score into its letter grade.
func gradeFor(score float64) Grade {
	grade := Grade{Score: score}

	switch {
	case score >= gradeABoundary:
		grade.Letter, grade.Label = "A", "Excellent"
	case score >= gradeBBoundary:
		grade.Letter, grade.Label = "B", "Good"
	case score >= gradeCBoundary:
		grade.Letter, grade.Label = "C", "Fair"
	case score >= gradeDBoundary:
		grade.Letter, grade.Label = "D", "Poor"
	default:
		grade.Letter, grade.Label = "F", "Critical"
	}

	return grade
}

// ProjectMetrics summarizes an analyzed file set.
type ProjectMetrics struct {
	Summary    ProjectSummary   `json:"summary"    yaml:"summary"`
	Quality    QualityMetrics   `json:"quality"    yaml:"quality"`
	Complexity ComplexityRollup `json:"complexity" yaml:"complexity"`
	Grade      Grade            `json:"grade"      yaml:"grade"`
}

// computeProjectMetrics rolls per-file results up into project metrics.
// The maintainability index penalizes the total finding count and the
// average file complexity, clamped to the 0..100 range, and the grade is
// derived from that index.
func computeProjectMetrics(files []*FileResult, findings []Finding) ProjectMetrics {
	var metrics ProjectMetrics

	complexities := make([]float64, 0, len(files))

	for _, file := range files {
		metrics.Summary.TotalFiles++
		metrics.Summary.TotalLines += file.Metrics.LinesOfCode
		metrics.Summary.CommentLines += file.Metrics.CommentLines
		metrics.Summary.BlankLines += file.Metrics.BlankLines

		complexities = append(complexities, file.Metrics.Complexity)
	}

	metrics.Summary.CodeLines = metrics.Summary.TotalLines -
		metrics.Summary.CommentLines - metrics.Summary.BlankLines
	if metrics.Summary.CodeLines < 0 {
		metrics.Summary.CodeLines = 0
	}

	metrics.Complexity = rollupComplexity(complexities)

	index := perfectScore -
		findingPenalty*float64(len(findings)) -
		projectComplexityWeight*metrics.Complexity.Average
	metrics.Quality.MaintainabilityIndex = mathutil.Clamp(index, 0, perfectScore)
	metrics.Quality.TechnicalDebtMinutes = debtMinutes(findings)

	metrics.Grade = gradeFor(metrics.Quality.MaintainabilityIndex)

	return metrics
}

// rollupComplexity computes the average, maximum and 95th percentile of the
// per-file complexity scores.
func rollupComplexity(complexities []float64) ComplexityRollup {
	if len(complexities) == 0 {
		return ComplexityRollup{}
	}

	rollup := ComplexityRollup{
		Average: mathutil.Mean(complexities),
	}

	sorted := make([]float64, len(complexities))
	copy(sorted, complexities)
	sort.Float64s(sorted)

	rollup.Highest = sorted[len(sorted)-1]
	rollup.P95 = stat.Quantile(complexityQuantile, stat.Empirical, sorted, nil)

	return rollup
}

// debtMinutes estimates remediation time from finding severities.
func debtMinutes(findings []Finding) int {
	total := 0

	for _, finding := range findings {
		switch finding.Severity {
		case SeverityError:
			total += debtMinutesError
		case SeverityWarning:
			total += debtMinutesWarning
		case SeverityInfo:
			total += debtMinutesInfo
		}
	}

	return total
}
