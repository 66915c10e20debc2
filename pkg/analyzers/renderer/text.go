package renderer

import (
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/yuv008/ASTra/pkg/analyzers/analyze"
)

const (
	messageWidthMax = 72
	minutesPerHour  = 60
)

// Severity display colors. Rendering honors the global color.NoColor
// switch, so --no-color and non-TTY output stay plain.
//
//nolint:gochecknoglobals // Fixed display table, never mutated.
var severityColors = map[analyze.Severity]*color.Color{
	analyze.SeverityError:   color.New(color.FgRed, color.Bold),
	analyze.SeverityWarning: color.New(color.FgYellow),
	analyze.SeverityInfo:    color.New(color.FgCyan),
}

// renderText writes the terminal report: a summary block, the findings
// table, suggestions and any files that failed to parse.
func renderText(result *analyze.ProjectResult, w io.Writer) error {
	var out strings.Builder

	writeTextHeader(&out, result)
	writeTextSummary(&out, result)
	writeTextFindings(&out, result)
	writeTextSuggestions(&out, result)
	writeTextFailures(&out, result)

	if _, err := io.WriteString(w, out.String()); err != nil {
		return fmt.Errorf("text write: %w", err)
	}

	return nil
}

func writeTextHeader(out *strings.Builder, result *analyze.ProjectResult) {
	fmt.Fprintf(out, "Project: %s\n", result.Root)
	fmt.Fprintf(out, "Status:  %s in %dms\n\n", result.Status, result.Timing.DurationMS)
}

func writeTextSummary(out *strings.Builder, result *analyze.ProjectResult) {
	summary := result.Metrics.Summary
	complexity := result.Metrics.Complexity
	quality := result.Metrics.Quality

	tbl := newTextTable()
	tbl.AppendRow(table.Row{"Files", humanize.Comma(int64(summary.TotalFiles))})
	tbl.AppendRow(table.Row{"Lines", humanize.Comma(int64(summary.TotalLines))})
	tbl.AppendRow(table.Row{"Code / comment / blank", fmt.Sprintf("%s / %s / %s",
		humanize.Comma(int64(summary.CodeLines)),
		humanize.Comma(int64(summary.CommentLines)),
		humanize.Comma(int64(summary.BlankLines)))})
	tbl.AppendRow(table.Row{"Findings", formatSeverityCounts(analyze.CountSeverities(result.Findings))})
	tbl.AppendRow(table.Row{"Complexity", fmt.Sprintf("avg %.1f, p95 %.1f, max %.1f",
		complexity.Average, complexity.P95, complexity.Highest)})
	tbl.AppendRow(table.Row{"Maintainability", formatGrade(result.Metrics.Grade)})
	tbl.AppendRow(table.Row{"Technical debt", formatDebt(quality.TechnicalDebtMinutes)})

	out.WriteString(tbl.Render())
	out.WriteString("\n\n")
}

func writeTextFindings(out *strings.Builder, result *analyze.ProjectResult) {
	if len(result.Findings) == 0 {
		out.WriteString(color.New(color.FgGreen).Sprint("No findings."))
		out.WriteString("\n")

		return
	}

	tbl := newTextTable()
	tbl.AppendHeader(table.Row{"ID", "Severity", "Rule", "Location", "Message"})
	tbl.SetColumnConfigs([]table.ColumnConfig{
		{Name: "Message", WidthMax: messageWidthMax},
	})

	for i := range result.Findings {
		finding := &result.Findings[i]
		location := fmt.Sprintf("%s:%d", finding.File, finding.Span.Start.Line)
		tbl.AppendRow(table.Row{
			finding.ID,
			formatSeverity(finding.Severity),
			finding.Rule,
			location,
			finding.Message,
		})
	}

	tbl.AppendFooter(table.Row{fmt.Sprintf("Total: %s findings", humanize.Comma(int64(len(result.Findings))))})

	out.WriteString(tbl.Render())
	out.WriteString("\n")
}

func writeTextSuggestions(out *strings.Builder, result *analyze.ProjectResult) {
	if len(result.Suggestions) == 0 {
		return
	}

	out.WriteString("\nSuggestions\n")

	for _, suggestion := range result.Suggestions {
		line := "  - " + suggestion.Title
		if suggestion.Rule != "" {
			line += fmt.Sprintf(" (%s)", suggestion.Rule)
		}

		out.WriteString(line + "\n")

		if suggestion.Detail != "" {
			out.WriteString("    " + suggestion.Detail + "\n")
		}
	}
}

func writeTextFailures(out *strings.Builder, result *analyze.ProjectResult) {
	if len(result.FailedFiles) == 0 {
		return
	}

	out.WriteString("\n")
	out.WriteString(color.New(color.FgRed).Sprintf("Failed files (%d)", len(result.FailedFiles)))
	out.WriteString("\n")

	for _, path := range result.FailedFiles {
		out.WriteString("  - " + path + "\n")
	}
}

// newTextTable builds a borderless light-style table for terminal output.
func newTextTable() table.Writer {
	tbl := table.NewWriter()
	tbl.SetStyle(table.StyleLight)
	tbl.Style().Options.SeparateRows = false
	tbl.Style().Options.SeparateColumns = false
	tbl.Style().Options.DrawBorder = false
	tbl.Style().Options.SeparateHeader = false

	return tbl
}

func formatSeverity(severity analyze.Severity) string {
	if clr, ok := severityColors[severity]; ok {
		return clr.Sprint(severity.String())
	}

	return severity.String()
}

func formatSeverityCounts(counts analyze.SeverityCounts) string {
	parts := []string{
		colorCount(analyze.SeverityError, counts.Errors, "error", "errors"),
		colorCount(analyze.SeverityWarning, counts.Warnings, "warning", "warnings"),
		colorCount(analyze.SeverityInfo, counts.Infos, "info", "infos"),
	}

	return strings.Join(parts, ", ")
}

// colorCount colors a non-zero severity tally; zero tallies stay plain so
// the interesting numbers stand out.
func colorCount(severity analyze.Severity, count int, singular, plural string) string {
	noun := plural
	if count == 1 {
		noun = singular
	}

	text := fmt.Sprintf("%d %s", count, noun)
	if count == 0 {
		return text
	}

	if clr, ok := severityColors[severity]; ok {
		return clr.Sprint(text)
	}

	return text
}

func formatGrade(grade analyze.Grade) string {
	text := fmt.Sprintf("%.1f (%s, %s)", grade.Score, grade.Letter, grade.Label)

	switch grade.Letter {
	case "A", "B":
		return color.New(color.FgGreen).Sprint(text)
	case "C":
		return color.New(color.FgYellow).Sprint(text)
	default:
		return color.New(color.FgRed).Sprint(text)
	}
}

func formatDebt(minutes int) string {
	if minutes < minutesPerHour {
		return fmt.Sprintf("%dm", minutes)
	}

	return fmt.Sprintf("%dh %dm", minutes/minutesPerHour, minutes%minutesPerHour)
}
