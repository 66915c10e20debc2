package commands

import (
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/yuv008/ASTra/pkg/analyzers/analyze"
	"github.com/yuv008/ASTra/pkg/analyzers/complexity"
	"github.com/yuv008/ASTra/pkg/analyzers/quality"
	"github.com/yuv008/ASTra/pkg/analyzers/security"
)

// NewAnalyzersCommand creates the command listing the built-in analyzers.
func NewAnalyzersCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "analyzers",
		Short: "List the built-in analyzers and their rules",
		Run: func(cmd *cobra.Command, _ []string) {
			writeAnalyzerList(cmd.OutOrStdout())
		},
	}
}

// catalogEntry pairs an analyzer with the rule identifiers it reports.
type catalogEntry struct {
	analyzer analyze.Analyzer
	rules    []string
}

// analyzerCatalog lists the built-in analyzers in their default run order.
func analyzerCatalog() []catalogEntry {
	return []catalogEntry{
		{
			analyzer: complexity.New(),
			rules: []string{
				complexity.RuleCyclomatic,
				complexity.RuleCognitive,
				complexity.RuleNesting,
				complexity.RuleLength,
			},
		},
		{
			analyzer: security.New(),
			rules: []string{
				security.RuleSQLInjection,
				security.RuleCommandInjection,
				security.RuleDangerousHTML,
				security.RuleHardcodedSecret,
				security.RuleDangerousFunction,
			},
		},
		{
			analyzer: quality.New(),
			rules: []string{
				quality.RuleUnusedVariable,
				quality.RuleMagicNumber,
				quality.RuleLongParameterList,
				quality.RuleEmptyCatch,
				quality.RuleConsoleStatement,
				quality.RuleDebuggerStatement,
				quality.RuleMarkerComment,
			},
		},
	}
}

// writeAnalyzerList renders one row per analyzer with its category and
// rule identifiers.
func writeAnalyzerList(w io.Writer) {
	tbl := table.NewWriter()
	tbl.SetOutputMirror(w)
	tbl.SetStyle(table.StyleLight)
	tbl.Style().Options.DrawBorder = false
	tbl.Style().Options.SeparateColumns = false
	tbl.Style().Options.SeparateRows = false
	tbl.AppendHeader(table.Row{"Analyzer", "Category", "Rules"})

	for _, entry := range analyzerCatalog() {
		tbl.AppendRow(table.Row{
			entry.analyzer.Name(),
			entry.analyzer.Category(),
			strings.Join(entry.rules, ", "),
		})
	}

	tbl.Render()
}
