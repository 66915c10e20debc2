package renderer

import (
	"fmt"
	"io"
	"strings"

	"github.com/owenrumney/go-sarif/v2/sarif"

	"github.com/yuv008/ASTra/pkg/analyzers/analyze"
	"github.com/yuv008/ASTra/pkg/version"
)

const (
	sarifToolName       = "astra"
	sarifInformationURI = "https://github.com/yuv008/ASTra"
)

// renderSARIF writes a SARIF 2.1.0 log with a single run. Rules are
// registered once per fired rule ID and security rules carry their CWE and
// OWASP identifiers as rule properties.
func renderSARIF(result *analyze.ProjectResult, w io.Writer) error {
	report, err := sarif.New(sarif.Version210)
	if err != nil {
		return fmt.Errorf("create sarif report: %w", err)
	}

	run := sarif.NewRunWithInformationURI(sarifToolName, sarifInformationURI)
	toolVersion := version.Version
	run.Tool.Driver.Version = &toolVersion

	registered := make(map[string]bool)

	for i := range result.Findings {
		finding := &result.Findings[i]

		if !registered[finding.Rule] {
			registerSarifRule(run, finding)
			registered[finding.Rule] = true
		}

		location := sarif.NewLocation().WithPhysicalLocation(
			sarif.NewPhysicalLocation().
				WithArtifactLocation(sarif.NewArtifactLocation().WithUri(finding.File)).
				WithRegion(sarif.NewRegion().
					WithStartLine(int(finding.Span.Start.Line)).
					WithStartColumn(int(finding.Span.Start.Column))),
		)

		sarifResult := sarif.NewRuleResult(finding.Rule).
			WithMessage(sarif.NewTextMessage(finding.Message)).
			WithLevel(sarifLevel(finding.Severity)).
			WithLocations([]*sarif.Location{location})
		run.AddResult(sarifResult)
	}

	report.AddRun(run)

	if err := report.PrettyWrite(w); err != nil {
		return fmt.Errorf("sarif write: %w", err)
	}

	return nil
}

// registerSarifRule derives rule metadata from the rule's first firing.
func registerSarifRule(run *sarif.Run, finding *analyze.Finding) {
	properties := sarif.Properties{
		"category": finding.Category.String(),
	}

	if finding.Security != nil {
		properties["cwe"] = finding.Security.CWE
		properties["owasp"] = finding.Security.OWASP
	}

	run.AddRule(finding.Rule).
		WithDescription(sarifRuleDescription(finding)).
		WithDefaultConfiguration(&sarif.ReportingConfiguration{
			Level: sarifLevel(finding.Severity),
		}).
		WithProperties(properties)
}

func sarifRuleDescription(finding *analyze.Finding) string {
	if finding.Security != nil && finding.Security.Vulnerability != "" {
		return finding.Security.Vulnerability
	}

	return strings.ReplaceAll(finding.Rule, "-", " ")
}

// sarifLevel maps severities onto the SARIF level vocabulary.
func sarifLevel(severity analyze.Severity) string {
	switch severity {
	case analyze.SeverityError:
		return "error"
	case analyze.SeverityWarning:
		return "warning"
	case analyze.SeverityInfo:
		return "note"
	default:
		return "none"
	}
}
