package renderer

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/yuv008/ASTra/pkg/analyzers/analyze"
)

// Render writes the result to w in the given output format. The format is
// normalized first, so aliases and mixed case are accepted.
func Render(result *analyze.ProjectResult, format string, w io.Writer) error {
	normalized, err := ValidateFormat(format)
	if err != nil {
		return err
	}

	switch normalized {
	case FormatText:
		return renderText(result, w)
	case FormatCompact:
		return renderCompact(result, w)
	case FormatJSON:
		return renderJSON(result, w)
	case FormatYAML:
		return renderYAML(result, w)
	case FormatSARIF:
		return renderSARIF(result, w)
	case FormatPlot:
		return renderPlot(result, w)
	case FormatBinary:
		return renderBinary(result, w)
	}

	return fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
}

func renderJSON(result *analyze.ProjectResult, w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")

	if err := encoder.Encode(result); err != nil {
		return fmt.Errorf("json encode: %w", err)
	}

	return nil
}

func renderYAML(result *analyze.ProjectResult, w io.Writer) error {
	data, err := yaml.Marshal(result)
	if err != nil {
		return fmt.Errorf("yaml encode: %w", err)
	}

	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("yaml write: %w", err)
	}

	return nil
}

// renderCompact writes one finding per line in a fixed, grep-friendly shape:
// file:line:column: severity rule message [id].
func renderCompact(result *analyze.ProjectResult, w io.Writer) error {
	for i := range result.Findings {
		finding := &result.Findings[i]

		_, err := fmt.Fprintf(w, "%s:%d:%d: %s %s %s [%s]\n",
			finding.File,
			finding.Span.Start.Line,
			finding.Span.Start.Column,
			finding.Severity,
			finding.Rule,
			finding.Message,
			finding.ID,
		)
		if err != nil {
			return fmt.Errorf("compact write: %w", err)
		}
	}

	return nil
}
