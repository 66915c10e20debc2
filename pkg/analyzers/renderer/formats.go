// Package renderer serializes analysis results into the output formats the
// CLI exposes: terminal tables, grep-friendly lines, machine formats, a
// SARIF log for code-scanning uploads, an HTML chart page and a compressed
// binary envelope.
package renderer

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

const (
	// FormatBinAlias is a short CLI alias for binary output.
	FormatBinAlias = "bin"

	// FormatText is the human-readable output format for terminal display.
	FormatText = "text"

	// FormatCompact is the single-line-per-finding output format.
	FormatCompact = "compact"

	// FormatJSON is the indented JSON output format.
	FormatJSON = "json"

	// FormatYAML is the YAML output format.
	FormatYAML = "yaml"

	// FormatSARIF is the SARIF 2.1.0 output format.
	FormatSARIF = "sarif"

	// FormatPlot is the self-contained HTML chart page format.
	FormatPlot = "plot"

	// FormatBinary is the compressed binary envelope format.
	FormatBinary = "binary"
)

// ErrUnsupportedFormat indicates the requested output format is not supported.
var ErrUnsupportedFormat = errors.New("unsupported format")

// NormalizeFormat canonicalizes a user-provided output format string.
func NormalizeFormat(format string) string {
	normalized := strings.ToLower(strings.TrimSpace(format))
	if normalized == FormatBinAlias {
		return FormatBinary
	}

	return normalized
}

// SupportedFormats returns the canonical output formats.
func SupportedFormats() []string {
	return []string{FormatText, FormatCompact, FormatJSON, FormatYAML, FormatSARIF, FormatPlot, FormatBinary}
}

// ValidateFormat normalizes a format string and checks it is supported.
func ValidateFormat(format string) (string, error) {
	normalized := NormalizeFormat(format)
	if slices.Contains(SupportedFormats(), normalized) {
		return normalized, nil
	}

	return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
}
