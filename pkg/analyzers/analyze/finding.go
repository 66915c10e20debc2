// Package analyze defines the analyzer contract and the coordinator that
// runs registered analyzers over parsed source trees. Analyzers are pure
// tree consumers: they receive a read-only context and emit findings, while
// the coordinator owns identifier assignment, failure isolation and metric
// aggregation.
package analyze

import (
	"encoding/json"
	"fmt"

	"github.com/yuv008/ASTra/pkg/ast"
)

// Severity ranks how urgently a finding should be acted on.
type Severity uint8

// Severity levels, ordered so that comparisons express escalation.
const (
	SeverityInfo Severity = iota + 1
	SeverityWarning
	SeverityError
)

var severityNames = map[Severity]string{
	SeverityInfo:    "info",
	SeverityWarning: "warning",
	SeverityError:   "error",
}

// String returns the lowercase wire name of the severity.
func (s Severity) String() string {
	if name, ok := severityNames[s]; ok {
		return name
	}

	return fmt.Sprintf("severity(%d)", uint8(s))
}

// MarshalJSON encodes the severity as its string name.
func (s Severity) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// MarshalYAML encodes the severity as its string name.
func (s Severity) MarshalYAML() (any, error) {
	return s.String(), nil
}

// ParseSeverity maps a severity name back to its value.
func ParseSeverity(name string) (Severity, error) {
	for sev, sevName := range severityNames {
		if sevName == name {
			return sev, nil
		}
	}

	return 0, fmt.Errorf("%w: %q", ErrUnknownSeverity, name)
}

// Category groups findings by the concern they report on.
type Category uint8

// Finding categories.
const (
	CategorySecurity Category = iota + 1
	CategoryComplexity
	CategoryCodeSmell
	CategoryBug
	CategoryPerformance
	CategoryBestPractice
	CategoryStyle
)

var categoryNames = map[Category]string{
	CategorySecurity:     "security",
	CategoryComplexity:   "complexity",
	CategoryCodeSmell:    "code-smell",
	CategoryBug:          "bug",
	CategoryPerformance:  "performance",
	CategoryBestPractice: "best-practice",
	CategoryStyle:        "style",
}

// String returns the lowercase wire name of the category.
func (c Category) String() string {
	if name, ok := categoryNames[c]; ok {
		return name
	}

	return fmt.Sprintf("category(%d)", uint8(c))
}

// MarshalJSON encodes the category as its string name.
func (c Category) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

// MarshalYAML encodes the category as its string name.
func (c Category) MarshalYAML() (any, error) {
	return c.String(), nil
}

// SecurityDetail carries the vulnerability taxonomy attached to security
// findings. All three fields are mandatory on every security finding.
type SecurityDetail struct {
	Vulnerability string `json:"vulnerability" yaml:"vulnerability"`
	CWE           string `json:"cwe"           yaml:"cwe"`
	OWASP         string `json:"owasp"         yaml:"owasp"`
}

// ComplexityDetail carries the measured score and the threshold it crossed.
type ComplexityDetail struct {
	Score     float64 `json:"score"     yaml:"score"`
	Threshold float64 `json:"threshold" yaml:"threshold"`
}

// Finding is a single diagnostic reported against a source location.
// ID and File are stamped by the coordinator; analyzers fill the rest.
type Finding struct {
	ID          string            `json:"id"                    yaml:"id"`
	Rule        string            `json:"rule_id"               yaml:"rule_id"`
	Message     string            `json:"message"               yaml:"message"`
	Severity    Severity          `json:"severity"              yaml:"severity"`
	Category    Category          `json:"category"              yaml:"category"`
	File        string            `json:"file_path"             yaml:"file_path"`
	Span        ast.Span          `json:"location"              yaml:"location"`
	Snippet     string            `json:"code_snippet,omitempty" yaml:"code_snippet,omitempty"`
	Suggestions []string          `json:"suggestions,omitempty" yaml:"suggestions,omitempty"`
	Security    *SecurityDetail   `json:"security,omitempty"    yaml:"security,omitempty"`
	Complexity  *ComplexityDetail `json:"complexity,omitempty"  yaml:"complexity,omitempty"`
}

// NewFinding builds a plain finding with the given rule metadata.
func NewFinding(
	rule, message string,
	severity Severity,
	category Category,
	span ast.Span,
) Finding {
	return Finding{
		Rule:     rule,
		Message:  message,
		Severity: severity,
		Category: category,
		Span:     span,
	}
}

// NewSecurityFinding builds a security finding. The vulnerability name, CWE
// and OWASP identifiers are required on every security finding, so the
// constructor takes them positionally rather than leaving them optional.
func NewSecurityFinding(
	rule, message string,
	severity Severity,
	span ast.Span,
	vulnerability, cwe, owasp string,
) Finding {
	finding := NewFinding(rule, message, severity, CategorySecurity, span)
	finding.Security = &SecurityDetail{
		Vulnerability: vulnerability,
		CWE:           cwe,
		OWASP:         owasp,
	}

	return finding
}

// NewComplexityFinding builds a complexity finding carrying the measured
// score and the threshold it exceeded.
func NewComplexityFinding(
	rule, message string,
	severity Severity,
	span ast.Span,
	score, threshold float64,
) Finding {
	finding := NewFinding(rule, message, severity, CategoryComplexity, span)
	finding.Complexity = &ComplexityDetail{Score: score, Threshold: threshold}

	return finding
}

// Validate reports structural defects in a finding. Security findings must
// carry the full vulnerability taxonomy and complexity findings their score
// detail.
func (f *Finding) Validate() error {
	if f.Rule == "" {
		return fmt.Errorf("%w: empty rule id", ErrInvalidFinding)
	}

	if f.Message == "" {
		return fmt.Errorf("%w: %s has no message", ErrInvalidFinding, f.Rule)
	}

	if f.Category == CategorySecurity {
		if f.Security == nil {
			return fmt.Errorf("%w: %s lacks security detail", ErrInvalidFinding, f.Rule)
		}

		if f.Security.Vulnerability == "" || f.Security.CWE == "" || f.Security.OWASP == "" {
			return fmt.Errorf("%w: %s has incomplete security detail", ErrInvalidFinding, f.Rule)
		}
	}

	if f.Category == CategoryComplexity && f.Complexity == nil {
		return fmt.Errorf("%w: %s lacks complexity detail", ErrInvalidFinding, f.Rule)
	}

	return nil
}

// Suggestion is an improvement hint attached to a file or project result,
// either derived from findings or produced by an external provider.
type Suggestion struct {
	Title  string `json:"title"            yaml:"title"`
	Detail string `json:"detail,omitempty" yaml:"detail,omitempty"`
	Rule   string `json:"rule_id,omitempty" yaml:"rule_id,omitempty"`
	Source string `json:"source,omitempty" yaml:"source,omitempty"`
}
