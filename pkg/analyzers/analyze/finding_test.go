package analyze //nolint:testpackage // testing internal implementation.

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yuv008/ASTra/pkg/ast"
)

func span(line uint32) ast.Span {
	return ast.Span{
		Start: ast.Position{Line: line, Column: 1},
		End:   ast.Position{Line: line, Column: 10},
	}
}

func TestSeverity_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "info", SeverityInfo.String())
	assert.Equal(t, "warning", SeverityWarning.String())
	assert.Equal(t, "error", SeverityError.String())
}

func TestSeverity_Ordering(t *testing.T) {
	t.Parallel()

	assert.Less(t, SeverityInfo, SeverityWarning)
	assert.Less(t, SeverityWarning, SeverityError)
}

func TestSeverity_MarshalJSON(t *testing.T) {
	t.Parallel()

	data, err := json.Marshal(SeverityError)
	require.NoError(t, err)
	assert.JSONEq(t, `"error"`, string(data))
}

func TestParseSeverity_RoundTrip(t *testing.T) {
	t.Parallel()

	for _, sev := range []Severity{SeverityInfo, SeverityWarning, SeverityError} {
		parsed, err := ParseSeverity(sev.String())
		require.NoError(t, err)
		assert.Equal(t, sev, parsed)
	}
}

func TestParseSeverity_Unknown(t *testing.T) {
	t.Parallel()

	_, err := ParseSeverity("fatal")
	require.ErrorIs(t, err, ErrUnknownSeverity)
}

func TestCategory_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "security", CategorySecurity.String())
	assert.Equal(t, "code-smell", CategoryCodeSmell.String())
	assert.Equal(t, "best-practice", CategoryBestPractice.String())
}

func TestNewSecurityFinding_CarriesTaxonomy(t *testing.T) {
	t.Parallel()

	finding := NewSecurityFinding(
		"sql-injection", "possible SQL injection", SeverityError, span(3),
		"SQL Injection", "CWE-89", "A03:2021 - Injection",
	)

	require.NotNil(t, finding.Security)
	assert.Equal(t, CategorySecurity, finding.Category)
	assert.Equal(t, "CWE-89", finding.Security.CWE)
	assert.Equal(t, "SQL Injection", finding.Security.Vulnerability)
	assert.Equal(t, "A03:2021 - Injection", finding.Security.OWASP)
	require.NoError(t, finding.Validate())
}

func TestNewComplexityFinding_CarriesScores(t *testing.T) {
	t.Parallel()

	finding := NewComplexityFinding(
		"cyclomatic-complexity", "function is too complex", SeverityWarning, span(10), 14, 10,
	)

	require.NotNil(t, finding.Complexity)
	assert.Equal(t, CategoryComplexity, finding.Category)
	assert.InDelta(t, 14.0, finding.Complexity.Score, 0.001)
	assert.InDelta(t, 10.0, finding.Complexity.Threshold, 0.001)
	require.NoError(t, finding.Validate())
}

func TestFinding_Validate_RejectsEmptyRule(t *testing.T) {
	t.Parallel()

	finding := NewFinding("", "message", SeverityInfo, CategoryStyle, span(1))
	require.ErrorIs(t, finding.Validate(), ErrInvalidFinding)
}

func TestFinding_Validate_RejectsEmptyMessage(t *testing.T) {
	t.Parallel()

	finding := NewFinding("some-rule", "", SeverityInfo, CategoryStyle, span(1))
	require.ErrorIs(t, finding.Validate(), ErrInvalidFinding)
}

func TestFinding_Validate_SecurityNeedsDetail(t *testing.T) {
	t.Parallel()

	finding := NewFinding("sql-injection", "message", SeverityError, CategorySecurity, span(1))
	require.ErrorIs(t, finding.Validate(), ErrInvalidFinding)
}

func TestFinding_Validate_SecurityNeedsCompleteTaxonomy(t *testing.T) {
	t.Parallel()

	finding := NewSecurityFinding(
		"sql-injection", "message", SeverityError, span(1),
		"SQL Injection", "", "A03:2021 - Injection",
	)
	require.ErrorIs(t, finding.Validate(), ErrInvalidFinding)
}

func TestFinding_Validate_ComplexityNeedsDetail(t *testing.T) {
	t.Parallel()

	finding := NewFinding("cyclomatic-complexity", "message", SeverityWarning, CategoryComplexity, span(1))
	require.ErrorIs(t, finding.Validate(), ErrInvalidFinding)
}

func TestFinding_MarshalJSON_OmitsEmptyDetails(t *testing.T) {
	t.Parallel()

	finding := NewFinding("console-statement", "console.log left in code", SeverityInfo, CategoryCodeSmell, span(2))

	data, err := json.Marshal(finding)
	require.NoError(t, err)

	assert.Contains(t, string(data), `"rule_id":"console-statement"`)
	assert.Contains(t, string(data), `"severity":"info"`)
	assert.Contains(t, string(data), `"category":"code-smell"`)
	assert.NotContains(t, string(data), `"security"`)
	assert.NotContains(t, string(data), `"complexity"`)
}
