package complexity //nolint:testpackage // testing internal implementation.

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yuv008/ASTra/pkg/analyzers/analyze"
	"github.com/yuv008/ASTra/pkg/ast"
)

func spanAt(startLine, endLine uint32) ast.Span {
	return ast.Span{
		Start: ast.Position{Line: startLine, Column: 1},
		End:   ast.Position{Line: endLine, Column: 1},
	}
}

func block(children ...*ast.Node) *ast.Node {
	return &ast.Node{Kind: ast.KindBlock, Span: spanAt(1, 1), Children: children}
}

func ident(name string) *ast.Node {
	return &ast.Node{Kind: ast.KindIdentifier, Span: spanAt(1, 1), Token: name}
}

func ifNode(body ...*ast.Node) *ast.Node {
	return &ast.Node{
		Kind:     ast.KindIf,
		Span:     spanAt(1, 1),
		Children: []*ast.Node{ident("cond"), block(body...)},
	}
}

func logical(op string) *ast.Node {
	return &ast.Node{
		Kind:     ast.KindLogical,
		Span:     spanAt(1, 1),
		Token:    op,
		Children: []*ast.Node{ident("a"), ident("b")},
	}
}

func function(name string, startLine, endLine uint32, body ...*ast.Node) *ast.Node {
	return &ast.Node{
		Kind:     ast.KindFunction,
		Span:     spanAt(startLine, endLine),
		Token:    name,
		Children: []*ast.Node{block(body...)},
	}
}

func file(children ...*ast.Node) *ast.Node {
	return &ast.Node{Kind: ast.KindFile, Span: spanAt(1, 1), Children: children}
}

// nestedIfs builds a chain of depth ifs, each the sole statement of the
// previous one's body.
func nestedIfs(depth int) *ast.Node {
	current := ifNode()
	for i := 1; i < depth; i++ {
		current = ifNode(current)
	}

	return current
}

func repeatIfs(count int) []*ast.Node {
	nodes := make([]*ast.Node, count)
	for i := range nodes {
		nodes[i] = ifNode()
	}

	return nodes
}

func analyzeTree(t *testing.T, tree *ast.Node) []analyze.Finding {
	t.Helper()

	findings, err := New().Analyze(analyze.NewContext("test.js", nil, tree))
	require.NoError(t, err)

	return findings
}

func findByRule(findings []analyze.Finding, rule string) []analyze.Finding {
	var matched []analyze.Finding

	for _, finding := range findings {
		if finding.Rule == rule {
			matched = append(matched, finding)
		}
	}

	return matched
}

func TestAnalyze_NilTree(t *testing.T) {
	t.Parallel()

	_, err := New().Analyze(analyze.NewContext("test.js", nil, nil))
	require.ErrorIs(t, err, analyze.ErrNoTree)
}

func TestAnalyze_SimpleFunctionIsClean(t *testing.T) {
	t.Parallel()

	tree := file(function("plain", 1, 3, ident("a")))
	assert.Empty(t, analyzeTree(t, tree))
}

func TestAnalyze_CyclomaticAtThresholdPasses(t *testing.T) {
	t.Parallel()

	// Base 1 plus nine branches lands exactly on the threshold of 10.
	tree := file(function("borderline", 1, 3, repeatIfs(9)...))
	assert.Empty(t, findByRule(analyzeTree(t, tree), RuleCyclomatic))
}

func TestAnalyze_CyclomaticAboveThresholdFires(t *testing.T) {
	t.Parallel()

	tree := file(function("branchy", 1, 3, repeatIfs(10)...))
	findings := findByRule(analyzeTree(t, tree), RuleCyclomatic)

	require.Len(t, findings, 1)
	assert.Equal(t, analyze.SeverityWarning, findings[0].Severity)
	assert.Equal(t, analyze.CategoryComplexity, findings[0].Category)
	require.NotNil(t, findings[0].Complexity)
	assert.InDelta(t, 11.0, findings[0].Complexity.Score, 0.001)
	assert.InDelta(t, 10.0, findings[0].Complexity.Threshold, 0.001)
	assert.Contains(t, findings[0].Message, `function "branchy"`)
	assert.Contains(t, findings[0].Message, "10 conditionals, 0 loops, 0 logical operators")
}

func TestAnalyze_CyclomaticCountsShortCircuitOperators(t *testing.T) {
	t.Parallel()

	operators := make([]*ast.Node, 0, 10)
	for range 5 {
		operators = append(operators, logical("&&"), logical("||"))
	}

	tree := file(function("guards", 1, 3, operators...))
	findings := findByRule(analyzeTree(t, tree), RuleCyclomatic)

	require.Len(t, findings, 1)
	assert.InDelta(t, 11.0, findings[0].Complexity.Score, 0.001)
	assert.Contains(t, findings[0].Message, "10 logical operators")
}

func TestAnalyze_NullishCoalescingNotCounted(t *testing.T) {
	t.Parallel()

	operators := make([]*ast.Node, 0, 10)
	for range 9 {
		operators = append(operators, logical("&&"))
	}

	operators = append(operators, logical("??"))

	tree := file(function("guards", 1, 3, operators...))
	assert.Empty(t, findByRule(analyzeTree(t, tree), RuleCyclomatic))
}

func TestAnalyze_CognitiveWeighsNesting(t *testing.T) {
	t.Parallel()

	// Six nested ifs cost 1+2+3+4+5+6 = 21 cognitive points.
	tree := file(function("deep", 1, 3, nestedIfs(6)))
	findings := findByRule(analyzeTree(t, tree), RuleCognitive)

	require.Len(t, findings, 1)
	assert.InDelta(t, 21.0, findings[0].Complexity.Score, 0.001)
	assert.Equal(t, analyze.SeverityWarning, findings[0].Severity)
}

func TestAnalyze_CognitiveFlatSequenceStaysCheap(t *testing.T) {
	t.Parallel()

	// Fifteen sibling ifs cost a flat 15, exactly on the threshold.
	tree := file(function("flat", 1, 3, repeatIfs(15)...))
	assert.Empty(t, findByRule(analyzeTree(t, tree), RuleCognitive))
}

func TestAnalyze_NestingDepthFires(t *testing.T) {
	t.Parallel()

	tree := file(function("pyramid", 1, 3, nestedIfs(5)))
	findings := analyzeTree(t, tree)

	// Five nested ifs cross only the nesting threshold: cyclomatic is 6 and
	// cognitive exactly 15.
	require.Len(t, findings, 1)
	assert.Equal(t, RuleNesting, findings[0].Rule)
	assert.Equal(t, analyze.SeverityWarning, findings[0].Severity)
	assert.InDelta(t, 5.0, findings[0].Complexity.Score, 0.001)
	assert.InDelta(t, 4.0, findings[0].Complexity.Threshold, 0.001)
}

func TestAnalyze_NestingAtThresholdPasses(t *testing.T) {
	t.Parallel()

	tree := file(function("pyramid", 1, 3, nestedIfs(4)))
	assert.Empty(t, findByRule(analyzeTree(t, tree), RuleNesting))
}

func TestAnalyze_LongFunctionReported(t *testing.T) {
	t.Parallel()

	tree := file(function("saga", 1, 51, ident("a")))
	findings := findByRule(analyzeTree(t, tree), RuleLength)

	require.Len(t, findings, 1)
	assert.Equal(t, analyze.SeverityInfo, findings[0].Severity)
	assert.InDelta(t, 51.0, findings[0].Complexity.Score, 0.001)
}

func TestAnalyze_FunctionAtLengthLimitPasses(t *testing.T) {
	t.Parallel()

	tree := file(function("fits", 1, 50, ident("a")))
	assert.Empty(t, findByRule(analyzeTree(t, tree), RuleLength))
}

func TestAnalyze_NestedFunctionsMeasuredIndependently(t *testing.T) {
	t.Parallel()

	inner := &ast.Node{
		Kind:     ast.KindArrowFunction,
		Span:     spanAt(5, 8),
		Children: []*ast.Node{block(repeatIfs(10)...)},
	}
	holder := &ast.Node{
		Kind:     ast.KindVariable,
		Span:     spanAt(5, 8),
		Token:    "handler",
		Children: []*ast.Node{inner},
	}
	tree := file(function("outer", 1, 20, holder))

	findings := findByRule(analyzeTree(t, tree), RuleCyclomatic)

	// Only the inner arrow crosses the threshold; the outer function holds
	// no branches of its own.
	require.Len(t, findings, 1)
	assert.Contains(t, findings[0].Message, `function "handler"`)
	assert.Equal(t, uint32(5), findings[0].Span.Start.Line)
}

func TestAnalyze_AnonymousFunctionLabel(t *testing.T) {
	t.Parallel()

	arrow := &ast.Node{
		Kind:     ast.KindArrowFunction,
		Span:     spanAt(2, 4),
		Children: []*ast.Node{block(repeatIfs(10)...)},
	}
	tree := file(&ast.Node{Kind: ast.KindExpressionStmt, Span: spanAt(2, 4), Children: []*ast.Node{arrow}})

	findings := findByRule(analyzeTree(t, tree), RuleCyclomatic)

	require.Len(t, findings, 1)
	assert.Contains(t, findings[0].Message, "function <anonymous>")
}

func TestAnalyze_DefaultCaseNotCyclomatic(t *testing.T) {
	t.Parallel()

	cases := make([]*ast.Node, 0, 11)
	for range 10 {
		cases = append(cases, &ast.Node{Kind: ast.KindSwitchCase, Span: spanAt(1, 1)})
	}

	defaultCase := &ast.Node{Kind: ast.KindSwitchCase, Span: spanAt(1, 1), Flags: ast.FlagDefaultCase}
	cases = append(cases, defaultCase)

	switchNode := &ast.Node{
		Kind:     ast.KindSwitch,
		Span:     spanAt(1, 1),
		Children: append([]*ast.Node{ident("subject")}, cases...),
	}
	tree := file(function("dispatch", 1, 3, switchNode))

	findings := findByRule(analyzeTree(t, tree), RuleCyclomatic)

	// Ten counted cases on top of the base: 11, one over the threshold. The
	// default case must not have pushed it to 12.
	require.Len(t, findings, 1)
	assert.InDelta(t, 11.0, findings[0].Complexity.Score, 0.001)
}

func TestAnalyze_TopLevelBranchesIgnored(t *testing.T) {
	t.Parallel()

	tree := file(repeatIfs(20)...)
	assert.Empty(t, analyzeTree(t, tree))
}

func TestAnalyze_FindingsSortedBySourcePosition(t *testing.T) {
	t.Parallel()

	inner := &ast.Node{
		Kind:     ast.KindFunctionExpr,
		Span:     spanAt(5, 7),
		Token:    "inner",
		Children: []*ast.Node{block(repeatIfs(10)...)},
	}
	tree := file(function("outer", 1, 60, &ast.Node{
		Kind:     ast.KindExpressionStmt,
		Span:     spanAt(5, 7),
		Children: []*ast.Node{inner},
	}))

	findings := analyzeTree(t, tree)

	// The outer function's length finding precedes the inner function's
	// cyclomatic finding even though the inner function finished first.
	require.Len(t, findings, 2)
	assert.Equal(t, RuleLength, findings[0].Rule)
	assert.Equal(t, uint32(1), findings[0].Span.Start.Line)
	assert.Equal(t, RuleCyclomatic, findings[1].Rule)
	assert.Equal(t, uint32(5), findings[1].Span.Start.Line)
}

func TestNewWithThresholds_ZeroFieldsFallBack(t *testing.T) {
	t.Parallel()

	analyzer := NewWithThresholds(Thresholds{Cyclomatic: 2})

	assert.Equal(t, 2, analyzer.thresholds.Cyclomatic)
	assert.Equal(t, DefaultCognitiveThreshold, analyzer.thresholds.Cognitive)
	assert.Equal(t, DefaultNestingThreshold, analyzer.thresholds.Nesting)
	assert.Equal(t, DefaultLengthThreshold, analyzer.thresholds.Length)
}

func TestAnalyze_CustomThresholds(t *testing.T) {
	t.Parallel()

	analyzer := NewWithThresholds(Thresholds{Cyclomatic: 2, Cognitive: 100, Nesting: 100, Length: 100})
	tree := file(function("small", 1, 3, repeatIfs(2)...))

	findings, err := analyzer.Analyze(analyze.NewContext("test.js", nil, tree))
	require.NoError(t, err)

	require.Len(t, findings, 1)
	assert.Equal(t, RuleCyclomatic, findings[0].Rule)
	assert.InDelta(t, 3.0, findings[0].Complexity.Score, 0.001)
}
