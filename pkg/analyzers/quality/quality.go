// Package quality flags maintainability smells: unused bindings, magic
// numbers, long parameter lists, empty error handlers, leftover debug
// statements and unresolved marker comments. Everything is collected in a
// single traversal.
package quality

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/yuv008/ASTra/pkg/analyzers/analyze"
	"github.com/yuv008/ASTra/pkg/ast"
)

// Rule identifiers reported by this analyzer.
const (
	RuleUnusedVariable    = "unused-variable"
	RuleMagicNumber       = "magic-number"
	RuleLongParameterList = "long-parameter-list"
	RuleEmptyCatch        = "empty-catch"
	RuleConsoleStatement  = "console-statement"
	RuleDebuggerStatement = "debugger-statement"
	RuleMarkerComment     = "marker-comment"
)

// DefaultMaxParameters is the largest parameter count that passes.
const DefaultMaxParameters = 4

// consoleMethods are the console members reported as leftover debugging.
//
//nolint:gochecknoglobals // Fixed rule table, never mutated.
var consoleMethods = map[string]struct{}{
	"log":   {},
	"debug": {},
	"info":  {},
	"warn":  {},
	"error": {},
}

// commentMarkers are matched case-insensitively, in this priority order.
//
//nolint:gochecknoglobals // Fixed rule table, never mutated.
var commentMarkers = []string{"TODO", "FIXME", "HACK", "XXX"}

// DefaultMagicNumberIgnore returns the literal values that never count as
// magic: identity elements, common bases and loop steps.
func DefaultMagicNumberIgnore() []float64 {
	return []float64{0, 1, -1, 2, 10, 100}
}

// Options tune the quality rules.
type Options struct {
	// MaxParameters is the largest parameter count that passes.
	MaxParameters int `json:"max_parameters" mapstructure:"max_parameters" yaml:"max_parameters"`

	// MagicNumberIgnore lists numeric values exempt from the magic-number
	// rule.
	MagicNumberIgnore []float64 `json:"magic_number_ignore" mapstructure:"magic_number_ignore" yaml:"magic_number_ignore"`
}

// DefaultOptions returns the stock limits.
func DefaultOptions() Options {
	return Options{
		MaxParameters:     DefaultMaxParameters,
		MagicNumberIgnore: DefaultMagicNumberIgnore(),
	}
}

// Analyzer runs the code quality checks. It is stateless across calls and
// safe for concurrent use.
type Analyzer struct {
	maxParameters int
	ignoredValues map[float64]struct{}
}

// New builds the analyzer with default options.
func New() *Analyzer {
	return NewWithOptions(DefaultOptions())
}

// NewWithOptions builds the analyzer with custom limits. A non-positive
// parameter limit falls back to the default; a nil ignore list falls back
// to the default set, while an explicitly empty one disables the
// exemptions.
func NewWithOptions(opts Options) *Analyzer {
	if opts.MaxParameters <= 0 {
		opts.MaxParameters = DefaultMaxParameters
	}

	if opts.MagicNumberIgnore == nil {
		opts.MagicNumberIgnore = DefaultMagicNumberIgnore()
	}

	ignored := make(map[float64]struct{}, len(opts.MagicNumberIgnore))
	for _, value := range opts.MagicNumberIgnore {
		ignored[value] = struct{}{}
	}

	return &Analyzer{maxParameters: opts.MaxParameters, ignoredValues: ignored}
}

// Name implements analyze.Analyzer.
func (a *Analyzer) Name() string { return "quality" }

// Category implements analyze.Analyzer.
func (a *Analyzer) Category() analyze.Category { return analyze.CategoryCodeSmell }

// Analyze walks the tree once, collecting declared and used identifier
// sets alongside the per-node checks, then reports findings in source
// order.
func (a *Analyzer) Analyze(actx *analyze.Context) ([]analyze.Finding, error) {
	if actx.Tree == nil {
		return nil, analyze.ErrNoTree
	}

	collect := &collector{
		maxParameters: a.maxParameters,
		ignoredValues: a.ignoredValues,
		declared:      map[string]int{},
		used:          map[string]struct{}{},
	}
	collect.wire().Walk(actx.Tree)
	collect.reportUnused()

	sort.SliceStable(collect.findings, func(i, j int) bool {
		left, right := collect.findings[i].Span.Start, collect.findings[j].Span.Start
		if left.Line != right.Line {
			return left.Line < right.Line
		}

		return left.Column < right.Column
	})

	return collect.findings, nil
}

// declaration is one named binding site. Only the first site per name is
// kept.
type declaration struct {
	name string
	span ast.Span
}

// collector holds the walk state for one file.
type collector struct {
	maxParameters int
	ignoredValues map[float64]struct{}

	ancestors    []*ast.Node
	declarations []declaration
	declared     map[string]int
	used         map[string]struct{}
	findings     []analyze.Finding
}

func (c *collector) wire() *ast.Walker {
	walker := ast.NewWalker()

	walker.RegisterWildcard(ast.Hooks{
		Enter: func(node *ast.Node) bool {
			c.ancestors = append(c.ancestors, node)

			return true
		},
		Exit: func(*ast.Node) {
			c.ancestors = c.ancestors[:len(c.ancestors)-1]
		},
	})

	for _, kind := range []ast.Kind{ast.KindVariable, ast.KindParameter, ast.KindFunction} {
		walker.RegisterHooks(kind, ast.Hooks{Enter: c.enterDeclaration})
	}

	for _, kind := range []ast.Kind{
		ast.KindFunction, ast.KindFunctionExpr, ast.KindArrowFunction, ast.KindMethod,
	} {
		walker.RegisterHooks(kind, ast.Hooks{Enter: c.enterFunction})
	}

	walker.RegisterHooks(ast.KindIdentifier, ast.Hooks{Enter: c.enterIdentifier})
	walker.RegisterHooks(ast.KindLiteral, ast.Hooks{Enter: c.enterLiteral})
	walker.RegisterHooks(ast.KindCatch, ast.Hooks{Enter: c.enterCatch})
	walker.RegisterHooks(ast.KindCall, ast.Hooks{Enter: c.enterCall})
	walker.RegisterHooks(ast.KindDebugger, ast.Hooks{Enter: c.enterDebugger})
	walker.RegisterHooks(ast.KindComment, ast.Hooks{Enter: c.enterComment})

	return walker
}

func (c *collector) parent() *ast.Node {
	if len(c.ancestors) < 2 {
		return nil
	}

	return c.ancestors[len(c.ancestors)-2]
}

func (c *collector) add(finding analyze.Finding) {
	c.findings = append(c.findings, finding)
}

// enterDeclaration records a binding site. Catch parameters are exempt:
// the binding is imposed by the syntax, not chosen by the author.
func (c *collector) enterDeclaration(node *ast.Node) bool {
	if node.Token == "" {
		return true
	}

	if node.Kind == ast.KindParameter {
		if parent := c.parent(); parent != nil && parent.Kind == ast.KindCatch {
			return true
		}
	}

	if _, seen := c.declared[node.Token]; !seen {
		c.declared[node.Token] = len(c.declarations)
		c.declarations = append(c.declarations, declaration{name: node.Token, span: node.Span})
	}

	return true
}

func (c *collector) enterIdentifier(node *ast.Node) bool {
	if node.Token != "" {
		c.used[node.Token] = struct{}{}
	}

	return true
}

// reportUnused emits one finding per declared name that never appears as a
// reference, in declaration order. Names prefixed with an underscore are
// deliberately parked and stay silent.
func (c *collector) reportUnused() {
	for _, decl := range c.declarations {
		if strings.HasPrefix(decl.name, "_") {
			continue
		}

		if _, ok := c.used[decl.name]; ok {
			continue
		}

		finding := analyze.NewFinding(
			RuleUnusedVariable,
			fmt.Sprintf("%q is declared but never used", decl.name),
			analyze.SeverityWarning, analyze.CategoryCodeSmell, decl.span,
		)
		finding.Suggestions = []string{"remove the binding or prefix it with an underscore"}
		c.add(finding)
	}
}

// enterLiteral applies the magic-number rule to numeric literals that are
// not subscripts and not in the ignore set.
func (c *collector) enterLiteral(node *ast.Node) bool {
	value, ok := node.NumberValue()
	if !ok {
		return true
	}

	if _, ignored := c.ignoredValues[value]; ignored {
		return true
	}

	if c.isSubscript(node) {
		return true
	}

	finding := analyze.NewFinding(
		RuleMagicNumber,
		fmt.Sprintf("magic number %s", strconv.FormatFloat(value, 'g', -1, 64)),
		analyze.SeverityInfo, analyze.CategoryCodeSmell, node.Span,
	)
	finding.Suggestions = []string{"extract the value into a named constant"}
	c.add(finding)

	return true
}

// isSubscript reports whether the literal indexes a computed member
// access, e.g. items[3].
func (c *collector) isSubscript(node *ast.Node) bool {
	parent := c.parent()
	if parent == nil || parent.Kind != ast.KindMember || !parent.Has(ast.FlagComputed) {
		return false
	}

	return len(parent.Children) > 1 && parent.Children[1] == node
}

// enterFunction applies the parameter-count rule. Destructured patterns
// count one per bound name.
func (c *collector) enterFunction(node *ast.Node) bool {
	params := node.Params()
	if len(params) <= c.maxParameters {
		return true
	}

	label := "function"
	if name := node.FunctionName(); name != "" {
		label = fmt.Sprintf("function %q", name)
	}

	finding := analyze.NewFinding(
		RuleLongParameterList,
		fmt.Sprintf("%s takes %d parameters (threshold %d)", label, len(params), c.maxParameters),
		analyze.SeverityInfo, analyze.CategoryCodeSmell, node.Span,
	)
	finding.Suggestions = []string{"group related parameters into an options object"}
	c.add(finding)

	return true
}

// enterCatch reports catch blocks holding no statements. Comments are not
// statements, so a comment-only catch still counts as empty.
func (c *collector) enterCatch(node *ast.Node) bool {
	body := node.CatchBody()
	if body == nil {
		return true
	}

	for _, child := range body.Children {
		if child.Kind != ast.KindComment {
			return true
		}
	}

	finding := analyze.NewFinding(
		RuleEmptyCatch,
		"empty catch block swallows errors",
		analyze.SeverityWarning, analyze.CategoryBug, node.Span,
	)
	finding.Suggestions = []string{"handle the error or rethrow it"}
	c.add(finding)

	return true
}

// enterCall flags direct console.<method> calls.
func (c *collector) enterCall(node *ast.Node) bool {
	callee := node.Callee()
	if callee == nil || callee.Kind != ast.KindMember {
		return true
	}

	object := callee.MemberObject()
	if object == nil || object.Kind != ast.KindIdentifier || object.Token != "console" {
		return true
	}

	if _, ok := consoleMethods[callee.Token]; !ok {
		return true
	}

	finding := analyze.NewFinding(
		RuleConsoleStatement,
		fmt.Sprintf("console.%s left in code", callee.Token),
		analyze.SeverityInfo, analyze.CategoryBestPractice, node.Span,
	)
	finding.Suggestions = []string{"use a structured logger or remove the statement"}
	c.add(finding)

	return true
}

func (c *collector) enterDebugger(node *ast.Node) bool {
	finding := analyze.NewFinding(
		RuleDebuggerStatement,
		"debugger statement left in code",
		analyze.SeverityWarning, analyze.CategoryBug, node.Span,
	)
	finding.Suggestions = []string{"remove the breakpoint before shipping"}
	c.add(finding)

	return true
}

// enterComment reports unresolved work markers, one finding per comment.
func (c *collector) enterComment(node *ast.Node) bool {
	upper := strings.ToUpper(node.Token)

	for _, marker := range commentMarkers {
		if strings.Contains(upper, marker) {
			finding := analyze.NewFinding(
				RuleMarkerComment,
				fmt.Sprintf("unresolved %s marker in comment", marker),
				analyze.SeverityInfo, analyze.CategoryStyle, node.Span,
			)
			finding.Suggestions = []string{"resolve the marker or file an issue for it"}
			c.add(finding)

			break
		}
	}

	return true
}
