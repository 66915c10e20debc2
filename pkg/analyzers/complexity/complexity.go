// Package complexity measures how hard each function is to follow and
// reports the ones that cross the configured thresholds. Four dimensions
// are scored per function: cyclomatic complexity, cognitive complexity,
// control-flow nesting depth and raw length in lines.
package complexity

import (
	"fmt"
	"sort"

	"github.com/yuv008/ASTra/pkg/analyzers/analyze"
	"github.com/yuv008/ASTra/pkg/ast"
)

// Rule identifiers reported by this analyzer.
const (
	RuleCyclomatic = "cyclomatic-complexity"
	RuleCognitive  = "cognitive-complexity"
	RuleNesting    = "excessive-nesting"
	RuleLength     = "function-length"
)

// Default thresholds. A finding fires only when a measure exceeds its
// threshold, so a function sitting exactly on the limit passes.
const (
	DefaultCyclomaticThreshold = 10
	DefaultCognitiveThreshold  = 15
	DefaultNestingThreshold    = 4
	DefaultLengthThreshold     = 50
)

// Thresholds bundles the per-dimension limits.
type Thresholds struct {
	Cyclomatic int `json:"cyclomatic" mapstructure:"cyclomatic" yaml:"cyclomatic"`
	Cognitive  int `json:"cognitive"  mapstructure:"cognitive"  yaml:"cognitive"`
	Nesting    int `json:"nesting"    mapstructure:"nesting"    yaml:"nesting"`
	Length     int `json:"length"     mapstructure:"length"     yaml:"length"`
}

// DefaultThresholds returns the stock limits.
func DefaultThresholds() Thresholds {
	return Thresholds{
		Cyclomatic: DefaultCyclomaticThreshold,
		Cognitive:  DefaultCognitiveThreshold,
		Nesting:    DefaultNestingThreshold,
		Length:     DefaultLengthThreshold,
	}
}

// Analyzer scores every function-like unit in a file independently. It is
// stateless across calls and safe for concurrent use.
type Analyzer struct {
	thresholds Thresholds
}

// New builds the analyzer with default thresholds.
func New() *Analyzer {
	return NewWithThresholds(DefaultThresholds())
}

// NewWithThresholds builds the analyzer with custom limits. Zero or
// negative limits fall back to the defaults.
func NewWithThresholds(thresholds Thresholds) *Analyzer {
	defaults := DefaultThresholds()

	if thresholds.Cyclomatic <= 0 {
		thresholds.Cyclomatic = defaults.Cyclomatic
	}

	if thresholds.Cognitive <= 0 {
		thresholds.Cognitive = defaults.Cognitive
	}

	if thresholds.Nesting <= 0 {
		thresholds.Nesting = defaults.Nesting
	}

	if thresholds.Length <= 0 {
		thresholds.Length = defaults.Length
	}

	return &Analyzer{thresholds: thresholds}
}

// Name implements analyze.Analyzer.
func (a *Analyzer) Name() string { return "complexity" }

// Category implements analyze.Analyzer.
func (a *Analyzer) Category() analyze.Category { return analyze.CategoryComplexity }

// Analyze measures every function in the tree and reports threshold
// violations in source order.
func (a *Analyzer) Analyze(actx *analyze.Context) ([]analyze.Finding, error) {
	if actx.Tree == nil {
		return nil, analyze.ErrNoTree
	}

	meter := &measurer{thresholds: a.thresholds}
	meter.wire().Walk(actx.Tree)

	sort.SliceStable(meter.findings, func(i, j int) bool {
		left, right := meter.findings[i].Span.Start, meter.findings[j].Span.Start
		if left.Line != right.Line {
			return left.Line < right.Line
		}

		return left.Column < right.Column
	})

	return meter.findings, nil
}

// frame accumulates the scores of one function while the walk is inside
// it. Nested functions push their own frame, so structures always count
// against the nearest enclosing function only.
type frame struct {
	node *ast.Node
	name string

	cyclomatic int
	cognitive  int

	// Structure tallies behind the scores, surfaced in finding messages.
	// cyclomatic is always 1 + conditionals + loops + logicals.
	conditionals int
	loops        int
	logicals     int

	// cogNesting is the current cognitive nesting level; depth tracks the
	// control-structure nesting with its high-water mark.
	cogNesting int
	depth      int
	maxDepth   int
}

// measurer walks one tree, maintaining an ancestor trail for function
// naming and a frame stack for per-function attribution.
type measurer struct {
	thresholds Thresholds
	ancestors  []*ast.Node
	stack      []*frame
	findings   []analyze.Finding
}

// wire registers the measurement hooks on a fresh walker.
func (m *measurer) wire() *ast.Walker {
	walker := ast.NewWalker()

	walker.RegisterWildcard(ast.Hooks{
		Enter: func(node *ast.Node) bool {
			m.ancestors = append(m.ancestors, node)

			return true
		},
		Exit: func(*ast.Node) {
			m.ancestors = m.ancestors[:len(m.ancestors)-1]
		},
	})

	for _, kind := range []ast.Kind{
		ast.KindFunction, ast.KindFunctionExpr, ast.KindArrowFunction, ast.KindMethod,
	} {
		walker.RegisterHooks(kind, ast.Hooks{Enter: m.enterFunction, Exit: m.exitFunction})
	}

	branching := []ast.Kind{
		ast.KindIf, ast.KindFor, ast.KindForIn, ast.KindForOf,
		ast.KindWhile, ast.KindDoWhile, ast.KindCatch,
	}
	for _, kind := range branching {
		walker.RegisterHooks(kind, ast.Hooks{Enter: m.enterBranch, Exit: m.exitBranch})
	}

	walker.RegisterHooks(ast.KindConditional, ast.Hooks{Enter: m.enterTernary, Exit: m.exitTernary})
	walker.RegisterHooks(ast.KindSwitchCase, ast.Hooks{Enter: m.enterCase, Exit: m.exitCase})
	walker.RegisterHooks(ast.KindLogical, ast.Hooks{Enter: m.enterLogical})

	for _, kind := range []ast.Kind{ast.KindSwitch, ast.KindTry} {
		walker.RegisterHooks(kind, ast.Hooks{Enter: m.enterContainer, Exit: m.exitContainer})
	}

	return walker
}

func (m *measurer) top() *frame {
	if len(m.stack) == 0 {
		return nil
	}

	return m.stack[len(m.stack)-1]
}

// parent returns the node enclosing the one currently being entered.
func (m *measurer) parent() *ast.Node {
	if len(m.ancestors) < 2 {
		return nil
	}

	return m.ancestors[len(m.ancestors)-2]
}

func (m *measurer) enterFunction(node *ast.Node) bool {
	m.stack = append(m.stack, &frame{
		node:       node,
		name:       resolveName(node, m.parent()),
		cyclomatic: 1,
	})

	return true
}

func (m *measurer) exitFunction(*ast.Node) {
	done := m.top()
	m.stack = m.stack[:len(m.stack)-1]
	m.report(done)
}

// enterBranch handles if statements, loops and catch clauses: one
// cyclomatic decision point, a nesting-weighted cognitive increment and,
// except for catch (its try already deepened), a deeper nesting level for
// everything inside.
func (m *measurer) enterBranch(node *ast.Node) bool {
	if current := m.top(); current != nil {
		current.cyclomatic++
		current.cognitive += 1 + current.cogNesting
		current.cogNesting++

		if node.Kind != ast.KindCatch {
			current.descend()
		}

		if node.Kind.IsLoop() {
			current.loops++
		} else {
			current.conditionals++
		}
	}

	return true
}

func (m *measurer) exitBranch(node *ast.Node) {
	if current := m.top(); current != nil {
		current.cogNesting--

		if node.Kind != ast.KindCatch {
			current.depth--
		}
	}
}

// enterTernary scores like a branch but does not deepen the structural
// nesting depth; ternaries are expressions, not statement nesting.
func (m *measurer) enterTernary(*ast.Node) bool {
	if current := m.top(); current != nil {
		current.cyclomatic++
		current.cognitive += 1 + current.cogNesting
		current.cogNesting++
		current.conditionals++
	}

	return true
}

func (m *measurer) exitTernary(*ast.Node) {
	if current := m.top(); current != nil {
		current.cogNesting--
	}
}

// enterCase counts switch cases. Default cases carry no cyclomatic
// decision but still burden the reader, so they count cognitively.
func (m *measurer) enterCase(node *ast.Node) bool {
	if current := m.top(); current != nil {
		if !node.Has(ast.FlagDefaultCase) {
			current.cyclomatic++
			current.conditionals++
		}

		current.cognitive += 1 + current.cogNesting
		current.cogNesting++
	}

	return true
}

func (m *measurer) exitCase(*ast.Node) {
	if current := m.top(); current != nil {
		current.cogNesting--
	}
}

// enterLogical counts short-circuit operators. Nullish coalescing is not a
// branch for either metric.
func (m *measurer) enterLogical(node *ast.Node) bool {
	if current := m.top(); current != nil && (node.Token == "&&" || node.Token == "||") {
		current.cyclomatic++
		current.cognitive++
		current.logicals++
	}

	return true
}

// enterContainer deepens structural nesting for switch and try blocks
// without scoring them; their cases and catch clauses carry the scores.
func (m *measurer) enterContainer(*ast.Node) bool {
	if current := m.top(); current != nil {
		current.descend()
	}

	return true
}

func (m *measurer) exitContainer(*ast.Node) {
	if current := m.top(); current != nil {
		current.depth--
	}
}

func (f *frame) descend() {
	f.depth++
	if f.depth > f.maxDepth {
		f.maxDepth = f.depth
	}
}

// report emits one finding per crossed threshold for a finished function.
func (m *measurer) report(done *frame) {
	span := done.node.Span
	label := done.label()

	if done.cyclomatic > m.thresholds.Cyclomatic {
		finding := analyze.NewComplexityFinding(
			RuleCyclomatic,
			fmt.Sprintf("%s has cyclomatic complexity %d (threshold %d): %s",
				label, done.cyclomatic, m.thresholds.Cyclomatic, done.structures()),
			analyze.SeverityWarning, span,
			float64(done.cyclomatic), float64(m.thresholds.Cyclomatic),
		)
		finding.Suggestions = []string{"break the function into smaller units"}
		m.findings = append(m.findings, finding)
	}

	if done.cognitive > m.thresholds.Cognitive {
		finding := analyze.NewComplexityFinding(
			RuleCognitive,
			fmt.Sprintf("%s has cognitive complexity %d (threshold %d): %s",
				label, done.cognitive, m.thresholds.Cognitive, done.structures()),
			analyze.SeverityWarning, span,
			float64(done.cognitive), float64(m.thresholds.Cognitive),
		)
		finding.Suggestions = []string{"reduce nesting and split compound conditions"}
		m.findings = append(m.findings, finding)
	}

	if done.maxDepth > m.thresholds.Nesting {
		finding := analyze.NewComplexityFinding(
			RuleNesting,
			fmt.Sprintf("%s nests control flow %d levels deep (threshold %d)",
				label, done.maxDepth, m.thresholds.Nesting),
			analyze.SeverityWarning, span,
			float64(done.maxDepth), float64(m.thresholds.Nesting),
		)
		finding.Suggestions = []string{"use early returns to flatten nested branches"}
		m.findings = append(m.findings, finding)
	}

	if lines := done.node.Span.Lines(); lines > m.thresholds.Length {
		finding := analyze.NewComplexityFinding(
			RuleLength,
			fmt.Sprintf("%s spans %d lines (threshold %d)",
				label, lines, m.thresholds.Length),
			analyze.SeverityInfo, span,
			float64(lines), float64(m.thresholds.Length),
		)
		finding.Suggestions = []string{"extract cohesive blocks into named helpers"}
		m.findings = append(m.findings, finding)
	}
}

func (f *frame) label() string {
	if f.name == "" {
		return "function <anonymous>"
	}

	return fmt.Sprintf("function %q", f.name)
}

// structures breaks the score down into the counted constructs.
func (f *frame) structures() string {
	return fmt.Sprintf("%d conditionals, %d loops, %d logical operators",
		f.conditionals, f.loops, f.logicals)
}

// resolveName names a function from its own declaration or, for anonymous
// expressions, from the variable, property or assignment target holding it.
func resolveName(node, parent *ast.Node) string {
	if name := node.FunctionName(); name != "" {
		return name
	}

	if parent == nil {
		return ""
	}

	switch parent.Kind {
	case ast.KindVariable, ast.KindProperty:
		return parent.Token
	case ast.KindAssign:
		if target := parent.Left(); target != nil && target.Kind == ast.KindIdentifier {
			return target.Token
		}
	}

	return ""
}
