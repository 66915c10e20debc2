// Package security pattern-matches call sites, string concatenations and
// literals against known vulnerability shapes. Every finding carries the
// full vulnerability taxonomy: a human name, a CWE identifier and an OWASP
// Top-10 bucket.
package security

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/yuv008/ASTra/pkg/analyzers/analyze"
	"github.com/yuv008/ASTra/pkg/ast"
)

// Rule identifiers reported by this analyzer.
const (
	RuleSQLInjection      = "sql-injection"
	RuleCommandInjection  = "command-injection"
	RuleDangerousHTML     = "xss-dangerous-html"
	RuleHardcodedSecret   = "hardcoded-secret"
	RuleDangerousFunction = "dangerous-function"
)

// OWASP Top-10 2021 buckets used by the rules.
const (
	owaspInjection    = "A03:2021 - Injection"
	owaspAuthFailures = "A07:2021 - Identification and Authentication Failures"
)

// Default secret detection limits.
const (
	DefaultMinSecretLength     = 8
	DefaultKeywordSecretLength = 15
)

const maskedPrefixLen = 4

// sqlCallKeywords gate the template form of the query-call check;
// sqlConcatKeywords extend them for the concatenation check, where DDL
// statements are just as dangerous.
//
//nolint:gochecknoglobals // Fixed rule tables, never mutated.
var (
	sqlCallKeywords   = []string{"SELECT", "INSERT", "UPDATE", "DELETE", "FROM", "WHERE"}
	sqlConcatKeywords = []string{"SELECT", "INSERT", "UPDATE", "DELETE", "FROM", "WHERE", "DROP", "CREATE"}
)

// commandCallees are process-spawning functions whose dynamically built
// first argument reaches a shell.
//
//nolint:gochecknoglobals // Fixed rule table, never mutated.
var commandCallees = map[string]struct{}{
	"exec":      {},
	"execSync":  {},
	"spawn":     {},
	"spawnSync": {},
	"execFile":  {},
}

// dangerousIdentifiers are names whose bare appearance enables dynamic code
// execution.
//
//nolint:gochecknoglobals // Fixed rule table, never mutated.
var dangerousIdentifiers = map[string]struct{}{
	"eval":        {},
	"Function":    {},
	"setTimeout":  {},
	"setInterval": {},
}

// Secret shapes, tried in order; the first match wins.
//
//nolint:gochecknoglobals // Compiled once, read-only.
var (
	liveKeyPattern     = regexp.MustCompile(`sk_live_[A-Za-z0-9]{20,}`)
	opaqueTokenPattern = regexp.MustCompile(`[A-Za-z0-9]{32,}`)
	privateKeyPattern  = regexp.MustCompile(`-----BEGIN (?:[A-Z]+ )*PRIVATE KEY-----`)
	credentialKeywords = []string{"password", "secret", "token"}
)

// Options tune the secret length gates.
type Options struct {
	// MinSecretLength is the minimum literal length inspected at all.
	MinSecretLength int `json:"min_secret_length" mapstructure:"min_secret_length" yaml:"min_secret_length"`

	// KeywordSecretLength is the minimum length for the credential-keyword
	// shape, which is noisier than the structural ones.
	KeywordSecretLength int `json:"keyword_secret_length" mapstructure:"keyword_secret_length" yaml:"keyword_secret_length"`
}

// DefaultOptions returns the stock limits.
func DefaultOptions() Options {
	return Options{
		MinSecretLength:     DefaultMinSecretLength,
		KeywordSecretLength: DefaultKeywordSecretLength,
	}
}

// Analyzer runs the structural security checks. It is stateless across
// calls and safe for concurrent use.
type Analyzer struct {
	opts Options
}

// New builds the analyzer with default options.
func New() *Analyzer {
	return NewWithOptions(DefaultOptions())
}

// NewWithOptions builds the analyzer with custom limits. Zero or negative
// limits fall back to the defaults.
func NewWithOptions(opts Options) *Analyzer {
	defaults := DefaultOptions()

	if opts.MinSecretLength <= 0 {
		opts.MinSecretLength = defaults.MinSecretLength
	}

	if opts.KeywordSecretLength <= 0 {
		opts.KeywordSecretLength = defaults.KeywordSecretLength
	}

	return &Analyzer{opts: opts}
}

// Name implements analyze.Analyzer.
func (a *Analyzer) Name() string { return "security" }

// Category implements analyze.Analyzer.
func (a *Analyzer) Category() analyze.Category { return analyze.CategorySecurity }

// Analyze walks the tree once and reports every matched vulnerability
// shape in source order.
func (a *Analyzer) Analyze(actx *analyze.Context) ([]analyze.Finding, error) {
	if actx.Tree == nil {
		return nil, analyze.ErrNoTree
	}

	scan := &scanner{opts: a.opts, reported: map[*ast.Node]struct{}{}}
	scan.wire().Walk(actx.Tree)

	return scan.findings, nil
}

// scanner holds the walk state for one file. reported marks concatenation
// nodes already covered by a call-level SQL finding so one injection site
// yields exactly one finding.
type scanner struct {
	opts      Options
	ancestors []*ast.Node
	reported  map[*ast.Node]struct{}
	findings  []analyze.Finding
}

func (s *scanner) wire() *ast.Walker {
	walker := ast.NewWalker()

	walker.RegisterWildcard(ast.Hooks{
		Enter: func(node *ast.Node) bool {
			s.ancestors = append(s.ancestors, node)

			return true
		},
		Exit: func(*ast.Node) {
			s.ancestors = s.ancestors[:len(s.ancestors)-1]
		},
	})

	walker.RegisterHooks(ast.KindCall, ast.Hooks{Enter: s.enterCall})
	walker.RegisterHooks(ast.KindBinary, ast.Hooks{Enter: s.enterBinary})
	walker.RegisterHooks(ast.KindLiteral, ast.Hooks{Enter: s.enterLiteral})
	walker.RegisterHooks(ast.KindAttribute, ast.Hooks{Enter: s.enterAttribute})
	walker.RegisterHooks(ast.KindIdentifier, ast.Hooks{Enter: s.enterIdentifier})

	return walker
}

func (s *scanner) parent() *ast.Node {
	if len(s.ancestors) < 2 {
		return nil
	}

	return s.ancestors[len(s.ancestors)-2]
}

func (s *scanner) add(finding analyze.Finding) {
	s.findings = append(s.findings, finding)
}

// enterCall checks SQL query calls and process-spawning calls.
func (s *scanner) enterCall(node *ast.Node) bool {
	name := calleeName(node)
	args := node.Args()

	if len(args) == 0 {
		return true
	}

	if name == "query" || name == "execute" {
		s.checkQueryCall(node, name, args[0])
	}

	if _, ok := commandCallees[name]; ok {
		s.checkCommandCall(node, name, args[0])
	}

	return true
}

// checkQueryCall flags query/execute calls whose first argument is an
// interpolated SQL string or any string concatenation. A flagged
// concatenation argument is marked so the standalone concatenation check
// stays silent about the same site.
func (s *scanner) checkQueryCall(call *ast.Node, name string, arg *ast.Node) {
	source := ""

	switch {
	case arg.Kind == ast.KindTemplate && containsKeyword(templateText(arg), sqlCallKeywords):
		source = "a template literal"
	case isConcat(arg):
		source = "string concatenation"

		s.reported[arg] = struct{}{}
	default:
		return
	}

	finding := analyze.NewSecurityFinding(
		RuleSQLInjection,
		fmt.Sprintf("%s call builds SQL from %s", name, source),
		analyze.SeverityError, call.Span,
		"SQL Injection", "CWE-89", owaspInjection,
	)
	finding.Suggestions = []string{"use parameterized queries instead of building SQL strings"}
	s.add(finding)
}

// checkCommandCall flags process-spawning calls whose command string is
// assembled at runtime.
func (s *scanner) checkCommandCall(call *ast.Node, name string, arg *ast.Node) {
	if arg.Kind != ast.KindTemplate && !isConcat(arg) {
		return
	}

	finding := analyze.NewSecurityFinding(
		RuleCommandInjection,
		fmt.Sprintf("%s call builds its command string dynamically", name),
		analyze.SeverityError, call.Span,
		"Command Injection", "CWE-78", owaspInjection,
	)
	finding.Suggestions = []string{"pass arguments as a list instead of interpolating a shell string"}
	s.add(finding)
}

// enterBinary runs the standalone SQL concatenation check on the top node
// of each + chain: the chain is flattened, its literal segments joined and
// searched for SQL keywords.
func (s *scanner) enterBinary(node *ast.Node) bool {
	if !isConcat(node) {
		return true
	}

	if parent := s.parent(); parent != nil && isConcat(parent) {
		return true
	}

	if _, done := s.reported[node]; done {
		return true
	}

	var operands []*ast.Node

	flattenConcat(node, &operands)

	literalText := strings.Builder{}
	hasStringLiteral := false

	for _, operand := range operands {
		if text, ok := operand.StringValue(); ok {
			hasStringLiteral = true

			literalText.WriteString(text)
		}
	}

	if !hasStringLiteral || !containsKeyword(literalText.String(), sqlConcatKeywords) {
		return true
	}

	finding := analyze.NewSecurityFinding(
		RuleSQLInjection,
		"string concatenation assembles SQL text",
		analyze.SeverityError, node.Span,
		"SQL Injection", "CWE-89", owaspInjection,
	)
	finding.Suggestions = []string{"use parameterized queries instead of building SQL strings"}
	s.add(finding)

	return true
}

// enterLiteral runs the hardcoded-secret shapes over string literals. At
// most one finding fires per literal, and the value only ever surfaces as
// a masked prefix.
func (s *scanner) enterLiteral(node *ast.Node) bool {
	value, ok := node.StringValue()
	if !ok || len(value) < s.opts.MinSecretLength {
		return true
	}

	label := s.classifySecret(value)
	if label == "" {
		return true
	}

	finding := analyze.NewSecurityFinding(
		RuleHardcodedSecret,
		fmt.Sprintf("hardcoded %s in string literal (%s)", label, mask(value)),
		analyze.SeverityError, node.Span,
		"Hardcoded Credentials", "CWE-798", owaspAuthFailures,
	)
	finding.Snippet = mask(value)
	finding.Suggestions = []string{"load the secret from environment configuration"}
	s.add(finding)

	return true
}

// classifySecret returns a label for the first matching secret shape, or
// an empty string when the literal looks harmless.
func (s *scanner) classifySecret(value string) string {
	switch {
	case liveKeyPattern.MatchString(value):
		return "live API key"
	case opaqueTokenPattern.MatchString(value):
		return "high-entropy token"
	case privateKeyPattern.MatchString(value):
		return "private key material"
	}

	if len(value) >= s.opts.KeywordSecretLength {
		lower := strings.ToLower(value)
		for _, keyword := range credentialKeywords {
			if strings.Contains(lower, keyword) {
				return "credential-like value"
			}
		}
	}

	return ""
}

// enterAttribute flags markup attributes that inject raw HTML.
func (s *scanner) enterAttribute(node *ast.Node) bool {
	if node.Token != "dangerouslySetInnerHTML" {
		return true
	}

	finding := analyze.NewSecurityFinding(
		RuleDangerousHTML,
		"dangerouslySetInnerHTML injects raw HTML into the document",
		analyze.SeverityWarning, node.Span,
		"Cross-Site Scripting", "CWE-79", owaspInjection,
	)
	finding.Suggestions = []string{"sanitize the markup or render it as text"}
	s.add(finding)

	return true
}

// enterIdentifier flags bare references to dynamic-code entry points.
// Member properties of the same name are not identifier nodes and stay
// unflagged.
func (s *scanner) enterIdentifier(node *ast.Node) bool {
	if _, ok := dangerousIdentifiers[node.Token]; !ok {
		return true
	}

	finding := analyze.NewSecurityFinding(
		RuleDangerousFunction,
		fmt.Sprintf("use of %q allows dynamic code execution", node.Token),
		analyze.SeverityWarning, node.Span,
		"Code Injection", "CWE-94", owaspInjection,
	)
	finding.Suggestions = []string{"avoid dynamic code execution"}
	s.add(finding)

	return true
}

// calleeName resolves the function name of a call: the identifier itself
// for bare calls, the property name for member calls.
func calleeName(call *ast.Node) string {
	callee := call.Callee()
	if callee == nil {
		return ""
	}

	switch callee.Kind {
	case ast.KindIdentifier, ast.KindMember:
		return callee.Token
	default:
		return ""
	}
}

func isConcat(node *ast.Node) bool {
	return node != nil && node.Kind == ast.KindBinary && node.Token == "+"
}

// flattenConcat collects the leaf operands of a + chain left to right.
func flattenConcat(node *ast.Node, operands *[]*ast.Node) {
	for _, child := range []*ast.Node{node.Left(), node.Right()} {
		if child == nil {
			continue
		}

		if isConcat(child) {
			flattenConcat(child, operands)
		} else {
			*operands = append(*operands, child)
		}
	}
}

// templateText joins the literal segments of a template, skipping the
// substitutions.
func templateText(template *ast.Node) string {
	text := strings.Builder{}

	for _, child := range template.Children {
		if child.Kind == ast.KindTemplateElement {
			text.WriteString(child.Token)
		}
	}

	return text.String()
}

func containsKeyword(text string, keywords []string) bool {
	upper := strings.ToUpper(text)

	for _, keyword := range keywords {
		if strings.Contains(upper, keyword) {
			return true
		}
	}

	return false
}

// mask reduces a sensitive value to a short recognizable prefix.
func mask(value string) string {
	runes := []rune(value)
	if len(runes) <= maskedPrefixLen {
		return "****"
	}

	return string(runes[:maskedPrefixLen]) + "****"
}
