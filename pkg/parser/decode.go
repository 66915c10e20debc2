package parser

import (
	"sort"
	"strconv"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/yuv008/ASTra/pkg/ast"
)

// decoder lowers a tree-sitter parse tree into the analyzer syntax tree.
// The lowering is lossy on purpose: anonymous punctuation vanishes, wrapper
// nodes without analytical value dissolve, declaration lists flatten into
// one node per bound name, and anything unmapped becomes KindUnknown with
// its children preserved so traversal still reaches everything underneath.
type decoder struct {
	source     []byte
	lineStarts []uint32
}

func newDecoder(source []byte) *decoder {
	starts := []uint32{0}

	for i, b := range source {
		if b == '\n' {
			starts = append(starts, uint32(i)+1) //nolint:gosec // Offsets bounded by file size checks.
		}
	}

	return &decoder{source: source, lineStarts: starts}
}

func (d *decoder) text(ts *sitter.Node) string {
	return ts.Content(d.source)
}

// position converts a byte offset into a 1-based line/column pair.
func (d *decoder) position(offset uint32) ast.Position {
	line := sort.Search(len(d.lineStarts), func(i int) bool {
		return d.lineStarts[i] > offset
	})

	return ast.Position{
		Line:   uint32(line), //nolint:gosec // Line count bounded by file size checks.
		Column: offset - d.lineStarts[line-1] + 1,
	}
}

func nodeSpan(ts *sitter.Node) ast.Span {
	return ast.Span{
		Start: ast.Position{Line: ts.StartPoint().Row + 1, Column: ts.StartPoint().Column + 1},
		End:   ast.Position{Line: ts.EndPoint().Row + 1, Column: ts.EndPoint().Column + 1},
	}
}

// decode returns the lowered node for ts, or nil when the construct has no
// tree representation (empty statements, plain markup text).
//
//nolint:funlen,gocyclo,cyclop,maintidx // Single dispatch table over the grammar vocabulary.
func (d *decoder) decode(ts *sitter.Node) *ast.Node {
	if ts == nil || ts.IsNull() {
		return nil
	}

	span := nodeSpan(ts)

	switch ts.Type() {
	case "program":
		n := &ast.Node{Kind: ast.KindFile, Span: span}
		d.appendNamedChildren(n, ts)

		return n
	case "statement_block", "class_body":
		n := &ast.Node{Kind: ast.KindBlock, Span: span}
		d.appendNamedChildren(n, ts)

		return n
	case "expression_statement":
		n := &ast.Node{Kind: ast.KindExpressionStmt, Span: span}
		d.appendNamedChildren(n, ts)

		return n
	case "function_declaration", "generator_function_declaration":
		return d.function(ts, ast.KindFunction)
	case "function", "function_expression", "generator_function":
		return d.function(ts, ast.KindFunctionExpr)
	case "arrow_function":
		return d.function(ts, ast.KindArrowFunction)
	case "method_definition":
		return d.function(ts, ast.KindMethod)
	case "class_declaration", "class", "abstract_class_declaration":
		return d.class(ts)
	case "field_definition", "public_field_definition":
		return d.property(ts, "property", "value")
	case "pair":
		return d.property(ts, "key", "value")
	case "if_statement":
		return d.ifStatement(ts)
	case "ternary_expression":
		n := &ast.Node{Kind: ast.KindConditional, Span: span}
		d.appendField(n, ts, "condition")
		d.appendField(n, ts, "consequence")
		d.appendField(n, ts, "alternative")

		return n
	case "for_statement":
		n := &ast.Node{Kind: ast.KindFor, Span: span}
		d.appendNamedChildren(n, ts)

		return n
	case "for_in_statement", "for_of_statement":
		return d.forIn(ts)
	case "while_statement":
		n := &ast.Node{Kind: ast.KindWhile, Span: span}
		d.appendField(n, ts, "condition")
		d.appendField(n, ts, "body")

		return n
	case "do_statement":
		n := &ast.Node{Kind: ast.KindDoWhile, Span: span}
		d.appendField(n, ts, "body")
		d.appendField(n, ts, "condition")

		return n
	case "switch_statement":
		n := &ast.Node{Kind: ast.KindSwitch, Span: span}
		d.appendField(n, ts, "value")

		if body := ts.ChildByFieldName("body"); body != nil {
			d.appendNamedChildren(n, body)
		}

		return n
	case "switch_case":
		n := &ast.Node{Kind: ast.KindSwitchCase, Span: span}
		d.appendNamedChildren(n, ts)

		return n
	case "switch_default":
		n := &ast.Node{Kind: ast.KindSwitchCase, Span: span, Flags: ast.FlagDefaultCase}
		d.appendNamedChildren(n, ts)

		return n
	case "try_statement":
		n := &ast.Node{Kind: ast.KindTry, Span: span}
		d.appendField(n, ts, "body")
		d.appendField(n, ts, "handler")
		d.appendField(n, ts, "finalizer")

		return n
	case "catch_clause":
		return d.catchClause(ts)
	case "finally_clause":
		n := &ast.Node{Kind: ast.KindFinally, Span: span}
		d.appendField(n, ts, "body")

		return n
	case "return_statement":
		n := &ast.Node{Kind: ast.KindReturn, Span: span}
		d.appendNamedChildren(n, ts)

		return n
	case "throw_statement":
		n := &ast.Node{Kind: ast.KindThrow, Span: span}
		d.appendNamedChildren(n, ts)

		return n
	case "break_statement":
		return &ast.Node{Kind: ast.KindBreak, Span: span}
	case "continue_statement":
		return &ast.Node{Kind: ast.KindContinue, Span: span}
	case "debugger_statement":
		return &ast.Node{Kind: ast.KindDebugger, Span: span}
	case "labeled_statement":
		body := ts.ChildByFieldName("body")
		if body == nil && ts.NamedChildCount() > 1 {
			body = ts.NamedChild(int(ts.NamedChildCount()) - 1)
		}

		return d.decode(body)
	case "import_statement":
		n := &ast.Node{Kind: ast.KindImport, Span: span}
		d.appendField(n, ts, "source")

		return n
	case "export_statement":
		n := &ast.Node{Kind: ast.KindExport, Span: span}
		d.appendNamedChildren(n, ts)

		return n
	case "call_expression":
		return d.call(ts, false)
	case "new_expression":
		return d.call(ts, true)
	case "member_expression", "subscript_expression":
		return d.member(ts)
	case "binary_expression":
		op := d.operator(ts)

		kind := ast.KindBinary
		if op == "&&" || op == "||" || op == "??" {
			kind = ast.KindLogical
		}

		n := &ast.Node{Kind: kind, Span: span, Token: op}
		d.appendField(n, ts, "left")
		d.appendField(n, ts, "right")

		return n
	case "unary_expression":
		return d.unary(ts)
	case "update_expression":
		n := &ast.Node{Kind: ast.KindUpdate, Span: span, Token: d.operator(ts)}
		d.appendField(n, ts, "argument")

		return n
	case "assignment_expression":
		n := &ast.Node{Kind: ast.KindAssign, Span: span, Token: "="}
		d.appendField(n, ts, "left")
		d.appendField(n, ts, "right")

		return n
	case "augmented_assignment_expression":
		n := &ast.Node{Kind: ast.KindAssign, Span: span, Token: d.operator(ts)}
		d.appendField(n, ts, "left")
		d.appendField(n, ts, "right")

		return n
	case "sequence_expression":
		n := &ast.Node{Kind: ast.KindSequence, Span: span}
		d.appendNamedChildren(n, ts)

		return n
	case "await_expression":
		n := &ast.Node{Kind: ast.KindAwait, Span: span}
		d.appendNamedChildren(n, ts)

		return n
	case "yield_expression":
		n := &ast.Node{Kind: ast.KindYield, Span: span}
		d.appendNamedChildren(n, ts)

		return n
	case "parenthesized_expression":
		return d.firstExpression(ts)
	case "non_null_expression", "as_expression", "satisfies_expression", "type_assertion":
		return d.firstExpression(ts)
	case "identifier", "shorthand_property_identifier", "this", "super", "undefined", "import":
		return &ast.Node{Kind: ast.KindIdentifier, Span: span, Token: d.text(ts)}
	case "string":
		raw := d.text(ts)

		return &ast.Node{
			Kind:  ast.KindLiteral,
			Span:  span,
			Token: raw,
			Value: &ast.Value{Kind: ast.LitString, Str: trimQuotes(raw)},
		}
	case "number":
		raw := d.text(ts)

		return &ast.Node{
			Kind:  ast.KindLiteral,
			Span:  span,
			Token: raw,
			Value: &ast.Value{Kind: ast.LitNumber, Num: parseNumber(raw)},
		}
	case "true":
		return &ast.Node{
			Kind:  ast.KindLiteral,
			Span:  span,
			Token: "true",
			Value: &ast.Value{Kind: ast.LitBoolean, Bool: true},
		}
	case "false":
		return &ast.Node{
			Kind:  ast.KindLiteral,
			Span:  span,
			Token: "false",
			Value: &ast.Value{Kind: ast.LitBoolean},
		}
	case "null":
		return &ast.Node{
			Kind:  ast.KindLiteral,
			Span:  span,
			Token: "null",
			Value: &ast.Value{Kind: ast.LitNull},
		}
	case "regex":
		raw := d.text(ts)

		return &ast.Node{
			Kind:  ast.KindLiteral,
			Span:  span,
			Token: raw,
			Value: &ast.Value{Kind: ast.LitRegex, Str: raw},
		}
	case "template_string":
		return d.template(ts)
	case "array":
		n := &ast.Node{Kind: ast.KindArray, Span: span}
		d.appendNamedChildren(n, ts)

		return n
	case "object":
		n := &ast.Node{Kind: ast.KindObject, Span: span}
		d.appendNamedChildren(n, ts)

		return n
	case "spread_element", "rest_pattern":
		n := &ast.Node{Kind: ast.KindSpread, Span: span}
		d.appendNamedChildren(n, ts)

		return n
	case "jsx_element", "jsx_fragment":
		return d.element(ts)
	case "jsx_self_closing_element":
		n := &ast.Node{Kind: ast.KindElement, Span: span}

		if name := ts.ChildByFieldName("name"); name != nil {
			n.Token = d.text(name)
		}

		d.appendAttributes(n, ts)

		return n
	case "jsx_attribute":
		return d.attribute(ts)
	case "jsx_expression":
		return d.firstExpression(ts)
	case "comment":
		return &ast.Node{Kind: ast.KindComment, Span: span, Token: d.text(ts)}
	case "empty_statement", "hash_bang_line", "jsx_text", "statement_identifier":
		return nil
	default:
		n := &ast.Node{Kind: ast.KindUnknown, Span: span}
		d.appendNamedChildren(n, ts)

		return n
	}
}

// appendChild decodes ts and appends the result to parent. Declaration
// lists dissolve here: each declarator contributes its bound names directly.
func (d *decoder) appendChild(parent *ast.Node, ts *sitter.Node) {
	switch ts.Type() {
	case "variable_declaration", "lexical_declaration":
		for i := range int(ts.NamedChildCount()) {
			child := ts.NamedChild(i)
			if child.Type() == "variable_declarator" {
				parent.Children = append(parent.Children, d.declarators(child)...)
			} else if decoded := d.decode(child); decoded != nil {
				parent.Children = append(parent.Children, decoded)
			}
		}
	default:
		if decoded := d.decode(ts); decoded != nil {
			parent.Children = append(parent.Children, decoded)
		}
	}
}

func (d *decoder) appendNamedChildren(parent *ast.Node, ts *sitter.Node) {
	for i := range int(ts.NamedChildCount()) {
		d.appendChild(parent, ts.NamedChild(i))
	}
}

func (d *decoder) appendField(parent *ast.Node, ts *sitter.Node, field string) {
	if child := ts.ChildByFieldName(field); child != nil && !child.IsNull() {
		d.appendChild(parent, child)
	}
}

// firstExpression dissolves a wrapper to its first non-comment named child.
func (d *decoder) firstExpression(ts *sitter.Node) *ast.Node {
	for i := range int(ts.NamedChildCount()) {
		child := ts.NamedChild(i)
		if child.Type() != "comment" {
			return d.decode(child)
		}
	}

	return nil
}

// operator returns the operator text of an expression node. Grammars name
// the operator token through a field; older revisions leave it as the first
// anonymous child.
func (d *decoder) operator(ts *sitter.Node) string {
	if op := ts.ChildByFieldName("operator"); op != nil {
		return d.text(op)
	}

	for i := range int(ts.ChildCount()) {
		if child := ts.Child(i); !child.IsNamed() {
			return child.Type()
		}
	}

	return ""
}

// function decodes any function-like construct to [params..., body]. A body
// is always appended, synthesized empty if the grammar recovered without
// one, so parameter extraction stays positional.
func (d *decoder) function(ts *sitter.Node, kind ast.Kind) *ast.Node {
	n := &ast.Node{Kind: kind, Span: nodeSpan(ts)}

	if name := ts.ChildByFieldName("name"); name != nil {
		n.Token = d.text(name)
	}

	params := ts.ChildByFieldName("parameters")
	if params == nil {
		params = ts.ChildByFieldName("parameter")
	}

	n.Children = append(n.Children, d.parameters(params)...)

	body := d.decode(ts.ChildByFieldName("body"))
	if body == nil {
		body = &ast.Node{Kind: ast.KindBlock, Span: ast.Span{Start: n.Span.End, End: n.Span.End}}
	}

	n.Children = append(n.Children, body)

	return n
}

func (d *decoder) class(ts *sitter.Node) *ast.Node {
	n := &ast.Node{Kind: ast.KindClass, Span: nodeSpan(ts)}

	name := ts.ChildByFieldName("name")
	if name != nil {
		n.Token = d.text(name)
	}

	for i := range int(ts.NamedChildCount()) {
		child := ts.NamedChild(i)
		if name != nil && child.StartByte() == name.StartByte() {
			continue
		}

		switch child.Type() {
		case "class_heritage":
			d.appendNamedChildren(n, child)
		case "class_body":
			d.appendNamedChildren(n, child)
		default:
			d.appendChild(n, child)
		}
	}

	return n
}

// property decodes object pairs and class fields. Computed keys keep their
// expression as the first child so identifier uses inside them count.
func (d *decoder) property(ts *sitter.Node, keyField, valueField string) *ast.Node {
	n := &ast.Node{Kind: ast.KindProperty, Span: nodeSpan(ts)}

	if key := ts.ChildByFieldName(keyField); key != nil {
		if key.Type() == "computed_property_name" {
			n.Flags |= ast.FlagComputed

			d.appendNamedChildren(n, key)
		} else {
			n.Token = trimQuotes(d.text(key))
		}
	}

	d.appendField(n, ts, valueField)

	return n
}

func (d *decoder) ifStatement(ts *sitter.Node) *ast.Node {
	n := &ast.Node{Kind: ast.KindIf, Span: nodeSpan(ts)}
	d.appendField(n, ts, "condition")
	d.appendField(n, ts, "consequence")

	alt := ts.ChildByFieldName("alternative")
	if alt != nil && alt.Type() == "else_clause" {
		if alt.NamedChildCount() == 0 {
			return n
		}

		alt = alt.NamedChild(0)
	}

	if decoded := d.decode(alt); decoded != nil {
		n.Children = append(n.Children, decoded)
	}

	return n
}

func (d *decoder) forIn(ts *sitter.Node) *ast.Node {
	kind := ast.KindForIn
	if ts.Type() == "for_of_statement" || d.isForOf(ts) {
		kind = ast.KindForOf
	}

	n := &ast.Node{Kind: kind, Span: nodeSpan(ts)}
	d.appendField(n, ts, "left")
	d.appendField(n, ts, "right")
	d.appendField(n, ts, "body")

	return n
}

func (d *decoder) isForOf(ts *sitter.Node) bool {
	if op := ts.ChildByFieldName("operator"); op != nil {
		return d.text(op) == "of"
	}

	for i := range int(ts.ChildCount()) {
		if child := ts.Child(i); !child.IsNamed() && child.Type() == "of" {
			return true
		}
	}

	return false
}

func (d *decoder) catchClause(ts *sitter.Node) *ast.Node {
	n := &ast.Node{Kind: ast.KindCatch, Span: nodeSpan(ts)}

	if param := ts.ChildByFieldName("parameter"); param != nil {
		n.Children = append(n.Children, paramNodes(d.bindingNames(param))...)
	}

	d.appendField(n, ts, "body")

	return n
}

func (d *decoder) call(ts *sitter.Node, isNew bool) *ast.Node {
	n := &ast.Node{Kind: ast.KindCall, Span: nodeSpan(ts)}

	if isNew {
		n.Flags |= ast.FlagNew
	}

	calleeField := "function"
	if isNew {
		calleeField = "constructor"
	}

	callee := d.decode(ts.ChildByFieldName(calleeField))
	if callee == nil {
		callee = &ast.Node{Kind: ast.KindUnknown, Span: n.Span}
	}

	n.Children = append(n.Children, callee)

	args := ts.ChildByFieldName("arguments")

	switch {
	case args == nil:
	case args.Type() == "arguments":
		d.appendNamedChildren(n, args)
	default:
		// Tagged template literal: the template is the sole argument.
		d.appendChild(n, args)
	}

	return n
}

func (d *decoder) member(ts *sitter.Node) *ast.Node {
	n := &ast.Node{Kind: ast.KindMember, Span: nodeSpan(ts)}

	object := d.decode(ts.ChildByFieldName("object"))
	if object == nil {
		object = &ast.Node{Kind: ast.KindUnknown, Span: n.Span}
	}

	n.Children = append(n.Children, object)

	if ts.Type() == "subscript_expression" {
		n.Flags |= ast.FlagComputed

		d.appendField(n, ts, "index")

		return n
	}

	if prop := ts.ChildByFieldName("property"); prop != nil {
		n.Token = d.text(prop)
	}

	return n
}

func (d *decoder) unary(ts *sitter.Node) *ast.Node {
	op := d.operator(ts)
	arg := ts.ChildByFieldName("argument")

	// Fold unary minus on a numeric literal into a negative literal so
	// magic-number checks see the signed value.
	if op == "-" && arg != nil && arg.Type() == "number" {
		raw := d.text(ts)

		return &ast.Node{
			Kind:  ast.KindLiteral,
			Span:  nodeSpan(ts),
			Token: raw,
			Value: &ast.Value{Kind: ast.LitNumber, Num: -parseNumber(d.text(arg))},
		}
	}

	n := &ast.Node{Kind: ast.KindUnary, Span: nodeSpan(ts), Token: op}

	if decoded := d.decode(arg); decoded != nil {
		n.Children = append(n.Children, decoded)
	}

	return n
}

// template decodes a template literal. The grammar only materializes the
// substitutions, so literal text segments are sliced from the source bytes
// between them.
func (d *decoder) template(ts *sitter.Node) *ast.Node {
	n := &ast.Node{Kind: ast.KindTemplate, Span: nodeSpan(ts)}

	start := ts.StartByte() + 1
	end := ts.EndByte() - 1

	if end < start {
		end = start
	}

	cursor := start

	for i := range int(ts.NamedChildCount()) {
		child := ts.NamedChild(i)
		if child.Type() != "template_substitution" {
			// Escape sequences stay part of the surrounding text.
			continue
		}

		if child.StartByte() > cursor {
			n.Children = append(n.Children, d.templateElement(cursor, child.StartByte()))
		}

		expr := child.ChildByFieldName("expression")
		if expr == nil && child.NamedChildCount() > 0 {
			expr = child.NamedChild(0)
		}

		if decoded := d.decode(expr); decoded != nil {
			n.Children = append(n.Children, decoded)
		}

		cursor = child.EndByte()
	}

	if end > cursor {
		n.Children = append(n.Children, d.templateElement(cursor, end))
	}

	return n
}

func (d *decoder) templateElement(from, to uint32) *ast.Node {
	return &ast.Node{
		Kind:  ast.KindTemplateElement,
		Span:  ast.Span{Start: d.position(from), End: d.position(to)},
		Token: string(d.source[from:to]),
	}
}

func (d *decoder) element(ts *sitter.Node) *ast.Node {
	n := &ast.Node{Kind: ast.KindElement, Span: nodeSpan(ts)}

	for i := range int(ts.NamedChildCount()) {
		child := ts.NamedChild(i)

		switch child.Type() {
		case "jsx_opening_element":
			if name := child.ChildByFieldName("name"); name != nil {
				n.Token = d.text(name)
			}

			d.appendAttributes(n, child)
		case "jsx_closing_element":
		default:
			d.appendChild(n, child)
		}
	}

	return n
}

func (d *decoder) appendAttributes(parent *ast.Node, ts *sitter.Node) {
	for i := range int(ts.NamedChildCount()) {
		child := ts.NamedChild(i)

		switch child.Type() {
		case "jsx_attribute", "jsx_expression":
			d.appendChild(parent, child)
		}
	}
}

func (d *decoder) attribute(ts *sitter.Node) *ast.Node {
	n := &ast.Node{Kind: ast.KindAttribute, Span: nodeSpan(ts)}

	for i := range int(ts.NamedChildCount()) {
		child := ts.NamedChild(i)

		if i == 0 {
			switch child.Type() {
			case "property_identifier", "identifier", "jsx_namespace_name":
				n.Token = d.text(child)

				continue
			}
		}

		d.appendChild(n, child)
	}

	return n
}

// declarators expands one variable_declarator into KindVariable nodes, one
// per bound name. The initializer rides on the first binding only so its
// expressions are visited once.
func (d *decoder) declarators(ts *sitter.Node) []*ast.Node {
	names := d.bindingNames(ts.ChildByFieldName("name"))
	if len(names) == 0 {
		return nil
	}

	out := make([]*ast.Node, 0, len(names))

	for i, b := range names {
		v := &ast.Node{Kind: ast.KindVariable, Span: b.span, Token: b.name}

		if i == 0 {
			if value := d.decode(ts.ChildByFieldName("value")); value != nil {
				v.Children = []*ast.Node{value}
				v.Span = nodeSpan(ts)
			}
		}

		out = append(out, v)
	}

	return out
}

// parameters decodes a formal parameter list into flat KindParameter nodes.
// A bare identifier (single-parameter arrow) is accepted directly.
func (d *decoder) parameters(ts *sitter.Node) []*ast.Node {
	if ts == nil {
		return nil
	}

	if ts.Type() == "identifier" {
		return paramNodes(d.bindingNames(ts))
	}

	var out []*ast.Node

	for i := range int(ts.NamedChildCount()) {
		out = append(out, d.parameter(ts.NamedChild(i))...)
	}

	return out
}

// parameter decodes one formal parameter, expanding binding patterns into
// one node per bound name. A default value rides on the first binding.
func (d *decoder) parameter(ts *sitter.Node) []*ast.Node {
	switch ts.Type() {
	case "assignment_pattern":
		out := paramNodes(d.bindingNames(ts.ChildByFieldName("left")))
		if len(out) > 0 {
			if def := d.decode(ts.ChildByFieldName("right")); def != nil {
				out[0].Children = []*ast.Node{def}
			}
		}

		return out
	case "required_parameter", "optional_parameter":
		out := paramNodes(d.bindingNames(ts.ChildByFieldName("pattern")))
		if len(out) > 0 {
			if def := d.decode(ts.ChildByFieldName("value")); def != nil {
				out[0].Children = []*ast.Node{def}
			}
		}

		return out
	case "comment":
		return nil
	default:
		return paramNodes(d.bindingNames(ts))
	}
}

type binding struct {
	name string
	span ast.Span
}

func paramNodes(names []binding) []*ast.Node {
	out := make([]*ast.Node, 0, len(names))

	for _, b := range names {
		out = append(out, &ast.Node{Kind: ast.KindParameter, Span: b.span, Token: b.name})
	}

	return out
}

// bindingNames collects the identifiers a binding pattern declares, in
// source order. Defaults and property keys inside the pattern are not
// bindings and are skipped.
func (d *decoder) bindingNames(ts *sitter.Node) []binding {
	if ts == nil || ts.IsNull() {
		return nil
	}

	switch ts.Type() {
	case "identifier", "shorthand_property_identifier_pattern":
		return []binding{{name: d.text(ts), span: nodeSpan(ts)}}
	case "object_pattern", "array_pattern", "rest_pattern", "rest_parameter":
		var out []binding

		for i := range int(ts.NamedChildCount()) {
			out = append(out, d.bindingNames(ts.NamedChild(i))...)
		}

		return out
	case "pair_pattern":
		return d.bindingNames(ts.ChildByFieldName("value"))
	case "assignment_pattern", "object_assignment_pattern":
		return d.bindingNames(ts.ChildByFieldName("left"))
	default:
		return nil
	}
}

func trimQuotes(raw string) string {
	if len(raw) >= 2 {
		switch raw[0] {
		case '"', '\'', '`':
			if raw[len(raw)-1] == raw[0] {
				return raw[1 : len(raw)-1]
			}
		}
	}

	return raw
}

// parseNumber converts numeric literal text to float64, accepting
// separators, the bigint suffix, and radix prefixes.
func parseNumber(raw string) float64 {
	text := strings.TrimSuffix(strings.ReplaceAll(raw, "_", ""), "n")

	if v, err := strconv.ParseFloat(text, 64); err == nil {
		return v
	}

	if v, err := strconv.ParseUint(text, 0, 64); err == nil {
		return float64(v)
	}

	return 0
}
