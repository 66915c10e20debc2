// Package ast defines the syntax tree contract consumed by the analyzers:
// a single Node shape with a closed Kind enumeration, source spans, typed
// literal payloads, and the traversal primitives built on top of them.
//
// Front-ends decode their native parse trees into this form; analyzers only
// ever see this package's types and never mutate them.
package ast

// Position is a 1-based line/column location in a source file.
type Position struct {
	Line   uint32 `json:"line"`
	Column uint32 `json:"column"`
}

// Span is the source range a node covers.
type Span struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

// Lines returns the number of line breaks the span covers
// (end line minus start line).
func (s Span) Lines() int {
	return int(s.End.Line) - int(s.Start.Line)
}

// Flag is a bitset of kind-specific node markers.
type Flag uint8

// Node flags.
const (
	// FlagDefaultCase marks the default clause of a switch.
	FlagDefaultCase Flag = 1 << iota
	// FlagComputed marks computed member access (subscripts) and computed
	// property keys.
	FlagComputed
	// FlagNew marks constructor invocations decoded to KindCall.
	FlagNew
)

// LiteralKind discriminates the typed payload of a literal node.
type LiteralKind uint8

// Literal payload kinds.
const (
	LitString LiteralKind = iota
	LitNumber
	LitBoolean
	LitNull
	LitRegex
)

// Value is the typed payload of a KindLiteral node. Exactly the field
// matching Kind is meaningful.
type Value struct {
	Kind LiteralKind
	Str  string
	Num  float64
	Bool bool
}

// Node is one syntax tree node. The meaning of Token, Value, Flags and the
// child layout depend on Kind; see the Kind constants for the per-kind
// payload contract. Children are ordered left to right as declared in
// source. Nodes are immutable once decoded.
type Node struct {
	Kind     Kind
	Span     Span
	Token    string
	Value    *Value
	Flags    Flag
	Children []*Node
}

// Has reports whether all bits of flag are set.
func (n *Node) Has(flag Flag) bool {
	return n.Flags&flag == flag
}

// StringValue returns the literal's string payload.
// The second result is false for non-literals and non-string literals.
func (n *Node) StringValue() (string, bool) {
	if n.Kind != KindLiteral || n.Value == nil || n.Value.Kind != LitString {
		return "", false
	}

	return n.Value.Str, true
}

// NumberValue returns the literal's numeric payload.
// The second result is false for non-literals and non-numeric literals.
func (n *Node) NumberValue() (float64, bool) {
	if n.Kind != KindLiteral || n.Value == nil || n.Value.Kind != LitNumber {
		return 0, false
	}

	return n.Value.Num, true
}

// Callee returns the callee of a KindCall node, or nil.
func (n *Node) Callee() *Node {
	if n.Kind != KindCall || len(n.Children) == 0 {
		return nil
	}

	return n.Children[0]
}

// Args returns the argument nodes of a KindCall node.
func (n *Node) Args() []*Node {
	if n.Kind != KindCall || len(n.Children) < 2 {
		return nil
	}

	return n.Children[1:]
}

// Left returns the left operand of a binary, logical, or assignment node.
func (n *Node) Left() *Node {
	if !n.hasOperandPair() {
		return nil
	}

	return n.Children[0]
}

// Right returns the right operand of a binary, logical, or assignment node.
func (n *Node) Right() *Node {
	if !n.hasOperandPair() {
		return nil
	}

	return n.Children[1]
}

func (n *Node) hasOperandPair() bool {
	switch n.Kind {
	case KindBinary, KindLogical, KindAssign:
		return len(n.Children) >= 2
	default:
		return false
	}
}

// MemberObject returns the object a KindMember node accesses, or nil.
func (n *Node) MemberObject() *Node {
	if n.Kind != KindMember || len(n.Children) == 0 {
		return nil
	}

	return n.Children[0]
}

// FunctionName returns the declared name of a function-like node,
// or "" for anonymous units.
func (n *Node) FunctionName() string {
	if !n.Kind.IsFunctionLike() {
		return ""
	}

	return n.Token
}

// Params returns the parameter nodes of a function-like node: every child
// except the trailing body.
func (n *Node) Params() []*Node {
	if !n.Kind.IsFunctionLike() || len(n.Children) < 2 {
		return nil
	}

	return n.Children[:len(n.Children)-1]
}

// Body returns the body of a function-like node (its last child), or nil.
// Arrow functions may have an expression body instead of a block.
func (n *Node) Body() *Node {
	if !n.Kind.IsFunctionLike() || len(n.Children) == 0 {
		return nil
	}

	return n.Children[len(n.Children)-1]
}

// CatchBody returns the block of a KindCatch node (its last child), or nil.
func (n *Node) CatchBody() *Node {
	if n.Kind != KindCatch || len(n.Children) == 0 {
		return nil
	}

	body := n.Children[len(n.Children)-1]
	if body == nil || body.Kind != KindBlock {
		return nil
	}

	return body
}
