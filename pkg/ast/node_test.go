//nolint:testpackage // White-box tests for node payload accessors.
package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpan_Lines(t *testing.T) {
	t.Parallel()

	s := Span{Start: Position{Line: 3, Column: 1}, End: Position{Line: 10, Column: 2}}

	assert.Equal(t, 7, s.Lines())
	assert.Equal(t, 0, Span{}.Lines())
}

func TestKind_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "SwitchCase", KindSwitchCase.String())
	assert.Equal(t, "Unknown", KindUnknown.String())
	assert.Equal(t, "Invalid", KindInvalid.String())
	assert.Equal(t, "Invalid", Kind(255).String())
}

func TestKind_IsFunctionLike(t *testing.T) {
	t.Parallel()

	for _, k := range []Kind{KindFunction, KindFunctionExpr, KindArrowFunction, KindMethod} {
		assert.True(t, k.IsFunctionLike(), k.String())
	}

	assert.False(t, KindCall.IsFunctionLike())
	assert.False(t, KindClass.IsFunctionLike())
}

func TestKind_IsLoop(t *testing.T) {
	t.Parallel()

	for _, k := range []Kind{KindFor, KindForIn, KindForOf, KindWhile, KindDoWhile} {
		assert.True(t, k.IsLoop(), k.String())
	}

	assert.False(t, KindIf.IsLoop())
	assert.False(t, KindSwitch.IsLoop())
}

func TestNode_LiteralValues(t *testing.T) {
	t.Parallel()

	str := &Node{Kind: KindLiteral, Value: &Value{Kind: LitString, Str: "hello"}}
	num := &Node{Kind: KindLiteral, Value: &Value{Kind: LitNumber, Num: 42}}

	s, ok := str.StringValue()
	require.True(t, ok)
	assert.Equal(t, "hello", s)

	_, ok = str.NumberValue()
	assert.False(t, ok)

	v, ok := num.NumberValue()
	require.True(t, ok)
	assert.InDelta(t, 42.0, v, 1e-9)

	_, ok = (&Node{Kind: KindIdentifier}).StringValue()
	assert.False(t, ok)

	_, ok = (&Node{Kind: KindLiteral}).StringValue()
	assert.False(t, ok, "literal without payload")
}

func TestNode_CallAccessors(t *testing.T) {
	t.Parallel()

	callee := &Node{Kind: KindIdentifier, Token: "query"}
	arg := &Node{Kind: KindLiteral, Value: &Value{Kind: LitString, Str: "x"}}
	call := &Node{Kind: KindCall, Children: []*Node{callee, arg}}

	assert.Same(t, callee, call.Callee())
	require.Len(t, call.Args(), 1)
	assert.Same(t, arg, call.Args()[0])

	noArgs := &Node{Kind: KindCall, Children: []*Node{callee}}
	assert.Empty(t, noArgs.Args())

	assert.Nil(t, (&Node{Kind: KindIdentifier}).Callee())
}

func TestNode_OperandAccessors(t *testing.T) {
	t.Parallel()

	left := &Node{Kind: KindIdentifier, Token: "a"}
	right := &Node{Kind: KindIdentifier, Token: "b"}

	for _, k := range []Kind{KindBinary, KindLogical, KindAssign} {
		n := &Node{Kind: k, Token: "+", Children: []*Node{left, right}}

		assert.Same(t, left, n.Left(), k.String())
		assert.Same(t, right, n.Right(), k.String())
	}

	assert.Nil(t, (&Node{Kind: KindCall}).Left())
	assert.Nil(t, (&Node{Kind: KindBinary, Children: []*Node{left}}).Right())
}

func TestNode_MemberObject(t *testing.T) {
	t.Parallel()

	obj := &Node{Kind: KindIdentifier, Token: "console"}
	member := &Node{Kind: KindMember, Token: "log", Children: []*Node{obj}}

	assert.Same(t, obj, member.MemberObject())
	assert.Nil(t, (&Node{Kind: KindMember}).MemberObject())
}

func TestNode_FunctionAccessors(t *testing.T) {
	t.Parallel()

	p1 := &Node{Kind: KindParameter, Token: "a"}
	p2 := &Node{Kind: KindParameter, Token: "b"}
	body := &Node{Kind: KindBlock}
	fn := &Node{Kind: KindFunction, Token: "handler", Children: []*Node{p1, p2, body}}

	assert.Equal(t, "handler", fn.FunctionName())
	require.Len(t, fn.Params(), 2)
	assert.Same(t, body, fn.Body())

	// A body-only function has no params.
	bare := &Node{Kind: KindArrowFunction, Children: []*Node{body}}
	assert.Empty(t, bare.Params())
	assert.Same(t, body, bare.Body())

	assert.Empty(t, (&Node{Kind: KindCall, Token: "x"}).FunctionName())
}

func TestNode_CatchBody(t *testing.T) {
	t.Parallel()

	block := &Node{Kind: KindBlock}
	withParam := &Node{Kind: KindCatch, Children: []*Node{
		{Kind: KindParameter, Token: "err"},
		block,
	}}
	bare := &Node{Kind: KindCatch, Children: []*Node{block}}

	assert.Same(t, block, withParam.CatchBody())
	assert.Same(t, block, bare.CatchBody())
	assert.Nil(t, (&Node{Kind: KindCatch}).CatchBody())
	assert.Nil(t, (&Node{Kind: KindTry, Children: []*Node{block}}).CatchBody())
}

func TestNode_Flags(t *testing.T) {
	t.Parallel()

	n := &Node{Kind: KindSwitchCase, Flags: FlagDefaultCase}

	assert.True(t, n.Has(FlagDefaultCase))
	assert.False(t, n.Has(FlagComputed))
}
