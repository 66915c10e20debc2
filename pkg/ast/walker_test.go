//nolint:testpackage // White-box tests for traversal internals.
package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testTree builds:
//
//	File
//	├── If
//	│   ├── Identifier(cond)
//	│   └── Block
//	│       └── Call
//	│           └── Identifier(callee)
//	└── Identifier(tail)
func testTree() *Node {
	return &Node{Kind: KindFile, Children: []*Node{
		{Kind: KindIf, Children: []*Node{
			{Kind: KindIdentifier, Token: "cond"},
			{Kind: KindBlock, Children: []*Node{
				{Kind: KindCall, Children: []*Node{
					{Kind: KindIdentifier, Token: "callee"},
				}},
			}},
		}},
		{Kind: KindIdentifier, Token: "tail"},
	}}
}

func TestWalk_VisitsEveryNodeOncePreOrder(t *testing.T) {
	t.Parallel()

	var order []string

	w := NewWalker()
	w.RegisterWildcard(Hooks{Enter: func(n *Node) bool {
		label := n.Kind.String()
		if n.Token != "" {
			label += ":" + n.Token
		}

		order = append(order, label)

		return true
	}})

	w.Walk(testTree())

	assert.Equal(t, []string{
		"File",
		"If",
		"Identifier:cond",
		"Block",
		"Call",
		"Identifier:callee",
		"Identifier:tail",
	}, order)
}

func TestWalk_EnterFalseSkipsSubtreeButExitFires(t *testing.T) {
	t.Parallel()

	var (
		visited  []string
		ifExited bool
	)

	w := NewWalker()
	w.RegisterHooks(KindIf, Hooks{
		Enter: func(*Node) bool { return false },
		Exit:  func(*Node) { ifExited = true },
	})
	w.RegisterWildcard(Hooks{Enter: func(n *Node) bool {
		visited = append(visited, n.Token)

		return true
	}})

	w.Walk(testTree())

	assert.True(t, ifExited, "exit hook must fire even when descent was suppressed")
	assert.NotContains(t, visited, "cond")
	assert.NotContains(t, visited, "callee")
	assert.Contains(t, visited, "tail")
}

func TestWalk_WildcardCannotSuppressDescent(t *testing.T) {
	t.Parallel()

	count := 0

	w := NewWalker()
	w.RegisterWildcard(Hooks{Enter: func(*Node) bool {
		count++

		return false // ignored for wildcards
	}})

	w.Walk(testTree())

	assert.Equal(t, 7, count)
}

func TestWalk_WildcardFiresInAdditionToKindHooks(t *testing.T) {
	t.Parallel()

	var order []string

	w := NewWalker()
	w.RegisterWildcard(Hooks{
		Enter: func(*Node) bool { order = append(order, "any-enter"); return true },
		Exit:  func(*Node) { order = append(order, "any-exit") },
	})
	w.RegisterHooks(KindIdentifier, Hooks{
		Enter: func(*Node) bool { order = append(order, "ident-enter"); return true },
		Exit:  func(*Node) { order = append(order, "ident-exit") },
	})

	w.Walk(&Node{Kind: KindIdentifier, Token: "x"})

	assert.Equal(t, []string{"any-enter", "ident-enter", "ident-exit", "any-exit"}, order)
}

func TestWalk_MultipleHooksSameKindRunInRegistrationOrder(t *testing.T) {
	t.Parallel()

	var order []int

	w := NewWalker()
	w.RegisterHooks(KindCall, Hooks{Enter: func(*Node) bool { order = append(order, 1); return true }})
	w.RegisterHooks(KindCall, Hooks{Enter: func(*Node) bool { order = append(order, 2); return true }})

	w.Walk(&Node{Kind: KindCall})

	assert.Equal(t, []int{1, 2}, order)
}

func TestWalk_AnyEnterFalseSuppressesForAllHooks(t *testing.T) {
	t.Parallel()

	childSeen := false

	w := NewWalker()
	w.RegisterHooks(KindIf, Hooks{Enter: func(*Node) bool { return false }})
	w.RegisterHooks(KindIf, Hooks{Enter: func(*Node) bool { return true }})
	w.RegisterHooks(KindIdentifier, Hooks{Enter: func(*Node) bool {
		childSeen = true

		return true
	}})

	w.Walk(&Node{Kind: KindIf, Children: []*Node{{Kind: KindIdentifier}}})

	assert.False(t, childSeen, "one false enter suppresses descent even if a later hook returns true")
}

func TestWalk_NilAndInvalidNodesAreNotTraversed(t *testing.T) {
	t.Parallel()

	count := 0

	w := NewWalker()
	w.RegisterWildcard(Hooks{Enter: func(*Node) bool {
		count++

		return true
	}})

	w.Walk(nil)
	w.Walk(&Node{Kind: KindInvalid})
	w.Walk(&Node{Kind: KindFile, Children: []*Node{
		nil,
		{Kind: KindInvalid},
		{Kind: KindIdentifier},
	}})

	// Only File and the one valid Identifier child.
	assert.Equal(t, 2, count)
}

func TestWalk_ReusableAcrossTrees(t *testing.T) {
	t.Parallel()

	count := 0

	w := NewWalker()
	w.RegisterHooks(KindIdentifier, Hooks{Enter: func(*Node) bool {
		count++

		return true
	}})

	w.Walk(testTree())
	w.Walk(testTree())

	assert.Equal(t, 6, count, "walker carries no per-walk state")
}

func TestFindAll_CountsMatchesAtAnyDepth(t *testing.T) {
	t.Parallel()

	idents := FindAll(testTree(), KindIdentifier)

	require.Len(t, idents, 3)
	assert.Equal(t, "cond", idents[0].Token)
	assert.Equal(t, "callee", idents[1].Token)
	assert.Equal(t, "tail", idents[2].Token)
}

func TestFindAll_IncludesRoot(t *testing.T) {
	t.Parallel()

	root := &Node{Kind: KindCall, Children: []*Node{{Kind: KindCall}}}

	assert.Len(t, FindAll(root, KindCall), 2)
}

func TestFindAll_NilRoot(t *testing.T) {
	t.Parallel()

	assert.Nil(t, FindAll(nil, KindCall))
}

func TestFindFirst_ReturnsFirstInPreOrder(t *testing.T) {
	t.Parallel()

	found := FindFirst(testTree(), func(n *Node) bool {
		return n.Kind == KindIdentifier
	})

	require.NotNil(t, found)
	assert.Equal(t, "cond", found.Token)
}

func TestFindFirst_ShortCircuits(t *testing.T) {
	t.Parallel()

	probes := 0
	found := FindFirst(testTree(), func(n *Node) bool {
		probes++

		return n.Kind == KindIf
	})

	require.NotNil(t, found)
	// Pre-order: File probed first, then If matches. Nothing after.
	assert.Equal(t, 2, probes)
}

func TestFindFirst_NoMatch(t *testing.T) {
	t.Parallel()

	assert.Nil(t, FindFirst(testTree(), func(n *Node) bool {
		return n.Kind == KindDebugger
	}))
}
