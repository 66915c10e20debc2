package ast

// EnterFunc is called when traversal reaches a node, before its children.
// Returning false suppresses descent into the node's children; any exit
// hooks for the node still fire.
type EnterFunc func(*Node) bool

// ExitFunc is called after a node's children have been traversed (or
// skipped).
type ExitFunc func(*Node)

// Hooks pairs the callbacks registered for a node kind. Either field may be
// nil.
type Hooks struct {
	Enter EnterFunc
	Exit  ExitFunc
}

// Walker performs a pre-order depth-first traversal, dispatching to hooks
// registered per kind plus wildcard hooks that fire for every traversed
// node. Several hooks may be registered for the same kind; they run in
// registration order. A walker carries no per-walk state and may be reused.
type Walker struct {
	wildcards []Hooks
	hooks     map[Kind][]Hooks
}

// NewWalker creates an empty Walker.
func NewWalker() *Walker {
	return &Walker{
		hooks: make(map[Kind][]Hooks),
	}
}

// RegisterHooks registers hooks for a specific node kind.
func (w *Walker) RegisterHooks(kind Kind, hooks Hooks) {
	w.hooks[kind] = append(w.hooks[kind], hooks)
}

// RegisterWildcard registers hooks invoked for every traversed node in
// addition to any kind-specific hooks. A wildcard enter cannot suppress
// descent; its return value is ignored.
func (w *Walker) RegisterWildcard(hooks Hooks) {
	w.wildcards = append(w.wildcards, hooks)
}

// Walk traverses the tree rooted at root. Children are visited in
// declaration order. Nil nodes and KindInvalid nodes are not traversed.
func (w *Walker) Walk(root *Node) {
	if root == nil || root.Kind == KindInvalid {
		return
	}

	for _, h := range w.wildcards {
		if h.Enter != nil {
			h.Enter(root)
		}
	}

	descend := true

	for _, h := range w.hooks[root.Kind] {
		if h.Enter != nil && !h.Enter(root) {
			descend = false
		}
	}

	if descend {
		for _, child := range root.Children {
			w.Walk(child)
		}
	}

	for _, h := range w.hooks[root.Kind] {
		if h.Exit != nil {
			h.Exit(root)
		}
	}

	for _, h := range w.wildcards {
		if h.Exit != nil {
			h.Exit(root)
		}
	}
}
