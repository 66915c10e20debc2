package ast

// FindAll returns every node of the given kind under root (root included),
// in pre-order traversal order. Returns nil for a nil root.
func FindAll(root *Node, kind Kind) []*Node {
	if root == nil || root.Kind == KindInvalid {
		return nil
	}

	var matches []*Node

	if root.Kind == kind {
		matches = append(matches, root)
	}

	for _, child := range root.Children {
		matches = append(matches, FindAll(child, kind)...)
	}

	return matches
}

// FindFirst returns the first node under root (root included) satisfying
// predicate, in pre-order traversal order, short-circuiting the walk.
// Returns nil when nothing matches.
func FindFirst(root *Node, predicate func(*Node) bool) *Node {
	if root == nil || root.Kind == KindInvalid {
		return nil
	}

	if predicate(root) {
		return root
	}

	for _, child := range root.Children {
		if found := FindFirst(child, predicate); found != nil {
			return found
		}
	}

	return nil
}
