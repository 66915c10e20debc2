package analyze

import (
	"github.com/yuv008/ASTra/pkg/ast"
	"github.com/yuv008/ASTra/pkg/textutil"
)

// Analyzer inspects one parsed file and reports findings. Implementations
// must treat the context as read-only: the tree is shared between analyzers
// and must never be mutated. Returning an error abandons this analyzer for
// the file; other analyzers still run.
type Analyzer interface {
	// Name identifies the analyzer in logs and reports.
	Name() string

	// Category is the default concern the analyzer reports on. Individual
	// findings may refine it.
	Category() Category

	// Analyze walks the tree in ctx and returns findings in source order.
	Analyze(ctx *Context) ([]Finding, error)
}

// Context bundles everything an analyzer may read about the file under
// analysis: its path, raw source bytes and the decoded syntax tree.
type Context struct {
	// File is the path the source was read from, as given by the caller.
	File string

	// Source holds the raw file contents. Analyzers use it for snippets
	// and line-level checks; they must not modify it.
	Source []byte

	// Tree is the decoded syntax tree rooted at a file node.
	Tree *ast.Node
}

// NewContext builds an analysis context for one file.
func NewContext(file string, source []byte, tree *ast.Node) *Context {
	return &Context{File: file, Source: source, Tree: tree}
}

// Snippet returns the trimmed source line the span starts on, or an empty
// string when the span lies outside the source.
func (c *Context) Snippet(span ast.Span) string {
	return textutil.Line(c.Source, int(span.Start.Line))
}

// LineCount returns the number of lines in the source.
func (c *Context) LineCount() int {
	return textutil.CountLines(c.Source)
}
