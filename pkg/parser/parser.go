// Package parser is the language front-end: it detects the language of a
// source file, parses it with the matching tree-sitter grammar, and lowers
// the parse tree into the syntax tree the analyzers consume.
package parser

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"
	"github.com/src-d/enry/v2"

	"github.com/yuv008/ASTra/pkg/analyzers/analyze"
	"github.com/yuv008/ASTra/pkg/textutil"
)

// Language identifies a supported source language by its display name.
type Language string

// Supported languages.
const (
	LangJavaScript Language = "JavaScript"
	LangTypeScript Language = "TypeScript"
	LangTSX        Language = "TSX"
)

// DefaultMaxFileSize bounds the input size accepted by Parse.
const DefaultMaxFileSize = 10 << 20

// extLanguages routes file extensions to languages. JSX input parses with
// the javascript grammar, which carries the JSX productions.
//
//nolint:gochecknoglobals // Fixed extension table shared by Supported and DetectLanguage.
var extLanguages = map[string]Language{
	".js":  LangJavaScript,
	".jsx": LangJavaScript,
	".mjs": LangJavaScript,
	".cjs": LangJavaScript,
	".ts":  LangTypeScript,
	".mts": LangTypeScript,
	".cts": LangTypeScript,
	".tsx": LangTSX,
}

func grammarFor(lang Language) *sitter.Language {
	switch lang {
	case LangTypeScript:
		return typescript.GetLanguage()
	case LangTSX:
		return tsx.GetLanguage()
	default:
		return javascript.GetLanguage()
	}
}

// DetectLanguage resolves the language for a path. Known extensions resolve
// directly; anything else falls back to content detection, which covers
// extensionless scripts with a shebang line.
func DetectLanguage(path string, content []byte) (Language, bool) {
	if lang, ok := extLanguages[strings.ToLower(filepath.Ext(path))]; ok {
		return lang, true
	}

	switch enry.GetLanguage(filepath.Base(path), content) {
	case "JavaScript", "JSX":
		return LangJavaScript, true
	case "TypeScript":
		return LangTypeScript, true
	case "TSX":
		return LangTSX, true
	}

	return "", false
}

// Parser implements analyze.FileParser over tree-sitter grammars. Each call
// builds its own sitter parser, so one Parser is safe for concurrent use.
type Parser struct {
	maxFileSize int
}

// Option configures a Parser.
type Option func(*Parser)

// WithMaxFileSize overrides the input size bound.
func WithMaxFileSize(limit int) Option {
	return func(p *Parser) {
		if limit > 0 {
			p.maxFileSize = limit
		}
	}
}

// New returns a ready Parser.
func New(opts ...Option) *Parser {
	p := &Parser{maxFileSize: DefaultMaxFileSize}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Supported reports whether the path's extension maps to a known language.
func (p *Parser) Supported(path string) bool {
	_, ok := extLanguages[strings.ToLower(filepath.Ext(path))]

	return ok
}

// Parse decodes one source file into an analyzer tree. Errors wrapping
// analyze.ErrUnsupportedFile mark input the front-end cannot handle: binary
// or non-UTF-8 data, unknown languages, oversized files.
func (p *Parser) Parse(ctx context.Context, path string, content []byte) (*analyze.ParsedFile, error) {
	if len(content) > p.maxFileSize {
		return nil, fmt.Errorf("%w: %s exceeds %d bytes", analyze.ErrUnsupportedFile, path, p.maxFileSize)
	}

	if textutil.IsBinary(content) || !utf8.Valid(content) {
		return nil, fmt.Errorf("%w: %s is not UTF-8 text", analyze.ErrUnsupportedFile, path)
	}

	lang, ok := DetectLanguage(path, content)
	if !ok {
		return nil, fmt.Errorf("%w: %s", analyze.ErrUnsupportedFile, path)
	}

	parser := sitter.NewParser()
	parser.SetLanguage(grammarFor(lang))

	tree, err := parser.ParseCtx(ctx, nil, content)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	defer tree.Close()

	root := newDecoder(content).decode(tree.RootNode())
	if root == nil {
		return nil, fmt.Errorf("parse %s: no syntax tree", path)
	}

	return &analyze.ParsedFile{Language: string(lang), Tree: root}, nil
}
