// Package parser provides tree-sitter based parsing of C and C++ headers.
//
// The parser package wraps the tree-sitter library so the declaration
// extractor can walk a header without caring which grammar produced it.
package parser

import (
	"context"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
)

// Language represents a supported header language.
type Language string

const (
	// C represents the C programming language.
	C Language = "c"
	// Cpp represents the C++ programming language.
	Cpp Language = "cpp"
)

// Parser wraps tree-sitter for header parsing.
type Parser struct {
	parser *sitter.Parser
	lang   Language
}

// ParseResult contains the parsed AST and metadata.
type ParseResult struct {
	// Tree is the complete tree-sitter parse tree.
	Tree *sitter.Tree
	// Root is the root node of the AST.
	Root *sitter.Node
	// Source is the source that was parsed, after any macro stripping.
	Source []byte
	// FilePath is the path to the source file (empty for in-memory parsing).
	FilePath string
	// Language is the language of the source.
	Language Language
}

// ParseLanguage maps a configuration value onto a Language.
func ParseLanguage(s string) (Language, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "c", "":
		return C, nil
	case "cpp", "c++", "cxx":
		return Cpp, nil
	default:
		return "", &UnsupportedLanguageError{Language: s}
	}
}

// NewParser creates a parser for the given language.
// Returns an UnsupportedLanguageError if the language is not supported.
func NewParser(lang Language) (*Parser, error) {
	var p *sitter.Parser

	switch lang {
	case C:
		p = newCParser()
	case Cpp:
		p = newCppParser()
	default:
		return nil, &UnsupportedLanguageError{Language: string(lang)}
	}

	return &Parser{
		parser: p,
		lang:   lang,
	}, nil
}

// Parse parses source code and returns the AST.
func (p *Parser) Parse(source []byte) (*ParseResult, error) {
	return p.ParseContext(context.Background(), source)
}

// ParseContext parses source code, giving up when ctx is cancelled.
func (p *Parser) ParseContext(ctx context.Context, source []byte) (*ParseResult, error) {
	tree, err := p.parser.ParseCtx(ctx, nil, source)
	if err != nil {
		return nil, &ParseError{
			Message: err.Error(),
		}
	}

	return &ParseResult{
		Tree:     tree,
		Root:     tree.RootNode(),
		Source:   source,
		Language: p.lang,
	}, nil
}

// Language returns the language this parser is configured for.
func (p *Parser) Language() Language {
	return p.lang
}

// Close releases parser resources.
// After calling Close, the parser should not be used.
func (p *Parser) Close() {
	if p.parser != nil {
		p.parser.Close()
		p.parser = nil
	}
}

// Close releases the parse tree resources.
func (r *ParseResult) Close() {
	if r.Tree != nil {
		r.Tree.Close()
		r.Tree = nil
		r.Root = nil
	}
}

// HasErrors returns true if the parse tree contains syntax errors.
func (r *ParseResult) HasErrors() bool {
	if r.Root == nil {
		return false
	}
	return r.Root.HasError()
}

// FirstError returns the position of the first ERROR or missing node, or nil.
func (r *ParseResult) FirstError() *ParseError {
	var found *sitter.Node
	r.WalkNodes(func(n *sitter.Node) bool {
		if found != nil {
			return false
		}
		if n.Type() == "ERROR" || n.IsMissing() {
			found = n
			return false
		}
		return true
	})
	if found == nil {
		return nil
	}
	pt := found.StartPoint()
	return &ParseError{
		Message: "syntax error near " + strings.TrimSpace(firstLine(r.NodeText(found))),
		File:    r.FilePath,
		Line:    pt.Row + 1,
		Column:  pt.Column + 1,
	}
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

// WalkNodes traverses the AST depth-first, calling the visitor function
// for each node. If the visitor returns false, traversal stops.
func (r *ParseResult) WalkNodes(visitor func(*sitter.Node) bool) {
	if r.Root == nil {
		return
	}
	walkNode(r.Root, visitor)
}

// walkNode is a helper for depth-first AST traversal.
func walkNode(node *sitter.Node, visitor func(*sitter.Node) bool) bool {
	if !visitor(node) {
		return false
	}
	for i := uint32(0); i < node.ChildCount(); i++ {
		if !walkNode(node.Child(int(i)), visitor) {
			return false
		}
	}
	return true
}

// NodeText returns the source text for a node.
func (r *ParseResult) NodeText(node *sitter.Node) string {
	if node == nil || r.Source == nil {
		return ""
	}
	return node.Content(r.Source)
}
