package parser

import (
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/cpp"
)

// newCppParser creates a tree-sitter parser configured for C++. Headers
// wrapped in extern "C" blocks parse more reliably with this grammar.
func newCppParser() *sitter.Parser {
	parser := sitter.NewParser()
	parser.SetLanguage(cpp.GetLanguage())
	return parser
}
