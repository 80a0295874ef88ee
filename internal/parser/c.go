package parser

import (
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/c"
)

// newCParser creates a tree-sitter parser configured for C.
func newCParser() *sitter.Parser {
	parser := sitter.NewParser()
	parser.SetLanguage(c.GetLanguage())
	return parser
}

// HeaderNodeTypes maps the tree-sitter node types a header walk cares about
// to the declaration kind they may produce. Container nodes map to
// "container": the walk descends into them but they produce nothing.
var HeaderNodeTypes = map[string]string{
	"declaration":           "function",
	"function_definition":   "function",
	"type_definition":       "typedef",
	"enum_specifier":        "enum",
	"preproc_if":            "container",
	"preproc_ifdef":         "container",
	"preproc_else":          "container",
	"preproc_elif":          "container",
	"linkage_specification": "container",
	"declaration_list":      "container",
}

// IsHeaderEntityNode reports whether a node can produce a declaration.
func IsHeaderEntityNode(node *sitter.Node) bool {
	kind := GetHeaderEntityType(node)
	return kind != "" && kind != "container"
}

// IsContainerNode reports whether a node only groups other top-level nodes.
func IsContainerNode(node *sitter.Node) bool {
	return GetHeaderEntityType(node) == "container"
}

// GetHeaderEntityType returns the declaration kind for a tree-sitter node,
// or an empty string if the node is not recognized.
func GetHeaderEntityType(node *sitter.Node) string {
	if node == nil {
		return ""
	}
	return HeaderNodeTypes[node.Type()]
}
