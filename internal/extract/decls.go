package extract

import (
	"path/filepath"
	"strconv"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/nats-io/bindgen/internal/decl"
	"github.com/nats-io/bindgen/internal/parser"
)

// DeclExtractor turns a parsed C header into the declaration stream consumed
// by the binding builder.
type DeclExtractor struct {
	result   *parser.ParseResult
	basePath string
}

// NewDeclExtractor creates an extractor for the given parse result.
func NewDeclExtractor(result *parser.ParseResult) *DeclExtractor {
	return &DeclExtractor{
		result: result,
	}
}

// NewDeclExtractorWithBase creates an extractor that records positions
// relative to basePath.
func NewDeclExtractorWithBase(result *parser.ParseResult, basePath string) *DeclExtractor {
	return &DeclExtractor{
		result:   result,
		basePath: basePath,
	}
}

// Extract walks the top level of the header in source order. It descends into
// every arm of preprocessor conditionals and into linkage blocks but never
// into bodies. A declaration repeated in another arm, e.g. a platform
// specific prototype under #ifdef/#else, is kept once at its first position.
func (e *DeclExtractor) Extract() []decl.Node {
	if e.result == nil || e.result.Root == nil {
		return nil
	}
	var nodes []decl.Node
	e.walkTopLevel(e.result.Root, &nodes)
	return dedupe(nodes)
}

// dedupe drops every node whose kind and name were already seen.
func dedupe(nodes []decl.Node) []decl.Node {
	type key struct {
		kind decl.Kind
		name string
	}
	seen := make(map[key]bool, len(nodes))
	out := nodes[:0]
	for _, n := range nodes {
		k := key{n.Kind, n.Name}
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, n)
	}
	return out
}

func (e *DeclExtractor) walkTopLevel(container *sitter.Node, out *[]decl.Node) {
	for i := 0; i < int(container.NamedChildCount()); i++ {
		child := container.NamedChild(i)

		switch {
		case parser.IsContainerNode(child):
			e.walkTopLevel(child, out)
		case parser.IsHeaderEntityNode(child):
			e.emit(child, out)
		}
	}
}

func (e *DeclExtractor) emit(node *sitter.Node, out *[]decl.Node) {
	var n *decl.Node
	switch node.Type() {
	case "declaration", "function_definition":
		n = e.function(node)
	case "type_definition":
		n = e.typedef(node)
	case "enum_specifier":
		n = e.enum(node)
	}
	if n == nil {
		return
	}
	n.Comment = e.docComment(node)
	n.Pos = e.position(node)
	*out = append(*out, *n)
}

// function handles prototypes and definitions. Variable declarations yield nil.
func (e *DeclExtractor) function(node *sitter.Node) *decl.Node {
	declarator := node.ChildByFieldName("declarator")
	if declarator == nil {
		return nil
	}
	fn, depth := unwrapPointers(declarator)
	if fn == nil || fn.Type() != "function_declarator" {
		return nil
	}

	name := e.declaratorName(fn.ChildByFieldName("declarator"))
	if name == "" {
		return nil
	}

	return &decl.Node{
		Kind:   decl.KindFunction,
		Name:   name,
		Type:   decl.Type{Spelling: spell(e.baseType(node), depth)},
		Params: e.parameters(fn.ChildByFieldName("parameters")),
	}
}

// typedef reproduces the child layout a C compiler front-end reports:
// no children for an opaque struct or builtin, one type-ref child for a
// named type or struct with a body, one enum child for an enum body, and a
// type-ref result child (omitted for builtin results) followed by parameter
// children for a function pointer.
func (e *DeclExtractor) typedef(node *sitter.Node) *decl.Node {
	typ := node.ChildByFieldName("type")
	declarator := node.ChildByFieldName("declarator")
	if typ == nil || declarator == nil {
		return nil
	}

	inner, depth := unwrapPointers(declarator)
	if inner != nil && inner.Type() == "parenthesized_declarator" {
		return nil
	}
	if inner != nil && inner.Type() == "function_declarator" {
		return e.functionTypedef(node, inner, depth)
	}

	name := e.declaratorName(declarator)
	if name == "" {
		return nil
	}
	n := &decl.Node{Kind: decl.KindTypedef, Name: name}
	base := e.baseType(node)

	switch typ.Type() {
	case "enum_specifier":
		if typ.ChildByFieldName("body") != nil {
			n.Children = []decl.Node{{Kind: decl.KindEnum, Name: e.nodeText(typ.ChildByFieldName("name"))}}
		} else {
			n.Children = []decl.Node{typeRef(spell(base, depth))}
		}
	case "struct_specifier", "union_specifier":
		if typ.ChildByFieldName("body") != nil || depth > 0 {
			n.Children = []decl.Node{typeRef(spell(e.recordName(typ, name), depth))}
		}
	case "type_identifier":
		n.Children = []decl.Node{typeRef(spell(base, depth))}
	}
	return n
}

func (e *DeclExtractor) functionTypedef(node, fn *sitter.Node, resultDepth int) *decl.Node {
	name := e.declaratorName(fn.ChildByFieldName("declarator"))
	if name == "" {
		return nil
	}
	n := &decl.Node{Kind: decl.KindTypedef, Name: name}

	typ := node.ChildByFieldName("type")
	if typ != nil && typ.Type() != "primitive_type" && typ.Type() != "sized_type_specifier" {
		n.Children = append(n.Children, typeRef(spell(e.baseType(node), resultDepth)))
	}
	for _, p := range e.parameters(fn.ChildByFieldName("parameters")) {
		n.Children = append(n.Children, decl.Node{Kind: decl.KindParam, Name: p.Name, Type: p.Type})
	}
	return n
}

// enum handles a named enum declared at top level. Anonymous enums and
// forward declarations yield nil.
func (e *DeclExtractor) enum(node *sitter.Node) *decl.Node {
	name := node.ChildByFieldName("name")
	if name == nil || node.ChildByFieldName("body") == nil {
		return nil
	}
	return &decl.Node{Kind: decl.KindEnum, Name: e.nodeText(name)}
}

func (e *DeclExtractor) parameters(list *sitter.Node) []decl.Param {
	if list == nil {
		return nil
	}

	var params []decl.Param
	for i := 0; i < int(list.NamedChildCount()); i++ {
		child := list.NamedChild(i)
		switch child.Type() {
		case "parameter_declaration":
			params = append(params, e.parameter(child))
		case "variadic_parameter":
			params = append(params, decl.Param{Name: "", Type: decl.Type{Spelling: "..."}})
		}
	}

	// f(void) declares no parameters.
	if len(params) == 1 && params[0].Name == "" && params[0].Type.Spelling == "void" {
		return nil
	}
	return params
}

func (e *DeclExtractor) parameter(node *sitter.Node) decl.Param {
	base := e.baseType(node)
	declarator := node.ChildByFieldName("declarator")
	if declarator == nil {
		return decl.Param{Type: decl.Type{Spelling: base}}
	}

	inner, depth := unwrapPointers(declarator)
	if inner != nil && inner.Type() == "array_declarator" {
		elemInner, elemDepth := unwrapPointers(inner.ChildByFieldName("declarator"))
		elem := spell(base, depth+elemDepth)
		p := decl.Param{Name: e.declaratorName(elemInner)}
		size, err := strconv.Atoi(strings.TrimSpace(e.nodeText(inner.ChildByFieldName("size"))))
		if err != nil || size <= 0 {
			// Unsized and macro-sized arrays decay to pointers.
			p.Type = decl.Type{Spelling: spell(base, depth+elemDepth+1)}
			return p
		}
		p.Type = decl.Type{Spelling: elem + " [" + strconv.Itoa(size) + "]", Elem: elem, Len: size}
		return p
	}

	return decl.Param{
		Name: e.declaratorName(inner),
		Type: decl.Type{Spelling: spell(base, depth)},
	}
}

// baseType joins the leading qualifiers and the type specifier of a
// declaration, e.g. "const char".
func (e *DeclExtractor) baseType(node *sitter.Node) string {
	var parts []string
	typ := node.ChildByFieldName("type")
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		if child.Type() == "type_qualifier" && child.StartByte() < typeStart(typ) {
			parts = append(parts, e.nodeText(child))
		}
	}
	if typ != nil {
		parts = append(parts, strings.Join(strings.Fields(e.nodeText(typ)), " "))
	}
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		if child.Type() == "type_qualifier" && typ != nil && child.StartByte() > typ.StartByte() {
			parts = append(parts, e.nodeText(child))
		}
	}
	if len(parts) == 0 {
		return "int"
	}
	return strings.Join(parts, " ")
}

// recordName spells a struct or union without its body, falling back to the
// typedef name for anonymous records.
func (e *DeclExtractor) recordName(typ *sitter.Node, typedefName string) string {
	keyword := strings.TrimSuffix(typ.Type(), "_specifier")
	if tag := typ.ChildByFieldName("name"); tag != nil {
		return keyword + " " + e.nodeText(tag)
	}
	return typedefName
}

// declaratorName digs the identifier out of a declarator.
func (e *DeclExtractor) declaratorName(node *sitter.Node) string {
	for node != nil {
		switch node.Type() {
		case "identifier", "type_identifier", "field_identifier":
			return e.nodeText(node)
		case "parenthesized_declarator":
			node = node.NamedChild(0)
		default:
			node = node.ChildByFieldName("declarator")
		}
	}
	return ""
}

func (e *DeclExtractor) position(node *sitter.Node) decl.Position {
	return decl.Position{
		File: e.filePath(),
		Line: node.StartPoint().Row + 1,
	}
}

// filePath returns the source path, relative to basePath when one is set.
func (e *DeclExtractor) filePath() string {
	if e.basePath != "" {
		return NormalizePath(e.result.FilePath, e.basePath)
	}
	return e.result.FilePath
}

// NormalizePath makes path relative to basePath when possible.
func NormalizePath(path, basePath string) string {
	if basePath == "" {
		return filepath.Clean(path)
	}
	rel, err := filepath.Rel(basePath, path)
	if err != nil {
		return filepath.Clean(path)
	}
	return rel
}

func (e *DeclExtractor) nodeText(node *sitter.Node) string {
	return e.result.NodeText(node)
}

// unwrapPointers strips pointer and parenthesized-pointer declarators,
// returning the first other declarator and the number of pointer levels
// removed. The function-pointer declarator "(*name)" is left intact.
func unwrapPointers(node *sitter.Node) (*sitter.Node, int) {
	depth := 0
	for node != nil {
		switch node.Type() {
		case "pointer_declarator", "abstract_pointer_declarator":
			depth++
			node = node.ChildByFieldName("declarator")
		default:
			return node, depth
		}
	}
	return nil, depth
}

// spell renders a pointer type the way clang prints it: "natsMsg **".
func spell(base string, depth int) string {
	if depth == 0 {
		return base
	}
	return base + " " + strings.Repeat("*", depth)
}

func typeRef(spelling string) decl.Node {
	return decl.Node{Kind: decl.KindTypeRef, Name: spelling, Type: decl.Type{Spelling: spelling}}
}

// typeStart is the offset of the type specifier, or the end of the address
// space when there is none.
func typeStart(n *sitter.Node) uint32 {
	if n == nil {
		return ^uint32(0)
	}
	return n.StartByte()
}
