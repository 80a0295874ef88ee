// Package decl defines the declaration stream handed from a C front-end to the
// binding model builder.
//
// A front-end (see package extract) produces an ordered slice of Node values,
// one per top-level declaration, in the order they appear in the header. The
// binding package consumes that slice and never looks at source text.
package decl

// Kind discriminates declaration nodes.
type Kind string

const (
	// KindFunction is a function prototype or definition.
	KindFunction Kind = "function"
	// KindTypedef is a typedef; its Children disambiguate alias, enum and
	// function-pointer typedefs.
	KindTypedef Kind = "typedef"
	// KindEnum is an enum body, either top-level or a typedef child.
	KindEnum Kind = "enum"
	// KindTypeRef is a reference to a named type (typedef child).
	KindTypeRef Kind = "type_ref"
	// KindParam is a parameter (function-pointer typedef child).
	KindParam Kind = "param"
	// KindStruct is a struct body (typedef child).
	KindStruct Kind = "struct"
)

// Type describes the type of a result, parameter or referenced type.
type Type struct {
	// Spelling is the full type as written, e.g. "const natsOptions *".
	Spelling string `json:"spelling" yaml:"spelling"`
	// Elem is the element type spelling when Len > 0.
	Elem string `json:"elem,omitempty" yaml:"elem,omitempty"`
	// Len is the element count of a constant-size array, 0 otherwise.
	Len int `json:"len,omitempty" yaml:"len,omitempty"`
}

// IsArray reports whether t is a constant-size array type.
func (t Type) IsArray() bool {
	return t.Len > 0
}

// Param is one entry of a function parameter list.
type Param struct {
	Name string `json:"name" yaml:"name"`
	Type Type   `json:"type" yaml:"type"`
}

// Comment holds the documentation attached to a declaration.
type Comment struct {
	Brief string `json:"brief,omitempty" yaml:"brief,omitempty"`
	Raw   string `json:"raw,omitempty" yaml:"raw,omitempty"`
}

// Position locates a declaration in its source file.
type Position struct {
	File string `json:"file,omitempty" yaml:"file,omitempty"`
	Line uint32 `json:"line,omitempty" yaml:"line,omitempty"`
}

// Node is a single declaration.
//
// For functions Type is the result type and Params the parameter list. For
// typedefs the meaning lives in Children. For type-ref children Type is the
// referenced type, for param children it is the parameter type.
type Node struct {
	Kind     Kind     `json:"kind" yaml:"kind"`
	Name     string   `json:"name" yaml:"name"`
	Type     Type     `json:"type,omitempty" yaml:"type,omitempty"`
	Params   []Param  `json:"params,omitempty" yaml:"params,omitempty"`
	Children []Node   `json:"children,omitempty" yaml:"children,omitempty"`
	Comment  Comment  `json:"comment,omitempty" yaml:"comment,omitempty"`
	Pos      Position `json:"pos,omitempty" yaml:"pos,omitempty"`
}

// Function builds a function node.
func Function(name string, result string, params ...Param) Node {
	return Node{Kind: KindFunction, Name: name, Type: Type{Spelling: result}, Params: params}
}

// Alias builds a typedef node with no children (an opaque alias).
func Alias(name string) Node {
	return Node{Kind: KindTypedef, Name: name}
}

// FunctionTypedef builds a function-pointer typedef node from a result type
// and parameter list. A void result gets no type-ref child.
func FunctionTypedef(name string, result string, params ...Param) Node {
	n := Node{Kind: KindTypedef, Name: name}
	if result != "" && result != "void" {
		n.Children = append(n.Children, Node{Kind: KindTypeRef, Name: result, Type: Type{Spelling: result}})
	}
	for _, p := range params {
		n.Children = append(n.Children, Node{Kind: KindParam, Name: p.Name, Type: p.Type})
	}
	return n
}

// P builds a parameter with a plain (non-array) type.
func P(typ, name string) Param {
	return Param{Name: name, Type: Type{Spelling: typ}}
}
