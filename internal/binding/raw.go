package binding

import (
	"fmt"
	"strings"

	"github.com/nats-io/bindgen/internal/decl"
)

// RawParameter is a normalized parameter.
type RawParameter struct {
	Type         string
	Name         string
	ElementCount int
}

// PlainType returns the type with every pointer marker removed.
func (p RawParameter) PlainType() string {
	return strings.TrimSpace(strings.ReplaceAll(p.Type, "*", ""))
}

// PointerDepth counts the levels of pointer indirection in the spelling.
func (p RawParameter) PointerDepth() int {
	return strings.Count(p.Type, "*")
}

// IsConst reports whether the spelling starts with a const qualifier.
func (p RawParameter) IsConst() bool {
	return strings.HasPrefix(p.Type, "const ")
}

// Declaration renders the parameter as it appears in a parameter list,
// e.g. "const char * subject" or "char buf[8]".
func (p RawParameter) Declaration() string {
	array := ""
	if p.ElementCount > 0 {
		array = fmt.Sprintf("[%d]", p.ElementCount)
	}
	return strings.TrimSpace(fmt.Sprintf("%s %s%s", p.Type, p.Name, array))
}

// RawFunction is a normalized function declaration.
type RawFunction struct {
	OriginalName    string
	ResultType      string
	RaisesOnFailure bool
	Parameters      []RawParameter
	NamespacePrefix string
	TypeSegment     string
	ShortName       string
	Comment         decl.Comment
}

// RawTypedef is a plain type alias.
type RawTypedef struct {
	Name    string
	Comment decl.Comment
}

// RawEnum is an enumeration type.
type RawEnum struct {
	Name    string
	Comment decl.Comment
}

// RawFunctionTypedef is a function-pointer typedef.
type RawFunctionTypedef struct {
	OriginalName         string
	ResultType           string
	Parameters           []RawParameter
	HasClosureConvention bool
	Comment              decl.Comment
}

// Declarations is the output of Normalize, one ordered list per kind.
type Declarations struct {
	Functions        []RawFunction
	Typedefs         []RawTypedef
	Enums            []RawEnum
	FunctionTypedefs []RawFunctionTypedef
}
