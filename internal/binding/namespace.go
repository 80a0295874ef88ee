package binding

import (
	"fmt"
	"strings"

	"github.com/nats-io/bindgen/internal/decl"
)

// GlobalFunctionBinding is a function not owned by any class.
type GlobalFunctionBinding struct {
	ShortName       string
	OriginalName    string
	ResultType      string
	RaisesOnFailure bool
	Parameters      []RawParameter
	Comment         decl.Comment
}

// Arguments joins the parameter names.
func (g *GlobalFunctionBinding) Arguments() string {
	parts := make([]string, 0, len(g.Parameters))
	for _, p := range g.Parameters {
		parts = append(parts, p.Name)
	}
	return strings.Join(parts, ", ")
}

// DeclaredParameters joins the parameter declarations.
func (g *GlobalFunctionBinding) DeclaredParameters() string {
	parts := make([]string, 0, len(g.Parameters))
	for _, p := range g.Parameters {
		parts = append(parts, p.Declaration())
	}
	return strings.Join(parts, ", ")
}

// Invocation renders the raw C call.
func (g *GlobalFunctionBinding) Invocation() string {
	return fmt.Sprintf("%s(%s)", g.OriginalName, g.Arguments())
}

func newGlobalFunction(fn RawFunction) GlobalFunctionBinding {
	return GlobalFunctionBinding{
		ShortName:       fn.ShortName,
		OriginalName:    fn.OriginalName,
		ResultType:      fn.ResultType,
		RaisesOnFailure: fn.RaisesOnFailure,
		Parameters:      fn.Parameters,
		Comment:         fn.Comment,
	}
}

// Namespace groups everything generated for one prefix.
type Namespace struct {
	Name                string
	BuildGuard          string
	Classes             []*ClassBinding
	FreeFunctions       []GlobalFunctionBinding
	CallbackDescriptors []*CallbackDescriptor
	Aliases             []RawTypedef
	Enums               []RawEnum
	OpaqueTypedefs      []RawFunctionTypedef
}

// Class returns the class with the given original type name.
func (n *Namespace) Class(originalTypeName string) (*ClassBinding, bool) {
	for _, c := range n.Classes {
		if c.OriginalTypeName == originalTypeName {
			return c, true
		}
	}
	return nil, false
}

// Callback returns the descriptor with the given typedef name.
func (n *Namespace) Callback(originalName string) (*CallbackDescriptor, bool) {
	for _, d := range n.CallbackDescriptors {
		if d.OriginalName == originalName {
			return d, true
		}
	}
	return nil, false
}
