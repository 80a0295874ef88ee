package binding

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tliron/commonlog"

	"github.com/nats-io/bindgen/internal/decl"
)

var log = commonlog.GetLogger("bindgen.binding")

// ErrInvariant is wrapped by every error reporting a broken model invariant.
var ErrInvariant = errors.New("model invariant violated")

// DuplicateDestructorError reports a type with more than one destructor.
type DuplicateDestructorError struct {
	TypeName string
	Count    int
}

func (e *DuplicateDestructorError) Error() string {
	return fmt.Sprintf("type %s has %d destructors, expected exactly one", e.TypeName, e.Count)
}

func (e *DuplicateDestructorError) Unwrap() error {
	return ErrInvariant
}

// DiagnosticKind names a non-fatal finding recorded during Build.
type DiagnosticKind string

// ConstructorSignalMismatch is recorded when the constructor name suffix and
// the constructed-receiver parameter shape disagree.
const ConstructorSignalMismatch DiagnosticKind = "constructor_signal_mismatch"

// Diagnostic is a non-fatal finding attached to the model.
type Diagnostic struct {
	Kind     DiagnosticKind
	Function string
	Class    string
	Detail   string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: %s (%s): %s", d.Kind, d.Function, d.Class, d.Detail)
}

// Model is the complete binding model for one header.
type Model struct {
	Namespaces  []*Namespace
	Diagnostics []Diagnostic
}

// Namespace returns the namespace with the given prefix.
func (m *Model) Namespace(name string) (*Namespace, bool) {
	for _, ns := range m.Namespaces {
		if ns.Name == name {
			return ns, true
		}
	}
	return nil, false
}

// Build normalizes the declaration stream and groups it into namespaces,
// classes and callbacks. It never returns a partial model.
func Build(nodes []decl.Node, conv NamingConvention) (*Model, error) {
	if err := conv.Validate(); err != nil {
		return nil, err
	}
	return BuildDeclarations(Normalize(nodes, conv), conv)
}

// BuildDeclarations groups already normalized declarations.
func BuildDeclarations(d *Declarations, conv NamingConvention) (*Model, error) {
	if err := checkDestructors(d, conv); err != nil {
		return nil, err
	}

	functionNames := make(map[string]bool, len(d.Functions))
	for _, fn := range d.Functions {
		functionNames[fn.OriginalName] = true
	}

	callbacks := make(map[string]bool)
	for _, td := range d.FunctionTypedefs {
		if td.HasClosureConvention {
			callbacks[td.OriginalName] = true
		}
	}

	model := &Model{}
	var classes []*ClassBinding

	for _, prefix := range conv.Namespaces {
		ns := &Namespace{Name: prefix.Prefix, BuildGuard: prefix.BuildGuard}

		for _, td := range d.FunctionTypedefs {
			if !strings.HasPrefix(td.OriginalName, ns.Name) {
				continue
			}
			if desc, ok := BuildCallback(td, conv); ok {
				ns.CallbackDescriptors = append(ns.CallbackDescriptors, desc)
			} else {
				ns.OpaqueTypedefs = append(ns.OpaqueTypedefs, td)
			}
		}

		for _, e := range d.Enums {
			if strings.HasPrefix(e.Name, ns.Name) {
				ns.Enums = append(ns.Enums, e)
			}
		}

		for _, td := range d.Typedefs {
			if !strings.HasPrefix(td.Name, ns.Name) {
				continue
			}
			if functionNames[td.Name+conv.DestructorSuffix] {
				c := newClass(td, ns.Name, conv)
				ns.Classes = append(ns.Classes, c)
				classes = append(classes, c)
			} else {
				ns.Aliases = append(ns.Aliases, td)
			}
		}

		for _, fn := range d.Functions {
			if !strings.HasPrefix(fn.OriginalName, ns.Name) {
				continue
			}
			owner := ownerOf(fn, classes)
			if owner == nil {
				ns.FreeFunctions = append(ns.FreeFunctions, newGlobalFunction(fn))
				continue
			}

			m, diag := classifyMethod(fn, owner, callbacks, conv)
			owner.Methods = append(owner.Methods, m)
			if diag != nil {
				log.Warning("constructor signals disagree",
					"function", diag.Function, "class", diag.Class, "detail", diag.Detail)
				model.Diagnostics = append(model.Diagnostics, *diag)
			}
		}

		log.Debug("namespace built",
			"namespace", ns.Name,
			"classes", len(ns.Classes),
			"functions", len(ns.FreeFunctions),
			"callbacks", len(ns.CallbackDescriptors))
		model.Namespaces = append(model.Namespaces, ns)
	}

	return model, nil
}

// ownerOf returns the first class, in creation order, whose type name
// prefixes the function name.
func ownerOf(fn RawFunction, classes []*ClassBinding) *ClassBinding {
	for _, c := range classes {
		if strings.HasPrefix(fn.OriginalName, c.OriginalTypeName) {
			return c
		}
	}
	return nil
}

func checkDestructors(d *Declarations, conv NamingConvention) error {
	counts := make(map[string]int)
	for _, fn := range d.Functions {
		counts[fn.OriginalName]++
	}
	for _, td := range d.Typedefs {
		if n := counts[td.Name+conv.DestructorSuffix]; n > 1 {
			return &DuplicateDestructorError{TypeName: td.Name, Count: n}
		}
	}
	return nil
}
