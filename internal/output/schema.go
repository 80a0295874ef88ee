package output

import (
	"github.com/nats-io/bindgen/internal/binding"
	"github.com/nats-io/bindgen/internal/decl"
)

// ModelView is the serializable form of a binding.Model.
type ModelView struct {
	// Namespaces in configuration order
	Namespaces []NamespaceView `yaml:"namespaces" json:"namespaces"`

	// Diagnostics are non-fatal findings (dense mode only)
	Diagnostics []DiagnosticView `yaml:"diagnostics,omitempty" json:"diagnostics,omitempty"`
}

// NamespaceView is one generated namespace.
type NamespaceView struct {
	Name string `yaml:"name" json:"name"`

	// BuildGuard is the preprocessor condition the namespace is wrapped in
	// Example: "defined(NATS_HAS_STREAMING)"
	BuildGuard string `yaml:"build_guard,omitempty" json:"build_guard,omitempty"`

	Classes   []ClassView    `yaml:"classes,omitempty" json:"classes,omitempty"`
	Functions []FunctionView `yaml:"functions,omitempty" json:"functions,omitempty"`
	Callbacks []CallbackView `yaml:"callbacks,omitempty" json:"callbacks,omitempty"`

	// Aliases, Enums and OpaqueTypedefs are carried by name only
	Aliases        []string `yaml:"aliases,omitempty" json:"aliases,omitempty"`
	Enums          []string `yaml:"enums,omitempty" json:"enums,omitempty"`
	OpaqueTypedefs []string `yaml:"opaque_typedefs,omitempty" json:"opaque_typedefs,omitempty"`
}

// ClassView is a promoted class.
type ClassView struct {
	// Name is the short name, e.g. "Connection"
	Name string `yaml:"name" json:"name"`

	// Type is the C type name, e.g. "natsConnection"
	Type string `yaml:"type" json:"type"`

	Doc     string       `yaml:"doc,omitempty" json:"doc,omitempty"`
	Methods []MethodView `yaml:"methods,omitempty" json:"methods,omitempty"`
}

// MethodView is a method of a promoted class.
type MethodView struct {
	Name     string `yaml:"name" json:"name"`
	Function string `yaml:"function" json:"function"`

	Result      string `yaml:"result,omitempty" json:"result,omitempty"`
	Constructor bool   `yaml:"constructor,omitempty" json:"constructor,omitempty"`
	Destructor  bool   `yaml:"destructor,omitempty" json:"destructor,omitempty"`
	Const       bool   `yaml:"const,omitempty" json:"const,omitempty"`
	Raises      bool   `yaml:"raises,omitempty" json:"raises,omitempty"`

	// Parameters lists every C parameter with its role
	Parameters []ParameterView `yaml:"parameters,omitempty" json:"parameters,omitempty"`

	// Public lists the parameters a caller supplies directly, as declared
	Public []string `yaml:"public,omitempty" json:"public,omitempty"`

	// Templates lists the generic slots introduced for callbacks
	Templates []TemplateView `yaml:"templates,omitempty" json:"templates,omitempty"`

	// Invocation is the raw C call, e.g. "natsConnection_Flush(self)"
	Invocation string `yaml:"invocation,omitempty" json:"invocation,omitempty"`

	Doc string `yaml:"doc,omitempty" json:"doc,omitempty"`
}

// ParameterView is a classified parameter.
type ParameterView struct {
	Name string `yaml:"name" json:"name"`
	Type string `yaml:"type" json:"type"`

	// Role is one of receiver, constructed_receiver, temporary_output,
	// callback or plain
	Role string `yaml:"role,omitempty" json:"role,omitempty"`

	// Forward is the type in the templated overload when it differs
	Forward string `yaml:"forward,omitempty" json:"forward,omitempty"`

	Length int `yaml:"length,omitempty" json:"length,omitempty"`
}

// TemplateView is a generic slot bound to a callback parameter.
type TemplateView struct {
	Name      string `yaml:"name" json:"name"`
	Callback  string `yaml:"callback" json:"callback"`
	Qualified string `yaml:"qualified" json:"qualified"`
}

// FunctionView is a free function.
type FunctionView struct {
	Name       string          `yaml:"name" json:"name"`
	Function   string          `yaml:"function" json:"function"`
	Result     string          `yaml:"result,omitempty" json:"result,omitempty"`
	Raises     bool            `yaml:"raises,omitempty" json:"raises,omitempty"`
	Parameters []ParameterView `yaml:"parameters,omitempty" json:"parameters,omitempty"`
	Doc        string          `yaml:"doc,omitempty" json:"doc,omitempty"`
}

// CallbackView is a callback descriptor.
type CallbackView struct {
	Name    string `yaml:"name" json:"name"`
	Typedef string `yaml:"typedef" json:"typedef"`
	Result  string `yaml:"result,omitempty" json:"result,omitempty"`

	// Parameters is the adapted handler signature
	Parameters []AdaptedView `yaml:"parameters,omitempty" json:"parameters,omitempty"`

	// Wraps are the non-owning wrapper statements (dense mode only)
	Wraps []string `yaml:"wraps,omitempty" json:"wraps,omitempty"`

	Doc string `yaml:"doc,omitempty" json:"doc,omitempty"`
}

// AdaptedView is one parameter of an adapted callback signature.
type AdaptedView struct {
	Name      string `yaml:"name" json:"name"`
	Mode      string `yaml:"mode" json:"mode"`
	Parameter string `yaml:"parameter" json:"parameter"`
	Argument  string `yaml:"argument" json:"argument"`
}

// DiagnosticView is a non-fatal finding.
type DiagnosticView struct {
	Kind     string `yaml:"kind" json:"kind"`
	Function string `yaml:"function" json:"function"`
	Class    string `yaml:"class" json:"class"`
	Detail   string `yaml:"detail" json:"detail"`
}

// NewModelView converts a model into its serializable form at the given density.
func NewModelView(m *binding.Model, density Density) *ModelView {
	view := &ModelView{Namespaces: make([]NamespaceView, 0, len(m.Namespaces))}

	for _, ns := range m.Namespaces {
		view.Namespaces = append(view.Namespaces, newNamespaceView(ns, density))
	}

	if density.IncludesDocs() {
		for _, d := range m.Diagnostics {
			view.Diagnostics = append(view.Diagnostics, DiagnosticView{
				Kind:     string(d.Kind),
				Function: d.Function,
				Class:    d.Class,
				Detail:   d.Detail,
			})
		}
	}
	return view
}

func newNamespaceView(ns *binding.Namespace, density Density) NamespaceView {
	v := NamespaceView{Name: ns.Name, BuildGuard: ns.BuildGuard}

	for _, c := range ns.Classes {
		cv := ClassView{Name: c.ShortName, Type: c.OriginalTypeName, Doc: doc(c.Comment, density)}
		for i := range c.Methods {
			cv.Methods = append(cv.Methods, newMethodView(&c.Methods[i], density))
		}
		v.Classes = append(v.Classes, cv)
	}

	for i := range ns.FreeFunctions {
		v.Functions = append(v.Functions, newFunctionView(&ns.FreeFunctions[i], density))
	}

	for _, d := range ns.CallbackDescriptors {
		v.Callbacks = append(v.Callbacks, newCallbackView(d, density))
	}

	for _, a := range ns.Aliases {
		v.Aliases = append(v.Aliases, a.Name)
	}
	for _, e := range ns.Enums {
		v.Enums = append(v.Enums, e.Name)
	}
	for _, o := range ns.OpaqueTypedefs {
		v.OpaqueTypedefs = append(v.OpaqueTypedefs, o.OriginalName)
	}
	return v
}

func newMethodView(m *binding.MethodBinding, density Density) MethodView {
	v := MethodView{
		Name:        m.ShortName,
		Function:    m.OriginalName,
		Constructor: m.IsConstructor,
		Destructor:  m.IsDestructor,
		Const:       m.IsConst,
		Raises:      m.RaisesOnFailure,
		Doc:         doc(m.Comment, density),
	}
	if !density.IncludesSignature() {
		return v
	}

	v.Result = m.ResultType
	v.Invocation = m.Invocation()
	for _, p := range m.Parameters {
		pv := parameterView(p.Param)
		pv.Role = string(p.Role.Kind())
		if plain, ok := p.Role.(binding.Plain); ok && plain.ForwardType != p.Param.Type {
			pv.Forward = plain.ForwardType
		}
		v.Parameters = append(v.Parameters, pv)
	}
	for _, p := range m.PublicParameters() {
		v.Public = append(v.Public, p.Declaration())
	}
	for _, t := range m.TemplateParameters {
		v.Templates = append(v.Templates, TemplateView{Name: t.Name, Callback: t.Callback, Qualified: t.QualifiedCallback})
	}
	return v
}

func newFunctionView(f *binding.GlobalFunctionBinding, density Density) FunctionView {
	v := FunctionView{
		Name:     f.ShortName,
		Function: f.OriginalName,
		Raises:   f.RaisesOnFailure,
		Doc:      doc(f.Comment, density),
	}
	if !density.IncludesSignature() {
		return v
	}

	v.Result = f.ResultType
	for _, p := range f.Parameters {
		v.Parameters = append(v.Parameters, parameterView(p))
	}
	return v
}

func newCallbackView(d *binding.CallbackDescriptor, density Density) CallbackView {
	v := CallbackView{Name: d.ShortName, Typedef: d.OriginalName, Doc: doc(d.Comment, density)}
	if !density.IncludesSignature() {
		return v
	}

	v.Result = d.ResultType
	for _, p := range d.AdaptedParameters {
		v.Parameters = append(v.Parameters, AdaptedView{
			Name:      p.Name,
			Mode:      string(p.Mode),
			Parameter: p.Parameter,
			Argument:  p.Argument,
		})
	}
	if density.IncludesDocs() {
		for _, r := range d.WrapRules {
			v.Wraps = append(v.Wraps, r.Statement())
		}
	}
	return v
}

func parameterView(p binding.RawParameter) ParameterView {
	return ParameterView{Name: p.Name, Type: p.Type, Length: p.ElementCount}
}

func doc(c decl.Comment, density Density) string {
	if !density.IncludesDocs() {
		return ""
	}
	if c.Brief != "" {
		return c.Brief
	}
	return c.Raw
}

// DeclarationsView is the serializable form of normalized declarations.
type DeclarationsView struct {
	Functions        []FunctionView        `yaml:"functions,omitempty" json:"functions,omitempty"`
	Typedefs         []string              `yaml:"typedefs,omitempty" json:"typedefs,omitempty"`
	Enums            []string              `yaml:"enums,omitempty" json:"enums,omitempty"`
	FunctionTypedefs []FunctionTypedefView `yaml:"function_typedefs,omitempty" json:"function_typedefs,omitempty"`
}

// FunctionTypedefView is a normalized function-pointer typedef.
type FunctionTypedefView struct {
	Name       string          `yaml:"name" json:"name"`
	Result     string          `yaml:"result" json:"result"`
	Closure    bool            `yaml:"closure,omitempty" json:"closure,omitempty"`
	Parameters []ParameterView `yaml:"parameters,omitempty" json:"parameters,omitempty"`
}

// NewDeclarationsView converts normalized declarations into their
// serializable form.
func NewDeclarationsView(d *binding.Declarations) *DeclarationsView {
	view := &DeclarationsView{}
	for _, fn := range d.Functions {
		fv := FunctionView{Name: fn.ShortName, Function: fn.OriginalName, Result: fn.ResultType, Raises: fn.RaisesOnFailure}
		for _, p := range fn.Parameters {
			fv.Parameters = append(fv.Parameters, parameterView(p))
		}
		view.Functions = append(view.Functions, fv)
	}
	for _, td := range d.Typedefs {
		view.Typedefs = append(view.Typedefs, td.Name)
	}
	for _, e := range d.Enums {
		view.Enums = append(view.Enums, e.Name)
	}
	for _, ft := range d.FunctionTypedefs {
		fv := FunctionTypedefView{Name: ft.OriginalName, Result: ft.ResultType, Closure: ft.HasClosureConvention}
		for _, p := range ft.Parameters {
			fv.Parameters = append(fv.Parameters, parameterView(p))
		}
		view.FunctionTypedefs = append(view.FunctionTypedefs, fv)
	}
	return view
}
