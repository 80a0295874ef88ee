package binding

import (
	"fmt"
	"strings"

	"github.com/nats-io/bindgen/internal/decl"
)

// MethodBinding is a function owned by a class.
type MethodBinding struct {
	ShortName          string
	OriginalName       string
	Namespace          string
	IsConstructor      bool
	IsDestructor       bool
	IsConst            bool
	RaisesOnFailure    bool
	ResultType         string
	Parameters         []ClassifiedParameter
	TemplateParameters []TemplateParameter
	Comment            decl.Comment
}

// Arguments joins the raw C call arguments, implicit receivers included.
func (m *MethodBinding) Arguments() string {
	parts := make([]string, 0, len(m.Parameters))
	for _, p := range m.Parameters {
		parts = append(parts, p.Argument())
	}
	return strings.Join(parts, ", ")
}

// DeclaredParameters joins the callback and plain parameters as declared.
func (m *MethodBinding) DeclaredParameters() string {
	var parts []string
	for _, p := range m.Parameters {
		if !IsImplicit(p.Role) {
			parts = append(parts, p.Param.Declaration())
		}
	}
	return strings.Join(parts, ", ")
}

// PublicParameters lists the plain parameters a caller supplies directly:
// implicit receivers, callbacks and the closure slot a callback consumes are
// all excluded.
func (m *MethodBinding) PublicParameters() []RawParameter {
	var params []RawParameter
	for _, p := range m.Parameters {
		if plain, ok := p.Role.(Plain); ok && !plain.ClosureSlot {
			params = append(params, p.Param)
		}
	}
	return params
}

// ForwardParameters joins the parameters of the templated overload: callbacks
// become template arguments and the closure slot takes the template type.
func (m *MethodBinding) ForwardParameters() string {
	var parts []string
	for _, p := range m.Parameters {
		if plain, ok := p.Role.(Plain); ok {
			fp := p.Param
			fp.Type = plain.ForwardType
			parts = append(parts, fp.Declaration())
		}
	}
	return strings.Join(parts, ", ")
}

// ForwardArguments joins the raw C call arguments of the templated overload.
func (m *MethodBinding) ForwardArguments() string {
	parts := make([]string, 0, len(m.Parameters))
	for _, p := range m.Parameters {
		if cb, ok := p.Role.(Callback); ok {
			parts = append(parts, cb.Slot.Adapter())
			continue
		}
		parts = append(parts, p.Argument())
	}
	return strings.Join(parts, ", ")
}

// ReturnsTemporary reports whether the result is a new object written
// through a temporary output parameter.
func (m *MethodBinding) ReturnsTemporary() bool {
	for _, p := range m.Parameters {
		if _, ok := p.Role.(TemporaryOutput); ok {
			return true
		}
	}
	return false
}

// TemplateParameterList joins the template header entries.
func (m *MethodBinding) TemplateParameterList() string {
	parts := make([]string, 0, len(m.TemplateParameters))
	for _, t := range m.TemplateParameters {
		parts = append(parts, t.Declaration())
	}
	return strings.Join(parts, ", ")
}

// Invocation renders the raw C call.
func (m *MethodBinding) Invocation() string {
	return fmt.Sprintf("%s(%s)", m.OriginalName, m.Arguments())
}

// ForwardInvocation renders the raw C call of the templated overload.
func (m *MethodBinding) ForwardInvocation() string {
	return fmt.Sprintf("%s(%s)", m.OriginalName, m.ForwardArguments())
}

// classifyContext is the read-only input shared by every parameter of one method.
type classifyContext struct {
	class     *ClassBinding
	namespace string
	callbacks map[string]bool
	conv      NamingConvention
}

// classifyAcc threads template numbering through the parameter fold.
type classifyAcc struct {
	slots   []TemplateParameter
	pending string
}

// classifyParam evaluates the role of one parameter.
func classifyParam(p RawParameter, ctx classifyContext, acc classifyAcc) (Role, classifyAcc) {
	if strings.HasPrefix(strings.ReplaceAll(p.Type, "const ", ""), ctx.class.OriginalTypeName) {
		if p.PointerDepth() == 2 {
			return ConstructedReceiver{}, acc
		}
		return Receiver{Const: p.IsConst()}, acc
	}

	if p.PointerDepth() == 2 && strings.HasPrefix(p.Type, ctx.class.Namespace) {
		return TemporaryOutput{Class: strings.TrimPrefix(p.PlainType(), ctx.class.Namespace)}, acc
	}

	if ctx.callbacks[p.Type] {
		slot := TemplateParameter{
			Name:              fmt.Sprintf("T%d", len(acc.slots)+1),
			Index:             len(acc.slots) + 1,
			Callback:          p.Type,
			QualifiedCallback: qualifyCallback(p.Type, ctx.namespace, ctx.conv),
		}
		acc.slots = append(acc.slots[:len(acc.slots):len(acc.slots)], slot)
		acc.pending = slot.Name
		return Callback{Slot: slot}, acc
	}

	plain := Plain{ForwardType: p.Type}
	if acc.pending != "" {
		plain.ForwardType = strings.ReplaceAll(p.Type, "void", acc.pending)
		plain.ClosureSlot = true
		acc.pending = ""
	}
	return plain, acc
}

func qualifyCallback(typeName, namespace string, conv NamingConvention) string {
	short := conv.stripPrefix(typeName)
	if len(typeName) < conv.PrefixLength {
		return short
	}
	if ns := typeName[:conv.PrefixLength]; ns != namespace {
		return ns + "::" + short
	}
	return short
}

// classifyMethod builds the binding for a function owned by class.
func classifyMethod(fn RawFunction, class *ClassBinding, callbacks map[string]bool, conv NamingConvention) (MethodBinding, *Diagnostic) {
	m := MethodBinding{
		ShortName:       fn.ShortName,
		OriginalName:    fn.OriginalName,
		Namespace:       fn.NamespacePrefix,
		IsConstructor:   conv.IsConstructorName(fn.OriginalName),
		IsDestructor:    conv.IsDestructorName(fn.OriginalName),
		RaisesOnFailure: fn.RaisesOnFailure,
		ResultType:      fn.ResultType,
		Comment:         fn.Comment,
	}

	ctx := classifyContext{class: class, namespace: fn.NamespacePrefix, callbacks: callbacks, conv: conv}
	acc := classifyAcc{}
	constructedReceiver := false

	for _, p := range fn.Parameters {
		var role Role
		role, acc = classifyParam(p, ctx, acc)

		switch r := role.(type) {
		case ConstructedReceiver:
			constructedReceiver = true
		case Receiver:
			m.IsConst = r.Const
		case TemporaryOutput:
			m.ResultType = r.Class
		}
		m.Parameters = append(m.Parameters, ClassifiedParameter{Param: p, Role: role})
	}
	m.TemplateParameters = acc.slots

	var diag *Diagnostic
	if constructedReceiver != m.IsConstructor {
		diag = &Diagnostic{
			Kind:     ConstructorSignalMismatch,
			Function: fn.OriginalName,
			Class:    class.OriginalTypeName,
			Detail:   constructorMismatchDetail(m.IsConstructor, conv),
		}
	}
	m.IsConstructor = m.IsConstructor || constructedReceiver

	return m, diag
}

func constructorMismatchDetail(named bool, conv NamingConvention) string {
	if named {
		return fmt.Sprintf("name ends with %q but no parameter receives a new instance", conv.ConstructorSuffix)
	}
	return fmt.Sprintf("parameter receives a new instance but name does not end with %q", conv.ConstructorSuffix)
}
