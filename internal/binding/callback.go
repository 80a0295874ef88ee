package binding

import (
	"fmt"
	"strings"

	"github.com/nats-io/bindgen/internal/decl"
)

// PassMode says how an adapted callback parameter reaches the user handler.
type PassMode string

const (
	// PassThrough forwards the raw value unchanged.
	PassThrough PassMode = "pass_through"
	// PassByReference wraps a raw handle in a non-owning wrapper passed by reference.
	PassByReference PassMode = "by_reference"
	// PassByMove move-constructs an owning wrapper from the raw handle.
	PassByMove PassMode = "by_move"
)

// AdaptedParameter is one parameter of the user-facing callback signature.
type AdaptedParameter struct {
	Name        string
	WrapperType string
	Mode        PassMode
	// Parameter is the declaration in the adapted signature, e.g. "Connection &".
	Parameter string
	// Argument is the expression passed to the user handler, e.g. "nc_".
	Argument string
}

// WrapRule binds a raw handle to a non-owning wrapper ahead of the user
// callback invocation. The wrapper must not outlive the invocation.
type WrapRule struct {
	ParamName   string
	WrapperType string
	LocalName   string
	Wrapper     string
}

// Statement renders the rule as a single declaration statement body.
func (r WrapRule) Statement() string {
	return fmt.Sprintf("%s::%s %s(%s)", r.WrapperType, r.Wrapper, r.LocalName, r.ParamName)
}

// CallbackDescriptor describes how to adapt a closure-convention
// function-pointer typedef to a user-supplied handler.
type CallbackDescriptor struct {
	OriginalName       string
	Namespace          string
	ShortName          string
	ResultType         string
	OriginalParameters []RawParameter
	AdaptedParameters  []AdaptedParameter
	WrapRules          []WrapRule
	Comment            decl.Comment
}

// Parameters joins the adapted parameter declarations.
func (d *CallbackDescriptor) Parameters() string {
	parts := make([]string, 0, len(d.AdaptedParameters))
	for _, p := range d.AdaptedParameters {
		parts = append(parts, p.Parameter)
	}
	return strings.Join(parts, ", ")
}

// Arguments joins the arguments passed to the user handler.
func (d *CallbackDescriptor) Arguments() string {
	parts := make([]string, 0, len(d.AdaptedParameters))
	for _, p := range d.AdaptedParameters {
		parts = append(parts, p.Argument)
	}
	return strings.Join(parts, ", ")
}

// CallbackParameters joins the raw parameter declarations, closure included.
func (d *CallbackDescriptor) CallbackParameters() string {
	parts := make([]string, 0, len(d.OriginalParameters))
	for _, p := range d.OriginalParameters {
		parts = append(parts, p.Declaration())
	}
	return strings.Join(parts, ", ")
}

// BuildCallback derives a descriptor from a function-pointer typedef.
// It returns false when the typedef does not follow the closure convention.
func BuildCallback(td RawFunctionTypedef, conv NamingConvention) (*CallbackDescriptor, bool) {
	if !td.HasClosureConvention {
		return nil, false
	}

	ns := td.OriginalName
	if len(ns) > conv.PrefixLength {
		ns = ns[:conv.PrefixLength]
	}
	d := &CallbackDescriptor{
		OriginalName:       td.OriginalName,
		Namespace:          ns,
		ShortName:          conv.stripPrefix(td.OriginalName),
		ResultType:         td.ResultType,
		OriginalParameters: td.Parameters,
		Comment:            td.Comment,
	}

	for _, p := range td.Parameters[:len(td.Parameters)-1] {
		d.AdaptedParameters = append(d.AdaptedParameters, adaptParameter(p, ns, conv, d))
	}
	return d, true
}

func adaptParameter(p RawParameter, ns string, conv NamingConvention, d *CallbackDescriptor) AdaptedParameter {
	if !strings.HasPrefix(p.Type, ns) || p.Type == conv.StatusType {
		return AdaptedParameter{
			Name:      p.Name,
			Mode:      PassThrough,
			Parameter: p.Declaration(),
			Argument:  p.Name,
		}
	}

	plain := p.PlainType()
	wrapper := conv.stripPrefix(plain)

	if plain == conv.MoveType {
		return AdaptedParameter{
			Name:        p.Name,
			WrapperType: wrapper,
			Mode:        PassByMove,
			Parameter:   wrapper + " &&",
			Argument:    fmt.Sprintf("%s(%s)", wrapper, p.Name),
		}
	}

	local := p.Name + "_"
	d.WrapRules = append(d.WrapRules, WrapRule{
		ParamName:   p.Name,
		WrapperType: wrapper,
		LocalName:   local,
		Wrapper:     conv.NonOwningWrapper,
	})
	return AdaptedParameter{
		Name:        p.Name,
		WrapperType: wrapper,
		Mode:        PassByReference,
		Parameter:   wrapper + " &",
		Argument:    local,
	}
}
