package binding

import "fmt"

// RoleKind names a parameter role.
type RoleKind string

const (
	RoleReceiver            RoleKind = "receiver"
	RoleConstructedReceiver RoleKind = "constructed_receiver"
	RoleTemporaryOutput     RoleKind = "temporary_output"
	RoleCallback            RoleKind = "callback"
	RolePlain               RoleKind = "plain"
)

// Role is the classification of a method parameter. The set of
// implementations is closed: Receiver, ConstructedReceiver, TemporaryOutput,
// Callback and Plain.
type Role interface {
	Kind() RoleKind
	sealed()
}

// Receiver is the instance the method is invoked on.
type Receiver struct {
	Const bool
}

// ConstructedReceiver is the address a constructor writes the new instance to.
type ConstructedReceiver struct{}

// TemporaryOutput is the address of a new object of another class, returned
// as the method result.
type TemporaryOutput struct {
	Class string
}

// Callback is a closure-convention function pointer bound to a template slot.
type Callback struct {
	Slot TemplateParameter
}

// Plain is forwarded unchanged. ForwardType differs from the declared type
// only for the closure slot that follows a callback.
type Plain struct {
	ForwardType string
	ClosureSlot bool
}

func (Receiver) Kind() RoleKind            { return RoleReceiver }
func (ConstructedReceiver) Kind() RoleKind { return RoleConstructedReceiver }
func (TemporaryOutput) Kind() RoleKind     { return RoleTemporaryOutput }
func (Callback) Kind() RoleKind            { return RoleCallback }
func (Plain) Kind() RoleKind               { return RolePlain }

func (Receiver) sealed()            {}
func (ConstructedReceiver) sealed() {}
func (TemporaryOutput) sealed()     {}
func (Callback) sealed()            {}
func (Plain) sealed()               {}

// IsImplicit reports whether the role is hidden from every generated
// parameter list.
func IsImplicit(r Role) bool {
	switch r.(type) {
	case Receiver, ConstructedReceiver, TemporaryOutput:
		return true
	case Callback, Plain:
		return false
	default:
		panic(fmt.Sprintf("binding: unknown role %T", r))
	}
}

// TemplateParameter is a generic type slot introduced for a callback parameter.
type TemplateParameter struct {
	Name              string
	Index             int
	Callback          string
	QualifiedCallback string
}

// Declaration renders the slot pair used in a template header,
// e.g. "typename T1, MsgHandler<T1> callback1".
func (t TemplateParameter) Declaration() string {
	return fmt.Sprintf("typename %s, %s<%s> callback%d", t.Name, t.QualifiedCallback, t.Name, t.Index)
}

// Adapter renders the adapter expression passed to the C function in place
// of the callback, e.g. "&MsgHandlerCallback<T1, callback1>".
func (t TemplateParameter) Adapter() string {
	return fmt.Sprintf("&%sCallback<%s, callback%d>", t.QualifiedCallback, t.Name, t.Index)
}

// ClassifiedParameter pairs a parameter with its role.
type ClassifiedParameter struct {
	Param RawParameter
	Role  Role
}

// Argument is the expression passed for this parameter in the raw C call.
func (c ClassifiedParameter) Argument() string {
	switch c.Role.(type) {
	case Receiver:
		return "self"
	case ConstructedReceiver:
		return "&self"
	case TemporaryOutput:
		return "&ret.self"
	case Callback, Plain:
		return c.Param.Name
	default:
		panic(fmt.Sprintf("binding: unknown role %T", c.Role))
	}
}
