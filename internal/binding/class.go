package binding

import "github.com/nats-io/bindgen/internal/decl"

// ClassBinding is an opaque handle type promoted to a wrapper class because
// a matching destructor exists.
type ClassBinding struct {
	OriginalTypeName string
	ShortName        string
	Namespace        string
	Methods          []MethodBinding
	Comment          decl.Comment
}

// Constructors returns the methods flagged as constructors, in declaration order.
func (c *ClassBinding) Constructors() []MethodBinding {
	var out []MethodBinding
	for _, m := range c.Methods {
		if m.IsConstructor {
			out = append(out, m)
		}
	}
	return out
}

// Destructor returns the class destructor, or nil for a class built by hand
// without one.
func (c *ClassBinding) Destructor() *MethodBinding {
	for i := range c.Methods {
		if c.Methods[i].IsDestructor {
			return &c.Methods[i]
		}
	}
	return nil
}

// Members returns the methods that are neither constructors nor destructors.
func (c *ClassBinding) Members() []MethodBinding {
	var out []MethodBinding
	for _, m := range c.Methods {
		if !m.IsConstructor && !m.IsDestructor {
			out = append(out, m)
		}
	}
	return out
}

func newClass(td RawTypedef, ns string, conv NamingConvention) *ClassBinding {
	return &ClassBinding{
		OriginalTypeName: td.Name,
		ShortName:        conv.stripPrefix(td.Name),
		Namespace:        ns,
		Comment:          td.Comment,
	}
}
