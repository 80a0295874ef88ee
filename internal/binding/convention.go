package binding

import (
	"errors"
	"fmt"
	"strings"
)

// NamespacePrefix is a recognized declaration prefix and the conditional
// compilation guard its generated namespace is wrapped in, if any.
type NamespacePrefix struct {
	Prefix     string
	BuildGuard string
}

// NamingConvention holds every naming rule the model builder depends on.
type NamingConvention struct {
	Namespaces        []NamespacePrefix
	PrefixLength      int
	ConstructorSuffix string
	DestructorSuffix  string
	ClosureParam      string
	MoveType          string
	StatusType        string
	NonOwningWrapper  string
}

// DefaultConvention returns the convention used by the NATS C client.
func DefaultConvention() NamingConvention {
	return NamingConvention{
		Namespaces: []NamespacePrefix{
			{Prefix: "nats"},
			{Prefix: "stan", BuildGuard: "defined(NATS_HAS_STREAMING)"},
		},
		PrefixLength:      4,
		ConstructorSuffix: "_Create",
		DestructorSuffix:  "_Destroy",
		ClosureParam:      "closure",
		MoveType:          "natsMsg",
		StatusType:        "natsStatus",
		NonOwningWrapper:  "WithoutDestruction",
	}
}

// ErrInvalidConvention is returned by Validate.
var ErrInvalidConvention = errors.New("invalid naming convention")

// Validate checks that the convention is usable.
func (c NamingConvention) Validate() error {
	if c.PrefixLength <= 0 {
		return fmt.Errorf("%w: prefix length must be positive, got %d", ErrInvalidConvention, c.PrefixLength)
	}
	if len(c.Namespaces) == 0 {
		return fmt.Errorf("%w: no namespace prefixes", ErrInvalidConvention)
	}

	seen := make(map[string]bool, len(c.Namespaces))
	for _, ns := range c.Namespaces {
		if len(ns.Prefix) != c.PrefixLength {
			return fmt.Errorf("%w: prefix %q must be %d characters", ErrInvalidConvention, ns.Prefix, c.PrefixLength)
		}
		if seen[ns.Prefix] {
			return fmt.Errorf("%w: duplicate prefix %q", ErrInvalidConvention, ns.Prefix)
		}
		seen[ns.Prefix] = true
	}

	required := []struct{ field, value string }{
		{"constructor suffix", c.ConstructorSuffix},
		{"destructor suffix", c.DestructorSuffix},
		{"closure parameter", c.ClosureParam},
		{"move type", c.MoveType},
		{"status type", c.StatusType},
		{"non-owning wrapper", c.NonOwningWrapper},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return fmt.Errorf("%w: %s must not be empty", ErrInvalidConvention, r.field)
		}
	}

	return nil
}

// Recognizes reports whether name starts with one of the namespace prefixes.
func (c NamingConvention) Recognizes(name string) bool {
	_, ok := c.namespaceOf(name)
	return ok
}

func (c NamingConvention) namespaceOf(name string) (NamespacePrefix, bool) {
	if len(name) < c.PrefixLength {
		return NamespacePrefix{}, false
	}
	head := name[:c.PrefixLength]
	for _, ns := range c.Namespaces {
		if ns.Prefix == head {
			return ns, true
		}
	}
	return NamespacePrefix{}, false
}

// IsConstructorName reports whether a function name carries the constructor suffix.
func (c NamingConvention) IsConstructorName(name string) bool {
	return strings.HasSuffix(name, c.ConstructorSuffix)
}

// IsDestructorName reports whether a function name carries the destructor suffix.
func (c NamingConvention) IsDestructorName(name string) bool {
	return strings.HasSuffix(name, c.DestructorSuffix)
}

// stripPrefix removes the fixed-length namespace prefix from a name.
func (c NamingConvention) stripPrefix(name string) string {
	if len(name) < c.PrefixLength {
		return name
	}
	return name[c.PrefixLength:]
}
