package binding

import (
	"strings"

	"github.com/nats-io/bindgen/internal/decl"
)

// Normalize converts the declaration stream into normalized records.
// Nodes whose name does not start with a recognized prefix are dropped; every
// other node becomes exactly one record.
func Normalize(nodes []decl.Node, conv NamingConvention) *Declarations {
	d := &Declarations{}

	for _, n := range nodes {
		if !conv.Recognizes(n.Name) {
			log.Debug("skipping declaration without a recognized prefix", "name", n.Name, "kind", n.Kind)
			continue
		}

		switch n.Kind {
		case decl.KindFunction:
			d.Functions = append(d.Functions, normalizeFunction(n, conv))
		case decl.KindEnum:
			d.Enums = append(d.Enums, RawEnum{Name: n.Name, Comment: n.Comment})
		default:
			normalizeTypedef(n, conv, d)
		}
	}

	return d
}

func normalizeTypedef(n decl.Node, conv NamingConvention, d *Declarations) {
	switch len(n.Children) {
	case 0:
		d.Typedefs = append(d.Typedefs, RawTypedef{Name: n.Name, Comment: n.Comment})
		return
	case 1:
		switch n.Children[0].Kind {
		case decl.KindEnum:
			d.Enums = append(d.Enums, RawEnum{Name: n.Name, Comment: n.Comment})
			return
		case decl.KindTypeRef:
			d.Typedefs = append(d.Typedefs, RawTypedef{Name: n.Name, Comment: n.Comment})
			return
		}
	}
	d.FunctionTypedefs = append(d.FunctionTypedefs, normalizeFunctionTypedef(n, conv))
}

func normalizeFunction(n decl.Node, conv NamingConvention) RawFunction {
	fn := RawFunction{
		OriginalName: n.Name,
		ResultType:   spelling(n.Type.Spelling),
		Comment:      n.Comment,
	}

	segments := strings.SplitN(n.Name, "_", 3)
	fn.NamespacePrefix = n.Name[:conv.PrefixLength]
	if len(segments[0]) > conv.PrefixLength {
		fn.TypeSegment = segments[0][conv.PrefixLength:]
	}
	if len(segments) > 1 {
		fn.ShortName = segments[1]
	}

	if fn.ResultType == conv.StatusType {
		fn.ResultType = "void"
		fn.RaisesOnFailure = true
	}

	for _, p := range n.Params {
		fn.Parameters = append(fn.Parameters, normalizeParam(p.Name, p.Type))
	}
	return fn
}

func normalizeFunctionTypedef(n decl.Node, conv NamingConvention) RawFunctionTypedef {
	td := RawFunctionTypedef{
		OriginalName: n.Name,
		ResultType:   "void",
		Comment:      n.Comment,
	}

	for _, c := range n.Children {
		if c.Kind == decl.KindTypeRef {
			td.ResultType = spelling(c.Type.Spelling)
			continue
		}
		td.Parameters = append(td.Parameters, normalizeParam(c.Name, c.Type))
	}

	if len(td.Parameters) > 0 {
		td.HasClosureConvention = td.Parameters[len(td.Parameters)-1].Name == conv.ClosureParam
	}
	return td
}

func normalizeParam(name string, t decl.Type) RawParameter {
	if t.IsArray() {
		return RawParameter{Type: spelling(t.Elem), Name: name, ElementCount: t.Len}
	}
	return RawParameter{Type: spelling(t.Spelling), Name: name}
}

// spelling maps front-end spellings onto the ones templates expect.
func spelling(s string) string {
	if s == "_Bool" {
		return "bool"
	}
	return s
}
