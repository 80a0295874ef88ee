// Package output serializes the binding model for renderers that live
// outside this tool.
//
// # Output Types
//
//   - ModelView: the full namespace tree (bindgen model)
//   - DeclarationsView: normalized declarations before grouping (bindgen decls)
//
// # Format Types
//
//   - YAML (default): human-readable, indent 2
//   - JSON: machine-readable, same structure as YAML
//   - CBOR: canonical encoding, byte-identical across runs
//
// # Density Modes
//
//   - Sparse: names only
//
//   - Medium (default): result types, classified parameters, template slots
//     and the raw C invocation
//
//   - Dense: medium plus doc comments, wrapper statements and diagnostics
//
// # Usage
//
//	view := output.NewModelView(model, output.DensityMedium)
//	f, err := output.NewFormatter("yaml")
//	if err != nil {
//	    return err
//	}
//	return f.FormatToWriter(os.Stdout, view)
package output
