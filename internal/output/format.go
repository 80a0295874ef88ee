// Package output provides format and density types for model dumps.
package output

import (
	"fmt"
	"strings"
)

// Format represents the output format type.
type Format string

const (
	// FormatYAML is the default human-readable output
	FormatYAML Format = "yaml"

	// FormatJSON is the JSON output format
	FormatJSON Format = "json"

	// FormatCBOR is canonical CBOR, byte-identical across runs
	FormatCBOR Format = "cbor"
)

// ParseFormat parses a format string into a Format value.
// Accepts: "yaml", "json", "cbor" (case-insensitive)
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yaml", "yml":
		return FormatYAML, nil
	case "json":
		return FormatJSON, nil
	case "cbor":
		return FormatCBOR, nil
	default:
		return "", fmt.Errorf("invalid format: %q (expected yaml, json, or cbor)", s)
	}
}

// String returns the string representation of the format.
func (f Format) String() string {
	return string(f)
}

// IsBinary reports whether the format produces non-text output.
func (f Format) IsBinary() bool {
	return f == FormatCBOR
}

// Density represents the level of detail in a model dump.
//   - Sparse: namespace, class and method names only
//   - Medium: signatures and parameter roles (default)
//   - Dense: everything, including doc comments and diagnostics
type Density string

const (
	// DensitySparse lists names only
	DensitySparse Density = "sparse"

	// DensityMedium adds signatures, roles and template slots
	DensityMedium Density = "medium"

	// DensityDense adds doc comments, wrap rules and diagnostics
	DensityDense Density = "dense"
)

// ParseDensity parses a density string into a Density value.
// Accepts: "sparse", "medium", "dense" (case-insensitive)
func ParseDensity(s string) (Density, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "sparse":
		return DensitySparse, nil
	case "medium":
		return DensityMedium, nil
	case "dense":
		return DensityDense, nil
	default:
		return "", fmt.Errorf("invalid density: %q (expected sparse, medium, or dense)", s)
	}
}

// String returns the string representation of the density.
func (d Density) String() string {
	return string(d)
}

// IncludesSignature returns true if this density level includes signatures.
func (d Density) IncludesSignature() bool {
	return d == DensityMedium || d == DensityDense
}

// IncludesDocs returns true if this density level includes doc comments.
func (d Density) IncludesDocs() bool {
	return d == DensityDense
}

// DefaultFormat is the default output format when none is specified.
const DefaultFormat = FormatYAML

// DefaultDensity is the default density level when none is specified.
const DefaultDensity = DensityMedium
