package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/fxamacker/cbor/v2"
	"gopkg.in/yaml.v3"
)

// Formatter encodes view structs in one output format.
type Formatter interface {
	// Format returns the encoded value.
	Format(v interface{}) (string, error)

	// FormatToWriter writes the encoded value directly to a writer.
	FormatToWriter(w io.Writer, v interface{}) error
}

// YAMLFormatter formats values as YAML output.
type YAMLFormatter struct{}

// NewYAMLFormatter creates a new YAML formatter.
func NewYAMLFormatter() *YAMLFormatter {
	return &YAMLFormatter{}
}

// Format formats a value as YAML.
func (f *YAMLFormatter) Format(v interface{}) (string, error) {
	return formatString(f, v)
}

// FormatToWriter writes YAML output to a writer.
func (f *YAMLFormatter) FormatToWriter(w io.Writer, v interface{}) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	defer encoder.Close()

	return encoder.Encode(v)
}

// JSONFormatter formats values as JSON output.
type JSONFormatter struct{}

// NewJSONFormatter creates a new JSON formatter.
func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{}
}

// Format formats a value as JSON.
func (f *JSONFormatter) Format(v interface{}) (string, error) {
	return formatString(f, v)
}

// FormatToWriter writes JSON output to a writer.
func (f *JSONFormatter) FormatToWriter(w io.Writer, v interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")

	return encoder.Encode(v)
}

// CBORFormatter formats values as canonical CBOR. Struct field names come
// from the json tags.
type CBORFormatter struct {
	mode cbor.EncMode
}

// NewCBORFormatter creates a new CBOR formatter.
func NewCBORFormatter() (*CBORFormatter, error) {
	mode, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		return nil, fmt.Errorf("cbor encoder: %w", err)
	}
	return &CBORFormatter{mode: mode}, nil
}

// Format formats a value as CBOR. The string holds binary data.
func (f *CBORFormatter) Format(v interface{}) (string, error) {
	return formatString(f, v)
}

// FormatToWriter writes CBOR output to a writer.
func (f *CBORFormatter) FormatToWriter(w io.Writer, v interface{}) error {
	return f.mode.NewEncoder(w).Encode(v)
}

// DecodeCBOR decodes CBOR produced by CBORFormatter into v.
func DecodeCBOR(data []byte, v interface{}) error {
	return cbor.Unmarshal(data, v)
}

func formatString(f Formatter, v interface{}) (string, error) {
	var buf bytes.Buffer
	if err := f.FormatToWriter(&buf, v); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// GetFormatter returns a formatter for the given format.
func GetFormatter(format Format) (Formatter, error) {
	switch format {
	case FormatYAML:
		return NewYAMLFormatter(), nil
	case FormatJSON:
		return NewJSONFormatter(), nil
	case FormatCBOR:
		f, err := NewCBORFormatter()
		if err != nil {
			return nil, err
		}
		return f, nil
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}

// NewFormatter parses format and returns the matching formatter.
func NewFormatter(format string) (Formatter, error) {
	f, err := ParseFormat(format)
	if err != nil {
		return nil, err
	}
	return GetFormatter(f)
}
