// Package render executes text templates over a binding model.
//
// The embedded default template emits a C++ wrapper header: one namespace per
// prefix, callback adapter templates, a class per promoted handle type and
// inline free functions. A user template gets the same helper functions and
// the same *binding.Model as data.
package render

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/tliron/commonlog"

	"github.com/nats-io/bindgen/internal/binding"
	"github.com/nats-io/bindgen/internal/decl"
)

var log = commonlog.GetLogger("bindgen.render")

// DefaultTemplateName is the name the embedded template is parsed under.
const DefaultTemplateName = "cpp.tmpl"

//go:embed templates/cpp.tmpl
var defaultTemplate string

// DefaultTemplate returns the source of the embedded C++ template.
func DefaultTemplate() string {
	return defaultTemplate
}

// Renderer is a parsed template ready to execute.
type Renderer struct {
	tmpl   *template.Template
	source string
}

// New parses the template at templatePath, or the embedded default when the
// path is empty.
func New(templatePath string) (*Renderer, error) {
	if templatePath == "" {
		return Parse(DefaultTemplateName, defaultTemplate)
	}

	data, err := os.ReadFile(templatePath)
	if err != nil {
		return nil, fmt.Errorf("reading template %s: %w", templatePath, err)
	}
	return Parse(filepath.Base(templatePath), string(data))
}

// Parse parses template text with the helper functions installed.
func Parse(name, text string) (*Renderer, error) {
	tmpl, err := template.New(name).Funcs(Funcs()).Parse(text)
	if err != nil {
		return nil, fmt.Errorf("parsing template %s: %w", name, err)
	}
	return &Renderer{tmpl: tmpl, source: text}, nil
}

// Name returns the template name.
func (r *Renderer) Name() string {
	return r.tmpl.Name()
}

// Source returns the template text, for hashing into cache keys.
func (r *Renderer) Source() string {
	return r.source
}

// Render executes the template with m as data.
func (r *Renderer) Render(w io.Writer, m *binding.Model) error {
	if err := r.tmpl.Execute(w, m); err != nil {
		return fmt.Errorf("executing template %s: %w", r.tmpl.Name(), err)
	}
	return nil
}

// RenderFile renders into path. Nothing is written when execution fails.
func (r *Renderer) RenderFile(path string, m *binding.Model) error {
	var buf bytes.Buffer
	if err := r.Render(&buf, m); err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating directory %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}

	log.Info("rendered", "template", r.tmpl.Name(), "path", path, "bytes", buf.Len())
	return nil
}

// Funcs returns the helper functions available to every template.
func Funcs() template.FuncMap {
	return template.FuncMap{
		"join":       strings.Join,
		"lower":      strings.ToLower,
		"hasPrefix":  strings.HasPrefix,
		"trimPrefix": strings.TrimPrefix,
		"indent":     indent,
		"comment":    comment,
	}
}

// indent prefixes every non-empty line of s with n spaces.
func indent(n int, s string) string {
	pad := strings.Repeat(" ", n)
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		if line != "" {
			lines[i] = pad + line
		}
	}
	return strings.Join(lines, "\n")
}

// comment renders the brief of c as a C++ doc comment, or "" when there is none.
func comment(c decl.Comment) string {
	brief := strings.TrimSpace(c.Brief)
	if brief == "" {
		return ""
	}

	lines := strings.Split(brief, "\n")
	if len(lines) == 1 {
		return "/** " + brief + " */"
	}

	var b strings.Builder
	b.WriteString("/**\n")
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			b.WriteString(" *\n")
			continue
		}
		b.WriteString(" * " + line + "\n")
	}
	b.WriteString(" */")
	return b.String()
}
