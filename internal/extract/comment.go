package extract

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/nats-io/bindgen/internal/decl"
)

// docComment collects the documentation comments directly above node.
// Only doc-style comments count: /** */, /*! */, /// and //!.
func (e *DeclExtractor) docComment(node *sitter.Node) decl.Comment {
	var parts []string
	next := node
	for prev := node.PrevSibling(); prev != nil && prev.Type() == "comment"; prev = prev.PrevSibling() {
		if prev.EndPoint().Row+1 < next.StartPoint().Row {
			break
		}
		text := e.nodeText(prev)
		if !isDocComment(text) {
			break
		}
		parts = append([]string{text}, parts...)
		next = prev
	}
	if len(parts) == 0 {
		return decl.Comment{}
	}

	raw := strings.Join(parts, "\n")
	return decl.Comment{Raw: raw, Brief: briefOf(raw)}
}

func isDocComment(text string) bool {
	for _, p := range []string{"/**", "/*!", "///", "//!"} {
		if strings.HasPrefix(text, p) {
			// "/**/" is an empty block comment, not documentation.
			return text != "/**/"
		}
	}
	return false
}

// briefOf returns the \brief paragraph if there is one, otherwise the first
// sentence of the comment.
func briefOf(raw string) string {
	lines := commentLines(raw)

	for i, line := range lines {
		for _, cmd := range []string{`\brief`, `@brief`} {
			idx := strings.Index(line, cmd)
			if idx < 0 {
				continue
			}
			para := []string{strings.TrimSpace(line[idx+len(cmd):])}
			for _, more := range lines[i+1:] {
				if more == "" || strings.HasPrefix(more, `\`) || strings.HasPrefix(more, "@") {
					break
				}
				para = append(para, more)
			}
			return strings.TrimSpace(strings.Join(para, " "))
		}
	}

	var para []string
	for _, line := range lines {
		if line == "" {
			if len(para) > 0 {
				break
			}
			continue
		}
		if strings.HasPrefix(line, `\`) || strings.HasPrefix(line, "@") {
			break
		}
		para = append(para, line)
	}
	text := strings.Join(para, " ")
	if i := strings.Index(text, ". "); i >= 0 {
		text = text[:i+1]
	}
	return strings.TrimSpace(text)
}

// commentLines strips comment markers and leading asterisks.
func commentLines(raw string) []string {
	var out []string
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		for _, p := range []string{"/**<", "/**", "/*!", "///<", "///", "//!", "/*", "//"} {
			if strings.HasPrefix(line, p) {
				line = line[len(p):]
				break
			}
		}
		line = strings.TrimSuffix(line, "*/")
		line = strings.TrimPrefix(strings.TrimSpace(line), "*")
		out = append(out, strings.TrimSpace(line))
	}
	return out
}
