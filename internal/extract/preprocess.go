package extract

import (
	"bytes"
	"regexp"
)

// PreprocessOptions controls the textual clean-up applied to a header
// before it is handed to tree-sitter.
type PreprocessOptions struct {
	// Macros are object-like or function-like macro names to blank out,
	// e.g. export and deprecation markers.
	Macros []string
	// CppGuards blanks "#ifdef __cplusplus" regions, which usually hold
	// an unbalanced extern "C" brace.
	CppGuards bool
}

var (
	cppGuardOpen = regexp.MustCompile(`^\s*#\s*(ifdef\s+__cplusplus\b|if\s+defined\s*\(?\s*__cplusplus\b)`)
	directiveIf  = regexp.MustCompile(`^\s*#\s*if`)
	directiveEls = regexp.MustCompile(`^\s*#\s*(else|elif)\b`)
	directiveEnd = regexp.MustCompile(`^\s*#\s*endif\b`)
)

// Preprocess returns a copy of src with the configured constructs replaced
// by spaces. Newlines are kept so byte offsets and line numbers still match
// the original file.
func Preprocess(src []byte, opts PreprocessOptions) []byte {
	out := append([]byte(nil), src...)
	if opts.CppGuards {
		blankCppGuards(out)
	}
	if len(opts.Macros) > 0 {
		blankMacros(out, opts.Macros)
	}
	return out
}

// StripMacros blanks every use of the named macros outside preprocessor
// directives, including a parenthesized argument list that directly follows.
func StripMacros(src []byte, names []string) []byte {
	return Preprocess(src, PreprocessOptions{Macros: names})
}

func blankMacros(buf []byte, names []string) {
	directives := directiveRanges(buf)
	for _, name := range names {
		if name == "" {
			continue
		}
		re := regexp.MustCompile(`\b` + regexp.QuoteMeta(name) + `\b`)
		for _, loc := range re.FindAllIndex(buf, -1) {
			if inRanges(loc[0], directives) {
				continue
			}
			end := loc[1]
			if args := argumentsEnd(buf, end); args > 0 {
				end = args
			}
			blank(buf[loc[0]:end])
		}
	}
}

// argumentsEnd returns the offset just past a balanced parenthesized list
// starting at or after pos (skipping blanks), or 0 if there is none.
func argumentsEnd(buf []byte, pos int) int {
	i := pos
	for i < len(buf) && (buf[i] == ' ' || buf[i] == '\t') {
		i++
	}
	if i >= len(buf) || buf[i] != '(' {
		return 0
	}
	depth := 0
	for ; i < len(buf); i++ {
		switch buf[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return i + 1
			}
		}
	}
	return 0
}

func blankCppGuards(buf []byte) {
	const (
		outside = iota
		blanking
		keeping
	)
	state, depth := outside, 0

	forEachLine(buf, func(line []byte) {
		switch state {
		case outside:
			if cppGuardOpen.Match(line) {
				state, depth = blanking, 0
				blank(line)
			}
		case blanking, keeping:
			switch {
			case directiveIf.Match(line):
				depth++
			case directiveEnd.Match(line):
				if depth == 0 {
					blank(line)
					state = outside
					return
				}
				depth--
			case directiveEls.Match(line) && depth == 0:
				blank(line)
				state = keeping
				return
			}
			if state == blanking {
				blank(line)
			}
		}
	})
}

// directiveRanges returns the byte ranges of preprocessor directive lines,
// continuation lines included.
func directiveRanges(buf []byte) [][2]int {
	var ranges [][2]int
	inDirective := false
	offset := 0
	forEachLine(buf, func(line []byte) {
		start := offset
		offset += len(line) + 1
		trimmed := bytes.TrimSpace(line)
		if !inDirective && !bytes.HasPrefix(trimmed, []byte("#")) {
			return
		}
		ranges = append(ranges, [2]int{start, start + len(line)})
		inDirective = bytes.HasSuffix(trimmed, []byte(`\`))
	})
	return ranges
}

func inRanges(pos int, ranges [][2]int) bool {
	for _, r := range ranges {
		if pos >= r[0] && pos < r[1] {
			return true
		}
	}
	return false
}

// forEachLine calls fn with each line of buf, without its newline. The slices
// alias buf so fn may blank them in place.
func forEachLine(buf []byte, fn func(line []byte)) {
	for len(buf) > 0 {
		i := bytes.IndexByte(buf, '\n')
		if i < 0 {
			fn(buf)
			return
		}
		fn(buf[:i])
		buf = buf[i+1:]
	}
}

func blank(b []byte) {
	for i := range b {
		if b[i] != '\n' && b[i] != '\r' {
			b[i] = ' '
		}
	}
}
