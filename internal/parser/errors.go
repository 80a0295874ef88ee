package parser

import "fmt"

// ParseError locates a syntax error in a header.
type ParseError struct {
	Message string
	File    string
	Line    uint32
	Column  uint32
}

func (e *ParseError) Error() string {
	if e.File != "" {
		return fmt.Sprintf("%s:%d:%d: %s", e.File, e.Line, e.Column, e.Message)
	}
	return fmt.Sprintf("line %d, column %d: %s", e.Line, e.Column, e.Message)
}

// UnsupportedLanguageError is returned for a language other than C or C++.
type UnsupportedLanguageError struct {
	Language string
}

func (e *UnsupportedLanguageError) Error() string {
	return fmt.Sprintf("unsupported header language %q (want c or cpp)", e.Language)
}

// FileReadError wraps a failure to read a header from disk.
type FileReadError struct {
	Path string
	Err  error
}

func (e *FileReadError) Error() string {
	return fmt.Sprintf("reading header %s: %v", e.Path, e.Err)
}

func (e *FileReadError) Unwrap() error {
	return e.Err
}
