package parser

import (
	"errors"
	"io/fs"
	"testing"

	sitter "github.com/smacker/go-tree-sitter"
)

const testHeader = `#ifndef NATS_H_
#define NATS_H_

#include <stdint.h>

typedef struct __natsConnection natsConnection;

typedef enum
{
    NATS_OK = 0,
    NATS_ERR,
} natsStatus;

/** \brief Callback used to deliver messages. */
typedef void (*natsMsgHandler)(natsConnection *nc, void *closure);

natsStatus natsConnection_Flush(natsConnection *nc);

#endif
`

func TestNewParser(t *testing.T) {
	t.Run("creates C parser", func(t *testing.T) {
		p, err := NewParser(C)
		if err != nil {
			t.Fatalf("NewParser(C) failed: %v", err)
		}
		defer p.Close()

		if p.Language() != C {
			t.Errorf("expected language %s, got %s", C, p.Language())
		}
	})

	t.Run("creates C++ parser", func(t *testing.T) {
		p, err := NewParser(Cpp)
		if err != nil {
			t.Fatalf("NewParser(Cpp) failed: %v", err)
		}
		defer p.Close()
	})

	t.Run("rejects unsupported language", func(t *testing.T) {
		_, err := NewParser(Language("fortran"))
		if err == nil {
			t.Fatal("expected error for unsupported language")
		}

		if _, ok := err.(*UnsupportedLanguageError); !ok {
			t.Errorf("expected UnsupportedLanguageError, got %T", err)
		}
	})
}

func TestParseLanguage(t *testing.T) {
	tests := []struct {
		in      string
		want    Language
		wantErr bool
	}{
		{"c", C, false},
		{"", C, false},
		{"C++", Cpp, false},
		{"cpp", Cpp, false},
		{"rust", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLanguage(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseLanguage(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseLanguage(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestParser_Parse(t *testing.T) {
	p, err := NewParser(C)
	if err != nil {
		t.Fatalf("NewParser failed: %v", err)
	}
	defer p.Close()

	t.Run("parses valid header", func(t *testing.T) {
		result, err := p.Parse([]byte(testHeader))
		if err != nil {
			t.Fatalf("Parse failed: %v", err)
		}
		defer result.Close()

		if result.Root == nil {
			t.Fatal("expected non-nil root node")
		}

		if result.Root.Type() != "translation_unit" {
			t.Errorf("expected root type 'translation_unit', got %q", result.Root.Type())
		}

		if result.HasErrors() {
			t.Error("expected no parse errors for valid header")
		}
	})

	t.Run("preserves source", func(t *testing.T) {
		source := []byte(testHeader)
		result, err := p.Parse(source)
		if err != nil {
			t.Fatalf("Parse failed: %v", err)
		}
		defer result.Close()

		if string(result.Source) != string(source) {
			t.Error("source was not preserved")
		}
	})
}

func TestParseResult_Containers(t *testing.T) {
	p, err := NewParser(C)
	if err != nil {
		t.Fatalf("NewParser failed: %v", err)
	}
	defer p.Close()

	result, err := p.Parse([]byte(testHeader))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	defer result.Close()

	var typedefs, guards []*sitter.Node
	result.WalkNodes(func(node *sitter.Node) bool {
		switch node.Type() {
		case "type_definition":
			typedefs = append(typedefs, node)
		case "preproc_ifdef":
			guards = append(guards, node)
		}
		return true
	})

	if len(typedefs) != 3 {
		t.Errorf("expected 3 type_definition nodes, got %d", len(typedefs))
	}
	for _, td := range typedefs {
		if !IsHeaderEntityNode(td) {
			t.Error("type_definition should be identified as entity")
		}
	}

	if len(guards) != 1 {
		t.Fatalf("expected 1 preproc_ifdef, got %d", len(guards))
	}
	if !IsContainerNode(guards[0]) {
		t.Error("preproc_ifdef should be a container")
	}
}

func TestParseResult_WalkNodes(t *testing.T) {
	p, err := NewParser(C)
	if err != nil {
		t.Fatalf("NewParser failed: %v", err)
	}
	defer p.Close()

	result, err := p.Parse([]byte(testHeader))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	defer result.Close()

	t.Run("stops on false return", func(t *testing.T) {
		count := 0
		limit := 5
		result.WalkNodes(func(node *sitter.Node) bool {
			count++
			return count < limit
		})

		if count != limit {
			t.Errorf("expected to visit %d nodes, visited %d", limit, count)
		}
	})
}

func TestParseResult_FirstError(t *testing.T) {
	p, err := NewParser(C)
	if err != nil {
		t.Fatalf("NewParser failed: %v", err)
	}
	defer p.Close()

	t.Run("valid header", func(t *testing.T) {
		result, err := p.Parse([]byte(testHeader))
		if err != nil {
			t.Fatalf("Parse failed: %v", err)
		}
		defer result.Close()

		if pe := result.FirstError(); pe != nil {
			t.Errorf("expected no error, got %v", pe)
		}
	})

	t.Run("broken header", func(t *testing.T) {
		result, err := p.Parse([]byte("int ok(void);\nint broken( {\n"))
		if err != nil {
			t.Fatalf("Parse failed: %v", err)
		}
		defer result.Close()

		if !result.HasErrors() {
			t.Fatal("expected parse errors for invalid source")
		}
		pe := result.FirstError()
		if pe == nil {
			t.Fatal("expected FirstError to locate the error")
		}
		if pe.Line == 0 {
			t.Error("expected a 1-based line number")
		}
	})
}

func TestGetHeaderEntityType(t *testing.T) {
	if got := GetHeaderEntityType(nil); got != "" {
		t.Errorf("expected empty string for nil, got %q", got)
	}
	if IsHeaderEntityNode(nil) {
		t.Error("nil should not be identified as entity")
	}
}

func TestParseError(t *testing.T) {
	t.Run("formats with file", func(t *testing.T) {
		err := &ParseError{
			Message: "syntax error",
			File:    "nats.h",
			Line:    10,
			Column:  5,
		}
		expected := "nats.h:10:5: syntax error"
		if got := err.Error(); got != expected {
			t.Errorf("expected %q, got %q", expected, got)
		}
	})

	t.Run("formats without file", func(t *testing.T) {
		err := &ParseError{
			Message: "syntax error",
			Line:    10,
			Column:  5,
		}
		expected := "line 10, column 5: syntax error"
		if got := err.Error(); got != expected {
			t.Errorf("expected %q, got %q", expected, got)
		}
	})
}

func TestUnsupportedLanguageError(t *testing.T) {
	err := &UnsupportedLanguageError{Language: "fortran"}
	expected := `unsupported header language "fortran" (want c or cpp)`
	if got := err.Error(); got != expected {
		t.Errorf("expected %q, got %q", expected, got)
	}
}

func TestFileReadError(t *testing.T) {
	err := &FileReadError{Path: "nats.h", Err: fs.ErrNotExist}
	if got, want := err.Error(), "reading header nats.h: file does not exist"; got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Error("FileReadError should unwrap to the underlying error")
	}
}
