package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/nats-io/bindgen/internal/config"
	"github.com/nats-io/bindgen/internal/decl"
	"github.com/nats-io/bindgen/internal/extract"
	"github.com/nats-io/bindgen/internal/parser"
)

// header is a C header read from disk and cleaned up for tree-sitter.
type header struct {
	path   string
	lang   parser.Language
	source []byte
}

// loadHeader reads path and applies the configured preprocessing.
func loadHeader(cfg *config.Config, path string) (*header, error) {
	lang, err := parser.ParseLanguage(cfg.Parse.Language)
	if err != nil {
		return nil, err
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, &parser.FileReadError{Path: path, Err: err}
	}

	return &header{
		path:   path,
		lang:   lang,
		source: extract.Preprocess(raw, cfg.PreprocessOptions()),
	}, nil
}

// hash returns the content hash of the preprocessed header.
func (h *header) hash() string {
	return extract.ComputeFileHash(h.source)
}

// declarations parses the header and extracts its top-level declarations.
// A syntax error is logged and extraction continues over the recovered tree.
func (h *header) declarations(ctx context.Context) ([]decl.Node, error) {
	p, err := parser.NewParser(h.lang)
	if err != nil {
		return nil, err
	}
	defer p.Close()

	result, err := p.ParseContext(ctx, h.source)
	if err != nil {
		if pe, ok := err.(*parser.ParseError); ok {
			pe.File = h.path
		}
		return nil, fmt.Errorf("parsing %s: %w", h.path, err)
	}
	defer result.Close()
	result.FilePath = h.path

	if perr := result.FirstError(); perr != nil {
		perr.File = h.path
		log.Warning("header has syntax errors, continuing with recovered tree",
			"file", h.path, "line", perr.Line, "near", perr.Message)
	}

	nodes := extract.NewDeclExtractorWithBase(result, filepath.Dir(h.path)).Extract()
	log.Info("extracted declarations", "file", h.path, "count", len(nodes))
	return nodes, nil
}

// defaultOutputPath derives "<dir>/<name>.hpp" from a header path, or
// "<dir>/<name>.gen.hpp" when the header itself is a .hpp file.
func defaultOutputPath(headerPath string) string {
	base := strings.TrimSuffix(headerPath, filepath.Ext(headerPath))
	if out := base + ".hpp"; out != headerPath {
		return out
	}
	return base + ".gen.hpp"
}
