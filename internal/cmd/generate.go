package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/nats-io/bindgen/internal/binding"
	"github.com/nats-io/bindgen/internal/cache"
	"github.com/nats-io/bindgen/internal/config"
	"github.com/nats-io/bindgen/internal/extract"
	"github.com/nats-io/bindgen/internal/render"
)

// generateCmd represents the generate command
var generateCmd = &cobra.Command{
	Use:   "generate <header>",
	Short: "Render the C++ wrapper for a C header",
	Long: `Parse a C header, build the binding model and render it through a template.

The embedded template emits a C++ header with one namespace per configured
prefix. A custom text/template file can be given with --template or
BINDGEN_TEMPLATE; it receives the same model.

Unless --force is given, generation is skipped when the generation cache
shows that neither the header, the template, the configuration nor the output
path changed since the last run and the output file still exists.

Examples:
  bindgen generate nats.h                      # Writes nats.hpp next to nats.h
  bindgen generate nats.h -o include/nats.hpp  # Explicit output path
  bindgen generate nats.h -t my.tmpl --force   # Custom template, ignore cache`,
	Args: cobra.ExactArgs(1),
	RunE: runGenerate,
}

var (
	generateTemplate string
	generateOut      string
	generateForce    bool
)

func init() {
	rootCmd.AddCommand(generateCmd)
	generateCmd.Flags().StringVarP(&generateTemplate, "template", "t", "", "Template file (default: embedded C++ template)")
	generateCmd.Flags().StringVarP(&generateOut, "out", "o", "", "Output file (default: <header>.hpp)")
	generateCmd.Flags().BoolVar(&generateForce, "force", false, "Regenerate even if the cache says nothing changed")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	headerPath := args[0]

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	templatePath := cfg.Output.Template
	if generateTemplate != "" {
		templatePath = generateTemplate
	}
	outPath := cfg.Output.Out
	if generateOut != "" {
		outPath = generateOut
	}
	if outPath == "" {
		outPath = defaultOutputPath(headerPath)
	}

	h, err := loadHeader(cfg, headerPath)
	if err != nil {
		return err
	}

	renderer, err := render.New(templatePath)
	if err != nil {
		return err
	}

	renderHash, err := renderInputsHash(renderer, cfg)
	if err != nil {
		return err
	}
	hashPair := extract.FormatHashPair(h.hash(), renderHash)

	cacheKey, err := filepath.Abs(headerPath)
	if err != nil {
		return fmt.Errorf("resolving header path: %w", err)
	}
	absOut, err := filepath.Abs(outPath)
	if err != nil {
		return fmt.Errorf("resolving output path: %w", err)
	}
	if absOut == cacheKey {
		return fmt.Errorf("output %s would overwrite the input header", outPath)
	}

	var gen *cache.Cache
	if !cfg.Cache.Disabled {
		gen, err = cache.Open(cfg.Cache.Dir)
		if err != nil {
			return fmt.Errorf("opening generation cache: %w", err)
		}
		defer gen.Close()

		change, err := gen.Compare(ctx, cacheKey, hashPair, absOut)
		if err != nil {
			return err
		}
		_, statErr := os.Stat(outPath)
		if !generateForce && !change.Any() && statErr == nil {
			fmt.Fprintf(cmd.OutOrStdout(), "%s is up to date\n", outPath)
			return nil
		}
		log.Info("regenerating", "header", headerPath, "reason", change.String())
	}

	nodes, err := h.declarations(ctx)
	if err != nil {
		return err
	}

	model, err := binding.Build(nodes, cfg.NamingConvention())
	if err != nil {
		return fmt.Errorf("building model for %s: %w", headerPath, err)
	}

	if err := renderer.RenderFile(outPath, model); err != nil {
		return err
	}

	if gen != nil {
		headerHash, renderHash := extract.ParseHashPair(hashPair)
		err := gen.Record(ctx, cache.Entry{
			HeaderPath: cacheKey,
			HeaderHash: headerHash,
			RenderHash: renderHash,
			OutputPath: absOut,
		})
		if err != nil {
			return err
		}
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Generated %s (%s)\n", outPath, summarize(model))
	if n := len(model.Diagnostics); n > 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "%d diagnostic(s), run with -v or 'bindgen model --density dense' for details\n", n)
	}
	return nil
}

// renderInputsHash hashes everything besides the header that shapes the
// generated file: the template text, the naming convention and the parse
// options.
func renderInputsHash(r *render.Renderer, cfg *config.Config) (string, error) {
	conv, err := yaml.Marshal(cfg.Convention)
	if err != nil {
		return "", fmt.Errorf("encoding convention: %w", err)
	}
	parse, err := yaml.Marshal(cfg.Parse)
	if err != nil {
		return "", fmt.Errorf("encoding parse options: %w", err)
	}
	return extract.ComputeInputsHash([]byte(r.Source()), conv, parse), nil
}

// summarize counts the generated entities across namespaces.
func summarize(m *binding.Model) string {
	var classes, methods, callbacks, functions int
	for _, ns := range m.Namespaces {
		classes += len(ns.Classes)
		for _, c := range ns.Classes {
			methods += len(c.Methods)
		}
		callbacks += len(ns.CallbackDescriptors)
		functions += len(ns.FreeFunctions)
	}
	return fmt.Sprintf("%d classes, %d methods, %d callbacks, %d functions", classes, methods, callbacks, functions)
}
