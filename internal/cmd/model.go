package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/nats-io/bindgen/internal/binding"
	"github.com/nats-io/bindgen/internal/output"
)

// modelCmd represents the model command
var modelCmd = &cobra.Command{
	Use:   "model <header>",
	Short: "Dump the binding model of a C header",
	Long: `Build the binding model of a C header and print it as YAML, JSON or CBOR.

The model lists, per namespace, the promoted classes with their classified
methods, the callback descriptors, free functions and the remaining aliases,
enums and opaque function typedefs. External renderers can consume it instead
of writing a text/template.

Density Levels:
  sparse   Namespace, class and method names only
  medium   Signatures, parameter roles and template slots (default)
  dense    Also doc comments, wrap rules and diagnostics

Examples:
  bindgen model nats.h                         # YAML, medium density
  bindgen model nats.h --format json -o m.json # JSON to a file
  bindgen model nats.h --format cbor -o m.cbor # Canonical CBOR
  bindgen model nats.h --density dense         # Include diagnostics`,
	Args: cobra.ExactArgs(1),
	RunE: runModel,
}

var (
	modelDensity string
	modelOut     string
)

func init() {
	rootCmd.AddCommand(modelCmd)
	modelCmd.Flags().StringVar(&modelDensity, "density", "", "Detail level (sparse|medium|dense, default from config)")
	modelCmd.Flags().StringVarP(&modelOut, "out", "o", "", "Write to a file instead of stdout")
}

func runModel(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	density := cfg.Output.Density
	if modelDensity != "" {
		density = modelDensity
	}
	d, err := output.ParseDensity(density)
	if err != nil {
		return err
	}

	format, err := output.ParseFormat(resolveFormat(cfg))
	if err != nil {
		return err
	}
	formatter, err := output.GetFormatter(format)
	if err != nil {
		return err
	}
	if format.IsBinary() && modelOut == "" {
		log.Warning("writing binary model to stdout", "format", format.String())
	}

	h, err := loadHeader(cfg, args[0])
	if err != nil {
		return err
	}
	nodes, err := h.declarations(cmd.Context())
	if err != nil {
		return err
	}

	model, err := binding.Build(nodes, cfg.NamingConvention())
	if err != nil {
		return fmt.Errorf("building model for %s: %w", args[0], err)
	}

	return writeView(cmd.OutOrStdout(), modelOut, formatter, output.NewModelView(model, d))
}

// writeView encodes v to path, or to w when path is empty.
func writeView(w io.Writer, path string, formatter output.Formatter, v interface{}) error {
	if path == "" {
		return formatter.FormatToWriter(w, v)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := formatter.FormatToWriter(f, v); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
