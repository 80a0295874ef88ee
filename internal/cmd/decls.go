package cmd

import (
	"github.com/spf13/cobra"

	"github.com/nats-io/bindgen/internal/binding"
	"github.com/nats-io/bindgen/internal/output"
)

// declsCmd represents the decls command
var declsCmd = &cobra.Command{
	Use:   "decls <header>",
	Short: "Dump the normalized declarations of a C header",
	Long: `Parse a C header and print the normalized declaration records the model is
built from: functions, typedefs, enums and function-pointer typedefs whose
names carry a recognized prefix. Useful for checking what the front-end saw
before classes and callbacks are derived.

Examples:
  bindgen decls nats.h
  bindgen decls nats.h --format json`,
	Args: cobra.ExactArgs(1),
	RunE: runDecls,
}

var declsOut string

func init() {
	rootCmd.AddCommand(declsCmd)
	declsCmd.Flags().StringVarP(&declsOut, "out", "o", "", "Write to a file instead of stdout")
}

func runDecls(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	formatter, err := output.NewFormatter(resolveFormat(cfg))
	if err != nil {
		return err
	}

	h, err := loadHeader(cfg, args[0])
	if err != nil {
		return err
	}
	nodes, err := h.declarations(cmd.Context())
	if err != nil {
		return err
	}

	d := binding.Normalize(nodes, cfg.NamingConvention())
	return writeView(cmd.OutOrStdout(), declsOut, formatter, output.NewDeclarationsView(d))
}
