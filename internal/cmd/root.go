// Package cmd contains all CLI commands for bindgen.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nats-io/bindgen/internal/config"
)

var (
	// Version is the current version of bindgen
	Version = "0.1.0"

	// Global flags
	verbose      int
	configPath   string
	logFile      string
	outputFormat string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "bindgen",
	Short: "Generate C++ wrappers from a C client library header",
	Long: `bindgen reads a C header that follows a prefix naming convention and
generates an object-oriented C++ wrapper header for it.

Opaque handle types with a matching <Type>_Destroy function become classes,
<Type>_* functions become their methods, and function-pointer typedefs whose
last parameter is "closure" become callback adapters that dispatch to a member
function of a user object.

Configuration:
  Settings are read from .bindgen/config.yaml (or config.toml), found by
  walking up from the current directory. BINDGEN_TEMPLATE, BINDGEN_FORMAT and
  BINDGEN_CACHE_DIR override file values; a .env file is honored.

Examples:
  bindgen init                          # Write .bindgen/config.yaml
  bindgen generate nats.h -o nats.hpp   # Render the C++ wrapper
  bindgen model nats.h --format json    # Dump the binding model
  bindgen decls nats.h                  # Dump normalized declarations
  bindgen cache clear                   # Forget previous generations

See 'bindgen <command> --help' for command-specific options.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		configureLogging(verbose, logFile)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().CountVarP(&verbose, "verbose", "v", "Increase log verbosity (repeatable)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file (default: .bindgen/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Write logs to a file instead of stderr")
	rootCmd.PersistentFlags().StringVar(&outputFormat, "format", "", "Output format for dumps (yaml|json|cbor, default from config)")
}

// loadConfig loads the configuration named by --config, or searches for one
// from the working directory.
func loadConfig() (*config.Config, error) {
	if configPath != "" {
		return config.LoadFromPath(configPath)
	}

	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("get working directory: %w", err)
	}
	return config.Load(cwd)
}

// resolveFormat returns the --format flag, falling back to the configured format.
func resolveFormat(cfg *config.Config) string {
	if outputFormat != "" {
		return outputFormat
	}
	return cfg.Output.Format
}
