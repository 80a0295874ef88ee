package cmd

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/nats-io/bindgen/internal/output"
)

// commandsCmd represents the commands command
var commandsCmd = &cobra.Command{
	Use:   "commands",
	Short: "Describe every command and flag in machine-readable form",
	Long: `Print the command tree with usage lines, flags and examples, for build
tooling that drives bindgen. The encoding follows --format.

Examples:
  bindgen commands                # YAML
  bindgen commands --format json  # JSON`,
	Args: cobra.NoArgs,
	RunE: runCommands,
}

func init() {
	rootCmd.AddCommand(commandsCmd)
}

// CommandInfo describes one command for discovery
type CommandInfo struct {
	Name        string        `yaml:"name" json:"name"`
	Description string        `yaml:"description" json:"description"`
	Usage       string        `yaml:"usage" json:"usage"`
	Flags       []FlagInfo    `yaml:"flags,omitempty" json:"flags,omitempty"`
	Subcommands []CommandInfo `yaml:"subcommands,omitempty" json:"subcommands,omitempty"`
	Examples    []string      `yaml:"examples,omitempty" json:"examples,omitempty"`
}

// FlagInfo describes a command flag for discovery
type FlagInfo struct {
	Name        string `yaml:"name" json:"name"`
	Shorthand   string `yaml:"shorthand,omitempty" json:"shorthand,omitempty"`
	Description string `yaml:"description" json:"description"`
	Type        string `yaml:"type" json:"type"`
	Default     string `yaml:"default,omitempty" json:"default,omitempty"`
}

func runCommands(cmd *cobra.Command, args []string) error {
	format := outputFormat
	if format == "" {
		format = string(output.FormatYAML)
	}
	formatter, err := output.NewFormatter(format)
	if err != nil {
		return err
	}
	return formatter.FormatToWriter(cmd.OutOrStdout(), buildCommandInfo(cmd.Root()))
}

// buildCommandInfo recursively builds command information
func buildCommandInfo(cmd *cobra.Command) CommandInfo {
	info := CommandInfo{
		Name:        cmd.Name(),
		Description: cmd.Short,
		Usage:       cmd.UseLine(),
	}

	collect := func(f *pflag.Flag) {
		if f.Name == "help" {
			return
		}
		info.Flags = append(info.Flags, FlagInfo{
			Name:        f.Name,
			Shorthand:   f.Shorthand,
			Description: f.Usage,
			Type:        f.Value.Type(),
			Default:     f.DefValue,
		})
	}
	if cmd.HasParent() {
		cmd.LocalNonPersistentFlags().VisitAll(collect)
	} else {
		cmd.PersistentFlags().VisitAll(collect)
	}

	for _, sub := range cmd.Commands() {
		if !sub.Hidden && sub.Name() != "help" && sub.Name() != "completion" {
			info.Subcommands = append(info.Subcommands, buildCommandInfo(sub))
		}
	}

	// Examples are the indented lines after "Examples:" in the long help
	if _, examples, ok := strings.Cut(cmd.Long, "Examples:\n"); ok {
		for _, line := range strings.Split(examples, "\n") {
			trimmed := strings.TrimSpace(line)
			if trimmed == "" || !strings.HasPrefix(line, "  ") {
				break
			}
			info.Examples = append(info.Examples, trimmed)
		}
	}

	return info
}
