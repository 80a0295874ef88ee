package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/nats-io/bindgen/internal/config"
	"github.com/nats-io/bindgen/internal/render"
)

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize the .bindgen directory and configuration",
	Long: `Initialize the .bindgen directory with a default config.yaml in the current
directory.

The configuration holds the naming convention of the wrapped C API, header
preprocessing options, output settings and the generation cache location.
With --template the embedded C++ template is also written to
.bindgen/cpp.tmpl and selected in the configuration, ready to be customized.

Examples:
  bindgen init             # Initialize in current directory
  bindgen init --template  # Also export the default template
  bindgen init --force     # Overwrite an existing configuration`,
	RunE: runInit,
}

var (
	initForce    bool
	initTemplate bool
)

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().BoolVar(&initForce, "force", false, "Reinitialize even if .bindgen/config.yaml already exists")
	initCmd.Flags().BoolVar(&initTemplate, "template", false, "Export the embedded template to .bindgen/cpp.tmpl")
}

func runInit(cmd *cobra.Command, args []string) error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("get working directory: %w", err)
	}

	configDir := filepath.Join(cwd, config.ConfigDirName)
	configFile := filepath.Join(configDir, config.ConfigFileName)

	_, err = os.Stat(configFile)
	if err == nil {
		if !initForce {
			relPath, _ := filepath.Rel(cwd, configFile)
			fmt.Fprintf(cmd.OutOrStdout(), "Already initialized at %s\n", relPath)
			return nil
		}
		if err := os.Remove(configFile); err != nil {
			return fmt.Errorf("removing existing config: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("checking config path: %w", err)
	}

	configFile, err = config.SaveDefault(cwd)
	if err != nil {
		return err
	}
	relPath, _ := filepath.Rel(cwd, configFile)
	fmt.Fprintf(cmd.OutOrStdout(), "Initialized bindgen configuration at %s\n", relPath)

	if !initTemplate {
		return nil
	}

	templateFile := filepath.Join(configDir, render.DefaultTemplateName)
	if err := os.WriteFile(templateFile, []byte(render.DefaultTemplate()), 0644); err != nil {
		return fmt.Errorf("writing template: %w", err)
	}
	if err := selectTemplate(configFile, filepath.Join(config.ConfigDirName, render.DefaultTemplateName)); err != nil {
		return err
	}
	relPath, _ = filepath.Rel(cwd, templateFile)
	fmt.Fprintf(cmd.OutOrStdout(), "Exported default template to %s\n", relPath)
	return nil
}

// selectTemplate rewrites the default config at configFile with
// output.template set to templatePath.
func selectTemplate(configFile, templatePath string) error {
	cfg := config.DefaultConfig()
	cfg.Output.Template = templatePath
	return config.Save(configFile, cfg)
}
