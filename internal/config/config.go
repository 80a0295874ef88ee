package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/nats-io/bindgen/internal/binding"
	"github.com/nats-io/bindgen/internal/extract"
	"github.com/nats-io/bindgen/internal/output"
	"github.com/nats-io/bindgen/internal/parser"
)

// ConfigFileName is the name of the bindgen configuration file
const ConfigFileName = "config.yaml"

// TOMLConfigFileName is the alternative TOML configuration file
const TOMLConfigFileName = "config.toml"

// ConfigDirName is the name of the bindgen configuration directory
const ConfigDirName = ".bindgen"

// Environment variables that override file values
const (
	EnvTemplate = "BINDGEN_TEMPLATE"
	EnvFormat   = "BINDGEN_FORMAT"
	EnvCacheDir = "BINDGEN_CACHE_DIR"
)

// Config holds all bindgen configuration
type Config struct {
	Convention ConventionConfig `yaml:"convention" toml:"convention"`
	Parse      ParseConfig      `yaml:"parse" toml:"parse"`
	Output     OutputConfig     `yaml:"output" toml:"output"`
	Cache      CacheConfig      `yaml:"cache" toml:"cache"`
}

// NamespaceConfig is one recognized declaration prefix
type NamespaceConfig struct {
	Prefix     string `yaml:"prefix" toml:"prefix"`
	BuildGuard string `yaml:"build_guard,omitempty" toml:"build_guard,omitempty"`
}

// ConventionConfig holds the naming rules of the wrapped C API
type ConventionConfig struct {
	Namespaces        []NamespaceConfig `yaml:"namespaces" toml:"namespaces"`
	PrefixLength      int               `yaml:"prefix_length" toml:"prefix_length"`
	ConstructorSuffix string            `yaml:"constructor_suffix" toml:"constructor_suffix"`
	DestructorSuffix  string            `yaml:"destructor_suffix" toml:"destructor_suffix"`
	ClosureParam      string            `yaml:"closure_param" toml:"closure_param"`
	MoveType          string            `yaml:"move_type" toml:"move_type"`
	StatusType        string            `yaml:"status_type" toml:"status_type"`
	NonOwningWrapper  string            `yaml:"non_owning_wrapper" toml:"non_owning_wrapper"`
}

// ParseConfig holds configuration for reading headers
type ParseConfig struct {
	Language     string   `yaml:"language" toml:"language"`
	IgnoreMacros []string `yaml:"ignore_macros" toml:"ignore_macros"`
	// KeepCppGuards leaves "#ifdef __cplusplus" regions in place
	KeepCppGuards bool `yaml:"keep_cpp_guards" toml:"keep_cpp_guards"`
}

// OutputConfig holds configuration for generated output
type OutputConfig struct {
	Format  string `yaml:"format" toml:"format"`
	Density string `yaml:"density" toml:"density"`
	// Template is a text/template file; empty selects the embedded C++ template
	Template string `yaml:"template,omitempty" toml:"template,omitempty"`
	// Out is the generated file; empty derives "<header>.hpp"
	Out string `yaml:"out,omitempty" toml:"out,omitempty"`
}

// CacheConfig holds configuration for the generation cache
type CacheConfig struct {
	Disabled bool   `yaml:"disabled" toml:"disabled"`
	Dir      string `yaml:"dir" toml:"dir"`
}

// ErrConfigNotFound is returned when no config file can be found
var ErrConfigNotFound = errors.New("config file not found")

// ErrInvalidConfig is returned when config validation fails
var ErrInvalidConfig = errors.New("invalid configuration")

// Load reads config from .bindgen/config.yaml (or config.toml), falling back
// to defaults. It searches for the config directory starting from workDir and
// walking up the directory tree. A .env file in workDir is loaded first so
// its variables can override file values.
func Load(workDir string) (*Config, error) {
	if err := loadDotEnv(workDir); err != nil {
		return nil, err
	}

	configDir, err := FindConfigDir(workDir)
	if err != nil {
		// No config dir found, use defaults
		return finish(DefaultConfig())
	}

	return LoadFromPath(configFilePath(configDir))
}

// LoadFromPath reads config from a specific path. Files ending in .toml are
// decoded as TOML, everything else as YAML.
// Merges loaded config with defaults, applies environment overrides and
// validates the result.
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return finish(DefaultConfig())
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	loaded := &Config{}
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		if _, err := toml.Decode(string(data), loaded); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	} else if err := yaml.Unmarshal(data, loaded); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	return finish(Merge(loaded, DefaultConfig()))
}

func finish(cfg *Config) (*Config, error) {
	ApplyEnv(cfg)
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// configFilePath prefers config.yaml and falls back to config.toml.
func configFilePath(configDir string) string {
	yamlPath := filepath.Join(configDir, ConfigFileName)
	if _, err := os.Stat(yamlPath); err == nil {
		return yamlPath
	}
	tomlPath := filepath.Join(configDir, TOMLConfigFileName)
	if _, err := os.Stat(tomlPath); err == nil {
		return tomlPath
	}
	return yamlPath
}

func loadDotEnv(workDir string) error {
	path := filepath.Join(workDir, ".env")
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overrides file values with BINDGEN_* environment variables.
func ApplyEnv(cfg *Config) {
	if v := os.Getenv(EnvTemplate); v != "" {
		cfg.Output.Template = v
	}
	if v := os.Getenv(EnvFormat); v != "" {
		cfg.Output.Format = v
	}
	if v := os.Getenv(EnvCacheDir); v != "" {
		cfg.Cache.Dir = v
	}
}

// FindConfigDir locates the .bindgen directory by walking up from startDir.
// Returns the path to the .bindgen directory if found.
func FindConfigDir(startDir string) (string, error) {
	absDir, err := filepath.Abs(startDir)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}

	currentDir := absDir
	for {
		configDir := filepath.Join(currentDir, ConfigDirName)
		info, err := os.Stat(configDir)
		if err == nil && info.IsDir() {
			return configDir, nil
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			// Reached root, config not found
			return "", ErrConfigNotFound
		}
		currentDir = parentDir
	}
}

// EnsureConfigDir creates the .bindgen directory if it doesn't exist.
// Returns the path to the .bindgen directory.
func EnsureConfigDir(workDir string) (string, error) {
	absDir, err := filepath.Abs(workDir)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}

	configDir := filepath.Join(absDir, ConfigDirName)

	info, err := os.Stat(configDir)
	if err == nil {
		if info.IsDir() {
			return configDir, nil
		}
		return "", fmt.Errorf("%s exists but is not a directory", configDir)
	}

	if err := os.MkdirAll(configDir, 0755); err != nil {
		return "", fmt.Errorf("creating config directory: %w", err)
	}

	return configDir, nil
}

// Validate checks that config values are valid.
// Returns an error wrapping ErrInvalidConfig if validation fails.
func Validate(cfg *Config) error {
	if err := cfg.NamingConvention().Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	if _, err := parser.ParseLanguage(cfg.Parse.Language); err != nil {
		return fmt.Errorf("%w: language: %w", ErrInvalidConfig, err)
	}

	if _, err := output.ParseFormat(cfg.Output.Format); err != nil {
		return fmt.Errorf("%w: format: %w", ErrInvalidConfig, err)
	}

	if _, err := output.ParseDensity(cfg.Output.Density); err != nil {
		return fmt.Errorf("%w: density: %w", ErrInvalidConfig, err)
	}

	for _, m := range cfg.Parse.IgnoreMacros {
		if strings.TrimSpace(m) == "" {
			return fmt.Errorf("%w: ignore_macros must not contain empty names", ErrInvalidConfig)
		}
	}

	if !cfg.Cache.Disabled && cfg.Cache.Dir == "" {
		return fmt.Errorf("%w: cache dir must be set when the cache is enabled", ErrInvalidConfig)
	}

	return nil
}

// NamingConvention maps the convention section onto the builder's rules.
func (c *Config) NamingConvention() binding.NamingConvention {
	conv := binding.NamingConvention{
		PrefixLength:      c.Convention.PrefixLength,
		ConstructorSuffix: c.Convention.ConstructorSuffix,
		DestructorSuffix:  c.Convention.DestructorSuffix,
		ClosureParam:      c.Convention.ClosureParam,
		MoveType:          c.Convention.MoveType,
		StatusType:        c.Convention.StatusType,
		NonOwningWrapper:  c.Convention.NonOwningWrapper,
	}
	for _, ns := range c.Convention.Namespaces {
		conv.Namespaces = append(conv.Namespaces, binding.NamespacePrefix{Prefix: ns.Prefix, BuildGuard: ns.BuildGuard})
	}
	return conv
}

// PreprocessOptions returns the header clean-up options.
func (c *Config) PreprocessOptions() extract.PreprocessOptions {
	return extract.PreprocessOptions{
		Macros:    c.Parse.IgnoreMacros,
		CppGuards: !c.Parse.KeepCppGuards,
	}
}

// SaveDefault writes the default configuration to .bindgen/config.yaml in workDir.
// Creates the .bindgen directory if it doesn't exist.
func SaveDefault(workDir string) (string, error) {
	configDir, err := EnsureConfigDir(workDir)
	if err != nil {
		return "", err
	}

	configPath := filepath.Join(configDir, ConfigFileName)

	if _, err := os.Stat(configPath); err == nil {
		return "", fmt.Errorf("config file already exists: %s", configPath)
	}

	if err := Save(configPath, DefaultConfig()); err != nil {
		return "", err
	}

	return configPath, nil
}

// Save writes cfg as YAML to path with a short header comment.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	header := "# bindgen configuration\n# Environment overrides: BINDGEN_TEMPLATE, BINDGEN_FORMAT, BINDGEN_CACHE_DIR\n\n"
	data = append([]byte(header), data...)

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}
