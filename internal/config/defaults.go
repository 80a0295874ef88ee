package config

import "github.com/nats-io/bindgen/internal/binding"

// DefaultConfig returns configuration with sensible defaults.
// These defaults are used when no config file exists or when
// config file is missing specific fields.
func DefaultConfig() *Config {
	conv := binding.DefaultConvention()

	cfg := &Config{
		Convention: ConventionConfig{
			PrefixLength:      conv.PrefixLength,
			ConstructorSuffix: conv.ConstructorSuffix,
			DestructorSuffix:  conv.DestructorSuffix,
			ClosureParam:      conv.ClosureParam,
			MoveType:          conv.MoveType,
			StatusType:        conv.StatusType,
			NonOwningWrapper:  conv.NonOwningWrapper,
		},
		Parse: ParseConfig{
			Language:     "c",
			IgnoreMacros: []string{"NATS_EXTERN"},
		},
		Output: OutputConfig{
			Format:  "yaml",
			Density: "medium",
		},
		Cache: CacheConfig{
			Dir: ConfigDirName,
		},
	}
	for _, ns := range conv.Namespaces {
		cfg.Convention.Namespaces = append(cfg.Convention.Namespaces, NamespaceConfig{Prefix: ns.Prefix, BuildGuard: ns.BuildGuard})
	}
	return cfg
}

// Merge merges loaded config with defaults.
// Values from loaded config take precedence over defaults.
// Returns a new Config with merged values.
func Merge(loaded, defaults *Config) *Config {
	result := &Config{}

	result.Convention = mergeConventionConfig(loaded.Convention, defaults.Convention)
	result.Parse = mergeParseConfig(loaded.Parse, defaults.Parse)
	result.Output = mergeOutputConfig(loaded.Output, defaults.Output)
	result.Cache = mergeCacheConfig(loaded.Cache, defaults.Cache)

	return result
}

func mergeConventionConfig(loaded, defaults ConventionConfig) ConventionConfig {
	result := ConventionConfig{}

	// A namespace list replaces the defaults as a whole
	if len(loaded.Namespaces) > 0 {
		result.Namespaces = loaded.Namespaces
	} else {
		result.Namespaces = defaults.Namespaces
	}

	if loaded.PrefixLength != 0 {
		result.PrefixLength = loaded.PrefixLength
	} else {
		result.PrefixLength = defaults.PrefixLength
	}

	result.ConstructorSuffix = orDefault(loaded.ConstructorSuffix, defaults.ConstructorSuffix)
	result.DestructorSuffix = orDefault(loaded.DestructorSuffix, defaults.DestructorSuffix)
	result.ClosureParam = orDefault(loaded.ClosureParam, defaults.ClosureParam)
	result.MoveType = orDefault(loaded.MoveType, defaults.MoveType)
	result.StatusType = orDefault(loaded.StatusType, defaults.StatusType)
	result.NonOwningWrapper = orDefault(loaded.NonOwningWrapper, defaults.NonOwningWrapper)

	return result
}

func mergeParseConfig(loaded, defaults ParseConfig) ParseConfig {
	result := ParseConfig{}

	result.Language = orDefault(loaded.Language, defaults.Language)

	// Use loaded macro names if provided, otherwise defaults
	if len(loaded.IgnoreMacros) > 0 {
		result.IgnoreMacros = loaded.IgnoreMacros
	} else {
		result.IgnoreMacros = defaults.IgnoreMacros
	}

	// Booleans default to false, so the loaded value always wins
	result.KeepCppGuards = loaded.KeepCppGuards

	return result
}

func mergeOutputConfig(loaded, defaults OutputConfig) OutputConfig {
	return OutputConfig{
		Format:   orDefault(loaded.Format, defaults.Format),
		Density:  orDefault(loaded.Density, defaults.Density),
		Template: orDefault(loaded.Template, defaults.Template),
		Out:      orDefault(loaded.Out, defaults.Out),
	}
}

func mergeCacheConfig(loaded, defaults CacheConfig) CacheConfig {
	return CacheConfig{
		Disabled: loaded.Disabled,
		Dir:      orDefault(loaded.Dir, defaults.Dir),
	}
}

func orDefault(loaded, def string) string {
	if loaded != "" {
		return loaded
	}
	return def
}
