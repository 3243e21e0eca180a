package config

// Config represents the complete cexpand configuration.
// It can be loaded from .cexpand/config.yml with environment variable overrides.
type Config struct {
	Paths  PathsConfig  `yaml:"paths" mapstructure:"paths"`
	Search SearchConfig `yaml:"search" mapstructure:"search"`
	Output OutputConfig `yaml:"output" mapstructure:"output"`
}

// PathsConfig defines which files the definition search looks at.
type PathsConfig struct {
	Sources []string `yaml:"sources" mapstructure:"sources"` // glob patterns for C/C++ sources and headers
	Ignore  []string `yaml:"ignore" mapstructure:"ignore"`   // glob patterns to ignore
}

// SearchConfig controls the definition search that runs when the callee's
// body is not in the translation unit under the cursor.
type SearchConfig struct {
	Definitions bool `yaml:"definitions" mapstructure:"definitions"` // search other files for the definition
	Workers     int  `yaml:"workers" mapstructure:"workers"`         // files parsed concurrently
	CacheSize   int  `yaml:"cache_size" mapstructure:"cache_size"`   // max number of indexed files kept in memory
	MaxFiles    int  `yaml:"max_files" mapstructure:"max_files"`     // 0 means unlimited
}

// OutputConfig controls how results are printed.
type OutputConfig struct {
	Format string `yaml:"format" mapstructure:"format"` // "json" or "text"
	Color  bool   `yaml:"color" mapstructure:"color"`   // colorize text output
}

// Output formats.
const (
	FormatJSON = "json"
	FormatText = "text"
)

// Default returns a configuration with sensible defaults.
func Default() *Config {
	return &Config{
		Paths: PathsConfig{
			Sources: []string{
				"**/*.c",
				"**/*.cc",
				"**/*.cpp",
				"**/*.cxx",
				"**/*.h",
				"**/*.hh",
				"**/*.hpp",
				"**/*.hxx",
			},
			Ignore: []string{
				".git/**",
				"build/**",
				"cmake-build-*/**",
				"third_party/**",
				"vendor/**",
				"node_modules/**",
			},
		},
		Search: SearchConfig{
			Definitions: true,
			Workers:     4,
			CacheSize:   1024,
			MaxFiles:    0,
		},
		Output: OutputConfig{
			Format: FormatJSON,
			Color:  true,
		},
	}
}

// GetSourceExtensions extracts unique file extensions from the source patterns.
// Returns extensions with leading dot (e.g., []string{".c", ".h"}).
func (c *Config) GetSourceExtensions() []string {
	seen := make(map[string]bool)
	extensions := []string{}

	for _, pattern := range c.Paths.Sources {
		if ext := extractExtension(pattern); ext != "" && !seen[ext] {
			seen[ext] = true
			extensions = append(extensions, ext)
		}
	}

	return extensions
}

// extractExtension extracts the file extension from a glob pattern.
// Returns empty string if pattern doesn't match a simple extension pattern.
// Examples: "**/*.c" -> ".c", "*.hpp" -> ".hpp"
func extractExtension(pattern string) string {
	for i := len(pattern) - 1; i >= 1; i-- {
		if pattern[i] == '.' && pattern[i-1] == '*' {
			return pattern[i:]
		}
	}
	return ""
}
