package meta

import (
	"fmt"

	"sigs.k8s.io/yaml"
)

// Config controls compilation and search.
//
// Example:
//
//	config := meta.DefaultConfig()
//	config.Minimize = false // keep the subset-construction DFA as is
//	engine, err := meta.CompileWithConfig(`(foo|bar)\d+`, config)
type Config struct {
	// EnableDFA enables subset construction. When false the engine
	// simulates the epsilon-free NFA.
	// Default: true
	EnableDFA bool `json:"enable_dfa"`

	// Minimize replaces the DFA by the minimal DFA of its language.
	// Requires EnableDFA. Skipped when an intermediate DFA exceeds
	// MaxDFAStates.
	// Default: true
	Minimize bool `json:"minimize"`

	// Prune removes states that are unreachable or cannot reach an
	// accepting state.
	// Default: true
	Prune bool `json:"prune"`

	// EnablePrefilter enables literal-based prefiltering.
	// Default: true
	EnablePrefilter bool `json:"enable_prefilter"`

	// EnableSearchDFA scans single-literal patterns with a search DFA
	// instead of the prefilter.
	// Default: true
	EnableSearchDFA bool `json:"enable_search_dfa"`

	// MaxDFAStates bounds the number of states subset construction may
	// create before the engine falls back to the NFA.
	// Default: 10000
	MaxDFAStates int `json:"max_dfa_states"`

	// MaxLiterals limits the number of prefix literals extracted for
	// prefiltering.
	// Default: 64
	MaxLiterals int `json:"max_literals"`

	// MaxRecursionDepth limits recursion during NFA compilation.
	// Default: 1000
	MaxRecursionDepth int `json:"max_recursion_depth"`

	// DotNewline makes '.' match '\n'.
	DotNewline bool `json:"dot_newline"`

	// FoldCase matches ASCII letters case-insensitively.
	FoldCase bool `json:"fold_case"`
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() Config {
	return Config{
		EnableDFA:         true,
		Minimize:          true,
		Prune:             true,
		EnablePrefilter:   true,
		EnableSearchDFA:   true,
		MaxDFAStates:      10000,
		MaxLiterals:       64,
		MaxRecursionDepth: 1000,
	}
}

// Validate checks if the configuration is valid.
// Returns an error if any parameter is out of range.
//
// Valid ranges:
//   - MaxDFAStates: 1 to 1,000,000 (checked when EnableDFA is set)
//   - MaxLiterals: 1 to 1,000 (checked when EnablePrefilter is set)
//   - MaxRecursionDepth: 10 to 10,000
func (c Config) Validate() error {
	if c.EnableDFA {
		if c.MaxDFAStates < 1 || c.MaxDFAStates > 1_000_000 {
			return &ConfigError{
				Field:   "MaxDFAStates",
				Message: "must be between 1 and 1,000,000",
			}
		}
	} else if c.Minimize {
		return &ConfigError{
			Field:   "Minimize",
			Message: "requires EnableDFA",
		}
	}

	if c.EnablePrefilter {
		if c.MaxLiterals < 1 || c.MaxLiterals > 1_000 {
			return &ConfigError{
				Field:   "MaxLiterals",
				Message: "must be between 1 and 1,000",
			}
		}
	}

	if c.MaxRecursionDepth < 10 || c.MaxRecursionDepth > 10_000 {
		return &ConfigError{
			Field:   "MaxRecursionDepth",
			Message: "must be between 10 and 10,000",
		}
	}

	return nil
}

// ParseConfig reads a configuration in YAML or JSON. Keys are the json tags
// of Config; missing keys keep their DefaultConfig values and unknown keys
// are rejected. The result is validated.
//
// Example:
//
//	config, err := meta.ParseConfig([]byte("minimize: false\nmax_dfa_states: 500\n"))
func ParseConfig(data []byte) (Config, error) {
	config := DefaultConfig()
	if err := yaml.UnmarshalStrict(data, &config); err != nil {
		return Config{}, fmt.Errorf("rationl: parse config: %w", err)
	}
	if err := config.Validate(); err != nil {
		return Config{}, err
	}
	return config, nil
}

// YAML returns the configuration as YAML, in the form ParseConfig
// reads.
func (c Config) YAML() ([]byte, error) {
	return yaml.Marshal(c)
}

// ConfigError represents an invalid configuration parameter.
type ConfigError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return "rationl: invalid config: " + e.Field + ": " + e.Message
}
