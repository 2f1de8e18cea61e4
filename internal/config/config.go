// Package config loads a compile session's Configuration table (spec §6)
// from a YAML file, the way the teacher's scripting language exposes YAML
// to Lattice-*source* programs via yamlDecode/yamlEncode
// (internal/evaluator/builtins_yaml.go) — here the same library instead
// unmarshals the compiler's own session configuration, not a user value.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// EmitKind selects what, if anything, a session dumps after a phase.
type EmitKind string

const (
	EmitNone EmitKind = "none"
	EmitAST  EmitKind = "ast"
	EmitIR   EmitKind = "ir"
)

// Configuration is spec §6's session configuration table, unmarshalled
// from a `compiler.yaml`/`latticec.yaml` file.
type Configuration struct {
	OptLevel              int      `yaml:"opt_level"`
	Emit                  EmitKind `yaml:"emit"`
	MaxErrors             uint32   `yaml:"max_errors"`
	AllowWarningsAsErrors bool     `yaml:"allow_warnings_as_errors"`
	RecursionLimit        uint32   `yaml:"recursion_limit"`
}

// Default returns spec §6's documented defaults (max_errors 100,
// recursion_limit 256, opt_level 0, emit none).
func Default() Configuration {
	return Configuration{
		OptLevel:              0,
		Emit:                  EmitNone,
		MaxErrors:             100,
		AllowWarningsAsErrors: false,
		RecursionLimit:        256,
	}
}

// Load reads and unmarshals a YAML configuration file, applying Default's
// values for any field the file leaves unset (opt_level 0 and
// warnings-as-errors false are themselves valid settings, so only
// MaxErrors and RecursionLimit — which are never meaningfully zero — get
// defaulted when absent).
func Load(path string) (Configuration, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return Configuration{}, fmt.Errorf("config: reading %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Configuration{}, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	if cfg.MaxErrors == 0 {
		cfg.MaxErrors = 100
	}
	if cfg.RecursionLimit == 0 {
		cfg.RecursionLimit = 256
	}
	return cfg, cfg.Validate()
}

// Validate rejects a Configuration spec §6 would never accept: an
// opt_level outside {0,1,2,3}, or an emit kind other than ast/ir/none.
func (c Configuration) Validate() error {
	if c.OptLevel < 0 || c.OptLevel > 3 {
		return fmt.Errorf("config: opt_level must be 0-3, got %d", c.OptLevel)
	}
	switch c.Emit {
	case EmitNone, EmitAST, EmitIR:
	default:
		return fmt.Errorf("config: emit must be one of ast|ir|none, got %q", c.Emit)
	}
	return nil
}
