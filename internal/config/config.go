// Package config loads the interpreter's ambient settings: the REPL prompt
// and banner text, and the timeout applied to CmdFunction subprocesses.
// Defaults are assigned in Load, an optional portugol.yaml file overrides
// them, and environment variables take precedence over both — the same
// file-then-env layering the teacher's CLI tooling assumes is available for
// configuration not already covered by command-line flags.
package config

import (
	"os"
	"time"

	"github.com/caarlos0/env/v6"
	"gopkg.in/yaml.v3"
)

// Config holds the values internal/maincmd needs to start the REPL or run a
// file, beyond the command-line arguments themselves.
//
// Defaults are assigned in Load rather than via envDefault struct tags:
// env.Parse applies an envDefault unconditionally whenever its env var is
// unset, which would clobber a value the YAML file had already supplied.
// Assigning defaults first, then layering YAML, then layering env.Parse
// (which only touches fields whose env var is actually present) keeps the
// three layers additive instead of letting the last one stomp the others.
type Config struct {
	Prompt        string        `yaml:"prompt" env:"PORTUGOL_PROMPT"`
	Banner        string        `yaml:"banner" env:"PORTUGOL_BANNER"`
	ShellTimeout  time.Duration `yaml:"shell_timeout" env:"PORTUGOL_SHELL_TIMEOUT"`
	DocOutputPath string        `yaml:"doc_output_path" env:"PORTUGOL_DOC_PATH"`
}

// Load applies defaults, then a path YAML overlay (if the file exists), then
// environment variable overrides, in that order. A missing file is not an
// error: the defaults and any environment overrides still apply.
func Load(path string) (*Config, error) {
	cfg := &Config{
		Prompt:        "> ",
		Banner:        "[Portugol]",
		ShellTimeout:  10 * time.Second,
		DocOutputPath: "doc.md",
	}

	if data, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, err
		}
	} else if !os.IsNotExist(err) {
		return nil, err
	}

	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
