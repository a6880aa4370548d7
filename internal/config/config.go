package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// ConfigFileName is the config file looked up next to the invocation when
// no explicit path is given.
const ConfigFileName = "weave.yaml"

// Config holds the generation options that can be set from a weave.yaml
// file. CLI flags override whatever is loaded here.
type Config struct {
	// Extensions are the file suffixes treated as templates to expand.
	Extensions []string `yaml:"extensions,omitempty" validate:"omitempty,dive,startswith=."`

	// Minify compacts serialized template output.
	Minify *bool `yaml:"minify,omitempty"`

	// Strict makes the run exit non-zero when any warning was reported.
	// The build still completes; warnings stay advisory per document.
	Strict bool `yaml:"strict,omitempty"`

	// MaxPasses bounds the fixed-point loop per document; zero keeps the
	// engine default.
	MaxPasses int `yaml:"max_passes,omitempty" validate:"gte=0"`
}

// DefaultConfig returns a new Config with default values
func DefaultConfig() *Config {
	minify := true
	return &Config{
		Extensions: []string{".html"},
		Minify:     &minify,
	}
}

// Load reads a config file. With an empty path it looks for weave.yaml in
// the working directory and falls back to defaults when absent; an explicit
// path that cannot be read is an error.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = ConfigFileName
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}
	return cfg, nil
}
