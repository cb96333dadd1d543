package app

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/vk/gobundle/internal/itemid"
)

// problemRegex matches problem labels: they name a directory under cmd/.
var problemRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_.-]*$`)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	Problem string
	Root    string
	// ConfigPath is the bundle.hcl location; empty means <Root>/bundle.hcl.
	ConfigPath string
	// OutputPath overrides the configured output when set.
	OutputPath string
	DryRun     bool
	// Explain is an item identifier whose inclusion should be explained.
	Explain string

	LogFormat string
	LogLevel  string
}

func NewConfig(cfg Config) (*Config, error) {
	if cfg.Problem == "" {
		return nil, errors.New("Problem is a required configuration field and cannot be empty")
	}
	if !problemRegex.MatchString(cfg.Problem) {
		return nil, fmt.Errorf("invalid problem label %q", cfg.Problem)
	}
	if cfg.Root == "" {
		cfg.Root = "."
	}
	if cfg.Explain != "" {
		if _, err := itemid.Parse(cfg.Explain); err != nil {
			return nil, fmt.Errorf("invalid explain target: %w", err)
		}
	}
	return &cfg, nil
}
