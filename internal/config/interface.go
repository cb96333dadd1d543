package config

import "context"

// Loader is the interface for a format-specific configuration loader.
type Loader interface {
	// Load reads the configuration at path and evaluates it for vars. A
	// missing file yields the defaults.
	Load(ctx context.Context, path string, vars Vars) (*Project, error)
}
