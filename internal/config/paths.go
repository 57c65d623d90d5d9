// Package config handles wplan configuration.
package config

import (
	"os"
	"path/filepath"
)

// Paths provides all wplan-related filesystem paths.
type Paths struct {
	ConfigDir  string // ~/.config/wplan
	ConfigFile string // ~/.config/wplan/config.yaml
}

// NewPaths creates Paths under ~/.config. We use this path explicitly for
// cross-platform consistency rather than platform-specific defaults (like
// ~/Library/Application Support on macOS).
func NewPaths() *Paths {
	home := os.Getenv("HOME")
	configDir := filepath.Join(home, ".config", "wplan")

	return &Paths{
		ConfigDir:  configDir,
		ConfigFile: filepath.Join(configDir, "config.yaml"),
	}
}

// NewPathsWithOverrides allows overriding the config directory for testing.
func NewPathsWithOverrides(configDir string) *Paths {
	return &Paths{
		ConfigDir:  configDir,
		ConfigFile: filepath.Join(configDir, "config.yaml"),
	}
}
