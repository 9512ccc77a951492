// Package config loads optional server defaults from a driftls.toml
// file found in or above the working directory.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/driftlint/driftls/pkg/workspace"
)

// ServerConfig is the driftls.toml configuration file.
type ServerConfig struct {
	// LogLevel overrides the default "info" level. One of "debug",
	// "info", "warn", "error".
	LogLevel string `toml:"log_level,omitempty"`

	// TestFilePattern is the default glob for test files, used until a
	// folder's own settings arrive from the client.
	TestFilePattern string `toml:"test_file_pattern,omitempty"`

	// AnalyzerProperties are forwarded to every analysis unless the
	// client overrides them per folder.
	AnalyzerProperties map[string]string `toml:"analyzer_properties,omitempty"`

	// Rules maps rule keys to "on" or "off".
	Rules map[string]string `toml:"rules,omitempty"`
}

// Load loads a driftls.toml file from the given path.
func Load(path string) (*ServerConfig, error) {
	var config ServerConfig
	if _, err := toml.DecodeFile(path, &config); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return &config, nil
}

// Find searches for a driftls.toml file starting from dir and walking
// up to parent directories. Returns the path to driftls.toml and the
// parsed config, or ("", nil, nil) if not found.
func Find(dir string) (string, *ServerConfig, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", nil, err
	}
	for {
		path := filepath.Join(dir, "driftls.toml")
		if _, err := os.Stat(path); err == nil {
			config, err := Load(path)
			if err != nil {
				return "", nil, err
			}
			return path, config, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil, nil
		}
		dir = parent
	}
}

// FolderDefaults converts the file's settings into the per-folder
// fallback applied before the client supplies real settings.
func (c *ServerConfig) FolderDefaults() workspace.FolderSettings {
	return workspace.FolderSettings{
		TestFilePattern:    c.TestFilePattern,
		AnalyzerProperties: c.AnalyzerProperties,
		Rules:              c.Rules,
	}
}
