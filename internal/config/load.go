package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"
)

// ErrInvalid marks a config file whose values are out of range.
var ErrInvalid = errors.New("invalid config")

// Load builds the configuration from defaults, the config file named by
// -config or found on the search path, and finally the command-line flags.
func Load() (*Config, error) {
	path := ConfigPath()
	if path == "" {
		path = findConfigFile()
	}

	cfg := Default()
	if path != "" {
		if err := loadFromFile(cfg, path); err != nil {
			return nil, fmt.Errorf("loading config from %s: %w", path, err)
		}
	}
	applyFlags(cfg)
	return cfg, nil
}

// SearchPaths lists the files Load tries, in order, when -config is not set.
func SearchPaths() []string {
	return []string{
		"./config.yaml",
		filepath.Join(ConfigDir(), "config.yaml"),
	}
}

func findConfigFile() string {
	for _, path := range SearchPaths() {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// ConfigDir returns the OS-appropriate config directory.
func ConfigDir() string {
	switch runtime.GOOS {
	case "darwin":
		home, _ := os.UserHomeDir()
		return filepath.Join(home, "Library", "Application Support", "TerrainPath")
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "TerrainPath")
	default:
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, "terrainpath")
		}
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "terrainpath")
	}
}

// loadFromFile merges the YAML file at path over cfg. Unknown keys are
// rejected so a misspelt tunable does not silently fall back to its default.
// An empty file leaves cfg unchanged.
func loadFromFile(cfg *Config, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return cfg.validate()
}

// validate rejects values that Normalized would not replace but that no
// query can use. Zero means "default" and is accepted.
func (c *Config) validate() error {
	switch {
	case c.Engine.Tolerance < 0:
		return fmt.Errorf("%w: engine.tolerance %g is negative", ErrInvalid, c.Engine.Tolerance)
	case c.Engine.SlabThickness < 0:
		return fmt.Errorf("%w: engine.slab_thickness %g is negative", ErrInvalid, c.Engine.SlabThickness)
	case c.Holes.Percent < 0:
		return fmt.Errorf("%w: holes.percent %g is negative", ErrInvalid, c.Holes.Percent)
	case c.Holes.Workers < 0:
		return fmt.Errorf("%w: holes.workers %d is negative", ErrInvalid, c.Holes.Workers)
	}
	return nil
}
