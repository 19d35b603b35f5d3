// Package config handles engine configuration loading and management.
package config

// Config holds all engine settings.
type Config struct {
	Engine  EngineConfig  `yaml:"engine"`
	Holes   HoleConfig    `yaml:"holes"`
	Logging LoggingConfig `yaml:"logging"`
}

// EngineConfig holds path construction settings.
type EngineConfig struct {
	Tolerance       float64 `yaml:"tolerance"`        // Almost-equal tolerance for cutaway coordinates
	SlabThickness   float64 `yaml:"slab_thickness"`   // Thickness of floor tile slabs
	Depth           float64 `yaml:"depth"`            // Bottom of the baseline floor and region mesas
	IterationFactor int     `yaml:"iteration_factor"` // Walker cap per polygon vertex
	MinIterations   int     `yaml:"min_iterations"`   // Walker cap lower bound
	GroundPasses    int     `yaml:"ground_passes"`    // Support resolver fixed-point cap
}

// HoleConfig holds floor perforation settings.
type HoleConfig struct {
	Percent   float64 `yaml:"percent"`    // Fraction of the mover footprint a hole must clear
	MaxPasses int     `yaml:"max_passes"` // Distance field relaxation cap
	Workers   int     `yaml:"workers"`    // Concurrent field builds
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Engine: DefaultEngine(),
		Holes:  DefaultHoles(),
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// DefaultEngine returns the default path construction settings.
func DefaultEngine() EngineConfig {
	return EngineConfig{
		Tolerance:       1e-6,
		SlabThickness:   1,
		Depth:           -1e6,
		IterationFactor: 4,
		MinIterations:   64,
		GroundPasses:    100,
	}
}

// DefaultHoles returns the default perforation settings.
func DefaultHoles() HoleConfig {
	return HoleConfig{
		Percent:   0.5,
		MaxPasses: 4096,
		Workers:   4,
	}
}

// Normalized returns c with every unset field replaced by its default.
func (c EngineConfig) Normalized() EngineConfig {
	d := DefaultEngine()
	if c.Tolerance <= 0 {
		c.Tolerance = d.Tolerance
	}
	if c.SlabThickness <= 0 {
		c.SlabThickness = d.SlabThickness
	}
	if c.Depth >= 0 {
		c.Depth = d.Depth
	}
	if c.IterationFactor <= 0 {
		c.IterationFactor = d.IterationFactor
	}
	if c.MinIterations <= 0 {
		c.MinIterations = d.MinIterations
	}
	if c.GroundPasses <= 0 {
		c.GroundPasses = d.GroundPasses
	}
	return c
}

// Normalized returns c with every unset field replaced by its default.
func (c HoleConfig) Normalized() HoleConfig {
	d := DefaultHoles()
	if c.Percent <= 0 {
		c.Percent = d.Percent
	}
	if c.MaxPasses <= 0 {
		c.MaxPasses = d.MaxPasses
	}
	if c.Workers <= 0 {
		c.Workers = d.Workers
	}
	return c
}
