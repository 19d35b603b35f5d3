package config

import "flag"

var (
	flagConfig      = flag.String("config", "", "Path to config file")
	flagDebug       = flag.Bool("debug", false, "Enable debug logging")
	flagLogFile     = flag.String("log-file", "", "Write logs to this file")
	flagTolerance   = flag.Float64("tolerance", 0, "Cutaway coordinate tolerance")
	flagHolePercent = flag.Float64("hole-percent", 0, "Fraction of the mover footprint a hole must clear")
	flagWorkers     = flag.Int("workers", 0, "Concurrent hole field builds")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// Args returns the non-flag arguments left after ParseFlags.
func Args() []string {
	return flag.Args()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagLogFile != "" {
		cfg.Logging.LogFile = *flagLogFile
	}
	if *flagTolerance > 0 {
		cfg.Engine.Tolerance = *flagTolerance
	}
	if *flagHolePercent > 0 {
		cfg.Holes.Percent = *flagHolePercent
	}
	if *flagWorkers > 0 {
		cfg.Holes.Workers = *flagWorkers
	}
}
