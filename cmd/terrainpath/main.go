// terrainpath is a CLI for querying paths and ground elevations in a scene.
package main

import (
	"fmt"
	"os"

	"github.com/Faultbox/terrainpath/internal/config"
	"github.com/Faultbox/terrainpath/internal/logger"
)

func main() {
	// Parse CLI flags first
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	args := config.Args()
	if len(args) < 1 {
		printUsage()
		os.Exit(1)
	}

	command := args[0]
	args = args[1:]

	switch command {
	case "path":
		err = cmdPath(cfg, args)
	case "ground":
		err = cmdGround(cfg, args)
	case "classify":
		err = cmdClassify(cfg, args)
	case "holes":
		err = cmdHoles(cfg, args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`terrainpath - elevation-aware path queries

Usage:
  terrainpath [global options] <command> [options]

Global options:
  -config <file>        Config file (default ./config.yaml)
  -debug                Debug logging
  -log-file <file>      Also log to a rotating file
  -tolerance <v>        Cutaway coordinate tolerance
  -hole-percent <v>     Fraction of the mover a hole must clear
  -workers <n>          Concurrent hole field builds

Commands:
  path <scene.yaml> x0 y0 z0 x1 y1 z1   Construct a path
  ground <scene.yaml> x y z             Nearest ground elevation
  classify <scene.yaml> x y z           Classify a point against the terrain
  holes <scene.yaml>                    Build hole fields for perforated tiles

Examples:
  terrainpath path scene.yaml 0 0 0 100 0 0
  terrainpath path -fly on -dump ./out scene.yaml 0 0 0 100 0 0
  terrainpath ground -burrow off scene.yaml 25 0 2
  terrainpath -workers 8 holes -dump ./out scene.yaml`)
}
