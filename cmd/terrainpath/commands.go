package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"

	"go.uber.org/zap"

	"github.com/Faultbox/terrainpath/internal/assets"
	"github.com/Faultbox/terrainpath/internal/config"
	"github.com/Faultbox/terrainpath/internal/debug"
	"github.com/Faultbox/terrainpath/internal/holes"
	"github.com/Faultbox/terrainpath/internal/logger"
	"github.com/Faultbox/terrainpath/internal/scenefile"
	"github.com/Faultbox/terrainpath/internal/terrain"
	"github.com/Faultbox/terrainpath/internal/world"
	"github.com/Faultbox/terrainpath/pkg/math"
)

// queryFlags are shared by the point and path commands.
type queryFlags struct {
	fly          string
	burrow       string
	moverWidth   float64
	moverHeight  float64
	prepareHoles bool
}

func (q *queryFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&q.fly, "fly", "auto", "Flying: auto, on or off")
	fs.StringVar(&q.burrow, "burrow", "auto", "Burrowing: auto, on or off")
	fs.Float64Var(&q.moverWidth, "mover-width", 0, "Mover width (default from scene)")
	fs.Float64Var(&q.moverHeight, "mover-height", 0, "Mover height (default from scene)")
	fs.BoolVar(&q.prepareHoles, "prepare", true, "Build hole fields concurrently before querying")
}

// options builds world options from the flags, the config and the scene.
func (q *queryFlags) options(cfg *config.Config, scene *scenefile.Scene) (world.Options, error) {
	flying, err := parseMode(q.fly)
	if err != nil {
		return world.Options{}, fmt.Errorf("-fly: %w", err)
	}
	burrowing, err := parseMode(q.burrow)
	if err != nil {
		return world.Options{}, fmt.Errorf("-burrow: %w", err)
	}

	mover := scene.Mover
	if q.moverWidth > 0 {
		mover.Width = q.moverWidth
	}
	if q.moverHeight > 0 {
		mover.Height = q.moverHeight
	}
	return world.Options{
		Flying:    flying,
		Burrowing: burrowing,
		Mover:     mover,
		Settings:  terrain.Settings{Engine: cfg.Engine, Holes: cfg.Holes},
	}, nil
}

// parseMode turns auto/on/off into an optional flag.
func parseMode(s string) (*bool, error) {
	switch s {
	case "", "auto":
		return nil, nil
	case "on", "true", "yes":
		v := true
		return &v, nil
	case "off", "false", "no":
		v := false
		return &v, nil
	default:
		return nil, fmt.Errorf("invalid mode %q (want auto, on or off)", s)
	}
}

// parseCoords parses n float arguments.
func parseCoords(args []string, n int) ([]float64, error) {
	if len(args) != n {
		return nil, fmt.Errorf("expected %d coordinates, got %d", n, len(args))
	}
	out := make([]float64, n)
	for i, a := range args {
		v, err := strconv.ParseFloat(a, 64)
		if err != nil {
			return nil, fmt.Errorf("coordinate %d: %w", i+1, err)
		}
		out[i] = v
	}
	return out, nil
}

// loadScene reads a scene and, when prepare is set, builds its hole fields
// on the configured workers.
func loadScene(ctx context.Context, cfg *config.Config, path string, prepare bool) (*scenefile.Scene, error) {
	scene, err := scenefile.Load(path, assets.NewManager())
	if err != nil {
		return nil, err
	}
	logger.Info("Loaded scene",
		zap.String("path", path),
		zap.Int("regions", len(scene.Regions)),
		zap.Int("tiles", len(scene.Tiles)),
	)
	if prepare {
		if err := terrain.PrepareHoleFields(ctx, holes.NewBuilder(cfg.Holes), scene.Tiles); err != nil {
			return nil, fmt.Errorf("preparing hole fields: %w", err)
		}
	}
	return scene, nil
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

func cmdPath(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("path", flag.ExitOnError)
	var q queryFlags
	q.register(fs)
	dump := fs.String("dump", "", "Write a cutaway render of the path to this directory")
	fs.Parse(args)

	if fs.NArg() < 1 {
		return fmt.Errorf("usage: terrainpath path <scene.yaml> x0 y0 z0 x1 y1 z1")
	}
	c, err := parseCoords(fs.Args()[1:], 6)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()
	scene, err := loadScene(ctx, cfg, fs.Arg(0), q.prepareHoles)
	if err != nil {
		return err
	}
	opts, err := q.options(cfg, scene)
	if err != nil {
		return err
	}

	start := terrain.Waypoint{X: c[0], Y: c[1], Elevation: c[2]}
	end := terrain.Waypoint{X: c[3], Y: c[4], Elevation: c[5]}
	pf := world.NewPathFinder(scene.Scene, opts)
	path := pf.ConstructPath(start, end)
	for _, w := range path {
		fmt.Printf("%.4f %.4f %.4f\n", w.X, w.Y, w.Elevation)
	}

	if *dump == "" {
		return nil
	}
	return dumpSection(pf, start, end, path, *dump)
}

// dumpSection renders the cutaway plane with the path drawn over it.
func dumpSection(pf *world.PathFinder, start, end terrain.Waypoint, path []terrain.Waypoint, dir string) error {
	set, tr, ok := pf.Section(start, end)
	if !ok {
		logger.Warn("Nothing to render: no terrain along the segment")
		return nil
	}

	pts := make([]math.Vec2, len(path))
	for i, w := range path {
		pts[i] = tr.ToCutaway(w.Vec3())
	}
	view := math.BoundsOf(pts)
	pad := (view.Max.X-view.Min.X)*0.1 + 1
	view.Min = view.Min.Sub(math.Vec2{X: pad, Y: pad})
	view.Max = view.Max.Add(math.Vec2{X: pad, Y: pad})

	width := 800
	height := int(float64(width) * (view.Max.Y - view.Min.Y) / (view.Max.X - view.Min.X))
	if height < 100 {
		height = 100
	}
	img := debug.CutawayImage(set, view, width, height, pts)
	file, err := debug.NewDumper(dir, "terrainpath").Write("section", img)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "Wrote %s\n", file)
	return nil
}

func cmdGround(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("ground", flag.ExitOnError)
	var q queryFlags
	q.register(fs)
	fs.Parse(args)

	if fs.NArg() < 1 {
		return fmt.Errorf("usage: terrainpath ground <scene.yaml> x y z")
	}
	c, err := parseCoords(fs.Args()[1:], 3)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()
	scene, err := loadScene(ctx, cfg, fs.Arg(0), q.prepareHoles)
	if err != nil {
		return err
	}
	opts, err := q.options(cfg, scene)
	if err != nil {
		return err
	}

	point := terrain.Waypoint{X: c[0], Y: c[1], Elevation: c[2]}
	fmt.Printf("%.4f\n", world.NearestGroundElevation(scene.Scene, point, opts))
	return nil
}

func cmdClassify(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("classify", flag.ExitOnError)
	var q queryFlags
	q.register(fs)
	fs.Parse(args)

	if fs.NArg() < 1 {
		return fmt.Errorf("usage: terrainpath classify <scene.yaml> x y z")
	}
	c, err := parseCoords(fs.Args()[1:], 3)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()
	scene, err := loadScene(ctx, cfg, fs.Arg(0), q.prepareHoles)
	if err != nil {
		return err
	}
	opts, err := q.options(cfg, scene)
	if err != nil {
		return err
	}

	point := terrain.Waypoint{X: c[0], Y: c[1], Elevation: c[2]}
	kind := terrain.ElevationType(point, scene.Regions, scene.Tiles, opts.Mover, opts.Settings)
	fmt.Println(kind)
	return nil
}

func cmdHoles(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("holes", flag.ExitOnError)
	dump := fs.String("dump", "", "Write each hole field as a PNG to this directory")
	step := fs.Int("step", 16, "Gray levels per pixel of distance in dumps")
	fs.Parse(args)

	if fs.NArg() < 1 {
		return fmt.Errorf("usage: terrainpath holes <scene.yaml>")
	}

	ctx, cancel := signalContext()
	defer cancel()
	scene, err := loadScene(ctx, cfg, fs.Arg(0), true)
	if err != nil {
		return err
	}

	settings := terrain.Settings{Engine: cfg.Engine, Holes: cfg.Holes}
	var dumper *debug.Dumper
	if *dump != "" {
		dumper = debug.NewDumper(*dump, "terrainpath")
	}
	for i, t := range scene.Tiles {
		if !t.IsFloor || !t.TestHoles || t.Alpha == nil {
			continue
		}
		field, err := t.HoleField(ctx, settings)
		if err != nil {
			return fmt.Errorf("tile %d: %w", i, err)
		}
		fmt.Printf("tile %d  %dx%d  threshold %.2f px\n",
			i, field.Width, field.Height, t.HoleThreshold(scene.Mover, settings))
		if dumper == nil {
			continue
		}
		file, err := dumper.Write(fmt.Sprintf("tile%d", i), debug.FieldImage(field, uint8(*step)))
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Wrote %s\n", file)
	}
	return nil
}
