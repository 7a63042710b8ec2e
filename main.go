package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/df07/go-direct-raytracer/internal/hostinfo"
	"github.com/df07/go-direct-raytracer/internal/logger"
	"github.com/df07/go-direct-raytracer/pkg/config"
	"github.com/df07/go-direct-raytracer/pkg/renderer"
	"github.com/df07/go-direct-raytracer/pkg/scene"
)

func main() {
	cfg, help, err := parseConfig(os.Args[1:], os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}
	if help {
		printScenes(os.Stdout)
		return
	}

	log, err := newLogger(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	err = run(context.Background(), cfg, log)
	if err != nil {
		log.Errorf("%v", err)
	}
	log.Close()
	if err != nil {
		os.Exit(1)
	}
}

// parseConfig loads the optional -config file and applies the flags that were
// set explicitly on top of it
func parseConfig(args []string, output io.Writer) (*config.Config, bool, error) {
	fs := flag.NewFlagSet("raytracer", flag.ContinueOnError)
	fs.SetOutput(output)

	configPath := fs.String("config", "", "YAML configuration file")
	sceneName := fs.String("scene", "", "Built-in scene: w1, w2, w3, w4, reference or bunny")
	meshPath := fs.String("mesh", "", "OBJ or PLY file for the bunny scene")
	width := fs.Int("width", 0, "Output width in pixels")
	height := fs.Int("height", 0, "Output height in pixels")
	workers := fs.Int("workers", -1, "Render workers (0 = one per physical core)")
	tileSize := fs.Int("tile-size", 0, "Tile size in pixels")
	mode := fs.String("mode", "", "Lighting mode: observed_area, radiance, brdf or combined")
	shadows := fs.Bool("shadows", true, "Cast shadow rays")
	outputPath := fs.String("output", "", "Output file (.png, or .gif for an animation)")
	frames := fs.Int("frames", 0, "Number of animation frames")
	frameStep := fs.Float64("frame-step", 0, "Scene seconds between frames")
	logLevel := fs.String("log-level", "", "Log level: debug, info, warn or error")
	help := fs.Bool("help", false, "Show help information")

	if err := fs.Parse(args); err != nil {
		return nil, false, err
	}
	if *help {
		fmt.Fprintln(output, "Direct-lighting Raytracer")
		fmt.Fprintln(output, "Usage: raytracer [options]")
		fs.PrintDefaults()
		return nil, true, nil
	}

	cfg := config.DefaultConfig()
	if *configPath != "" {
		loaded, err := config.LoadConfig(*configPath)
		if err != nil {
			return nil, false, err
		}
		cfg = loaded
	}

	set := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })

	if set["scene"] {
		cfg.Scene.Name = *sceneName
	}
	if set["mesh"] {
		cfg.Scene.MeshPath = *meshPath
	}
	if set["width"] {
		cfg.Render.Width = *width
	}
	if set["height"] {
		cfg.Render.Height = *height
	}
	if set["workers"] {
		cfg.Render.Workers = *workers
	}
	if set["tile-size"] {
		cfg.Render.TileSize = *tileSize
	}
	if set["mode"] {
		cfg.Render.LightingMode = *mode
	}
	if set["shadows"] {
		cfg.Render.Shadows = *shadows
	}
	if set["output"] {
		cfg.Render.Output = *outputPath
	}
	if set["frames"] {
		cfg.Scene.Frames = *frames
	}
	if set["frame-step"] {
		cfg.Scene.FrameStep = *frameStep
	}
	if set["log-level"] {
		cfg.Log.Level = *logLevel
	}

	if err := cfg.Validate(); err != nil {
		return nil, false, err
	}
	return cfg, false, nil
}

func newLogger(cfg *config.Config) (*logger.Logger, error) {
	if cfg.Log.File == "" {
		return logger.NewLogger(cfg.Log.Level), nil
	}
	return logger.NewFileLogger(cfg.Log.Level, cfg.Log.File)
}

func printScenes(w io.Writer) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Available scenes:")
	for _, info := range scene.ListScenes() {
		fmt.Fprintf(w, "  %-10s %s\n", info.ID, info.Description)
	}
}

// run renders the configured scene and writes a PNG, or a GIF when the output
// ends in .gif or more than one frame is requested
func run(ctx context.Context, cfg *config.Config, log *logger.Logger) error {
	if info, err := hostinfo.Detect(); err != nil {
		log.Warnf("Host information unavailable: %v", err)
	} else {
		log.Infof("Host: %s", info)
	}

	renderConfig, err := cfg.RendererConfig()
	if err != nil {
		return err
	}
	if renderConfig.NumWorkers == 0 {
		renderConfig.NumWorkers = hostinfo.DefaultWorkers()
	}

	s, err := scene.NewBuiltinScene(cfg.Scene.Name, scene.Options{MeshPath: cfg.Scene.MeshPath, Logger: log})
	if err != nil {
		return err
	}
	log.Infof("Scene %s: %d primitives, %d lights, %d materials",
		cfg.Scene.Name, s.GetPrimitiveCount(), len(s.Lights), len(s.Materials))

	r, err := renderer.NewRenderer(renderConfig, log)
	if err != nil {
		return err
	}

	output := cfg.Render.Output
	animate := strings.EqualFold(filepath.Ext(output), ".gif") || cfg.Scene.Frames > 1
	if animate && !strings.EqualFold(filepath.Ext(output), ".gif") {
		output = strings.TrimSuffix(output, filepath.Ext(output)) + ".gif"
	}

	var buf bytes.Buffer
	if animate {
		frames, stats, err := r.RenderSequence(ctx, s, cfg.Scene.Frames, cfg.Scene.FrameStep)
		if err != nil {
			return err
		}
		if err := renderer.EncodeGIF(&buf, frames, gifDelay(cfg.Scene.FrameStep)); err != nil {
			return err
		}
		if err := writeOutput(output, buf.Bytes()); err != nil {
			return err
		}
		log.Infof("Animation saved as %s (%s)", output, stats)
		return nil
	}

	s.Update(0)
	frame, stats, err := r.Render(ctx, s)
	if err != nil {
		return err
	}
	if err := frame.WritePNG(&buf); err != nil {
		return err
	}
	if err := writeOutput(output, buf.Bytes()); err != nil {
		return err
	}
	log.Infof("Render saved as %s (%s)", output, stats)
	return nil
}

// writeOutput creates the output directory and writes an encoded image. Nothing
// is written unless the render and encoding succeeded.
func writeOutput(output string, data []byte) error {
	if dir := filepath.Dir(output); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("error creating output directory: %w", err)
		}
	}
	if err := os.WriteFile(output, data, 0644); err != nil {
		return fmt.Errorf("error writing file: %w", err)
	}
	return nil
}

// gifDelay converts seconds per frame to GIF delay units of 10ms, at least one
func gifDelay(frameStep float64) int {
	return max(1, int(frameStep*100+0.5))
}
