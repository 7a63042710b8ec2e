package renderer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/df07/go-direct-raytracer/pkg/core"
	"github.com/df07/go-direct-raytracer/pkg/scene"
)

// ErrInvalidSize is returned for non-positive output dimensions
var ErrInvalidSize = errors.New("invalid output size")

// Config contains rendering configuration
type Config struct {
	Width      int
	Height     int
	Shadows    bool         // Cast shadow rays toward every light
	Mode       LightingMode // Term of the lighting equation to display
	NumWorkers int          // Number of parallel workers (0 = use CPU count)
	TileSize   int          // Size of each square tile in pixels
}

// DefaultConfig returns sensible default values
func DefaultConfig() Config {
	return Config{
		Width:      800,
		Height:     600,
		Shadows:    true,
		Mode:       Combined,
		NumWorkers: 0,
		TileSize:   32,
	}
}

// Validate checks the output size and lighting mode
func (c Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidSize, c.Width, c.Height)
	}
	if !c.Mode.Valid() {
		return fmt.Errorf("%w: %d", ErrUnknownLightingMode, int(c.Mode))
	}
	return nil
}

// Renderer shades whole frames of a scene in parallel.
// Its toggles must not change while Render is running.
type Renderer struct {
	config Config
	logger core.Logger
}

// NewRenderer creates a renderer; a nil logger discards output
func NewRenderer(config Config, logger core.Logger) (*Renderer, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if config.TileSize <= 0 {
		config.TileSize = DefaultConfig().TileSize
	}
	if logger == nil {
		logger = core.NopLogger{}
	}
	return &Renderer{config: config, logger: logger}, nil
}

// Config returns the current configuration
func (r *Renderer) Config() Config {
	return r.config
}

// SetShadows enables or disables shadow rays
func (r *Renderer) SetShadows(enabled bool) {
	r.config.Shadows = enabled
}

// ToggleShadows flips shadow rays and returns the new state
func (r *Renderer) ToggleShadows() bool {
	r.config.Shadows = !r.config.Shadows
	return r.config.Shadows
}

// SetMode selects the lighting mode
func (r *Renderer) SetMode(mode LightingMode) error {
	if !mode.Valid() {
		return fmt.Errorf("%w: %d", ErrUnknownLightingMode, int(mode))
	}
	r.config.Mode = mode
	return nil
}

// CycleMode advances to the next lighting mode and returns it
func (r *Renderer) CycleMode() LightingMode {
	r.config.Mode = r.config.Mode.Next()
	return r.config.Mode
}

// Render validates the scene, snapshots the camera and shades every pixel.
// It returns only after all tiles are done. The scene must not be mutated
// until Render returns.
func (r *Renderer) Render(ctx context.Context, s *scene.Scene) (*Frame, RenderStats, error) {
	if err := s.Validate(); err != nil {
		return nil, RenderStats{}, fmt.Errorf("cannot render scene: %w", err)
	}

	start := time.Now()
	width, height := r.config.Width, r.config.Height
	frame := NewFrame(width, height)
	tracer := newPixelTracer(s, width, height, r.config.Shadows, r.config.Mode)
	tiles := NewTileGrid(width, height, r.config.TileSize)

	pool := NewWorkerPool(r.config.NumWorkers, len(tiles))
	pool.Start(ctx)
	for i, tile := range tiles {
		pool.SubmitTask(TileTask{Tile: tile, TaskID: i, Frame: frame, tracer: tracer})
	}
	pool.Stop()

	stats := RenderStats{Frames: 1, Workers: pool.GetNumWorkers()}
	var renderErr error
	for {
		result, ok := pool.GetResult()
		if !ok {
			break
		}
		if result.Error != nil && renderErr == nil {
			renderErr = result.Error
		}
		stats.Merge(result.Stats)
	}
	if renderErr != nil {
		return nil, stats, fmt.Errorf("render cancelled: %w", renderErr)
	}
	stats.Duration = time.Since(start)

	r.logger.Printf("rendered %dx%d mode=%s shadows=%t: %s\n",
		width, height, r.config.Mode, r.config.Shadows, stats)
	return frame, stats, nil
}

// RenderSequence renders frames images, calling s.Update(i*step) before frame i.
// The scene is advanced only between frames.
func (r *Renderer) RenderSequence(ctx context.Context, s *scene.Scene, frames int, step float64) ([]*Frame, RenderStats, error) {
	if frames <= 0 {
		return nil, RenderStats{}, fmt.Errorf("frame count must be positive, got %d", frames)
	}

	var (
		sequence []*Frame
		total    RenderStats
	)
	for i := 0; i < frames; i++ {
		if err := ctx.Err(); err != nil {
			return nil, total, fmt.Errorf("sequence cancelled at frame %d: %w", i, err)
		}

		s.Update(float64(i) * step)
		frame, stats, err := r.Render(ctx, s)
		if err != nil {
			return nil, total, fmt.Errorf("frame %d: %w", i, err)
		}
		total.Merge(stats)
		sequence = append(sequence, frame)
	}

	r.logger.Printf("rendered sequence of %d frames in %v\n", frames, total.Duration)
	return sequence, total, nil
}
