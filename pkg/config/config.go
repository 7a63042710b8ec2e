package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"

	"github.com/df07/go-direct-raytracer/pkg/renderer"
)

// Config represents the main configuration
type Config struct {
	Render RenderConfig `yaml:"render"`
	Scene  SceneConfig  `yaml:"scene"`
	Server ServerConfig `yaml:"server"`
	Log    LogConfig    `yaml:"log"`
}

// RenderConfig contains frame size, parallelism and lighting toggles
type RenderConfig struct {
	Width        int    `yaml:"width"`
	Height       int    `yaml:"height"`
	Workers      int    `yaml:"workers"` // 0 = one per physical core
	TileSize     int    `yaml:"tile_size"`
	Shadows      bool   `yaml:"shadows"`
	LightingMode string `yaml:"lighting_mode"` // observed_area, radiance, brdf, combined
	Output       string `yaml:"output"`        // .png for one frame, .gif for a sequence
}

// SceneConfig selects a built-in scene and its animation
type SceneConfig struct {
	Name      string  `yaml:"name"`
	MeshPath  string  `yaml:"mesh_path"`
	Frames    int     `yaml:"frames"`
	FrameStep float64 `yaml:"frame_step"` // Seconds of scene time between frames
}

// ServerConfig contains the preview server settings
type ServerConfig struct {
	Port int `yaml:"port"`
}

// LogConfig contains logging settings
type LogConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
	File  string `yaml:"file"`  // Optional: empty logs to stdout only
}

// DefaultConfig creates a default configuration
func DefaultConfig() *Config {
	return &Config{
		Render: RenderConfig{
			Width:        800,
			Height:       600,
			Workers:      0,
			TileSize:     32,
			Shadows:      true,
			LightingMode: renderer.Combined.String(),
			Output:       "output/render.png",
		},
		Scene: SceneConfig{
			Name:      "reference",
			MeshPath:  "",
			Frames:    1,
			FrameStep: 0.1,
		},
		Server: ServerConfig{
			Port: 8080,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// LoadConfig loads the configuration from a file. On failure it still returns
// the defaults together with the error.
func LoadConfig(filePath string) (*Config, error) {
	config := DefaultConfig()

	data, err := os.ReadFile(filePath)
	if err != nil {
		return config, fmt.Errorf("config file not found, using defaults: %w", err)
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return DefaultConfig(), fmt.Errorf("error parsing config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return DefaultConfig(), fmt.Errorf("invalid config %s: %w", filePath, err)
	}

	return config, nil
}

// SaveConfig saves the configuration to a file
func SaveConfig(config *Config, filePath string) error {
	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("error serializing config: %w", err)
	}

	if err := os.WriteFile(filePath, data, 0644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}

	return nil
}

// Validate rejects sizes and modes the renderer cannot use
func (c *Config) Validate() error {
	if _, err := c.RendererConfig(); err != nil {
		return err
	}
	if c.Render.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got %d", c.Render.Workers)
	}
	if c.Render.TileSize < 0 {
		return fmt.Errorf("tile_size must not be negative, got %d", c.Render.TileSize)
	}
	if c.Scene.Frames <= 0 {
		return fmt.Errorf("frames must be positive, got %d", c.Scene.Frames)
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	return nil
}

// RendererConfig converts the render section into a renderer.Config
func (c *Config) RendererConfig() (renderer.Config, error) {
	mode, err := renderer.ParseLightingMode(c.Render.LightingMode)
	if err != nil {
		return renderer.Config{}, err
	}

	rc := renderer.Config{
		Width:      c.Render.Width,
		Height:     c.Render.Height,
		Shadows:    c.Render.Shadows,
		Mode:       mode,
		NumWorkers: c.Render.Workers,
		TileSize:   c.Render.TileSize,
	}
	if err := rc.Validate(); err != nil {
		return renderer.Config{}, err
	}
	return rc, nil
}
