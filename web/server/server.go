package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"sync/atomic"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/df07/go-direct-raytracer/pkg/config"
	"github.com/df07/go-direct-raytracer/pkg/core"
	"github.com/df07/go-direct-raytracer/pkg/renderer"
	"github.com/df07/go-direct-raytracer/pkg/scene"
)

// Request limits
const (
	minSize      = 16
	maxSize      = 2000
	maxFrames    = 120
	consoleLimit = 200
)

// Server handles web requests for the raytracer
type Server struct {
	port     int
	config   *config.Config
	logger   core.Logger
	console  *Console
	echo     *echo.Echo
	renderID atomic.Int64
}

// NewServer creates a web server whose request defaults come from cfg
func NewServer(cfg *config.Config, logger core.Logger) *Server {
	if logger == nil {
		logger = core.NopLogger{}
	}

	s := &Server{
		port:    cfg.Server.Port,
		config:  cfg,
		logger:  logger,
		console: NewConsole(consoleLimit),
		echo:    echo.New(),
	}

	s.echo.HideBanner = true
	s.echo.HidePort = true
	s.echo.Use(middleware.Recover())
	s.echo.Use(middleware.CORS())

	s.echo.GET("/api/health", s.handleHealth)
	s.echo.GET("/api/scenes", s.handleScenes)
	s.echo.GET("/api/modes", s.handleModes)
	s.echo.GET("/api/render", s.handleRender)
	s.echo.GET("/api/animation", s.handleAnimation)
	s.echo.GET("/api/inspect", s.handleInspect)
	s.echo.GET("/api/console", s.handleConsole)
	s.echo.GET("/api/host", s.handleHost)

	return s
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start serves until Shutdown is called
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.port)
	s.logger.Printf("Starting web server on http://localhost%s\n", addr)
	if err := s.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting requests and waits for active ones to finish
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

// handleHealth provides a simple health check endpoint
func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleScenes(c echo.Context) error {
	return c.JSON(http.StatusOK, scene.ListScenes())
}

func (s *Server) handleModes(c echo.Context) error {
	modes := renderer.LightingModes()
	names := make([]string, len(modes))
	for i, mode := range modes {
		names[i] = mode.String()
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"modes":   names,
		"default": s.config.Render.LightingMode,
	})
}

func (s *Server) handleConsole(c echo.Context) error {
	return c.JSON(http.StatusOK, s.console.Messages())
}

// nextLogger returns a logger tagged with a fresh render id
func (s *Server) nextLogger() core.Logger {
	id := fmt.Sprintf("render-%d", s.renderID.Add(1))
	return NewWebLogger(id, s.console, s.logger)
}

// parseIntParam parses an integer parameter from URL query with validation
func parseIntParam(values url.Values, key string, defaultValue, min, max int) (int, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		if parsed < min || parsed > max {
			return 0, fmt.Errorf("%s must be between %d and %d, got: %d", key, min, max, parsed)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

// parseFloatParam parses a float parameter from URL query with validation
func parseFloatParam(values url.Values, key string, defaultValue, min, max float64) (float64, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		if parsed < min || parsed > max {
			return 0, fmt.Errorf("%s must be between %g and %g, got: %g", key, min, max, parsed)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

// parseBoolParam parses a boolean parameter from URL query
func parseBoolParam(values url.Values, key string, defaultValue bool) (bool, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.ParseBool(value)
		if err != nil {
			return false, fmt.Errorf("invalid %s: %s", key, value)
		}
		return parsed, nil
	}
	return defaultValue, nil
}
