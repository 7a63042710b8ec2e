package server

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/df07/go-direct-raytracer/pkg/core"
	"github.com/df07/go-direct-raytracer/pkg/renderer"
	"github.com/df07/go-direct-raytracer/pkg/scene"
)

// RenderRequest represents a render request from the client
type RenderRequest struct {
	Scene   string                // Built-in scene id
	Width   int                   // Image width
	Height  int                   // Image height
	Mode    renderer.LightingMode // Lighting mode
	Shadows bool                  // Cast shadow rays
	Time    float64               // Scene time passed to Update before rendering
	Frames  int                   // Frames in an animation
	Step    float64               // Scene seconds between animation frames
}

// parseRenderRequest reads the query, falling back to the server configuration
func (s *Server) parseRenderRequest(c echo.Context) (*RenderRequest, error) {
	query := c.QueryParams()
	defaults := s.config

	req := &RenderRequest{Scene: query.Get("scene")}
	if req.Scene == "" {
		req.Scene = defaults.Scene.Name
	}

	modeName := query.Get("mode")
	if modeName == "" {
		modeName = defaults.Render.LightingMode
	}
	mode, err := renderer.ParseLightingMode(modeName)
	if err != nil {
		return nil, err
	}
	req.Mode = mode

	defaultWidth := min(max(defaults.Render.Width, minSize), maxSize)
	defaultHeight := min(max(defaults.Render.Height, minSize), maxSize)
	if req.Width, err = parseIntParam(query, "width", defaultWidth, minSize, maxSize); err != nil {
		return nil, err
	}
	if req.Height, err = parseIntParam(query, "height", defaultHeight, minSize, maxSize); err != nil {
		return nil, err
	}
	if req.Shadows, err = parseBoolParam(query, "shadows", defaults.Render.Shadows); err != nil {
		return nil, err
	}
	if req.Time, err = parseFloatParam(query, "time", 0, 0, 1e6); err != nil {
		return nil, err
	}
	if req.Frames, err = parseIntParam(query, "frames", 12, 1, maxFrames); err != nil {
		return nil, err
	}
	if req.Step, err = parseFloatParam(query, "step", defaults.Scene.FrameStep, 0.01, 10); err != nil {
		return nil, err
	}

	return req, nil
}

// prepare builds the scene and renderer for a request
func (s *Server) prepare(c echo.Context) (*RenderRequest, *scene.Scene, *renderer.Renderer, core.Logger, error) {
	req, err := s.parseRenderRequest(c)
	if err != nil {
		return nil, nil, nil, nil, echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid request: %v", err))
	}

	logger := s.nextLogger()
	sceneObj, err := scene.NewBuiltinScene(req.Scene, scene.Options{MeshPath: s.config.Scene.MeshPath, Logger: logger})
	if err != nil {
		if errors.Is(err, scene.ErrUnknownScene) {
			return nil, nil, nil, nil, echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return nil, nil, nil, nil, echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	r, err := renderer.NewRenderer(renderer.Config{
		Width:      req.Width,
		Height:     req.Height,
		Shadows:    req.Shadows,
		Mode:       req.Mode,
		NumWorkers: s.config.Render.Workers,
		TileSize:   s.config.Render.TileSize,
	}, logger)
	if err != nil {
		return nil, nil, nil, nil, echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	return req, sceneObj, r, logger, nil
}

// handleRender renders a single frame and returns it as a PNG
func (s *Server) handleRender(c echo.Context) error {
	req, sceneObj, r, logger, err := s.prepare(c)
	if err != nil {
		return err
	}

	sceneObj.Update(req.Time)
	frame, stats, err := r.Render(c.Request().Context(), sceneObj)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, fmt.Sprintf("Render error: %v", err))
	}

	var buf bytes.Buffer
	if err := frame.WritePNG(&buf); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	logger.Printf("%s %dx%d served\n", req.Scene, req.Width, req.Height)
	c.Response().Header().Set("X-Render-Duration", stats.Duration.String())
	c.Response().Header().Set("X-Render-Hit-Pixels", fmt.Sprint(stats.HitPixels))
	return c.Blob(http.StatusOK, "image/png", buf.Bytes())
}

// handleAnimation renders an Update-driven sequence and returns it as a GIF
func (s *Server) handleAnimation(c echo.Context) error {
	req, sceneObj, r, logger, err := s.prepare(c)
	if err != nil {
		return err
	}

	frames, stats, err := r.RenderSequence(c.Request().Context(), sceneObj, req.Frames, req.Step)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, fmt.Sprintf("Render error: %v", err))
	}

	var buf bytes.Buffer
	delay := max(1, int(req.Step*100+0.5))
	if err := renderer.EncodeGIF(&buf, frames, delay); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	logger.Printf("%s animation of %d frames served\n", req.Scene, req.Frames)
	c.Response().Header().Set("X-Render-Duration", stats.Duration.String())
	return c.Blob(http.StatusOK, "image/gif", buf.Bytes())
}
