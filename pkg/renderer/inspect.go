package renderer

import (
	"fmt"

	"github.com/df07/go-direct-raytracer/pkg/core"
	"github.com/df07/go-direct-raytracer/pkg/material"
	"github.com/df07/go-direct-raytracer/pkg/scene"
)

// PixelInfo describes what the primary ray through one pixel sees
type PixelInfo struct {
	Ray      core.Ray
	Hit      core.HitRecord
	Material material.Material // Zero value when nothing was hit
	Lights   []LightSample     // One entry per scene light, in scene order
	Color    core.Vec3         // Same value Render writes for this pixel
}

// InspectPixel traces pixel (x, y) with the renderer's current settings and
// reports every per-light term that went into its color
func (r *Renderer) InspectPixel(s *scene.Scene, x, y int) (PixelInfo, error) {
	if x < 0 || y < 0 || x >= r.config.Width || y >= r.config.Height {
		return PixelInfo{}, fmt.Errorf("pixel (%d, %d) outside %dx%d", x, y, r.config.Width, r.config.Height)
	}
	if err := s.Validate(); err != nil {
		return PixelInfo{}, fmt.Errorf("cannot inspect scene: %w", err)
	}

	tracer := newPixelTracer(s, r.config.Width, r.config.Height, r.config.Shadows, r.config.Mode)
	info := PixelInfo{Ray: tracer.primaryRay(x, y)}
	info.Hit = s.ClosestHit(info.Ray)
	if !info.Hit.DidHit {
		return info, nil
	}
	info.Material = s.Materials[info.Hit.MaterialIndex]

	var stats RenderStats
	view := info.Ray.Direction.Negate()
	color := core.Vec3{}
	for i := range s.Lights {
		sample := tracer.sampleLight(info.Hit, view, i, &stats)
		info.Lights = append(info.Lights, sample)
		color = color.Add(sample.Contribution)
	}
	info.Color = color.MaxToOne()

	return info, nil
}
