package renderer

import (
	"image"
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/df07/go-direct-raytracer/pkg/core"
	"github.com/df07/go-direct-raytracer/pkg/scene"
)

// shadowBias offsets shadow ray origins along the normal and is also their minimum t
const shadowBias = 0.0001

// pixelTracer is the per-frame snapshot every worker shades from.
// Nothing in it changes while the frame renders.
type pixelTracer struct {
	scene         *scene.Scene
	origin        core.Vec3
	cameraToWorld mgl64.Mat4
	fov           float64
	aspect        float64
	width         int
	height        int
	shadows       bool
	mode          LightingMode
}

func newPixelTracer(s *scene.Scene, width, height int, shadows bool, mode LightingMode) *pixelTracer {
	return &pixelTracer{
		scene:         s,
		origin:        s.Camera.Origin,
		cameraToWorld: s.Camera.CameraToWorld(),
		fov:           s.Camera.FovScale(),
		aspect:        float64(width) / float64(height),
		width:         width,
		height:        height,
		shadows:       shadows,
		mode:          mode,
	}
}

// primaryRay maps the center of pixel (x, y) through the image plane at z = 1
func (pt *pixelTracer) primaryRay(x, y int) core.Ray {
	cx := (2*(float64(x)+0.5)/float64(pt.width) - 1) * pt.aspect * pt.fov
	cy := (1 - 2*(float64(y)+0.5)/float64(pt.height)) * pt.fov

	direction := core.TransformVector(pt.cameraToWorld, core.NewVec3(cx, cy, 1)).Normalize()
	return core.NewBoundedRay(pt.origin, direction, 0, math.MaxFloat64)
}

// renderBounds shades every pixel inside bounds into frame.
// Tiles never overlap, so concurrent calls write disjoint pixels.
func (pt *pixelTracer) renderBounds(bounds image.Rectangle, frame *Frame) RenderStats {
	stats := RenderStats{}
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			frame.Set(x, y, pt.shadePixel(x, y, &stats))
			stats.Pixels++
		}
	}
	return stats
}

// LightSample is the contribution of one light at a hit point
type LightSample struct {
	LightIndex   int
	ObservedArea float64   // n·l; negative means the light is behind the surface
	BackFacing   bool      // Skipped because the surface faces away
	Occluded     bool      // Skipped because the shadow ray was blocked
	Radiance     core.Vec3 // Light arriving at the hit point
	BRDF         core.Vec3 // Material reflectance for this light and view
	Contribution core.Vec3 // Term added to the pixel in the active mode
}

// shadePixel computes the clamped color of one pixel
func (pt *pixelTracer) shadePixel(x, y int, stats *RenderStats) core.Vec3 {
	ray := pt.primaryRay(x, y)
	hit := pt.scene.ClosestHit(ray)
	if !hit.DidHit {
		return core.Vec3{}
	}
	stats.HitPixels++

	view := ray.Direction.Negate()
	color := core.Vec3{}
	for i := range pt.scene.Lights {
		sample := pt.sampleLight(hit, view, i, stats)
		color = color.Add(sample.Contribution)
	}

	return color.MaxToOne()
}

// sampleLight evaluates light i at hit for the active mode and shadow setting
func (pt *pixelTracer) sampleLight(hit core.HitRecord, view core.Vec3, i int, stats *RenderStats) LightSample {
	light := pt.scene.Lights[i]
	sample := LightSample{LightIndex: i}

	toLight := light.DirectionToLight(hit.Point)
	distance := toLight.Length()
	if distance == 0 {
		return sample
	}
	lightDir := toLight.Multiply(1 / distance)

	sample.ObservedArea = hit.Normal.Dot(lightDir)
	if sample.ObservedArea < 0 {
		sample.BackFacing = true
		return sample
	}

	if pt.shadows {
		stats.ShadowRays++
		shadowOrigin := hit.Point.Add(hit.Normal.Multiply(shadowBias))
		shadowRay := core.NewBoundedRay(shadowOrigin, lightDir, shadowBias, distance)
		if pt.scene.DoesHit(shadowRay) {
			stats.OccludedShadowRays++
			sample.Occluded = true
			return sample
		}
	}

	sample.Radiance = light.Radiance(hit.Point)
	sample.BRDF = pt.scene.Materials[hit.MaterialIndex].Shade(hit, lightDir, view)

	switch pt.mode {
	case ObservedArea:
		sample.Contribution = core.NewGray(sample.ObservedArea)
	case Radiance:
		sample.Contribution = sample.Radiance
	case BRDF:
		sample.Contribution = sample.BRDF
	case Combined:
		sample.Contribution = sample.Radiance.MultiplyVec(sample.BRDF).Multiply(sample.ObservedArea)
	}
	return sample
}
