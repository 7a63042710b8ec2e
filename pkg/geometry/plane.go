package geometry

import (
	"github.com/df07/go-direct-raytracer/pkg/core"
)

// planeEpsilon rejects hits at the ray origin (float32 machine epsilon)
const planeEpsilon = 1.1920929e-07

// Plane represents an infinite plane defined by a point and normal
type Plane struct {
	Origin        core.Vec3 // A point on the plane
	Normal        core.Vec3 // Unit normal
	MaterialIndex int
}

// NewPlane creates a new plane
func NewPlane(origin, normal core.Vec3, materialIndex int) *Plane {
	return &Plane{
		Origin:        origin,
		Normal:        normal.Normalize(),
		MaterialIndex: materialIndex,
	}
}

// Hit records the intersection if it is closer than the one already held by hitRecord.
// The recorded normal is the plane normal, not flipped toward the ray.
func (p *Plane) Hit(ray core.Ray, hitRecord *core.HitRecord) bool {
	t, ok := p.intersect(ray)
	if !ok || t >= hitRecord.T {
		return false
	}

	*hitRecord = core.HitRecord{
		DidHit:        true,
		Point:         ray.At(t),
		Normal:        p.Normal,
		T:             t,
		MaterialIndex: p.MaterialIndex,
	}
	return true
}

// DoesHit reports whether the ray crosses the plane within its range
func (p *Plane) DoesHit(ray core.Ray) bool {
	_, ok := p.intersect(ray)
	return ok
}

func (p *Plane) intersect(ray core.Ray) (float64, bool) {
	denominator := ray.Direction.Dot(p.Normal)
	if denominator == 0 {
		return 0, false
	}

	t := p.Origin.Subtract(ray.Origin).Dot(p.Normal) / denominator
	if !ray.InRange(t) || t <= planeEpsilon {
		return 0, false
	}
	return t, true
}
