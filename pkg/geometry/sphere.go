package geometry

import (
	"math"

	"github.com/df07/go-direct-raytracer/pkg/core"
)

// Sphere represents a sphere shape
type Sphere struct {
	Center        core.Vec3
	Radius        float64
	MaterialIndex int
}

// NewSphere creates a new sphere
func NewSphere(center core.Vec3, radius float64, materialIndex int) *Sphere {
	return &Sphere{
		Center:        center,
		Radius:        radius,
		MaterialIndex: materialIndex,
	}
}

// Hit records the intersection if it is closer than the one already held by hitRecord
func (s *Sphere) Hit(ray core.Ray, hitRecord *core.HitRecord) bool {
	t, ok := s.intersect(ray)
	if !ok || t >= hitRecord.T {
		return false
	}

	point := ray.At(t)
	*hitRecord = core.HitRecord{
		DidHit:        true,
		Point:         point,
		Normal:        point.Subtract(s.Center).Normalize(),
		T:             t,
		MaterialIndex: s.MaterialIndex,
	}
	return true
}

// DoesHit reports whether the ray hits the sphere anywhere within its range
func (s *Sphere) DoesHit(ray core.Ray) bool {
	_, ok := s.intersect(ray)
	return ok
}

// intersect solves |O + tD - C|^2 = r^2 for the nearest valid t.
// One root comes from the sign-aware quadratic formula and the other from
// t0*t1 = c/a, so neither suffers cancellation when b^2 >> 4ac.
func (s *Sphere) intersect(ray core.Ray) (float64, bool) {
	oc := ray.Origin.Subtract(s.Center)

	a := ray.Direction.Dot(ray.Direction)
	b := 2.0 * ray.Direction.Dot(oc)
	c := oc.Dot(oc) - s.Radius*s.Radius
	if a == 0 {
		return 0, false
	}

	discriminant := b*b - 4.0*a*c
	if discriminant < 0 {
		return 0, false
	}

	var t0, t1 float64
	if discriminant == 0 {
		t0 = -0.5 * b / a
		t1 = t0
	} else {
		sqrtD := math.Sqrt(discriminant)
		var q float64
		if b > 0 {
			q = -0.5 * (b + sqrtD)
		} else {
			q = -0.5 * (b - sqrtD)
		}
		t0 = q / a
		t1 = c / q
	}

	if t0 > t1 {
		t0, t1 = t1, t0
	}

	// Smaller non-negative root first, the far side when we start inside
	for _, t := range [2]float64{t0, t1} {
		if t >= 0 && ray.InRange(t) {
			return t, true
		}
	}
	return 0, false
}

// BoundingBox returns the axis-aligned bounding box for this sphere
func (s *Sphere) BoundingBox() core.AABB {
	radius := core.NewGray(s.Radius)
	return core.NewAABB(s.Center.Subtract(radius), s.Center.Add(radius))
}
