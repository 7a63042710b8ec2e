package geometry

import (
	"github.com/df07/go-direct-raytracer/pkg/core"
)

// CullMode decides which side of a triangle may be hit
type CullMode int

const (
	// NoCulling hits both faces
	NoCulling CullMode = iota
	// BackFaceCulling ignores rays travelling along the normal
	BackFaceCulling
	// FrontFaceCulling ignores rays travelling against the normal
	FrontFaceCulling
)

func (c CullMode) String() string {
	switch c {
	case BackFaceCulling:
		return "back"
	case FrontFaceCulling:
		return "front"
	default:
		return "none"
	}
}

// Triangle represents a single triangle defined by three vertices.
// Meshes build these on demand from their transformed buffers.
type Triangle struct {
	V0, V1, V2    core.Vec3
	Normal        core.Vec3
	CullMode      CullMode
	MaterialIndex int
}

// NewTriangle creates a triangle whose normal follows the v0->v1->v2 winding
func NewTriangle(v0, v1, v2 core.Vec3) Triangle {
	normal := v1.Subtract(v0).Cross(v2.Subtract(v0)).Normalize()
	return Triangle{V0: v0, V1: v1, V2: v2, Normal: normal}
}

// NewTriangleWithNormal creates a triangle with a precomputed unit normal
func NewTriangleWithNormal(v0, v1, v2, normal core.Vec3) Triangle {
	return Triangle{V0: v0, V1: v1, V2: v2, Normal: normal}
}

// Hit records the intersection if it is closer than the one already held by hitRecord
func (tri *Triangle) Hit(ray core.Ray, hitRecord *core.HitRecord) bool {
	t, point, ok := tri.intersect(ray)
	if !ok || t >= hitRecord.T {
		return false
	}

	*hitRecord = core.HitRecord{
		DidHit:        true,
		Point:         point,
		Normal:        tri.Normal,
		T:             t,
		MaterialIndex: tri.MaterialIndex,
	}
	return true
}

// DoesHit reports whether the ray hits the triangle. Culling applies exactly as in Hit.
func (tri *Triangle) DoesHit(ray core.Ray) bool {
	_, _, ok := tri.intersect(ray)
	return ok
}

func (tri *Triangle) intersect(ray core.Ray) (float64, core.Vec3, bool) {
	normalDotDirection := tri.Normal.Dot(ray.Direction)
	if normalDotDirection == 0 {
		return 0, core.Vec3{}, false
	}

	switch tri.CullMode {
	case BackFaceCulling:
		if normalDotDirection > 0 {
			return 0, core.Vec3{}, false
		}
	case FrontFaceCulling:
		if normalDotDirection < 0 {
			return 0, core.Vec3{}, false
		}
	}

	center := tri.V0.Add(tri.V1).Add(tri.V2).Multiply(1.0 / 3.0)
	t := center.Subtract(ray.Origin).Dot(tri.Normal) / normalDotDirection
	if t <= ray.Min || t >= ray.Max || t <= 0 {
		return 0, core.Vec3{}, false
	}

	point := ray.At(t)
	if !tri.contains(point) {
		return 0, core.Vec3{}, false
	}
	return t, point, true
}

// contains checks that point lies on the inner side of all three edges
func (tri *Triangle) contains(point core.Vec3) bool {
	edges := [3][2]core.Vec3{
		{tri.V1.Subtract(tri.V0), point.Subtract(tri.V0)},
		{tri.V2.Subtract(tri.V1), point.Subtract(tri.V1)},
		{tri.V0.Subtract(tri.V2), point.Subtract(tri.V2)},
	}
	for _, e := range edges {
		if tri.Normal.Dot(e[0].Cross(e[1])) < 0 {
			return false
		}
	}
	return true
}

// BoundingBox returns the axis-aligned bounding box for this triangle
func (tri *Triangle) BoundingBox() core.AABB {
	return core.NewAABBFromPoints(tri.V0, tri.V1, tri.V2)
}
