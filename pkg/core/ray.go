package core

import "math"

// Default bounds for camera rays
const (
	DefaultRayMin = 0.0001
	DefaultRayMax = math.MaxFloat64
)

// Ray represents a ray with an origin, a unit direction and a valid [Min, Max] range of t
type Ray struct {
	Origin    Vec3
	Direction Vec3
	Min       float64
	Max       float64
}

// NewRay creates a ray with the default [DefaultRayMin, DefaultRayMax] range
func NewRay(origin, direction Vec3) Ray {
	return Ray{Origin: origin, Direction: direction, Min: DefaultRayMin, Max: DefaultRayMax}
}

// NewBoundedRay creates a ray restricted to hits with min <= t <= max
func NewBoundedRay(origin, direction Vec3, min, max float64) Ray {
	return Ray{Origin: origin, Direction: direction, Min: min, Max: max}
}

// At returns the point at parameter t along the ray
func (r Ray) At(t float64) Vec3 {
	return r.Origin.Add(r.Direction.Multiply(t))
}

// InRange reports whether t lies within [Min, Max]
func (r Ray) InRange(t float64) bool {
	return t >= r.Min && t <= r.Max
}

// HitRecord contains information about a ray-primitive intersection.
// When DidHit is false the remaining fields carry no meaning.
type HitRecord struct {
	DidHit        bool
	Point         Vec3    // Point of intersection
	Normal        Vec3    // Surface normal at intersection (not flipped toward the ray)
	T             float64 // Parameter t along the ray
	MaterialIndex int     // Index into the scene's material list
}

// NewHitRecord returns an empty record whose T is the largest representable value
func NewHitRecord() HitRecord {
	return HitRecord{T: math.MaxFloat64}
}
