package scene

import (
	"errors"
	"fmt"

	"github.com/df07/go-direct-raytracer/pkg/core"
	"github.com/df07/go-direct-raytracer/pkg/geometry"
	"github.com/df07/go-direct-raytracer/pkg/lights"
	"github.com/df07/go-direct-raytracer/pkg/material"
)

var (
	// ErrStaleMesh is returned when a mesh was transformed without UpdateTransforms
	ErrStaleMesh = errors.New("mesh transform not committed")
	// ErrMaterialIndex is returned when a primitive references a missing material
	ErrMaterialIndex = errors.New("material index out of range")
)

// Scene contains all the elements needed for rendering.
// It is read-only while a frame renders; Update mutates it between frames.
type Scene struct {
	Camera    core.Camera
	Spheres   []geometry.Sphere
	Planes    []geometry.Plane
	Meshes    []*geometry.TriangleMesh
	Lights    []lights.Light
	Materials []material.Material

	animate func(s *Scene, totalSeconds float64)
}

// DefaultMaterial is material 0 of every new scene
var DefaultMaterial = material.NewSolidColor(Red)

// NewScene creates an empty scene with the default camera and material 0 set to solid red
func NewScene() *Scene {
	return &Scene{
		Camera:    core.NewCamera(core.Vec3{}, 90),
		Materials: []material.Material{DefaultMaterial},
	}
}

// AddSphere appends a sphere and returns its index
func (s *Scene) AddSphere(center core.Vec3, radius float64, materialIndex int) int {
	s.Spheres = append(s.Spheres, *geometry.NewSphere(center, radius, materialIndex))
	return len(s.Spheres) - 1
}

// AddPlane appends a plane and returns its index
func (s *Scene) AddPlane(origin, normal core.Vec3, materialIndex int) int {
	s.Planes = append(s.Planes, *geometry.NewPlane(origin, normal, materialIndex))
	return len(s.Planes) - 1
}

// AddTriangleMesh appends an empty mesh for the caller to fill and commit
func (s *Scene) AddTriangleMesh(cullMode geometry.CullMode, materialIndex int) *geometry.TriangleMesh {
	mesh := geometry.NewTriangleMesh(cullMode, materialIndex)
	s.Meshes = append(s.Meshes, mesh)
	return mesh
}

// AddPointLight appends a point light
func (s *Scene) AddPointLight(origin core.Vec3, intensity float64, color core.Vec3) {
	s.Lights = append(s.Lights, lights.NewPointLight(origin, intensity, color))
}

// AddDirectionalLight appends a directional light
func (s *Scene) AddDirectionalLight(direction core.Vec3, intensity float64, color core.Vec3) {
	s.Lights = append(s.Lights, lights.NewDirectionalLight(direction, intensity, color))
}

// AddMaterial appends a material and returns the index primitives use to reference it
func (s *Scene) AddMaterial(m material.Material) int {
	s.Materials = append(s.Materials, m)
	return len(s.Materials) - 1
}

// SetAnimation installs the per-frame update run by Update
func (s *Scene) SetAnimation(animate func(s *Scene, totalSeconds float64)) {
	s.animate = animate
}

// Animated reports whether Update changes the scene
func (s *Scene) Animated() bool {
	return s.animate != nil
}

// Update advances animated geometry to totalSeconds. It must not run while a frame renders.
func (s *Scene) Update(totalSeconds float64) {
	if s.animate != nil {
		s.animate(s, totalSeconds)
	}
}

// ClosestHit scans spheres, then planes, then meshes and returns the nearest hit.
// DidHit is false when nothing lies within the ray's range.
func (s *Scene) ClosestHit(ray core.Ray) core.HitRecord {
	closest := core.NewHitRecord()

	for i := range s.Spheres {
		s.Spheres[i].Hit(ray, &closest)
	}
	for i := range s.Planes {
		s.Planes[i].Hit(ray, &closest)
	}
	for _, mesh := range s.Meshes {
		mesh.Hit(ray, &closest)
	}

	return closest
}

// DoesHit reports whether anything blocks the ray, stopping at the first occluder
func (s *Scene) DoesHit(ray core.Ray) bool {
	for i := range s.Spheres {
		if s.Spheres[i].DoesHit(ray) {
			return true
		}
	}
	for i := range s.Planes {
		if s.Planes[i].DoesHit(ray) {
			return true
		}
	}
	for _, mesh := range s.Meshes {
		if mesh.DoesHit(ray) {
			return true
		}
	}
	return false
}

// Validate checks that the scene can be rendered as-is: every material index
// resolves and every mesh has committed its transform.
func (s *Scene) Validate() error {
	if len(s.Materials) == 0 {
		return fmt.Errorf("scene has no materials: %w", ErrMaterialIndex)
	}
	for i, m := range s.Materials {
		if err := m.Validate(); err != nil {
			return fmt.Errorf("material %d: %w", i, err)
		}
	}

	for i, sphere := range s.Spheres {
		if err := s.checkMaterial(sphere.MaterialIndex); err != nil {
			return fmt.Errorf("sphere %d: %w", i, err)
		}
	}
	for i, plane := range s.Planes {
		if err := s.checkMaterial(plane.MaterialIndex); err != nil {
			return fmt.Errorf("plane %d: %w", i, err)
		}
	}
	for i, mesh := range s.Meshes {
		if err := s.checkMaterial(mesh.MaterialIndex); err != nil {
			return fmt.Errorf("mesh %d: %w", i, err)
		}
		if mesh.Dirty() {
			return fmt.Errorf("mesh %d: %w", i, ErrStaleMesh)
		}
		if err := mesh.Validate(); err != nil {
			return fmt.Errorf("mesh %d: %w", i, err)
		}
	}

	for i, light := range s.Lights {
		if err := light.Validate(); err != nil {
			return fmt.Errorf("light %d: %w", i, err)
		}
	}
	return nil
}

func (s *Scene) checkMaterial(index int) error {
	if index < 0 || index >= len(s.Materials) {
		return fmt.Errorf("%w: %d (have %d)", ErrMaterialIndex, index, len(s.Materials))
	}
	return nil
}

// GetPrimitiveCount returns the number of spheres, planes and mesh triangles
func (s *Scene) GetPrimitiveCount() int {
	count := len(s.Spheres) + len(s.Planes)
	for _, mesh := range s.Meshes {
		count += mesh.TriangleCount()
	}
	return count
}
