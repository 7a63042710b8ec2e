package geometry

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/df07/go-direct-raytracer/pkg/core"
)

// ErrMalformedMesh reports inconsistent index or normal buffers
var ErrMalformedMesh = errors.New("malformed triangle mesh")

// boundsPadding widens the cached box so that hits on its faces are never lost to rounding
const boundsPadding = 1e-6

// degenerateArea is the squared cross-product length below which a triangle has no usable normal
const degenerateArea = 1e-24

// TriangleMesh owns object-space vertex data and a local-to-world transform.
// Transform setters only mark the mesh dirty; callers commit them with
// UpdateTransforms before the mesh is intersected again.
type TriangleMesh struct {
	Positions     []core.Vec3 // Object-space vertex positions
	Normals       []core.Vec3 // Object-space normal, one per triangle
	Indices       []int       // Three indices per triangle
	CullMode      CullMode
	MaterialIndex int

	translation mgl64.Mat4
	rotation    mgl64.Mat4
	scale       mgl64.Mat4

	transformedPositions []core.Vec3
	transformedNormals   []core.Vec3
	transformedBounds    core.AABB
	dirty                bool
}

// NewTriangleMesh creates an empty mesh with an identity transform
func NewTriangleMesh(cullMode CullMode, materialIndex int) *TriangleMesh {
	return &TriangleMesh{
		CullMode:      cullMode,
		MaterialIndex: materialIndex,
		translation:   mgl64.Ident4(),
		rotation:      mgl64.Ident4(),
		scale:         mgl64.Ident4(),
		dirty:         true,
	}
}

// NewTriangleMeshFromData creates a mesh from positions and triangle indices,
// computes its normals and commits the identity transform.
// It returns the mesh and the number of degenerate triangles that were dropped.
func NewTriangleMeshFromData(positions []core.Vec3, indices []int, cullMode CullMode, materialIndex int) (*TriangleMesh, int, error) {
	mesh := NewTriangleMesh(cullMode, materialIndex)
	mesh.Positions = positions
	mesh.Indices = indices
	if err := mesh.checkIndices(); err != nil {
		return nil, 0, err
	}

	dropped := mesh.CalculateNormals()
	mesh.UpdateTransforms()
	return mesh, dropped, nil
}

// AppendTriangle adds a triangle with its own three vertices.
// Unless ignoreTransformUpdate is set the caches are recomputed immediately.
func (m *TriangleMesh) AppendTriangle(triangle Triangle, ignoreTransformUpdate bool) {
	start := len(m.Positions)
	m.Positions = append(m.Positions, triangle.V0, triangle.V1, triangle.V2)
	m.Indices = append(m.Indices, start, start+1, start+2)
	m.Normals = append(m.Normals, triangle.Normal)
	m.dirty = true

	if !ignoreTransformUpdate {
		m.UpdateTransforms()
	}
}

// CalculateNormals rebuilds the per-triangle normals from the vertex winding.
// Zero-area triangles are removed from the index list so that no NaN or zero
// normal can reach shading. It returns how many triangles were removed.
func (m *TriangleMesh) CalculateNormals() int {
	indices := m.Indices[:0]
	normals := make([]core.Vec3, 0, len(m.Indices)/3)
	dropped := 0

	for i := 0; i+2 < len(m.Indices); i += 3 {
		i0, i1, i2 := m.Indices[i], m.Indices[i+1], m.Indices[i+2]
		edge1 := m.Positions[i1].Subtract(m.Positions[i0])
		edge2 := m.Positions[i2].Subtract(m.Positions[i0])
		cross := edge1.Cross(edge2)

		if cross.LengthSquared() < degenerateArea || cross.IsNaN() {
			dropped++
			continue
		}

		indices = append(indices, i0, i1, i2)
		normals = append(normals, cross.Normalize())
	}

	m.Indices = indices
	m.Normals = normals
	m.dirty = true
	return dropped
}

// Translate sets the translation component of the transform
func (m *TriangleMesh) Translate(offset core.Vec3) {
	m.translation = mgl64.Translate3D(offset.X, offset.Y, offset.Z)
	m.dirty = true
}

// RotateY sets the rotation component to a yaw around the Y axis (radians)
func (m *TriangleMesh) RotateY(yaw float64) {
	m.Rotate(0, yaw, 0)
}

// Rotate sets the rotation component from pitch (X), yaw (Y) and roll (Z) in radians
func (m *TriangleMesh) Rotate(pitch, yaw, roll float64) {
	m.rotation = mgl64.HomogRotate3DY(yaw).
		Mul4(mgl64.HomogRotate3DX(pitch)).
		Mul4(mgl64.HomogRotate3DZ(roll))
	m.dirty = true
}

// Scale sets the per-axis scale component of the transform
func (m *TriangleMesh) Scale(factors core.Vec3) {
	m.scale = mgl64.Scale3D(factors.X, factors.Y, factors.Z)
	m.dirty = true
}

// Transform returns the local-to-world matrix: scale, then rotate, then translate
func (m *TriangleMesh) Transform() mgl64.Mat4 {
	return m.translation.Mul4(m.rotation).Mul4(m.scale)
}

// UpdateTransforms recomputes the world-space positions, normals and bounds
func (m *TriangleMesh) UpdateTransforms() {
	transform := m.Transform()
	normalMatrix := transform.Mat3().Inv().Transpose()

	m.transformedPositions = m.transformedPositions[:0]
	for _, p := range m.Positions {
		m.transformedPositions = append(m.transformedPositions, core.TransformPoint(transform, p))
	}

	m.transformedNormals = m.transformedNormals[:0]
	for _, n := range m.Normals {
		world := core.FromMgl(normalMatrix.Mul3x1(n.ToMgl())).Normalize()
		m.transformedNormals = append(m.transformedNormals, world)
	}

	m.transformedBounds = core.NewAABBFromPoints(m.transformedPositions...).Expand(boundsPadding)
	m.dirty = false
}

// Dirty reports whether the transform changed since the last UpdateTransforms
func (m *TriangleMesh) Dirty() bool {
	return m.dirty
}

// Validate checks that the index and normal buffers agree with each other
func (m *TriangleMesh) Validate() error {
	if err := m.checkIndices(); err != nil {
		return err
	}
	if len(m.Normals) != len(m.Indices)/3 {
		return fmt.Errorf("%w: %d normals for %d triangles", ErrMalformedMesh, len(m.Normals), len(m.Indices)/3)
	}
	return nil
}

func (m *TriangleMesh) checkIndices() error {
	if len(m.Indices)%3 != 0 {
		return fmt.Errorf("%w: index count %d is not a multiple of 3", ErrMalformedMesh, len(m.Indices))
	}
	for _, index := range m.Indices {
		if index < 0 || index >= len(m.Positions) {
			return fmt.Errorf("%w: index %d out of range [0, %d)", ErrMalformedMesh, index, len(m.Positions))
		}
	}
	return nil
}

// BoundingBox returns the cached world-space bounds
func (m *TriangleMesh) BoundingBox() core.AABB {
	return m.transformedBounds
}

// TriangleCount returns the number of triangles in this mesh
func (m *TriangleMesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// Triangle builds the i-th world-space triangle from the cached buffers
func (m *TriangleMesh) Triangle(i int) Triangle {
	return Triangle{
		V0:            m.transformedPositions[m.Indices[i*3]],
		V1:            m.transformedPositions[m.Indices[i*3+1]],
		V2:            m.transformedPositions[m.Indices[i*3+2]],
		Normal:        m.transformedNormals[i],
		CullMode:      m.CullMode,
		MaterialIndex: m.MaterialIndex,
	}
}

// Hit tests the cached bounds first and then every triangle, keeping the closest hit
func (m *TriangleMesh) Hit(ray core.Ray, hitRecord *core.HitRecord) bool {
	if !m.transformedBounds.Hit(ray) {
		return false
	}

	hit := false
	for i := 0; i < m.TriangleCount(); i++ {
		triangle := m.Triangle(i)
		if triangle.Hit(ray, hitRecord) {
			hit = true
		}
	}
	return hit
}

// DoesHit returns as soon as any triangle is hit
func (m *TriangleMesh) DoesHit(ray core.Ray) bool {
	if !m.transformedBounds.Hit(ray) {
		return false
	}

	for i := 0; i < m.TriangleCount(); i++ {
		triangle := m.Triangle(i)
		if triangle.DoesHit(ray) {
			return true
		}
	}
	return false
}
