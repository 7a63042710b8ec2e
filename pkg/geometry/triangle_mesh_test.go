package geometry

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/df07/go-direct-raytracer/pkg/core"
)

// newQuadMesh builds the unit square in the z=0 plane facing +Z
func newQuadMesh(t *testing.T, cullMode CullMode) *TriangleMesh {
	t.Helper()

	vertices := []core.Vec3{
		core.NewVec3(0, 0, 0), // 0
		core.NewVec3(1, 0, 0), // 1
		core.NewVec3(1, 1, 0), // 2
		core.NewVec3(0, 1, 0), // 3
	}
	faces := []int{
		0, 1, 2, // first triangle
		0, 2, 3, // second triangle
	}

	mesh, dropped, err := NewTriangleMeshFromData(vertices, faces, cullMode, 2)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if dropped != 0 {
		t.Fatalf("Expected no degenerate triangles, got %d", dropped)
	}
	return mesh
}

func TestTriangleMesh_Creation(t *testing.T) {
	mesh := newQuadMesh(t, NoCulling)

	if mesh.TriangleCount() != 2 {
		t.Errorf("Expected 2 triangles, got %d", mesh.TriangleCount())
	}
	if mesh.Dirty() {
		t.Error("Mesh built from data should have committed transforms")
	}
	if err := mesh.Validate(); err != nil {
		t.Errorf("Unexpected validation error: %v", err)
	}

	for i := 0; i < mesh.TriangleCount(); i++ {
		if mesh.Normals[i].Subtract(core.UnitZ).Length() > 1e-12 {
			t.Errorf("Triangle %d: expected normal +Z, got %v", i, mesh.Normals[i])
		}
	}

	bbox := mesh.BoundingBox()
	const tolerance = 1e-5
	if bbox.Min.Subtract(core.NewVec3(0, 0, 0)).Length() > tolerance {
		t.Errorf("Expected min near (0,0,0), got %v", bbox.Min)
	}
	if bbox.Max.Subtract(core.NewVec3(1, 1, 0)).Length() > tolerance {
		t.Errorf("Expected max near (1,1,0), got %v", bbox.Max)
	}
}

func TestTriangleMesh_DirtyContract(t *testing.T) {
	mesh := NewTriangleMesh(NoCulling, 0)
	if !mesh.Dirty() {
		t.Error("New mesh should start dirty")
	}

	mesh.AppendTriangle(NewTriangle(core.NewVec3(0, 0, 0), core.NewVec3(1, 0, 0), core.NewVec3(0, 1, 0)), true)
	if !mesh.Dirty() {
		t.Error("Deferred append should leave the mesh dirty")
	}

	mesh.AppendTriangle(NewTriangle(core.NewVec3(0, 0, 1), core.NewVec3(1, 0, 1), core.NewVec3(0, 1, 1)), false)
	if mesh.Dirty() {
		t.Error("Immediate append should commit transforms")
	}

	mesh.Translate(core.NewVec3(0, 0, 5))
	if !mesh.Dirty() {
		t.Error("Translate should mark the mesh dirty")
	}

	// Caches are untouched until the transform is committed
	if mesh.BoundingBox().Min.Z > 0 {
		t.Errorf("Bounds changed before UpdateTransforms: %v", mesh.BoundingBox())
	}

	mesh.UpdateTransforms()
	if mesh.Dirty() {
		t.Error("UpdateTransforms should clear the dirty flag")
	}
	if math.Abs(mesh.BoundingBox().Min.Z-5) > 1e-5 || math.Abs(mesh.BoundingBox().Max.Z-6) > 1e-5 {
		t.Errorf("Expected bounds z in [5,6], got %v", mesh.BoundingBox())
	}
}

func TestTriangleMesh_TransformsAreSetNotAccumulated(t *testing.T) {
	mesh := newQuadMesh(t, NoCulling)

	mesh.Translate(core.NewVec3(3, 0, 0))
	mesh.Translate(core.NewVec3(0, 0, 2))
	mesh.UpdateTransforms()

	bbox := mesh.BoundingBox()
	if math.Abs(bbox.Min.X) > 1e-5 || math.Abs(bbox.Min.Z-2) > 1e-5 {
		t.Errorf("Second Translate should replace the first, got bounds %v", bbox)
	}
}

func TestTriangleMesh_ScaleAndRotate(t *testing.T) {
	mesh := newQuadMesh(t, NoCulling)

	mesh.Scale(core.NewGray(2))
	mesh.UpdateTransforms()
	if mesh.BoundingBox().Max.Subtract(core.NewVec3(2, 2, 0)).Length() > 1e-5 {
		t.Errorf("Expected max near (2,2,0), got %v", mesh.BoundingBox().Max)
	}

	// A quarter turn of yaw maps +Z onto +X
	mesh.Scale(core.NewGray(1))
	mesh.RotateY(math.Pi / 2)
	mesh.UpdateTransforms()
	for i := 0; i < mesh.TriangleCount(); i++ {
		normal := mesh.Triangle(i).Normal
		if normal.Subtract(core.UnitX).Length() > 1e-9 {
			t.Errorf("Triangle %d: expected normal +X, got %v", i, normal)
		}
	}
}

func TestTriangleMesh_NonUniformScaleNormals(t *testing.T) {
	mesh := NewTriangleMesh(NoCulling, 0)
	mesh.AppendTriangle(NewTriangle(core.NewVec3(0, 0, 0), core.NewVec3(1, 0, 0), core.NewVec3(0, 1, 1)), false)

	mesh.Scale(core.NewVec3(1, 3, 1))
	mesh.UpdateTransforms()

	tri := mesh.Triangle(0)
	edge1 := tri.V1.Subtract(tri.V0)
	edge2 := tri.V2.Subtract(tri.V0)

	if math.Abs(tri.Normal.Length()-1) > 1e-9 {
		t.Errorf("Transformed normal should be unit length, got %f", tri.Normal.Length())
	}
	if math.Abs(tri.Normal.Dot(edge1)) > 1e-9 || math.Abs(tri.Normal.Dot(edge2)) > 1e-9 {
		t.Errorf("Transformed normal %v is not perpendicular to the scaled triangle", tri.Normal)
	}
}

func TestTriangleMesh_DegenerateTriangles(t *testing.T) {
	vertices := []core.Vec3{
		core.NewVec3(0, 0, 0),
		core.NewVec3(1, 0, 0),
		core.NewVec3(2, 0, 0), // collinear with 0 and 1
		core.NewVec3(0, 1, 0),
	}
	faces := []int{
		0, 1, 2, // zero area
		0, 1, 3,
		1, 1, 3, // repeated vertex
	}

	mesh, dropped, err := NewTriangleMeshFromData(vertices, faces, NoCulling, 0)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if dropped != 2 {
		t.Errorf("Expected 2 dropped triangles, got %d", dropped)
	}
	if mesh.TriangleCount() != 1 {
		t.Errorf("Expected 1 remaining triangle, got %d", mesh.TriangleCount())
	}
	for _, n := range mesh.Normals {
		if n.IsNaN() || n.LengthSquared() == 0 {
			t.Errorf("Invalid normal %v survived", n)
		}
	}
}

func TestTriangleMesh_MalformedData(t *testing.T) {
	vertices := []core.Vec3{core.NewVec3(0, 0, 0), core.NewVec3(1, 0, 0), core.NewVec3(0, 1, 0)}

	tests := []struct {
		name  string
		faces []int
	}{
		{"Index out of range", []int{0, 1, 3}},
		{"Negative index", []int{0, -1, 2}},
		{"Partial triangle", []int{0, 1, 2, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := NewTriangleMeshFromData(vertices, tt.faces, NoCulling, 0)
			if !errors.Is(err, ErrMalformedMesh) {
				t.Errorf("Expected ErrMalformedMesh, got %v", err)
			}
		})
	}
}

func TestTriangleMesh_Hit(t *testing.T) {
	mesh := newQuadMesh(t, NoCulling)

	tests := []struct {
		name      string
		ray       core.Ray
		shouldHit bool
	}{
		{"Hit first triangle", core.NewRay(core.NewVec3(0.75, 0.25, -1), core.UnitZ), true},
		{"Hit second triangle", core.NewRay(core.NewVec3(0.25, 0.75, -1), core.UnitZ), true},
		{"Hit from behind", core.NewRay(core.NewVec3(0.5, 0.5, 1), core.NewVec3(0, 0, -1)), true},
		{"Miss outside quad", core.NewRay(core.NewVec3(1.5, 0.5, -1), core.UnitZ), false},
		{"Miss parallel", core.NewRay(core.NewVec3(-1, 0.5, 0.5), core.UnitX), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hit := core.NewHitRecord()
			isHit := mesh.Hit(tt.ray, &hit)
			if isHit != tt.shouldHit {
				t.Fatalf("Expected hit=%v, got hit=%v", tt.shouldHit, isHit)
			}
			if mesh.DoesHit(tt.ray) != tt.shouldHit {
				t.Errorf("DoesHit disagrees with Hit")
			}
			if isHit {
				if math.Abs(hit.T-1) > 1e-9 {
					t.Errorf("Expected t=1, got %f", hit.T)
				}
				if hit.MaterialIndex != 2 {
					t.Errorf("Expected material index 2, got %d", hit.MaterialIndex)
				}
			}
		})
	}
}

func TestTriangleMesh_ClosestHitWithinMesh(t *testing.T) {
	mesh := NewTriangleMesh(NoCulling, 0)
	// Far triangle first so that iteration order cannot decide the result
	mesh.AppendTriangle(NewTriangle(core.NewVec3(-1, -1, 2), core.NewVec3(1, -1, 2), core.NewVec3(0, 1, 2)), true)
	mesh.AppendTriangle(NewTriangle(core.NewVec3(-1, -1, 0), core.NewVec3(1, -1, 0), core.NewVec3(0, 1, 0)), true)
	mesh.UpdateTransforms()

	hit := core.NewHitRecord()
	if !mesh.Hit(core.NewRay(core.NewVec3(0, 0, -5), core.UnitZ), &hit) {
		t.Fatal("Expected a hit")
	}
	if math.Abs(hit.T-5) > 1e-9 {
		t.Errorf("Expected the nearer triangle at t=5, got %f", hit.T)
	}
}

func TestTriangleMesh_Culling(t *testing.T) {
	mesh := newQuadMesh(t, BackFaceCulling)

	// Travelling along the +Z normal is a back-face hit
	along := core.NewRay(core.NewVec3(0.5, 0.5, -1), core.UnitZ)
	if mesh.DoesHit(along) {
		t.Error("Back-face culled mesh should not be hit along its normal")
	}

	against := core.NewRay(core.NewVec3(0.5, 0.5, 1), core.NewVec3(0, 0, -1))
	if !mesh.DoesHit(against) {
		t.Error("Back-face culled mesh should be hit against its normal")
	}
}

func TestTriangleMesh_BoundsSoundness(t *testing.T) {
	mesh := newQuadMesh(t, NoCulling)
	mesh.Rotate(0.3, 1.1, -0.4)
	mesh.Scale(core.NewVec3(2, 0.5, 1))
	mesh.Translate(core.NewVec3(-1, 2, 3))
	mesh.UpdateTransforms()

	random := rand.New(rand.NewSource(42))
	bbox := mesh.BoundingBox()
	center := bbox.Center()
	narrowHits := 0

	for i := 0; i < 2000; i++ {
		origin := core.NewVec3(random.Float64()*20-10, random.Float64()*20-10, random.Float64()*20-10)
		target := center.Add(core.NewVec3(random.Float64()-0.5, random.Float64()-0.5, random.Float64()-0.5).Multiply(3))
		ray := core.NewRay(origin, target.Subtract(origin).Normalize())

		narrow := false
		for j := 0; j < mesh.TriangleCount(); j++ {
			tri := mesh.Triangle(j)
			if tri.DoesHit(ray) {
				narrow = true
				break
			}
		}
		if !narrow {
			continue
		}

		narrowHits++
		if !bbox.Hit(ray) {
			t.Fatalf("Bounds rejected a ray that hits a triangle: %+v", ray)
		}
	}

	if narrowHits == 0 {
		t.Fatal("Expected at least one triangle hit in the sample")
	}
}
