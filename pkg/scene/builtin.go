package scene

import (
	"bytes"
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/df07/go-direct-raytracer/pkg/core"
	"github.com/df07/go-direct-raytracer/pkg/geometry"
	"github.com/df07/go-direct-raytracer/pkg/loaders"
	"github.com/df07/go-direct-raytracer/pkg/material"
	"github.com/df07/go-direct-raytracer/resources"
)

// ErrUnknownScene is returned for a scene id that is not built in
var ErrUnknownScene = errors.New("unknown scene")

// DefaultMeshPath is the shipped mesh file. The bunny scene loads the embedded copy
// when no mesh is configured.
const DefaultMeshPath = "resources/icosahedron.obj"

// Palette used by the solid color scenes
var (
	Red     = core.NewVec3(1, 0, 0)
	Blue    = core.NewVec3(0, 0, 1)
	Yellow  = core.NewVec3(1, 1, 0)
	Green   = core.NewVec3(0, 1, 0)
	Magenta = core.NewVec3(1, 0, 1)
	White   = core.NewVec3(1, 1, 1)
)

// SceneInfo describes a built-in scene
type SceneInfo struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Animated    bool   `json:"animated"`
}

// Options carries the external inputs some scenes need
type Options struct {
	MeshPath string      // Mesh file for the bunny scene
	Logger   core.Logger // Receives loading diagnostics; may be nil
}

type builtinScene struct {
	info  SceneInfo
	build func(opts Options) (*Scene, error)
}

var builtinScenes = []builtinScene{
	{
		info: SceneInfo{ID: "w1", Name: "Solid Spheres", Description: "Two large solid color spheres in a box of planes"},
		build: func(Options) (*Scene, error) {
			return NewSolidSpheresScene(), nil
		},
	},
	{
		info: SceneInfo{ID: "w2", Name: "Solid Room", Description: "Six solid color spheres with a point light"},
		build: func(Options) (*Scene, error) {
			return NewSolidRoomScene(), nil
		},
	},
	{
		info: SceneInfo{ID: "w3", Name: "Materials", Description: "Cook-Torrance metal and plastic spheres under three colored lights"},
		build: func(Options) (*Scene, error) {
			return NewMaterialsScene(), nil
		},
	},
	{
		info: SceneInfo{ID: "w4", Name: "Quad Mesh", Description: "A rotated two-triangle mesh in a Lambert room"},
		build: func(Options) (*Scene, error) {
			return NewQuadMeshScene(), nil
		},
	},
	{
		info: SceneInfo{ID: "reference", Name: "Reference", Description: "Materials scene plus three spinning triangles, one per cull mode", Animated: true},
		build: func(Options) (*Scene, error) {
			return NewReferenceScene(), nil
		},
	},
	{
		info:  SceneInfo{ID: "bunny", Name: "Bunny", Description: "A spinning mesh loaded from an OBJ or PLY file", Animated: true},
		build: NewMeshScene,
	},
}

// ListScenes returns the built-in scenes in a stable order
func ListScenes() []SceneInfo {
	infos := make([]SceneInfo, len(builtinScenes))
	for i, b := range builtinScenes {
		infos[i] = b.info
	}
	return infos
}

// NewBuiltinScene builds the scene registered under id
func NewBuiltinScene(id string, opts Options) (*Scene, error) {
	for _, b := range builtinScenes {
		if b.info.ID == id {
			return b.build(opts)
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownScene, id)
}

// solidColorMaterials adds blue, yellow, green and magenta after the default red
func (s *Scene) solidColorMaterials() (red, blue, yellow, green, magenta int) {
	return 0,
		s.AddMaterial(material.NewSolidColor(Blue)),
		s.AddMaterial(material.NewSolidColor(Yellow)),
		s.AddMaterial(material.NewSolidColor(Green)),
		s.AddMaterial(material.NewSolidColor(Magenta))
}

// NewSolidSpheresScene creates two big spheres boxed in by planes, seen from the origin
func NewSolidSpheresScene() *Scene {
	s := NewScene()
	red, blue, yellow, green, magenta := s.solidColorMaterials()

	s.AddSphere(core.NewVec3(-25, 0, 100), 50, red)
	s.AddSphere(core.NewVec3(25, 0, 100), 50, blue)

	s.AddPlane(core.NewVec3(-75, 0, 0), core.NewVec3(1, 0, 0), green)
	s.AddPlane(core.NewVec3(75, 0, 0), core.NewVec3(-1, 0, 0), green)
	s.AddPlane(core.NewVec3(0, -75, 0), core.NewVec3(0, 1, 0), yellow)
	s.AddPlane(core.NewVec3(0, 75, 0), core.NewVec3(0, -1, 0), yellow)
	s.AddPlane(core.NewVec3(0, 0, 125), core.NewVec3(0, 0, -1), magenta)
	return s
}

// NewSolidRoomScene creates two rows of solid spheres in a room with one white light
func NewSolidRoomScene() *Scene {
	s := NewScene()
	s.Camera = core.NewCamera(core.NewVec3(0, 3, -9), 45)
	red, blue, yellow, green, magenta := s.solidColorMaterials()

	s.AddPlane(core.NewVec3(-5, 0, 0), core.NewVec3(1, 0, 0), green)
	s.AddPlane(core.NewVec3(5, 0, 0), core.NewVec3(-1, 0, 0), green)
	s.AddPlane(core.NewVec3(0, 0, 0), core.NewVec3(0, 1, 0), yellow)
	s.AddPlane(core.NewVec3(0, 10, 0), core.NewVec3(0, -1, 0), yellow)
	s.AddPlane(core.NewVec3(0, 0, 10), core.NewVec3(0, 0, -1), magenta)

	s.AddSphere(core.NewVec3(-1.75, 1, 0), 0.75, red)
	s.AddSphere(core.NewVec3(0, 1, 0), 0.75, blue)
	s.AddSphere(core.NewVec3(1.75, 1, 0), 0.75, red)
	s.AddSphere(core.NewVec3(-1.75, 3, 0), 0.75, blue)
	s.AddSphere(core.NewVec3(0, 3, 0), 0.75, red)
	s.AddSphere(core.NewVec3(1.75, 3, 0), 0.75, blue)

	s.AddPointLight(core.NewVec3(0, 5, -5), 70, White)
	return s
}

// addRoom adds the back, bottom, top, right and left walls shared by the lit scenes
func (s *Scene) addRoom(wall int) {
	s.AddPlane(core.NewVec3(0, 0, 10), core.NewVec3(0, 0, -1), wall)
	s.AddPlane(core.NewVec3(0, 0, 0), core.NewVec3(0, 1, 0), wall)
	s.AddPlane(core.NewVec3(0, 10, 0), core.NewVec3(0, -1, 0), wall)
	s.AddPlane(core.NewVec3(5, 0, 0), core.NewVec3(-1, 0, 0), wall)
	s.AddPlane(core.NewVec3(-5, 0, 0), core.NewVec3(1, 0, 0), wall)
}

// addThreePointLights adds the warm back, warm front-left and cool front-right lights
func (s *Scene) addThreePointLights() {
	s.AddPointLight(core.NewVec3(0, 5, 5), 50, core.NewVec3(1, 0.61, 0.45))
	s.AddPointLight(core.NewVec3(-2.5, 5, -5), 70, core.NewVec3(1, 0.8, 0.45))
	s.AddPointLight(core.NewVec3(2.5, 2.5, -5), 50, core.NewVec3(0.34, 0.47, 0.68))
}

// addMaterialSpheres adds metal spheres on the bottom row and plastic spheres on
// the top row, rough to smooth from left to right
func (s *Scene) addMaterialSpheres() {
	metal := core.NewVec3(0.972, 0.960, 0.915)
	plastic := core.NewGray(0.75)
	roughness := []float64{1, 0.6, 0.1}
	columns := []float64{-1.75, 0, 1.75}

	for i, r := range roughness {
		index := s.AddMaterial(material.NewCookTorrance(metal, 1, r))
		s.AddSphere(core.NewVec3(columns[i], 1, 0), 0.75, index)
	}
	for i, r := range roughness {
		index := s.AddMaterial(material.NewCookTorrance(plastic, 0, r))
		s.AddSphere(core.NewVec3(columns[i], 3, 0), 0.75, index)
	}
}

// NewMaterialsScene creates the Cook-Torrance showcase
func NewMaterialsScene() *Scene {
	s := NewScene()
	s.Camera = core.NewCamera(core.NewVec3(0, 3, -9), 45)

	s.addMaterialSpheres()
	wall := s.AddMaterial(material.NewLambert(core.NewVec3(0.49, 0.57, 0.57), 1))
	s.addRoom(wall)

	s.addThreePointLights()
	return s
}

// NewQuadMeshScene creates a skewed quad mesh turned 45 degrees around Y
func NewQuadMeshScene() *Scene {
	s := NewScene()
	s.Camera = core.NewCamera(core.NewVec3(0, 1, -5), 45)

	wall := s.AddMaterial(material.NewLambert(core.NewVec3(0.49, 0.57, 0.57), 1))
	white := s.AddMaterial(material.NewLambert(White, 1))
	s.addRoom(wall)

	mesh := s.AddTriangleMesh(geometry.NoCulling, white)
	mesh.Positions = []core.Vec3{
		core.NewVec3(-0.75, -1, 0),
		core.NewVec3(-0.75, 1, 0),
		core.NewVec3(0.75, 1, 1),
		core.NewVec3(0.75, -1, 0),
	}
	mesh.Indices = []int{
		0, 1, 2,
		0, 2, 3,
	}
	mesh.CalculateNormals()
	mesh.Translate(core.NewVec3(0, 1.5, 0))
	mesh.RotateY(mgl64.DegToRad(45))
	mesh.UpdateTransforms()

	s.addThreePointLights()
	return s
}

// NewReferenceScene creates the materials spheres plus one triangle per cull mode.
// Update spins the triangles back and forth around Y.
func NewReferenceScene() *Scene {
	s := NewScene()
	s.Camera = core.NewCamera(core.NewVec3(0, 3, -9), 45)

	s.addMaterialSpheres()
	wall := s.AddMaterial(material.NewLambert(core.NewVec3(0.49, 0.57, 0.57), 1))
	white := s.AddMaterial(material.NewLambert(White, 1))
	s.addRoom(wall)

	base := geometry.NewTriangle(
		core.NewVec3(-0.75, 1.5, 0),
		core.NewVec3(0.75, 0, 0),
		core.NewVec3(-0.75, 0, 0),
	)

	placements := []struct {
		cullMode geometry.CullMode
		x        float64
	}{
		{geometry.BackFaceCulling, -1.75},
		{geometry.FrontFaceCulling, 0},
		{geometry.NoCulling, 1.75},
	}
	for _, p := range placements {
		mesh := s.AddTriangleMesh(p.cullMode, white)
		mesh.AppendTriangle(base, true)
		mesh.Translate(core.NewVec3(p.x, 4.5, 0))
		mesh.UpdateTransforms()
	}

	s.addThreePointLights()
	s.SetAnimation(func(s *Scene, totalSeconds float64) {
		yaw := (math.Cos(totalSeconds) + 1) / 2 * 2 * math.Pi
		for _, mesh := range s.Meshes {
			mesh.RotateY(yaw)
			mesh.UpdateTransforms()
		}
	})
	return s
}

// NewMeshScene loads opts.MeshPath (the embedded icosahedron when empty), scales it by two,
// lifts it off the floor and spins it around Y at a quarter turn per second
func NewMeshScene(opts Options) (*Scene, error) {
	path := opts.MeshPath
	var data *loaders.MeshData
	var err error
	if path == "" {
		path = resources.IcosahedronName
		data, err = loaders.ParseOBJ(bytes.NewReader(resources.IcosahedronOBJ))
	} else {
		data, err = loaders.LoadMesh(path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load mesh scene: %w", err)
	}

	s := NewScene()
	s.Camera = core.NewCamera(core.NewVec3(0, 3, -9), 45)

	wall := s.AddMaterial(material.NewLambert(core.NewVec3(0.49, 0.57, 0.57), 1))
	white := s.AddMaterial(material.NewLambert(White, 1))
	s.addRoom(wall)

	mesh, dropped, err := geometry.NewTriangleMeshFromData(data.Positions, data.Indices, geometry.BackFaceCulling, white)
	if err != nil {
		return nil, fmt.Errorf("invalid mesh %s: %w", path, err)
	}
	if dropped > 0 && opts.Logger != nil {
		opts.Logger.Printf("Dropped %d degenerate triangles from %s\n", dropped, path)
	}
	mesh.Scale(core.NewGray(2))
	mesh.Translate(core.NewVec3(0, 2, 0))
	mesh.UpdateTransforms()
	s.Meshes = append(s.Meshes, mesh)

	s.addThreePointLights()
	s.SetAnimation(func(s *Scene, totalSeconds float64) {
		mesh.RotateY(math.Pi / 2 * totalSeconds)
		mesh.UpdateTransforms()
	})
	return s, nil
}
