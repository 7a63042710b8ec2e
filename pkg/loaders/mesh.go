package loaders

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/df07/go-direct-raytracer/pkg/core"
)

// MeshData is the raw triangle soup read from a mesh file
type MeshData struct {
	Positions []core.Vec3 // Vertex positions
	Indices   []int       // Zero-based vertex indices, three per triangle
}

// TriangleCount returns the number of triangles described by the index list
func (m *MeshData) TriangleCount() int {
	return len(m.Indices) / 3
}

// LoadMesh loads a mesh file, choosing the parser from the file extension
func LoadMesh(filename string) (*MeshData, error) {
	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case ".obj":
		return LoadOBJ(filename)
	case ".ply":
		return LoadPLY(filename)
	default:
		return nil, fmt.Errorf("unsupported mesh format %q", ext)
	}
}

// appendFan triangulates a convex polygon around its first vertex
func appendFan(indices []int, polygon []int) []int {
	for i := 1; i+1 < len(polygon); i++ {
		indices = append(indices, polygon[0], polygon[i], polygon[i+1])
	}
	return indices
}
