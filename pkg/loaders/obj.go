package loaders

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/df07/go-direct-raytracer/pkg/core"
)

// ErrMalformedOBJ reports a vertex or face record that cannot be parsed
var ErrMalformedOBJ = errors.New("malformed OBJ")

// LoadOBJ loads the vertex positions and faces of a Wavefront OBJ file
func LoadOBJ(filename string) (*MeshData, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open OBJ file: %w", err)
	}
	defer file.Close()

	data, err := ParseOBJ(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return data, nil
}

// ParseOBJ reads "v x y z" and "f a b c ..." records. Face indices are 1-based,
// negative indices count back from the latest vertex, and "a/b/c" references
// keep only the position index. Polygons are fan-triangulated. Every other
// record type is ignored.
func ParseOBJ(reader io.Reader) (*MeshData, error) {
	data := &MeshData{}
	scanner := bufio.NewScanner(reader)
	lineNumber := 0

	for scanner.Scan() {
		lineNumber++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Fields(line)
		switch fields[0] {
		case "v":
			position, err := parseOBJVertex(fields[1:])
			if err != nil {
				return nil, fmt.Errorf("%w: line %d: %v", ErrMalformedOBJ, lineNumber, err)
			}
			data.Positions = append(data.Positions, position)
		case "f":
			polygon, err := parseOBJFace(fields[1:], len(data.Positions))
			if err != nil {
				return nil, fmt.Errorf("%w: line %d: %v", ErrMalformedOBJ, lineNumber, err)
			}
			data.Indices = appendFan(data.Indices, polygon)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading OBJ: %w", err)
	}
	return data, nil
}

func parseOBJVertex(fields []string) (core.Vec3, error) {
	if len(fields) < 3 {
		return core.Vec3{}, fmt.Errorf("vertex needs 3 coordinates, got %d", len(fields))
	}

	var coords [3]float64
	for i := range coords {
		value, err := strconv.ParseFloat(fields[i], 64)
		if err != nil {
			return core.Vec3{}, fmt.Errorf("invalid coordinate %q", fields[i])
		}
		coords[i] = value
	}
	return core.NewVec3(coords[0], coords[1], coords[2]), nil
}

func parseOBJFace(fields []string, vertexCount int) ([]int, error) {
	if len(fields) < 3 {
		return nil, fmt.Errorf("face needs at least 3 vertices, got %d", len(fields))
	}

	polygon := make([]int, 0, len(fields))
	for _, field := range fields {
		reference, _, _ := strings.Cut(field, "/")
		index, err := strconv.Atoi(reference)
		if err != nil {
			return nil, fmt.Errorf("invalid vertex reference %q", field)
		}

		switch {
		case index > 0:
			index--
		case index < 0:
			index += vertexCount
		default:
			return nil, fmt.Errorf("vertex index 0 is not valid")
		}

		if index < 0 || index >= vertexCount {
			return nil, fmt.Errorf("vertex reference %q out of range (%d vertices)", field, vertexCount)
		}
		polygon = append(polygon, index)
	}
	return polygon, nil
}
