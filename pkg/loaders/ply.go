package loaders

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/df07/go-direct-raytracer/pkg/core"
)

const (
	// maxPLYPrealloc bounds the buffers sized from header counts; larger meshes grow on append
	maxPLYPrealloc = 1 << 20
	// maxPLYListLength is the longest list property accepted in the body
	maxPLYListLength = 1 << 16
)

// PLYHeader represents the parsed header information from a PLY file
type PLYHeader struct {
	Format      string // "binary_little_endian", "binary_big_endian", or "ascii"
	Version     string // Usually "1.0"
	VertexCount int
	FaceCount   int
	VertexProps []PLYProperty
	FaceProps   []PLYProperty
}

// PLYProperty represents a property definition in the PLY header
type PLYProperty struct {
	Name     string
	Type     string
	IsList   bool
	ListType string // For list properties, the type of the count
	DataType string // For list properties, the type of the data
}

// LoadPLY loads the vertex positions and faces of a PLY file
func LoadPLY(filename string) (*MeshData, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open PLY file: %w", err)
	}
	defer file.Close()

	return ParsePLY(file)
}

// ParsePLY reads ascii and binary PLY meshes. Only x/y/z vertex properties and
// the vertex_indices face list are kept; everything else is skipped.
func ParsePLY(r io.Reader) (*MeshData, error) {
	reader := bufio.NewReaderSize(r, 1024*1024)

	header, err := parsePLYHeader(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to parse PLY header: %w", err)
	}

	var source plyValueReader
	switch header.Format {
	case "ascii":
		source = &asciiValueReader{reader: reader}
	case "binary_little_endian":
		source = &binaryValueReader{reader: reader, order: binary.LittleEndian}
	case "binary_big_endian":
		source = &binaryValueReader{reader: reader, order: binary.BigEndian}
	default:
		return nil, fmt.Errorf("unsupported PLY format: %s", header.Format)
	}

	data, err := readPLYBody(source, header)
	if err != nil {
		return nil, fmt.Errorf("failed to read PLY data: %w", err)
	}
	return data, nil
}

// parsePLYHeader consumes the header up to and including end_header
func parsePLYHeader(reader *bufio.Reader) (*PLYHeader, error) {
	header := &PLYHeader{}
	var currentElement string
	first := true

	for {
		raw, err := reader.ReadString('\n')
		if err != nil {
			return nil, fmt.Errorf("header ended before end_header: %w", err)
		}
		line := strings.TrimSpace(raw)

		if first {
			if line != "ply" {
				return nil, fmt.Errorf("missing ply magic number")
			}
			first = false
			continue
		}
		if line == "end_header" {
			break
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}

		switch parts[0] {
		case "format":
			if len(parts) >= 3 {
				header.Format = parts[1]
				header.Version = parts[2]
			}
		case "comment", "obj_info":
			// Ignore comments
		case "element":
			if len(parts) < 3 {
				return nil, fmt.Errorf("invalid element line: %s", line)
			}
			count, err := strconv.Atoi(parts[2])
			if err != nil || count < 0 {
				return nil, fmt.Errorf("invalid element count: %s", parts[2])
			}

			currentElement = parts[1]
			switch currentElement {
			case "vertex":
				header.VertexCount = count
			case "face":
				header.FaceCount = count
			default:
				if count > 0 {
					return nil, fmt.Errorf("unsupported element %q", currentElement)
				}
			}
		case "property":
			prop, err := parsePLYProperty(parts[1:])
			if err != nil {
				return nil, fmt.Errorf("failed to parse property: %w", err)
			}

			switch currentElement {
			case "vertex":
				header.VertexProps = append(header.VertexProps, prop)
			case "face":
				header.FaceProps = append(header.FaceProps, prop)
			}
		}
	}

	return header, nil
}

// parsePLYProperty parses a property line from the PLY header
func parsePLYProperty(parts []string) (PLYProperty, error) {
	if len(parts) < 2 {
		return PLYProperty{}, fmt.Errorf("invalid property definition")
	}

	prop := PLYProperty{}

	if parts[0] == "list" {
		if len(parts) < 4 {
			return PLYProperty{}, fmt.Errorf("invalid list property definition")
		}
		prop.IsList = true
		prop.ListType = parts[1]
		prop.DataType = parts[2]
		prop.Name = parts[3]
	} else {
		prop.Type = parts[0]
		prop.Name = parts[1]
	}

	if getTypeSize(prop.Type) == 0 && !prop.IsList {
		return PLYProperty{}, fmt.Errorf("unsupported data type: %s", prop.Type)
	}
	return prop, nil
}

func readPLYBody(source plyValueReader, header *PLYHeader) (*MeshData, error) {
	data := &MeshData{
		Positions: make([]core.Vec3, 0, min(header.VertexCount, maxPLYPrealloc)),
		Indices:   make([]int, 0, min(header.FaceCount, maxPLYPrealloc)*3),
	}

	for i := 0; i < header.VertexCount; i++ {
		var position core.Vec3
		for _, prop := range header.VertexProps {
			if prop.IsList {
				if _, err := readPLYList(source, prop); err != nil {
					return nil, fmt.Errorf("vertex %d: %w", i, err)
				}
				continue
			}

			value, err := source.Scalar(prop.Type)
			if err != nil {
				return nil, fmt.Errorf("vertex %d property %s: %w", i, prop.Name, err)
			}
			switch prop.Name {
			case "x":
				position.X = value
			case "y":
				position.Y = value
			case "z":
				position.Z = value
			}
		}
		data.Positions = append(data.Positions, position)
	}

	for i := 0; i < header.FaceCount; i++ {
		for _, prop := range header.FaceProps {
			if !prop.IsList {
				if _, err := source.Scalar(prop.Type); err != nil {
					return nil, fmt.Errorf("face %d property %s: %w", i, prop.Name, err)
				}
				continue
			}

			values, err := readPLYList(source, prop)
			if err != nil {
				return nil, fmt.Errorf("face %d: %w", i, err)
			}
			if prop.Name != "vertex_indices" && prop.Name != "vertex_index" {
				continue
			}
			if len(values) < 3 {
				return nil, fmt.Errorf("face %d has %d vertices", i, len(values))
			}

			polygon := make([]int, len(values))
			for j, value := range values {
				index := int(value)
				if index < 0 || index >= header.VertexCount {
					return nil, fmt.Errorf("face %d references vertex %d of %d", i, index, header.VertexCount)
				}
				polygon[j] = index
			}
			data.Indices = appendFan(data.Indices, polygon)
		}
	}

	return data, nil
}

func readPLYList(source plyValueReader, prop PLYProperty) ([]float64, error) {
	count, err := source.Scalar(prop.ListType)
	if err != nil {
		return nil, fmt.Errorf("list %s count: %w", prop.Name, err)
	}
	if math.IsNaN(count) || count != math.Trunc(count) {
		return nil, fmt.Errorf("list %s has invalid length %v", prop.Name, count)
	}
	if count < 0 {
		return nil, fmt.Errorf("list %s has negative length", prop.Name)
	}
	if count > maxPLYListLength {
		return nil, fmt.Errorf("list %s length %v exceeds %d", prop.Name, count, maxPLYListLength)
	}

	values := make([]float64, int(count))
	for i := range values {
		if values[i], err = source.Scalar(prop.DataType); err != nil {
			return nil, fmt.Errorf("list %s element %d: %w", prop.Name, i, err)
		}
	}
	return values, nil
}

// plyValueReader yields successive scalar values of the body regardless of encoding
type plyValueReader interface {
	Scalar(dataType string) (float64, error)
}

type asciiValueReader struct {
	reader *bufio.Reader
	fields []string
}

func (a *asciiValueReader) Scalar(dataType string) (float64, error) {
	for len(a.fields) == 0 {
		line, err := a.reader.ReadString('\n')
		if err != nil && (err != io.EOF || line == "") {
			return 0, err
		}
		a.fields = strings.Fields(line)
	}

	token := a.fields[0]
	a.fields = a.fields[1:]
	value, err := strconv.ParseFloat(token, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q", dataType, token)
	}
	return value, nil
}

type binaryValueReader struct {
	reader *bufio.Reader
	order  binary.ByteOrder
	buf    [8]byte
}

func (b *binaryValueReader) Scalar(dataType string) (float64, error) {
	size := getTypeSize(dataType)
	if size == 0 {
		return 0, fmt.Errorf("unsupported data type: %s", dataType)
	}

	bytes := b.buf[:size]
	if _, err := io.ReadFull(b.reader, bytes); err != nil {
		return 0, err
	}

	switch dataType {
	case "float", "float32":
		return float64(math.Float32frombits(b.order.Uint32(bytes))), nil
	case "double", "float64":
		return math.Float64frombits(b.order.Uint64(bytes)), nil
	case "int", "int32":
		return float64(int32(b.order.Uint32(bytes))), nil
	case "uint", "uint32":
		return float64(b.order.Uint32(bytes)), nil
	case "short", "int16":
		return float64(int16(b.order.Uint16(bytes))), nil
	case "ushort", "uint16":
		return float64(b.order.Uint16(bytes)), nil
	case "char", "int8":
		return float64(int8(bytes[0])), nil
	default:
		return float64(bytes[0]), nil
	}
}

// getTypeSize returns the size in bytes of a PLY data type, or 0 if unknown
func getTypeSize(dataType string) int {
	switch dataType {
	case "float", "float32", "int", "int32", "uint", "uint32":
		return 4
	case "double", "float64":
		return 8
	case "short", "int16", "ushort", "uint16":
		return 2
	case "char", "int8", "uchar", "uint8":
		return 1
	default:
		return 0
	}
}
