package lights

import (
	"fmt"

	"github.com/df07/go-direct-raytracer/pkg/core"
)

type LightType string

const (
	LightTypePoint       LightType = "point"
	LightTypeDirectional LightType = "directional"
)

// directionalDistance stands in for the infinitely distant position of a directional light
const directionalDistance = 1e30

// Light is a tagged variant: point lights use Origin, directional lights use Direction
type Light struct {
	Type      LightType
	Origin    core.Vec3 // Position of a point light
	Direction core.Vec3 // Unit direction a directional light travels in
	Intensity float64
	Color     core.Vec3
}

// NewPointLight creates a light radiating from origin
func NewPointLight(origin core.Vec3, intensity float64, color core.Vec3) Light {
	return Light{Type: LightTypePoint, Origin: origin, Intensity: intensity, Color: color}
}

// NewDirectionalLight creates a light whose rays all travel along direction
func NewDirectionalLight(direction core.Vec3, intensity float64, color core.Vec3) Light {
	return Light{Type: LightTypeDirectional, Direction: direction.Normalize(), Intensity: intensity, Color: color}
}

// DirectionToLight returns the un-normalized vector from point to the light.
// Its length is the distance to the light, which bounds shadow rays. Directional
// lights have no position, so they return a vector toward the light that is long
// enough to act as infinite.
func (l Light) DirectionToLight(point core.Vec3) core.Vec3 {
	if l.Type == LightTypeDirectional {
		return l.Direction.Multiply(-directionalDistance)
	}
	return l.Origin.Subtract(point)
}

// Radiance returns the light arriving at point, falling off with the squared
// distance for point lights
func (l Light) Radiance(point core.Vec3) core.Vec3 {
	radiance := l.Color.Multiply(l.Intensity)
	if l.Type == LightTypeDirectional {
		return radiance
	}

	distanceSquared := l.Origin.Subtract(point).LengthSquared()
	if distanceSquared == 0 {
		return core.Vec3{}
	}
	return radiance.Multiply(1 / distanceSquared)
}

// Validate rejects lights that cannot be evaluated
func (l Light) Validate() error {
	switch l.Type {
	case LightTypePoint:
	case LightTypeDirectional:
		if l.Direction.LengthSquared() == 0 {
			return fmt.Errorf("directional light has no direction")
		}
	default:
		return fmt.Errorf("unknown light type %q", l.Type)
	}
	if l.Intensity < 0 {
		return fmt.Errorf("%s light has negative intensity %g", l.Type, l.Intensity)
	}
	return nil
}

func (l Light) String() string {
	if l.Type == LightTypeDirectional {
		return fmt.Sprintf("directional light dir=%v intensity=%g", l.Direction, l.Intensity)
	}
	return fmt.Sprintf("point light at %v intensity=%g", l.Origin, l.Intensity)
}
