package lights

import (
	"math"
	"testing"

	"github.com/df07/go-direct-raytracer/pkg/core"
)

func TestPointLight_DirectionToLight(t *testing.T) {
	light := NewPointLight(core.NewVec3(0, 5, 5), 50, core.NewVec3(1, 0.61, 0.45))
	point := core.NewVec3(0, 1, 2)

	direction := light.DirectionToLight(point)
	if direction != core.NewVec3(0, 4, 3) {
		t.Errorf("Expected (0,4,3), got %v", direction)
	}
	if math.Abs(direction.Length()-5) > 1e-12 {
		t.Errorf("Expected distance 5, got %f", direction.Length())
	}
}

func TestPointLight_Radiance(t *testing.T) {
	light := NewPointLight(core.NewVec3(0, 5, 5), 50, core.NewVec3(1, 0.5, 0.25))

	tests := []struct {
		name     string
		point    core.Vec3
		expected core.Vec3
	}{
		{"distance 5", core.NewVec3(0, 1, 2), core.NewVec3(2, 1, 0.5)},
		{"distance 10", core.NewVec3(0, -5, 5), core.NewVec3(0.5, 0.25, 0.125)},
		{"at the light", core.NewVec3(0, 5, 5), core.Vec3{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := light.Radiance(tt.point)
			if got.Subtract(tt.expected).Length() > 1e-12 {
				t.Errorf("Expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestDirectionalLight(t *testing.T) {
	light := NewDirectionalLight(core.NewVec3(0, -2, 0), 3, core.NewGray(1))

	// No falloff
	near := light.Radiance(core.Vec3{})
	far := light.Radiance(core.NewVec3(1000, -1000, 5))
	if near != core.NewGray(3) || far != core.NewGray(3) {
		t.Errorf("Expected constant radiance 3, got %v and %v", near, far)
	}

	toLight := light.DirectionToLight(core.NewVec3(4, 4, 4))
	if toLight.Normalize().Subtract(core.UnitY).Length() > 1e-12 {
		t.Errorf("Expected the light to be straight up, got %v", toLight.Normalize())
	}
	if toLight.Length() < 1e20 {
		t.Errorf("Directional light should be effectively infinitely far, got %g", toLight.Length())
	}
}

func TestLight_Validate(t *testing.T) {
	tests := []struct {
		name    string
		light   Light
		wantErr bool
	}{
		{"point", NewPointLight(core.Vec3{}, 1, core.NewGray(1)), false},
		{"directional", NewDirectionalLight(core.UnitY, 1, core.NewGray(1)), false},
		{"no direction", Light{Type: LightTypeDirectional, Intensity: 1}, true},
		{"negative intensity", NewPointLight(core.Vec3{}, -1, core.NewGray(1)), true},
		{"unknown type", Light{Type: "spot"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.light.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Expected error=%v, got %v", tt.wantErr, err)
			}
		})
	}
}
