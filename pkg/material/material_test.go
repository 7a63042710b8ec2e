package material

import (
	"math"
	"math/rand"
	"testing"

	"github.com/df07/go-direct-raytracer/pkg/core"
)

func upHit() core.HitRecord {
	return core.HitRecord{DidHit: true, Normal: core.UnitY}
}

func TestMaterial_SolidColorIgnoresGeometry(t *testing.T) {
	red := core.NewVec3(1, 0, 0)
	m := NewSolidColor(red)

	directions := []core.Vec3{core.UnitX, core.UnitY, core.NewVec3(0, -1, 0)}
	for _, l := range directions {
		for _, v := range directions {
			if got := m.Shade(upHit(), l, v); got != red {
				t.Errorf("Expected %v for l=%v v=%v, got %v", red, l, v, got)
			}
		}
	}
}

func TestMaterial_Lambert(t *testing.T) {
	m := NewLambert(core.NewVec3(0.5, 1, 0.25), 0.8)
	expected := core.NewVec3(0.4, 0.8, 0.2).Multiply(1 / math.Pi)

	// View independent
	for _, v := range []core.Vec3{core.UnitY, core.NewVec3(1, 1, 0).Normalize()} {
		got := m.Shade(upHit(), core.UnitY, v)
		if got.Subtract(expected).Length() > 1e-12 {
			t.Errorf("Expected %v, got %v", expected, got)
		}
	}
}

func TestPhong_PeaksAtMirrorDirection(t *testing.T) {
	n := core.UnitY
	l := core.NewVec3(1, 1, 0).Normalize()
	mirror := core.NewVec3(-1, 1, 0).Normalize()

	peak := Phong(0.5, 20, l, mirror, n)
	if math.Abs(peak.X-0.5) > 1e-12 {
		t.Errorf("Expected ks at the mirror direction, got %v", peak)
	}

	offPeak := Phong(0.5, 20, l, core.UnitY, n)
	if offPeak.X >= peak.X {
		t.Errorf("Off-mirror lobe %v should be below peak %v", offPeak, peak)
	}

	if behind := Phong(0.5, 20, l, l, n); behind != (core.Vec3{}) {
		t.Errorf("Viewing from the light side should give no highlight, got %v", behind)
	}
}

func TestMaterial_LambertPhong(t *testing.T) {
	m := NewLambertPhong(core.NewGray(1), 1, 0.5, 10)
	l := core.NewVec3(1, 1, 0).Normalize()
	mirror := core.NewVec3(-1, 1, 0).Normalize()

	got := m.Shade(upHit(), l, mirror)
	expected := core.NewGray(1/math.Pi + 0.5)
	if got.Subtract(expected).Length() > 1e-12 {
		t.Errorf("Expected %v, got %v", expected, got)
	}
}

func TestFresnelSchlick(t *testing.T) {
	f0 := core.NewVec3(0.04, 0.5, 0.9)

	// Normal incidence returns F0
	if got := FresnelSchlick(core.UnitY, core.UnitY, f0); got.Subtract(f0).Length() > 1e-12 {
		t.Errorf("Expected F0 at normal incidence, got %v", got)
	}

	// Grazing incidence tends to one
	if got := FresnelSchlick(core.UnitY, core.UnitX, f0); got.Subtract(core.NewGray(1)).Length() > 1e-12 {
		t.Errorf("Expected white at grazing incidence, got %v", got)
	}
}

func TestNormalDistributionGGX(t *testing.T) {
	// α = 1 makes the distribution uniform: 1/π everywhere
	for _, h := range []core.Vec3{core.UnitY, core.NewVec3(1, 1, 0).Normalize()} {
		if got := NormalDistributionGGX(core.UnitY, h, 1); math.Abs(got-1/math.Pi) > 1e-12 {
			t.Errorf("Expected 1/π, got %f", got)
		}
	}

	// Smoother surfaces concentrate around the normal
	rough := NormalDistributionGGX(core.UnitY, core.UnitY, 0.6)
	smooth := NormalDistributionGGX(core.UnitY, core.UnitY, 0.1)
	if smooth <= rough {
		t.Errorf("Expected smooth peak %f to exceed rough peak %f", smooth, rough)
	}
}

func TestNormalDistributionGGX_ZeroRoughness(t *testing.T) {
	got := NormalDistributionGGX(core.UnitY, core.UnitY, 0)
	if math.IsNaN(got) || math.IsInf(got, 0) || got <= 0 {
		t.Errorf("Expected a finite positive peak, got %f", got)
	}
	if got != NormalDistributionGGX(core.UnitY, core.UnitY, minRoughness) {
		t.Errorf("Expected zero roughness to match the roughness floor")
	}
}

func TestCookTorrance_ZeroRoughnessMirror(t *testing.T) {
	for _, metalness := range []float64{0, 1} {
		m := NewCookTorrance(core.NewGray(0.75), metalness, 0)
		if err := m.Validate(); err != nil {
			t.Fatalf("Unexpected validation error: %v", err)
		}

		got := m.Shade(upHit(), core.UnitY, core.UnitY)
		if got.IsNaN() {
			t.Fatalf("metalness=%g: expected a finite mirror highlight, got %v", metalness, got)
		}
		if got.X <= 0 || math.IsInf(got.X, 0) {
			t.Errorf("metalness=%g: expected a positive finite highlight, got %v", metalness, got)
		}
		if clamped := got.MaxToOne(); clamped.X > 1 || clamped.IsNaN() {
			t.Errorf("metalness=%g: expected MaxToOne to bring the highlight into range, got %v", metalness, clamped)
		}
	}
}

func TestGeometrySmith(t *testing.T) {
	// No masking when looking along the normal
	if got := GeometrySmith(core.UnitY, core.UnitY, core.UnitY, 0.5); math.Abs(got-1) > 1e-12 {
		t.Errorf("Expected 1 along the normal, got %f", got)
	}

	// Full masking at grazing angles
	if got := GeometrySchlickGGX(core.UnitY, core.UnitX, 0.5); got != 0 {
		t.Errorf("Expected 0 at grazing angle, got %f", got)
	}
}

func randomHemisphere(random *rand.Rand) core.Vec3 {
	for {
		d := core.NewVec3(random.Float64()*2-1, random.Float64(), random.Float64()*2-1)
		if d.LengthSquared() > 1e-6 && d.LengthSquared() <= 1 && d.Y > 1e-3 {
			return d.Normalize()
		}
	}
}

func TestCookTorrance_SpecularBoundedByFresnel(t *testing.T) {
	m := NewCookTorrance(core.NewGray(0.75), 0, 1)
	n := core.UnitY
	random := rand.New(rand.NewSource(7))

	for i := 0; i < 5000; i++ {
		l := randomHemisphere(random)
		v := randomHemisphere(random)

		_, specular := m.cookTorrance(n, l, v)
		fresnel := FresnelSchlick(v.Add(l).Normalize(), v, m.F0())

		if specular.X > fresnel.X+1e-12 || specular.Y > fresnel.Y+1e-12 || specular.Z > fresnel.Z+1e-12 {
			t.Fatalf("Specular %v exceeds Fresnel bound %v for l=%v v=%v", specular, fresnel, l, v)
		}
		if specular.IsNaN() {
			t.Fatalf("NaN specular for l=%v v=%v", l, v)
		}
	}
}

func TestCookTorrance_MetalHasNoDiffuse(t *testing.T) {
	random := rand.New(rand.NewSource(11))

	for _, roughness := range []float64{1, 0.6, 0.1} {
		m := NewCookTorrance(core.NewVec3(0.972, 0.960, 0.915), 1, roughness)
		if m.F0() != m.Color {
			t.Errorf("Metal F0 should be the albedo, got %v", m.F0())
		}

		for i := 0; i < 200; i++ {
			diffuse, _ := m.cookTorrance(core.UnitY, randomHemisphere(random), randomHemisphere(random))
			if diffuse != (core.Vec3{}) {
				t.Fatalf("roughness %f: expected zero diffuse, got %v", roughness, diffuse)
			}
		}
	}
}

func TestCookTorrance_DielectricF0(t *testing.T) {
	m := NewCookTorrance(core.NewVec3(1, 0, 0), 0, 0.5)
	if got := m.F0(); got.Subtract(core.NewGray(dielectricF0)).Length() > 1e-12 {
		t.Errorf("Expected dielectric F0 %f, got %v", dielectricF0, got)
	}

	half := NewCookTorrance(core.NewVec3(1, 0, 0), 0.5, 0.5)
	expected := core.NewVec3(0.52, 0.02, 0.02)
	if got := half.F0(); got.Subtract(expected).Length() > 1e-12 {
		t.Errorf("Expected blended F0 %v, got %v", expected, got)
	}
}

func TestMaterial_Validate(t *testing.T) {
	tests := []struct {
		name    string
		m       Material
		wantErr bool
	}{
		{"solid", NewSolidColor(core.NewGray(1)), false},
		{"cook-torrance", NewCookTorrance(core.NewGray(1), 1, 0.5), false},
		{"roughness out of range", Material{Kind: CookTorrance, Roughness: 2}, true},
		{"unknown kind", Material{Kind: Kind(42)}, true},
		{"nan color", NewLambert(core.NewVec3(math.NaN(), 0, 0), 1), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.m.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Expected error=%v, got %v", tt.wantErr, err)
			}
		})
	}
}
