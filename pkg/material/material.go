package material

import (
	"fmt"
	"math"

	"github.com/df07/go-direct-raytracer/pkg/core"
)

// Kind selects the shading model of a Material
type Kind int

const (
	SolidColor Kind = iota
	Lambertian
	LambertPhong
	CookTorrance
)

func (k Kind) String() string {
	switch k {
	case SolidColor:
		return "solid"
	case Lambertian:
		return "lambert"
	case LambertPhong:
		return "lambert-phong"
	case CookTorrance:
		return "cook-torrance"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// dielectricF0 is the base reflectivity shared by non-metals
const dielectricF0 = 0.04

// minSpecularDenominator keeps 4(n·v)(n·l) away from zero at grazing angles
const minSpecularDenominator = 1e-4

// Material is a tagged variant over the supported shading models.
// Only the parameters of the active Kind are read by Shade.
type Material struct {
	Kind  Kind
	Color core.Vec3 // Solid color, diffuse color or Cook-Torrance albedo

	DiffuseReflectance  float64 // kd
	SpecularReflectance float64 // ks
	PhongExponent       float64

	Metalness float64 // 0 = dielectric, 1 = metal
	Roughness float64 // perceptual roughness in [0, 1]
}

// NewSolidColor creates a material that always returns color
func NewSolidColor(color core.Vec3) Material {
	return Material{Kind: SolidColor, Color: color}
}

// NewLambert creates a purely diffuse material
func NewLambert(color core.Vec3, diffuseReflectance float64) Material {
	return Material{Kind: Lambertian, Color: color, DiffuseReflectance: diffuseReflectance}
}

// NewLambertPhong creates a diffuse material with a Phong highlight
func NewLambertPhong(color core.Vec3, kd, ks, phongExponent float64) Material {
	return Material{
		Kind:                LambertPhong,
		Color:               color,
		DiffuseReflectance:  kd,
		SpecularReflectance: ks,
		PhongExponent:       phongExponent,
	}
}

// NewCookTorrance creates a microfacet material
func NewCookTorrance(albedo core.Vec3, metalness, roughness float64) Material {
	return Material{
		Kind:      CookTorrance,
		Color:     albedo,
		Metalness: clamp01(metalness),
		Roughness: clamp01(roughness),
	}
}

// Shade evaluates the reflectance for light arriving from l and leaving toward v.
// hit supplies the surface normal; l and v must be unit length.
func (m Material) Shade(hit core.HitRecord, l, v core.Vec3) core.Vec3 {
	switch m.Kind {
	case SolidColor:
		return m.Color
	case Lambertian:
		return Lambert(m.DiffuseReflectance, m.Color)
	case LambertPhong:
		diffuse := Lambert(m.DiffuseReflectance, m.Color)
		return diffuse.Add(Phong(m.SpecularReflectance, m.PhongExponent, l, v, hit.Normal))
	case CookTorrance:
		diffuse, specular := m.cookTorrance(hit.Normal, l, v)
		return diffuse.Add(specular)
	default:
		return core.Vec3{}
	}
}

// Validate reports parameters that would make Shade produce nonsense
func (m Material) Validate() error {
	switch m.Kind {
	case SolidColor, Lambertian, LambertPhong:
	case CookTorrance:
		if m.Roughness < 0 || m.Roughness > 1 || m.Metalness < 0 || m.Metalness > 1 {
			return fmt.Errorf("cook-torrance parameters out of range: metalness=%g roughness=%g", m.Metalness, m.Roughness)
		}
	default:
		return fmt.Errorf("unknown material kind %d", int(m.Kind))
	}
	if m.Color.IsNaN() {
		return fmt.Errorf("%s material has a NaN color", m.Kind)
	}
	return nil
}

// F0 returns the base reflectivity at normal incidence
func (m Material) F0() core.Vec3 {
	if m.isMetal() {
		return m.Color
	}
	return lerp(core.NewGray(dielectricF0), m.Color, m.Metalness)
}

func (m Material) isMetal() bool {
	return math.Abs(m.Metalness-1) < 1e-6
}

// cookTorrance returns the diffuse and specular terms separately
func (m Material) cookTorrance(n, l, v core.Vec3) (diffuse, specular core.Vec3) {
	h := v.Add(l).Normalize()

	f := FresnelSchlick(h, v, m.F0())
	d := NormalDistributionGGX(n, h, m.Roughness)
	g := GeometrySmith(n, v, l, m.Roughness)

	denominator := 4 * math.Max(0, n.Dot(v)) * math.Max(0, n.Dot(l))
	specular = f.Multiply(d * g / math.Max(denominator, minSpecularDenominator))

	if m.isMetal() {
		return core.Vec3{}, specular
	}

	kd := core.NewGray(1).Subtract(f).Multiply(1 - m.Metalness)
	diffuse = LambertColor(kd, m.Color)
	return diffuse, specular
}

func lerp(a, b core.Vec3, t float64) core.Vec3 {
	return a.Add(b.Subtract(a).Multiply(t))
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
