package material

import (
	"math"

	"github.com/df07/go-direct-raytracer/pkg/core"
)

// All direction arguments are unit vectors pointing away from the shading point.

// Lambert returns the diffuse reflectance kd * cd / π
func Lambert(kd float64, cd core.Vec3) core.Vec3 {
	return cd.Multiply(kd / math.Pi)
}

// LambertColor is Lambert with a per-channel diffuse coefficient
func LambertColor(kd, cd core.Vec3) core.Vec3 {
	return cd.MultiplyVec(kd).Multiply(1 / math.Pi)
}

// Phong returns the gray specular lobe ks * max(0, r·v)^exp, where r mirrors the
// incident direction -l about n
func Phong(ks, exp float64, l, v, n core.Vec3) core.Vec3 {
	reflected := reflect(l.Negate(), n)
	cosAlpha := reflected.Dot(v)
	if cosAlpha <= 0 {
		return core.Vec3{}
	}
	return core.NewGray(ks * math.Pow(cosAlpha, exp))
}

// FresnelSchlick approximates the Fresnel reflectance: F0 + (1-F0)(1-h·v)^5
func FresnelSchlick(h, v, f0 core.Vec3) core.Vec3 {
	cosTheta := math.Max(0, h.Dot(v))
	weight := math.Pow(1-cosTheta, 5)
	return f0.Add(core.NewGray(1).Subtract(f0).Multiply(weight))
}

// minRoughness keeps the GGX peak finite for perfectly smooth surfaces
const minRoughness = 1e-3

// NormalDistributionGGX is the Trowbridge-Reitz distribution with α = roughness².
// Roughness below minRoughness is raised to it.
func NormalDistributionGGX(n, h core.Vec3, roughness float64) float64 {
	roughness = math.Max(roughness, minRoughness)
	alpha := roughness * roughness
	alpha2 := alpha * alpha
	nDotH := math.Max(0, n.Dot(h))

	denominator := nDotH*nDotH*(alpha2-1) + 1
	return alpha2 / (math.Pi * denominator * denominator)
}

// GeometrySchlickGGX is the single-direction masking term with the direct-lighting
// k = (α+1)²/8
func GeometrySchlickGGX(n, x core.Vec3, roughness float64) float64 {
	alpha := roughness * roughness
	k := (alpha + 1) * (alpha + 1) / 8
	nDotX := math.Max(0, n.Dot(x))

	return nDotX / (nDotX*(1-k) + k)
}

// GeometrySmith combines masking toward the viewer and shadowing toward the light
func GeometrySmith(n, v, l core.Vec3, roughness float64) float64 {
	return GeometrySchlickGGX(n, v, roughness) * GeometrySchlickGGX(n, l, roughness)
}

func reflect(d, n core.Vec3) core.Vec3 {
	return d.Subtract(n.Multiply(2 * d.Dot(n)))
}
