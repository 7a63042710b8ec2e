package server

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/df07/go-direct-raytracer/internal/hostinfo"
	"github.com/df07/go-direct-raytracer/pkg/core"
	"github.com/df07/go-direct-raytracer/pkg/material"
	"github.com/df07/go-direct-raytracer/pkg/renderer"
)

// InspectResponse represents the JSON response for pixel inspection
type InspectResponse struct {
	Hit          bool                   `json:"hit"`
	MaterialType string                 `json:"materialType,omitempty"`
	Point        [3]float64             `json:"point"`
	Normal       [3]float64             `json:"normal"`
	Distance     float64                `json:"distance"`
	Color        [3]float64             `json:"color"`
	Properties   map[string]interface{} `json:"properties,omitempty"`
	Lights       []LightResponse        `json:"lights,omitempty"`
}

// LightResponse is the per-light breakdown of an inspected pixel
type LightResponse struct {
	Index        int        `json:"index"`
	ObservedArea float64    `json:"observedArea"`
	BackFacing   bool       `json:"backFacing"`
	Occluded     bool       `json:"occluded"`
	Radiance     [3]float64 `json:"radiance"`
	BRDF         [3]float64 `json:"brdf"`
	Contribution [3]float64 `json:"contribution"`
}

func toArray(v core.Vec3) [3]float64 {
	return [3]float64{v.X, v.Y, v.Z}
}

// extractMaterialInfo lists the parameters that matter for each material kind
func extractMaterialInfo(mat material.Material) map[string]interface{} {
	properties := map[string]interface{}{
		"color": fmt.Sprintf("#%02x%02x%02x",
			int(clampUnit(mat.Color.X)*255), int(clampUnit(mat.Color.Y)*255), int(clampUnit(mat.Color.Z)*255)),
	}

	switch mat.Kind {
	case material.Lambertian:
		properties["diffuseReflectance"] = mat.DiffuseReflectance
	case material.LambertPhong:
		properties["diffuseReflectance"] = mat.DiffuseReflectance
		properties["specularReflectance"] = mat.SpecularReflectance
		properties["phongExponent"] = mat.PhongExponent
	case material.CookTorrance:
		properties["metalness"] = mat.Metalness
		properties["roughness"] = mat.Roughness
		properties["f0"] = toArray(mat.F0())
	}
	return properties
}

func clampUnit(v float64) float64 {
	return min(1, max(0, v))
}

// handleInspect reports what the primary ray through pixel (x, y) hits and how
// every light contributes to it
func (s *Server) handleInspect(c echo.Context) error {
	req, sceneObj, r, _, err := s.prepare(c)
	if err != nil {
		return err
	}

	query := c.QueryParams()
	x, err := parseIntParam(query, "x", req.Width/2, 0, req.Width-1)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	y, err := parseIntParam(query, "y", req.Height/2, 0, req.Height-1)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	sceneObj.Update(req.Time)
	info, err := r.InspectPixel(sceneObj, x, y)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, newInspectResponse(info))
}

func newInspectResponse(info renderer.PixelInfo) InspectResponse {
	if !info.Hit.DidHit {
		return InspectResponse{Hit: false}
	}

	response := InspectResponse{
		Hit:          true,
		MaterialType: info.Material.Kind.String(),
		Point:        toArray(info.Hit.Point),
		Normal:       toArray(info.Hit.Normal),
		Distance:     info.Hit.T,
		Color:        toArray(info.Color),
		Properties:   extractMaterialInfo(info.Material),
	}
	for _, sample := range info.Lights {
		response.Lights = append(response.Lights, LightResponse{
			Index:        sample.LightIndex,
			ObservedArea: sample.ObservedArea,
			BackFacing:   sample.BackFacing,
			Occluded:     sample.Occluded,
			Radiance:     toArray(sample.Radiance),
			BRDF:         toArray(sample.BRDF),
			Contribution: toArray(sample.Contribution),
		})
	}
	return response
}

// handleHost describes the machine serving renders
func (s *Server) handleHost(c echo.Context) error {
	info, err := hostinfo.Detect()
	if err != nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"cpu":            info.CPUModel,
		"clockGHz":       info.ClockGHz,
		"logicalCores":   info.LogicalCores,
		"physicalCores":  info.PhysicalCores,
		"totalMemoryGB":  info.TotalMemoryGB,
		"defaultWorkers": hostinfo.DefaultWorkers(),
		"summary":        info.String(),
	})
}
