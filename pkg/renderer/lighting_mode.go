package renderer

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownLightingMode is returned by ParseLightingMode for unrecognized names
var ErrUnknownLightingMode = errors.New("unknown lighting mode")

// LightingMode selects which term of the lighting equation a pixel accumulates
type LightingMode int

const (
	ObservedArea LightingMode = iota // n·l as a gray value
	Radiance                         // light radiance at the hit point
	BRDF                             // material reflectance only
	Combined                         // radiance · n·l · BRDF
	numLightingModes
)

var lightingModeNames = [...]string{
	ObservedArea: "observed_area",
	Radiance:     "radiance",
	BRDF:         "brdf",
	Combined:     "combined",
}

// Next returns the mode that follows m, wrapping from Combined back to ObservedArea
func (m LightingMode) Next() LightingMode {
	return (m + 1) % numLightingModes
}

// Valid reports whether m is one of the four modes
func (m LightingMode) Valid() bool {
	return m >= ObservedArea && m < numLightingModes
}

func (m LightingMode) String() string {
	if !m.Valid() {
		return fmt.Sprintf("LightingMode(%d)", int(m))
	}
	return lightingModeNames[m]
}

// ParseLightingMode accepts the names produced by String, case-insensitively.
// Dashes and spaces are treated as underscores.
func ParseLightingMode(name string) (LightingMode, error) {
	normalized := strings.ToLower(strings.TrimSpace(name))
	normalized = strings.NewReplacer("-", "_", " ", "_").Replace(normalized)

	for mode, modeName := range lightingModeNames {
		if normalized == modeName {
			return LightingMode(mode), nil
		}
	}
	return ObservedArea, fmt.Errorf("%w: %q", ErrUnknownLightingMode, name)
}

// LightingModes lists every mode in cycling order
func LightingModes() []LightingMode {
	modes := make([]LightingMode, 0, numLightingModes)
	for m := ObservedArea; m < numLightingModes; m++ {
		modes = append(modes, m)
	}
	return modes
}
