package renderer

import (
	"fmt"
	"time"
)

// RenderStats contains statistics about one or more rendered frames
type RenderStats struct {
	Frames             int           // Number of frames rendered
	Pixels             int           // Total number of pixels shaded
	HitPixels          int           // Pixels whose primary ray hit a primitive
	ShadowRays         int           // Shadow rays cast
	OccludedShadowRays int           // Shadow rays that found an occluder
	Workers            int           // Workers used by the last frame
	Tiles              int           // Tiles dispatched
	Duration           time.Duration // Wall-clock render time
}

// Merge adds the counters of other into s. Workers keeps the larger value.
func (s *RenderStats) Merge(other RenderStats) {
	s.Frames += other.Frames
	s.Pixels += other.Pixels
	s.HitPixels += other.HitPixels
	s.ShadowRays += other.ShadowRays
	s.OccludedShadowRays += other.OccludedShadowRays
	s.Tiles += other.Tiles
	s.Duration += other.Duration
	s.Workers = max(s.Workers, other.Workers)
}

// HitRatio returns the fraction of pixels that hit geometry
func (s RenderStats) HitRatio() float64 {
	if s.Pixels == 0 {
		return 0
	}
	return float64(s.HitPixels) / float64(s.Pixels)
}

func (s RenderStats) String() string {
	return fmt.Sprintf("%d px (%.1f%% hit), %d shadow rays (%d occluded), %d tiles on %d workers in %v",
		s.Pixels, 100*s.HitRatio(), s.ShadowRays, s.OccludedShadowRays, s.Tiles, s.Workers, s.Duration)
}
