package geometry

import (
	"math"
	"testing"

	"github.com/df07/go-direct-raytracer/pkg/core"
)

func TestSphere_Hit(t *testing.T) {
	sphere := NewSphere(core.NewVec3(0, 0, 0), 1.0, 3)

	tests := []struct {
		name           string
		ray            core.Ray
		shouldHit      bool
		expectedT      float64
		expectedPoint  core.Vec3
		expectedNormal core.Vec3
	}{
		{
			name:           "Ray hits sphere from the front",
			ray:            core.NewRay(core.NewVec3(0, 0, -5), core.NewVec3(0, 0, 1)),
			shouldHit:      true,
			expectedT:      4.0,
			expectedPoint:  core.NewVec3(0, 0, -1),
			expectedNormal: core.NewVec3(0, 0, -1),
		},
		{
			name:           "Ray starting inside hits the far side",
			ray:            core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, 1)),
			shouldHit:      true,
			expectedT:      1.0,
			expectedPoint:  core.NewVec3(0, 0, 1),
			expectedNormal: core.NewVec3(0, 0, 1),
		},
		{
			name:      "Sphere behind the ray",
			ray:       core.NewRay(core.NewVec3(0, 0, 5), core.NewVec3(0, 0, 1)),
			shouldHit: false,
		},
		{
			name:      "Ray passes beside the sphere",
			ray:       core.NewRay(core.NewVec3(2, 0, -5), core.NewVec3(0, 0, 1)),
			shouldHit: false,
		},
		{
			name:      "Hit beyond ray max",
			ray:       core.NewBoundedRay(core.NewVec3(0, 0, -5), core.NewVec3(0, 0, 1), 0, 3),
			shouldHit: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hit := core.NewHitRecord()
			isHit := sphere.Hit(tt.ray, &hit)

			if isHit != tt.shouldHit {
				t.Fatalf("Expected hit=%v, got hit=%v", tt.shouldHit, isHit)
			}
			if sphere.DoesHit(tt.ray) != tt.shouldHit {
				t.Errorf("DoesHit disagrees with Hit for %s", tt.name)
			}
			if !tt.shouldHit {
				if hit.DidHit {
					t.Errorf("Record should stay untouched on a miss")
				}
				return
			}

			const tolerance = 1e-9
			if math.Abs(hit.T-tt.expectedT) > tolerance {
				t.Errorf("Expected t=%f, got t=%f", tt.expectedT, hit.T)
			}
			if hit.Point.Subtract(tt.expectedPoint).Length() > tolerance {
				t.Errorf("Expected point %v, got %v", tt.expectedPoint, hit.Point)
			}
			if hit.Normal.Subtract(tt.expectedNormal).Length() > tolerance {
				t.Errorf("Expected normal %v, got %v", tt.expectedNormal, hit.Normal)
			}
			if hit.MaterialIndex != 3 {
				t.Errorf("Expected material index 3, got %d", hit.MaterialIndex)
			}
		})
	}
}

func TestSphere_HitDistanceProperty(t *testing.T) {
	for _, radius := range []float64{0.5, 1, 2.5, 10} {
		for _, distance := range []float64{radius + 0.1, radius * 2, radius * 100} {
			sphere := NewSphere(core.Vec3{}, radius, 0)
			ray := core.NewRay(core.NewVec3(0, 0, -distance), core.UnitZ)

			hit := core.NewHitRecord()
			if !sphere.Hit(ray, &hit) {
				t.Fatalf("r=%f d=%f: expected a hit", radius, distance)
			}

			tolerance := 1e-9 * distance
			if math.Abs(hit.T-(distance-radius)) > tolerance {
				t.Errorf("r=%f d=%f: expected t=%f, got %f", radius, distance, distance-radius, hit.T)
			}
			if hit.Point.Subtract(core.NewVec3(0, 0, -radius)).Length() > tolerance {
				t.Errorf("r=%f d=%f: unexpected point %v", radius, distance, hit.Point)
			}
			if hit.Normal.Subtract(core.NewVec3(0, 0, -1)).Length() > 1e-9 {
				t.Errorf("r=%f d=%f: unexpected normal %v", radius, distance, hit.Normal)
			}
		}
	}
}

func TestSphere_KeepsCloserRecord(t *testing.T) {
	sphere := NewSphere(core.Vec3{}, 1.0, 0)
	ray := core.NewRay(core.NewVec3(0, 0, -5), core.UnitZ)

	hit := core.NewHitRecord()
	hit.T = 2.0
	if sphere.Hit(ray, &hit) {
		t.Error("Hit at t=4 must not replace a record at t=2")
	}
	if hit.T != 2.0 || hit.DidHit {
		t.Errorf("Record was modified: %+v", hit)
	}
}

func TestSphere_NearRootBelowMinUsesFarRoot(t *testing.T) {
	sphere := NewSphere(core.Vec3{}, 1.0, 0)

	tests := []struct {
		name      string
		min, max  float64
		shouldHit bool
		expectedT float64
	}{
		{"near root in range", 0, 100, true, 4},
		{"near root below min", 4.5, 100, true, 6},
		{"both roots below min", 6.5, 100, false, 0},
		{"far root above max", 4.5, 5.5, false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ray := core.NewBoundedRay(core.NewVec3(0, 0, -5), core.UnitZ, tt.min, tt.max)
			hit := core.NewHitRecord()

			if got := sphere.Hit(ray, &hit); got != tt.shouldHit {
				t.Fatalf("Expected hit=%v, got %v", tt.shouldHit, got)
			}
			if got := sphere.DoesHit(ray); got != tt.shouldHit {
				t.Errorf("DoesHit disagrees with Hit: %v", got)
			}
			if tt.shouldHit && math.Abs(hit.T-tt.expectedT) > 1e-9 {
				t.Errorf("Expected t=%f, got %f", tt.expectedT, hit.T)
			}
		})
	}
}

func TestSphere_BoundingBox(t *testing.T) {
	sphere := NewSphere(core.NewVec3(1, 2, 3), 2, 0)
	bbox := sphere.BoundingBox()

	if bbox.Min != core.NewVec3(-1, 0, 1) {
		t.Errorf("Expected min (-1,0,1), got %v", bbox.Min)
	}
	if bbox.Max != core.NewVec3(3, 4, 5) {
		t.Errorf("Expected max (3,4,5), got %v", bbox.Max)
	}
}
