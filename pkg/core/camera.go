package core

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Camera is the viewer pose: a position, a vertical field of view in degrees and
// accumulated pitch/yaw (radians) that orient the forward axis away from +Z.
type Camera struct {
	Origin   Vec3
	FovAngle float64
	Pitch    float64
	Yaw      float64
}

// NewCamera creates a camera looking down +Z
func NewCamera(origin Vec3, fovAngle float64) Camera {
	return Camera{Origin: origin, FovAngle: fovAngle}
}

// Forward returns the unit viewing direction
func (c Camera) Forward() Vec3 {
	rotation := mgl64.HomogRotate3DY(c.Yaw).Mul4(mgl64.HomogRotate3DX(c.Pitch))
	return TransformVector(rotation, UnitZ).Normalize()
}

// Basis returns the orthonormal right/up/forward axes of the camera
func (c Camera) Basis() (right, up, forward Vec3) {
	forward = c.Forward()
	right = UnitY.Cross(forward).Normalize()
	if right.LengthSquared() == 0 {
		// Looking straight up or down
		right = UnitX
	}
	up = forward.Cross(right).Normalize()
	return right, up, forward
}

// CameraToWorld builds the camera-to-world matrix with the basis as columns
func (c Camera) CameraToWorld() mgl64.Mat4 {
	right, up, forward := c.Basis()
	return mgl64.Mat4FromCols(
		right.ToMgl().Vec4(0),
		up.ToMgl().Vec4(0),
		forward.ToMgl().Vec4(0),
		c.Origin.ToMgl().Vec4(1),
	)
}

// FovScale returns tan(fov/2), the half-height of the image plane at distance one
func (c Camera) FovScale() float64 {
	return math.Tan(mgl64.DegToRad(c.FovAngle) / 2)
}
