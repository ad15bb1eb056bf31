package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Marble is the only dynamic body. Position and velocity are platform-local.
type Marble struct {
	Position    mgl64.Vec3
	Velocity    mgl64.Vec3
	Orientation mgl64.Quat // cosmetic rolling spin
	Radius      float64
}

// NewMarble rests a marble on the floor at position. A non-positive radius
// falls back to DefaultMarbleRadius.
func NewMarble(position mgl64.Vec3, radius float64) Marble {
	if radius <= 0 {
		radius = DefaultMarbleRadius
	}
	position[1] = radius
	return Marble{
		Position:    position,
		Orientation: mgl64.QuatIdent(),
		Radius:      radius,
	}
}

func (m Marble) Speed() float64 { return m.Velocity.Len() }

// Orientation is the platform rotation as Euler angles applied in XYZ order.
type Orientation struct {
	X float64 `json:"x" msgpack:"x"`
	Z float64 `json:"z" msgpack:"z"`
}

// Matrix returns the platform-to-world rotation.
func (o Orientation) Matrix() mgl64.Mat3 {
	return mgl64.Rotate3DX(o.X).Mul3(mgl64.Rotate3DZ(o.Z))
}

func (o Orientation) Quat() mgl64.Quat {
	return mgl64.AnglesToQuat(o.X, 0, o.Z, mgl64.XYZ)
}

// LocalGravity returns the unit world "down" expressed in platform-local space.
func (o Orientation) LocalGravity() mgl64.Vec3 {
	return o.Matrix().Transpose().Mul3x1(mgl64.Vec3{0, -1, 0})
}

// Box is an axis-aligned box in platform-local space.
type Box struct {
	Center      mgl64.Vec3
	HalfExtents mgl64.Vec3
}

// Min and Max are the box corners.
func (b Box) Min() mgl64.Vec3 { return b.Center.Sub(b.HalfExtents) }
func (b Box) Max() mgl64.Vec3 { return b.Center.Add(b.HalfExtents) }

// ClosestPoint clamps p into the box per axis.
func (b Box) ClosestPoint(p mgl64.Vec3) mgl64.Vec3 {
	lo, hi := b.Min(), b.Max()
	return mgl64.Vec3{
		mgl64.Clamp(p[0], lo[0], hi[0]),
		mgl64.Clamp(p[1], lo[1], hi[1]),
		mgl64.Clamp(p[2], lo[2], hi[2]),
	}
}

// Distance from p to the box surface, zero when p is inside.
func (b Box) Distance(p mgl64.Vec3) float64 {
	return p.Sub(b.ClosestPoint(p)).Len()
}

// HorizontalDistance is the distance between a and b ignoring y.
func HorizontalDistance(a, b mgl64.Vec3) float64 {
	return math.Hypot(a[0]-b[0], a[2]-b[2])
}
