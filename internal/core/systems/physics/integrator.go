package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Integrator advances the marble under tilt-projected gravity with semi-implicit Euler.
type Integrator struct {
	params Params
}

// NewIntegrator sanitizes params before use.
func NewIntegrator(params Params) Integrator {
	return Integrator{params: params.Sanitize()}
}

func (in Integrator) Params() Params { return in.params }

// ClampDelta bounds a frame delta to (0, MaxDelta]. Non-finite or non-positive input yields 0.
func (in Integrator) ClampDelta(dt float64) float64 {
	if math.IsNaN(dt) || dt <= 0 {
		return 0
	}
	return math.Min(dt, in.params.MaxDelta)
}

// DrivingForce is the in-plane acceleration produced by the platform orientation.
func (in Integrator) DrivingForce(o Orientation) mgl64.Vec3 {
	g := o.LocalGravity()
	return mgl64.Vec3{g[0] * in.params.Gravity, 0, g[2] * in.params.Gravity}
}

// Substeps picks how many substeps dt is split into so that a single substep
// never moves the marble more than SubstepFraction of its radius.
func (in Integrator) Substeps(m Marble, dt float64) int {
	if dt <= 0 {
		return minSubsteps
	}
	reach := (m.Speed() + in.params.Gravity*dt) * dt
	limit := in.params.SubstepFraction * m.Radius
	if limit <= 0 {
		return in.params.MaxSubsteps
	}
	n := int(math.Ceil(reach / limit))
	if n < minSubsteps {
		return minSubsteps
	}
	if n > in.params.MaxSubsteps {
		return in.params.MaxSubsteps
	}
	return n
}

// Integrate runs one substep of length h and returns the attempted displacement.
func (in Integrator) Integrate(m *Marble, force mgl64.Vec3, h float64) mgl64.Vec3 {
	if h <= 0 {
		return mgl64.Vec3{}
	}
	m.Velocity = m.Velocity.Add(force.Mul(h))
	m.Velocity = m.Velocity.Mul(in.damping(h))
	m.Velocity[1] = 0

	step := m.Velocity.Mul(h)
	m.Position = m.Position.Add(step)
	m.Position[1] = m.Radius
	return step
}

// damping converts the per-reference-tick friction factor to a substep of length h.
func (in Integrator) damping(h float64) float64 {
	return math.Pow(in.params.Friction, h*in.params.ReferenceRate)
}

// Roll applies the rolling-without-slipping spin for a frame of length dt.
func (in Integrator) Roll(m *Marble, dt float64) {
	speed := m.Speed()
	if speed <= in.params.SpinThreshold || dt <= 0 {
		return
	}
	axis := mgl64.Vec3{-m.Velocity[2], 0, m.Velocity[0]}
	if axis.Len() == 0 {
		return
	}
	angle := speed * dt / m.Radius
	m.Orientation = mgl64.QuatRotate(angle, axis.Normalize()).Mul(m.Orientation).Normalize()
}
