package physics

import "github.com/go-gl/mathgl/mgl64"

// Scene is what the simulator collides against during one frame.
type Scene struct {
	Orientation  Orientation
	Boxes        []Box
	PlatformSize float64
}

// StepResult summarizes one frame.
type StepResult struct {
	Delta    float64 // clamped frame delta
	Substeps int     // substeps actually run
	Contacts int
	Stopped  bool // afterSubstep asked to stop early
}

// SubstepFunc runs after every substep; returning false stops the frame.
type SubstepFunc func(m *Marble) bool

// Simulator couples an Integrator and a Resolver built from the same params.
type Simulator struct {
	integrator Integrator
	resolver   Resolver
}

func NewSimulator(params Params) *Simulator {
	params = params.Sanitize()
	return &Simulator{
		integrator: NewIntegrator(params),
		resolver:   NewResolver(params),
	}
}

// Params returns the sanitized params in effect.
func (s *Simulator) Params() Params { return s.integrator.Params() }

func (s *Simulator) ClampDelta(dt float64) float64 { return s.integrator.ClampDelta(dt) }

// Step advances m by dt: per substep integrate, resolve, then afterSubstep.
func (s *Simulator) Step(m *Marble, scene Scene, dt float64, afterSubstep SubstepFunc) StepResult {
	dt = s.integrator.ClampDelta(dt)
	res := StepResult{Delta: dt}
	if dt == 0 {
		return res
	}

	force := s.integrator.DrivingForce(scene.Orientation)
	n := s.integrator.Substeps(*m, dt)
	h := dt / float64(n)

	var rolled float64
	for i := 0; i < n; i++ {
		attempted := s.integrator.Integrate(m, force, h)
		res.Contacts += len(s.resolver.Resolve(m, scene.Boxes, scene.PlatformSize, attempted))
		res.Substeps++
		rolled += h

		if afterSubstep != nil && !afterSubstep(m) {
			res.Stopped = true
			break
		}
	}

	s.integrator.Roll(m, rolled)
	return res
}

// Settle resolves overlaps without integrating, e.g. after a teleport.
func (s *Simulator) Settle(m *Marble, scene Scene) int {
	return len(s.resolver.Resolve(m, scene.Boxes, scene.PlatformSize, mgl64.Vec3{}))
}
