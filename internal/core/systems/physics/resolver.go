package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Contact records one resolved overlap.
type Contact struct {
	Box    int // index into the resolved slice, -1 for platform bounds
	Normal mgl64.Vec3
	Depth  float64
}

// Resolver removes marble interpenetration with boxes, platform edges, floor and ceiling.
// Overlapping boxes are resolved one at a time per iteration, not jointly.
type Resolver struct {
	params Params
}

// NewResolver sanitizes params before use.
func NewResolver(params Params) Resolver {
	return Resolver{params: params.Sanitize()}
}

// Resolve runs the configured number of iterations over boxes and the platform
// constraints, then damps velocity on axes where the correction swamped the
// attempted displacement.
func (r Resolver) Resolve(m *Marble, boxes []Box, platformSize float64, attempted mgl64.Vec3) []Contact {
	before := m.Position
	var contacts []Contact

	for iter := 0; iter < r.params.Iterations; iter++ {
		for i, b := range boxes {
			if c, ok := r.ResolveBox(m, b); ok {
				c.Box = i
				contacts = append(contacts, c)
			}
		}
		contacts = append(contacts, r.Bounds(m, platformSize)...)
		r.FloorCeiling(m)
	}

	r.dampSliding(m, m.Position.Sub(before), attempted)
	return contacts
}

// ResolveBox pushes the marble out of a single box and reflects inbound velocity.
func (r Resolver) ResolveBox(m *Marble, b Box) (Contact, bool) {
	closest := b.ClosestPoint(m.Position)
	delta := m.Position.Sub(closest)
	dist := delta.Len()
	if dist >= m.Radius {
		return Contact{}, false
	}

	var normal mgl64.Vec3
	var depth float64
	if dist < degenerateDistance {
		normal, depth = faceNormal(m.Position, b)
		depth += m.Radius
	} else {
		normal = delta.Mul(1 / dist)
		depth = m.Radius - dist
	}

	m.Position = m.Position.Add(normal.Mul(depth + r.params.Epsilon))
	r.reflect(m, normal)

	return Contact{Normal: normal, Depth: depth}, true
}

// faceNormal picks the horizontal face with the least penetration for a center inside b.
func faceNormal(p mgl64.Vec3, b Box) (mgl64.Vec3, float64) {
	axis := 0
	best := math.Inf(1)
	for _, i := range [...]int{0, 2} {
		pen := b.HalfExtents[i] - math.Abs(p[i]-b.Center[i])
		if pen < best {
			best = pen
			axis = i
		}
	}

	var n mgl64.Vec3
	if p[axis] >= b.Center[axis] {
		n[axis] = 1
	} else {
		n[axis] = -1
	}
	return n, math.Max(best, 0)
}

func (r Resolver) reflect(m *Marble, normal mgl64.Vec3) {
	vn := m.Velocity.Dot(normal)
	if vn < 0 {
		m.Velocity = m.Velocity.Sub(normal.Mul(vn * (1 + r.params.Restitution)))
	}
}

// Bounds keeps the marble inside the platform's outer edge.
func (r Resolver) Bounds(m *Marble, platformSize float64) []Contact {
	if platformSize <= 0 {
		return nil
	}
	half := platformSize/2 - m.Radius
	var contacts []Contact
	for _, i := range [...]int{0, 2} {
		if math.Abs(m.Position[i]) <= half {
			continue
		}
		side := math.Copysign(1, m.Position[i])
		depth := math.Abs(m.Position[i]) - half
		m.Position[i] = side * half
		if m.Velocity[i]*side > 0 {
			m.Velocity[i] *= -r.params.Restitution
		}
		var n mgl64.Vec3
		n[i] = -side
		contacts = append(contacts, Contact{Box: -1, Normal: n, Depth: depth})
	}
	return contacts
}

// FloorCeiling clamps y into [radius, CeilingHeight].
func (r Resolver) FloorCeiling(m *Marble) {
	if m.Position[1] > r.params.CeilingHeight {
		m.Position[1] = r.params.CeilingHeight
		m.Velocity[1] = 0
	}
	if m.Position[1] < m.Radius {
		m.Position[1] = m.Radius
		m.Velocity[1] = 0
	}
}

func (r Resolver) dampSliding(m *Marble, correction, attempted mgl64.Vec3) {
	for _, i := range [...]int{0, 2} {
		if correction[i] == 0 || attempted[i] == 0 {
			continue
		}
		if math.Abs(correction[i]) > r.params.SlideRatio*math.Abs(attempted[i]) {
			m.Velocity[i] *= r.params.SlideDamping
		}
	}
}
