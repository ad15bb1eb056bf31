package physics

// Params holds the tunables of the integrator and the collision resolver.
type Params struct {
	Gravity       float64 `yaml:"gravity" json:"gravity"`
	Friction      float64 `yaml:"friction" json:"friction"`             // velocity factor per reference tick
	ReferenceRate float64 `yaml:"reference_rate" json:"reference_rate"` // ticks per second Friction is expressed in
	Restitution   float64 `yaml:"restitution" json:"restitution"`

	MaxDelta        float64 `yaml:"max_delta" json:"max_delta"`
	MaxSubsteps     int     `yaml:"max_substeps" json:"max_substeps"`
	SubstepFraction float64 `yaml:"substep_fraction" json:"substep_fraction"` // of marble radius
	Iterations      int     `yaml:"iterations" json:"iterations"`

	CeilingHeight float64 `yaml:"ceiling_height" json:"ceiling_height"`
	Epsilon       float64 `yaml:"epsilon" json:"epsilon"`

	// Sliding contact damping. Heuristic, not load-bearing.
	SlideRatio   float64 `yaml:"slide_ratio" json:"slide_ratio"`
	SlideDamping float64 `yaml:"slide_damping" json:"slide_damping"`

	SpinThreshold float64 `yaml:"spin_threshold" json:"spin_threshold"`
}

const (
	DefaultMarbleRadius = 0.3

	minSubsteps = 1
	// degenerateDistance below which the closest point is treated as the center itself.
	degenerateDistance = 1e-6
)

func DefaultParams() Params {
	return Params{
		Gravity:         20.0,
		Friction:        0.96,
		ReferenceRate:   60,
		Restitution:     0.5,
		MaxDelta:        0.066,
		MaxSubsteps:     12,
		SubstepFraction: 0.5,
		Iterations:      2,
		CeilingHeight:   5.0,
		Epsilon:         0.01,
		SlideRatio:      0.5,
		SlideDamping:    0.8,
		SpinThreshold:   0.01,
	}
}

// Sanitize replaces unusable values with defaults.
func (p Params) Sanitize() Params {
	d := DefaultParams()
	if p.Gravity < 0 {
		p.Gravity = d.Gravity
	}
	if p.Friction <= 0 || p.Friction > 1 {
		p.Friction = d.Friction
	}
	if p.ReferenceRate <= 0 {
		p.ReferenceRate = d.ReferenceRate
	}
	if p.Restitution < 0 || p.Restitution > 1 {
		p.Restitution = d.Restitution
	}
	if p.MaxDelta <= 0 {
		p.MaxDelta = d.MaxDelta
	}
	if p.MaxSubsteps < minSubsteps {
		p.MaxSubsteps = d.MaxSubsteps
	}
	if p.SubstepFraction <= 0 {
		p.SubstepFraction = d.SubstepFraction
	}
	if p.Iterations < 1 {
		p.Iterations = d.Iterations
	}
	if p.CeilingHeight <= 0 {
		p.CeilingHeight = d.CeilingHeight
	}
	if p.Epsilon < 0 {
		p.Epsilon = d.Epsilon
	}
	if p.SlideRatio <= 0 {
		p.SlideRatio = d.SlideRatio
	}
	if p.SlideDamping <= 0 || p.SlideDamping > 1 {
		p.SlideDamping = d.SlideDamping
	}
	if p.SpinThreshold < 0 {
		p.SpinThreshold = d.SpinThreshold
	}
	return p
}
