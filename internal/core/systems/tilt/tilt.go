// Package tilt turns held direction keys into a smoothed two-axis platform tilt.
//
// X is the slope toward +x and Z the slope toward +z: a positive X makes the
// marble accelerate toward +x.
package tilt

import (
	"math"

	"github.com/zeusync/tiltmaze/internal/core/systems/physics"
)

// Keys is the raw held state of the four direction keys.
type Keys struct {
	Up    bool `json:"up" msgpack:"up"`
	Down  bool `json:"down" msgpack:"down"`
	Left  bool `json:"left" msgpack:"left"`
	Right bool `json:"right" msgpack:"right"`
}

type Config struct {
	Speed     float64 `yaml:"speed" json:"speed"` // target change per tick while a key is held
	MaxAngle  float64 `yaml:"max_angle" json:"max_angle"`
	Smoothing float64 `yaml:"smoothing" json:"smoothing"` // fraction of the gap closed per tick
}

func DefaultConfig() Config {
	return Config{
		Speed:     0.02,
		MaxAngle:  math.Pi / 2,
		Smoothing: 0.1,
	}
}

type Controller struct {
	TargetX, TargetZ   float64
	CurrentX, CurrentZ float64

	speed     float64
	maxAngle  float64
	smoothing float64
}

func NewController(cfg Config) *Controller {
	d := DefaultConfig()
	if cfg.Speed <= 0 {
		cfg.Speed = d.Speed
	}
	if cfg.MaxAngle <= 0 {
		cfg.MaxAngle = d.MaxAngle
	}
	if cfg.Smoothing <= 0 || cfg.Smoothing > 1 {
		cfg.Smoothing = d.Smoothing
	}
	return &Controller{speed: cfg.Speed, maxAngle: cfg.MaxAngle, smoothing: cfg.Smoothing}
}

func (c *Controller) MaxAngle() float64 { return c.maxAngle }

// Update moves targets for held keys and eases current angles toward them.
func (c *Controller) Update(keys Keys) {
	if keys.Up {
		c.TargetZ = math.Max(c.TargetZ-c.speed, -c.maxAngle)
	}
	if keys.Down {
		c.TargetZ = math.Min(c.TargetZ+c.speed, c.maxAngle)
	}
	if keys.Left {
		c.TargetX = math.Max(c.TargetX-c.speed, -c.maxAngle)
	}
	if keys.Right {
		c.TargetX = math.Min(c.TargetX+c.speed, c.maxAngle)
	}

	c.CurrentX += (c.TargetX - c.CurrentX) * c.smoothing
	c.CurrentZ += (c.TargetZ - c.CurrentZ) * c.smoothing
}

// Set forces both target and current angles, clamped to the max angle.
func (c *Controller) Set(x, z float64) {
	x = c.clamp(x)
	z = c.clamp(z)
	c.TargetX, c.CurrentX = x, x
	c.TargetZ, c.CurrentZ = z, z
}

func (c *Controller) Reset() {
	c.Set(0, 0)
}

// Orientation converts the current tilt into platform Euler angles.
// Sloping toward +z is a positive rotation about x; sloping toward +x is a
// negative rotation about z.
func (c *Controller) Orientation() physics.Orientation {
	return physics.Orientation{X: c.CurrentZ, Z: -c.CurrentX}
}

func (c *Controller) clamp(v float64) float64 {
	return math.Max(-c.maxAngle, math.Min(v, c.maxAngle))
}
