package game

import (
	"github.com/zeusync/tiltmaze/internal/core/systems/physics"
	"github.com/zeusync/tiltmaze/internal/core/systems/tilt"
)

type Config struct {
	Physics          physics.Params
	Tilt             tilt.Config
	MarbleRadius     float64
	HazardCooldown   float64 // seconds hazards stay disarmed after a respawn
	CoinPickupFactor float64 // share of the coin radius that counts as touching
}

func DefaultConfig() Config {
	return Config{
		Physics:          physics.DefaultParams(),
		Tilt:             tilt.DefaultConfig(),
		MarbleRadius:     physics.DefaultMarbleRadius,
		HazardCooldown:   1.0,
		CoinPickupFactor: 0.8,
	}
}

func (c Config) sanitize() Config {
	d := DefaultConfig()
	c.Physics = c.Physics.Sanitize()
	if c.MarbleRadius <= 0 {
		c.MarbleRadius = d.MarbleRadius
	}
	if c.HazardCooldown < 0 {
		c.HazardCooldown = d.HazardCooldown
	}
	if c.CoinPickupFactor <= 0 {
		c.CoinPickupFactor = d.CoinPickupFactor
	}
	return c
}
