package tilt

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHeldKeyMovesTargetByStep(t *testing.T) {
	c := NewController(DefaultConfig())

	c.Update(Keys{Right: true, Up: true})
	assert.InDelta(t, 0.02, c.TargetX, 1e-12)
	assert.InDelta(t, -0.02, c.TargetZ, 1e-12)
	assert.InDelta(t, 0.002, c.CurrentX, 1e-12)
	assert.InDelta(t, -0.002, c.CurrentZ, 1e-12)

	c.Update(Keys{Left: true, Down: true})
	assert.InDelta(t, 0, c.TargetX, 1e-12)
	assert.InDelta(t, 0, c.TargetZ, 1e-12)
}

func TestTargetClampedToMaxAngle(t *testing.T) {
	c := NewController(Config{Speed: 0.5, MaxAngle: 0.3, Smoothing: 0.1})

	for i := 0; i < 10; i++ {
		c.Update(Keys{Right: true, Down: true})
	}
	assert.Equal(t, 0.3, c.TargetX)
	assert.Equal(t, 0.3, c.TargetZ)

	for i := 0; i < 10; i++ {
		c.Update(Keys{Left: true, Up: true})
	}
	assert.Equal(t, -0.3, c.TargetX)
	assert.Equal(t, -0.3, c.TargetZ)
}

func TestCurrentEasesTowardTarget(t *testing.T) {
	c := NewController(DefaultConfig())
	c.TargetX = 1

	prev := 0.0
	for i := 0; i < 100; i++ {
		c.Update(Keys{})
		assert.Greater(t, c.CurrentX, prev)
		assert.LessOrEqual(t, c.CurrentX, 1.0)
		prev = c.CurrentX
	}
	// 1 - 0.9^100
	assert.InDelta(t, 1-math.Pow(0.9, 100), c.CurrentX, 1e-9)
}

func TestSetAndReset(t *testing.T) {
	c := NewController(DefaultConfig())
	c.Set(0.3, 5)

	assert.Equal(t, 0.3, c.CurrentX)
	assert.Equal(t, math.Pi/2, c.CurrentZ)

	o := c.Orientation()
	assert.Equal(t, math.Pi/2, o.X)
	assert.Equal(t, -0.3, o.Z)

	c.Update(Keys{})
	assert.Equal(t, 0.3, c.CurrentX)

	c.Reset()
	assert.Zero(t, c.TargetX)
	assert.Zero(t, c.CurrentZ)
}

func TestInvalidConfigFallsBack(t *testing.T) {
	c := NewController(Config{})
	assert.Equal(t, math.Pi/2, c.MaxAngle())
}
