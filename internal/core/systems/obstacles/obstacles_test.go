package obstacles

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeusync/tiltmaze/internal/core/systems/physics"
)

func TestParseAxis(t *testing.T) {
	for _, a := range []Axis{AxisX, AxisY, AxisZ} {
		got, err := ParseAxis(a.String())
		require.NoError(t, err)
		assert.Equal(t, a, got)
	}
	_, err := ParseAxis("w")
	assert.Error(t, err)
}

func TestMoverOscillatesAlongAxis(t *testing.T) {
	half := mgl64.Vec3{0.5, 0.25, 0.15}
	f := NewField(
		[]physics.Box{{Center: mgl64.Vec3{1, 0.25, 1}, HalfExtents: mgl64.Vec3{0.15, 0.25, 1}}},
		[]Mover{{Base: mgl64.Vec3{0, 0.25, 2}, HalfExtents: half, Axis: AxisX, Range: 2, Speed: math.Pi}},
	)
	require.Len(t, f.Boxes(), 2)
	require.Len(t, f.MoverBoxes(), 1)
	assert.Equal(t, 1, f.StaticCount())
	assert.Equal(t, mgl64.Vec3{0, 0.25, 2}, f.Boxes()[0].Center, "movers come first")

	// Half a second at pi rad/s puts the phase at pi/2: full amplitude.
	for i := 0; i < 30; i++ {
		f.Advance(1.0 / 60)
	}
	box := f.MoverBoxes()[0]
	assert.InDelta(t, 2, box.Center.X(), 1e-9)
	assert.Equal(t, 0.25, box.Center.Y())
	assert.Equal(t, 2.0, box.Center.Z())
	assert.Equal(t, half, box.HalfExtents)

	// statics never move
	assert.Equal(t, mgl64.Vec3{1, 0.25, 1}, f.Boxes()[1].Center)
}

func TestFieldResetAndIgnoredDelta(t *testing.T) {
	f := NewField(nil, []Mover{{Base: mgl64.Vec3{0, 0, 0}, HalfExtents: mgl64.Vec3{1, 1, 1}, Axis: AxisZ, Range: 1, Speed: 2}})

	f.Advance(-1)
	assert.Zero(t, f.Movers()[0].Phase)

	f.Advance(0.5)
	assert.InDelta(t, 1, f.Movers()[0].Phase, 1e-12)
	assert.InDelta(t, math.Sin(1), f.Boxes()[0].Center.Z(), 1e-12)

	f.Reset()
	assert.Zero(t, f.Movers()[0].Phase)
	assert.Equal(t, mgl64.Vec3{}, f.Boxes()[0].Center)
}

func TestNewFieldCopiesInput(t *testing.T) {
	movers := []Mover{{HalfExtents: mgl64.Vec3{1, 1, 1}, Speed: 1, Range: 1}}
	f := NewField(nil, movers)
	f.Advance(1)
	assert.Zero(t, movers[0].Phase)
}
