package obstacles

import (
	"fmt"
	"math"
	"strings"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/zeusync/tiltmaze/internal/core/systems/physics"
)

// Axis selects the single axis a mover oscillates along.
type Axis uint8

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

func (a Axis) String() string {
	switch a {
	case AxisX:
		return "x"
	case AxisY:
		return "y"
	case AxisZ:
		return "z"
	default:
		return fmt.Sprintf("axis(%d)", uint8(a))
	}
}

func ParseAxis(s string) (Axis, error) {
	switch strings.ToLower(s) {
	case "x":
		return AxisX, nil
	case "y":
		return AxisY, nil
	case "z":
		return AxisZ, nil
	default:
		return AxisX, fmt.Errorf("unknown axis %q", s)
	}
}

func (a Axis) index() int { return int(a) }

// Mover is a box oscillating sinusoidally around Base.
type Mover struct {
	Base        mgl64.Vec3
	HalfExtents mgl64.Vec3
	Axis        Axis
	Range       float64 // amplitude
	Speed       float64 // phase advance per second
	Phase       float64
}

// Center is the current center at Phase.
func (m *Mover) Center() mgl64.Vec3 {
	c := m.Base
	c[m.Axis.index()] += math.Sin(m.Phase) * m.Range
	return c
}

// Field owns static walls and moving obstacles plus the collision boxes handed
// to the resolver. Mover boxes come first and statics last, so a marble
// squeezed between a mover and a wall ends each resolver pass outside the wall.
type Field struct {
	statics []physics.Box
	movers  []Mover
	boxes   []physics.Box
}

func NewField(statics []physics.Box, movers []Mover) *Field {
	f := &Field{
		statics: append([]physics.Box(nil), statics...),
		movers:  append([]Mover(nil), movers...),
	}
	f.boxes = make([]physics.Box, len(f.movers)+len(f.statics))
	copy(f.boxes[len(f.movers):], f.statics)
	f.sync()
	return f
}

// Advance moves every mover by dt and syncs its collision box.
func (f *Field) Advance(dt float64) {
	if dt <= 0 {
		return
	}
	for i := range f.movers {
		f.movers[i].Phase += dt * f.movers[i].Speed
	}
	f.sync()
}

// Reset returns every mover to phase zero.
func (f *Field) Reset() {
	for i := range f.movers {
		f.movers[i].Phase = 0
	}
	f.sync()
}

// Boxes returns the collision boxes. The slice is reused across calls.
func (f *Field) Boxes() []physics.Box { return f.boxes }

// Movers returns the moving obstacles; mover i owns Boxes()[i].
func (f *Field) Movers() []Mover { return f.movers }

// MoverBoxes is the mover prefix of Boxes.
func (f *Field) MoverBoxes() []physics.Box { return f.boxes[:len(f.movers)] }

func (f *Field) StaticCount() int { return len(f.statics) }

func (f *Field) sync() {
	for i := range f.movers {
		f.boxes[i] = physics.Box{
			Center:      f.movers[i].Center(),
			HalfExtents: f.movers[i].HalfExtents,
		}
	}
}
