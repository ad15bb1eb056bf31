// Package level describes the static content of a maze: platform, walls,
// movers, coins, hazards, goal, spawn and timer. All coordinates are
// platform-local.
package level

import (
	"errors"
	"fmt"
	"math"

	"github.com/cespare/xxhash/v2"
	"github.com/go-gl/mathgl/mgl64"
	"gopkg.in/yaml.v3"

	"github.com/zeusync/tiltmaze/internal/core/systems/obstacles"
	"github.com/zeusync/tiltmaze/internal/core/systems/physics"
)

const (
	DefaultTimeLimit    = 60.0
	DefaultGoalRadius   = 0.6
	DefaultCoinRadius   = 0.25
	DefaultCoinValue    = 100
	DefaultHazardRadius = 0.35
)

type Definition struct {
	Name         string     `yaml:"name" json:"name"`
	PlatformSize float64    `yaml:"platform_size" json:"platform_size"`
	TimeLimit    float64    `yaml:"time_limit" json:"time_limit"` // seconds
	Spawn        mgl64.Vec3 `yaml:"spawn" json:"spawn"`
	Goal         Goal       `yaml:"goal" json:"goal"`
	Walls        []Wall     `yaml:"walls,omitempty" json:"walls,omitempty"`
	Movers       []Mover    `yaml:"movers,omitempty" json:"movers,omitempty"`
	Coins        []Coin     `yaml:"coins,omitempty" json:"coins,omitempty"`
	Hazards      []Hazard   `yaml:"hazards,omitempty" json:"hazards,omitempty"`
}

type Goal struct {
	Position mgl64.Vec3 `yaml:"position" json:"position"`
	Radius   float64    `yaml:"radius,omitempty" json:"radius,omitempty"`
}

type Wall struct {
	Center      mgl64.Vec3 `yaml:"center" json:"center"`
	HalfExtents mgl64.Vec3 `yaml:"half_extents" json:"half_extents"`
}

type Mover struct {
	Center      mgl64.Vec3 `yaml:"center" json:"center"`
	HalfExtents mgl64.Vec3 `yaml:"half_extents" json:"half_extents"`
	Axis        string     `yaml:"axis" json:"axis"`
	Range       float64    `yaml:"range" json:"range"`
	Speed       float64    `yaml:"speed" json:"speed"`
}

type Coin struct {
	Position mgl64.Vec3 `yaml:"position" json:"position"`
	Radius   float64    `yaml:"radius,omitempty" json:"radius,omitempty"`
	Value    int        `yaml:"value,omitempty" json:"value,omitempty"`
}

type Hazard struct {
	Position mgl64.Vec3 `yaml:"position" json:"position"`
	Radius   float64    `yaml:"radius,omitempty" json:"radius,omitempty"`
}

// WithDefaults fills zero radii, values and timer.
func (d Definition) WithDefaults() Definition {
	if d.TimeLimit == 0 {
		d.TimeLimit = DefaultTimeLimit
	}
	if d.Goal.Radius == 0 {
		d.Goal.Radius = DefaultGoalRadius
	}

	coins := make([]Coin, len(d.Coins))
	for i, c := range d.Coins {
		if c.Radius == 0 {
			c.Radius = DefaultCoinRadius
		}
		if c.Value == 0 {
			c.Value = DefaultCoinValue
		}
		coins[i] = c
	}
	d.Coins = coins

	hazards := make([]Hazard, len(d.Hazards))
	for i, h := range d.Hazards {
		if h.Radius == 0 {
			h.Radius = DefaultHazardRadius
		}
		hazards[i] = h
	}
	d.Hazards = hazards
	return d
}

// Validate reports every problem found, each wrapping ErrInvalidLevel.
func (d Definition) Validate(marbleRadius float64) error {
	var errs []error
	fail := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: %s: %s", ErrInvalidLevel, d.Name, fmt.Sprintf(format, args...)))
	}

	if d.Name == "" {
		fail("missing name")
	}
	if !finite(d.PlatformSize) || !finite(d.TimeLimit) || !finiteVec(d.Spawn) ||
		!finiteVec(d.Goal.Position) || !finite(d.Goal.Radius) {
		fail("non-finite platform, timer, spawn or goal")
	}
	if d.PlatformSize <= 2*marbleRadius {
		fail("platform size %.3f too small", d.PlatformSize)
	}
	if d.TimeLimit <= 0 {
		fail("time limit %.3f must be positive", d.TimeLimit)
	}

	half := d.PlatformSize/2 - marbleRadius
	inside := func(p mgl64.Vec3) bool {
		return math.Abs(p[0]) <= half && math.Abs(p[2]) <= half
	}
	if !inside(d.Spawn) {
		fail("spawn %v outside platform", d.Spawn)
	}
	if !inside(d.Goal.Position) {
		fail("goal %v outside platform", d.Goal.Position)
	}
	if d.Goal.Radius <= 0 {
		fail("goal radius must be positive")
	}

	spawn := d.Spawn
	spawn[1] = marbleRadius
	for i, w := range d.Walls {
		if !finiteVec(w.Center) || !finiteVec(w.HalfExtents) {
			fail("wall %d: non-finite geometry", i)
			continue
		}
		if !positive(w.HalfExtents) {
			fail("wall %d: half extents %v must be positive", i, w.HalfExtents)
			continue
		}
		box := physics.Box{Center: w.Center, HalfExtents: w.HalfExtents}
		if box.Distance(spawn) < marbleRadius {
			fail("wall %d overlaps spawn", i)
		}
	}
	for i, m := range d.Movers {
		if !finiteVec(m.Center) || !finiteVec(m.HalfExtents) || !finite(m.Range) || !finite(m.Speed) {
			fail("mover %d: non-finite geometry or motion", i)
			continue
		}
		if !positive(m.HalfExtents) {
			fail("mover %d: half extents %v must be positive", i, m.HalfExtents)
		}
		if _, err := obstacles.ParseAxis(m.Axis); err != nil {
			fail("mover %d: %v", i, err)
		}
		if m.Range < 0 {
			fail("mover %d: negative range", i)
		}
	}
	for i, c := range d.Coins {
		if !finiteVec(c.Position) || !finite(c.Radius) {
			fail("coin %d: non-finite position or radius", i)
			continue
		}
		if c.Radius <= 0 {
			fail("coin %d: radius must be positive", i)
		}
		if c.Value < 0 {
			fail("coin %d: negative value", i)
		}
		if !inside(c.Position) {
			fail("coin %d outside platform", i)
		}
	}
	for i, h := range d.Hazards {
		if !finiteVec(h.Position) || !finite(h.Radius) {
			fail("hazard %d: non-finite position or radius", i)
			continue
		}
		if h.Radius <= 0 {
			fail("hazard %d: radius must be positive", i)
			continue
		}
		if physics.HorizontalDistance(h.Position, d.Spawn) < h.Radius+marbleRadius {
			fail("hazard %d covers spawn", i)
		}
	}

	return errors.Join(errs...)
}

func finite(x float64) bool { return !math.IsNaN(x) && !math.IsInf(x, 0) }

func finiteVec(v mgl64.Vec3) bool { return finite(v[0]) && finite(v[1]) && finite(v[2]) }

func positive(v mgl64.Vec3) bool {
	return v[0] > 0 && v[1] > 0 && v[2] > 0
}

// Statics returns the wall collision boxes.
func (d Definition) Statics() []physics.Box {
	boxes := make([]physics.Box, len(d.Walls))
	for i, w := range d.Walls {
		boxes[i] = physics.Box{Center: w.Center, HalfExtents: w.HalfExtents}
	}
	return boxes
}

// MoverSpecs converts movers for the obstacle field. Call after Validate.
func (d Definition) MoverSpecs() []obstacles.Mover {
	movers := make([]obstacles.Mover, 0, len(d.Movers))
	for _, m := range d.Movers {
		axis, _ := obstacles.ParseAxis(m.Axis)
		movers = append(movers, obstacles.Mover{
			Base:        m.Center,
			HalfExtents: m.HalfExtents,
			Axis:        axis,
			Range:       m.Range,
			Speed:       m.Speed,
		})
	}
	return movers
}

// TotalCoinValue is the highest score the level can yield.
func (d Definition) TotalCoinValue() int {
	total := 0
	for _, c := range d.Coins {
		total += c.Value
	}
	return total
}

// Fingerprint identifies the level content, independent of where it was loaded from.
func (d Definition) Fingerprint() uint64 {
	data, err := yaml.Marshal(d)
	if err != nil {
		return xxhash.Sum64String(d.Name)
	}
	return xxhash.Sum64(data)
}

// Summary is the public listing of a level.
type Summary struct {
	Index        int     `json:"index" msgpack:"index"`
	Name         string  `json:"name" msgpack:"name"`
	PlatformSize float64 `json:"platform_size" msgpack:"platform_size"`
	TimeLimit    float64 `json:"time_limit" msgpack:"time_limit"`
	Coins        int     `json:"coins" msgpack:"coins"`
	Fingerprint  string  `json:"fingerprint" msgpack:"fingerprint"`
}

func (d Definition) Summary(index int) Summary {
	return Summary{
		Index:        index,
		Name:         d.Name,
		PlatformSize: d.PlatformSize,
		TimeLimit:    d.TimeLimit,
		Coins:        len(d.Coins),
		Fingerprint:  fmt.Sprintf("%016x", d.Fingerprint()),
	}
}
