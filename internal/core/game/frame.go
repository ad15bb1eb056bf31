package game

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/zeusync/tiltmaze/internal/core/systems/physics"
)

// Frame is the per-tick snapshot handed to the presentation layer.
type Frame struct {
	Tick          uint64  `json:"tick" msgpack:"tick"`
	Level         int     `json:"level" msgpack:"level"`
	LevelName     string  `json:"level_name" msgpack:"level_name"`
	Fingerprint   string  `json:"fingerprint" msgpack:"fingerprint"`
	State         string  `json:"state" msgpack:"state"`
	TimeRemaining float64 `json:"time_remaining" msgpack:"time_remaining"`
	Timer         string  `json:"timer" msgpack:"timer"`
	Score         int     `json:"score" msgpack:"score"`
	Coins         int     `json:"coins" msgpack:"coins"`
	CoinsTotal    int     `json:"coins_total" msgpack:"coins_total"`

	Marble    MarbleFrame   `json:"marble" msgpack:"marble"`
	Platform  PlatformFrame `json:"platform" msgpack:"platform"`
	Obstacles []mgl64.Vec3  `json:"obstacles" msgpack:"obstacles"` // mover centers, in level order
	CoinTaken []bool        `json:"coin_taken" msgpack:"coin_taken"`
}

type MarbleFrame struct {
	Position    mgl64.Vec3 `json:"position" msgpack:"position"`
	Velocity    mgl64.Vec3 `json:"velocity" msgpack:"velocity"`
	Orientation [4]float64 `json:"orientation" msgpack:"orientation"` // quaternion x, y, z, w
	Radius      float64    `json:"radius" msgpack:"radius"`
}

type PlatformFrame struct {
	Size        float64             `json:"size" msgpack:"size"`
	Tilt        physics.Orientation `json:"tilt" msgpack:"tilt"`
	Orientation [4]float64          `json:"orientation" msgpack:"orientation"`
}

// Frame snapshots the current state without advancing it.
func (g *Game) Frame() Frame {
	orientation := g.tilt.Orientation()

	f := Frame{
		Tick:          g.tick,
		Level:         g.levelIndex,
		LevelName:     g.def.Name,
		Fingerprint:   g.fingerprint,
		State:         g.state.String(),
		TimeRemaining: g.timeRemaining,
		Timer:         FormatTimer(g.timeRemaining),
		Score:         g.score,
		Coins:         g.coinsCollected,
		CoinsTotal:    len(g.coins),
		Marble: MarbleFrame{
			Position:    g.marble.Position,
			Velocity:    g.marble.Velocity,
			Orientation: quatComponents(g.marble.Orientation),
			Radius:      g.marble.Radius,
		},
		Platform: PlatformFrame{
			Size:        g.def.PlatformSize,
			Tilt:        orientation,
			Orientation: quatComponents(orientation.Quat()),
		},
		Obstacles: make([]mgl64.Vec3, 0, len(g.field.Movers())),
		CoinTaken: make([]bool, len(g.coins)),
	}
	for _, b := range g.field.MoverBoxes() {
		f.Obstacles = append(f.Obstacles, b.Center)
	}
	for i, c := range g.coins {
		f.CoinTaken[i] = c.taken
	}
	return f
}

// FormatTimer renders seconds as MM:SS, rounding up partial seconds.
func FormatTimer(seconds float64) string {
	s := int(math.Ceil(math.Max(seconds, 0)))
	return fmt.Sprintf("%02d:%02d", s/60, s%60)
}

func quatComponents(q mgl64.Quat) [4]float64 {
	return [4]float64{q.V[0], q.V[1], q.V[2], q.W}
}
