package level

import "github.com/go-gl/mathgl/mgl64"

const (
	wallHeight = 0.5
	wallHalfY  = wallHeight / 2
	floorY     = 0.05
	pickupY    = 0.3
	spikeY     = 0.1
)

func wall(x, z, hx, hz float64) Wall {
	return Wall{Center: mgl64.Vec3{x, wallHalfY, z}, HalfExtents: mgl64.Vec3{hx, wallHalfY, hz}}
}

func mover(x, z, hx, hz float64, axis string, amplitude, speed float64) Mover {
	return Mover{
		Center:      mgl64.Vec3{x, wallHalfY, z},
		HalfExtents: mgl64.Vec3{hx, wallHalfY, hz},
		Axis:        axis,
		Range:       amplitude,
		Speed:       speed,
	}
}

func coin(x, z float64) Coin { return Coin{Position: mgl64.Vec3{x, pickupY, z}} }
func spike(x, z float64) Hazard { return Hazard{Position: mgl64.Vec3{x, spikeY, z}} }
func goalAt(x, z float64) Goal { return Goal{Position: mgl64.Vec3{x, floorY, z}} }
func spawnAt(x, z float64) mgl64.Vec3 { return mgl64.Vec3{x, 0, z} }

// Builtin returns the bundled levels. The first one is the classic maze.
func Builtin() []Definition {
	return []Definition{
		{
			Name:         "First Roll",
			PlatformSize: 10,
			TimeLimit:    60,
			Spawn:        spawnAt(-3.5, -3.5),
			Goal:         goalAt(3.5, 3.5),
			Walls: []Wall{
				wall(-2, -2, 0.15, 2),
				wall(2, 2, 0.15, 2),
				wall(0, 0, 0.15, 1.5),
				wall(-3, 1, 1.5, 0.15),
				wall(1, -3, 2, 0.15),
			},
			Coins: []Coin{coin(-3.5, 0), coin(0, -4), coin(3.5, -1)},
		},
		{
			Name:         "Sliding Doors",
			PlatformSize: 12,
			TimeLimit:    75,
			Spawn:        spawnAt(-5, -5),
			Goal:         goalAt(5, 5),
			Walls: []Wall{
				wall(-3, -2, 0.15, 3),
				wall(3, 2, 0.15, 3),
				wall(0, -4, 2, 0.15),
				wall(0, 4, 2, 0.15),
			},
			Movers: []Mover{
				mover(0, 0, 1, 0.15, "x", 2, 1.5),
				mover(-4.5, 2.5, 0.15, 1, "z", 1.5, 2),
			},
			Coins:   []Coin{coin(-5, 0), coin(0, -5), coin(0, 5), coin(4.5, -4.5)},
			Hazards: []Hazard{spike(1.5, -2), spike(-1.5, 2)},
		},
		{
			Name:         "Spike Run",
			PlatformSize: 14,
			TimeLimit:    90,
			Spawn:        spawnAt(-6, 0),
			Goal:         goalAt(6, 0),
			Walls: []Wall{
				wall(-4, -3.5, 0.15, 3),
				wall(-4, 3.5, 0.15, 3),
				wall(0, 0, 2, 0.15),
				wall(4, -3, 0.15, 3.5),
			},
			Movers: []Mover{
				mover(-2, 0, 0.15, 1, "z", 3, 1.2),
				mover(2, 3, 1, 0.15, "x", 1.5, 2.5),
				mover(5.5, 3, 0.5, 0.15, "z", 2, 1.8),
			},
			Coins: []Coin{coin(-6, -6), coin(-6, 6), coin(0, -1), coin(6, -6), coin(3, 5)},
			Hazards: []Hazard{
				spike(-2, -4),
				spike(-2, 4),
				spike(2, -2),
				spike(2, 1.2),
				spike(5, 1.5),
			},
		},
	}
}
