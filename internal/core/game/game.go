// Package game runs one tilt-maze play session: it owns the marble, the
// tilt controller, the obstacle field and the level state, and advances
// them one frame at a time. A Game is not safe for concurrent use.
package game

import (
	"fmt"

	"github.com/zeusync/tiltmaze/internal/core/events"
	"github.com/zeusync/tiltmaze/internal/core/events/bus"
	"github.com/zeusync/tiltmaze/internal/core/level"
	"github.com/zeusync/tiltmaze/internal/core/observability/log"
	"github.com/zeusync/tiltmaze/internal/core/systems/obstacles"
	"github.com/zeusync/tiltmaze/internal/core/systems/physics"
	"github.com/zeusync/tiltmaze/internal/core/systems/tilt"
)

type coinState struct {
	level.Coin
	taken bool
}

// Option configures a Game at construction.
type Option func(*Game)

// WithLogger sets the logger. Defaults to a nop logger.
func WithLogger(l log.Log) Option {
	return func(g *Game) {
		if l != nil {
			g.logger = l
		}
	}
}

// WithEventBus publishes game events on b. Without a bus events are dropped.
func WithEventBus(b bus.EventBus) Option {
	return func(g *Game) { g.bus = b }
}

// Game owns one play session: the state machine, the marble and the level it is on.
// It is not safe for concurrent use.
type Game struct {
	cfg     Config
	catalog *level.Catalog
	sim     *physics.Simulator
	tilt    *tilt.Controller
	bus     bus.EventBus
	logger  log.Log

	levelIndex  int
	def         level.Definition
	fingerprint string
	field       *obstacles.Field
	coins       []coinState

	marble         physics.Marble
	state          State
	timeRemaining  float64
	score          int
	coinsCollected int
	hazardCooldown float64
	tick           uint64
}

// New builds a game with the first level of catalog loaded.
func New(cfg Config, catalog *level.Catalog, opts ...Option) (*Game, error) {
	if catalog == nil || catalog.Len() == 0 {
		return nil, ErrNoCatalog
	}

	cfg = cfg.sanitize()
	g := &Game{
		cfg:     cfg,
		catalog: catalog,
		sim:     physics.NewSimulator(cfg.Physics),
		tilt:    tilt.NewController(cfg.Tilt),
		logger:  log.NewNop(),
	}
	for _, opt := range opts {
		opt(g)
	}
	g.logger = g.logger.With(log.String("component", "game"))

	g.LoadLevel(0)
	return g, nil
}

// State returns the current state.
func (g *Game) State() State { return g.state }

// Level returns the loaded definition and its catalog index.
func (g *Game) Level() (level.Definition, int) { return g.def, g.levelIndex }

func (g *Game) Marble() physics.Marble { return g.marble }

// TimeRemaining is the countdown in seconds, never below zero.
func (g *Game) TimeRemaining() float64 { return g.timeRemaining }

func (g *Game) Score() int { return g.score }

func (g *Game) CoinsCollected() int { return g.coinsCollected }

func (g *Game) Tilt() *tilt.Controller { return g.tilt }

func (g *Game) Ticks() uint64 { return g.tick }

// Handle applies a single player command.
func (g *Game) Handle(cmd Command) error {
	switch cmd.Kind {
	case CommandStart:
		g.Start()
	case CommandTogglePause:
		g.TogglePause()
	case CommandReset:
		g.Reset()
	case CommandLoadLevel:
		g.LoadLevel(cmd.Level)
	default:
		return fmt.Errorf("%w: %s", ErrUnknownCommand, cmd.Kind)
	}
	return nil
}

// Start leaves NotStarted. Any other state is left as is.
func (g *Game) Start() {
	if g.state == StateNotStarted {
		g.transition(StateRunning)
	}
}

// TogglePause flips Running and Paused. From NotStarted it starts the game.
func (g *Game) TogglePause() {
	switch g.state {
	case StateNotStarted, StatePaused:
		g.transition(StateRunning)
	case StateRunning:
		g.transition(StatePaused)
	}
}

// Reset restores the current level to its initial state.
func (g *Game) Reset() {
	g.tilt.Reset()
	g.field.Reset()
	g.respawn()
	for i := range g.coins {
		g.coins[i].taken = false
	}
	g.timeRemaining = g.def.TimeLimit
	g.score = 0
	g.coinsCollected = 0
	g.hazardCooldown = 0
	g.transition(StateNotStarted)
}

// LoadLevel replaces the level with the one at index, clamped to the catalog.
func (g *Game) LoadLevel(index int) {
	g.def, g.levelIndex = g.catalog.Get(index)
	g.fingerprint = fmt.Sprintf("%016x", g.def.Fingerprint())
	g.field = obstacles.NewField(g.def.Statics(), g.def.MoverSpecs())
	g.coins = make([]coinState, len(g.def.Coins))
	for i, c := range g.def.Coins {
		g.coins[i] = coinState{Coin: c}
	}
	g.Reset()

	g.logger.Info("level loaded",
		log.Int("index", g.levelIndex),
		log.String("name", g.def.Name),
		log.String("fingerprint", g.fingerprint),
	)
	g.publish(events.KindLevelLoaded, events.LevelLoaded{
		Index:       g.levelIndex,
		Name:        g.def.Name,
		Fingerprint: g.fingerprint,
		TimeLimit:   g.def.TimeLimit,
	})
}

// Tick advances one frame of dt seconds with the given held keys and
// returns the resulting snapshot. Tilt follows the keys in every state;
// the timer, physics and triggers only run while Running.
func (g *Game) Tick(dt float64, keys tilt.Keys) Frame {
	g.tick++
	g.tilt.Update(keys)

	dt = g.sim.ClampDelta(dt)
	if g.state == StateRunning && dt > 0 {
		g.advance(dt)
	}
	return g.Frame()
}

func (g *Game) advance(dt float64) {
	g.timeRemaining -= dt
	if g.timeRemaining <= 0 {
		g.timeRemaining = 0
		g.transition(StateLost)
		g.publish(events.KindGameOver, events.GameOver{Reason: events.ReasonTimeout, Score: g.score})
		return
	}

	g.sim.Step(&g.marble, g.scene(), dt, g.checkGoal)
	if g.state == StateWon {
		return
	}

	g.field.Advance(dt)
	g.collectCoins()
	g.checkHazards(dt)
}

func (g *Game) checkGoal(m *physics.Marble) bool {
	if physics.HorizontalDistance(m.Position, g.def.Goal.Position) >= g.def.Goal.Radius {
		return true
	}
	g.transition(StateWon)
	g.publish(events.KindGoalReached, events.GoalReached{
		TimeRemaining: g.timeRemaining,
		Score:         g.score,
		Coins:         g.coinsCollected,
	})
	return false
}

func (g *Game) collectCoins() {
	for i := range g.coins {
		c := &g.coins[i]
		if c.taken {
			continue
		}
		reach := g.marble.Radius + c.Radius*g.cfg.CoinPickupFactor
		if physics.HorizontalDistance(g.marble.Position, c.Position) >= reach {
			continue
		}

		c.taken = true
		g.score += c.Value
		g.coinsCollected++
		g.publish(events.KindCoinCollected, events.CoinCollected{
			Index:    i,
			Value:    c.Value,
			Score:    g.score,
			Coins:    g.coinsCollected,
			Position: c.Position,
		})
	}
}

func (g *Game) checkHazards(dt float64) {
	g.hazardCooldown = max(0, g.hazardCooldown-dt)
	if g.hazardCooldown > 0 {
		return
	}

	for i, h := range g.def.Hazards {
		if physics.HorizontalDistance(g.marble.Position, h.Position) >= g.marble.Radius+h.Radius {
			continue
		}

		hitAt := g.marble.Position
		g.respawn()
		g.hazardCooldown = g.cfg.HazardCooldown
		g.logger.Debug("hazard hit", log.Int("hazard", i))
		g.publish(events.KindHazardHit, events.HazardHit{
			Index:    i,
			Position: hitAt,
			Spawn:    g.marble.Position,
		})
		return
	}
}

// respawn puts a fresh marble at the spawn point and pushes it out of any
// obstacle currently covering it.
func (g *Game) respawn() {
	g.marble = physics.NewMarble(g.def.Spawn, g.cfg.MarbleRadius)
	g.sim.Settle(&g.marble, g.scene())
}

func (g *Game) scene() physics.Scene {
	return physics.Scene{
		Orientation:  g.tilt.Orientation(),
		Boxes:        g.field.Boxes(),
		PlatformSize: g.def.PlatformSize,
	}
}

func (g *Game) transition(to State) {
	from := g.state
	if from == to {
		return
	}
	g.state = to
	g.logger.Debug("state changed", log.String("from", from.String()), log.String("to", to.String()))
	g.publish(events.KindStateChanged, events.StateChanged{From: from.String(), To: to.String()})
}

func (g *Game) publish(kind string, payload any) {
	if g.bus == nil {
		return
	}
	if err := g.bus.Publish(events.New(kind, g.tick, payload)); err != nil {
		g.logger.Warn("event handler failed", log.String("kind", kind), log.Error(err))
	}
}

// Boxes returns the collision boxes as currently synced, movers first.
func (g *Game) Boxes() []physics.Box { return g.field.Boxes() }
