// Package events defines the notifications the game emits toward the presentation layer.
package events

import (
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/zeusync/tiltmaze/internal/core/events/bus"
)

const Source = "game"

const (
	KindCoinCollected = "coin.collected"
	KindHazardHit     = "hazard.hit"
	KindGoalReached   = "goal.reached"
	KindGameOver      = "game.over"
	KindStateChanged  = "state.changed"
	KindLevelLoaded   = "level.loaded"
)

var _ bus.Event = Event{}

// Event is one game notification. Tick is the simulation tick it happened on.
type Event struct {
	Kind    string    `json:"kind" msgpack:"kind"`
	Tick    uint64    `json:"tick" msgpack:"tick"`
	At      time.Time `json:"at" msgpack:"at"`
	Payload any       `json:"data,omitempty" msgpack:"data,omitempty"`
}

func New(kind string, tick uint64, payload any) Event {
	return Event{Kind: kind, Tick: tick, At: time.Now(), Payload: payload}
}

func (e Event) Type() string         { return e.Kind }
func (e Event) Source() string       { return Source }
func (e Event) Timestamp() time.Time { return e.At }
func (e Event) Data() any            { return e.Payload }

type CoinCollected struct {
	Index    int        `json:"index" msgpack:"index"`
	Value    int        `json:"value" msgpack:"value"`
	Score    int        `json:"score" msgpack:"score"`
	Coins    int        `json:"coins" msgpack:"coins"`
	Position mgl64.Vec3 `json:"position" msgpack:"position"`
}

type HazardHit struct {
	Index    int        `json:"index" msgpack:"index"`
	Position mgl64.Vec3 `json:"position" msgpack:"position"` // where the marble was
	Spawn    mgl64.Vec3 `json:"spawn" msgpack:"spawn"`
}

type GoalReached struct {
	TimeRemaining float64 `json:"time_remaining" msgpack:"time_remaining"`
	Score         int     `json:"score" msgpack:"score"`
	Coins         int     `json:"coins" msgpack:"coins"`
}

const ReasonTimeout = "timeout"

type GameOver struct {
	Reason string `json:"reason" msgpack:"reason"`
	Score  int    `json:"score" msgpack:"score"`
}

type StateChanged struct {
	From string `json:"from" msgpack:"from"`
	To   string `json:"to" msgpack:"to"`
}

type LevelLoaded struct {
	Index       int     `json:"index" msgpack:"index"`
	Name        string  `json:"name" msgpack:"name"`
	Fingerprint string  `json:"fingerprint" msgpack:"fingerprint"`
	TimeLimit   float64 `json:"time_limit" msgpack:"time_limit"`
}
