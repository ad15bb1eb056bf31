package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeusync/tiltmaze/internal/core/events/bus"
)

func TestEventsRouteByKind(t *testing.T) {
	b := bus.New()

	var coins []CoinCollected
	_, err := b.Subscribe(KindCoinCollected, func(e bus.Event) error {
		coins = append(coins, e.Data().(CoinCollected))
		return nil
	})
	require.NoError(t, err)

	require.NoError(t, b.Publish(New(KindHazardHit, 1, HazardHit{Index: 0})))
	require.NoError(t, b.Publish(New(KindCoinCollected, 2, CoinCollected{Index: 3, Value: 100, Score: 100, Coins: 1})))

	require.Len(t, coins, 1)
	assert.Equal(t, 3, coins[0].Index)
}

func TestEventMetadata(t *testing.T) {
	e := New(KindGameOver, 42, GameOver{Reason: ReasonTimeout})

	assert.Equal(t, KindGameOver, e.Type())
	assert.Equal(t, Source, e.Source())
	assert.Equal(t, uint64(42), e.Tick)
	assert.False(t, e.Timestamp().IsZero())
}
