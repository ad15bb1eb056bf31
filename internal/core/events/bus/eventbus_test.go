package bus

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testObserver struct {
	publishCount   int
	deliveredCount int
	lastErr        error
}

func (o *testObserver) OnPublish(_ string, _ Event) {
	o.publishCount++
}

func (o *testObserver) OnDelivered(_ string, handlers int, err error, _ int64) {
	o.deliveredCount += handlers
	o.lastErr = err
}

func TestBasicPublishSubscribe(t *testing.T) {
	b := New()
	var got any
	_, err := b.Subscribe("test.event", func(e Event) error {
		got = e.Data()
		return nil
	})
	require.NoError(t, err)

	require.NoError(t, b.Publish(NewEvent("test.event", "tester", 123)))
	assert.Equal(t, 123, got)

	require.NoError(t, b.Publish(NewEvent("other.event", "tester", 456)))
	assert.Equal(t, 123, got)
}

func TestDeliveryFollowsSubscriptionOrder(t *testing.T) {
	b := New()
	var order []string
	_, _ = b.Subscribe("ev", func(Event) error { order = append(order, "typed-1"); return nil })
	_, _ = b.SubscribeAll(func(Event) error { order = append(order, "all"); return nil })
	_, _ = b.Subscribe("ev", func(Event) error { order = append(order, "typed-2"); return nil })

	require.NoError(t, b.Publish(NewEvent("ev", "src", nil)))
	assert.Equal(t, []string{"typed-1", "all", "typed-2"}, order)
}

func TestHandlerErrorsAreJoined(t *testing.T) {
	b := New()
	errA := errors.New("a")
	errB := errors.New("b")
	_, _ = b.Subscribe("x", func(Event) error { return errA })
	_, _ = b.Subscribe("x", func(Event) error { return errB })

	err := b.Publish(NewEvent("x", "src", nil))
	assert.ErrorIs(t, err, errA)
	assert.ErrorIs(t, err, errB)

	err = b.PublishBatch(NewEvent("x", "src", nil), NewEvent("y", "src", nil))
	assert.ErrorIs(t, err, errA)
}

func TestCancelStopsDelivery(t *testing.T) {
	b := New()
	count := 0
	sub, err := b.Subscribe("e", func(Event) error { count++; return nil })
	require.NoError(t, err)
	assert.NotEmpty(t, sub.ID())
	assert.Equal(t, "e", sub.EventType())

	_ = b.Publish(NewEvent("e", "s", nil))
	require.NoError(t, b.Unsubscribe(sub))
	require.NoError(t, sub.Cancel())
	_ = b.Publish(NewEvent("e", "s", nil))

	assert.Equal(t, 1, count)
	assert.False(t, sub.IsActive())
	assert.NoError(t, b.Unsubscribe(nil))
}

func TestHandlerMayCancelItself(t *testing.T) {
	b := New()
	count := 0
	var sub Subscription
	sub, _ = b.Subscribe("once", func(Event) error {
		count++
		return sub.Cancel()
	})

	_ = b.Publish(NewEvent("once", "s", nil))
	_ = b.Publish(NewEvent("once", "s", nil))
	assert.Equal(t, 1, count)
}

func TestFiltersDropEvents(t *testing.T) {
	b := New()
	obs := &testObserver{}
	b.AddObserver(obs)

	count := 0
	_, _ = b.Subscribe("f", func(Event) error { count++; return nil })
	reject := func(e Event) bool { return e.Source() != "blocked" }

	_ = b.PublishWithFilters(NewEvent("f", "blocked", nil), reject)
	_ = b.PublishWithFilters(NewEvent("f", "ok", nil), reject)

	assert.Equal(t, 1, count)
	assert.Equal(t, uint64(1), b.GetMetrics().DroppedByFilters)
}

func TestObserverMetricsOptional(t *testing.T) {
	b := New()
	_, _ = b.Subscribe("e", func(Event) error { return nil })
	_ = b.Publish(NewEvent("e", "s", nil))
	assert.Zero(t, b.GetMetrics().Published)

	obs := &testObserver{}
	b.AddObserver(obs)
	_ = b.Publish(NewEvent("e", "s", nil))
	m := b.GetMetrics()
	assert.Equal(t, uint64(1), m.Published)
	assert.Equal(t, uint64(1), m.DeliveredHandlers)
	assert.Equal(t, uint64(1), m.SubscribersActive)
	assert.Equal(t, 1, obs.publishCount)
	assert.Equal(t, 1, obs.deliveredCount)

	b.RemoveObserver(obs)
	_ = b.Publish(NewEvent("e", "s", nil))
	assert.Equal(t, 1, obs.publishCount)
}

func TestInvalidSubscriptions(t *testing.T) {
	b := New()
	_, err := b.Subscribe("", func(Event) error { return nil })
	assert.ErrorIs(t, err, ErrInvalidEventType)

	_, err = b.Subscribe("x", nil)
	assert.ErrorIs(t, err, ErrNilHandler)

	assert.ErrorIs(t, b.Publish(nil), ErrNilEvent)
}
