package pawmart

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventBus_PublishSubscribe(t *testing.T) {
	bus := NewEventBus()

	ch, cancel := bus.Subscribe(EventAddressSelectedAdoption)
	defer cancel()

	address := &Address{ID: "addr-1", Street: "12 Nguyen Hue"}
	bus.Publish(EventAddressSelectedAdoption, address)

	got := <-ch
	assert.Same(t, address, got)
}

func TestEventBus_MultipleSubscribers(t *testing.T) {
	bus := NewEventBus()

	first, cancelFirst := bus.Subscribe("topic")
	defer cancelFirst()
	second, cancelSecond := bus.Subscribe("topic")
	defer cancelSecond()

	bus.Publish("topic", "payload")

	assert.Equal(t, "payload", <-first)
	assert.Equal(t, "payload", <-second)
}

func TestEventBus_CancelStopsDelivery(t *testing.T) {
	bus := NewEventBus()

	ch, cancel := bus.Subscribe("topic")
	cancel()

	bus.Publish("topic", "payload")

	// The channel is closed and received nothing
	v, ok := <-ch
	assert.False(t, ok)
	assert.Nil(t, v)
}

func TestEventBus_SlowSubscriberIsSkipped(t *testing.T) {
	bus := NewEventBus()

	ch, cancel := bus.Subscribe("topic")
	defer cancel()

	// Overfill the buffer; publishes beyond it are dropped, not blocking
	for i := 0; i < 20; i++ {
		bus.Publish("topic", i)
	}

	require.Len(t, ch, 8)
	assert.Equal(t, 0, <-ch)
}
