package pubsub

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBusDelivers(t *testing.T) {
	bus := NewBus("test")
	keys := bus.Subscribe(Exact(KeyboardInput))
	all := bus.Subscribe(All())

	bus.Emit(NewKeyEvent("c", "test"))
	bus.Emit(NewEvent(Playback, nil))

	ev := <-keys
	assert.Equal(t, "c", ev.Key())
	assert.Len(t, keys, 0)
	assert.Equal(t, KeyboardInput, (<-all).Topic)
	assert.Equal(t, Playback, (<-all).Topic)
}

func TestBusClose(t *testing.T) {
	bus := NewBus("test")
	ch := bus.Subscribe(All())
	bus.Close(ch)
	_, ok := <-ch
	assert.False(t, ok)
	bus.Emit(NewEvent("x", nil))
}

func TestBusShutdown(t *testing.T) {
	bus := NewBus("test")
	ch := bus.Subscribe(Prefix("keyboard_input"))
	bus.Shutdown()
	_, ok := <-ch
	assert.False(t, ok)
	bus.Emit(NewKeyEvent("c", "test"))
	_, ok = <-bus.Subscribe(All())
	assert.False(t, ok)
}

func TestPrefix(t *testing.T) {
	p := Prefix("cast")
	assert.True(t, p.Match("cast"))
	assert.True(t, p.Match("cast/sala"))
	assert.False(t, p.Match("castle"))
}

func TestParseTopic(t *testing.T) {
	assert.Equal(t, All(), ParseTopic("#"))
	assert.Equal(t, Prefix("media"), ParseTopic("media/#"))
	assert.Equal(t, Exact(KeyboardInput), ParseTopic(KeyboardInput))
	assert.Equal(t, []Topic{All()}, ParseTopics(nil))
	assert.Len(t, ParseTopics([]string{"a", "b/#"}), 2)
}
