package pubsub

import (
	"log"
	"sync"
)

type eventChannel struct {
	C      chan *Event
	topics []Topic
}

// Bus is an in-process Publisher and Subscriber. Events are delivered to
// every subscription with a matching topic, in emit order.
type Bus struct {
	id       string
	channels []eventChannel
	lock     sync.Mutex
	closed   bool
}

func NewBus(id string) *Bus {
	return &Bus{id: id}
}

func (self *Bus) ID() string {
	return "bus: " + self.id
}

// Emit drops the event for a subscriber whose buffer is full.
func (self *Bus) Emit(ev *Event) {
	self.lock.Lock()
	defer self.lock.Unlock()
	if self.closed {
		return
	}
	for _, ch := range self.channels {
		for _, t := range ch.topics {
			if t.Match(ev.Topic) {
				select {
				case ch.C <- ev:
				default:
					log.Printf("%s: subscriber full, dropped %s", self.ID(), ev.Topic)
				}
				break
			}
		}
	}
}

func (self *Bus) Subscribe(topics ...Topic) <-chan *Event {
	ch := eventChannel{
		C:      make(chan *Event, 64),
		topics: topics,
	}
	self.lock.Lock()
	if self.closed {
		close(ch.C)
	} else {
		self.channels = append(self.channels, ch)
	}
	self.lock.Unlock()
	return ch.C
}

func (self *Bus) Close(channel <-chan *Event) {
	self.lock.Lock()
	defer self.lock.Unlock()
	var channels []eventChannel
	for _, ch := range self.channels {
		if channel == (<-chan *Event)(ch.C) {
			close(ch.C)
		} else {
			channels = append(channels, ch)
		}
	}
	self.channels = channels
}

// Shutdown closes every subscription. Later emits are dropped.
func (self *Bus) Shutdown() {
	self.lock.Lock()
	defer self.lock.Unlock()
	for _, ch := range self.channels {
		close(ch.C)
	}
	self.channels = nil
	self.closed = true
}
