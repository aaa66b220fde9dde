package mqtt

import (
	"log"

	MQTT "github.com/eclipse/paho.mqtt.golang"

	"github.com/rpimedia/rpimedia/pubsub"
)

// Prefix of every published topic.
const Prefix = "rpimedia/"

// Publisher for mqtt
type Publisher struct {
	broker string
	client MQTT.Client
}

// ID of Publisher
func (pub *Publisher) ID() string {
	return "mqtt: " + pub.broker
}

// Emit an event
func (pub *Publisher) Emit(ev *pubsub.Event) {
	topic := Topic(ev)
	token := pub.client.Publish(topic, 1, false, ev.Bytes())
	if token.Wait() && token.Error() != nil {
		log.Println("Error publishing:", token.Error())
	}
}

// Topic is the mqtt topic an event is published under.
func Topic(ev *pubsub.Event) string {
	return Prefix + ev.Topic
}
