// Service to republish every event on the bus to an MQTT broker, so other
// home automation can follow what the media player is doing.
package mqtt

import (
	"context"
	"log"
	"sync/atomic"

	"github.com/pkg/errors"

	"github.com/rpimedia/rpimedia/pubsub"
	"github.com/rpimedia/rpimedia/pubsub/mqtt"
	"github.com/rpimedia/rpimedia/services"
)

// Service mqtt
type Service struct {
	Processed uint64
	topics    []pubsub.Topic
	// overridable for testing
	connect func(url string) (pubsub.Publisher, func(), error)
}

func (self *Service) ID() string {
	return "mqtt"
}

func (self *Service) Init() error {
	if services.Config.Endpoints.Mqtt.Broker == "" {
		return errors.New("endpoints.mqtt.broker is not configured")
	}
	self.topics = pubsub.ParseTopics(services.Config.Endpoints.Mqtt.Topics)
	return nil
}

func connectBroker(url string) (pubsub.Publisher, func(), error) {
	broker, err := mqtt.NewBroker(url, "bridge")
	if err != nil {
		return nil, nil, err
	}
	return broker.Publisher(), broker.Close, nil
}

func (self *Service) Run(ctx context.Context) error {
	connect := self.connect
	if connect == nil {
		connect = connectBroker
	}
	pub, closer, err := connect(services.Config.Endpoints.Mqtt.Broker)
	if err != nil {
		return err
	}
	defer closer()
	log.Println("Publisher endpoint:", pub.ID())

	events := services.Subscriber.Subscribe(self.topics...)
	defer services.Subscriber.Close(events)
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			pub.Emit(ev)
			atomic.AddUint64(&self.Processed, 1)
		}
	}
}
