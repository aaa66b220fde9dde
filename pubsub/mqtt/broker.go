package mqtt

import (
	"fmt"
	"os"

	MQTT "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

type Broker struct {
	broker string
	client MQTT.Client
}

func clientID(name string) string {
	hostname, _ := os.Hostname()
	return fmt.Sprintf("rpimedia/%s-%s-%s", name, hostname, uuid.NewString()[:8])
}

// NewBroker connects to the mqtt server at url, eg: tcp://127.0.0.1:1883
func NewBroker(url string, name string) (*Broker, error) {
	opts := MQTT.NewClientOptions()
	opts.AddBroker(url)
	opts.SetClientID(clientID(name))
	opts.SetCleanSession(true)
	opts.SetAutoReconnect(true)

	client := MQTT.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, errors.Wrapf(token.Error(), "connecting to %s", url)
	}
	return &Broker{broker: url, client: client}, nil
}

func (self *Broker) ID() string {
	return "mqtt: " + self.broker
}

func (self *Broker) Publisher() *Publisher {
	return &Publisher{broker: self.broker, client: self.client}
}

func (self *Broker) Close() {
	self.client.Disconnect(250)
}
