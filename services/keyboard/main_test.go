package keyboard

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rpimedia/rpimedia/config"
	"github.com/rpimedia/rpimedia/pubsub/dummy"
	"github.com/rpimedia/rpimedia/services"
)

type fakeKeys struct {
	keys   []string
	closed bool
}

func (self *fakeKeys) ReadKey() (string, error) {
	if len(self.keys) == 0 {
		return "", io.EOF
	}
	key := self.keys[0]
	self.keys = self.keys[1:]
	return key, nil
}

func (self *fakeKeys) Close() error {
	self.closed = true
	return nil
}

func setup() *dummy.Publisher {
	services.Setup(config.ExampleConfig)
	pub := &dummy.Publisher{}
	services.Publisher = pub
	return pub
}

func TestReadKeys(t *testing.T) {
	pub := setup()
	dev := &fakeKeys{keys: []string{"c", "3", "q", "b"}}
	err := readKeys(context.Background(), dev)
	assert.NoError(t, err)
	assert.Equal(t, []string{"keyboard_input", "keyboard_input"}, pub.Topics())
	assert.Equal(t, "c", pub.Events[0].Key())
	assert.Equal(t, "keyboard", pub.Events[0].Source())
	assert.Equal(t, []string{"b"}, dev.keys, "stops reading after q")
}

func TestRunEOF(t *testing.T) {
	pub := setup()
	dev := &fakeKeys{keys: []string{"f"}}
	service := &Service{open: func(string) (keyReader, error) { return dev, nil }}
	assert.NoError(t, service.Run(context.Background()))
	assert.Len(t, pub.Events, 1)
}

func TestRunOpenError(t *testing.T) {
	setup()
	service := &Service{open: func(string) (keyReader, error) { return nil, errors.New("permission denied") }}
	assert.Error(t, service.Run(context.Background()))
}
