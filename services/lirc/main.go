// Service to publish button presses on an IR remote, received from lircd.
// Buttons are mapped to keyboard keys, so the remote drives the controller
// like the keyboard does.
package lirc

import (
	"context"
	"log"

	"github.com/chbmuc/lirc"

	"github.com/rpimedia/rpimedia/pubsub"
	"github.com/rpimedia/rpimedia/services"
)

// Service lirc
type Service struct {
	buttons map[string]string
}

func (self *Service) ID() string {
	return "lirc"
}

func (self *Service) Init() error {
	self.buttons = services.Config.Lirc.Buttons
	return nil
}

func (self *Service) Run(ctx context.Context) error {
	ir, err := lirc.Init(services.Config.Lirc.Socket)
	if err != nil {
		return err
	}
	ir.Handle("", "", self.handle)
	// The router has no way to stop reading; it ends with the process.
	go ir.Run()

	<-ctx.Done()
	return nil
}

func (self *Service) handle(ev lirc.Event) {
	if ev.Repeat > 0 {
		return
	}
	key, ok := self.buttons[ev.Button]
	if !ok {
		log.Printf("Unmapped button: %s %s", ev.Remote, ev.Button)
		return
	}
	services.Publisher.Emit(pubsub.NewKeyEvent(key, "lirc"))
}
