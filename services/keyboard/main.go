// Service to publish key presses from a keyboard or remote attached as a
// Linux input device.
//
// With grab enabled the device is taken exclusively, so the console no
// longer receives its input.
package keyboard

import (
	"context"
	"io"
	"log"

	"github.com/rpimedia/rpimedia/lib/evdev"
	"github.com/rpimedia/rpimedia/pubsub"
	"github.com/rpimedia/rpimedia/services"
)

type keyReader interface {
	ReadKey() (string, error)
	Close() error
}

// Service keyboard
type Service struct {
	// overridable for testing
	open func(name string) (keyReader, error)
}

func (self *Service) ID() string {
	return "keyboard"
}

func openDevice(name string) (keyReader, error) {
	dev, err := evdev.Open(name)
	if err != nil {
		return nil, err
	}
	if services.Config.Keyboard.Grab {
		if err := dev.Grab(); err != nil {
			dev.Close()
			return nil, err
		}
	}
	return dev, nil
}

func (self *Service) Run(ctx context.Context) error {
	open := self.open
	if open == nil {
		open = openDevice
	}
	dev, err := open(services.Config.Keyboard.Device)
	if err != nil {
		return err
	}
	log.Println("Keyboard input handler started. Press keys to generate events (press 'q' to quit, ESC to exit).")

	go func() {
		<-ctx.Done()
		dev.Close()
	}()

	err = readKeys(ctx, dev)
	log.Println("Keyboard input handler stopped.")
	if ctx.Err() != nil || err == io.EOF {
		return nil
	}
	return err
}

func readKeys(ctx context.Context, dev keyReader) error {
	for {
		key, err := dev.ReadKey()
		if err != nil {
			return err
		}
		switch key {
		case "esc":
			services.RequestShutdown("ESC key pressed, shutting down")
			return nil
		case "q":
			services.RequestShutdown("Q key pressed, shutting down")
			return nil
		}
		services.Publisher.Emit(pubsub.NewKeyEvent(key, "keyboard"))
	}
}
