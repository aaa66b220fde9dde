// Package cast service to follow what the Google Chromecast is showing.
//
// The device is polled for media info, and a "media" event is published
// whenever it changes, alongside "cast" events when apps start or stop.
// With the mqtt service running, other home automation can react to them.
package cast

import (
	"context"
	"log"
	"time"

	"github.com/rpimedia/rpimedia/lib/cast"
	"github.com/rpimedia/rpimedia/pubsub"
	"github.com/rpimedia/rpimedia/services"
)

// Topic of media info changes.
const Topic = "media"

// Service cast
type Service struct {
	finder   cast.Finder
	interval time.Duration
	retry    time.Duration
	last     string
}

// ID of the service
func (self *Service) ID() string {
	return "cast"
}

func (self *Service) Init() error {
	if self.finder == nil {
		self.finder = services.Finder()
	}
	self.interval = services.Config.Cast.PollInterval
	if self.retry == 0 {
		self.retry = 30 * time.Second
	}
	return nil
}

func (self *Service) Run(ctx context.Context) error {
	for {
		device, err := self.finder.Find(ctx)
		if err != nil {
			log.Printf("Failed to find chromecast: %s", err)
		} else {
			err = self.watch(ctx, device)
			device.Close()
			if err != nil && ctx.Err() == nil {
				log.Printf("Lost chromecast, reconnecting: %s", err)
			}
		}

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(self.retry):
		}
	}
}

func (self *Service) watch(ctx context.Context, device cast.Device) error {
	ticker := time.NewTicker(self.interval)
	defer ticker.Stop()
	for {
		info, err := device.MediaInfo(ctx)
		if err != nil {
			return err
		}
		self.update(device.Name(), info)

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func (self *Service) update(name string, info *cast.MediaInfo) {
	text := info.Text()
	if text == self.last {
		return
	}
	self.last = text
	fields := pubsub.Fields(info.Fields())
	fields["source"] = name
	services.Publisher.Emit(pubsub.NewEvent(Topic, fields))
}
