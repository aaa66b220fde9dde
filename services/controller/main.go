// Service that turns key presses into actions on the media player: youtube
// streams and local videos on the attached display, and the volume.
package controller

import (
	"context"
	"log"

	"github.com/pkg/errors"

	"github.com/rpimedia/rpimedia/config"
	"github.com/rpimedia/rpimedia/lib/command"
	"github.com/rpimedia/rpimedia/pubsub"
	"github.com/rpimedia/rpimedia/services"
)

// Service controller
type Service struct {
	conf   config.ControllerConf
	player *Player
	mixer  command.Runner
	// overridable for testing
	run ProcessRunner
}

// ID of the service
func (self *Service) ID() string {
	return "controller"
}

func (self *Service) Init() error {
	self.conf = services.Config.Controller
	if len(self.conf.YoutubeCmd) == 0 || len(self.conf.VideoCmd) == 0 || len(self.conf.MixerCmd) == 0 {
		return errors.New("player and mixer commands must be set")
	}
	for key, kc := range self.conf.Keys {
		switch kc.Action {
		case "volume_up", "volume_down", "pause", "print":
		case "youtube", "video":
			if kc.Target == "" {
				return errors.Errorf("key %s: %s needs a target", key, kc.Action)
			}
		default:
			return errors.Errorf("key %s: unknown action %s", key, kc.Action)
		}
	}
	self.player = NewPlayer(self.conf.MinDuration, self.conf.MaxAttempts, self.run)
	if self.mixer == nil {
		self.mixer = command.Default
	}
	return nil
}

// ignored topics are published on the bus for other listeners
// Run the service
func (self *Service) Run(ctx context.Context) error {
	events := services.Subscriber.Subscribe(pubsub.Exact(pubsub.KeyboardInput))
	defer self.player.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			self.handleEvent(ctx, ev)
		}
	}
}

func (self *Service) handleEvent(ctx context.Context, ev *pubsub.Event) {
	switch ev.Topic {
	case pubsub.KeyboardInput:
		self.handleKey(ctx, ev)
	default:
		log.Printf("Unknown event: %s %v", ev.Topic, ev.Fields)
	}
}

func (self *Service) handleKey(ctx context.Context, ev *pubsub.Event) {
	key := ev.Key()
	kc, ok := self.conf.Keys[key]
	if !ok {
		log.Printf("Keyboard input: %s", key)
		return
	}

	switch kc.Action {
	case "volume_up":
		self.volume(ctx, "+")
	case "volume_down":
		self.volume(ctx, "-")
	case "pause":
		log.Println("Pause")
	case "print":
		log.Println(kc.Target)
	case "youtube":
		if self.allowed(ev) {
			log.Printf("Playing youtube video %s", kc.Target)
			self.play(ctx, ev, kc, command.Argv(self.conf.YoutubeCmd, "https://www.youtube.com/watch?v="+kc.Target))
		}
	case "video":
		if self.allowed(ev) {
			log.Printf("Playing video %s", kc.Target)
			self.play(ctx, ev, kc, command.Argv(self.conf.VideoCmd, kc.Target))
		}
	}
}

// allowed checks the event's max_enqueued_videos against the player.
func (self *Service) allowed(ev *pubsub.Event) bool {
	max, ok := ev.IntField("max_enqueued_videos")
	if !ok {
		return true
	}
	enqueued := self.player.Enqueued()
	if int64(enqueued) > max {
		log.Printf("Skipping %s: %d video(s) enqueued, max %d", ev.Key(), enqueued, max)
		return false
	}
	return true
}

func (self *Service) play(ctx context.Context, ev *pubsub.Event, kc config.KeyConf, argv []string) {
	if !self.player.Play(ctx, argv) {
		return
	}
	fields := pubsub.Fields{
		"key":    ev.Key(),
		"action": kc.Action,
		"target": kc.Target,
	}
	services.Publisher.Emit(pubsub.NewEvent(pubsub.Playback, fields))
}

func (self *Service) volume(ctx context.Context, direction string) {
	step := self.conf.VolumeStep
	if direction == "+" {
		log.Printf("Volume up by %s", step)
	} else {
		log.Printf("Volume down by %s", step)
	}
	argv := command.Argv(self.conf.MixerCmd, step+direction)
	if err := self.mixer.Run(ctx, argv[0], argv[1:]...); err != nil {
		log.Printf("Failed to run command: %s", err)
	}
}
