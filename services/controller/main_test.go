package controller

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rpimedia/rpimedia/config"
	"github.com/rpimedia/rpimedia/lib/command"
	"github.com/rpimedia/rpimedia/pubsub"
	"github.com/rpimedia/rpimedia/pubsub/dummy"
	"github.com/rpimedia/rpimedia/services"
)

var _ services.ServiceInit = (*Service)(nil)

func newService(t *testing.T) (*Service, *fakeProcesses, *command.Recorder, *dummy.Publisher) {
	services.Setup(config.ExampleConfig)
	pub := &dummy.Publisher{}
	services.Publisher = pub
	procs := &fakeProcesses{}
	mixer := &command.Recorder{}
	service := &Service{run: procs.run, mixer: mixer}
	require.NoError(t, service.Init())
	return service, procs, mixer, pub
}

func TestVolume(t *testing.T) {
	service, _, mixer, _ := newService(t)
	service.handleEvent(context.Background(), pubsub.NewKeyEvent("3", "test"))
	assert.Equal(t, []string{"amixer --quiet -M set Master 10%+"}, mixer.Lines())
}

func TestPlayYoutube(t *testing.T) {
	service, procs, _, pub := newService(t)
	ctx := context.Background()
	service.handleEvent(ctx, pubsub.NewKeyEvent("c", "test"))
	defer service.player.Stop()

	assert.Eventually(t, func() bool { return procs.count() == 1 }, time.Second, time.Millisecond)
	assert.Equal(t, []string{"mpv", "--really-quiet", "--ytdl-format=94,18", "https://www.youtube.com/watch?v=ha-Ag0lQmN0"}, procs.started[0])
	assert.Equal(t, []string{pubsub.Playback}, pub.Topics())
	assert.Equal(t, "ha-Ag0lQmN0", pub.Events[0].StringField("target"))

	// repeated key press leaves the stream alone
	service.handleEvent(ctx, pubsub.NewKeyEvent("c", "test"))
	assert.Len(t, pub.Events, 1)
}

func TestMaxEnqueuedVideos(t *testing.T) {
	service, procs, _, _ := newService(t)
	ctx := context.Background()
	defer service.player.Stop()

	ev := pubsub.NewKeyEvent("b", "ipc")
	ev.SetField("max_enqueued_videos", float64(0))
	service.handleEvent(ctx, ev)
	assert.Eventually(t, func() bool { return procs.count() == 1 }, time.Second, time.Millisecond)

	// nothing waits behind the playing video, so a limit of 0 still replaces it
	ev = pubsub.NewKeyEvent("c", "ipc")
	ev.SetField("max_enqueued_videos", float64(0))
	service.handleEvent(ctx, ev)
	assert.Eventually(t, func() bool { return procs.count() == 2 }, time.Second, time.Millisecond)
	assert.Contains(t, service.player.Current(), "https://www.youtube.com/watch?v=ha-Ag0lQmN0")

	// a negative limit is never satisfied
	ev = pubsub.NewKeyEvent("b", "ipc")
	ev.SetField("max_enqueued_videos", float64(-1))
	service.handleEvent(ctx, ev)
	assert.Equal(t, 2, procs.count())
}

func TestScheduledMusicReplacesAparecida(t *testing.T) {
	service, procs, _, _ := newService(t)
	ctx := context.Background()
	defer service.player.Stop()

	service.handleEvent(ctx, pubsub.NewKeyEvent("c", "keyboard"))
	assert.Eventually(t, func() bool { return procs.count() == 1 }, time.Second, time.Millisecond)

	// as sent by the play_musica job
	job := config.ExampleConfig.Jobs["play_musica"]
	ev := pubsub.NewKeyEvent(job.Action.Key, "ipc")
	ev.SetField("max_enqueued_videos", float64(*job.Action.MaxEnqueuedVideos))
	service.handleEvent(ctx, ev)
	assert.Eventually(t, func() bool { return procs.count() == 2 }, time.Second, time.Millisecond)
	assert.Equal(t, []string{"cvlc", "--quiet", "--no-keyboard-events", "--loop", "data/ze-freitas.mp4"}, service.player.Current())
}

func TestUnknownKeyAndEvent(t *testing.T) {
	service, procs, mixer, pub := newService(t)
	service.handleEvent(context.Background(), pubsub.NewKeyEvent("z", "test"))
	service.handleEvent(context.Background(), pubsub.NewEvent("doorbell", nil))
	assert.Equal(t, 0, procs.count())
	assert.Empty(t, mixer.Lines())
	assert.Empty(t, pub.Events)
}

func TestInitBadKey(t *testing.T) {
	conf, err := config.OpenRaw([]byte(`
controller:
  keys:
    x:
      action: explode
`))
	require.NoError(t, err)
	services.Setup(conf)
	assert.Error(t, (&Service{}).Init())
}

func TestRunStopsOnCancel(t *testing.T) {
	service, procs, _, _ := newService(t)
	services.Publisher = services.Bus
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error)
	go func() { done <- service.Run(ctx) }()

	time.Sleep(10 * time.Millisecond)
	services.Bus.Emit(pubsub.NewKeyEvent("b", "test"))
	assert.Eventually(t, func() bool { return procs.count() == 1 }, time.Second, time.Millisecond)
	cancel()
	assert.NoError(t, <-done)
	assert.False(t, service.player.Playing())
}

func TestRunUntilSubscriptionCloses(t *testing.T) {
	service, _, mixer, _ := newService(t)
	services.Subscriber = &dummy.Subscriber{Events: []*pubsub.Event{
		pubsub.NewKeyEvent("3", "test"),
		pubsub.NewEvent("heartbeat", nil),
		pubsub.NewEvent(pubsub.Playback, pubsub.Fields{"key": "3"}),
		pubsub.NewKeyEvent("3", "test"),
	}}
	assert.NoError(t, service.Run(context.Background()))
	assert.Len(t, mixer.Lines(), 2)
}
