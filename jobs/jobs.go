// Package jobs runs the cron triggered playback jobs. Each job holds its own
// lock file so overlapping runs skip, fetches what the chromecast is
// showing and acts only when its condition holds.
package jobs

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/pkg/errors"

	"github.com/rpimedia/rpimedia/config"
	"github.com/rpimedia/rpimedia/lib/cast"
	"github.com/rpimedia/rpimedia/lib/command"
	"github.com/rpimedia/rpimedia/lib/flock"
	"github.com/rpimedia/rpimedia/media"
	"github.com/rpimedia/rpimedia/services/ipc"
)

// EventSender delivers an event to the running daemon.
type EventSender func(ctx context.Context, socket string, kind string, data map[string]interface{}) (bool, error)

type Runner struct {
	Config   *config.Config
	Finder   cast.Finder
	Commands command.Runner
	// Out receives skip messages.
	Out  io.Writer
	Send EventSender
	Now  func() time.Time
}

// NewRunner with the production defaults.
func NewRunner(conf *config.Config, finder cast.Finder) *Runner {
	return &Runner{
		Config:   conf,
		Finder:   finder,
		Commands: command.Default,
		Out:      os.Stdout,
		Send:     ipc.SendEvent,
		Now:      time.Now,
	}
}

// Validate checks a job's condition compiles and its action is complete.
func Validate(job config.JobConf) error {
	if _, err := NewCondition(job.Condition); err != nil {
		return err
	}
	a := job.Action
	switch a.Type {
	case "send_event":
		if a.Kind == "" || a.Key == "" {
			return errors.New("send_event needs kind and key")
		}
	case "cast":
		if a.Url == "" {
			return errors.New("cast needs url")
		}
	case "exec":
		if len(a.Command) == 0 {
			return errors.New("exec needs command")
		}
	case "sessao_da_tarde":
	default:
		return errors.Errorf("unknown action type %q", a.Type)
	}
	return nil
}

// RunNamed runs the configured job called name.
func (self *Runner) RunNamed(ctx context.Context, name string) error {
	job, ok := self.Config.Job(name)
	if !ok {
		return errors.Errorf("unknown job %s", name)
	}
	return self.Run(ctx, job)
}

// Run the job under its lock. A lock held by another run is a silent skip.
func (self *Runner) Run(ctx context.Context, job config.JobConf) error {
	if err := Validate(job); err != nil {
		return errors.Wrapf(err, "job %s", job.Name)
	}
	err := flock.Guard(job.Lock, func() error {
		return self.run(ctx, job)
	})
	if err == flock.ErrLocked {
		log.Printf("%s: already running, skipping", job.Name)
		return nil
	}
	return err
}

func (self *Runner) run(ctx context.Context, job config.JobConf) error {
	cond, err := NewCondition(job.Condition)
	if err != nil {
		return err
	}
	mi := self.Config.MediaInfo
	info, err := cast.FetchMediaInfo(ctx, self.Finder, mi.Retries, mi.Sleep)
	if err != nil {
		return errors.Wrap(err, "getting media info")
	}

	ok, err := cond.Match(info)
	if err != nil {
		return err
	}
	if !ok {
		msg := job.SkipMessage
		if msg == "" {
			msg = fmt.Sprintf("%s: condition not met, skipping", job.Name)
		}
		fmt.Fprintln(self.Out, msg)
		return nil
	}

	log.Printf("%s: running %s", job.Name, job.Action.Type)
	return self.act(ctx, job.Action)
}

func (self *Runner) act(ctx context.Context, action config.ActionConf) error {
	switch action.Type {
	case "send_event":
		data := map[string]interface{}{"key": action.Key}
		if action.MaxEnqueuedVideos != nil {
			data["max_enqueued_videos"] = *action.MaxEnqueuedVideos
		}
		_, err := self.Send(ctx, self.Config.IPC.Socket, action.Kind, data)
		return err
	case "cast":
		device, err := self.Finder.Find(ctx)
		if err != nil {
			return err
		}
		defer device.Close()
		return device.CastURL(ctx, action.Url, cast.ContentType(action.Url))
	case "sessao_da_tarde":
		return media.PlaySessaoDaTarde(ctx, self.Finder, self.Config.Sessao.Dir, self.Now())
	case "exec":
		return self.Commands.Run(ctx, action.Command[0], action.Command[1:]...)
	}
	return errors.Errorf("unknown action type %q", action.Type)
}
