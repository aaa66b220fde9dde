package controller

import (
	"context"
	"log"
	"os/exec"
	"strings"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/rpimedia/rpimedia/util"
)

// ProcessRunner runs a player command until it exits or ctx is cancelled.
type ProcessRunner func(ctx context.Context, argv []string) error

func execProcess(ctx context.Context, argv []string) error {
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Cancel = func() error {
		return cmd.Process.Signal(syscall.SIGTERM)
	}
	cmd.WaitDelay = 5 * time.Second
	return cmd.Run()
}

// Player holds at most one playing process. Starting another replaces it.
type Player struct {
	MinDuration time.Duration
	MaxAttempts int
	run         ProcessRunner

	waiting atomic.Int32

	lock    sync.Mutex
	current []string
	cancel  context.CancelFunc
	done    chan struct{}
}

func NewPlayer(minDuration time.Duration, maxAttempts int, run ProcessRunner) *Player {
	if run == nil {
		run = execProcess
	}
	return &Player{MinDuration: minDuration, MaxAttempts: maxAttempts, run: run}
}

func (self *Player) running() bool {
	if self.done == nil {
		return false
	}
	select {
	case <-self.done:
		return false
	default:
		return true
	}
}

// Enqueued is the number of videos waiting behind the one playing. Play
// replaces rather than queues, so only calls blocked on a replacement count.
func (self *Player) Enqueued() int {
	return int(self.waiting.Load())
}

// Playing reports whether a process is running.
func (self *Player) Playing() bool {
	self.lock.Lock()
	defer self.lock.Unlock()
	return self.running()
}

// Current is the command playing, nil when idle.
func (self *Player) Current() []string {
	self.lock.Lock()
	defer self.lock.Unlock()
	if self.running() {
		return self.current
	}
	return nil
}

// Play starts argv, replacing whatever is playing. The same command as the
// one playing is ignored and Play returns false.
func (self *Player) Play(ctx context.Context, argv []string) bool {
	self.waiting.Add(1)
	self.lock.Lock()
	self.waiting.Add(-1)
	defer self.lock.Unlock()

	if self.running() && strings.Join(self.current, "\x00") == strings.Join(argv, "\x00") {
		log.Println("Ignoring repeated command")
		return false
	}
	self.stopLocked()

	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	self.current = argv
	self.cancel = cancel
	self.done = done

	go func() {
		defer close(done)
		defer cancel()
		err := util.RetryIfFinishedTooQuickly(ctx, self.MinDuration, self.MaxAttempts, func(ctx context.Context) error {
			return self.run(ctx, argv)
		})
		if err != nil && ctx.Err() == nil {
			log.Printf("Failed to run command: %s", err)
		}
	}()
	return true
}

// Stop the current process, waiting for it to exit.
func (self *Player) Stop() {
	self.lock.Lock()
	defer self.lock.Unlock()
	self.stopLocked()
}

func (self *Player) stopLocked() {
	if self.cancel == nil {
		return
	}
	self.cancel()
	<-self.done
	self.cancel = nil
	self.current = nil
}
