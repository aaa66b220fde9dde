// Package command runs external programs: systemctl, crontab, rsync,
// journalctl and the media players.
package command

import (
	"context"
	"io"
	"log"
	"os"
	"os/exec"
	"strings"
	"sync"

	"github.com/pkg/errors"
)

type Runner interface {
	Run(ctx context.Context, name string, args ...string) error
}

// Outputer runs a command capturing its standard output.
type Outputer interface {
	Output(ctx context.Context, name string, args ...string) ([]byte, error)
}

// Exec runs commands with output connected to the given writers.
type Exec struct {
	Stdout io.Writer
	Stderr io.Writer
	Dir    string
}

// Default runner, attached to the terminal.
var Default = &Exec{Stdout: os.Stdout, Stderr: os.Stderr}

func (self *Exec) Run(ctx context.Context, name string, args ...string) error {
	log.Printf("Running: %s %s", name, strings.Join(args, " "))
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = self.Stdout
	cmd.Stderr = self.Stderr
	cmd.Dir = self.Dir
	if err := cmd.Run(); err != nil {
		return errors.Wrapf(err, "running %s", name)
	}
	return nil
}

func (self *Exec) Output(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stderr = self.Stderr
	cmd.Dir = self.Dir
	out, err := cmd.Output()
	if err != nil {
		return out, errors.Wrapf(err, "running %s", name)
	}
	return out, nil
}

// Recorder records commands instead of running them.
type Recorder struct {
	Commands [][]string
	// Errors returned by command name.
	Errors map[string]error
	// Outputs returned by command name.
	Outputs map[string]string
	lock    sync.Mutex
}

func (self *Recorder) Run(ctx context.Context, name string, args ...string) error {
	self.lock.Lock()
	defer self.lock.Unlock()
	self.Commands = append(self.Commands, append([]string{name}, args...))
	return self.Errors[name]
}

func (self *Recorder) Output(ctx context.Context, name string, args ...string) ([]byte, error) {
	err := self.Run(ctx, name, args...)
	self.lock.Lock()
	defer self.lock.Unlock()
	return []byte(self.Outputs[name]), err
}

// Lines returns each recorded command as a single line.
func (self *Recorder) Lines() []string {
	self.lock.Lock()
	defer self.lock.Unlock()
	var ret []string
	for _, c := range self.Commands {
		ret = append(ret, strings.Join(c, " "))
	}
	return ret
}

// Argv returns a new slice of base followed by args.
func Argv(base []string, args ...string) []string {
	ret := make([]string, 0, len(base)+len(args))
	ret = append(ret, base...)
	return append(ret, args...)
}
