// Package flock guards commands with a non-blocking advisory file lock, so
// overlapping cron runs of the same job do not double-trigger.
package flock

import (
	"os"

	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

// ErrLocked is returned when another process holds the lock.
var ErrLocked = errors.New("lock held by another process")

type Lock struct {
	path string
	file *os.File
}

// TryLock takes an exclusive lock on path without waiting.
func TryLock(path string) (*Lock, error) {
	for {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0644)
		if err != nil {
			return nil, errors.Wrap(err, "opening lock file")
		}
		err = unix.Flock(int(f.Fd()), unix.LOCK_EX|unix.LOCK_NB)
		if err == unix.EWOULDBLOCK {
			f.Close()
			return nil, ErrLocked
		}
		if err != nil {
			f.Close()
			return nil, errors.Wrap(err, "locking")
		}

		// the previous holder may have removed the file between open and lock
		locked, err := f.Stat()
		if err != nil {
			f.Close()
			return nil, errors.Wrap(err, "stat lock file")
		}
		current, err := os.Stat(path)
		if err == nil && os.SameFile(locked, current) {
			return &Lock{path: path, file: f}, nil
		}
		f.Close()
	}
}

// Unlock removes the lock file and releases the lock.
func (l *Lock) Unlock() error {
	err := os.Remove(l.path)
	unix.Flock(int(l.file.Fd()), unix.LOCK_UN)
	l.file.Close()
	if err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "removing lock file")
	}
	return nil
}

func (l *Lock) Path() string {
	return l.path
}

// Guard runs fn while holding the lock at path. ErrLocked means fn was not
// run. The lock file is removed whether fn fails or not.
func Guard(path string, fn func() error) (err error) {
	l, err := TryLock(path)
	if err != nil {
		return err
	}
	defer func() {
		if uerr := l.Unlock(); uerr != nil && err == nil {
			err = uerr
		}
	}()
	return fn()
}
