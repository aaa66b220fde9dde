// Package evdev reads key presses from Linux input devices.
package evdev

import (
	"encoding/binary"
	"io"
	"os"

	"golang.org/x/sys/unix"
)

// from linux/input.h
const eviocgrab = 0x40044590

type InputDevice struct {
	devname string
	r       io.ReadCloser
	file    *os.File
}

// Open the device. The file stays in non-blocking mode, so Close interrupts
// a pending read.
func Open(devname string) (*InputDevice, error) {
	file, err := os.Open(devname)
	if err != nil {
		return nil, err
	}
	return &InputDevice{devname: devname, r: file, file: file}, nil
}

// NewReader reads events from r, for testing or replaying.
func NewReader(r io.ReadCloser) *InputDevice {
	return &InputDevice{devname: "reader", r: r}
}

func (self *InputDevice) Name() string {
	return self.devname
}

// Grab the device so key presses are not seen by other programs.
func (self *InputDevice) Grab() error {
	if self.file == nil {
		return nil
	}
	conn, err := self.file.SyscallConn()
	if err != nil {
		return err
	}
	var ioctlErr error
	err = conn.Control(func(fd uintptr) {
		ioctlErr = unix.IoctlSetPointerInt(int(fd), eviocgrab, 1)
	})
	if err != nil {
		return err
	}
	return ioctlErr
}

func (self *InputDevice) ReadOne() (*InputEvent, error) {
	event := InputEvent{}
	err := binary.Read(self.r, binary.LittleEndian, &event)
	return &event, err
}

// ReadKey blocks until the next key press, returning its name.
func (self *InputDevice) ReadKey() (string, error) {
	for {
		ev, err := self.ReadOne()
		if err != nil {
			return "", err
		}
		if ev.Type == EV_KEY && ev.Value == KeyPressed {
			return KeyName(ev.Code), nil
		}
	}
}

func (self *InputDevice) Close() error {
	return self.r.Close()
}
