package evdev

import (
	"golang.org/x/sys/unix"
)

type InputEvent struct {
	Time  unix.Timeval // time in seconds since epoch at which event occurred
	Type  uint16       // event type - one of EV_*
	Code  uint16       // event code related to the event type
	Value int32        // event value related to the event type
}

const (
	EV_SYN = 0x00
	EV_KEY = 0x01
)

// Values of EV_KEY events
const (
	KeyReleased = 0
	KeyPressed  = 1
	KeyRepeated = 2
)
