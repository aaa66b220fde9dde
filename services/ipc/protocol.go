package ipc

import (
	"encoding/binary"
	"io"

	"github.com/pkg/errors"
)

// MaxFrame is the largest message accepted.
const MaxFrame = 1 << 20

// Replies written after each frame.
const (
	ReplyOK            = "OK"
	ReplyInvalidFormat = "ERROR: Invalid message format"
	ReplyInvalidJSON   = "ERROR: Invalid JSON"
)

var ErrFrameTooLarge = errors.New("frame too large")

// Message is the JSON body of a frame.
type Message struct {
	EventKind string                 `json:"event_kind"`
	EventData map[string]interface{} `json:"event_data"`
}

// WriteFrame writes data prefixed by its 4 byte big-endian length.
func WriteFrame(w io.Writer, data []byte) error {
	if len(data) > MaxFrame {
		return ErrFrameTooLarge
	}
	buf := make([]byte, 4+len(data))
	binary.BigEndian.PutUint32(buf, uint32(len(data)))
	copy(buf[4:], data)
	_, err := w.Write(buf)
	return err
}

// ReadFrame reads one length prefixed frame. A clean end of stream before
// the length returns io.EOF.
func ReadFrame(r io.Reader) ([]byte, error) {
	var header [4]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return nil, err
	}
	n := binary.BigEndian.Uint32(header[:])
	if n > MaxFrame {
		return nil, ErrFrameTooLarge
	}
	data := make([]byte, n)
	if _, err := io.ReadFull(r, data); err != nil {
		return nil, err
	}
	return data, nil
}
