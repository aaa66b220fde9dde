package ipc

import (
	"bufio"
	"bytes"
	"context"
	"io/ioutil"
	"net"
	"os"
	"path"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rpimedia/rpimedia/config"
	"github.com/rpimedia/rpimedia/pubsub/dummy"
	"github.com/rpimedia/rpimedia/services"
)

var _ services.ServiceInit = (*Service)(nil)

func TestFrame(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteFrame(&buf, []byte(`{"a":1}`)))
	assert.Equal(t, []byte{0, 0, 0, 7}, buf.Bytes()[:4])
	data, err := ReadFrame(&buf)
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, string(data))

	_, err = ReadFrame(bytes.NewReader([]byte{0xff, 0xff, 0xff, 0xff}))
	assert.Equal(t, ErrFrameTooLarge, err)
	_, err = ReadFrame(bytes.NewReader([]byte{0, 0, 0, 9, '{'}))
	assert.Error(t, err)
}

func TestHandleMessage(t *testing.T) {
	pub := &dummy.Publisher{}
	assert.Equal(t, ReplyOK, handleMessage([]byte(`{"event_kind":"keyboard_input","event_data":{"key":"c","max_enqueued_videos":0}}`), pub))
	assert.Equal(t, ReplyInvalidFormat, handleMessage([]byte(`{"event_kind":"keyboard_input","event_data":{}}`), pub))
	assert.Equal(t, ReplyInvalidFormat, handleMessage([]byte(`{"event_data":{"key":"c"}}`), pub))
	assert.Equal(t, ReplyInvalidFormat, handleMessage([]byte(`{"event_kind":"keyboard_input","event_data":"c"}`), pub))
	assert.Equal(t, ReplyInvalidJSON, handleMessage([]byte(`{"event_kind":`), pub))

	require.Len(t, pub.Events, 1)
	ev := pub.Events[0]
	assert.Equal(t, "keyboard_input", ev.Topic)
	assert.Equal(t, "c", ev.Key())
	assert.Equal(t, "ipc", ev.Source())
	max, ok := ev.IntField("max_enqueued_videos")
	assert.True(t, ok)
	assert.Equal(t, int64(0), max)
}

func startServer(t *testing.T) (string, *dummy.Publisher, func()) {
	dir, err := ioutil.TempDir("", "ipc")
	require.NoError(t, err)
	socket := path.Join(dir, "run", "event.sock")

	services.Setup(config.ExampleConfig)
	pub := &dummy.Publisher{}
	services.Publisher = pub
	service := &Service{}
	services.Config.IPC.Socket = socket
	require.NoError(t, service.Init())

	// stale socket from a previous run
	require.NoError(t, ioutil.WriteFile(socket, nil, 0600))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error)
	go func() { done <- service.Run(ctx) }()
	require.Eventually(t, func() bool {
		conn, err := net.Dial("unix", socket)
		if err == nil {
			conn.Close()
		}
		return err == nil
	}, time.Second, 5*time.Millisecond)

	return socket, pub, func() {
		cancel()
		assert.NoError(t, <-done)
		_, err := os.Stat(socket)
		assert.True(t, os.IsNotExist(err), "socket removed")
		os.RemoveAll(dir)
	}
}

func TestSendEvent(t *testing.T) {
	socket, pub, stop := startServer(t)
	defer stop()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	ok, err := SendEvent(ctx, socket, "keyboard_input", map[string]interface{}{"key": "f"})
	assert.NoError(t, err)
	assert.True(t, ok)

	ok, err = SendEvent(ctx, socket, "keyboard_input", map[string]interface{}{})
	assert.EqualError(t, err, "error from server: ERROR: Invalid message format")
	assert.False(t, ok)

	require.Len(t, pub.Topics(), 1)
	assert.Equal(t, "f", pub.Events[0].Key())
}

func TestSeveralFramesOneConnection(t *testing.T) {
	socket, pub, stop := startServer(t)
	defer stop()

	conn, err := net.Dial("unix", socket)
	require.NoError(t, err)
	defer conn.Close()
	r := bufio.NewReader(conn)

	for _, frame := range []string{
		`{"event_kind":"keyboard_input","event_data":{"key":"3"}}`,
		`not json`,
		`{"event_kind":"keyboard_input","event_data":{"key":"1"}}`,
	} {
		require.NoError(t, WriteFrame(conn, []byte(frame)))
	}
	var replies []string
	for i := 0; i < 3; i++ {
		line, err := r.ReadString('\n')
		require.NoError(t, err)
		replies = append(replies, line)
	}
	assert.Equal(t, []string{"OK\n", "ERROR: Invalid JSON\n", "OK\n"}, replies)
	assert.Len(t, pub.Topics(), 2)
}

func TestSendEventNoServer(t *testing.T) {
	ok, err := SendEvent(context.Background(), "/nonexistent/event.sock", "keyboard_input", map[string]interface{}{"key": "c"})
	assert.Equal(t, ErrNoServer, err)
	assert.False(t, ok)
}

func TestConnsRejectAfterClose(t *testing.T) {
	clients := &conns{}
	a, b := net.Pipe()
	defer b.Close()
	assert.True(t, clients.add(a))

	clients.closeAll()
	_, err := a.Write([]byte("x"))
	assert.Error(t, err, "open connection closed")

	late, peer := net.Pipe()
	defer peer.Close()
	assert.False(t, clients.add(late))
	_, err = late.Write([]byte("x"))
	assert.Error(t, err, "late connection closed")
	assert.Len(t, clients.open, 1)

	clients.remove(a)
	assert.Empty(t, clients.open)
}
