package ipc

import (
	"bufio"
	"context"
	"encoding/json"
	"net"
	"os"
	"strings"

	"github.com/pkg/errors"

	"github.com/rpimedia/rpimedia/util"
)

var ErrNoServer = errors.New("no running IPC server found")

// SendEvent sends one event to the server listening on socket. It returns
// true when the server accepted it, and an error describing why not
// otherwise.
func SendEvent(ctx context.Context, socket string, kind string, data map[string]interface{}) (bool, error) {
	socket = util.ExpandUser(socket)
	if _, err := os.Stat(socket); os.IsNotExist(err) {
		return false, ErrNoServer
	}
	msg, err := json.Marshal(Message{EventKind: kind, EventData: data})
	if err != nil {
		return false, err
	}

	var d net.Dialer
	conn, err := d.DialContext(ctx, "unix", socket)
	if err != nil {
		return false, errors.Wrap(err, "sending event")
	}
	defer conn.Close()
	if deadline, ok := ctx.Deadline(); ok {
		conn.SetDeadline(deadline)
	}

	if err := WriteFrame(conn, msg); err != nil {
		return false, errors.Wrap(err, "sending event")
	}
	reply, err := bufio.NewReader(conn).ReadString('\n')
	if err != nil {
		return false, errors.Wrap(err, "reading reply")
	}
	reply = strings.TrimSpace(reply)
	if reply != ReplyOK {
		return false, errors.Errorf("error from server: %s", reply)
	}
	return true, nil
}
