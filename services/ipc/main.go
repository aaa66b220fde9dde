// Service to receive events from other processes over a unix socket. Cron
// jobs use it to ask the running controller to play something.
//
// Each frame is a 4 byte big-endian length followed by a JSON object:
//
//	{"event_kind": "keyboard_input", "event_data": {"key": "c"}}
//
// and is answered with a single line, "OK" or an error.
package ipc

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net"
	"os"
	"path"
	"sync"

	"github.com/rpimedia/rpimedia/pubsub"
	"github.com/rpimedia/rpimedia/services"
	"github.com/rpimedia/rpimedia/util"
)

// Service ipc
type Service struct {
	socket string
}

func (self *Service) ID() string {
	return "ipc"
}

func (self *Service) Init() error {
	self.socket = util.ExpandUser(services.Config.IPC.Socket)
	return os.MkdirAll(path.Dir(self.socket), 0700)
}

func removeStale(socket string) {
	if err := os.Remove(socket); err != nil && !os.IsNotExist(err) {
		log.Printf("Failed to remove socket %s: %s", socket, err)
	}
}

// conns tracks open client connections so shutdown can close them.
type conns struct {
	lock    sync.Mutex
	open    map[net.Conn]bool
	closing bool
}

// add registers conn, or closes it and returns false once shutting down.
func (self *conns) add(conn net.Conn) bool {
	self.lock.Lock()
	defer self.lock.Unlock()
	if self.closing {
		conn.Close()
		return false
	}
	if self.open == nil {
		self.open = map[net.Conn]bool{}
	}
	self.open[conn] = true
	return true
}

func (self *conns) remove(conn net.Conn) {
	self.lock.Lock()
	delete(self.open, conn)
	self.lock.Unlock()
}

func (self *conns) closeAll() {
	self.lock.Lock()
	defer self.lock.Unlock()
	self.closing = true
	for conn := range self.open {
		conn.Close()
	}
}

func (self *Service) Run(ctx context.Context) error {
	removeStale(self.socket)
	l, err := net.Listen("unix", self.socket)
	if err != nil {
		return err
	}
	defer removeStale(self.socket)
	log.Println("IPC Event Listener started. Listening for events on", self.socket)

	var wg sync.WaitGroup
	clients := &conns{}
	go func() {
		<-ctx.Done()
		l.Close()
		clients.closeAll()
	}()

	for {
		conn, err := l.Accept()
		if err != nil {
			if ctx.Err() != nil {
				break
			}
			l.Close()
			return err
		}
		if !clients.add(conn) {
			continue
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			handleClient(conn, services.Publisher)
			clients.remove(conn)
		}()
	}
	wg.Wait()
	log.Println("IPC Event Listener stopped.")
	return nil
}

func handleClient(conn net.Conn, pub pubsub.Publisher) {
	defer conn.Close()
	r := bufio.NewReader(conn)
	for {
		data, err := ReadFrame(r)
		if err == ErrFrameTooLarge {
			fmt.Fprintln(conn, ReplyInvalidFormat)
			return
		}
		if err != nil {
			if err != io.EOF {
				log.Printf("Error handling client: %s", err)
			}
			return
		}
		fmt.Fprintln(conn, handleMessage(data, pub))
	}
}

func handleMessage(data []byte, pub pubsub.Publisher) string {
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		if _, ok := err.(*json.UnmarshalTypeError); ok {
			return ReplyInvalidFormat
		}
		return ReplyInvalidJSON
	}
	if msg.EventKind == "" || len(msg.EventData) == 0 {
		return ReplyInvalidFormat
	}
	ev := pubsub.NewEvent(msg.EventKind, msg.EventData)
	if ev.Source() == "" {
		ev.SetField("source", "ipc")
	}
	log.Printf("Received event: %s", ev)
	pub.Emit(ev)
	return ReplyOK
}
