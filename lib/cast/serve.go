package cast

import (
	"fmt"
	"log"
	"net"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"
)

// FileServer serves a single local file for the chromecast to fetch.
type FileServer struct {
	URL      string
	path     string
	listener net.Listener
}

// ServeFile starts serving name on addr. The returned URL uses host, the
// address the chromecast can reach us at.
func ServeFile(name string, addr string, host string) (*FileServer, error) {
	abs, err := filepath.Abs(name)
	if err != nil {
		return nil, err
	}
	if _, err := os.Stat(abs); err != nil {
		return nil, errors.Wrap(err, "media file")
	}

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, errors.Wrapf(err, "listening on %s", addr)
	}
	port := listener.Addr().(*net.TCPAddr).Port

	self := &FileServer{
		path:     abs,
		listener: listener,
	}
	self.URL = fmt.Sprintf("http://%s/media/%s",
		net.JoinHostPort(host, strconv.Itoa(port)), url.PathEscape(filepath.Base(abs)))

	go func() {
		err := http.Serve(listener, self.router())
		if err != nil && !errors.Is(err, net.ErrClosed) {
			log.Println("File server:", err)
		}
	}()
	log.Printf("Serving %s at %s", abs, self.URL)
	return self, nil
}

func (self *FileServer) router() *mux.Router {
	router := mux.NewRouter()
	router.HandleFunc("/media/{name}", self.serveMedia)
	return router
}

func (self *FileServer) serveMedia(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	if name != filepath.Base(self.path) {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Content-Type", ContentType(self.path))
	http.ServeFile(w, r, self.path)
}

func (self *FileServer) Close() error {
	return self.listener.Close()
}
