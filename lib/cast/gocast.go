package cast

import (
	"context"
	"log"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/barnybug/go-cast"
	"github.com/barnybug/go-cast/controllers"
	"github.com/barnybug/go-cast/discovery"
	"github.com/barnybug/go-cast/events"
	"github.com/hbollon/go-edlib"
	"github.com/pkg/errors"

	"github.com/rpimedia/rpimedia/pubsub"
)

// Discoverer finds a chromecast on the network, or connects to a fixed
// address when Host is set.
type Discoverer struct {
	Name    string
	Host    string
	Port    int
	Timeout time.Duration

	// File server settings for CastFile.
	Serve        string
	Advertise    string
	PollInterval time.Duration

	// Publisher receives app started/stopped events. Optional.
	Publisher pubsub.Publisher
}

func (self *Discoverer) Find(ctx context.Context) (Device, error) {
	var client *cast.Client
	if self.Host != "" {
		ip, err := resolve(self.Host)
		if err != nil {
			return nil, err
		}
		client = cast.NewClient(ip, self.Port)
	} else {
		var err error
		log.Println("Discovering Chromecast devices...")
		client, err = self.discover(ctx)
		if err != nil {
			return nil, err
		}
	}

	err := client.Connect(ctx)
	if err != nil {
		return nil, errors.Wrapf(err, "connecting to %s", client.Name())
	}
	log.Printf("Found device: %s", client.Name())

	device := &Chromecast{
		client:    client,
		serve:     self.Serve,
		advertise: self.Advertise,
		poll:      self.PollInterval,
		publisher: self.Publisher,
		done:      make(chan struct{}),
	}
	go device.listener()
	return device, nil
}

var lookupIP = net.LookupIP

func resolve(host string) (net.IP, error) {
	if ip := net.ParseIP(host); ip != nil {
		return ip, nil
	}
	ips, err := lookupIP(host)
	if err != nil {
		return nil, errors.Wrapf(err, "resolving %s", host)
	}
	if len(ips) == 0 {
		return nil, errors.Errorf("resolving %s: no addresses", host)
	}
	return ips[0], nil
}

func (self *Discoverer) discover(ctx context.Context) (*cast.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, self.Timeout)
	defer cancel()
	discover := discovery.NewService(ctx)
	go discover.Run(ctx, 2*time.Second)

	for {
		select {
		case client := <-discover.Found():
			if MatchName(client.Name(), self.Name) {
				return client, nil
			}
			log.Printf("Ignoring device: %s", client.Name())
		case <-ctx.Done():
			return nil, ErrNoDevice
		}
	}
}

// MatchName accepts a discovered device name close to the wanted one, so
// "sala" finds "Sala de TV". An empty wanted name matches anything.
func MatchName(found, want string) bool {
	if want == "" || strings.EqualFold(found, want) {
		return true
	}
	found, want = strings.ToLower(found), strings.ToLower(want)
	if strings.HasPrefix(found, want) {
		return true
	}
	return edlib.JaroWinklerSimilarity(found, want) >= nameSimilarity
}

const nameSimilarity = 0.9

const startTimeout = time.Minute

// Chromecast is a connected device.
type Chromecast struct {
	client    *cast.Client
	serve     string
	advertise string
	poll      time.Duration
	publisher pubsub.Publisher
	done      chan struct{}
}

func (self *Chromecast) Name() string {
	return self.client.Name()
}

func (self *Chromecast) listener() {
	for {
		select {
		case <-self.done:
			return
		case event := <-self.client.Events:
			switch data := event.(type) {
			case events.Connected:
				log.Printf("%s: connected", self.Name())
			case events.Disconnected:
				log.Printf("%s: disconnected", self.Name())
			case events.AppStarted:
				log.Printf("%s: App started: %s (%s)", self.Name(), data.DisplayName, data.AppID)
				self.emit("on", data.DisplayName)
			case events.AppStopped:
				log.Printf("%s: App stopped: %s (%s)", self.Name(), data.DisplayName, data.AppID)
				self.emit("off", data.DisplayName)
			default:
				// ignored
			}
		}
	}
}

func (self *Chromecast) emit(command, app string) {
	if self.publisher == nil {
		return
	}
	fields := pubsub.Fields{
		"origin":  "cast",
		"command": command,
		"source":  self.Name(),
		"app":     app,
	}
	self.publisher.Emit(pubsub.NewEvent("cast", fields))
}

func (self *Chromecast) MediaInfo(ctx context.Context) (*MediaInfo, error) {
	status, err := self.client.Receiver().GetStatus(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "receiver status")
	}
	var receiver receiverStatus
	if err := recode(status, &receiver); err != nil {
		return nil, errors.Wrap(err, "decoding receiver status")
	}
	info := receiver.info()
	if info == nil || receiver.appID() != defaultMediaReceiver {
		// asking another app for media status would replace it
		return info, nil
	}

	media, err := self.mediaStatus(ctx)
	if err != nil {
		return nil, err
	}
	media.apply(info)
	return info, nil
}

func (self *Chromecast) mediaStatus(ctx context.Context) (*mediaStatusResponse, error) {
	media, err := self.client.Media(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "media controller")
	}
	status, err := media.GetStatus(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "media status")
	}
	var response mediaStatusResponse
	if err := recode(status, &response); err != nil {
		return nil, errors.Wrap(err, "decoding media status")
	}
	return &response, nil
}

func (self *Chromecast) CastURL(ctx context.Context, url string, contentType string) error {
	if contentType == "" {
		contentType = ContentType(url)
	}
	media, err := self.client.Media(ctx)
	if err != nil {
		return errors.Wrap(err, "media controller")
	}
	item := controllers.MediaItem{
		ContentId:   url,
		StreamType:  "BUFFERED",
		ContentType: contentType,
	}
	log.Printf("%s: casting %s", self.Name(), url)
	_, err = media.LoadMedia(ctx, item, 0, true, map[string]interface{}{})
	if err != nil {
		return errors.Wrapf(err, "loading %s", url)
	}
	return nil
}

func (self *Chromecast) CastFile(ctx context.Context, name string) error {
	host := self.advertise
	if host == "" {
		var err error
		host, err = localAddress(self.client.IP())
		if err != nil {
			return err
		}
	}
	server, err := ServeFile(name, self.serve, host)
	if err != nil {
		return err
	}
	defer server.Close()

	err = self.CastURL(ctx, server.URL, ContentType(name))
	if err != nil {
		return err
	}
	return self.waitFinished(ctx)
}

func (self *Chromecast) waitFinished(ctx context.Context) error {
	ticker := time.NewTicker(self.poll)
	defer ticker.Stop()
	started := false
	begin := time.Now()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
		status, err := self.mediaStatus(ctx)
		if err != nil {
			return err
		}
		if !status.finished() {
			started = true
			continue
		}
		if started {
			log.Printf("%s: playback finished", self.Name())
			return nil
		}
		if time.Since(begin) > startTimeout {
			return errors.New("playback did not start")
		}
	}
}

func (self *Chromecast) SetVolume(ctx context.Context, volume int) error {
	if err := ValidVolume(volume); err != nil {
		return err
	}
	level := float64(volume) / 100
	muted := false
	_, err := self.client.Receiver().SetVolume(ctx, &controllers.Volume{Level: &level, Muted: &muted})
	if err != nil {
		return errors.Wrap(err, "setting volume")
	}
	log.Printf("Volume set to %d", volume)
	return nil
}

func (self *Chromecast) Close() {
	close(self.done)
	self.client.Close()
}

// localAddress is the address of the interface that routes to ip.
func localAddress(ip net.IP) (string, error) {
	conn, err := net.Dial("udp", net.JoinHostPort(ip.String(), strconv.Itoa(9)))
	if err != nil {
		return "", errors.Wrap(err, "finding local address")
	}
	defer conn.Close()
	host, _, err := net.SplitHostPort(conn.LocalAddr().String())
	return host, err
}
