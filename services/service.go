package services

import (
	"context"
	"log"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/rpimedia/rpimedia/config"
	"github.com/rpimedia/rpimedia/lib/cast"
	"github.com/rpimedia/rpimedia/pubsub"
)

// Service interface
type Service interface {
	ID() string
	// Run until the context is cancelled.
	Run(ctx context.Context) error
}

// ServiceInit interface
type ServiceInit interface {
	Service
	Init() error
}

var serviceMap map[string]Service = map[string]Service{}
var Config *config.Config

var Bus *pubsub.Bus
var Publisher pubsub.Publisher
var Subscriber pubsub.Subscriber

var shutdownLock sync.Mutex
var shutdown context.CancelFunc

func SetupLogging() {
	log.SetFlags(log.Ltime | log.Lmicroseconds)
	log.SetOutput(os.Stdout)
}

// Setup the in-process bus shared by services.
func Setup(conf *config.Config) {
	Config = conf
	Bus = pubsub.NewBus("rpimedia")
	Publisher = Bus
	Subscriber = Bus
}

// Finder for the configured chromecast.
func Finder() cast.Finder {
	c := Config.Cast
	return &cast.Discoverer{
		Name:         c.Device,
		Host:         c.Host,
		Port:         c.Port,
		Timeout:      c.DiscoveryTimeout,
		Serve:        c.Serve,
		Advertise:    c.Advertise,
		PollInterval: c.PollInterval,
		Publisher:    Publisher,
	}
}

func Register(service Service) {
	if _, exists := serviceMap[service.ID()]; exists {
		log.Fatalf("Duplicate service registered: %s", service.ID())
	}
	serviceMap[service.ID()] = service
}

// Registered service names, sorted.
func Registered() []string {
	var ret []string
	for name := range serviceMap {
		ret = append(ret, name)
	}
	sort.Strings(ret)
	return ret
}

// Launch runs the named services until one fails, the context is cancelled
// or a shutdown is requested.
func Launch(ctx context.Context, ss []string) error {
	enabled := []Service{}
	for _, name := range ss {
		if service, ok := serviceMap[name]; ok {
			enabled = append(enabled, service)
		} else {
			return errors.Errorf("Service %s does not exist", name)
		}
	}

	for _, service := range enabled {
		log.Printf("Starting %s\n", service.ID())
		if service, ok := service.(ServiceInit); ok {
			err := service.Init()
			if err != nil {
				return errors.Wrapf(err, "init service %s", service.ID())
			}
			log.Printf("Initialized %s\n", service.ID())
		}
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	shutdownLock.Lock()
	shutdown = cancel
	shutdownLock.Unlock()

	g, ctx := errgroup.WithContext(ctx)
	for _, service := range enabled {
		service := service
		g.Go(func() error {
			err := service.Run(ctx)
			if err != nil {
				return errors.Wrapf(err, "running service %s", service.ID())
			}
			log.Printf("Stopped %s\n", service.ID())
			return nil
		})
	}
	go Heartbeat(ctx)

	err := g.Wait()
	if Bus != nil {
		Bus.Shutdown()
	}
	return err
}

// RequestShutdown stops all launched services.
func RequestShutdown(reason string) {
	log.Printf("%s. Exiting...", reason)
	shutdownLock.Lock()
	defer shutdownLock.Unlock()
	if shutdown != nil {
		shutdown()
	}
}

func heartbeatEvent(started, now time.Time) *pubsub.Event {
	fields := pubsub.Fields{
		"pid":     os.Getpid(),
		"started": started.Format(time.RFC3339),
		"uptime":  int(now.Sub(started).Seconds()),
	}
	return pubsub.NewEvent("heartbeat", fields)
}

func Heartbeat(ctx context.Context) {
	started := time.Now()
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
		Publisher.Emit(heartbeatEvent(started, time.Now()))
	}
}
