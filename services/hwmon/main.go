// Service to publish the Raspberry Pi temperatures, so an overheating media
// box shows up alongside the playback events.
package hwmon

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/rpimedia/rpimedia/pubsub"
	"github.com/rpimedia/rpimedia/services"
)

const thermalZones = "/sys/devices/virtual/thermal/thermal_zone?/temp"

// Service hwmon
type Service struct {
	// overridable for testing
	pattern  string
	interval time.Duration
}

// ID of the service
func (self *Service) ID() string {
	return "hwmon"
}

var reNumber = regexp.MustCompile(`(\d+)`)

func deviceName(path string) string {
	nums := reNumber.FindAllString(path, -1)
	n := ""
	if len(nums) > 0 {
		n = nums[len(nums)-1]
	}
	hostname, _ := os.Hostname()
	return fmt.Sprintf("thermal.%s%s", hostname, n)
}

func readTemp(path string) (float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()
	var temp float64
	_, err = fmt.Fscanf(f, "%f", &temp)
	if err != nil {
		return 0, err
	}
	return temp / 1000, nil
}

func readTemps(zones map[string]string) {
	for name, path := range zones {
		temp, err := readTemp(path)
		if err != nil {
			log.Printf("error reading %s: %s", path, err)
			continue
		}

		ev := pubsub.NewEvent("temp",
			pubsub.Fields{"temp": temp, "device": name})
		services.Publisher.Emit(ev)
	}
}

func findThermalDevices(pattern string) (map[string]string, error) {
	zones := map[string]string{}
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return nil, err
	}
	for _, match := range matches {
		zones[deviceName(filepath.Dir(match))] = match
	}
	return zones, nil
}

// Run the service
func (self *Service) Run(ctx context.Context) error {
	pattern, interval := self.pattern, self.interval
	if pattern == "" {
		pattern = thermalZones
	}
	if interval == 0 {
		interval = time.Minute
	}
	zones, err := findThermalDevices(pattern)
	if err != nil {
		return err
	}
	log.Printf("%d thermal zones", len(zones))

	readTemps(zones) // initial read
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			readTemps(zones)
		}
	}
}
