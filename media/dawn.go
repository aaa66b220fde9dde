package media

import (
	"context"
	"log"
	"time"

	"github.com/rpimedia/rpimedia/lib/cast"
	"github.com/rpimedia/rpimedia/util"
)

// DawnVolume is 0 before the day starts, volume after.
func DawnVolume(now time.Time, dayStart util.Clock, volume int) int {
	if util.ClockOf(now) < dayStart {
		return 0
	}
	return volume
}

// MuteBeforeDawn sets the chromecast volume by time of day.
func MuteBeforeDawn(ctx context.Context, finder cast.Finder, dayStart string, volume int, now time.Time) error {
	start, err := util.ParseClock(dayStart)
	if err != nil {
		return err
	}
	if err := cast.ValidVolume(volume); err != nil {
		return err
	}

	set := DawnVolume(now, start, volume)
	if set == 0 {
		log.Printf("Current time %s is before %s - setting volume to 0", util.ClockOf(now), start)
	} else {
		log.Printf("Current time %s is after %s - setting volume to %d", util.ClockOf(now), start, set)
	}

	device, err := finder.Find(ctx)
	if err != nil {
		return err
	}
	defer device.Close()
	if err := device.SetVolume(ctx, set); err != nil {
		return err
	}
	log.Printf("Volume set to %d", set)
	return nil
}
