package media

import (
	"context"
	"log"

	"github.com/rpimedia/rpimedia/lib/cast"
)

// CheckAndCast casts url unless the device is playing something with a
// title. It reports whether it cast.
func CheckAndCast(ctx context.Context, finder cast.Finder, url string) (bool, error) {
	log.Println("Discovering Chromecast devices...")
	device, err := finder.Find(ctx)
	if err != nil {
		return false, err
	}
	defer device.Close()
	log.Printf("Found device: %s", device.Name())

	info, err := device.MediaInfo(ctx)
	if err != nil {
		return false, err
	}
	if info.HasTitle() {
		log.Printf("Device is currently playing: %s", *info.Title)
		log.Println("No action needed")
		return false, nil
	}

	log.Println("Device is not playing anything")
	log.Printf("Playing URL: %s", url)
	if err := device.CastURL(ctx, url, cast.ContentType(url)); err != nil {
		return false, err
	}
	log.Println("Started playback successfully")
	return true, nil
}
