// Package media holds the one-shot playback routines run from cron: the
// afternoon film, the dawn volume and the idle checker.
package media

import (
	"context"
	"io/fs"
	"log"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/rpimedia/rpimedia/lib/cast"
)

var ErrNoVideo = errors.New("no video found")

// Videos lists the .mp4 files under dir, recursively, sorted by path.
func Videos(dir string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(d.Name(), ".mp4") {
			paths = append(paths, p)
		}
		return nil
	})
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}
	sort.Strings(paths)
	return paths, nil
}

// PickVideo chooses the video of the day: the day of the month indexes the
// list, moving on by one in the afternoon.
func PickVideo(paths []string, now time.Time) (string, error) {
	if len(paths) == 0 {
		return "", ErrNoVideo
	}
	index := now.Day()
	if now.Hour() > 12 {
		index++
	}
	return paths[index%len(paths)], nil
}

// PlaySessaoDaTarde casts today's video from dir and waits for it to end.
func PlaySessaoDaTarde(ctx context.Context, finder cast.Finder, dir string, now time.Time) error {
	paths, err := Videos(dir)
	if err != nil {
		return err
	}
	video, err := PickVideo(paths, now)
	if err != nil {
		return err
	}

	device, err := finder.Find(ctx)
	if err != nil {
		return err
	}
	defer device.Close()

	log.Printf("Playing video: %s", video)
	if err := device.CastFile(ctx, video); err != nil {
		return errors.Wrapf(err, "casting %s", video)
	}
	log.Println("Playback completed successfully")
	return nil
}
