// Package cast integrates a Google Chromecast: discovery, current media info,
// casting urls and local files, and volume.
package cast

import (
	"context"
	"mime"
	"path"
	"strings"

	"github.com/pkg/errors"
)

// ErrNoDevice is returned when discovery finds no matching device in time.
var ErrNoDevice = errors.New("no chromecast devices found")

type Device interface {
	Name() string
	// MediaInfo returns nil when nothing is loaded.
	MediaInfo(ctx context.Context) (*MediaInfo, error)
	CastURL(ctx context.Context, url string, contentType string) error
	// CastFile serves a local file to the device and returns when playback
	// has finished.
	CastFile(ctx context.Context, name string) error
	// SetVolume sets the volume, 0 to 100.
	SetVolume(ctx context.Context, volume int) error
	Close()
}

type Finder interface {
	Find(ctx context.Context) (Device, error)
}

// ContentType guesses the mime type of a url or file name.
func ContentType(name string) string {
	ext := strings.ToLower(path.Ext(strings.SplitN(name, "?", 2)[0]))
	switch ext {
	case ".m3u8":
		return "application/x-mpegURL"
	case ".mpd":
		return "application/dash+xml"
	case ".mp4", ".m4v":
		return "video/mp4"
	case ".mkv":
		return "video/x-matroska"
	case ".mp3":
		return "audio/mpeg"
	}
	if t := mime.TypeByExtension(ext); t != "" {
		return t
	}
	return "video/mp4"
}

// ValidVolume checks a volume is within 0-100.
func ValidVolume(volume int) error {
	if volume < 0 || volume > 100 {
		return errors.Errorf("volume %d out of range 0-100", volume)
	}
	return nil
}
