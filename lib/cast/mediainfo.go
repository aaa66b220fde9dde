package cast

import (
	"bytes"
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/pkg/errors"
)

// MediaInfo is what the display is currently showing. Absent values render
// as null.
type MediaInfo struct {
	Title       *string  `json:"title"`
	ContentID   *string  `json:"content_id"`
	ContentType *string  `json:"content_type"`
	DisplayName *string  `json:"display_name"`
	StatusText  *string  `json:"status_text"`
	PlayerState *string  `json:"player_state"`
	CurrentTime *float64 `json:"current_time"`
	Duration    *float64 `json:"duration"`
	VolumeLevel *float64 `json:"volume_level"`
	VolumeMuted *bool    `json:"volume_muted"`
}

// Text renders the media info as indented JSON. A nil info renders empty.
func (m *MediaInfo) Text() string {
	if m == nil {
		return ""
	}
	buf := &bytes.Buffer{}
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	enc.Encode(m)
	return buf.String()
}

// Fields flattens the info for expression evaluation. Absent strings are
// empty and absent numbers zero, so expressions need no nil checks.
func (m *MediaInfo) Fields() map[string]interface{} {
	if m == nil {
		m = &MediaInfo{}
	}
	return map[string]interface{}{
		"title":        str(m.Title),
		"content_id":   str(m.ContentID),
		"content_type": str(m.ContentType),
		"display_name": str(m.DisplayName),
		"status_text":  str(m.StatusText),
		"player_state": str(m.PlayerState),
		"current_time": num(m.CurrentTime),
		"duration":     num(m.Duration),
		"volume_level": num(m.VolumeLevel),
		"volume_muted": m.VolumeMuted != nil && *m.VolumeMuted,
		"playing":      m.Title != nil,
	}
}

// HasTitle is true when something identifiable is playing.
func (m *MediaInfo) HasTitle() bool {
	return m != nil && m.Title != nil && *m.Title != ""
}

func str(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func num(f *float64) float64 {
	if f == nil {
		return 0
	}
	return *f
}

func strPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// FetchMediaInfo finds a device and asks it for media info up to retries
// times, sleeping between attempts, until some info is returned. A nil info
// with no error means the device is idle.
func FetchMediaInfo(ctx context.Context, finder Finder, retries int, sleep time.Duration) (*MediaInfo, error) {
	if retries < 1 {
		return nil, errors.New("retries must be at least 1")
	}

	device, err := finder.Find(ctx)
	if err != nil {
		return nil, err
	}
	defer device.Close()

	var info *MediaInfo
	for attempt := 0; attempt < retries; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(sleep):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		info, err = device.MediaInfo(ctx)
		if err != nil {
			log.Printf("Attempt %d/%d: Error getting info - %s", attempt+1, retries, err)
			continue
		}
		if info != nil {
			break
		}
		log.Printf("Attempt %d/%d: No media info available", attempt+1, retries)
	}
	return info, nil
}
