package cast

import (
	"encoding/json"
)

const (
	defaultMediaReceiver = "CC1AD845"
	backdrop             = "E8C28D3C"
)

// Decoded forms of the receiver and media status payloads. They are read
// from the wire json so only the fields used here need to exist.
type receiverStatus struct {
	Applications []struct {
		AppID       string `json:"appId"`
		DisplayName string `json:"displayName"`
		StatusText  string `json:"statusText"`
		IsIdle      bool   `json:"isIdleScreen"`
	} `json:"applications"`
	Volume *struct {
		Level *float64 `json:"level"`
		Muted *bool    `json:"muted"`
	} `json:"volume"`
}

type mediaStatus struct {
	PlayerState string   `json:"playerState"`
	CurrentTime *float64 `json:"currentTime"`
	IdleReason  string   `json:"idleReason"`
	Media       *struct {
		ContentID   string   `json:"contentId"`
		ContentType string   `json:"contentType"`
		Duration    *float64 `json:"duration"`
		Metadata    *struct {
			Title string `json:"title"`
		} `json:"metadata"`
	} `json:"media"`
}

type mediaStatusResponse struct {
	Status []mediaStatus `json:"status"`
}

// recode converts a go-cast payload into one of the structs above.
func recode(from interface{}, to interface{}) error {
	data, err := json.Marshal(from)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, to)
}

// appID of the running application, empty when idle.
func (s *receiverStatus) appID() string {
	for _, app := range s.Applications {
		if app.IsIdle || app.AppID == backdrop {
			continue
		}
		return app.AppID
	}
	return ""
}

// info builds media info from the receiver status alone, nil when no
// application is running.
func (s *receiverStatus) info() *MediaInfo {
	for _, app := range s.Applications {
		if app.IsIdle || app.AppID == backdrop {
			continue
		}
		info := &MediaInfo{
			DisplayName: strPtr(app.DisplayName),
			StatusText:  strPtr(app.StatusText),
		}
		if app.AppID != defaultMediaReceiver {
			// other apps only expose their status text
			info.Title = strPtr(app.StatusText)
		}
		if s.Volume != nil {
			info.VolumeLevel = s.Volume.Level
			info.VolumeMuted = s.Volume.Muted
		}
		return info
	}
	return nil
}

// apply adds the first media session to info.
func (r *mediaStatusResponse) apply(info *MediaInfo) {
	if len(r.Status) == 0 {
		return
	}
	status := r.Status[0]
	info.PlayerState = strPtr(status.PlayerState)
	info.CurrentTime = status.CurrentTime
	if media := status.Media; media != nil {
		info.ContentID = strPtr(media.ContentID)
		info.ContentType = strPtr(media.ContentType)
		info.Duration = media.Duration
		if media.Metadata != nil && media.Metadata.Title != "" {
			info.Title = strPtr(media.Metadata.Title)
		}
	}
}

// finished is true once a session has ended.
func (r *mediaStatusResponse) finished() bool {
	if len(r.Status) == 0 {
		return true
	}
	status := r.Status[0]
	return status.PlayerState == "IDLE" && status.IdleReason != ""
}
