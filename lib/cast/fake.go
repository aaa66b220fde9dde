package cast

import (
	"context"
	"sync"
)

// FakeDevice is a Device for testing, recording what was asked of it.
type FakeDevice struct {
	DeviceName string
	// Infos are returned in turn by MediaInfo, the last one repeating.
	Infos  []*MediaInfo
	Errors []error

	Casts   []string
	Volumes []int
	Closed  bool
	Calls   int
	lock    sync.Mutex
}

func (self *FakeDevice) Name() string {
	return self.DeviceName
}

func (self *FakeDevice) MediaInfo(ctx context.Context) (*MediaInfo, error) {
	self.lock.Lock()
	defer self.lock.Unlock()
	i := self.Calls
	self.Calls++
	var err error
	if i < len(self.Errors) {
		err = self.Errors[i]
	}
	if err != nil {
		return nil, err
	}
	if len(self.Infos) == 0 {
		return nil, nil
	}
	if i >= len(self.Infos) {
		i = len(self.Infos) - 1
	}
	return self.Infos[i], nil
}

func (self *FakeDevice) CastURL(ctx context.Context, url string, contentType string) error {
	self.lock.Lock()
	defer self.lock.Unlock()
	self.Casts = append(self.Casts, url)
	return nil
}

func (self *FakeDevice) CastFile(ctx context.Context, name string) error {
	self.lock.Lock()
	defer self.lock.Unlock()
	self.Casts = append(self.Casts, "file://"+name)
	return nil
}

func (self *FakeDevice) SetVolume(ctx context.Context, volume int) error {
	if err := ValidVolume(volume); err != nil {
		return err
	}
	self.lock.Lock()
	defer self.lock.Unlock()
	self.Volumes = append(self.Volumes, volume)
	return nil
}

func (self *FakeDevice) Close() {
	self.Closed = true
}

// FakeFinder always finds Device, or fails with Err.
type FakeFinder struct {
	Device *FakeDevice
	Err    error
}

func (self *FakeFinder) Find(ctx context.Context) (Device, error) {
	if self.Err != nil {
		return nil, self.Err
	}
	return self.Device, nil
}

// Playing builds the media info of a titled item in progress.
func Playing(title string, currentTime float64) *MediaInfo {
	state := "PLAYING"
	return &MediaInfo{
		Title:       &title,
		PlayerState: &state,
		CurrentTime: &currentTime,
	}
}
