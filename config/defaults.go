package config

import (
	"time"
)

const (
	// An idle display or a stalled stream. The fallback variant also matches
	// while the default channel is on.
	PatternIdle           = `^\s*$|"title": null|"current_time": 0`
	PatternIdleOrFallback = `TV Aparecida|^\s*$|"title": null`
)

func intPtr(i int) *int {
	return &i
}

// DefaultJobs are the scheduled playback jobs.
func DefaultJobs() map[string]JobConf {
	return map[string]JobConf{
		"ensure_video_is_playing": {
			Schedule:    "*/5 * * * *",
			Condition:   ConditionConf{Pattern: PatternIdle},
			Action:      ActionConf{Type: "send_event", Kind: "keyboard_input", Key: "c"},
			SkipMessage: "Something is already playing, skipping",
		},
		"play_sessao_da_tarde": {
			Schedule:    "0 15 * * *",
			Condition:   ConditionConf{Pattern: PatternIdleOrFallback},
			Action:      ActionConf{Type: "sessao_da_tarde"},
			SkipMessage: "TV Aparecida is not playing, skipping",
		},
		"play_viagens_brasil": {
			Schedule:    "0 10 * * 6,0",
			Condition:   ConditionConf{Pattern: PatternIdleOrFallback},
			Action:      ActionConf{Type: "send_event", Kind: "keyboard_input", Key: "f", MaxEnqueuedVideos: intPtr(0)},
			SkipMessage: "TV Aparecida is not playing, skipping",
		},
		"play_musica": {
			Schedule:    "0 8 * * *",
			Condition:   ConditionConf{Pattern: PatternIdleOrFallback},
			Action:      ActionConf{Type: "send_event", Kind: "keyboard_input", Key: "b", MaxEnqueuedVideos: intPtr(0)},
			SkipMessage: "TV Aparecida is not playing, skipping",
		},
	}
}

// DefaultKeys are the keyboard bindings of the media controller.
func DefaultKeys() map[string]KeyConf {
	return map[string]KeyConf{
		"3": {Action: "volume_up"},
		"1": {Action: "volume_down"},
		"2": {Action: "pause"},
		"c": {Action: "youtube", Target: "ha-Ag0lQmN0"},
		"f": {Action: "youtube", Target: "f_XTeWMoKxk"},
		"b": {Action: "video", Target: "data/ze-freitas.mp4"},
		"e": {Action: "video", Target: "data/toggle.mp4"},
		"a": {Action: "print", Target: "20"},
		"d": {Action: "print", Target: "21"},
	}
}

// newConfig holds the defaults where zero is a valid setting, so they are
// in place before loading.
func newConfig() *Config {
	return &Config{
		Dawn: DawnConf{Volume: 40},
	}
}

// mergeJob applies the fields set in over to a default job. A different
// action type replaces the whole action.
func mergeJob(job, over JobConf) JobConf {
	if over.Schedule != "" {
		job.Schedule = over.Schedule
	}
	if over.Lock != "" {
		job.Lock = over.Lock
	}
	if over.SkipMessage != "" {
		job.SkipMessage = over.SkipMessage
	}
	c := over.Condition
	if c.Pattern != "" || c.When != "" || c.Negate {
		job.Condition = c
	}

	a := over.Action
	if a.Type != "" && a.Type != job.Action.Type {
		job.Action = a
		return job
	}
	if a.Kind != "" {
		job.Action.Kind = a.Kind
	}
	if a.Key != "" {
		job.Action.Key = a.Key
	}
	if a.Url != "" {
		job.Action.Url = a.Url
	}
	if a.Command != nil {
		job.Action.Command = a.Command
	}
	if a.MaxEnqueuedVideos != nil {
		job.Action.MaxEnqueuedVideos = a.MaxEnqueuedVideos
	}
	return job
}

func (self *Config) setDefaults() {
	if self.Cast.Port == 0 {
		self.Cast.Port = 8009
	}
	if self.Cast.DiscoveryTimeout == 0 {
		self.Cast.DiscoveryTimeout = 10 * time.Second
	}
	if self.Cast.Serve == "" {
		self.Cast.Serve = ":8011"
	}
	if self.Cast.PollInterval == 0 {
		self.Cast.PollInterval = 5 * time.Second
	}
	if self.MediaInfo.Retries == 0 {
		self.MediaInfo.Retries = 3
	}
	if self.MediaInfo.Sleep == 0 {
		self.MediaInfo.Sleep = 2 * time.Second
	}

	c := &self.Controller
	if c.VolumeStep == "" {
		c.VolumeStep = "20%"
	}
	if c.MinDuration == 0 {
		c.MinDuration = 180 * time.Second
	}
	if c.MaxAttempts == 0 {
		c.MaxAttempts = 5
	}
	if len(c.YoutubeCmd) == 0 {
		c.YoutubeCmd = []string{"mpv", "--really-quiet", "--ytdl-format=94,18"}
	}
	if len(c.VideoCmd) == 0 {
		c.VideoCmd = []string{"cvlc", "--quiet", "--no-keyboard-events", "--loop"}
	}
	if len(c.MixerCmd) == 0 {
		c.MixerCmd = []string{"amixer", "--quiet", "-M", "set", "Master"}
	}
	if c.Keys == nil {
		c.Keys = DefaultKeys()
	}

	if self.Keyboard.Device == "" {
		self.Keyboard.Device = "/dev/input/event0"
	}
	if self.IPC.Socket == "" {
		self.IPC.Socket = "~/.rpimedia/event.sock"
	}
	if self.Lirc.Socket == "" {
		self.Lirc.Socket = "/var/run/lirc/lircd"
	}
	if self.Sessao.Dir == "" {
		self.Sessao.Dir = "data/sessao_da_tarde"
	}
	if self.Dawn.Start == "" {
		self.Dawn.Start = "07:00"
	}

	if self.Jobs == nil {
		self.Jobs = map[string]JobConf{}
	}
	for name, job := range DefaultJobs() {
		if over, ok := self.Jobs[name]; ok {
			job = mergeJob(job, over)
		}
		self.Jobs[name] = job
	}

	if self.Deploy.Host == "" {
		self.Deploy.Host = "rpi"
	}
	if self.Deploy.Path == "" {
		self.Deploy.Path = "~/rpimedia"
	}
	if self.Deploy.Source == "" {
		self.Deploy.Source = "./"
	}
	if self.Deploy.Exclude == nil {
		self.Deploy.Exclude = []string{".git", "_examples", "*.lock", "data/"}
	}

	if self.Service.Name == "" {
		self.Service.Name = "rpimedia"
	}
	if self.Service.Args == nil {
		self.Service.Args = []string{"run", "controller", "keyboard", "ipc"}
	}
	if self.Service.Crontab == "" {
		self.Service.Crontab = ConfigPath("prod.crontab")
	}
	if self.Service.LogFile == "" {
		self.Service.LogFile = "/tmp/rpimedia-cron.log"
	}
}
