package config

import (
	"io"
	"io/ioutil"
	"os"
	"path"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"

	"github.com/rpimedia/rpimedia/util"
)

type CastConf struct {
	// Device name to pick when several are discovered. Empty picks the first.
	Device           string        `yaml:"device" env:"RPIMEDIA_CAST_DEVICE"`
	Host             string        `yaml:"host" env:"RPIMEDIA_CAST_HOST"`
	Port             int           `yaml:"port" env:"RPIMEDIA_CAST_PORT"`
	DiscoveryTimeout time.Duration `yaml:"discovery_timeout" env:"RPIMEDIA_CAST_DISCOVERY_TIMEOUT"`
	// Listen address of the file server used to cast local files.
	Serve string `yaml:"serve" env:"RPIMEDIA_CAST_SERVE"`
	// Host the chromecast uses to reach the file server.
	Advertise string `yaml:"advertise" env:"RPIMEDIA_CAST_ADVERTISE"`
	// Interval between status polls while a local file is playing.
	PollInterval time.Duration `yaml:"poll_interval"`
}

type MediaInfoConf struct {
	Retries int           `yaml:"retries" env:"RPIMEDIA_MEDIA_INFO_RETRIES"`
	Sleep   time.Duration `yaml:"sleep" env:"RPIMEDIA_MEDIA_INFO_SLEEP"`
}

type KeyConf struct {
	Action string `yaml:"action"`
	Target string `yaml:"target"`
}

type ControllerConf struct {
	VolumeStep  string             `yaml:"volume_step"`
	MinDuration time.Duration      `yaml:"min_duration"`
	MaxAttempts int                `yaml:"max_attempts"`
	YoutubeCmd  []string           `yaml:"youtube_cmd"`
	VideoCmd    []string           `yaml:"video_cmd"`
	MixerCmd    []string           `yaml:"mixer_cmd"`
	Keys        map[string]KeyConf `yaml:"keys"`
}

type KeyboardConf struct {
	Device string `yaml:"device" env:"RPIMEDIA_KEYBOARD_DEVICE"`
	Grab   bool   `yaml:"grab"`
}

type IPCConf struct {
	Socket string `yaml:"socket" env:"RPIMEDIA_SOCKET"`
}

type LircConf struct {
	Socket  string            `yaml:"socket"`
	Buttons map[string]string `yaml:"buttons"`
}

type EndpointsConf struct {
	Mqtt struct {
		Broker string `yaml:"broker" env:"RPIMEDIA_MQTT"`
		// Topic filters to republish, "media/#" style. Empty means all.
		Topics []string `yaml:"topics"`
	} `yaml:"mqtt"`
}

type SessaoConf struct {
	Dir string `yaml:"dir" env:"RPIMEDIA_SESSAO_DIR"`
}

type DawnConf struct {
	Start    string `yaml:"start"`
	Volume   int    `yaml:"volume"`
	Schedule string `yaml:"schedule"`
}

type ConditionConf struct {
	// Regular expression matched against the media info text.
	Pattern string `yaml:"pattern"`
	Negate  bool   `yaml:"negate"`
	// Expression evaluated against the media info fields.
	When string `yaml:"when"`
}

type ActionConf struct {
	Type              string   `yaml:"type"`
	Kind              string   `yaml:"kind"`
	Key               string   `yaml:"key"`
	Url               string   `yaml:"url"`
	Command           []string `yaml:"command"`
	MaxEnqueuedVideos *int     `yaml:"max_enqueued_videos"`
}

type JobConf struct {
	Name        string        `yaml:"-"`
	Schedule    string        `yaml:"schedule"`
	Lock        string        `yaml:"lock"`
	Condition   ConditionConf `yaml:"condition"`
	Action      ActionConf    `yaml:"action"`
	SkipMessage string        `yaml:"skip_message"`
}

type DeployConf struct {
	Host    string   `yaml:"host" env:"RPIMEDIA_DEPLOY_HOST"`
	Path    string   `yaml:"path" env:"RPIMEDIA_DEPLOY_PATH"`
	Source  string   `yaml:"source"`
	Exclude []string `yaml:"exclude"`
}

type ServiceConf struct {
	Name    string   `yaml:"name"`
	Binary  string   `yaml:"binary" env:"RPIMEDIA_BINARY"`
	Workdir string   `yaml:"workdir"`
	Args    []string `yaml:"args"`
	Crontab string   `yaml:"crontab"`
	LogFile string   `yaml:"log_file"`
}

// Configuration structure
type Config struct {
	Cast       CastConf           `yaml:"cast"`
	MediaInfo  MediaInfoConf      `yaml:"media_info"`
	Controller ControllerConf     `yaml:"controller"`
	Keyboard   KeyboardConf       `yaml:"keyboard"`
	IPC        IPCConf            `yaml:"ipc"`
	Lirc       LircConf           `yaml:"lirc"`
	Endpoints  EndpointsConf      `yaml:"endpoints"`
	Sessao     SessaoConf         `yaml:"sessao_da_tarde"`
	Dawn       DawnConf           `yaml:"mute_before_dawn"`
	Jobs       map[string]JobConf `yaml:"jobs"`
	Deploy     DeployConf         `yaml:"deploy"`
	Service    ServiceConf        `yaml:"service"`
}

// Open configuration from disk. A missing file gives the defaults.
func Open() (*Config, error) {
	return OpenFile(ConfigPath("rpimedia.yml"))
}

// Open configuration from the named file.
func OpenFile(name string) (*Config, error) {
	file, err := os.Open(name)
	if os.IsNotExist(err) {
		return OpenRaw(nil)
	}
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return OpenReader(file)
}

// Open configuration from a reader.
func OpenReader(r io.Reader) (*Config, error) {
	data, err := ioutil.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return OpenRaw(data)
}

// Open configuration from []byte.
func OpenRaw(data []byte) (*Config, error) {
	self := newConfig()
	err := yaml.UnmarshalStrict(data, self)
	if err != nil {
		return nil, errors.Wrap(err, "parsing config")
	}
	if err := env.Parse(self); err != nil {
		return nil, errors.Wrap(err, "parsing environment")
	}
	self.setDefaults()

	for name, job := range self.Jobs {
		job.Name = name
		if job.Lock == "" {
			job.Lock = path.Join(os.TempDir(), "rpimedia-"+name+".lock")
		}
		self.Jobs[name] = job
	}
	return self, nil
}

// Job looks up a job by name.
func (self *Config) Job(name string) (JobConf, bool) {
	job, ok := self.Jobs[name]
	return job, ok
}

// JobNames returns the configured job names in order.
func (self *Config) JobNames() []string {
	return util.SortedKeys(self.Jobs)
}

// helpers

// Resolve a configuration file under .config/rpimedia
func ConfigPath(p string) string {
	config := os.Getenv("XDG_CONFIG_HOME")
	if config == "" {
		config = path.Join(os.Getenv("HOME"), ".config")
	}
	return path.Join(config, "rpimedia", p)
}
