package config

var ExampleYaml = `
cast:
  device: Sala
  discovery_timeout: 5s
media_info:
  retries: 2
  sleep: 1s
controller:
  volume_step: 10%
  keys:
    c:
      action: youtube
      target: ha-Ag0lQmN0
    b:
      action: video
      target: data/ze-freitas.mp4
    "3":
      action: volume_up
lirc:
  buttons:
    KEY_RED: c
    KEY_VOLUMEUP: "3"
sessao_da_tarde:
  dir: /srv/media/sessao_da_tarde
mute_before_dawn:
  start: "06:30"
  volume: 35
  schedule: "*/15 * * * *"
jobs:
  play_musica:
    schedule: "30 7 * * *"
    condition:
      pattern: TV Aparecida
    action:
      type: send_event
      kind: keyboard_input
      key: b
      max_enqueued_videos: 0
  check_idle:
    schedule: "*/2 * * * *"
    condition:
      when: player_state != 'PLAYING'
    action:
      type: cast
      url: http://example.com/aparecida.m3u8
deploy:
  host: 192.168.0.20
  path: /home/pi/rpimedia
service:
  binary: /home/pi/bin/rpimedia
  workdir: /home/pi/rpimedia
`

var ExampleConfig = mustOpen(ExampleYaml)

func mustOpen(yml string) *Config {
	conf, err := OpenRaw([]byte(yml))
	if err != nil {
		panic(err)
	}
	return conf
}
