// The rpimedia media box
//
// Keeps a Chromecast connected TV playing something sensible: a live channel
// by default, scheduled films and music at set times, never interrupting
// something someone chose to watch.
//
// Features
//
// - Media controller daemon (keyboard, IR remote and IPC driven)
//
// - Lock guarded cron jobs conditioned on what the Chromecast shows
//
// - Afternoon film picked per day from a local library
//
// - Volume muted before dawn
//
// - Events republished over MQTT
//
// - Deployment by rsync, systemd user unit and crontab
package rpimedia
