package deploy

import (
	"context"
	"fmt"
	"io/ioutil"
	"os"
	"path"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rpimedia/rpimedia/config"
	"github.com/rpimedia/rpimedia/lib/command"
)

func ExampleRsyncArgs() {
	conf := config.ExampleConfig.Deploy
	fmt.Println(strings.Join(RsyncArgs(conf), " "))
	// Output:
	// -az --delete --exclude .git --exclude _examples --exclude *.lock --exclude data/ ./ 192.168.0.20:/home/pi/rpimedia/
}

func TestDeployStable(t *testing.T) {
	rec := &command.Recorder{}
	conf := config.DeployConf{Host: "rpi", Path: "~/rpimedia/", Source: "."}
	require.NoError(t, Deploy(context.Background(), rec, conf))
	require.NoError(t, Deploy(context.Background(), rec, conf))
	lines := rec.Lines()
	assert.Equal(t, "rsync -az --delete ./ rpi:~/rpimedia/", lines[0])
	assert.Equal(t, lines[0], lines[1])
}

func ExampleRenderUnit() {
	unit, _ := RenderUnit(config.ExampleConfig.Service)
	fmt.Print(unit)
	// Output:
	// [Unit]
	// Description=rpimedia media controller
	// After=network-online.target sound.target
	//
	// [Service]
	// WorkingDirectory=/home/pi/rpimedia
	// ExecStart=/home/pi/bin/rpimedia run controller keyboard ipc
	// Restart=always
	// RestartSec=5
	//
	// [Install]
	// WantedBy=default.target
}

func TestSetupService(t *testing.T) {
	dir, err := ioutil.TempDir("", "unit")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	rec := &command.Recorder{}
	conf := config.ExampleConfig.Service
	require.NoError(t, SetupService(context.Background(), rec, conf, path.Join(dir, "systemd", "user")))

	data, err := ioutil.ReadFile(path.Join(dir, "systemd", "user", "rpimedia.service"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "Restart=always")
	assert.Equal(t, []string{
		"systemctl --user daemon-reload",
		"systemctl --user enable --now rpimedia.service",
	}, rec.Lines())
}

func TestTailLogs(t *testing.T) {
	rec := &command.Recorder{}
	require.NoError(t, TailLogs(context.Background(), rec, config.ExampleConfig.Service))
	assert.Equal(t, []string{"journalctl --user-unit=rpimedia.service -f -n 50"}, rec.Lines())
}

func ExampleRenderCrontab() {
	fmt.Print(RenderCrontab(config.ExampleConfig))
	// Output:
	// # rpimedia jobs, installed by: rpimedia setup crontab
	// */2 * * * * cd /home/pi/rpimedia && /home/pi/bin/rpimedia job check_idle >> /tmp/rpimedia-cron.log 2>&1
	// */5 * * * * cd /home/pi/rpimedia && /home/pi/bin/rpimedia job ensure_video_is_playing >> /tmp/rpimedia-cron.log 2>&1
	// 30 7 * * * cd /home/pi/rpimedia && /home/pi/bin/rpimedia job play_musica >> /tmp/rpimedia-cron.log 2>&1
	// 0 15 * * * cd /home/pi/rpimedia && /home/pi/bin/rpimedia job play_sessao_da_tarde >> /tmp/rpimedia-cron.log 2>&1
	// 0 10 * * 6,0 cd /home/pi/rpimedia && /home/pi/bin/rpimedia job play_viagens_brasil >> /tmp/rpimedia-cron.log 2>&1
	// */15 * * * * cd /home/pi/rpimedia && /home/pi/bin/rpimedia mute-before-dawn 06:30 35 >> /tmp/rpimedia-cron.log 2>&1
}

func TestSetupCrontab(t *testing.T) {
	dir, err := ioutil.TempDir("", "crontab")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	conf, err := config.OpenRaw([]byte(config.ExampleYaml))
	require.NoError(t, err)
	conf.Service.Crontab = path.Join(dir, "rpimedia", "prod.crontab")

	rec := &command.Recorder{}
	require.NoError(t, SetupCrontab(context.Background(), rec, conf))
	data, err := ioutil.ReadFile(conf.Service.Crontab)
	require.NoError(t, err)
	assert.Equal(t, RenderCrontab(conf), string(data))
	assert.Equal(t, []string{"crontab " + conf.Service.Crontab}, rec.Lines())
}

func TestStatus(t *testing.T) {
	rec := &command.Recorder{Outputs: map[string]string{"systemctl": `MainPID=21805
ExecMainStartTimestamp=Thu 2024-08-27 17:36:49 BST
Id=rpimedia.service
ActiveState=active
`}}
	out, err := Status(context.Background(), rec, config.ExampleConfig.Service)
	require.NoError(t, err)
	lines := strings.Split(out, "\n")
	assert.True(t, strings.HasPrefix(lines[0], "Process "))
	assert.True(t, strings.HasPrefix(lines[1], "rpimedia "))
	assert.Contains(t, lines[1], " running ")
	assert.Contains(t, lines[1], " 21805 ")
	assert.Equal(t, []string{"systemctl --user show --property=Id,MainPID,ActiveState,ExecMainStartTimestamp rpimedia.service"}, rec.Lines())
}

func TestParseShowOutput(t *testing.T) {
	ret := parseShowOutput(strings.NewReader(`MainPID=0
ExecMainStartTimestamp=Thu 2015-08-27 19:19:13 BST
Id=rpimedia.service
ActiveState=failed

MainPID=21805
ExecMainStartTimestamp=Thu 2015-08-27 17:36:49 BST
Id=rpimedia-test.service
ActiveState=active
`))
	assert.Equal(t, []UnitStatus{
		{Process: "rpimedia", Status: "failed", Started: "Thu 2015-08-27 19:19:13 BST"},
		{Process: "rpimedia-test", Status: "running", MainPid: "21805", Started: "Thu 2015-08-27 17:36:49 BST"},
	}, ret)
}

func TestWriteTable(t *testing.T) {
	out := writeTable([][]string{{"a", "bb"}, {"ccc", "d"}})
	assert.Equal(t, "a   bb \nccc d  \n", out)
}
