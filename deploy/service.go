package deploy

import (
	"bytes"
	"context"
	"io/ioutil"
	"log"
	"os"
	"path"
	"strings"
	"text/template"

	"github.com/pkg/errors"

	"github.com/rpimedia/rpimedia/config"
	"github.com/rpimedia/rpimedia/lib/command"
	"github.com/rpimedia/rpimedia/util"
)

var unitTemplate = template.Must(template.New("unit").Funcs(template.FuncMap{
	"join": strings.Join,
}).Parse(`[Unit]
Description=rpimedia media controller
After=network-online.target sound.target

[Service]
{{- if .Workdir}}
WorkingDirectory={{.Workdir}}
{{- end}}
ExecStart={{.Binary}} {{join .Args " "}}
Restart=always
RestartSec=5

[Install]
WantedBy=default.target
`))

// UnitDir is where systemd looks for user units.
func UnitDir() string {
	return util.ExpandUser("~/.config/systemd/user")
}

// Binary is the rpimedia executable named in the unit and the crontab.
func Binary(conf config.ServiceConf) string {
	if conf.Binary != "" {
		return conf.Binary
	}
	if exe, err := os.Executable(); err == nil {
		return exe
	}
	return "rpimedia"
}

func UnitName(conf config.ServiceConf) string {
	return conf.Name + ".service"
}

// RenderUnit renders the systemd user unit running the daemon.
func RenderUnit(conf config.ServiceConf) (string, error) {
	data := struct {
		Binary  string
		Workdir string
		Args    []string
	}{Binary(conf), util.ExpandUser(conf.Workdir), conf.Args}
	var buf bytes.Buffer
	if err := unitTemplate.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// SetupService installs and starts the unit.
func SetupService(ctx context.Context, runner command.Runner, conf config.ServiceConf, unitDir string) error {
	unit, err := RenderUnit(conf)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(unitDir, 0755); err != nil {
		return err
	}
	file := path.Join(unitDir, UnitName(conf))
	if err := ioutil.WriteFile(file, []byte(unit), 0644); err != nil {
		return errors.Wrap(err, "writing unit")
	}
	log.Printf("Wrote %s", file)

	if err := runner.Run(ctx, "systemctl", "--user", "daemon-reload"); err != nil {
		return err
	}
	return runner.Run(ctx, "systemctl", "--user", "enable", "--now", UnitName(conf))
}

// TailLogs follows the service journal.
func TailLogs(ctx context.Context, runner command.Runner, conf config.ServiceConf) error {
	return runner.Run(ctx, "journalctl", "--user-unit="+UnitName(conf), "-f", "-n", "50")
}
