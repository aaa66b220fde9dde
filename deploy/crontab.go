package deploy

import (
	"bytes"
	"context"
	"fmt"
	"io/ioutil"
	"log"
	"os"
	"path"

	"github.com/pkg/errors"

	"github.com/rpimedia/rpimedia/config"
	"github.com/rpimedia/rpimedia/lib/command"
	"github.com/rpimedia/rpimedia/util"
)

// RenderCrontab renders one line per scheduled job, plus the dawn volume
// when it has a schedule. Output is appended to the service log file.
func RenderCrontab(conf *config.Config) string {
	var buf bytes.Buffer
	binary := Binary(conf.Service)
	prefix := ""
	if conf.Service.Workdir != "" {
		prefix = fmt.Sprintf("cd %s && ", util.ExpandUser(conf.Service.Workdir))
	}
	redirect := fmt.Sprintf(">> %s 2>&1", conf.Service.LogFile)

	fmt.Fprintln(&buf, "# rpimedia jobs, installed by: rpimedia setup crontab")
	for _, name := range conf.JobNames() {
		job := conf.Jobs[name]
		if job.Schedule == "" {
			continue
		}
		fmt.Fprintf(&buf, "%s %s%s job %s %s\n", job.Schedule, prefix, binary, name, redirect)
	}
	if conf.Dawn.Schedule != "" {
		fmt.Fprintf(&buf, "%s %s%s mute-before-dawn %s %d %s\n",
			conf.Dawn.Schedule, prefix, binary, conf.Dawn.Start, conf.Dawn.Volume, redirect)
	}
	return buf.String()
}

// SetupCrontab writes the crontab file and installs it.
func SetupCrontab(ctx context.Context, runner command.Runner, conf *config.Config) error {
	file := conf.Service.Crontab
	if err := os.MkdirAll(path.Dir(file), 0755); err != nil {
		return err
	}
	if err := ioutil.WriteFile(file, []byte(RenderCrontab(conf)), 0644); err != nil {
		return errors.Wrap(err, "writing crontab")
	}
	log.Printf("Wrote %s", file)
	return runner.Run(ctx, "crontab", file)
}
