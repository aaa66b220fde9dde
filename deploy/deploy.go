// Package deploy installs rpimedia on the media host: syncing the tree,
// installing the systemd unit and the crontab, and following the logs.
package deploy

import (
	"context"
	"strings"

	"github.com/rpimedia/rpimedia/config"
	"github.com/rpimedia/rpimedia/lib/command"
)

// RsyncArgs for a one way sync of the source tree to the host. The same
// configuration always gives the same command line.
func RsyncArgs(conf config.DeployConf) []string {
	args := []string{"-az", "--delete"}
	for _, ex := range conf.Exclude {
		args = append(args, "--exclude", ex)
	}
	source := conf.Source
	if !strings.HasSuffix(source, "/") {
		source += "/"
	}
	dest := strings.TrimSuffix(conf.Path, "/") + "/"
	return append(args, source, conf.Host+":"+dest)
}

// Deploy syncs the tree to the remote host.
func Deploy(ctx context.Context, runner command.Runner, conf config.DeployConf) error {
	return runner.Run(ctx, "rsync", RsyncArgs(conf)...)
}
