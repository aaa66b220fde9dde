package main

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/rpimedia/rpimedia/deploy"
	"github.com/rpimedia/rpimedia/lib/command"
	"github.com/rpimedia/rpimedia/services"
)

var deployCmd = &cobra.Command{
	Use:   "deploy",
	Short: "Sync the source tree to the media host",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signalContext()
		defer cancel()
		return deploy.Deploy(ctx, command.Default, services.Config.Deploy)
	},
}

var setupCmd = &cobra.Command{
	Use:   "setup [service|crontab]",
	Short: "Install the systemd unit and the crontab",
	Long: `Install and start the rpimedia systemd user unit, and install the
crontab of scheduled jobs. Either can be set up on its own.`,
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{"service", "crontab"},
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signalContext()
		defer cancel()
		conf := services.Config
		what := ""
		if len(args) > 0 {
			what = args[0]
		}
		switch what {
		case "", "service", "crontab":
		default:
			return errors.Errorf("unknown setup target: %s", what)
		}
		if what == "" || what == "service" {
			if err := deploy.SetupService(ctx, command.Default, conf.Service, deploy.UnitDir()); err != nil {
				return err
			}
		}
		if what == "" || what == "crontab" {
			if err := deploy.SetupCrontab(ctx, command.Default, conf); err != nil {
				return err
			}
		}
		return nil
	},
}

var logsCmd = &cobra.Command{
	Use:   "logs",
	Short: "Follow the service logs",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signalContext()
		defer cancel()
		return deploy.TailLogs(ctx, command.Default, services.Config.Service)
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the service status",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signalContext()
		defer cancel()
		out, err := deploy.Status(ctx, command.Default, services.Config.Service)
		if err != nil {
			return err
		}
		fmt.Print(out)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(deployCmd)
	rootCmd.AddCommand(setupCmd)
	rootCmd.AddCommand(logsCmd)
	rootCmd.AddCommand(statusCmd)
}
