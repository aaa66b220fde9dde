package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/rpimedia/rpimedia/config"
	"github.com/rpimedia/rpimedia/services"
	"github.com/rpimedia/rpimedia/services/cast"
	"github.com/rpimedia/rpimedia/services/controller"
	"github.com/rpimedia/rpimedia/services/hwmon"
	"github.com/rpimedia/rpimedia/services/ipc"
	"github.com/rpimedia/rpimedia/services/keyboard"
	"github.com/rpimedia/rpimedia/services/lirc"
	"github.com/rpimedia/rpimedia/services/mqtt"
)

var version = "dev"

var configFile string

var rootCmd = &cobra.Command{
	Use:   "rpimedia",
	Short: "Media playback automation for a Chromecast and a Raspberry Pi",
	Long: `rpimedia - media playback automation

Keeps the TV playing: a daemon turns key presses and IPC events into
playback, and cron jobs start scheduled videos unless something else is
already on.

Run 'rpimedia run' to start the daemon.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		services.SetupLogging()
		conf, err := config.OpenFile(configFile)
		if err != nil {
			return err
		}
		services.Setup(conf)
		return nil
	},
}

func registerServices() {
	services.Register(&cast.Service{})
	services.Register(&controller.Service{})
	services.Register(&hwmon.Service{})
	services.Register(&ipc.Service{})
	services.Register(&keyboard.Service{})
	services.Register(&lirc.Service{})
	services.Register(&mqtt.Service{})
}

// signalContext is cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", config.ConfigPath("rpimedia.yml"), "Config file")
	rootCmd.Version = version
	rootCmd.SetVersionTemplate("rpimedia {{.Version}}\n")
}

func main() {
	registerServices()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
