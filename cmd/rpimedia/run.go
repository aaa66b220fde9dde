package main

import (
	"github.com/spf13/cobra"

	"github.com/rpimedia/rpimedia/config"
	"github.com/rpimedia/rpimedia/services"
)

var runCmd = &cobra.Command{
	Use:   "run [service...]",
	Short: "Run the media daemon",
	Long: `Run the media daemon services until interrupted, or until q or ESC is
pressed on the keyboard.

Without arguments runs the controller, keyboard and ipc services, plus lirc
when buttons are mapped. With an mqtt broker configured, the cast watcher and
hardware temperatures are published too.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			args = defaultServices(services.Config)
		}
		ctx, cancel := signalContext()
		defer cancel()
		return services.Launch(ctx, args)
	},
}

func defaultServices(conf *config.Config) []string {
	ss := []string{"controller", "keyboard", "ipc"}
	if len(conf.Lirc.Buttons) > 0 {
		ss = append(ss, "lirc")
	}
	if conf.Endpoints.Mqtt.Broker != "" {
		ss = append(ss, "cast", "hwmon", "mqtt")
	}
	return ss
}

var servicesCmd = &cobra.Command{
	Use:   "services",
	Short: "List the daemon services",
	Run: func(cmd *cobra.Command, args []string) {
		for _, name := range services.Registered() {
			cmd.Println(name)
		}
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(servicesCmd)
}
