package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/rpimedia/rpimedia/config"
	"github.com/rpimedia/rpimedia/lib/cast"
	"github.com/rpimedia/rpimedia/media"
	"github.com/rpimedia/rpimedia/services"
	"github.com/rpimedia/rpimedia/services/ipc"
	"github.com/rpimedia/rpimedia/util"
)

var mediaInfoCmd = &cobra.Command{
	Use:   "media-info",
	Short: "Print what the Chromecast is playing",
	Long: `Print the current media info as JSON. Prints nothing when the
Chromecast is idle, and fails when no Chromecast is found.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		retries, sleep, err := mediaInfoOptions(cmd, services.Config.MediaInfo)
		if err != nil {
			return err
		}
		ctx, cancel := signalContext()
		defer cancel()
		info, err := cast.FetchMediaInfo(ctx, services.Finder(), retries, sleep)
		if err != nil {
			return err
		}
		fmt.Print(info.Text())
		return nil
	},
}

// mediaInfoOptions applies the flags given over the configured options.
func mediaInfoOptions(cmd *cobra.Command, conf config.MediaInfoConf) (int, time.Duration, error) {
	retries, sleep := conf.Retries, conf.Sleep
	if cmd.Flags().Changed("retries") {
		retries, _ = cmd.Flags().GetInt("retries")
	}
	if cmd.Flags().Changed("sleep") {
		s, _ := cmd.Flags().GetString("sleep")
		d, err := util.ParseSeconds(s)
		if err != nil {
			return 0, 0, err
		}
		sleep = d
	}
	return retries, sleep, nil
}

var checkCmd = &cobra.Command{
	Use:   "check <url>",
	Short: "Cast url when nothing is playing",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signalContext()
		defer cancel()
		_, err := media.CheckAndCast(ctx, services.Finder(), args[0])
		return err
	},
}

var sessaoCmd = &cobra.Command{
	Use:   "sessao-da-tarde",
	Short: "Cast today's afternoon film",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signalContext()
		defer cancel()
		return media.PlaySessaoDaTarde(ctx, services.Finder(), services.Config.Sessao.Dir, time.Now())
	},
}

var dawnCmd = &cobra.Command{
	Use:   "mute-before-dawn <HH:MM> <volume>",
	Short: "Set the volume by time of day",
	Long: `Set the Chromecast volume to 0 before the day start time (24 hour
HH:MM), otherwise to volume (0-100).

Examples:
  rpimedia mute-before-dawn 07:00 40`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		volume, err := strconv.Atoi(args[1])
		if err != nil {
			return errors.Errorf("invalid volume: %s", args[1])
		}
		ctx, cancel := signalContext()
		defer cancel()
		return media.MuteBeforeDawn(ctx, services.Finder(), args[0], volume, time.Now())
	},
}

var sendEventCmd = &cobra.Command{
	Use:   "send-event <kind> <key> [field=value...]",
	Short: "Send an event to the running daemon",
	Long: `Send an event to the daemon over its unix socket.

Examples:
  rpimedia send-event keyboard_input c
  rpimedia send-event keyboard_input b --max-enqueued-videos 0`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, data := util.ParseArgs(args[2:])
		data["key"] = args[1]
		if cmd.Flags().Changed("max-enqueued-videos") {
			max, _ := cmd.Flags().GetInt("max-enqueued-videos")
			data["max_enqueued_videos"] = max
		}
		ctx, cancel := signalContext()
		defer cancel()
		_, err := ipc.SendEvent(ctx, services.Config.IPC.Socket, args[0], data)
		return err
	},
}

func init() {
	mediaInfoCmd.Flags().Int("retries", 3, "Number of times to check status (default from config)")
	mediaInfoCmd.Flags().String("sleep", "2", "Seconds to wait between checks, or a duration like 500ms (default from config)")
	sendEventCmd.Flags().Int("max-enqueued-videos", 0, "Skip when more videos are already enqueued")

	rootCmd.AddCommand(mediaInfoCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(sessaoCmd)
	rootCmd.AddCommand(dawnCmd)
	rootCmd.AddCommand(sendEventCmd)
}
