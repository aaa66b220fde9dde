package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rpimedia/rpimedia/jobs"
	"github.com/rpimedia/rpimedia/services"
)

var jobCmd = &cobra.Command{
	Use:   "job <name>",
	Short: "Run a lock-guarded playback job",
	Long: `Run a playback job, as scheduled from cron. The job is skipped when
another run holds its lock, or when its condition does not match what the
Chromecast is showing.

Examples:
  rpimedia job ensure_video_is_playing
  rpimedia job play_sessao_da_tarde`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signalContext()
		defer cancel()
		runner := jobs.NewRunner(services.Config, services.Finder())
		return runner.RunNamed(ctx, args[0])
	},
}

var jobsCmd = &cobra.Command{
	Use:   "jobs",
	Short: "List configured jobs",
	Run: func(cmd *cobra.Command, args []string) {
		conf := services.Config
		for _, name := range conf.JobNames() {
			job := conf.Jobs[name]
			fmt.Printf("%-26s %-14s %s\n", name, job.Schedule, job.Action.Type)
		}
	},
}

func init() {
	rootCmd.AddCommand(jobCmd)
	rootCmd.AddCommand(jobsCmd)
}
