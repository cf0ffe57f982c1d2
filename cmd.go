package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/manuel-koch/go-serial-hud/internal/config"
)

var (
	// these vars will be set on build time
	versionTag  string
	versionSha1 string
	buildDate   string
)

func buildInfo() string {
	return fmt.Sprintf("v%s\nbuilt %s\ncommit sha1 %s", versionTag, buildDate, versionSha1)
}

func newRootCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "serial-hud",
		Short: "Plot a measurement stream read from a serial device",
		Long: `serial-hud reads one number per line from a serial device and charts the
raw value, its average, a rolling average and the maximum over the most recent samples.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath, cmd.Flags())
			if err != nil {
				return err
			}
			return run(cmd.Context(), cfg)
		},
	}

	d := config.DefaultConfig()
	flags := cmd.Flags()
	flags.StringVar(&configPath, "config", "", "config file (default: serial-hud.yaml in ., ~/.config/serial-hud or /etc/serial-hud)")
	flags.StringSlice("device", d.Device.Candidates, "candidate device paths, the first existing one is used")
	flags.Int("baud", d.Device.Baud, "baud rate")
	flags.Int("max-count", d.Series.MaxCount, "number of samples kept in history")
	flags.String("accept", d.Series.Accept, "parsed values accepted as samples: positive, non_negative or any")
	flags.Bool("log", d.Log.Enabled, "append accepted samples to the sample log")
	flags.String("log-path", d.Log.Path, "path of the sample log, replaced on startup")
	flags.Duration("interval", d.Render.Interval, "chart refresh interval")
	flags.Bool("headless", d.Render.Headless, "log sample summaries instead of opening a window")
	flags.String("log-level", d.Logging.Level, "log level, one of debug, info, warn, error")

	cmd.AddCommand(newVersionCmd())
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), buildInfo())
		},
	}
}
