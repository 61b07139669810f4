package main

import (
	"github.com/pennwright/inkwell/internal/config"
	"github.com/pennwright/inkwell/internal/telemetry"

	"github.com/spf13/cobra"
)

var collectCmd = &cobra.Command{
	Use:   "collect",
	Short: "Run the telemetry collector",
	Long:  `Receives telemetry events over HTTP and appends them to a JSONL file with scheduled rotation.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		handler := NewSignalHandler(cmd.Context())
		handler.Start()
		defer handler.Stop()

		collector := telemetry.NewCollector(cfg.Collector.Port, cfg.Collector.Output, cfg.Collector.RotateSchedule)
		return collector.Start(handler.Context())
	},
}

func init() {
	rootCmd.AddCommand(collectCmd)
	collectCmd.Flags().Int("collector.port", config.DefaultCollectorPort, "listen port")
	collectCmd.Flags().String("collector.output", config.DefaultCollectorOutput, "output file path")
	collectCmd.Flags().String("collector.rotate_schedule", config.DefaultCollectorRotateSchedule, "cron rotation schedule")
}
