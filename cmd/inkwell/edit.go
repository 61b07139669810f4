package main

import (
	"os"

	"github.com/pennwright/inkwell/internal/assistant"
	"github.com/pennwright/inkwell/internal/repl"
	"github.com/pennwright/inkwell/internal/telemetry"

	"github.com/spf13/cobra"
)

var editCmd = &cobra.Command{
	Use:   "edit [file]",
	Short: "Start the interactive editing shell",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		recorder := telemetry.NewRecorder(cfg.Telemetry.Endpoint, cfg.Telemetry.StateDir)
		controller := assistant.NewController(cfg.Model, cfg.Assistant, recorder)

		handler := NewSignalHandler(cmd.Context())
		handler.Start()
		defer handler.Stop()

		shell := repl.New(controller, os.Stdin, os.Stdout)
		if len(args) == 1 {
			return shell.RunWithFile(handler.Context(), args[0])
		}
		return shell.Run(handler.Context())
	},
}

func init() {
	rootCmd.AddCommand(editCmd)
}
