package main

import (
	"fmt"
	"os"

	"github.com/pennwright/inkwell/internal/config"
	"github.com/pennwright/inkwell/internal/logger"

	"github.com/spf13/cobra"
)

var (
	cfgFile string
	cfg     *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "inkwell",
	Short: "Inkwell writing assistant",
	Long:  `Inkwell is an AI writing assistant for interactive fiction with one-level undo.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(cmd)
		if err != nil {
			return err
		}

		logger.Setup(cfg.Server.LogLevel)
		return nil
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.inkwell/config.yaml)")
	rootCmd.PersistentFlags().String("server.log_level", config.DefaultServerLogLevel, "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("model.provider", config.DefaultModelProvider, "model backend (gemini, openai, anthropic)")
	rootCmd.PersistentFlags().String("model.name", "", "model name override")
}
