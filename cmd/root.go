package cmd

import (
	"fmt"
	"os"

	"propstore/core/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var configFile string

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "propstore",
	Short: "Property Store Service",
	Long: `Property Store keeps named text and JSON properties on disk and
serves them over a token protected HTTP API.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		// Console output with ISO8601 timestamps reads better on a terminal.
		cfg := &logger.Config{
			Level:  "debug",
			Format: "console",
		}

		l, logErr := logger.New(cfg)
		if logErr == nil {
			l.Error("command failed", zap.Error(err))
			_ = l.Sync()
		} else {
			fmt.Println(err)
		}
		os.Exit(1)
	}
}

func init() {
	RootCmd.PersistentFlags().StringVar(&configFile, "config", "", "optional YAML or JSON config file")
}
