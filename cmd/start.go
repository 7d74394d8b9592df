package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"propstore/core/config"
	"propstore/core/logger"
	"propstore/core/platform"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the property API",
	Long: `Opens the configured store and serves the property API until the
process receives SIGINT or SIGTERM.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig(".", configFile)
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}

		logg, err := logger.New(&cfg.Log)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		defer logg.Sync()
		zap.ReplaceGlobals(logg)

		p := platform.New(logg, cfg)
		if !p.Running() {
			// The host stays up so a fixed configuration can be picked up by a restart.
			logg.Warn("Property API is not running, waiting for shutdown")
		}

		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c
		logg.Info("Shutting down server...")

		ctx, cancel := context.WithTimeout(context.Background(), p.Config().Server.ShutdownTimeout())
		defer cancel()
		if err := p.Close(ctx); err != nil {
			logg.Error("Shutdown failed", zap.Error(err))
			return err
		}
		return nil
	},
}

func init() {
	RootCmd.AddCommand(startCmd)
}
