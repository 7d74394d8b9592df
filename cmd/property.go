package cmd

import (
	"context"
	"fmt"
	"time"

	"propstore/core/config"
	"propstore/core/storage"

	"github.com/spf13/cobra"
)

var propertyTimeout time.Duration

// propertyCmd groups offline access to the store.
var propertyCmd = &cobra.Command{
	Use:   "property",
	Short: "Read and write properties without the HTTP API",
	Long: `Opens the configured store directly. The file driver locks its
directory, so stop a running server before using these commands against it.`,
}

var propertyGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Print a property",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(cmd.Context(), func(ctx context.Context, store storage.Store) error {
			value, found, err := store.Get(ctx, args[0])
			if err != nil {
				return fmt.Errorf("failed to get property %q: %w", args[0], err)
			}
			if !found {
				fmt.Fprintln(cmd.OutOrStdout(), "null")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), value.String())
			return nil
		})
	},
}

var propertySetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Replace a property",
	Long:  `Values starting with "{" are stored as JSON objects, anything else as text.`,
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		value, err := storage.ParseBody(args[1])
		if err != nil {
			return err
		}
		return withStore(cmd.Context(), func(ctx context.Context, store storage.Store) error {
			if err := store.Set(ctx, args[0], value); err != nil {
				return fmt.Errorf("failed to set property %q: %w", args[0], err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s stored as %s\n", args[0], value.Kind())
			return nil
		})
	},
}

func withStore(parent context.Context, fn func(context.Context, storage.Store) error) error {
	cfg, err := config.LoadConfig(".", configFile)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if cfg.Storage.Path == "" {
		return config.ErrMissingStoragePath
	}

	store, err := storage.Open(cfg.Storage)
	if err != nil {
		return err
	}
	defer store.Close()

	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithTimeout(parent, propertyTimeout)
	defer cancel()
	return fn(ctx, store)
}

func init() {
	propertyCmd.PersistentFlags().DurationVar(&propertyTimeout, "timeout", 30*time.Second, "deadline for the store operation")
	propertyCmd.AddCommand(propertyGetCmd, propertySetCmd)
	RootCmd.AddCommand(propertyCmd)
}
