package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/queuectl/queuectl/internal/queue"
	"github.com/queuectl/queuectl/store"
)

var dbPath string

var rootCmd = &cobra.Command{
	Use:           "queuectl",
	Short:         "A local, persistent background job queue",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "queuectl.db", "path to the job store file")
	rootCmd.AddCommand(
		newEnqueueCmd(),
		newWorkerCmd(),
		newStatusCmd(),
		newListCmd(),
		newGetCmd(),
		newDLQCmd(),
		newConfigCmd(),
		newClearCmd(),
	)
}

// Execute runs the CLI and maps the error taxonomy onto exit codes:
// 0 success, 1 error, 130 interrupt.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		if errors.Is(err, context.Canceled) {
			os.Exit(130)
		}
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func openStore(ctx context.Context) (store.Store, error) {
	st, err := store.Open(ctx, dbPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", queue.ErrStore, err)
	}
	return st, nil
}
