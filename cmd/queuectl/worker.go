package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/queuectl/queuectl/internal/gc"
	"github.com/queuectl/queuectl/internal/supervisor"
	"github.com/queuectl/queuectl/internal/worker"
)

func newWorkerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "worker",
		Short: "Manage worker processes",
	}
	cmd.AddCommand(newWorkerStartCmd(), newWorkerStopCmd(), newWorkerStatusCmd(), newWorkerRunCmd())
	return cmd
}

func newWorkerStartCmd() *cobra.Command {
	var count int
	cmd := &cobra.Command{
		Use:   "start",
		Short: "Spawn worker processes",
		RunE: func(cmd *cobra.Command, args []string) error {
			sup, err := supervisor.New(dbPath)
			if err != nil {
				return err
			}
			handles, err := sup.SpawnWorkers(count)
			if err != nil {
				return err
			}
			for _, h := range handles {
				fmt.Printf("started worker %s (pid %d)\n", h.ID, h.PID)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&count, "count", 1, "number of worker processes to spawn")
	return cmd
}

func newWorkerStopCmd() *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "stop",
		Short: "Signal all workers to stop",
		RunE: func(cmd *cobra.Command, args []string) error {
			sup, err := supervisor.New(dbPath)
			if err != nil {
				return err
			}
			n, err := sup.SignalStop(!force)
			if err != nil {
				return err
			}
			fmt.Printf("signaled %d worker(s)\n", n)
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "SIGKILL instead of a graceful SIGTERM")
	return cmd
}

func newWorkerStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Table of live worker processes",
		RunE: func(cmd *cobra.Command, args []string) error {
			sup, err := supervisor.New(dbPath)
			if err != nil {
				return err
			}
			statuses, err := sup.List()
			if err != nil {
				return err
			}
			table := tablewriter.NewWriter(os.Stdout)
			table.SetHeader([]string{"ID", "PID", "STARTED", "ALIVE"})
			for _, s := range statuses {
				table.Append([]string{
					s.ID,
					strconv.Itoa(s.PID),
					s.StartedAt.Format(time.RFC3339),
					strconv.FormatBool(s.Alive),
				})
			}
			table.Render()
			return nil
		},
	}
}

// newWorkerRunCmd is the internal entry point the supervisor re-execs
// into. It is a real, documented subcommand (the binary plays both the
// CLI and worker roles), but is not meant for direct interactive use.
func newWorkerRunCmd() *cobra.Command {
	var id string
	var gcInterval time.Duration
	var gcAfter time.Duration

	cmd := &cobra.Command{
		Use:    "run",
		Short:  "Run a single worker loop in the foreground",
		Hidden: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if id == "" {
				id = uuid.NewString()
			}

			st, err := openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer st.Close()

			log := slog.New(slog.NewTextHandler(os.Stderr, nil))
			ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGTERM, syscall.SIGINT)
			defer cancel()

			w := worker.New(id, st, log)
			if err := w.Start(ctx); err != nil {
				return err
			}

			var janitor *gc.Worker
			if gcInterval > 0 && gcAfter > 0 {
				janitor = gc.New(st, gc.Config{Interval: gcInterval, After: gcAfter}, log)
				if err := janitor.Start(ctx); err != nil {
					return err
				}
			}

			<-ctx.Done()
			log.Info("worker shutting down", "worker_id", id)
			if err := w.Stop(30 * time.Second); err != nil {
				log.Error("worker stop did not complete cleanly", "worker_id", id, "err", err)
			}
			if janitor != nil {
				if err := janitor.Stop(5 * time.Second); err != nil {
					log.Error("retention janitor stop did not complete cleanly", "worker_id", id, "err", err)
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&id, "id", "", "worker identifier (generated if omitted)")
	cmd.Flags().DurationVar(&gcInterval, "gc-interval", 0, "sweep interval of the retention janitor (runs only when --gc-after is also set)")
	cmd.Flags().DurationVar(&gcAfter, "gc-after", 0, "delete terminal jobs older than this age (requires --gc-interval)")
	return cmd
}
