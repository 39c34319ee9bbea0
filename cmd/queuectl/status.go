package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/queuectl/queuectl/internal/queue"
	"github.com/queuectl/queuectl/internal/supervisor"
	"github.com/queuectl/queuectl/job"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Per-state counts, worker count, and config summary",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer st.Close()

			counts, err := st.CountsByState(cmd.Context())
			if err != nil {
				return fmt.Errorf("%w: %v", queue.ErrStore, err)
			}
			cfg, err := st.GetConfig(cmd.Context())
			if err != nil {
				return fmt.Errorf("%w: %v", queue.ErrStore, err)
			}

			sup, err := supervisor.New(dbPath)
			if err != nil {
				return err
			}
			workers, err := sup.List()
			if err != nil {
				return err
			}

			table := tablewriter.NewWriter(os.Stdout)
			table.SetHeader([]string{"STATE", "COUNT"})
			for _, s := range []job.State{job.Pending, job.Processing, job.Completed, job.Failed, job.Dead} {
				table.Append([]string{s.String(), strconv.FormatInt(counts[s], 10)})
			}
			table.Render()

			fmt.Printf("\nworkers: %d live\n", len(workers))
			fmt.Printf("config: max_retries=%d backoff_base=%d worker_poll_interval=%s job_timeout=%s\n",
				cfg.MaxRetries, cfg.BackoffBase, cfg.WorkerPollInterval, cfg.JobTimeout)
			return nil
		},
	}
}
