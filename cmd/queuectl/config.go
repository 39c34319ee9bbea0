package main

import (
	"os"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/queuectl/queuectl/internal/control"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Config admin",
	}
	cmd.AddCommand(newConfigShowCmd(), newConfigSetCmd())
	return cmd
}

func newConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the current config",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer st.Close()

			cfg, err := control.ConfigShow(cmd.Context(), st)
			if err != nil {
				return err
			}

			table := tablewriter.NewWriter(os.Stdout)
			table.SetHeader([]string{"KEY", "VALUE"})
			table.Append([]string{"max-retries", strconv.Itoa(cfg.MaxRetries)})
			table.Append([]string{"backoff-base", strconv.Itoa(cfg.BackoffBase)})
			table.Append([]string{"worker-poll-interval", cfg.WorkerPollInterval.String()})
			table.Append([]string{"job-timeout", cfg.JobTimeout.String()})
			table.Render()
			return nil
		},
	}
}

func newConfigSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a config key (max-retries, backoff-base, worker-poll-interval, job-timeout)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer st.Close()

			cfg, err := control.ConfigSet(cmd.Context(), st, args[0], args[1])
			if err != nil {
				return err
			}
			return printJSON(cfg)
		},
	}
}
