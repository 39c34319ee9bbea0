package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/queuectl/queuectl/internal/control"
	"github.com/queuectl/queuectl/job"
)

func newDLQCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dlq",
		Short: "Dead letter queue admin",
	}
	cmd.AddCommand(newDLQListCmd(), newDLQRetryCmd(), newDLQClearCmd())
	return cmd
}

func newDLQListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List dead jobs",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer st.Close()

			jobs, err := control.List(cmd.Context(), st, job.Dead, 0)
			if err != nil {
				return err
			}

			table := tablewriter.NewWriter(os.Stdout)
			table.SetHeader([]string{"ID", "ATTEMPTS", "ERROR", "COMMAND"})
			for _, j := range jobs {
				errMsg := ""
				if j.ErrorMessage != nil {
					errMsg = *j.ErrorMessage
				}
				table.Append([]string{j.ID, strconv.Itoa(j.Attempts), errMsg, j.Command})
			}
			table.Render()
			return nil
		},
	}
}

func newDLQRetryCmd() *cobra.Command {
	var resetAttempts bool
	cmd := &cobra.Command{
		Use:   "retry <id>",
		Short: "Requeue a dead job as pending",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer st.Close()

			j, err := control.DLQRetry(cmd.Context(), st, args[0], resetAttempts)
			if err != nil {
				return err
			}
			return printJSON(j)
		},
	}
	cmd.Flags().BoolVar(&resetAttempts, "reset-attempts", false, "reset attempts to 0")
	return cmd
}

func newDLQClearCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete all dead jobs",
		RunE: func(cmd *cobra.Command, args []string) error {
			ok, err := confirm(yes, "Delete all dead jobs?")
			if err != nil {
				return err
			}
			if !ok {
				fmt.Println("aborted")
				return nil
			}

			st, err := openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer st.Close()

			n, err := control.Clear(cmd.Context(), st, job.Dead)
			if err != nil {
				return err
			}
			fmt.Printf("deleted %d job(s)\n", n)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip confirmation")
	return cmd
}
