package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/queuectl/queuectl/internal/control"
	"github.com/queuectl/queuectl/internal/queue"
	"github.com/queuectl/queuectl/job"
)

func newListCmd() *cobra.Command {
	var stateFlag string
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List jobs, optionally filtered by state",
		RunE: func(cmd *cobra.Command, args []string) error {
			state := job.Unknown
			if stateFlag != "" {
				s, err := job.ParseState(stateFlag)
				if err != nil {
					return fmt.Errorf("%w: %v", queue.ErrInputError, err)
				}
				state = s
			}

			st, err := openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer st.Close()

			jobs, err := control.List(cmd.Context(), st, state, limit)
			if err != nil {
				return err
			}

			table := tablewriter.NewWriter(os.Stdout)
			table.SetHeader([]string{"ID", "STATE", "ATTEMPTS", "COMMAND"})
			for _, j := range jobs {
				table.Append([]string{j.ID, j.State.String(), strconv.Itoa(j.Attempts), j.Command})
			}
			table.Render()
			return nil
		},
	}
	cmd.Flags().StringVar(&stateFlag, "state", "", "filter by state (pending, processing, completed, failed, dead)")
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum number of jobs to return (0 = all)")
	return cmd
}
