package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/queuectl/queuectl/internal/control"
	"github.com/queuectl/queuectl/internal/queue"
	"github.com/queuectl/queuectl/job"
)

func newClearCmd() *cobra.Command {
	var stateFlag string
	var yes bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete jobs, optionally filtered by state",
		RunE: func(cmd *cobra.Command, args []string) error {
			state := job.Unknown
			if stateFlag != "" {
				s, err := job.ParseState(stateFlag)
				if err != nil {
					return fmt.Errorf("%w: %v", queue.ErrInputError, err)
				}
				state = s
			}

			prompt := "Delete all jobs?"
			if state != job.Unknown {
				prompt = fmt.Sprintf("Delete all %s jobs?", state)
			}
			ok, err := confirm(yes, prompt)
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

			n, err := control.Clear(cmd.Context(), st, state)
			if err != nil {
				return err
			}
			fmt.Printf("deleted %d job(s)\n", n)
			return nil
		},
	}
	cmd.Flags().StringVar(&stateFlag, "state", "", "restrict deletion to this state")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip confirmation")
	return cmd
}
