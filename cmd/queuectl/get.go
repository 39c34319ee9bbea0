package main

import (
	"github.com/spf13/cobra"

	"github.com/queuectl/queuectl/internal/control"
)

func newGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Fetch a job's full record as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer st.Close()

			j, err := control.Get(cmd.Context(), st, args[0])
			if err != nil {
				return err
			}
			return printJSON(j)
		},
	}
}
