package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/queuectl/queuectl/internal/control"
	"github.com/queuectl/queuectl/internal/queue"
)

type enqueueInput struct {
	ID         string `json:"id"`
	Command    string `json:"command"`
	MaxRetries *int   `json:"max_retries,omitempty"`
}

func newEnqueueCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "enqueue <json-or-@file>",
		Short: "Insert one job",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw := args[0]
			var data []byte
			if strings.HasPrefix(raw, "@") {
				b, err := os.ReadFile(strings.TrimPrefix(raw, "@"))
				if err != nil {
					return fmt.Errorf("%w: %v", queue.ErrInputError, err)
				}
				data = b
			} else {
				data = []byte(raw)
			}

			var in enqueueInput
			if err := json.Unmarshal(data, &in); err != nil {
				return fmt.Errorf("%w: %v", queue.ErrInputError, err)
			}

			st, err := openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer st.Close()

			j, err := control.Enqueue(cmd.Context(), st, control.EnqueueRequest{
				ID:         in.ID,
				Command:    in.Command,
				MaxRetries: in.MaxRetries,
			})
			if err != nil {
				return err
			}
			return printJSON(j)
		},
	}
}
