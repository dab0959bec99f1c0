package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

// shutdownTimeout bounds how long commands wait for app-server to exit.
const shutdownTimeout = 5 * time.Second

// NewCallCmd sends one raw request and prints its result.
func NewCallCmd(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "call <method> [params-json]",
		Short: "Send a raw JSON-RPC request to app-server",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var params any
			if len(args) == 2 {
				raw := json.RawMessage(args[1])
				if !json.Valid(raw) {
					return errors.New("params must be valid JSON")
				}
				params = raw
			}

			s, err := newSession(opts)
			if err != nil {
				return err
			}
			defer closeSession(s)

			ctx := cmd.Context()
			if err := s.client.Start(ctx); err != nil {
				return fmt.Errorf("start codex: %w", err)
			}
			result, err := s.client.Call(ctx, args[0], params)
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}

			return printJSON(cmd.OutOrStdout(), result)
		},
	}
}

func closeSession(s *session) {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	s.close(ctx)
}
