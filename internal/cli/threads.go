package cli

import (
	"github.com/spf13/cobra"

	"github.com/conneroisu/codex/pkg/codex/protocol"
)

// NewThreadsCmd lists stored threads.
func NewThreadsCmd(opts *Options) *cobra.Command {
	var limit int
	var cursor string
	var archived bool

	cmd := &cobra.Command{
		Use:   "threads",
		Short: "List stored threads",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			params := &protocol.ThreadListParams{}
			if limit > 0 {
				params.Limit = &limit
			}
			if cursor != "" {
				params.Cursor = &cursor
			}
			if cmd.Flags().Changed("archived") {
				params.Archived = &archived
			}

			s, err := newSession(opts)
			if err != nil {
				return err
			}
			defer closeSession(s)

			resp, err := s.client.ListThreads(cmd.Context(), params)
			if err != nil {
				return err
			}

			return printJSON(cmd.OutOrStdout(), resp)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum threads to return")
	cmd.Flags().StringVar(&cursor, "cursor", "", "Pagination cursor from a previous page")
	cmd.Flags().BoolVar(&archived, "archived", false, "List archived threads instead")

	return cmd
}

// NewModelsCmd lists available models.
func NewModelsCmd(opts *Options) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "models",
		Short: "List available models",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			params := &protocol.ModelListParams{}
			if limit > 0 {
				params.Limit = &limit
			}

			s, err := newSession(opts)
			if err != nil {
				return err
			}
			defer closeSession(s)

			resp, err := s.client.ListModels(cmd.Context(), params)
			if err != nil {
				return err
			}

			return printJSON(cmd.OutOrStdout(), resp)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum models to return")

	return cmd
}
