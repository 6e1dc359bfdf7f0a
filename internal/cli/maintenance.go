package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zhouzirui/mindful-journal/backend/internal/store"
)

func newCheckCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Run an integrity check and verify the schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := opts.open(cmd)
			if err != nil {
				return err
			}
			defer st.Close()

			if err := st.Check(cmd.Context()); err != nil {
				return err
			}
			tables, err := st.Tables(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "ok: %s (tables: %v)\n", st.Path(), tables)
			return nil
		},
	}
}

func newResetCmd(opts *options) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete the database; the next start recreates and reseeds it",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return errors.New("refusing to delete journal data without --yes")
			}
			path := opts.path()
			if err := store.Reset(path); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "removed %s\n", path)
			return nil
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "Confirm deletion")
	return cmd
}
