// Package cli implements the journalctl operator commands.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/zhouzirui/mindful-journal/backend/internal/store"
)

type options struct {
	dbPath string
	format string
}

// NewRootCmd builds the journalctl command tree.
func NewRootCmd() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:           "journalctl",
		Short:         "Inspect and maintain the journal database",
		Long:          "Operator tool for the Mindful Journal SQLite database: browse entries, prompts and analytics, check integrity or start over.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVarP(&opts.dbPath, "db", "d", "", "Database path (default: $JOURNAL_DB_PATH or journal.db)")
	root.PersistentFlags().StringVarP(&opts.format, "format", "f", "json", "Output format: json or text")

	root.AddCommand(
		newEntriesCmd(opts),
		newAnalyticsCmd(opts),
		newPromptCmd(opts),
		newPromptsCmd(opts),
		newCheckCmd(opts),
		newResetCmd(opts),
	)
	return root
}

func (o *options) path() string {
	if o.dbPath != "" {
		return o.dbPath
	}
	if env := os.Getenv("JOURNAL_DB_PATH"); env != "" {
		return env
	}
	return "journal.db"
}

func (o *options) open(cmd *cobra.Command) (*store.SQLiteStore, error) {
	st, err := store.Open(cmd.Context(), o.path())
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	return st, nil
}

// print writes v as indented JSON, or through text when --format=text.
func (o *options) print(w io.Writer, v any, text func(io.Writer)) error {
	if o.format == "text" && text != nil {
		text(w)
		return nil
	}
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}
