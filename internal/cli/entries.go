package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/zhouzirui/mindful-journal/backend/internal/model/journal"
)

func newEntriesCmd(opts *options) *cobra.Command {
	var (
		owner  string
		limit  int
		offset int
	)
	cmd := &cobra.Command{
		Use:   "entries",
		Short: "List a visitor's entries, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := opts.open(cmd)
			if err != nil {
				return err
			}
			defer st.Close()

			entries, err := st.ListEntries(cmd.Context(), owner, limit, offset)
			if err != nil {
				return fmt.Errorf("list entries: %w", err)
			}
			return opts.print(cmd.OutOrStdout(), entries, func(w io.Writer) {
				for _, e := range entries {
					fmt.Fprintf(w, "#%d %s %s%s\n  %s\n", e.ID, e.CreatedAt.Format("2006-01-02 15:04"),
						labelOf(e), star(e), e.Text)
				}
			})
		},
	}

	cmd.Flags().StringVarP(&owner, "owner", "o", "", "Session id that owns the entries")
	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "Max entries")
	cmd.Flags().IntVar(&offset, "offset", 0, "Entries to skip")
	cmd.MarkFlagRequired("owner")
	return cmd
}

func labelOf(e journal.Entry) string {
	if e.Emotion == nil {
		return "-"
	}
	return *e.Emotion
}

func star(e journal.Entry) string {
	if e.IsFavorite {
		return " ★"
	}
	return ""
}

func newAnalyticsCmd(opts *options) *cobra.Command {
	var (
		owner string
		days  int
	)
	cmd := &cobra.Command{
		Use:   "analytics",
		Short: "Show mood analytics for a visitor",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := opts.open(cmd)
			if err != nil {
				return err
			}
			defer st.Close()

			analytics, err := st.MoodAnalytics(cmd.Context(), owner, days)
			if err != nil {
				return fmt.Errorf("mood analytics: %w", err)
			}
			return opts.print(cmd.OutOrStdout(), analytics, func(w io.Writer) {
				fmt.Fprintf(w, "%d entries, %d favorites over %d days\n", analytics.EntryCount, analytics.FavoriteCount, days)
				for _, day := range analytics.MoodData {
					fmt.Fprintf(w, "  %s  %d entries  %v\n", day.Date, day.EntryCount, day.Emotions)
				}
				for _, top := range analytics.TopEmotions {
					fmt.Fprintf(w, "  %-12s %d\n", top.Emotion, top.Count)
				}
			})
		},
	}

	cmd.Flags().StringVarP(&owner, "owner", "o", "", "Session id that owns the entries")
	cmd.Flags().IntVar(&days, "days", 30, "Trailing window in days")
	cmd.MarkFlagRequired("owner")
	return cmd
}
