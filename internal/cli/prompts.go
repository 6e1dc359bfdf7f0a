package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

func newPromptCmd(opts *options) *cobra.Command {
	var emotion string
	cmd := &cobra.Command{
		Use:   "prompt",
		Short: "Draw a random writing prompt (counts as a use)",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := opts.open(cmd)
			if err != nil {
				return err
			}
			defer st.Close()

			prompt, err := st.RandomPrompt(cmd.Context(), emotion)
			if err != nil {
				return fmt.Errorf("random prompt: %w", err)
			}
			return opts.print(cmd.OutOrStdout(), prompt, func(w io.Writer) {
				fmt.Fprintln(w, prompt.Text)
			})
		},
	}
	cmd.Flags().StringVarP(&emotion, "emotion", "e", "", "Emotion category")
	return cmd
}

func newPromptsCmd(opts *options) *cobra.Command {
	var category string
	cmd := &cobra.Command{
		Use:   "prompts",
		Short: "List stored prompts with their usage counts",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := opts.open(cmd)
			if err != nil {
				return err
			}
			defer st.Close()

			prompts, err := st.ListPrompts(cmd.Context(), category)
			if err != nil {
				return fmt.Errorf("list prompts: %w", err)
			}
			return opts.print(cmd.OutOrStdout(), prompts, func(w io.Writer) {
				for _, p := range prompts {
					fmt.Fprintf(w, "%3d  %-8s %4d  %s\n", p.ID, p.EmotionCategory, p.UsageCount, p.Text)
				}
			})
		},
	}
	cmd.Flags().StringVarP(&category, "category", "c", "", "Only this emotion category")
	return cmd
}
