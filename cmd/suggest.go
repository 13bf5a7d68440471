package cmd

import (
	"errors"
	"fmt"

	"phihelper/pkg/prompt"

	"github.com/spf13/cobra"
)

func newSuggestCmd(a *app) *cobra.Command {
	var (
		files  []string
		budget int
	)

	cmd := &cobra.Command{
		Use:   "suggest",
		Short: "Suggest code improvements",
		Long:  `Look for bugs, performance problems, idiom and error handling improvements in the given files.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.open()
			if err != nil {
				return err
			}
			if len(files) == 0 {
				return errors.New("please specify at least one file to analyze")
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Analyzing %d files for suggestions\n", len(files))
			result := a.ask(cmd.Context(), s, "", files, prompt.SuggestQuery, budget)
			fmt.Fprint(out, "\n--- SUGGESTIONS ---\n\n")
			fmt.Fprintln(out, result)
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&files, "files", nil, "Files to analyze")
	cmd.Flags().IntVar(&budget, "budget", 0, "Character budget for file contents (default 100000)")
	_ = cmd.MarkFlagRequired("files")
	return cmd
}
