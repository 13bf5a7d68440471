package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func newAnalyzeCmd(a *app) *cobra.Command {
	var (
		files    []string
		filter   string
		repoPath string
		excludes []string
		budget   int
	)

	cmd := &cobra.Command{
		Use:   "analyze <query>",
		Short: "Ask a question about the code",
		Long: `Ask a question about the code. Without --files every tracked file in the repository
is considered, minus excluded paths, optionally narrowed by --filter.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := args[0]
			s, err := a.open()
			if err != nil {
				return err
			}

			var base string
			if len(files) == 0 {
				base = repoRoot(repoPath, s.cfg)
				ctx, cancel := context.WithTimeout(cmd.Context(), a.timeout)
				files = a.listFiles(ctx, base, filter, excludes)
				cancel()
			} else {
				base = repoPath
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Analyzing %d files with query: %s\n", len(files), query)
			result := a.ask(cmd.Context(), s, base, files, query, budget)
			fmt.Fprint(out, "\n--- RESULT ---\n\n")
			fmt.Fprintln(out, result)
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&files, "files", nil, "Specific files to analyze")
	cmd.Flags().StringVar(&filter, "filter", "", "Only analyze files whose path contains this string")
	cmd.Flags().StringVar(&repoPath, "repo-path", "", "Repository path")
	cmd.Flags().StringSliceVar(&excludes, "exclude", nil, "Extra exclusion patterns ('dir/' or '*.ext')")
	cmd.Flags().IntVar(&budget, "budget", 0, "Character budget for file contents (default 100000)")
	return cmd
}
