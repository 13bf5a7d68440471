package cmd

import (
	"errors"
	"fmt"

	"phihelper/pkg/prompt"

	"github.com/spf13/cobra"
)

func newDocsCmd(a *app) *cobra.Command {
	var (
		files    []string
		output   string
		repoPath string
		budget   int
	)

	cmd := &cobra.Command{
		Use:   "docs",
		Short: "Generate documentation",
		Long:  `Generate Markdown documentation for the given files, printed or written to --output.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.open()
			if err != nil {
				return err
			}
			if len(files) == 0 {
				return errors.New("please specify at least one file to document")
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Generating documentation for %d files\n", len(files))
			result := a.ask(cmd.Context(), s, repoPath, files, prompt.DocsQuery, budget)

			if output != "" {
				if err := writeResult(output, result, a.logger); err != nil {
					return err
				}
				fmt.Fprintf(out, "Documentation written to %s\n", output)
				return nil
			}
			fmt.Fprint(out, "\n--- DOCUMENTATION ---\n\n")
			fmt.Fprintln(out, result)
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&files, "files", nil, "Files to document")
	cmd.Flags().StringVar(&output, "output", "", "Output file for documentation (overwritten)")
	cmd.Flags().StringVar(&repoPath, "repo-path", "", "Repository path; relative --files resolve against it")
	cmd.Flags().IntVar(&budget, "budget", 0, "Character budget for file contents (default 100000)")
	return cmd
}
