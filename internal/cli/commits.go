package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ishaan812/gitscribe/internal/history"
)

var (
	commitsGroup  int
	commitsExport string
	tagsFrom      string
	tagsExport    string
)

var commitsCmd = &cobra.Command{
	Use:   "commits",
	Short: "Summarize features across the commit history",
	Long: `Walk the commit history oldest first, diffing every n-th commit against
the one n commits earlier, and print a consolidated feature summary.

Examples:
  gitscribe commits                       # One diff per commit
  gitscribe commits --group 10            # Diff every 10 commits
  gitscribe commits -C ../api --export api.log`,
	Args: cobra.NoArgs,
	RunE: runCommits,
}

var tagsCmd = &cobra.Command{
	Use:   "tags",
	Short: "Summarize features between consecutive tags",
	Long: `Diff consecutive tags, oldest first, ending with the last tag against HEAD,
and print a consolidated feature summary.

Examples:
  gitscribe tags
  gitscribe tags --from v1.2.0`,
	Args: cobra.NoArgs,
	RunE: runTags,
}

func init() {
	rootCmd.AddCommand(commitsCmd)
	rootCmd.AddCommand(tagsCmd)

	commitsCmd.Flags().IntVarP(&commitsGroup, "group", "n", 1, "Number of commits per diff")
	commitsCmd.Flags().StringVar(&commitsExport, "export", "", "Write the session log to this file")
	tagsCmd.Flags().StringVar(&tagsFrom, "from", "", "Start from this tag")
	tagsCmd.Flags().StringVar(&tagsExport, "export", "", "Write the session log to this file")
}

// openApp builds the app for a one-shot command and opens --repo.
func openApp() (*app, error) {
	a, err := newApp(appConfig)
	if err != nil {
		return nil, err
	}
	if err := a.openRepo(repoFlag); err != nil {
		return nil, err
	}
	return a, nil
}

func runCommits(cmd *cobra.Command, args []string) error {
	if commitsGroup < 1 {
		return fmt.Errorf("--group must be at least 1, got %d", commitsGroup)
	}
	a, err := openApp()
	if err != nil {
		return err
	}
	if err := a.analyzeCommits(cmd.Context(), commitsGroup); err != nil {
		return err
	}
	if commitsExport != "" {
		return a.export(commitsExport)
	}
	return nil
}

func runTags(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	err = a.analyzeTags(cmd.Context(), tagsFrom)
	var nf *history.TagNotFoundError
	if errors.As(err, &nf) {
		printTagNotFound(nf)
	}
	if err != nil {
		return err
	}
	if tagsExport != "" {
		return a.export(tagsExport)
	}
	return nil
}
