package cli

import (
	"github.com/spf13/cobra"
)

var (
	docFile   string
	docUpdate bool
	docTags   bool
	docFrom   string
	docGroup  int
	docExport string
)

var docCmd = &cobra.Command{
	Use:   "doc",
	Short: "Write or update a feature document from history",
	Long: `Analyze the commit history (or tag history with --tags) and write a
Markdown document describing the features found. With --update the
features are merged into an existing document instead.

Examples:
  gitscribe doc                                # Writes FEATURES.md
  gitscribe doc --tags --file docs/FEATURES.md
  gitscribe doc --update --file README.md --group 5`,
	Args: cobra.NoArgs,
	RunE: runDoc,
}

func init() {
	rootCmd.AddCommand(docCmd)

	docCmd.Flags().StringVarP(&docFile, "file", "f", defaultDocFile, "Document to write")
	docCmd.Flags().BoolVar(&docUpdate, "update", false, "Merge features into the existing document")
	docCmd.Flags().BoolVar(&docTags, "tags", false, "Walk tags instead of commits")
	docCmd.Flags().StringVar(&docFrom, "from", "", "Start tag when walking tags")
	docCmd.Flags().IntVarP(&docGroup, "group", "n", 1, "Number of commits per diff")
	docCmd.Flags().StringVar(&docExport, "export", "", "Write the session log to this file")
}

func runDoc(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := openApp()
	if err != nil {
		return err
	}

	if docTags || docFrom != "" {
		err = a.analyzeTags(ctx, docFrom)
	} else {
		err = a.analyzeCommits(ctx, docGroup)
	}
	if err != nil {
		return err
	}

	if docUpdate {
		err = a.updateDoc(ctx, docFile)
	} else {
		err = a.generateDoc(ctx, docFile)
	}
	if err != nil {
		return err
	}

	if docExport != "" {
		return a.export(docExport)
	}
	return nil
}
