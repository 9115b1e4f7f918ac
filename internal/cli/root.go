package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ishaan812/gitscribe/internal/config"
)

var (
	verbose      bool
	repoFlag     string
	providerFlag string
	modelFlag    string
	languageFlag string
	streamFlag   bool
	workersFlag  int

	appConfig *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "gitscribe",
	Short: "gitscribe - Feature summaries and docs from git history",
	Long: `gitscribe walks a repository's commit or tag history, asks a language model
to describe the features each diff introduces, and folds the results into a
consolidated feature summary or a documentation file.

Run without arguments to start the interactive shell, or use the
'commits', 'tags' and 'doc' commands for one-shot runs.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		applyFlagOverrides(cmd, cfg)
		if err := cfg.Validate(); err != nil {
			return err
		}
		appConfig = cfg
		VerboseLog("Config: provider=%s model=%s language=%s workers=%d", cfg.Provider, cfg.Model(), cfg.Language, cfg.Workers)
		return nil
	},
	RunE: runShell,
}

// Execute runs the root command. An interrupt cancels the running operation
// and ends the process.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVarP(&repoFlag, "repo", "C", ".", "Path to the git repository")
	rootCmd.PersistentFlags().StringVar(&providerFlag, "provider", "", "LLM provider override (ollama, gemini)")
	rootCmd.PersistentFlags().StringVar(&modelFlag, "model", "", "LLM model override")
	rootCmd.PersistentFlags().StringVarP(&languageFlag, "language", "l", "", "Output language override")
	rootCmd.PersistentFlags().BoolVar(&streamFlag, "stream", false, "Show model output while it is generated")
	rootCmd.PersistentFlags().IntVar(&workersFlag, "workers", 0, "Number of diffs analyzed at once")
}

func applyFlagOverrides(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("provider") {
		cfg.Provider = providerFlag
	}
	if flags.Changed("model") {
		cfg.SetModel(modelFlag)
	}
	if flags.Changed("language") {
		cfg.Language = languageFlag
	}
	if flags.Changed("stream") {
		cfg.Streaming = streamFlag
	}
	if flags.Changed("workers") {
		cfg.Workers = workersFlag
	}
}

func IsVerbose() bool {
	return verbose
}

func VerboseLog(format string, args ...interface{}) {
	if verbose {
		fmt.Fprintf(os.Stderr, "[DEBUG] "+format+"\n", args...)
	}
}
