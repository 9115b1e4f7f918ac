package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"golang.org/x/term"

	"github.com/ishaan812/gitscribe/internal/config"
	"github.com/ishaan812/gitscribe/internal/features"
	"github.com/ishaan812/gitscribe/internal/history"
	"github.com/ishaan812/gitscribe/internal/llm"
	"github.com/ishaan812/gitscribe/internal/session"
	"github.com/ishaan812/gitscribe/internal/tui"
)

var (
	titleColor   = color.New(color.FgHiCyan, color.Bold)
	dimColor     = color.New(color.FgHiBlack)
	successColor = color.New(color.FgHiGreen)
	warnColor    = color.New(color.FgHiYellow)
	errorColor   = color.New(color.FgHiRed)
)

var timeNow = time.Now

// app wires the configured model client, the feature pipeline and a
// session together for one process.
type app struct {
	cfg      *config.Config
	session  *session.Session
	progress *progress
}

func newApp(cfg *config.Config) (*app, error) {
	a := &app{cfg: cfg, progress: newProgress()}

	client, err := llm.NewClient(cfg.LLMConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to create %s client: %w", cfg.Provider, err)
	}

	policy := cfg.RetryPolicy()
	policy.OnRetry = func(attempt int, err error) {
		VerboseLog("Model call failed (attempt %d/%d): %v", attempt, policy.Attempts, err)
		a.progress.Warn("Model call failed (attempt %d/%d), retrying", attempt, policy.Attempts)
	}

	pipeline, err := features.New(llm.NewGateway(client, policy), cfg.CacheSize,
		features.WithLanguage(cfg.Language),
		features.WithMaxTokens(cfg.MaxTokens),
		features.WithWorkers(cfg.Workers),
		features.WithFoldProgress(func(step, total int) {
			a.progress.Status("Folding part %d/%d", step+1, total)
		}),
	)
	if err != nil {
		return nil, err
	}

	a.session = session.New(pipeline, session.Options{
		Hooks: session.Hooks{
			OnDiffProgress: func(done, total int, p history.Pair) {
				a.progress.Status("Reading diff %d/%d (%s)", done+1, total, p)
			},
			OnDiffError: func(p history.Pair, err error) {
				a.progress.Warn("Skipped %s: %v", p, err)
			},
			OnAnalyzeProgress: func(started, total int, r history.Record) {
				a.progress.Status("Analyzing %d/%d (%s)", started+1, total, r.Pair())
			},
			OnAnalyzeError: func(r history.Record, err error) {
				a.progress.Warn("Analysis failed for %s: %v", r.Pair(), err)
			},
		},
	})
	a.session.SetStreaming(cfg.Streaming)
	return a, nil
}

// run executes fn under the progress display. Streamed fragments are
// routed to the terminal through the context when streaming is on.
func (a *app) run(ctx context.Context, label string, fn func(ctx context.Context) error) error {
	streaming := a.session.Streaming()
	if streaming {
		ctx = llm.WithStreamHandler(ctx, a.progress.Token)
	}
	a.progress.Begin(label, streaming)
	err := fn(ctx)
	a.progress.End()
	return err
}

func (a *app) openRepo(path string) error {
	if err := a.session.Open(path); err != nil {
		return err
	}
	successColor.Printf("  ✓ Opened %s\n", a.session.RepoPath())
	dimColor.Printf("    Project type: %s\n", a.session.ProjectType())
	return nil
}

func (a *app) analyzeCommits(ctx context.Context, n int) error {
	var summary string
	err := a.run(ctx, "Analyzing commit history", func(ctx context.Context) error {
		var err error
		summary, err = a.session.AnalyzeCommits(ctx, n)
		return err
	})
	if err != nil {
		return err
	}
	a.printSummary(summary)
	return nil
}

func (a *app) analyzeTags(ctx context.Context, start string) error {
	var summary string
	err := a.run(ctx, "Analyzing tag history", func(ctx context.Context) error {
		var err error
		summary, err = a.session.AnalyzeTags(ctx, start)
		return err
	})
	if err != nil {
		return err
	}
	a.printSummary(summary)
	return nil
}

func (a *app) generateDoc(ctx context.Context, path string) error {
	err := a.run(ctx, "Writing "+path, func(ctx context.Context) error {
		_, err := a.session.GenerateDoc(ctx, path)
		return err
	})
	if err != nil {
		return err
	}
	successColor.Printf("  ✓ Wrote %s\n", path)
	return nil
}

func (a *app) updateDoc(ctx context.Context, path string) error {
	if len(a.session.Results()) == 0 {
		dimColor.Println("  No analyzed features; document left unchanged.")
		return nil
	}
	err := a.run(ctx, "Updating "+path, func(ctx context.Context) error {
		_, err := a.session.UpdateDoc(ctx, path)
		return err
	})
	if err != nil {
		return err
	}
	successColor.Printf("  ✓ Updated %s\n", path)
	return nil
}

func (a *app) export(path string) error {
	if path == "" {
		path = session.DefaultExportName(timeNow())
	}
	if err := a.session.Export(path); err != nil {
		return err
	}
	successColor.Printf("  ✓ Exported session to %s\n", path)
	return nil
}

func (a *app) printSummary(summary string) {
	fmt.Println()
	fmt.Print(summaryText(summary, tui.TerminalWidth()))
	fmt.Println()
}

func summaryText(summary string, width int) string {
	var b strings.Builder
	b.WriteString("  " + tui.Heading("Consolidated Summary") + "\n")
	b.WriteString(dimColor.Sprint("  "+strings.Repeat("─", 50)) + "\n")
	b.WriteString(tui.RenderMarkdown(summary, width))
	return b.String()
}

func printTagNotFound(err *history.TagNotFoundError) {
	errorColor.Printf("  Tag %q not found.\n", err.Tag)
	if len(err.Available) == 0 {
		dimColor.Println("  The repository has no tags.")
		return
	}
	dimColor.Println("  Available tags:")
	for _, tag := range err.Available {
		fmt.Printf("    %s\n", tag)
	}
}

func printError(err error) {
	if errors.Is(err, context.Canceled) {
		warnColor.Println("  Canceled.")
		return
	}
	errorColor.Printf("  Error: %v\n", err)
}

func isInteractive() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}
