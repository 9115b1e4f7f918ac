package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/ishaan812/gitscribe/internal/git"
	"github.com/ishaan812/gitscribe/internal/history"
	"github.com/ishaan812/gitscribe/internal/project"
	"github.com/ishaan812/gitscribe/internal/tui"
)

const defaultDocFile = "FEATURES.md"

var errQuit = errors.New("quit")

type shellCommand struct {
	name  string
	usage string
	help  string
	run   func(ctx context.Context, a *app, args string) error
}

var shellCommands []shellCommand

func init() {
	shellCommands = []shellCommand{
		{"repo", "/repo [path]", "Open a git repository", cmdRepo},
		{"lang", "/lang <language>", "Set the output language", cmdLang},
		{"type", "/type [name]", "Show or override the project type", cmdType},
		{"stream", "/stream", "Toggle streaming of model output", cmdStream},
		{"commits", "/commits [n]", "Analyze commit history in groups of n (default 1)", cmdCommits},
		{"tags", "/tags [from]", "Analyze tag history, optionally from a tag", cmdTags},
		{"summary", "/summary", "Show the consolidated summary", cmdSummary},
		{"doc", "/doc [file]", "Generate a feature document (default " + defaultDocFile + ")", cmdDoc},
		{"update-doc", "/update-doc <file>", "Merge analyzed features into an existing document", cmdUpdateDoc},
		{"export", "/export [file]", "Export the session log", cmdExport},
		{"status", "/status", "Show session status", cmdStatus},
		{"help", "/help", "Show this help", cmdHelp},
		{"exit", "/exit", "Leave gitscribe", cmdExit},
		{"quit", "/quit", "Leave gitscribe", cmdExit},
	}
}

func runShell(cmd *cobra.Command, args []string) error {
	a, err := newApp(appConfig)
	if err != nil {
		return err
	}

	fmt.Println(tui.Banner("gitscribe", "Feature summaries from git history"))
	if err := a.openRepo(repoFlag); err != nil {
		warnColor.Printf("  No repository open: %v\n", err)
		dimColor.Println("  Use /repo <path> to open one.")
	}
	dimColor.Println("  Type /help for commands.")
	fmt.Println()

	ctx := cmd.Context()
	for {
		prompt := promptui.Prompt{Label: "gitscribe"}
		line, err := prompt.Run()
		if err != nil {
			if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) {
				return nil
			}
			return err
		}

		quit, err := a.dispatch(ctx, line)
		if err != nil {
			printError(err)
		}
		if quit || ctx.Err() != nil {
			return nil
		}
	}
}

// parseCommand splits a shell line into a lowercase command name and the
// remaining argument text. The leading slash is optional.
func parseCommand(line string) (name, args string) {
	line = strings.TrimSpace(line)
	name, args, _ = strings.Cut(line, " ")
	name = strings.ToLower(strings.TrimPrefix(name, "/"))
	return name, strings.TrimSpace(args)
}

func lookupCommand(name string) (shellCommand, bool) {
	for _, c := range shellCommands {
		if c.name == name {
			return c, true
		}
	}
	return shellCommand{}, false
}

// dispatch runs one shell line. Unknown input prints the help text.
func (a *app) dispatch(ctx context.Context, line string) (quit bool, err error) {
	name, args := parseCommand(line)
	if name == "" {
		return false, nil
	}
	c, ok := lookupCommand(name)
	if !ok {
		warnColor.Printf("  Unknown command: %s\n", name)
		printHelp()
		return false, nil
	}
	VerboseLog("Command: /%s %s", c.name, args)
	err = c.run(ctx, a, args)
	if errors.Is(err, errQuit) {
		return true, nil
	}
	return false, err
}

func printHelp() {
	fmt.Println()
	fmt.Print(helpText())
	fmt.Println()
}

func helpText() string {
	var b strings.Builder
	b.WriteString("  " + tui.Heading("Commands") + "\n")
	b.WriteString(dimColor.Sprint("  "+strings.Repeat("─", 50)) + "\n")
	for _, c := range shellCommands {
		fmt.Fprintf(&b, "  %-22s %s\n", c.usage, dimColor.Sprint(c.help))
	}
	return b.String()
}

func cmdRepo(ctx context.Context, a *app, args string) error {
	path := args
	if path == "" {
		if !isInteractive() {
			return errors.New("usage: /repo <path>")
		}
		cwd, _ := os.Getwd()
		chosen, err := tui.RunPathPrompt("Open repository", "Path to a git repository", cwd, func(p string) error {
			_, err := git.OpenRepo(p)
			return err
		})
		if err != nil {
			return nil
		}
		path = chosen
	}
	return a.openRepo(path)
}

func cmdLang(ctx context.Context, a *app, args string) error {
	if args == "" {
		fmt.Printf("  Language: %s\n", a.session.Language())
		return nil
	}
	a.session.SetLanguage(args)
	successColor.Printf("  ✓ Output language set to %s\n", args)
	return nil
}

func cmdType(ctx context.Context, a *app, args string) error {
	if args == "" {
		fmt.Printf("  Project type: %s\n", a.session.ProjectType())
		return nil
	}
	pt, err := project.ParseType(args)
	if err != nil {
		return err
	}
	a.session.SetProjectType(pt)
	successColor.Printf("  ✓ Project type set to %s\n", pt)
	return nil
}

func cmdStream(ctx context.Context, a *app, args string) error {
	on := !a.session.Streaming()
	a.session.SetStreaming(on)
	if on {
		successColor.Println("  ✓ Streaming on")
	} else {
		successColor.Println("  ✓ Streaming off")
	}
	return nil
}

func cmdCommits(ctx context.Context, a *app, args string) error {
	n := 1
	if args != "" {
		v, err := strconv.Atoi(args)
		if err != nil || v < 1 {
			return fmt.Errorf("group size must be a positive number, got %q", args)
		}
		n = v
	}
	return a.analyzeCommits(ctx, n)
}

func cmdTags(ctx context.Context, a *app, args string) error {
	err := a.analyzeTags(ctx, args)
	var nf *history.TagNotFoundError
	if !errors.As(err, &nf) {
		return err
	}
	printTagNotFound(nf)
	if len(nf.Available) == 0 || !isInteractive() {
		return nil
	}

	sel := promptui.Select{
		Label: "Start from tag",
		Items: nf.Available,
		Size:  10,
	}
	_, tag, err := sel.Run()
	if err != nil {
		return nil
	}
	return a.analyzeTags(ctx, tag)
}

func cmdSummary(ctx context.Context, a *app, args string) error {
	summary := a.session.Summary()
	if summary == "" {
		dimColor.Println("  No summary yet. Run /commits or /tags first.")
		return nil
	}
	a.printSummary(summary)
	return nil
}

func cmdDoc(ctx context.Context, a *app, args string) error {
	path := args
	if path == "" {
		path = defaultDocFile
	}
	return a.generateDoc(ctx, path)
}

func cmdUpdateDoc(ctx context.Context, a *app, args string) error {
	if args == "" {
		return errors.New("usage: /update-doc <file>")
	}
	return a.updateDoc(ctx, args)
}

func cmdExport(ctx context.Context, a *app, args string) error {
	return a.export(args)
}

func cmdStatus(ctx context.Context, a *app, args string) error {
	repo := a.session.RepoPath()
	if repo == "" {
		repo = "(none)"
	}
	lastRun := a.session.LastRun()
	if lastRun == "" {
		lastRun = "(none)"
	}
	streaming := "off"
	if a.session.Streaming() {
		streaming = "on"
	}
	fmt.Println(tui.StatusTable("Session", []tui.Field{
		{Label: "Repository", Value: repo},
		{Label: "HEAD", Value: a.session.Head()},
		{Label: "Project type", Value: string(a.session.ProjectType())},
		{Label: "Model", Value: a.cfg.Provider + "/" + a.cfg.Model()},
		{Label: "Language", Value: a.session.Language()},
		{Label: "Streaming", Value: streaming},
		{Label: "Last analysis", Value: lastRun},
		{Label: "Analyzed diffs", Value: strconv.Itoa(len(a.session.Results()))},
		{Label: "Session", Value: a.session.ID},
	}))
	return nil
}

func cmdHelp(ctx context.Context, a *app, args string) error {
	printHelp()
	return nil
}

func cmdExit(ctx context.Context, a *app, args string) error {
	return errQuit
}
