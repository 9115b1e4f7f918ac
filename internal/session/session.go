// Package session holds the state of one interactive run: the open
// repository, its project type, and the features and summary produced by
// the last successful analysis.
package session

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/ishaan812/gitscribe/internal/features"
	"github.com/ishaan812/gitscribe/internal/git"
	"github.com/ishaan812/gitscribe/internal/history"
	"github.com/ishaan812/gitscribe/internal/project"
)

var (
	// ErrNoRepository is returned by operations that need an open repository.
	ErrNoRepository = errors.New("no repository open; use /repo <path> first")
	// ErrNoFeatures is returned by operations that need a previous analysis.
	ErrNoFeatures = errors.New("no features analyzed yet; run /commits or /tags first")
	// ErrNoChanges is returned when an analysis finds no source changes.
	ErrNoChanges = errors.New("no source changes found in the selected history")
)

// Repository is an opened repository the session can walk.
type Repository interface {
	history.Source
	Path() string
	HeadHash() (string, error)
}

type Opener func(path string) (Repository, error)

// Hooks receive progress and per-item failures. Any of them may be nil.
type Hooks struct {
	OnDiffError       func(p history.Pair, err error)
	OnDiffProgress    func(done, total int, p history.Pair)
	OnAnalyzeError    func(r history.Record, err error)
	OnAnalyzeProgress func(started, total int, r history.Record)
}

type Options struct {
	Open   Opener
	Detect func(root string) (project.Type, error)
	Now    func() time.Time
	Hooks  Hooks
}

type Session struct {
	ID string

	pipeline *features.Pipeline
	open     Opener
	detect   func(root string) (project.Type, error)
	now      func() time.Time
	hooks    Hooks

	repo        Repository
	projectType project.Type
	streaming   bool

	results      []features.Result
	consolidated string
	lastRun      string
}

func New(pipeline *features.Pipeline, opts Options) *Session {
	s := &Session{
		ID:          uuid.NewString(),
		pipeline:    pipeline,
		open:        opts.Open,
		detect:      opts.Detect,
		now:         opts.Now,
		hooks:       opts.Hooks,
		projectType: project.Unknown,
	}
	if s.open == nil {
		s.open = func(path string) (Repository, error) { return git.OpenRepo(path) }
	}
	if s.detect == nil {
		s.detect = project.Detect
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

// Open switches to the repository at path and detects its project type.
// Features and summary of the previous repository are discarded. On error
// the session is left unchanged.
func (s *Session) Open(path string) error {
	repo, err := s.open(path)
	if err != nil {
		return err
	}

	pt, err := s.detect(repo.Path())
	if err != nil {
		pt = project.Unknown
	}

	s.repo = repo
	s.projectType = pt
	s.results = nil
	s.consolidated = ""
	s.lastRun = ""
	return nil
}

func (s *Session) RepoPath() string {
	if s.repo == nil {
		return ""
	}
	return s.repo.Path()
}

// Head returns the abbreviated commit HEAD points to, or "" when no
// repository is open or it has no commits.
func (s *Session) Head() string {
	if s.repo == nil {
		return ""
	}
	hash, err := s.repo.HeadHash()
	if err != nil {
		return ""
	}
	return history.ShortRef(hash)
}

func (s *Session) ProjectType() project.Type {
	return s.projectType
}

// SetProjectType overrides the detected project type.
func (s *Session) SetProjectType(pt project.Type) {
	s.projectType = pt
}

func (s *Session) Language() string {
	return s.pipeline.Language()
}

func (s *Session) SetLanguage(language string) {
	s.pipeline.SetLanguage(language)
}

func (s *Session) Streaming() bool {
	return s.streaming
}

func (s *Session) SetStreaming(on bool) {
	s.streaming = on
}

// Results returns the per-diff features of the last successful analysis.
func (s *Session) Results() []features.Result {
	return s.results
}

// Summary returns the consolidated summary of the last successful analysis.
func (s *Session) Summary() string {
	return s.consolidated
}

// LastRun describes the last successful analysis, e.g. "commits (group 5)".
func (s *Session) LastRun() string {
	return s.lastRun
}

func (s *Session) walkOptions() history.WalkOptions {
	return history.WalkOptions{
		ProjectType: s.projectType,
		OnError:     s.hooks.OnDiffError,
		OnProgress:  s.hooks.OnDiffProgress,
	}
}

// AnalyzeCommits walks the commit history grouped by n, analyzes every diff
// and folds the features into a consolidated summary.
func (s *Session) AnalyzeCommits(ctx context.Context, n int) (string, error) {
	if s.repo == nil {
		return "", ErrNoRepository
	}
	if n < 1 {
		return "", fmt.Errorf("group size must be at least 1, got %d", n)
	}
	records, err := history.WalkCommits(ctx, s.repo, n, s.walkOptions())
	if err != nil {
		return "", err
	}
	return s.analyze(ctx, records, fmt.Sprintf("commits (group %d)", n))
}

// AnalyzeTags walks the tag history, from start if given. An unknown start
// tag fails with a history.TagNotFoundError listing the available tags.
func (s *Session) AnalyzeTags(ctx context.Context, start string) (string, error) {
	if s.repo == nil {
		return "", ErrNoRepository
	}
	records, err := history.WalkTags(ctx, s.repo, start, s.walkOptions())
	if err != nil {
		return "", err
	}
	run := "tags"
	if start != "" {
		run = "tags (from " + start + ")"
	}
	return s.analyze(ctx, records, run)
}

// Tags lists the repository's tags, oldest first.
func (s *Session) Tags(ctx context.Context) ([]string, error) {
	if s.repo == nil {
		return nil, ErrNoRepository
	}
	return s.repo.Tags(ctx)
}

func (s *Session) analyze(ctx context.Context, records []history.Record, run string) (string, error) {
	if len(records) == 0 {
		return "", ErrNoChanges
	}

	results, err := s.pipeline.AnalyzeRecords(ctx, records, features.AnalyzeOptions{
		OnError:    s.hooks.OnAnalyzeError,
		OnProgress: s.hooks.OnAnalyzeProgress,
	})
	if err != nil {
		return "", err
	}
	if len(results) == 0 {
		return "", errors.New("every diff failed to analyze")
	}

	summary, err := s.pipeline.Summarize(ctx, texts(results))
	if err != nil {
		return "", fmt.Errorf("failed to summarize features: %w", err)
	}

	s.results = results
	s.consolidated = summary
	s.lastRun = run
	return summary, nil
}

func texts(results []features.Result) []string {
	out := make([]string, len(results))
	for i, r := range results {
		out[i] = r.Text()
	}
	return out
}

// GenerateDoc writes a new document built from the analyzed features to path.
func (s *Session) GenerateDoc(ctx context.Context, path string) (string, error) {
	if len(s.results) == 0 {
		return "", ErrNoFeatures
	}
	doc, err := s.pipeline.GenerateDoc(ctx, texts(s.results))
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, []byte(doc+"\n"), 0644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return doc, nil
}

// UpdateDoc merges the analyzed features into the document at path. The
// file is read once before the fold and written once after it.
func (s *Session) UpdateDoc(ctx context.Context, path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	existing := string(data)

	updated, err := s.pipeline.UpdateDoc(ctx, existing, texts(s.results))
	if err != nil {
		return "", err
	}
	if updated == existing {
		return existing, nil
	}
	if err := os.WriteFile(path, []byte(updated+"\n"), 0644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return updated, nil
}
