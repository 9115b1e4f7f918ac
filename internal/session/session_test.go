package session_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ishaan812/gitscribe/internal/features"
	"github.com/ishaan812/gitscribe/internal/history"
	"github.com/ishaan812/gitscribe/internal/llm"
	"github.com/ishaan812/gitscribe/internal/mock"
	"github.com/ishaan812/gitscribe/internal/project"
	"github.com/ishaan812/gitscribe/internal/session"
)

const (
	hashA = "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"
	hashB = "bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb"
)

const goDiff = `diff --git a/main.go b/main.go
--- a/main.go
+++ b/main.go
@@ -1 +1,2 @@
 package main
+func run() {}
`

type fakeRepo struct {
	*mock.HistorySource
	path string
}

func (r fakeRepo) Path() string { return r.path }

func (r fakeRepo) HeadHash() (string, error) { return hashB, nil }

func newRepo(path string) fakeRepo {
	return fakeRepo{
		path: path,
		HistorySource: &mock.HistorySource{
			CommitsFn: func(context.Context) ([]string, error) { return []string{hashA, hashB}, nil },
			TagsFn:    func(context.Context) ([]string, error) { return []string{"v1.0.0"}, nil },
			DiffFn: func(context.Context, string, string) (string, error) {
				return goDiff, nil
			},
			MessageFn: func(_ context.Context, ref string) (string, error) {
				return "Commit " + history.ShortRef(ref) + "\n\nDetails.", nil
			},
		},
	}
}

type modelStub struct {
	summary string
	chatErr error
}

func (m *modelStub) client() *mock.LLMClient {
	return &mock.LLMClient{
		QueryFn: func(context.Context, string, int) (string, error) {
			return "- Adds a run command", nil
		},
		ChatFn: func(context.Context, []llm.Message, int) (string, error) {
			if m.chatErr != nil {
				return "", m.chatErr
			}
			return m.summary, nil
		},
	}
}

func newSession(t *testing.T, model *modelStub, repos map[string]fakeRepo) *session.Session {
	t.Helper()
	p, err := features.New(model.client(), 8)
	require.NoError(t, err)

	s := session.New(p, session.Options{
		Open: func(path string) (session.Repository, error) {
			r, ok := repos[path]
			if !ok {
				return nil, errors.New("not a git repository")
			}
			return r, nil
		},
		Detect: func(string) (project.Type, error) { return project.Go, nil },
		Now:    func() time.Time { return time.Date(2025, 3, 4, 5, 6, 7, 0, time.UTC) },
	})
	s.ID = "test-session"
	return s
}

func TestSession_RequiresRepository(t *testing.T) {
	t.Parallel()

	s := newSession(t, &modelStub{}, nil)
	_, err := s.AnalyzeCommits(context.Background(), 1)
	assert.ErrorIs(t, err, session.ErrNoRepository)
	_, err = s.AnalyzeTags(context.Background(), "")
	assert.ErrorIs(t, err, session.ErrNoRepository)
	assert.ErrorIs(t, s.Export(filepath.Join(t.TempDir(), "out.log")), session.ErrNoRepository)
}

func TestSession_AnalyzeCommits(t *testing.T) {
	t.Parallel()

	s := newSession(t, &modelStub{summary: "## Features\n- Run command"}, map[string]fakeRepo{"/work/app": newRepo("/work/app")})
	require.NoError(t, s.Open("/work/app"))
	assert.Equal(t, project.Go, s.ProjectType())

	summary, err := s.AnalyzeCommits(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "## Features\n- Run command", summary)
	assert.Equal(t, summary, s.Summary())
	assert.Equal(t, "commits (group 1)", s.LastRun())

	results := s.Results()
	require.Len(t, results, 2)
	assert.Equal(t, history.EmptyTree, results[0].Record.From)
	assert.Equal(t, hashA, results[0].Record.To)
	assert.Equal(t, hashB, results[1].Record.To)
}

func TestSession_Head(t *testing.T) {
	t.Parallel()

	s := newSession(t, &modelStub{}, map[string]fakeRepo{"/r": newRepo("/r")})
	assert.Empty(t, s.Head())
	require.NoError(t, s.Open("/r"))
	assert.Equal(t, "bbbbbbb", s.Head())
}

func TestSession_AnalyzeRejectsBadGroupSize(t *testing.T) {
	t.Parallel()

	s := newSession(t, &modelStub{}, map[string]fakeRepo{"/r": newRepo("/r")})
	require.NoError(t, s.Open("/r"))
	_, err := s.AnalyzeCommits(context.Background(), 0)
	assert.Error(t, err)
}

func TestSession_FailedAnalysisKeepsPreviousState(t *testing.T) {
	t.Parallel()

	model := &modelStub{summary: "first summary"}
	s := newSession(t, model, map[string]fakeRepo{"/r": newRepo("/r")})
	require.NoError(t, s.Open("/r"))
	_, err := s.AnalyzeCommits(context.Background(), 1)
	require.NoError(t, err)

	model.chatErr = errors.New("model offline")
	_, err = s.AnalyzeCommits(context.Background(), 1)
	require.Error(t, err)
	assert.Equal(t, "first summary", s.Summary())
	assert.Len(t, s.Results(), 2)

	_, err = s.AnalyzeTags(context.Background(), "v9")
	require.Error(t, err)
	assert.True(t, history.IsNotFound(err))
	assert.Equal(t, "first summary", s.Summary())
	assert.Equal(t, "commits (group 1)", s.LastRun())
}

func TestSession_OpenFailureKeepsRepository(t *testing.T) {
	t.Parallel()

	s := newSession(t, &modelStub{summary: "s"}, map[string]fakeRepo{"/r": newRepo("/r")})
	require.NoError(t, s.Open("/r"))
	_, err := s.AnalyzeTags(context.Background(), "")
	require.NoError(t, err)

	require.Error(t, s.Open("/missing"))
	assert.Equal(t, "/r", s.RepoPath())
	assert.NotEmpty(t, s.Results())
}

func TestSession_SwitchingRepositoryResets(t *testing.T) {
	t.Parallel()

	s := newSession(t, &modelStub{summary: "s"}, map[string]fakeRepo{"/a": newRepo("/a"), "/b": newRepo("/b")})
	require.NoError(t, s.Open("/a"))
	_, err := s.AnalyzeCommits(context.Background(), 1)
	require.NoError(t, err)

	require.NoError(t, s.Open("/b"))
	assert.Equal(t, "/b", s.RepoPath())
	assert.Empty(t, s.Results())
	assert.Empty(t, s.Summary())
	assert.Empty(t, s.LastRun())
}

func TestSession_NoSourceChanges(t *testing.T) {
	t.Parallel()

	repo := newRepo("/r")
	repo.DiffFn = func(context.Context, string, string) (string, error) {
		return "diff --git a/README.md b/README.md\n+docs\n", nil
	}
	s := newSession(t, &modelStub{}, map[string]fakeRepo{"/r": repo})
	require.NoError(t, s.Open("/r"))

	_, err := s.AnalyzeCommits(context.Background(), 1)
	assert.ErrorIs(t, err, session.ErrNoChanges)
}

func TestSession_Export(t *testing.T) {
	t.Parallel()

	s := newSession(t, &modelStub{summary: "## Summary\n- Run command"}, map[string]fakeRepo{"/work/app": newRepo("/work/app")})
	require.NoError(t, s.Open("/work/app"))
	_, err := s.AnalyzeCommits(context.Background(), 1)
	require.NoError(t, err)

	var b strings.Builder
	require.NoError(t, s.WriteExport(&b))

	want := `Repository: /work/app
Project type: go
Exported: 2025-03-04T05:06:07Z
Session: test-session
Analysis: commits (group 1)

== Feature Summaries ==

[1] empty-tree..aaaaaaa
Subject: Commit aaaaaaa
Stats: 1 file, +1 -0
- Adds a run command

[2] aaaaaaa..bbbbbbb
Subject: Commit bbbbbbb
Stats: 1 file, +1 -0
- Adds a run command

== Consolidated Summary ==

## Summary
- Run command
`
	assert.Equal(t, want, b.String())

	path := filepath.Join(t.TempDir(), "out.log")
	require.NoError(t, s.Export(path))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, want, string(data))
}

func TestSession_ExportWithoutFeatures(t *testing.T) {
	t.Parallel()

	s := newSession(t, &modelStub{}, map[string]fakeRepo{"/r": newRepo("/r")})
	require.NoError(t, s.Open("/r"))
	assert.ErrorIs(t, s.Export(filepath.Join(t.TempDir(), "x.log")), session.ErrNoFeatures)
}

func TestSession_Docs(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	s := newSession(t, &modelStub{summary: "# Guide\n- Run command"}, map[string]fakeRepo{"/r": newRepo("/r")})
	require.NoError(t, s.Open("/r"))

	// Updating without features leaves the file untouched.
	docPath := filepath.Join(dir, "GUIDE.md")
	require.NoError(t, os.WriteFile(docPath, []byte("# Old"), 0644))
	got, err := s.UpdateDoc(context.Background(), docPath)
	require.NoError(t, err)
	assert.Equal(t, "# Old", got)

	_, err = s.GenerateDoc(context.Background(), filepath.Join(dir, "NEW.md"))
	assert.ErrorIs(t, err, session.ErrNoFeatures)

	_, err = s.AnalyzeCommits(context.Background(), 1)
	require.NoError(t, err)

	newPath := filepath.Join(dir, "NEW.md")
	_, err = s.GenerateDoc(context.Background(), newPath)
	require.NoError(t, err)
	data, err := os.ReadFile(newPath)
	require.NoError(t, err)
	assert.Equal(t, "# Guide\n- Run command\n", string(data))

	_, err = s.UpdateDoc(context.Background(), docPath)
	require.NoError(t, err)
	data, err = os.ReadFile(docPath)
	require.NoError(t, err)
	assert.Equal(t, "# Guide\n- Run command\n", string(data))

	_, err = s.UpdateDoc(context.Background(), filepath.Join(dir, "missing.md"))
	assert.Error(t, err)
}
