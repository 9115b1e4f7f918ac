package history

import (
	"context"
	"fmt"
	"strings"

	"github.com/ishaan812/gitscribe/internal/diff"
	"github.com/ishaan812/gitscribe/internal/project"
)

// Source is the git surface the walker needs. Refs are commit hashes, tag
// names, Head, or EmptyTree.
type Source interface {
	// Commits returns commit hashes reachable from HEAD, oldest first.
	Commits(ctx context.Context) ([]string, error)
	// Tags returns tag names sorted by creation date, oldest first.
	Tags(ctx context.Context) ([]string, error)
	// Diff returns the unified diff between two refs.
	Diff(ctx context.Context, from, to string) (string, error)
	// Message returns the commit message of ref.
	Message(ctx context.Context, ref string) (string, error)
}

// Record is one filtered, non-empty diff ready for analysis.
type Record struct {
	From     string
	To       string
	DiffText string
	Message  string
	Stats    diff.Stats
}

// Pair returns the comparison the record was produced from.
func (r Record) Pair() Pair {
	return Pair{From: r.From, To: r.To}
}

// Subject returns the first line of the record's message.
func (r Record) Subject() string {
	subject, _, _ := strings.Cut(strings.TrimSpace(r.Message), "\n")
	return subject
}

type WalkOptions struct {
	ProjectType project.Type
	// OnError is called for a pair whose diff failed; the pair is skipped.
	OnError func(p Pair, err error)
	// OnProgress is called before each pair is diffed.
	OnProgress func(done, total int, p Pair)
}

// WalkCommits diffs the commit history grouped by n.
func WalkCommits(ctx context.Context, src Source, n int, opts WalkOptions) ([]Record, error) {
	commits, err := src.Commits(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list commits: %w", err)
	}
	return Walk(ctx, src, CommitPairs(commits, n), opts)
}

// WalkTags diffs consecutive tags, optionally starting at start. An unknown
// start tag fails with a TagNotFoundError before any diff is taken.
func WalkTags(ctx context.Context, src Source, start string, opts WalkOptions) ([]Record, error) {
	tags, err := src.Tags(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list tags: %w", err)
	}
	pairs, err := TagPairs(tags, start)
	if err != nil {
		return nil, err
	}
	return Walk(ctx, src, pairs, opts)
}

// Walk diffs every pair in order, filters each diff down to the project's
// source files and drops the ones left empty. A pair that fails to diff is
// reported through OnError and skipped. Only cancellation stops the walk.
func Walk(ctx context.Context, src Source, pairs []Pair, opts WalkOptions) ([]Record, error) {
	var records []Record
	for i, p := range pairs {
		if err := ctx.Err(); err != nil {
			return records, err
		}
		if opts.OnProgress != nil {
			opts.OnProgress(i, len(pairs), p)
		}

		text, err := src.Diff(ctx, p.From, p.To)
		if err != nil {
			if ctx.Err() != nil {
				return records, ctx.Err()
			}
			if opts.OnError != nil {
				opts.OnError(p, err)
			}
			continue
		}

		filtered := diff.FilterSourceFiles(text, opts.ProjectType)
		if strings.TrimSpace(filtered) == "" {
			continue
		}

		// A missing message or unparsable stats are not worth losing the diff over.
		msg, _ := src.Message(ctx, p.To)
		stats, _ := diff.ComputeStats(filtered)
		records = append(records, Record{
			From:     p.From,
			To:       p.To,
			DiffText: filtered,
			Message:  msg,
			Stats:    stats,
		})
	}
	return records, nil
}
