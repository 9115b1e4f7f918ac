package mock

import (
	"context"

	"github.com/ishaan812/gitscribe/internal/history"
)

// Compile-time interface verification.
var _ history.Source = (*HistorySource)(nil)

// HistorySource is a mock implementation of history.Source.
type HistorySource struct {
	CommitsFn func(ctx context.Context) ([]string, error)
	TagsFn    func(ctx context.Context) ([]string, error)
	DiffFn    func(ctx context.Context, from, to string) (string, error)
	MessageFn func(ctx context.Context, ref string) (string, error)
}

func (s *HistorySource) Commits(ctx context.Context) ([]string, error) {
	return s.CommitsFn(ctx)
}

func (s *HistorySource) Tags(ctx context.Context) ([]string, error) {
	return s.TagsFn(ctx)
}

func (s *HistorySource) Diff(ctx context.Context, from, to string) (string, error) {
	return s.DiffFn(ctx, from, to)
}

func (s *HistorySource) Message(ctx context.Context, ref string) (string, error) {
	if s.MessageFn == nil {
		return "", nil
	}
	return s.MessageFn(ctx, ref)
}
