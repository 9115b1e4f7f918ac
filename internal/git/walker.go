package git

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/ishaan812/gitscribe/internal/history"
)

// Commits returns the hashes reachable from HEAD, oldest first. A repository
// without commits yields none.
func (r *Repository) Commits(ctx context.Context) ([]string, error) {
	head, err := r.HeadHash()
	if err != nil {
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			return nil, nil
		}
		return nil, err
	}

	iter, err := r.repo.Log(&git.LogOptions{
		From:  plumbing.NewHash(head),
		Order: git.LogOrderCommitterTime,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create log iterator: %w", err)
	}
	defer iter.Close()

	var hashes []string
	err = iter.ForEach(func(c *object.Commit) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		hashes = append(hashes, c.Hash.String())
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to iterate commits: %w", err)
	}

	slices.Reverse(hashes)
	return hashes, nil
}

type tagInfo struct {
	name    string
	created time.Time
}

// Tags returns tag names ordered by creation date: the tagger date for
// annotated tags and the commit date for lightweight ones.
func (r *Repository) Tags(ctx context.Context) ([]string, error) {
	iter, err := r.repo.Tags()
	if err != nil {
		return nil, fmt.Errorf("failed to list tags: %w", err)
	}
	defer iter.Close()

	var tags []tagInfo
	err = iter.ForEach(func(ref *plumbing.Reference) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		created, err := r.tagDate(ref.Hash())
		if err != nil {
			return fmt.Errorf("tag %s: %w", ref.Name().Short(), err)
		}
		tags = append(tags, tagInfo{name: ref.Name().Short(), created: created})
		return nil
	})
	if err != nil {
		return nil, err
	}

	slices.SortStableFunc(tags, func(a, b tagInfo) int {
		if c := a.created.Compare(b.created); c != 0 {
			return c
		}
		return strings.Compare(a.name, b.name)
	})

	names := make([]string, len(tags))
	for i, t := range tags {
		names[i] = t.name
	}
	return names, nil
}

func (r *Repository) tagDate(hash plumbing.Hash) (time.Time, error) {
	if tag, err := r.repo.TagObject(hash); err == nil {
		return tag.Tagger.When, nil
	}
	c, err := r.repo.CommitObject(hash)
	if err != nil {
		return time.Time{}, err
	}
	return c.Committer.When, nil
}

// Diff renders the unified diff between two refs. history.EmptyTree stands
// for a tree with no files.
func (r *Repository) Diff(ctx context.Context, from, to string) (string, error) {
	fromTree, err := r.tree(from)
	if err != nil {
		return "", err
	}
	toTree, err := r.tree(to)
	if err != nil {
		return "", err
	}

	changes, err := object.DiffTreeWithOptions(ctx, fromTree, toTree, object.DefaultDiffTreeOptions)
	if err != nil {
		return "", fmt.Errorf("failed to diff %s..%s: %w", from, to, err)
	}
	patch, err := changes.PatchContext(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to build patch %s..%s: %w", from, to, err)
	}
	return patch.String(), nil
}

// Message returns the commit message of ref.
func (r *Repository) Message(_ context.Context, ref string) (string, error) {
	if ref == history.EmptyTree {
		return "", nil
	}
	c, err := r.commit(ref)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(c.Message), nil
}
