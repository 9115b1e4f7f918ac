package git

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/ishaan812/gitscribe/internal/history"
)

// ErrNotRepository is returned when a path is not inside a git work tree.
var ErrNotRepository = errors.New("not a git repository")

var _ history.Source = (*Repository)(nil)

type Repository struct {
	repo *git.Repository
	path string
}

// OpenRepo opens the repository containing path. Paths inside a work tree
// resolve to its root.
func OpenRepo(path string) (*Repository, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve path: %w", err)
	}

	info, err := os.Stat(absPath)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", ErrNotRepository, absPath)
	}

	repo, err := git.PlainOpenWithOptions(absPath, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		if errors.Is(err, git.ErrRepositoryNotExists) {
			return nil, fmt.Errorf("%w: %s", ErrNotRepository, absPath)
		}
		return nil, fmt.Errorf("failed to open git repository at %s: %w", absPath, err)
	}

	root := absPath
	if wt, err := repo.Worktree(); err == nil {
		root = wt.Filesystem.Root()
	}

	return &Repository{
		repo: repo,
		path: root,
	}, nil
}

func (r *Repository) Path() string {
	return r.path
}

// HeadHash returns the full hash of the commit HEAD points to.
func (r *Repository) HeadHash() (string, error) {
	head, err := r.repo.Head()
	if err != nil {
		return "", fmt.Errorf("failed to get HEAD: %w", err)
	}
	return head.Hash().String(), nil
}

// commit resolves a hash, tag name, branch or HEAD to a commit. Annotated
// tags are peeled.
func (r *Repository) commit(ref string) (*object.Commit, error) {
	hash, err := r.repo.ResolveRevision(plumbing.Revision(ref))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", ref, err)
	}
	c, err := r.repo.CommitObject(*hash)
	if err != nil {
		return nil, fmt.Errorf("failed to load commit %s: %w", ref, err)
	}
	return c, nil
}

// tree returns the tree of ref, or nil for the empty tree sentinel.
func (r *Repository) tree(ref string) (*object.Tree, error) {
	if ref == history.EmptyTree {
		return nil, nil
	}
	c, err := r.commit(ref)
	if err != nil {
		return nil, err
	}
	t, err := c.Tree()
	if err != nil {
		return nil, fmt.Errorf("failed to load tree of %s: %w", ref, err)
	}
	return t, nil
}
