package history

import (
	"errors"
	"fmt"
	"strings"
)

// Reference sentinels understood by every Source.
const (
	// EmptyTree is the hash of git's empty tree object and stands for
	// "no prior state" in the first comparison of a history.
	EmptyTree = "4b825dc642cb6eb9a060e54bf8d69288fbee4904"
	Head      = "HEAD"
)

// Pair is one comparison point: the diff from From to To.
type Pair struct {
	From string
	To   string
}

func (p Pair) String() string {
	return ShortRef(p.From) + ".." + ShortRef(p.To)
}

// ShortRef abbreviates full commit hashes and leaves names alone.
func ShortRef(ref string) string {
	if ref == EmptyTree {
		return "empty-tree"
	}
	if len(ref) == 40 && isHex(ref) {
		return ref[:7]
	}
	return ref
}

func isHex(s string) bool {
	return strings.Trim(s, "0123456789abcdef") == ""
}

// TagNotFoundError is returned when a requested start tag does not exist.
type TagNotFoundError struct {
	Tag       string
	Available []string
}

func (e *TagNotFoundError) Error() string {
	if len(e.Available) == 0 {
		return fmt.Sprintf("tag %q not found: repository has no tags", e.Tag)
	}
	return fmt.Sprintf("tag %q not found (available: %s)", e.Tag, strings.Join(e.Available, ", "))
}

// IsNotFound reports whether err is, or wraps, a TagNotFoundError.
func IsNotFound(err error) bool {
	var target *TagNotFoundError
	return errors.As(err, &target)
}

// CommitPairs plans the comparisons for oldest-first commit hashes grouped by
// n. The first commit is compared against the empty tree, then every n-th
// commit against the one n before it, and a trailing pair reaches HEAD when
// the last grouped commit is not the newest. Histories shorter than n+1
// commits collapse to the single comparison (EmptyTree, HEAD).
func CommitPairs(commits []string, n int) []Pair {
	if n < 1 {
		n = 1
	}
	total := len(commits)
	if total < n+1 {
		return []Pair{{From: EmptyTree, To: Head}}
	}

	pairs := []Pair{{From: EmptyTree, To: commits[0]}}
	last := 0
	for i := n; i < total; i += n {
		pairs = append(pairs, Pair{From: commits[i-n], To: commits[i]})
		last = i
	}
	if last != total-1 {
		pairs = append(pairs, Pair{From: commits[last], To: Head})
	}
	return pairs
}

// TagPairs plans the comparisons for tags sorted by creation date. Without a
// start tag the first tag is compared against the empty tree; with one, the
// walk begins at that tag. Every plan ends with (lastTag, HEAD).
func TagPairs(tags []string, start string) ([]Pair, error) {
	if start == "" && len(tags) == 0 {
		return []Pair{{From: EmptyTree, To: Head}}, nil
	}

	var pairs []Pair
	from := 0
	if start == "" {
		pairs = append(pairs, Pair{From: EmptyTree, To: tags[0]})
	} else {
		from = indexOf(tags, start)
		if from < 0 {
			return nil, &TagNotFoundError{Tag: start, Available: append([]string(nil), tags...)}
		}
	}

	for i := from + 1; i < len(tags); i++ {
		pairs = append(pairs, Pair{From: tags[i-1], To: tags[i]})
	}
	pairs = append(pairs, Pair{From: tags[len(tags)-1], To: Head})
	return pairs, nil
}

func indexOf(items []string, want string) int {
	for i, s := range items {
		if s == want {
			return i
		}
	}
	return -1
}
