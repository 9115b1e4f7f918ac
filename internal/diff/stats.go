package diff

import (
	"fmt"
	"strings"

	"github.com/bluekeyes/go-gitdiff/gitdiff"
)

// Stats summarizes the size of a diff.
type Stats struct {
	Files   int
	Added   int
	Deleted int
}

func (s Stats) String() string {
	noun := "files"
	if s.Files == 1 {
		noun = "file"
	}
	return fmt.Sprintf("%d %s, +%d -%d", s.Files, noun, s.Added, s.Deleted)
}

// ComputeStats parses text as a git diff and counts files and changed lines.
func ComputeStats(text string) (Stats, error) {
	files, _, err := gitdiff.Parse(strings.NewReader(text))
	if err != nil {
		return Stats{}, fmt.Errorf("failed to parse diff: %w", err)
	}

	var s Stats
	for _, f := range files {
		s.Files++
		for _, frag := range f.TextFragments {
			s.Added += int(frag.LinesAdded)
			s.Deleted += int(frag.LinesDeleted)
		}
	}
	return s, nil
}
