// Package diff splits unified diffs into per-file segments, packs them into
// size-bounded groups and drops sections that are not project source files.
package diff

import (
	"iter"
	"regexp"
	"slices"
	"strings"
)

// Segment is the unified-diff text of one file, including its "diff --git" header.
type Segment struct {
	Path    string
	Content string
}

var (
	// markerRe matches the start of every file section. The filter and the
	// segmenter share it so both agree on where sections begin.
	markerRe = regexp.MustCompile(`(?m)^diff --git `)

	segmentPathRe = regexp.MustCompile(`^diff --git .*? b/(.+)$`)
)

// Segments returns the file sections of text in the order they appear.
// Text before the first marker, and sections whose header carries no " b/"
// path, are discarded. Each call to the returned sequence re-scans text.
func Segments(text string) iter.Seq[Segment] {
	return func(yield func(Segment) bool) {
		bounds := markerRe.FindAllStringIndex(text, -1)
		for i, b := range bounds {
			end := len(text)
			if i+1 < len(bounds) {
				end = bounds[i+1][0]
			}
			section := text[b[0]:end]

			header, _, _ := strings.Cut(section, "\n")
			m := segmentPathRe.FindStringSubmatch(strings.TrimRight(header, "\r"))
			if m == nil {
				continue
			}
			seg := Segment{
				Path:    strings.TrimSpace(m[1]),
				Content: strings.TrimSpace(section),
			}
			if !yield(seg) {
				return
			}
		}
	}
}

// SplitSegments is Segments collected into a slice.
func SplitSegments(text string) []Segment {
	return slices.Collect(Segments(text))
}

// Size is the sizeOf function used when grouping segments.
func (s Segment) Size() int {
	return len(s.Content)
}
