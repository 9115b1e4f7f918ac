package diff

import (
	"regexp"
	"strings"

	"github.com/ishaan812/gitscribe/internal/project"
)

var pathPairRe = regexp.MustCompile(`^a/(.+?) b/`)

// FilterSourceFiles keeps only the file sections of text whose path is a
// source file for the given project type. It returns "" when nothing is kept.
func FilterSourceFiles(text string, pt project.Type) string {
	return filterSections(text, func(path string) bool {
		return project.IsSourceFile(path, pt)
	})
}

func filterSections(text string, keep func(path string) bool) string {
	bounds := markerRe.FindAllStringIndex(text, -1)
	if len(bounds) == 0 {
		return ""
	}

	var b strings.Builder
	for i, bound := range bounds {
		end := len(text)
		if i+1 < len(bounds) {
			end = bounds[i+1][0]
		}
		section := text[bound[1]:end]

		m := pathPairRe.FindStringSubmatch(section)
		if m == nil || !keep(m[1]) {
			continue
		}
		b.WriteString("diff --git ")
		b.WriteString(section)
	}
	return b.String()
}
