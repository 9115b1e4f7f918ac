package diff

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

const twoFileDiff = `diff --git a/main.go b/main.go
index 1111111..2222222 100644
--- a/main.go
+++ b/main.go
@@ -1,2 +1,3 @@
 package main
-func a() {}
+func b() {}
+func c() {}
diff --git a/README.md b/README.md
index 3333333..4444444 100644
--- a/README.md
+++ b/README.md
@@ -1 +1 @@
-# old
+# new
`

func TestSegments(t *testing.T) {
	t.Parallel()

	segs := SplitSegments(twoFileDiff)
	require.Len(t, segs, 2)

	assert.Equal(t, "main.go", segs[0].Path)
	assert.True(t, strings.HasPrefix(segs[0].Content, "diff --git a/main.go b/main.go"))
	assert.True(t, strings.HasSuffix(segs[0].Content, "+func c() {}"))

	assert.Equal(t, "README.md", segs[1].Path)
	assert.True(t, strings.HasSuffix(segs[1].Content, "+# new"))
}

func TestSegments_Empty(t *testing.T) {
	t.Parallel()

	assert.Empty(t, SplitSegments(""))
	assert.Empty(t, SplitSegments("   \n"))
}

func TestSegments_NoMarkersDiscardsText(t *testing.T) {
	t.Parallel()

	text := "--- a/main.go\n+++ b/main.go\n@@ -1 +1 @@\n-x\n+y\n"
	assert.Empty(t, SplitSegments(text))
}

func TestSegments_PreambleDropped(t *testing.T) {
	t.Parallel()

	text := "commit abc\nAuthor: someone\n\n" + twoFileDiff
	segs := SplitSegments(text)
	require.Len(t, segs, 2)
	assert.NotContains(t, segs[0].Content, "commit abc")
}

func TestSegments_Restartable(t *testing.T) {
	t.Parallel()

	seq := Segments(twoFileDiff)
	var first, second []string
	for s := range seq {
		first = append(first, s.Path)
	}
	for s := range seq {
		second = append(second, s.Path)
	}
	assert.Equal(t, first, second)
}

func TestSegments_StopsEarly(t *testing.T) {
	t.Parallel()

	count := 0
	for range Segments(twoFileDiff) {
		count++
		break
	}
	assert.Equal(t, 1, count)
}

func TestSegments_ReconstructsDiff(t *testing.T) {
	t.Parallel()

	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(1, 8).Draw(t, "files")
		var b strings.Builder
		var paths []string
		for i := 0; i < n; i++ {
			name := rapid.StringMatching(`[a-z]{1,8}/[a-z]{1,8}\.(go|md|py)`).Draw(t, "path")
			paths = append(paths, name)
			fmt.Fprintf(&b, "diff --git a/%s b/%s\n--- a/%s\n+++ b/%s\n", name, name, name, name)
			lines := rapid.SliceOfN(rapid.StringMatching(`[+ -][a-z(){} ]{0,20}[a-z]`), 0, 6).Draw(t, "lines")
			for _, l := range lines {
				b.WriteString(l)
				b.WriteString("\n")
			}
		}
		text := b.String()

		segs := SplitSegments(text)
		if len(segs) != n {
			t.Fatalf("got %d segments, want %d", len(segs), n)
		}
		var contents []string
		for i, s := range segs {
			if s.Path != paths[i] {
				t.Fatalf("segment %d path = %q, want %q", i, s.Path, paths[i])
			}
			contents = append(contents, s.Content)
		}
		got := strings.Fields(strings.Join(contents, "\n"))
		want := strings.Fields(text)
		if strings.Join(got, " ") != strings.Join(want, " ") {
			t.Fatalf("reconstruction mismatch:\n%q\nvs\n%q", got, want)
		}
	})
}
