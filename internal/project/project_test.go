package project

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestIsSourceFile(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path string
		pt   Type
		want bool
	}{
		{"main.go", Go, true},
		{"internal/diff/segment.go", Go, true},
		{"README.md", Go, false},
		{"go.mod", Go, false},
		{"app.py", Go, false},
		{"app.py", Python, true},
		{"src/index.TS", TypeScript, true},
		{"src/index.js", TypeScript, true},
		{"src/index.ts", JavaScript, false},
		{"Makefile", Unknown, false},
		{"lib.rs", Unknown, true},
		{"notes.txt", Unknown, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, IsSourceFile(tt.path, tt.pt), "IsSourceFile(%q, %s)", tt.path, tt.pt)
	}
}

func TestParseType(t *testing.T) {
	t.Parallel()

	pt, err := ParseType(" Go ")
	require.NoError(t, err)
	assert.Equal(t, Go, pt)

	pt, err = ParseType("unknown")
	require.NoError(t, err)
	assert.Equal(t, Unknown, pt)

	_, err = ParseType("cobol")
	assert.Error(t, err)
}

func TestDetect(t *testing.T) {
	t.Parallel()

	t.Run("go module", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		writeFile(t, dir, "go.mod", "module example.com/x\n")
		writeFile(t, dir, "main.go", "package main\n")
		writeFile(t, dir, "scripts/gen.py", "print('x')\n")
		writeFile(t, dir, "scripts/lint.py", "print('y')\n")
		writeFile(t, dir, "README.md", "# x\n")

		pt, err := Detect(dir)
		require.NoError(t, err)
		assert.Equal(t, Go, pt)
	})

	t.Run("ignores vendored dependencies", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		writeFile(t, dir, "app.py", "")
		for i := 0; i < 5; i++ {
			writeFile(t, dir, filepath.Join("node_modules", "pkg", string(rune('a'+i))+".js"), "")
		}

		pt, err := Detect(dir)
		require.NoError(t, err)
		assert.Equal(t, Python, pt)
	})

	t.Run("typescript wins over package.json", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		writeFile(t, dir, "package.json", "{}")
		writeFile(t, dir, "src/index.ts", "")

		pt, err := Detect(dir)
		require.NoError(t, err)
		assert.Equal(t, TypeScript, pt)
	})

	t.Run("empty directory", func(t *testing.T) {
		t.Parallel()
		pt, err := Detect(t.TempDir())
		require.NoError(t, err)
		assert.Equal(t, Unknown, pt)
	})
}
