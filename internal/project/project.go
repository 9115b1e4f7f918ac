// Package project classifies a repository by its primary language and decides
// which file paths count as source for that classification.
package project

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
)

// Type is a coarse classification of a repository's primary language.
type Type string

const (
	Go         Type = "go"
	Python     Type = "python"
	JavaScript Type = "javascript"
	TypeScript Type = "typescript"
	Java       Type = "java"
	Rust       Type = "rust"
	Ruby       Type = "ruby"
	PHP        Type = "php"
	CSharp     Type = "csharp"
	Cpp        Type = "cpp"
	Swift      Type = "swift"
	Kotlin     Type = "kotlin"
	Unknown    Type = "unknown"
)

// detectOrder breaks score ties deterministically.
var detectOrder = []Type{Go, Rust, TypeScript, JavaScript, Python, Java, Kotlin, CSharp, Cpp, Swift, Ruby, PHP}

var sourceExtensions = map[Type][]string{
	Go:         {".go"},
	Python:     {".py", ".pyi"},
	JavaScript: {".js", ".jsx", ".mjs", ".cjs", ".vue", ".svelte"},
	TypeScript: {".ts", ".tsx", ".mts", ".cts", ".js", ".jsx", ".vue", ".svelte"},
	Java:       {".java"},
	Rust:       {".rs"},
	Ruby:       {".rb", ".rake"},
	PHP:        {".php"},
	CSharp:     {".cs"},
	Cpp:        {".c", ".cc", ".cpp", ".cxx", ".h", ".hh", ".hpp"},
	Swift:      {".swift"},
	Kotlin:     {".kt", ".kts", ".java"},
}

// extensionType maps a file extension to the project type it counts towards
// during detection.
var extensionType = map[string]Type{
	".go":    Go,
	".py":    Python,
	".js":    JavaScript,
	".jsx":   JavaScript,
	".mjs":   JavaScript,
	".ts":    TypeScript,
	".tsx":   TypeScript,
	".java":  Java,
	".rs":    Rust,
	".rb":    Ruby,
	".php":   PHP,
	".cs":    CSharp,
	".c":     Cpp,
	".cc":    Cpp,
	".cpp":   Cpp,
	".h":     Cpp,
	".hpp":   Cpp,
	".swift": Swift,
	".kt":    Kotlin,
}

// markerFiles identify a project type regardless of file counts.
var markerFiles = map[string]Type{
	"go.mod":           Go,
	"Cargo.toml":       Rust,
	"tsconfig.json":    TypeScript,
	"package.json":     JavaScript,
	"pyproject.toml":   Python,
	"setup.py":         Python,
	"requirements.txt": Python,
	"pom.xml":          Java,
	"build.gradle":     Java,
	"build.gradle.kts": Kotlin,
	"Gemfile":          Ruby,
	"composer.json":    PHP,
	"CMakeLists.txt":   Cpp,
	"Package.swift":    Swift,
}

const markerWeight = 25

var ignoredDirs = map[string]bool{
	".git":          true,
	"node_modules":  true,
	"vendor":        true,
	".venv":         true,
	"venv":          true,
	"__pycache__":   true,
	".idea":         true,
	".vscode":       true,
	"dist":          true,
	"build":         true,
	"target":        true,
	".next":         true,
	".nuxt":         true,
	"coverage":      true,
	".pytest_cache": true,
	".mypy_cache":   true,
}

// ParseType converts a user-supplied name into a Type.
func ParseType(s string) (Type, error) {
	t := Type(strings.ToLower(strings.TrimSpace(s)))
	if t == Unknown {
		return t, nil
	}
	if _, ok := sourceExtensions[t]; !ok {
		return "", fmt.Errorf("unknown project type %q", s)
	}
	return t, nil
}

// IsSourceFile reports whether path has a source extension for pt.
// Unknown accepts any extension known to some project type.
func IsSourceFile(path string, pt Type) bool {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == "" {
		return false
	}
	if pt == Unknown || pt == "" {
		for _, exts := range sourceExtensions {
			for _, e := range exts {
				if e == ext {
					return true
				}
			}
		}
		return false
	}
	for _, e := range sourceExtensions[pt] {
		if e == ext {
			return true
		}
	}
	return false
}

// Detect walks root and returns the project type with the highest score.
// Each source file scores one point for its type; a marker file near the
// root (go.mod, package.json, ...) scores markerWeight.
func Detect(root string) (Type, error) {
	absPath, err := filepath.Abs(root)
	if err != nil {
		return Unknown, err
	}

	scores := make(map[Type]int)
	err = filepath.WalkDir(absPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("walk error at %s: %w", path, err)
		}
		if path == absPath {
			return nil
		}

		if d.IsDir() {
			if ignoredDirs[d.Name()] || strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}

		relPath, err := filepath.Rel(absPath, path)
		if err != nil {
			return nil
		}
		depth := strings.Count(relPath, string(filepath.Separator))
		if t, ok := markerFiles[d.Name()]; ok && depth <= 1 {
			scores[t] += markerWeight
		}
		if t, ok := extensionType[strings.ToLower(filepath.Ext(d.Name()))]; ok {
			scores[t]++
		}
		return nil
	})
	if err != nil {
		return Unknown, err
	}

	// TypeScript projects carry a package.json too.
	if scores[TypeScript] > 0 && scores[JavaScript] >= markerWeight {
		scores[TypeScript] += markerWeight
		scores[JavaScript] -= markerWeight
	}

	best, bestScore := Unknown, 0
	for _, t := range detectOrder {
		if scores[t] > bestScore {
			best, bestScore = t, scores[t]
		}
	}
	return best, nil
}
