package session

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/ishaan812/gitscribe/internal/history"
)

// DefaultExportName returns the file name used when /export gets no path.
func DefaultExportName(now time.Time) string {
	return "gitscribe-" + now.Format("20060102-150405") + ".log"
}

// Export writes the session's features and summary to path.
func (s *Session) Export(path string) error {
	if s.repo == nil {
		return ErrNoRepository
	}
	if len(s.results) == 0 {
		return ErrNoFeatures
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := s.WriteExport(f); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return f.Close()
}

// WriteExport renders the export log to w.
func (s *Session) WriteExport(w io.Writer) error {
	var b strings.Builder

	fmt.Fprintf(&b, "Repository: %s\n", s.RepoPath())
	fmt.Fprintf(&b, "Project type: %s\n", s.projectType)
	fmt.Fprintf(&b, "Exported: %s\n", s.now().Format(time.RFC3339))
	fmt.Fprintf(&b, "Session: %s\n", s.ID)
	if s.lastRun != "" {
		fmt.Fprintf(&b, "Analysis: %s\n", s.lastRun)
	}

	b.WriteString("\n== Feature Summaries ==\n")
	for i, r := range s.results {
		fmt.Fprintf(&b, "\n[%d] %s..%s\n", i+1, history.ShortRef(r.Record.From), history.ShortRef(r.Record.To))
		if subject := r.Record.Subject(); subject != "" {
			fmt.Fprintf(&b, "Subject: %s\n", subject)
		}
		fmt.Fprintf(&b, "Stats: %s\n", r.Record.Stats)
		b.WriteString(strings.TrimSpace(r.Text()))
		b.WriteString("\n")
	}

	b.WriteString("\n== Consolidated Summary ==\n\n")
	b.WriteString(strings.TrimSpace(s.consolidated))
	b.WriteString("\n")

	_, err := io.WriteString(w, b.String())
	return err
}
