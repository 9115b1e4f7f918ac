package cli

import (
	"fmt"
	"sync"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
)

// progress owns the terminal while a long operation runs. Diff walking,
// analysis workers and streamed tokens all report through it, so every
// method takes the lock.
type progress struct {
	mu        sync.Mutex
	spin      *spinner.Spinner
	streaming bool
	midLine   bool
	active    bool
}

func newProgress() *progress {
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	s.Color("cyan")
	return &progress{spin: s}
}

// Begin starts the spinner, or prints a header line when model output is
// streamed to the terminal instead.
func (p *progress) Begin(label string, streaming bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.active = true
	p.streaming = streaming
	p.midLine = false
	if streaming {
		dimColor.Printf("  %s...\n", label)
		return
	}
	p.spin.Suffix = "  " + label + "..."
	p.spin.Start()
}

// Status replaces the spinner suffix.
func (p *progress) Status(format string, args ...interface{}) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.active {
		return
	}
	msg := fmt.Sprintf(format, args...)
	if p.streaming {
		p.breakLine()
		dimColor.Printf("  %s\n", msg)
		return
	}
	p.spin.Lock()
	p.spin.Suffix = "  " + msg
	p.spin.Unlock()
}

// Token prints a streamed model fragment as it arrives.
func (p *progress) Token(fragment string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.streaming || fragment == "" {
		return
	}
	fmt.Fprint(color.Output, fragment)
	p.midLine = fragment[len(fragment)-1] != '\n'
}

// Warn prints a line above the spinner without ending the operation.
func (p *progress) Warn(format string, args ...interface{}) {
	p.mu.Lock()
	defer p.mu.Unlock()
	running := p.active && !p.streaming
	if running {
		p.spin.Stop()
	}
	p.breakLine()
	warnColor.Printf("  ! "+format+"\n", args...)
	if running {
		p.spin.Start()
	}
}

func (p *progress) End() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.active && !p.streaming {
		p.spin.Stop()
	}
	p.breakLine()
	p.active = false
}

func (p *progress) breakLine() {
	if p.midLine {
		fmt.Fprintln(color.Output)
		p.midLine = false
	}
}
