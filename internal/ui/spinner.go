package ui

import (
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/mattn/go-isatty"
	"golang.org/x/term"
)

// Spinner wraps briandowns/spinner and stays silent unless stderr is a terminal.
type Spinner struct {
	s       *spinner.Spinner
	enabled bool
}

// IsTerminal reports whether f is an interactive terminal.
func IsTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// NewSpinner creates a spinner on stderr. It is disabled when want is false
// or stderr is not a TTY (hooks run by GUI git clients, CI logs).
func NewSpinner(message string, want bool) *Spinner {
	if !want || !IsTerminal(os.Stderr) {
		return &Spinner{enabled: false}
	}

	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(os.Stderr))
	s.Suffix = suffix(message, terminalWidth(os.Stderr))
	return &Spinner{s: s, enabled: true}
}

// Start begins the spinner animation
func (sp *Spinner) Start() {
	if sp.enabled && sp.s != nil {
		sp.s.Start()
	}
}

// Stop ends the spinner animation
func (sp *Spinner) Stop() {
	if sp.enabled && sp.s != nil {
		sp.s.Stop()
	}
}

// Enabled reports whether the spinner will draw anything.
func (sp *Spinner) Enabled() bool {
	return sp.enabled
}

func terminalWidth(f *os.File) int {
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil {
		return 0
	}
	return width
}

// suffix keeps the spinner on one line; the frame takes two columns.
func suffix(message string, width int) string {
	s := " " + message
	if width <= 0 {
		return s
	}
	limit := width - 2
	runes := []rune(s)
	if limit < 4 {
		return ""
	}
	if len(runes) > limit {
		return string(runes[:limit-3]) + "..."
	}
	return s
}
