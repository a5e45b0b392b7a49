package display

import (
	"os"
	"time"

	"github.com/briandowns/spinner"
)

// Spinner shows progress on a terminal while a request is in flight.
// It does nothing when its output is not a terminal.
type Spinner struct {
	s *spinner.Spinner
}

// NewSpinner creates a spinner that writes to out
func NewSpinner(message string, out *os.File) *Spinner {
	if !IsTerminal(out) {
		return &Spinner{}
	}
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond,
		spinner.WithWriter(out),
		spinner.WithHiddenCursor(true),
	)
	s.Suffix = " " + message
	return &Spinner{s: s}
}

// Start begins the animation
func (sp *Spinner) Start() {
	if sp.s != nil {
		sp.s.Start()
	}
}

// Stop ends the animation and clears the line
func (sp *Spinner) Stop() {
	if sp.s != nil {
		sp.s.Stop()
	}
}

// Active reports whether the spinner will draw anything
func (sp *Spinner) Active() bool {
	return sp.s != nil
}
