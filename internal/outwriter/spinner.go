package outwriter

import (
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/mattn/go-isatty"
)

// Spinner shows progress on stderr while a long analysis runs. It stays
// silent when stderr is not a terminal.
type Spinner struct {
	s       *spinner.Spinner
	enabled bool
}

// NewSpinner returns a spinner labelled with message. Passing enabled=false,
// or running without a terminal on stderr, yields a no-op spinner.
func NewSpinner(message string, enabled bool) *Spinner {
	fd := os.Stderr.Fd()
	if !enabled || !(isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)) {
		return &Spinner{}
	}
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(os.Stderr))
	s.Suffix = " " + message
	return &Spinner{s: s, enabled: true}
}

// Start begins the animation.
func (sp *Spinner) Start() {
	if sp.enabled && sp.s != nil {
		sp.s.Start()
	}
}

// Stop ends the animation and clears the line.
func (sp *Spinner) Stop() {
	if sp.enabled && sp.s != nil {
		sp.s.Stop()
	}
}

// Enabled reports whether the spinner draws anything.
func (sp *Spinner) Enabled() bool {
	return sp.enabled
}
