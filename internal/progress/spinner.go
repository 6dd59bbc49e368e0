// Package progress provides terminal progress indicators.
package progress

import (
	"os"

	"github.com/pterm/pterm"

	"github.com/jrherrmann/glitzer/internal/termcolor"
)

// Spinner displays an animated spinner on stderr while a long-running
// operation is in progress. It is only displayed when stderr is a TTY;
// in non-interactive environments (piped output, CI, tests) it is silent.
type Spinner struct {
	msg  string
	live *pterm.SpinnerPrinter
}

// New creates a Spinner that will display msg alongside the animation.
func New(msg string) *Spinner {
	return &Spinner{msg: msg}
}

// Start begins the spinner animation. It writes to stderr so it never
// pollutes stdout.
func (s *Spinner) Start() {
	if !termcolor.IsTerminal(os.Stderr.Fd()) {
		return
	}
	printer := pterm.DefaultSpinner.WithWriter(os.Stderr)
	live, err := printer.Start(s.msg)
	if err != nil {
		return
	}
	s.live = live
}

// Stop halts the spinner animation and clears the line.
func (s *Spinner) Stop() {
	if s.live == nil {
		return
	}
	_ = s.live.Stop()
	s.live = nil
}
