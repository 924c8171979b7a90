package ui

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
)

var (
	infoLabel  = color.New(color.FgCyan).Sprint("info")
	warnLabel  = color.New(color.FgYellow, color.Bold).Sprint("warning")
	errorLabel = color.New(color.FgRed, color.Bold).Sprint("error")
)

// Notifier prints user-facing messages with severity labels. Quiet
// suppresses informational output; warnings and errors always show.
type Notifier struct {
	Out   io.Writer
	Err   io.Writer
	Quiet bool
}

// NewNotifier writes info to stdout and warnings/errors to stderr.
func NewNotifier(quiet bool) *Notifier {
	return &Notifier{Out: os.Stdout, Err: os.Stderr, Quiet: quiet}
}

func (n *Notifier) Infof(format string, args ...any) {
	if n.Quiet {
		return
	}
	fmt.Fprintf(n.Out, "%s: %s\n", infoLabel, fmt.Sprintf(format, args...))
}

func (n *Notifier) Warnf(format string, args ...any) {
	fmt.Fprintf(n.Err, "%s: %s\n", warnLabel, fmt.Sprintf(format, args...))
}

func (n *Notifier) Errorf(format string, args ...any) {
	fmt.Fprintf(n.Err, "%s: %s\n", errorLabel, fmt.Sprintf(format, args...))
}
