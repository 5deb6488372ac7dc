// Package output handles CLI output for shelve: plain messages, verbose
// detail, warnings, errors and a single in-place progress line on terminals.
package output

import (
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// progressWidth is the number of columns blanked when the progress line is cleared.
const progressWidth = 72

// Config holds output configuration.
type Config struct {
	Verbose   bool      // Enable verbose output
	Writer    io.Writer // Output destination (default: os.Stdout)
	ErrWriter io.Writer // Error output destination (default: os.Stderr)
	IsTTY     bool      // Whether output is a terminal
}

// Output handles formatted output with verbose and progress support.
type Output struct {
	config        Config
	progressOn    bool
	progressTotal int
	progressLabel string
}

// New creates a new Output instance with the given configuration.
func New(config Config) *Output {
	if config.Writer == nil {
		config.Writer = os.Stdout
	}
	if config.ErrWriter == nil {
		config.ErrWriter = os.Stderr
	}
	return &Output{config: config}
}

// DefaultConfig returns a Config writing to the standard streams, with TTY
// detection on stdout.
func DefaultConfig() Config {
	return Config{
		Writer:    os.Stdout,
		ErrWriter: os.Stderr,
		IsTTY:     term.IsTerminal(int(os.Stdout.Fd())),
	}
}

// Info prints an informational message (always shown).
func (o *Output) Info(format string, args ...interface{}) {
	o.emit(o.config.Writer, "", format, args...)
}

// Verbose prints a message only when verbose mode is enabled.
func (o *Output) Verbose(format string, args ...interface{}) {
	if !o.config.Verbose {
		return
	}
	o.emit(o.config.Writer, "", format, args...)
}

// Warn prints a warning to stderr.
func (o *Output) Warn(format string, args ...interface{}) {
	o.emit(o.config.ErrWriter, "WARNING: ", format, args...)
}

// Error prints an error message to stderr.
func (o *Output) Error(format string, args ...interface{}) {
	o.emit(o.config.ErrWriter, "ERROR: ", format, args...)
}

func (o *Output) emit(w io.Writer, prefix, format string, args ...interface{}) {
	o.clearProgressLine()
	msg := prefix + fmt.Sprintf(format, args...)
	if !strings.HasSuffix(msg, "\n") {
		msg += "\n"
	}
	fmt.Fprint(w, msg)
}

// progressEnabled reports whether progress lines are drawn at all: only on
// a terminal and never together with verbose output.
func (o *Output) progressEnabled() bool {
	return o.config.IsTTY && !o.config.Verbose
}

func (o *Output) clearProgressLine() {
	if o.progressOn && o.config.IsTTY {
		fmt.Fprint(o.config.Writer, "\r"+strings.Repeat(" ", progressWidth)+"\r")
	}
}

// StartProgress begins a progress session. A total of 0 means the total is
// not known yet (e.g. while scanning).
func (o *Output) StartProgress(label string, total int) {
	if !o.progressEnabled() {
		return
	}
	o.progressOn = true
	o.progressTotal = total
	o.progressLabel = label
}

// UpdateProgress redraws the progress line.
func (o *Output) UpdateProgress(current int) {
	if !o.progressEnabled() || !o.progressOn {
		return
	}
	if o.progressTotal > 0 {
		fmt.Fprintf(o.config.Writer, "\r%s %d/%d...", o.progressLabel, current, o.progressTotal)
		return
	}
	fmt.Fprintf(o.config.Writer, "\r%s %d file(s)...", o.progressLabel, current)
}

// EndProgress clears the progress line.
func (o *Output) EndProgress() {
	if !o.progressEnabled() || !o.progressOn {
		return
	}
	o.clearProgressLine()
	o.progressOn = false
}
