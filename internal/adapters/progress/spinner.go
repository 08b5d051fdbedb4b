package progress

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/bloom-dao/bloomgov/internal/usecase"
	"github.com/briandowns/spinner"
	"github.com/fatih/color"
)

// SpinnerSink shows a spinner while a transaction is submitted and prints a
// line per completed step. Without a terminal it prints plain messages.
type SpinnerSink struct {
	out         io.Writer
	interactive bool
	spinner     *spinner.Spinner
	stageStart  time.Time
}

// NewSpinnerSink creates a new spinner-based progress sink writing to out
func NewSpinnerSink(out io.Writer, interactive bool) *SpinnerSink {
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(out))
	s.HideCursor = false

	return &SpinnerSink{
		out:         out,
		interactive: interactive,
		spinner:     s,
	}
}

// OnProgress handles progress events
func (r *SpinnerSink) OnProgress(ctx context.Context, event usecase.ProgressEvent) {
	if !r.interactive {
		if event.Spinner && event.Message != "" {
			fmt.Fprintln(r.out, event.Message+"...")
		}
		return
	}

	if event.Spinner {
		r.stageStart = time.Now()
		r.spinner.Suffix = " " + event.Message
		if !r.spinner.Active() {
			r.spinner.Start()
		}
		return
	}

	if r.spinner.Active() {
		r.spinner.Stop()
		elapsed := time.Since(r.stageStart).Round(time.Millisecond)
		fmt.Fprintf(r.out, "%s %s %s\n",
			color.New(color.FgGreen).Sprint("✓"),
			event.Message,
			color.New(color.Faint).Sprintf("(%s)", elapsed))
	}
}

// Info prints an info message
func (r *SpinnerSink) Info(message string) {
	r.pause(func() {
		color.New(color.FgCyan).Fprintln(r.out, message)
	})
}

// Error prints an error message
func (r *SpinnerSink) Error(message string) {
	r.pause(func() {
		color.New(color.FgRed).Fprintln(r.out, message)
	})
}

// pause stops the spinner around fn and restarts it afterwards
func (r *SpinnerSink) pause(fn func()) {
	wasActive := r.spinner.Active()
	if wasActive {
		r.spinner.Stop()
	}
	fn()
	if wasActive {
		r.spinner.Start()
	}
}

// Ensure SpinnerSink implements ProgressSink
var _ usecase.ProgressSink = (*SpinnerSink)(nil)
