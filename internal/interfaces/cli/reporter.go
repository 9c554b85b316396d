package cli

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/example/slotfinder/internal/application/usecases"
)

// consoleReporter prints operator status lines. It implements
// usecases.Reporter.
type consoleReporter struct {
	w io.Writer
}

func newConsoleReporter(w io.Writer) *consoleReporter { return &consoleReporter{w: w} }

func (r *consoleReporter) Planned(p usecases.Plan) {
	fmt.Fprintf(r.w, "Searching %d target(s) for %s, up to %d attempts, %s apart\n",
		len(p.Targets), p.Criteria.Date, p.MaxAttempts, p.Delay)
}

func (r *consoleReporter) AttemptStarted(attempt, max int) {
	color.New(color.FgCyan).Fprintf(r.w, "Finding available slots, try #%d of %d\n", attempt, max)
}

func (r *consoleReporter) Finished(res usecases.Result) {
	switch res.Outcome {
	case usecases.OutcomeSucceeded:
		color.New(color.FgGreen).Fprintf(r.w, "Booked a slot after %d attempt(s)\n", res.Attempts)
	case usecases.OutcomeNotFound:
		color.New(color.FgYellow).Fprintf(r.w, "No slot found after %d attempt(s)\n", res.Attempts)
	case usecases.OutcomeSkipped:
		color.New(color.FgYellow).Fprintln(r.w, "Search skipped by version check")
	case usecases.OutcomeFailed:
		color.New(color.FgRed).Fprintf(r.w, "Search failed: %v\n", res.Err)
	}
}

// Notice prints version gate messages.
func (r *consoleReporter) Notice(msg string) {
	color.New(color.FgYellow).Fprintln(r.w, msg)
}
