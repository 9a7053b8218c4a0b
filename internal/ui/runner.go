package ui

import (
	"fmt"
	"io"
	"os"
	"time"
)

// RunnerConfig describes one command run.
type RunnerConfig struct {
	Title     string   // e.g. "Create core file"
	Command   string   // e.g. "espcoredump create"
	Params    []Field  // shown in the header
	StepNames []string // one per step
	Hints     []string // shown on failure
	Output    io.Writer
	// Width overrides the terminal width. Zero means detect.
	Width int
}

// Outcome is what a successful operation hands back for the result box.
type Outcome struct {
	// Title defaults to RunnerConfig.Title + " complete"
	Title    string
	Details  []Field
	Warnings []string
	// Sections are printed after the result box, in order.
	Sections []string
}

// Operation is the work behind a command. It reports steps through onStep.
type Operation func(onStep StepCallback) (*Outcome, error)

// Runner prints the header, step lines and result box around an Operation.
type Runner struct {
	config   RunnerConfig
	header   *Header
	progress *Progress
	output   io.Writer
	width    int
	now      func() time.Time
}

// NewRunner creates a runner. Output defaults to stdout.
func NewRunner(config RunnerConfig) *Runner {
	if config.Output == nil {
		config.Output = os.Stdout
	}
	width := config.Width
	if width == 0 {
		width = GetTerminalWidth()
	}

	var p *Progress
	if len(config.StepNames) > 0 {
		p = NewProgress("", config.StepNames)
		p.SetWidth(width)
	}

	return &Runner{
		config:   config,
		header:   NewHeader(config.Title, config.Command, config.Params).SetWidth(width),
		progress: p,
		output:   config.Output,
		width:    width,
		now:      time.Now,
	}
}

// Run executes op and prints its result. The operation's error is returned
// unchanged after the failure box is printed.
func (r *Runner) Run(op Operation) error {
	start := r.now()
	r.println(r.header.Render())
	r.println()

	outcome, err := op(r.onStep)
	duration := r.now().Sub(start).Round(time.Millisecond)

	r.println()
	if err != nil {
		r.println(NewFailureResult(r.config.Title+" failed", err, r.config.Hints).SetWidth(r.width).Render())
		return err
	}
	if outcome == nil {
		outcome = &Outcome{}
	}

	title := outcome.Title
	if title == "" {
		title = r.config.Title + " complete"
	}
	details := append(append([]Field(nil), outcome.Details...), Field{Key: "Duration", Value: duration.String()})

	var result *Result
	if len(outcome.Warnings) > 0 {
		result = NewWarningResult(title, details, outcome.Warnings)
	} else {
		result = NewSuccessResult(title, details)
	}
	r.println(result.SetWidth(r.width).Render())

	for _, section := range outcome.Sections {
		r.println()
		r.println(section)
	}
	return nil
}

func (r *Runner) onStep(number int, status StepStatus, message string) {
	if r.progress == nil || number < 1 || number > r.progress.Total() {
		return
	}
	r.progress.UpdateStep(number, status, message)
	line := r.progress.RenderStep(r.progress.Steps[number-1])

	switch status {
	case StepComplete, StepFailed, StepSkipped:
		r.println(line)
	case StepRunning:
		// overwritten by the final state of the step
		_, _ = fmt.Fprint(r.output, line+"\r")
	}
}

func (r *Runner) println(a ...any) {
	_, _ = fmt.Fprintln(r.output, a...)
}

// PrintHeader writes a header for commands that do not need a Runner.
func PrintHeader(w io.Writer, title, command string, params []Field) {
	_, _ = fmt.Fprintln(w, NewHeader(title, command, params).Render())
	_, _ = fmt.Fprintln(w)
}

// PrintFailure writes a failure box.
func PrintFailure(w io.Writer, title string, err error, hints []string) {
	_, _ = fmt.Fprintln(w)
	_, _ = fmt.Fprintln(w, NewFailureResult(title, err, hints).Render())
}
