package ui

import (
	"fmt"
	"io"
	"os"
	"time"
)

// RunnerConfig holds configuration for a multi-step command
type RunnerConfig struct {
	Title     string             // Command title (e.g., "3D Mode")
	Command   string             // Full command (e.g., "webos3d 3d set top_bottom")
	Params    []Param            // Parameters to display in header
	StepNames []string           // Names for each step
	Hint      func(error) string // Troubleshooting text for a failure (optional)
	Output    io.Writer          // Output writer (default: os.Stdout)
}

// Runner renders a multi-step command: a header, one line per finished
// step, then a result box.
type Runner struct {
	config   RunnerConfig
	header   *Header
	progress *Progress
	output   io.Writer
	width    int
}

// NewRunner creates a new runner
func NewRunner(config RunnerConfig) *Runner {
	if config.Output == nil {
		config.Output = os.Stdout
	}

	width := GetTerminalWidth()

	return &Runner{
		config:   config,
		header:   NewHeader(config.Title, config.Command, config.Params...).SetWidth(width),
		progress: NewProgress("", config.StepNames...).SetWidth(width),
		output:   config.Output,
		width:    width,
	}
}

// Operation is the work a Runner renders. It reports progress through
// onStep and returns the details shown in the success box.
type Operation func(onStep StepCallback) ([]Param, error)

// Run prints the header, executes operation and prints the result.
func (r *Runner) Run(operation Operation) error {
	start := time.Now()

	_, _ = fmt.Fprintln(r.output, r.header.Render())
	_, _ = fmt.Fprintln(r.output)

	details, err := operation(r.onStep)
	duration := time.Since(start).Round(time.Millisecond)

	_, _ = fmt.Fprintln(r.output)
	if err != nil {
		var tips []string
		if r.config.Hint != nil {
			tips = SplitHint(r.config.Hint(err))
		}
		result := NewFailureResult(r.config.Title+" failed", err, tips).SetWidth(r.width)
		_, _ = fmt.Fprintln(r.output, result.Render())
		return err
	}

	details = append(details, Param{Key: "Duration", Value: duration.String()})
	result := NewSuccessResult(r.config.Title+" complete", details...).SetWidth(r.width)
	_, _ = fmt.Fprintln(r.output, result.Render())
	return nil
}

func (r *Runner) onStep(stepNumber int, status StepStatus, message string) {
	r.progress.UpdateStep(stepNumber, status, message)
	if stepNumber < 1 || stepNumber > len(r.progress.Steps) {
		return
	}

	step := r.progress.Steps[stepNumber-1]
	switch status {
	case StepComplete, StepFailed, StepSkipped:
		_, _ = fmt.Fprintln(r.output, r.progress.renderStepLine(step))
	case StepRunning:
		// Overwritten when the step finishes
		_, _ = fmt.Fprint(r.output, r.progress.renderStepLine(step)+"\r")
	}
}
