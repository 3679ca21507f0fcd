package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Step is one independent report in a run. Run returns the number of rows
// the report produced.
type Step struct {
	Name string
	Run  func(ctx context.Context) (int, error)
}

// StepResult records the outcome of one step.
type StepResult struct {
	Name     string
	Rows     int
	Skipped  bool // empty dataset, nothing written
	Err      error
	Duration time.Duration
}

// OK reports whether the step produced output.
func (r StepResult) OK() bool {
	return r.Err == nil && !r.Skipped
}

// RunSummary aggregates the results of a run.
type RunSummary struct {
	Results  []StepResult
	Started  time.Time
	Duration time.Duration
}

// Succeeded returns the number of steps that produced output.
func (s RunSummary) Succeeded() int {
	n := 0
	for _, r := range s.Results {
		if r.OK() {
			n++
		}
	}
	return n
}

// Failed returns the number of steps that returned an error.
func (s RunSummary) Failed() int {
	n := 0
	for _, r := range s.Results {
		if r.Err != nil {
			n++
		}
	}
	return n
}

// Runner executes report steps one after another. A failing or empty step
// never stops the steps after it.
type Runner struct {
	logger   *zap.Logger
	progress func(StepResult)
}

// NewRunner returns a runner logging to logger. A nil logger discards logs.
func NewRunner(logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{logger: logger}
}

// OnStep registers a callback invoked after each step completes.
func (r *Runner) OnStep(fn func(StepResult)) {
	r.progress = fn
}

// Run executes steps sequentially. Cancellation of ctx stops the run before
// the next step starts; remaining steps are reported with ctx.Err().
func (r *Runner) Run(ctx context.Context, steps []Step) RunSummary {
	sum := RunSummary{Started: time.Now()}

	for _, st := range steps {
		res := StepResult{Name: st.Name}
		if err := ctx.Err(); err != nil {
			res.Err = err
			sum.Results = append(sum.Results, res)
			continue
		}

		start := time.Now()
		rows, err := runStep(ctx, st)
		res.Duration = time.Since(start)
		res.Rows = rows

		switch {
		case errors.Is(err, ErrEmptyDataset):
			res.Skipped = true
			r.logger.Warn("report skipped: empty dataset", zap.String("report", st.Name))
		case err != nil:
			res.Err = err
			r.logger.Error("report failed", zap.String("report", st.Name), zap.Error(err))
		default:
			r.logger.Info("report written",
				zap.String("report", st.Name),
				zap.Int("rows", rows),
				zap.Duration("duration", res.Duration),
			)
		}

		sum.Results = append(sum.Results, res)
		if r.progress != nil {
			r.progress(res)
		}
	}

	sum.Duration = time.Since(sum.Started)
	return sum
}

// runStep isolates a panicking step so the rest of the run proceeds.
func runStep(ctx context.Context, st Step) (rows int, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("%s: panic: %v", st.Name, p)
		}
	}()
	return st.Run(ctx)
}
