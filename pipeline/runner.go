package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"time"

	"github.com/grailbio/base/log"
)

// DefaultShell runs every external step.
const DefaultShell = "/bin/sh"

// Result records one completed step.
type Result struct {
	Step     Step
	Start    time.Time
	Duration time.Duration
	ExitCode int
}

// Runner executes steps one at a time, in order. Each external step runs
// as "<Shell> -c <step>" and must exit before the next one starts. The
// first failure aborts the run. Runners never retry.
type Runner struct {
	// Shell is the shell used to run external steps. Defaults to
	// DefaultShell.
	Shell string
	// Stdout and Stderr receive the captured output of each successful
	// step. They default to os.Stdout and os.Stderr.
	Stdout, Stderr io.Writer
	// Classifier classifies failed steps. Defaults to DefaultClassifier.
	Classifier Classifier
	// DryRun logs and prints each step to Stdout without running it.
	DryRun bool
}

// NewRunner returns a Runner with default settings.
func NewRunner() *Runner {
	return &Runner{
		Shell:      DefaultShell,
		Stdout:     os.Stdout,
		Stderr:     os.Stderr,
		Classifier: DefaultClassifier,
	}
}

func (r *Runner) init() {
	if r.Shell == "" {
		r.Shell = DefaultShell
	}
	if r.Stdout == nil {
		r.Stdout = os.Stdout
	}
	if r.Stderr == nil {
		r.Stderr = os.Stderr
	}
	if r.Classifier == nil {
		r.Classifier = DefaultClassifier
	}
}

// Run executes steps sequentially. It returns the results of the steps
// that completed and, if a step failed, a *Error describing it.
func (r *Runner) Run(ctx context.Context, steps []Step) ([]Result, error) {
	r.init()
	results := make([]Result, 0, len(steps))
	for _, step := range steps {
		res := Result{Step: step, Start: time.Now()}
		log.Printf("Running %s", step)
		if err := step.Validate(); err != nil {
			return results, err
		}
		if r.DryRun {
			fmt.Fprintln(r.Stdout, step)
			results = append(results, res)
			continue
		}
		var err error
		if step.Builtin() {
			err = r.runFunc(ctx, step)
		} else {
			res.ExitCode, err = r.runShell(ctx, step)
		}
		res.Duration = time.Since(res.Start)
		if err != nil {
			return results, err
		}
		log.Debug.Printf("%s: done in %v", step.Tool, res.Duration)
		results = append(results, res)
	}
	return results, nil
}

func (r *Runner) runFunc(ctx context.Context, step Step) error {
	if err := step.Func(ctx); err != nil {
		return &Error{Kind: ToolFailure, Step: step, ExitCode: -1, Stderr: err.Error(), Err: err}
	}
	return nil
}

func (r *Runner) runShell(ctx context.Context, step Step) (int, error) {
	var stdout, stderr bytes.Buffer
	c := exec.CommandContext(ctx, r.Shell, "-c", step.String()) // #nosec G204
	c.Stdout = &stdout
	c.Stderr = &stderr
	err := c.Run()
	if err != nil {
		if ctx.Err() != nil {
			return -1, &Error{Kind: ToolFailure, Step: step, ExitCode: -1, Stderr: stderr.String(), Err: ctx.Err()}
		}
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			// The shell itself could not be started.
			return -1, &Error{Kind: MissingDependency, Step: step, ExitCode: -1, Err: err}
		}
		code := exitErr.ExitCode()
		return code, &Error{
			Kind:     r.Classifier.Classify(stderr.String(), code),
			Step:     step,
			ExitCode: code,
			Stderr:   stderr.String(),
			Err:      err,
		}
	}
	if _, err := r.Stdout.Write(stdout.Bytes()); err != nil {
		return 0, err
	}
	if _, err := r.Stderr.Write(stderr.Bytes()); err != nil {
		return 0, err
	}
	return 0, nil
}
