package pipeline

import (
	"fmt"
	"strings"
)

// Kind is the class of a step failure.
type Kind int

const (
	// ToolFailure is any failure not otherwise classified. The error
	// message is the tool's standard error.
	ToolFailure Kind = iota
	// MissingDependency means the program could not be found.
	MissingDependency
	// MissingIndex means the aligner found no index for the reference.
	MissingIndex
)

func (k Kind) String() string {
	switch k {
	case ToolFailure:
		return "tool failure"
	case MissingDependency:
		return "missing dependency"
	case MissingIndex:
		return "missing index"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// A Classifier maps the captured standard error and exit status of a
// failed step to a Kind.
type Classifier interface {
	Classify(stderr string, exitCode int) Kind
}

// Rule maps a standard-error substring to a Kind.
type Rule struct {
	Substring string
	Kind      Kind
}

// SubstringClassifier returns the Kind of the first rule whose
// substring occurs in stderr, or ToolFailure.
type SubstringClassifier []Rule

// Classify implements Classifier.
func (c SubstringClassifier) Classify(stderr string, _ int) Kind {
	for _, r := range c {
		if strings.Contains(stderr, r.Substring) {
			return r.Kind
		}
	}
	return ToolFailure
}

// ExitCodeClassifier maps exit statuses to Kinds. Unlisted statuses are
// ToolFailure.
type ExitCodeClassifier map[int]Kind

// Classify implements Classifier.
func (c ExitCodeClassifier) Classify(_ string, exitCode int) Kind {
	if k, ok := c[exitCode]; ok {
		return k
	}
	return ToolFailure
}

// Chain returns the first Kind other than ToolFailure reported by its
// members.
type Chain []Classifier

// Classify implements Classifier.
func (c Chain) Classify(stderr string, exitCode int) Kind {
	for _, cl := range c {
		if k := cl.Classify(stderr, exitCode); k != ToolFailure {
			return k
		}
	}
	return ToolFailure
}

// BowtieRules recognize the failure messages of bowtie2 and the shell.
var BowtieRules = SubstringClassifier{
	{"does not exist or is not a Bowtie 2 index", MissingIndex},
	{"Could not locate a Bowtie index", MissingIndex},
	{"command not found", MissingDependency},
}

// DefaultClassifier applies BowtieRules, then treats the shell's "not
// found" status 127 as a missing dependency.
var DefaultClassifier Classifier = Chain{
	BowtieRules,
	ExitCodeClassifier{127: MissingDependency},
}

// Error is returned by Runner.Run when a step fails.
type Error struct {
	Kind Kind
	Step Step
	// ExitCode is the exit status of the program, or -1 if it did not
	// run to completion.
	ExitCode int
	// Stderr is the captured standard error.
	Stderr string
	// Err is the underlying error.
	Err error
}

func (e *Error) Error() string {
	stderr := strings.TrimRight(e.Stderr, "\n")
	switch e.Kind {
	case MissingIndex:
		return "Fasta file index not found. Ensure the fasta file is bowtie indexed in place. (Can rerun with -index_fasta)"
	case MissingDependency:
		if stderr == "" && e.Err != nil {
			stderr = e.Err.Error()
		}
		if stderr != "" {
			stderr += "\n"
		}
		return stderr + "Please ensure that all dependencies are installed."
	}
	if stderr != "" {
		return stderr
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Step.Tool, e.Err)
	}
	return fmt.Sprintf("%s: exit status %d", e.Step.Tool, e.ExitCode)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error { return e.Err }
