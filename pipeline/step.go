package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/grailbio/base/errors"
	shellquote "github.com/kballard/go-shellquote"
)

// Tool identifies the program a Step invokes.
type Tool string

// Collaborator programs invoked by the deduplication pipeline.
const (
	BowtieBuild Tool = "bowtie2-build"
	Bowtie      Tool = "bowtie2"
	Samtools    Tool = "samtools"
	UMITools    Tool = "umi_tools"
	UMICollapse Tool = "umicollapse"
	Copy        Tool = "cp"
)

// Step describes one pipeline stage. Steps are values; builders create
// a fresh Args slice for every Step and nothing modifies it afterwards.
type Step struct {
	// Tool is the program to run. For in-process steps it only names the
	// step in logs.
	Tool Tool
	// Args are the program arguments, unquoted.
	Args []string
	// Stdout, if nonempty, is the file the program's standard output is
	// redirected to.
	Stdout string
	// Func, if non-nil, runs the step in-process instead of spawning
	// Tool.
	Func func(ctx context.Context) error
}

// Builtin reports whether s runs in-process.
func (s Step) Builtin() bool { return s.Func != nil }

// String renders s as a shell command line.
func (s Step) String() string {
	var b strings.Builder
	b.WriteString(shellquote.Join(append([]string{string(s.Tool)}, s.Args...)...))
	if s.Stdout != "" {
		b.WriteString(" > ")
		b.WriteString(shellquote.Join(s.Stdout))
	}
	return b.String()
}

// Validate checks that s is runnable.
func (s Step) Validate() error {
	if s.Tool == "" {
		return errors.E(errors.Invalid, "pipeline: step has no tool")
	}
	for i, arg := range s.Args {
		if arg == "" {
			return errors.E(errors.Invalid, fmt.Sprintf("pipeline: %s: argument %d is empty", s.Tool, i))
		}
	}
	if s.Builtin() && s.Stdout != "" {
		return errors.E(errors.Invalid, "pipeline: in-process step", string(s.Tool), "cannot redirect stdout")
	}
	return nil
}
