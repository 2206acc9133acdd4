package dedup

import (
	"fmt"
	"os"
	"strings"

	"github.com/grailbio/umidedup/pipeline"
	"v.io/x/lib/envvar"
	"v.io/x/lib/lookpath"
)

// Dependencies returns the external programs a run with opts invokes,
// in the order they are first used.
func Dependencies(opts Opts) []pipeline.Tool {
	paths := NewPaths(opts.TempDir, opts.OutputPrefix, opts.Fasta)
	seen := map[pipeline.Tool]bool{}
	var tools []pipeline.Tool
	for _, step := range Plan(opts, paths, opts.IndexFasta) {
		if step.Builtin() || seen[step.Tool] {
			continue
		}
		seen[step.Tool] = true
		tools = append(tools, step.Tool)
	}
	return tools
}

// CheckDependencies looks up tools on the current $PATH. If any is
// missing, it returns a *pipeline.Error of kind MissingDependency that
// names all of them.
func CheckDependencies(tools ...pipeline.Tool) error {
	env := envvar.SliceToMap(os.Environ())
	var missing []string
	for _, tool := range tools {
		if _, err := lookpath.Look(env, string(tool)); err != nil {
			missing = append(missing, string(tool))
		}
	}
	if len(missing) == 0 {
		return nil
	}
	return &pipeline.Error{
		Kind:     pipeline.MissingDependency,
		Step:     pipeline.Step{Tool: pipeline.Tool(missing[0])},
		ExitCode: -1,
		Stderr:   fmt.Sprintf("%s: not found in PATH", strings.Join(missing, ", ")),
	}
}
