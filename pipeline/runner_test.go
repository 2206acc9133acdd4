package pipeline_test

import (
	"bytes"
	"context"
	"errors"
	"io/ioutil"
	"path/filepath"
	"testing"

	"github.com/grailbio/testutil"
	"github.com/grailbio/umidedup/pipeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRunner() (*pipeline.Runner, *bytes.Buffer, *bytes.Buffer) {
	var stdout, stderr bytes.Buffer
	r := pipeline.NewRunner()
	r.Stdout, r.Stderr = &stdout, &stderr
	return r, &stdout, &stderr
}

func sh(script string) pipeline.Step {
	return pipeline.Step{Tool: "sh", Args: []string{"-c", script}}
}

func runErr(t *testing.T, steps ...pipeline.Step) *pipeline.Error {
	r, _, _ := newRunner()
	_, err := r.Run(context.Background(), steps)
	require.Error(t, err)
	var perr *pipeline.Error
	require.True(t, errors.As(err, &perr), "got %T: %v", err, err)
	return perr
}

func TestRunSequential(t *testing.T) {
	tempDir, cleanup := testutil.TempDir(t, "", "")
	defer cleanup()
	out := filepath.Join(tempDir, "out.txt")

	var order []string
	r, stdout, stderr := newRunner()
	results, err := r.Run(context.Background(), []pipeline.Step{
		{Tool: "echo", Args: []string{"first"}, Stdout: out},
		{Tool: "check", Func: func(ctx context.Context) error {
			data, err := ioutil.ReadFile(out)
			order = append(order, string(data))
			return err
		}},
		sh("echo second; echo warning >&2"),
	})
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, []string{"first\n"}, order)
	assert.Equal(t, "second\n", stdout.String())
	assert.Equal(t, "warning\n", stderr.String())
	for i, res := range results {
		assert.False(t, res.Start.IsZero(), "step %d", i)
		assert.Equal(t, 0, res.ExitCode)
	}
	assert.False(t, results[1].Start.Before(results[0].Start))
}

func TestRunQuotesArguments(t *testing.T) {
	r, stdout, _ := newRunner()
	_, err := r.Run(context.Background(), []pipeline.Step{
		{Tool: "printf", Args: []string{"%s|", "a b", "$HOME", "it's", "x > y"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "a b|$HOME|it's|x > y|", stdout.String())
}

func TestRunAbortsOnFailure(t *testing.T) {
	r, stdout, _ := newRunner()
	results, err := r.Run(context.Background(), []pipeline.Step{
		sh("echo before"),
		sh("echo broken >&2; exit 3"),
		sh("echo after"),
	})
	require.Error(t, err)
	assert.Len(t, results, 1)
	assert.Equal(t, "before\n", stdout.String())

	var perr *pipeline.Error
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, pipeline.ToolFailure, perr.Kind)
	assert.Equal(t, 3, perr.ExitCode)
	assert.Equal(t, "broken", perr.Error())
}

func TestRunCommandNotFound(t *testing.T) {
	perr := runErr(t, sh("echo 'bash: umicollapse: command not found' >&2; exit 1"))
	assert.Equal(t, pipeline.MissingDependency, perr.Kind)
	assert.Contains(t, perr.Error(), "bash: umicollapse: command not found")
	assert.Contains(t, perr.Error(), "Please ensure that all dependencies are installed.")

	// dash and other shells word it differently but all exit with 127.
	perr = runErr(t, pipeline.Step{Tool: "umidedup-no-such-tool", Args: []string{"x"}})
	assert.Equal(t, pipeline.MissingDependency, perr.Kind)
	assert.Equal(t, 127, perr.ExitCode)
	assert.Contains(t, perr.Error(), "Please ensure that all dependencies are installed.")
}

func TestRunMissingShell(t *testing.T) {
	r, _, _ := newRunner()
	r.Shell = "/nonexistent/umidedup/sh"
	_, err := r.Run(context.Background(), []pipeline.Step{sh("true")})
	var perr *pipeline.Error
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, pipeline.MissingDependency, perr.Kind)
	assert.Equal(t, -1, perr.ExitCode)
	assert.Contains(t, perr.Error(), "Please ensure that all dependencies are installed.")
}

func TestRunMissingIndex(t *testing.T) {
	perr := runErr(t, sh(`echo '(ERR): "ref" does not exist or is not a Bowtie 2 index' >&2; exit 1`))
	assert.Equal(t, pipeline.MissingIndex, perr.Kind)
	assert.Contains(t, perr.Error(), "-index_fasta")
}

func TestRunBuiltinFailure(t *testing.T) {
	perr := runErr(t, pipeline.Step{Tool: "deinterleave", Func: func(context.Context) error {
		return errors.New("short FASTQ file")
	}})
	assert.Equal(t, pipeline.ToolFailure, perr.Kind)
	assert.Equal(t, "short FASTQ file", perr.Error())
}

func TestRunInvalidStep(t *testing.T) {
	r, _, _ := newRunner()
	ran := false
	_, err := r.Run(context.Background(), []pipeline.Step{
		{Tool: "cp", Args: []string{"", "b"}},
		{Tool: "next", Func: func(context.Context) error { ran = true; return nil }},
	})
	assert.Error(t, err)
	assert.False(t, ran)
}

func TestDryRun(t *testing.T) {
	r, stdout, _ := newRunner()
	r.DryRun = true
	ran := false
	results, err := r.Run(context.Background(), []pipeline.Step{
		{Tool: pipeline.Samtools, Args: []string{"view", "-b", "x.sam"}, Stdout: "x.bam"},
		{Tool: "strip-headers", Args: []string{"in.fastq", "out.fastq"}, Func: func(context.Context) error {
			ran = true
			return nil
		}},
		{Tool: "false"},
	})
	require.NoError(t, err)
	assert.Len(t, results, 3)
	assert.False(t, ran)
	assert.Equal(t, "samtools view -b x.sam > x.bam\nstrip-headers in.fastq out.fastq\nfalse\n", stdout.String())
}
