package dedup

import (
	"context"
	"fmt"
	"os"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/log"
	"github.com/grailbio/umidedup/pipeline"
)

// Run deduplicates opts.R1 and opts.R2 with a default pipeline.Runner.
func Run(ctx context.Context, opts Opts) error {
	return RunWith(ctx, opts, pipeline.NewRunner())
}

// RunWith deduplicates opts.R1 and opts.R2 using runner. It validates the
// inputs, creates the workspace, plans the steps, runs them, and removes
// the workspace unless opts.KeepTemp is set. On failure the workspace is
// left in place.
func RunWith(ctx context.Context, opts Opts, runner *pipeline.Runner) error {
	if err := opts.Validate(ctx); err != nil {
		return err
	}
	r := *runner
	r.DryRun = r.DryRun || opts.DryRun
	if !r.DryRun {
		if err := createWorkspace(opts.TempDir); err != nil {
			return err
		}
	}
	paths := NewPaths(opts.TempDir, opts.OutputPrefix, opts.Fasta)

	buildIndex := false
	if opts.IndexFasta {
		present, err := IndexPresent(ctx, paths.IndexBase)
		if err != nil {
			return err
		}
		if present {
			log.Printf("Fasta index already present, skipping indexing.")
		} else {
			buildIndex = true
		}
	}
	log.Printf("Splitting deduplicated reads with policy %v", opts.SplitPolicy)

	steps := Plan(opts, paths, buildIndex)
	if _, err := r.Run(ctx, steps); err != nil {
		log.Error.Printf("pipeline failed, intermediate files are in %s", opts.TempDir)
		return err
	}
	if r.DryRun {
		return nil
	}
	if opts.KeepTemp {
		log.Printf("Pipeline completed. Intermediate files are in %s.", opts.TempDir)
		return nil
	}
	log.Printf("Pipeline completed. Deleting temp folder. Use -keep_temp argument to preserve temp folder.")
	if err := os.RemoveAll(opts.TempDir); err != nil {
		return errors.E(err, "remove", opts.TempDir)
	}
	return nil
}

// createWorkspace creates dir, which must not exist yet.
func createWorkspace(dir string) error {
	err := os.Mkdir(dir, 0777)
	switch {
	case err == nil:
		return nil
	case os.IsExist(err):
		return errors.E(errors.Exists, fmt.Sprintf(
			"Filename: %s already exists. Please either delete this file or submit a different temp file name via -temp.", dir))
	default:
		return errors.E(err, "create", dir)
	}
}
