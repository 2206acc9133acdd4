package dedup

import (
	"github.com/grailbio/umidedup/encoding/fastq"
	"github.com/grailbio/umidedup/pipeline"
)

// Plan returns the steps of a run in execution order. Each step reads
// the files written by the steps before it. When buildIndex is set the
// index build comes first.
func Plan(opts Opts, paths Paths, buildIndex bool) []pipeline.Step {
	var steps []pipeline.Step
	if buildIndex {
		steps = append(steps, BuildIndex(opts.Fasta, paths.IndexBase))
	}
	steps = append(steps,
		ExtractUMIs(opts.UMILength, opts.R1, opts.R2, paths.UMIR1, paths.UMIR2),
		Align(paths.IndexBase, opts.Threads, paths.UMIR1, paths.UMIR2, paths.SAM),
		SamToBam(paths.SAM, paths.BAM),
		SortBam(paths.BAM, paths.Sorted, false),
		IndexBam(paths.Sorted),
		CollapseUMIs(paths.Sorted, paths.Dedup),
		SortBam(paths.Dedup, paths.DedupByName, true),
		BamToFastq(paths.DedupByName, paths.Interleaved),
		DeinterleaveStep(paths.Interleaved, paths.NonStrippedR1, paths.NonStrippedR2,
			fastq.SplitOpts{Policy: opts.SplitPolicy, Strict: opts.StrictFASTQ}),
	)
	if opts.DisableHeaderCorrection {
		return append(steps,
			Copy(paths.NonStrippedR1, paths.R1),
			Copy(paths.NonStrippedR2, paths.R2))
	}
	return append(steps,
		StripHeadersStep(paths.NonStrippedR1, paths.R1, opts.StrictFASTQ),
		StripHeadersStep(paths.NonStrippedR2, paths.R2, opts.StrictFASTQ))
}
