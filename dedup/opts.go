package dedup

import (
	"context"
	"fmt"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/umidedup/encoding/fastq"
)

// Opts configures one deduplication run.
type Opts struct {
	// R1 and R2 are the paired input FASTQs. R1 carries the UMIs.
	R1, R2 string
	// Fasta is the reference the reads are aligned to. Its bowtie2 index
	// lives next to it, named after the fasta up to its first dot.
	Fasta string
	// UMILength is the number of leading R1 bases that form the UMI.
	UMILength int
	// OutputPrefix names the final outputs <OutputPrefix>_R1.fastq and
	// <OutputPrefix>_R2.fastq.
	OutputPrefix string
	// IndexFasta builds the bowtie2 index unless one is already present.
	IndexFasta bool
	// TempDir holds the intermediate files. It must not exist.
	TempDir string
	// KeepTemp retains TempDir after a successful run.
	KeepTemp bool
	// DisableHeaderCorrection copies the deinterleaved FASTQs verbatim
	// instead of stripping the /1 and /2 mate tags from their headers.
	// It reproduces output of runs made before header correction existed.
	DisableHeaderCorrection bool
	// Threads is the number of aligner threads.
	Threads int
	// SplitPolicy selects how the deduplicated interleaved FASTQ is split.
	SplitPolicy fastq.Policy
	// StrictFASTQ fails on a trailing incomplete FASTQ record instead of
	// dropping it.
	StrictFASTQ bool
	// DryRun prints the commands without running them. No workspace is
	// created.
	DryRun bool
}

// DefaultOpts holds the default values of the optional settings.
var DefaultOpts = Opts{
	UMILength:    12,
	OutputPrefix: "dedup",
	TempDir:      "temp",
	Threads:      8,
	SplitPolicy:  fastq.HeaderSuffix,
}

// Validate checks that the inputs exist and the settings are usable. It
// does not touch the workspace.
func (o Opts) Validate(ctx context.Context) error {
	for _, path := range []string{o.R1, o.R2, o.Fasta} {
		if path == "" {
			return errors.E(errors.Invalid, "R1, R2 and fasta are required")
		}
		if _, err := file.Stat(ctx, path); err != nil {
			return errors.E(errors.NotExist, fmt.Sprintf("File: %s not found.", path), err)
		}
	}
	switch {
	case o.UMILength <= 0:
		return errors.E(errors.Invalid, fmt.Sprintf("UMI length must be positive, got %d", o.UMILength))
	case o.Threads <= 0:
		return errors.E(errors.Invalid, fmt.Sprintf("thread count must be positive, got %d", o.Threads))
	case o.SplitPolicy == fastq.PolicyUnset:
		return errors.E(errors.Invalid, "no split policy chosen")
	case o.OutputPrefix == "":
		return errors.E(errors.Invalid, "empty output prefix")
	case o.TempDir == "":
		return errors.E(errors.Invalid, "empty temp directory name")
	}
	return nil
}
