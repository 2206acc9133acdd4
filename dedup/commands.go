package dedup

import (
	"context"
	"strconv"
	"strings"

	"github.com/grailbio/umidedup/encoding/fastq"
	"github.com/grailbio/umidedup/pipeline"
)

// The builders below return one pipeline.Step each. Their flag sets are
// what the collaborator tools expect; do not reorder them.

// BuildIndex builds the bowtie2 index of fasta at indexBase.
func BuildIndex(fasta, indexBase string) pipeline.Step {
	return pipeline.Step{
		Tool: pipeline.BowtieBuild,
		Args: []string{"-f", fasta, indexBase},
	}
}

// ExtractUMIs moves the first umiLen bases of each R1 read into the read
// names of both mates.
func ExtractUMIs(umiLen int, r1, r2, out1, out2 string) pipeline.Step {
	return pipeline.Step{
		Tool: pipeline.UMITools,
		Args: []string{
			"extract",
			"-p", strings.Repeat("N", umiLen),
			"-I", r1,
			"--read2-in=" + r2,
			"-S", out1,
			"--read2-out=" + out2,
		},
	}
}

// Align aligns the read pairs in local, sensitive mode.
func Align(indexBase string, threads int, r1, r2, sam string) pipeline.Step {
	return pipeline.Step{
		Tool: pipeline.Bowtie,
		Args: []string{
			"-p", strconv.Itoa(threads),
			"--local",
			"--sensitive-local",
			"--mp", "3,1",
			"--rdg", "5,1",
			"--rfg", "5,1",
			"--dpad", "30",
			"--maxins", "800",
			"--ignore-quals",
			"--no-unal",
			"-x", indexBase,
			"-1", r1,
			"-2", r2,
			"-S", sam,
		},
	}
}

// SamToBam converts SAM to BAM.
func SamToBam(sam, bam string) pipeline.Step {
	return pipeline.Step{
		Tool:   pipeline.Samtools,
		Args:   []string{"view", "-b", sam},
		Stdout: bam,
	}
}

// SortBam sorts a BAM file by coordinate, or by read name if byName.
func SortBam(in, out string, byName bool) pipeline.Step {
	args := []string{"sort", in, "-o", out}
	if byName {
		args = append(args, "-n")
	}
	return pipeline.Step{Tool: pipeline.Samtools, Args: args}
}

// IndexBam writes bam+".bai".
func IndexBam(bam string) pipeline.Step {
	return pipeline.Step{Tool: pipeline.Samtools, Args: []string{"index", bam}}
}

// CollapseUMIs deduplicates paired alignments by UMI, merging UMIs within
// 5% edit distance.
func CollapseUMIs(bam, out string) pipeline.Step {
	return pipeline.Step{
		Tool: pipeline.UMICollapse,
		Args: []string{"bam", "-p", ".05", "-i", bam, "-o", out, "--paired"},
	}
}

// BamToFastq writes the reads of bam as an interleaved FASTQ.
func BamToFastq(bam, fq string) pipeline.Step {
	return pipeline.Step{
		Tool:   pipeline.Samtools,
		Args:   []string{"fastq", bam},
		Stdout: fq,
	}
}

// Copy copies src to dst.
func Copy(src, dst string) pipeline.Step {
	return pipeline.Step{Tool: pipeline.Copy, Args: []string{src, dst}}
}

// DeinterleaveStep splits in into out1 and out2 in-process.
func DeinterleaveStep(in, out1, out2 string, opts fastq.SplitOpts) pipeline.Step {
	args := []string{"-policy", opts.Policy.String()}
	if opts.Strict {
		args = append(args, "-strict")
	}
	return pipeline.Step{
		Tool: "deinterleave",
		Args: append(args, in, out1, out2),
		Func: func(ctx context.Context) error {
			_, err := fastq.DeinterleaveFiles(ctx, in, out1, out2, opts)
			return err
		},
	}
}

// StripHeadersStep copies in to out in-process, removing the /1 and /2
// mate tags from the read names.
func StripHeadersStep(in, out string, strict bool) pipeline.Step {
	var args []string
	if strict {
		args = append(args, "-strict")
	}
	return pipeline.Step{
		Tool: "strip-headers",
		Args: append(args, in, out),
		Func: func(ctx context.Context) error {
			_, err := fastq.StripHeadersFile(ctx, in, out, strict)
			return err
		},
	}
}
