package dedup

import (
	"path/filepath"
	"strings"
)

// Paths names every file a run reads or writes besides its inputs.
type Paths struct {
	// Temp is the workspace directory.
	Temp string
	// IndexBase is the bowtie2 index prefix of the reference.
	IndexBase string

	UMIR1, UMIR2  string // UMI-extracted reads
	SAM           string // alignments
	BAM           string // alignments, binary
	Sorted        string // coordinate-sorted, indexed as Sorted+".bai"
	Dedup         string // after UMI collapsing
	DedupByName   string // Dedup sorted by read name
	Interleaved   string // DedupByName as FASTQ
	NonStrippedR1 string // Interleaved, mate 1
	NonStrippedR2 string // Interleaved, mate 2

	// R1 and R2 are the final outputs. They are written outside Temp.
	R1, R2 string
}

// NewPaths derives the file names of a run. It is a pure function of its
// arguments: intermediate files are <tempDir>/<base of outputPrefix> plus
// a fixed suffix; the final outputs are <outputPrefix>_R1.fastq and
// <outputPrefix>_R2.fastq.
func NewPaths(tempDir, outputPrefix, fasta string) Paths {
	p := filepath.Join(tempDir, filepath.Base(outputPrefix))
	return Paths{
		Temp:          tempDir,
		IndexBase:     IndexBase(fasta),
		UMIR1:         p + "_umi_R1.fastq",
		UMIR2:         p + "_umi_R2.fastq",
		SAM:           p + ".sam",
		BAM:           p + ".bam",
		Sorted:        p + "sortedsample.bam",
		Dedup:         p + "sortedsamplededup.bam",
		DedupByName:   p + "sortedsamplebynamededup.bam",
		Interleaved:   p + "_dedup.fastq",
		NonStrippedR1: p + "_nonstripped_R1.fastq",
		NonStrippedR2: p + "_nonstripped_R2.fastq",
		R1:            outputPrefix + "_R1.fastq",
		R2:            outputPrefix + "_R2.fastq",
	}
}

// IndexBase returns the bowtie2 index prefix of a reference: the fasta
// path with everything from the first dot of its file name removed. For
// "refs/hiv.v2.fa" it is "refs/hiv".
func IndexBase(fasta string) string {
	dir, name := filepath.Split(fasta)
	if i := strings.IndexByte(name, '.'); i >= 0 {
		name = name[:i]
	}
	return filepath.Join(dir, name)
}
