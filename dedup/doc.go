// Package dedup deduplicates paired-end reads by UMI.
//
// A run extracts the UMIs from R1 into the read names of both mates,
// aligns the pairs with bowtie2, converts, sorts and indexes the
// alignments with samtools, collapses reads that share a UMI and an
// alignment position with umicollapse, and converts the survivors back to
// a pair of FASTQ files. The mate tags samtools appends to read names are
// then stripped unless Opts.DisableHeaderCorrection is set.
//
// Every intermediate file lives in a fresh workspace directory named by
// Opts.TempDir. File names are derived by NewPaths and do not depend on
// anything but the options.
package dedup
