package main

// umi-dedup removes PCR duplicates from paired-end reads that carry a UMI
// at the start of R1.
//
// Usage: umi-dedup -R1 r1.fastq -R2 r2.fastq -fasta ref.fa [flags]

import (
	"flag"
	"os"

	"github.com/grailbio/base/grail"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/vcontext"
	"github.com/grailbio/umidedup/dedup"
	"github.com/grailbio/umidedup/encoding/fastq"
)

var (
	r1Flag                      = flag.String("R1", "", "Read 1 FASTQ. Contains the UMIs. (Required)")
	r2Flag                      = flag.String("R2", "", "Read 2 FASTQ. (Required)")
	fastaFlag                   = flag.String("fasta", "", "Reference FASTA to align to. Must be bowtie2 indexed in place unless -index_fasta is set. (Required)")
	umiLenFlag                  = flag.Int("umi_len", dedup.DefaultOpts.UMILength, "UMI length")
	outputPrefixFlag            = flag.String("output_prefix", dedup.DefaultOpts.OutputPrefix, "Prefix of the output files <prefix>_R1.fastq and <prefix>_R2.fastq")
	indexFastaFlag              = flag.Bool("index_fasta", false, "Index the FASTA with bowtie2-build unless an index is already present")
	tempFlag                    = flag.String("temp", dedup.DefaultOpts.TempDir, "Temp directory for intermediate files. Must not exist")
	keepTempFlag                = flag.Bool("keep_temp", false, "Keep the temp directory after a successful run")
	disableHeaderCorrectionFlag = flag.Bool("disable_header_correction", false, "Do not remove the /1 and /2 suffixes from read names. Reproduces results produced before header correction was introduced")
	threadsFlag                 = flag.Int("p", dedup.DefaultOpts.Threads, "Number of aligner threads")
	splitPolicyFlag             = flag.String("split_policy", dedup.DefaultOpts.SplitPolicy.String(), `How the deduplicated reads are split into R1 and R2, "suffix" or "parity"`)
	strictFASTQFlag             = flag.Bool("strict_fastq", false, "Fail on a FASTQ file that ends in an incomplete record instead of dropping it")
	dryRunFlag                  = flag.Bool("dry_run", false, "Print the commands without running them")
	checkDepsFlag               = flag.Bool("check_deps", false, "Check that the required programs are on $PATH and exit")
)

func main() {
	log.SetFlags(log.Ldate | log.Ltime | log.Lmicroseconds | log.Lshortfile)
	flag.Usage = func() {
		os.Stderr.WriteString(`Usage: umi-dedup -R1 <r1.fastq> -R2 <r2.fastq> -fasta <ref.fa> [flags]

umi-dedup extracts the UMIs from R1, aligns the read pairs with bowtie2,
collapses pairs that share a UMI and alignment position with umicollapse, and
writes the surviving pairs to <prefix>_R1.fastq and <prefix>_R2.fastq.
Requires bowtie2, samtools, umi_tools and umicollapse on $PATH.

`)
		flag.PrintDefaults()
	}
	shutdown := grail.Init()
	defer shutdown()

	if len(flag.Args()) != 0 {
		flag.Usage()
		os.Exit(1)
	}
	policy, err := fastq.ParsePolicy(*splitPolicyFlag)
	if err != nil {
		log.Fatalf("-split_policy: %v", err)
	}
	opts := dedup.Opts{
		R1:                      *r1Flag,
		R2:                      *r2Flag,
		Fasta:                   *fastaFlag,
		UMILength:               *umiLenFlag,
		OutputPrefix:            *outputPrefixFlag,
		IndexFasta:              *indexFastaFlag,
		TempDir:                 *tempFlag,
		KeepTemp:                *keepTempFlag,
		DisableHeaderCorrection: *disableHeaderCorrectionFlag,
		Threads:                 *threadsFlag,
		SplitPolicy:             policy,
		StrictFASTQ:             *strictFASTQFlag,
		DryRun:                  *dryRunFlag,
	}
	if *checkDepsFlag {
		if err := dedup.CheckDependencies(dedup.Dependencies(opts)...); err != nil {
			log.Fatalf("%v", err)
		}
		log.Printf("All dependencies found.")
		return
	}
	if err := dedup.Run(vcontext.Background(), opts); err != nil {
		log.Fatalf("%v", err)
	}
}
