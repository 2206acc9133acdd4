package dedup_test

import (
	"testing"

	"github.com/grailbio/umidedup/dedup"
	"github.com/grailbio/umidedup/pipeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testOpts() dedup.Opts {
	opts := dedup.DefaultOpts
	opts.R1, opts.R2, opts.Fasta = "r1.fq", "r2.fq", "refs/hiv.fa"
	return opts
}

func render(steps []pipeline.Step) []string {
	var s []string
	for _, step := range steps {
		s = append(s, step.String())
	}
	return s
}

func TestNewPaths(t *testing.T) {
	p := dedup.NewPaths("temp", "out/sample", "refs/hiv.v2.fa")
	assert.Equal(t, dedup.Paths{
		Temp:          "temp",
		IndexBase:     "refs/hiv",
		UMIR1:         "temp/sample_umi_R1.fastq",
		UMIR2:         "temp/sample_umi_R2.fastq",
		SAM:           "temp/sample.sam",
		BAM:           "temp/sample.bam",
		Sorted:        "temp/samplesortedsample.bam",
		Dedup:         "temp/samplesortedsamplededup.bam",
		DedupByName:   "temp/samplesortedsamplebynamededup.bam",
		Interleaved:   "temp/sample_dedup.fastq",
		NonStrippedR1: "temp/sample_nonstripped_R1.fastq",
		NonStrippedR2: "temp/sample_nonstripped_R2.fastq",
		R1:            "out/sample_R1.fastq",
		R2:            "out/sample_R2.fastq",
	}, p)
	assert.Equal(t, p, dedup.NewPaths("temp", "out/sample", "refs/hiv.v2.fa"))
}

func TestIndexBase(t *testing.T) {
	for fasta, want := range map[string]string{
		"hiv.fa":            "hiv",
		"hiv":               "hiv",
		"refs/hiv.v2.fa.gz": "refs/hiv",
		"/data/v1.0/hiv.fa": "/data/v1.0/hiv",
		"./refs/rna.fasta":  "refs/rna",
	} {
		assert.Equal(t, want, dedup.IndexBase(fasta), fasta)
	}
}

func TestPlan(t *testing.T) {
	opts := testOpts()
	paths := dedup.NewPaths("temp", "dedup", opts.Fasta)
	assert.Equal(t, []string{
		"umi_tools extract -p NNNNNNNNNNNN -I r1.fq --read2-in=r2.fq -S temp/dedup_umi_R1.fastq --read2-out=temp/dedup_umi_R2.fastq",
		"bowtie2 -p 8 --local --sensitive-local --mp 3,1 --rdg 5,1 --rfg 5,1 --dpad 30 --maxins 800 --ignore-quals --no-unal " +
			"-x refs/hiv -1 temp/dedup_umi_R1.fastq -2 temp/dedup_umi_R2.fastq -S temp/dedup.sam",
		"samtools view -b temp/dedup.sam > temp/dedup.bam",
		"samtools sort temp/dedup.bam -o temp/dedupsortedsample.bam",
		"samtools index temp/dedupsortedsample.bam",
		"umicollapse bam -p .05 -i temp/dedupsortedsample.bam -o temp/dedupsortedsamplededup.bam --paired",
		"samtools sort temp/dedupsortedsamplededup.bam -o temp/dedupsortedsamplebynamededup.bam -n",
		"samtools fastq temp/dedupsortedsamplebynamededup.bam > temp/dedup_dedup.fastq",
		"deinterleave -policy suffix temp/dedup_dedup.fastq temp/dedup_nonstripped_R1.fastq temp/dedup_nonstripped_R2.fastq",
		"strip-headers temp/dedup_nonstripped_R1.fastq dedup_R1.fastq",
		"strip-headers temp/dedup_nonstripped_R2.fastq dedup_R2.fastq",
	}, render(dedup.Plan(opts, paths, false)))
}

func TestPlanBuildIndex(t *testing.T) {
	opts := testOpts()
	steps := dedup.Plan(opts, dedup.NewPaths("temp", "dedup", opts.Fasta), true)
	require.Len(t, steps, 12)
	assert.Equal(t, "bowtie2-build -f refs/hiv.fa refs/hiv", steps[0].String())
	assert.Equal(t, pipeline.UMITools, steps[1].Tool)
}

func TestPlanDisableHeaderCorrection(t *testing.T) {
	opts := testOpts()
	opts.DisableHeaderCorrection = true
	steps := dedup.Plan(opts, dedup.NewPaths("temp", "dedup", opts.Fasta), false)
	require.Len(t, steps, 11)
	assert.Equal(t, []string{
		"cp temp/dedup_nonstripped_R1.fastq dedup_R1.fastq",
		"cp temp/dedup_nonstripped_R2.fastq dedup_R2.fastq",
	}, render(steps[9:]))
}

func TestDependencies(t *testing.T) {
	opts := testOpts()
	assert.Equal(t, []pipeline.Tool{pipeline.UMITools, pipeline.Bowtie, pipeline.Samtools, pipeline.UMICollapse},
		dedup.Dependencies(opts))
	opts.IndexFasta = true
	opts.DisableHeaderCorrection = true
	assert.Equal(t, []pipeline.Tool{pipeline.BowtieBuild, pipeline.UMITools, pipeline.Bowtie, pipeline.Samtools,
		pipeline.UMICollapse, pipeline.Copy}, dedup.Dependencies(opts))
}

func TestCheckDependencies(t *testing.T) {
	assert.NoError(t, dedup.CheckDependencies("sh"))
	err := dedup.CheckDependencies("sh", "umidedup-missing-a", "umidedup-missing-b")
	require.Error(t, err)
	perr, ok := err.(*pipeline.Error)
	require.True(t, ok)
	assert.Equal(t, pipeline.MissingDependency, perr.Kind)
	assert.Contains(t, err.Error(), "umidedup-missing-a, umidedup-missing-b")
	assert.Contains(t, err.Error(), "Please ensure that all dependencies are installed.")
}
