package cmd

import (
	"fmt"

	"github.com/grailbio/base/cmdutil"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/tsv"
	"github.com/grailbio/base/vcontext"
	"github.com/grailbio/umidedup/dedup"
	"github.com/grailbio/umidedup/encoding/fastq"
	"v.io/x/lib/cmdline"
)

func newCmdDeinterleave() *cmdline.Command {
	cmd := &cmdline.Command{
		Name:     "deinterleave",
		Short:    "Split an interleaved FASTQ into R1 and R2",
		ArgsName: "in out1 out2",
		Long: `
Deinterleave copies every record of an interleaved FASTQ file to exactly one of
out1 and out2, keeping their relative order. Inputs may be gzip or bzip2
compressed; outputs ending in .gz are gzip compressed.`,
	}
	policyFlag := cmd.Flags.String("policy", "suffix", `How records are assigned to mates, "suffix" or "parity".
"suffix" sends a record to out1 when the last character of its name is '1'.
"parity" sends odd-numbered records to out1 and even-numbered ones to out2.`)
	strictFlag := cmd.Flags.Bool("strict", false, "Fail on a trailing incomplete record instead of dropping it")
	cmd.Runner = cmdutil.RunnerFunc(func(env *cmdline.Env, argv []string) error {
		if len(argv) != 3 {
			return env.UsageErrorf("deinterleave takes in out1 out2, but found %v", argv)
		}
		policy, err := fastq.ParsePolicy(*policyFlag)
		if err != nil {
			return env.UsageErrorf("%v", err)
		}
		stats, err := fastq.DeinterleaveFiles(vcontext.Background(), argv[0], argv[1], argv[2],
			fastq.SplitOpts{Policy: policy, Strict: *strictFlag})
		if err != nil {
			return err
		}
		fmt.Fprintf(env.Stdout, "%s: %d records, %s: %d records\n", argv[1], stats.R1, argv[2], stats.R2)
		return nil
	})
	return cmd
}

func newCmdInterleave() *cmdline.Command {
	cmd := &cmdline.Command{
		Name:     "interleave",
		Short:    "Merge R1 and R2 FASTQs into one interleaved FASTQ",
		ArgsName: "r1 r2 out",
	}
	strictFlag := cmd.Flags.Bool("strict", false, "Fail on a trailing incomplete record instead of dropping it")
	cmd.Runner = cmdutil.RunnerFunc(func(env *cmdline.Env, argv []string) error {
		if len(argv) != 3 {
			return env.UsageErrorf("interleave takes r1 r2 out, but found %v", argv)
		}
		n, err := fastq.InterleaveFiles(vcontext.Background(), argv[0], argv[1], argv[2], *strictFlag)
		if err != nil {
			return err
		}
		fmt.Fprintf(env.Stdout, "%s: %d pairs\n", argv[2], n)
		return nil
	})
	return cmd
}

func newCmdStripHeaders() *cmdline.Command {
	cmd := &cmdline.Command{
		Name:     "strip-headers",
		Short:    "Remove /1 and /2 mate tags from FASTQ read names",
		ArgsName: "in out",
	}
	strictFlag := cmd.Flags.Bool("strict", false, "Fail on a trailing incomplete record instead of dropping it")
	cmd.Runner = cmdutil.RunnerFunc(func(env *cmdline.Env, argv []string) error {
		if len(argv) != 2 {
			return env.UsageErrorf("strip-headers takes in out, but found %v", argv)
		}
		stats, err := fastq.StripHeadersFile(vcontext.Background(), argv[0], argv[1], *strictFlag)
		if err != nil {
			return err
		}
		fmt.Fprintf(env.Stdout, "%s: %d of %d read names changed\n", argv[1], stats.Changed, stats.Reads)
		return nil
	})
	return cmd
}

type umiCountRow struct {
	Path  string `tsv:"path"`
	UMIs  int64  `tsv:"umis"`
	Reads int64  `tsv:"reads"`
}

func newCmdCountUMIs() *cmdline.Command {
	cmd := &cmdline.Command{
		Name:     "count-umis",
		Short:    "Count the distinct UMIs in UMI-extracted FASTQs",
		ArgsName: "path...",
		Long: `
Count-umis reads the name of every record and takes the text after its last
underscore as the UMI, as written by "umi_tools extract".`,
	}
	pairedFlag := cmd.Flags.Bool("paired", false, "The file holds both mates of each read, so count reads as records/2")
	tsvFlag := cmd.Flags.Bool("tsv", false, "Print a path, umis, reads table")
	cmd.Runner = cmdutil.RunnerFunc(func(env *cmdline.Env, argv []string) error {
		if len(argv) == 0 {
			return env.UsageErrorf("count-umis takes at least one path")
		}
		ctx := vcontext.Background()
		var w *tsv.RowWriter
		if *tsvFlag {
			w = tsv.NewRowWriter(env.Stdout)
		}
		for _, path := range argv {
			c, err := fastq.CountUMIsFile(ctx, path, *pairedFlag)
			if err != nil {
				return err
			}
			switch {
			case w != nil:
				if err := w.Write(&umiCountRow{Path: path, UMIs: int64(c.UMIs), Reads: int64(c.Reads)}); err != nil {
					return err
				}
			case len(argv) > 1:
				fmt.Fprintf(env.Stdout, "%s: %v\n", path, c)
			default:
				fmt.Fprintln(env.Stdout, c)
			}
		}
		if w != nil {
			return w.Flush()
		}
		return nil
	})
	return cmd
}

func newCmdCheckDeps() *cmdline.Command {
	cmd := &cmdline.Command{
		Name:  "check-deps",
		Short: "Check that the programs umi-dedup runs are on $PATH",
	}
	opts := dedup.DefaultOpts
	cmd.Flags.BoolVar(&opts.IndexFasta, "index", false, "Also require bowtie2-build")
	cmd.Flags.BoolVar(&opts.DisableHeaderCorrection, "disable_header_correction", false, "Also require cp")
	cmd.Runner = cmdutil.RunnerFunc(func(env *cmdline.Env, argv []string) error {
		if len(argv) != 0 {
			return env.UsageErrorf("check-deps takes no arguments, but found %v", argv)
		}
		tools := dedup.Dependencies(opts)
		if err := dedup.CheckDependencies(tools...); err != nil {
			return err
		}
		for _, tool := range tools {
			fmt.Fprintf(env.Stdout, "%s: ok\n", tool)
		}
		return nil
	})
	return cmd
}

func newRoot() *cmdline.Command {
	return &cmdline.Command{
		Name:     "umi-fastq",
		Short:    "FASTQ transforms used by the UMI deduplication pipeline",
		LookPath: false,
		Children: []*cmdline.Command{
			newCmdDeinterleave(),
			newCmdInterleave(),
			newCmdStripHeaders(),
			newCmdCountUMIs(),
			newCmdCheckDeps(),
		},
	}
}

// Run runs the umi-fastq command named by os.Args.
func Run() {
	log.SetFlags(log.Ldate | log.Ltime | log.Lmicroseconds | log.Lshortfile)
	cmdline.HideGlobalFlagsExcept()
	cmdline.Main(newRoot())
}
