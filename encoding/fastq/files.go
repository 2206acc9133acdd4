package fastq

import (
	"bufio"
	"context"
	"io"
	"path/filepath"
	"strings"

	"github.com/grailbio/base/compress"
	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/log"
	"github.com/klauspost/compress/gzip"
)

// output is a buffered FASTQ destination, gzip-compressed when the path
// ends in ".gz".
type output struct {
	f  file.File
	bw *bufio.Writer
	gz *gzip.Writer
	w  io.Writer
}

func createOutput(ctx context.Context, path string) (*output, error) {
	f, err := file.Create(ctx, path)
	if err != nil {
		return nil, errors.E(err, "create", path)
	}
	o := &output{f: f, bw: bufio.NewWriterSize(f.Writer(ctx), 1<<20)}
	o.w = o.bw
	if strings.HasSuffix(path, ".gz") {
		o.gz = gzip.NewWriter(o.bw)
		o.w = o.gz
	}
	return o, nil
}

// close flushes and closes o, reporting the first error into err.
func (o *output) close(ctx context.Context, err *error) {
	e := errors.Once{}
	e.Set(*err)
	if o.gz != nil {
		e.Set(o.gz.Close())
	}
	e.Set(o.bw.Flush())
	e.Set(o.f.Close(ctx))
	*err = e.Err()
}

// openInput opens path for reading, decompressing it if its name or
// contents indicate gzip or bzip2.
func openInput(ctx context.Context, path string) (file.File, io.Reader, error) {
	f, err := file.Open(ctx, path)
	if err != nil {
		return nil, nil, errors.E(err, "open", path)
	}
	var r io.Reader = f.Reader(ctx)
	if u, ok := compress.NewReaderPath(r, f.Name()); ok {
		r = u
	}
	return f, bufio.NewReaderSize(r, 1<<20), nil
}

// checkDistinct returns an error if any two of the paths name the same
// file.
func checkDistinct(paths ...string) error {
	seen := map[string]string{}
	for _, p := range paths {
		key := filepath.Clean(p)
		if abs, err := filepath.Abs(key); err == nil {
			key = abs
		}
		if prev, ok := seen[key]; ok {
			return errors.E(errors.Invalid, "paths", prev, "and", p, "refer to the same file")
		}
		seen[key] = p
	}
	return nil
}

func warnDropped(path string, n int) {
	if n > 0 {
		log.Printf("%s: dropped %d trailing line(s) that do not form a complete FASTQ record", path, n)
	}
}

// DeinterleaveFiles is Deinterleave on files. The outputs are created
// or truncated and must not alias the input or each other.
func DeinterleaveFiles(ctx context.Context, inPath, out1Path, out2Path string, opts SplitOpts) (stats SplitStats, err error) {
	if err = checkDistinct(inPath, out1Path, out2Path); err != nil {
		return
	}
	in, r, err := openInput(ctx, inPath)
	if err != nil {
		return
	}
	defer file.CloseAndReport(ctx, in, &err)
	out1, err := createOutput(ctx, out1Path)
	if err != nil {
		return
	}
	defer out1.close(ctx, &err)
	out2, err := createOutput(ctx, out2Path)
	if err != nil {
		return
	}
	defer out2.close(ctx, &err)

	if stats, err = Deinterleave(r, out1.w, out2.w, opts); err != nil {
		err = errors.E(err, inPath)
		return
	}
	warnDropped(inPath, stats.Dropped)
	log.Debug.Printf("%s: %d records to %s, %d records to %s (policy %v)",
		inPath, stats.R1, out1Path, stats.R2, out2Path, opts.Policy)
	return
}

// InterleaveFiles is Interleave on files.
func InterleaveFiles(ctx context.Context, r1Path, r2Path, outPath string, strict bool) (n int, err error) {
	if err = checkDistinct(r1Path, r2Path, outPath); err != nil {
		return
	}
	in1, r1, err := openInput(ctx, r1Path)
	if err != nil {
		return
	}
	defer file.CloseAndReport(ctx, in1, &err)
	in2, r2, err := openInput(ctx, r2Path)
	if err != nil {
		return
	}
	defer file.CloseAndReport(ctx, in2, &err)
	out, err := createOutput(ctx, outPath)
	if err != nil {
		return
	}
	defer out.close(ctx, &err)

	if n, err = Interleave(r1, r2, out.w, strict); err != nil {
		err = errors.E(err, r1Path, r2Path)
	}
	return
}

// StripHeadersFile is StripHeaders on files.
func StripHeadersFile(ctx context.Context, inPath, outPath string, strict bool) (stats StripStats, err error) {
	if err = checkDistinct(inPath, outPath); err != nil {
		return
	}
	in, r, err := openInput(ctx, inPath)
	if err != nil {
		return
	}
	defer file.CloseAndReport(ctx, in, &err)
	out, err := createOutput(ctx, outPath)
	if err != nil {
		return
	}
	defer out.close(ctx, &err)

	if stats, err = StripHeaders(r, out.w, strict); err != nil {
		err = errors.E(err, inPath)
		return
	}
	warnDropped(inPath, stats.Dropped)
	log.Debug.Printf("%s: stripped mate tags from %d of %d headers", inPath, stats.Changed, stats.Reads)
	return
}

// CountUMIsFile is CountUMIs on a file.
func CountUMIsFile(ctx context.Context, path string, paired bool) (c UMICount, err error) {
	in, r, err := openInput(ctx, path)
	if err != nil {
		return
	}
	defer file.CloseAndReport(ctx, in, &err)
	if c, err = CountUMIs(r, paired); err != nil {
		err = errors.E(err, path)
	}
	return
}
