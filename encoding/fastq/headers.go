package fastq

import (
	"io"
	"strings"

	"github.com/pkg/errors"
)

// StripMateSuffix removes every "/1" and "/2" from id. Removal repeats
// until neither tag remains, so StripMateSuffix(StripMateSuffix(x)) ==
// StripMateSuffix(x) for any x.
func StripMateSuffix(id string) string {
	for strings.Contains(id, "/1") || strings.Contains(id, "/2") {
		id = strings.Replace(id, "/2", "", -1)
		id = strings.Replace(id, "/1", "", -1)
	}
	return id
}

// StripStats summarizes a StripHeaders run.
type StripStats struct {
	// Reads is the number of records written.
	Reads int
	// Changed is the number of records whose ID line was modified.
	Changed int
	// Dropped is the number of trailing lines discarded.
	Dropped int
}

// StripHeaders copies the records of in to out, removing mate tags from
// each ID line with StripMateSuffix. Lines 2-4 are copied unchanged.
//
// Some aligners append /1 and /2 to read names, but bowtie2 requires
// the two mates of a pair to carry identical names.
func StripHeaders(in io.Reader, out io.Writer, strict bool) (StripStats, error) {
	var (
		stats StripStats
		sc    = NewScannerOpts(in, Opts{Fields: All, Strict: strict})
		w     = NewWriter(out)
		r     Read
	)
	for sc.Scan(&r) {
		if id := StripMateSuffix(r.ID); id != r.ID {
			r.ID = id
			stats.Changed++
		}
		if err := w.Write(&r); err != nil {
			return stats, errors.Wrap(err, "strip headers: write")
		}
	}
	stats.Reads, stats.Dropped = w.N(), sc.Dropped()
	if err := sc.Err(); err != nil {
		return stats, errors.Wrap(err, "strip headers: read")
	}
	return stats, nil
}
