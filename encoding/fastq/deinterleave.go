package fastq

import (
	"fmt"
	"io"
	"strings"

	"github.com/pkg/errors"
)

// Policy selects how Deinterleave assigns records to mates.
type Policy int

const (
	// PolicyUnset is the zero Policy. Deinterleave rejects it; callers
	// must pick a policy explicitly.
	PolicyUnset Policy = iota
	// HeaderSuffix routes a record to R1 when the last non-space character
	// of its ID line is '1', and to R2 otherwise.
	HeaderSuffix
	// Parity routes the 1st, 3rd, 5th, ... record to R1 and the 2nd, 4th,
	// 6th, ... record to R2, ignoring the header.
	Parity
)

var policyNames = map[Policy]string{
	HeaderSuffix: "suffix",
	Parity:       "parity",
}

// String returns the name accepted by ParsePolicy.
func (p Policy) String() string {
	if name, ok := policyNames[p]; ok {
		return name
	}
	return fmt.Sprintf("Policy(%d)", int(p))
}

// ParsePolicy parses "suffix" or "parity".
func ParsePolicy(s string) (Policy, error) {
	for p, name := range policyNames {
		if s == name {
			return p, nil
		}
	}
	return PolicyUnset, errors.Errorf("unknown deinterleave policy %q: want \"suffix\" or \"parity\"", s)
}

// SplitOpts configures Deinterleave.
type SplitOpts struct {
	Policy Policy
	// Strict is passed through to the underlying Scanner.
	Strict bool
}

// SplitStats summarizes a Deinterleave run.
type SplitStats struct {
	// R1 and R2 are the number of records written to each output.
	R1, R2 int
	// Dropped is the number of trailing lines discarded.
	Dropped int
}

// isMate1 reports whether the header designates mate 1 under the
// HeaderSuffix policy.
func isMate1(id string) bool {
	id = strings.TrimSpace(id)
	return len(id) > 0 && id[len(id)-1] == '1'
}

// Deinterleave partitions the records of in between out1 and out2
// according to opts.Policy. Records keep their relative order within
// each output.
func Deinterleave(in io.Reader, out1, out2 io.Writer, opts SplitOpts) (SplitStats, error) {
	var stats SplitStats
	if opts.Policy != HeaderSuffix && opts.Policy != Parity {
		return stats, errors.Errorf("deinterleave: invalid policy %v", opts.Policy)
	}
	var (
		sc     = NewScannerOpts(in, Opts{Fields: All, Strict: opts.Strict})
		w1, w2 = NewWriter(out1), NewWriter(out2)
		r      Read
	)
	for i := 0; sc.Scan(&r); i++ {
		toR1 := i%2 == 0
		if opts.Policy == HeaderSuffix {
			toR1 = isMate1(r.ID)
		}
		w := w2
		if toR1 {
			w = w1
		}
		if err := w.Write(&r); err != nil {
			return stats, errors.Wrap(err, "deinterleave: write")
		}
	}
	stats.R1, stats.R2, stats.Dropped = w1.N(), w2.N(), sc.Dropped()
	if err := sc.Err(); err != nil {
		return stats, errors.Wrap(err, "deinterleave: read")
	}
	return stats, nil
}

// Interleave writes R1 and R2 records alternately to out, starting with
// R1. It returns the number of pairs written. The inputs must contain
// the same number of records.
func Interleave(r1In, r2In io.Reader, out io.Writer, strict bool) (int, error) {
	var (
		sc     = NewPairScannerOpts(r1In, r2In, Opts{Fields: All, Strict: strict})
		w      = NewWriter(out)
		r1, r2 Read
		n      int
	)
	for sc.Scan(&r1, &r2) {
		if err := w.Write(&r1); err != nil {
			return n, errors.Wrap(err, "interleave: write")
		}
		if err := w.Write(&r2); err != nil {
			return n, errors.Wrap(err, "interleave: write")
		}
		n++
	}
	if err := sc.Err(); err != nil {
		return n, errors.Wrap(err, "interleave: read")
	}
	return n, nil
}
