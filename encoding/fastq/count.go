package fastq

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/pkg/errors"
)

// UMICount is the result of CountUMIs.
type UMICount struct {
	// UMIs is the number of distinct UMI tokens.
	UMIs int
	// Reads is Lines/4, or Lines/8 for a paired stream.
	Reads int
	// Lines is the total number of lines scanned.
	Lines int
}

// String renders c the way the extraction diagnostics have always
// reported it.
func (c UMICount) String() string {
	return fmt.Sprintf("Total number of umis: %d across %d reads in the aligned SAM file", c.UMIs, c.Reads)
}

// umiToken returns the part of a header line after its last underscore,
// or the whole (right-trimmed) line if there is none.
func umiToken(header string) string {
	header = strings.TrimRightFunc(header, isSpace)
	return header[strings.LastIndexByte(header, '_')+1:]
}

func isSpace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	}
	return false
}

// CountUMIs scans the header line of every 4-line record in r and counts
// the distinct UMI tokens that umi_tools appended to the read names.
// Set paired when r holds both mates of each pair, so that reads are
// counted as pairs. Every line, including a trailing partial record,
// contributes to Lines.
func CountUMIs(r io.Reader, paired bool) (UMICount, error) {
	var (
		c    UMICount
		umis = map[string]struct{}{}
		sc   = bufio.NewScanner(r)
	)
	sc.Buffer(make([]byte, 64<<10), maxLineSize)
	for ; sc.Scan(); c.Lines++ {
		if c.Lines%linesPerRead == 0 {
			umis[umiToken(sc.Text())] = struct{}{}
		}
	}
	if err := sc.Err(); err != nil {
		return c, errors.Wrap(err, "count umis")
	}
	c.UMIs = len(umis)
	if paired {
		c.Reads = c.Lines / (2 * linesPerRead)
	} else {
		c.Reads = c.Lines / linesPerRead
	}
	return c, nil
}
