package dedup

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
)

// indexSuffixes are the extensions of bowtie2 index files, small and
// large.
var indexSuffixes = []string{".bt2", ".bt2l"}

func isIndexFile(name, base string) bool {
	if !strings.HasPrefix(name, base) {
		return false
	}
	for _, s := range indexSuffixes {
		if strings.HasSuffix(name, s) {
			return true
		}
	}
	return false
}

// IndexPresent reports whether the directory of indexBase holds a file
// whose name starts with the base name of indexBase and ends in a bowtie2
// index extension.
func IndexPresent(ctx context.Context, indexBase string) (bool, error) {
	dir, base := filepath.Split(indexBase)
	if dir == "" {
		dir = "."
	}
	lister := file.List(ctx, dir, true /*recursive*/)
	for lister.Scan() {
		if isIndexFile(filepath.Base(lister.Path()), base) {
			return true, nil
		}
	}
	if err := lister.Err(); err != nil {
		return false, errors.E(err, "list", dir)
	}
	return false, nil
}
