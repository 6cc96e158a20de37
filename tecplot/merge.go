package tecplot

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"

	log "github.com/sirupsen/logrus"
	"go.uber.org/multierr"
)

var ErrMissingRankFile = errors.New("missing per rank output file")

var rankSuffix = regexp.MustCompile(`_\d+\.dat$`)

// RankFileName is the private file written by rank, numbered from 1
func RankFileName(base string, rank int) string {
	return fmt.Sprintf("%s_%d.dat", base, rank+1)
}

// MergedFileName strips the rank suffix from a per rank file name
func MergedFileName(rankFile string) string {
	return rankSuffix.ReplaceAllString(rankFile, ".dat")
}

// MergeRankFiles concatenates base_1.dat .. base_<nRanks>.dat in rank order
// into base.dat and deletes the fragments. Every fragment must exist before
// anything is written; on failure the fragments are left in place.
func MergeRankFiles(base string, nRanks int) (merged string, err error) {
	if nRanks < 1 {
		err = fmt.Errorf("invalid rank count %d", nRanks)
		return
	}
	fragments := make([]string, nRanks)
	for r := range fragments {
		fragments[r] = RankFileName(base, r)
		if _, err = os.Stat(fragments[r]); err != nil {
			err = fmt.Errorf("%w: rank %d, %s: %v", ErrMissingRankFile, r, fragments[r], err)
			return
		}
	}
	merged = MergedFileName(fragments[0])
	if err = writeFile(merged, false, func(w *bufio.Writer) (err error) {
		for _, fragment := range fragments {
			if err = appendLines(w, fragment); err != nil {
				return
			}
		}
		return
	}); err != nil {
		return
	}
	for _, fragment := range fragments {
		err = multierr.Append(err, os.Remove(fragment))
	}
	log.WithFields(log.Fields{"file": merged, "ranks": nRanks}).Debug("merged rank files")
	return
}

func appendLines(w *bufio.Writer, path string) (err error) {
	var file *os.File
	if file, err = os.Open(path); err != nil {
		return fmt.Errorf("%w: %v", ErrMissingRankFile, err)
	}
	defer func() { err = multierr.Append(err, file.Close()) }()
	r := bufio.NewReader(file)
	for {
		line, rerr := r.ReadString('\n')
		if len(line) != 0 {
			if _, err = w.WriteString(line); err != nil {
				return
			}
			if line[len(line)-1] != '\n' {
				if err = w.WriteByte('\n'); err != nil {
					return
				}
			}
		}
		if rerr == io.EOF {
			return nil
		}
		if rerr != nil {
			return rerr
		}
	}
}
