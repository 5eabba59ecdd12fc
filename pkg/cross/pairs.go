package cross

import (
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/matzehuels/crosscover/pkg/errors"
)

// ReadPairs parses a pair list from r. See the package documentation for the
// format. Duplicates are kept; use [Dedupe] to drop them.
func ReadPairs(r io.Reader) ([]Cross, error) {
	var out []Cross
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		fields := strings.Fields(text)
		if len(fields) != 2 {
			return nil, errors.New(errors.ErrCodeInvalidPairs,
				"line %d: expected 2 fields (mother, father), got %d", line, len(fields))
		}
		c := New(fields[0], fields[1])
		if err := c.Validate(); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidPairs, err, "line %d", line)
		}
		out = append(out, c)
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPairs, err, "read pairs")
	}
	return out, nil
}

// ReadPairsFile opens path and parses it with [ReadPairs].
func ReadPairsFile(path string) ([]Cross, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "pairs file %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidPairs, err, "open %s", path)
	}
	defer f.Close()
	return ReadPairs(f)
}

// WritePairs writes crosses in the format read by [ReadPairs].
func WritePairs(w io.Writer, crosses []Cross) error {
	bw := bufio.NewWriter(w)
	for _, c := range crosses {
		if _, err := bw.WriteString(c.Mother + "\t" + c.Father + "\n"); err != nil {
			return err
		}
	}
	return bw.Flush()
}
