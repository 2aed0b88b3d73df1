package validator

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"

	"github.com/pithecene-io/hmvalidate/iox"
)

// maxLineSize bounds a single line of input. Harmonized rows are short;
// the bound guards against binary input.
const maxLineSize = 16 << 20

// input is a line reader over a plain or gzip-compressed file.
type input struct {
	scanner *bufio.Scanner
	closers []io.Closer
	line    int
}

// openInput opens path for line reading. Files ending in ".gz" are
// decompressed.
func openInput(path string) (*input, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	in := &input{closers: []io.Closer{f}}
	var r io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		zr, err := gzip.NewReader(f)
		if err != nil {
			iox.DiscardClose(f)
			return nil, fmt.Errorf("gzip: %w", err)
		}
		in.closers = append([]io.Closer{zr}, in.closers...)
		r = zr
	}

	in.scanner = bufio.NewScanner(r)
	in.scanner.Buffer(make([]byte, 64*1024), maxLineSize)
	return in, nil
}

// next returns the next line without its terminator. ok is false at end of
// input or on a read error; check err afterwards.
func (in *input) next() (line string, ok bool) {
	if !in.scanner.Scan() {
		return "", false
	}
	in.line++
	return strings.TrimSuffix(in.scanner.Text(), "\r"), true
}

// err returns the first read error, if any.
func (in *input) err() error {
	return in.scanner.Err()
}

// Close releases the decompressor and the file.
func (in *input) Close() error {
	var first error
	for _, c := range in.closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
