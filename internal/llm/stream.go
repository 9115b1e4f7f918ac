package llm

import (
	"bytes"
	"errors"
	"io"
)

const readChunkSize = 4096

// readLines reads newline-delimited records from r, calling fn with each
// complete non-blank line as soon as it is buffered. A trailing line without a
// newline is passed to fn once r is exhausted.
func readLines(r io.Reader, fn func(line []byte)) error {
	var buf []byte
	chunk := make([]byte, readChunkSize)
	for {
		n, err := r.Read(chunk)
		if n > 0 {
			buf = append(buf, chunk[:n]...)
			for {
				i := bytes.IndexByte(buf, '\n')
				if i < 0 {
					break
				}
				if line := bytes.TrimSpace(buf[:i]); len(line) > 0 {
					fn(line)
				}
				buf = buf[i+1:]
			}
		}
		if errors.Is(err, io.EOF) {
			if rest := bytes.TrimSpace(buf); len(rest) > 0 {
				fn(rest)
			}
			return nil
		}
		if err != nil {
			return err
		}
	}
}
