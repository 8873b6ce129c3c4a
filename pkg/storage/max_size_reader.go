package storage

import (
	"fmt"
	"io"
)

type ReachLimitError struct {
	MaxBytes int64
}

func (e *ReachLimitError) Error() string {
	return fmt.Sprintf("reach limit of %d bytes", e.MaxBytes)
}

// NewMaxSizeReader returns a reader that fails with ReachLimitError once more than maxSize
// bytes are read. A non-positive maxSize disables the limit.
func NewMaxSizeReader(r io.Reader, maxSize int64) io.Reader {
	if maxSize <= 0 {
		return r
	}
	return &maxSizeReader{reader: r, limit: maxSize, left: maxSize}
}

type maxSizeReader struct {
	reader io.Reader
	limit  int64
	left   int64
}

func (r *maxSizeReader) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	// read one byte past the limit to detect overflow
	if int64(len(p)) > r.left+1 {
		p = p[:r.left+1]
	}
	n, err := r.reader.Read(p)
	if int64(n) <= r.left {
		r.left -= int64(n)
		return n, err
	}
	n = int(r.left)
	r.left = 0
	return n, &ReachLimitError{MaxBytes: r.limit}
}
