package jsonrpc

import (
	"bufio"
	"bytes"
	"errors"
	"io"
)

// DefaultMaxLineSize bounds a single inbound line.
const DefaultMaxLineSize = 64 * 1024 * 1024

const framerReadSize = 64 * 1024

// Framer splits a byte stream into newline-terminated lines. Partial reads are
// buffered until the newline arrives. A final line without a trailing newline
// is returned at EOF when non-empty.
type Framer struct {
	r       *bufio.Reader
	maxSize int
	buf     []byte
}

// NewFramer wraps r. A maxSize <= 0 selects DefaultMaxLineSize.
func NewFramer(r io.Reader, maxSize int) *Framer {
	if maxSize <= 0 {
		maxSize = DefaultMaxLineSize
	}

	return &Framer{
		r:       bufio.NewReaderSize(r, min(framerReadSize, maxSize)),
		maxSize: maxSize,
	}
}

// Next returns the next line without its terminator. The slice is only valid
// until the following call. ErrLineTooLong reports a discarded oversize line;
// reading may continue after it. io.EOF is returned once the stream is
// exhausted.
func (f *Framer) Next() ([]byte, error) {
	f.buf = f.buf[:0]
	tooLong := false

	for {
		chunk, err := f.r.ReadSlice('\n')
		if !tooLong {
			if len(f.buf)+len(chunk) > f.maxSize+1 {
				tooLong = true
				f.buf = f.buf[:0]
			} else {
				f.buf = append(f.buf, chunk...)
			}
		}

		switch {
		case err == nil:
			if tooLong {
				return nil, ErrLineTooLong
			}

			return trimEOL(f.buf), nil
		case errors.Is(err, bufio.ErrBufferFull):
			continue
		case errors.Is(err, io.EOF):
			if tooLong {
				return nil, ErrLineTooLong
			}
			if len(f.buf) > 0 {
				return trimEOL(f.buf), nil
			}

			return nil, io.EOF
		default:
			return nil, err
		}
	}
}

func trimEOL(b []byte) []byte {
	b = bytes.TrimSuffix(b, []byte("\n"))

	return bytes.TrimSuffix(b, []byte("\r"))
}
