// Package binfmt implements the fixed-layout little-endian encoding used by save files.
//
// Integers are written as int32, booleans as a single byte and text as a
// zero-padded fixed-width field. Writer and Reader keep the first error they hit
// and turn every later call into a no-op, so callers check Err once at the end.
package binfmt

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
)

// Writer encodes values onto an io.Writer.
type Writer struct {
	w   io.Writer
	err error
}

func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// Err returns the first error encountered.
func (w *Writer) Err() error {
	return w.err
}

func (w *Writer) Int(v int) {
	if w.err != nil {
		return
	}
	if v > math.MaxInt32 || v < math.MinInt32 {
		w.err = fmt.Errorf("binfmt: value %d overflows int32", v)
		return
	}
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], uint32(int32(v)))
	_, w.err = w.w.Write(buf[:])
}

func (w *Writer) Bool(v bool) {
	if w.err != nil {
		return
	}
	b := []byte{0}
	if v {
		b[0] = 1
	}
	_, w.err = w.w.Write(b)
}

// String writes s into a width-byte field. Longer values are cut at width-1
// bytes so the field always keeps a terminating zero.
func (w *Writer) String(s string, width int) {
	if w.err != nil {
		return
	}
	buf := make([]byte, width)
	copy(buf[:width-1], s)
	_, w.err = w.w.Write(buf)
}

// Reader decodes values written by Writer.
type Reader struct {
	r   io.Reader
	err error
}

func NewReader(r io.Reader) *Reader {
	return &Reader{r: r}
}

// Err returns the first error encountered.
func (r *Reader) Err() error {
	return r.err
}

func (r *Reader) Int() int {
	if r.err != nil {
		return 0
	}
	var buf [4]byte
	if _, err := io.ReadFull(r.r, buf[:]); err != nil {
		r.err = err
		return 0
	}
	return int(int32(binary.LittleEndian.Uint32(buf[:])))
}

func (r *Reader) Bool() bool {
	if r.err != nil {
		return false
	}
	var buf [1]byte
	if _, err := io.ReadFull(r.r, buf[:]); err != nil {
		r.err = err
		return false
	}
	return buf[0] != 0
}

func (r *Reader) String(width int) string {
	if r.err != nil {
		return ""
	}
	buf := make([]byte, width)
	if _, err := io.ReadFull(r.r, buf); err != nil {
		r.err = err
		return ""
	}
	for i, b := range buf {
		if b == 0 {
			return string(buf[:i])
		}
	}
	return string(buf)
}

// Count reads a length prefix and rejects values outside [0, limit].
func (r *Reader) Count(limit int) int {
	n := r.Int()
	if r.err != nil {
		return 0
	}
	if n < 0 || n > limit {
		r.err = fmt.Errorf("binfmt: count %d outside [0, %d]", n, limit)
		return 0
	}
	return n
}
