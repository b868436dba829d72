// Package binio provides the primitive big-endian reads and writes that the model formats are built from.
//
// Both Reader and Writer are sticky: after the first failure every call is a no-op and the failure is reported by Err.
// Neither buffers, so codecs for nested values can share the same underlying stream.
package binio

import (
	"encoding/binary"
	"io"
	"math"

	"github.com/pkg/errors"
)

var (
	// ErrTruncated is returned when a stream ends part way through a value.
	ErrTruncated = errors.New("truncated model stream")
	// ErrMalformed is returned when a stream holds a value no writer could have produced.
	ErrMalformed = errors.New("malformed model stream")
)

// MaxStringLen bounds the length prefix of a string.
const MaxStringLen = 1 << 20

// Writer writes primitives to an underlying io.Writer.
type Writer struct {
	w   io.Writer
	buf [8]byte
	n   int64
	err error
}

// NewWriter wraps w. If w is already a *Writer it is returned as is.
func NewWriter(w io.Writer) *Writer {
	if bw, ok := w.(*Writer); ok {
		return bw
	}
	return &Writer{w: w}
}

// Write implements io.Writer.
func (w *Writer) Write(p []byte) (int, error) {
	if w.err != nil {
		return 0, w.err
	}
	n, err := w.w.Write(p)
	w.n += int64(n)
	if err != nil {
		w.err = errors.WithStack(err)
	}
	return n, w.err
}

func (w *Writer) WriteFloat64(f float64) {
	binary.BigEndian.PutUint64(w.buf[:8], math.Float64bits(f))
	w.Write(w.buf[:8])
}

func (w *Writer) WriteInt32(i int32) {
	binary.BigEndian.PutUint32(w.buf[:4], uint32(i))
	w.Write(w.buf[:4])
}

func (w *Writer) WriteBool(b bool) {
	w.buf[0] = 0
	if b {
		w.buf[0] = 1
	}
	w.Write(w.buf[:1])
}

// WriteCount writes a non-negative count or index as an int32. Values that do not fit fail with ErrMalformed.
func (w *Writer) WriteCount(n int) {
	if n < 0 || n > math.MaxInt32 {
		w.Fail(errors.Wrapf(ErrMalformed, "%d does not fit in 32 bits", n))
		return
	}
	w.WriteInt32(int32(n))
}

// WriteString writes the byte length of s followed by its bytes.
func (w *Writer) WriteString(s string) {
	if len(s) > MaxStringLen {
		w.Fail(errors.Wrapf(ErrMalformed, "string of length %d exceeds %d", len(s), MaxStringLen))
		return
	}
	w.WriteInt32(int32(len(s)))
	w.Write([]byte(s))
}

// Fail records err unless an earlier error is already recorded.
func (w *Writer) Fail(err error) {
	if w.err == nil {
		w.err = err
	}
}

// Len returns the number of bytes written so far.
func (w *Writer) Len() int64 { return w.n }

// Err returns the first error encountered.
func (w *Writer) Err() error { return w.err }

// Reader reads primitives from an underlying io.Reader.
type Reader struct {
	r   io.Reader
	buf [8]byte
	n   int64
	err error
}

// NewReader wraps r. If r is already a *Reader it is returned as is.
func NewReader(r io.Reader) *Reader {
	if br, ok := r.(*Reader); ok {
		return br
	}
	return &Reader{r: r}
}

// Read implements io.Reader. It reads exactly len(p) bytes or fails.
func (r *Reader) Read(p []byte) (int, error) {
	if r.err != nil {
		return 0, r.err
	}
	n, err := io.ReadFull(r.r, p)
	start := r.n
	r.n += int64(n)
	switch {
	case err == nil:
	case err == io.EOF && start == 0:
		r.err = io.EOF
	case err == io.EOF || err == io.ErrUnexpectedEOF:
		r.err = errors.Wrapf(ErrTruncated, "after %d bytes", r.n)
	default:
		r.err = errors.WithStack(err)
	}
	return n, r.err
}

func (r *Reader) ReadFloat64() float64 {
	if _, err := r.Read(r.buf[:8]); err != nil {
		return 0
	}
	return math.Float64frombits(binary.BigEndian.Uint64(r.buf[:8]))
}

func (r *Reader) ReadInt32() int32 {
	if _, err := r.Read(r.buf[:4]); err != nil {
		return 0
	}
	return int32(binary.BigEndian.Uint32(r.buf[:4]))
}

func (r *Reader) ReadBool() bool {
	if _, err := r.Read(r.buf[:1]); err != nil {
		return false
	}
	switch r.buf[0] {
	case 0:
		return false
	case 1:
		return true
	}
	r.Fail(errors.Wrapf(ErrMalformed, "boolean byte %#x", r.buf[0]))
	return false
}

func (r *Reader) ReadString() string {
	l := r.ReadInt32()
	if r.err != nil {
		return ""
	}
	if l < 0 || l > MaxStringLen {
		r.Fail(errors.Wrapf(ErrMalformed, "string length %d", l))
		return ""
	}
	p := make([]byte, l)
	if _, err := r.Read(p); err != nil {
		return ""
	}
	return string(p)
}

// ReadCount reads an int32 that must be a non-negative element count.
func (r *Reader) ReadCount() int {
	n := r.ReadInt32()
	if r.err == nil && n < 0 {
		r.Fail(errors.Wrapf(ErrMalformed, "negative count %d", n))
		return 0
	}
	return int(n)
}

// Fail records err unless an earlier error is already recorded.
func (r *Reader) Fail(err error) {
	if r.err == nil {
		r.err = err
	}
}

// Len returns the number of bytes consumed so far.
func (r *Reader) Len() int64 { return r.n }

// Err returns the first error encountered. A stream that was empty from the start reports io.EOF.
func (r *Reader) Err() error { return r.err }
