package weights

import (
	"io"

	"github.com/gorgonia/sparselearn/internal/binio"
	"github.com/pkg/errors"
)

// maxPrealloc caps the map capacity taken from an untrusted count.
const maxPrealloc = 1 << 16

// decodeMap reads the layout written by (*Sparse).encode. Failures are recorded on r.
func decodeMap(r *binio.Reader) map[int]float64 {
	n := r.ReadCount()
	if r.Err() != nil {
		return nil
	}
	m := make(map[int]float64, min(n, maxPrealloc))
	for i := 0; i < n; i++ {
		idx := r.ReadInt32()
		w := r.ReadFloat64()
		if r.Err() != nil {
			return nil
		}
		if idx < 0 {
			r.Fail(errors.Wrapf(binio.ErrMalformed, "negative feature index %d", idx))
			return nil
		}
		if _, ok := m[int(idx)]; ok {
			r.Fail(errors.Wrapf(binio.ErrMalformed, "feature index %d appears twice", idx))
			return nil
		}
		m[int(idx)] = w
	}
	return m
}

// decodeErr annotates a decoding failure with the type being decoded. A clean io.EOF is passed through untouched so
// that callers reading a sequence of vectors can detect the end of the stream.
func decodeErr(err error, typeName string) error {
	if err == io.EOF {
		return err
	}
	return errors.WithMessagef(err, "decoding %s", typeName)
}
