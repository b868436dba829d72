// Package weights implements the sparse weight vectors that linear threshold units learn.
//
// A weight vector maps feature indices to weights. An index that is absent from the map is read as a caller supplied
// default weight, and is materialised with that default the first time it is updated. The Random variants instead
// fill absent indices with Gaussian draws from a generator the vector owns.
//
// Vectors are not safe for concurrent use.
package weights

import (
	"io"
	"math"
	"sort"

	"github.com/gorgonia/sparselearn/feature"
	"github.com/gorgonia/sparselearn/internal/binio"
	"github.com/pkg/errors"
)

// DotProduct is anything that can take the dot product with a sparse example.
type DotProduct interface {
	Dot(x feature.Vector, defaultWeight float64) float64
}

// ScaledUpdate is anything that can be moved towards or away from a sparse example.
type ScaledUpdate interface {
	// ScaledAdd sets w[i] = (w[i] or defaultWeight) + factor*x[i] for every active feature i.
	ScaledAdd(x feature.Vector, factor, defaultWeight float64)
	// ScaledMultiply sets w[i] = (w[i] or defaultWeight) * factor^x[i] for every active feature i.
	ScaledMultiply(x feature.Vector, factor, defaultWeight float64)
}

// Resettable is anything that can be returned to its construction time state.
type Resettable interface {
	Clear()
}

// BinaryCodec is anything with a fixed binary layout.
//
// The layouts carry no type tags: Decode must be called on a vector of the same concrete type that was encoded.
type BinaryCodec interface {
	Encode(w io.Writer) error
	Decode(r io.Reader) error
}

// Vector is a weight vector.
type Vector interface {
	DotProduct
	ScaledUpdate
	Resettable
	BinaryCodec

	// Lookup returns the stored weight of a feature without materialising it.
	Lookup(index int) (w float64, ok bool)
	// Len returns the number of stored weights.
	Len() int
	// Each calls fn for every stored weight in ascending index order.
	Each(fn func(index int, w float64))

	// Clone returns a deep copy.
	Clone() Vector
	// EmptyClone returns a new, empty vector with the same construction parameters.
	EmptyClone() Vector

	// TypeName is the name used in the textual dump.
	TypeName() string
	// WriteText writes a textual dump that lists weights by feature index.
	WriteText(w io.Writer) error
	// WriteTextLexicon writes a textual dump that lists weights by feature name.
	WriteTextLexicon(w io.Writer, lex feature.Lexicon) error
}

var (
	_ Vector = (*Sparse)(nil)
	_ Vector = (*Biased)(nil)
	_ Vector = (*Random)(nil)
	_ Vector = (*BiasedRandom)(nil)
)

// Sparse is the plain weight vector.
type Sparse struct {
	w map[int]float64
}

// NewSparse returns an empty vector.
func NewSparse() *Sparse {
	return &Sparse{w: make(map[int]float64)}
}

func (v *Sparse) get(index int, defaultWeight float64) float64 {
	if w, ok := v.w[index]; ok {
		return w
	}
	return defaultWeight
}

func (v *Sparse) Dot(x feature.Vector, defaultWeight float64) float64 {
	var sum float64
	for i, idx := range x.Indices {
		sum += v.get(idx, defaultWeight) * x.Values[i]
	}
	return sum
}

func (v *Sparse) ScaledAdd(x feature.Vector, factor, defaultWeight float64) {
	for i, idx := range x.Indices {
		v.w[idx] = v.get(idx, defaultWeight) + factor*x.Values[i]
	}
}

func (v *Sparse) ScaledMultiply(x feature.Vector, factor, defaultWeight float64) {
	for i, idx := range x.Indices {
		v.w[idx] = v.get(idx, defaultWeight) * power(factor, x.Values[i])
	}
}

// power is factor^s with the exponents 0 and 1 kept exact.
func power(factor, s float64) float64 {
	switch s {
	case 0:
		return 1
	case 1:
		return factor
	}
	return math.Pow(factor, s)
}

// Clear empties the weight map.
func (v *Sparse) Clear() { v.w = make(map[int]float64) }

func (v *Sparse) Lookup(index int) (float64, bool) {
	w, ok := v.w[index]
	return w, ok
}

func (v *Sparse) Len() int { return len(v.w) }

func (v *Sparse) Each(fn func(index int, w float64)) {
	for _, idx := range v.indices() {
		fn(idx, v.w[idx])
	}
}

func (v *Sparse) indices() []int {
	retVal := make([]int, 0, len(v.w))
	for idx := range v.w {
		retVal = append(retVal, idx)
	}
	sort.Ints(retVal)
	return retVal
}

func (v *Sparse) clone() Sparse {
	w := make(map[int]float64, len(v.w))
	for idx, wt := range v.w {
		w[idx] = wt
	}
	return Sparse{w: w}
}

func (v *Sparse) Clone() Vector {
	c := v.clone()
	return &c
}

func (v *Sparse) EmptyClone() Vector { return NewSparse() }

func (v *Sparse) TypeName() string { return "SparseWeightVector" }

func (v *Sparse) WriteText(w io.Writer) error {
	return writeText(w, v.TypeName(), nil, v, nil)
}

func (v *Sparse) WriteTextLexicon(w io.Writer, lex feature.Lexicon) error {
	return writeText(w, v.TypeName(), nil, v, lex)
}

// Encode writes the number of stored weights followed by (index, weight) pairs in ascending index order.
func (v *Sparse) Encode(w io.Writer) error {
	bw := binio.NewWriter(w)
	v.encode(bw)
	return bw.Err()
}

func (v *Sparse) Decode(r io.Reader) error {
	br := binio.NewReader(r)
	m := decodeMap(br)
	if err := br.Err(); err != nil {
		return decodeErr(err, v.TypeName())
	}
	v.w = m
	return nil
}

func (v *Sparse) encode(w *binio.Writer) {
	indices := v.indices()
	if n := len(indices); n > 0 && indices[n-1] > math.MaxInt32 {
		w.Fail(errors.Wrapf(binio.ErrMalformed, "%s: feature index %d does not fit in 32 bits", v.TypeName(), indices[n-1]))
		return
	}
	w.WriteCount(len(indices))
	for _, idx := range indices {
		w.WriteCount(idx)
		w.WriteFloat64(v.w[idx])
	}
}
