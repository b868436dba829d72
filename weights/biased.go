package weights

import (
	"io"

	"github.com/gorgonia/sparselearn/feature"
	"github.com/gorgonia/sparselearn/internal/binio"
)

// Biased is a Sparse vector with a bias weight that takes part in every dot product. The bias behaves like a feature
// that is active with strength 1 in every example.
type Biased struct {
	Sparse
	initialBias float64
	bias        float64
}

// NewBiased returns an empty vector whose bias starts at initialBias.
func NewBiased(initialBias float64) *Biased {
	return &Biased{Sparse: *NewSparse(), initialBias: initialBias, bias: initialBias}
}

// Bias returns the current bias.
func (v *Biased) Bias() float64 { return v.bias }

// InitialBias returns the bias the vector is reset to.
func (v *Biased) InitialBias() float64 { return v.initialBias }

func (v *Biased) Dot(x feature.Vector, defaultWeight float64) float64 {
	return v.Sparse.Dot(x, defaultWeight) + v.bias
}

func (v *Biased) ScaledAdd(x feature.Vector, factor, defaultWeight float64) {
	v.Sparse.ScaledAdd(x, factor, defaultWeight)
	v.bias += factor
}

// ScaledMultiply leaves the bias untouched.
func (v *Biased) ScaledMultiply(x feature.Vector, factor, defaultWeight float64) {
	v.Sparse.ScaledMultiply(x, factor, defaultWeight)
}

func (v *Biased) Clear() {
	v.Sparse.Clear()
	v.bias = v.initialBias
}

func (v *Biased) Clone() Vector {
	return &Biased{Sparse: v.Sparse.clone(), initialBias: v.initialBias, bias: v.bias}
}

func (v *Biased) EmptyClone() Vector { return NewBiased(v.initialBias) }

func (v *Biased) TypeName() string { return "BiasedWeightVector" }

func (v *Biased) params() []param {
	return []param{{"bias", v.bias}, {"initialBias", v.initialBias}}
}

func (v *Biased) WriteText(w io.Writer) error {
	return writeText(w, v.TypeName(), v.params(), &v.Sparse, nil)
}

func (v *Biased) WriteTextLexicon(w io.Writer, lex feature.Lexicon) error {
	return writeText(w, v.TypeName(), v.params(), &v.Sparse, lex)
}

// Encode writes the Sparse layout followed by the initial bias and the bias.
func (v *Biased) Encode(w io.Writer) error {
	bw := binio.NewWriter(w)
	v.Sparse.encode(bw)
	bw.WriteFloat64(v.initialBias)
	bw.WriteFloat64(v.bias)
	return bw.Err()
}

func (v *Biased) Decode(r io.Reader) error {
	br := binio.NewReader(r)
	m := decodeMap(br)
	initialBias := br.ReadFloat64()
	bias := br.ReadFloat64()
	if err := br.Err(); err != nil {
		return decodeErr(err, v.TypeName())
	}
	v.w, v.initialBias, v.bias = m, initialBias, bias
	return nil
}
