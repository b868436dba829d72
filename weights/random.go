package weights

import (
	"io"
	"math/rand/v2"

	"github.com/gorgonia/sparselearn/feature"
	"github.com/gorgonia/sparselearn/internal/binio"
	"gonum.org/v1/gonum/stat/distuv"
)

const (
	// DefaultStddev is the standard deviation used when none is given.
	DefaultStddev = 1.0
	// DefaultSeed is the generator seed used when none is given.
	DefaultSeed uint64 = 1
)

// Random is a Sparse vector whose unseen weights are drawn from N(0, stddev²) the first time they are read or
// updated. The default weight passed to its methods is ignored.
//
// The generator belongs to the vector, so two vectors built with the same seed and fed the same calls hold the same
// weights. Clear reseeds it.
type Random struct {
	Sparse
	stddev float64
	seed   uint64
	src    *rand.PCG
	dist   distuv.Normal
}

// NewRandom returns an empty vector drawing from N(0, stddev²) with the given seed.
func NewRandom(stddev float64, seed uint64) *Random {
	v := &Random{Sparse: *NewSparse()}
	v.init(stddev, seed)
	return v
}

func (v *Random) init(stddev float64, seed uint64) {
	v.stddev = stddev
	v.seed = seed
	v.src = rand.NewPCG(seed, seed)
	v.dist = distuv.Normal{Mu: 0, Sigma: stddev, Src: v.src}
}

// Stddev returns the standard deviation of the initial weights.
func (v *Random) Stddev() float64 { return v.stddev }

// Seed returns the seed the generator restarts from on Clear.
func (v *Random) Seed() uint64 { return v.seed }

// weight returns the weight of index, drawing and storing it if the index is unseen.
func (v *Random) weight(index int) float64 {
	w, ok := v.w[index]
	if !ok {
		w = v.dist.Rand()
		v.w[index] = w
	}
	return w
}

func (v *Random) Dot(x feature.Vector, _ float64) float64 {
	var sum float64
	for i, idx := range x.Indices {
		sum += v.weight(idx) * x.Values[i]
	}
	return sum
}

func (v *Random) ScaledAdd(x feature.Vector, factor, _ float64) {
	for i, idx := range x.Indices {
		v.w[idx] = v.weight(idx) + factor*x.Values[i]
	}
}

func (v *Random) ScaledMultiply(x feature.Vector, factor, _ float64) {
	for i, idx := range x.Indices {
		v.w[idx] = v.weight(idx) * power(factor, x.Values[i])
	}
}

// Clear empties the weight map and reseeds the generator.
func (v *Random) Clear() {
	v.Sparse.Clear()
	v.src.Seed(v.seed, v.seed)
}

func (v *Random) clone() Random {
	src := *v.src
	return Random{
		Sparse: v.Sparse.clone(),
		stddev: v.stddev,
		seed:   v.seed,
		src:    &src,
		dist:   distuv.Normal{Mu: 0, Sigma: v.stddev, Src: &src},
	}
}

// Clone copies the weights and the generator state, so the clone draws the same values the original would.
func (v *Random) Clone() Vector {
	c := v.clone()
	return &c
}

func (v *Random) EmptyClone() Vector { return NewRandom(v.stddev, v.seed) }

func (v *Random) TypeName() string { return "RandomWeightVector" }

func (v *Random) params() []param { return []param{{"stddev", v.stddev}} }

func (v *Random) WriteText(w io.Writer) error {
	return writeText(w, v.TypeName(), v.params(), &v.Sparse, nil)
}

func (v *Random) WriteTextLexicon(w io.Writer, lex feature.Lexicon) error {
	return writeText(w, v.TypeName(), v.params(), &v.Sparse, lex)
}

// Encode writes the Sparse layout followed by the standard deviation. The seed is not written.
func (v *Random) Encode(w io.Writer) error {
	bw := binio.NewWriter(w)
	v.encode(bw)
	return bw.Err()
}

func (v *Random) encode(w *binio.Writer) {
	v.Sparse.encode(w)
	w.WriteFloat64(v.stddev)
}

// Decode restores the weights and the standard deviation. The vector keeps its own seed and restarts its generator
// from it.
func (v *Random) Decode(r io.Reader) error {
	br := binio.NewReader(r)
	m, stddev := v.decode(br)
	if err := br.Err(); err != nil {
		return decodeErr(err, v.TypeName())
	}
	v.w = m
	v.init(stddev, v.seed)
	return nil
}

func (v *Random) decode(r *binio.Reader) (map[int]float64, float64) {
	m := decodeMap(r)
	stddev := r.ReadFloat64()
	return m, stddev
}

// BiasedRandom is a Random vector with a bias. The bias is drawn from the generator as soon as it is seeded.
type BiasedRandom struct {
	Random
	bias float64
}

// NewBiasedRandom returns an empty vector drawing from N(0, stddev²) with the given seed.
func NewBiasedRandom(stddev float64, seed uint64) *BiasedRandom {
	v := &BiasedRandom{Random: *NewRandom(stddev, seed)}
	v.bias = v.dist.Rand()
	return v
}

// Bias returns the current bias.
func (v *BiasedRandom) Bias() float64 { return v.bias }

func (v *BiasedRandom) Dot(x feature.Vector, defaultWeight float64) float64 {
	return v.Random.Dot(x, defaultWeight) + v.bias
}

func (v *BiasedRandom) ScaledAdd(x feature.Vector, factor, defaultWeight float64) {
	v.Random.ScaledAdd(x, factor, defaultWeight)
	v.bias += factor
}

// ScaledMultiply leaves the bias untouched.
func (v *BiasedRandom) ScaledMultiply(x feature.Vector, factor, defaultWeight float64) {
	v.Random.ScaledMultiply(x, factor, defaultWeight)
}

// Clear empties the weight map, reseeds the generator and redraws the bias.
func (v *BiasedRandom) Clear() {
	v.Random.Clear()
	v.bias = v.dist.Rand()
}

func (v *BiasedRandom) Clone() Vector {
	return &BiasedRandom{Random: v.Random.clone(), bias: v.bias}
}

func (v *BiasedRandom) EmptyClone() Vector { return NewBiasedRandom(v.stddev, v.seed) }

func (v *BiasedRandom) TypeName() string { return "BiasedRandomWeightVector" }

func (v *BiasedRandom) params() []param {
	return []param{{"stddev", v.stddev}, {"bias", v.bias}}
}

func (v *BiasedRandom) WriteText(w io.Writer) error {
	return writeText(w, v.TypeName(), v.params(), &v.Sparse, nil)
}

func (v *BiasedRandom) WriteTextLexicon(w io.Writer, lex feature.Lexicon) error {
	return writeText(w, v.TypeName(), v.params(), &v.Sparse, lex)
}

// Encode writes the Random layout followed by the bias.
func (v *BiasedRandom) Encode(w io.Writer) error {
	bw := binio.NewWriter(w)
	v.Random.encode(bw)
	bw.WriteFloat64(v.bias)
	return bw.Err()
}

// Decode restores the weights, the standard deviation and the bias. The generator restarts from the vector's own seed
// but the decoded bias is kept.
func (v *BiasedRandom) Decode(r io.Reader) error {
	br := binio.NewReader(r)
	m, stddev := v.Random.decode(br)
	bias := br.ReadFloat64()
	if err := br.Err(); err != nil {
		return decodeErr(err, v.TypeName())
	}
	v.w = m
	v.init(stddev, v.seed)
	v.bias = bias
	return nil
}
