// Package normalize rescales score sets, for instance into probability distributions.
//
// Every Normalizer works in place and returns the set it was given, so normalizers can be chained.
package normalize

import (
	"math"

	"github.com/gorgonia/sparselearn/feature"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gorgonia.org/vecf64"
)

// ErrDomain is returned when a score lies outside the domain of a normalizing function.
var ErrDomain = errors.New("score outside the domain of the normalizer")

// Normalizer rescales every score in a set. The labels, their order and the size of the set are preserved.
type Normalizer interface {
	Normalize(s feature.ScoreSet) (feature.ScoreSet, error)
}

// Identity leaves scores untouched.
type Identity struct{}

func (Identity) Normalize(s feature.ScoreSet) (feature.ScoreSet, error) { return s, nil }

// Log takes the natural logarithm of every score after applying Upstream, if any. When a score is not positive it
// returns ErrDomain and leaves the set as it was, including any changes Upstream would have made.
type Log struct {
	Upstream Normalizer
}

func (n Log) Normalize(s feature.ScoreSet) (feature.ScoreSet, error) {
	c := s.Clone()
	if n.Upstream != nil {
		var err error
		if c, err = n.Upstream.Normalize(c); err != nil {
			return s, err
		}
	}
	vals := c.Values()
	for i, v := range vals {
		if v <= 0 || math.IsNaN(v) {
			return s, errors.Wrapf(ErrDomain, "log of %v (label %q)", v, c[i].Label)
		}
		vals[i] = math.Log(v)
	}
	s.SetValues(vals)
	return s, nil
}

// alpha returns a, or 1 for the zero value.
func alpha(a float64) float64 {
	if a == 0 {
		return 1
	}
	return a
}

// Sigmoid maps every score s to 1/(1+e^(-α·s)). An Alpha of 0 is treated as 1. Results are clamped so that they stay
// strictly between 0 and 1 even where the float64 result would round to either end.
type Sigmoid struct {
	Alpha float64
}

var (
	sigmoidLow  = math.SmallestNonzeroFloat64
	sigmoidHigh = math.Nextafter(1, 0)
)

func (n Sigmoid) Normalize(s feature.ScoreSet) (feature.ScoreSet, error) {
	vals := s.Values()
	vecf64.Scale(vals, -alpha(n.Alpha))
	for i, v := range vals {
		vals[i] = math.Min(math.Max(1/(1+math.Exp(v)), sigmoidLow), sigmoidHigh)
	}
	s.SetValues(vals)
	return s, nil
}

// Softmax maps every score s_i to e^(α·s_i) / Σ_j e^(α·s_j), so that the scores sum to 1. The largest score is
// subtracted before exponentiating, which changes nothing mathematically but keeps large scores finite. An Alpha of 0
// is treated as 1.
type Softmax struct {
	Alpha float64
}

func (n Softmax) Normalize(s feature.ScoreSet) (feature.ScoreSet, error) {
	if len(s) == 0 {
		return s, nil
	}
	vals := s.Values()
	vecf64.Scale(vals, alpha(n.Alpha))
	top := floats.Max(vals)
	if math.IsInf(top, 0) || math.IsNaN(top) {
		return s, errors.Wrapf(ErrDomain, "softmax over %v", s)
	}
	floats.AddConst(-top, vals)
	for i, v := range vals {
		vals[i] = math.Exp(v)
	}
	vecf64.Scale(vals, 1/floats.Sum(vals))
	s.SetValues(vals)
	return s, nil
}

// Chain applies its normalizers left to right, stopping at the first error.
type Chain []Normalizer

func (c Chain) Normalize(s feature.ScoreSet) (feature.ScoreSet, error) {
	var err error
	for _, n := range c {
		if s, err = n.Normalize(s); err != nil {
			return s, err
		}
	}
	return s, nil
}
