// Package feature holds the data types the learners consume: sparse example vectors, lexicons and score sets.
package feature

import (
	"github.com/pkg/errors"
)

// Output types a classifier can declare for downstream consumers.
const (
	Discrete      = "discrete"  // exactly one value per example
	DiscreteMulti = "discrete%" // zero or more values per example
)

// Vector is a sparse example. Indices[i] is the lexicon index of a feature whose strength is Values[i].
// Learners read a Vector but never modify it.
type Vector struct {
	Indices []int
	Values  []float64
}

// NewVector returns a validated Vector.
func NewVector(indices []int, values []float64) (Vector, error) {
	v := Vector{Indices: indices, Values: values}
	if err := v.Validate(); err != nil {
		return Vector{}, err
	}
	return v, nil
}

// Binary returns a Vector in which every listed feature has strength 1.
func Binary(indices ...int) Vector {
	values := make([]float64, len(indices))
	for i := range values {
		values[i] = 1
	}
	return Vector{Indices: indices, Values: values}
}

// Len returns the number of active features.
func (v Vector) Len() int { return len(v.Indices) }

// Validate checks that the indices and values line up and that the indices are unique and non-negative.
func (v Vector) Validate() error {
	if len(v.Indices) != len(v.Values) {
		return errors.Errorf("vector has %d indices but %d values", len(v.Indices), len(v.Values))
	}
	seen := make(map[int]struct{}, len(v.Indices))
	for _, idx := range v.Indices {
		if idx < 0 {
			return errors.Errorf("negative feature index %d", idx)
		}
		if _, ok := seen[idx]; ok {
			return errors.Errorf("feature index %d appears twice", idx)
		}
		seen[idx] = struct{}{}
	}
	return nil
}

// Lexicon maps feature indices back to feature names.
type Lexicon interface {
	Lookup(index int) (name string, ok bool)
}

// Names is a Lexicon in which the name of feature i is Names[i].
type Names []string

func (n Names) Lookup(index int) (string, bool) {
	if index < 0 || index >= len(n) {
		return "", false
	}
	return n[index], true
}

// Index returns the index of name, or -1.
func (n Names) Index(name string) int {
	for i, s := range n {
		if s == name {
			return i
		}
	}
	return -1
}
