package feature

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/floats"
)

// Score is the score a classifier gives one of its values.
type Score struct {
	Label string
	Value float64
}

// ScoreSet is an ordered collection of scores, one per label.
type ScoreSet []Score

// Values returns a copy of the score values, in order.
func (s ScoreSet) Values() []float64 {
	retVal := make([]float64, len(s))
	for i := range s {
		retVal[i] = s[i].Value
	}
	return retVal
}

// SetValues overwrites the score values in order. It panics if the lengths differ.
func (s ScoreSet) SetValues(vals []float64) {
	if len(vals) != len(s) {
		panic(fmt.Sprintf("SetValues: %d values for %d scores", len(vals), len(s)))
	}
	for i := range s {
		s[i].Value = vals[i]
	}
}

// Get returns the score of label.
func (s ScoreSet) Get(label string) (float64, bool) {
	for _, sc := range s {
		if sc.Label == label {
			return sc.Value, true
		}
	}
	return 0, false
}

// Highest returns the label with the largest score. Ties go to the earlier label.
func (s ScoreSet) Highest() (Score, bool) {
	if len(s) == 0 {
		return Score{}, false
	}
	best := s[0]
	for _, sc := range s[1:] {
		if sc.Value > best.Value {
			best = sc
		}
	}
	return best, true
}

// Sum returns the sum of the scores.
func (s ScoreSet) Sum() float64 {
	return floats.Sum(s.Values())
}

// Clone returns a copy of s.
func (s ScoreSet) Clone() ScoreSet {
	retVal := make(ScoreSet, len(s))
	copy(retVal, s)
	return retVal
}

func (s ScoreSet) String() string {
	var buf strings.Builder
	buf.WriteByte('{')
	for i, sc := range s {
		if i > 0 {
			buf.WriteString(", ")
		}
		fmt.Fprintf(&buf, "%s: %v", sc.Label, sc.Value)
	}
	buf.WriteByte('}')
	return buf.String()
}
