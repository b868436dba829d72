// Package ltu implements mistake driven linear threshold units.
//
// A unit scores an example with the dot product of its weight vector plus a bias, and classifies it as positive when
// the score reaches the threshold. Training is online: a unit is only updated when an example falls on the wrong side
// of the hyperplane, or inside the margin around it.
package ltu

import (
	"fmt"

	"github.com/gorgonia/sparselearn/feature"
	"github.com/gorgonia/sparselearn/weights"
	"github.com/pkg/errors"
)

var (
	// ErrOracleArity is returned when a unit is given a set of labels that does not have exactly two values.
	ErrOracleArity = errors.New("a linear threshold unit needs exactly two labels")
	// ErrUnknownLabel is returned when a unit is trained with a label that is not one of its two values.
	ErrUnknownLabel = errors.New("unknown label")
	// ErrInvalidParameters is returned when a unit is constructed with parameters that fail IsValid.
	ErrInvalidParameters = errors.New("invalid parameters")
)

// Kind is the update rule of a unit.
type Kind byte

const (
	// Perceptron units add ±rate·x to their weights.
	Perceptron Kind = iota
	// Winnow units multiply their weights by α^x on promotion and β^x on demotion.
	Winnow
)

func (k Kind) String() string {
	switch k {
	case Perceptron:
		return "Perceptron"
	case Winnow:
		return "Winnow"
	}
	return fmt.Sprintf("Kind(%d)", byte(k))
}

// unsetLabels are reported before SetLabels is called.
var unsetLabels = []string{"*", "*"}

// LTU is a linear threshold unit. The first of its two labels is the negative one.
//
// An LTU is not safe for concurrent use.
type LTU struct {
	name   string
	kind   Kind
	labels []string // nil until SetLabels

	weights weights.Vector
	bias    float64

	learningRate      float64
	beta              float64 // Winnow only
	initialWeight     float64
	threshold         float64
	positiveThickness float64
	negativeThickness float64
}

// NewPerceptron creates a Perceptron unit.
func NewPerceptron(name string, p PerceptronParameters) (*LTU, error) {
	if !p.IsValid() {
		return nil, errors.Wrapf(ErrInvalidParameters, "perceptron %q: %+v", name, p.Parameters)
	}
	u := &LTU{name: name, kind: Perceptron}
	u.setParameters(p.Parameters)
	return u, nil
}

// NewWinnow creates a Winnow unit.
func NewWinnow(name string, p WinnowParameters) (*LTU, error) {
	if !p.IsValid() {
		return nil, errors.Wrapf(ErrInvalidParameters, "winnow %q: %+v beta %v", name, p.Parameters, p.Beta)
	}
	u := &LTU{name: name, kind: Winnow, beta: p.Beta}
	u.setParameters(p.Parameters)
	return u, nil
}

func (u *LTU) setParameters(p Parameters) {
	u.learningRate = p.LearningRate
	u.initialWeight = p.InitialWeight
	u.threshold = p.Threshold
	u.positiveThickness = p.Thickness + p.PositiveThickness
	u.negativeThickness = p.Thickness + p.NegativeThickness
	if p.WeightVector != nil {
		u.weights = p.WeightVector.EmptyClone()
	} else {
		u.weights = weights.NewSparse()
	}
	u.bias = u.initialWeight
}

// Parameters returns a snapshot of the unit's configuration. Thickness is folded into the per side thicknesses and the
// WeightVector is an empty clone of the unit's vector. For a Winnow unit LearningRate is α.
func (u *LTU) Parameters() Parameters {
	return Parameters{
		LearningRate:      u.learningRate,
		InitialWeight:     u.initialWeight,
		Threshold:         u.threshold,
		PositiveThickness: u.positiveThickness,
		NegativeThickness: u.negativeThickness,
		WeightVector:      u.weights.EmptyClone(),
	}
}

// WinnowParameters returns the snapshot of a Winnow unit. ok is false for other kinds.
func (u *LTU) WinnowParameters() (p WinnowParameters, ok bool) {
	if u.kind != Winnow {
		return WinnowParameters{}, false
	}
	return WinnowParameters{Parameters: u.Parameters(), Beta: u.beta}, true
}

func (u *LTU) Name() string { return u.name }
func (u *LTU) SetName(name string) { u.name = name }
func (u *LTU) Kind() Kind { return u.kind }
func (u *LTU) Threshold() float64 { return u.threshold }
func (u *LTU) Bias() float64 { return u.bias }
func (u *LTU) LearningRate() float64 { return u.learningRate }
func (u *LTU) InitialWeight() float64 { return u.initialWeight }
func (u *LTU) Weights() weights.Vector { return u.weights }
func (u *LTU) Thickness() (pos, neg float64) { return u.positiveThickness, u.negativeThickness }

// Beta is the demotion factor of a Winnow unit, 0 otherwise.
func (u *LTU) Beta() float64 { return u.beta }

// Labels returns the unit's negative and positive labels. Before SetLabels it returns {"*", "*"}.
func (u *LTU) Labels() []string {
	if u.labels == nil {
		return append([]string(nil), unsetLabels...)
	}
	return append([]string(nil), u.labels...)
}

// SetLabels sets the negative and positive labels.
func (u *LTU) SetLabels(labels ...string) error {
	if len(labels) != 2 {
		return errors.Wrapf(ErrOracleArity, "%q given %d labels %q", u.name, len(labels), labels)
	}
	u.labels = append([]string(nil), labels...)
	return nil
}

// Score returns w·x + bias, reading unseen features at the initial weight.
func (u *LTU) Score(x feature.Vector) float64 {
	return u.weights.Dot(x, u.initialWeight) + u.bias
}

// Positive reports whether x scores at or above the threshold.
func (u *LTU) Positive(x feature.Vector) bool { return u.Score(x) >= u.threshold }

// Classify returns the positive label if x scores at or above the threshold and the negative label otherwise.
func (u *LTU) Classify(x feature.Vector) string {
	labels := u.labels
	if labels == nil {
		labels = unsetLabels
	}
	if u.Positive(x) {
		return labels[1]
	}
	return labels[0]
}

// Scores returns the score minus the threshold for the positive label and its negation for the negative label.
func (u *LTU) Scores(x feature.Vector) feature.ScoreSet {
	labels := u.labels
	if labels == nil {
		labels = unsetLabels
	}
	s := u.Score(x) - u.threshold
	return feature.ScoreSet{{Label: labels[0], Value: -s}, {Label: labels[1], Value: s}}
}

// Learn trains the unit on one example labelled with one of its two labels.
func (u *LTU) Learn(x feature.Vector, label string) (updated bool, err error) {
	if u.labels == nil {
		return false, errors.Wrapf(ErrOracleArity, "%q has no labels", u.name)
	}
	switch label {
	case u.labels[1]:
		return u.LearnBinary(x, true), nil
	case u.labels[0]:
		return u.LearnBinary(x, false), nil
	}
	return false, errors.Wrapf(ErrUnknownLabel, "%q is neither %q nor %q", label, u.labels[0], u.labels[1])
}

// LearnBinary trains the unit on one example. A positive example is promoted when it scores below the threshold plus
// the positive thickness, and a negative one is demoted when it scores at or above the threshold minus the negative
// thickness. It reports whether the unit was updated.
func (u *LTU) LearnBinary(x feature.Vector, positive bool) bool {
	s := u.Score(x)
	switch {
	case positive && s < u.threshold+u.positiveThickness:
		u.Promote(x, u.rate(true))
		return true
	case !positive && s >= u.threshold-u.negativeThickness:
		u.Demote(x, u.rate(false))
		return true
	}
	return false
}

func (u *LTU) rate(promote bool) float64 {
	if u.kind == Winnow && !promote {
		return u.beta
	}
	return u.learningRate
}

// update adds rate·x to a Perceptron and multiplies a Winnow by rate^x. The bias follows the same rule.
func (u *LTU) update(x feature.Vector, rate float64) {
	switch u.kind {
	case Winnow:
		u.weights.ScaledMultiply(x, rate, u.initialWeight)
		u.bias *= rate
	default:
		u.weights.ScaledAdd(x, rate, u.initialWeight)
		u.bias += rate
	}
}

// Promote applies a positive update at the given rate regardless of the current score.
func (u *LTU) Promote(x feature.Vector, rate float64) {
	u.update(x, rate)
}

// Demote applies a negative update at the given rate regardless of the current score.
func (u *LTU) Demote(x feature.Vector, rate float64) {
	if u.kind == Perceptron {
		rate = -rate
	}
	u.update(x, rate)
}

// Forget resets the weights to an empty clone and the bias to the initial weight. Labels and parameters are kept.
func (u *LTU) Forget() {
	u.weights = u.weights.EmptyClone()
	u.bias = u.initialWeight
}

// Clone returns a deep copy of the unit.
func (u *LTU) Clone() *LTU {
	c := *u
	c.weights = u.weights.Clone()
	if u.labels != nil {
		c.labels = append([]string(nil), u.labels...)
	}
	return &c
}
