package ltu

import (
	"math"

	"github.com/gorgonia/sparselearn/weights"
)

// Parameters configures a linear threshold unit.
type Parameters struct {
	LearningRate  float64 `yaml:"learningRate"`
	InitialWeight float64 `yaml:"initialWeight"`
	Threshold     float64 `yaml:"threshold"`

	// Thickness widens the margin on both sides of the hyperplane. It is added to PositiveThickness and
	// NegativeThickness when the unit is built.
	Thickness         float64 `yaml:"thickness"`
	PositiveThickness float64 `yaml:"positiveThickness"`
	NegativeThickness float64 `yaml:"negativeThickness"`

	// WeightVector is the template the unit's weights are cloned from. Nil means an empty weights.Sparse.
	WeightVector weights.Vector `yaml:"-"`
}

// DefaultParameters returns the parameters of a plain linear threshold unit.
func DefaultParameters() Parameters {
	return Parameters{
		LearningRate: 0.1,
		WeightVector: weights.NewSparse(),
	}
}

func finite(fs ...float64) bool {
	for _, f := range fs {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return false
		}
	}
	return true
}

// IsValid returns true when every field is finite and the learning rate is positive.
func (p Parameters) IsValid() bool {
	return p.LearningRate > 0 &&
		finite(p.LearningRate, p.InitialWeight, p.Threshold, p.Thickness, p.PositiveThickness, p.NegativeThickness)
}

// PerceptronParameters configures a Perceptron unit.
type PerceptronParameters struct {
	Parameters `yaml:",inline"`
}

// DefaultPerceptronParameters returns learning rate 0.1 and zero initial weight, threshold and thickness.
func DefaultPerceptronParameters() PerceptronParameters {
	return PerceptronParameters{Parameters: DefaultParameters()}
}

// WinnowParameters configures a Winnow unit. The embedded LearningRate is the promotion factor α and Beta is the
// demotion factor.
type WinnowParameters struct {
	Parameters `yaml:",inline"`
	Beta       float64 `yaml:"beta"`
}

// DefaultWinnowParameters returns α = 2, β = 1/α, threshold 16 and initial weight 1.
func DefaultWinnowParameters() WinnowParameters {
	p := DefaultParameters()
	p.LearningRate = 2
	p.Threshold = 16
	p.InitialWeight = 1
	return WinnowParameters{Parameters: p, Beta: 1 / p.LearningRate}
}

// IsValid additionally requires a positive, finite Beta.
func (p WinnowParameters) IsValid() bool {
	return p.Parameters.IsValid() && p.Beta > 0 && finite(p.Beta)
}
