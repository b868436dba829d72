package sparselearn

import (
	"io"

	"github.com/gorgonia/sparselearn/feature"
	"github.com/gorgonia/sparselearn/ltu"
	"github.com/gorgonia/sparselearn/weights"
	"github.com/pkg/errors"
)

// Update rules a Trainer can use.
const (
	Perceptron = "perceptron"
	Winnow     = "winnow"
)

// Weight vector kinds.
const (
	Sparse       = "sparse"
	Biased       = "biased"
	Random       = "random"
	BiasedRandom = "biasedRandom"
)

// Config configures a Trainer.
type Config struct {
	Name      string `yaml:"name"`
	Algorithm string `yaml:"algorithm"` // Perceptron or Winnow
	Rounds    int    `yaml:"rounds"`    // passes over the training data
	Workers   int    `yaml:"workers"`   // units updated concurrently; 0 or 1 is sequential
	Progress  int    `yaml:"progress"`  // log every Progress examples; 0 disables

	// Shuffle holds the training data in memory and visits it in a different order every round.
	Shuffle bool   `yaml:"shuffle"`
	Seed    uint64 `yaml:"seed"`

	Perceptron ltu.PerceptronParameters `yaml:"perceptron"`
	Winnow     ltu.WinnowParameters     `yaml:"winnow"`
	Vector     VectorConfig             `yaml:"vector"`
}

// DefaultConfig returns a Perceptron over sparse vectors, trained for 10 rounds.
func DefaultConfig() Config {
	return Config{
		Name:       "sparselearn",
		Algorithm:  Perceptron,
		Rounds:     10,
		Seed:       1,
		Perceptron: ltu.DefaultPerceptronParameters(),
		Winnow:     ltu.DefaultWinnowParameters(),
		Vector:     DefaultVectorConfig(),
	}
}

func (conf Config) IsValid() bool {
	var paramsOK bool
	switch conf.Algorithm {
	case Perceptron:
		paramsOK = conf.Perceptron.IsValid()
	case Winnow:
		paramsOK = conf.Winnow.IsValid()
	}
	return paramsOK &&
		conf.Rounds >= 1 &&
		conf.Workers >= 0 &&
		conf.Progress >= 0 &&
		conf.Vector.IsValid()
}

// base builds the template unit the learner clones for every label.
func (conf Config) base() (*ltu.LTU, error) {
	vec, err := conf.Vector.New()
	if err != nil {
		return nil, err
	}
	switch conf.Algorithm {
	case Perceptron:
		p := conf.Perceptron
		p.WeightVector = vec
		return ltu.NewPerceptron(conf.Name, p)
	case Winnow:
		p := conf.Winnow
		p.WeightVector = vec
		return ltu.NewWinnow(conf.Name, p)
	}
	return nil, errors.Errorf("unknown algorithm %q", conf.Algorithm)
}

// VectorConfig selects and configures the weight vector every unit starts from.
type VectorConfig struct {
	Kind        string  `yaml:"kind"`
	InitialBias float64 `yaml:"initialBias"` // Biased only
	Stddev      float64 `yaml:"stddev"`      // Random and BiasedRandom only
	Seed        uint64  `yaml:"seed"`        // Random and BiasedRandom only
}

func DefaultVectorConfig() VectorConfig {
	return VectorConfig{
		Kind:   Sparse,
		Stddev: weights.DefaultStddev,
		Seed:   weights.DefaultSeed,
	}
}

func (conf VectorConfig) IsValid() bool {
	switch conf.Kind {
	case Sparse, Biased:
		return true
	case Random, BiasedRandom:
		return conf.Stddev > 0
	}
	return false
}

// New returns an empty vector of the configured kind.
func (conf VectorConfig) New() (weights.Vector, error) {
	switch conf.Kind {
	case Sparse:
		return weights.NewSparse(), nil
	case Biased:
		return weights.NewBiased(conf.InitialBias), nil
	case Random:
		return weights.NewRandom(conf.Stddev, conf.Seed), nil
	case BiasedRandom:
		return weights.NewBiasedRandom(conf.Stddev, conf.Seed), nil
	}
	return nil, errors.Errorf("unknown weight vector kind %q", conf.Kind)
}

// Example is a labelled training example. It may carry any number of labels.
type Example struct {
	Features feature.Vector
	Labels   []string
}

// Parser is a source of examples.
type Parser interface {
	// Next returns the next example, or io.EOF when there are none left.
	Next() (Example, error)
	// Reset rewinds the parser to its first example.
	Reset() error
}

// SliceParser is a Parser over examples held in memory.
type SliceParser struct {
	examples []Example
	pos      int
}

func NewSliceParser(examples []Example) *SliceParser {
	return &SliceParser{examples: examples}
}

func (p *SliceParser) Next() (Example, error) {
	if p.pos >= len(p.examples) {
		return Example{}, io.EOF
	}
	p.pos++
	return p.examples[p.pos-1], nil
}

func (p *SliceParser) Reset() error {
	p.pos = 0
	return nil
}
