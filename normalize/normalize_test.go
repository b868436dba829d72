package normalize

import (
	"math"
	"testing"

	"github.com/gorgonia/sparselearn/feature"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func set(vals ...float64) feature.ScoreSet {
	s := make(feature.ScoreSet, len(vals))
	for i, v := range vals {
		s[i] = feature.Score{Label: string(rune('a' + i)), Value: v}
	}
	return s
}

func TestNormalizers(t *testing.T) {
	tests := []struct {
		name string
		n    Normalizer
		in   []float64
		want []float64
	}{
		{"identity", Identity{}, []float64{-1, 2}, []float64{-1, 2}},
		{"log", Log{}, []float64{1, math.E}, []float64{0, 1}},
		{"sigmoid", Sigmoid{}, []float64{0, math.Log(3)}, []float64{0.5, 0.75}},
		{"sigmoid alpha", Sigmoid{Alpha: 2}, []float64{0}, []float64{0.5}},
		{"softmax", Softmax{}, []float64{0, math.Log(3)}, []float64{0.25, 0.75}},
		{"softmax alpha", Softmax{Alpha: 0.5}, []float64{0, 2 * math.Log(3)}, []float64{0.25, 0.75}},
		{"softmax large", Softmax{}, []float64{1000, 1000}, []float64{0.5, 0.5}},
		{"log of softmax", Log{Upstream: Softmax{}}, []float64{0, 0}, []float64{-math.Ln2, -math.Ln2}},
		{"chain", Chain{Sigmoid{}, Log{}}, []float64{0}, []float64{-math.Ln2}},
		{"empty softmax", Softmax{}, nil, []float64{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := set(tt.in...)
			got, err := tt.n.Normalize(s)
			require.NoError(t, err)
			require.Len(t, got, len(tt.want))
			for i := range tt.want {
				assert.InDelta(t, tt.want[i], got[i].Value, 1e-12, "score %d", i)
				assert.Equal(t, s[i].Label, got[i].Label)
			}
			assert.Equal(t, s, got, "normalizers work in place")
		})
	}
}

func TestSigmoidStaysInsideUnitInterval(t *testing.T) {
	tests := []struct {
		name string
		in   float64
	}{
		{"large", 40},
		{"huge", 800},
		{"small", -40},
		{"tiny", -800},
		{"infinite", math.Inf(1)},
		{"negative infinite", math.Inf(-1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := Sigmoid{}.Normalize(set(tt.in))
			require.NoError(t, err)
			assert.Greater(t, s[0].Value, 0.0)
			assert.Less(t, s[0].Value, 1.0)

			_, err = Chain{Sigmoid{}, Log{}}.Normalize(set(tt.in))
			assert.NoError(t, err, "log of a sigmoid is always defined")
		})
	}
}

func TestSoftmaxSumsToOne(t *testing.T) {
	s, err := Softmax{Alpha: 3}.Normalize(set(-2, 0.5, 7, 7.1))
	require.NoError(t, err)
	assert.InDelta(t, 1, s.Sum(), 1e-12)
	best, _ := s.Highest()
	assert.Equal(t, "d", best.Label)
}

func TestLogDomain(t *testing.T) {
	tests := []struct {
		name string
		n    Normalizer
		in   []float64
	}{
		{"zero", Log{}, []float64{1, 0}},
		{"negative", Log{}, []float64{-1}},
		{"upstream untouched", Log{Upstream: Identity{}}, []float64{2, -3}},
		{"in chain", Chain{Sigmoid{}, Log{Upstream: Log{}}}, []float64{0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := set(tt.in...)
			before := s.Clone()
			_, err := tt.n.Normalize(s)
			assert.Equal(t, ErrDomain, errors.Cause(err))
			if _, ok := tt.n.(Log); ok {
				assert.Equal(t, before, s, "a failed Log must leave the set untouched")
			}
		})
	}
}
