package multilabel

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/gorgonia/sparselearn/feature"
	"github.com/gorgonia/sparselearn/internal/binio"
	"github.com/gorgonia/sparselearn/ltu"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func perceptron(t *testing.T, initialWeight, threshold float64) *ltu.LTU {
	p := ltu.DefaultPerceptronParameters()
	p.InitialWeight = initialWeight
	p.Threshold = threshold
	u, err := ltu.NewPerceptron("base", p)
	require.NoError(t, err)
	return u
}

func TestClassifyIgnoresThresholds(t *testing.T) {
	l := New("m", perceptron(t, 0, 0))
	// on an empty example each unit scores its bias, which starts at its initial weight
	for _, c := range []struct {
		label string
		score float64
	}{{"A", -0.1}, {"B", 0}, {"C", 2.3}} {
		require.NoError(t, l.Add(c.label, perceptron(t, c.score, 5)))
	}

	if diff := cmp.Diff([]string{"B", "C"}, l.Classify(feature.Vector{})); diff != "" {
		t.Errorf("Classify mismatch (-want +got):\n%s", diff)
	}
	want := feature.ScoreSet{{Label: "A", Value: -5.1}, {Label: "B", Value: -5}, {Label: "C", Value: -2.7}}
	got := l.Scores(feature.Vector{})
	require.Len(t, got, 3)
	for i := range want {
		assert.Equal(t, want[i].Label, got[i].Label)
		assert.InDelta(t, want[i].Value, got[i].Value, 1e-12)
	}
	assert.Equal(t, feature.DiscreteMulti, l.OutputType())
}

func TestLazySpawn(t *testing.T) {
	l := New("m", perceptron(t, 0, 0))
	_, err := l.Learn(feature.Binary(0), []string{"b", "a", "b"})
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a"}, l.Labels())

	_, err = l.Learn(feature.Binary(1), []string{"c"})
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a", "c"}, l.Labels())

	u, ok := l.UnitFor("a")
	require.True(t, ok)
	assert.Equal(t, []string{Negative, Positive}, u.Labels())
	assert.Equal(t, "a", u.Name())
	assert.Less(t, u.Score(feature.Binary(1)), 0.0, "a was trained as negative on the second example")

	_, ok = l.UnitFor("z")
	assert.False(t, ok)
	assert.Equal(t, 0, l.Base().Weights().Len(), "the base must never be trained")
}

type example struct {
	x      feature.Vector
	labels []string
}

var twoClass = []example{
	{feature.Binary(0), []string{"x"}},
	{feature.Binary(1), []string{"y"}},
}

func train(t *testing.T, l *Learner, rounds int) []int {
	var updates []int
	for r := 0; r < rounds; r++ {
		for _, ex := range twoClass {
			n, err := l.Learn(ex.x, ex.labels)
			require.NoError(t, err)
			updates = append(updates, n)
		}
	}
	return updates
}

func TestOneVsRest(t *testing.T) {
	tests := []struct {
		name    string
		workers int
	}{
		{"sequential", 1},
		{"parallel", 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := New("m", perceptron(t, 0, 0), WithWorkers(tt.workers))
			updates := train(t, l, 3)
			assert.Equal(t, []int{0, 1, 2, 1, 0, 0}, updates)

			assert.Equal(t, []string{"x"}, l.Classify(feature.Binary(0)))
			assert.Equal(t, []string{"y"}, l.Classify(feature.Binary(1)))
			assert.Equal(t, []string{"x", "y"}, l.Classify(feature.Vector{}))
		})
	}
}

func TestScoreBatch(t *testing.T) {
	l := New("m", perceptron(t, 0, 0))
	assert.Nil(t, l.ScoreBatch([]feature.Vector{feature.Binary(0)}))

	train(t, l, 3)
	xs := []feature.Vector{feature.Binary(0), feature.Binary(1)}
	T := l.ScoreBatch(xs)
	require.NotNil(t, T)
	assert.Equal(t, []int{2, 2}, []int(T.Shape()))
	data := T.Data().([]float64)
	want := append(l.Scores(xs[0]).Values(), l.Scores(xs[1]).Values()...)
	assert.Equal(t, want, data)
}

func TestForgetAndClone(t *testing.T) {
	l := New("m", perceptron(t, 0, 0))
	train(t, l, 1)
	c := l.Clone()
	train(t, c, 2)
	assert.NotEqual(t, l.Scores(feature.Binary(0)), c.Scores(feature.Binary(0)))

	l.Forget()
	assert.Equal(t, 0, l.Len())
	assert.Empty(t, l.Classify(feature.Binary(0)))
	assert.Equal(t, 2, c.Len())
}

func TestLearnRejectsBadVector(t *testing.T) {
	l := New("m", perceptron(t, 0, 0))
	_, err := l.Learn(feature.Vector{Indices: []int{1}}, []string{"a"})
	assert.Error(t, err)
	assert.Equal(t, 0, l.Len())
}

func TestRoundTrip(t *testing.T) {
	wp := ltu.DefaultWinnowParameters()
	base, err := ltu.NewWinnow("base", wp)
	require.NoError(t, err)

	l := New("m", base)
	train(t, l, 3)

	var buf bytes.Buffer
	require.NoError(t, l.Encode(&buf))

	into := New("m", base)
	require.NoError(t, into.Decode(&buf))
	assert.Equal(t, 0, buf.Len())
	assert.Equal(t, l.Labels(), into.Labels())
	for _, ex := range twoClass {
		assert.Equal(t, l.Scores(ex.x), into.Scores(ex.x))
	}

	var a, b bytes.Buffer
	require.NoError(t, l.WriteText(&a, nil))
	require.NoError(t, into.WriteText(&b, nil))
	assert.Equal(t, a.String(), b.String())
}

func TestDecodeDuplicateLabel(t *testing.T) {
	base := perceptron(t, 0, 0)
	unit := base.Clone()
	require.NoError(t, unit.SetLabels(Negative, Positive))

	var buf bytes.Buffer
	w := binio.NewWriter(&buf)
	require.NoError(t, base.Encode(w))
	w.WriteInt32(2)
	for i := 0; i < 2; i++ {
		w.WriteString("a")
		require.NoError(t, unit.Encode(w))
	}
	require.NoError(t, w.Err())

	l := New("m", base)
	require.NoError(t, l.Add("keep", unit.Clone()))
	err := l.Decode(&buf)
	assert.Equal(t, binio.ErrMalformed, errors.Cause(err))
	assert.Equal(t, []string{"keep"}, l.Labels())
}

func TestWriteText(t *testing.T) {
	l := New("m", perceptron(t, 0, 0))
	train(t, l, 3)

	var buf bytes.Buffer
	require.NoError(t, l.WriteText(&buf, feature.Names{"zero", "one"}))
	s := buf.String()
	assert.True(t, strings.HasPrefix(s, "Perceptron\nbase: 0.1, 0, 0, 0, 0, 0\nBegin SparseWeightVector\nEnd SparseWeightVector\n"), s)
	assert.Contains(t, s, "label: x\nx: 0.1, 0, 0, 0, 0, 0\nBegin SparseWeightVector\none   -0.1\nzero  0.1\nEnd SparseWeightVector\n")
	assert.True(t, strings.HasSuffix(s, "End of MultiLabelLearner\n"), s)
}

func TestToDot(t *testing.T) {
	l := New("m", perceptron(t, 0, 0))
	train(t, l, 3)

	dot, err := l.ToDot(feature.Names{"zero", "one"}, 1)
	require.NoError(t, err)
	assert.Contains(t, dot, `"label:x"`)
	assert.Contains(t, dot, `"label:y"`)
	assert.Contains(t, dot, `"zero"`)
	assert.Contains(t, dot, "->")
	assert.Equal(t, 2, strings.Count(dot, "->"), "one edge per label with k = 1")
}
