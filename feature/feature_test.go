package feature

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func TestVectorValidate(t *testing.T) {
	tests := []struct {
		name    string
		v       Vector
		wantErr bool
	}{
		{"empty", Vector{}, false},
		{"ok", Vector{Indices: []int{0, 4}, Values: []float64{1, -2}}, false},
		{"length mismatch", Vector{Indices: []int{0, 4}, Values: []float64{1}}, true},
		{"negative index", Vector{Indices: []int{-1}, Values: []float64{1}}, true},
		{"duplicate index", Vector{Indices: []int{3, 3}, Values: []float64{1, 1}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.v.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestBinary(t *testing.T) {
	v := Binary(2, 5)
	assert.Equal(t, []float64{1, 1}, v.Values)
	assert.Equal(t, 2, v.Len())
}

func TestNames(t *testing.T) {
	lex := Names{"a", "b"}
	name, ok := lex.Lookup(1)
	assert.True(t, ok)
	assert.Equal(t, "b", name)
	_, ok = lex.Lookup(2)
	assert.False(t, ok)
	assert.Equal(t, 0, lex.Index("a"))
	assert.Equal(t, -1, lex.Index("z"))
}

func TestScoreSet(t *testing.T) {
	s := ScoreSet{{"x", 1}, {"y", 3}, {"z", 3}}
	best, ok := s.Highest()
	assert.True(t, ok)
	assert.Equal(t, Score{"y", 3}, best)
	assert.Equal(t, 7.0, s.Sum())

	c := s.Clone()
	c.SetValues([]float64{0, 0, 1})
	if diff := cmp.Diff(ScoreSet{{"x", 0}, {"y", 0}, {"z", 1}}, c); diff != "" {
		t.Errorf("SetValues mismatch (-want +got):\n%s", diff)
	}
	v, ok := s.Get("x")
	assert.True(t, ok)
	assert.Equal(t, 1.0, v)
	assert.Equal(t, "{x: 1, y: 3, z: 3}", s.String())
	assert.Panics(t, func() { s.SetValues([]float64{1}) })
}
