package svmlight

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/gorgonia/sparselearn"
	"github.com/gorgonia/sparselearn/feature"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const data = `# training data
sports,news 3:0.5 7
- 1:2

weather 0 2:-1.5 # trailing comment
`

func TestParser(t *testing.T) {
	p := NewParser(strings.NewReader(data))
	want := []sparselearn.Example{
		{Features: feature.Vector{Indices: []int{3, 7}, Values: []float64{0.5, 1}}, Labels: []string{"sports", "news"}},
		{Features: feature.Vector{Indices: []int{1}, Values: []float64{2}}},
		{Features: feature.Vector{Indices: []int{0, 2}, Values: []float64{1, -1.5}}, Labels: []string{"weather"}},
	}

	for pass := 0; pass < 2; pass++ {
		var got []sparselearn.Example
		for {
			ex, err := p.Next()
			if err == io.EOF {
				break
			}
			require.NoError(t, err)
			got = append(got, ex)
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("pass %d mismatch (-want +got):\n%s", pass, diff)
		}
		require.NoError(t, p.Reset())
	}
}

func TestLongLine(t *testing.T) {
	const n = 8000
	var b strings.Builder
	b.WriteString("long")
	for i := 0; i < n; i++ {
		fmt.Fprintf(&b, " %d:0.123456", i)
	}
	b.WriteString("\nshort 1\n")
	require.Greater(t, b.Len(), 64<<10)

	p := NewParser(strings.NewReader(b.String()))
	for pass := 0; pass < 2; pass++ {
		ex, err := p.Next()
		require.NoError(t, err)
		assert.Equal(t, []string{"long"}, ex.Labels)
		assert.Len(t, ex.Features.Indices, n)

		ex, err = p.Next()
		require.NoError(t, err)
		assert.Equal(t, []string{"short"}, ex.Labels)
		require.NoError(t, p.Reset())
	}
}

func TestSyntaxErrors(t *testing.T) {
	tests := []struct {
		name string
		line string
	}{
		{"bad index", "a x:1"},
		{"bad value", "a 1:y"},
		{"negative index", "a -1:1"},
		{"duplicate index", "a 1 1:2"},
		{"empty label", "a,,b 1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewParser(strings.NewReader("ok 1\n" + tt.line + "\n"))
			_, err := p.Next()
			require.NoError(t, err)
			_, err = p.Next()
			assert.Equal(t, ErrSyntax, errors.Cause(err))
			assert.Contains(t, err.Error(), "line 2")
		})
	}
}

func TestLexicon(t *testing.T) {
	names, err := ReadLexicon(strings.NewReader("alpha\r\nbeta\ngamma"))
	require.NoError(t, err)
	assert.Equal(t, feature.Names{"alpha", "beta", "gamma"}, names)

	filename := filepath.Join(t.TempDir(), "lex.txt")
	require.NoError(t, os.WriteFile(filename, []byte("a\nb\n"), 0644))
	names, err = ReadLexiconFile(filename)
	require.NoError(t, err)
	assert.Equal(t, feature.Names{"a", "b"}, names)

	_, err = ReadLexiconFile(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}

func TestOpen(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "train.txt")
	require.NoError(t, os.WriteFile(filename, []byte(data), 0644))
	p, err := Open(filename)
	require.NoError(t, err)
	defer p.Close()

	ex, err := p.Next()
	require.NoError(t, err)
	assert.Equal(t, []string{"sports", "news"}, ex.Labels)
}
