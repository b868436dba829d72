// Package svmlight reads labelled sparse examples from text.
//
// Each non-blank line holds one example:
//
//	label[,label...] index[:value] index[:value] ...
//
// A bare index has value 1, and a label list of "-" means the example has no labels. Everything after a '#' is a
// comment.
package svmlight

import (
	"bufio"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/gorgonia/sparselearn"
	"github.com/gorgonia/sparselearn/feature"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
)

// ErrSyntax is returned for a line that cannot be parsed.
var ErrSyntax = errors.New("svmlight syntax error")

// NoLabels is the label list of an example with no labels.
const NoLabels = "-"

// MaxLineLen is the longest example line a Parser accepts.
const MaxLineLen = 64 << 20

func newScanner(r io.Reader) *bufio.Scanner {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64<<10), MaxLineLen)
	return sc
}

// Parser reads examples from a seekable stream. It implements sparselearn.Parser.
type Parser struct {
	rs     io.ReadSeeker
	sc     *bufio.Scanner
	line   int
	closer io.Closer
}

// NewParser reads examples from rs.
func NewParser(rs io.ReadSeeker) *Parser {
	return &Parser{rs: rs, sc: newScanner(rs)}
}

// Open reads examples from a file. The caller must Close the parser.
func Open(filename string) (*Parser, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	p := NewParser(f)
	p.closer = f
	return p, nil
}

// Close closes the underlying file, if the parser opened one.
func (p *Parser) Close() error {
	if p.closer == nil {
		return nil
	}
	return errors.WithStack(p.closer.Close())
}

// Reset rewinds to the first example.
func (p *Parser) Reset() error {
	if _, err := p.rs.Seek(0, io.SeekStart); err != nil {
		return errors.WithStack(err)
	}
	p.sc = newScanner(p.rs)
	p.line = 0
	return nil
}

// Next returns the next example, or io.EOF.
func (p *Parser) Next() (sparselearn.Example, error) {
	for p.sc.Scan() {
		p.line++
		text := p.sc.Text()
		if i := strings.IndexByte(text, '#'); i >= 0 {
			text = text[:i]
		}
		fields := strings.Fields(text)
		if len(fields) == 0 {
			continue
		}
		ex, err := parse(fields)
		if err != nil {
			return sparselearn.Example{}, errors.WithMessagef(err, "line %d", p.line)
		}
		return ex, nil
	}
	if err := p.sc.Err(); err != nil {
		return sparselearn.Example{}, errors.WithStack(err)
	}
	return sparselearn.Example{}, io.EOF
}

func parse(fields []string) (sparselearn.Example, error) {
	var ex sparselearn.Example
	if fields[0] != NoLabels {
		for _, l := range strings.Split(fields[0], ",") {
			if l == "" {
				return ex, errors.Wrapf(ErrSyntax, "empty label in %q", fields[0])
			}
			ex.Labels = append(ex.Labels, l)
		}
	}

	indices := make([]int, 0, len(fields)-1)
	values := make([]float64, 0, len(fields)-1)
	for _, f := range fields[1:] {
		idxStr, valStr, hasVal := strings.Cut(f, ":")
		idx, err := strconv.Atoi(idxStr)
		if err != nil {
			return ex, errors.Wrapf(ErrSyntax, "feature index %q", idxStr)
		}
		val := 1.0
		if hasVal {
			if val, err = strconv.ParseFloat(valStr, 64); err != nil {
				return ex, errors.Wrapf(ErrSyntax, "feature value %q", valStr)
			}
		}
		indices = append(indices, idx)
		values = append(values, val)
	}
	x, err := feature.NewVector(indices, values)
	if err != nil {
		return ex, errors.Wrap(ErrSyntax, err.Error())
	}
	ex.Features = x
	return ex, nil
}

// ReadLexicon reads one feature name per line. The name on line i (counting from 0) is feature i.
func ReadLexicon(r io.Reader) (feature.Names, error) {
	var names feature.Names
	sc := newScanner(r)
	for sc.Scan() {
		names = append(names, strings.TrimRight(sc.Text(), "\r"))
	}
	return names, errors.WithStack(sc.Err())
}

// ReadLexiconFile is ReadLexicon over a named file.
func ReadLexiconFile(filename string) (names feature.Names, err error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	defer func() { err = multierr.Append(err, f.Close()) }()
	return ReadLexicon(f)
}
