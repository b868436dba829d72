package ltu

import (
	"fmt"
	"io"
	"strconv"

	"github.com/gorgonia/sparselearn/feature"
	"github.com/gorgonia/sparselearn/internal/binio"
	"github.com/pkg/errors"
)

// Encode writes
//
//	[int32 nLabels][labels][initialWeight][threshold][learningRate][positiveThickness][negativeThickness][bias]
//	[weight vector]
//
// followed by beta for a Winnow unit. nLabels is 0 when no labels have been set. The name and kind are not written.
func (u *LTU) Encode(w io.Writer) error {
	bw := binio.NewWriter(w)
	bw.WriteCount(len(u.labels))
	for _, l := range u.labels {
		bw.WriteString(l)
	}
	bw.WriteFloat64(u.initialWeight)
	bw.WriteFloat64(u.threshold)
	bw.WriteFloat64(u.learningRate)
	bw.WriteFloat64(u.positiveThickness)
	bw.WriteFloat64(u.negativeThickness)
	bw.WriteFloat64(u.bias)
	if bw.Err() != nil {
		return bw.Err()
	}
	if err := u.weights.Encode(bw); err != nil {
		return err
	}
	if u.kind == Winnow {
		bw.WriteFloat64(u.beta)
	}
	return bw.Err()
}

// Decode overwrites the unit with an encoded unit of the same kind. The weights are decoded into an empty clone of the
// unit's current vector, so the vector type must match the one that was encoded. On failure the unit is unchanged.
func (u *LTU) Decode(r io.Reader) error {
	br := binio.NewReader(r)
	var labels []string
	switch n := br.ReadCount(); {
	case br.Err() != nil:
	case n == 0:
	case n == 2:
		labels = []string{br.ReadString(), br.ReadString()}
	default:
		br.Fail(errors.Wrapf(binio.ErrMalformed, "%d labels", n))
	}
	c := LTU{name: u.name, kind: u.kind, labels: labels}
	c.initialWeight = br.ReadFloat64()
	c.threshold = br.ReadFloat64()
	c.learningRate = br.ReadFloat64()
	c.positiveThickness = br.ReadFloat64()
	c.negativeThickness = br.ReadFloat64()
	c.bias = br.ReadFloat64()
	if err := br.Err(); err != nil {
		return u.decodeErr(err)
	}

	c.weights = u.weights.EmptyClone()
	if err := c.weights.Decode(br); err != nil {
		return u.decodeErr(err)
	}
	if c.kind == Winnow {
		c.beta = br.ReadFloat64()
		if err := br.Err(); err != nil {
			return u.decodeErr(err)
		}
	}
	*u = c
	return nil
}

func (u *LTU) decodeErr(err error) error {
	if err == io.EOF {
		return err
	}
	return errors.WithMessagef(err, "decoding %v %q", u.kind, u.name)
}

func formatFloat(f float64) string { return strconv.FormatFloat(f, 'g', -1, 64) }

// WriteText writes a header line followed by the weight vector's dump. The header is
//
//	name: learningRate, initialWeight, threshold, positiveThickness, negativeThickness, bias
//
// with beta inserted after the learning rate for a Winnow unit. If lex is nil the weights are listed by index.
func (u *LTU) WriteText(w io.Writer, lex feature.Lexicon) error {
	fields := []float64{u.learningRate}
	if u.kind == Winnow {
		fields = append(fields, u.beta)
	}
	fields = append(fields, u.initialWeight, u.threshold, u.positiveThickness, u.negativeThickness, u.bias)

	line := u.name + ":"
	for i, f := range fields {
		if i > 0 {
			line += ","
		}
		line += " " + formatFloat(f)
	}
	if _, err := fmt.Fprintln(w, line); err != nil {
		return errors.WithStack(err)
	}
	if lex == nil {
		return u.weights.WriteText(w)
	}
	return u.weights.WriteTextLexicon(w, lex)
}
