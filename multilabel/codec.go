package multilabel

import (
	"fmt"
	"io"

	"github.com/gorgonia/sparselearn/feature"
	"github.com/gorgonia/sparselearn/internal/binio"
	"github.com/pkg/errors"
)

// Encode writes the base unit, the number of units, and then each unit preceded by its label.
func (l *Learner) Encode(w io.Writer) error {
	bw := binio.NewWriter(w)
	if err := l.base.Encode(bw); err != nil {
		return err
	}
	bw.WriteCount(len(l.network))
	for i, unit := range l.network {
		bw.WriteString(l.predictions[i])
		if err := unit.Encode(bw); err != nil {
			return errors.WithMessagef(err, "encoding unit %q", l.predictions[i])
		}
	}
	return bw.Err()
}

// Decode replaces the learner's base and units with encoded ones. The base must be of the same kind, with the same
// vector type, as the one that was encoded. On failure the learner is unchanged.
func (l *Learner) Decode(r io.Reader) error {
	br := binio.NewReader(r)
	base := l.base.Clone()
	if err := base.Decode(br); err != nil {
		return err
	}

	n := br.ReadCount()
	if err := br.Err(); err != nil {
		return errors.WithMessage(err, "decoding multilabel learner")
	}
	c := &Learner{name: l.name, base: base, index: make(map[string]int), workers: l.workers, log: l.log}
	for i := 0; i < n; i++ {
		label := br.ReadString()
		if err := br.Err(); err != nil {
			return errors.WithMessagef(err, "decoding label %d of %d", i, n)
		}
		if _, ok := c.index[label]; ok {
			return errors.Wrapf(binio.ErrMalformed, "label %q appears twice", label)
		}
		unit := base.Clone()
		if err := unit.Decode(br); err != nil {
			return errors.WithMessagef(err, "decoding unit %q", label)
		}
		unit.SetName(label)
		c.index[label] = len(c.network)
		c.network = append(c.network, unit)
		c.predictions = append(c.predictions, label)
	}
	*l = *c
	return nil
}

// WriteText writes the kind of the base unit, the base unit, then every unit under a "label: " line, and finally
// "End of MultiLabelLearner". If lex is nil weights are listed by index.
func (l *Learner) WriteText(w io.Writer, lex feature.Lexicon) error {
	if _, err := fmt.Fprintln(w, l.base.Kind()); err != nil {
		return errors.WithStack(err)
	}
	if err := l.base.WriteText(w, lex); err != nil {
		return err
	}
	for i, unit := range l.network {
		if _, err := fmt.Fprintf(w, "label: %s\n", l.predictions[i]); err != nil {
			return errors.WithStack(err)
		}
		if err := unit.WriteText(w, lex); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "End of MultiLabelLearner")
	return errors.WithStack(err)
}
