// Package sparselearn trains one-vs-rest linear threshold units over sparse features.
//
// The Trainer is the entry point: it builds a multi-label learner from a Config, feeds it examples from a Parser for a
// number of rounds, evaluates it, and saves and loads it.
package sparselearn

import (
	"context"
	"io"
	"math/rand/v2"
	"os"
	"time"

	"github.com/gorgonia/sparselearn/feature"
	"github.com/gorgonia/sparselearn/internal/binio"
	"github.com/gorgonia/sparselearn/multilabel"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// Option configures a Trainer.
type Option func(*Trainer)

// WithLogger sets the logger used by the Trainer and its learner.
func WithLogger(log *zap.SugaredLogger) Option {
	return func(t *Trainer) { t.log = log }
}

// Trainer drives a multilabel.Learner.
type Trainer struct {
	Statistics

	conf    Config
	learner *multilabel.Learner
	log     *zap.SugaredLogger
}

// New creates a Trainer with an untrained learner.
func New(conf Config, opts ...Option) (*Trainer, error) {
	if !conf.IsValid() {
		return nil, errors.Errorf("invalid config %+v", conf)
	}
	t := &Trainer{
		Statistics: makeStatistics(),
		conf:       conf,
		log:        zap.NewNop().Sugar(),
	}
	for _, opt := range opts {
		opt(t)
	}
	if err := t.reset(); err != nil {
		return nil, err
	}
	return t, nil
}

func (t *Trainer) reset() error {
	base, err := t.conf.base()
	if err != nil {
		return err
	}
	t.learner = multilabel.New(t.conf.Name, base, multilabel.WithWorkers(t.conf.Workers), multilabel.WithLogger(t.log))
	return nil
}

// Config returns the configuration the Trainer was built or loaded with.
func (t *Trainer) Config() Config { return t.conf }

// Learner returns the learner being trained.
func (t *Trainer) Learner() *multilabel.Learner { return t.learner }

// Train makes conf.Rounds passes over the examples of p. The context is checked before every example; when it is
// cancelled Train returns its error, keeping whatever was learnt so far.
func (t *Trainer) Train(ctx context.Context, p Parser) error {
	var examples []Example
	var rng *rand.Rand
	if t.conf.Shuffle {
		var err error
		if examples, err = readAll(p); err != nil {
			return err
		}
		rng = rand.New(rand.NewPCG(t.conf.Seed, t.conf.Seed))
		p = NewSliceParser(examples)
	}

	for round := 0; round < t.conf.Rounds; round++ {
		if rng != nil {
			rng.Shuffle(len(examples), func(i, j int) { examples[i], examples[j] = examples[j], examples[i] })
		}
		if err := p.Reset(); err != nil {
			return errors.WithMessage(err, "rewinding training data")
		}
		r, err := t.round(ctx, p)
		t.update(r)
		t.log.Infow("round",
			"round", round,
			"examples", r.Examples,
			"mistakes", r.Mistakes,
			"updates", r.Updates,
			"labels", r.Labels,
			"elapsed", r.Duration)
		if err != nil {
			return errors.WithMessagef(err, "round %d", round)
		}
	}
	return nil
}

func (t *Trainer) round(ctx context.Context, p Parser) (r Round, err error) {
	start := time.Now()
	defer func() {
		r.Labels = t.learner.Len()
		r.Duration = time.Since(start)
	}()
	for {
		if err = ctx.Err(); err != nil {
			return r, err
		}
		var ex Example
		if ex, err = p.Next(); err == io.EOF {
			return r, nil
		} else if err != nil {
			return r, errors.WithMessagef(err, "example %d", r.Examples)
		}

		if !sameLabels(ex.Labels, t.learner.Classify(ex.Features)) {
			r.Mistakes++
		}
		var n int
		if n, err = t.learner.Learn(ex.Features, ex.Labels); err != nil {
			return r, errors.WithMessagef(err, "example %d", r.Examples)
		}
		r.Examples++
		r.Updates += n
		if t.conf.Progress > 0 && r.Examples%t.conf.Progress == 0 {
			t.log.Debugw("progress", "examples", r.Examples, "mistakes", r.Mistakes)
		}
	}
}

func readAll(p Parser) ([]Example, error) {
	if err := p.Reset(); err != nil {
		return nil, errors.WithMessage(err, "rewinding training data")
	}
	var retVal []Example
	for {
		ex, err := p.Next()
		if err == io.EOF {
			return retVal, nil
		}
		if err != nil {
			return nil, errors.WithMessagef(err, "example %d", len(retVal))
		}
		retVal = append(retVal, ex)
	}
}

// Classify returns the labels the learner assigns to x.
func (t *Trainer) Classify(x feature.Vector) []string { return t.learner.Classify(x) }

// Test classifies every example of p and compares the predicted labels with the given ones.
func (t *Trainer) Test(p Parser) (Result, error) {
	var res Result
	if err := p.Reset(); err != nil {
		return res, errors.WithMessage(err, "rewinding test data")
	}
	for {
		ex, err := p.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return res, errors.WithMessagef(err, "example %d", res.Examples)
		}
		res.add(ex.Labels, t.learner.Classify(ex.Features))
	}
	t.log.Infow("test",
		"examples", res.Examples,
		"precision", res.Precision(),
		"recall", res.Recall(),
		"f1", res.F1(),
		"accuracy", res.Accuracy())
	return res, nil
}

// WriteText writes a textual dump of the learner. Weights are listed by name when lex is not nil.
func (t *Trainer) WriteText(w io.Writer, lex feature.Lexicon) error {
	return t.learner.WriteText(w, lex)
}

// ToDot renders the k strongest features of every label as a Graphviz digraph.
func (t *Trainer) ToDot(lex feature.Lexicon, k int) (string, error) {
	return t.learner.ToDot(lex, k)
}

// Save writes the learner to filename. The file starts with the name, algorithm and vector kind, which Load uses to
// rebuild a learner of the right shape before decoding it.
func (t *Trainer) Save(filename string) (err error) {
	f, err := os.OpenFile(filename, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
	if err != nil {
		return errors.WithStack(err)
	}
	defer func() { err = multierr.Append(err, f.Close()) }()

	w := binio.NewWriter(f)
	w.WriteString(t.conf.Name)
	w.WriteString(t.conf.Algorithm)
	w.WriteString(t.conf.Vector.Kind)
	if err = t.learner.Encode(w); err != nil {
		return errors.WithMessagef(err, "saving %s", filename)
	}
	t.log.Debugw("saved", "file", filename, "bytes", w.Len(), "labels", t.learner.Len())
	return nil
}

// Load replaces the learner with the one saved in filename. Parameters stored in the file override the Trainer's
// config; the rest of the config, including the random seed, is kept.
func (t *Trainer) Load(filename string) (err error) {
	f, err := os.Open(filename)
	if err != nil {
		return errors.WithStack(err)
	}
	defer func() { err = multierr.Append(err, f.Close()) }()

	r := binio.NewReader(f)
	conf := t.conf
	conf.Name = r.ReadString()
	conf.Algorithm = r.ReadString()
	conf.Vector.Kind = r.ReadString()
	if err = r.Err(); err != nil {
		return errors.WithMessagef(err, "loading %s", filename)
	}

	base, err := conf.base()
	if err != nil {
		return errors.WithMessagef(err, "loading %s", filename)
	}
	learner := multilabel.New(conf.Name, base, multilabel.WithWorkers(conf.Workers), multilabel.WithLogger(t.log))
	if err = learner.Decode(r); err != nil {
		return errors.WithMessagef(err, "loading %s", filename)
	}
	t.conf, t.learner = conf, learner
	t.log.Debugw("loaded", "file", filename, "labels", learner.Len())
	return nil
}
