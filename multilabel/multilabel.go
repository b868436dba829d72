// Package multilabel composes linear threshold units into a one-vs-rest learner that assigns zero or more labels to an
// example.
package multilabel

import (
	"github.com/gorgonia/sparselearn/feature"
	"github.com/gorgonia/sparselearn/ltu"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorgonia.org/tensor"
)

// Binary labels given to every spawned unit.
const (
	Negative = "false"
	Positive = "true"
)

// Option configures a Learner.
type Option func(*Learner)

// WithWorkers sets how many units are updated or scored concurrently. Values below 2 keep everything on the calling
// goroutine.
func WithWorkers(n int) Option {
	return func(l *Learner) { l.workers = n }
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(log *zap.SugaredLogger) Option {
	return func(l *Learner) { l.log = log }
}

// Learner holds one binary unit per label it has seen in training. Units are created lazily from a base template, in
// the order their labels first appear.
type Learner struct {
	name string
	base *ltu.LTU

	network     []*ltu.LTU
	predictions []string // predictions[i] is the label network[i] decides
	index       map[string]int

	workers int
	log     *zap.SugaredLogger
}

// New creates a learner whose units are clones of base. base itself is never trained.
func New(name string, base *ltu.LTU, opts ...Option) *Learner {
	l := &Learner{
		name:  name,
		base:  base.Clone(),
		index: make(map[string]int),
		log:   zap.NewNop().Sugar(),
	}
	for _, opt := range opts {
		opt(l)
	}
	l.base.Forget()
	return l
}

func (l *Learner) Name() string { return l.name }

// Base returns the template units are cloned from.
func (l *Learner) Base() *ltu.LTU { return l.base }

// OutputType is always feature.DiscreteMulti.
func (l *Learner) OutputType() string { return feature.DiscreteMulti }

// Len returns the number of units.
func (l *Learner) Len() int { return len(l.network) }

// Labels returns the labels in unit order.
func (l *Learner) Labels() []string { return append([]string(nil), l.predictions...) }

// Unit returns the i-th unit.
func (l *Learner) Unit(i int) *ltu.LTU { return l.network[i] }

// UnitFor returns the unit that decides label.
func (l *Learner) UnitFor(label string) (*ltu.LTU, bool) {
	i, ok := l.index[label]
	if !ok {
		return nil, false
	}
	return l.network[i], true
}

// Add installs unit as the decider for label, replacing any existing unit. The unit is given the labels
// {Negative, Positive}.
func (l *Learner) Add(label string, unit *ltu.LTU) error {
	if err := unit.SetLabels(Negative, Positive); err != nil {
		return err
	}
	unit.SetName(label)
	if i, ok := l.index[label]; ok {
		l.network[i] = unit
		return nil
	}
	l.index[label] = len(l.network)
	l.network = append(l.network, unit)
	l.predictions = append(l.predictions, label)
	return nil
}

func (l *Learner) spawn(label string) error {
	unit := l.base.Clone()
	unit.Forget()
	if err := l.Add(label, unit); err != nil {
		return err
	}
	l.log.Debugw("new label", "learner", l.name, "label", label, "units", len(l.network))
	return nil
}

// Learn trains every unit on x. A unit is trained as positive when its label is among labels and as negative
// otherwise. Units for labels not seen before are created first. It returns how many units were updated.
func (l *Learner) Learn(x feature.Vector, labels []string) (updated int, err error) {
	if err = x.Validate(); err != nil {
		return 0, errors.WithMessage(err, "multilabel learn")
	}
	wanted := make(map[string]struct{}, len(labels))
	for _, label := range labels {
		if _, ok := l.index[label]; !ok {
			if err = l.spawn(label); err != nil {
				return 0, err
			}
		}
		wanted[label] = struct{}{}
	}

	changed := make([]bool, len(l.network))
	err = l.each(func(i int, unit *ltu.LTU) error {
		_, positive := wanted[l.predictions[i]]
		changed[i] = unit.LearnBinary(x, positive)
		return nil
	})
	for _, c := range changed {
		if c {
			updated++
		}
	}
	return updated, err
}

// each calls fn once per unit, fanning out across the configured workers. Calls for different units may run
// concurrently; units share no state.
func (l *Learner) each(fn func(i int, unit *ltu.LTU) error) error {
	if l.workers < 2 || len(l.network) < 2 {
		for i, unit := range l.network {
			if err := fn(i, unit); err != nil {
				return err
			}
		}
		return nil
	}
	var g errgroup.Group
	g.SetLimit(l.workers)
	for i, unit := range l.network {
		g.Go(func() error { return fn(i, unit) })
	}
	return g.Wait()
}

func (l *Learner) rawScores(x feature.Vector) []float64 {
	retVal := make([]float64, len(l.network))
	l.each(func(i int, unit *ltu.LTU) error {
		retVal[i] = unit.Score(x)
		return nil
	})
	return retVal
}

// Classify returns, in unit order, every label whose unit gives x a score of at least zero. The units' thresholds are
// not consulted.
func (l *Learner) Classify(x feature.Vector) []string {
	var retVal []string
	for i, s := range l.rawScores(x) {
		if s >= 0 {
			retVal = append(retVal, l.predictions[i])
		}
	}
	return retVal
}

// Scores returns each unit's score minus its threshold, in unit order.
func (l *Learner) Scores(x feature.Vector) feature.ScoreSet {
	raw := l.rawScores(x)
	retVal := make(feature.ScoreSet, len(raw))
	for i, s := range raw {
		retVal[i] = feature.Score{Label: l.predictions[i], Value: s - l.network[i].Threshold()}
	}
	return retVal
}

// ScoreBatch scores several examples at once. Row i of the result holds Scores(xs[i]) in unit order. It returns nil
// when there are no examples or no units.
func (l *Learner) ScoreBatch(xs []feature.Vector) *tensor.Dense {
	rows, cols := len(xs), len(l.network)
	if rows == 0 || cols == 0 {
		return nil
	}
	backing := make([]float64, 0, rows*cols)
	for _, x := range xs {
		backing = append(backing, l.Scores(x).Values()...)
	}
	return tensor.New(tensor.WithShape(rows, cols), tensor.WithBacking(backing))
}

// Forget drops every unit. The base template is kept.
func (l *Learner) Forget() {
	l.network = nil
	l.predictions = nil
	l.index = make(map[string]int)
}

// Clone returns a deep copy that shares nothing with l.
func (l *Learner) Clone() *Learner {
	c := &Learner{
		name:        l.name,
		base:        l.base.Clone(),
		network:     make([]*ltu.LTU, len(l.network)),
		predictions: append([]string(nil), l.predictions...),
		index:       make(map[string]int, len(l.index)),
		workers:     l.workers,
		log:         l.log,
	}
	for i, unit := range l.network {
		c.network[i] = unit.Clone()
	}
	for k, v := range l.index {
		c.index[k] = v
	}
	return c
}
