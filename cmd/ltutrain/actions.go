package main

import (
	"fmt"
	"os"
	"os/signal"

	"github.com/gorgonia/sparselearn"
	"github.com/gorgonia/sparselearn/feature"
	"github.com/gorgonia/sparselearn/internal/svmlight"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

func newLogger(c *cli.Context) (*zap.SugaredLogger, error) {
	var l *zap.Logger
	var err error
	if c.Bool(flagDebug) {
		l, err = zap.NewDevelopment()
	} else {
		l, err = zap.NewProduction()
	}
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return l.Sugar(), nil
}

// loadConfig starts from the defaults, overlays the parameter file and then any flags that were given.
func loadConfig(c *cli.Context) (sparselearn.Config, error) {
	conf := sparselearn.DefaultConfig()
	if filename := c.Path(flagParams); filename != "" {
		data, err := os.ReadFile(filename)
		if err != nil {
			return conf, errors.WithStack(err)
		}
		if err = yaml.Unmarshal(data, &conf); err != nil {
			return conf, errors.Wrapf(err, "parsing %s", filename)
		}
	}
	if c.IsSet(flagRounds) {
		conf.Rounds = c.Int(flagRounds)
	}
	if c.Bool(flagWinnow) {
		conf.Algorithm = sparselearn.Winnow
	}
	if c.IsSet(flagWorkers) {
		conf.Workers = c.Int(flagWorkers)
	}
	if c.Bool(flagShuffle) {
		conf.Shuffle = true
	}
	if c.IsSet(flagSeed) {
		conf.Seed = c.Uint64(flagSeed)
		conf.Vector.Seed = conf.Seed
	}
	if !conf.IsValid() {
		return conf, errors.Errorf("invalid configuration %+v", conf)
	}
	return conf, nil
}

// loadModel builds a Trainer around the model saved in the --model file.
func loadModel(c *cli.Context, log *zap.SugaredLogger) (*sparselearn.Trainer, error) {
	t, err := sparselearn.New(sparselearn.DefaultConfig(), sparselearn.WithLogger(log))
	if err != nil {
		return nil, err
	}
	if err = t.Load(c.Path(flagModel)); err != nil {
		return nil, err
	}
	return t, nil
}

func loadLexicon(c *cli.Context) (feature.Lexicon, error) {
	filename := c.Path(flagLexicon)
	if filename == "" {
		return nil, nil
	}
	names, err := svmlight.ReadLexiconFile(filename)
	if err != nil {
		return nil, err
	}
	return names, nil
}

func trainAction(c *cli.Context) (err error) {
	log, err := newLogger(c)
	if err != nil {
		return err
	}
	defer log.Sync()

	conf, err := loadConfig(c)
	if err != nil {
		return err
	}
	t, err := sparselearn.New(conf, sparselearn.WithLogger(log))
	if err != nil {
		return err
	}

	p, err := svmlight.Open(c.Path(flagData))
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, p.Close()) }()

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt)
	defer stop()
	if err = t.Train(ctx, p); err != nil {
		return err
	}
	if err = t.Save(c.Path(flagModel)); err != nil {
		return err
	}
	if filename := c.Path(flagStats); filename != "" {
		if err = t.Dump(filename); err != nil {
			return err
		}
	}
	log.Infow("trained", "model", c.Path(flagModel), "labels", t.Learner().Len())
	return nil
}

func testAction(c *cli.Context) (err error) {
	log, err := newLogger(c)
	if err != nil {
		return err
	}
	defer log.Sync()

	t, err := loadModel(c, log)
	if err != nil {
		return err
	}
	p, err := svmlight.Open(c.Path(flagData))
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, p.Close()) }()

	res, err := t.Test(p)
	if err != nil {
		return err
	}
	fmt.Fprintln(c.App.Writer, res)
	return nil
}

func dumpAction(c *cli.Context) error {
	log, err := newLogger(c)
	if err != nil {
		return err
	}
	defer log.Sync()

	t, err := loadModel(c, log)
	if err != nil {
		return err
	}
	lex, err := loadLexicon(c)
	if err != nil {
		return err
	}
	return t.WriteText(c.App.Writer, lex)
}

func dotAction(c *cli.Context) error {
	log, err := newLogger(c)
	if err != nil {
		return err
	}
	defer log.Sync()

	t, err := loadModel(c, log)
	if err != nil {
		return err
	}
	lex, err := loadLexicon(c)
	if err != nil {
		return err
	}
	dot, err := t.ToDot(lex, c.Int(flagTop))
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(c.App.Writer, dot)
	return errors.WithStack(err)
}
