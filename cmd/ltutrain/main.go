// Command ltutrain trains, evaluates and inspects multi-label linear threshold unit models.
package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
)

const (
	flagData    = "data"
	flagModel   = "model"
	flagParams  = "params"
	flagRounds  = "rounds"
	flagWinnow  = "winnow"
	flagWorkers = "workers"
	flagShuffle = "shuffle"
	flagSeed    = "seed"
	flagStats   = "stats"
	flagLexicon = "lexicon"
	flagTop     = "top"
	flagDebug   = "debug"
)

var trainFlags = []cli.Flag{
	&cli.PathFlag{Name: flagData, Required: true, Usage: "training examples"},
	&cli.PathFlag{Name: flagModel, Required: true, Usage: "where to write the model"},
	&cli.PathFlag{Name: flagParams, Usage: "YAML file of training parameters"},
	&cli.IntFlag{Name: flagRounds, Usage: "passes over the training data"},
	&cli.BoolFlag{Name: flagWinnow, Usage: "use the Winnow update rule instead of the Perceptron"},
	&cli.IntFlag{Name: flagWorkers, Usage: "labels updated concurrently"},
	&cli.BoolFlag{Name: flagShuffle, Usage: "shuffle the examples every round"},
	&cli.Uint64Flag{Name: flagSeed, Usage: "seed for shuffling and random weight vectors"},
	&cli.PathFlag{Name: flagStats, Usage: "write per round statistics to this CSV file"},
}

func main() {
	app := &cli.App{
		Name:  "ltutrain",
		Usage: "train and inspect one-vs-rest linear threshold unit models",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  flagDebug,
				Usage: "log at debug level in a human readable format",
			},
		},
		Commands: []*cli.Command{
			{
				Name:      "train",
				Usage:     "train a model on labelled examples",
				UsageText: "ltutrain train --data <file> --model <file> [other options]",
				Flags:     trainFlags,
				Action:    trainAction,
			},
			{
				Name:  "test",
				Usage: "evaluate a model on labelled examples",
				Flags: []cli.Flag{
					&cli.PathFlag{Name: flagData, Required: true, Usage: "test examples"},
					&cli.PathFlag{Name: flagModel, Required: true, Usage: "model to evaluate"},
				},
				Action: testAction,
			},
			{
				Name:  "dump",
				Usage: "print a model as text",
				Flags: []cli.Flag{
					&cli.PathFlag{Name: flagModel, Required: true, Usage: "model to print"},
					&cli.PathFlag{Name: flagLexicon, Usage: "feature names, one per line"},
				},
				Action: dumpAction,
			},
			{
				Name:  "dot",
				Usage: "print the strongest features of every label as a Graphviz digraph",
				Flags: []cli.Flag{
					&cli.PathFlag{Name: flagModel, Required: true, Usage: "model to draw"},
					&cli.PathFlag{Name: flagLexicon, Usage: "feature names, one per line"},
					&cli.IntFlag{Name: flagTop, Value: 5, Usage: "features drawn per label; negative draws all"},
				},
				Action: dotAction,
			},
		},
	}
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "%+v\n", err)
		os.Exit(1)
	}
}
