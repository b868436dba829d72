package sparselearn

import (
	"encoding/csv"
	"os"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"gonum.org/v1/gonum/floats"
)

// Round records one pass over the training data.
type Round struct {
	Examples int // examples seen
	Mistakes int // examples whose predicted label set differed from the given one before learning
	Updates  int // unit updates, including those for correct predictions inside a margin
	Labels   int // units at the end of the round
	Duration time.Duration
}

// MistakeRate is Mistakes/Examples, or 0 for an empty round.
func (r Round) MistakeRate() float64 {
	if r.Examples == 0 {
		return 0
	}
	return float64(r.Mistakes) / float64(r.Examples)
}

// Statistics accumulates per round training figures.
type Statistics struct {
	Rounds []Round
}

func makeStatistics() Statistics {
	return Statistics{Rounds: make([]Round, 0, 16)}
}

func (s *Statistics) update(r Round) { s.Rounds = append(s.Rounds, r) }

// MistakeRates returns the mistake rate of every round.
func (s *Statistics) MistakeRates() []float64 {
	retVal := make([]float64, len(s.Rounds))
	for i, r := range s.Rounds {
		retVal[i] = r.MistakeRate()
	}
	return retVal
}

// MeanMistakeRate averages MistakeRates. It is 0 before the first round.
func (s *Statistics) MeanMistakeRate() float64 {
	if len(s.Rounds) == 0 {
		return 0
	}
	return floats.Sum(s.MistakeRates()) / float64(len(s.Rounds))
}

var statisticsHeader = []string{"round", "examples", "mistakes", "updates", "labels", "mistakeRate", "seconds"}

// Dump writes the statistics to filename as CSV, one row per round.
func (s *Statistics) Dump(filename string) (err error) {
	f, err := os.OpenFile(filename, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
	if err != nil {
		return errors.WithStack(err)
	}
	defer func() { err = multierr.Append(err, f.Close()) }()

	w := csv.NewWriter(f)
	records := [][]string{statisticsHeader}
	for i, r := range s.Rounds {
		records = append(records, []string{
			strconv.Itoa(i),
			strconv.Itoa(r.Examples),
			strconv.Itoa(r.Mistakes),
			strconv.Itoa(r.Updates),
			strconv.Itoa(r.Labels),
			strconv.FormatFloat(r.MistakeRate(), 'f', 3, 64),
			strconv.FormatFloat(r.Duration.Seconds(), 'f', 3, 64),
		})
	}
	// WriteAll flushes
	return errors.WithStack(w.WriteAll(records))
}
