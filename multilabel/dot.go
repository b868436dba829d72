package multilabel

import (
	"math"
	"sort"
	"strconv"

	"github.com/awalterschulze/gographviz"
	"github.com/gorgonia/sparselearn/feature"
	"github.com/pkg/errors"
)

type weighted struct {
	index int
	w     float64
}

// strongest returns the k weights of largest magnitude, largest first. Ties go to the lower index.
func strongest(each func(func(int, float64)), k int) []weighted {
	var ws []weighted
	each(func(i int, w float64) { ws = append(ws, weighted{i, w}) })
	sort.SliceStable(ws, func(i, j int) bool { return math.Abs(ws[i].w) > math.Abs(ws[j].w) })
	if k >= 0 && len(ws) > k {
		ws = ws[:k]
	}
	return ws
}

// ToDot renders the learner as a Graphviz digraph. Every label is a box, and each of its unit's k strongest features
// is linked to it by an edge labelled with the weight. Positive weights are drawn in blue and negative ones in red.
// A negative k draws every feature. Features are named through lex when it is not nil.
func (l *Learner) ToDot(lex feature.Lexicon, k int) (string, error) {
	g := gographviz.NewGraph()
	if err := g.SetName("G"); err != nil {
		return "", errors.WithStack(err)
	}
	if err := g.SetDir(true); err != nil {
		return "", errors.WithStack(err)
	}

	added := make(map[int]bool)
	for i, unit := range l.network {
		label := l.predictions[i]
		labelID := strconv.Quote("label:" + label)
		attrs := map[string]string{
			"shape": "box",
			"label": strconv.Quote(label),
		}
		if err := g.AddNode("G", labelID, attrs); err != nil {
			return "", errors.Wrapf(err, "adding label %q", label)
		}

		for _, fw := range strongest(unit.Weights().Each, k) {
			featID := strconv.Quote("f" + strconv.Itoa(fw.index))
			if !added[fw.index] {
				name := strconv.Itoa(fw.index)
				if lex != nil {
					if s, ok := lex.Lookup(fw.index); ok {
						name = s
					}
				}
				if err := g.AddNode("G", featID, map[string]string{"label": strconv.Quote(name)}); err != nil {
					return "", errors.Wrapf(err, "adding feature %d", fw.index)
				}
				added[fw.index] = true
			}
			colour := "blue"
			if fw.w < 0 {
				colour = "red"
			}
			edgeAttrs := map[string]string{
				"label": strconv.Quote(strconv.FormatFloat(fw.w, 'g', 4, 64)),
				"color": colour,
			}
			if err := g.AddEdge(featID, labelID, true, edgeAttrs); err != nil {
				return "", errors.Wrapf(err, "adding edge %d -> %q", fw.index, label)
			}
		}
	}
	return g.String(), nil
}
