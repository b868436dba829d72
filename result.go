package sparselearn

import "fmt"

// Result holds micro-averaged multi-label test figures.
type Result struct {
	Examples       int
	ExactMatches   int // examples whose predicted label set equals the given one
	TruePositives  int
	FalsePositives int
	FalseNegatives int
}

func (r *Result) add(want, got []string) {
	r.Examples++
	wantSet := make(map[string]struct{}, len(want))
	for _, l := range want {
		wantSet[l] = struct{}{}
	}
	gotSet := make(map[string]struct{}, len(got))
	for _, l := range got {
		gotSet[l] = struct{}{}
	}

	for l := range gotSet {
		if _, ok := wantSet[l]; ok {
			r.TruePositives++
		} else {
			r.FalsePositives++
		}
	}
	missed := 0
	for l := range wantSet {
		if _, ok := gotSet[l]; !ok {
			missed++
		}
	}
	r.FalseNegatives += missed
	if missed == 0 && len(gotSet) == len(wantSet) {
		r.ExactMatches++
	}
}

// sameLabels reports whether a and b hold the same set of labels.
func sameLabels(a, b []string) bool {
	set := make(map[string]bool, len(a))
	for _, l := range a {
		set[l] = false
	}
	for _, l := range b {
		if _, ok := set[l]; !ok {
			return false
		}
		set[l] = true
	}
	for _, seen := range set {
		if !seen {
			return false
		}
	}
	return true
}

func ratio(a, b int) float64 {
	if b == 0 {
		return 0
	}
	return float64(a) / float64(b)
}

// Precision is TP/(TP+FP), or 0 when nothing was predicted.
func (r Result) Precision() float64 { return ratio(r.TruePositives, r.TruePositives+r.FalsePositives) }

// Recall is TP/(TP+FN), or 0 when nothing was expected.
func (r Result) Recall() float64 { return ratio(r.TruePositives, r.TruePositives+r.FalseNegatives) }

// F1 is the harmonic mean of Precision and Recall.
func (r Result) F1() float64 {
	p, rc := r.Precision(), r.Recall()
	if p+rc == 0 {
		return 0
	}
	return 2 * p * rc / (p + rc)
}

// Accuracy is the fraction of examples whose label set was predicted exactly.
func (r Result) Accuracy() float64 { return ratio(r.ExactMatches, r.Examples) }

func (r Result) String() string {
	return fmt.Sprintf("examples %d, precision %.3f, recall %.3f, F1 %.3f, exact match %.3f",
		r.Examples, r.Precision(), r.Recall(), r.F1(), r.Accuracy())
}
