package weights

import (
	"bufio"
	"io"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/gorgonia/sparselearn/feature"
	"github.com/pkg/errors"
)

type param struct {
	name  string
	value float64
}

type entry struct {
	key string
	w   float64
}

// formatFloat is the shortest representation that round trips.
func formatFloat(f float64) string { return strconv.FormatFloat(f, 'g', -1, 64) }

// writeText writes
//
//	Begin <typeName>
//	<name> = <value>      one line per parameter
//	<key>  <weight>       one line per stored weight
//	End <typeName>
//
// Without a lexicon the keys are feature indices in ascending order. With one they are feature names sorted by name;
// a feature missing from the lexicon is keyed by its index.
func writeText(w io.Writer, typeName string, params []param, v *Sparse, lex feature.Lexicon) error {
	entries := make([]entry, 0, v.Len())
	v.Each(func(index int, wt float64) {
		key := strconv.Itoa(index)
		if lex != nil {
			if name, ok := lex.Lookup(index); ok {
				key = name
			}
		}
		entries = append(entries, entry{key, wt})
	})
	if lex != nil {
		sort.SliceStable(entries, func(i, j int) bool { return entries[i].key < entries[j].key })
	}

	// pad every key to a common even width so that the weights line up
	width := 0
	for _, e := range entries {
		width = max(width, utf8.RuneCountInString(e.key))
	}
	if width%2 == 0 {
		width += 2
	} else {
		width++
	}

	bw := bufio.NewWriter(w)
	bw.WriteString("Begin " + typeName + "\n")
	for _, p := range params {
		bw.WriteString(p.name + " = " + formatFloat(p.value) + "\n")
	}
	for _, e := range entries {
		bw.WriteString(e.key)
		bw.WriteString(strings.Repeat(" ", width-utf8.RuneCountInString(e.key)))
		bw.WriteString(formatFloat(e.w) + "\n")
	}
	bw.WriteString("End " + typeName + "\n")
	return errors.WithStack(bw.Flush())
}
