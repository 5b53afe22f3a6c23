package analytics

import (
	"strings"

	"golang.org/x/text/cases"
)

// tally is a frequency count that remembers first-seen order, so the most
// frequent label is deterministic: on equal counts the earliest label wins.
type tally struct {
	fold   cases.Caser
	order  []string
	counts map[string]int
}

func newTally() *tally {
	return &tally{fold: cases.Fold(), counts: make(map[string]int)}
}

// add counts label after trimming and case folding. Blank labels are ignored.
func (t *tally) add(label string) {
	label = strings.TrimSpace(label)
	if label == "" {
		return
	}
	label = t.fold.String(label)
	if _, seen := t.counts[label]; !seen {
		t.order = append(t.order, label)
	}
	t.counts[label]++
}

// top returns the most frequent label, or "" when nothing was counted.
func (t *tally) top() string {
	best, bestN := "", 0
	for _, l := range t.order {
		if n := t.counts[l]; n > bestN {
			best, bestN = l, n
		}
	}
	return best
}

// mean accumulates an average over optional values.
type mean struct {
	sum float64
	n   int
}

func (m *mean) add(v *float64) {
	if v == nil {
		return
	}
	m.addValue(*v)
}

func (m *mean) addValue(v float64) {
	m.sum += v
	m.n++
}

// value returns the mean, or nil when no values were added.
func (m mean) value() *float64 {
	if m.n == 0 {
		return nil
	}
	return Float(m.sum / float64(m.n))
}
