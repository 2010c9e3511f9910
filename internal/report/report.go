// Package report renders plain-text views of an epidemic matrix: the id
// layout, per-automaton census lines and cell grids.
package report

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"epigrid/pkg/epidemic"
)

// WriteIDs prints the id layout, one matrix row per line.
func WriteIDs(w io.Writer, m *epidemic.Matrix) error {
	var b strings.Builder
	b.WriteString("Automaton ids:\n")
	for _, row := range m.IDs() {
		for i, id := range row {
			if i > 0 {
				b.WriteByte(' ')
			}
			fmt.Fprintf(&b, "ID:%2d", id)
		}
		b.WriteByte('\n')
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// WriteCensus recomputes every automaton's counters and prints one aligned
// line per automaton followed by the domain total.
func WriteCensus(w io.Writer, m *epidemic.Matrix) error {
	tw := tabwriter.NewWriter(w, 0, 4, 1, ' ', 0)
	fmt.Fprintln(tw, "automaton\tid\tS\tE\tI\tR\tV\t")
	var total epidemic.Counts
	m.Each(func(a *epidemic.Automaton) {
		c := a.RecomputeCounts()
		total = total.Add(c)
		r, col := a.Position()
		fmt.Fprintf(tw, "(%d,%d)\t%d\t%d\t%d\t%d\t%d\t%d\t\n", r, col, a.ID(),
			c[epidemic.Susceptible], c[epidemic.Exposed], c[epidemic.Infected], c[epidemic.Recovered], c[epidemic.Vacant])
	})
	fmt.Fprintf(tw, "total\t\t%d\t%d\t%d\t%d\t%d\t\n",
		total[epidemic.Susceptible], total[epidemic.Exposed], total[epidemic.Infected], total[epidemic.Recovered], total[epidemic.Vacant])
	return tw.Flush()
}

// GridGlyph is the character used for s in WriteGrid. Vacant cells are
// drawn as '.'.
func GridGlyph(s epidemic.State) byte {
	if s == epidemic.Vacant {
		return '.'
	}
	return s.String()[0]
}

// WriteGrid prints the cell states of a, one grid row per line.
func WriteGrid(w io.Writer, a *epidemic.Automaton) error {
	var b strings.Builder
	r, c := a.Position()
	fmt.Fprintf(&b, "Automaton (%d,%d) id %d:\n", r, c, a.ID())
	n := a.Size()
	states := a.States()
	for row := 0; row < n; row++ {
		for col := 0; col < n; col++ {
			if col > 0 {
				b.WriteByte(' ')
			}
			b.WriteByte(GridGlyph(states[row*n+col]))
		}
		b.WriteByte('\n')
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// WriteGrids prints every automaton grid in row-major order separated by
// blank lines.
func WriteGrids(w io.Writer, m *epidemic.Matrix) error {
	var err error
	first := true
	m.Each(func(a *epidemic.Automaton) {
		if err != nil {
			return
		}
		if !first {
			if _, err = io.WriteString(w, "\n"); err != nil {
				return
			}
		}
		first = false
		err = WriteGrid(w, a)
	})
	return err
}
