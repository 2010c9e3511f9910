package epidemic

import (
	"fmt"
	"strings"
)

// Counts is a census of cells per state, indexed by State.
type Counts [NumStates]int

// Get returns the count for s.
func (c Counts) Get(s State) int {
	if int(s) >= NumStates {
		return 0
	}
	return c[s]
}

// Total sums every state's count.
func (c Counts) Total() int {
	total := 0
	for _, v := range c {
		total += v
	}
	return total
}

// Add returns the element-wise sum of c and o.
func (c Counts) Add(o Counts) Counts {
	for i := range c {
		c[i] += o[i]
	}
	return c
}

// Occupied returns the number of non-vacant cells.
func (c Counts) Occupied() int {
	return c.Total() - c[Vacant]
}

// String renders the census as "S: n | E: n | I: n | R: n | V: n".
func (c Counts) String() string {
	var b strings.Builder
	order := []State{Susceptible, Exposed, Infected, Recovered, Vacant}
	for i, s := range order {
		if i > 0 {
			b.WriteString(" | ")
		}
		fmt.Fprintf(&b, "%s: %d", s, c[s])
	}
	return b.String()
}
