package epidemic

// Automaton is one N×N sub-grid of the domain. Cells are stored row-major.
//
// The counters returned by Counts are a cache: they are refreshed only by
// RecomputeCounts (and FillRegionRecount) and may drift after FillRegion
// or Advance.
type Automaton struct {
	n        int
	id       int
	row, col int
	cells    []Cell
	counts   Counts
}

// NewAutomaton allocates a vacant N×N automaton at matrix position (row, col).
func NewAutomaton(id, n, row, col int) *Automaton {
	if n <= 0 {
		n = 1
	}
	a := &Automaton{
		n:     n,
		id:    id,
		row:   row,
		col:   col,
		cells: make([]Cell, n*n),
	}
	a.reset()
	return a
}

// Clear returns every cell to vacant with default rates.
func (a *Automaton) Clear() { a.reset() }

func (a *Automaton) reset() {
	for i := range a.cells {
		a.cells[i] = NewCell()
	}
	a.counts = Counts{}
	a.counts[Vacant] = len(a.cells)
}

// Size returns N, the side length of the grid.
func (a *Automaton) Size() int { return a.n }

// ID returns the connectivity group of the automaton.
func (a *Automaton) ID() int { return a.id }

// SetID changes the connectivity group.
func (a *Automaton) SetID(id int) { a.id = id }

// Position reports the automaton's (row, col) inside its matrix.
func (a *Automaton) Position() (int, int) { return a.row, a.col }

// Index returns the linear index of (row, col).
func (a *Automaton) Index(row, col int) int { return row*a.n + col }

// InBounds reports whether (row, col) addresses a cell of this grid.
func (a *Automaton) InBounds(row, col int) bool {
	return row >= 0 && row < a.n && col >= 0 && col < a.n
}

// StateAt returns the state of the cell at (row, col). Out-of-range
// coordinates read as Vacant.
func (a *Automaton) StateAt(row, col int) State {
	if !a.InBounds(row, col) {
		return Vacant
	}
	return a.cells[a.Index(row, col)].State
}

// CellAt returns a copy of the cell at (row, col).
func (a *Automaton) CellAt(row, col int) (Cell, bool) {
	if !a.InBounds(row, col) {
		return Cell{}, false
	}
	return a.cells[a.Index(row, col)], true
}

// States returns a row-major snapshot of every cell state.
func (a *Automaton) States() []State {
	out := make([]State, len(a.cells))
	for i, c := range a.cells {
		out[i] = c.State
	}
	return out
}

// Counts returns the cached census, which may be stale.
func (a *Automaton) Counts() Counts { return a.counts }

// RecomputeCounts rebuilds the census from a full scan and returns it.
func (a *Automaton) RecomputeCounts() Counts {
	a.counts = Counts{}
	for _, c := range a.cells {
		if int(c.State) < NumStates {
			a.counts[c.State]++
		}
	}
	return a.counts
}

// clip intersects [start, start+length) with [0, n).
func clip(start, length, n int) (int, int) {
	end := start + length
	if start < 0 {
		start = 0
	}
	if end > n {
		end = n
	}
	return start, end
}

// FillRegion sets every cell in the rectangle to state, clipped to the
// grid, and returns how many cells were written. States outside the five
// defined ones are ignored and write nothing.
//
// The counter for state is incremented once per cell written; the counter
// of the state each cell held before is left untouched. Overlapping fills
// therefore inflate the census until RecomputeCounts is called. Use
// FillRegionRecount when the counters must stay exact.
func (a *Automaton) FillRegion(state State, startRow, startCol, height, width int) int {
	if int(state) >= NumStates {
		return 0
	}
	r0, r1 := clip(startRow, height, a.n)
	c0, c1 := clip(startCol, width, a.n)
	touched := 0
	for r := r0; r < r1; r++ {
		for c := c0; c < c1; c++ {
			a.cells[r*a.n+c].State = state
			a.counts[state]++
			touched++
		}
	}
	return touched
}

// FillRegionRecount behaves like FillRegion but rescans the grid
// afterwards so the counters sum to N².
func (a *Automaton) FillRegionRecount(state State, startRow, startCol, height, width int) int {
	touched := a.FillRegion(state, startRow, startCol, height, width)
	a.RecomputeCounts()
	return touched
}

// SetRates overrides the transition rates of every cell in the clipped
// rectangle.
func (a *Automaton) SetRates(rates Rates, startRow, startCol, height, width int) int {
	r0, r1 := clip(startRow, height, a.n)
	c0, c1 := clip(startCol, width, a.n)
	touched := 0
	for r := r0; r < r1; r++ {
		for c := c0; c < c1; c++ {
			a.cells[r*a.n+c].Rates = rates
			touched++
		}
	}
	return touched
}
