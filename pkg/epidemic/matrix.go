package epidemic

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidShape is returned when a matrix dimension is not positive.
	ErrInvalidShape = errors.New("matrix dimensions must be positive")
	// ErrOutOfBounds is returned for positions outside the matrix.
	ErrOutOfBounds = errors.New("position outside matrix")
)

// Matrix is the rows×cols domain of automata. It owns every automaton;
// automata refer back to it only through their (row, col) position.
type Matrix struct {
	rows, cols int
	n          int
	automata   []*Automaton
}

// NewMatrix builds a rows×cols matrix of vacant N×N automata, all tagged
// with the given id.
func NewMatrix(rows, cols, n, id int) (*Matrix, error) {
	if rows <= 0 || cols <= 0 || n <= 0 {
		return nil, fmt.Errorf("%w: rows=%d cols=%d n=%d", ErrInvalidShape, rows, cols, n)
	}
	m := &Matrix{rows: rows, cols: cols, n: n, automata: make([]*Automaton, rows*cols)}
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			m.automata[r*cols+c] = NewAutomaton(id, n, r, c)
		}
	}
	return m, nil
}

// Shape returns the number of automaton rows and columns.
func (m *Matrix) Shape() (int, int) { return m.rows, m.cols }

// AutomatonSize returns N, shared by every automaton.
func (m *Matrix) AutomatonSize() int { return m.n }

// Contains reports whether (row, col) is inside the matrix.
func (m *Matrix) Contains(row, col int) bool {
	return row >= 0 && row < m.rows && col >= 0 && col < m.cols
}

// At returns the automaton at (row, col).
func (m *Matrix) At(row, col int) (*Automaton, bool) {
	if !m.Contains(row, col) {
		return nil, false
	}
	return m.automata[row*m.cols+col], true
}

// ID returns the id of the automaton at (row, col).
func (m *Matrix) ID(row, col int) (int, error) {
	a, ok := m.At(row, col)
	if !ok {
		return 0, fmt.Errorf("%w: (%d,%d)", ErrOutOfBounds, row, col)
	}
	return a.id, nil
}

// SetID assigns the id of the automaton at (row, col).
func (m *Matrix) SetID(row, col, id int) error {
	a, ok := m.At(row, col)
	if !ok {
		return fmt.Errorf("%w: (%d,%d)", ErrOutOfBounds, row, col)
	}
	a.id = id
	return nil
}

// IDs returns the id layout row by row.
func (m *Matrix) IDs() [][]int {
	out := make([][]int, m.rows)
	for r := range out {
		out[r] = make([]int, m.cols)
		for c := range out[r] {
			out[r][c] = m.automata[r*m.cols+c].id
		}
	}
	return out
}

// Each calls fn for every automaton in row-major order.
func (m *Matrix) Each(fn func(a *Automaton)) {
	for _, a := range m.automata {
		fn(a)
	}
}

// Clear empties every automaton. Ids and positions are kept.
func (m *Matrix) Clear() {
	for _, a := range m.automata {
		a.reset()
	}
}

// RecomputeCounts refreshes every automaton's census and returns their sum.
func (m *Matrix) RecomputeCounts() Counts {
	var total Counts
	for _, a := range m.automata {
		total = total.Add(a.RecomputeCounts())
	}
	return total
}
