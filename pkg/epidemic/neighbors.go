package epidemic

// mooreOffsets lists the eight (drow, dcol) neighbor offsets.
var mooreOffsets = [8][2]int{
	{-1, -1}, {-1, 0}, {-1, 1},
	{0, -1}, {0, 1},
	{1, -1}, {1, 0}, {1, 1},
}

// overflow maps a coordinate to the automaton step it implies.
func overflow(v, n int) int {
	switch {
	case v < 0:
		return -1
	case v >= n:
		return 1
	}
	return 0
}

// wrap moves an overflowed coordinate to the opposite edge.
func wrap(v, n int) int {
	switch {
	case v < 0:
		return n - 1
	case v >= n:
		return 0
	}
	return v
}

// ResolveNeighbor locates the cell at offset (drow, dcol) from (row, col)
// in a. When the offset leaves a's grid the neighbor lives in the adjacent
// automaton, which must exist and share a's id; otherwise ok is false.
func (m *Matrix) ResolveNeighbor(a *Automaton, row, col, drow, dcol int) (*Automaton, int, int, bool) {
	n := a.n
	nr, nc := row+drow, col+dcol
	if nr >= 0 && nr < n && nc >= 0 && nc < n {
		return a, nr, nc, true
	}
	target, ok := m.At(a.row+overflow(nr, n), a.col+overflow(nc, n))
	if !ok || target.id != a.id {
		return nil, 0, 0, false
	}
	return target, wrap(nr, n), wrap(nc, n), true
}

// CountInfectedNeighbors counts infected cells in the Moore neighborhood of
// (row, col) in a, following same-id automata across boundaries. The
// result is in [0, 8].
func (m *Matrix) CountInfectedNeighbors(a *Automaton, row, col int) int {
	infected := 0
	for _, d := range mooreOffsets {
		target, nr, nc, ok := m.ResolveNeighbor(a, row, col, d[0], d[1])
		if !ok {
			continue
		}
		if target.cells[nr*target.n+nc].State == Infected {
			infected++
		}
	}
	return infected
}
